// Package imageopt downsizes and recompresses uploaded photos before they
// are stored. Batches are processed sequentially and each item carries its
// own status so one bad file does not stop the rest.
package imageopt

import (
	"bytes"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"

	"golang.org/x/image/draw"
)

// Default bounds and JPEG quality for optimized uploads.
const (
	MaxWidth  = 1920
	MaxHeight = 1080
	Quality   = 85
)

// fallbackQualities are tried in order when the default quality produces a
// file larger than the upload.
var fallbackQualities = []int{75, 65, 55}

// Options bound the output of Optimize.
type Options struct {
	MaxWidth  int
	MaxHeight int
	Quality   int
}

// DefaultOptions returns 1920×1080 at quality 85.
func DefaultOptions() Options {
	return Options{MaxWidth: MaxWidth, MaxHeight: MaxHeight, Quality: Quality}
}

// Result is an optimized image.
type Result struct {
	Data         []byte
	Format       string // "jpeg", "png" or "gif"
	Width        int
	Height       int
	OriginalSize int
	Resized      bool
	KeptOriginal bool // the upload was already smaller than any re-encode; Width and Height are the original size
}

// Ext returns the file extension for the result format, with the dot.
func (r Result) Ext() string {
	switch r.Format {
	case "png":
		return ".png"
	case "gif":
		return ".gif"
	default:
		return ".jpg"
	}
}

// ContentType returns the MIME type of the result.
func (r Result) ContentType() string {
	return "image/" + r.Format
}

// Saved returns how many bytes optimization removed.
func (r Result) Saved() int {
	return r.OriginalSize - len(r.Data)
}

// Fit scales w×h down to fit within maxW×maxH, preserving aspect ratio.
// Images already inside the bounds are returned unchanged.
func Fit(w, h, maxW, maxH int) (int, int) {
	if w <= 0 || h <= 0 {
		return w, h
	}
	if (maxW <= 0 || w <= maxW) && (maxH <= 0 || h <= maxH) {
		return w, h
	}
	nw, nh := w, h
	if maxW > 0 && nw > maxW {
		nh = nh * maxW / nw
		nw = maxW
	}
	if maxH > 0 && nh > maxH {
		nw = nw * maxH / nh
		nh = maxH
	}
	if nw < 1 {
		nw = 1
	}
	if nh < 1 {
		nh = 1
	}
	return nw, nh
}

// Optimize decodes data, scales it to fit opts and encodes JPEG, falling
// back to the source format. The result is never larger than data: when no
// encoding beats the upload, the original bytes are returned unchanged.
func Optimize(data []byte, opts Options) (Result, error) {
	if opts.Quality <= 0 || opts.Quality > 100 {
		opts.Quality = Quality
	}
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return Result{}, fmt.Errorf("decode image: %w", err)
	}

	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	nw, nh := Fit(w, h, opts.MaxWidth, opts.MaxHeight)
	resized := nw != w || nh != h

	// JPEG has no alpha; flatten onto white so transparent areas do not turn black.
	canvas := image.NewRGBA(image.Rect(0, 0, nw, nh))
	draw.Draw(canvas, canvas.Bounds(), image.White, image.Point{}, draw.Src)
	if resized {
		draw.CatmullRom.Scale(canvas, canvas.Bounds(), img, bounds, draw.Over, nil)
	} else {
		draw.Draw(canvas, canvas.Bounds(), img, bounds.Min, draw.Over)
	}

	best, err := encodeJPEG(canvas, opts.Quality)
	if err != nil {
		return Result{}, err
	}
	for _, q := range fallbackQualities {
		if len(best) < len(data) {
			break
		}
		if q >= opts.Quality {
			continue
		}
		candidate, err := encodeJPEG(canvas, q)
		if err != nil {
			return Result{}, err
		}
		if len(candidate) < len(best) {
			best = candidate
		}
	}

	res := Result{
		Data:         best,
		Format:       "jpeg",
		Width:        nw,
		Height:       nh,
		OriginalSize: len(data),
		Resized:      resized,
	}
	if len(best) < len(data) {
		return res, nil
	}
	// Scaled graphics (flat colours, scans, screenshots) often stay smaller
	// in their own format.
	if resized && format != "jpeg" {
		alt, err := encodeScaled(img, format, nw, nh)
		if err != nil {
			return Result{}, err
		}
		if len(alt) < len(data) {
			res.Data = alt
			res.Format = format
			return res, nil
		}
	}
	return Result{
		Data:         data,
		Format:       format,
		Width:        w,
		Height:       h,
		OriginalSize: len(data),
		KeptOriginal: true,
	}, nil
}

// encodeScaled scales src to nw×nh and encodes it as format. Paletted
// sources keep their palette so a 1-bit scan stays 1-bit.
func encodeScaled(src image.Image, format string, nw, nh int) ([]byte, error) {
	rect := image.Rect(0, 0, nw, nh)
	var dst draw.Image
	if p, ok := src.(*image.Paletted); ok {
		dst = image.NewPaletted(rect, p.Palette)
	} else {
		dst = image.NewNRGBA(rect)
	}
	draw.CatmullRom.Scale(dst, rect, src, src.Bounds(), draw.Src, nil)

	var buf bytes.Buffer
	switch format {
	case "png":
		enc := png.Encoder{CompressionLevel: png.BestCompression}
		if err := enc.Encode(&buf, dst); err != nil {
			return nil, fmt.Errorf("encode png: %w", err)
		}
	case "gif":
		if err := gif.Encode(&buf, dst, nil); err != nil {
			return nil, fmt.Errorf("encode gif: %w", err)
		}
	default:
		return nil, fmt.Errorf("encode %s: unsupported format", format)
	}
	return buf.Bytes(), nil
}

func encodeJPEG(img image.Image, quality int) ([]byte, error) {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}); err != nil {
		return nil, fmt.Errorf("encode jpeg: %w", err)
	}
	return buf.Bytes(), nil
}
