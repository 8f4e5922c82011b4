package imageopt

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"math/rand"
	"testing"
)

func noiseImage(w, h int, seed int64) *image.RGBA {
	rng := rand.New(rand.NewSource(seed))
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{uint8(rng.Intn(256)), uint8(rng.Intn(256)), uint8(rng.Intn(256)), 255})
		}
	}
	return img
}

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("png encode: %v", err)
	}
	return buf.Bytes()
}

func encodeJPEGAt(t *testing.T, img image.Image, q int) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: q}); err != nil {
		t.Fatalf("jpeg encode: %v", err)
	}
	return buf.Bytes()
}

func TestFit(t *testing.T) {
	tests := []struct {
		w, h, maxW, maxH int
		wantW, wantH     int
	}{
		{800, 600, 1920, 1080, 800, 600},
		{1920, 1080, 1920, 1080, 1920, 1080},
		{3840, 2160, 1920, 1080, 1920, 1080},
		{4000, 3000, 1920, 1080, 1440, 1080},
		{3000, 1000, 1920, 1080, 1920, 640},
		{1000, 4000, 1920, 1080, 270, 1080},
		{5000, 10, 1920, 1080, 1920, 3},
	}
	for _, tt := range tests {
		gotW, gotH := Fit(tt.w, tt.h, tt.maxW, tt.maxH)
		if gotW != tt.wantW || gotH != tt.wantH {
			t.Errorf("Fit(%d, %d) = %dx%d, want %dx%d", tt.w, tt.h, gotW, gotH, tt.wantW, tt.wantH)
		}
	}
}

func TestOptimizeDownscalesLargeImage(t *testing.T) {
	original := encodePNG(t, noiseImage(2400, 1200, 1))

	res, err := Optimize(original, DefaultOptions())
	if err != nil {
		t.Fatalf("Optimize failed: %v", err)
	}
	if !res.Resized {
		t.Error("expected image to be resized")
	}
	if res.Width != 1920 || res.Height != 960 {
		t.Errorf("size = %dx%d, want 1920x960", res.Width, res.Height)
	}
	if res.Format != "jpeg" || res.Ext() != ".jpg" {
		t.Errorf("format = %q (%s), want jpeg", res.Format, res.Ext())
	}
	if len(res.Data) >= len(original) {
		t.Errorf("optimized size %d not smaller than original %d", len(res.Data), len(original))
	}
	cfg, _, err := image.DecodeConfig(bytes.NewReader(res.Data))
	if err != nil {
		t.Fatalf("decode optimized: %v", err)
	}
	if cfg.Width != 1920 || cfg.Height != 960 {
		t.Errorf("encoded size = %dx%d, want 1920x960", cfg.Width, cfg.Height)
	}
}

func TestOptimizeNeverGrowsSmallUpload(t *testing.T) {
	original := encodeJPEGAt(t, noiseImage(200, 100, 2), 20)

	res, err := Optimize(original, DefaultOptions())
	if err != nil {
		t.Fatalf("Optimize failed: %v", err)
	}
	if res.Resized {
		t.Error("image inside bounds should not be resized")
	}
	if len(res.Data) > len(original) {
		t.Errorf("optimized size %d larger than original %d", len(res.Data), len(original))
	}
	if res.KeptOriginal && !bytes.Equal(res.Data, original) {
		t.Error("KeptOriginal result should carry the original bytes")
	}
	if res.Saved() < 0 {
		t.Errorf("Saved = %d, want >= 0", res.Saved())
	}
}

// bitmapImage is a 1-bit paletted image of random pixels, the worst case
// for JPEG: it compresses far better as a two-colour PNG.
func bitmapImage(w, h int, seed int64) *image.Paletted {
	rng := rand.New(rand.NewSource(seed))
	img := image.NewPaletted(image.Rect(0, 0, w, h), color.Palette{color.Black, color.White})
	for i := range img.Pix {
		img.Pix[i] = uint8(rng.Intn(2))
	}
	return img
}

func TestOptimizeNeverGrowsDownscaledUpload(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"paletted png", encodePNG(t, bitmapImage(2000, 1200, 8))},
		{"noise png", encodePNG(t, noiseImage(2400, 1400, 9))},
		{"low quality jpeg", encodeJPEGAt(t, noiseImage(2400, 1400, 10), 5)},
	}
	for _, tt := range tests {
		res, err := Optimize(tt.data, DefaultOptions())
		if err != nil {
			t.Fatalf("%s: Optimize failed: %v", tt.name, err)
		}
		if len(res.Data) > len(tt.data) {
			t.Errorf("%s: optimized size %d larger than original %d (format %s, resized %v)",
				tt.name, len(res.Data), len(tt.data), res.Format, res.Resized)
		}
		if res.Saved() < 0 {
			t.Errorf("%s: Saved = %d, want >= 0", tt.name, res.Saved())
		}
		cfg, format, err := image.DecodeConfig(bytes.NewReader(res.Data))
		if err != nil {
			t.Fatalf("%s: decode optimized: %v", tt.name, err)
		}
		if format != res.Format {
			t.Errorf("%s: encoded format %q, result says %q", tt.name, format, res.Format)
		}
		if cfg.Width != res.Width || cfg.Height != res.Height {
			t.Errorf("%s: encoded size %dx%d, result says %dx%d", tt.name, cfg.Width, cfg.Height, res.Width, res.Height)
		}
		if res.KeptOriginal {
			if !bytes.Equal(res.Data, tt.data) || res.Resized {
				t.Errorf("%s: kept original should carry the upload unchanged", tt.name)
			}
		} else if !res.Resized {
			t.Errorf("%s: re-encoded result should be resized", tt.name)
		}
	}
}

func TestOptimizeRejectsNonImage(t *testing.T) {
	if _, err := Optimize([]byte("not an image"), DefaultOptions()); err == nil {
		t.Fatal("expected decode error")
	}
}

func TestBatchRunFlagsFailuresAndContinues(t *testing.T) {
	b := NewBatch(DefaultOptions())
	b.Add("a.png", encodePNG(t, noiseImage(64, 64, 3)))
	b.Add("broken.jpg", []byte("garbage"))
	b.Add("c.png", encodePNG(t, noiseImage(64, 64, 4)))

	var transitions []string
	b.OnChange = func(it *Item) {
		transitions = append(transitions, it.Name+":"+string(it.Status))
	}

	optimized, failed := b.Run(context.Background())
	if optimized != 2 || failed != 1 {
		t.Errorf("Run = (%d, %d), want (2, 1)", optimized, failed)
	}

	want := []string{
		"a.png:processing", "a.png:optimized",
		"broken.jpg:processing", "broken.jpg:error",
		"c.png:processing", "c.png:optimized",
	}
	if len(transitions) != len(want) {
		t.Fatalf("transitions = %v, want %v", transitions, want)
	}
	for i := range want {
		if transitions[i] != want[i] {
			t.Errorf("transition[%d] = %q, want %q", i, transitions[i], want[i])
		}
	}

	snap := b.Snapshot()
	if snap["broken.jpg"] != StatusError {
		t.Errorf("broken.jpg status = %q, want error", snap["broken.jpg"])
	}
	if b.Items[1].Message() == "" {
		t.Error("failed item should carry an error message")
	}
	if b.Items[0].Message() != "" {
		t.Errorf("optimized item message = %q, want empty", b.Items[0].Message())
	}
}

func TestBatchRunCancelled(t *testing.T) {
	b := NewBatch(DefaultOptions())
	b.Add("a.png", encodePNG(t, noiseImage(16, 16, 5)))
	b.Add("b.png", encodePNG(t, noiseImage(16, 16, 6)))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	optimized, failed := b.Run(ctx)
	if optimized != 0 || failed != 2 {
		t.Errorf("Run = (%d, %d), want (0, 2)", optimized, failed)
	}
	for _, it := range b.Items {
		if it.Status != StatusError || !errors.Is(it.Err, context.Canceled) {
			t.Errorf("%s: status %q err %v, want error/context.Canceled", it.Name, it.Status, it.Err)
		}
	}
}

func TestBatchRunSkipsProcessedItems(t *testing.T) {
	b := NewBatch(DefaultOptions())
	b.Add("a.png", encodePNG(t, noiseImage(16, 16, 7)))
	b.Run(context.Background())

	optimized, failed := b.Run(context.Background())
	if optimized != 0 || failed != 0 {
		t.Errorf("second Run = (%d, %d), want (0, 0)", optimized, failed)
	}
}
