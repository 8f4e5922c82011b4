package main

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/mdrrmo/portal"
	"github.com/mdrrmo/portal/imageopt"
	"github.com/mdrrmo/portal/scaffold"
)

var (
	optimizeOut     string
	optimizeQuality int
)

var optimizeCmd = &cobra.Command{
	Use:   "optimize FILE...",
	Short: "Resize and recompress photos before upload",
	Long: `Runs the same optimizer as the admin bulk upload: photos are scaled to fit
1920x1080 and re-encoded. A file that fails is reported and the rest
continue.

Example:
  portal optimize --out optimized/ photos/*.jpg`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := os.MkdirAll(optimizeOut, 0o755); err != nil {
			return err
		}
		opts := imageopt.DefaultOptions()
		opts.Quality = optimizeQuality
		batch := imageopt.NewBatch(opts)
		batch.OnChange = func(it *imageopt.Item) {
			logger.Debugf("%s: %s", it.Name, it.Status)
		}
		for _, path := range args {
			data, err := os.ReadFile(path)
			if err != nil {
				return err
			}
			batch.Add(path, data)
		}

		optimized, failed := batch.Run(cmd.Context())
		for _, it := range batch.Items {
			if it.Status != imageopt.StatusOptimized {
				logger.Warnf("%s: %s", it.Name, it.Message())
				continue
			}
			base := strings.TrimSuffix(filepath.Base(it.Name), filepath.Ext(it.Name))
			out := filepath.Join(optimizeOut, portal.Slugify(base)+it.Result.Ext())
			if err := os.WriteFile(out, it.Result.Data, 0o644); err != nil {
				return err
			}
			logger.Infof("%s -> %s (%dx%d, %s -> %s)", it.Name, out, it.Result.Width, it.Result.Height,
				humanize.Bytes(uint64(it.Result.OriginalSize)), humanize.Bytes(uint64(len(it.Result.Data))))
		}
		logger.Infof("%d optimized, %d failed", optimized, failed)
		if failed > 0 {
			return fmt.Errorf("%d of %d files failed", failed, len(args))
		}
		return nil
	},
}

var (
	initOffice       string
	initMunicipality string
	initURL          string
)

var initCmd = &cobra.Command{
	Use:   "init [dir]",
	Short: "Write a starter .env, seed.yaml and sample advisory",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := "."
		if len(args) == 1 {
			dir = args[0]
		}
		secret := make([]byte, 32)
		if _, err := rand.Read(secret); err != nil {
			return fmt.Errorf("generate session secret: %w", err)
		}
		created, skipped, err := scaffold.Write(dir, scaffold.Data{
			OfficeName:   initOffice,
			Municipality: initMunicipality,
			SiteURL:      initURL,
			Secret:       hex.EncodeToString(secret),
			Date:         time.Now().Format("2006-01-02"),
		})
		for _, p := range created {
			fmt.Printf("  created %s\n", p)
		}
		for _, p := range skipped {
			fmt.Printf("  kept    %s\n", p)
		}
		if err != nil {
			return err
		}

		fmt.Println()
		fmt.Println("Done! Next steps:")
		fmt.Println()
		if dir != "." {
			fmt.Printf("  cd %s\n", dir)
		}
		fmt.Println("  portal seed --file seed.yaml")
		fmt.Println("  portal import-news --dir news")
		fmt.Println("  portal create-admin --email you@example.gov.ph")
		fmt.Println("  portal serve")
		return nil
	},
}

func init() {
	optimizeCmd.Flags().StringVar(&optimizeOut, "out", "optimized", "output directory")
	optimizeCmd.Flags().IntVar(&optimizeQuality, "quality", imageopt.Quality, "JPEG quality")
	initCmd.Flags().StringVar(&initOffice, "office", "MDRRMO", "office name")
	initCmd.Flags().StringVar(&initMunicipality, "municipality", "the Municipality", "municipality name")
	initCmd.Flags().StringVar(&initURL, "url", "http://localhost:3000", "public site URL")
}
