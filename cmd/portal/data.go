package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mdrrmo/portal"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create missing tables on the configured backend",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()
		s, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer s.Close()
		if err := s.Migrate(cmd.Context()); err != nil {
			return err
		}
		logger.Infof("%s schema is up to date", cfg.DatabaseDriver)
		return nil
	},
}

var seedFile string

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Upsert services, hotlines, social links and pages from YAML",
	Long: `Reads a YAML seed document and upserts its records. Services match on
title, hotlines on name and number, social links on platform and pages on
slug. A seeded page replaces the sections of the existing page.

Example:
  portal seed --file seed.yaml`,
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := os.Open(seedFile)
		if err != nil {
			return err
		}
		defer f.Close()
		doc, err := portal.ParseSeed(f)
		if err != nil {
			return err
		}

		s, err := openStore(loadConfig())
		if err != nil {
			return err
		}
		defer s.Close()
		res, err := s.Seed(cmd.Context(), doc)
		if err != nil {
			return err
		}
		logger.Infof("seeded %s: %s", seedFile, res)
		return nil
	},
}

var importDir string

var importNewsCmd = &cobra.Command{
	Use:   "import-news",
	Short: "Import markdown articles with YAML frontmatter as news",
	Long: `Imports every .md file under --dir. Frontmatter keys: id, title, excerpt,
author, date (YYYY-MM-DD), status (published or draft), image, draft.
Articles without an id get one derived from the file name, so running the
import again updates them.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore(loadConfig())
		if err != nil {
			return err
		}
		defer s.Close()
		res, err := s.ImportNews(cmd.Context(), os.DirFS(importDir))
		for _, e := range res.Errors {
			logger.Warnf("skipped %v", e)
		}
		if err != nil {
			return err
		}
		logger.Infof("imported news from %s: %d created, %d updated, %d skipped",
			importDir, res.Created, res.Updated, len(res.Errors))
		return nil
	},
}

var (
	adminEmail    string
	adminName     string
	adminPassword string
)

var createAdminCmd = &cobra.Command{
	Use:   "create-admin",
	Short: "Create an admin account or reset its password",
	RunE: func(cmd *cobra.Command, args []string) error {
		password := adminPassword
		if password == "" {
			password = os.Getenv("ADMIN_PASSWORD")
		}
		if strings.TrimSpace(password) == "" {
			return fmt.Errorf("set --password or ADMIN_PASSWORD")
		}
		s, err := openStore(loadConfig())
		if err != nil {
			return err
		}
		defer s.Close()
		u, err := portal.CreateAdmin(cmd.Context(), s, adminEmail, adminName, password)
		if err != nil {
			return err
		}
		logger.Infof("admin %s ready (id %s)", u.Email, u.ID)
		return nil
	},
}

func init() {
	seedCmd.Flags().StringVar(&seedFile, "file", "seed.yaml", "seed document")
	importNewsCmd.Flags().StringVar(&importDir, "dir", "content/news", "directory of markdown files")
	createAdminCmd.Flags().StringVar(&adminEmail, "email", "", "admin email (required)")
	createAdminCmd.Flags().StringVar(&adminName, "name", "", "display name")
	createAdminCmd.Flags().StringVar(&adminPassword, "password", "", "password, at least 8 characters (default ADMIN_PASSWORD)")
	_ = createAdminCmd.MarkFlagRequired("email")
}
