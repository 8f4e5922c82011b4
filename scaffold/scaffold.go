// Package scaffold holds the starter files written by `portal init`: an
// environment file, a seed document and a sample advisory.
package scaffold

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"text/template"
)

// Templates contains all scaffold template files.
// Files use Go text/template syntax and have a .tmpl suffix.
//
//go:embed all:templates
var Templates embed.FS

// Data holds the template variables passed to every scaffold template.
type Data struct {
	OfficeName   string
	Municipality string
	SiteURL      string
	Secret       string
	Date         string
}

// Write renders every template into dir. Existing files are left alone
// and reported as skipped. created lists the paths written.
func Write(dir string, data Data) (created, skipped []string, err error) {
	const root = "templates"
	err = fs.WalkDir(Templates, root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		out := strings.TrimSuffix(filepath.Join(dir, rel), ".tmpl")
		// Rename dotenv to .env
		if filepath.Base(out) == "dotenv" {
			out = filepath.Join(filepath.Dir(out), ".env")
		}
		if d.IsDir() {
			return os.MkdirAll(out, 0o755)
		}
		if _, err := os.Stat(out); err == nil {
			skipped = append(skipped, out)
			return nil
		}

		content, err := Templates.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}
		tmpl, err := template.New(filepath.Base(path)).Parse(string(content))
		if err != nil {
			return fmt.Errorf("parse template %s: %w", path, err)
		}
		f, err := os.OpenFile(out, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
		if err != nil {
			return fmt.Errorf("create %s: %w", out, err)
		}
		if err := tmpl.Execute(f, data); err != nil {
			f.Close()
			return fmt.Errorf("execute template %s: %w", path, err)
		}
		if err := f.Close(); err != nil {
			return err
		}
		created = append(created, out)
		return nil
	})
	return created, skipped, err
}
