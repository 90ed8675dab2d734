package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"text/template"
	"time"

	"github.com/eliasdorneles/rambler/posts"
	"github.com/eliasdorneles/rambler/scaffold"
)

// scaffoldData holds the template variables passed to every scaffold file.
type scaffoldData struct {
	SiteName string
	Author   string
	Date     string
	ISODate  string
}

func runInit(args []string, stdout io.Writer) error {
	flags := flag.NewFlagSet("init", flag.ContinueOnError)
	author := flags.String("author", posts.DefaultAuthor, "default post author")
	positional, err := parseArgs(flags, args)
	if err != nil {
		return err
	}
	dir := "."
	if len(positional) > 0 {
		dir = positional[0]
	}
	return initSite(dir, *author, time.Now(), stdout)
}

func initSite(dir, author string, now time.Time, stdout io.Writer) error {
	if _, err := os.Stat(filepath.Join(dir, defaultConfigPath)); err == nil {
		return fmt.Errorf("%s already exists in %s", defaultConfigPath, dir)
	}

	abs, err := filepath.Abs(dir)
	if err != nil {
		return err
	}
	data := scaffoldData{
		SiteName: toTitle(filepath.Base(abs)),
		Author:   author,
		Date:     now.Format(posts.DateLayout),
		ISODate:  now.Format("2006-01-02T15:04:05"),
	}

	const root = "templates"
	return fs.WalkDir(scaffold.Templates, root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		outPath := strings.TrimSuffix(filepath.Join(dir, rel), ".tmpl")
		if filepath.Base(outPath) == "dotenv" {
			outPath = filepath.Join(filepath.Dir(outPath), ".env.example")
		}
		if d.IsDir() {
			return os.MkdirAll(outPath, 0o755)
		}

		if _, err := os.Stat(outPath); err == nil {
			fmt.Fprintf(stdout, "  skipped %s (exists)\n", outPath)
			return nil
		} else if !errors.Is(err, fs.ErrNotExist) {
			return err
		}

		content, err := scaffold.Templates.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}
		tmpl, err := template.New(filepath.Base(path)).
			Delims(scaffold.Delims[0], scaffold.Delims[1]).
			Parse(string(content))
		if err != nil {
			return fmt.Errorf("parse template %s: %w", path, err)
		}

		if err := writeTemplate(outPath, tmpl, data); err != nil {
			return err
		}
		fmt.Fprintf(stdout, "  created %s\n", outPath)
		return nil
	})
}

// writeTemplate executes tmpl into a new file at path. Write and close
// errors are both reported.
func writeTemplate(path string, tmpl *template.Template, data any) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := tmpl.Execute(f, data); err != nil {
		f.Close()
		return fmt.Errorf("execute template %s: %w", tmpl.Name(), err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	return nil
}

// toTitle converts a hyphenated or lowercase name to a title-case string.
// e.g. "my-blog" -> "My Blog"
func toTitle(s string) string {
	parts := strings.FieldsFunc(s, func(r rune) bool { return r == '-' || r == '_' })
	for i, p := range parts {
		if len(p) > 0 {
			parts[i] = strings.ToUpper(p[:1]) + p[1:]
		}
	}
	return strings.Join(parts, " ")
}
