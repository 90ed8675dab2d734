package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/flosch/pongo2/v6"

	"github.com/eliasdorneles/rambler"
)

// isoLayouts are the ISO-8601 forms accepted for articles[].date.
var isoLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

func runRender(args []string, stdout io.Writer) error {
	flags := flag.NewFlagSet("render", flag.ContinueOnError)
	var output string
	flags.StringVar(&output, "o", "", "write the output to this file instead of stdout")
	flags.StringVar(&output, "output", "", "same as -o")
	templates := flags.String("templates", "", "template directory (default: site.template_dir from the config)")
	configPath := flags.String("config", defaultConfigPath, "YAML config file")
	positional, err := parseArgs(flags, args)
	if err != nil {
		return err
	}
	if len(positional) != 2 {
		return fmt.Errorf("usage: rambler render <template> <context.json> [-o file]")
	}

	dir := *templates
	if dir == "" {
		cfg, err := rambler.LoadConfig(*configPath)
		if err != nil {
			return err
		}
		dir = cfg.Site.TemplateDir
	}

	ctx, err := loadContext(positional[1])
	if err != nil {
		return err
	}
	out, err := renderTemplate(dir, positional[0], ctx)
	if err != nil {
		return err
	}

	if output == "" {
		_, err := fmt.Fprintln(stdout, out)
		return err
	}
	if err := os.WriteFile(output, []byte(out), 0o644); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	fmt.Fprintf(stdout, "Rendered output saved to %s\n", output)
	return nil
}

// loadContext reads a JSON object from path. The date of every entry in
// "articles" is converted to a time.Time so templates can format it.
func loadContext(path string) (pongo2.Context, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read context: %w", err)
	}
	var ctx map[string]any
	if err := json.Unmarshal(data, &ctx); err != nil {
		return nil, fmt.Errorf("parse context %s: %w", path, err)
	}
	articles, _ := ctx["articles"].([]any)
	for i, item := range articles {
		article, ok := item.(map[string]any)
		if !ok {
			continue
		}
		s, ok := article["date"].(string)
		if !ok {
			continue
		}
		t, err := parseISODate(s)
		if err != nil {
			return nil, fmt.Errorf("articles[%d].date: %w", i, err)
		}
		article["date"] = t
	}
	return pongo2.Context(ctx), nil
}

func parseISODate(s string) (time.Time, error) {
	for _, layout := range isoLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid ISO date %q", s)
}

// renderTemplate executes the named template from dir. Output is
// autoescaped for HTML templates only.
func renderTemplate(dir, name string, ctx pongo2.Context) (string, error) {
	loader, err := pongo2.NewLocalFileSystemLoader(dir)
	if err != nil {
		return "", fmt.Errorf("template dir %s: %w", dir, err)
	}
	set := pongo2.NewSet("rambler", loader)

	pongo2.SetAutoescape(strings.EqualFold(filepath.Ext(name), ".html"))
	defer pongo2.SetAutoescape(true)

	tpl, err := set.FromFile(name)
	if err != nil {
		return "", fmt.Errorf("load template %s: %w", name, err)
	}
	out, err := tpl.Execute(ctx)
	if err != nil {
		return "", fmt.Errorf("render %s: %w", name, err)
	}
	return out, nil
}
