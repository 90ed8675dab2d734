package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"text/template"
	"time"

	"github.com/eliasdorneles/rambler"
	"github.com/eliasdorneles/rambler/posts"
)

func TestInitSite(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "my-blog")
	now := time.Date(2024, 3, 9, 14, 5, 0, 0, time.UTC)

	var out bytes.Buffer
	if err := initSite(dir, "Jane Doe", now, &out); err != nil {
		t.Fatalf("initSite: %v", err)
	}
	for _, name := range []string{
		"rambler.yaml",
		".env.example",
		"context.json",
		"site/blog/hello-world.md",
		"site/images/.gitkeep",
		"mytheme/templates/index.html",
	} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("missing %s: %v", name, err)
		}
	}

	cfg, err := rambler.LoadConfig(filepath.Join(dir, "rambler.yaml"))
	if err != nil {
		t.Fatalf("scaffolded config does not load: %v", err)
	}
	if cfg.Site.Name != "My Blog" || cfg.Author != "Jane Doe" {
		t.Errorf("config site name %q author %q", cfg.Site.Name, cfg.Author)
	}

	post, err := posts.NewStore(filepath.Join(dir, "site", "blog")).Get("hello-world.md")
	if err != nil {
		t.Fatalf("Get hello-world.md: %v", err)
	}
	if post.Title != "Hello, world" || post.Date != "2024-03-09 14:05" || post.Status != posts.StatusDraft {
		t.Errorf("first post = %+v", post)
	}

	out.Reset()
	args := []string{"index.html", filepath.Join(dir, "context.json"), "-templates", filepath.Join(dir, "mytheme", "templates")}
	if err := runRender(args, &out); err != nil {
		t.Fatalf("render scaffolded theme: %v", err)
	}
	if !strings.Contains(out.String(), "<title>My Blog</title>") || !strings.Contains(out.String(), "<time>2024-03-09</time>") {
		t.Errorf("rendered index = %s", out.String())
	}
}

func TestInitSiteRefusesExisting(t *testing.T) {
	dir := t.TempDir()
	if err := initSite(dir, "A", time.Now(), &bytes.Buffer{}); err != nil {
		t.Fatal(err)
	}
	if err := initSite(dir, "A", time.Now(), &bytes.Buffer{}); err == nil {
		t.Error("expected error when rambler.yaml already exists")
	}
}

func TestToTitle(t *testing.T) {
	tests := map[string]string{
		"my-blog":   "My Blog",
		"myblog":    "Myblog",
		"notes_and": "Notes And",
	}
	for in, want := range tests {
		if got := toTitle(in); got != want {
			t.Errorf("toTitle(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestWriteTemplateReportsErrors(t *testing.T) {
	dir := t.TempDir()
	ok := template.Must(template.New("ok").Delims("[[", "]]").Parse("site [[ .SiteName ]]"))
	path := filepath.Join(dir, "ok.txt")
	if err := writeTemplate(path, ok, scaffoldData{SiteName: "Notes"}); err != nil {
		t.Fatalf("writeTemplate: %v", err)
	}
	if data, _ := os.ReadFile(path); string(data) != "site Notes" {
		t.Errorf("written = %q", data)
	}

	bad := template.Must(template.New("bad").Delims("[[", "]]").Parse("[[ .Missing ]]"))
	if err := writeTemplate(filepath.Join(dir, "bad.txt"), bad, scaffoldData{}); err == nil {
		t.Error("expected execute error to be returned")
	}
	if err := writeTemplate(filepath.Join(dir, "no", "such", "dir.txt"), ok, scaffoldData{}); err == nil {
		t.Error("expected create error to be returned")
	}
	if _, err := os.Stat("/dev/full"); err == nil {
		if err := writeTemplate("/dev/full", ok, scaffoldData{SiteName: "x"}); err == nil {
			t.Error("expected a write to /dev/full to fail")
		}
	}
}
