package rambler

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Addr != "127.0.0.1:5000" {
		t.Errorf("Addr = %q", cfg.Addr)
	}
	if cfg.BlogDir != "site/blog" || cfg.ImagesDir != "site/images" {
		t.Errorf("dirs = %q, %q", cfg.BlogDir, cfg.ImagesDir)
	}
	if cfg.ImageURLPrefix != "/static/images/" {
		t.Errorf("ImageURLPrefix = %q", cfg.ImageURLPrefix)
	}
	if cfg.MaxImageWidth != 1200 || cfg.JPEGQuality != 85 || cfg.MaxUploadSize != 10<<20 {
		t.Errorf("image limits = %d, %d, %d", cfg.MaxImageWidth, cfg.JPEGQuality, cfg.MaxUploadSize)
	}
	if cfg.Author != "Elias Dorneles" {
		t.Errorf("Author = %q", cfg.Author)
	}
	if cfg.ReadTimeout != 30*time.Second {
		t.Errorf("ReadTimeout = %v", cfg.ReadTimeout)
	}
	if cfg.Site.ArticleURL != "{date:%Y}/{date:%m}/{date:%d}/{name}.html" {
		t.Errorf("ArticleURL = %q", cfg.Site.ArticleURL)
	}
}

func TestLoadConfigFileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rambler.yaml")
	data := `
addr: 127.0.0.1:8080
blog_dir: content/posts
max_image_width: 800
read_timeout: 5s
site:
  name: Test Blog
  timezone: UTC
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("RAMBLER_BLOG_DIR", "elsewhere")
	t.Setenv("RAMBLER_MAX_IMAGE_WIDTH", "640")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Addr != "127.0.0.1:8080" {
		t.Errorf("Addr = %q", cfg.Addr)
	}
	if cfg.BlogDir != "elsewhere" {
		t.Errorf("BlogDir = %q, env should win", cfg.BlogDir)
	}
	if cfg.MaxImageWidth != 640 {
		t.Errorf("MaxImageWidth = %d, env should win", cfg.MaxImageWidth)
	}
	if cfg.ReadTimeout != 5*time.Second {
		t.Errorf("ReadTimeout = %v", cfg.ReadTimeout)
	}
	if cfg.Site.Name != "Test Blog" || cfg.Site.Timezone != "UTC" {
		t.Errorf("Site = %+v", cfg.Site)
	}
}

func TestLoadConfigErrors(t *testing.T) {
	dir := t.TempDir()
	write := func(name, data string) string {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
			t.Fatal(err)
		}
		return path
	}

	tests := []struct {
		name string
		path string
		want string
	}{
		{"bad yaml", write("bad.yaml", "addr: [unclosed"), "parse"},
		{"bad prefix", write("prefix.yaml", "image_url_prefix: images/"), "ImageURLPrefix"},
		{"bad quality", write("quality.yaml", "jpeg_quality: 101"), "JPEGQuality"},
		{"bad site url", write("url.yaml", "site:\n  url: not a url"), "URL"},
		{"bad timezone", write("tz.yaml", "site:\n  timezone: Mars/Olympus"), "timezone"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfig(tt.path)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q should mention %q", err, tt.want)
			}
		})
	}
}

func TestLoadConfigBadEnv(t *testing.T) {
	t.Setenv("RAMBLER_MAX_IMAGE_WIDTH", "wide")
	if _, err := LoadConfig(""); err == nil {
		t.Error("expected error for non-numeric RAMBLER_MAX_IMAGE_WIDTH")
	}
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	if _, err := New(Config{JPEGQuality: 500}); err == nil {
		t.Error("expected New to reject an out of range quality")
	}
}
