package rambler

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"
	_ "time/tzdata"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/eliasdorneles/rambler/images"
	"github.com/eliasdorneles/rambler/posts"
)

// Config holds all configuration for the editor and the site tooling.
type Config struct {
	Addr      string `yaml:"addr" validate:"required"`       // Listen address (default "127.0.0.1:5000")
	BlogDir   string `yaml:"blog_dir" validate:"required"`   // Post directory (default "site/blog")
	ImagesDir string `yaml:"images_dir" validate:"required"` // Image directory (default "site/images")

	ImageURLPrefix string `yaml:"image_url_prefix" validate:"required,startswith=/,endswith=/"` // default "/static/images/"
	Author         string `yaml:"author"`                                                       // Default post author

	MaxImageWidth int   `yaml:"max_image_width" validate:"min=1"`       // Resize threshold in pixels (default 1200)
	JPEGQuality   int   `yaml:"jpeg_quality" validate:"min=1,max=100"` // default 85
	MaxUploadSize int64 `yaml:"max_upload_size" validate:"min=1"`       // Bytes (default 10MB)

	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`

	Site SiteConfig `yaml:"site"`
}

// SiteConfig mirrors the static site generator settings the editor needs
// to build feeds and article links.
type SiteConfig struct {
	Name        string `yaml:"name"`                              // default "Hopeful Ramble"
	URL         string `yaml:"url" validate:"omitempty,url"`      // default "https://eliasdorneles.github.io"
	Description string `yaml:"description"`                       // RSS channel description
	ArticleURL  string `yaml:"article_url" validate:"required"`   // default "{date:%Y}/{date:%m}/{date:%d}/{name}.html"
	Timezone    string `yaml:"timezone" validate:"required"`      // default "America/Sao_Paulo"
	TemplateDir string `yaml:"template_dir" validate:"required"`  // default "mytheme/templates"
}

var validate = validator.New()

func (c *Config) setDefaults() {
	if c.Addr == "" {
		c.Addr = "127.0.0.1:5000"
	}
	if c.BlogDir == "" {
		c.BlogDir = "site/blog"
	}
	if c.ImagesDir == "" {
		c.ImagesDir = "site/images"
	}
	if c.ImageURLPrefix == "" {
		c.ImageURLPrefix = images.DefaultURLPrefix
	}
	if c.Author == "" {
		c.Author = posts.DefaultAuthor
	}
	if c.MaxImageWidth == 0 {
		c.MaxImageWidth = images.DefaultMaxWidth
	}
	if c.JPEGQuality == 0 {
		c.JPEGQuality = images.DefaultQuality
	}
	if c.MaxUploadSize == 0 {
		c.MaxUploadSize = images.DefaultMaxUploadSize
	}
	if c.ReadTimeout == 0 {
		c.ReadTimeout = 30 * time.Second
	}
	if c.WriteTimeout == 0 {
		c.WriteTimeout = 30 * time.Second
	}
	if c.Site.Name == "" {
		c.Site.Name = "Hopeful Ramble"
	}
	if c.Site.URL == "" {
		c.Site.URL = "https://eliasdorneles.github.io"
	}
	if c.Site.ArticleURL == "" {
		c.Site.ArticleURL = "{date:%Y}/{date:%m}/{date:%d}/{name}.html"
	}
	if c.Site.Timezone == "" {
		c.Site.Timezone = "America/Sao_Paulo"
	}
	if c.Site.TemplateDir == "" {
		c.Site.TemplateDir = "mytheme/templates"
	}
}

// Validate checks field constraints and that the timezone is known.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			f := verrs[0]
			return fmt.Errorf("config: %s fails %q", f.Namespace(), f.Tag())
		}
		return fmt.Errorf("config: %w", err)
	}
	if _, err := time.LoadLocation(c.Site.Timezone); err != nil {
		return fmt.Errorf("config: timezone: %w", err)
	}
	return nil
}

// LoadConfig reads path as YAML when it exists, applies RAMBLER_*
// environment overrides, fills defaults and validates the result. An empty
// path skips the file.
func LoadConfig(path string) (Config, error) {
	var cfg Config
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
			}
		case errors.Is(err, fs.ErrNotExist):
		default:
			return Config{}, fmt.Errorf("config: read %s: %w", path, err)
		}
	}

	cfg.Addr = EnvOr("RAMBLER_ADDR", cfg.Addr)
	cfg.BlogDir = EnvOr("RAMBLER_BLOG_DIR", cfg.BlogDir)
	cfg.ImagesDir = EnvOr("RAMBLER_IMAGES_DIR", cfg.ImagesDir)
	cfg.Author = EnvOr("RAMBLER_AUTHOR", cfg.Author)
	cfg.Site.URL = EnvOr("RAMBLER_SITE_URL", cfg.Site.URL)
	if v := os.Getenv("RAMBLER_MAX_IMAGE_WIDTH"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, fmt.Errorf("config: RAMBLER_MAX_IMAGE_WIDTH: %w", err)
		}
		cfg.MaxImageWidth = n
	}

	cfg.setDefaults()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Option configures additional App behavior.
type Option func(*App)

// WithCustomRoutes registers additional routes on the Echo instance.
func WithCustomRoutes(fn func(*App)) Option {
	return func(a *App) {
		a.customRoutes = append(a.customRoutes, fn)
	}
}

// WithClock sets the time source used to date new posts.
func WithClock(now func() time.Time) Option {
	return func(a *App) {
		a.now = now
	}
}
