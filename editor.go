// Package rambler is the local editor for the blog: a JSON API over the
// post files and the image directory, plus the editor page, a markdown
// preview and feed/sitemap previews of the published site.
//
// The editor is meant for a single user on the loopback interface. It has
// no authentication and no locking.
package rambler

import (
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"

	"github.com/eliasdorneles/rambler/images"
	"github.com/eliasdorneles/rambler/posts"
)

// App wires the post store and image intake to the HTTP routes.
type App struct {
	Config Config
	Echo   *echo.Echo
	Posts  *posts.Store
	Images *images.Intake

	location     *time.Location
	now          func() time.Time
	customRoutes []func(*App)
}

// New validates cfg and builds an App with its middleware and routes
// registered. Call Start to serve.
func New(cfg Config, opts ...Option) (*App, error) {
	cfg.setDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("rambler: %w", err)
	}
	loc, err := time.LoadLocation(cfg.Site.Timezone)
	if err != nil {
		return nil, fmt.Errorf("rambler: %w", err)
	}

	e := echo.New()
	e.HideBanner = true
	e.Logger.SetLevel(log.INFO)

	a := &App{
		Config:   cfg,
		Echo:     e,
		location: loc,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}

	a.Posts = posts.NewStore(cfg.BlogDir,
		posts.WithAuthor(cfg.Author),
		posts.WithClock(a.now),
		posts.WithLogger(e.Logger),
	)
	a.Images = images.NewIntake(cfg.ImagesDir,
		images.WithURLPrefix(cfg.ImageURLPrefix),
		images.WithMaxWidth(cfg.MaxImageWidth),
		images.WithQuality(cfg.JPEGQuality),
		images.WithMaxUploadSize(cfg.MaxUploadSize),
		images.WithLogger(e.Logger),
	)

	a.setupMiddleware()
	a.setupRoutes()
	for _, fn := range a.customRoutes {
		fn(a)
	}
	return a, nil
}

// Start serves the editor on Config.Addr until the server is closed.
func (a *App) Start() error {
	a.Echo.Server.ReadTimeout = a.Config.ReadTimeout
	a.Echo.Server.WriteTimeout = a.Config.WriteTimeout
	a.Echo.Logger.Infof("blog directory: %s", a.Config.BlogDir)
	a.Echo.Logger.Infof("images directory: %s", a.Config.ImagesDir)
	a.Echo.Logger.Infof("starting editor at http://%s", a.Config.Addr)
	if err := a.Echo.Start(a.Config.Addr); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (a *App) setupRoutes() {
	e := a.Echo

	assets, _ := fs.Sub(EditorAssets, "embedded")
	assetHandler := http.FileServer(http.FS(assets))
	e.GET("/", a.handleIndex)
	e.GET("/static/editor.css", echo.WrapHandler(http.StripPrefix("/static/", assetHandler)))
	e.GET("/static/editor.js", echo.WrapHandler(http.StripPrefix("/static/", assetHandler)))
	e.Static(strings.TrimSuffix(a.Config.ImageURLPrefix, "/"), a.Config.ImagesDir)

	api := e.Group("/api")
	api.GET("/posts", a.handleListPosts)
	api.POST("/posts", a.handleCreatePost)
	api.GET("/posts/:filename", a.handleGetPost)
	api.PUT("/posts/:filename", a.handleSavePost)
	api.GET("/images", a.handleListImages)
	api.POST("/images", a.handleUploadImage)
	api.POST("/preview", a.handlePreview)

	// Previews of what the static site will publish.
	e.GET("/feed.xml", a.handleFeed)
	e.GET("/atom.xml", a.handleAtom)
	e.GET("/sitemap.xml", a.handleSitemap)
}

// EnvOr returns the value of the environment variable key, or fallback if empty.
func EnvOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
