package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/labstack/gommon/log"

	"github.com/eliasdorneles/rambler"
	"github.com/eliasdorneles/rambler/posts"
)

func runNew(args []string, stdout io.Writer) error {
	flags := flag.NewFlagSet("new", flag.ContinueOnError)
	list := flags.Bool("list", false, "list published posts with their article URLs")
	configPath := flags.String("config", defaultConfigPath, "YAML config file")
	positional, err := parseArgs(flags, args)
	if err != nil {
		return err
	}

	cfg, err := rambler.LoadConfig(*configPath)
	if err != nil {
		return err
	}
	logger := log.New("rambler")
	logger.SetOutput(os.Stderr)
	store := posts.NewStore(cfg.BlogDir,
		posts.WithAuthor(cfg.Author),
		posts.WithLogger(logger),
	)

	if *list {
		loc, err := time.LoadLocation(cfg.Site.Timezone)
		if err != nil {
			return err
		}
		return listPublished(stdout, store, cfg.Site, loc)
	}

	post, err := store.Create(strings.Join(positional, " "), "")
	if err != nil {
		return err
	}
	fmt.Fprintf(stdout, "Created %s\n", post.Filename)
	return nil
}

func listPublished(w io.Writer, store *posts.Store, site rambler.SiteConfig, loc *time.Location) error {
	published, err := store.Published()
	if err != nil {
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, p := range published {
		link := "-"
		if rel, err := rambler.ArticleURL(site.ArticleURL, p, loc); err == nil {
			link = rambler.AbsoluteURL(site.URL, rel)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", p.Date, p.Filename, p.Title, link)
	}
	return tw.Flush()
}
