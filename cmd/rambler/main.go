package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/joho/godotenv"

	"github.com/eliasdorneles/rambler"
)

// version is set at build time via ldflags.
var version = "dev"

const defaultConfigPath = "rambler.yaml"

func main() {
	if len(os.Args) < 2 {
		printUsage(os.Stdout)
		os.Exit(1)
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "Warning: .env: %v\n", err)
	}

	var err error
	switch os.Args[1] {
	case "serve":
		err = runServe(os.Args[2:])
	case "render":
		err = runRender(os.Args[2:], os.Stdout)
	case "new":
		err = runNew(os.Args[2:], os.Stdout)
	case "init":
		err = runInit(os.Args[2:], os.Stdout)
	case "version":
		fmt.Printf("rambler %s\n", version)
	case "help", "-h", "--help":
		printUsage(os.Stdout)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage(os.Stderr)
		os.Exit(1)
	}
	if err != nil {
		if !errors.Is(err, flag.ErrHelp) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, `rambler - editor and tooling for a static markdown blog

Usage:
  rambler <command> [arguments]

Commands:
  serve [-config file] [-addr host:port]
                 Start the local editor
  render <template> <context.json> [-o file] [-templates dir]
                 Render a theme template with a JSON context
  new [-list] [title]
                 Create a draft post, or list published posts
  init [dir]     Write a starter config, post and theme
  version        Print the rambler version
  help           Show this help message

Examples:
  rambler serve
  rambler render index.html context.json -o output/index.html
  rambler new "Café com Leite"`)
}

func runServe(args []string) error {
	flags := flag.NewFlagSet("serve", flag.ContinueOnError)
	configPath := flags.String("config", defaultConfigPath, "YAML config file")
	addr := flags.String("addr", "", "listen address, overrides the config")
	if err := flags.Parse(args); err != nil {
		return err
	}

	cfg, err := rambler.LoadConfig(*configPath)
	if err != nil {
		return err
	}
	if *addr != "" {
		cfg.Addr = *addr
	}
	app, err := rambler.New(cfg)
	if err != nil {
		return err
	}
	return app.Start()
}

// parseArgs parses flags that may appear before, between or after the
// positional arguments, and returns the positional ones in order.
func parseArgs(flags *flag.FlagSet, args []string) ([]string, error) {
	var positional []string
	for {
		if err := flags.Parse(args); err != nil {
			return nil, err
		}
		args = flags.Args()
		if len(args) == 0 {
			return positional, nil
		}
		positional = append(positional, args[0])
		args = args[1:]
	}
}
