package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/eringen/sitepress"
	"github.com/eringen/sitepress/images"
)

// version is set at build time via ldflags.
var version = "dev"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "build":
		app, cfg, err := load(configArg())
		if err != nil {
			fatal(err)
		}
		rep, err := app.Build(images.ModeBuild)
		if err != nil {
			fatal(err)
		}
		os.Exit(rep.ExitCode(cfg.Strict))
	case "dev":
		app, _, err := load(configArg())
		if err != nil {
			fatal(err)
		}
		if err := app.Serve(); err != nil {
			fatal(err)
		}
	case "new":
		if len(os.Args) < 3 {
			fmt.Fprintln(os.Stderr, "Usage: sitepress new <site-name>")
			os.Exit(1)
		}
		if err := runNew(os.Args[2]); err != nil {
			fatal(err)
		}
	case "version":
		fmt.Printf("sitepress %s\n", version)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func configArg() string {
	if len(os.Args) > 2 {
		return os.Args[2]
	}
	return "site.yaml"
}

func load(configPath string) (*sitepress.App, sitepress.SiteConfig, error) {
	cfg, err := sitepress.LoadConfig(configPath)
	if err != nil {
		return nil, cfg, err
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(logger)
	return sitepress.New(cfg, sitepress.WithLogger(logger)), cfg, nil
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}

func printUsage() {
	fmt.Println(`sitepress - a static-site generator for markdown-driven marketing sites

Usage:
  sitepress <command> [arguments]

Commands:
  build [config]   Build the site into the output directory (default config: site.yaml)
  dev [config]     Start the dev server with live rebuilds
  new <name>       Scaffold a new site
  version          Print the sitepress version
  help             Show this help message

Examples:
  sitepress build
  sitepress dev site.yaml
  sitepress new mysite`)
}
