package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/eringen/metaedge"
)

// version is set at build time via ldflags.
var version = "dev"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "serve":
		if err := runServe(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "rewrite":
		if len(os.Args) < 4 {
			fmt.Fprintln(os.Stderr, "Usage: metaedge rewrite <file.html> <url>")
			os.Exit(1)
		}
		if err := runRewrite(os.Args[2], os.Args[3]); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "version":
		fmt.Printf("metaedge %s\n", version)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func loadApp() (*metaedge.App, error) {
	cfg, err := metaedge.LoadConfig(os.Getenv("CONFIG_FILE"))
	if err != nil {
		return nil, err
	}
	return metaedge.New(cfg), nil
}

func runServe() error {
	app, err := loadApp()
	if err != nil {
		return err
	}
	defer app.Close()

	errc := make(chan error, 1)
	go func() { errc <- app.Start() }()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	select {
	case err := <-errc:
		return err
	case <-sig:
		return app.Echo.Shutdown(context.Background())
	}
}

// runRewrite prints the rewritten document. Rewrite failures are reported on
// stderr and the original document is printed.
func runRewrite(file, rawURL string) error {
	body, err := os.ReadFile(file)
	if err != nil {
		return err
	}
	app, err := loadApp()
	if err != nil {
		return err
	}
	defer app.Close()

	res, err := app.RewriteDocument(context.Background(), rawURL, body)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: %v\n", err)
	}
	if res.NotFound {
		fmt.Fprintf(os.Stderr, "not found: %s\n", res.Location)
		res.Body = body
	}
	_, err = os.Stdout.Write(res.Body)
	return err
}

func printUsage() {
	fmt.Println(`metaedge - SEO and social metadata for static marketing sites

Usage:
  metaedge <command> [arguments]

Commands:
  serve                  Serve the origin with enriched <head> tags
  rewrite <file> <url>   Rewrite a local HTML file as if served at <url>
  version                Print the metaedge version
  help                   Show this help message

Configuration is read from the environment (SITE_URL, CONTENT_API_URL,
ORIGIN_DIR, ...) and an optional YAML file named by CONFIG_FILE.`)
}
