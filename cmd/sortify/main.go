// Package main is the Sortify CLI entry point.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/sortify/sortify/internal/catalog"
	"github.com/sortify/sortify/internal/config"
	"github.com/sortify/sortify/internal/models"
	"github.com/sortify/sortify/internal/pagination"
	"github.com/sortify/sortify/internal/provider"
	"github.com/sortify/sortify/internal/ranking"
	"github.com/sortify/sortify/internal/server"
	"github.com/sortify/sortify/internal/session"
	"github.com/sortify/sortify/internal/storage"
	"github.com/sortify/sortify/pkg/utils"
	"go.uber.org/zap"
)

var version = "dev"

const defaultConfigPath = "/usr/local/etc/sortify/config.yaml"

// loadConfig loads config from path. When path is the default, it first looks
// for config.yaml in the current directory (for development); if that exists
// it is used. Returns the config and the path that was actually loaded.
func loadConfig(path string) (*config.Config, string, error) {
	if path == defaultConfigPath {
		if cwd, cwdErr := os.Getwd(); cwdErr == nil {
			fallback := filepath.Join(cwd, "config.yaml")
			if _, statErr := os.Stat(fallback); statErr == nil {
				cfg, loadErr := config.Load(fallback)
				if loadErr != nil {
					return nil, "", loadErr
				}
				return cfg, fallback, nil
			}
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, "", err
	}
	return cfg, path, nil
}

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}
	command := os.Args[1]
	switch command {
	case "server":
		runServer()
	case "search":
		runSearch()
	case "catalog":
		runCatalog()
	case "version", "--version", "-v":
		fmt.Printf("sortify version %s\n", version)
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Printf("Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func runServer() {
	fs := flag.NewFlagSet("server", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	debug := fs.Bool("debug", false, "enable debug logging (requests, page fetches, cart changes)")
	_ = fs.Parse(os.Args[2:])

	cfg, resolvedConfigPath, err := loadConfig(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	debugMode := cfg.Debug || *debug
	logger, err := utils.NewLogger(debugMode)
	if err != nil {
		fmt.Printf("Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("config loaded",
		zap.String("config_path", resolvedConfigPath),
		zap.Bool("debug", debugMode),
	)

	store, err := storage.NewSQLiteStore(cfg.Storage.DatabasePath)
	if err != nil {
		logger.Fatal("Failed to open preference store", zap.Error(err))
	}
	defer store.Close()

	loader := catalog.NewLoader(
		cfg.Catalog.Source,
		cfg.Catalog.DetailBaseURL,
		catalog.WithStore(store),
		catalog.WithLogger(logger),
	)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := loader.LoadOrFallback(ctx); err != nil {
		// A failed load is not fatal: searches return empty until the
		// user retries by restarting or the watcher reloads.
		logger.Warn("catalog load failed", zap.Error(err))
	}
	if cfg.Catalog.Watch {
		if err := loader.Watch(ctx); err != nil {
			logger.Warn("catalog watch failed", zap.Error(err))
		}
	}

	searcher := provider.NewClient(cfg.Provider.BaseURL, time.Duration(cfg.Provider.TimeoutSeconds)*time.Second)
	pagerOpts := []pagination.Option{}
	if debugMode {
		pagerOpts = append(pagerOpts, pagination.WithLogger(logger))
	}
	pager := pagination.NewController(searcher, pagerOpts...)
	sess := session.New(ctx, store, pager, logger)
	ranker := ranking.NewRanker(&cfg.Ranking)

	srv := server.NewServer(loader, ranker, sess, &cfg.Server, logger)
	go func() {
		if err := srv.Start(); err != nil {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutting down...")
	cancel()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	_ = srv.Stop(shutdownCtx)
}

// buildSearchQuery joins all positional args with spaces so multi-word
// queries work the same with or without shell quoting.
func buildSearchQuery(args []string) string {
	return strings.TrimSpace(strings.Join(args, " "))
}

func runSearch() {
	fs := flag.NewFlagSet("search", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	minPrice := fs.String("min", "", "minimum price")
	maxPrice := fs.String("max", "", "maximum price")
	outputFormat := fs.String("output", "text", "output format: text (human-readable) or json (parseable)")
	_ = fs.Parse(os.Args[2:])

	if fs.NArg() < 1 {
		fmt.Println("Usage: sortify search [flags] <query>")
		os.Exit(1)
	}
	queryStr := buildSearchQuery(fs.Args())
	if queryStr == "" {
		fmt.Println("Usage: sortify search [flags] <query>")
		os.Exit(1)
	}

	cfg, _, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger, err := utils.NewLogger(cfg.Debug)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	loader := catalog.NewLoader(cfg.Catalog.Source, cfg.Catalog.DetailBaseURL, catalog.WithLogger(logger))
	ctx := context.Background()
	if err := loader.Load(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Catalog load failed: %v\n", err)
		os.Exit(1)
	}

	criteria := models.SearchCriteria{Query: queryStr, MinPrice: *minPrice, MaxPrice: *maxPrice}
	results := ranking.NewRanker(&cfg.Ranking).Rank(loader.Products(), criteria)

	switch *outputFormat {
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(results); err != nil {
			fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
			os.Exit(1)
		}
	case "text":
		if len(results) == 0 {
			fmt.Println("No results found.")
			return
		}
		fmt.Printf("Showing top %d curated results\n\n", len(results))
		for i, res := range results {
			fmt.Printf("%2d. %s\n", i+1, utils.Truncate(res.Product.Title, 80))
			fmt.Printf("    Price: %s | Rating: %.1f (%d ratings) | Score: %.2f\n",
				res.Product.Price, res.Product.Rating, res.Product.RatingCount, res.Score)
			if res.Product.DetailURL != "" {
				fmt.Printf("    %s\n", res.Product.DetailURL)
			}
		}
	default:
		fmt.Fprintf(os.Stderr, "Unknown output format %q; use text or json\n", *outputFormat)
		os.Exit(1)
	}
}

func runCatalog() {
	fs := flag.NewFlagSet("catalog", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	_ = fs.Parse(os.Args[2:])

	cfg, _, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger, err := utils.NewLogger(cfg.Debug)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	loader := catalog.NewLoader(cfg.Catalog.Source, cfg.Catalog.DetailBaseURL, catalog.WithLogger(logger))
	if err := loader.Load(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Catalog load failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("source:   %s\n", cfg.Catalog.Source)
	fmt.Printf("products: %d\n", loader.Len())
}

func printUsage() {
	fmt.Println(`sortify - Product search with curated ranking

Usage:
  sortify server [flags]           Start the HTTP server
  sortify search [flags] <query>   Search the catalog from the command line
  sortify catalog [flags]          Load the catalog and show a summary
  sortify version                  Show version
  sortify help                     Show this help

Server Flags:
  --config string    Config file path (default: /usr/local/etc/sortify/config.yaml)
  --debug            Enable debug logging (requests, page fetches, cart changes)

Search Flags:
  --config string    Config file path
  --min string       Minimum price filter
  --max string       Maximum price filter
  --output string    Output format: text or json (default: text)

Examples:
  sortify server
  sortify search wireless headphones
  sortify search --min 500 --max 2000 "laptop"
  sortify search --output json "headphones"
  sortify catalog`)
}
