// Package main is the Shiori CLI entry point.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hazuki/shiori/internal/cli"
	"github.com/hazuki/shiori/internal/config"
	"github.com/hazuki/shiori/internal/ingest"
	"github.com/hazuki/shiori/internal/models"
	"github.com/hazuki/shiori/internal/search"
	"github.com/hazuki/shiori/internal/server"
	"github.com/hazuki/shiori/internal/storage"
	"github.com/hazuki/shiori/internal/watcher"
	"github.com/hazuki/shiori/pkg/utils"
)

var version = "dev"

const defaultConfigPath = "/usr/local/etc/shiori/config.yaml"

// loadConfig loads config from path. When path is the default, it first looks for
// config.yaml in the current directory (for development); if that exists it is used,
// so that "shiori server" from the project dir uses the project's config (including debug).
// Returns the config and the path that was actually loaded (for saving, etc.).
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
		// Missing default config is fine; everything has flag-level defaults.
		if errors.Is(err, os.ErrNotExist) {
			cfg = &config.Config{}
			config.ApplyDefaults(cfg)
			return cfg, "", nil
		}
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
	case "import":
		runImport()
	case "search":
		runSearch()
	case "media":
		runMedia()
	case "server":
		runServer()
	case "watch":
		runWatch()
	case "status":
		runStatus()
	case "version", "--version", "-v":
		fmt.Printf("shiori version %s\n", version)
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Printf("Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

// collectJSONFiles resolves the import inputs: the single --json path first,
// then every *.json in --json_dir in lexicographic order, duplicates removed.
func collectJSONFiles(jsonPath, jsonDir string) ([]string, error) {
	var files []string
	if jsonPath != "" {
		abs, err := filepath.Abs(jsonPath)
		if err != nil {
			return nil, err
		}
		files = append(files, abs)
	}
	if jsonDir != "" {
		absDir, err := filepath.Abs(jsonDir)
		if err != nil {
			return nil, err
		}
		if _, err := os.Stat(absDir); err != nil {
			return nil, fmt.Errorf("json_dir not found: %s", absDir)
		}
		matches, err := filepath.Glob(filepath.Join(absDir, "*.json"))
		if err != nil {
			return nil, err
		}
		sort.Strings(matches)
		files = append(files, matches...)
	}

	seen := make(map[string]bool)
	var out []string
	for _, f := range files {
		if !seen[f] {
			out = append(out, f)
			seen[f] = true
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("please provide --json or --json_dir")
	}
	return out, nil
}

func runImport() {
	fs := flag.NewFlagSet("import", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	mode := fs.String("mode", "incremental", "import mode: incremental or rebuild")
	jsonPath := fs.String("json", "", "single JSON export path")
	jsonDir := fs.String("json_dir", "", "directory containing *.json exports")
	dbPath := fs.String("db", "", "SQLite database path (overrides config)")
	mediaDir := fs.String("media_dir", "", "downloaded media directory (overrides config)")
	debug := fs.Bool("debug", false, "enable debug logging")
	_ = fs.Parse(os.Args[2:])

	if *mode != "incremental" && *mode != "rebuild" {
		fmt.Fprintf(os.Stderr, "Unknown mode %q; use incremental or rebuild\n", *mode)
		os.Exit(1)
	}

	cfg, _, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	if *dbPath != "" {
		cfg.Storage.DatabasePath = *dbPath
	}
	if *mediaDir != "" {
		cfg.Storage.MediaDir = *mediaDir
	}

	debugMode := cfg.Debug || *debug
	logger, err := utils.NewLogger(debugMode)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if cfg.Storage.MediaDir != "" {
		if _, err := os.Stat(cfg.Storage.MediaDir); err != nil {
			fmt.Fprintf(os.Stderr, "media_dir not found: %s\n", cfg.Storage.MediaDir)
			os.Exit(1)
		}
	}

	files, err := collectJSONFiles(*jsonPath, *jsonDir)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if *mode == "rebuild" {
		if err := storage.RemoveDatabase(cfg.Storage.DatabasePath); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to remove database: %v\n", err)
			os.Exit(1)
		}
	}

	store, err := storage.Open(cfg.Storage.DatabasePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open database: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	runID := uuid.New().String()
	logger.Info("import starting",
		zap.String("run_id", runID),
		zap.String("mode", *mode),
		zap.Int("files", len(files)),
		zap.String("db", store.Path()))

	ingOpts := []ingest.Option{}
	if debugMode {
		ingOpts = append(ingOpts, ingest.WithLogger(logger))
	}
	ing := ingest.NewIngester(store, cfg.Storage.MediaDir, ingOpts...)
	start := time.Now()
	run, err := ing.Run(context.Background(), files, *mode == "incremental")
	if err != nil {
		logger.Error("import failed", zap.String("run_id", runID), zap.Error(err))
		fmt.Fprintf(os.Stderr, "Import failed: %v\n", err)
		os.Exit(1)
	}
	logger.Info("import finished",
		zap.String("run_id", runID),
		zap.Int("inserted", run.Inserted),
		zap.Duration("took", time.Since(start)))

	rankedStatus := "enabled"
	if !store.RankedSearchAvailable() {
		rankedStatus = "not available, search will fall back to substring matching"
	}
	fmt.Printf("DB: %s\n", store.Path())
	fmt.Printf("JSON files: %d (skipped unchanged: %d)\n", len(files), run.SkippedFiles)
	fmt.Printf("Read tweets: %d, newly inserted: %d\n", run.Seen, run.Inserted)
	fmt.Printf("Ranked search: %s\n", rankedStatus)
}

// buildSearchQuery joins all positional args with spaces so multi-word queries
// work the same with or without shell quoting.
func buildSearchQuery(args []string) string {
	return strings.TrimSpace(strings.Join(args, " "))
}

// searchArgsReorder moves any flags (and their values) that appear after the query
// to the front of the slice so that flag.Parse() sees them. Go's flag package
// stops at the first non-flag argument, so `shiori search "query" -limit 5`
// would otherwise leave -limit unparsed.
func searchArgsReorder(args []string) []string {
	for i, a := range args {
		if len(a) > 0 && a[0] == '-' {
			if i == 0 {
				return args
			}
			reordered := make([]string, 0, len(args))
			reordered = append(reordered, args[i:]...)
			reordered = append(reordered, args[:i]...)
			return reordered
		}
	}
	return args
}

func printSearchUsage(fs *flag.FlagSet) {
	fmt.Fprintf(fs.Output(), "Usage: shiori search [flags] [query]\n\n")
	fmt.Fprintf(fs.Output(), "Query is all remaining arguments joined by spaces; an empty query lists the most recent tweets.\n\n")
	fs.PrintDefaults()
	fmt.Fprintf(fs.Output(), `
Examples:
  shiori search cat pictures
  shiori search "cat pictures"            # same as above
  shiori search --only-media sunset       # tweets with attachments only
  shiori search --min-bookmarks 50 go     # popular bookmarks
  shiori search --output json query       # structured JSON for other apps
  shiori search --limit 20                # no query: 20 most recent
`)
}

func runSearch() {
	searchArgs := searchArgsReorder(os.Args[2:])

	fs := flag.NewFlagSet("search", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	serverURL := fs.String("server", "", "server URL (empty = direct database access)")
	dbPath := fs.String("db", "", "SQLite database path (overrides config)")
	limit := fs.Int("limit", 0, "number of results (0 = config default)")
	onlyMedia := fs.Bool("only-media", false, "only tweets with attached media")
	minBookmarks := fs.Int64("min-bookmarks", 0, "minimum bookmark count")
	minFavorites := fs.Int64("min-favorites", 0, "minimum favorite (like) count")
	outputFormat := fs.String("output", "text", "output format: text or json")
	fs.Usage = func() { printSearchUsage(fs) }
	_ = fs.Parse(searchArgs)

	format := cli.OutputText
	switch *outputFormat {
	case "json":
		format = cli.OutputJSON
	case "text":
		format = cli.OutputText
	default:
		fmt.Printf("Unknown output format %q; use text or json\n", *outputFormat)
		os.Exit(1)
	}

	searchQuery := &models.SearchQuery{
		Query:        buildSearchQuery(fs.Args()),
		Limit:        *limit,
		OnlyMedia:    *onlyMedia,
		MinBookmarks: *minBookmarks,
		MinFavorites: *minFavorites,
	}

	if *serverURL != "" {
		response, err := searchViaHTTP(*serverURL, searchQuery)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Search failed: %v\n", err)
			os.Exit(1)
		}
		if err := cli.WriteSearchResults(os.Stdout, response, format); err != nil {
			fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
			os.Exit(1)
		}
		return
	}

	cfg, _, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	if *dbPath != "" {
		cfg.Storage.DatabasePath = *dbPath
	}
	store, err := storage.Open(cfg.Storage.DatabasePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open database: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	engine := search.NewEngine(store, &cfg.Search)
	response, err := engine.Search(context.Background(), searchQuery)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Search failed: %v\n", err)
		os.Exit(1)
	}
	if err := cli.WriteSearchResults(os.Stdout, response, format); err != nil {
		fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
		os.Exit(1)
	}
}

func searchViaHTTP(serverURL string, query *models.SearchQuery) (*models.SearchResponse, error) {
	body, err := json.Marshal(query)
	if err != nil {
		return nil, err
	}
	resp, err := http.Post(serverURL+"/api/v1/search", "application/json", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("server returned %d: %s", resp.StatusCode, string(b))
	}
	var response models.SearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &response, nil
}

func runMedia() {
	fs := flag.NewFlagSet("media", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	serverURL := fs.String("server", "", "server URL (empty = direct database access)")
	dbPath := fs.String("db", "", "SQLite database path (overrides config)")
	outputFormat := fs.String("output", "text", "output format: text or json")
	_ = fs.Parse(os.Args[2:])

	if fs.NArg() < 1 {
		fmt.Println("Usage: shiori media [flags] <tweet-id>")
		os.Exit(1)
	}
	tweetID := fs.Arg(0)

	format := cli.OutputText
	if *outputFormat == "json" {
		format = cli.OutputJSON
	}

	var items []*models.MediaItem
	if *serverURL != "" {
		resp, err := http.Get(*serverURL + "/api/v1/tweets/" + url.PathEscape(tweetID) + "/media")
		if err != nil {
			fmt.Fprintf(os.Stderr, "Request failed: %v\n", err)
			os.Exit(1)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			b, _ := io.ReadAll(resp.Body)
			fmt.Fprintf(os.Stderr, "Server returned %d: %s\n", resp.StatusCode, string(b))
			os.Exit(1)
		}
		var out struct {
			Media []*models.MediaItem `json:"media"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
			fmt.Fprintf(os.Stderr, "Parse failed: %v\n", err)
			os.Exit(1)
		}
		items = out.Media
	} else {
		cfg, _, err := loadConfig(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
			os.Exit(1)
		}
		if *dbPath != "" {
			cfg.Storage.DatabasePath = *dbPath
		}
		store, err := storage.Open(cfg.Storage.DatabasePath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to open database: %v\n", err)
			os.Exit(1)
		}
		defer store.Close()
		items, err = store.ListMedia(context.Background(), tweetID)
		if err != nil {
			fmt.Fprintf(os.Stderr, "List media failed: %v\n", err)
			os.Exit(1)
		}
	}

	if err := cli.WriteMediaList(os.Stdout, tweetID, items, format); err != nil {
		fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
		os.Exit(1)
	}
}

func runServer() {
	fs := flag.NewFlagSet("server", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	debug := fs.Bool("debug", false, "enable debug logging (watch events, file imports, etc.)")
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

	store, err := storage.Open(cfg.Storage.DatabasePath)
	if err != nil {
		logger.Fatal("Failed to open database", zap.Error(err))
	}
	defer store.Close()
	if !store.RankedSearchAvailable() {
		logger.Warn("ranked search unavailable, substring fallback in effect")
	}

	engine := search.NewEngine(store, &cfg.Search)

	ingOpts := []ingest.Option{}
	if debugMode {
		ingOpts = append(ingOpts, ingest.WithLogger(logger))
	}
	ing := ingest.NewIngester(store, cfg.Storage.MediaDir, ingOpts...)
	tracker := ingest.NewTracker(store)

	watchOpts := []watcher.WatcherOption{
		watcher.WithDebounce(time.Duration(cfg.Watch.DebounceMs) * time.Millisecond),
	}
	if debugMode {
		watchOpts = append(watchOpts, watcher.WithLogger(logger))
	}
	watchSvc := watcher.NewWatcher(
		cfg.Watch.Directories,
		func(path string) {
			ctx := context.Background()
			skip, err := tracker.ShouldSkip(ctx, path)
			if err == nil && skip {
				return
			}
			res, err := ing.IngestFile(ctx, path)
			if err != nil {
				logger.Warn("watch import failed", zap.String("path", path), zap.Error(err))
				return
			}
			logger.Info("watch import done",
				zap.String("path", path),
				zap.Int("seen", res.Seen),
				zap.Int("inserted", res.Inserted))
		},
		watchOpts...,
	)
	watchCtx, watchCancel := context.WithCancel(context.Background())
	defer watchCancel()
	if err := watchSvc.Start(watchCtx); err != nil {
		logger.Fatal("Failed to start watcher", zap.Error(err))
	}
	watchSvc.SyncExistingFiles()

	srv := server.NewServer(engine, store, cfg, logger)
	srv.SetWatch(watchSvc, resolvedConfigPath)
	go func() {
		if err := srv.Start(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutting down...")
	watchCancel()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Stop(ctx)
}

// statusConfigResponse holds configuration info returned by status.
type statusConfigResponse struct {
	DatabasePath string `json:"database_path,omitempty"`
	MediaDir     string `json:"media_dir,omitempty"`
}

// statusResponse is the shape of GET /api/v1/status response.
type statusResponse struct {
	Tweets         int64                 `json:"tweets"`
	Media          int64                 `json:"media"`
	Imports        int64                 `json:"imports"`
	RankedSearch   string                `json:"ranked_search"`
	DiskUsageBytes *int64                `json:"disk_usage_bytes,omitempty"`
	Config         *statusConfigResponse `json:"config,omitempty"`
}

func runStatus() {
	fs := flag.NewFlagSet("status", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	serverURL := fs.String("server", "", "server URL (empty = direct database access)")
	dbPath := fs.String("db", "", "SQLite database path (overrides config)")
	outputFormat := fs.String("output", "text", "output format: text or json")
	_ = fs.Parse(os.Args[2:])

	var status statusResponse
	if *serverURL != "" {
		res, err := statusViaHTTP(*serverURL)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Status failed: %v\n", err)
			os.Exit(1)
		}
		status = *res
	} else {
		cfg, _, err := loadConfig(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
			os.Exit(1)
		}
		if *dbPath != "" {
			cfg.Storage.DatabasePath = *dbPath
		}
		store, err := storage.Open(cfg.Storage.DatabasePath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to open database: %v\n", err)
			os.Exit(1)
		}
		defer store.Close()

		ctx := context.Background()
		tweetCount, err := store.CountTweets(ctx)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Count tweets failed: %v\n", err)
			os.Exit(1)
		}
		mediaCount, err := store.CountMedia(ctx)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Count media failed: %v\n", err)
			os.Exit(1)
		}
		importCount, err := store.CountImports(ctx)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Count imports failed: %v\n", err)
			os.Exit(1)
		}
		rankedSearch := "substring fallback"
		if store.RankedSearchAvailable() {
			rankedSearch = "enabled"
		}
		status = statusResponse{
			Tweets:       tweetCount,
			Media:        mediaCount,
			Imports:      importCount,
			RankedSearch: rankedSearch,
			Config: &statusConfigResponse{
				DatabasePath: cfg.Storage.DatabasePath,
				MediaDir:     cfg.Storage.MediaDir,
			},
		}
		if diskBytes, err := storage.DiskUsageBytes(cfg.Storage.DatabasePath); err == nil {
			status.DiskUsageBytes = &diskBytes
		}
	}

	switch *outputFormat {
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(status); err != nil {
			fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
			os.Exit(1)
		}
	case "text":
		fmt.Printf("tweets:            %d\n", status.Tweets)
		fmt.Printf("media:             %d\n", status.Media)
		fmt.Printf("imports:           %d   # fingerprinted source files\n", status.Imports)
		fmt.Printf("ranked_search:     %s\n", status.RankedSearch)
		if status.DiskUsageBytes != nil {
			fmt.Printf("disk_usage_bytes:  %d\n", *status.DiskUsageBytes)
		}
		if status.Config != nil {
			if status.Config.DatabasePath != "" {
				fmt.Printf("database_path:     %s\n", status.Config.DatabasePath)
			}
			if status.Config.MediaDir != "" {
				fmt.Printf("media_dir:         %s\n", status.Config.MediaDir)
			}
		}
	default:
		fmt.Fprintf(os.Stderr, "Unknown output format %q; use text or json\n", *outputFormat)
		os.Exit(1)
	}
}

func statusViaHTTP(serverURL string) (*statusResponse, error) {
	resp, err := http.Get(serverURL + "/api/v1/status")
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("server returned %d: %s", resp.StatusCode, string(b))
	}
	var s statusResponse
	if err := json.NewDecoder(resp.Body).Decode(&s); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &s, nil
}

func runWatch() {
	if len(os.Args) < 3 {
		fmt.Println("Usage: shiori watch <add|remove|list> [path]")
		fmt.Println("  shiori watch add <path>     Add export directory to watch")
		fmt.Println("  shiori watch remove <path>  Remove export directory from watch")
		fmt.Println("  shiori watch list           List watched directories")
		os.Exit(1)
	}
	sub := os.Args[2]
	fs := flag.NewFlagSet("watch", flag.ExitOnError)
	serverURL := fs.String("server", "http://localhost:8080", "server URL")
	_ = fs.Parse(os.Args[3:])
	switch sub {
	case "add":
		if fs.NArg() < 1 {
			fmt.Println("Usage: shiori watch add <path>")
			os.Exit(1)
		}
		path, _ := filepath.Abs(fs.Arg(0))
		body, _ := json.Marshal(map[string]interface{}{"path": path, "sync": true})
		resp, err := http.Post(*serverURL+"/api/v1/watch/directories", "application/json", bytes.NewReader(body))
		if err != nil {
			fmt.Printf("Request failed: %v\n", err)
			os.Exit(1)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusCreated {
			b, _ := io.ReadAll(resp.Body)
			fmt.Printf("Add failed (%d): %s\n", resp.StatusCode, string(b))
			os.Exit(1)
		}
		fmt.Printf("Added: %s\n", path)
	case "remove":
		if fs.NArg() < 1 {
			fmt.Println("Usage: shiori watch remove <path>")
			os.Exit(1)
		}
		path, _ := filepath.Abs(fs.Arg(0))
		req, _ := http.NewRequest(http.MethodDelete, *serverURL+"/api/v1/watch/directories?path="+url.QueryEscape(path), nil)
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			fmt.Printf("Request failed: %v\n", err)
			os.Exit(1)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			b, _ := io.ReadAll(resp.Body)
			fmt.Printf("Remove failed (%d): %s\n", resp.StatusCode, string(b))
			os.Exit(1)
		}
		fmt.Printf("Removed: %s\n", path)
	case "list":
		resp, err := http.Get(*serverURL + "/api/v1/watch/directories")
		if err != nil {
			fmt.Printf("Request failed: %v\n", err)
			os.Exit(1)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			b, _ := io.ReadAll(resp.Body)
			fmt.Printf("List failed (%d): %s\n", resp.StatusCode, string(b))
			os.Exit(1)
		}
		var out struct {
			Directories []string `json:"directories"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
			fmt.Printf("Parse failed: %v\n", err)
			os.Exit(1)
		}
		for _, d := range out.Directories {
			fmt.Println(d)
		}
	default:
		fmt.Printf("Unknown watch subcommand: %s\n", sub)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`shiori - Twitter bookmark archive and search

Usage:
  shiori import [flags]             Import bookmark JSON exports
  shiori search [flags] [query]     Search stored tweets
  shiori media [flags] <tweet-id>   List a tweet's media attachments
  shiori server [flags]             Start the HTTP server
  shiori status [flags]             Show store status
  shiori watch <add|remove|list>    Manage watched export directories
  shiori version                    Show version
  shiori help                       Show this help

Import Flags:
  --config string     Config file path (default: /usr/local/etc/shiori/config.yaml)
  --mode string       incremental (skip unchanged files) or rebuild (recreate the database) (default: incremental)
  --json string       Single JSON export path
  --json_dir string   Directory containing *.json exports
  --db string         SQLite database path (overrides config)
  --media_dir string  Downloaded media directory (overrides config)

Search Flags:
  --config string        Config file path (for direct database access)
  --server string        Server URL; empty uses the database directly
  --db string            SQLite database path (overrides config)
  --limit int            Number of results (default from config)
  --only-media           Only tweets with attached media
  --min-bookmarks int    Minimum bookmark count
  --min-favorites int    Minimum favorite (like) count
  --output string        Output format: text or json (default: text)

Server Flags:
  --config string    Config file path
  --debug            Enable debug logging (watch events, file imports, etc.)

Status/Media Flags:
  --config string    Config file path (for direct database access)
  --server string    Server URL; empty uses the database directly
  --output string    Output format: text or json (default: text)

Examples:
  shiori import --json_dir ~/Downloads/bookmarks --media_dir ~/Downloads/bookmarks/tweet_back
  shiori import --mode rebuild --json export.json --db bookmarks.db
  shiori search cat pictures
  shiori search --only-media --min-bookmarks 50 sunset
  shiori media 1755112233445566778
  shiori server
  shiori status --output json
  shiori watch add ~/Downloads/bookmarks`)
}
