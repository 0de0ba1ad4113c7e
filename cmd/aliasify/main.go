package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"aliasify/internal/app"
	"aliasify/internal/config"
	"aliasify/internal/history"
	"aliasify/internal/util"
	"aliasify/internal/watcher"
)

var (
	configPath  = flag.String("config", "./aliasify.toml", "Path to config file")
	write       = flag.Bool("write", false, "Apply rewrites instead of reporting them")
	refs        = flag.Bool("refs", true, "Propagate renames to non-import string references")
	watch       = flag.Bool("watch", false, "Keep running and rewrite files as they change")
	historyPath = flag.String("history", "", "SQLite file for run history (overrides config)")
	runs        = flag.Int("runs", 0, "Print the most recent N recorded runs and exit")
	verbose     = flag.Bool("verbose", false, "Enable verbose logging")
	version     = flag.Bool("version", false, "Print version and exit")
)

const VERSION = "0.1.0"

func main() {
	flag.Parse()

	if *version {
		fmt.Printf("aliasify v%s\n", VERSION)
		os.Exit(0)
	}

	logLevel := slog.LevelInfo
	if *verbose {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	cfg, err := config.Load(*configPath)
	if err != nil {
		if *configPath == "./aliasify.toml" && os.IsNotExist(err) {
			cfg = config.Default()
		} else {
			slog.Error("failed to load config", "error", err)
			os.Exit(1)
		}
	}

	refsEnabled := cfg.Refs.Enabled
	storePath := cfg.History.Path
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "refs":
			refsEnabled = *refs
		case "history":
			storePath = *historyPath
		}
	})

	root := "."
	if flag.NArg() > 0 {
		root = flag.Arg(0)
	}

	var store *history.Store
	if storePath != "" {
		store, err = history.Open(storePath)
		if err != nil {
			slog.Error("failed to open run history", "error", err)
			os.Exit(1)
		}
		defer store.Close()
	}

	if *runs > 0 {
		if store == nil {
			fmt.Fprintln(os.Stderr, "--runs requires a history path (--history or config)")
			os.Exit(1)
		}
		recent, err := store.LoadRuns(*runs)
		if err != nil {
			slog.Error("failed to load run history", "error", err)
			os.Exit(1)
		}
		printRuns(recent)
		os.Exit(0)
	}

	mode := ""
	if *watch {
		mode = "watch"
		// A partial batch cannot prove project-wide uniqueness of a rename.
		if refsEnabled {
			slog.Info("reference propagation is disabled in watch mode")
			refsEnabled = false
		}
	}

	a, err := app.New(cfg, app.Options{
		Root:  root,
		Write: *write,
		Refs:  refsEnabled,
		Mode:  mode,
	})
	if err != nil {
		slog.Error("failed to initialize", "error", err)
		os.Exit(1)
	}
	a.SetHistory(store)

	summary, err := a.Run()
	if err != nil {
		slog.Error("run failed", "error", err)
		os.Exit(1)
	}
	printSummary(summary, *write)

	if !*watch {
		os.Exit(0)
	}

	if !*write {
		fmt.Fprintln(os.Stderr, "--watch requires --write")
		os.Exit(1)
	}

	// Burst-friendly cap on rewrite runs when editors save in rapid bursts.
	limiter := util.NewLimiter(2, 1)
	w, err := watcher.NewWatcher(cfg.Watch.Debounce, cfg.Exclude.Dirs, a.Scanner().Supported, func(paths []string) {
		if err := limiter.Wait(context.Background(), 1); err != nil {
			return
		}
		batch, err := a.RunFiles(paths)
		if err != nil {
			slog.Error("watch run failed", "error", err)
			return
		}
		if batch.FilesChanged > 0 {
			printSummary(batch, true)
		}
	})
	if err != nil {
		slog.Error("failed to create watcher", "error", err)
		os.Exit(1)
	}
	defer w.Close()

	if err := w.Watch([]string{root}); err != nil {
		slog.Error("failed to start watcher", "error", err)
		os.Exit(1)
	}
	slog.Info("watching for changes", "root", root, "debounce", cfg.Watch.Debounce)
	select {}
}
