// Package main is the entry point for the blockedit editor.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/dshills/blockedit/internal/app"
	"github.com/dshills/blockedit/internal/clipboard"
	"github.com/dshills/blockedit/internal/config"
	"github.com/dshills/blockedit/internal/renderer/backend"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

type options struct {
	configPath string
	logLevel   string
	readOnly   bool
	noWatch    bool
	file       string
}

func main() {
	os.Exit(run())
}

func run() int {
	opts := parseFlags()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	term, err := backend.NewTerminal()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to create terminal: %v\n", err)
		return 1
	}

	overrides := map[string]any{}
	if opts.logLevel != "" {
		overrides["logging.level"] = opts.logLevel
	}
	if opts.readOnly {
		overrides["editor.readOnly"] = true
	}
	cfg := config.New(
		config.WithFile(opts.configPath),
		config.WithOverrides(overrides),
		config.WithWatcher(!opts.noWatch),
		config.WithErrorHandler(func(err error) {
			term.PostEvent(backend.Event{Type: backend.EventInterrupt, Data: err})
		}),
	)
	if err := cfg.Load(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: loading settings: %v\n", err)
		return 1
	}
	defer cfg.Close()

	logCfg := cfg.Logging()
	logOut, err := app.OpenLogFile(logCfg.File)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	defer logOut.Close()
	logger := app.NewLogger(app.LoggerConfig{
		Level:  app.ParseLogLevel(logCfg.Level),
		Output: logOut,
		Prefix: "blockedit",
	})
	logger.Info("blockedit %s starting, settings %q", version, cfg.Path())

	if err := term.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to initialize terminal: %v\n", err)
		return 1
	}
	defer term.Shutdown()

	application, err := app.New(term, app.Options{
		Path:      opts.file,
		Config:    cfg,
		Logger:    logger,
		Clipboard: clipboard.New(),
	})
	if err != nil {
		term.Shutdown()
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	defer application.Close()

	if err := application.Run(ctx); err != nil && ctx.Err() == nil {
		logger.Error("run: %v", err)
		term.Shutdown()
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func parseFlags() options {
	var opts options
	var showVersion bool

	flag.StringVar(&opts.configPath, "config", config.DefaultPath(), "Path to the settings file")
	flag.StringVar(&opts.configPath, "c", config.DefaultPath(), "Path to the settings file (shorthand)")
	flag.StringVar(&opts.logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	flag.BoolVar(&opts.readOnly, "R", false, "Open the file read-only")
	flag.BoolVar(&opts.noWatch, "no-watch", false, "Do not reload the settings file when it changes")
	flag.BoolVar(&showVersion, "version", false, "Show version information")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "blockedit - terminal text editor\n\n")
		fmt.Fprintf(os.Stderr, "Usage: blockedit [options] [file]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nKeys: Ctrl+S save, Ctrl+Q quit, Ctrl+G go to line,\n")
		fmt.Fprintf(os.Stderr, "Ctrl+A select all, Ctrl+C/X/V copy, cut, paste.\n")
	}

	flag.Parse()

	if showVersion {
		fmt.Printf("blockedit %s\n", version)
		fmt.Printf("Commit: %s\n", commit)
		fmt.Printf("Built: %s\n", date)
		os.Exit(0)
	}

	switch opts.logLevel {
	case "", "debug", "info", "warn", "error":
	default:
		fmt.Fprintf(os.Stderr, "Error: invalid log level %q (must be debug, info, warn, or error)\n", opts.logLevel)
		os.Exit(1)
	}

	if flag.NArg() > 1 {
		fmt.Fprintf(os.Stderr, "Error: only one file can be edited at a time\n")
		os.Exit(1)
	}
	opts.file = flag.Arg(0)
	return opts
}
