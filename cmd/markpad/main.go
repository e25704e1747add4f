// Package main is the entry point for the markpad note editor.
package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"

	"github.com/dshills/markpad/internal/app"
	"github.com/dshills/markpad/internal/config"
	"github.com/dshills/markpad/internal/input/keymap"
	"github.com/dshills/markpad/internal/renderer/backend"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	opts, showKeys := parseFlags()

	if showKeys {
		if err := printKeys(opts.ConfigPath); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
		return 0
	}

	application, err := app.New(opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to initialize: %v\n", err)
		return 1
	}

	defer func() {
		if err := application.Shutdown(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: shutdown: %v\n", err)
		}
	}()

	term, err := backend.NewTerminal()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to create terminal: %v\n", err)
		return 1
	}
	if err := application.SetBackend(term); err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to set backend: %v\n", err)
		return 1
	}

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(signals)

	go func() {
		if _, ok := <-signals; ok {
			_ = application.Shutdown()
		}
	}()

	if err := application.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func parseFlags() (app.Options, bool) {
	var opts app.Options
	var showVersion, showHelp, showKeys bool

	flag.StringVar(&opts.ConfigPath, "config", "", "Path to configuration file")
	flag.StringVar(&opts.ConfigPath, "c", "", "Path to configuration file (shorthand)")
	flag.StringVar(&opts.NoteID, "note", "", "ID of the note to open")
	flag.BoolVar(&opts.New, "new", false, "Start a new note")
	flag.StringVar(&opts.LogLevel, "log-level", "", "Log level (debug, info, warn, error)")
	flag.BoolVar(&showKeys, "keys", false, "List key bindings and exit")
	flag.BoolVar(&showVersion, "version", false, "Show version information")
	flag.BoolVar(&showVersion, "v", false, "Show version information (shorthand)")
	flag.BoolVar(&showHelp, "help", false, "Show help message")
	flag.BoolVar(&showHelp, "h", false, "Show help message (shorthand)")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "markpad - Markdown notes with a live preview\n\n")
		fmt.Fprintf(os.Stderr, "Usage: markpad [options]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  markpad                  Open the most recent note\n")
		fmt.Fprintf(os.Stderr, "  markpad -new             Start a new note\n")
		fmt.Fprintf(os.Stderr, "  markpad -note <id>       Open a note by ID\n")
		fmt.Fprintf(os.Stderr, "  markpad -keys            List key bindings\n")
	}

	flag.Parse()

	if showHelp {
		flag.Usage()
		os.Exit(0)
	}

	if showVersion {
		fmt.Printf("markpad %s\n", version)
		fmt.Printf("Commit: %s\n", commit)
		fmt.Printf("Built: %s\n", date)
		os.Exit(0)
	}

	switch opts.LogLevel {
	case "", "debug", "info", "warn", "error":
	default:
		fmt.Fprintf(os.Stderr, "Error: invalid log level %q (must be debug, info, warn, or error)\n", opts.LogLevel)
		os.Exit(1)
	}

	if opts.New && opts.NoteID != "" {
		fmt.Fprintf(os.Stderr, "Error: -new and -note cannot be combined\n")
		os.Exit(1)
	}

	return opts, showKeys
}

// printKeys lists the default bindings merged with the user keymaps named
// in the configuration.
func printKeys(configPath string) error {
	if configPath == "" {
		configPath = app.DefaultConfigPath()
	}
	cfg, err := config.NewLoader(config.WithFiles(configPath)).Load()
	if err != nil {
		return err
	}

	reg := keymap.NewRegistry()
	if err := reg.Register(keymap.Default()); err != nil {
		return err
	}
	kms, loadErr := keymap.NewLoader(cfg.Keymap.Paths...).LoadAll()
	if err := reg.Replace("user", kms); err != nil {
		return err
	}
	if loadErr != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", loadErr)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	for _, c := range keymap.GroupByCategory(reg.Bindings()) {
		fmt.Fprintf(w, "%s\n", c.Name)
		for _, b := range c.Bindings {
			desc := b.Description
			if desc == "" {
				desc = b.Action
			}
			fmt.Fprintf(w, "  %s\t%s\n", b.Keys, desc)
		}
	}
	return w.Flush()
}
