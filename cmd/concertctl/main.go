package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"slices"
	"strconv"
	"strings"
	"syscall"

	"go.uber.org/zap"

	"github.com/handiism/concert-manager/internal/app"
	"github.com/handiism/concert-manager/internal/config"
	"github.com/handiism/concert-manager/internal/console"
	"github.com/handiism/concert-manager/internal/export"
	"github.com/handiism/concert-manager/internal/logging"
	"github.com/handiism/concert-manager/internal/model"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

// run executes the command and returns the process exit code. Deferred
// cleanup, including the logger flush, runs before main exits.
func run(args []string) int {
	flags := flag.NewFlagSet("concertctl", flag.ContinueOnError)

	// Command line flags
	var (
		configFlag  = flags.String("config", "", "Path to settings file")
		dataFlag    = flags.String("data", "", "Data directory (overrides config and environment)")
		verboseFlag = flags.Bool("verbose", false, "Log debug output to stderr")
		seedFlag    = flags.Bool("seed", false, "Create demo data when the stores are empty")
		exportFlag  = flags.String("export", "", "Export concerts (comma-separated IDs or \"all\") and exit")
		outFlag     = flags.String("out", "exports", "Export output directory")
	)

	flags.Usage = func() {
		fmt.Fprintln(os.Stderr, "Concert Manager - venues, concerts, tickets and attendees")
		fmt.Fprintln(os.Stderr)
		fmt.Fprintln(os.Stderr, "Usage:")
		fmt.Fprintln(os.Stderr, "  concertctl [options]                 interactive console")
		fmt.Fprintln(os.Stderr, "  concertctl -export 1,2 -out <dir>    export concerts and exit")
		fmt.Fprintln(os.Stderr)
		fmt.Fprintln(os.Stderr, "For the dashboard, use: concert-tui")
		fmt.Fprintln(os.Stderr)
		flags.PrintDefaults()
	}
	if err := flags.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	ids, err := parseConcertIDs(*exportFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 2
	}

	// Load config: file, then environment, then flags
	settings := config.DefaultSettings()
	if *configFlag != "" {
		settings, err = config.Load(*configFlag)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			return 1
		}
	}
	if err := settings.ApplyEnv(); err != nil {
		fmt.Fprintf(os.Stderr, "Error loading environment: %v\n", err)
		return 1
	}
	if *dataFlag != "" {
		settings.DataDir = *dataFlag
	}
	if *verboseFlag {
		settings.LogLevel = "debug"
	}
	if err := settings.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error in config: %v\n", err)
		return 1
	}

	logOpts := logging.Options{Level: settings.LogLevel, File: settings.LogPath()}
	if *verboseFlag {
		logOpts.Console = os.Stderr
	}
	logger, err := logging.New(logOpts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating logger: %v\n", err)
		return 1
	}
	defer logger.Sync()

	// Handle interrupts: the first cancels, the second exits
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 2)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		<-sigCh
		fmt.Println("\nInterrupted, cancelling...")
		cancel()
		<-sigCh
		_ = logger.Sync()
		os.Exit(130)
	}()

	a, err := app.Open(ctx, settings, logger)
	if err != nil {
		logger.Error("cannot open stores", zap.String("dir", settings.DataDir), zap.Error(err))
		fmt.Fprintf(os.Stderr, "Error opening data in %s: %v\n", settings.DataDir, err)
		return 1
	}

	if *seedFlag {
		created, err := a.Seed()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error creating demo data: %v\n", err)
			return 1
		}
		if created {
			fmt.Printf("Demo data created. Log in as %s / %s.\n", app.DemoUsername, app.DemoPassword)
		}
	}

	if *exportFlag != "" {
		return runExport(ctx, a, ids, *outFlag, *verboseFlag)
	}

	shell := console.New(a, os.Stdin, os.Stdout)
	shell.ExportDir = *outFlag
	if err := shell.Run(ctx); err != nil {
		if errors.Is(err, context.Canceled) {
			return 130
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

// runExport exports concerts non-interactively and returns the exit code.
func runExport(ctx context.Context, a *app.App, ids []model.ConcertID, outDir string, verbose bool) int {
	manager := export.NewManager(a, func(event export.ProgressEvent) {
		if event.Level == export.LevelVerbose && !verbose {
			return
		}

		prefix := ""
		switch event.Level {
		case export.LevelError:
			prefix = "[error] "
		case export.LevelWarning:
			prefix = "[warn]  "
		case export.LevelSuccess:
			prefix = "[done]  "
		case export.LevelInfo:
			prefix = "[info]  "
		default:
			prefix = "        "
		}

		fmt.Println(prefix + event.Message)
	})

	fmt.Println("Concert Manager export")
	fmt.Println(strings.Repeat("-", 40))
	fmt.Println()

	err := manager.Export(ctx, ids, outDir)
	done, total, files := manager.Progress()

	fmt.Println()
	fmt.Println(strings.Repeat("-", 40))
	if err != nil {
		if ctx.Err() != nil {
			fmt.Println("Export cancelled.")
			return 130
		}
		fmt.Fprintf(os.Stderr, "Error during export: %v\n", err)
		fmt.Printf("Exported %d/%d concerts, %d files written to %s\n", done, total, files, outDir)
		return 1
	}
	fmt.Printf("Complete! Exported %d/%d concerts, %d files written to %s\n", done, total, files, outDir)
	return 0
}

// parseConcertIDs parses the -export flag. "all" and the empty string mean
// every concert. Repeated IDs are kept once.
func parseConcertIDs(v string) ([]model.ConcertID, error) {
	v = strings.TrimSpace(v)
	if v == "" || strings.EqualFold(v, "all") {
		return nil, nil
	}
	var ids []model.ConcertID
	for _, part := range strings.Split(v, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		n, err := strconv.Atoi(part)
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("invalid concert ID %q", part)
		}
		if id := model.ConcertID(n); !slices.Contains(ids, id) {
			ids = append(ids, id)
		}
	}
	return ids, nil
}
