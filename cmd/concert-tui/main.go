package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/handiism/concert-manager/internal/config"
	"github.com/handiism/concert-manager/internal/logging"
	"github.com/handiism/concert-manager/internal/tui"
)

func main() {
	var (
		configFlag = flag.String("config", "", "Path to settings file")
		dataFlag   = flag.String("data", "", "Data directory (overrides config and environment)")
		outFlag    = flag.String("out", "exports", "Export output directory")
	)
	flag.Parse()

	settings := config.DefaultSettings()
	if *configFlag != "" {
		var err error
		settings, err = config.Load(*configFlag)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
	}
	if err := settings.ApplyEnv(); err != nil {
		fmt.Fprintf(os.Stderr, "Error loading environment: %v\n", err)
		os.Exit(1)
	}
	if *dataFlag != "" {
		settings.DataDir = *dataFlag
	}
	if err := settings.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error in config: %v\n", err)
		os.Exit(1)
	}

	// The terminal belongs to the TUI; logs go to the file only.
	logger, err := logging.New(logging.Options{Level: settings.LogLevel, File: settings.LogPath()})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating logger: %v\n", err)
		os.Exit(1)
	}

	err = tui.Run(tui.Options{Settings: settings, Logger: logger, ExportDir: *outFlag})
	_ = logger.Sync()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
