// Package config provides configuration management for concert-manager.
//
// This package handles:
//   - Loading and saving settings from JSON files
//   - Default configuration values
//   - Overrides from the environment and a .env file
//
// # Default Settings
//
// Use DefaultSettings() to get sensible defaults:
//
//	settings := config.DefaultSettings()
//	// Data files in ~/.concert-manager
//	// Info level logging to ~/.concert-manager/concert-manager.log
//	// Two concerts exported in parallel
//
// # Loading from File
//
//	settings, err := config.Load("/path/to/config.json")
//	if err != nil {
//	    // Uses defaults if file doesn't exist
//	}
//
// # Environment
//
// ApplyEnv loads .env files with godotenv and then reads the CONCERT_*
// variables. Variables already set in the process win over .env values:
//
//	CONCERT_DATA_DIR        data directory
//	CONCERT_LOG_LEVEL       debug, info, warn or error
//	CONCERT_LOG_FILE        log file path
//	CONCERT_MAX_EXPORTS     concerts exported in parallel
//	CONCERT_ADMIN_USERNAME  seeded administrator account
//	CONCERT_ADMIN_PASSWORD
//
// # Saving Settings
//
//	settings.DataDir = "/srv/concerts"
//	err := settings.Save("/path/to/config.json")
package config
