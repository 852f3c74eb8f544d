package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Settings holds all configuration options.
type Settings struct {
	// Storage
	DataDir string `json:"data_dir"`

	// Logging
	LogLevel string `json:"log_level"` // debug, info, warn, error
	LogFile  string `json:"log_file"`  // defaults to <data_dir>/concert-manager.log

	// Export settings
	MaxConcurrentExports int    `json:"max_concurrent_exports"`
	PassScale            int    `json:"pass_scale"`
	PassFormat           string `json:"pass_format"` // png, jpeg
	PlaylistFormat       string `json:"playlist_format"` // m3u, pls
	M3UExtended          bool   `json:"m3u_extended"`
	TagSampleTracks      bool   `json:"tag_sample_tracks"`

	// Accounts
	AdminUsername string `json:"admin_username"`
	AdminPassword string `json:"admin_password"`
	BcryptCost    int    `json:"bcrypt_cost"`
}

// DefaultSettings returns settings with default values.
func DefaultSettings() *Settings {
	homeDir, _ := os.UserHomeDir()
	return &Settings{
		DataDir: filepath.Join(homeDir, ".concert-manager"),

		LogLevel: "info",

		MaxConcurrentExports: 2,
		PassScale:            2,
		PassFormat:           "png",
		PlaylistFormat:       "m3u",
		M3UExtended:          true,
		TagSampleTracks:      true,

		AdminUsername: "admin",
		AdminPassword: "admin1234",
		BcryptCost:    10,
	}
}

// Load reads settings from a JSON file. A missing file yields the defaults.
func Load(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultSettings(), nil
		}
		return nil, err
	}

	settings := DefaultSettings()
	if err := json.Unmarshal(data, settings); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	return settings, nil
}

// Save writes settings to a JSON file.
func (s *Settings) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// ApplyEnv loads the given .env files (".env" when none are named) and
// overrides settings from CONCERT_* variables. Missing .env files are
// ignored.
func (s *Settings) ApplyEnv(envFiles ...string) error {
	if err := godotenv.Load(envFiles...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load env: %w", err)
	}

	s.DataDir = getEnv("CONCERT_DATA_DIR", s.DataDir)
	s.LogLevel = getEnv("CONCERT_LOG_LEVEL", s.LogLevel)
	s.LogFile = getEnv("CONCERT_LOG_FILE", s.LogFile)
	s.MaxConcurrentExports = getEnvInt("CONCERT_MAX_EXPORTS", s.MaxConcurrentExports)
	s.AdminUsername = getEnv("CONCERT_ADMIN_USERNAME", s.AdminUsername)
	s.AdminPassword = getEnv("CONCERT_ADMIN_PASSWORD", s.AdminPassword)
	return nil
}

// Validate checks that the settings can be used.
func (s *Settings) Validate() error {
	if strings.TrimSpace(s.DataDir) == "" {
		return errors.New("data_dir is required")
	}
	switch strings.ToLower(s.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log_level %q", s.LogLevel)
	}
	if s.MaxConcurrentExports <= 0 {
		return fmt.Errorf("max_concurrent_exports must be positive, got %d", s.MaxConcurrentExports)
	}
	if s.PassScale <= 0 {
		return fmt.Errorf("pass_scale must be positive, got %d", s.PassScale)
	}
	switch strings.ToLower(s.PassFormat) {
	case "png", "jpeg", "jpg":
	default:
		return fmt.Errorf("unknown pass_format %q", s.PassFormat)
	}
	switch strings.ToLower(s.PlaylistFormat) {
	case "m3u", "pls":
	default:
		return fmt.Errorf("unknown playlist_format %q", s.PlaylistFormat)
	}
	if s.BcryptCost != 0 && (s.BcryptCost < 4 || s.BcryptCost > 31) {
		return fmt.Errorf("bcrypt_cost %d out of range 4..31", s.BcryptCost)
	}
	return nil
}

// LogPath returns the log file, defaulting to a file in the data directory.
func (s *Settings) LogPath() string {
	if s.LogFile != "" {
		return s.LogFile
	}
	return filepath.Join(s.DataDir, "concert-manager.log")
}

func getEnv(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
