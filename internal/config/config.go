package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config tunes file locations, timing windows and logging.
type Config struct {
	Data   DataConfig   `yaml:"data"`
	Timing TimingConfig `yaml:"timing"`
	Log    LogConfig    `yaml:"log"`
}

type DataConfig struct {
	Dir           string `yaml:"dir"`
	ShortlistFile string `yaml:"shortlist_file"`
	ArchiveFile   string `yaml:"archive_file"`
	MessagesFile  string `yaml:"messages_file"`
}

type TimingConfig struct {
	DebounceMS       int `yaml:"debounce_ms"`        // comment-edit quiescence window
	FollowUpCommitMS int `yaml:"followup_commit_ms"` // multi-key offset buffer window
}

type LogConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// Load reads configuration from defaults, then an optional YAML file
// (explicit path argument or PROSPECT_CONFIG_PATH), then environment
// variable overrides.
func Load(path string) (Config, error) {
	cfg := Config{
		Data: DataConfig{
			Dir:           ".",
			ShortlistFile: "connections_shortlist.json",
			ArchiveFile:   "crm_archive.json",
			MessagesFile:  "messages.csv",
		},
		Timing: TimingConfig{
			DebounceMS:       500,
			FollowUpCommitMS: 500,
		},
		Log: LogConfig{
			Level: "info",
			File:  "prospect.log",
		},
	}

	if path == "" {
		path = os.Getenv("PROSPECT_CONFIG_PATH")
	}
	if path != "" {
		if err := loadFromFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	if dir := os.Getenv("PROSPECT_DATA_DIR"); dir != "" {
		cfg.Data.Dir = dir
	}
	if level := os.Getenv("PROSPECT_LOG_LEVEL"); level != "" {
		cfg.Log.Level = level
	}
	if file := os.Getenv("PROSPECT_LOG_FILE"); file != "" {
		cfg.Log.File = file
	}
	if ms := os.Getenv("PROSPECT_DEBOUNCE_MS"); ms != "" {
		n, err := strconv.Atoi(ms)
		if err != nil {
			return Config{}, fmt.Errorf("invalid PROSPECT_DEBOUNCE_MS: %w", err)
		}
		cfg.Timing.DebounceMS = n
	}
	if ms := os.Getenv("PROSPECT_FOLLOWUP_COMMIT_MS"); ms != "" {
		n, err := strconv.Atoi(ms)
		if err != nil {
			return Config{}, fmt.Errorf("invalid PROSPECT_FOLLOWUP_COMMIT_MS: %w", err)
		}
		cfg.Timing.FollowUpCommitMS = n
	}

	return cfg, nil
}

func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}

// ShortlistPath is the resolved shortlist file location.
func (c Config) ShortlistPath() string {
	return filepath.Join(c.Data.Dir, c.Data.ShortlistFile)
}

// ArchivePath is the resolved archive file location.
func (c Config) ArchivePath() string {
	return filepath.Join(c.Data.Dir, c.Data.ArchiveFile)
}

// MessagesPath is the resolved messages export location.
func (c Config) MessagesPath() string {
	return filepath.Join(c.Data.Dir, c.Data.MessagesFile)
}

// LogPath is the resolved log file location.
func (c Config) LogPath() string {
	if filepath.IsAbs(c.Log.File) {
		return c.Log.File
	}
	return filepath.Join(c.Data.Dir, c.Log.File)
}

// Debounce is the comment-edit window as a duration.
func (c Config) Debounce() time.Duration {
	return time.Duration(c.Timing.DebounceMS) * time.Millisecond
}

// FollowUpCommit is the offset-buffer window as a duration.
func (c Config) FollowUpCommit() time.Duration {
	return time.Duration(c.Timing.FollowUpCommitMS) * time.Millisecond
}
