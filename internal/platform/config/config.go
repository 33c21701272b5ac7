package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DefaultSourceURL = "https://octopus.energy/free-electricity/"
	DefaultInterval  = time.Hour
)

type Config struct {
	// OutputDir holds every data file the watcher owns: session stores,
	// notification history, reports and the log.
	OutputDir string `yaml:"-"`

	SourceURL  string        `yaml:"source_url"`
	WebhookURL string        `yaml:"webhook_url"`
	Interval   time.Duration `yaml:"interval"`

	DBPath  string `yaml:"-"`
	LogPath string `yaml:"-"`
}

// New builds a Config rooted at outputDir, overlaying octowatch.yaml from that
// directory if present, then environment variables. The directory must be
// creatable; that is the one fatal startup precondition.
func New(outputDir string) (Config, error) {
	if outputDir == "" {
		return Config{}, fmt.Errorf("output directory is required")
	}
	abs, err := filepath.Abs(outputDir)
	if err != nil {
		return Config{}, fmt.Errorf("resolve output dir: %w", err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return Config{}, fmt.Errorf("create output dir: %w", err)
	}

	cfg := Config{
		OutputDir: abs,
		SourceURL: DefaultSourceURL,
		Interval:  DefaultInterval,
		DBPath:    filepath.Join(abs, "octowatch.db"),
		LogPath:   filepath.Join(abs, "octowatch.log"),
	}

	if err := cfg.loadFile(filepath.Join(abs, "octowatch.yaml")); err != nil {
		return Config{}, err
	}
	cfg.loadEnv()

	if cfg.Interval <= 0 {
		cfg.Interval = DefaultInterval
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("decode config file: %w", err)
	}
	return nil
}

func (c *Config) loadEnv() {
	if v := os.Getenv("OCTOWATCH_SOURCE_URL"); v != "" {
		c.SourceURL = v
	}
	if v := os.Getenv("OCTOWATCH_WEBHOOK_URL"); v != "" {
		c.WebhookURL = v
	}
	if v := os.Getenv("OCTOWATCH_INTERVAL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			c.Interval = d
		}
	}
}

// MaskedWebhook is safe to log: the full URL embeds a secret token.
func (c Config) MaskedWebhook() string {
	if c.WebhookURL == "" {
		return "not set"
	}
	return fmt.Sprintf("set (%d chars)", len(c.WebhookURL))
}
