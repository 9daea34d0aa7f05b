package config

import (
	"bufio"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/davitran/go-scrape-ttshop/models"
	"gopkg.in/yaml.v2"
)

// Settings mirrors the keys recognized in a settings file. Zero values
// mean "not set" and leave the corresponding Config default untouched.
type Settings struct {
	OfflineMode         *bool   `json:"offline_mode" yaml:"offline_mode"`
	BaseURL             string  `json:"base_url" yaml:"base_url"`
	TimeoutSeconds      int     `json:"timeout_seconds" yaml:"timeout_seconds"`
	MaxRetries          *int    `json:"max_retries" yaml:"max_retries"`
	RetryBackoffSeconds float64 `json:"retry_backoff_seconds" yaml:"retry_backoff_seconds"`
	UserAgent           string  `json:"user_agent" yaml:"user_agent"`
	DefaultRegion       string  `json:"default_region" yaml:"default_region"`
	DefaultSort         string  `json:"default_sort" yaml:"default_sort"`
}

// LoadSettings reads a settings file and applies it over DefaultConfig.
// The format is chosen by extension (.yaml/.yml or .json). A missing
// file is not an error: built-in defaults are returned with a warning.
func LoadSettings(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			slog.Warn("settings file not found, using defaults", slog.String("path", path))
			return cfg, nil
		}
		return nil, fmt.Errorf("read settings %s: %w", path, err)
	}

	var s Settings
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &s); err != nil {
			return nil, fmt.Errorf("parse yaml settings %s: %w", path, err)
		}
	default:
		if err := json.Unmarshal(data, &s); err != nil {
			return nil, fmt.Errorf("parse json settings %s: %w", path, err)
		}
	}

	s.apply(cfg)
	return cfg, nil
}

func (s *Settings) apply(cfg *Config) {
	if s.OfflineMode != nil {
		cfg.OfflineMode = *s.OfflineMode
	}
	if s.BaseURL != "" {
		cfg.BaseURL = s.BaseURL
	}
	if s.TimeoutSeconds > 0 {
		cfg.Timeout = time.Duration(s.TimeoutSeconds) * time.Second
	}
	if s.MaxRetries != nil && *s.MaxRetries >= 0 {
		cfg.MaxRetries = *s.MaxRetries
	}
	if s.RetryBackoffSeconds > 0 {
		cfg.RetryBackoff = time.Duration(s.RetryBackoffSeconds * float64(time.Second))
	}
	if s.UserAgent != "" {
		cfg.UserAgent = s.UserAgent
	}
	if s.DefaultRegion != "" {
		cfg.DefaultRegion = strings.ToUpper(s.DefaultRegion)
	}
	if s.DefaultSort != "" {
		cfg.DefaultSort = models.ParseSortMode(s.DefaultSort)
	}
}

// LoadURLs reads a newline-delimited URL list. Blank lines and lines
// starting with '#' are ignored.
func LoadURLs(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open url list %s: %w", path, err)
	}
	defer f.Close()

	var urls []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		urls = append(urls, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read url list %s: %w", path, err)
	}
	return urls, nil
}
