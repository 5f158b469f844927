package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ferryfm/ferry/internal/logger"
)

// Config holds all Ferry configuration
type Config struct {
	StartDir      string `json:"start_dir"` // Directory opened at launch; empty means the working directory
	ShowHidden    bool   `json:"show_hidden"`
	SortField     string `json:"sort_field"` // name, type, modified or size
	SortAscending bool   `json:"sort_ascending"`
	ConfirmDelete bool   `json:"confirm_delete"`
	Editor        string `json:"editor"`
}

var sortFields = map[string]bool{
	"name":     true,
	"type":     true,
	"modified": true,
	"size":     true,
}

func defaults() *Config {
	return &Config{
		StartDir:      "",
		ShowHidden:    false,
		SortField:     "name",
		SortAscending: true,
		ConfirmDelete: true,
		Editor:        "",
	}
}

// Load reads config from ~/.config/ferry/ferry-config.json
func Load() *Config {
	configPath, err := GetConfigPath()
	if err != nil {
		logger.Error("Failed to get home directory: %v", err)
		return defaults()
	}

	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		logger.Error("Failed to create config directory %s: %v", filepath.Dir(configPath), err)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		// First run: write the defaults so users can see and edit them
		cfg := defaults()
		if err := Save(cfg); err != nil {
			logger.Warn("Failed to save default config: %v", err)
		}
		return cfg
	}

	cfg := &Config{}
	if err := json.Unmarshal(data, cfg); err != nil {
		logger.Warn("Failed to parse config file %s: %v, using defaults", configPath, err)
		return defaults()
	}

	if !sortFields[cfg.SortField] {
		if cfg.SortField != "" {
			logger.Warn("Unknown sort_field %q, using name", cfg.SortField)
		}
		cfg.SortField = "name"
	}

	if cfg.StartDir != "" {
		if info, err := os.Stat(cfg.StartDir); err != nil || !info.IsDir() {
			logger.Warn("start_dir %q is not a directory, ignoring", cfg.StartDir)
			cfg.StartDir = ""
		}
	}

	return cfg
}

// Save writes config to ~/.config/ferry/ferry-config.json
func Save(cfg *Config) error {
	configPath, err := GetConfigPath()
	if err != nil {
		logger.Error("Failed to get home directory: %v", err)
		return fmt.Errorf("cannot get home directory: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		logger.Error("Failed to create config directory %s: %v", filepath.Dir(configPath), err)
		return fmt.Errorf("cannot create config directory: %w", err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		logger.Error("Failed to marshal config: %v", err)
		return fmt.Errorf("cannot marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		logger.Error("Failed to write config file %s: %v", configPath, err)
		return fmt.Errorf("cannot write config file: %w", err)
	}

	return nil
}

// GetConfigPath returns the path to the config file
func GetConfigPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".config", "ferry", "ferry-config.json"), nil
}
