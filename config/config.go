package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/bluespot/cli/internal/infra/storage"
	"github.com/bluespot/cli/internal/logger"
	"gopkg.in/yaml.v3"
)

// Config represents the CLI configuration
type Config struct {
	Model       ModelConfig           `yaml:"model"`
	Capture     CaptureConfig         `yaml:"capture"`
	Interaction InteractionConfig     `yaml:"interaction"`
	Storage     storage.StorageConfig `yaml:"storage"`
}

// ModelConfig contains vision model connection settings
type ModelConfig struct {
	URL     string `yaml:"url"`
	Name    string `yaml:"name"`
	Timeout int    `yaml:"timeout"`
}

// CaptureConfig contains screen capture settings
type CaptureConfig struct {
	Display       string `yaml:"display"`
	MaxImageWidth int    `yaml:"max_image_width"`
}

// InteractionConfig contains mouse interaction settings
type InteractionConfig struct {
	CountdownSeconds int `yaml:"countdown_seconds"`
	MoveTolerancePx  int `yaml:"move_tolerance_px"`
}

// DefaultConfig returns a default configuration
func DefaultConfig() *Config {
	return &Config{
		Model: ModelConfig{
			URL:     "http://localhost:11434",
			Name:    "llava",
			Timeout: 120,
		},
		Capture: CaptureConfig{
			Display:       "auto",
			MaxImageWidth: 1344,
		},
		Interaction: InteractionConfig{
			CountdownSeconds: 3,
			MoveTolerancePx:  2,
		},
		Storage: storage.StorageConfig{
			Type: "jsonl",
			Jsonl: storage.JsonlConfig{
				Path: ".bluespot/regions.jsonl",
			},
			SQLite: storage.SQLiteConfig{
				Path: ".bluespot/regions.db",
			},
		},
	}
}

// LoadConfig loads configuration from file
func LoadConfig(configPath string) (*Config, error) {
	if configPath == "" {
		configPath = getDefaultConfigPath()
		logger.Debug("Using default config path", "path", configPath)
	} else {
		logger.Debug("Using custom config path", "path", configPath)
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		logger.Debug("Config file not found, using default configuration", "path", configPath)
		return DefaultConfig(), nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		logger.Error("Failed to read config file", "path", configPath, "error", err)
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		logger.Error("Failed to parse config file", "path", configPath, "error", err)
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	logger.Debug("Successfully loaded config", "path", configPath, "model_url", config.Model.URL)
	return config, nil
}

// SaveConfig saves configuration to file
func (c *Config) SaveConfig(configPath string) error {
	if configPath == "" {
		configPath = getDefaultConfigPath()
	}

	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	var buf bytes.Buffer
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)
	defer func() {
		if err := encoder.Close(); err != nil {
			logger.Error("Failed to close YAML encoder", "error", err)
		}
	}()

	if err := encoder.Encode(c); err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	logger.Debug("Successfully saved config", "path", configPath)
	return nil
}

func getDefaultConfigPath() string {
	wd, err := os.Getwd()
	if err != nil {
		return ".bluespot/config.yaml"
	}
	return filepath.Join(wd, ".bluespot/config.yaml")
}
