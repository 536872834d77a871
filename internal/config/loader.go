package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"altd/pkg/types"
)

// Config holds runtime parameters for the service.
// Zero values mean "unspecified" and are replaced by WithDefaults.
type Config struct {
	Addr      string `json:"addr" yaml:"addr" toml:"addr"`
	LogLevel  string `json:"log_level" yaml:"log_level" toml:"log_level"`
	LogFormat string `json:"log_format" yaml:"log_format" toml:"log_format"`

	DefaultModel string `json:"default_model" yaml:"default_model" toml:"default_model"`
	// NoPreload skips loading the default model at startup.
	NoPreload bool `json:"no_preload" yaml:"no_preload" toml:"no_preload"`
	// CatalogFile points at an optional standalone model catalog.
	CatalogFile string `json:"catalog_file" yaml:"catalog_file" toml:"catalog_file"`
	// Models adds to or overrides entries of the built-in catalog.
	Models []types.Model `json:"models" yaml:"models" toml:"models"`

	MaxUploadMB  int `json:"max_upload_mb" yaml:"max_upload_mb" toml:"max_upload_mb"`
	MaxImageSide int `json:"max_image_side" yaml:"max_image_side" toml:"max_image_side"`
	// MaxImagePixels caps declared width*height of uploads; negative disables.
	MaxImagePixels    int `json:"max_image_pixels" yaml:"max_image_pixels" toml:"max_image_pixels"`
	CaptionTimeoutSec int `json:"caption_timeout_sec" yaml:"caption_timeout_sec" toml:"caption_timeout_sec"`
	MaxQueueDepth     int `json:"max_queue_depth" yaml:"max_queue_depth" toml:"max_queue_depth"`
	MaxWaitMS         int `json:"max_wait_ms" yaml:"max_wait_ms" toml:"max_wait_ms"`
	DrainTimeoutMS    int `json:"drain_timeout_ms" yaml:"drain_timeout_ms" toml:"drain_timeout_ms"`
	LoadTimeoutSec    int `json:"load_timeout_sec" yaml:"load_timeout_sec" toml:"load_timeout_sec"`

	CORSOrigins []string `json:"cors_origins" yaml:"cors_origins" toml:"cors_origins"`
	Swagger     bool     `json:"swagger" yaml:"swagger" toml:"swagger"`

	HuggingFace HuggingFaceConfig `json:"huggingface" yaml:"huggingface" toml:"huggingface"`
	Ollama      OllamaConfig      `json:"ollama" yaml:"ollama" toml:"ollama"`
	Gemini      GeminiConfig      `json:"gemini" yaml:"gemini" toml:"gemini"`
	Cache       CacheConfig       `json:"cache" yaml:"cache" toml:"cache"`
}

// HuggingFaceConfig configures the Hugging Face Inference API backend.
type HuggingFaceConfig struct {
	BaseURL    string `json:"base_url" yaml:"base_url" toml:"base_url"`
	Token      string `json:"token" yaml:"token" toml:"token"`
	CacheDir   string `json:"cache_dir" yaml:"cache_dir" toml:"cache_dir"`
	TimeoutSec int    `json:"timeout_sec" yaml:"timeout_sec" toml:"timeout_sec"`
}

// OllamaConfig configures the Ollama vision backend.
type OllamaConfig struct {
	BaseURL    string `json:"base_url" yaml:"base_url" toml:"base_url"`
	Prompt     string `json:"prompt" yaml:"prompt" toml:"prompt"`
	KeepAlive  string `json:"keep_alive" yaml:"keep_alive" toml:"keep_alive"`
	TimeoutSec int    `json:"timeout_sec" yaml:"timeout_sec" toml:"timeout_sec"`
}

// GeminiConfig configures the Google Gemini backend.
type GeminiConfig struct {
	APIKey string `json:"api_key" yaml:"api_key" toml:"api_key"`
	Prompt string `json:"prompt" yaml:"prompt" toml:"prompt"`
}

// CacheConfig configures the caption cache. An empty DSN with zero
// MemoryEntries disables caching.
type CacheConfig struct {
	DSN           string `json:"dsn" yaml:"dsn" toml:"dsn"`
	MemoryEntries int    `json:"memory_entries" yaml:"memory_entries" toml:"memory_entries"`
	MaxAgeHours   int    `json:"max_age_hours" yaml:"max_age_hours" toml:"max_age_hours"`
}

// Load reads a configuration file based on its extension.
// Supports: .yaml/.yml, .json, .toml
func Load(path string) (Config, error) {
	var cfg Config
	if path == "" {
		return cfg, fmt.Errorf("empty config path")
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := Decode(path, b, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Decode unmarshals b into v using the parser matching path's extension.
func Decode(path string, b []byte, v any) error {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, v); err != nil {
			return fmt.Errorf("parse %s: %w", filepath.Base(path), err)
		}
	case ".json":
		if err := json.Unmarshal(b, v); err != nil {
			return fmt.Errorf("parse %s: %w", filepath.Base(path), err)
		}
	case ".toml":
		if err := toml.Unmarshal(b, v); err != nil {
			return fmt.Errorf("parse %s: %w", filepath.Base(path), err)
		}
	default:
		return fmt.Errorf("unsupported config extension: %s", ext)
	}
	return nil
}
