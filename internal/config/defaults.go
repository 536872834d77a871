package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"
)

// Defaults applied by WithDefaults when the corresponding field is unset.
const (
	DefaultAddr           = ":8080"
	DefaultModel          = "blip"
	DefaultMaxUploadMB    = 20
	DefaultMaxImageSide   = 1024
	DefaultCaptionTimeout = 120
	DefaultLoadTimeout    = 600
	DefaultMaxPixels      = 50_000_000
	DefaultHFBaseURL      = "https://api-inference.huggingface.co"
	DefaultHFCacheDir     = "~/.cache/huggingface/hub/"
	DefaultOllamaURL      = "http://127.0.0.1:11434"
	DefaultCaptionPrompt  = "Write one short sentence of alt text describing this image. Reply with the sentence only."
)

// WithDefaults returns a copy of c with unspecified fields filled in.
func (c Config) WithDefaults() Config {
	if c.Addr == "" {
		c.Addr = DefaultAddr
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.LogFormat == "" {
		c.LogFormat = "console"
	}
	if c.DefaultModel == "" {
		c.DefaultModel = DefaultModel
	}
	if c.MaxUploadMB <= 0 {
		c.MaxUploadMB = DefaultMaxUploadMB
	}
	if c.MaxImageSide == 0 {
		c.MaxImageSide = DefaultMaxImageSide
	}
	if c.CaptionTimeoutSec == 0 {
		c.CaptionTimeoutSec = DefaultCaptionTimeout
	}
	if c.LoadTimeoutSec <= 0 {
		c.LoadTimeoutSec = DefaultLoadTimeout
	}
	if c.MaxImagePixels == 0 {
		c.MaxImagePixels = DefaultMaxPixels
	}
	if len(c.CORSOrigins) == 0 {
		c.CORSOrigins = []string{"*"}
	}
	if c.HuggingFace.BaseURL == "" {
		c.HuggingFace.BaseURL = DefaultHFBaseURL
	}
	if c.HuggingFace.CacheDir == "" {
		c.HuggingFace.CacheDir = DefaultHFCacheDir
	}
	if c.Ollama.BaseURL == "" {
		c.Ollama.BaseURL = DefaultOllamaURL
	}
	if c.Ollama.Prompt == "" {
		c.Ollama.Prompt = DefaultCaptionPrompt
	}
	if c.Gemini.Prompt == "" {
		c.Gemini.Prompt = DefaultCaptionPrompt
	}
	return c
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Addr) == "" {
		return errors.New("addr must not be empty")
	}
	switch strings.ToLower(c.LogFormat) {
	case "", "console", "json":
	default:
		return fmt.Errorf("unsupported log_format %q (want console or json)", c.LogFormat)
	}
	if c.MaxImageSide < 0 {
		return errors.New("max_image_side must not be negative")
	}
	if c.CaptionTimeoutSec < 0 {
		return errors.New("caption_timeout_sec must not be negative")
	}
	for name, raw := range map[string]string{"huggingface.base_url": c.HuggingFace.BaseURL, "ollama.base_url": c.Ollama.BaseURL} {
		if raw == "" {
			continue
		}
		u, err := url.Parse(raw)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("%s: invalid url %q", name, raw)
		}
	}
	return nil
}

// CaptionTimeout returns the per-request caption deadline (0 disables).
func (c Config) CaptionTimeout() time.Duration {
	if c.CaptionTimeoutSec <= 0 {
		return 0
	}
	return time.Duration(c.CaptionTimeoutSec) * time.Second
}

// LoadTimeout bounds a single model load.
func (c Config) LoadTimeout() time.Duration {
	if c.LoadTimeoutSec <= 0 {
		return DefaultLoadTimeout * time.Second
	}
	return time.Duration(c.LoadTimeoutSec) * time.Second
}

// CacheMaxAge returns the caption cache expiry (0 keeps entries forever).
func (c Config) CacheMaxAge() time.Duration {
	return time.Duration(c.Cache.MaxAgeHours) * time.Hour
}
