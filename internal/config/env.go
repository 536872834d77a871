package config

import (
	"os"
	"strconv"
	"strings"
)

// ApplyEnv fills unspecified fields from the environment.
//
//	ALTD_ADDR, ALTD_LOG_LEVEL, ALTD_DEFAULT_MODEL, ALTD_OLLAMA_URL,
//	ALTD_DATABASE_URL (or DATABASE_URL), ALTD_MAX_UPLOAD_MB,
//	HF_TOKEN (or HUGGINGFACEHUB_API_TOKEN), HF_HOME, GEMINI_API_KEY
func ApplyEnv(c *Config) {
	setIfEmpty(&c.Addr, "ALTD_ADDR")
	setIfEmpty(&c.LogLevel, "ALTD_LOG_LEVEL")
	setIfEmpty(&c.DefaultModel, "ALTD_DEFAULT_MODEL")
	setIfEmpty(&c.Ollama.BaseURL, "ALTD_OLLAMA_URL")
	setIfEmpty(&c.Cache.DSN, "ALTD_DATABASE_URL", "DATABASE_URL")
	setIfEmpty(&c.HuggingFace.Token, "HF_TOKEN", "HUGGINGFACEHUB_API_TOKEN")
	setIfEmpty(&c.Gemini.APIKey, "GEMINI_API_KEY")
	if c.HuggingFace.CacheDir == "" {
		if home := strings.TrimSpace(os.Getenv("HF_HOME")); home != "" {
			c.HuggingFace.CacheDir = strings.TrimRight(home, "/") + "/hub/"
		}
	}
	if c.MaxUploadMB == 0 {
		if n, err := strconv.Atoi(strings.TrimSpace(os.Getenv("ALTD_MAX_UPLOAD_MB"))); err == nil && n > 0 {
			c.MaxUploadMB = n
		}
	}
}

func setIfEmpty(dst *string, keys ...string) {
	if *dst != "" {
		return
	}
	for _, k := range keys {
		if v := strings.TrimSpace(os.Getenv(k)); v != "" {
			*dst = v
			return
		}
	}
}
