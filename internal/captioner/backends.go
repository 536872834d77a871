package captioner

import (
	"time"

	"altd/internal/config"
	"altd/internal/registry"
)

// DefaultBackends builds one loader per backend kind from cfg. cfg is expected
// to have defaults applied.
func DefaultBackends(cfg config.Config) map[string]Backend {
	return map[string]Backend{
		registry.BackendHuggingFace: NewHuggingFaceBackend(cfg.HuggingFace.BaseURL, cfg.HuggingFace.Token, seconds(cfg.HuggingFace.TimeoutSec)),
		registry.BackendOllama:      NewOllamaBackend(cfg.Ollama.BaseURL, cfg.Ollama.Prompt, cfg.Ollama.KeepAlive, seconds(cfg.Ollama.TimeoutSec)),
		registry.BackendGemini:      NewGeminiBackend(cfg.Gemini.APIKey, cfg.Gemini.Prompt),
	}
}

func seconds(n int) time.Duration {
	if n <= 0 {
		return 0
	}
	return time.Duration(n) * time.Second
}
