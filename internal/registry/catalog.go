// Package registry builds the catalog of captioning models the service offers.
package registry

import (
	"fmt"
	"regexp"
	"strings"

	"altd/pkg/types"
)

// Backend kinds understood by the captioner.
const (
	BackendHuggingFace = "huggingface"
	BackendOllama      = "ollama"
	BackendGemini      = "gemini"
)

// UnknownSize is reported when a catalog entry carries no download size.
const UnknownSize = "Unknown"

var idPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9_.-]*$`)

// Default returns the built-in catalog. Order is the order /models lists them in.
func Default() []types.Model {
	return []types.Model{
		{
			ID:           "blip",
			Name:         "BLIP",
			Description:  "Salesforce BLIP base model (Recommended)",
			Backend:      BackendHuggingFace,
			Repo:         "Salesforce/blip-image-captioning-base",
			DownloadSize: "~1.8GB",
			Recommended:  true,
		},
		{
			ID:           "vit_gpt2",
			Name:         "ViT-GPT2",
			Description:  "Lightweight and fast",
			Backend:      BackendHuggingFace,
			Repo:         "nlpconnect/vit-gpt2-image-captioning",
			DownloadSize: "~600MB",
		},
		{
			ID:           "git",
			Name:         "GIT",
			Description:  "Microsoft Generative Image-to-text",
			Backend:      BackendHuggingFace,
			Repo:         "microsoft/git-base-coco",
			DownloadSize: "~700MB",
		},
	}
}

// Merge overlays extra onto base. Entries with a known id replace the
// non-empty fields of the base entry; new ids are appended in order.
func Merge(base, extra []types.Model) []types.Model {
	out := make([]types.Model, len(base))
	copy(out, base)
	idx := make(map[string]int, len(out))
	for i, m := range out {
		idx[m.ID] = i
	}
	for _, e := range extra {
		e.ID = strings.TrimSpace(e.ID)
		i, ok := idx[e.ID]
		if !ok {
			idx[e.ID] = len(out)
			out = append(out, e)
			continue
		}
		cur := out[i]
		overlay(&cur.Name, e.Name)
		overlay(&cur.Description, e.Description)
		overlay(&cur.Backend, e.Backend)
		overlay(&cur.Repo, e.Repo)
		overlay(&cur.DownloadSize, e.DownloadSize)
		overlay(&cur.CacheLocation, e.CacheLocation)
		if e.Recommended {
			cur.Recommended = true
		}
		out[i] = cur
	}
	return out
}

func overlay(dst *string, v string) {
	if s := strings.TrimSpace(v); s != "" {
		*dst = s
	}
}

// Validate checks ids, backends and repos of every entry.
func Validate(models []types.Model) error {
	if len(models) == 0 {
		return fmt.Errorf("catalog is empty")
	}
	seen := make(map[string]bool, len(models))
	for _, m := range models {
		if !idPattern.MatchString(m.ID) {
			return fmt.Errorf("invalid model id %q", m.ID)
		}
		if seen[m.ID] {
			return fmt.Errorf("duplicate model id %q", m.ID)
		}
		seen[m.ID] = true
		switch m.Backend {
		case BackendHuggingFace, BackendOllama, BackendGemini:
		default:
			return fmt.Errorf("model %q: unknown backend %q", m.ID, m.Backend)
		}
		if strings.TrimSpace(m.Repo) == "" {
			return fmt.Errorf("model %q: repo is required", m.ID)
		}
	}
	return nil
}

// FillDefaults sets display name, download size and cache location where a
// catalog entry leaves them empty. hfCacheDir is the Hugging Face hub cache.
func FillDefaults(models []types.Model, hfCacheDir string) []types.Model {
	out := make([]types.Model, len(models))
	for i, m := range models {
		if m.Name == "" {
			m.Name = m.ID
		}
		if m.DownloadSize == "" {
			m.DownloadSize = UnknownSize
		}
		if m.CacheLocation == "" {
			m.CacheLocation = defaultCacheLocation(m.Backend, hfCacheDir)
		}
		out[i] = m
	}
	return out
}

func defaultCacheLocation(backend, hfCacheDir string) string {
	switch backend {
	case BackendHuggingFace:
		if hfCacheDir != "" {
			return hfCacheDir
		}
		return "~/.cache/huggingface/hub/"
	case BackendOllama:
		return "~/.ollama/models"
	default:
		return "remote"
	}
}

// IDs returns the model ids in catalog order.
func IDs(models []types.Model) []string {
	ids := make([]string, len(models))
	for i, m := range models {
		ids[i] = m.ID
	}
	return ids
}
