package registry

import (
	"fmt"
	"os"

	"altd/internal/common/fsutil"
	"altd/internal/config"
	"altd/pkg/types"
)

type catalogFile struct {
	Models []types.Model `json:"models" yaml:"models" toml:"models"`
}

// LoadFile reads a standalone catalog (yaml, json or toml) holding a
// top-level "models" list.
func LoadFile(path string) ([]types.Model, error) {
	p, err := fsutil.ResolvePath(path)
	if err != nil {
		return nil, err
	}
	b, err := os.ReadFile(p)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	var cf catalogFile
	if err := config.Decode(p, b, &cf); err != nil {
		return nil, err
	}
	return cf.Models, nil
}

// Build assembles the effective catalog: built-ins, then the catalog file,
// then inline config entries, with display defaults applied and validated.
func Build(cfg config.Config) ([]types.Model, error) {
	models := Default()
	if cfg.CatalogFile != "" {
		fromFile, err := LoadFile(cfg.CatalogFile)
		if err != nil {
			return nil, err
		}
		models = Merge(models, fromFile)
	}
	models = Merge(models, cfg.Models)
	models = FillDefaults(models, cfg.HuggingFace.CacheDir)
	if err := Validate(models); err != nil {
		return nil, err
	}
	return models, nil
}
