package captioner

import (
	"context"

	"altd/pkg/types"
)

// Backend loads catalog models of one backend kind.
// Concrete implementations (Hugging Face, Ollama, Gemini) satisfy this interface.
type Backend interface {
	// Load prepares mdl for captioning. It may contact the backend to warm
	// the model up; ctx bounds that work.
	Load(ctx context.Context, mdl types.Model) (Captioner, error)
}

// BackendFunc adapts a function to the Backend interface.
type BackendFunc func(ctx context.Context, mdl types.Model) (Captioner, error)

func (f BackendFunc) Load(ctx context.Context, mdl types.Model) (Captioner, error) {
	return f(ctx, mdl)
}
