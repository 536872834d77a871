package captioner

import (
	"context"
	"time"
)

// State represents the lifecycle state of a model.
type State string

const (
	StateNotLoaded State = "not_loaded"
	StateLoading   State = "loading"
	StateLoaded    State = "loaded"
	StateFailed    State = "failed"
	StateDraining  State = "draining"
)

// Image is a normalised upload ready to hand to a backend.
type Image struct {
	Data   []byte
	MIME   string
	Width  int
	Height int
	// Hash is the hex sha256 of the original upload.
	Hash string
}

// Captioner is a loaded model able to caption images.
type Captioner interface {
	// Caption returns a caption for img. Implementations must return when ctx is done.
	Caption(ctx context.Context, img Image) (string, error)
	// Close releases resources held by the model.
	Close() error
}

// Instance is a loaded model (one per model id).
type Instance struct {
	ID       string
	State    State
	LoadedAt time.Time
	LastUsed time.Time

	captioner Captioner
	genCh     chan struct{} // size 1: single in-flight caption
	queueCh   chan struct{} // buffered: queue slots
}

// DescribeRequest is one captioning request.
type DescribeRequest struct {
	// Model id; empty selects the default model.
	Model string
	// Raw uploaded image bytes.
	Data []byte
}
