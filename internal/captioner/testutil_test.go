package captioner

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"sync"
	"sync/atomic"
	"testing"

	"altd/internal/registry"
	"altd/pkg/types"
)

// fakeCaptioner returns a fixed caption, optionally blocking until release is closed.
type fakeCaptioner struct {
	text    string
	err     error
	release chan struct{}
	calls   atomic.Int32
	closed  atomic.Bool
	closes  atomic.Int32
	lastImg Image
	mu      sync.Mutex
}

func (f *fakeCaptioner) Caption(ctx context.Context, img Image) (string, error) {
	f.calls.Add(1)
	f.mu.Lock()
	f.lastImg = img
	f.mu.Unlock()
	if f.release != nil {
		select {
		case <-f.release:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	return f.text, f.err
}

func (f *fakeCaptioner) Close() error {
	f.closed.Store(true)
	f.closes.Add(1)
	return nil
}

// fakeBackend counts loads and hands out one captioner per model id.
type fakeBackend struct {
	mu      sync.Mutex
	loads   atomic.Int32
	loadErr error
	gate    chan struct{}
	caps    map[string]*fakeCaptioner
	text    string
}

func newFakeBackend(text string) *fakeBackend {
	return &fakeBackend{caps: map[string]*fakeCaptioner{}, text: text}
}

func (b *fakeBackend) Load(ctx context.Context, mdl types.Model) (Captioner, error) {
	b.loads.Add(1)
	if b.gate != nil {
		select {
		case <-b.gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.loadErr != nil {
		return nil, b.loadErr
	}
	c := b.caps[mdl.ID]
	if c == nil {
		c = &fakeCaptioner{text: b.text}
		b.caps[mdl.ID] = c
	}
	return c, nil
}

func (b *fakeBackend) captioner(id string) *fakeCaptioner {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.caps[id]
}

func newTestManager(t *testing.T, be Backend, mutate func(*Config)) (*Manager, *MemoryPublisher) {
	t.Helper()
	pub := NewMemoryPublisher()
	cfg := Config{
		Registry:     registry.FillDefaults(registry.Default(), "~/.cache/huggingface/hub/"),
		DefaultModel: "blip",
		Backends:     map[string]Backend{registry.BackendHuggingFace: be},
		Publisher:    pub,
	}
	if mutate != nil {
		mutate(&cfg)
	}
	m := NewWithConfig(cfg)
	t.Cleanup(func() { _ = m.Close() })
	return m, pub
}

// pngBytes encodes a w x h image with a translucent red fill.
func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.NRGBA{R: 255, A: 128})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}
