package captioner

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"altd/internal/registry"
	"altd/internal/store"
	"altd/pkg/types"
)

type Manager struct {
	mu           sync.RWMutex
	registry     []types.Model
	byID         map[string]int
	defaultModel string
	backends     map[string]Backend
	// instances holds loaded models; status holds the last recorded load
	// status of models that are not (yet) loaded.
	instances map[string]*Instance
	status    map[string]string
	loads     singleflight.Group

	cache          store.Cache
	maxImageSide   int
	maxImagePixels int
	publisher      EventPublisher
	log            zerolog.Logger

	// Queue config
	maxQueueDepth int
	maxWait       time.Duration
	drainTimeout  time.Duration
	loadTimeout   time.Duration

	startTime     time.Time
	opSeq         atomic.Uint64
	loadsTotal    atomic.Uint64
	loadFailures  atomic.Uint64
	captionsTotal atomic.Uint64
}

// New builds a Manager over reg with the given backends and default model.
func New(reg []types.Model, backends map[string]Backend, defaultModel string) *Manager {
	return NewWithConfig(Config{
		Registry:     reg,
		Backends:     backends,
		DefaultModel: defaultModel,
	})
}

// ListModels returns a copy of the catalog.
func (m *Manager) ListModels() []types.Model {
	out := make([]types.Model, len(m.registry))
	copy(out, m.registry)
	return out
}

// DefaultModel returns the id used when a request names no model.
func (m *Manager) DefaultModel() string { return m.defaultModel }

// Resolve maps a requested id to its catalog entry. An empty id selects the
// default model.
func (m *Manager) Resolve(id string) (types.Model, error) {
	if id == "" {
		id = m.defaultModel
	}
	i, ok := m.byID[id]
	if !ok {
		return types.Model{}, ErrInvalidModel(id, registry.IDs(m.registry))
	}
	return m.registry[i], nil
}

// Ready reports whether at least one model is loaded.
func (m *Manager) Ready() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, inst := range m.instances {
		if inst.State == StateLoaded {
			return true
		}
	}
	return false
}

// Close releases every loaded model.
func (m *Manager) Close() error {
	m.mu.Lock()
	insts := make([]*Instance, 0, len(m.instances))
	for id, inst := range m.instances {
		insts = append(insts, inst)
		delete(m.instances, id)
	}
	m.mu.Unlock()
	var firstErr error
	for _, inst := range insts {
		if err := inst.captioner.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
		loadedModels.Dec()
	}
	return firstErr
}
