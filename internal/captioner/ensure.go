package captioner

import (
	"context"
	"fmt"
	"time"

	"altd/pkg/types"
)

// GetOrLoad returns the loaded captioner for modelID, loading it on first use.
// Concurrent callers for the same model share one load. A failed load is not
// remembered as loaded, so the next call tries again.
func (m *Manager) GetOrLoad(ctx context.Context, modelID string) (Captioner, error) {
	mdl, err := m.Resolve(modelID)
	if err != nil {
		return nil, err
	}
	inst, err := m.ensureLoaded(ctx, mdl)
	if err != nil {
		return nil, err
	}
	return inst.captioner, nil
}

func (m *Manager) ensureLoaded(ctx context.Context, mdl types.Model) (*Instance, error) {
	if inst := m.instance(mdl.ID); inst != nil {
		return inst, nil
	}
	ch := m.loads.DoChan(mdl.ID, func() (any, error) {
		return m.load(mdl)
	})
	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*Instance), nil
	case <-ctx.Done():
		// The load keeps running for other callers and later requests.
		return nil, ctx.Err()
	}
}

func (m *Manager) instance(id string) *Instance {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.instances[id]
}

// load runs the backend loader for mdl. It is detached from any request
// context so a disconnecting client does not abort a shared load.
func (m *Manager) load(mdl types.Model) (*Instance, error) {
	if inst := m.instance(mdl.ID); inst != nil {
		return inst, nil
	}
	startTs := time.Now()
	m.mu.Lock()
	m.status[mdl.ID] = string(StateLoading)
	m.mu.Unlock()
	m.publisher.Publish(Event{Name: "load_start", ModelID: mdl.ID, Fields: map[string]any{"backend": mdl.Backend, "repo": mdl.Repo}})

	backend, ok := m.backends[mdl.Backend]
	if !ok || backend == nil {
		return nil, m.loadFailed(mdl, ErrDependencyUnavailable(fmt.Sprintf("no %s backend configured", mdl.Backend)))
	}

	ctx, cancel := context.WithTimeout(context.Background(), m.loadTimeout)
	defer cancel()
	c, err := backend.Load(ctx, mdl)
	if err != nil {
		return nil, m.loadFailed(mdl, err)
	}
	if c == nil {
		return nil, m.loadFailed(mdl, fmt.Errorf("%s backend returned no model", mdl.Backend))
	}

	now := time.Now()
	inst := &Instance{
		ID:        mdl.ID,
		State:     StateLoaded,
		LoadedAt:  now,
		LastUsed:  now,
		captioner: c,
		genCh:     make(chan struct{}, 1),
		queueCh:   make(chan struct{}, m.maxQueueDepth),
	}
	m.mu.Lock()
	m.instances[mdl.ID] = inst
	delete(m.status, mdl.ID)
	m.mu.Unlock()

	m.loadsTotal.Add(1)
	loadedModels.Inc()
	modelLoadsTotal.WithLabelValues(mdl.ID, "ok").Inc()
	dur := time.Since(startTs)
	m.publisher.Publish(Event{Name: "load_done", ModelID: mdl.ID, Fields: map[string]any{"dur_ms": int(dur / time.Millisecond)}})
	return inst, nil
}

func (m *Manager) loadFailed(mdl types.Model, err error) error {
	m.mu.Lock()
	m.status[mdl.ID] = string(StateFailed) + ": " + err.Error()
	m.mu.Unlock()
	m.loadFailures.Add(1)
	modelLoadsTotal.WithLabelValues(mdl.ID, "error").Inc()
	m.publisher.Publish(Event{Name: "load_failed", ModelID: mdl.ID, Fields: map[string]any{"error": err.Error()}})
	return fmt.Errorf("load %s: %w", mdl.ID, err)
}
