package captioner

import (
	"context"
	"fmt"
	"time"
)

func (m *Manager) nextOpID() string {
	return fmt.Sprintf("op-%d", m.opSeq.Add(1))
}

// LoadAsync starts loading modelID in the background and returns an operation
// id. Callers poll ModelStatus or Status to observe the transition.
func (m *Manager) LoadAsync(modelID string) (string, error) {
	mdl, err := m.Resolve(modelID)
	if err != nil {
		return "", err
	}
	op := m.nextOpID()
	// A poll right after the 202 must not see an earlier failure.
	m.mu.Lock()
	if _, ok := m.instances[mdl.ID]; !ok {
		m.status[mdl.ID] = string(StateLoading)
	}
	m.mu.Unlock()
	go func() {
		// Detached: the load outlives the request that started it.
		if _, err := m.ensureLoaded(context.Background(), mdl); err != nil {
			m.log.Warn().Err(err).Str("op", op).Str("model", mdl.ID).Msg("background load failed")
		}
	}()
	return op, nil
}

// Preload loads modelID synchronously; used at startup for the default model.
func (m *Manager) Preload(ctx context.Context, modelID string) error {
	_, err := m.GetOrLoad(ctx, modelID)
	return err
}

// Unload initiates a graceful drain of a loaded model and removes it.
// New captions are rejected while draining; in-flight and queued ones get up
// to the drain timeout to finish before the captioner is closed.
func (m *Manager) Unload(modelID string) error {
	if modelID == "" {
		return ErrModelNotFound("(unspecified)")
	}
	m.mu.Lock()
	inst := m.instances[modelID]
	if inst == nil {
		m.mu.Unlock()
		return ErrModelNotFound(modelID)
	}
	if inst.State == StateDraining {
		// Another Unload owns this instance.
		m.mu.Unlock()
		return ErrTooBusy(modelID)
	}
	inst.State = StateDraining
	m.mu.Unlock()
	m.publisher.Publish(Event{Name: "unload_start", ModelID: modelID, Fields: map[string]any{}})

	deadline := time.Now().Add(m.drainTimeout)
	for {
		qlen := len(inst.queueCh)
		inflight := len(inst.genCh)
		if inflight == 0 && qlen == 0 {
			break
		}
		if time.Now().After(deadline) {
			m.publisher.Publish(Event{Name: "unload_timeout", ModelID: modelID, Fields: map[string]any{"inflight": inflight, "queue": qlen}})
			break
		}
		time.Sleep(10 * time.Millisecond)
	}

	m.mu.Lock()
	owned := m.instances[modelID] == inst
	if owned {
		delete(m.instances, modelID)
		delete(m.status, modelID)
	}
	m.mu.Unlock()
	if !owned {
		return ErrModelNotFound(modelID)
	}
	loadedModels.Dec()

	err := inst.captioner.Close()
	m.publisher.Publish(Event{Name: "unload_done", ModelID: modelID, Fields: map[string]any{}})
	return err
}
