package captioner

import (
	"context"
	"time"
)

// beginCaption reserves a queue slot and then the single in-flight slot.
// Returns a release func to be deferred.
func (m *Manager) beginCaption(ctx context.Context, inst *Instance) (func(), error) {
	m.mu.RLock()
	draining := inst.State == StateDraining
	m.mu.RUnlock()
	// If draining, reject new work so the unload can finish
	if draining {
		return func() {}, tooBusyError{modelID: inst.ID}
	}
	if err := ctx.Err(); err != nil {
		return func() {}, err
	}

	timer := time.NewTimer(m.maxWait)
	defer timer.Stop()
	select {
	case inst.queueCh <- struct{}{}:
		// reserved queue slot
	case <-ctx.Done():
		return func() {}, ctx.Err()
	case <-timer.C:
		return func() {}, tooBusyError{modelID: inst.ID}
	}
	// Unload may have started between the first check and taking the slot.
	// It either sees this slot when it polls or is seen here as draining.
	m.mu.RLock()
	draining = inst.State == StateDraining
	m.mu.RUnlock()
	if draining {
		<-inst.queueCh
		return func() {}, tooBusyError{modelID: inst.ID}
	}

	// Wait to acquire the single in-flight slot
	acquired := false
	defer func() {
		if !acquired {
			<-inst.queueCh
		}
	}()
	select {
	case inst.genCh <- struct{}{}:
		acquired = true
		m.mu.Lock()
		inst.LastUsed = time.Now()
		m.mu.Unlock()
		return func() { <-inst.genCh; <-inst.queueCh }, nil
	case <-ctx.Done():
		return func() {}, ctx.Err()
	case <-timer.C:
		return func() {}, tooBusyError{modelID: inst.ID}
	}
}
