package captioner

import (
	"strings"
	"time"

	"altd/pkg/types"
)

// statusLocked returns the status string of id. Caller holds m.mu.
func (m *Manager) statusLocked(id string) string {
	if inst := m.instances[id]; inst != nil {
		return string(inst.State)
	}
	if st, ok := m.status[id]; ok {
		return st
	}
	return string(StateNotLoaded)
}

// ModelStatus reports the load status of one catalog model.
func (m *Manager) ModelStatus(id string) (types.ModelStatusResponse, error) {
	i, ok := m.byID[id]
	if !ok {
		return types.ModelStatusResponse{}, ErrModelNotFound(id)
	}
	mdl := m.registry[i]
	m.mu.RLock()
	st := m.statusLocked(id)
	m.mu.RUnlock()
	resp := types.ModelStatusResponse{
		Model:         id,
		Status:        st,
		DownloadSize:  mdl.DownloadSize,
		CacheLocation: mdl.CacheLocation,
	}
	if reason, ok := strings.CutPrefix(st, string(StateFailed)+": "); ok {
		resp.Error = reason
	}
	return resp, nil
}

// Status builds a detailed status response for /status.
func (m *Manager) Status() types.StatusResponse {
	m.mu.RLock()
	defer m.mu.RUnlock()
	now := time.Now()
	resp := types.StatusResponse{
		Models:            make([]types.ModelState, 0, len(m.registry)),
		DefaultModel:      m.defaultModel,
		State:             "loading",
		UptimeSeconds:     int64(now.Sub(m.startTime) / time.Second),
		ServerTimeUnix:    now.Unix(),
		LoadsTotal:        m.loadsTotal.Load(),
		LoadFailuresTotal: m.loadFailures.Load(),
		CaptionsTotal:     m.captionsTotal.Load(),
	}
	for _, mdl := range m.registry {
		ms := types.ModelState{
			ModelID: mdl.ID,
			State:   m.statusLocked(mdl.ID),
			Backend: mdl.Backend,
		}
		if reason, ok := strings.CutPrefix(ms.State, string(StateFailed)+": "); ok {
			ms.State = string(StateFailed)
			ms.Error = reason
		}
		if inst := m.instances[mdl.ID]; inst != nil {
			if inst.State == StateLoaded {
				resp.State = "ready"
			}
			ms.LoadedAt = inst.LoadedAt.Unix()
			ms.LastUsed = inst.LastUsed.Unix()
			ms.QueueLen = len(inst.queueCh)
			ms.Inflight = len(inst.genCh)
			ms.MaxQueueDepth = cap(inst.queueCh)
		}
		resp.Models = append(resp.Models, ms)
	}
	return resp
}
