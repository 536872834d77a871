package captioner

import (
	"context"
	"testing"
)

func TestModelStatus(t *testing.T) {
	m, _ := newTestManager(t, newFakeBackend("x"), nil)

	st, err := m.ModelStatus("blip")
	if err != nil {
		t.Fatalf("ModelStatus: %v", err)
	}
	if st.Model != "blip" || st.Status != "not_loaded" || st.DownloadSize != "~1.8GB" || st.CacheLocation != "~/.cache/huggingface/hub/" {
		t.Fatalf("unexpected: %+v", st)
	}
	if _, err := m.ModelStatus("unknown"); !IsModelNotFound(err) {
		t.Fatalf("want not found, got %v", err)
	}
	if err := m.Preload(context.Background(), "blip"); err != nil {
		t.Fatalf("Preload: %v", err)
	}
	if st, _ := m.ModelStatus("blip"); st.Status != "loaded" {
		t.Fatalf("after load: %q", st.Status)
	}
}

func TestStatus(t *testing.T) {
	m, _ := newTestManager(t, newFakeBackend("x"), func(c *Config) { c.MaxQueueDepth = 4 })
	s := m.Status()
	if s.State != "loading" || s.DefaultModel != "blip" || len(s.Models) != 3 {
		t.Fatalf("initial status: %+v", s)
	}
	if err := m.Preload(context.Background(), "git"); err != nil {
		t.Fatalf("Preload: %v", err)
	}
	s = m.Status()
	if s.State != "ready" || s.LoadsTotal != 1 {
		t.Fatalf("status after load: %+v", s)
	}
	var git, blip bool
	for _, ms := range s.Models {
		switch ms.ModelID {
		case "git":
			git = ms.State == "loaded" && ms.MaxQueueDepth == 4 && ms.LoadedAt > 0 && ms.Backend == "huggingface"
		case "blip":
			blip = ms.State == "not_loaded" && ms.LoadedAt == 0
		}
	}
	if !git || !blip {
		t.Fatalf("model states: %+v", s.Models)
	}
}
