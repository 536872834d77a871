package captioner

import (
	"context"
	"errors"
	"testing"
	"time"
)

func loadedInstance(t *testing.T, m *Manager, id string) *Instance {
	t.Helper()
	if err := m.Preload(context.Background(), id); err != nil {
		t.Fatalf("Preload: %v", err)
	}
	inst := m.instance(id)
	if inst == nil {
		t.Fatalf("instance %s missing", id)
	}
	return inst
}

func TestBeginCaption_SingleInflight(t *testing.T) {
	m, _ := newTestManager(t, newFakeBackend("x"), func(c *Config) {
		c.MaxQueueDepth = 2
		c.MaxWait = 50 * time.Millisecond
	})
	inst := loadedInstance(t, m, "blip")

	release, err := m.beginCaption(context.Background(), inst)
	if err != nil {
		t.Fatalf("first admission: %v", err)
	}
	// Second caller waits for the in-flight slot and times out.
	if _, err := m.beginCaption(context.Background(), inst); !IsTooBusy(err) {
		t.Fatalf("want too busy, got %v", err)
	}
	if len(inst.queueCh) != 1 {
		t.Fatalf("queue slot leaked: %d", len(inst.queueCh))
	}
	release()
	if len(inst.queueCh) != 0 || len(inst.genCh) != 0 {
		t.Fatalf("slots not released: q=%d g=%d", len(inst.queueCh), len(inst.genCh))
	}
	release2, err := m.beginCaption(context.Background(), inst)
	if err != nil {
		t.Fatalf("admission after release: %v", err)
	}
	release2()
}

func TestBeginCaption_QueueFull(t *testing.T) {
	m, _ := newTestManager(t, newFakeBackend("x"), func(c *Config) {
		c.MaxQueueDepth = 1
		c.MaxWait = 30 * time.Millisecond
	})
	inst := loadedInstance(t, m, "blip")
	release, err := m.beginCaption(context.Background(), inst)
	if err != nil {
		t.Fatalf("first admission: %v", err)
	}
	defer release()
	start := time.Now()
	if _, err := m.beginCaption(context.Background(), inst); !IsTooBusy(err) {
		t.Fatalf("want too busy, got %v", err)
	}
	if time.Since(start) > time.Second {
		t.Fatalf("queue-full rejection took too long")
	}
}

func TestBeginCaption_ContextCanceled(t *testing.T) {
	m, _ := newTestManager(t, newFakeBackend("x"), nil)
	inst := loadedInstance(t, m, "blip")
	release, err := m.beginCaption(context.Background(), inst)
	if err != nil {
		t.Fatalf("first admission: %v", err)
	}
	defer release()
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if _, err := m.beginCaption(ctx, inst); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("want deadline exceeded, got %v", err)
	}
}

func TestBeginCaption_DrainingRejects(t *testing.T) {
	m, _ := newTestManager(t, newFakeBackend("x"), nil)
	inst := loadedInstance(t, m, "blip")
	m.mu.Lock()
	inst.State = StateDraining
	m.mu.Unlock()
	if _, err := m.beginCaption(context.Background(), inst); !IsTooBusy(err) {
		t.Fatalf("want too busy while draining, got %v", err)
	}
}

func TestBeginCaption_DrainStartedWhileQueued(t *testing.T) {
	m, _ := newTestManager(t, newFakeBackend("x"), func(c *Config) {
		c.MaxQueueDepth = 1
		c.MaxWait = 2 * time.Second
	})
	inst := loadedInstance(t, m, "blip")
	inst.queueCh <- struct{}{} // occupy the only queue slot

	result := make(chan error, 1)
	go func() {
		release, err := m.beginCaption(context.Background(), inst)
		release()
		result <- err
	}()
	time.Sleep(20 * time.Millisecond)
	m.mu.Lock()
	inst.State = StateDraining
	m.mu.Unlock()
	<-inst.queueCh

	if err := <-result; !IsTooBusy(err) {
		t.Fatalf("want too busy once draining, got %v", err)
	}
	if len(inst.queueCh) != 0 || len(inst.genCh) != 0 {
		t.Fatalf("slots leaked: q=%d g=%d", len(inst.queueCh), len(inst.genCh))
	}
}
