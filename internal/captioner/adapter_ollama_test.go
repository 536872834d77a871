package captioner

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"altd/pkg/types"
)

func TestOllama_LoadWarmsAndCaptions(t *testing.T) {
	var mu sync.Mutex
	var reqs []ollamaGenerateRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/generate" {
			http.NotFound(w, r)
			return
		}
		var in ollamaGenerateRequest
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		mu.Lock()
		reqs = append(reqs, in)
		mu.Unlock()
		resp := ollamaGenerateResponse{Done: true}
		if len(in.Images) > 0 {
			resp.Response = " a cat asleep on a keyboard "
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer srv.Close()

	be := NewOllamaBackend(srv.URL, "describe", "5m", 0)
	c, err := be.Load(context.Background(), types.Model{ID: "llava", Repo: "llava:7b"})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	text, err := c.Caption(context.Background(), Image{Data: []byte{1, 2, 3}, MIME: "image/jpeg"})
	if err != nil {
		t.Fatalf("Caption: %v", err)
	}
	if text != " a cat asleep on a keyboard " {
		t.Fatalf("text: %q", text)
	}
	mu.Lock()
	defer mu.Unlock()
	if len(reqs) != 2 {
		t.Fatalf("requests: %d", len(reqs))
	}
	warm, capReq := reqs[0], reqs[1]
	if warm.Model != "llava:7b" || warm.Prompt != "" || len(warm.Images) != 0 || warm.KeepAlive != "5m" {
		t.Fatalf("warm-up request: %+v", warm)
	}
	if capReq.Prompt != "describe" || capReq.Stream || len(capReq.Images) != 1 {
		t.Fatalf("caption request: %+v", capReq)
	}
	if capReq.Images[0] != base64.StdEncoding.EncodeToString([]byte{1, 2, 3}) {
		t.Fatalf("image not base64 encoded: %q", capReq.Images[0])
	}
}

func TestOllama_ModelErrorOnLoad(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"model 'llava' not found"}`))
	}))
	defer srv.Close()
	_, err := NewOllamaBackend(srv.URL, "p", "", 0).Load(context.Background(), types.Model{ID: "llava", Repo: "llava"})
	if err == nil || IsDependencyUnavailable(err) {
		t.Fatalf("want plain error, got %v", err)
	}
}

func TestOllama_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()
	_, err := NewOllamaBackend(url, "p", "", 0).Load(context.Background(), types.Model{ID: "llava", Repo: "llava"})
	if !IsDependencyUnavailable(err) {
		t.Fatalf("want dependency unavailable, got %v", err)
	}
}
