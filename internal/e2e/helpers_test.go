package e2e

import (
	"bytes"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"altd/internal/captioner"
	"altd/internal/httpapi"
	"altd/internal/registry"
	"altd/internal/store"
)

// fakeInference mimics the Hugging Face inference API. Requests block on
// gate when it is set.
type fakeInference struct {
	calls   atomic.Int32
	gate    chan struct{}
	status  int
	mu      sync.Mutex
	lastCT  string
	lastURL string
}

func (f *fakeInference) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.calls.Add(1)
	f.mu.Lock()
	f.lastCT = r.Header.Get("Content-Type")
	f.lastURL = r.URL.Path
	f.mu.Unlock()
	if f.gate != nil {
		select {
		case <-f.gate:
		case <-r.Context().Done():
			return
		}
	}
	if f.status != 0 {
		http.Error(w, `{"error":"Model is currently loading"}`, f.status)
		return
	}
	repo := strings.TrimPrefix(r.URL.Path, "/models/")
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode([]map[string]string{{"generated_text": " a photo from " + repo + " "}})
}

type stack struct {
	srv   *httptest.Server
	infer *fakeInference
	mgr   *captioner.Manager
	cache *store.Memory
}

func newStack(t *testing.T, infer *fakeInference, mutate func(*captioner.Config)) *stack {
	t.Helper()
	upstream := httptest.NewServer(infer)
	t.Cleanup(upstream.Close)

	cache := store.NewMemory(64, time.Hour)
	cfg := captioner.Config{
		Registry:     registry.FillDefaults(registry.Default(), "~/.cache/huggingface/hub/"),
		DefaultModel: "blip",
		Backends: map[string]captioner.Backend{
			registry.BackendHuggingFace: captioner.NewHuggingFaceBackend(upstream.URL, "test-token", 5*time.Second),
		},
		Cache:        cache,
		MaxImageSide: 256,
		Publisher:    captioner.NewMemoryPublisher(),
	}
	if mutate != nil {
		mutate(&cfg)
	}
	mgr := captioner.NewWithConfig(cfg)
	srv := httptest.NewServer(httpapi.NewMux(mgr))
	t.Cleanup(func() {
		srv.Close()
		_ = mgr.Close()
	})
	return &stack{srv: srv, infer: infer, mgr: mgr, cache: cache}
}

func pngImage(t *testing.T, w, h int, c color.Color) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode: %v", err)
	}
	return buf.Bytes()
}

func postDescribe(t *testing.T, base string, data []byte, model string) (*http.Response, []byte) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", "upload.png")
	if err != nil {
		t.Fatal(err)
	}
	_, _ = fw.Write(data)
	if model != "" {
		_ = mw.WriteField("model", model)
	}
	_ = mw.Close()
	resp, err := http.Post(base+"/describe", mw.FormDataContentType(), &buf)
	if err != nil {
		t.Fatalf("POST /describe: %v", err)
	}
	defer resp.Body.Close()
	b, _ := io.ReadAll(resp.Body)
	return resp, b
}

func httpGet(t *testing.T, url string) (*http.Response, []byte) {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer resp.Body.Close()
	b, _ := io.ReadAll(resp.Body)
	return resp, b
}

func decode[T any](t *testing.T, b []byte) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(b, &v); err != nil {
		t.Fatalf("decode %q: %v", b, err)
	}
	return v
}
