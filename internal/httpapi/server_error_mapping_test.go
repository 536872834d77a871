package httpapi

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"altd/internal/captioner"
)

func TestDescribe_ErrorMapping(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"invalid model", captioner.ErrInvalidModel("clip", []string{"blip", "git"}), http.StatusBadRequest},
		{"invalid image", captioner.ErrInvalidImage("unknown format"), http.StatusBadRequest},
		{"not found", captioner.ErrModelNotFound("m-missing"), http.StatusNotFound},
		{"dependency", captioner.ErrDependencyUnavailable("huggingface unreachable"), http.StatusServiceUnavailable},
		{"wrapped dependency", fmt.Errorf("load blip: %w", captioner.ErrDependencyUnavailable("down")), http.StatusServiceUnavailable},
		{"http error", mockHTTPError{msg: "teapot", code: http.StatusTeapot}, http.StatusTeapot},
		{"generic", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := &mockService{describeErr: tc.err}
			w := httptest.NewRecorder()
			NewMux(svc).ServeHTTP(w, describeRequest(t, []byte("img"), "blip"))
			if w.Code != tc.want {
				t.Fatalf("expected %d, got %d", tc.want, w.Code)
			}
		})
	}
}

func TestDescribe_InvalidModelMessage(t *testing.T) {
	svc := &mockService{describeErr: captioner.ErrInvalidModel("clip", []string{"blip", "vit_gpt2", "git"})}
	w := httptest.NewRecorder()
	NewMux(svc).ServeHTTP(w, describeRequest(t, []byte("img"), "clip"))
	want := `"detail":"Invalid model: clip. Available models: blip, vit_gpt2, git"`
	if !strings.Contains(w.Body.String(), want) {
		t.Fatalf("body %s missing %s", w.Body.String(), want)
	}
}

func TestDescribe_TooBusyCountsBackpressure(t *testing.T) {
	before := testutil.ToFloat64(backpressureTotal.WithLabelValues("queue"))
	svc := &mockService{describeErr: fmt.Errorf("wrapped: %w", captioner.ErrTooBusy("blip"))}
	w := httptest.NewRecorder()
	NewMux(svc).ServeHTTP(w, describeRequest(t, []byte("img"), ""))
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", w.Code)
	}
	if after := testutil.ToFloat64(backpressureTotal.WithLabelValues("queue")); after < before+1 {
		t.Fatalf("backpressure not counted: before=%v after=%v", before, after)
	}
}
