package captioner

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"altd/pkg/types"
)

// OllamaBackend captions with a vision model served by Ollama.
type OllamaBackend struct {
	baseURL    string
	prompt     string
	keepAlive  string
	reqTimeout time.Duration
	httpClient *http.Client
}

// NewOllamaBackend constructs a backend for the Ollama server at baseURL.
func NewOllamaBackend(baseURL, prompt, keepAlive string, reqTimeout time.Duration) *OllamaBackend {
	return &OllamaBackend{
		baseURL:    strings.TrimRight(baseURL, "/"),
		prompt:     prompt,
		keepAlive:  keepAlive,
		reqTimeout: reqTimeout,
		httpClient: newHTTPClient(5 * time.Second),
	}
}

type ollamaGenerateRequest struct {
	Model     string   `json:"model"`
	Prompt    string   `json:"prompt,omitempty"`
	Images    []string `json:"images,omitempty"`
	Stream    bool     `json:"stream"`
	KeepAlive string   `json:"keep_alive,omitempty"`
}

type ollamaGenerateResponse struct {
	Response string `json:"response"`
	Done     bool   `json:"done"`
	Error    string `json:"error"`
}

// Load warms the model up with an empty generate so the first caption does
// not pay the load cost.
func (b *OllamaBackend) Load(ctx context.Context, mdl types.Model) (Captioner, error) {
	if strings.TrimSpace(mdl.Repo) == "" {
		return nil, fmt.Errorf("model %s has no repo", mdl.ID)
	}
	if _, err := b.generate(ctx, ollamaGenerateRequest{Model: mdl.Repo, KeepAlive: b.keepAlive}); err != nil {
		return nil, err
	}
	return &ollamaCaptioner{backend: b, model: mdl.Repo}, nil
}

func (b *OllamaBackend) generate(ctx context.Context, payload ollamaGenerateRequest) (ollamaGenerateResponse, error) {
	var out ollamaGenerateResponse
	body, err := json.Marshal(payload)
	if err != nil {
		return out, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.baseURL+"/api/generate", bytes.NewReader(body))
	if err != nil {
		return out, err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := b.httpClient.Do(req)
	if err != nil {
		return out, transportError("ollama", err)
	}
	defer resp.Body.Close()
	rb, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return out, err
	}
	if resp.StatusCode/100 != 2 {
		return out, statusError("ollama", resp.StatusCode, rb)
	}
	if err := json.Unmarshal(rb, &out); err != nil {
		return out, fmt.Errorf("decode ollama response: %w", err)
	}
	if out.Error != "" {
		return out, fmt.Errorf("ollama: %s", out.Error)
	}
	return out, nil
}

type ollamaCaptioner struct {
	backend *OllamaBackend
	model   string
}

func (c *ollamaCaptioner) Caption(ctx context.Context, img Image) (string, error) {
	if c.backend.reqTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.backend.reqTimeout)
		defer cancel()
	}
	out, err := c.backend.generate(ctx, ollamaGenerateRequest{
		Model:     c.model,
		Prompt:    c.backend.prompt,
		Images:    []string{base64.StdEncoding.EncodeToString(img.Data)},
		Stream:    false,
		KeepAlive: c.backend.keepAlive,
	})
	if err != nil {
		return "", err
	}
	return out.Response, nil
}

func (c *ollamaCaptioner) Close() error { return nil }
