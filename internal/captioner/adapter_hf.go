package captioner

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"altd/pkg/types"
)

// HuggingFaceBackend captions through the Hugging Face Inference API.
type HuggingFaceBackend struct {
	baseURL    string
	token      string
	reqTimeout time.Duration
	httpClient *http.Client
}

// NewHuggingFaceBackend constructs a backend for the inference API at baseURL.
// reqTimeout bounds each caption request; 0 leaves it to the caller's context.
func NewHuggingFaceBackend(baseURL, token string, reqTimeout time.Duration) *HuggingFaceBackend {
	return &HuggingFaceBackend{
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
		reqTimeout: reqTimeout,
		httpClient: newHTTPClient(10 * time.Second),
	}
}

// newHTTPClient returns a pooled client without a global timeout; every
// request carries its deadline on the context.
func newHTTPClient(connectTimeout time.Duration) *http.Client {
	tr := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   connectTimeout,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:          100,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}
	return &http.Client{Transport: tr, Timeout: 0}
}

// Load needs no remote call: the inference API loads weights on first use
// (X-Wait-For-Model makes that request block instead of failing).
func (b *HuggingFaceBackend) Load(_ context.Context, mdl types.Model) (Captioner, error) {
	if strings.TrimSpace(mdl.Repo) == "" {
		return nil, fmt.Errorf("model %s has no repo", mdl.ID)
	}
	return &hfCaptioner{backend: b, repo: mdl.Repo}, nil
}

type hfCaptioner struct {
	backend *HuggingFaceBackend
	repo    string
}

type hfGeneration struct {
	GeneratedText string `json:"generated_text"`
}

func (c *hfCaptioner) Caption(ctx context.Context, img Image) (string, error) {
	b := c.backend
	if b.reqTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, b.reqTimeout)
		defer cancel()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.baseURL+"/models/"+c.repo, bytes.NewReader(img.Data))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", img.MIME)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Wait-For-Model", "true")
	if b.token != "" {
		req.Header.Set("Authorization", "Bearer "+b.token)
	}
	resp, err := b.httpClient.Do(req)
	if err != nil {
		return "", transportError("huggingface", err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", err
	}
	if resp.StatusCode/100 != 2 {
		return "", statusError("huggingface", resp.StatusCode, body)
	}
	return parseHFGeneration(body)
}

func (c *hfCaptioner) Close() error { return nil }

// parseHFGeneration accepts either [{"generated_text": ...}] or a single object.
func parseHFGeneration(body []byte) (string, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var arr []hfGeneration
		if err := json.Unmarshal(trimmed, &arr); err != nil {
			return "", fmt.Errorf("decode huggingface response: %w", err)
		}
		if len(arr) == 0 {
			return "", errors.New("huggingface returned no generations")
		}
		return arr[0].GeneratedText, nil
	}
	var one hfGeneration
	if err := json.Unmarshal(trimmed, &one); err != nil {
		return "", fmt.Errorf("decode huggingface response: %w", err)
	}
	return one.GeneratedText, nil
}

// transportError maps network failures to dependency unavailable. Context
// errors are passed through so callers still see cancellation.
func transportError(backend string, err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return ErrDependencyUnavailable(fmt.Sprintf("%s unreachable: %v", backend, err))
}

const maxErrorExcerpt = 256

// truncateUTF8 cuts s to at most n bytes without splitting a rune.
func truncateUTF8(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n] + "..."
}

// statusError reports a non-2xx reply with a bounded excerpt of the body.
func statusError(backend string, code int, body []byte) error {
	excerpt := truncateUTF8(strings.TrimSpace(string(body)), maxErrorExcerpt)
	if code == http.StatusServiceUnavailable || code == http.StatusBadGateway {
		return ErrDependencyUnavailable(fmt.Sprintf("%s status %d: %s", backend, code, excerpt))
	}
	return fmt.Errorf("%s status %d: %s", backend, code, excerpt)
}
