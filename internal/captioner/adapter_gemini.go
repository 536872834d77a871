package captioner

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"altd/pkg/types"
)

const geminiAttempts = 3

// GeminiBackend captions with a Gemini multimodal model.
type GeminiBackend struct {
	apiKey string
	prompt string
	opts   []option.ClientOption
}

// NewGeminiBackend constructs a Gemini backend. Extra client options are
// appended after the API key.
func NewGeminiBackend(apiKey, prompt string, opts ...option.ClientOption) *GeminiBackend {
	return &GeminiBackend{apiKey: strings.TrimSpace(apiKey), prompt: prompt, opts: opts}
}

func (b *GeminiBackend) Load(ctx context.Context, mdl types.Model) (Captioner, error) {
	if b.apiKey == "" {
		return nil, ErrDependencyUnavailable("gemini: GEMINI_API_KEY is empty")
	}
	if strings.TrimSpace(mdl.Repo) == "" {
		return nil, fmt.Errorf("model %s has no repo", mdl.ID)
	}
	cl, err := genai.NewClient(ctx, append([]option.ClientOption{option.WithAPIKey(b.apiKey)}, b.opts...)...)
	if err != nil {
		return nil, ErrDependencyUnavailable("gemini: " + err.Error())
	}
	gm := cl.GenerativeModel(strings.TrimSpace(mdl.Repo))
	temp := float32(0.2)
	gm.GenerationConfig = genai.GenerationConfig{Temperature: &temp}
	return &geminiCaptioner{client: cl, generate: gm.GenerateContent, prompt: b.prompt}, nil
}

type geminiGenerateFunc func(ctx context.Context, parts ...genai.Part) (*genai.GenerateContentResponse, error)

type geminiCaptioner struct {
	client   *genai.Client
	generate geminiGenerateFunc
	prompt   string
	backoff  time.Duration
}

func (c *geminiCaptioner) Caption(ctx context.Context, img Image) (string, error) {
	parts := []genai.Part{
		genai.Text(c.prompt),
		genai.Blob{MIMEType: img.MIME, Data: img.Data},
	}
	backoff := c.backoff
	if backoff <= 0 {
		backoff = 300 * time.Millisecond
	}
	var lastErr error
	for attempt := 1; attempt <= geminiAttempts; attempt++ {
		resp, err := c.generate(ctx, parts...)
		if err == nil {
			txt := geminiText(resp)
			if txt == "" {
				return "", errors.New("gemini: empty response")
			}
			return txt, nil
		}
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		switch geminiErrorClass(err) {
		case geminiAuth:
			return "", ErrDependencyUnavailable("gemini: " + err.Error())
		case geminiPermanent:
			return "", fmt.Errorf("gemini: %w", err)
		}
		lastErr = err
		if attempt == geminiAttempts {
			break
		}
		select {
		case <-time.After(time.Duration(attempt) * backoff):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	return "", ErrDependencyUnavailable(fmt.Sprintf("gemini: %d attempts failed: %v", geminiAttempts, lastErr))
}

type geminiClass int

const (
	geminiTransient geminiClass = iota
	geminiPermanent
	geminiAuth
)

// geminiErrorClass sorts a GenerateContent error into retry, give up, or
// credentials problem. Errors carrying no status (network) are transient.
func geminiErrorClass(err error) geminiClass {
	var blocked *genai.BlockedError
	if errors.As(err, &blocked) {
		return geminiPermanent
	}
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		switch {
		case gerr.Code == http.StatusUnauthorized, gerr.Code == http.StatusForbidden:
			return geminiAuth
		case gerr.Code == http.StatusTooManyRequests, gerr.Code == http.StatusRequestTimeout, gerr.Code >= 500:
			return geminiTransient
		default:
			return geminiPermanent
		}
	}
	if st, ok := status.FromError(err); ok && st.Code() != codes.Unknown {
		switch st.Code() {
		case codes.Unauthenticated, codes.PermissionDenied:
			return geminiAuth
		case codes.Unavailable, codes.ResourceExhausted, codes.DeadlineExceeded, codes.Aborted, codes.Internal:
			return geminiTransient
		default:
			return geminiPermanent
		}
	}
	return geminiTransient
}

func (c *geminiCaptioner) Close() error { return c.client.Close() }

// geminiText returns the first text part of the first candidate that has one.
func geminiText(resp *genai.GenerateContentResponse) string {
	if resp == nil {
		return ""
	}
	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, p := range cand.Content.Parts {
			if t, ok := p.(genai.Text); ok {
				return string(t)
			}
		}
	}
	return ""
}
