package altctl

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"altd/pkg/types"
)

// Client talks to a running altd daemon.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient returns a client for the daemon at baseURL.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// APIError is a non-2xx reply from the daemon.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string   { return fmt.Sprintf("altd: %d %s", e.Status, e.Message) }
func (e *APIError) StatusCode() int { return e.Status }

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return err
	}
	if resp.StatusCode/100 != 2 {
		var er types.ErrorResponse
		msg := strings.TrimSpace(string(body))
		if json.Unmarshal(body, &er) == nil && er.Error != "" {
			msg = er.Error
		}
		return &APIError{Status: resp.StatusCode, Message: msg}
	}
	if out == nil || len(body) == 0 {
		return nil
	}
	return json.Unmarshal(body, out)
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	return c.do(req, out)
}

func (c *Client) Models(ctx context.Context) ([]types.Model, error) {
	var out types.ModelsResponse
	err := c.get(ctx, "/models", &out)
	return out.Models, err
}

func (c *Client) ModelStatus(ctx context.Context, id string) (types.ModelStatusResponse, error) {
	var out types.ModelStatusResponse
	err := c.get(ctx, "/model-status/"+url.PathEscape(id), &out)
	return out, err
}

func (c *Client) Status(ctx context.Context) (types.StatusResponse, error) {
	var out types.StatusResponse
	err := c.get(ctx, "/status", &out)
	return out, err
}

// Describe uploads the image at path. An empty model uses the daemon default.
func (c *Client) Describe(ctx context.Context, path, model string) (types.DescribeResponse, error) {
	var out types.DescribeResponse
	data, err := os.ReadFile(path)
	if err != nil {
		return out, err
	}
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", filepath.Base(path))
	if err != nil {
		return out, err
	}
	if _, err := fw.Write(data); err != nil {
		return out, err
	}
	if model != "" {
		if err := mw.WriteField("model", model); err != nil {
			return out, err
		}
	}
	if err := mw.Close(); err != nil {
		return out, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/describe", &buf)
	if err != nil {
		return out, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	err = c.do(req, &out)
	return out, err
}

func (c *Client) Load(ctx context.Context, id string) (types.LoadResponse, error) {
	var out types.LoadResponse
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/models/"+url.PathEscape(id)+"/load", nil)
	if err != nil {
		return out, err
	}
	err = c.do(req, &out)
	return out, err
}

func (c *Client) Unload(ctx context.Context, id string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.baseURL+"/models/"+url.PathEscape(id), nil)
	if err != nil {
		return err
	}
	return c.do(req, nil)
}

// WaitLoaded polls the model status until it is loaded or failed.
func (c *Client) WaitLoaded(ctx context.Context, id string, every time.Duration) (types.ModelStatusResponse, error) {
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		st, err := c.ModelStatus(ctx, id)
		if err != nil {
			return st, err
		}
		switch {
		case st.Status == "loaded":
			return st, nil
		case strings.HasPrefix(st.Status, "failed"):
			return st, fmt.Errorf("load %s: %s", id, st.Status)
		}
		select {
		case <-ctx.Done():
			return st, ctx.Err()
		case <-t.C:
		}
	}
}
