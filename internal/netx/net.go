// Package netx has small helpers for JSON-over-HTTP calls.
package netx

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

const (
	ContentTypeJSON = "application/json"
	maxBodySize     = 1 << 20
)

// SendJSON encodes body (nil sends no body) and performs the request with
// JSON Content-Type and Accept headers. The caller closes the response body.
func SendJSON(ctx context.Context, hc *http.Client, method, url string, body any) (*http.Response, error) {
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
		r = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, r)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", ContentTypeJSON)
	}
	req.Header.Set("Accept", ContentTypeJSON)

	return hc.Do(req)
}

// ReadJSON decodes at most 1 MiB of resp.Body into out and closes the body.
func ReadJSON(resp *http.Response, out any) error {
	defer resp.Body.Close()

	b, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return fmt.Errorf("read body: %w", err)
	}
	if err := json.Unmarshal(b, out); err != nil {
		return fmt.Errorf("decode body (status %s): %w", resp.Status, err)
	}
	return nil
}

// Discard drains and closes resp.Body so the connection can be reused.
func Discard(resp *http.Response) {
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodySize))
	_ = resp.Body.Close()
}
