package client

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/dmitrijs2005/desabantuin/internal/client/models"
	"github.com/dmitrijs2005/desabantuin/internal/netx"
)

type authEnvelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    *struct {
		User      models.User `json:"user"`
		Token     string      `json:"token"`
		TokenType string      `json:"token_type"`
	} `json:"data"`
}

// HTTPClient is the JSON/HTTP implementation of Client.
type HTTPClient struct {
	baseURL string
	hc      *http.Client
}

func NewHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		hc:      &http.Client{Timeout: timeout},
	}
}

func (c *HTTPClient) Login(ctx context.Context, req LoginRequest) (*AuthResult, error) {
	return c.auth(ctx, "/login", req)
}

func (c *HTTPClient) Register(ctx context.Context, req RegisterRequest) (*AuthResult, error) {
	return c.auth(ctx, "/register", req)
}

// Ping reports whether the backend answers at all. Any HTTP status counts.
func (c *HTTPClient) Ping(ctx context.Context) error {
	resp, err := netx.SendJSON(ctx, c.hc, http.MethodGet, c.baseURL, nil)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	netx.Discard(resp)
	return nil
}

func (c *HTTPClient) auth(ctx context.Context, path string, body any) (*AuthResult, error) {
	resp, err := netx.SendJSON(ctx, c.hc, http.MethodPost, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	ok := resp.StatusCode >= 200 && resp.StatusCode < 300

	var env authEnvelope
	if err := netx.ReadJSON(resp, &env); err != nil {
		if !ok {
			return nil, &APIError{StatusCode: resp.StatusCode}
		}
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	if !ok || !env.Success {
		return nil, &APIError{StatusCode: resp.StatusCode, Message: env.Message}
	}
	if env.Data == nil || env.Data.Token == "" {
		return nil, fmt.Errorf("%w: missing token", ErrMalformedResponse)
	}

	return &AuthResult{
		Message:   env.Message,
		Token:     env.Data.Token,
		TokenType: env.Data.TokenType,
		User:      env.Data.User,
	}, nil
}
