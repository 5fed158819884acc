// Package api is the typed client for the storefront REST surface.
// Every call returns the decoded entity or an apperr classified by
// what went wrong: transport failures map to Network, non-2xx
// responses to Server with the server's message when it sends one.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
	"github.com/sony/gobreaker/v2"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/Shiv-727-nov/E-commerce/internal/apperr"
)

const defaultTimeout = 30 * time.Second

// TokenSource supplies the bearer token for authenticated calls.
// An empty token means the call goes out anonymous.
type TokenSource interface {
	Token() string
}

type Config struct {
	BaseURL string
	Timeout time.Duration
	Logger  *slog.Logger
	Tokens  TokenSource
}

type Client struct {
	baseURL string
	http    *http.Client
	breaker *gobreaker.CircuitBreaker[*http.Response]
	logger  *slog.Logger
	tokens  TokenSource
}

func NewClient(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = defaultTimeout
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	breaker := gobreaker.NewCircuitBreaker[*http.Response](gobreaker.Settings{
		Name: "storefront-api",
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
	})

	return &Client{
		baseURL: cfg.BaseURL,
		http: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		breaker: breaker,
		logger:  logger,
		tokens:  cfg.Tokens,
	}
}

// errorEnvelope is the JSON body the server sends on non-2xx responses.
type errorEnvelope struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

// do executes one request against the REST surface. body (if non-nil)
// is JSON-encoded; out (if non-nil) receives the decoded response.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.tokens != nil {
		if token := c.tokens.Token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.breaker.Execute(func() (*http.Response, error) {
		return c.http.Do(req)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return apperr.NetworkErr("Service temporarily unavailable", err)
		}
		c.logger.Warn("request failed",
			slog.String("method", method),
			slog.String("path", path),
			slog.String("error", err.Error()))
		return apperr.NetworkErr("Network error, please try again", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return c.serverError(resp)
	}

	if out == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return apperr.ServerErr("Unexpected response from server", fmt.Errorf("decode %s %s: %w", method, path, err))
	}
	return nil
}

func (c *Client) serverError(resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<16))

	var env errorEnvelope
	msg := ""
	if json.Unmarshal(raw, &env) == nil {
		if env.Message != "" {
			msg = env.Message
		} else {
			msg = env.Error
		}
	}

	err := fmt.Errorf("%s %s: status %d", resp.Request.Method, resp.Request.URL.Path, resp.StatusCode)
	switch resp.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		if msg == "" {
			msg = "Not authorized"
		}
		return &apperr.Error{Kind: apperr.Authorization, PublicMsg: msg, Err: err}
	default:
		return apperr.ServerErr(msg, err)
	}
}
