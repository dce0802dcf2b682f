package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	jerrors "github.com/tessro/jukebar/internal/errors"
)

// Client talks to the music streaming server. Requests are one-shot:
// nothing is retried automatically.
type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
	sessions   *SessionStorage
	log        zerolog.Logger

	authenticated bool
}

// New creates a client for the server at baseURL. If sessions is non-nil,
// a stored session cookie is replayed on every request.
func New(baseURL string, timeout time.Duration, sessions *SessionStorage) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid server URL: %w", err)
	}

	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create cookie jar: %w", err)
	}

	c := &Client{
		baseURL:  u,
		sessions: sessions,
		log:      zerolog.Nop(),
	}
	c.httpClient = &http.Client{
		Timeout: timeout,
		Jar:     jar,
		// The server answers unauthenticated page requests with a
		// redirect to the login form; surface that as a 401.
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if req.URL.Path == "/login" {
				return http.ErrUseLastResponse
			}
			if len(via) >= 10 {
				return errors.New("stopped after 10 redirects")
			}
			return nil
		},
	}

	if sessions != nil {
		sess, err := sessions.Load()
		if err != nil {
			return nil, err
		}
		if sess != nil {
			jar.SetCookies(u, sess.HTTPCookies())
			c.authenticated = true
		}
	}

	return c, nil
}

// SetLogger sets the logger used for request tracing.
func (c *Client) SetLogger(log zerolog.Logger) {
	c.log = log
}

// BaseURL returns the server base URL.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// URL resolves a server path against the base URL.
func (c *Client) URL(path string) string {
	return c.baseURL.String() + path
}

// IsAuthenticated reports whether a login session is held.
func (c *Client) IsAuthenticated() bool {
	return c.authenticated && c.hasSessionCookie()
}

// Get performs a GET request and decodes a JSON response into result.
func (c *Client) Get(ctx context.Context, path string, result interface{}) error {
	return c.doJSON(ctx, http.MethodGet, path, nil, result)
}

// Post performs a POST request with a JSON body.
func (c *Client) Post(ctx context.Context, path string, body interface{}, result interface{}) error {
	return c.doJSON(ctx, http.MethodPost, path, body, result)
}

// Delete performs a DELETE request.
func (c *Client) Delete(ctx context.Context, path string, result interface{}) error {
	return c.doJSON(ctx, http.MethodDelete, path, nil, result)
}

func (c *Client) doJSON(ctx context.Context, method, path string, body interface{}, result interface{}) error {
	var (
		bodyReader  io.Reader
		contentType string
	)
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		bodyReader = strings.NewReader(string(jsonBody))
		contentType = "application/json"
	}

	respBody, _, err := c.do(ctx, method, path, bodyReader, contentType)
	if err != nil {
		return err
	}

	if result != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("%w: failed to parse response: %v", jerrors.ErrServer, err)
		}
	}
	return nil
}

// do performs a single request and returns the response body. Non-2xx
// statuses are returned as *APIError.
func (c *Client) do(ctx context.Context, method, path string, body io.Reader, contentType string) ([]byte, http.Header, error) {
	fullURL := c.URL(path)
	requestID := uuid.NewString()

	req, err := http.NewRequestWithContext(ctx, method, fullURL, body)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("X-Request-ID", requestID)
	req.Header.Set("Accept", "application/json, audio/*;q=0.9, */*;q=0.5")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	c.log.Debug().Str("method", method).Str("url", fullURL).Str("request_id", requestID).Msg("request")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, nil, ctx.Err()
		}
		c.log.Debug().Err(err).Str("request_id", requestID).Msg("network error")
		return nil, nil, fmt.Errorf("%w: %v", jerrors.ErrNetwork, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: failed to read response: %v", jerrors.ErrNetwork, err)
	}

	c.log.Debug().
		Int("status", resp.StatusCode).
		Int("bytes", len(respBody)).
		Dur("elapsed", time.Since(start)).
		Str("request_id", requestID).
		Msg("response")

	if isLoginRedirect(resp) {
		return nil, nil, &APIError{Status: http.StatusUnauthorized, Message: "login required"}
	}
	if resp.StatusCode >= 400 {
		return nil, nil, newAPIError(resp.StatusCode, respBody)
	}

	return respBody, resp.Header, nil
}

func isLoginRedirect(resp *http.Response) bool {
	if resp.StatusCode < 300 || resp.StatusCode >= 400 {
		return false
	}
	loc, err := resp.Location()
	return err == nil && loc.Path == "/login"
}

// BuildURL builds a URL with query parameters.
func BuildURL(path string, params map[string]string) string {
	if len(params) == 0 {
		return path
	}

	u, _ := url.Parse(path)
	q := u.Query()
	for k, v := range params {
		q.Set(k, v)
	}
	u.RawQuery = q.Encode()
	return u.String()
}
