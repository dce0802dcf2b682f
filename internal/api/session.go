package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	jerrors "github.com/tessro/jukebar/internal/errors"
)

const (
	// SessionCookieName is the cookie the server keeps its session in.
	SessionCookieName = "session"

	// DefaultSessionFileName is the default name for the session file.
	DefaultSessionFileName = "session.json"
)

// Session is a persisted login.
type Session struct {
	Email     string         `json:"email"`
	Cookies   []StoredCookie `json:"cookies"`
	CreatedAt time.Time      `json:"created_at"`
}

// StoredCookie is the persisted form of an HTTP cookie.
type StoredCookie struct {
	Name    string    `json:"name"`
	Value   string    `json:"value"`
	Path    string    `json:"path,omitempty"`
	Expires time.Time `json:"expires,omitempty"`
}

// HTTPCookies converts the stored cookies for a cookie jar.
func (s *Session) HTTPCookies() []*http.Cookie {
	out := make([]*http.Cookie, 0, len(s.Cookies))
	for _, c := range s.Cookies {
		out = append(out, &http.Cookie{Name: c.Name, Value: c.Value, Path: c.Path, Expires: c.Expires})
	}
	return out
}

// SessionStorage handles persisting the session cookie to disk.
type SessionStorage struct {
	path string
}

// NewSessionStorage creates session storage at the specified path.
// If path is empty, uses the default location (~/.config/jukebar/session.json).
func NewSessionStorage(path string) (*SessionStorage, error) {
	if path == "" {
		configDir, err := os.UserConfigDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get config directory: %w", err)
		}
		path = filepath.Join(configDir, "jukebar", DefaultSessionFileName)
	}
	return &SessionStorage{path: path}, nil
}

// Save persists a session to disk.
func (s *SessionStorage) Save(sess *Session) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.MarshalIndent(sess, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	// Write with restricted permissions (owner only)
	if err := os.WriteFile(s.path, data, 0600); err != nil {
		return fmt.Errorf("failed to write session file: %w", err)
	}
	return nil
}

// Load reads the session from disk. A missing file yields nil, nil.
func (s *SessionStorage) Load() (*Session, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil // Not logged in yet
		}
		return nil, fmt.Errorf("failed to read session file: %w", err)
	}

	var sess Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, fmt.Errorf("failed to parse session file: %w", err)
	}
	return &sess, nil
}

// Delete removes the stored session.
func (s *SessionStorage) Delete() error {
	err := os.Remove(s.path)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete session file: %w", err)
	}
	return nil
}

// Exists returns true if a session file exists.
func (s *SessionStorage) Exists() bool {
	_, err := os.Stat(s.path)
	return err == nil
}

// Path returns the path to the session file.
func (s *SessionStorage) Path() string {
	return s.path
}

// Login posts credentials to the login form and persists the session
// cookie the server hands back.
func (c *Client) Login(ctx context.Context, email, password string) error {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return jerrors.Validation("email and password are required")
	}

	form := url.Values{"email": {email}, "password": {password}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.URL("/login"), strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	c.log.Debug().Str("email", email).Msg("login")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("login: %w: %v", jerrors.ErrNetwork, err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode >= 400 {
		return fmt.Errorf("login: %w", newAPIError(resp.StatusCode, body))
	}
	// A successful login redirects away from the form; a failed one
	// re-renders it.
	if resp.Request.URL.Path == "/login" {
		return fmt.Errorf("login: %w: invalid email or password", jerrors.ErrUnauthorized)
	}
	if !c.hasSessionCookie() {
		return fmt.Errorf("login: %w: server did not issue a session", jerrors.ErrUnauthorized)
	}

	c.authenticated = true
	return c.saveSession(email)
}

// Logout forgets the stored session.
func (c *Client) Logout() error {
	c.authenticated = false
	c.httpClient.Jar.SetCookies(c.baseURL, []*http.Cookie{{Name: SessionCookieName, Value: "", MaxAge: -1}})
	if c.sessions == nil {
		return nil
	}
	return c.sessions.Delete()
}

// ExtendSession refreshes the server-side session's activity timestamp.
func (c *Client) ExtendSession(ctx context.Context) error {
	if err := c.Post(ctx, "/extend-session", nil, nil); err != nil {
		return fmt.Errorf("extend session: %w", err)
	}
	// The server may rotate the cookie on every response.
	if c.authenticated {
		var email string
		if c.sessions != nil {
			if sess, _ := c.sessions.Load(); sess != nil {
				email = sess.Email
			}
		}
		return c.saveSession(email)
	}
	return nil
}

func (c *Client) hasSessionCookie() bool {
	for _, ck := range c.httpClient.Jar.Cookies(c.baseURL) {
		if ck.Name == SessionCookieName && ck.Value != "" {
			return true
		}
	}
	return false
}

func (c *Client) saveSession(email string) error {
	if c.sessions == nil {
		return nil
	}
	sess := &Session{Email: email, CreatedAt: time.Now()}
	for _, ck := range c.httpClient.Jar.Cookies(c.baseURL) {
		sess.Cookies = append(sess.Cookies, StoredCookie{Name: ck.Name, Value: ck.Value, Path: "/"})
	}
	return c.sessions.Save(sess)
}
