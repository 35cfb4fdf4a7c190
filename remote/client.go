// Package remote is the JSON client for the editor service. Unsafe requests
// carry the CSRF token from the csrftoken cookie.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"docbuilder/notify"
)

const (
	CSRFCookie = "csrftoken"
	CSRFHeader = "X-CSRFToken"

	// ConnectionError is shown for every failed request.
	ConnectionError = "Erreur de connexion au serveur"
)

// Notifier shows a message to the user.
type Notifier interface {
	Notify(message string, sev notify.Severity)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(message string, sev notify.Severity)

func (f NotifierFunc) Notify(message string, sev notify.Severity) { f(message, sev) }

// StatusError is returned for a non-2xx response.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("HTTP %d", e.Code)
	}
	return fmt.Sprintf("HTTP %d: %s", e.Code, e.Body)
}

// Client talks to one service base URL.
type Client struct {
	base     *url.URL
	http     *http.Client
	notifier Notifier
}

// New returns a client for base. notifier may be nil.
func New(base string, notifier Notifier) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(base, "/"))
	if err != nil {
		return nil, fmt.Errorf("remote: base url: %w", err)
	}
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	if notifier == nil {
		notifier = NotifierFunc(func(string, notify.Severity) {})
	}
	return &Client{
		base:     u,
		http:     &http.Client{Jar: jar, Timeout: 30 * time.Second},
		notifier: notifier,
	}, nil
}

// Do sends in as JSON and decodes the response into out. Either may be nil.
// Failures are reported to the notifier and returned.
func (c *Client) Do(ctx context.Context, method, path string, in, out any) error {
	if err := c.do(ctx, method, path, in, out); err != nil {
		c.notifier.Notify(ConnectionError, notify.Error)
		return err
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("remote: marshal request: %w", err)
		}
		body = bytes.NewReader(raw)
	}

	target := c.base.String() + path
	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	if !safeMethod(method) {
		token, err := c.csrfToken(ctx)
		if err != nil {
			return err
		}
		req.Header.Set(CSRFHeader, token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("remote: %s %s: %w", method, target, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("remote: %s %s: %w", method, target,
			&StatusError{Code: resp.StatusCode, Body: strings.TrimSpace(string(msg))})
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("remote: decode response: %w", err)
	}
	return nil
}

// csrfToken returns the token cookie, fetching one from the service when the
// jar has none yet.
func (c *Client) csrfToken(ctx context.Context) (string, error) {
	if v := c.cookie(CSRFCookie); v != "" {
		return v, nil
	}
	if err := c.do(ctx, http.MethodGet, "/api/csrf", nil, nil); err != nil {
		return "", err
	}
	if v := c.cookie(CSRFCookie); v != "" {
		return v, nil
	}
	return "", fmt.Errorf("remote: no %s cookie issued", CSRFCookie)
}

func (c *Client) cookie(name string) string {
	for _, ck := range c.http.Jar.Cookies(c.base) {
		if ck.Name == name {
			return ck.Value
		}
	}
	return ""
}

func safeMethod(m string) bool {
	switch m {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return true
	}
	return false
}
