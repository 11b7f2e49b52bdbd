// Package apiclient issues authenticated requests to the service-center
// backend and normalises every response to a Result.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

const defaultTimeout = 15 * time.Second

// TokenSource supplies the bearer token for each request. An empty token
// sends the request anonymously.
type TokenSource interface {
	Token() string
}

// Result is the uniform shape of every call: Data on success, Error otherwise.
type Result struct {
	Success bool
	Status  int
	Data    json.RawMessage
	Error   *Error
}

// Err returns the result's error as an error value, or nil on success.
func (r Result) Err() error {
	if r.Success {
		return nil
	}
	if r.Error == nil {
		return &Error{Kind: KindBackend, Status: r.Status, Message: DefaultErrorMessage}
	}
	return r.Error
}

// Decode unmarshals Data into out. A failed result returns its error.
func (r Result) Decode(out interface{}) error {
	if err := r.Err(); err != nil {
		return err
	}
	if out == nil || len(r.Data) == 0 || string(r.Data) == "null" {
		return nil
	}
	if err := json.Unmarshal(r.Data, out); err != nil {
		return &Error{
			Kind:    KindDecode,
			Status:  r.Status,
			Message: "Dữ liệu trả về không hợp lệ",
			Raw:     string(r.Data),
			Err:     fmt.Errorf("failed to decode response: %w", err),
		}
	}
	return nil
}

// Client is the backend HTTP client.
type Client struct {
	baseURL string
	tokens  TokenSource
	ua      string
	http    *http.Client
}

// NewClient creates a client for the backend rooted at baseURL.
func NewClient(baseURL string, tokens TokenSource, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:        20,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
	}

	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		tokens:  tokens,
		ua:      "ev-portal/1.0",
		http: &http.Client{
			Timeout:   timeout,
			Transport: transport,
		},
	}
}

// BaseURL returns the backend origin the client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Get issues a GET request.
func (c *Client) Get(ctx context.Context, path string, query url.Values) Result {
	return c.Do(ctx, http.MethodGet, path, query, nil)
}

// Post issues a POST request with a JSON body.
func (c *Client) Post(ctx context.Context, path string, query url.Values, body interface{}) Result {
	return c.Do(ctx, http.MethodPost, path, query, body)
}

// Put issues a PUT request with a JSON body.
func (c *Client) Put(ctx context.Context, path string, body interface{}) Result {
	return c.Do(ctx, http.MethodPut, path, nil, body)
}

// Patch issues a PATCH request with a JSON body.
func (c *Client) Patch(ctx context.Context, path string, body interface{}) Result {
	return c.Do(ctx, http.MethodPatch, path, nil, body)
}

// Do sends one request and normalises the outcome. It never retries.
func (c *Client) Do(ctx context.Context, method, path string, query url.Values, body interface{}) Result {
	target := c.baseURL + "/" + strings.TrimLeft(path, "/")
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return failed(0, &Error{Kind: KindDecode, Message: DefaultErrorMessage, Err: fmt.Errorf("failed to marshal request: %w", err)})
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return failed(0, &Error{Kind: KindBackend, Message: DefaultErrorMessage, Err: fmt.Errorf("failed to build request: %w", err)})
	}

	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.ua != "" {
		req.Header.Set("User-Agent", c.ua)
	}
	if c.tokens != nil {
		if token := c.tokens.Token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	entry := log.WithFields(log.Fields{
		"method":     method,
		"path":       path,
		"request_id": requestID,
	})

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		apiErr := classifyRequestError(ctx, err)
		entry.WithError(err).Error("Request failed")
		return failed(0, apiErr)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		entry.WithError(err).Error("Failed to read response body")
		return failed(resp.StatusCode, &Error{Kind: KindNetwork, Status: resp.StatusCode, Message: DefaultErrorMessage, Err: err})
	}

	entry = entry.WithFields(log.Fields{"status": resp.StatusCode, "elapsed": time.Since(start)})
	result := normalize(resp.StatusCode, raw)
	if result.Success {
		entry.Debug("Request completed")
	} else {
		entry.WithField("error", result.Error.Raw).Warn("Request rejected")
	}
	return result
}

func failed(status int, err *Error) Result {
	return Result{Success: false, Status: status, Error: err}
}

// envelope is the backend's optional response wrapper.
type envelope struct {
	Success *bool           `json:"success"`
	Message string          `json:"message"`
	Error   json.RawMessage `json:"error"`
	Data    json.RawMessage `json:"data"`
}

func normalize(status int, raw []byte) Result {
	trimmed := bytes.TrimSpace(raw)

	var env envelope
	wrapped := false
	if len(trimmed) > 0 && trimmed[0] == '{' {
		var keys map[string]json.RawMessage
		if json.Unmarshal(trimmed, &keys) == nil {
			_, hasData := keys["data"]
			_, hasSuccess := keys["success"]
			_, hasMessage := keys["message"]
			wrapped = hasData && (hasSuccess || hasMessage)
			_ = json.Unmarshal(trimmed, &env)
		}
	}

	ok := status >= 200 && status < 300
	if ok && (env.Success == nil || *env.Success) {
		data := json.RawMessage(trimmed)
		if wrapped {
			data = env.Data
		}
		return Result{Success: true, Status: status, Data: data}
	}

	msg := errorMessage(env, trimmed)
	apiErr := &Error{Kind: KindBackend, Status: status, Message: msg, Raw: msg}
	if msg == "" {
		apiErr.Message = DefaultErrorMessage
	}
	switch {
	case status == http.StatusUnauthorized:
		apiErr.Kind = KindUnauthorized
		apiErr.Message = "Phiên đăng nhập đã hết hạn. Vui lòng đăng nhập lại."
	case status == http.StatusConflict:
		apiErr.Kind = KindConflict
	}
	return Result{Success: false, Status: status, Error: apiErr}
}

func errorMessage(env envelope, raw []byte) string {
	if env.Message != "" {
		return env.Message
	}
	if len(env.Error) > 0 {
		var s string
		if json.Unmarshal(env.Error, &s) == nil && s != "" {
			return s
		}
		var nested struct {
			Message string `json:"message"`
		}
		if json.Unmarshal(env.Error, &nested) == nil && nested.Message != "" {
			return nested.Message
		}
	}
	if len(raw) > 0 && raw[0] != '{' && raw[0] != '[' && len(raw) < 300 {
		return string(raw)
	}
	return ""
}

// Path joins path segments, escaping each one.
func Path(segments ...interface{}) string {
	parts := make([]string, 0, len(segments))
	for _, s := range segments {
		parts = append(parts, url.PathEscape(fmt.Sprint(s)))
	}
	return "/" + strings.Join(parts, "/")
}
