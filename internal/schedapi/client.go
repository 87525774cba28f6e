// Package schedapi is the HTTP client for the scheduling API. Every call is
// independent: the client holds no session state beyond an optional bearer
// token fixed at construction.
package schedapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"clinic-scheduler/pkg/apperror"
	"clinic-scheduler/pkg/response"

	"github.com/sirupsen/logrus"
)

const (
	defaultTimeout = 30 * time.Second
	maxBodyBytes   = 4 << 20
)

type Client struct {
	baseURL    string
	httpClient *http.Client
	token      string
	log        *logrus.Logger
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	}
}

func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

func WithLogger(log *logrus.Logger) Option {
	return func(c *Client) {
		if log != nil {
			c.log = log
		}
	}
}

// New builds a client for baseURL, e.g. http://localhost:8080/api/v1.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: defaultTimeout},
		log:        logrus.New(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Authenticated returns a copy of c that sends token as its bearer.
func (c *Client) Authenticated(token string) *Client {
	clone := *c
	clone.token = token
	return &clone
}

func (c *Client) Token() string {
	return c.token
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out interface{}) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return apperror.Wrap(apperror.KindInternal, "schedapi: encode request", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return apperror.Wrap(apperror.KindInternal, "schedapi: build request", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	started := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		if isTimeout(ctx, err) {
			return apperror.Timeout(fmt.Sprintf("%s %s timed out", method, path), err)
		}
		return apperror.Transport(fmt.Sprintf("%s %s failed", method, path), err)
	}
	defer resp.Body.Close()

	c.log.WithFields(logrus.Fields{
		"method":   method,
		"path":     path,
		"status":   resp.StatusCode,
		"duration": time.Since(started).String(),
	}).Debug("schedapi request")

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		if isTimeout(ctx, err) {
			return apperror.Timeout(fmt.Sprintf("%s %s timed out", method, path), err)
		}
		return apperror.Transport("schedapi: read response", err)
	}

	var env response.Envelope
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &env); err != nil {
			if resp.StatusCode >= http.StatusBadRequest {
				return errorFromStatus(resp.StatusCode, &response.Envelope{Message: http.StatusText(resp.StatusCode)})
			}
			return apperror.Transport("schedapi: malformed response", err)
		}
	}

	if resp.StatusCode >= http.StatusBadRequest {
		return errorFromStatus(resp.StatusCode, &env)
	}

	if out == nil || len(env.Data) == 0 || string(env.Data) == "null" {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return apperror.Transport("schedapi: malformed response data", err)
	}
	return nil
}

// errorFromStatus maps a failed response to the matching error kind.
func errorFromStatus(status int, env *response.Envelope) error {
	message := env.Message
	if message == "" {
		message = http.StatusText(status)
	}

	switch status {
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		var fields map[string]string
		if len(env.Error) > 0 {
			_ = json.Unmarshal(env.Error, &fields)
		}
		return apperror.ValidationFields(message, fields)
	case http.StatusUnauthorized:
		return apperror.Unauthorized(message)
	case http.StatusForbidden:
		return apperror.Forbidden(message)
	case http.StatusNotFound:
		return apperror.NotFound(message)
	case http.StatusConflict:
		return apperror.Conflict(message)
	case http.StatusGatewayTimeout, http.StatusRequestTimeout:
		return apperror.Timeout(message, fmt.Errorf("status %d", status))
	default:
		return apperror.Transport(message, fmt.Errorf("status %d", status))
	}
}

func isTimeout(ctx context.Context, err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

func setInt(q url.Values, key string, v int) {
	if v > 0 {
		q.Set(key, fmt.Sprint(v))
	}
}

func setString(q url.Values, key, v string) {
	if v != "" {
		q.Set(key, v)
	}
}
