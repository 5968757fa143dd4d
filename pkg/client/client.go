// Package client talks to a boxtree server (see pkg/server).
//
// Requests that fail with a transport error are retried with
// [cache.RetryWithBackoff]. 500, 502, 503 and 504 responses are retried too,
// except for [Client.Layout], which stores a new document per request. Error responses carrying a code are
// returned as *[errors.Error] with that code, so callers can test them with
// errors.Is exactly as they would a local failure.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/matzehuels/boxtree/pkg/buildinfo"
	"github.com/matzehuels/boxtree/pkg/cache"
	"github.com/matzehuels/boxtree/pkg/errors"
)

const httpTimeout = 30 * time.Second

// Client provides typed access to the server routes.
type Client struct {
	http    *http.Client
	base    string
	headers map[string]string
}

// New creates a client for the server at base (for example
// "http://localhost:8080"). Headers are applied to all requests.
func New(base string, headers map[string]string) (*Client, error) {
	u, err := url.Parse(base)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "invalid server URL %q", base)
	}
	return &Client{
		http:    &http.Client{Timeout: httpTimeout},
		base:    strings.TrimRight(base, "/"),
		headers: headers,
	}, nil
}

// Layout submits a JSON tree document and returns the stored layout's id
// together with the layout document. Every accepted request stores a new
// document, so only failures to reach the server are retried.
func (c *Client) Layout(ctx context.Context, doc []byte) (string, []byte, error) {
	data, err := c.do(ctx, http.MethodPost, "/v1/layout", doc, false)
	if err != nil {
		return "", nil, err
	}
	var head struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return "", nil, fmt.Errorf("decode layout: %w", err)
	}
	return head.ID, data, nil
}

// GetLayout fetches a stored layout document.
func (c *Client) GetLayout(ctx context.Context, id string) ([]byte, error) {
	return c.do(ctx, http.MethodGet, "/v1/layouts/"+url.PathEscape(id), nil, true)
}

// Render renders a JSON tree document in one format.
func (c *Client) Render(ctx context.Context, format string, doc []byte) ([]byte, error) {
	return c.do(ctx, http.MethodPost, "/v1/render/"+url.PathEscape(format), doc, true)
}

// do sends one request with retries. Transport errors are always retried;
// server errors and failed body reads only when the request is idempotent.
func (c *Client) do(ctx context.Context, method, path string, body []byte, idempotent bool) ([]byte, error) {
	var out []byte
	err := cache.RetryWithBackoff(ctx, func() error {
		var rd io.Reader
		if body != nil {
			rd = bytes.NewReader(body)
		}
		req, err := http.NewRequestWithContext(ctx, method, c.base+path, rd)
		if err != nil {
			return err
		}
		if body != nil {
			req.Header.Set("Content-Type", "application/json")
		}
		req.Header.Set("User-Agent", buildinfo.UserAgent())
		for k, v := range c.headers {
			req.Header.Set(k, v)
		}

		resp, err := c.http.Do(req)
		if err != nil {
			return cache.Retryable(fmt.Errorf("%w: %v", cache.ErrNetwork, err))
		}
		defer resp.Body.Close()

		data, err := io.ReadAll(resp.Body)
		if err != nil {
			err = fmt.Errorf("%w: %v", cache.ErrNetwork, err)
			if idempotent {
				err = cache.Retryable(err)
			}
			return err
		}
		if err := checkStatus(resp.StatusCode, data); err != nil {
			if !idempotent {
				return unwrapRetryable(err)
			}
			return err
		}
		out = data
		return nil
	})
	return out, err
}

// unwrapRetryable strips the retry marker from err.
func unwrapRetryable(err error) error {
	var re *cache.RetryableError
	if stderrors.As(err, &re) {
		return re.Err
	}
	return err
}

func checkStatus(code int, body []byte) error {
	switch code {
	case http.StatusInternalServerError, http.StatusBadGateway,
		http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return cache.Retryable(fmt.Errorf("%w: status %d", cache.ErrNetwork, code))
	}
	if code >= 200 && code < 300 {
		return nil
	}

	var e struct {
		Code    errors.Code `json:"code"`
		Message string      `json:"message"`
	}
	if json.Unmarshal(body, &e) == nil && e.Code != "" {
		return errors.New(e.Code, "%s", e.Message)
	}
	if code == http.StatusNotFound {
		return errors.New(errors.ErrCodeNotFound, "status %d", code)
	}
	return fmt.Errorf("%w: status %d", cache.ErrNetwork, code)
}
