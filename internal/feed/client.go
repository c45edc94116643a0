package feed

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/failsafe-go/failsafe-go"
	"github.com/failsafe-go/failsafe-go/timeout"
)

const (
	DefaultUserAgent = "SeaGLBadge/1.0"
	DefaultTimeout   = 10 * time.Second

	// maxResponseBytes bounds the documents the badge is willing to decode.
	maxResponseBytes = 256 * 1024
)

// API is the remote content service: one login call, one search call.
type API interface {
	CreateSession(ctx context.Context) (string, error)
	SearchPosts(ctx context.Context, token, tag string, limit int) (*SearchResponse, error)
}

// Client talks to the Bluesky XRPC endpoints.
type Client struct {
	AuthURL     string
	SearchURL   string
	Identifier  string
	AppPassword string
	UserAgent   string
	HTTPClient  *http.Client

	executor failsafe.Executor[*response]
}

type response struct {
	status int
	body   []byte
}

// NewClient builds a client whose every request is cut off after requestTimeout.
func NewClient(authURL, searchURL, identifier, appPassword string, requestTimeout time.Duration) *Client {
	if requestTimeout <= 0 {
		requestTimeout = DefaultTimeout
	}
	return &Client{
		AuthURL:     authURL,
		SearchURL:   searchURL,
		Identifier:  identifier,
		AppPassword: appPassword,
		UserAgent:   DefaultUserAgent,
		HTTPClient:  &http.Client{Timeout: requestTimeout},
		executor:    failsafe.With[*response](timeout.New[*response](requestTimeout)),
	}
}

var _ API = (*Client)(nil)

// CreateSession logs in with the identifier and app password and returns the access token.
func (c *Client) CreateSession(ctx context.Context) (string, error) {
	if c.AppPassword == "" {
		return "", ErrConfig
	}

	payload, err := json.Marshal(sessionRequest{Identifier: c.Identifier, Password: c.AppPassword})
	if err != nil {
		return "", fmt.Errorf("%w: encode request: %v", ErrAuth, err)
	}

	resp, err := c.do(ctx, func(reqCtx context.Context) (*http.Request, error) {
		req, err := http.NewRequestWithContext(reqCtx, http.MethodPost, c.AuthURL, bytes.NewReader(payload))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")
		return req, nil
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrAuth, err)
	}
	if resp.status != http.StatusOK {
		return "", fmt.Errorf("%w: status %d: %s", ErrAuth, resp.status, truncate(resp.body, 200))
	}

	var session sessionResponse
	if err := json.Unmarshal(resp.body, &session); err != nil {
		return "", fmt.Errorf("%w: decode response: %v", ErrAuth, err)
	}
	if session.AccessJwt == "" {
		return "", fmt.Errorf("%w: response has no accessJwt", ErrAuth)
	}
	return session.AccessJwt, nil
}

// SearchPosts runs a latest-first hashtag search.
func (c *Client) SearchPosts(ctx context.Context, token, tag string, limit int) (*SearchResponse, error) {
	searchURL, err := c.searchURL(tag, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTransport, err)
	}

	resp, err := c.do(ctx, func(reqCtx context.Context) (*http.Request, error) {
		req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, searchURL, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Authorization", "Bearer "+token)
		return req, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTransport, err)
	}

	switch {
	case resp.status == http.StatusUnauthorized:
		return nil, ErrAuthExpired
	case resp.status != http.StatusOK:
		return nil, fmt.Errorf("%w: status %d", ErrTransport, resp.status)
	}

	var result SearchResponse
	if err := json.Unmarshal(resp.body, &result); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}
	return &result, nil
}

func (c *Client) searchURL(tag string, limit int) (string, error) {
	u, err := url.Parse(c.SearchURL)
	if err != nil {
		return "", err
	}
	q := u.Query()
	q.Set("q", "#"+tag)
	q.Set("limit", strconv.Itoa(limit))
	q.Set("sort", "latest")
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// do runs one request under the timeout policy and reads the bounded body.
func (c *Client) do(ctx context.Context, build func(context.Context) (*http.Request, error)) (*response, error) {
	executor := c.executor
	if executor == nil {
		executor = failsafe.With[*response](timeout.New[*response](DefaultTimeout))
	}
	httpClient := c.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	resp, err := executor.WithContext(ctx).GetWithExecution(func(exec failsafe.Execution[*response]) (*response, error) {
		req, err := build(exec.Context())
		if err != nil {
			return nil, err
		}
		if c.UserAgent != "" {
			req.Header.Set("User-Agent", c.UserAgent)
		}
		httpResp, err := httpClient.Do(req)
		if err != nil {
			return nil, err
		}
		defer httpResp.Body.Close()

		body, err := io.ReadAll(io.LimitReader(httpResp.Body, maxResponseBytes+1))
		if err != nil {
			return nil, err
		}
		if len(body) > maxResponseBytes {
			return nil, fmt.Errorf("response exceeds %d bytes", maxResponseBytes)
		}
		return &response{status: httpResp.StatusCode, body: body}, nil
	})
	if errors.Is(err, timeout.ErrExceeded) {
		return nil, fmt.Errorf("request timed out: %w", err)
	}
	return resp, err
}

func truncate(body []byte, n int) string {
	if len(body) <= n {
		return string(body)
	}
	return string(body[:n]) + "..."
}
