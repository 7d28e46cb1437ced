// Package vercel reads the project inventory of a Vercel team.
package vercel

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/hamed0406/fleetstatus/internal/domain"
)

const (
	DefaultBaseURL = "https://api.vercel.com"
	DefaultLimit   = 100
)

// SourceError means the inventory endpoint answered with a non-2xx status.
// The message is deliberately generic; StatusCode carries the detail.
type SourceError struct {
	StatusCode int
}

func (e *SourceError) Error() string { return "Vercel API error" }

var ErrMalformedPayload = errors.New("malformed project payload")

type Config struct {
	BaseURL string
	Token   string
	TeamID  string
	Limit   int
}

type Client struct {
	cfg        Config
	httpClient *http.Client
}

type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		if h != nil {
			c.httpClient = h
		}
	}
}

func NewClient(cfg Config, opts ...Option) (*Client, error) {
	cfg.BaseURL = strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if _, err := url.ParseRequestURI(cfg.BaseURL); err != nil {
		return nil, fmt.Errorf("invalid vercel base url: %w", err)
	}
	if cfg.Limit <= 0 {
		cfg.Limit = DefaultLimit
	}
	c := &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// ListProjects fetches one page of projects with their production aliases.
func (c *Client) ListProjects(ctx context.Context) ([]domain.SourceProject, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.projectsURL(), nil)
	if err != nil {
		return nil, fmt.Errorf("build projects request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.Token)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Cache-Control", "no-cache")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch projects: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))
		return nil, &SourceError{StatusCode: resp.StatusCode}
	}
	return decodeProjects(resp.Body)
}

func (c *Client) projectsURL() string {
	q := url.Values{}
	if c.cfg.TeamID != "" {
		q.Set("teamId", c.cfg.TeamID)
	}
	q.Set("limit", strconv.Itoa(c.cfg.Limit))
	return c.cfg.BaseURL + "/v9/projects?" + q.Encode()
}
