// Package upstream fetches issues and pull requests from the GitHub API and
// normalizes them into schema records.
package upstream

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/go-github/v62/github"
	"go.uber.org/zap"
	"golang.org/x/oauth2"

	"github.com/huangsam/repopulse/internal/contract"
)

// PageSize is the number of items requested per listing page.
const PageSize = 100

// Client implements contract.UpstreamClient on top of go-github.
type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
	log        *zap.SugaredLogger
}

var _ contract.UpstreamClient = &Client{} // Compile-time check

// Option configures a Client.
type Option func(*Client) error

// WithBaseURL targets a GitHub Enterprise instance or a test server.
func WithBaseURL(raw string) Option {
	return func(c *Client) error {
		if raw == "" {
			return nil
		}
		if !strings.HasSuffix(raw, "/") {
			raw += "/"
		}
		u, err := url.Parse(raw)
		if err != nil {
			return fmt.Errorf("invalid api url %q: %w", raw, err)
		}
		if u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("invalid api url %q: scheme and host are required", raw)
		}
		c.baseURL = u
		return nil
	}
}

// WithHTTPClient sets the base transport used under the oauth2 layer.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) error {
		c.httpClient = hc
		return nil
	}
}

// WithLogger injects a structured logger.
func WithLogger(log *zap.SugaredLogger) Option {
	return func(c *Client) error {
		if log != nil {
			c.log = log
		}
		return nil
	}
}

// New builds an upstream client.
func New(opts ...Option) (*Client, error) {
	c := &Client{log: zap.NewNop().Sugar()}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// github returns an API client authenticated with credential.
// Credentials differ per request, so clients are not shared.
func (c *Client) github(credential string) *github.Client {
	ctx := context.Background()
	if c.httpClient != nil {
		ctx = context.WithValue(ctx, oauth2.HTTPClient, c.httpClient)
	}
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: credential})
	gh := github.NewClient(oauth2.NewClient(ctx, ts))
	if c.baseURL != nil {
		gh.BaseURL = c.baseURL
	}
	return gh
}
