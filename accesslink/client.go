// Package accesslink talks to the partner data API on behalf of users holding a stored credential.
package accesslink

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/jrsteele09/polar-health-link/internal/metrics"
	"github.com/jrsteele09/polar-health-link/token"
	"golang.org/x/oauth2"
)

// maxBodyBytes caps how much of any partner response is read
const maxBodyBytes = 4 << 20

// Client calls the partner API using the credential stored for each user.
type Client struct {
	baseURL    string
	tokens     token.Repo
	httpClient *http.Client
}

type ClientOption func(*Client)

// WithHTTPClient sets the base client; its Transport and Timeout are kept under the bearer transport.
func WithHTTPClient(client *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = client
	}
}

func NewClient(baseURL string, tokens token.Repo, options ...ClientOption) (*Client, error) {
	if baseURL == "" {
		return nil, errors.New("[accesslink NewClient] base URL is required")
	}
	if tokens == nil {
		return nil, errors.New("[accesslink NewClient] tokens repo is required")
	}

	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		tokens:     tokens,
		httpClient: http.DefaultClient,
	}
	for _, opt := range options {
		opt(c)
	}
	return c, nil
}

// userClient returns an HTTP client that authorizes every request with the user's credential.
func (c *Client) userClient(userID string) (*http.Client, error) {
	credential, err := c.tokens.Get(userID)
	if err != nil {
		return nil, err
	}

	src := oauth2.StaticTokenSource(&oauth2.Token{
		AccessToken: credential.AccessToken,
		TokenType:   credential.TokenType,
	})
	return &http.Client{
		Timeout:       c.httpClient.Timeout,
		CheckRedirect: c.httpClient.CheckRedirect,
		Transport: &oauth2.Transport{
			Base:   c.httpClient.Transport,
			Source: src,
		},
	}, nil
}

// do performs one partner call and returns status and body. Only transport failures are errors.
func do(ctx context.Context, client *http.Client, operation string, req *http.Request) (int, []byte, error) {
	started := time.Now()
	req = req.WithContext(ctx)
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		metrics.ObserveUpstream(operation, metrics.OutcomeError, started)
		return 0, nil, fmt.Errorf("%s %s: %w", req.Method, req.URL.Redacted(), err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		metrics.ObserveUpstream(operation, metrics.OutcomeError, started)
		return resp.StatusCode, nil, fmt.Errorf("%s %s: read body: %w", req.Method, req.URL.Redacted(), err)
	}

	outcome := metrics.OutcomeSuccess
	if !isSuccess(resp.StatusCode) {
		outcome = metrics.OutcomeFailure
	}
	metrics.ObserveUpstream(operation, outcome, started)
	return resp.StatusCode, body, nil
}

func isSuccess(status int) bool {
	return status >= 200 && status < 300
}
