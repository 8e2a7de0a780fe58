package github

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/oauth2"

	"github.com/walidcherhane/star-buster-api/internal/config"
)

const (
	acceptJSON = "application/vnd.github.v3+json"
	// acceptStarJSON is the extended representation that includes the
	// starred_at timestamp on stargazer listings.
	acceptStarJSON = "application/vnd.github.star+json"

	userAgent = "star-buster-api"
)

// RateLimitInfo holds the quota state observed on API response headers.
type RateLimitInfo struct {
	Limit     int
	Remaining int
	ResetTime time.Time
}

// fetchState drives the retry loop in Client.fetch. Transitions are
// decided by the classified response; timing is owned by the waiting
// states so it can be tested with an injected clock.
type fetchState int

const (
	stateAttempting fetchState = iota
	stateWaitingOnQuota
	stateWaitingOnServerError
	stateExhausted
	stateSucceeded
)

// Client is a rate-limited GitHub API client. All analysis traffic for
// one process flows through a single Client so concurrent requests
// share the same observed quota.
type Client struct {
	client  *http.Client
	baseURL string
	token   string
	logger  *logrus.Logger

	rateLimitInfo RateLimitInfo

	maxServerRetries int
	maxIterations    int
	initialBackoff   time.Duration
	maxBackoff       time.Duration
	quotaResetBuffer time.Duration

	pageDelay time.Duration
	userDelay time.Duration

	now   func() time.Time
	sleep func(time.Duration)
}

// ClientOption allows configuring the client
type ClientOption func(*Client)

// WithBaseURL overrides the API base URL. Used by tests.
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

// WithRetryConfig configures retry behavior
func WithRetryConfig(cfg config.RateLimitConfig) ClientOption {
	return func(c *Client) {
		c.maxServerRetries = cfg.MaxServerRetries
		c.maxIterations = cfg.MaxIterations
		c.initialBackoff = cfg.InitialBackoff
		c.maxBackoff = cfg.MaxBackoff
		c.quotaResetBuffer = cfg.QuotaResetBuffer
	}
}

// WithDelays configures the fixed inter-request pauses used by the
// collector and enricher.
func WithDelays(pageDelay, userDelay time.Duration) ClientOption {
	return func(c *Client) {
		c.pageDelay = pageDelay
		c.userDelay = userDelay
	}
}

// WithClock injects the time source and sleep function so backoff
// timing can be tested without real waits.
func WithClock(now func() time.Time, sleep func(time.Duration)) ClientOption {
	return func(c *Client) {
		c.now = now
		c.sleep = sleep
	}
}

// NewClient creates a new GitHub client. The token is optional; when
// set, requests are authenticated and the effective quota is higher.
func NewClient(token string, logger *logrus.Logger, opts ...ClientOption) *Client {
	httpClient := &http.Client{Timeout: 120 * time.Second}
	if token != "" {
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
		httpClient = oauth2.NewClient(context.Background(), ts)
		httpClient.Timeout = 120 * time.Second
	}

	defaults := config.DefaultGitHubConfig()
	analysis := config.DefaultAnalysisConfig()

	client := &Client{
		client:           httpClient,
		baseURL:          defaults.APIBaseURL,
		token:            token,
		logger:           logger,
		maxServerRetries: defaults.RateLimit.MaxServerRetries,
		maxIterations:    defaults.RateLimit.MaxIterations,
		initialBackoff:   defaults.RateLimit.InitialBackoff,
		maxBackoff:       defaults.RateLimit.MaxBackoff,
		quotaResetBuffer: defaults.RateLimit.QuotaResetBuffer,
		pageDelay:        analysis.PageDelay,
		userDelay:        analysis.UserDelay,
		now:              time.Now,
		sleep:            time.Sleep,
	}

	for _, opt := range opts {
		opt(client)
	}

	return client
}

// RateLimit returns the last observed rate limit state.
func (c *Client) RateLimit() RateLimitInfo {
	return c.rateLimitInfo
}

// updateRateLimitInfo updates the rate limit information from response headers
func (c *Client) updateRateLimitInfo(resp *http.Response) {
	if limit := resp.Header.Get("X-RateLimit-Limit"); limit != "" {
		c.rateLimitInfo.Limit, _ = strconv.Atoi(limit)
	}
	if remaining := resp.Header.Get("X-RateLimit-Remaining"); remaining != "" {
		c.rateLimitInfo.Remaining, _ = strconv.Atoi(remaining)
	}
	if reset := resp.Header.Get("X-RateLimit-Reset"); reset != "" {
		if resetTime, err := strconv.ParseInt(reset, 10, 64); err == nil {
			c.rateLimitInfo.ResetTime = time.Unix(resetTime, 0)
		}
	}
}

// fetch performs a GET against the API with quota-aware waiting and
// bounded backoff, decoding the JSON body into result on success.
//
// A 403 with zero remaining quota waits out the reset and retries
// without consuming the server-error budget. 502/503 retry with
// exponential backoff up to maxServerRetries. Anything else surfaces
// immediately. The outer loop is capped at maxIterations regardless of
// error kind.
func (c *Client) fetch(ctx context.Context, path string, params url.Values, accept string, result interface{}) error {
	fullURL := c.baseURL + path
	if len(params) > 0 {
		fullURL += "?" + params.Encode()
	}
	if accept == "" {
		accept = acceptJSON
	}

	var (
		state       = stateAttempting
		iterations  int
		serverTries int
		lastStatus  int
		body        []byte
	)

	for {
		switch state {
		case stateAttempting:
			iterations++
			if iterations > c.maxIterations {
				state = stateExhausted
				continue
			}

			req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
			if err != nil {
				return fmt.Errorf("failed to create request: %w", err)
			}
			req.Header.Set("Accept", accept)
			req.Header.Set("User-Agent", userAgent)

			resp, err := c.client.Do(req)
			if err != nil {
				return NewAPIError(0, "request failed", err)
			}

			c.updateRateLimitInfo(resp)

			b, readErr := io.ReadAll(resp.Body)
			resp.Body.Close()
			if readErr != nil {
				return NewAPIError(resp.StatusCode, "failed to read response body", readErr)
			}
			lastStatus = resp.StatusCode

			switch {
			case resp.StatusCode == http.StatusOK:
				body = b
				state = stateSucceeded
			case resp.StatusCode == http.StatusForbidden && c.rateLimitInfo.Remaining == 0:
				state = stateWaitingOnQuota
			case resp.StatusCode == http.StatusBadGateway || resp.StatusCode == http.StatusServiceUnavailable:
				serverTries++
				if serverTries > c.maxServerRetries {
					return NewAPIError(resp.StatusCode, string(b), nil)
				}
				state = stateWaitingOnServerError
			default:
				return NewAPIError(resp.StatusCode, string(b), nil)
			}

		case stateWaitingOnQuota:
			wait := c.rateLimitInfo.ResetTime.Sub(c.now()) + c.quotaResetBuffer
			if wait < c.quotaResetBuffer {
				wait = c.quotaResetBuffer
			}
			c.logger.Warnf("API quota exhausted, waiting %v for reset", wait)
			c.sleep(wait)
			state = stateAttempting

		case stateWaitingOnServerError:
			wait := c.initialBackoff << uint(serverTries-1)
			if wait > c.maxBackoff {
				wait = c.maxBackoff
			}
			c.logger.Warnf("Upstream returned %d, retrying in %v (attempt %d/%d)",
				lastStatus, wait, serverTries, c.maxServerRetries)
			c.sleep(wait)
			state = stateAttempting

		case stateExhausted:
			return &ExhaustedRetriesError{Attempts: c.maxIterations, LastStatus: lastStatus}

		case stateSucceeded:
			if result != nil {
				if err := json.Unmarshal(body, result); err != nil {
					return NewAPIError(lastStatus, "failed to decode response", err)
				}
			}
			return nil
		}
	}
}
