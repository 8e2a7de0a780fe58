package github

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/walidcherhane/star-buster-api/internal/config"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

// fakeClock records every sleep without actually waiting.
type fakeClock struct {
	current time.Time
	slept   []time.Duration
}

func (f *fakeClock) now() time.Time { return f.current }

func (f *fakeClock) sleep(d time.Duration) {
	f.slept = append(f.slept, d)
	f.current = f.current.Add(d)
}

func newTestClient(serverURL string, clock *fakeClock) *Client {
	return NewClient("", testLogger(),
		WithBaseURL(serverURL),
		WithRetryConfig(config.RateLimitConfig{
			MaxServerRetries: 3,
			MaxIterations:    5,
			InitialBackoff:   time.Second,
			MaxBackoff:       30 * time.Second,
			QuotaResetBuffer: time.Second,
		}),
		WithClock(clock.now, clock.sleep),
	)
}

func TestFetch_DecodesResponseAndTracksQuota(t *testing.T) {
	var gotAccept, gotAgent string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAccept = r.Header.Get("Accept")
		gotAgent = r.Header.Get("User-Agent")
		w.Header().Set("X-RateLimit-Limit", "5000")
		w.Header().Set("X-RateLimit-Remaining", "4999")
		w.Header().Set("X-RateLimit-Reset", "1750000000")
		fmt.Fprint(w, `{"login":"octocat"}`)
	}))
	defer server.Close()

	clock := &fakeClock{current: time.Unix(1749999000, 0)}
	client := newTestClient(server.URL, clock)

	var out struct {
		Login string `json:"login"`
	}
	err := client.fetch(context.Background(), "/users/octocat", nil, "", &out)
	require.NoError(t, err)

	assert.Equal(t, "octocat", out.Login)
	assert.Equal(t, acceptJSON, gotAccept)
	assert.Equal(t, userAgent, gotAgent)

	info := client.RateLimit()
	assert.Equal(t, 5000, info.Limit)
	assert.Equal(t, 4999, info.Remaining)
	assert.Equal(t, time.Unix(1750000000, 0), info.ResetTime)
	assert.Empty(t, clock.slept)
}

func TestFetch_WaitsOutQuotaReset(t *testing.T) {
	now := time.Unix(1750000000, 0)
	reset := now.Add(30 * time.Second)

	var requests int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		if requests == 1 {
			w.Header().Set("X-RateLimit-Remaining", "0")
			w.Header().Set("X-RateLimit-Reset", fmt.Sprint(reset.Unix()))
			w.WriteHeader(http.StatusForbidden)
			return
		}
		w.Header().Set("X-RateLimit-Remaining", "4999")
		fmt.Fprint(w, `{}`)
	}))
	defer server.Close()

	clock := &fakeClock{current: now}
	client := newTestClient(server.URL, clock)

	err := client.fetch(context.Background(), "/rate_limited", nil, "", nil)
	require.NoError(t, err)

	assert.Equal(t, 2, requests)
	// Waits until the advertised reset plus a one second buffer.
	require.Len(t, clock.slept, 1)
	assert.Equal(t, 31*time.Second, clock.slept[0])
}

func TestFetch_QuotaWaitDoesNotConsumeServerBudget(t *testing.T) {
	now := time.Unix(1750000000, 0)

	var requests int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		switch requests {
		case 1:
			w.WriteHeader(http.StatusBadGateway)
		case 2:
			w.Header().Set("X-RateLimit-Remaining", "0")
			w.Header().Set("X-RateLimit-Reset", fmt.Sprint(now.Add(5*time.Second).Unix()))
			w.WriteHeader(http.StatusForbidden)
		case 3:
			w.WriteHeader(http.StatusBadGateway)
		default:
			w.Header().Set("X-RateLimit-Remaining", "10")
			fmt.Fprint(w, `{}`)
		}
	}))
	defer server.Close()

	clock := &fakeClock{current: now}
	client := newTestClient(server.URL, clock)

	err := client.fetch(context.Background(), "/mixed", nil, "", nil)
	require.NoError(t, err)

	assert.Equal(t, 4, requests)
	// Second server error still backs off as attempt two, the quota
	// wait in between did not reset or advance the server-error count.
	require.Len(t, clock.slept, 3)
	assert.Equal(t, time.Second, clock.slept[0])
	assert.Equal(t, 2*time.Second, clock.slept[2])
}

func TestFetch_ServerErrorBackoff(t *testing.T) {
	var requests int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		if requests <= 2 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		fmt.Fprint(w, `{}`)
	}))
	defer server.Close()

	clock := &fakeClock{current: time.Unix(1750000000, 0)}
	client := newTestClient(server.URL, clock)

	err := client.fetch(context.Background(), "/flaky", nil, "", nil)
	require.NoError(t, err)

	assert.Equal(t, 3, requests)
	assert.Equal(t, []time.Duration{time.Second, 2 * time.Second}, clock.slept)
}

func TestFetch_ServerErrorBudgetExhausted(t *testing.T) {
	var requests int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	clock := &fakeClock{current: time.Unix(1750000000, 0)}
	client := newTestClient(server.URL, clock)

	err := client.fetch(context.Background(), "/down", nil, "", nil)
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadGateway, apiErr.StatusCode)

	// Three retries after the first failure, then the fourth 502
	// surfaces.
	assert.Equal(t, 4, requests)
	assert.Equal(t, []time.Duration{time.Second, 2 * time.Second, 4 * time.Second}, clock.slept)
}

func TestFetch_IterationCeiling(t *testing.T) {
	now := time.Unix(1750000000, 0)

	var requests int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		w.Header().Set("X-RateLimit-Remaining", "0")
		w.Header().Set("X-RateLimit-Reset", fmt.Sprint(now.Add(time.Second).Unix()))
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	clock := &fakeClock{current: now}
	client := newTestClient(server.URL, clock)

	err := client.fetch(context.Background(), "/stuck", nil, "", nil)
	require.Error(t, err)

	var exhausted *ExhaustedRetriesError
	require.ErrorAs(t, err, &exhausted)
	assert.Equal(t, 5, exhausted.Attempts)
	assert.Equal(t, http.StatusForbidden, exhausted.LastStatus)
	assert.True(t, IsExhaustedRetriesError(err))
	assert.Equal(t, 5, requests)
}

func TestFetch_SurfacesUnexpectedStatusImmediately(t *testing.T) {
	var requests int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		http.Error(w, `{"message":"Not Found"}`, http.StatusNotFound)
	}))
	defer server.Close()

	clock := &fakeClock{current: time.Unix(1750000000, 0)}
	client := newTestClient(server.URL, clock)

	err := client.fetch(context.Background(), "/missing", nil, "", nil)
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
	assert.Equal(t, 1, requests)
	assert.Empty(t, clock.slept)
}

func TestGetRepository(t *testing.T) {
	t.Run("maps the response", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/repos/golang/go", r.URL.Path)
			fmt.Fprint(w, `{
				"name": "go",
				"owner": {"login": "golang"},
				"description": "The Go programming language",
				"language": "Go",
				"stargazers_count": 120000,
				"forks_count": 17000,
				"open_issues_count": 9000,
				"watchers_count": 120000,
				"created_at": "2014-08-19T04:33:40Z"
			}`)
		}))
		defer server.Close()

		clock := &fakeClock{current: time.Unix(1750000000, 0)}
		client := newTestClient(server.URL, clock)

		repo, err := client.GetRepository(context.Background(), "golang", "go")
		require.NoError(t, err)
		assert.Equal(t, "golang", repo.Owner)
		assert.Equal(t, "go", repo.Name)
		assert.Equal(t, "Go", repo.Language)
		assert.Equal(t, 120000, repo.StarsCount)
		assert.Equal(t, 17000, repo.ForksCount)
		assert.Equal(t, "golang/go", repo.FullName())
	})

	t.Run("missing repository", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, `{"message":"Not Found"}`, http.StatusNotFound)
		}))
		defer server.Close()

		clock := &fakeClock{current: time.Unix(1750000000, 0)}
		client := newTestClient(server.URL, clock)

		_, err := client.GetRepository(context.Background(), "nobody", "nothing")
		require.Error(t, err)
		assert.True(t, IsNotFoundError(err))

		var nf *RepositoryNotFoundError
		require.ErrorAs(t, err, &nf)
		assert.Equal(t, "nobody", nf.Owner)
		assert.Equal(t, "nothing", nf.Name)
	})

	t.Run("empty owner rejected", func(t *testing.T) {
		clock := &fakeClock{current: time.Unix(1750000000, 0)}
		client := newTestClient("http://unused", clock)

		_, err := client.GetRepository(context.Background(), "", "repo")
		require.Error(t, err)

		var v *ValidationError
		assert.ErrorAs(t, err, &v)
	})
}
