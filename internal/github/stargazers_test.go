package github

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stargazerPage(start, count int) []map[string]interface{} {
	page := make([]map[string]interface{}, 0, count)
	for i := 0; i < count; i++ {
		page = append(page, map[string]interface{}{
			"starred_at": time.Date(2025, 6, 1, 10, 0, start+i, 0, time.UTC).Format(time.RFC3339),
			"user":       map[string]string{"login": fmt.Sprintf("stargazer%d", start+i)},
		})
	}
	return page
}

func TestCollectStargazers(t *testing.T) {
	t.Run("pages until the listing is exhausted", func(t *testing.T) {
		var accepts []string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			accepts = append(accepts, r.Header.Get("Accept"))
			assert.Equal(t, "/repos/acme/widgets/stargazers", r.URL.Path)
			assert.Equal(t, "100", r.URL.Query().Get("per_page"))

			switch r.URL.Query().Get("page") {
			case "1":
				json.NewEncoder(w).Encode(stargazerPage(0, 100))
			case "2":
				json.NewEncoder(w).Encode(stargazerPage(100, 3))
			default:
				fmt.Fprint(w, `[]`)
			}
		}))
		defer server.Close()

		clock := &fakeClock{current: time.Unix(1750000000, 0)}
		client := newTestClient(server.URL, clock)

		records, degraded := client.CollectStargazers(context.Background(), "acme", "widgets", 5000)
		assert.False(t, degraded)
		require.Len(t, records, 103)
		assert.Equal(t, "stargazer0", records[0].Username)
		assert.Equal(t, "stargazer102", records[102].Username)
		assert.False(t, records[0].StarredAt.IsZero())

		// The starred_at timestamp requires the extended representation.
		for _, accept := range accepts {
			assert.Equal(t, acceptStarJSON, accept)
		}
	})

	t.Run("stops at the record cap mid page", func(t *testing.T) {
		var requests int
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requests++
			json.NewEncoder(w).Encode(stargazerPage((requests-1)*100, 100))
		}))
		defer server.Close()

		clock := &fakeClock{current: time.Unix(1750000000, 0)}
		client := newTestClient(server.URL, clock)

		records, degraded := client.CollectStargazers(context.Background(), "acme", "widgets", 150)
		assert.False(t, degraded)
		assert.Len(t, records, 150)
		assert.Equal(t, 2, requests)
	})

	t.Run("drops records missing a login or timestamp", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Query().Get("page") != "1" {
				fmt.Fprint(w, `[]`)
				return
			}
			fmt.Fprint(w, `[
				{"starred_at": "2025-06-01T10:00:00Z", "user": {"login": "keeper"}},
				{"starred_at": "2025-06-01T10:00:01Z", "user": {"login": ""}},
				{"user": {"login": "no-timestamp"}}
			]`)
		}))
		defer server.Close()

		clock := &fakeClock{current: time.Unix(1750000000, 0)}
		client := newTestClient(server.URL, clock)

		records, degraded := client.CollectStargazers(context.Background(), "acme", "widgets", 5000)
		assert.False(t, degraded)
		require.Len(t, records, 1)
		assert.Equal(t, "keeper", records[0].Username)
	})

	t.Run("returns the partial sample when a page fails", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Query().Get("page") == "1" {
				json.NewEncoder(w).Encode(stargazerPage(0, 100))
				return
			}
			http.Error(w, `{"message":"boom"}`, http.StatusInternalServerError)
		}))
		defer server.Close()

		clock := &fakeClock{current: time.Unix(1750000000, 0)}
		client := newTestClient(server.URL, clock)

		records, degraded := client.CollectStargazers(context.Background(), "acme", "widgets", 5000)
		assert.True(t, degraded)
		assert.Len(t, records, 100)
	})
}
