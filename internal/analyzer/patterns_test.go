package analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsGenericUsername(t *testing.T) {
	tests := []struct {
		username string
		generic  bool
	}{
		{"user123", true},
		{"USER123", true},
		{"dev42", true},
		{"devops9", true},
		{"mybot", true},
		{"spambot77", true},
		{"john2024", true},
		{"abcdef123456", true},
		{"test1", true},
		{"demoaccount", true},
		{"sample", true},
		{"randomname", false},
		{"alice", false},
		{"temp42", false},
		{"jane-doe", false},
		{"abc99", false},
	}

	for _, tt := range tests {
		t.Run(tt.username, func(t *testing.T) {
			assert.Equal(t, tt.generic, IsGenericUsername(tt.username))
		})
	}
}

func TestIsBotLikeName(t *testing.T) {
	tests := []struct {
		username string
		botLike  bool
	}{
		{"user123", true},
		{"temp42", true},
		{"fakeaccount1", true},
		{"ab1234", true},
		{"mygithubacct", true},
		{"starlover", true},
		{"randomname", false},
		{"alice", false},
		{"jane-doe", false},
	}

	for _, tt := range tests {
		t.Run(tt.username, func(t *testing.T) {
			assert.Equal(t, tt.botLike, IsBotLikeName(tt.username))
		})
	}
}

// Every generic username must also be bot-like: the bot-like pattern
// set is a strict superset of the generic one.
func TestGenericIsSubsetOfBotLike(t *testing.T) {
	samples := []string{
		"user123", "dev42", "spambot77", "john2024", "abcdef123456",
		"test1", "demoaccount", "sample", "randomname", "temp42",
		"alice", "mariasmith", "USER9", "x1234",
	}

	for _, username := range samples {
		if IsGenericUsername(username) {
			assert.True(t, IsBotLikeName(username),
				"generic username %q must also be bot-like", username)
		}
	}
}
