package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStoredAnalysisSatisfies(t *testing.T) {
	deepCached := &StoredAnalysis{Deep: true, MaxStars: 5000, MaxUsers: 200}
	basicCached := &StoredAnalysis{Deep: false, MaxStars: 5000}

	tests := []struct {
		name      string
		cached    *StoredAnalysis
		opts      AnalysisOptions
		satisfies bool
	}{
		{"deep covers deep", deepCached, AnalysisOptions{Deep: true, MaxStars: 1000, MaxUsers: 100}, true},
		{"deep covers basic", deepCached, AnalysisOptions{Deep: false, MaxStars: 1000}, true},
		{"basic cannot cover deep", basicCached, AnalysisOptions{Deep: true, MaxStars: 1000, MaxUsers: 100}, false},
		{"basic covers basic", basicCached, AnalysisOptions{Deep: false, MaxStars: 1000}, true},
		{"smaller star sample rejected", deepCached, AnalysisOptions{Deep: true, MaxStars: 10000, MaxUsers: 100}, false},
		{"smaller user sample rejected", deepCached, AnalysisOptions{Deep: true, MaxStars: 1000, MaxUsers: 500}, false},
		{"user cap ignored for basic requests", &StoredAnalysis{Deep: true, MaxStars: 5000, MaxUsers: 10},
			AnalysisOptions{Deep: false, MaxStars: 1000, MaxUsers: 500}, true},
		{"equal bounds satisfy", deepCached, DefaultAnalysisOptions(), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.satisfies, tt.cached.Satisfies(tt.opts))
		})
	}
}
