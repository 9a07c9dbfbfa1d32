package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQualityFromHeight(t *testing.T) {
	tests := []struct {
		name     string
		height   int
		expected QualityOption
	}{
		{"8K downmaps to 4K tier", 4320, Quality4K},
		{"Exact UHD boundary", 2160, Quality4K},
		{"Just below UHD", 2159, Quality1080p},
		{"Exact FHD boundary", 1080, Quality1080p},
		{"Just below FHD", 1079, Quality720p},
		{"Exact HD boundary", 720, Quality720p},
		{"Just below HD", 719, Quality480p},
		{"SD", 480, Quality480p},
		{"Tiny variant", 144, Quality480p},
		{"Zero height", 0, Quality480p},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, QualityFromHeight(tt.height))
		})
	}
}

func TestQualityLadderAscending(t *testing.T) {
	ladder := QualityLadder()
	require.Len(t, ladder, 4)

	for i := 1; i < len(ladder); i++ {
		assert.Greater(t, ladder[i].Height, ladder[i-1].Height)
		assert.Greater(t, ladder[i].VideoBitrate, ladder[i-1].VideoBitrate)
	}
}

func TestGetQualityProfile(t *testing.T) {
	profile := GetQualityProfile("1080p")
	require.NotNil(t, profile)
	assert.Equal(t, Quality1080p, profile.Quality)
	assert.Equal(t, 1920, profile.Width)

	// 2160p is an accepted alias for the 4K tier.
	alias := GetQualityProfile("2160p")
	require.NotNil(t, alias)
	assert.Equal(t, Quality4K, alias.Quality)

	assert.Nil(t, GetQualityProfile("360p"))
}

func TestProfileHeightsRoundTrip(t *testing.T) {
	for _, profile := range QualityLadder() {
		assert.Equal(t, profile.Quality, QualityFromHeight(profile.Height))
	}
}
