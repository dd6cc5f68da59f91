package sentiment

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cryptopulse/internal/domain/sentiment"
)

func ptr(v float64) *float64 { return &v }

func TestRedditPoints(t *testing.T) {
	points := RedditPoints([]sentiment.RedditRecord{
		{Symbol: "BTC", Text: "title\nbody", Confidence: 1},
		{Symbol: "ETH", Text: "side comment", Confidence: 0.5},
		{Symbol: "ETH", Text: "   "},
	})

	require.Len(t, points, 2)
	assert.Equal(t, 0.5, points[1].Confidence)
	assert.Equal(t, sentiment.SourceReddit, points[0].Source)
}

func TestYouTubePoints_MeanConfidence(t *testing.T) {
	points := YouTubePoints([]sentiment.YouTubeMention{
		{Text: "solana is fast", YouTubeCommentAnalysis: sentiment.YouTubeCommentAnalysis{
			Symbol: "SOL", ConfidenceScore: ptr(0.9), RelevanceScore: ptr(0.6), QualityScore: ptr(0.3),
		}},
		{Text: "new mention", YouTubeCommentAnalysis: sentiment.YouTubeCommentAnalysis{
			Symbol: "SOL", ConfidenceScore: ptr(0), RelevanceScore: ptr(0.9), QualityScore: nil,
		}},
	})

	require.Len(t, points, 2)
	assert.InDelta(t, 0.6, points[0].Confidence, 1e-9)
	assert.InDelta(t, 0.3, points[1].Confidence, 1e-9)
	assert.Equal(t, sentiment.SourceYouTube, points[0].Source)
}

func TestNewsPoints(t *testing.T) {
	points := NewsPoints([]sentiment.NewsArticle{
		{Symbol: "BTC", Title: "ETF approved", Description: "Markets rally"},
		{Symbol: "ETH", Title: "Upgrade ships"},
		{Symbol: "ETH"},
	})

	require.Len(t, points, 2)
	assert.Equal(t, "ETF approved Markets rally", points[0].Text)
	assert.Equal(t, "Upgrade ships", points[1].Text)
	assert.Equal(t, 1.0, points[0].Confidence)
}
