package sentiment

import (
	"strings"

	"cryptopulse/internal/domain/sentiment"
)

// newsConfidence is the fixed trust given to news articles
const newsConfidence = 1.0

// RedditPoints adapts stored Reddit records using their stored confidence
func RedditPoints(records []sentiment.RedditRecord) []sentiment.SocialDataPoint {
	points := make([]sentiment.SocialDataPoint, 0, len(records))
	for _, r := range records {
		if strings.TrimSpace(r.Text) == "" {
			continue
		}
		points = append(points, sentiment.SocialDataPoint{
			Symbol:     r.Symbol,
			Text:       r.Text,
			Confidence: r.Confidence,
			Source:     sentiment.SourceReddit,
		})
	}
	return points
}

// YouTubePoints adapts comment/analysis joins; confidence is the mean of the
// three analysis scores
func YouTubePoints(mentions []sentiment.YouTubeMention) []sentiment.SocialDataPoint {
	points := make([]sentiment.SocialDataPoint, 0, len(mentions))
	for _, m := range mentions {
		if strings.TrimSpace(m.Text) == "" {
			continue
		}
		points = append(points, sentiment.SocialDataPoint{
			Symbol:     m.Symbol,
			Text:       m.Text,
			Confidence: m.Confidence(),
			Source:     sentiment.SourceYouTube,
		})
	}
	return points
}

// NewsPoints adapts news articles at full confidence
func NewsPoints(articles []sentiment.NewsArticle) []sentiment.SocialDataPoint {
	points := make([]sentiment.SocialDataPoint, 0, len(articles))
	for _, a := range articles {
		text := a.Text()
		if strings.TrimSpace(text) == "" {
			continue
		}
		points = append(points, sentiment.SocialDataPoint{
			Symbol:     a.Symbol,
			Text:       text,
			Confidence: newsConfidence,
			Source:     sentiment.SourceNews,
		})
	}
	return points
}
