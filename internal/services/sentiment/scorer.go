package sentiment

import (
	"github.com/jonreiter/govader"
)

// Polarity is a lexicon score for one text. Positive, Neutral and Negative
// are proportions summing to ~1; Compound is in [-1, 1].
type Polarity struct {
	Positive float64
	Neutral  float64
	Negative float64
	Compound float64
}

// Scorer turns free text into a polarity. Implementations must be deterministic.
type Scorer interface {
	Score(text string) Polarity
}

// VaderScorer scores text with the VADER lexicon
type VaderScorer struct {
	analyzer *govader.SentimentIntensityAnalyzer
}

// NewVaderScorer loads the VADER lexicon
func NewVaderScorer() *VaderScorer {
	return &VaderScorer{analyzer: govader.NewSentimentIntensityAnalyzer()}
}

// Score implements Scorer
func (s *VaderScorer) Score(text string) Polarity {
	scores := s.analyzer.PolarityScores(text)
	return Polarity{
		Positive: scores.Positive,
		Neutral:  scores.Neutral,
		Negative: scores.Negative,
		Compound: scores.Compound,
	}
}

// ScorerFunc adapts a function to Scorer
type ScorerFunc func(text string) Polarity

// Score implements Scorer
func (f ScorerFunc) Score(text string) Polarity {
	return f(text)
}
