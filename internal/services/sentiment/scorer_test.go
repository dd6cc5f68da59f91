package sentiment

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVaderScorer(t *testing.T) {
	s := NewVaderScorer()

	good := s.Score("Bitcoin is doing great, I love this rally!")
	bad := s.Score("This crash is terrible and I hate losing money")
	flat := s.Score("The report was published on Tuesday")

	assert.Greater(t, good.Compound, 0.05)
	assert.Less(t, bad.Compound, -0.05)
	assert.InDelta(t, 0.0, flat.Compound, 1e-9)
	assert.InDelta(t, 1.0, flat.Neutral, 1e-9)

	for _, p := range []Polarity{good, bad, flat} {
		assert.InDelta(t, 1.0, p.Positive+p.Neutral+p.Negative, 0.01)
		assert.GreaterOrEqual(t, p.Compound, -1.0)
		assert.LessOrEqual(t, p.Compound, 1.0)
	}
}

func TestVaderScorer_Deterministic(t *testing.T) {
	s := NewVaderScorer()
	text := "ETH gas fees are annoying but the upgrade looks promising"
	assert.Equal(t, s.Score(text), s.Score(text))
}
