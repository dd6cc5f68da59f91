package profile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cryptopulse/pkg/errors"
	"cryptopulse/pkg/logger"
)

func TestDefaultScoringMap_CoversEveryCategory(t *testing.T) {
	m, err := DefaultScoringMap()
	require.NoError(t, err)

	for _, c := range Categories {
		assert.NotEmpty(t, m[c], string(c))
	}
}

func TestLoadScoringMap_Rejects(t *testing.T) {
	_, err := LoadScoringMap([]byte("favourite_colour:\n  blue:\n    risk_score: 1\n"))
	assert.True(t, errors.Is(err, errors.ErrUnknownCategory))

	_, err = LoadScoringMap([]byte("stress_response:\n  calm:\n    luck_score: 1\n"))
	assert.True(t, errors.Is(err, errors.ErrUnknownCategory))

	_, err = LoadScoringMap([]byte("stress_response: [not, a, map]"))
	assert.Error(t, err)
}

func TestCalculate(t *testing.T) {
	m, err := LoadScoringMap([]byte(`
stress_response:
  calm:
    risk_score: 1
    rational_score: 2
risk_perception:
  opportunity:
    risk_score: 2
    fomo_score: 1
`))
	require.NoError(t, err)

	scores := m.Calculate(map[Category]string{
		StressResponse: "calm",
		RiskPerception: "opportunity",
		KnowledgeLevel: "not in map",
	})

	assert.Equal(t, 3, scores[ScoreRisk])
	assert.Equal(t, 2, scores[ScoreRational])
	assert.Equal(t, 1, scores[ScoreFomo])
	assert.Equal(t, 0, scores[ScoreTime])
	assert.Len(t, scores, len(ScoreTypes))
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		scores   Scores
		wantType InvestorType
		wantTime TimeHorizon
		wantSoc  SocialImpact
	}{
		{"negative risk", Scores{ScoreRisk: -1, ScoreTime: 0, ScoreSocial: 0}, CautiousPreserver, TimeShort, SocialLow},
		{"high risk", Scores{ScoreRisk: 6, ScoreTime: 4, ScoreSocial: 4}, AdventureSeeker, TimeLong, SocialHigh},
		{"strategist with long horizon", Scores{ScoreRisk: 2, ScoreRational: 3, ScoreEmotional: 2, ScoreFomo: 1, ScoreTime: 5}, DataDrivenStrategist, TimeLong, SocialLow},
		{"tie goes to strategist", Scores{ScoreRisk: 0, ScoreRational: 2, ScoreEmotional: 1, ScoreTime: 1}, DataDrivenStrategist, TimeMedium, SocialLow},
		{"explorer", Scores{ScoreRisk: 3, ScoreRational: 1, ScoreEmotional: 2, ScoreFomo: 1, ScoreTime: 2, ScoreSocial: 2}, EmotionalExplorer, TimeMedium, SocialMedium},
		{"balanced", Scores{ScoreRisk: 5, ScoreRational: 0, ScoreEmotional: 0, ScoreTime: 5, ScoreSocial: 3}, BalancedLearner, TimeLong, SocialMedium},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Classify(tt.scores)
			assert.Equal(t, tt.wantType, p.InvestorType)
			assert.Equal(t, tt.wantTime, p.TimeHorizon)
			assert.Equal(t, tt.wantSoc, p.SocialImpact)
		})
	}
}

func TestService_Evaluate(t *testing.T) {
	m, err := DefaultScoringMap()
	require.NoError(t, err)
	svc := NewService(m, logger.NewNop())

	p, err := svc.Evaluate(map[string]string{
		"stress_response":        "Fear of losing money",
		"risk_perception":        "Something I cannot afford to lose",
		"investment_personality": "Conservative: I avoid taking risks",
	})
	require.NoError(t, err)
	assert.Equal(t, CautiousPreserver, p.InvestorType)
	assert.Equal(t, -6, p.Scores[ScoreRisk])

	_, err = svc.Evaluate(map[string]string{"zodiac_sign": "leo"})
	assert.True(t, errors.Is(err, errors.ErrUnknownCategory))

	var invalid *errors.ValidationError
	require.True(t, errors.As(err, &invalid))
	assert.Equal(t, "category", invalid.Field)
	assert.Equal(t, "zodiac_sign", invalid.Value)
}
