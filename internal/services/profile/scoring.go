// Package profile scores the investor questionnaire.
package profile

import (
	_ "embed"
	"slices"

	"gopkg.in/yaml.v3"

	"cryptopulse/pkg/errors"
)

//go:embed score_map.yaml
var defaultScoreMap []byte

// ScoreType is one dimension of the investor profile
type ScoreType string

const (
	ScoreRisk      ScoreType = "risk_score"
	ScoreEmotional ScoreType = "emotional_score"
	ScoreRational  ScoreType = "rational_score"
	ScoreTime      ScoreType = "time_score"
	ScoreSocial    ScoreType = "social_impact"
	ScoreFomo      ScoreType = "fomo_score"
)

// ScoreTypes lists every score dimension
var ScoreTypes = []ScoreType{ScoreRisk, ScoreEmotional, ScoreRational, ScoreTime, ScoreSocial, ScoreFomo}

// Category is one survey question
type Category string

const (
	StressResponse            Category = "stress_response"
	EmotionalReaction         Category = "emotional_reaction"
	RiskPerception            Category = "risk_perception"
	IncomeVsInvestmentBalance Category = "income_vs_investment_balance"
	DebtSituation             Category = "debt_situation"
	InvestmentExperience      Category = "investment_experience"
	InvestmentMotivation      Category = "investment_motivation"
	KnowledgeLevel            Category = "knowledge_level"
	InvestmentPersonality     Category = "investment_personality"
)

// Categories lists the survey questions in the order they are asked
var Categories = []Category{
	StressResponse,
	EmotionalReaction,
	RiskPerception,
	IncomeVsInvestmentBalance,
	DebtSituation,
	InvestmentExperience,
	InvestmentMotivation,
	KnowledgeLevel,
	InvestmentPersonality,
}

// ScoringMap maps category -> answer text -> score deltas. Immutable after load.
type ScoringMap map[Category]map[string]map[ScoreType]int

// LoadScoringMap parses a YAML scoring map. Unknown categories or score types
// are rejected.
func LoadScoringMap(data []byte) (ScoringMap, error) {
	var raw map[string]map[string]map[string]int
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, errors.Wrap(err, "parse scoring map")
	}

	m := make(ScoringMap, len(raw))
	for categoryKey, answers := range raw {
		category := Category(categoryKey)
		if !slices.Contains(Categories, category) {
			return nil, errors.Wrapf(errors.ErrUnknownCategory, "survey category %q", categoryKey)
		}

		options := make(map[string]map[ScoreType]int, len(answers))
		for answer, deltas := range answers {
			scores := make(map[ScoreType]int, len(deltas))
			for key, points := range deltas {
				st := ScoreType(key)
				if !slices.Contains(ScoreTypes, st) {
					return nil, errors.Wrapf(errors.ErrUnknownCategory, "score type %q in %s", key, categoryKey)
				}
				scores[st] = points
			}
			options[answer] = scores
		}
		m[category] = options
	}

	return m, nil
}

// DefaultScoringMap loads the built-in scoring map
func DefaultScoringMap() (ScoringMap, error) {
	return LoadScoringMap(defaultScoreMap)
}

// Scores holds the per-dimension totals
type Scores map[ScoreType]int

// Calculate sums the deltas of the chosen answers. Missing or unknown answers
// contribute nothing.
func (m ScoringMap) Calculate(answers map[Category]string) Scores {
	totals := make(Scores, len(ScoreTypes))
	for _, st := range ScoreTypes {
		totals[st] = 0
	}

	for _, category := range Categories {
		for st, points := range m[category][answers[category]] {
			totals[st] += points
		}
	}
	return totals
}
