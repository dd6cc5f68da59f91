package profile

import (
	"slices"

	"cryptopulse/pkg/errors"
	"cryptopulse/pkg/logger"
)

// Service evaluates questionnaire answers
type Service struct {
	scoring ScoringMap
	log     *logger.Logger
}

// NewService creates a new profile service
func NewService(scoring ScoringMap, log *logger.Logger) *Service {
	return &Service{
		scoring: scoring,
		log:     log.With("service", "profile"),
	}
}

// Evaluate scores and classifies one set of answers keyed by category name.
// Unknown category keys are rejected; unknown answers score zero.
func (s *Service) Evaluate(answers map[string]string) (Profile, error) {
	byCategory := make(map[Category]string, len(answers))
	for key, answer := range answers {
		category := Category(key)
		if !slices.Contains(Categories, category) {
			invalid := errors.NewValidationError("category", "unknown survey category", key)
			invalid.Err = errors.ErrUnknownCategory
			return Profile{}, invalid
		}
		if _, ok := s.scoring[category][answer]; !ok {
			s.log.Debugw("Unrecognized survey answer", "category", key, "answer", answer)
		}
		byCategory[category] = answer
	}

	p := Classify(s.scoring.Calculate(byCategory))
	s.log.Infow("Investor profile evaluated",
		"investor_type", p.InvestorType,
		"time_horizon", p.TimeHorizon,
		"social_impact", p.SocialImpact,
	)
	return p, nil
}
