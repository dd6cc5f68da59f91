package sentiment

import (
	"maps"
	"slices"

	"cryptopulse/internal/domain/sentiment"
)

// Compound scores inside (-NeutralBand, NeutralBand) count as neutral
const NeutralBand = 0.05

// Accumulator holds the running totals for one asset during a run
type Accumulator struct {
	Symbol string

	// baseline percentages, copied verbatim (0-100 scale)
	UpPercentage   float64
	DownPercentage float64
	HasBaseline    bool

	AvgPositive float64
	AvgNeutral  float64
	AvgNegative float64
	AvgCompound float64

	// confidence-weighted counts bucketed by compound sign
	PositiveCount float64
	NegativeCount float64
	NeutralCount  float64

	TotalWeight float64
	finalized   bool
}

// Add folds one scored point into the accumulator
func (a *Accumulator) Add(p Polarity, confidence float64) {
	a.AvgPositive += p.Positive * confidence
	a.AvgNeutral += p.Neutral * confidence
	a.AvgNegative += p.Negative * confidence
	a.AvgCompound += p.Compound * confidence
	a.TotalWeight += confidence

	switch {
	case p.Compound >= NeutralBand:
		a.PositiveCount += confidence
	case p.Compound <= -NeutralBand:
		a.NegativeCount += confidence
	default:
		a.NeutralCount += confidence
	}
}

// Finalize turns weighted sums into weighted averages. Zero-weight
// accumulators keep zero averages. Calling it twice is a no-op.
func (a *Accumulator) Finalize() {
	if a.finalized {
		return
	}
	a.finalized = true

	if a.TotalWeight == 0 {
		return
	}
	a.AvgPositive /= a.TotalWeight
	a.AvgNeutral /= a.TotalWeight
	a.AvgNegative /= a.TotalWeight
	a.AvgCompound /= a.TotalWeight
}

// Aggregator folds scored social points into per-asset accumulators
type Aggregator struct {
	scorer Scorer
}

// NewAggregator creates an aggregator scoring text with scorer
func NewAggregator(scorer Scorer) *Aggregator {
	return &Aggregator{scorer: scorer}
}

// Aggregation is the result of one Accumulate call
type Aggregation struct {
	Accumulators map[string]*Accumulator
	Mentions     []Scored
}

// Scored is a social point with its polarity
type Scored struct {
	sentiment.SocialDataPoint
	Polarity Polarity
}

// Accumulate seeds one accumulator per baseline, folds every point into its
// symbol's accumulator (creating one when no baseline exists) and finalizes
// all of them.
func (g *Aggregator) Accumulate(baselines []sentiment.Baseline, points []sentiment.SocialDataPoint) Aggregation {
	accs := make(map[string]*Accumulator, len(baselines))
	for _, b := range baselines {
		accs[b.Symbol] = &Accumulator{
			Symbol:         b.Symbol,
			UpPercentage:   b.UpPercentage,
			DownPercentage: b.DownPercentage,
			HasBaseline:    true,
		}
	}

	scored := make([]Scored, 0, len(points))
	for _, p := range points {
		if p.Symbol == "" {
			continue
		}

		acc, ok := accs[p.Symbol]
		if !ok {
			acc = &Accumulator{Symbol: p.Symbol}
			accs[p.Symbol] = acc
		}

		polarity := g.scorer.Score(p.Text)
		acc.Add(polarity, p.Confidence)
		scored = append(scored, Scored{SocialDataPoint: p, Polarity: polarity})
	}

	for _, acc := range accs {
		acc.Finalize()
	}

	return Aggregation{Accumulators: accs, Mentions: scored}
}

// Symbols returns the aggregated symbols in sorted order
func (a Aggregation) Symbols() []string {
	return slices.Sorted(maps.Keys(a.Accumulators))
}
