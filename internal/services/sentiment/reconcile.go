package sentiment

const (
	// laplaceAlpha is the pseudo-count added to each class
	laplaceAlpha = 2.0
	// laplaceClasses is the number of classes (positive, negative)
	laplaceClasses = 2.0
	// smoothingThreshold is the crowd volume below which smoothing applies
	smoothingThreshold = 10.0
	// neutralPrior replaces a missing baseline percentage
	neutralPrior = 0.5
)

// Reconciled is a normalized up/down split on the 0-1 scale
type Reconciled struct {
	Up   float64
	Down float64
}

// Reconcile blends crowd vote counts with the external baseline. Baselines are
// on the 0-100 scale; zero means missing and becomes 0.5. Below ten votes the
// crowd proportion is Laplace smoothed before the blend; with no votes the
// baseline is returned as is.
func Reconcile(positive, negative, upPct, downPct float64) Reconciled {
	baseUp := baselineFraction(upPct)
	baseDown := baselineFraction(downPct)

	total := positive + negative

	switch {
	case total > 0 && total < smoothingThreshold:
		denom := total + laplaceClasses*laplaceAlpha
		return Reconciled{
			Up:   (baseUp + (positive+laplaceAlpha)/denom) / 2,
			Down: (baseDown + (negative+laplaceAlpha)/denom) / 2,
		}
	case total > 0:
		return Reconciled{
			Up:   (baseUp + positive/total) / 2,
			Down: (baseDown + negative/total) / 2,
		}
	default:
		return Reconciled{Up: baseUp, Down: baseDown}
	}
}

func baselineFraction(pct float64) float64 {
	if pct == 0 {
		return neutralPrior
	}
	return pct / 100
}
