package profile

// TimeHorizon buckets the time score
type TimeHorizon string

const (
	TimeShort  TimeHorizon = "short"
	TimeMedium TimeHorizon = "medium"
	TimeLong   TimeHorizon = "long"
)

// SocialImpact buckets the social score
type SocialImpact string

const (
	SocialLow    SocialImpact = "low"
	SocialMedium SocialImpact = "medium"
	SocialHigh   SocialImpact = "high"
)

// InvestorType is the headline classification
type InvestorType string

const (
	CautiousPreserver    InvestorType = "Cautious Preserver"
	AdventureSeeker      InvestorType = "Adventure Seeker"
	DataDrivenStrategist InvestorType = "Data-Driven Strategist"
	EmotionalExplorer    InvestorType = "Emotional Explorer"
	BalancedLearner      InvestorType = "Balanced Learner"
)

// Profile is the classified questionnaire result
type Profile struct {
	Scores       Scores       `json:"scores"`
	TimeHorizon  TimeHorizon  `json:"time_horizon"`
	SocialImpact SocialImpact `json:"social_impact"`
	InvestorType InvestorType `json:"investor_type"`
}

// Classify derives the profile from score totals
func Classify(scores Scores) Profile {
	rs := scores[ScoreRisk]
	es := scores[ScoreEmotional]
	ras := scores[ScoreRational]
	fs := scores[ScoreFomo]
	si := scores[ScoreSocial]
	ts := scores[ScoreTime]

	p := Profile{Scores: scores}

	switch {
	case ts <= 0:
		p.TimeHorizon = TimeShort
	case ts <= 3:
		p.TimeHorizon = TimeMedium
	default:
		p.TimeHorizon = TimeLong
	}

	switch {
	case si <= 1:
		p.SocialImpact = SocialLow
	case si <= 3:
		p.SocialImpact = SocialMedium
	default:
		p.SocialImpact = SocialHigh
	}

	switch {
	case rs < 0:
		p.InvestorType = CautiousPreserver
	case rs > 5:
		p.InvestorType = AdventureSeeker
	default:
		strategist := ras + boolInt(ts >= 5)
		explorer := es + fs + boolInt(ts < 5)
		balanced := si

		switch {
		case strategist >= explorer && strategist >= balanced:
			p.InvestorType = DataDrivenStrategist
		case explorer >= strategist && explorer >= balanced:
			p.InvestorType = EmotionalExplorer
		default:
			p.InvestorType = BalancedLearner
		}
	}

	return p
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
