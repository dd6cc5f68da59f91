// Package sentiment turns stored social records into one reconciled sentiment
// record per asset and aggregation window.
package sentiment

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"cryptopulse/internal/domain/sentiment"
	"cryptopulse/internal/metrics"
	"cryptopulse/pkg/errors"
	"cryptopulse/pkg/logger"
	"cryptopulse/pkg/trace"
)

const (
	DefaultLookback = 7 * 24 * time.Hour
	DefaultTopN     = 150
)

// BaselineSource provides the newest baseline per tracked asset
type BaselineSource interface {
	GetLatestBaselines(ctx context.Context, limit int) ([]sentiment.Baseline, error)
}

// SocialSource provides raw social records for the window
type SocialSource interface {
	GetRedditSince(ctx context.Context, since time.Time) ([]sentiment.RedditRecord, error)
	GetYouTubeMentionsSince(ctx context.Context, since time.Time) ([]sentiment.YouTubeMention, error)
	GetNewsSince(ctx context.Context, since time.Time) ([]sentiment.NewsArticle, error)
}

// NormalizedSink is the primary output; writes replace rows with the same (symbol, timestamp)
type NormalizedSink interface {
	UpsertNormalized(ctx context.Context, records []sentiment.NormalizedRecord) error
}

// HistorySink appends normalized records to the time series store
type HistorySink interface {
	InsertNormalized(ctx context.Context, records []sentiment.NormalizedRecord) error
}

// MentionSink buffers scored mentions for the time series store
type MentionSink interface {
	AddMany(ctx context.Context, mentions []sentiment.ScoredMention) error
}

// Publisher announces normalized records to downstream consumers
type Publisher interface {
	PublishNormalized(ctx context.Context, records []sentiment.NormalizedRecord) error
}

// Config tunes one aggregation run
type Config struct {
	Lookback time.Duration
	TopN     int
}

// Deps holds the collaborators of the service. History, Mentions and
// Publisher are optional.
type Deps struct {
	Baselines BaselineSource
	Social    SocialSource
	Output    NormalizedSink
	History   HistorySink
	Mentions  MentionSink
	Publisher Publisher
	Scorer    Scorer
}

// RunReport describes one aggregation run. Errors holds the failures that
// were skipped; the run still wrote whatever it could compute.
type RunReport struct {
	RunID       uuid.UUID
	WindowStart time.Time
	Timestamp   time.Time
	Points      map[sentiment.Source]int
	Records     []sentiment.NormalizedRecord
	CrowdOnly   []string // symbols reconciled against the neutral prior, no baseline
	Errors      *errors.MultiError
	Duration    time.Duration
}

// Partial reports whether some input or secondary sink failed
func (r *RunReport) Partial() bool {
	return r.Errors != nil && r.Errors.HasErrors()
}

// Service runs aggregation cycles
type Service struct {
	deps       Deps
	cfg        Config
	aggregator *Aggregator
	now        func() time.Time
	log        *logger.Logger
}

// NewService creates a new aggregation service
func NewService(deps Deps, cfg Config, log *logger.Logger) *Service {
	if cfg.Lookback <= 0 {
		cfg.Lookback = DefaultLookback
	}
	if cfg.TopN <= 0 {
		cfg.TopN = DefaultTopN
	}
	if deps.Scorer == nil {
		deps.Scorer = NewVaderScorer()
	}
	if log == nil {
		log = logger.Get()
	}

	return &Service{
		deps:       deps,
		cfg:        cfg,
		aggregator: NewAggregator(deps.Scorer),
		now:        time.Now,
		log:        log.With("service", "sentiment_aggregation"),
	}
}

// RunAggregation runs one aggregation cycle over the lookback window.
// Source failures are recorded in the report and skipped; only a failure of
// the primary output sink is returned as an error.
func (s *Service) RunAggregation(ctx context.Context) (*RunReport, error) {
	start := s.now()
	now := start.UTC()

	report := &RunReport{
		RunID:       uuid.New(),
		WindowStart: now.Add(-s.cfg.Lookback),
		Timestamp:   now.Truncate(time.Hour),
		Points:      make(map[sentiment.Source]int, 3),
		Errors:      &errors.MultiError{},
	}
	log := s.log.With("run_id", report.RunID.String())
	ctx = errors.WithRunID(ctx, report.RunID.String())

	ctx, span := trace.StartSpan(ctx, "sentiment.aggregate",
		attribute.String("run_id", report.RunID.String()),
		attribute.Int("top_n", s.cfg.TopN),
	)

	err := s.run(ctx, report, log)
	trace.End(span, err)

	report.Duration = s.now().Sub(start)
	metrics.RecordAggregation(report.Duration, len(report.Records), report.Partial(), err)

	if err != nil {
		return report, err
	}

	log.Infow("Aggregation run complete",
		"assets", len(report.Records),
		"reddit", report.Points[sentiment.SourceReddit],
		"youtube", report.Points[sentiment.SourceYouTube],
		"news", report.Points[sentiment.SourceNews],
		"skipped_errors", len(report.Errors.Errors),
		"duration", report.Duration,
	)
	return report, nil
}

func (s *Service) run(ctx context.Context, report *RunReport, log *logger.Logger) error {
	baselines, err := s.deps.Baselines.GetLatestBaselines(ctx, s.cfg.TopN)
	if err != nil {
		// crowd-only aggregation; reconcile falls back to the neutral prior
		report.Errors.Add(errors.Wrap(err, "load baselines"))
		log.Warnw("Baselines unavailable, aggregating crowd signal only", "error", err)
		baselines = nil
	}

	points := s.collectPoints(ctx, report, log)

	agg := s.aggregator.Accumulate(baselines, points)

	report.Records = make([]sentiment.NormalizedRecord, 0, len(agg.Accumulators))
	for _, symbol := range agg.Symbols() {
		acc := agg.Accumulators[symbol]
		if !acc.HasBaseline {
			report.CrowdOnly = append(report.CrowdOnly, symbol)
		}
		report.Records = append(report.Records, s.normalize(acc, report))
	}
	if len(report.CrowdOnly) > 0 {
		log.Infow("Assets without baseline use the neutral prior", "count", len(report.CrowdOnly), "symbols", report.CrowdOnly)
	}

	if len(report.Records) == 0 {
		log.Warn("No baselines or social data in window, nothing to write")
		return nil
	}

	if err := s.deps.Output.UpsertNormalized(ctx, report.Records); err != nil {
		return errors.Wrap(err, "upsert normalized records")
	}

	s.writeSecondary(ctx, report, agg, log)
	return nil
}

// collectPoints fetches each source independently; a failed source is skipped
func (s *Service) collectPoints(ctx context.Context, report *RunReport, log *logger.Logger) []sentiment.SocialDataPoint {
	since := report.WindowStart
	var points []sentiment.SocialDataPoint

	add := func(source sentiment.Source, fetched []sentiment.SocialDataPoint, err error) {
		if err != nil {
			report.Errors.Add(errors.Wrapf(errors.ErrSourceFailed, "%s: %v", source, err))
			log.Warnw("Source fetch failed, continuing without it", "source", source, "error", err)
			return
		}
		report.Points[source] = len(fetched)
		points = append(points, fetched...)
	}

	reddit, err := s.deps.Social.GetRedditSince(ctx, since)
	add(sentiment.SourceReddit, RedditPoints(reddit), err)

	youtube, err := s.deps.Social.GetYouTubeMentionsSince(ctx, since)
	add(sentiment.SourceYouTube, YouTubePoints(youtube), err)

	news, err := s.deps.Social.GetNewsSince(ctx, since)
	add(sentiment.SourceNews, NewsPoints(news), err)

	return points
}

func (s *Service) normalize(acc *Accumulator, report *RunReport) sentiment.NormalizedRecord {
	r := Reconcile(acc.PositiveCount, acc.NegativeCount, acc.UpPercentage, acc.DownPercentage)

	return sentiment.NormalizedRecord{
		Symbol:                   acc.Symbol,
		Timestamp:                report.Timestamp,
		NormalisedUpPercentage:   r.Up,
		NormalisedDownPercentage: r.Down,
		AvgPositive:              acc.AvgPositive,
		AvgNeutral:               acc.AvgNeutral,
		AvgNegative:              acc.AvgNegative,
		AvgCompound:              acc.AvgCompound,
		PositiveCount:            acc.PositiveCount,
		NegativeCount:            acc.NegativeCount,
		NeutralCount:             acc.NeutralCount,
		TotalWeight:              acc.TotalWeight,
		EarliestPost:             report.WindowStart,
	}
}

// writeSecondary feeds history, scored mentions and events. Failures here are
// recorded but never undo the primary write.
func (s *Service) writeSecondary(ctx context.Context, report *RunReport, agg Aggregation, log *logger.Logger) {
	if s.deps.History != nil {
		if err := s.deps.History.InsertNormalized(ctx, report.Records); err != nil {
			report.Errors.Add(errors.Wrap(err, "insert normalized history"))
			log.Warnw("Failed to append normalized history", "error", err)
		}
	}

	if s.deps.Mentions != nil && len(agg.Mentions) > 0 {
		mentions := make([]sentiment.ScoredMention, 0, len(agg.Mentions))
		for _, m := range agg.Mentions {
			mentions = append(mentions, sentiment.ScoredMention{
				RunID:      report.RunID.String(),
				Symbol:     m.Symbol,
				Source:     string(m.Source),
				Confidence: m.Confidence,
				Positive:   m.Polarity.Positive,
				Neutral:    m.Polarity.Neutral,
				Negative:   m.Polarity.Negative,
				Compound:   m.Polarity.Compound,
				ScoredAt:   report.Timestamp,
			})
		}
		if err := s.deps.Mentions.AddMany(ctx, mentions); err != nil {
			report.Errors.Add(errors.Wrap(err, "buffer scored mentions"))
			log.Warnw("Failed to buffer scored mentions", "error", err)
		}
	}

	if s.deps.Publisher != nil {
		if err := s.deps.Publisher.PublishNormalized(ctx, report.Records); err != nil {
			log.Warnw("Failed to publish normalized records", "error", err)
		}
	}
}
