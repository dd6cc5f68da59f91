// Package filter removes bot, non-English, duplicate and off-topic comments
// from a batch before it is stored and scored.
package filter

import (
	"context"
	"iter"
	"slices"

	"cryptopulse/internal/domain/sentiment"
	"cryptopulse/internal/metrics"
	"cryptopulse/pkg/errors"
	"cryptopulse/pkg/logger"
)

type iterSeq = iter.Seq[sentiment.CommentRecord]

// Stage transforms a comment sequence. Stages are lazy unless their
// algorithm needs the whole batch.
type Stage func(seq iterSeq) iterSeq

// Compose chains stages left to right
func Compose(stages ...Stage) Stage {
	return func(seq iterSeq) iterSeq {
		for _, stage := range stages {
			seq = stage(seq)
		}
		return seq
	}
}

// AssetLister provides the ranked asset universe used for relevance tagging
type AssetLister interface {
	GetTopRanked(ctx context.Context, limit int) ([]sentiment.Asset, error)
}

// Pipeline runs the mandated stage order: bots, language, duplicates, relevance
type Pipeline struct {
	language LanguageDetector
	target   string
	assets   AssetLister
	log      *logger.Logger
}

// NewPipeline creates a pipeline keeping comments detected as targetLanguage (ISO 639-1)
func NewPipeline(language LanguageDetector, targetLanguage string, assets AssetLister, log *logger.Logger) *Pipeline {
	if targetLanguage == "" {
		targetLanguage = "en"
	}
	if log == nil {
		log = logger.Component("comment_filter")
	}
	return &Pipeline{
		language: language,
		target:   targetLanguage,
		assets:   assets,
		log:      log,
	}
}

// Run applies all stages against a prepared pattern set and materializes the result
func (p *Pipeline) Run(comments []sentiment.CommentRecord, patterns []AssetPattern) []sentiment.CommentRecord {
	pipeline := Compose(
		p.ExcludeBots,
		p.ExcludeNonTarget,
		p.ExcludeDuplicates,
		p.RelevantTo(patterns),
	)

	out := slices.Collect(pipeline(slices.Values(comments)))

	p.log.Infow("Comment batch sanitised", "input", len(comments), "kept", len(out))
	return out
}

// Sanitise loads the top ranking assets, builds their patterns and runs the pipeline
func (p *Pipeline) Sanitise(ctx context.Context, comments []sentiment.CommentRecord, ranking int) ([]sentiment.CommentRecord, error) {
	if p.assets == nil {
		return nil, errors.Wrap(errors.ErrInvalidInput, "pipeline has no asset source")
	}

	assets, err := p.assets.GetTopRanked(ctx, ranking)
	if err != nil {
		return nil, errors.Wrap(err, "load ranked assets")
	}

	return p.Run(comments, BuildPatterns(assets)), nil
}

// counted wraps a per-record predicate into a lazy stage that logs its drop count
func (p *Pipeline) counted(stage string, keep func(sentiment.CommentRecord) (sentiment.CommentRecord, bool)) Stage {
	return func(seq iterSeq) iterSeq {
		return func(yield func(sentiment.CommentRecord) bool) {
			dropped := 0
			defer func() { p.reportDropped(stage, dropped) }()

			for c := range seq {
				out, ok := keep(c)
				if !ok {
					dropped++
					continue
				}
				if !yield(out) {
					return
				}
			}
		}
	}
}

func (p *Pipeline) reportDropped(stage string, dropped int) {
	metrics.RecordFilterDropped(stage, dropped)
	p.log.Infow("Filter stage complete", "stage", stage, "dropped", dropped)
}
