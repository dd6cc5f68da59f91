package filter

import (
	"regexp"
	"slices"

	"cryptopulse/internal/domain/sentiment"
)

// AssetPattern recognizes one asset by ticker or name, whole word, with an
// optional possessive or plural suffix ("BTC", "BTC's", "Bitcoins!").
type AssetPattern struct {
	Symbol  string
	Matcher *regexp.Regexp
}

// BuildPatterns compiles one case-insensitive pattern per asset, in input order.
// Assets without a symbol are skipped.
func BuildPatterns(assets []sentiment.Asset) []AssetPattern {
	patterns := make([]AssetPattern, 0, len(assets))

	for _, a := range assets {
		if a.Symbol == "" {
			continue
		}

		alternatives := regexp.QuoteMeta(a.Symbol)
		if a.Name != "" {
			alternatives += "|" + regexp.QuoteMeta(a.Name)
		}

		patterns = append(patterns, AssetPattern{
			Symbol:  a.Symbol,
			Matcher: regexp.MustCompile(`(?i)\b(` + alternatives + `)((['’]s)?s?)\b[.,!?;:]*`),
		})
	}

	return patterns
}

// Mentions reports whether text mentions the asset
func (ap AssetPattern) Mentions(text string) bool {
	return ap.Matcher.MatchString(text)
}

// RelevantTo keeps comments mentioning one of the assets and appends the first
// matching symbol to CryptoMentions. With no patterns nothing survives.
func (p *Pipeline) RelevantTo(patterns []AssetPattern) Stage {
	if len(patterns) == 0 {
		return func(seq iterSeq) iterSeq {
			return func(yield func(sentiment.CommentRecord) bool) {
				p.log.Warn("No crypto assets available, skipping crypto comment filtering")
				dropped := 0
				for range seq {
					dropped++
				}
				p.reportDropped("relevance", dropped)
			}
		}
	}

	return p.counted("relevance", func(c sentiment.CommentRecord) (sentiment.CommentRecord, bool) {
		for _, ap := range patterns {
			if ap.Mentions(c.Text) {
				c.CryptoMentions = append(slices.Clone(c.CryptoMentions), ap.Symbol)
				return c, true
			}
		}
		return c, false
	})
}
