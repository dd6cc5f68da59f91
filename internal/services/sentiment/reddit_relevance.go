package sentiment

import (
	"strings"

	"cryptopulse/internal/domain/sentiment"
)

// Reddit comment confidences
const (
	ExplicitMentionConfidence = 1.0
	AmbientConfidence         = 0.5
)

// AttributeRedditComment decides which asset a Reddit comment is about.
//
// The first tracked asset whose lowercased symbol or name occurs in the text
// wins with full confidence. Otherwise the comment stays with the searched
// asset: at 0.5 when that asset is not named at all, and at 0.0 when it is.
// The last branch is only reachable when searched is missing from tracked and
// is kept as observed in production data.
func AttributeRedditComment(text string, searched sentiment.Asset, tracked []sentiment.Asset) (string, float64) {
	lower := strings.ToLower(text)

	for _, a := range tracked {
		if mentionsAsset(lower, a) {
			return a.Symbol, ExplicitMentionConfidence
		}
	}

	if !mentionsAsset(lower, searched) {
		return searched.Symbol, AmbientConfidence
	}

	return searched.Symbol, 0.0
}

// mentionsAsset is a plain substring test on already-lowercased text.
// Empty symbols or names never match.
func mentionsAsset(lower string, a sentiment.Asset) bool {
	if s := strings.ToLower(a.Symbol); s != "" && strings.Contains(lower, s) {
		return true
	}
	if n := strings.ToLower(a.Name); n != "" && strings.Contains(lower, n) {
		return true
	}
	return false
}
