package filter

import (
	"regexp"
	"slices"
	"strings"

	"cryptopulse/internal/domain/sentiment"
)

var (
	nonWordRe = regexp.MustCompile(`[^\p{L}\p{N}_\s\p{Z}]`)
	spaceRe   = regexp.MustCompile(`[\s\p{Z}]+`)
)

// Fingerprint normalizes text into an order-independent key: lowercase,
// punctuation stripped, words sorted.
func Fingerprint(text string) string {
	normalized := nonWordRe.ReplaceAllString(strings.ToLower(text), "")
	normalized = strings.TrimSpace(spaceRe.ReplaceAllString(normalized, " "))

	words := strings.Fields(normalized)
	slices.Sort(words)
	return strings.Join(words, " ")
}

// ExcludeDuplicates keeps only comments whose fingerprint occurs exactly once
// in the batch. Every copy of a duplicate is dropped, so the stage
// materializes its input.
func (p *Pipeline) ExcludeDuplicates(seq iterSeq) iterSeq {
	return func(yield func(sentiment.CommentRecord) bool) {
		batch := slices.Collect(seq)

		fingerprints := make([]string, len(batch))
		counts := make(map[string]int, len(batch))
		for i, c := range batch {
			fingerprints[i] = Fingerprint(c.Text)
			counts[fingerprints[i]]++
		}

		dropped := 0
		defer func() { p.reportDropped("duplicate", dropped) }()

		for i, c := range batch {
			if counts[fingerprints[i]] != 1 {
				dropped++
				continue
			}
			if !yield(c) {
				return
			}
		}
	}
}
