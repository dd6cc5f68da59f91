package filter

import (
	"math"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/forPelevin/gomoji"

	"cryptopulse/internal/domain/sentiment"
)

// BotThreshold is the combined score above which a comment is treated as a bot
const BotThreshold = 0.5

var spamPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\b(subscribe|like|follow)\b.*\b(back|sub4sub|f4f)\b`),
	regexp.MustCompile(`(?i)\b(check.*out|visit).*\b(channel|profile|link)\b`),
	regexp.MustCompile(`(?i)\b(make.*money|earn.*\$|click.*here|amazing.*opportunity)\b`),
	regexp.MustCompile(`(?i)\b(bot|automated|script)\b`),
	regexp.MustCompile(`^\s*[!@#$%^&*()_+=\[\]{}|;:,.<>?]*\s*$`),
	regexp.MustCompile(`(?i)\b(first|early|notification.*squad)\b`),
	regexp.MustCompile(`https?://\S+`),
	regexp.MustCompile(`(?i)\b(visit|click|check).*?\b(link|website|profile)\b`),
	regexp.MustCompile(`(?i)\bsubscribe\b.*\bchannel\b`),
}

var (
	repeatedPunctRe = regexp.MustCompile(`[!?]{2,}`)
	alphaWordRe     = regexp.MustCompile(`\b[a-zA-Z]{2,}\b`)

	// name followed by many digits
	digitSuffixAuthorRe = regexp.MustCompile(`^[a-zA-Z]+\d{4,}$`)

	// placeholder names and random letters+digits; first match wins
	genericAuthorRes = []*regexp.Regexp{
		regexp.MustCompile(`(?i)^(user|guest|member|visitor)\d+`),
		regexp.MustCompile(`(?i)^[a-z]{6,12}\d{2,4}$`),
	}
)

// BotVerdict is the combined heuristic result for one comment
type BotVerdict struct {
	Spam           float64
	Characteristic float64
	Author         float64
	Score          float64
	IsBot          bool
}

// SpamScore counts spam pattern hits, 0.3 each, capped at 0.8
func SpamScore(text string) float64 {
	matches := 0
	for _, re := range spamPatterns {
		if re.MatchString(text) {
			matches++
		}
	}
	return math.Min(float64(matches)*0.3, 0.8)
}

// CharacteristicScore scores shape signals of low-effort text, capped at 0.8
func CharacteristicScore(text string) float64 {
	score := 0.0
	length := utf8.RuneCountInString(text)

	if utf8.RuneCountInString(strings.TrimSpace(text)) < 10 {
		score += 0.2
	}

	if float64(len(gomoji.CollectAll(text))) > float64(len(strings.Fields(text)))*0.5 {
		score += 0.3
	}

	if isUpper(text) && length > 10 {
		score += 0.2
	}

	punctRatio := float64(len(repeatedPunctRe.FindAllStringIndex(text, -1))) / float64(max(length, 1))
	if punctRatio > 0.1 {
		score += 0.2
	}

	if len(alphaWordRe.FindAllStringIndex(text, -1)) < 2 && length > 5 {
		score += 0.4
	}

	return math.Min(score, 0.8)
}

// AuthorScore scores bot-like display names, capped at 0.5
func AuthorScore(author string) float64 {
	score := 0.0

	if digitSuffixAuthorRe.MatchString(author) {
		score += 0.3
	}

	for _, re := range genericAuthorRes {
		if re.MatchString(author) {
			score += 0.2
			break
		}
	}

	return math.Min(score, 0.5)
}

// DetectBot combines the three heuristics into one verdict
func DetectBot(c sentiment.CommentRecord) BotVerdict {
	v := BotVerdict{
		Spam:           SpamScore(c.Text),
		Characteristic: CharacteristicScore(c.Text),
		Author:         AuthorScore(c.Author),
	}
	v.Score = math.Min((v.Spam+v.Characteristic+v.Author)/1.5, 1.0)
	v.IsBot = v.Score > BotThreshold
	return v
}

// ExcludeBots drops bot comments and stamps BotScore on survivors
func (p *Pipeline) ExcludeBots(seq iterSeq) iterSeq {
	return p.counted("bot", func(c sentiment.CommentRecord) (sentiment.CommentRecord, bool) {
		v := DetectBot(c)
		if v.IsBot {
			p.log.Debugw("Bot comment dropped", "id", c.ID, "spam", v.Spam, "chars", v.Characteristic, "author", v.Author)
			return c, false
		}
		c.BotScore = v.Score
		return c, true
	})(seq)
}

// isUpper reports whether text has cased letters and none of them are lowercase
func isUpper(text string) bool {
	cased := false
	for _, r := range text {
		if unicode.IsLower(r) {
			return false
		}
		if unicode.IsUpper(r) || unicode.IsTitle(r) {
			cased = true
		}
	}
	return cased
}
