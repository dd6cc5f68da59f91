// Package textnorm cleans raw social and news text before it is filtered,
// scored or stored.
package textnorm

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

const (
	// IndexLimit is the byte limit of the text column in the social record
	// primary key index.
	IndexLimit = 2000

	// Ellipsis is appended when text was truncated.
	Ellipsis = "..."

	// structuralOverhead is reserved from IndexLimit for the other key columns.
	structuralOverhead = 100
)

// DefaultBudget is the byte budget applied by Normalize (suffix included).
const DefaultBudget = IndexLimit - structuralOverhead

// MinBudget is the smallest budget that still leaves room for one byte of
// text before Ellipsis.
const MinBudget = len(Ellipsis) + 1

var (
	markdownLinkRe = regexp.MustCompile(`\[([^\]]*)\]\(([^)]*)\)`)
	urlRe          = regexp.MustCompile(`https?://\S+|www\.\S+`)
	// \s is ASCII only; \p{Z} adds no-break and other unicode spaces
	whitespaceRe = regexp.MustCompile(`[\s\p{Z}]+`)

	// a tag needs a name and only name=value attributes, so "a<b and c>d" is text
	tagRe = regexp.MustCompile(`<!--[\s\S]*?-->|</?[a-zA-Z][a-zA-Z0-9]*(?:\s+[a-zA-Z_:][-a-zA-Z0-9_:.]*\s*=\s*(?:"[^"]*"|'[^']*'|[^\s"'<>]+))*\s*/?>`)
)

// Normalizer cleans text and enforces a byte budget.
type Normalizer struct {
	budget int
}

// New returns a Normalizer whose output never exceeds budget bytes.
// A non-positive budget selects DefaultBudget; smaller budgets are raised to MinBudget.
func New(budget int) *Normalizer {
	switch {
	case budget <= 0:
		budget = DefaultBudget
	case budget < MinBudget:
		budget = MinBudget
	}
	return &Normalizer{budget: budget}
}

var defaultNormalizer = New(DefaultBudget)

// Normalize cleans raw with the default budget.
func Normalize(raw string) string {
	return defaultNormalizer.Normalize(raw)
}

// Normalize strips markup, links and URLs, collapses whitespace and truncates
// at a UTF-8 boundary. It never fails; the worst case is an empty string.
func (n *Normalizer) Normalize(raw string) string {
	if raw == "" {
		return ""
	}

	text := strings.ToValidUTF8(raw, "")
	text = markdownLinkRe.ReplaceAllString(text, "$1")
	text = StripHTML(text)
	text = urlRe.ReplaceAllString(text, "")
	text = CollapseWhitespace(text)

	return Truncate(text, n.budget)
}

// StripHTML decodes entities and removes tags. Text without tags only has
// its entities decoded, and a '<' that does not open a tag is kept.
func StripHTML(text string) string {
	if !strings.ContainsAny(text, "<&") {
		return text
	}

	tags := tagRe.FindAllStringIndex(text, -1)
	if len(tags) == 0 {
		return html.UnescapeString(text)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader("<body>" + escapeStrayLT(text, tags) + "</body>"))
	if err != nil {
		return html.UnescapeString(text)
	}

	doc.Find("script, style").Remove()
	// keep words from adjacent blocks apart
	doc.Find("br, p, div, li, tr, h1, h2, h3, h4").AfterHtml(" ")

	return doc.Find("body").Text()
}

// escapeStrayLT rewrites every '<' outside the given tag spans as an entity
// so the parser reads it as text.
func escapeStrayLT(text string, tags [][]int) string {
	var b strings.Builder
	b.Grow(len(text) + 16)

	last := 0
	for _, span := range tags {
		b.WriteString(strings.ReplaceAll(text[last:span[0]], "<", "&lt;"))
		b.WriteString(text[span[0]:span[1]])
		last = span[1]
	}
	b.WriteString(strings.ReplaceAll(text[last:], "<", "&lt;"))
	return b.String()
}

// CollapseWhitespace turns every whitespace run into one space and trims.
func CollapseWhitespace(text string) string {
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(text, " "))
}

// Truncate limits text to maxBytes bytes. When it cuts, it backs off to a rune
// boundary and appends Ellipsis; the result including the suffix fits maxBytes.
// Below MinBudget there is no room for the suffix and the text is only cut.
func Truncate(text string, maxBytes int) string {
	if len(text) <= maxBytes {
		return text
	}
	if maxBytes <= len(Ellipsis) {
		return cutAtRuneStart(text, maxBytes)
	}
	return cutAtRuneStart(text, maxBytes-len(Ellipsis)) + Ellipsis
}

func cutAtRuneStart(text string, cut int) string {
	if cut <= 0 {
		return ""
	}
	for cut > 0 && !utf8.RuneStart(text[cut]) {
		cut--
	}
	return text[:cut]
}
