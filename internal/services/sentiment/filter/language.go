package filter

import (
	"strings"
	"unicode/utf8"

	"github.com/pemistahl/lingua-go"

	"cryptopulse/internal/domain/sentiment"
	"cryptopulse/pkg/errors"
)

// shortTextRunes is the length below which text is kept without detection
const shortTextRunes = 3

// ErrLanguageUndetermined is returned when a detector cannot decide
var ErrLanguageUndetermined = errors.New("language could not be determined")

// LanguageDetector returns the lowercase ISO 639-1 code of text
type LanguageDetector interface {
	DetectLanguage(text string) (string, error)
}

// LinguaDetector detects languages with lingua-go
type LinguaDetector struct {
	detector lingua.LanguageDetector
}

// NewLinguaDetector builds a detector over the given ISO 639-1 codes.
// An empty list loads every supported language.
func NewLinguaDetector(codes ...string) (*LinguaDetector, error) {
	builder := lingua.NewLanguageDetectorBuilder()

	if len(codes) == 0 {
		return &LinguaDetector{detector: builder.FromAllLanguages().Build()}, nil
	}

	byCode := make(map[string]lingua.Language)
	for _, lang := range lingua.AllLanguages() {
		byCode[strings.ToLower(lang.IsoCode639_1().String())] = lang
	}

	languages := make([]lingua.Language, 0, len(codes))
	for _, code := range codes {
		lang, ok := byCode[strings.ToLower(strings.TrimSpace(code))]
		if !ok {
			return nil, errors.Wrapf(errors.ErrInvalidInput, "unknown language code %q", code)
		}
		languages = append(languages, lang)
	}
	if len(languages) < 2 {
		return nil, errors.Wrap(errors.ErrInvalidInput, "language detector needs at least two languages")
	}

	return &LinguaDetector{
		detector: builder.FromLanguages(languages...).Build(),
	}, nil
}

// DetectLanguage implements LanguageDetector
func (d *LinguaDetector) DetectLanguage(text string) (string, error) {
	lang, ok := d.detector.DetectLanguageOf(text)
	if !ok {
		return "", ErrLanguageUndetermined
	}
	return strings.ToLower(lang.IsoCode639_1().String()), nil
}

// ExcludeNonTarget keeps comments in the target language. Very short text is
// kept; detector failures reject.
func (p *Pipeline) ExcludeNonTarget(seq iterSeq) iterSeq {
	return p.counted("language", func(c sentiment.CommentRecord) (sentiment.CommentRecord, bool) {
		text := strings.TrimSpace(c.Text)
		if utf8.RuneCountInString(text) < shortTextRunes {
			return c, true
		}

		if p.language == nil {
			return c, true
		}

		code, err := p.language.DetectLanguage(text)
		if err != nil {
			p.log.Debugw("Language detection failed", "id", c.ID, "error", err)
			return c, false
		}
		return c, code == p.target
	})(seq)
}
