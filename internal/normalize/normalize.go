package normalize

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// ErrInvalidInput reports text that cannot be normalized, such as byte
// sequences that are not valid UTF-8. Empty text is valid.
var ErrInvalidInput = errors.New("invalid input text")

// Mode selects the token granularity.
type Mode int

const (
	// ModeWord splits on whitespace.
	ModeWord Mode = iota
	// ModeChar yields one token per rune of the normalized string.
	ModeChar
)

func (m Mode) String() string {
	switch m {
	case ModeChar:
		return "char"
	default:
		return "word"
	}
}

// ParseMode accepts "word" or "char" (case-insensitive). Empty means word.
func ParseMode(value string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "word", "words":
		return ModeWord, nil
	case "char", "chars", "character":
		return ModeChar, nil
	default:
		return ModeWord, fmt.Errorf("unsupported token mode %q (want word or char)", value)
	}
}

// Options controls the normalization pipeline.
type Options struct {
	RemoveAccents     bool `json:"remove_accents"`
	RemovePunctuation bool `json:"remove_punctuation"`
	Mode              Mode `json:"-"`
}

// Normalize runs the full pipeline and tokenizes the result.
func Normalize(text string, opts Options) ([]string, error) {
	normalized, err := Text(text, opts)
	if err != nil {
		return nil, err
	}
	return Tokenize(normalized, opts.Mode), nil
}

// Text runs the pipeline without the final tokenization step.
func Text(text string, opts Options) (string, error) {
	if !utf8.ValidString(text) {
		return "", fmt.Errorf("%w: text is not valid UTF-8", ErrInvalidInput)
	}
	if text == "" {
		return "", nil
	}
	if opts.RemoveAccents {
		text = GenderPostfix(StripAccents(text))
	}
	if opts.RemovePunctuation {
		text = RemovePunctuation(text)
	}
	return cases.Lower(language.Und).String(text), nil
}

// Tokenize splits already-normalized text according to mode.
func Tokenize(text string, mode Mode) []string {
	if mode != ModeChar {
		return strings.Fields(text)
	}
	tokens := make([]string, 0, utf8.RuneCountInString(text))
	for _, r := range text {
		tokens = append(tokens, string(r))
	}
	return tokens
}

// StripAccents decomposes text, drops nonspacing combining marks and
// recomposes what is left, so "café" becomes "cafe" while Hangul syllables
// survive the round trip.
func StripAccents(text string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, text)
	if err != nil {
		return text
	}
	return out
}

// GenderPostfix rewrites every word-final "a" to "e" ("A" to "E"). This is a
// crude heuristic: it folds some feminine/masculine pairs together and
// damages plenty of words that merely end in "a".
func GenderPostfix(text string) string {
	if !strings.ContainsAny(text, "aA") {
		return text
	}
	src := []rune(text)
	for i, r := range src {
		if r != 'a' && r != 'A' {
			continue
		}
		if i+1 < len(src) && isWordRune(src[i+1]) {
			continue
		}
		if r == 'a' {
			src[i] = 'e'
		} else {
			src[i] = 'E'
		}
	}
	return string(src)
}

// RemovePunctuation drops every rune that is neither a word rune nor
// whitespace, then collapses whitespace runs to single spaces and trims.
func RemovePunctuation(text string) string {
	kept := strings.Map(func(r rune) rune {
		if isWordRune(r) || unicode.IsSpace(r) {
			return r
		}
		return -1
	}, text)
	return strings.Join(strings.Fields(kept), " ")
}

// isWordRune matches letters, numbers, combining marks and underscore.
func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsNumber(r) || unicode.IsMark(r)
}
