package scoring

import (
	"fmt"
	"unicode/utf8"

	"werscore/internal/editdist"
	"werscore/internal/normalize"
)

// Options configures a scoring run.
type Options struct {
	// Normalize controls accent and punctuation handling. Its Mode is
	// ignored: each metric tokenizes at its own granularity.
	Normalize normalize.Options
	// Weights apply to the word-level trace returned by Evaluate. WER and
	// CER always use unit weights.
	Weights editdist.Weights
	// MaxWords and MaxChars bound the word and character sequence lengths.
	// Zero disables the bound.
	MaxWords int
	MaxChars int
	// CharCounts runs CER through the full table so the score carries
	// per-kind counts. Without it CER uses the two-row distance.
	CharCounts bool
}

func (o Options) tokens(text string, mode normalize.Mode) ([]string, error) {
	opts := o.Normalize
	opts.Mode = mode
	return normalize.Normalize(text, opts)
}

// WER scores reference against hypothesis at the word level.
func WER(reference, hypothesis string, opts Options) (Score, error) {
	score, _, err := wordScore(reference, hypothesis, opts)
	return score, err
}

func wordScore(reference, hypothesis string, opts Options) (Score, wordAlignment, error) {
	ref, err := opts.tokens(reference, normalize.ModeWord)
	if err != nil {
		return Score{}, wordAlignment{}, fmt.Errorf("normalize reference: %w", err)
	}
	hyp, err := opts.tokens(hypothesis, normalize.ModeWord)
	if err != nil {
		return Score{}, wordAlignment{}, fmt.Errorf("normalize hypothesis: %w", err)
	}
	res, err := editdist.Align(ref, hyp, editdist.Options{
		Weights:   editdist.UnitWeights(),
		MaxLength: opts.MaxWords,
	})
	if err != nil {
		return Score{}, wordAlignment{}, fmt.Errorf("align words: %w", err)
	}
	counts := res.Counts()
	score := Score{Distance: res.Distance, Denominator: len(ref), Counts: &counts}
	return score, wordAlignment{ref: ref, hyp: hyp, trace: res.Trace}, nil
}

// CER scores reference against hypothesis at the character level. The
// tokens are the runes of the whole normalized string.
func CER(reference, hypothesis string, opts Options) (Score, error) {
	ref, err := opts.tokens(reference, normalize.ModeChar)
	if err != nil {
		return Score{}, fmt.Errorf("normalize reference: %w", err)
	}
	hyp, err := opts.tokens(hypothesis, normalize.ModeChar)
	if err != nil {
		return Score{}, fmt.Errorf("normalize hypothesis: %w", err)
	}
	align := editdist.Options{Weights: editdist.UnitWeights(), MaxLength: opts.MaxChars}
	if opts.CharCounts {
		res, err := editdist.Align(ref, hyp, align)
		if err != nil {
			return Score{}, fmt.Errorf("align characters: %w", err)
		}
		counts := res.Counts()
		return Score{Distance: res.Distance, Denominator: len(ref), Counts: &counts}, nil
	}
	dist, err := editdist.Distance(ref, hyp, align)
	if err != nil {
		return Score{}, fmt.Errorf("align characters: %w", err)
	}
	return Score{Distance: dist, Denominator: len(ref)}, nil
}

type wordAlignment struct {
	ref   []string
	hyp   []string
	trace []editdist.Op
}

// Evaluation holds both metrics and the word-level alignment.
type Evaluation struct {
	WER        Score         `json:"wer"`
	CER        Score         `json:"cer"`
	Reference  []string      `json:"reference_words"`
	Hypothesis []string      `json:"hypothesis_words"`
	Trace      []editdist.Op `json:"-"`
}

// Evaluate computes WER and CER and keeps the word tokens and trace for
// reporting. When opts.Weights differs from unit weights the trace is
// recomputed with those weights; the scores are unaffected.
func Evaluate(reference, hypothesis string, opts Options) (Evaluation, error) {
	wer, words, err := wordScore(reference, hypothesis, opts)
	if err != nil {
		return Evaluation{}, fmt.Errorf("wer: %w", err)
	}
	cer, err := CER(reference, hypothesis, opts)
	if err != nil {
		return Evaluation{}, fmt.Errorf("cer: %w", err)
	}

	trace := words.trace
	if !opts.Weights.IsZero() && opts.Weights != editdist.UnitWeights() {
		res, err := editdist.Align(words.ref, words.hyp, editdist.Options{
			Weights:   opts.Weights,
			MaxLength: opts.MaxWords,
		})
		if err != nil {
			return Evaluation{}, fmt.Errorf("weighted trace: %w", err)
		}
		trace = res.Trace
	}

	return Evaluation{
		WER:        wer,
		CER:        cer,
		Reference:  words.ref,
		Hypothesis: words.hyp,
		Trace:      trace,
	}, nil
}

// TokenComparison scores one positional pair of tokens at the character
// level.
type TokenComparison struct {
	Ref   string `json:"ref"`
	Hyp   string `json:"hyp"`
	Score Score  `json:"score"`
}

// CompareTokens pairs ref and hyp by position, stopping at the shorter
// sequence, and scores each pair by character edit distance over the
// reference token length. It does not align; use the trace for that.
func CompareTokens(ref, hyp []string) []TokenComparison {
	n := min(len(ref), len(hyp))
	out := make([]TokenComparison, 0, n)
	for i := 0; i < n; i++ {
		// Unit weights and no length limit cannot fail.
		dist, _ := editdist.Distance([]rune(ref[i]), []rune(hyp[i]), editdist.Options{})
		out = append(out, TokenComparison{
			Ref:   ref[i],
			Hyp:   hyp[i],
			Score: Score{Distance: dist, Denominator: utf8.RuneCountInString(ref[i])},
		})
	}
	return out
}
