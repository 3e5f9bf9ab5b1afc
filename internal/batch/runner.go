package batch

import (
	"context"
	"log/slog"
	"path/filepath"
	"time"

	"werscore/internal/logging"
	"werscore/internal/scoring"
	"werscore/internal/textio"
)

// PairResult holds the outcome of one pair. Exactly one of Evaluation and
// Err is set.
type PairResult struct {
	Name       string              `json:"name"`
	Evaluation *scoring.Evaluation `json:"evaluation,omitempty"`
	Err        error               `json:"-"`
	Error      string              `json:"error,omitempty"`
}

// Result summarizes a batch run. WER and CER pool distances and
// denominators over successful pairs.
type Result struct {
	Manifest string        `json:"manifest"`
	Pairs    []PairResult  `json:"pairs"`
	WER      scoring.Score `json:"wer"`
	CER      scoring.Score `json:"cer"`
	Scored   int           `json:"scored"`
	Failed   int           `json:"failed"`
	Elapsed  time.Duration `json:"elapsed_ns"`
}

// Runner evaluates manifests sequentially.
type Runner struct {
	Options  scoring.Options
	Encoding string
	Logger   *slog.Logger
}

// NewRunner builds a runner; a nil logger discards output.
func NewRunner(opts scoring.Options, encoding string, logger *slog.Logger) *Runner {
	return &Runner{
		Options:  opts,
		Encoding: encoding,
		Logger:   logging.NewComponentLogger(logger, "batch"),
	}
}

// Run scores every pair of m. Pair failures are recorded on the result;
// the returned error is non-nil only when ctx is cancelled.
func (r *Runner) Run(ctx context.Context, m *Manifest) (*Result, error) {
	logger := logging.WithContext(ctx, r.Logger)
	if logger == nil {
		logger = logging.NewNop()
	}
	start := time.Now()

	encoding := r.Encoding
	if m.Encoding != "" {
		encoding = m.Encoding
	}
	baseDir := ""
	if m.Path != "" {
		baseDir = filepath.Dir(m.Path)
	}
	readOpts := textio.Options{Encoding: encoding}

	result := &Result{Manifest: m.Name, Pairs: make([]PairResult, 0, len(m.Pairs))}
	var wers, cers []scoring.Score

	logger.Info("batch started", slog.String("manifest", m.Name), slog.Int("pairs", len(m.Pairs)))
	for _, pair := range m.Pairs {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		pairLogger := logger.With(slog.String(logging.FieldPair, pair.Name))

		pr := PairResult{Name: pair.Name}
		ev, err := r.evaluate(pair, baseDir, readOpts)
		if err != nil {
			pr.Err = err
			pr.Error = err.Error()
			result.Failed++
			logging.WarnWithContext(pairLogger, "pair failed", "pair_failed", logging.Error(err))
		} else {
			pr.Evaluation = &ev
			result.Scored++
			wers = append(wers, ev.WER)
			cers = append(cers, ev.CER)
			pairLogger.Debug("pair scored",
				slog.String("wer", ev.WER.String()),
				slog.String("cer", ev.CER.String()),
			)
		}
		result.Pairs = append(result.Pairs, pr)
	}

	result.WER = scoring.Aggregate(wers...)
	result.CER = scoring.Aggregate(cers...)
	result.Elapsed = time.Since(start)
	logger.Info("batch finished",
		slog.String("manifest", m.Name),
		slog.Int("scored", result.Scored),
		slog.Int("failed", result.Failed),
		slog.String("wer", result.WER.String()),
		slog.String("cer", result.CER.String()),
		slog.Duration("elapsed", result.Elapsed),
	)
	return result, nil
}

func (r *Runner) evaluate(pair Pair, baseDir string, readOpts textio.Options) (scoring.Evaluation, error) {
	ref, hyp, err := pair.Load(baseDir, readOpts)
	if err != nil {
		return scoring.Evaluation{}, err
	}
	return scoring.Evaluate(ref, hyp, r.Options)
}
