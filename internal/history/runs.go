package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"werscore/internal/scoring"
)

var (
	// ErrNotFound reports an unknown run ID or prefix.
	ErrNotFound = errors.New("run not found")
	// ErrAmbiguousID reports an ID prefix that matches several runs.
	ErrAmbiguousID = errors.New("run id prefix is ambiguous")
)

// Kind names the command that produced a run.
type Kind string

const (
	KindEval  Kind = "eval"
	KindBatch Kind = "batch"
)

// Run is one recorded evaluation. Batch runs store the pooled corpus
// scores; Pairs and Failed count the manifest entries.
type Run struct {
	ID                string        `json:"id"`
	CreatedAt         time.Time     `json:"created_at"`
	Kind              Kind          `json:"kind"`
	Label             string        `json:"label,omitempty"`
	ReferencePath     string        `json:"reference_path,omitempty"`
	HypothesisPath    string        `json:"hypothesis_path,omitempty"`
	Pairs             int           `json:"pairs"`
	Failed            int           `json:"failed"`
	WER               scoring.Score `json:"wer"`
	CER               scoring.Score `json:"cer"`
	RemoveAccents     bool          `json:"remove_accents"`
	RemovePunctuation bool          `json:"remove_punctuation"`
}

const runColumns = `id, created_at, kind, label, reference_path, hypothesis_path, pairs, failed,
	wer_distance, wer_denominator, cer_distance, cer_denominator, remove_accents, remove_punctuation`

// Record inserts run, assigning an ID and timestamp when they are unset.
// Per-kind counts are not persisted.
func (s *Store) Record(ctx context.Context, run *Run) error {
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now().UTC()
	}
	if run.Kind == "" {
		run.Kind = KindEval
	}
	if run.Pairs == 0 {
		run.Pairs = 1
	}

	_, err := s.execWithRetry(ctx,
		`INSERT INTO runs (`+runColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID,
		formatTime(run.CreatedAt),
		string(run.Kind),
		nullableString(run.Label),
		nullableString(run.ReferencePath),
		nullableString(run.HypothesisPath),
		run.Pairs,
		run.Failed,
		run.WER.Distance,
		run.WER.Denominator,
		run.CER.Distance,
		run.CER.Denominator,
		boolToInt(run.RemoveAccents),
		boolToInt(run.RemovePunctuation),
	)
	if err != nil {
		return fmt.Errorf("record run: %w", err)
	}
	return nil
}

// Get returns the run whose ID equals or starts with id.
func (s *Store) Get(ctx context.Context, id string) (*Run, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, ErrNotFound
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+runColumns+` FROM runs WHERE id = ? OR id LIKE ? ESCAPE '\' ORDER BY id = ? DESC LIMIT 2`,
		id, escapeLike(id)+"%", id,
	)
	if err != nil {
		return nil, fmt.Errorf("get run: %w", err)
	}
	defer rows.Close()

	var found []*Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("get run: %w", err)
		}
		found = append(found, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("get run: %w", err)
	}

	switch {
	case len(found) == 0:
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	case found[0].ID == id || len(found) == 1:
		return found[0], nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrAmbiguousID, id)
	}
}

// List returns runs newest first. A limit <= 0 returns every run.
func (s *Store) List(ctx context.Context, limit int) ([]*Run, error) {
	query := `SELECT ` + runColumns + ` FROM runs ORDER BY created_at DESC, id`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []*Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("list runs: %w", err)
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// Count returns the number of stored runs.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM runs`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count runs: %w", err)
	}
	return n, nil
}

func scanRun(scanner interface{ Scan(dest ...any) error }) (*Run, error) {
	var (
		run                              Run
		createdAt, kind                  string
		label, refPath, hypPath          sql.NullString
		removeAccents, removePunctuation int
	)
	if err := scanner.Scan(
		&run.ID,
		&createdAt,
		&kind,
		&label,
		&refPath,
		&hypPath,
		&run.Pairs,
		&run.Failed,
		&run.WER.Distance,
		&run.WER.Denominator,
		&run.CER.Distance,
		&run.CER.Denominator,
		&removeAccents,
		&removePunctuation,
	); err != nil {
		return nil, err
	}
	ts, err := time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return nil, fmt.Errorf("parse created_at %q: %w", createdAt, err)
	}
	run.CreatedAt = ts
	run.Kind = Kind(kind)
	run.Label = label.String
	run.ReferencePath = refPath.String
	run.HypothesisPath = hypPath.String
	run.RemoveAccents = removeAccents != 0
	run.RemovePunctuation = removePunctuation != 0
	return &run, nil
}

// timeLayout is fixed width so stored timestamps sort lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

func boolToInt(value bool) int {
	if value {
		return 1
	}
	return 0
}

func escapeLike(value string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(value)
}
