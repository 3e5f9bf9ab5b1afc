package scoring

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"werscore/internal/editdist"
)

// ErrUndefinedRate reports a rate requested for a zero denominator, which
// happens when the reference is empty after normalization.
var ErrUndefinedRate = errors.New("rate undefined: reference is empty")

// Score is a raw edit distance paired with its denominator.
type Score struct {
	Distance    int
	Denominator int
	// Counts is nil when the score came from the distance-only path.
	Counts *editdist.Counts
}

// Defined reports whether Rate can be computed.
func (s Score) Defined() bool {
	return s.Denominator > 0
}

// Rate returns Distance/Denominator, or ErrUndefinedRate when the denominator
// is zero.
func (s Score) Rate() (float64, error) {
	if s.Denominator <= 0 {
		return 0, fmt.Errorf("%w (distance %d)", ErrUndefinedRate, s.Distance)
	}
	return float64(s.Distance) / float64(s.Denominator), nil
}

// String renders the rate with four decimals, or "undefined".
func (s Score) String() string {
	rate, err := s.Rate()
	if err != nil {
		return "undefined"
	}
	return strconv.FormatFloat(rate, 'f', 4, 64)
}

type scoreJSON struct {
	Distance    int              `json:"distance"`
	Denominator int              `json:"denominator"`
	Rate        *float64         `json:"rate"`
	Defined     bool             `json:"defined"`
	Counts      *editdist.Counts `json:"counts,omitempty"`
}

// MarshalJSON encodes an undefined rate as null.
func (s Score) MarshalJSON() ([]byte, error) {
	out := scoreJSON{
		Distance:    s.Distance,
		Denominator: s.Denominator,
		Defined:     s.Defined(),
		Counts:      s.Counts,
	}
	if rate, err := s.Rate(); err == nil {
		out.Rate = &rate
	}
	return json.Marshal(out)
}

// UnmarshalJSON accepts the shape produced by MarshalJSON.
func (s *Score) UnmarshalJSON(data []byte) error {
	var in scoreJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	*s = Score{Distance: in.Distance, Denominator: in.Denominator, Counts: in.Counts}
	return nil
}

// Aggregate folds scores into one corpus-level score by summing distances and
// denominators. Counts are kept only when every input carries them.
func Aggregate(scores ...Score) Score {
	var total Score
	var counts editdist.Counts
	haveCounts := len(scores) > 0
	for _, s := range scores {
		total.Distance += s.Distance
		total.Denominator += s.Denominator
		if s.Counts == nil {
			haveCounts = false
			continue
		}
		counts.Matches += s.Counts.Matches
		counts.Substitutions += s.Counts.Substitutions
		counts.Insertions += s.Counts.Insertions
		counts.Deletions += s.Counts.Deletions
	}
	if haveCounts {
		total.Counts = &counts
	}
	return total
}
