package alignment

import (
	"errors"
	"fmt"

	"werscore/internal/editdist"
)

// ErrInvalidTrace reports a trace that does not walk both sequences from
// start to end in order.
var ErrInvalidTrace = errors.New("invalid alignment trace")

// Row is one aligned position. Ref is empty on insertion rows and Hyp is
// empty on deletion rows; the matching index is -1.
type Row struct {
	Kind     editdist.Kind `json:"kind"`
	Ref      string        `json:"ref"`
	Hyp      string        `json:"hyp"`
	RefIndex int           `json:"ref_index"`
	HypIndex int           `json:"hyp_index"`
}

// Render pairs every trace operation with the tokens it touches.
func Render(ref, hyp []string, trace []editdist.Op) ([]Row, error) {
	rows := make([]Row, 0, len(trace))
	nextRef, nextHyp := 0, 0
	for i, op := range trace {
		row := Row{Kind: op.Kind, RefIndex: -1, HypIndex: -1}
		switch op.Kind {
		case editdist.Match, editdist.Substitution:
			if op.RefIndex != nextRef || op.HypIndex != nextHyp || nextRef >= len(ref) || nextHyp >= len(hyp) {
				return nil, traceError(i, op)
			}
			row.Ref, row.RefIndex = ref[nextRef], nextRef
			row.Hyp, row.HypIndex = hyp[nextHyp], nextHyp
			nextRef++
			nextHyp++
		case editdist.Deletion:
			if op.RefIndex != nextRef || nextRef >= len(ref) {
				return nil, traceError(i, op)
			}
			row.Ref, row.RefIndex = ref[nextRef], nextRef
			nextRef++
		case editdist.Insertion:
			if op.HypIndex != nextHyp || nextHyp >= len(hyp) {
				return nil, traceError(i, op)
			}
			row.Hyp, row.HypIndex = hyp[nextHyp], nextHyp
			nextHyp++
		default:
			return nil, traceError(i, op)
		}
		rows = append(rows, row)
	}
	if nextRef != len(ref) || nextHyp != len(hyp) {
		return nil, fmt.Errorf("%w: trace ends at ref %d/%d hyp %d/%d", ErrInvalidTrace, nextRef, len(ref), nextHyp, len(hyp))
	}
	return rows, nil
}

func traceError(i int, op editdist.Op) error {
	return fmt.Errorf("%w: step %d (%s ref=%d hyp=%d) out of order", ErrInvalidTrace, i, op.Kind, op.RefIndex, op.HypIndex)
}

// Project returns the reference tokens (skipping insertions) and hypothesis
// tokens (skipping deletions) carried by rows.
func Project(rows []Row) (ref, hyp []string) {
	ref = make([]string, 0, len(rows))
	hyp = make([]string, 0, len(rows))
	for _, row := range rows {
		if row.Kind != editdist.Insertion {
			ref = append(ref, row.Ref)
		}
		if row.Kind != editdist.Deletion {
			hyp = append(hyp, row.Hyp)
		}
	}
	return ref, hyp
}

// Summarize tallies rows by kind.
func Summarize(rows []Row) editdist.Counts {
	trace := make([]editdist.Op, len(rows))
	for i, row := range rows {
		trace[i] = editdist.Op{Kind: row.Kind, RefIndex: row.RefIndex, HypIndex: row.HypIndex}
	}
	return editdist.Tally(trace)
}
