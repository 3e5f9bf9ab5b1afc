package editdist

import (
	"errors"
	"fmt"
)

var (
	// ErrResourceExceeded reports input longer than Options.MaxLength.
	ErrResourceExceeded = errors.New("input exceeds alignment size limit")
	// ErrInvalidWeights reports a negative operation weight.
	ErrInvalidWeights = errors.New("invalid edit weights")
)

// Weights holds the cost of each edit operation. The zero value stands for
// unit weights.
type Weights struct {
	Insert     int `json:"insert" toml:"insert"`
	Delete     int `json:"delete" toml:"delete"`
	Substitute int `json:"substitute" toml:"substitute"`
}

// UnitWeights returns {1,1,1}.
func UnitWeights() Weights {
	return Weights{Insert: 1, Delete: 1, Substitute: 1}
}

// IsZero reports whether no weight was set.
func (w Weights) IsZero() bool {
	return w == Weights{}
}

func (w Weights) resolve() (Weights, error) {
	if w.IsZero() {
		return UnitWeights(), nil
	}
	if w.Insert < 0 || w.Delete < 0 || w.Substitute < 0 {
		return Weights{}, fmt.Errorf("%w: insert=%d delete=%d substitute=%d", ErrInvalidWeights, w.Insert, w.Delete, w.Substitute)
	}
	return w, nil
}

// Options configures a single alignment.
type Options struct {
	Weights Weights
	// MaxLength rejects either sequence longer than this many tokens.
	// Zero disables the check.
	MaxLength int
}

// Result is the outcome of Align.
type Result struct {
	Distance int  `json:"distance"`
	Trace    []Op `json:"trace"`
}

// Counts tallies the trace by operation kind.
func (r Result) Counts() Counts {
	return Tally(r.Trace)
}

// CheckLength returns ErrResourceExceeded when either length is above limit.
// A non-positive limit disables the check.
func CheckLength(refLen, hypLen, limit int) error {
	if limit <= 0 {
		return nil
	}
	if refLen > limit || hypLen > limit {
		return fmt.Errorf("%w: ref=%d hyp=%d limit=%d", ErrResourceExceeded, refLen, hypLen, limit)
	}
	return nil
}

// Align computes the weighted edit distance between ref and hyp together with
// a forward-ordered trace.
func Align[T comparable](ref, hyp []T, opts Options) (Result, error) {
	w, err := opts.Weights.resolve()
	if err != nil {
		return Result{}, err
	}
	if err := CheckLength(len(ref), len(hyp), opts.MaxLength); err != nil {
		return Result{}, err
	}

	n, m := len(ref), len(hyp)
	cols := m + 1
	table := make([]int, (n+1)*cols)
	for i := 1; i <= n; i++ {
		table[i*cols] = i * w.Delete
	}
	for j := 1; j <= m; j++ {
		table[j] = j * w.Insert
	}

	for i := 1; i <= n; i++ {
		row := i * cols
		prev := row - cols
		for j := 1; j <= m; j++ {
			diag := table[prev+j-1]
			if ref[i-1] != hyp[j-1] {
				diag += w.Substitute
			}
			table[row+j] = min(diag, table[prev+j]+w.Delete, table[row+j-1]+w.Insert)
		}
	}

	trace := make([]Op, 0, max(n, m))
	i, j := n, m
	for i > 0 || j > 0 {
		cur := table[i*cols+j]
		if i > 0 && j > 0 {
			same := ref[i-1] == hyp[j-1]
			cost := 0
			if !same {
				cost = w.Substitute
			}
			if cur == table[(i-1)*cols+j-1]+cost {
				kind := Substitution
				if same {
					kind = Match
				}
				trace = append(trace, Op{Kind: kind, RefIndex: i - 1, HypIndex: j - 1})
				i--
				j--
				continue
			}
		}
		if i > 0 && cur == table[(i-1)*cols+j]+w.Delete {
			trace = append(trace, Op{Kind: Deletion, RefIndex: i - 1, HypIndex: -1})
			i--
			continue
		}
		trace = append(trace, Op{Kind: Insertion, RefIndex: -1, HypIndex: j - 1})
		j--
	}

	for l, r := 0, len(trace)-1; l < r; l, r = l+1, r-1 {
		trace[l], trace[r] = trace[r], trace[l]
	}

	return Result{Distance: table[n*cols+m], Trace: trace}, nil
}

// Distance computes the weighted edit distance without a trace, keeping two
// rows sized to the shorter sequence.
func Distance[T comparable](ref, hyp []T, opts Options) (int, error) {
	w, err := opts.Weights.resolve()
	if err != nil {
		return 0, err
	}
	if err := CheckLength(len(ref), len(hyp), opts.MaxLength); err != nil {
		return 0, err
	}

	// Transforming hyp into ref swaps the roles of insertion and deletion.
	if len(hyp) > len(ref) {
		ref, hyp = hyp, ref
		w.Insert, w.Delete = w.Delete, w.Insert
	}

	m := len(hyp)
	prev := make([]int, m+1)
	curr := make([]int, m+1)
	for j := 1; j <= m; j++ {
		prev[j] = j * w.Insert
	}

	for i := 1; i <= len(ref); i++ {
		curr[0] = i * w.Delete
		for j := 1; j <= m; j++ {
			diag := prev[j-1]
			if ref[i-1] != hyp[j-1] {
				diag += w.Substitute
			}
			curr[j] = min(diag, prev[j]+w.Delete, curr[j-1]+w.Insert)
		}
		prev, curr = curr, prev
	}

	return prev[m], nil
}
