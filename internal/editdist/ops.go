package editdist

import "fmt"

// Kind identifies a single alignment step.
type Kind int

const (
	Match Kind = iota
	Substitution
	Insertion
	Deletion
)

func (k Kind) String() string {
	switch k {
	case Match:
		return "match"
	case Substitution:
		return "substitution"
	case Insertion:
		return "insertion"
	case Deletion:
		return "deletion"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// MarshalText encodes the kind by name so JSON output stays readable.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Op is one step of an alignment path. RefIndex is -1 for insertions and
// HypIndex is -1 for deletions.
type Op struct {
	Kind     Kind `json:"kind"`
	RefIndex int  `json:"ref_index"`
	HypIndex int  `json:"hyp_index"`
}

// Counts tallies the operations of a trace by kind.
type Counts struct {
	Matches       int `json:"matches"`
	Substitutions int `json:"substitutions"`
	Insertions    int `json:"insertions"`
	Deletions     int `json:"deletions"`
}

// Errors returns the number of non-match operations.
func (c Counts) Errors() int {
	return c.Substitutions + c.Insertions + c.Deletions
}

// Tally counts the operations in trace.
func Tally(trace []Op) Counts {
	var c Counts
	for _, op := range trace {
		switch op.Kind {
		case Match:
			c.Matches++
		case Substitution:
			c.Substitutions++
		case Insertion:
			c.Insertions++
		case Deletion:
			c.Deletions++
		}
	}
	return c
}
