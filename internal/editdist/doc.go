// Package editdist computes weighted minimum edit distances between two
// token sequences and, on request, the operation trace that realizes them.
//
// Align fills the full (|ref|+1)x(|hyp|+1) cost table and backtracks to a
// forward-ordered trace of Match, Substitution, Insertion and Deletion
// operations. When costs tie during backtracking the diagonal step
// (Match/Substitution) wins over Deletion, which wins over Insertion, so the
// trace for a given input is always the same.
//
// Distance keeps only two rows of the table and is the path to use when no
// trace is needed. Both functions are quadratic in time; character-level
// comparisons of long transcripts are the usual bottleneck, so callers can set
// Options.MaxLength to reject oversize input before any table is allocated.
package editdist
