// Package scoring derives Word Error Rate and Character Error Rate from the
// edit-distance engine.
//
// WER aligns whitespace-separated words and divides by the reference word
// count. CER retokenizes the normalized, joined reference and hypothesis into
// runes (spaces included) and divides by the reference rune count. Both use
// unit weights. A zero denominator is not an error at scoring time: the Score
// carries it and Rate reports ErrUndefinedRate so callers decide how to
// present an empty reference.
//
// Evaluate bundles both metrics with the word-level trace used for alignment
// reports, and Aggregate folds several scores into a corpus-level score.
package scoring
