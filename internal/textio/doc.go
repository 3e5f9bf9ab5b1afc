// Package textio loads transcript files from disk.
//
// Files may use any WHATWG-labelled charset. Lines are trimmed and joined
// with single spaces so multi-line transcripts score like one utterance.
package textio
