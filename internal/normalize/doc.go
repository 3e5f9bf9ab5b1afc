// Package normalize turns raw transcript text into comparable token sequences.
//
// The pipeline runs in a fixed order: optional accent stripping (followed by
// the gender-postfix heuristic), optional punctuation removal with whitespace
// collapsing, lowercasing, and finally tokenization into words or individual
// runes. Character mode tokenizes the whole normalized string, spaces
// included, not the words one by one.
//
// The gender-postfix rule rewrites a word-final "a" to "e". It is a
// best-effort pass that only helps with a narrow family of Romance word forms
// and produces wrong results for many others ("data" becomes "date"). It runs
// only when accent stripping is requested and is deliberately kept to exactly
// that rule.
//
// Every function here is pure; equal input and options always produce equal
// output.
package normalize
