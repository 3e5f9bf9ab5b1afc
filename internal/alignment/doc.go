// Package alignment turns an edit-distance trace into position-aligned rows
// and formats them for display.
//
// Render produces one Row per trace operation; Project maps rows back onto
// the reference and hypothesis sides. Format writes rows as a go-pretty table
// (plain, markdown, HTML or CSV) or as a pairwise block that stacks the
// reference, an operation marker line and the hypothesis, padded to display
// width so CJK text lines up.
//
// Nothing here scores; the rows only describe the trace they were given.
package alignment
