package alignment

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"werscore/internal/editdist"
)

// Format names an output layout.
type Format string

const (
	FormatTable    Format = "table"
	FormatMarkdown Format = "markdown"
	FormatHTML     Format = "html"
	FormatCSV      Format = "csv"
	FormatPairwise Format = "pairwise"
)

// Formats lists the accepted layouts in display order.
func Formats() []Format {
	return []Format{FormatTable, FormatMarkdown, FormatHTML, FormatCSV, FormatPairwise}
}

// ParseFormat accepts a layout name; empty means table.
func ParseFormat(value string) (Format, error) {
	v := Format(strings.ToLower(strings.TrimSpace(value)))
	if v == "" {
		return FormatTable, nil
	}
	if v == "md" {
		return FormatMarkdown, nil
	}
	for _, f := range Formats() {
		if v == f {
			return f, nil
		}
	}
	return "", fmt.Errorf("unsupported alignment format %q", value)
}

// FormatOptions controls rendering.
type FormatOptions struct {
	Format Format
	// Color adds ANSI colors to table and pairwise output.
	Color bool
	// Width wraps pairwise blocks; zero means 100 columns.
	Width int
}

const defaultPairwiseWidth = 100

// Write renders rows in the requested layout.
func Write(rows []Row, opts FormatOptions) (string, error) {
	format := opts.Format
	if format == "" {
		format = FormatTable
	}
	switch format {
	case FormatPairwise:
		return renderPairwise(rows, opts), nil
	case FormatTable, FormatMarkdown, FormatHTML, FormatCSV:
		tw := newTableWriter(rows, opts.Color && format == FormatTable)
		switch format {
		case FormatMarkdown:
			return tw.RenderMarkdown(), nil
		case FormatHTML:
			tw.Style().HTML = table.HTMLOptions{
				CSSClass:    "werscore-alignment",
				EmptyColumn: "&nbsp;",
				EscapeText:  true,
				Newline:     "<br/>",
			}
			return tw.RenderHTML(), nil
		case FormatCSV:
			return tw.RenderCSV(), nil
		default:
			return tw.Render(), nil
		}
	default:
		return "", fmt.Errorf("unsupported alignment format %q", format)
	}
}

func newTableWriter(rows []Row, colorize bool) table.Writer {
	style := table.StyleRounded
	style.Format.Header = text.FormatDefault
	style.Format.Footer = text.FormatDefault

	tw := table.NewWriter()
	tw.SetStyle(style)
	tw.AppendHeader(table.Row{"#", "Op", "Reference", "Hypothesis"})

	for i, row := range rows {
		op := row.Kind.String()
		if colorize {
			op = kindColors(row.Kind).Sprint(op)
		}
		tw.AppendRow(table.Row{i + 1, op, row.Ref, row.Hyp})
	}

	counts := Summarize(rows)
	tw.AppendFooter(table.Row{
		"",
		"errors " + strconv.Itoa(counts.Errors()),
		fmt.Sprintf("S=%d D=%d", counts.Substitutions, counts.Deletions),
		fmt.Sprintf("I=%d", counts.Insertions),
	})

	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignRight, AlignHeader: text.AlignLeft},
		{Number: 2, Align: text.AlignLeft, AlignHeader: text.AlignLeft},
		{Number: 3, Align: text.AlignLeft, AlignHeader: text.AlignLeft},
		{Number: 4, Align: text.AlignLeft, AlignHeader: text.AlignLeft},
	})
	return tw
}

func kindColors(kind editdist.Kind) text.Colors {
	switch kind {
	case editdist.Substitution:
		return text.Colors{text.FgYellow}
	case editdist.Insertion:
		return text.Colors{text.FgGreen}
	case editdist.Deletion:
		return text.Colors{text.FgRed}
	default:
		return text.Colors{}
	}
}

func kindMarker(kind editdist.Kind) string {
	switch kind {
	case editdist.Substitution:
		return "S"
	case editdist.Insertion:
		return "I"
	case editdist.Deletion:
		return "D"
	default:
		return "|"
	}
}

// renderPairwise stacks reference, markers and hypothesis, one column per
// row, wrapping into blocks at opts.Width display columns.
func renderPairwise(rows []Row, opts FormatOptions) string {
	width := opts.Width
	if width <= 0 {
		width = defaultPairwiseWidth
	}

	var out strings.Builder
	var refLine, opLine, hypLine []string
	used := 0
	flush := func() {
		if len(refLine) == 0 {
			return
		}
		if out.Len() > 0 {
			out.WriteByte('\n')
		}
		out.WriteString("REF: " + strings.Join(refLine, " ") + "\n")
		out.WriteString("     " + strings.Join(opLine, " ") + "\n")
		out.WriteString("HYP: " + strings.Join(hypLine, " ") + "\n")
		refLine, opLine, hypLine = nil, nil, nil
		used = 0
	}

	for _, row := range rows {
		ref, hyp := row.Ref, row.Hyp
		cell := max(text.StringWidthWithoutEscSequences(ref), text.StringWidthWithoutEscSequences(hyp), 1)
		if row.Kind == editdist.Insertion {
			ref = strings.Repeat("*", cell)
		}
		if row.Kind == editdist.Deletion {
			hyp = strings.Repeat("*", cell)
		}
		if used > 0 && used+cell+1 > width {
			flush()
		}
		marker := text.AlignLeft.Apply(kindMarker(row.Kind), cell)
		if opts.Color {
			marker = kindColors(row.Kind).Sprint(marker)
		}
		refLine = append(refLine, text.AlignLeft.Apply(ref, cell))
		opLine = append(opLine, marker)
		hypLine = append(hypLine, text.AlignLeft.Apply(hyp, cell))
		used += cell + 1
	}
	flush()
	return out.String()
}
