package cli

import (
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"
	"unicode/utf8"

	"golang.org/x/term"
)

const columnGap = 2

var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*m`)

// Table buffers rows and prints them column-aligned on Flush.
// Columns are shrunk (widest first) to fit the terminal width; cells that
// no longer fit are truncated with "~". Empty tables produce no output.
type Table struct {
	out     io.Writer
	headers []string
	rows    [][]string
	prefix  string
	width   int
}

// NewTable creates a table with the given column headers writing to stdout.
func NewTable(headers ...string) *Table {
	width := 0
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		width = w
	}
	return &Table{out: os.Stdout, headers: headers, width: width}
}

// WithWriter redirects output and disables terminal width capping.
func (t *Table) WithWriter(w io.Writer) *Table {
	t.out = w
	t.width = 0
	return t
}

// WithPrefix sets a string prepended to each line (headers, divider, rows).
func (t *Table) WithPrefix(prefix string) *Table {
	t.prefix = prefix
	return t
}

// Row adds a row. Missing trailing values print as empty cells.
func (t *Table) Row(values ...string) {
	row := make([]string, len(t.headers))
	copy(row, values)
	t.rows = append(t.rows, row)
}

// Flush writes the table. If no rows were added, nothing is printed.
func (t *Table) Flush() {
	if len(t.rows) == 0 {
		return
	}

	widths := make([]int, len(t.headers))
	for i, h := range t.headers {
		widths[i] = visualLen(h)
	}
	for _, row := range t.rows {
		for i, cell := range row {
			if n := visualLen(cell); n > widths[i] {
				widths[i] = n
			}
		}
	}
	if t.width > 0 {
		widths = capWidths(widths, t.headers, t.width, visualLen(t.prefix))
	}

	dividers := make([]string, len(t.headers))
	for i, h := range t.headers {
		dividers[i] = strings.Repeat("-", visualLen(h))
	}

	t.writeLine(t.headers, widths)
	t.writeLine(dividers, widths)
	for _, row := range t.rows {
		t.writeLine(row, widths)
	}
}

func (t *Table) writeLine(cells []string, widths []int) {
	var b strings.Builder
	b.WriteString(t.prefix)
	for i, cell := range cells {
		cell = truncateCell(cell, widths[i])
		b.WriteString(cell)
		if i < len(cells)-1 {
			b.WriteString(strings.Repeat(" ", widths[i]-visualLen(cell)+columnGap))
		}
	}
	fmt.Fprintln(t.out, b.String())
}

// capWidths reduces the widest column one step at a time until the total
// fits in termWidth. No column is reduced below its header length.
func capWidths(widths []int, headers []string, termWidth, prefix int) []int {
	out := make([]int, len(widths))
	copy(out, widths)

	total := func() int {
		sum := prefix + columnGap*(len(out)-1)
		for _, w := range out {
			sum += w
		}
		return sum
	}

	for total() > termWidth {
		widest := -1
		for i, w := range out {
			if w <= visualLen(headers[i]) {
				continue
			}
			if widest < 0 || w > out[widest] {
				widest = i
			}
		}
		if widest < 0 {
			break
		}
		out[widest]--
	}
	return out
}

// truncateCell shortens s to width runes, marking the cut with "~".
// Cells containing ANSI codes are returned unchanged when they fit.
func truncateCell(s string, width int) string {
	if visualLen(s) <= width {
		return s
	}
	plain := []rune(ansiPattern.ReplaceAllString(s, ""))
	if width <= 1 {
		return string(plain[:width])
	}
	return string(plain[:width-1]) + "~"
}

func visualLen(s string) int {
	return utf8.RuneCountInString(ansiPattern.ReplaceAllString(s, ""))
}
