package cli

import (
	"bytes"
	"reflect"
	"strings"
	"testing"
)

func TestCapWidths_NoConstraint(t *testing.T) {
	widths := []int{5, 20, 10}
	headers := []string{"COL1", "COL2", "COL3"}
	got := capWidths(widths, headers, 80, 0)
	if !reflect.DeepEqual(got, widths) {
		t.Errorf("expected no change: got %v, want %v", got, widths)
	}
}

func TestCapWidths_ReducesWidest(t *testing.T) {
	// 5 + 60 + 10 + 2*2 = 79 → just over 78
	widths := []int{5, 60, 10}
	headers := []string{"NUM", "NAME", "STATUS"}
	got := capWidths(widths, headers, 78, 0)
	total := 0
	for _, w := range got {
		total += w
	}
	total += 2 * (len(got) - 1)
	if total > 78 {
		t.Errorf("total %d still exceeds 78; widths=%v", total, got)
	}
	if got[0] != widths[0] || got[2] != widths[2] {
		t.Errorf("only the widest column should shrink: got %v", got)
	}
}

func TestCapWidths_RespectsHeaderMinimum(t *testing.T) {
	widths := []int{4, 60}
	headers := []string{"NUM", "A-VERY-LONG-HEADER-NAME"}
	got := capWidths(widths, headers, 30, 2)
	if got[1] < len("A-VERY-LONG-HEADER-NAME") {
		t.Errorf("column 1 reduced below header minimum: got %d", got[1])
	}
}

func TestTruncateCell(t *testing.T) {
	tests := []struct {
		in    string
		width int
		want  string
	}{
		{"hello", 10, "hello"},
		{"hello", 5, "hello"},
		{"hello world", 6, "hello~"},
		{"\x1b[32mPASS\x1b[0m", 10, "\x1b[32mPASS\x1b[0m"},
		{"", 3, ""},
	}
	for _, tt := range tests {
		if got := truncateCell(tt.in, tt.width); got != tt.want {
			t.Errorf("truncateCell(%q, %d) = %q, want %q", tt.in, tt.width, got, tt.want)
		}
	}
}

func TestTable_Output(t *testing.T) {
	var buf bytes.Buffer
	tbl := NewTable("KEY", "ID", "NAME").WithWriter(&buf)
	tbl.Row("1", "N_100", "Branch Office")
	tbl.Row("2", "N_2", "HQ")
	tbl.Flush()

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected header, divider and 2 rows, got %d lines:\n%s", len(lines), buf.String())
	}
	if lines[0] != "KEY  ID     NAME" {
		t.Errorf("header = %q", lines[0])
	}
	if lines[1] != "---  --     ----" {
		t.Errorf("divider = %q", lines[1])
	}
	if lines[3] != "2    N_2    HQ" {
		t.Errorf("row = %q", lines[3])
	}
}

func TestTable_EmptyPrintsNothing(t *testing.T) {
	var buf bytes.Buffer
	NewTable("A", "B").WithWriter(&buf).Flush()
	if buf.Len() != 0 {
		t.Errorf("empty table wrote %q", buf.String())
	}
}
