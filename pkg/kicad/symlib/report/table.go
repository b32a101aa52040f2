package report

import (
	"io"
	"strings"
	"unicode"

	"golang.org/x/text/width"
)

// Table is a boxed console table in the PrettyTable style:
//
//	+------+--------+
//	| Name | Status |
//	+------+--------+
//	|  R1  |   ✅   |
//	+------+--------+
//
// Cells are centered and measured in terminal columns, so wide glyphs such
// as emoji keep the borders aligned.
type Table struct {
	header []string
	rows   [][]string
}

// NewTable creates a table with the given column headers
func NewTable(header ...string) *Table {
	return &Table{header: header}
}

// AddRow appends a row. Missing cells render empty, extra cells are dropped.
func (t *Table) AddRow(cells ...string) {
	row := make([]string, len(t.header))
	copy(row, cells)
	t.rows = append(t.rows, row)
}

// WriteTo renders the table to w
func (t *Table) WriteTo(w io.Writer) (int64, error) {
	widths := make([]int, len(t.header))
	for i, h := range t.header {
		widths[i] = displayWidth(h)
	}
	for _, row := range t.rows {
		for i, cell := range row {
			if cw := displayWidth(cell); cw > widths[i] {
				widths[i] = cw
			}
		}
	}

	var b strings.Builder
	border := borderLine(widths)

	b.WriteString(border)
	writeRow(&b, t.header, widths)
	b.WriteString(border)
	for _, row := range t.rows {
		writeRow(&b, row, widths)
	}
	if len(t.rows) > 0 {
		b.WriteString(border)
	}

	n, err := io.WriteString(w, b.String())
	return int64(n), err
}

func borderLine(widths []int) string {
	var b strings.Builder
	b.WriteByte('+')
	for _, w := range widths {
		b.WriteString(strings.Repeat("-", w+2))
		b.WriteByte('+')
	}
	b.WriteByte('\n')
	return b.String()
}

func writeRow(b *strings.Builder, cells []string, widths []int) {
	b.WriteByte('|')
	for i, cell := range cells {
		pad := widths[i] - displayWidth(cell)
		left := pad / 2
		b.WriteString(strings.Repeat(" ", left+1))
		b.WriteString(cell)
		b.WriteString(strings.Repeat(" ", pad-left+1))
		b.WriteByte('|')
	}
	b.WriteByte('\n')
}

// displayWidth returns the number of terminal columns s occupies
func displayWidth(s string) int {
	n := 0
	for _, r := range s {
		n += runeWidth(r)
	}
	return n
}

func runeWidth(r rune) int {
	if r == 0x200D || (r >= 0xFE00 && r <= 0xFE0F) || unicode.Is(unicode.Mn, r) {
		return 0
	}
	switch width.LookupRune(r).Kind() {
	case width.EastAsianWide, width.EastAsianFullwidth:
		return 2
	default:
		return 1
	}
}
