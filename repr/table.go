package repr

import (
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/wippyai/rsl/errors"
	"github.com/wippyai/rsl/introspect"
)

var tableHeader = []string{"MEMBER", "TYPE", "OFFSET", "SIZE", "ALIGN"}

// Table writes sum as an aligned member table:
//
//	geo.Point  size 16 align 8
//	MEMBER  TYPE     OFFSET  SIZE  ALIGN
//	X       float64  0       8     8
//	Y       float64  8       8     8
//
// Column widths are measured in terminal cells.
func Table(w io.Writer, sum introspect.Summary, opts ...Option) error {
	o := buildOptions(opts)
	pal := newPalette(w, o.Color)

	rows := [][]string{tableHeader}
	for _, m := range sum.Members {
		name := m.Name
		if name == introspect.NameUnavailable {
			name = "-"
		}
		if m.Embedded {
			name += " (embedded)"
		}
		rows = append(rows, []string{
			name,
			m.Type,
			strconv.FormatUint(uint64(m.Offset), 10),
			strconv.FormatUint(uint64(m.Size), 10),
			strconv.FormatUint(uint64(m.Align), 10),
		})
	}

	widths := make([]int, len(tableHeader))
	for _, row := range rows {
		for i, cell := range row {
			widths[i] = max(widths[i], runewidth.StringWidth(cell))
		}
	}

	var b strings.Builder
	b.WriteString(pal.render(pal.typ.Bold(true), sum.Name))
	b.WriteString("  size ")
	b.WriteString(strconv.FormatUint(uint64(sum.Size), 10))
	b.WriteString(" align ")
	b.WriteString(strconv.FormatUint(uint64(sum.Align), 10))
	b.WriteByte('\n')

	for r, row := range rows {
		for i, cell := range row {
			style := cellStyle(pal, r, i)
			if i == len(row)-1 {
				b.WriteString(pal.render(style, cell))
				continue
			}
			b.WriteString(pal.render(style, runewidth.FillRight(cell, widths[i])))
			b.WriteString("  ")
		}
		b.WriteByte('\n')
	}

	if _, err := io.WriteString(w, b.String()); err != nil {
		return errors.Wrap(errors.PhaseRender, errors.KindInvalidData, err, "write table")
	}
	return nil
}

func cellStyle(pal palette, row, col int) lipgloss.Style {
	switch {
	case row == 0:
		return pal.keyword
	case col == 0:
		return pal.member
	case col == 1:
		return pal.typ
	default:
		return pal.number
	}
}
