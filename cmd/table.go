package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"
)

// maxColumnWidth caps a column; longer cells are truncated with an ellipsis.
const maxColumnWidth = 40

// writeTable prints rows under headers with columns padded to their widest
// cell by display width, so labels with wide runes stay aligned.
func writeTable(w io.Writer, headers []string, rows [][]string) {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = runewidth.StringWidth(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if i < len(widths) {
				widths[i] = max(widths[i], min(runewidth.StringWidth(cell), maxColumnWidth))
			}
		}
	}

	writeRow(w, headers, widths)
	rule := make([]string, len(widths))
	for i, n := range widths {
		rule[i] = strings.Repeat("-", n)
	}
	writeRow(w, rule, widths)
	for _, row := range rows {
		writeRow(w, row, widths)
	}
}

func writeRow(w io.Writer, cells []string, widths []int) {
	parts := make([]string, len(widths))
	for i := range widths {
		var cell string
		if i < len(cells) {
			cell = runewidth.Truncate(cells[i], widths[i], "…")
		}
		if i == len(widths)-1 {
			parts[i] = cell
		} else {
			parts[i] = runewidth.FillRight(cell, widths[i])
		}
	}
	fmt.Fprintln(w, strings.TrimRight(strings.Join(parts, "  "), " "))
}
