//go:build !nogui

package gui

import (
	"image/color"
	"strconv"
	"strings"

	"logviewer/internal/highlight"

	"fyne.io/fyne/v2/widget"
)

var (
	markedBackground = color.NRGBA{R: 255, G: 236, B: 139, A: 255}

	palette = map[highlight.Style]color.Color{
		highlight.Keyword:   color.NRGBA{R: 0, G: 0, B: 128, A: 255},
		highlight.Class:     color.NRGBA{R: 128, G: 0, B: 128, A: 255},
		highlight.Comment:   color.NRGBA{R: 192, G: 0, B: 0, A: 255},
		highlight.Quotation: color.NRGBA{R: 0, G: 128, B: 0, A: 255},
		highlight.Function:  color.NRGBA{R: 0, G: 0, B: 255, A: 255},
	}
)

// parseHex reads "#rrggbb". Anything else yields nil.
func parseHex(s string) color.Color {
	if len(s) != 7 || !strings.HasPrefix(s, "#") {
		return nil
	}
	v, err := strconv.ParseUint(s[1:], 16, 32)
	if err != nil {
		return nil
	}
	return color.NRGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 255}
}

func spanColor(sp highlight.Span) color.Color {
	if c := parseHex(sp.Color); c != nil {
		return c
	}
	return palette[sp.Style]
}

// gridRows turns document blocks into text grid rows, one cell per rune.
func gridRows(blocks []highlight.Block) []widget.TextGridRow {
	rows := make([]widget.TextGridRow, len(blocks))
	for i, b := range blocks {
		rows[i] = gridRow(b)
	}
	return rows
}

func gridRow(b highlight.Block) widget.TextGridRow {
	var bg color.Color
	if b.Marked {
		bg = markedBackground
	}
	plain := &widget.CustomTextGridStyle{BGColor: bg}

	cells := make([]widget.TextGridCell, 0, len(b.Text))
	spans := b.Spans
	for offset, r := range b.Text {
		for len(spans) > 0 && spans[0].End <= offset {
			spans = spans[1:]
		}
		var style widget.TextGridStyle = plain
		if len(spans) > 0 && spans[0].Start <= offset {
			style = &widget.CustomTextGridStyle{FGColor: spanColor(spans[0]), BGColor: bg}
		}
		cells = append(cells, widget.TextGridCell{Rune: r, Style: style})
	}
	if b.Marked && len(cells) == 0 {
		cells = append(cells, widget.TextGridCell{Rune: ' ', Style: plain})
	}
	return widget.TextGridRow{Cells: cells}
}
