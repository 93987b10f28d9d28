package tui

import (
	"strings"

	"github.com/charmbracelet/x/ansi"

	"github.com/jask/surveyboard/internal/modal"
)

// placeCenter draws card in the middle of base and returns where it landed.
func placeCenter(base, card string, width, height int) (string, modal.Rect) {
	lines := strings.Split(card, "\n")
	w, h := maxLineWidth(lines), len(lines)
	x := max((width-w)/2, 0)
	y := max((height-h)/2, 0)
	return overlayAt(fitCanvas(base, width, height), card, x, y, width, height), modal.Rect{X: x, Y: y, W: w, H: h}
}

// placeTopRight draws card against the top-right corner, one cell in.
func placeTopRight(base, card string, width, height int) string {
	lines := strings.Split(card, "\n")
	x := max(width-maxLineWidth(lines)-1, 0)
	return overlayAt(fitCanvas(base, width, height), card, x, 1, width, height)
}

func overlayAt(base, overlay string, x, y, width, height int) string {
	baseLines := splitToLines(base, height)
	overlayLines := splitToLines(overlay, 0)
	overlayWidth := maxLineWidth(overlayLines)
	for i, line := range overlayLines {
		row := y + i
		if row < 0 || row >= len(baseLines) {
			continue
		}
		target := padRightANSI(baseLines[row], width)
		left := ansi.Truncate(target, x, "")
		if lw := ansi.StringWidth(left); lw < x {
			left += strings.Repeat(" ", x-lw)
		}
		segment := padRightANSI(line, overlayWidth)
		right := dropColumns(target, x+ansi.StringWidth(segment))
		baseLines[row] = padRightANSI(left+segment+right, width)
	}
	return strings.Join(baseLines, "\n")
}

func fitCanvas(s string, width, height int) string {
	lines := splitToLines(s, height)
	for i := range lines {
		lines[i] = padRightANSI(lines[i], width)
	}
	return strings.Join(lines, "\n")
}

// splitToLines pads or cuts s to height lines; height 0 keeps every line.
func splitToLines(s string, height int) []string {
	lines := strings.Split(s, "\n")
	if height > 0 && len(lines) > height {
		lines = lines[:height]
	}
	for height > 0 && len(lines) < height {
		lines = append(lines, "")
	}
	return lines
}

func maxLineWidth(lines []string) int {
	widest := 0
	for _, line := range lines {
		widest = max(widest, ansi.StringWidth(line))
	}
	return widest
}

func dropColumns(s string, cols int) string {
	if cols <= 0 {
		return s
	}
	return strings.TrimPrefix(s, ansi.Truncate(s, cols, ""))
}

func padRightANSI(s string, width int) string {
	if width <= 0 {
		return s
	}
	s = ansi.Truncate(s, width, "")
	if w := ansi.StringWidth(s); w < width {
		return s + strings.Repeat(" ", width-w)
	}
	return s
}
