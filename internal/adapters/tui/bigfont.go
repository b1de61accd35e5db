package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/xvierd/focus-cli/internal/domain"
)

// Seven-segment layout of a clock digit.
//
//	 aa
//	f  b
//	 gg
//	e  c
//	 dd
const (
	segA uint8 = 1 << iota
	segB
	segC
	segD
	segE
	segF
	segG
)

var digitSegments = [10]uint8{
	segA | segB | segC | segD | segE | segF,
	segB | segC,
	segA | segB | segG | segE | segD,
	segA | segB | segG | segC | segD,
	segF | segG | segB | segC,
	segA | segF | segG | segC | segD,
	segA | segF | segG | segE | segC | segD,
	segA | segB | segC,
	segA | segB | segC | segD | segE | segF | segG,
	segA | segB | segC | segD | segF | segG,
}

const (
	glyphRows = 5
	block     = "█"
)

// bigClockMinWidth is the narrowest terminal that gets the glyph clock.
const bigClockMinWidth = 40

// digitGlyph draws d as five rows, four cells wide.
func digitGlyph(d int) [glyphRows]string {
	on := func(s uint8) bool { return digitSegments[d]&s != 0 }
	cell := func(lit bool) string {
		if lit {
			return block
		}
		return " "
	}
	row := func(left, mid, right bool) string {
		return cell(left) + strings.Repeat(cell(mid), 2) + cell(right)
	}

	return [glyphRows]string{
		row(on(segA) || on(segF), on(segA), on(segA) || on(segB)),
		row(on(segF), false, on(segB)),
		row(on(segG) || (on(segF) && on(segE)), on(segG), on(segG) || (on(segB) && on(segC))),
		row(on(segE), false, on(segC)),
		row(on(segD) || on(segE), on(segD), on(segD) || on(segC)),
	}
}

// colonGlyph is the one cell separator between minutes and seconds.
var colonGlyph = [glyphRows]string{" ", block, " ", block, " "}

// renderClock draws seconds as MM:SS in block glyphs. Narrow terminals get a
// single bold line instead.
func renderClock(seconds int, color lipgloss.Color, width int) string {
	clock := domain.FormatClock(seconds)
	style := lipgloss.NewStyle().Bold(true).Foreground(color)
	if width < bigClockMinWidth {
		return style.Render(clock)
	}

	var rows [glyphRows]strings.Builder
	for i, ch := range clock {
		var glyph [glyphRows]string
		switch {
		case ch == ':':
			glyph = colonGlyph
		case ch >= '0' && ch <= '9':
			glyph = digitGlyph(int(ch - '0'))
		default:
			continue
		}
		for r := range rows {
			if i > 0 {
				rows[r].WriteByte(' ')
			}
			rows[r].WriteString(glyph[r])
		}
	}

	styled := make([]string, glyphRows)
	for r := range rows {
		styled[r] = style.Render(rows[r].String())
	}
	return strings.Join(styled, "\n")
}
