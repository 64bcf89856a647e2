package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/skyhop/internal/core"
)

// palette maps core.Color to ANSI 256-colour codes.
var palette = map[core.Color]string{
	core.ColorWhite:   "15",
	core.ColorGray:    "245",
	core.ColorGold:    "220",
	core.ColorBrown:   "130",
	core.ColorPink:    "205",
	core.ColorIce:     "159",
	core.ColorCrumble: "180",
	core.ColorWater:   "39",
	core.ColorRed:     "196",
	core.ColorGreen:   "34",
	core.ColorYellow:  "226",
	core.ColorCyan:    "51",
	core.ColorPurple:  "135",
	core.ColorOrange:  "208",
	core.ColorTeal:    "37",
	core.ColorSky:     "117",
	core.ColorNight:   "61",
}

// colorStyles maps core.Color to lipgloss styles.
var colorStyles = func() map[core.Color]lipgloss.Style {
	styles := map[core.Color]lipgloss.Style{core.ColorDefault: lipgloss.NewStyle()}
	for c, code := range palette {
		styles[c] = lipgloss.NewStyle().Foreground(lipgloss.Color(code))
	}
	return styles
}()

// RenderScreen converts a Screen buffer to a styled string for display.
// Groups adjacent cells with the same color to minimize ANSI escape sequences.
func RenderScreen(s *core.Screen) string {
	var sb strings.Builder
	// Pre-allocate with extra space for ANSI codes
	sb.Grow(s.Width()*s.Height()*2 + s.Height())

	var run strings.Builder
	for y := range s.Height() {
		if y > 0 {
			sb.WriteRune('\n')
		}

		x := 0
		for x < s.Width() {
			startColor := s.GetCell(x, y).Color

			run.Reset()
			for x < s.Width() {
				cell := s.GetCell(x, y)
				if cell.Color != startColor {
					break
				}
				run.WriteRune(cell.Rune)
				x++
			}

			style, ok := colorStyles[startColor]
			if !ok {
				style = colorStyles[core.ColorDefault]
			}
			sb.WriteString(style.Render(run.String()))
		}
	}
	return sb.String()
}
