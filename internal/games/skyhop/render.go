package skyhop

import (
	"fmt"
	"math"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/vovakirdan/skyhop/internal/core"
	"github.com/vovakirdan/skyhop/internal/games/skyhop/sim"
)

// Biome is the backdrop of a height band.
type Biome struct {
	Name    string
	From    int // meters
	Tint    core.Color
	Accent  core.Color
	Ambient particleKind
	Glyph   rune
}

var biomes = []Biome{
	{Name: "Forest", From: 0, Tint: core.ColorGreen, Accent: core.ColorGreen, Ambient: particleLeaf, Glyph: '\''},
	{Name: "Sky", From: 3000, Tint: core.ColorSky, Accent: core.ColorWhite, Ambient: particleCloud, Glyph: '·'},
	{Name: "Space", From: 6500, Tint: core.ColorNight, Accent: core.ColorYellow, Ambient: particleStar, Glyph: '.'},
}

// BiomeAt returns the biome of a height in meters.
func BiomeAt(height int) Biome {
	b := biomes[0]
	for _, candidate := range biomes {
		if height >= candidate.From {
			b = candidate
		}
	}
	return b
}

// Rows reserved above the playfield.
const hudRows = 2

// Terminal cells are about twice as tall as wide.
const cellAspect = 2.0

// view maps world coordinates to screen cells.
type view struct {
	left, top     int
	width, height int
	cameraY       float64
	sx, sy        float64
}

func newView(dst *core.Screen, worldW, viewH, cameraY float64) view {
	h := max(dst.Height()-hudRows, 1)
	w := int(float64(h) * worldW / viewH * cellAspect)
	w = core.Clamp(w, 1, max(dst.Width()-2, 1))
	return view{
		left:    (dst.Width() - w) / 2,
		top:     hudRows,
		width:   w,
		height:  h,
		cameraY: cameraY,
		sx:      float64(w) / worldW,
		sy:      float64(h) / viewH,
	}
}

func (v view) col(x float64) int {
	return v.left + int(math.Floor(x*v.sx))
}

func (v view) row(y float64) int {
	return v.top + int(math.Floor((y-v.cameraY)*v.sy))
}

func (v view) visible(col, row int) bool {
	return col >= v.left && col < v.left+v.width && row >= v.top && row < v.top+v.height
}

func (v view) set(dst *core.Screen, col, row int, r rune, c core.Color) {
	if v.visible(col, row) {
		dst.SetColor(col, row, r, c)
	}
}

func (v view) text(dst *core.Screen, x, y float64, s string, c core.Color) {
	row := v.row(y)
	col := v.col(x) - len([]rune(s))/2
	for i, r := range []rune(s) {
		v.set(dst, col+i, row, r, c)
	}
}

// Render draws the run into dst.
func (g *Game) Render(dst *core.Screen) {
	s := g.sim
	wc := g.cfg.World
	v := newView(dst, wc.Width, wc.ViewHeight, s.Camera.Y)
	biome := BiomeAt(s.Height())

	g.drawBackdrop(dst, v, biome)
	g.drawPlatforms(dst, v)
	g.drawPickups(dst, v)
	g.drawParticles(dst, v)
	g.drawForecast(dst, v)
	g.drawActor(dst, v)
	for _, t := range g.overlay.texts {
		v.text(dst, t.x, t.y, t.text, t.color)
	}
	g.drawHUD(dst, biome)

	if m, ok := g.overlay.modal(); ok {
		drawModal(dst, m)
	} else if g.paused {
		dst.DrawTextCentered(dst.Height()/2, " PAUSED ", core.ColorYellow)
	}
}

// drawBackdrop scatters biome glyphs pinned to world rows so they scroll
// with the camera.
func (g *Game) drawBackdrop(dst *core.Screen, v view, b Biome) {
	for row := v.top; row < v.top+v.height; row++ {
		worldRow := int(math.Floor(v.cameraY*v.sy)) + row - v.top
		for col := v.left; col < v.left+v.width; col++ {
			if scatter(worldRow, col-v.left)%29 == 0 {
				dst.SetColor(col, row, b.Glyph, b.Tint)
			}
		}
	}
	if v.left > 0 {
		for row := v.top; row < v.top+v.height; row++ {
			dst.SetColor(v.left-1, row, '│', core.ColorGray)
			if v.left+v.width < dst.Width() {
				dst.SetColor(v.left+v.width, row, '│', core.ColorGray)
			}
		}
	}
}

func scatter(row, col int) uint32 {
	h := uint32(row)*2654435761 ^ uint32(col)*40503
	h ^= h >> 13
	h *= 0x5bd1e995
	return h ^ h>>15
}

func platformGlyph(p *sim.Platform) rune {
	if !p.Active {
		return '┄'
	}
	switch p.Kind {
	case sim.SurfaceCheckpoint:
		return '█'
	case sim.SurfaceIce:
		return '≈'
	case sim.SurfaceBounce:
		return '^'
	case sim.SurfaceFragile:
		return '░'
	default:
		return '▀'
	}
}

func (g *Game) drawPlatforms(dst *core.Screen, v view) {
	ref := g.sim.World.Checkpoint()
	for _, p := range g.sim.World.Platforms {
		row := v.row(p.Y)
		if row < v.top || row >= v.top+v.height {
			continue
		}
		color := p.Kind.Color()
		if !p.Active {
			color = core.ColorGray
		}
		glyph := platformGlyph(p)
		start, end := v.col(p.X), max(v.col(p.X+p.W), v.col(p.X)+1)
		for col := start; col < end; col++ {
			v.set(dst, col, row, glyph, color)
		}
		if p.ID == ref.ID && p.IsCheckpoint() {
			v.set(dst, start, row-1, '⚑', core.ColorGold)
		}
	}
}

func (g *Game) drawPickups(dst *core.Screen, v view) {
	for _, c := range g.sim.World.Collectibles {
		if !c.Active {
			continue
		}
		cx, cy := c.Rect().Center()
		if c.Kind == sim.CollectCurrency {
			v.set(dst, v.col(cx), v.row(cy), '•', core.ColorWater)
			continue
		}
		info := c.PowerUp.Info()
		v.set(dst, v.col(cx), v.row(cy), info.Glyph, info.Color)
	}
}

func (g *Game) drawParticles(dst *core.Screen, v view) {
	for _, p := range g.overlay.particles {
		glyph := '·'
		switch p.kind {
		case particleLeaf:
			glyph = '\''
		case particleCloud:
			glyph = '~'
		case particleStar:
			glyph = '*'
		default:
			if p.life > 0.6 {
				glyph = '∙'
			}
		}
		v.set(dst, v.col(p.x), v.row(p.y), glyph, p.color)
	}
}

// drawForecast shows the predicted path of the charging jump. Only the
// assisted preset has it.
func (g *Game) drawForecast(dst *core.Screen, v view) {
	if !g.cfg.Difficulty.Preview {
		return
	}
	a := g.sim.Actor
	dir, held, ok := a.Charging(g.input)
	if !ok {
		return
	}
	traj := sim.Forecast(a, dir, held, g.sim.World, g.cfg)
	for i, pt := range traj.Points {
		if i%2 == 1 && !pt.Landing && !pt.Bounce {
			continue
		}
		glyph, color := '·', core.ColorWhite
		switch {
		case pt.Landing:
			glyph, color = '×', core.ColorGold
		case pt.Bounce:
			glyph, color = '◦', core.ColorCyan
		}
		v.set(dst, v.col(pt.X), v.row(pt.Y), glyph, color)
	}
}

func (g *Game) drawActor(dst *core.Screen, v view) {
	a := g.sim.Actor
	cx, _ := a.Center()
	glyph := []rune(g.char.Glyph)
	r := '@'
	if len(glyph) > 0 {
		r = glyph[0]
	}
	color := core.ParseColor(g.char.Color)
	if a.HasPowerUp(sim.PowerUpShield) {
		v.set(dst, v.col(cx)-1, v.row(a.Y+a.H/2), '(', core.ColorCyan)
		v.set(dst, v.col(cx)+1, v.row(a.Y+a.H/2), ')', core.ColorCyan)
	}
	if a.BulletTime {
		color = core.ColorPurple
	}
	v.set(dst, v.col(cx), v.row(a.Y+a.H/2), r, color)
}

func (g *Game) drawHUD(dst *core.Screen, b Biome) {
	s := g.sim
	line := fmt.Sprintf("▲ %sm  best %sm  drops %s  next cp %sm  %s",
		humanize.Comma(int64(s.Height())),
		humanize.Comma(int64(s.Best)),
		humanize.Comma(int64(s.Collected)),
		humanize.Comma(int64(s.World.NextCheckpointHeight())),
		b.Name)
	if g.profile != nil {
		line += fmt.Sprintf("  record %sm", humanize.Comma(int64(g.profile.Record(g.mode.Preset))))
	}
	dst.DrawTextColor(0, 0, line, core.ColorWhite)

	var status strings.Builder
	if dir, held, ok := s.Actor.Charging(g.input); ok && !s.Actor.JumpCancelled() {
		ratio := sim.ChargeRatio(held, s.Actor.Stats().ChargeSpeed, g.cfg.Player.MaxCharge)
		status.WriteString(chargeBar(ratio, dir))
		status.WriteString("  ")
	} else if s.Actor.JumpCancelled() {
		status.WriteString("jump cancelled  ")
	}
	for _, kind := range sim.PowerUps() {
		if ms := s.Actor.PowerUps[kind]; ms > 0 {
			fmt.Fprintf(&status, "[%c %ds] ", kind.Info().Glyph, int(math.Ceil(ms/1000)))
		}
	}
	if s.Actor.BulletTime {
		status.WriteString("slow-mo ")
	}
	if s.OnCheckpoint() {
		status.WriteString("r: rebuild path ")
	}
	if g.overlay.flash != "" {
		status.WriteString(g.overlay.flash)
	}
	dst.DrawTextColor(0, 1, status.String(), core.ColorGray)
}

func chargeBar(ratio float64, dir int) string {
	const width = 10
	filled := core.Clamp(int(math.Round(ratio*width)), 0, width)
	arrow := "↑"
	switch dir {
	case -1:
		arrow = "↖"
	case 1:
		arrow = "↗"
	}
	return fmt.Sprintf("%s [%s%s]", arrow, strings.Repeat("█", filled), strings.Repeat("░", width-filled))
}

func drawModal(dst *core.Screen, m Modal) {
	hint := "enter to continue"
	w := max(len([]rune(m.Title)), len([]rune(m.Body)), len(hint)) + 4
	w = min(w, dst.Width())
	h := 6
	x := (dst.Width() - w) / 2
	y := (dst.Height() - h) / 2

	dst.DrawRect(core.NewRect(x, y, w, h), ' ', core.ColorDefault)
	dst.DrawBox(core.NewRect(x, y, w, h), core.ColorGold)
	dst.DrawTextCentered(y+1, m.Title, core.ColorGold)
	dst.DrawTextCentered(y+2, m.Body, core.ColorWhite)
	dst.DrawTextCentered(y+4, hint, core.ColorGray)
}
