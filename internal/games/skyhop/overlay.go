package skyhop

import (
	"math/rand"

	"github.com/vovakirdan/skyhop/internal/core"
)

// maxParticles caps the live particle count.
const maxParticles = 400

type particleKind uint8

const (
	particleBurst particleKind = iota
	particleLeaf
	particleCloud
	particleStar
)

type particle struct {
	kind   particleKind
	x, y   float64
	vx, vy float64
	life   float64
	color  core.Color
}

type floatingText struct {
	text  string
	x, y  float64
	vy    float64
	life  float64
	color core.Color
}

// Modal is a blocking message that pauses the run until dismissed.
type Modal struct {
	Title string
	Body  string
}

// overlay is the terminal-side Effects implementation: particles, floating
// texts and the modal queue. Everything is in world coordinates.
type overlay struct {
	NopEffects

	rng       *rand.Rand
	particles []particle
	texts     []floatingText
	modals    []Modal
	flash     string
	flashMs   float64
}

func newOverlay(seed int64) *overlay {
	return &overlay{rng: rand.New(rand.NewSource(seed))}
}

func (o *overlay) reset() {
	o.particles = o.particles[:0]
	o.texts = o.texts[:0]
	o.modals = nil
	o.flash = ""
	o.flashMs = 0
}

func (o *overlay) SpawnParticles(x, y float64, color core.Color, count int) {
	for range count {
		if len(o.particles) >= maxParticles {
			return
		}
		o.particles = append(o.particles, particle{
			kind:  particleBurst,
			x:     x,
			y:     y,
			vx:    (o.rng.Float64() - 0.5) * 4,
			vy:    (o.rng.Float64() - 0.5) * 4,
			life:  1,
			color: color,
		})
	}
}

func (o *overlay) ShowFloatingText(text string, x, y float64, color core.Color) {
	o.texts = append(o.texts, floatingText{text: text, x: x, y: y, vy: -2, life: 1, color: color})
}

func (o *overlay) ShowModal(title, body string) {
	o.modals = append(o.modals, Modal{Title: title, Body: body})
}

func (o *overlay) NotifyCheckpointReached() {
	o.flash = "checkpoint saved"
	o.flashMs = 2000
}

func (o *overlay) NotifyVictory() {
	o.flash = "summit reached"
	o.flashMs = 4000
}

// modal returns the modal on top of the queue.
func (o *overlay) modal() (Modal, bool) {
	if len(o.modals) == 0 {
		return Modal{}, false
	}
	return o.modals[0], true
}

func (o *overlay) dismiss() {
	if len(o.modals) > 0 {
		o.modals = o.modals[1:]
	}
}

// ambient spawns the biome decoration around the view.
func (o *overlay) ambient(b Biome, cameraY, width, viewHeight float64) {
	if len(o.particles) >= maxParticles {
		return
	}
	p := particle{kind: b.Ambient, color: b.Accent}
	switch b.Ambient {
	case particleLeaf:
		if o.rng.Float64() >= 0.05 {
			return
		}
		p.x = o.rng.Float64() * width
		p.y = cameraY - 10
		p.vx = (o.rng.Float64() - 0.5) * 2
		p.vy = o.rng.Float64()*2 + 1
		p.life = 2
	case particleCloud:
		if o.rng.Float64() >= 0.01 {
			return
		}
		p.x = -50
		p.y = cameraY + o.rng.Float64()*viewHeight
		p.vx = 1
		p.life = 4
	case particleStar:
		if o.rng.Float64() >= 0.1 {
			return
		}
		p.x = o.rng.Float64() * width
		p.y = cameraY + o.rng.Float64()*viewHeight
		p.life = 1.5
	default:
		return
	}
	o.particles = append(o.particles, p)
}

// update ages everything by dt nominal frames.
func (o *overlay) update(dt float64) {
	kept := o.particles[:0]
	for _, p := range o.particles {
		switch p.kind {
		case particleLeaf:
			p.x += p.vx * dt
			p.y += p.vy * dt
			p.life -= 0.01 * dt
		case particleCloud:
			p.x += p.vx * dt
			p.life -= 0.005 * dt
		case particleStar:
			p.life -= 0.02 * dt
		default:
			p.x += p.vx * dt
			p.y += p.vy * dt
			p.life -= 0.03 * dt
		}
		if p.life > 0 {
			kept = append(kept, p)
		}
	}
	o.particles = kept

	keptT := o.texts[:0]
	for _, t := range o.texts {
		t.y += t.vy * dt
		t.life -= 0.02 * dt
		if t.life > 0 {
			keptT = append(keptT, t)
		}
	}
	o.texts = keptT

	if o.flashMs > 0 {
		o.flashMs -= dt * 1000 / 60
		if o.flashMs <= 0 {
			o.flash = ""
		}
	}
}
