package ebitenview

import (
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// pulse oscillates a value between lo and hi, easing each half period.
// Drives the loading overlay and the selection outline.
type pulse struct {
	lo, hi float32
	half   float32
	rising bool
	tween  *gween.Tween
	value  float32
}

func newPulse(lo, hi, period float32) *pulse {
	p := &pulse{lo: lo, hi: hi, half: period / 2, rising: true, value: lo}
	p.tween = gween.New(lo, hi, p.half, ease.InOutSine)
	return p
}

// Update advances the pulse by dt seconds and returns the current value.
func (p *pulse) Update(dt float32) float32 {
	val, finished := p.tween.Update(dt)
	p.value = val
	if finished {
		p.rising = !p.rising
		if p.rising {
			p.tween = gween.New(p.lo, p.hi, p.half, ease.InOutSine)
		} else {
			p.tween = gween.New(p.hi, p.lo, p.half, ease.InOutSine)
		}
	}
	return p.value
}

// Reset restarts the pulse at lo.
func (p *pulse) Reset() {
	p.rising = true
	p.value = p.lo
	p.tween = gween.New(p.lo, p.hi, p.half, ease.InOutSine)
}

// Value returns the last computed value.
func (p *pulse) Value() float32 {
	return p.value
}
