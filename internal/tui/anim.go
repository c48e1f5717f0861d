package tui

import (
	"math"

	"github.com/charmbracelet/harmonica"
)

const animFPS = 30

// Critically damped so values settle in a few hundred milliseconds without
// overshooting past the target.
const (
	springFrequency = 10.0
	springDamping   = 1.0
)

const restEpsilon = 0.5

var slotSpring = harmonica.NewSpring(harmonica.FPS(animFPS), springFrequency, springDamping)

// slot interpolates one displayed KPI value toward its committed target.
// Retargeting mid-flight continues from the in-flight position; the first
// nonzero target a slot ever receives animates up from zero.
type slot struct {
	pos         float64
	vel         float64
	target      float64
	hasAnimated bool
}

func (s *slot) SetTarget(v float64) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		v = 0
	}
	if v == s.target {
		return
	}
	if !s.hasAnimated && v != 0 {
		s.pos, s.vel = 0, 0
		s.hasAnimated = true
	}
	s.target = v
}

// Step advances one frame and reports whether the slot is still moving.
func (s *slot) Step() bool {
	if s.AtRest() {
		s.pos, s.vel = s.target, 0
		return false
	}
	s.pos, s.vel = slotSpring.Update(s.pos, s.vel, s.target)
	return true
}

// AtRest scales its tolerance with the target so million-dollar values snap
// once the remaining gap is invisible, not once it shrinks below a dollar.
func (s *slot) AtRest() bool {
	tol := restEpsilon
	if scale := math.Abs(s.target) * 1e-3; scale > tol {
		tol = scale
	}
	return math.Abs(s.pos-s.target) < tol && math.Abs(s.vel) < tol*animFPS
}

// Display is the value currently on screen for this slot.
func (s *slot) Display() float64 { return s.pos }
