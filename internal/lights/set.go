package lights

import (
	"Lumen3D/internal/logger"

	"go.uber.org/zap"
)

// Set is the bounded per-frame light collection. Descriptors are
// rebuilt from scene state each frame and stay immutable for the
// duration of one lighting pass.
type Set struct {
	Ambient     Ambient
	Directional []Directional
	Point       []Point
	Spot        []Spot
}

// NewSet returns an empty set with the given ambient term.
func NewSet(ambient Ambient) *Set {
	return &Set{Ambient: ambient}
}

// AddDirectional appends a directional light. Lights beyond MaxLights
// are dropped deterministically (highest index first) with a warning.
func (s *Set) AddDirectional(l Directional) bool {
	if len(s.Directional) >= MaxLights {
		warnDropped("directional", len(s.Directional))
		return false
	}
	s.Directional = append(s.Directional, l)
	return true
}

// AddPoint appends a point light, subject to the same cap.
func (s *Set) AddPoint(l Point) bool {
	if len(s.Point) >= MaxLights {
		warnDropped("point", len(s.Point))
		return false
	}
	s.Point = append(s.Point, l)
	return true
}

// AddSpot appends a spot light, subject to the same cap.
func (s *Set) AddSpot(l Spot) bool {
	if len(s.Spot) >= MaxLights {
		warnDropped("spot", len(s.Spot))
		return false
	}
	s.Spot = append(s.Spot, l)
	return true
}

// Reset clears all directional/point/spot lights, keeping the ambient
// term, so the set can be rebuilt for the next frame.
func (s *Set) Reset() {
	s.Directional = s.Directional[:0]
	s.Point = s.Point[:0]
	s.Spot = s.Spot[:0]
}

func warnDropped(kind string, index int) {
	if logger.Log == nil {
		return
	}
	logger.Log.Warn("light dropped: per-kind cap exceeded",
		zap.String("kind", kind),
		zap.Int("index", index),
		zap.Int("max", MaxLights))
}
