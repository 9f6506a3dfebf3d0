package scene

import (
	"github.com/T-Dawg138/rg3d/core"
	"github.com/T-Dawg138/rg3d/math"
)

type LightType int

const (
	LightDirectional LightType = iota
	LightPoint
	LightSpot
)

// Light is a single light source. Fields that do not apply to a type are
// ignored: directional lights use Direction only, point lights Position and
// Radius, spot lights all of them plus the cone angles.
type Light struct {
	Type      LightType
	Position  math.Vec3
	Direction math.Vec3
	Color     core.Color
	Intensity float32

	// Radius is the falloff distance for point and spot lights. Fragments
	// beyond it receive no contribution.
	Radius float32

	// Cone angles in radians, half-angle at full intensity and at zero.
	// Only meaningful for spot lights; InnerAngle <= OuterAngle.
	InnerAngle float32
	OuterAngle float32

	CastShadows bool
}

// NewDirectionalLight creates a light shining along dir.
func NewDirectionalLight(dir math.Vec3, color core.Color, intensity float32) *Light {
	return &Light{
		Type:      LightDirectional,
		Direction: dir.Normalize(),
		Color:     color,
		Intensity: intensity,
	}
}

// NewPointLight creates an omnidirectional light at pos with the given
// falloff radius.
func NewPointLight(pos math.Vec3, color core.Color, intensity, radius float32) *Light {
	return &Light{
		Type:      LightPoint,
		Position:  pos,
		Color:     color,
		Intensity: intensity,
		Radius:    radius,
	}
}

// NewSpotLight creates a cone light at pos shining along dir. inner and
// outer are half-angles in radians.
func NewSpotLight(pos, dir math.Vec3, color core.Color, intensity, radius, inner, outer float32) *Light {
	if inner > outer {
		inner = outer
	}
	return &Light{
		Type:       LightSpot,
		Position:   pos,
		Direction:  dir.Normalize(),
		Color:      color,
		Intensity:  intensity,
		Radius:     radius,
		InnerAngle: inner,
		OuterAngle: outer,
	}
}
