// Package geom provides the small amount of 2D geometry the map builder needs.
package geom

import (
	"encoding/json"
	"fmt"
	"math"
)

// Vec2 is a point or direction in continuous space.
type Vec2 struct {
	X, Y float64
}

// V is a convenience constructor for Vec2.
func V(x, y float64) Vec2 {
	return Vec2{X: x, Y: y}
}

// Add returns v+o.
func (v Vec2) Add(o Vec2) Vec2 {
	return Vec2{v.X + o.X, v.Y + o.Y}
}

// Sub returns v-o.
func (v Vec2) Sub(o Vec2) Vec2 {
	return Vec2{v.X - o.X, v.Y - o.Y}
}

// Scale returns v scaled uniformly by s.
func (v Vec2) Scale(s float64) Vec2 {
	return Vec2{v.X * s, v.Y * s}
}

// Len returns the magnitude of v.
func (v Vec2) Len() float64 {
	return math.Hypot(v.X, v.Y)
}

// Normalize returns the unit vector of v, or the zero vector if v has no length.
func (v Vec2) Normalize() Vec2 {
	l := v.Len()
	if l == 0 {
		return Vec2{}
	}
	return Vec2{v.X / l, v.Y / l}
}

// Round rounds both components half away from zero.
func (v Vec2) Round() Vec2 {
	return Vec2{Round(v.X), Round(v.Y)}
}

// Round rounds x half away from zero. All room geometry is snapped to the
// pixel grid with this, exactly once, before it is used to index tiles.
func Round(x float64) float64 {
	return math.Round(x)
}

// String implements fmt.Stringer.
func (v Vec2) String() string {
	return fmt.Sprintf("(%g,%g)", v.X, v.Y)
}

// MarshalJSON encodes the vector as a two element array.
func (v Vec2) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]float64{v.X, v.Y})
}

// UnmarshalJSON decodes a two element array.
func (v *Vec2) UnmarshalJSON(b []byte) error {
	var pt [2]float64
	if err := json.Unmarshal(b, &pt); err != nil {
		return fmt.Errorf("point must be [x, y]: %w", err)
	}
	v.X, v.Y = pt[0], pt[1]
	return nil
}
