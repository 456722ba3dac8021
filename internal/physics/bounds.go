package physics

import (
	"github.com/Faultbox/midgard-stride/pkg/math"
)

// Bounds is an axis-aligned bounding box in world space.
type Bounds struct {
	Min math.Vec3
	Max math.Vec3
}

// NewBounds creates bounds from two corners, ordering each axis so that
// Min <= Max.
func NewBounds(a, b math.Vec3) Bounds {
	box := Bounds{Min: a, Max: b}
	if box.Min.X > box.Max.X {
		box.Min.X, box.Max.X = box.Max.X, box.Min.X
	}
	if box.Min.Y > box.Max.Y {
		box.Min.Y, box.Max.Y = box.Max.Y, box.Min.Y
	}
	if box.Min.Z > box.Max.Z {
		box.Min.Z, box.Max.Z = box.Max.Z, box.Min.Z
	}
	return box
}

// BoundsFromCenter creates bounds around center with the given full size.
func BoundsFromCenter(center, size math.Vec3) Bounds {
	half := size.Scale(0.5)
	return Bounds{Min: center.Sub(half), Max: center.Add(half)}
}

// Center returns the midpoint of the box.
func (b Bounds) Center() math.Vec3 {
	return b.Min.Add(b.Max).Scale(0.5)
}

// Size returns the full extent of the box on each axis.
func (b Bounds) Size() math.Vec3 {
	return b.Max.Sub(b.Min)
}

// Contains reports whether p lies inside or on the box.
func (b Bounds) Contains(p math.Vec3) bool {
	return p.X >= b.Min.X && p.X <= b.Max.X &&
		p.Y >= b.Min.Y && p.Y <= b.Max.Y &&
		p.Z >= b.Min.Z && p.Z <= b.Max.Z
}

// Expand grows the box by r on every side.
func (b Bounds) Expand(r float32) Bounds {
	d := math.Vec3{X: r, Y: r, Z: r}
	return Bounds{Min: b.Min.Sub(d), Max: b.Max.Add(d)}
}

// Translate moves the box by offset.
func (b Bounds) Translate(offset math.Vec3) Bounds {
	return Bounds{Min: b.Min.Add(offset), Max: b.Max.Add(offset)}
}
