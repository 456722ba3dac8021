package world

import (
	gomath "math"

	"github.com/Faultbox/midgard-stride/internal/physics"
	"github.com/Faultbox/midgard-stride/pkg/math"
)

// Collider is static geometry the world can be queried against.
type Collider interface {
	// Layer returns the single layer bit the collider lives on.
	Layer() physics.Mask
	// Cast sweeps a sphere of the given radius along r. A zero radius is a
	// ray cast. A sphere that already overlaps the collider hits at
	// distance zero; a ray starting inside reports no hit.
	Cast(r Ray, radius, maxDistance float32) (physics.Hit, bool)
	// Penetration reports how deep a sphere overlaps the collider and the
	// unit direction that separates them.
	Penetration(center math.Vec3, radius float32) (depth float32, normal math.Vec3, ok bool)
}

func layerOr(m physics.Mask) physics.Mask {
	if m == 0 {
		return physics.LayerDefault
	}
	return m
}

// Rect is an axis-aligned area on the XZ plane.
type Rect struct {
	Min math.Vec2
	Max math.Vec2
}

// Contains reports whether p lies inside or on the rectangle.
func (r Rect) Contains(p math.Vec2) bool {
	return p.X >= r.Min.X && p.X <= r.Max.X && p.Y >= r.Min.Y && p.Y <= r.Max.Y
}

// defaultThickness is how far below a plane's surface it still counts as
// solid.
const defaultThickness = 1

// Plane is a one-sided plane, solid behind its normal. Area limits it to a
// patch when set.
type Plane struct {
	Point     math.Vec3
	Normal    math.Vec3
	Area      *Rect
	Thickness float32
	Mask      physics.Mask
}

// NewPlane returns an infinite plane through point.
func NewPlane(point, normal math.Vec3, layer physics.Mask) *Plane {
	return &Plane{Point: point, Normal: normal.Normalize(), Mask: layer}
}

// NewRamp returns a patch of plane that starts at base and rises along +Z
// at angleDeg over a horizontal run of length, width wide on X.
func NewRamp(base math.Vec3, angleDeg, width, length float32, layer physics.Mask) *Plane {
	rad := float64(angleDeg) * gomath.Pi / 180
	return &Plane{
		Point:  base,
		Normal: math.Vec3{Y: float32(gomath.Cos(rad)), Z: -float32(gomath.Sin(rad))},
		Area: &Rect{
			Min: math.Vec2{X: base.X - width/2, Y: base.Z},
			Max: math.Vec2{X: base.X + width/2, Y: base.Z + length},
		},
		Mask: layer,
	}
}

// Layer returns the plane's layer.
func (p *Plane) Layer() physics.Mask { return layerOr(p.Mask) }

func (p *Plane) thickness() float32 {
	if p.Thickness > 0 {
		return p.Thickness
	}
	return defaultThickness
}

func (p *Plane) inArea(pt math.Vec3) bool {
	return p.Area == nil || p.Area.Contains(pt.XZ())
}

// Cast sweeps a sphere against the front face.
func (p *Plane) Cast(r Ray, radius, maxDistance float32) (physics.Hit, bool) {
	s := r.Origin.Sub(p.Point).Dot(p.Normal)
	if radius > 0 && s < radius {
		foot := r.Origin.Sub(p.Normal.Scale(s))
		if s > -p.thickness() && p.inArea(foot) {
			return physics.Hit{Point: foot, Normal: p.Normal, Layer: p.Layer()}, true
		}
		return physics.Hit{}, false
	}

	// Sweeping the sphere is a ray cast against the plane offset by radius
	shifted := p.Point.Add(p.Normal.Scale(radius))
	t, ok := r.IntersectPlane(shifted, p.Normal)
	if !ok || t > maxDistance {
		return physics.Hit{}, false
	}
	contact := r.At(t).Sub(p.Normal.Scale(radius))
	if !p.inArea(contact) {
		return physics.Hit{}, false
	}
	return physics.Hit{Distance: t, Point: contact, Normal: p.Normal, Layer: p.Layer()}, true
}

// Penetration reports overlap of a sphere with the solid side.
func (p *Plane) Penetration(center math.Vec3, radius float32) (float32, math.Vec3, bool) {
	s := center.Sub(p.Point).Dot(p.Normal)
	if s >= radius || s <= -p.thickness() {
		return 0, math.Vec3{}, false
	}
	if !p.inArea(center.Sub(p.Normal.Scale(s))) {
		return 0, math.Vec3{}, false
	}
	return radius - s, p.Normal, true
}

// Box is a solid axis-aligned box: a wall, a crate or a stair step.
type Box struct {
	Bounds physics.Bounds
	Mask   physics.Mask
}

// NewBox returns a box spanning the two corners.
func NewBox(a, b math.Vec3, layer physics.Mask) *Box {
	return &Box{Bounds: physics.NewBounds(a, b), Mask: layer}
}

// Layer returns the box's layer.
func (b *Box) Layer() physics.Mask { return layerOr(b.Mask) }

// Cast sweeps a sphere against the box, treating the sphere as the box
// expanded by radius. Corners are therefore square rather than rounded.
func (b *Box) Cast(r Ray, radius, maxDistance float32) (physics.Hit, bool) {
	if radius > 0 {
		if _, n, ok := b.Penetration(r.Origin, radius); ok {
			return physics.Hit{Point: r.Origin.Sub(n.Scale(radius)), Normal: n, Layer: b.Layer()}, true
		}
	}
	t, n, ok := r.IntersectBounds(b.Bounds.Expand(radius))
	if !ok || t > maxDistance {
		return physics.Hit{}, false
	}
	return physics.Hit{
		Distance: t,
		Point:    r.At(t).Sub(n.Scale(radius)),
		Normal:   n,
		Layer:    b.Layer(),
	}, true
}

// Penetration pushes a sphere out through the nearest surface.
func (b *Box) Penetration(center math.Vec3, radius float32) (float32, math.Vec3, bool) {
	closest := math.Vec3{
		X: math.Clamp(center.X, b.Bounds.Min.X, b.Bounds.Max.X),
		Y: math.Clamp(center.Y, b.Bounds.Min.Y, b.Bounds.Max.Y),
		Z: math.Clamp(center.Z, b.Bounds.Min.Z, b.Bounds.Max.Z),
	}
	diff := center.Sub(closest)
	d := diff.Length()
	if d >= radius {
		return 0, math.Vec3{}, false
	}
	if d > 1e-6 {
		return radius - d, diff.Scale(1 / d), true
	}

	// Center is inside: leave through the closest face
	best := float32(gomath.MaxFloat32)
	var normal math.Vec3
	for i := 0; i < 3; i++ {
		c := axis(center, i)
		if lo := c - axis(b.Bounds.Min, i); lo < best {
			best, normal = lo, axisNormal(i, -1)
		}
		if hi := axis(b.Bounds.Max, i) - c; hi < best {
			best, normal = hi, axisNormal(i, 1)
		}
	}
	return best + radius, normal, true
}
