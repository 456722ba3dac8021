package world

import (
	"errors"
	"fmt"

	"github.com/Faultbox/midgard-stride/internal/physics"
	"github.com/Faultbox/midgard-stride/pkg/math"
)

// ErrInvalidHeightfield is returned for heightfields that cannot be sampled.
var ErrInvalidHeightfield = errors.New("world: invalid heightfield")

// Heightfield is terrain given as a grid of corner heights. Heights[x][z]
// is the height of the corner at Origin + (x*CellSize, 0, z*CellSize).
// Terrain is solid below the surface and absent outside the grid.
type Heightfield struct {
	Origin   math.Vec3
	CellSize float32
	Heights  [][]float32
	Mask     physics.Mask

	cornersX int
	cornersZ int
}

// NewHeightfield validates the grid and returns a heightfield collider.
func NewHeightfield(origin math.Vec3, cellSize float32, heights [][]float32, layer physics.Mask) (*Heightfield, error) {
	if cellSize <= 0 {
		return nil, fmt.Errorf("%w: cell size %v", ErrInvalidHeightfield, cellSize)
	}
	if len(heights) < 2 {
		return nil, fmt.Errorf("%w: need at least 2 columns, got %d", ErrInvalidHeightfield, len(heights))
	}
	rows := len(heights[0])
	if rows < 2 {
		return nil, fmt.Errorf("%w: need at least 2 rows, got %d", ErrInvalidHeightfield, rows)
	}
	for x, col := range heights {
		if len(col) != rows {
			return nil, fmt.Errorf("%w: column %d has %d rows, want %d", ErrInvalidHeightfield, x, len(col), rows)
		}
	}
	return &Heightfield{
		Origin:   origin,
		CellSize: cellSize,
		Heights:  heights,
		Mask:     layer,
		cornersX: len(heights),
		cornersZ: rows,
	}, nil
}

// HeightfieldFromFunc samples f at every grid corner. f receives world X/Z.
func HeightfieldFromFunc(origin math.Vec3, cellSize float32, cellsX, cellsZ int, layer physics.Mask, f func(x, z float32) float32) (*Heightfield, error) {
	heights := make([][]float32, cellsX+1)
	for x := range cellsX + 1 {
		heights[x] = make([]float32, cellsZ+1)
		for z := range cellsZ + 1 {
			wx := origin.X + float32(x)*cellSize
			wz := origin.Z + float32(z)*cellSize
			heights[x][z] = f(wx, wz)
		}
	}
	return NewHeightfield(origin, cellSize, heights, layer)
}

// Layer returns the terrain's layer.
func (h *Heightfield) Layer() physics.Mask { return layerOr(h.Mask) }

// Covers reports whether the world X/Z position lies over the grid.
func (h *Heightfield) Covers(x, z float32) bool {
	fx := (x - h.Origin.X) / h.CellSize
	fz := (z - h.Origin.Z) / h.CellSize
	return fx >= 0 && fz >= 0 && fx <= float32(h.cornersX-1) && fz <= float32(h.cornersZ-1)
}

// HeightAt returns the bilinearly interpolated surface height at a world
// position. Positions outside the grid are clamped to its edge.
func (h *Heightfield) HeightAt(x, z float32) float32 {
	cellFX := (x - h.Origin.X) / h.CellSize
	cellFZ := (z - h.Origin.Z) / h.CellSize

	cellX := int(cellFX)
	cellZ := int(cellFZ)
	if cellX < 0 {
		cellX = 0
	}
	if cellZ < 0 {
		cellZ = 0
	}
	if cellX > h.cornersX-2 {
		cellX = h.cornersX - 2
	}
	if cellZ > h.cornersZ-2 {
		cellZ = h.cornersZ - 2
	}

	fracX := math.Clamp01(cellFX - float32(cellX))
	fracZ := math.Clamp01(cellFZ - float32(cellZ))

	sw := h.Heights[cellX][cellZ]
	se := h.Heights[cellX+1][cellZ]
	nw := h.Heights[cellX][cellZ+1]
	ne := h.Heights[cellX+1][cellZ+1]

	south := sw*(1-fracX) + se*fracX
	north := nw*(1-fracX) + ne*fracX
	return h.Origin.Y + south*(1-fracZ) + north*fracZ
}

// NormalAt returns the surface normal from central differences.
func (h *Heightfield) NormalAt(x, z float32) math.Vec3 {
	e := h.CellSize * 0.25
	dx := (h.HeightAt(x+e, z) - h.HeightAt(x-e, z)) / (2 * e)
	dz := (h.HeightAt(x, z+e) - h.HeightAt(x, z-e)) / (2 * e)
	return math.Vec3{X: -dx, Y: 1, Z: -dz}.Normalize()
}

// gap is the clearance of a sphere above the local tangent plane.
func (h *Heightfield) gap(center math.Vec3, radius float32) (float32, math.Vec3) {
	n := h.NormalAt(center.X, center.Z)
	return (center.Y-h.HeightAt(center.X, center.Z))*n.Y - radius, n
}

// Cast marches the sphere along r in quarter-cell steps and refines the
// first crossing by bisection.
func (h *Heightfield) Cast(r Ray, radius, maxDistance float32) (physics.Hit, bool) {
	if !h.Covers(r.Origin.X, r.Origin.Z) {
		return physics.Hit{}, false
	}
	g, n := h.gap(r.Origin, radius)
	if g <= 0 {
		if radius == 0 {
			return physics.Hit{}, false
		}
		return physics.Hit{Point: r.Origin.Sub(n.Scale(radius)), Normal: n, Layer: h.Layer()}, true
	}

	step := h.CellSize * 0.25
	prev := float32(0)
	for t := step; prev < maxDistance; t += step {
		if t > maxDistance {
			t = maxDistance
		}
		p := r.At(t)
		if !h.Covers(p.X, p.Z) {
			return physics.Hit{}, false
		}
		if g, _ := h.gap(p, radius); g <= 0 {
			lo, hi := prev, t
			for range 12 {
				mid := (lo + hi) * 0.5
				if g, _ := h.gap(r.At(mid), radius); g <= 0 {
					hi = mid
				} else {
					lo = mid
				}
			}
			at := r.At(hi)
			n := h.NormalAt(at.X, at.Z)
			return physics.Hit{Distance: hi, Point: at.Sub(n.Scale(radius)), Normal: n, Layer: h.Layer()}, true
		}
		prev = t
	}
	return physics.Hit{}, false
}

// Penetration reports overlap of a sphere with the terrain below it.
func (h *Heightfield) Penetration(center math.Vec3, radius float32) (float32, math.Vec3, bool) {
	if !h.Covers(center.X, center.Z) {
		return 0, math.Vec3{}, false
	}
	g, n := h.gap(center, radius)
	if g >= 0 {
		return 0, math.Vec3{}, false
	}
	return -g, n, true
}
