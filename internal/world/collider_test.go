package world

import (
	gomath "math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/midgard-stride/internal/physics"
	"github.com/Faultbox/midgard-stride/pkg/math"
)

func TestPlaneSphereCast(t *testing.T) {
	ground := NewPlane(math.Vec3{}, math.Up, physics.LayerGround)
	r := Ray{Origin: math.Vec3{Y: 1}, Direction: math.Down}

	hit, ok := ground.Cast(r, 0.42, 0.66)
	require.True(t, ok)
	assert.InDelta(t, 0.58, hit.Distance, 1e-5)
	assert.Equal(t, math.Up, hit.Normal)
	assert.InDelta(t, 0, hit.Point.Y, 1e-5)
	assert.Equal(t, physics.LayerGround, hit.Layer)

	_, ok = ground.Cast(r, 0.42, 0.5)
	assert.False(t, ok, "out of reach")

	hit, ok = ground.Cast(Ray{Origin: math.Vec3{Y: 0.2}, Direction: math.Down}, 0.42, 1)
	require.True(t, ok, "overlap at start")
	assert.Equal(t, float32(0), hit.Distance)
}

func TestRampNormalAndArea(t *testing.T) {
	ramp := NewRamp(math.Vec3{}, 30, 4, 10, physics.LayerGround)

	hit, ok := ramp.Cast(Ray{Origin: math.Vec3{Y: 5, Z: 2}, Direction: math.Down}, 0, 10)
	require.True(t, ok)
	assert.InDelta(t, 5-2*gomath.Tan(gomath.Pi/6), hit.Distance, 1e-4)
	assert.InDelta(t, 30, math.Up.AngleDeg(hit.Normal), 1e-3)

	_, ok = ramp.Cast(Ray{Origin: math.Vec3{Y: 5, Z: -1}, Direction: math.Down}, 0, 10)
	assert.False(t, ok, "before the ramp")

	_, ok = ramp.Cast(Ray{Origin: math.Vec3{X: 3, Y: 5, Z: 2}, Direction: math.Down}, 0, 10)
	assert.False(t, ok, "beside the ramp")
}

func TestPlanePenetration(t *testing.T) {
	ground := NewPlane(math.Vec3{}, math.Up, 0)
	assert.Equal(t, physics.LayerDefault, ground.Layer())

	depth, n, ok := ground.Penetration(math.Vec3{Y: 0.3}, 0.5)
	require.True(t, ok)
	assert.InDelta(t, 0.2, depth, 1e-6)
	assert.Equal(t, math.Up, n)

	_, _, ok = ground.Penetration(math.Vec3{Y: 0.5}, 0.5)
	assert.False(t, ok, "touching is not overlapping")

	_, _, ok = ground.Penetration(math.Vec3{Y: -3}, 0.5)
	assert.False(t, ok, "far below the solid layer")
}

func TestBoxCastAndPenetration(t *testing.T) {
	step := NewBox(math.Vec3{X: -5, Z: 1}, math.Vec3{X: 5, Y: 0.25, Z: 3}, physics.LayerGround)

	hit, ok := step.Cast(Ray{Origin: math.Vec3{Y: 0.1, Z: 0.4}, Direction: math.Forward}, 0, 1)
	require.True(t, ok)
	assert.InDelta(t, 0.6, hit.Distance, 1e-5)
	assert.Equal(t, math.Vec3{Z: -1}, hit.Normal)

	_, ok = step.Cast(Ray{Origin: math.Vec3{Y: 0.4, Z: 0.4}, Direction: math.Forward}, 0, 1)
	assert.False(t, ok, "ray passes over the step")

	hit, ok = step.Cast(Ray{Origin: math.Vec3{Y: 2, Z: 2}, Direction: math.Down}, 0.5, 5)
	require.True(t, ok)
	assert.InDelta(t, 2-0.25-0.5, hit.Distance, 1e-5)
	assert.InDelta(t, 0.25, hit.Point.Y, 1e-5)

	depth, n, ok := step.Penetration(math.Vec3{Y: 0.5, Z: 2}, 0.5)
	require.True(t, ok)
	assert.InDelta(t, 0.25, depth, 1e-5)
	assert.Equal(t, math.Up, n)

	depth, n, ok = step.Penetration(math.Vec3{Y: 0.22, Z: 1.1}, 0.1)
	require.True(t, ok, "center inside")
	assert.Equal(t, math.Vec3{Y: 1}, n)
	assert.InDelta(t, 0.03+0.1, depth, 1e-5)
}

func TestHeightfield(t *testing.T) {
	_, err := NewHeightfield(math.Vec3{}, 0, [][]float32{{0, 0}, {0, 0}}, 0)
	assert.ErrorIs(t, err, ErrInvalidHeightfield)
	_, err = NewHeightfield(math.Vec3{}, 1, [][]float32{{0, 0}}, 0)
	assert.ErrorIs(t, err, ErrInvalidHeightfield)
	_, err = NewHeightfield(math.Vec3{}, 1, [][]float32{{0, 0}, {0}}, 0)
	assert.ErrorIs(t, err, ErrInvalidHeightfield)

	// Height equals world X
	hf, err := HeightfieldFromFunc(math.Vec3{}, 1, 4, 4, physics.LayerGround, func(x, z float32) float32 { return x })
	require.NoError(t, err)

	assert.InDelta(t, 1.5, hf.HeightAt(1.5, 2.2), 1e-5)
	assert.InDelta(t, 45, math.Up.AngleDeg(hf.NormalAt(2, 2)), 1e-3)
	assert.True(t, hf.Covers(4, 4))
	assert.False(t, hf.Covers(-0.1, 2))

	hit, ok := hf.Cast(Ray{Origin: math.Vec3{X: 2, Y: 5, Z: 2}, Direction: math.Down}, 0, 10)
	require.True(t, ok)
	assert.InDelta(t, 3, hit.Distance, 1e-3)

	_, ok = hf.Cast(Ray{Origin: math.Vec3{X: 2, Y: 5, Z: 2}, Direction: math.Down}, 0, 2)
	assert.False(t, ok, "out of reach")

	_, ok = hf.Cast(Ray{Origin: math.Vec3{X: 9, Y: 5, Z: 2}, Direction: math.Down}, 0, 10)
	assert.False(t, ok, "outside the grid")
}

func TestHeightfieldFlatSphereCast(t *testing.T) {
	hf, err := NewHeightfield(math.Vec3{Y: 1}, 2, [][]float32{{0, 0, 0}, {0, 0, 0}, {0, 0, 0}}, physics.LayerGround)
	require.NoError(t, err)

	hit, ok := hf.Cast(Ray{Origin: math.Vec3{X: 2, Y: 3, Z: 2}, Direction: math.Down}, 0.5, 5)
	require.True(t, ok)
	assert.InDelta(t, 1.5, hit.Distance, 1e-3)
	assert.InDelta(t, 1, hit.Point.Y, 1e-3)

	depth, n, ok := hf.Penetration(math.Vec3{X: 2, Y: 1.25, Z: 2}, 0.5)
	require.True(t, ok)
	assert.InDelta(t, 0.25, depth, 1e-4)
	assert.InDelta(t, 1, n.Y, 1e-5)
}

func TestWorldCastPicksClosestInMask(t *testing.T) {
	w := New(physics.StandardGravity)
	w.Add(
		NewPlane(math.Vec3{}, math.Up, physics.LayerGround),
		NewBox(math.Vec3{X: -1, Z: -1}, math.Vec3{X: 1, Y: 1, Z: 1}, physics.LayerGround),
		NewBox(math.Vec3{X: -1, Y: 2, Z: -1}, math.Vec3{X: 1, Y: 2.5, Z: 1}, physics.LayerTrigger),
	)

	hit, ok := w.Raycast(math.Vec3{Y: 5}, math.Down, 10, physics.LayerGround)
	require.True(t, ok)
	assert.InDelta(t, 4, hit.Distance, 1e-5, "box top, trigger ignored")

	hit, ok = w.Raycast(math.Vec3{Y: 5}, math.Down, 10, physics.MaskAll)
	require.True(t, ok)
	assert.InDelta(t, 2.5, hit.Distance, 1e-5)

	_, ok = w.Raycast(math.Vec3{Y: 5}, math.Vec3{}, 10, physics.MaskAll)
	assert.False(t, ok, "zero direction")

	hit, ok = w.SphereCast(math.Vec3{X: 5, Y: 1}, 0.42, math.Vec3{Y: -2}, 0.66, physics.LayerGround)
	require.True(t, ok, "direction is normalized")
	assert.InDelta(t, 0.58, hit.Distance, 1e-5)
	assert.InDelta(t, 0, hit.Point.Y, 1e-5)

	assert.Equal(t, physics.StandardGravity, w.Gravity())
	assert.Len(t, w.Colliders(), 3)
}
