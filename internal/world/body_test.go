package world

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Faultbox/midgard-stride/internal/physics"
	"github.com/Faultbox/midgard-stride/pkg/math"
)

var capsule = math.Vec3{X: 1, Y: 2, Z: 1}

func TestBodySettlesOnGround(t *testing.T) {
	w := New(physics.StandardGravity)
	w.Add(NewPlane(math.Vec3{}, math.Up, physics.LayerGround))
	b := w.NewBody("crate", math.Vec3{Y: 1.5}, capsule, 1)

	for range 100 {
		w.Step(0.02)
	}

	assert.True(t, b.Grounded())
	assert.InDelta(t, 1, b.Position().Y, 1e-3)
	assert.InDelta(t, 0, b.Velocity().Y, 1e-3)
	assert.Len(t, w.Bodies(), 1)
}

func TestBodyDrag(t *testing.T) {
	w := New(physics.StandardGravity)
	b := w.NewBody("b", math.Vec3{}, capsule, 1)
	b.SetUseGravity(false)
	b.SetDrag(5)
	b.SetVelocity(math.Vec3{X: 10})

	w.Step(0.02)

	assert.InDelta(t, 9, b.Velocity().X, 1e-5)
	assert.InDelta(t, 0.18, b.Position().X, 1e-5)
	assert.False(t, b.Grounded())

	b.SetDrag(-1)
	assert.Equal(t, float32(0), b.Drag())

	// Drag never reverses velocity
	b.SetDrag(1000)
	w.Step(0.02)
	assert.Equal(t, math.Vec3{}, b.Velocity())
}

func TestBodyForceModes(t *testing.T) {
	tests := []struct {
		name string
		mode physics.ForceMode
		want float32
	}{
		{"continuous", physics.ForceContinuous, 1},
		{"impulse", physics.ForceImpulse, 2},
		{"velocity change", physics.ForceVelocityChange, 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := New(physics.StandardGravity)
			b := w.NewBody("b", math.Vec3{}, capsule, 2)
			b.SetUseGravity(false)

			b.AddForce(math.Vec3{X: 4}, tt.mode)
			w.Step(0.5)
			assert.InDelta(t, tt.want, b.Velocity().X, 1e-5)

			// Queued forces are consumed by the step
			w.Step(0.5)
			assert.InDelta(t, tt.want, b.Velocity().X, 1e-5)
		})
	}
}

func TestBodyGravityToggle(t *testing.T) {
	w := New(math.Vec3{Y: -10})
	b := w.NewBody("b", math.Vec3{}, capsule, 0)
	assert.True(t, b.UseGravity())

	w.Step(0.1)
	assert.InDelta(t, -1, b.Velocity().Y, 1e-5)

	b.SetUseGravity(false)
	w.Step(0.1)
	assert.InDelta(t, -1, b.Velocity().Y, 1e-5)
}

func TestDestroyedBodyIsFrozen(t *testing.T) {
	w := New(physics.StandardGravity)
	b := w.NewBody("b", math.Vec3{Y: 3}, capsule, 1)
	b.Destroy()

	w.Step(0.1)

	assert.True(t, b.Destroyed())
	assert.Equal(t, math.Vec3{Y: 3}, b.Position())
}

func TestBodyBoundsAndRotation(t *testing.T) {
	w := New(physics.StandardGravity)
	b := w.NewBody("b", math.Vec3{X: 1, Y: 1}, capsule, 1)

	bounds := b.Bounds()
	assert.Equal(t, math.Vec3{X: 0.5, Y: 0, Z: -0.5}, bounds.Min)
	assert.Equal(t, math.Vec3{X: 1.5, Y: 2, Z: 0.5}, bounds.Max)

	b.MoveRotation(math.QuatFromYaw(90))
	assert.InDelta(t, 90, b.Rotation().Yaw(), 1e-3)

	b.SetPosition(math.Vec3{Z: 4})
	assert.Equal(t, math.Vec3{Z: 4}, b.Position())
}

func TestStepIgnoresNonPositiveDt(t *testing.T) {
	w := New(physics.StandardGravity)
	b := w.NewBody("b", math.Vec3{Y: 3}, capsule, 1)
	w.Step(0)
	w.Step(-1)
	assert.Equal(t, math.Vec3{}, b.Velocity())
}
