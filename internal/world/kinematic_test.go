package world

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Faultbox/midgard-stride/internal/physics"
	"github.com/Faultbox/midgard-stride/pkg/math"
)

func newKinematicWorld(extra ...Collider) *World {
	w := New(physics.StandardGravity)
	w.Add(NewPlane(math.Vec3{}, math.Up, physics.LayerGround))
	w.Add(extra...)
	return w
}

var playerShape = KinematicConfig{Radius: 0.5, Height: 2, StepOffset: 0.3, SkinWidth: 0.08}

func TestKinematicLandsAndGrounds(t *testing.T) {
	k := newKinematicWorld().NewKinematic(math.Vec3{Y: 3}, playerShape)
	assert.False(t, k.Grounded())

	for range 10 {
		k.Move(math.Vec3{Y: -0.5}, 0.1)
	}

	assert.True(t, k.Grounded())
	assert.True(t, k.Flags().Has(physics.CollisionBelow))
	assert.InDelta(t, 1, k.Position().Y, 1e-4)
	assert.InDelta(t, 0, k.Velocity().Y, 1e-3)
}

func TestKinematicVelocityIsDisplacementOverDt(t *testing.T) {
	k := newKinematicWorld().NewKinematic(math.Vec3{Y: 1}, playerShape)

	flags := k.Move(math.Vec3{X: 1, Y: -0.02}, 0.5)

	assert.True(t, flags.Has(physics.CollisionBelow))
	assert.InDelta(t, 1, k.Position().X, 1e-5)
	assert.InDelta(t, 2, k.Velocity().X, 1e-4)
	assert.InDelta(t, 0, k.Velocity().Y, 1e-4)
}

func TestKinematicBlockedByWall(t *testing.T) {
	wall := NewBox(math.Vec3{X: -5, Z: 1}, math.Vec3{X: 5, Y: 3, Z: 2}, physics.LayerDefault)
	k := newKinematicWorld(wall).NewKinematic(math.Vec3{Y: 1}, playerShape)

	var flags physics.CollisionFlags
	for range 8 {
		flags = k.Move(math.Vec3{Z: 0.25, Y: -0.02}, 0.02)
	}

	assert.True(t, flags.Has(physics.CollisionSides))
	assert.LessOrEqual(t, k.Position().Z, float32(0.5)+1e-3)
	assert.InDelta(t, 1, k.Position().Y, 1e-3)
}

func TestKinematicStepsOntoLedge(t *testing.T) {
	ledge := NewBox(math.Vec3{X: -5, Z: 1}, math.Vec3{X: 5, Y: 0.2, Z: 5}, physics.LayerGround)
	k := newKinematicWorld(ledge).NewKinematic(math.Vec3{Y: 1}, playerShape)

	for range 10 {
		k.Move(math.Vec3{Z: 0.25, Y: -0.02}, 0.02)
	}

	assert.Greater(t, k.Position().Z, float32(2))
	assert.InDelta(t, 1.2, k.Position().Y, 0.05)
}

func TestKinematicSetPositionClearsContacts(t *testing.T) {
	k := newKinematicWorld().NewKinematic(math.Vec3{Y: 1}, playerShape)
	k.Move(math.Vec3{Y: -0.1}, 0.1)
	assert.True(t, k.Grounded())

	k.SetPosition(math.Vec3{Y: 10})
	assert.False(t, k.Grounded())
	assert.Equal(t, physics.CollisionNone, k.Flags())
}
