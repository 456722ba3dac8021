package world_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/midgard-stride/internal/config"
	"github.com/Faultbox/midgard-stride/internal/locomotion"
	"github.com/Faultbox/midgard-stride/internal/physics"
	"github.com/Faultbox/midgard-stride/internal/world"
	"github.com/Faultbox/midgard-stride/pkg/math"
)

const dt = float32(0.02)

type run struct {
	w        *world.World
	body     *world.Body
	director *locomotion.ChaseDirector
	reports  []locomotion.Report
	maxY     float32
}

func newRun(t *testing.T, start math.Vec3, target locomotion.Target, colliders ...world.Collider) *run {
	t.Helper()
	w := world.New(physics.StandardGravity)
	w.Add(colliders...)
	body := w.NewBody("bot", start, math.Vec3{X: 1, Y: 2, Z: 1}, 1)
	actor, err := locomotion.NewActor("bot", body, config.DefaultBotProfile())
	require.NoError(t, err)
	d := locomotion.NewChaseDirector(actor, w)
	d.SetTarget(target)
	return &run{w: w, body: body, director: d}
}

func (r *run) advance(steps int) {
	for ; steps > 0; steps-- {
		r.reports = append(r.reports, r.director.Tick(dt))
		r.w.Step(dt)
		r.maxY = max(r.maxY, r.body.Position().Y)
	}
}

func (r *run) saw(regime locomotion.Regime) bool {
	for _, rep := range r.reports {
		if rep.Command.Regime == regime {
			return true
		}
	}
	return false
}

func ground() world.Collider {
	return world.NewPlane(math.Vec3{}, math.Up, physics.LayerGround)
}

func TestChaseOnFlatGround(t *testing.T) {
	r := newRun(t, math.Vec3{Y: 1}, locomotion.PointTarget{Y: 1, Z: 10}, ground())
	r.advance(250)

	for _, rep := range r.reports {
		require.True(t, rep.Classification.Grounded)
		assert.False(t, rep.Classification.OnSlope)
		assert.LessOrEqual(t, rep.Velocity.Horizontal().Length(), float32(4)+1e-4)
	}
	assert.True(t, r.saw(locomotion.RegimePlane))
	assert.False(t, r.saw(locomotion.RegimeStairs))
	assert.Greater(t, r.body.Position().Z, float32(8))
	assert.Less(t, r.body.Position().Distance(math.Vec3{Y: 1, Z: 10}), float32(1.5))
	assert.InDelta(t, 1, r.body.Position().Y, 1e-2)
}

func TestChaseTurnsTowardTarget(t *testing.T) {
	r := newRun(t, math.Vec3{Y: 1}, locomotion.PointTarget{X: 30, Y: 1}, ground())
	r.advance(150)

	assert.InDelta(t, 90, r.body.Rotation().Yaw(), 2)
	assert.Greater(t, r.body.Position().X, float32(5))
}

func TestChaseUpSlope(t *testing.T) {
	// Flat run-up of four units before a 30 degree ramp rising to ~4.6
	ramp := world.NewRamp(math.Vec3{Z: 4}, 30, 4, 8, physics.LayerGround)
	r := newRun(t, math.Vec3{Y: 1}, locomotion.PointTarget{Y: 6, Z: 14}, ground(), ramp)
	r.advance(300)

	require.True(t, r.saw(locomotion.RegimeSlope))
	for _, rep := range r.reports {
		if rep.Command.Regime == locomotion.RegimeSlope {
			assert.True(t, rep.Classification.OnSlope)
			assert.False(t, rep.Command.UseGravity)
			assert.InDelta(t, 30, rep.Classification.SlopeAngle, 0.5)
			assert.InDelta(t, 0, rep.Command.Force.Dot(rep.Classification.GroundNormal), 1e-3)
			assert.InDelta(t, 4*5, rep.Command.Force.Length(), 1e-3)
		}
	}
	assert.Greater(t, r.maxY, float32(2.5), "climbed the ramp")
}

func TestChaseSteepSlopeIsNotASlope(t *testing.T) {
	wall := world.NewRamp(math.Vec3{}, 60, 6, 5, physics.LayerGround)
	r := newRun(t, math.Vec3{Y: 1, Z: -2}, locomotion.PointTarget{Y: 1, Z: 4}, ground(), wall)
	r.advance(100)

	assert.False(t, r.saw(locomotion.RegimeSlope))
}

func TestChaseClimbsStep(t *testing.T) {
	step := world.NewBox(math.Vec3{X: -5, Z: 2}, math.Vec3{X: 5, Y: 0.2, Z: 12}, physics.LayerGround)
	r := newRun(t, math.Vec3{Y: 1}, locomotion.PointTarget{Y: 1.2, Z: 9}, ground(), step)
	r.advance(300)

	require.True(t, r.saw(locomotion.RegimeStairs))
	for _, rep := range r.reports {
		if rep.Command.Regime == locomotion.RegimeStairs {
			assert.False(t, rep.Command.UseGravity)
			assert.InDelta(t, 18*0.3*4, rep.Command.Force.Y, 1e-4)
		}
	}
	assert.Greater(t, r.body.Position().Z, float32(3))
	assert.Greater(t, r.body.Position().Y, float32(1.1))
}

func TestAirborneFallsWithExtraGravity(t *testing.T) {
	r := newRun(t, math.Vec3{Y: 50}, locomotion.PointTarget{Z: 100})
	r.advance(10)

	for _, rep := range r.reports {
		assert.False(t, rep.Classification.Grounded)
		assert.Equal(t, float32(0), rep.Support.Drag)
	}
	// World gravity plus GravityFactor(2) times gravity, every step
	assert.InDelta(t, 10*dt*3*-9.81, r.body.Velocity().Y, 1e-3)
}

func TestIdleActorOnlyFeelsWorldGravity(t *testing.T) {
	r := newRun(t, math.Vec3{Y: 50}, nil)
	r.advance(10)

	for _, rep := range r.reports {
		assert.False(t, rep.HasTarget)
	}
	assert.InDelta(t, 10*dt*-9.81, r.body.Velocity().Y, 1e-3)
}

func TestDestroyedTargetStopsPropulsion(t *testing.T) {
	w := world.New(physics.StandardGravity)
	w.Add(ground())
	prey := w.NewBody("prey", math.Vec3{Y: 1, Z: 10}, math.Vec3{X: 1, Y: 2, Z: 1}, 1)
	bot := w.NewBody("bot", math.Vec3{Y: 1}, math.Vec3{X: 1, Y: 2, Z: 1}, 1)

	actor, err := locomotion.NewActor("bot", bot, config.DefaultChaserProfile())
	require.NoError(t, err)
	d := locomotion.NewChaseDirector(actor, w)
	d.SetTarget(locomotion.TargetFunc(func() (math.Vec3, bool) {
		return prey.Position(), !prey.Destroyed()
	}))

	for range 25 {
		assert.True(t, d.Tick(dt).HasTarget)
		w.Step(dt)
	}
	prey.Destroy()
	z := bot.Position().Z
	for range 50 {
		assert.False(t, d.Tick(dt).HasTarget)
		w.Step(dt)
	}
	// Only the drag left over from the last grounded tick slows the bot
	assert.Greater(t, bot.Position().Z, z)
	assert.InDelta(t, 0, bot.Velocity().Z, 0.1)
}
