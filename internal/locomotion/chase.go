package locomotion

import (
	"go.uber.org/zap"

	"github.com/Faultbox/midgard-stride/internal/logger"
	"github.com/Faultbox/midgard-stride/internal/physics"
	"github.com/Faultbox/midgard-stride/pkg/math"
)

// Report describes what a director did during one tick.
type Report struct {
	HasTarget      bool
	Probed         bool // Classification and Support are valid
	Classification Classification
	Distance       float32
	Rotated        bool
	Command        Command // Regime is RegimeIdle when no force was applied
	Support        Support
	Velocity       math.Vec3 // Body velocity after clamping
}

// ChaseOption configures a ChaseDirector.
type ChaseOption func(*ChaseDirector)

// WithLogger sets the logger used for classification transitions.
func WithLogger(l *zap.Logger) ChaseOption {
	return func(d *ChaseDirector) {
		d.log = logger.OrNop(l)
	}
}

// WithIdleSupport keeps ground support (drag and extra gravity) running on
// ticks without a target. By default a targetless tick writes nothing.
func WithIdleSupport(enabled bool) ChaseOption {
	return func(d *ChaseDirector) {
		d.idleSupport = enabled
	}
}

// ChaseDirector is the per-tick policy for an actor following a target:
// classify the ground, always reorient, and push only while the target is
// farther than the chase distance.
type ChaseDirector struct {
	actor  *Actor
	probe  *GroundProbe
	force  ForceModel
	orient Orientation
	target Target

	idleSupport bool
	log         *zap.Logger

	last    Classification
	started bool
}

// NewChaseDirector composes a director for actor against world.
func NewChaseDirector(actor *Actor, world physics.World, opts ...ChaseOption) *ChaseDirector {
	d := &ChaseDirector{
		actor:  actor,
		probe:  NewGroundProbe(world),
		force:  NewForceModel(actor.Profile, world.Gravity()),
		orient: NewOrientation(actor.Profile.YawDeadZone),
		log:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(d)
	}
	d.log = d.log.With(zap.String("actor", actor.Name))
	return d
}

// Actor returns the controlled actor.
func (d *ChaseDirector) Actor() *Actor {
	return d.actor
}

// SetTarget replaces the target. A nil target makes the actor idle.
func (d *ChaseDirector) SetTarget(t Target) {
	d.target = t
}

// Target returns the current target, which may be nil.
func (d *ChaseDirector) Target() Target {
	return d.target
}

// Tick runs one fixed simulation step of length dt seconds.
func (d *ChaseDirector) Tick(dt float32) Report {
	body := d.actor.Body

	goal, ok := d.targetPosition()
	if !ok {
		if !d.idleSupport {
			return Report{Velocity: body.Velocity()}
		}
		cls := d.classify()
		support := d.force.Support(cls)
		support.Apply(body)
		return Report{Probed: true, Classification: cls, Support: support, Velocity: body.Velocity()}
	}

	cls := d.classify()
	report := Report{HasTarget: true, Probed: true, Classification: cls}

	report.Support = d.force.Support(cls)
	report.Support.Apply(body)

	dir := d.actor.DirectionTo(goal)
	if next, changed := d.orient.Step(body.Rotation(), dir, d.actor.Profile.RotationSpeed, dt); changed {
		body.MoveRotation(next)
		report.Rotated = true
	}

	report.Distance = body.Position().Distance(goal)
	if report.Distance > d.actor.Profile.ChaseDistance {
		report.Command = d.force.Compute(cls, dir, body.Rotation().Up())
		report.Command.Apply(body)
	}

	d.force.Clamp(body)
	report.Velocity = body.Velocity()
	return report
}

func (d *ChaseDirector) targetPosition() (math.Vec3, bool) {
	if d.target == nil {
		return math.Vec3{}, false
	}
	return d.target.Position()
}

// classify runs the ground probe and logs state transitions.
func (d *ChaseDirector) classify() Classification {
	cls := d.probe.Classify(d.actor)
	if !d.started || cls.Grounded != d.last.Grounded || cls.OnSlope != d.last.OnSlope || cls.BeforeStairs != d.last.BeforeStairs {
		d.log.Debug("ground state",
			zap.Stringer("state", cls),
			zap.Float32("slope_angle", cls.SlopeAngle),
		)
	}
	d.last = cls
	d.started = true
	return cls
}
