// Package freelook implements a first-person WASD and mouse-look mover on
// top of a sweep-based kinematic controller. It keeps its own vertical
// velocity: seated by a small downward bias while grounded, integrating
// gravity while airborne.
package freelook

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/midgard-stride/internal/config"
	"github.com/Faultbox/midgard-stride/internal/logger"
	"github.com/Faultbox/midgard-stride/internal/physics"
	"github.com/Faultbox/midgard-stride/pkg/math"
)

// ErrNoController is returned when a mover is built without a controller.
var ErrNoController = errors.New("freelook: no controller")

// Controller is the kinematic sweep primitive the mover drives.
type Controller interface {
	// Move displaces the controller by delta over a frame of dt seconds.
	Move(delta math.Vec3, dt float32) physics.CollisionFlags
	// Grounded reports whether the last move touched ground below.
	Grounded() bool
	// Velocity is the displacement of the last move divided by its dt.
	Velocity() math.Vec3
}

// Input is one frame of polled input.
type Input struct {
	Axes math.Vec2 // X strafes right, Y moves forward; each in [-1, 1]
	Look math.Vec2 // Mouse delta this frame
	Jump bool      // Jump was pressed this frame
}

// Frame reports the outcome of one Update.
type Frame struct {
	WasGrounded bool
	Jumped      bool
	Vertical    math.Vec3 // Vertical velocity used for the move
	Delta       math.Vec3 // Displacement requested from the controller
	Flags       physics.CollisionFlags
}

// Option configures a Mover.
type Option func(*Mover)

// WithLogger sets the mover's logger.
func WithLogger(l *zap.Logger) Option {
	return func(m *Mover) {
		m.log = logger.OrNop(l)
	}
}

// WithLook sets the initial yaw and pitch in degrees.
func WithLook(yaw, pitch float32) Option {
	return func(m *Mover) {
		m.yaw = math.WrapDeg(yaw)
		m.pitch = pitch
	}
}

// Mover turns frame input into kinematic moves.
type Mover struct {
	ctrl    Controller
	cfg     config.FreeLookConfig
	gravity math.Vec3
	log     *zap.Logger

	yaw      float32 // Body heading, degrees
	pitch    float32 // Camera tilt, degrees, positive looks down
	vertical math.Vec3
}

// NewMover builds a mover for ctrl. gravity is the world gravity.
func NewMover(ctrl Controller, cfg config.FreeLookConfig, gravity math.Vec3, opts ...Option) (*Mover, error) {
	if ctrl == nil {
		return nil, ErrNoController
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("freelook: %w", err)
	}
	m := &Mover{ctrl: ctrl, cfg: cfg, gravity: gravity, log: zap.NewNop()}
	for _, opt := range opts {
		opt(m)
	}
	m.pitch = math.Clamp(m.pitch, cfg.MinPitch, cfg.MaxPitch)
	return m, nil
}

// Yaw returns the body heading in degrees.
func (m *Mover) Yaw() float32 { return m.yaw }

// Pitch returns the camera tilt in degrees.
func (m *Mover) Pitch() float32 { return m.pitch }

// Body returns the body orientation (yaw only).
func (m *Mover) Body() math.Quat { return math.QuatFromYaw(m.yaw) }

// Camera returns the camera orientation: body yaw then camera pitch.
func (m *Mover) Camera() math.Quat { return math.QuatFromEuler(m.pitch, m.yaw) }

// VerticalVelocity returns the mover's own vertical velocity.
func (m *Mover) VerticalVelocity() math.Vec3 { return m.vertical }

// Update runs one rendered frame of dt seconds. Movement directions come
// from the camera as it was when the frame started.
func (m *Mover) Update(in Input, dt float32) Frame {
	if dt <= 0 {
		return Frame{WasGrounded: m.ctrl.Grounded(), Vertical: m.vertical}
	}

	camera := m.Camera()
	forward := camera.Forward().ProjectOnPlane(math.Up).Normalize()
	right := camera.Right().ProjectOnPlane(math.Up).Normalize()

	m.pitch = math.Clamp(m.pitch-in.Look.Y*m.cfg.VerticalSensitivity, m.cfg.MinPitch, m.cfg.MaxPitch)
	m.yaw = math.WrapDeg(m.yaw + m.cfg.HorizontalSensitivity*in.Look.X)

	frame := Frame{WasGrounded: m.ctrl.Grounded()}
	if frame.WasGrounded {
		axes := in.Axes.ClampAxes()
		move := forward.Scale(axes.Y * m.cfg.Speed).Add(right.Scale(axes.X * m.cfg.StrafeSpeed))
		if in.Jump {
			m.vertical = math.Up.Scale(m.cfg.JumpSpeed)
			frame.Jumped = true
			m.log.Debug("jump", zap.Float32("speed", m.cfg.JumpSpeed))
		} else {
			m.vertical = math.Down.Scale(m.cfg.GroundBias)
		}
		frame.Delta = move.Add(m.vertical).Scale(dt)
	} else {
		// Airborne: keep the horizontal velocity the controller last achieved
		horizontal := m.ctrl.Velocity().Horizontal()
		m.vertical = m.vertical.Add(m.gravity.Scale(dt * m.cfg.GravityFactor))
		frame.Delta = horizontal.Add(m.vertical).Scale(dt)
	}

	frame.Vertical = m.vertical
	frame.Flags = m.ctrl.Move(frame.Delta, dt)
	return frame
}
