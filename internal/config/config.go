// Package config handles locomotion configuration loading and management.
package config

import (
	"time"

	"github.com/Faultbox/midgard-stride/internal/physics"
	"github.com/Faultbox/midgard-stride/pkg/math"
)

// Config holds all simulation settings.
type Config struct {
	Simulation SimulationConfig `yaml:"simulation"`
	Bot        Profile          `yaml:"bot"`
	Chaser     Profile          `yaml:"chaser"`
	FreeLook   FreeLookConfig   `yaml:"free_look"`
	Driver     DriverConfig     `yaml:"driver"`
	Logging    LoggingConfig    `yaml:"logging"`
	Telemetry  TelemetryConfig  `yaml:"telemetry"`
}

// SimulationConfig holds scheduling and world settings.
type SimulationConfig struct {
	FixedStep        time.Duration `yaml:"fixed_step"`          // Physics tick length
	MaxStepsPerFrame int           `yaml:"max_steps_per_frame"` // Catch-up limit for the fixed-step accumulator
	Gravity          math.Vec3     `yaml:"gravity"`
}

// Profile is the tuning of one rigid-body locomoting actor. It is copied into
// the actor at spawn time and never changes afterwards.
type Profile struct {
	MoveSpeed     float32      `yaml:"move_speed"`      // Horizontal speed cap, units/s
	RotationSpeed float32      `yaml:"rotation_speed"`  // Slerp rate per second
	MaxSlopeAngle float32      `yaml:"max_slope_angle"` // Degrees
	ChaseDistance float32      `yaml:"chase_distance"`  // Propulsion stops at or below this range
	GroundMask    physics.Mask `yaml:"ground_mask"`
	SkinWidth     float32      `yaml:"skin_width"`
	StepHeight    float32      `yaml:"step_height"`
	GroundDrag    float32      `yaml:"ground_drag"`
	GravityFactor float32      `yaml:"gravity_factor"`

	PlaneForce  float32 `yaml:"plane_force"`
	SlopeForce  float32 `yaml:"slope_force"`
	StairsForce float32 `yaml:"stairs_force"`

	// Stair probe geometry, local to the actor's pivot.
	LowerStepPoint  math.Vec3 `yaml:"lower_step_point"`
	UpperStepPoint  math.Vec3 `yaml:"upper_step_point"` // Y is overridden from LowerStepPoint.Y + StepHeight
	StairLowerReach float32   `yaml:"stair_lower_reach"`
	StairUpperReach float32   `yaml:"stair_upper_reach"`

	YawDeadZone float32 `yaml:"yaw_dead_zone"` // Degrees
}

// FreeLookConfig holds settings for the WASD + mouse-look kinematic mover.
type FreeLookConfig struct {
	Speed                 float32 `yaml:"speed"`
	StrafeSpeed           float32 `yaml:"strafe_speed"`
	JumpSpeed             float32 `yaml:"jump_speed"`
	GravityFactor         float32 `yaml:"gravity_factor"`
	GroundBias            float32 `yaml:"ground_bias"` // Downward speed that keeps the mover seated
	HorizontalSensitivity float32 `yaml:"horizontal_sensitivity"`
	VerticalSensitivity   float32 `yaml:"vertical_sensitivity"`
	MinPitch              float32 `yaml:"min_pitch"`
	MaxPitch              float32 `yaml:"max_pitch"`

	Radius     float32 `yaml:"radius"`
	Height     float32 `yaml:"height"`
	StepOffset float32 `yaml:"step_offset"`
	SkinWidth  float32 `yaml:"skin_width"`
}

// DriverConfig tunes players that write rigid-body velocity directly.
type DriverConfig struct {
	Speed float32 `yaml:"speed"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level    string `yaml:"level"`
	LogFile  string `yaml:"log_file"`
	Sampling bool   `yaml:"sampling"` // Thin repeated per-tick debug entries
}

// TelemetryConfig holds per-tick output settings.
type TelemetryConfig struct {
	Dir   string `yaml:"dir"`   // Empty disables CSV output
	Every int    `yaml:"every"` // Record every Nth tick
}

// DefaultBotProfile returns the tuning of the monolithic bot mover.
func DefaultBotProfile() Profile {
	return Profile{
		MoveSpeed:       4,
		RotationSpeed:   5,
		MaxSlopeAngle:   45,
		ChaseDistance:   0.5,
		GroundMask:      physics.LayerGround,
		SkinWidth:       0.08,
		StepHeight:      0.3,
		GroundDrag:      5,
		GravityFactor:   2,
		PlaneForce:      10,
		SlopeForce:      5,
		StairsForce:     18,
		LowerStepPoint:  math.Vec3{X: 0, Y: -0.9, Z: 0.4},
		UpperStepPoint:  math.Vec3{X: 0, Y: -0.6, Z: 0.4},
		StairLowerReach: 0.1,
		StairUpperReach: 0.2,
		YawDeadZone:     1,
	}
}

// DefaultChaserProfile returns the tuning of the decomposed chaser.
func DefaultChaserProfile() Profile {
	p := DefaultBotProfile()
	p.ChaseDistance = 4
	p.StairsForce = 20
	return p
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Simulation: SimulationConfig{
			FixedStep:        20 * time.Millisecond,
			MaxStepsPerFrame: 5,
			Gravity:          physics.StandardGravity,
		},
		Bot:    DefaultBotProfile(),
		Chaser: DefaultChaserProfile(),
		FreeLook: FreeLookConfig{
			Speed:                 7,
			StrafeSpeed:           7,
			JumpSpeed:             7,
			GravityFactor:         2,
			GroundBias:            1,
			HorizontalSensitivity: 7,
			VerticalSensitivity:   10,
			MinPitch:              -89,
			MaxPitch:              89,
			Radius:                0.5,
			Height:                2,
			StepOffset:            0.3,
			SkinWidth:             0.08,
		},
		Driver: DriverConfig{
			Speed: 3,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
		Telemetry: TelemetryConfig{
			Dir:   "",
			Every: 1,
		},
	}
}
