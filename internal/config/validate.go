package config

import (
	"errors"
	"fmt"
)

// Validation errors.
var (
	ErrInvalidProfile    = errors.New("invalid locomotion profile")
	ErrInvalidFreeLook   = errors.New("invalid free-look config")
	ErrInvalidSimulation = errors.New("invalid simulation config")
	ErrInvalidDriver     = errors.New("invalid driver config")
)

// Validate rejects tuning that the locomotion core cannot run with.
func (p Profile) Validate() error {
	nonNegative := []struct {
		name  string
		value float32
	}{
		{"move_speed", p.MoveSpeed},
		{"rotation_speed", p.RotationSpeed},
		{"chase_distance", p.ChaseDistance},
		{"skin_width", p.SkinWidth},
		{"step_height", p.StepHeight},
		{"ground_drag", p.GroundDrag},
		{"gravity_factor", p.GravityFactor},
		{"plane_force", p.PlaneForce},
		{"slope_force", p.SlopeForce},
		{"stairs_force", p.StairsForce},
		{"stair_lower_reach", p.StairLowerReach},
		{"stair_upper_reach", p.StairUpperReach},
		{"yaw_dead_zone", p.YawDeadZone},
	}
	for _, f := range nonNegative {
		if f.value < 0 {
			return fmt.Errorf("%w: %s must not be negative, got %v", ErrInvalidProfile, f.name, f.value)
		}
	}
	if p.MaxSlopeAngle <= 0 || p.MaxSlopeAngle > 90 {
		return fmt.Errorf("%w: max_slope_angle must be in (0, 90], got %v", ErrInvalidProfile, p.MaxSlopeAngle)
	}
	if p.GroundMask == 0 {
		return fmt.Errorf("%w: ground_mask selects no layers", ErrInvalidProfile)
	}
	return nil
}

// Validate checks the free-look settings.
func (f FreeLookConfig) Validate() error {
	if f.MinPitch > f.MaxPitch {
		return fmt.Errorf("%w: min_pitch %v above max_pitch %v", ErrInvalidFreeLook, f.MinPitch, f.MaxPitch)
	}
	if f.Radius <= 0 || f.Height < 2*f.Radius {
		return fmt.Errorf("%w: height %v must be at least twice radius %v", ErrInvalidFreeLook, f.Height, f.Radius)
	}
	if f.Speed < 0 || f.StrafeSpeed < 0 || f.JumpSpeed < 0 || f.StepOffset < 0 || f.SkinWidth < 0 {
		return fmt.Errorf("%w: speeds and offsets must not be negative", ErrInvalidFreeLook)
	}
	return nil
}

// Validate checks every section of the config.
func (c *Config) Validate() error {
	if c.Simulation.FixedStep <= 0 {
		return fmt.Errorf("%w: fixed_step must be positive, got %v", ErrInvalidSimulation, c.Simulation.FixedStep)
	}
	if c.Simulation.MaxStepsPerFrame < 1 {
		return fmt.Errorf("%w: max_steps_per_frame must be at least 1", ErrInvalidSimulation)
	}
	if err := c.Bot.Validate(); err != nil {
		return fmt.Errorf("bot: %w", err)
	}
	if err := c.Chaser.Validate(); err != nil {
		return fmt.Errorf("chaser: %w", err)
	}
	if err := c.FreeLook.Validate(); err != nil {
		return err
	}
	if c.Driver.Speed <= 0 {
		return fmt.Errorf("%w: speed must be positive, got %v", ErrInvalidDriver, c.Driver.Speed)
	}
	return nil
}
