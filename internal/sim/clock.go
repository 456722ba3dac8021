package sim

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Faultbox/midgard-stride/internal/freelook"
	"github.com/Faultbox/midgard-stride/internal/locomotion"
	"github.com/Faultbox/midgard-stride/internal/telemetry"
	"github.com/Faultbox/midgard-stride/pkg/math"
)

// Advance moves the scene forward by one rendered frame. Due events fire
// first, then as many fixed ticks as the accumulated time allows (at most
// MaxStepsPerFrame, dropping any backlog beyond that), then the per-frame
// update of every player. It returns the number of fixed ticks run.
func (s *Scene) Advance(frame time.Duration) (int, error) {
	if frame <= 0 {
		return 0, nil
	}
	s.applyEvents()

	s.acc += frame
	steps := 0
	for s.acc >= s.fixedStep && steps < s.maxSteps {
		if err := s.fixedTick(); err != nil {
			return steps, err
		}
		s.acc -= s.fixedStep
		steps++
	}
	if s.acc >= s.fixedStep {
		s.log.Debug("dropping fixed-step backlog", zap.Duration("backlog", s.acc))
		s.acc = 0
	}

	if err := s.frameUpdate(frame); err != nil {
		return steps, err
	}
	s.elapsed += frame
	return steps, nil
}

func (s *Scene) applyEvents() {
	kept := s.events[:0]
	for _, e := range s.events {
		if e.At > s.elapsed {
			kept = append(kept, e)
			continue
		}
		if a := s.Agent(e.Destroy); a != nil {
			a.Body.Destroy()
			s.log.Info("actor destroyed", zap.String("actor", a.Name), zap.Duration("at", s.elapsed))
		}
		if p := s.Player(e.Destroy); p != nil {
			p.destroyed = true
			if p.Body != nil {
				p.Body.Destroy()
			}
			s.log.Info("player destroyed", zap.String("player", p.Name), zap.Duration("at", s.elapsed))
		}
	}
	s.events = kept
}

func (s *Scene) fixedTick() error {
	dt := float32(s.fixedStep.Seconds())
	sample := s.ticks%int64(s.every) == 0

	for _, a := range s.agents {
		if a.Body.Destroyed() {
			continue
		}
		rep := a.Director.Tick(dt)
		if sample {
			if err := s.record(agentRecord(s, a, rep)); err != nil {
				return err
			}
		}
	}
	s.world.Step(dt)
	s.ticks++
	return nil
}

func (s *Scene) frameUpdate(frame time.Duration) error {
	dt := float32(frame.Seconds())
	sample := s.frames%int64(s.every) == 0

	for _, p := range s.players {
		if p.destroyed {
			continue
		}
		in := p.input(s.elapsed)
		if p.Driver != nil {
			p.Driver.Drive(p.Body, in.Axes, dt)
		} else {
			p.Mover.Update(in, dt)
		}
		if sample {
			if err := s.record(playerRecord(s, p)); err != nil {
				return err
			}
		}
	}
	s.frames++
	return nil
}

// input returns the scripted input for time t.
func (p *Player) input(t time.Duration) freelook.Input {
	next := p.step
	for next+1 < len(p.script) && p.script[next+1].At <= t {
		next++
	}
	if next < 0 {
		return freelook.Input{}
	}
	st := p.script[next]
	in := freelook.Input{
		Axes: math.Vec2{X: st.Axes[0], Y: st.Axes[1]},
		Look: math.Vec2{X: st.Look[0], Y: st.Look[1]},
		Jump: st.Jump && next != p.step,
	}
	p.step = next
	return in
}

func (s *Scene) record(rec telemetry.TickRecord) error {
	for _, r := range s.recorders {
		if err := r.Record(rec); err != nil {
			return fmt.Errorf("scene %s: %w", s.Name, err)
		}
	}
	return nil
}

func agentRecord(s *Scene, a *Agent, rep locomotion.Report) telemetry.TickRecord {
	pos := a.Body.Position()
	vel := rep.Velocity
	rec := telemetry.TickRecord{
		Scene:           s.Name,
		Actor:           a.Name,
		ActorID:         a.ID.String(),
		Kind:            telemetry.KindRigid,
		Tick:            s.ticks,
		TimeSec:         float64(s.ticks) * s.fixedStep.Seconds(),
		X:               pos.X,
		Y:               pos.Y,
		Z:               pos.Z,
		VX:              vel.X,
		VY:              vel.Y,
		VZ:              vel.Z,
		HorizontalSpeed: vel.Horizontal().Length(),
		Yaw:             a.Body.Rotation().Yaw(),
		Distance:        rep.Distance,
		HasTarget:       rep.HasTarget,
	}
	if rep.Probed {
		cls := rep.Classification
		rec.State = cls.String()
		rec.Grounded = cls.Grounded
		rec.OnSlope = cls.OnSlope
		rec.SlopeAngle = cls.SlopeAngle
		rec.BeforeStairs = cls.BeforeStairs
	}
	if rep.HasTarget {
		rec.Regime = rep.Command.Regime.String()
	}
	return rec
}

func playerRecord(s *Scene, p *Player) telemetry.TickRecord {
	pos := p.Position()
	vel := p.Velocity()
	kind := telemetry.KindKinematic
	if p.Body != nil {
		kind = telemetry.KindDriven
	}
	state := "airborne"
	if p.Grounded() {
		state = "grounded"
	}
	return telemetry.TickRecord{
		Scene:           s.Name,
		Actor:           p.Name,
		ActorID:         p.ID.String(),
		Kind:            kind,
		Tick:            s.frames,
		TimeSec:         s.elapsed.Seconds(),
		X:               pos.X,
		Y:               pos.Y,
		Z:               pos.Z,
		VX:              vel.X,
		VY:              vel.Y,
		VZ:              vel.Z,
		HorizontalSpeed: vel.Horizontal().Length(),
		Yaw:             p.Yaw(),
		State:           state,
		Grounded:        p.Grounded(),
	}
}

// Run advances the scene frame by frame until its duration has elapsed or
// ctx is done.
func (s *Scene) Run(ctx context.Context) error {
	start := time.Now()
	for !s.Done() {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("scene %s: %w", s.Name, err)
		}
		if _, err := s.Advance(s.frame); err != nil {
			return err
		}
	}
	s.log.Info("scene finished",
		zap.Int64("ticks", s.ticks),
		zap.Int64("frames", s.frames),
		zap.Duration("simulated", s.elapsed),
		zap.Duration("wall", time.Since(start)),
	)
	return nil
}

// RunAll runs independent scenes concurrently, one goroutine each. The
// first failure cancels the others.
func RunAll(ctx context.Context, scenes ...*Scene) error {
	if len(scenes) == 0 {
		return errors.New("sim: no scenes to run")
	}
	g, gctx := errgroup.WithContext(ctx)
	for _, s := range scenes {
		g.Go(func() error {
			return s.Run(gctx)
		})
	}
	return g.Wait()
}
