// Package sim runs scenarios: it builds a world and its actors from a
// Scenario and drives the two scheduling domains, a fixed physics tick for
// rigid-body actors and a per-frame update for free-look players.
package sim

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Faultbox/midgard-stride/internal/config"
	"github.com/Faultbox/midgard-stride/internal/freelook"
	"github.com/Faultbox/midgard-stride/internal/locomotion"
	"github.com/Faultbox/midgard-stride/internal/logger"
	"github.com/Faultbox/midgard-stride/internal/telemetry"
	"github.com/Faultbox/midgard-stride/internal/world"
	"github.com/Faultbox/midgard-stride/pkg/math"
)

var defaultSize = math.Vec3{X: 1, Y: 2, Z: 1}

// Agent is a rigid-body actor and the director that owns it.
type Agent struct {
	ID       uuid.UUID
	Name     string
	Body     *world.Body
	Director *locomotion.ChaseDirector
}

// Player is a scripted, input-driven actor. A free-look player has a
// Controller and Mover; a velocity player has a Body and Driver.
type Player struct {
	ID   uuid.UUID
	Name string
	Kind string

	Controller *world.Kinematic
	Mover      *freelook.Mover

	Body   *world.Body
	Driver *locomotion.VelocityDriver

	script    []InputStep
	step      int // Index of the active script step, -1 before the first
	destroyed bool
}

// Option configures a Scene.
type Option func(*Scene)

// WithLogger sets the scene's logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Scene) {
		s.log = logger.OrNop(l)
	}
}

// WithRecorder adds a telemetry sink.
func WithRecorder(r telemetry.Recorder) Option {
	return func(s *Scene) {
		if r != nil {
			s.recorders = append(s.recorders, r)
		}
	}
}

// Scene is one running scenario. It is not safe for concurrent use;
// separate scenes may run on separate goroutines.
type Scene struct {
	ID   uuid.UUID
	Name string

	world   *world.World
	agents  []*Agent
	players []*Player
	events  []EventSpec

	fixedStep time.Duration
	maxSteps  int
	frame     time.Duration
	duration  time.Duration
	every     int

	acc     time.Duration
	elapsed time.Duration
	ticks   int64
	frames  int64

	recorders []telemetry.Recorder
	log       *zap.Logger
}

// NewScene builds the world, actors and players of sc using the tuning in
// cfg. Profiles are copied at spawn, so later config changes do not affect
// this scene.
func NewScene(sc *Scenario, cfg *config.Config, opts ...Option) (*Scene, error) {
	if err := sc.Validate(); err != nil {
		return nil, err
	}

	s := &Scene{
		ID:        uuid.New(),
		Name:      sc.Name,
		events:    append([]EventSpec(nil), sc.Events...),
		fixedStep: cfg.Simulation.FixedStep,
		maxSteps:  cfg.Simulation.MaxStepsPerFrame,
		frame:     time.Second / time.Duration(sc.FrameRate),
		duration:  sc.Duration,
		every:     max(cfg.Telemetry.Every, 1),
		log:       zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.With(zap.String("scene", s.Name), zap.Stringer("scene_id", s.ID))
	s.world = world.New(cfg.Simulation.Gravity, world.WithLogger(s.log.Named("world")))

	for i, c := range sc.Colliders {
		collider, err := buildCollider(c)
		if err != nil {
			return nil, fmt.Errorf("collider %d: %w", i, err)
		}
		s.world.Add(collider)
	}
	for _, p := range sc.Players {
		spawn := s.spawnPlayer
		if p.Kind == PlayerVelocity {
			spawn = s.spawnDriven
		}
		if err := spawn(p, cfg); err != nil {
			return nil, err
		}
	}
	for _, a := range sc.Actors {
		if err := s.spawnAgent(a, cfg); err != nil {
			return nil, err
		}
	}
	// Targets are wired once everything exists so actors can chase each other
	for i, a := range sc.Actors {
		s.agents[i].Director.SetTarget(s.target(a.Target))
	}

	s.log.Info("scene ready",
		zap.Int("colliders", len(sc.Colliders)),
		zap.Int("actors", len(s.agents)),
		zap.Int("players", len(s.players)),
		zap.Duration("fixed_step", s.fixedStep),
	)
	return s, nil
}

func buildCollider(c ColliderSpec) (world.Collider, error) {
	layer, err := ParseLayer(c.Layer)
	if err != nil {
		return nil, err
	}
	switch c.Kind {
	case "plane":
		normal := c.Normal.V3()
		if normal.IsZero() {
			normal = math.Up
		}
		return world.NewPlane(c.Point.V3(), normal, layer), nil
	case "ramp":
		return world.NewRamp(c.Base.V3(), c.Angle, c.Width, c.Length, layer), nil
	case "box":
		return world.NewBox(c.Min.V3(), c.Max.V3(), layer), nil
	case "heightfield":
		return world.NewHeightfield(c.Origin.V3(), c.CellSize, c.Heights, layer)
	default:
		return nil, fmt.Errorf("%w: unknown kind %q", ErrInvalidScenario, c.Kind)
	}
}

func (s *Scene) spawnAgent(spec ActorSpec, cfg *config.Config) error {
	profile := cfg.Bot
	if spec.Profile == "chaser" {
		profile = cfg.Chaser
	}
	size := defaultSize
	if spec.Size != nil {
		size = spec.Size.V3()
	}

	body := s.world.NewBody(spec.Name, spec.Position.V3(), size, spec.Mass)
	body.MoveRotation(math.QuatFromYaw(spec.Yaw))
	actor, err := locomotion.NewActor(spec.Name, body, profile)
	if err != nil {
		return fmt.Errorf("spawning %s: %w", spec.Name, err)
	}

	agent := &Agent{ID: uuid.New(), Name: spec.Name, Body: body}
	agent.Director = locomotion.NewChaseDirector(actor, s.world,
		locomotion.WithLogger(s.log.Named("chase").With(zap.Stringer("actor_id", agent.ID))),
		locomotion.WithIdleSupport(spec.IdleSupport),
	)
	s.agents = append(s.agents, agent)
	return nil
}

func (s *Scene) spawnPlayer(spec PlayerSpec, c *config.Config) error {
	cfg := c.FreeLook
	k := s.world.NewKinematic(spec.Position.V3(), world.KinematicConfig{
		Radius:     cfg.Radius,
		Height:     cfg.Height,
		StepOffset: cfg.StepOffset,
		SkinWidth:  cfg.SkinWidth,
	})
	m, err := freelook.NewMover(k, cfg, s.world.Gravity(),
		freelook.WithLogger(s.log.Named("freelook").With(zap.String("player", spec.Name))),
		freelook.WithLook(spec.Yaw, spec.Pitch),
	)
	if err != nil {
		return fmt.Errorf("spawning %s: %w", spec.Name, err)
	}
	s.players = append(s.players, &Player{
		ID:         uuid.New(),
		Name:       spec.Name,
		Kind:       PlayerFreeLook,
		Controller: k,
		Mover:      m,
		script:     spec.Script,
		step:       -1,
	})
	return nil
}

func (s *Scene) spawnDriven(spec PlayerSpec, cfg *config.Config) error {
	body := s.world.NewBody(spec.Name, spec.Position.V3(), defaultSize, 1)
	body.MoveRotation(math.QuatFromYaw(spec.Yaw))
	s.players = append(s.players, &Player{
		ID:     uuid.New(),
		Name:   spec.Name,
		Kind:   PlayerVelocity,
		Body:   body,
		Driver: &locomotion.VelocityDriver{Speed: cfg.Driver.Speed, Gravity: s.world.Gravity()},
		script: spec.Script,
		step:   -1,
	})
	return nil
}

// Position returns the player's current center.
func (p *Player) Position() math.Vec3 {
	if p.Body != nil {
		return p.Body.Position()
	}
	return p.Controller.Position()
}

// Velocity returns the player's current velocity.
func (p *Player) Velocity() math.Vec3 {
	if p.Body != nil {
		return p.Body.Velocity()
	}
	return p.Controller.Velocity()
}

// Grounded reports whether the player stands on walkable ground.
func (p *Player) Grounded() bool {
	if p.Body != nil {
		return p.Body.Grounded()
	}
	return p.Controller.Grounded()
}

// Yaw returns the player's heading in degrees.
func (p *Player) Yaw() float32 {
	if p.Body != nil {
		return p.Body.Rotation().Yaw()
	}
	return p.Mover.Yaw()
}

// target resolves a target spec. Actor targets are read live every tick
// and vanish when the actor is destroyed.
func (s *Scene) target(spec TargetSpec) locomotion.Target {
	if spec.Point != nil {
		return locomotion.PointTarget(spec.Point.V3())
	}
	if spec.Actor == "" {
		return nil
	}
	if a := s.Agent(spec.Actor); a != nil {
		return locomotion.TargetFunc(func() (math.Vec3, bool) {
			return a.Body.Position(), !a.Body.Destroyed()
		})
	}
	if p := s.Player(spec.Actor); p != nil {
		return locomotion.TargetFunc(func() (math.Vec3, bool) {
			return p.Position(), !p.destroyed
		})
	}
	return nil
}

// World returns the scene's physics world.
func (s *Scene) World() *world.World { return s.world }

// Agents returns the rigid-body actors in spawn order.
func (s *Scene) Agents() []*Agent { return s.agents }

// Players returns the free-look players in spawn order.
func (s *Scene) Players() []*Player { return s.players }

// Agent returns the actor with the given name, or nil.
func (s *Scene) Agent(name string) *Agent {
	for _, a := range s.agents {
		if a.Name == name {
			return a
		}
	}
	return nil
}

// Player returns the player with the given name, or nil.
func (s *Scene) Player(name string) *Player {
	for _, p := range s.players {
		if p.Name == name {
			return p
		}
	}
	return nil
}

// Ticks returns the number of fixed steps run so far.
func (s *Scene) Ticks() int64 { return s.ticks }

// Elapsed returns the simulated time.
func (s *Scene) Elapsed() time.Duration { return s.elapsed }

// Done reports whether the scenario duration has elapsed.
func (s *Scene) Done() bool { return s.elapsed >= s.duration }
