package sim

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/Faultbox/midgard-stride/internal/physics"
)

// ErrInvalidScenario is returned for scenario files that cannot be built.
var ErrInvalidScenario = errors.New("invalid scenario")

// DefaultFrameRate is used when a scenario does not set frame_rate.
const DefaultFrameRate = 60

// Scenario describes one self-contained run: static geometry, rigid-body
// actors chasing targets, scripted free-look players and timed events.
type Scenario struct {
	Name      string         `yaml:"name"`
	Duration  time.Duration  `yaml:"duration"`
	FrameRate int            `yaml:"frame_rate"`
	Colliders []ColliderSpec `yaml:"colliders"`
	Actors    []ActorSpec    `yaml:"actors"`
	Players   []PlayerSpec   `yaml:"players"`
	Events    []EventSpec    `yaml:"events"`
}

// ColliderSpec is one piece of static geometry. Kind selects which of the
// remaining fields apply.
type ColliderSpec struct {
	Kind  string `yaml:"kind"` // plane, ramp, box or heightfield
	Layer string `yaml:"layer"`

	// plane
	Point  Vec `yaml:"point"`
	Normal Vec `yaml:"normal"`

	// ramp
	Base   Vec     `yaml:"base"`
	Angle  float32 `yaml:"angle"`
	Width  float32 `yaml:"width"`
	Length float32 `yaml:"length"`

	// box
	Min Vec `yaml:"min"`
	Max Vec `yaml:"max"`

	// heightfield
	Origin   Vec         `yaml:"origin"`
	CellSize float32     `yaml:"cell_size"`
	Heights  [][]float32 `yaml:"heights"`
}

// ActorSpec spawns a rigid-body actor driven by a chase director.
type ActorSpec struct {
	Name        string     `yaml:"name"`
	Profile     string     `yaml:"profile"` // bot or chaser
	Position    Vec        `yaml:"position"`
	Size        *Vec       `yaml:"size"` // Bounds extent, default 1x2x1
	Mass        float32    `yaml:"mass"`
	Yaw         float32    `yaml:"yaw"`
	Target      TargetSpec `yaml:"target"`
	IdleSupport bool       `yaml:"idle_support"`
}

// TargetSpec names what an actor chases: a fixed point or another actor or
// player. An empty spec leaves the actor idle.
type TargetSpec struct {
	Point *Vec   `yaml:"point"`
	Actor string `yaml:"actor"`
}

// Player kinds.
const (
	PlayerFreeLook = "freelook" // Kinematic controller with mouse look
	PlayerVelocity = "velocity" // Rigid body whose velocity is set from the axes
)

// PlayerSpec spawns a scripted player. Look and jump input only apply to
// free-look players.
type PlayerSpec struct {
	Name     string      `yaml:"name"`
	Kind     string      `yaml:"kind"` // freelook (default) or velocity
	Position Vec         `yaml:"position"`
	Yaw      float32     `yaml:"yaw"`
	Pitch    float32     `yaml:"pitch"`
	Script   []InputStep `yaml:"script"`
}

// InputStep is held from At until the next step starts. Jump fires only on
// the first frame of the step.
type InputStep struct {
	At   time.Duration `yaml:"at"`
	Axes [2]float32    `yaml:"axes"`
	Look [2]float32    `yaml:"look"`
	Jump bool          `yaml:"jump"`
}

// EventSpec is a timed change to the scene.
type EventSpec struct {
	At      time.Duration `yaml:"at"`
	Destroy string        `yaml:"destroy"` // Actor or player to remove from simulation
}

var layerNames = map[string]physics.Mask{
	"":        physics.LayerGround,
	"ground":  physics.LayerGround,
	"default": physics.LayerDefault,
	"actor":   physics.LayerActor,
	"trigger": physics.LayerTrigger,
}

// ParseLayer maps a layer name to its mask bit.
func ParseLayer(name string) (physics.Mask, error) {
	m, ok := layerNames[name]
	if !ok {
		return 0, fmt.Errorf("%w: unknown layer %q", ErrInvalidScenario, name)
	}
	return m, nil
}

// LoadScenario reads and validates a scenario file.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scenario: %w", err)
	}
	sc, err := ParseScenario(data)
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %w", path, err)
	}
	return sc, nil
}

// ParseScenario decodes and validates scenario YAML.
func ParseScenario(data []byte) (*Scenario, error) {
	var sc Scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidScenario, err)
	}
	if sc.FrameRate == 0 {
		sc.FrameRate = DefaultFrameRate
	}
	if err := sc.Validate(); err != nil {
		return nil, err
	}
	return &sc, nil
}

// Validate checks names, references and collider kinds.
func (sc *Scenario) Validate() error {
	if sc.Name == "" {
		return fmt.Errorf("%w: missing name", ErrInvalidScenario)
	}
	if sc.Duration <= 0 {
		return fmt.Errorf("%w: duration must be positive", ErrInvalidScenario)
	}
	if sc.FrameRate < 1 {
		return fmt.Errorf("%w: frame_rate must be positive, got %d", ErrInvalidScenario, sc.FrameRate)
	}

	for i, c := range sc.Colliders {
		if _, err := ParseLayer(c.Layer); err != nil {
			return fmt.Errorf("collider %d: %w", i, err)
		}
		switch c.Kind {
		case "plane", "ramp", "box", "heightfield":
		default:
			return fmt.Errorf("%w: collider %d: unknown kind %q", ErrInvalidScenario, i, c.Kind)
		}
	}

	names := make(map[string]bool)
	for _, a := range sc.Actors {
		if err := claim(names, a.Name); err != nil {
			return err
		}
		switch a.Profile {
		case "", "bot", "chaser":
		default:
			return fmt.Errorf("%w: actor %s: unknown profile %q", ErrInvalidScenario, a.Name, a.Profile)
		}
	}
	for _, p := range sc.Players {
		if err := claim(names, p.Name); err != nil {
			return err
		}
		switch p.Kind {
		case "", PlayerFreeLook, PlayerVelocity:
		default:
			return fmt.Errorf("%w: player %s: unknown kind %q", ErrInvalidScenario, p.Name, p.Kind)
		}
	}

	for _, a := range sc.Actors {
		if a.Target.Point != nil && a.Target.Actor != "" {
			return fmt.Errorf("%w: actor %s: target has both point and actor", ErrInvalidScenario, a.Name)
		}
		if t := a.Target.Actor; t != "" && (!names[t] || t == a.Name) {
			return fmt.Errorf("%w: actor %s: bad target %q", ErrInvalidScenario, a.Name, t)
		}
	}
	for _, e := range sc.Events {
		if e.Destroy != "" && !names[e.Destroy] {
			return fmt.Errorf("%w: event at %v: unknown actor %q", ErrInvalidScenario, e.At, e.Destroy)
		}
	}
	return nil
}

func claim(names map[string]bool, name string) error {
	if name == "" {
		return fmt.Errorf("%w: actor or player without a name", ErrInvalidScenario)
	}
	if names[name] {
		return fmt.Errorf("%w: duplicate name %q", ErrInvalidScenario, name)
	}
	names[name] = true
	return nil
}
