package telemetry

import (
	"sort"
	"sync"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/Faultbox/midgard-stride/pkg/math"
)

// Summary condenses the samples of one actor.
type Summary struct {
	Scene   string `csv:"scene"`
	Actor   string `csv:"actor"`
	Kind    string `csv:"kind"`
	Samples int    `csv:"samples"`

	MeanSpeed float64 `csv:"mean_h_speed"`
	MaxSpeed  float64 `csv:"max_h_speed"`
	YawJitter float64 `csv:"yaw_jitter"` // Std dev of per-sample heading change, degrees

	GroundedRatio float64 `csv:"grounded_ratio"`
	SlopeRatio    float64 `csv:"slope_ratio"`
	StairsTicks   int     `csv:"stairs_ticks"`

	FinalX float32 `csv:"final_x"`
	FinalY float32 `csv:"final_y"`
	FinalZ float32 `csv:"final_z"`
}

type series struct {
	scene, actor, kind string

	speeds   []float64
	yawSteps []float64
	lastYaw  float32
	grounded int
	slope    int
	stairs   int
	last     TickRecord
}

// Collector gathers records in memory for Summarize. It is safe for use by
// scenes running on separate goroutines.
type Collector struct {
	mu     sync.Mutex
	series map[string]*series
}

// NewCollector returns an empty collector.
func NewCollector() *Collector {
	return &Collector{series: make(map[string]*series)}
}

// Record adds a sample.
func (c *Collector) Record(rec TickRecord) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	key := rec.Scene + "/" + rec.Actor
	s, ok := c.series[key]
	if !ok {
		s = &series{scene: rec.Scene, actor: rec.Actor, kind: rec.Kind, lastYaw: rec.Yaw}
		c.series[key] = s
	} else {
		s.yawSteps = append(s.yawSteps, float64(math.DeltaDeg(s.lastYaw, rec.Yaw)))
		s.lastYaw = rec.Yaw
	}

	s.speeds = append(s.speeds, float64(rec.HorizontalSpeed))
	if rec.Grounded {
		s.grounded++
	}
	if rec.OnSlope {
		s.slope++
	}
	if rec.Regime == "stairs" {
		s.stairs++
	}
	s.last = rec
	return nil
}

// Summarize returns one summary per actor, ordered by scene then actor.
func (c *Collector) Summarize() []Summary {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]Summary, 0, len(c.series))
	for _, s := range c.series {
		n := float64(len(s.speeds))
		sum := Summary{
			Scene:         s.scene,
			Actor:         s.actor,
			Kind:          s.kind,
			Samples:       len(s.speeds),
			MeanSpeed:     stat.Mean(s.speeds, nil),
			MaxSpeed:      floats.Max(s.speeds),
			GroundedRatio: float64(s.grounded) / n,
			SlopeRatio:    float64(s.slope) / n,
			StairsTicks:   s.stairs,
			FinalX:        s.last.X,
			FinalY:        s.last.Y,
			FinalZ:        s.last.Z,
		}
		if len(s.yawSteps) > 1 {
			sum.YawJitter = stat.StdDev(s.yawSteps, nil)
		}
		out = append(out, sum)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Scene != out[j].Scene {
			return out[i].Scene < out[j].Scene
		}
		return out[i].Actor < out[j].Actor
	})
	return out
}
