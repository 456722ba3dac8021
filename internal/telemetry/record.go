// Package telemetry records per-tick locomotion samples to CSV and reduces
// them to run summaries.
package telemetry

// Actor kinds.
const (
	KindRigid     = "rigid"
	KindKinematic = "kinematic"
	KindDriven    = "driven" // Rigid body with input-set velocity
)

// TickRecord is one sample of one actor.
type TickRecord struct {
	Scene   string  `csv:"scene"`
	Actor   string  `csv:"actor"`
	ActorID string  `csv:"actor_id"`
	Kind    string  `csv:"kind"`
	Tick    int64   `csv:"tick"`
	TimeSec float64 `csv:"time"`

	X float32 `csv:"x"`
	Y float32 `csv:"y"`
	Z float32 `csv:"z"`

	VX float32 `csv:"vx"`
	VY float32 `csv:"vy"`
	VZ float32 `csv:"vz"`

	HorizontalSpeed float32 `csv:"h_speed"`
	Yaw             float32 `csv:"yaw"`

	State        string  `csv:"state"`  // Ground classification
	Regime       string  `csv:"regime"` // Force branch, empty for players
	Grounded     bool    `csv:"grounded"`
	OnSlope      bool    `csv:"on_slope"`
	SlopeAngle   float32 `csv:"slope_angle"`
	BeforeStairs bool    `csv:"before_stairs"`
	Distance     float32 `csv:"target_distance"`
	HasTarget    bool    `csv:"has_target"`
}

// Recorder consumes tick samples.
type Recorder interface {
	Record(rec TickRecord) error
}
