package locomotion

import (
	"fmt"
	gomath "math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/midgard-stride/internal/config"
	"github.com/Faultbox/midgard-stride/internal/physics"
	"github.com/Faultbox/midgard-stride/pkg/math"
)

// slopeNormal returns the normal of a plane tilted deg degrees around X.
func slopeNormal(deg float64) math.Vec3 {
	r := deg * gomath.Pi / 180
	return math.Vec3{Y: float32(gomath.Cos(r)), Z: -float32(gomath.Sin(r))}
}

func TestIsSlopeBoundaries(t *testing.T) {
	tests := []struct {
		angle float32
		want  bool
	}{
		{0, false},
		{0.001, true},
		{30, true},
		{44.99, true},
		{45, false},
		{60, false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, IsSlope(tt.angle, 45), "angle %v", tt.angle)
	}
}

func TestStairVerdictTable(t *testing.T) {
	tests := []struct {
		lower, upper bool
		want         bool
	}{
		{lower: false, upper: false, want: false},
		{lower: false, upper: true, want: false},
		{lower: true, upper: false, want: true},
		{lower: true, upper: true, want: false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, StairVerdict(tt.lower, tt.upper), "lower=%v upper=%v", tt.lower, tt.upper)
	}
}

func TestClassifyFlatGroundIsNotSlope(t *testing.T) {
	w := newFakeWorld().flat()
	a := mustActor(newFakeBody(math.Vec3{Y: 1}), config.DefaultBotProfile())

	cls := NewGroundProbe(w).Classify(a)

	assert.True(t, cls.Grounded)
	assert.False(t, cls.OnSlope)
	assert.Equal(t, float32(0), cls.SlopeAngle)
	assert.Equal(t, math.Up, cls.GroundNormal)
}

func TestClassifySlopeAngles(t *testing.T) {
	for _, deg := range []float64{5, 30, 44, 50, 80} {
		t.Run(fmt.Sprintf("%v deg", deg), func(t *testing.T) {
			w := newFakeWorld().withNormal(slopeNormal(deg))
			a := mustActor(newFakeBody(math.Vec3{Y: 1}), config.DefaultBotProfile())

			cls := NewGroundProbe(w).Classify(a)

			require.True(t, cls.Grounded)
			assert.InDelta(t, deg, cls.SlopeAngle, 1e-3)
			assert.Equal(t, deg < 45, cls.OnSlope)
		})
	}
}

func TestClassifyMissIsAirborne(t *testing.T) {
	w := newFakeWorld()
	a := mustActor(newFakeBody(math.Vec3{Y: 1}), config.DefaultBotProfile())

	cls := NewGroundProbe(w).Classify(a)

	assert.False(t, cls.Grounded)
	assert.False(t, cls.OnSlope)
}

func TestClassifySphereCastGeometry(t *testing.T) {
	w := newFakeWorld().flat()
	p := config.DefaultBotProfile()
	a := mustActor(newFakeBody(math.Vec3{X: 2, Y: 1, Z: 3}), p)

	NewGroundProbe(w).Classify(a)

	require.Len(t, w.spheres, 1)
	call := w.spheres[0]
	assert.Equal(t, math.Vec3{X: 2, Y: 1, Z: 3}, call.origin)
	assert.InDelta(t, 0.5-0.08, call.radius, 1e-6)
	assert.Equal(t, math.Down, call.dir)
	// halfHeight - radius + 2*skin
	assert.InDelta(t, 1-0.5+0.16, call.distance, 1e-6)
	assert.Equal(t, physics.LayerGround, call.mask)
}

func TestClassifyStairCombinations(t *testing.T) {
	tests := []struct {
		name         string
		lower, upper bool
		wantStairs   bool
		wantRays     int
	}{
		{"clear path", false, false, false, 1},
		{"only head blocked", false, true, false, 1},
		{"low step", true, false, true, 2},
		{"wall", true, true, false, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := newFakeWorld().flat()
			w.lowerHit, w.upperHit = tt.lower, tt.upper
			a := mustActor(newFakeBody(math.Vec3{Y: 1}), config.DefaultBotProfile())

			cls := NewGroundProbe(w).Classify(a)

			assert.Equal(t, tt.wantStairs, cls.BeforeStairs)
			assert.Len(t, w.rays, tt.wantRays, "upper ray only cast after a lower hit")
		})
	}
}

func TestClassifyStairRayGeometry(t *testing.T) {
	w := newFakeWorld().flat()
	w.lowerHit = true
	body := newFakeBody(math.Vec3{Y: 1})
	body.rot = math.QuatFromYaw(90)
	a := mustActor(body, config.DefaultBotProfile())

	NewGroundProbe(w).Classify(a)

	require.Len(t, w.rays, 2)
	lower, upper := w.rays[0], w.rays[1]

	// Forward follows the actor's heading
	assert.InDelta(t, 1, lower.dir.X, 1e-5)
	assert.InDelta(t, 0, lower.dir.Z, 1e-5)

	// 0.1 + radius - lower.z
	assert.InDelta(t, 0.1+0.5-0.4, lower.distance, 1e-6)
	assert.InDelta(t, 0.2, upper.distance, 1e-6)

	assert.InDelta(t, 0.1, lower.origin.Y, 1e-5)
	assert.InDelta(t, 0.4, upper.origin.Y, 1e-5)
	assert.InDelta(t, 0.4, lower.origin.X, 1e-5, "local z maps to world x after 90 deg yaw")
}

func TestClassifyStairsWhileAirborne(t *testing.T) {
	w := newFakeWorld()
	w.lowerHit = true
	a := mustActor(newFakeBody(math.Vec3{Y: 1}), config.DefaultBotProfile())

	cls := NewGroundProbe(w).Classify(a)

	assert.False(t, cls.Grounded)
	assert.True(t, cls.BeforeStairs)
}

func TestClassificationString(t *testing.T) {
	assert.Equal(t, "airborne", Classification{}.String())
	assert.Equal(t, "flat", Classification{Grounded: true}.String())
	assert.Equal(t, "stairs", Classification{Grounded: true, BeforeStairs: true}.String())
	assert.Equal(t, "slope(30.0)", Classification{Grounded: true, OnSlope: true, SlopeAngle: 30}.String())
}
