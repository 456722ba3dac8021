package sim

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/Faultbox/midgard-stride/pkg/math"
)

// Vec is a math.Vec3 that decodes from either [x, y, z] or {x:, y:, z:}.
type Vec math.Vec3

// V3 returns the vector as a math.Vec3.
func (v Vec) V3() math.Vec3 { return math.Vec3(v) }

// UnmarshalYAML implements yaml.Unmarshaler.
func (v *Vec) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.SequenceNode:
		var xyz []float32
		if err := node.Decode(&xyz); err != nil {
			return err
		}
		if len(xyz) != 3 {
			return fmt.Errorf("line %d: vector needs 3 components, got %d", node.Line, len(xyz))
		}
		*v = Vec{X: xyz[0], Y: xyz[1], Z: xyz[2]}
		return nil
	case yaml.MappingNode:
		var m struct {
			X, Y, Z float32
		}
		if err := node.Decode(&m); err != nil {
			return err
		}
		*v = Vec{X: m.X, Y: m.Y, Z: m.Z}
		return nil
	default:
		return fmt.Errorf("line %d: vector must be a sequence or a mapping", node.Line)
	}
}
