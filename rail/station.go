package rail

import (
	"github.com/lixenwraith/tanks/clothoid"
	"github.com/lixenwraith/tanks/simworld"
	"github.com/lixenwraith/tanks/vmath"
)

// Station is a fixed stopping point on a specific edge of a rail
// network, identified to passengers by Name.
type Station struct {
	simworld.Base
	network *Network
	Edge    clothoid.EdgeIndex
	Dist    float64
	Name    string
}

// NewStation returns a constructor suitable for simworld.Spawn.
func NewStation(network *Network, edge clothoid.EdgeIndex, dist float64, name string) func() *Station {
	return func() *Station {
		return &Station{network: network, Edge: edge, Dist: dist, Name: name}
	}
}

// Position returns the station's world-space location.
func (s *Station) Position() vmath.Vec2F {
	pos, _, _ := s.network.Geometry.Evaluate(s.Edge, s.Dist)
	return pos
}
