// Package scenario builds the default rail and ship layouts shared by
// cmd/tanks-server and cmd/tanks-client, so the client renders the same
// geometry the server simulates without receiving it over the network.
package scenario

import (
	"math"

	"github.com/lixenwraith/tanks/clothoid"
	"github.com/lixenwraith/tanks/rail"
	"github.com/lixenwraith/tanks/ship"
	"github.com/lixenwraith/tanks/simworld"
	"github.com/lixenwraith/tanks/vmath"
)

// BuildRailLoop lays out a tangent-continuous racetrack (two straights
// joined by semicircular arcs) with one station per leg and a single
// train running the circuit, and spawns it all into w.
func BuildRailLoop(w *simworld.World) (*rail.Network, simworld.Handle[*rail.Train]) {
	const straightLen = 150.0
	const radius = 40.0

	var geom clothoid.Network
	n := rail.NewNetwork(&geom)

	n0 := n.AddNode(vmath.Vec2F{X: 0, Y: -radius})
	n1 := n.AddNode(vmath.Vec2F{X: straightLen, Y: -radius})
	n2 := n.AddNode(vmath.Vec2F{X: straightLen, Y: radius})
	n3 := n.AddNode(vmath.Vec2F{X: 0, Y: radius})

	straightA := n.AddSegment(clothoid.NewLine(n.NodePosition(n0), n.NodePosition(n1)), n0, n1)
	arc1 := n.AddSegment(clothoid.NewArc(n.NodePosition(n1), vmath.Vec2F{X: 1, Y: 0}, 1/radius, math.Pi*radius), n1, n2)
	straightB := n.AddSegment(clothoid.NewLine(n.NodePosition(n2), n.NodePosition(n3)), n2, n3)
	arc2 := n.AddSegment(clothoid.NewArc(n.NodePosition(n3), vmath.Vec2F{X: -1, Y: 0}, 1/radius, math.Pi*radius), n3, n0)

	edges := []clothoid.EdgeIndex{straightA, arc1, straightB, arc2}
	names := []string{"Alpha", "Bravo", "Charlie", "Delta"}
	var schedule []simworld.Handle[*rail.Station]
	for i, e := range edges {
		dist := n.Geometry.Length(e) / 2
		schedule = append(schedule, simworld.Spawn(w, rail.NewStation(n, e, dist, names[i])))
	}

	train := simworld.Spawn(w, rail.NewTrain(n, schedule, 4))
	return n, train
}

// BuildShip lays out a small three-room hull with both interior doors
// opened (no vacuum exposure): the same three rooms in a row as ship's
// own "U-shaped" test fixture, here with both doors 2 wide.
func BuildShip() (*ship.Layout, *ship.State) {
	layout := &ship.Layout{}
	a := layout.AddCompartment(rect(0, 0, 10, 10))
	b := layout.AddCompartment(rect(10, 0, 20, 10))
	c := layout.AddCompartment(rect(20, 0, 30, 10))
	layout.AddConnection(a, b,
		vmath.Vec2F{X: 10, Y: 4}, vmath.Vec2F{X: 10, Y: 6},
		vmath.Vec2F{X: 10, Y: 6}, vmath.Vec2F{X: 10, Y: 4})
	layout.AddConnection(b, c,
		vmath.Vec2F{X: 20, Y: 4}, vmath.Vec2F{X: 20, Y: 6},
		vmath.Vec2F{X: 20, Y: 6}, vmath.Vec2F{X: 20, Y: 4})

	state := ship.NewState(layout)
	state.SetConnection(0, true)
	state.SetConnection(1, true)
	return layout, state
}

func rect(minX, minY, maxX, maxY float64) []vmath.Vec2F {
	return []vmath.Vec2F{
		{X: minX, Y: maxY}, {X: maxX, Y: maxY}, {X: maxX, Y: minY}, {X: minX, Y: minY},
	}
}
