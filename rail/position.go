// Package rail models a directed planar graph of track segments
// (edges) joined at junctions (nodes), and the trains that run along
// paths found through it.
package rail

import "github.com/lixenwraith/tanks/clothoid"

// NodeIndex addresses a junction in a Network's topology.
type NodeIndex uint32

// Position locates a point in the rail graph: either partway along a
// specific edge, or exactly at a node (e.g. a dead-end or a junction
// the pathfinder is allowed to depart from in any direction). A
// Position with both IsEdge and IsNode set is read as on-edge.
type Position struct {
	IsEdge bool
	IsNode bool
	Node   NodeIndex
	Edge   clothoid.EdgeIndex
	Dist   float64
}

// FromEdge builds a Position partway along edge at arc-length dist.
func FromEdge(edge clothoid.EdgeIndex, dist float64) Position {
	return Position{IsEdge: true, Edge: edge, Dist: dist}
}

// FromNode builds a Position exactly at node.
func FromNode(node NodeIndex) Position {
	return Position{IsNode: true, Node: node}
}
