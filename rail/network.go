package rail

import (
	"container/heap"

	"github.com/lixenwraith/tanks/clothoid"
	"github.com/lixenwraith/tanks/vmath"
)

// TangentContinuityThreshold is the minimum dot product between an
// edge's end tangent and a candidate successor edge's start tangent
// for the pathfinder to consider the transition smooth enough for a
// train to traverse without an unrealistic instantaneous heading
// change. 0.999 rejects anything sharper than roughly a 2.6 degree
// kink.
const TangentContinuityThreshold = 0.999

type edgeRecord struct {
	from, to NodeIndex
}

// Network is the topology of a rail graph: a clothoid.Network supplies
// the geometry of each edge, and Network layers junction connectivity
// and A* pathfinding on top of it.
type Network struct {
	Geometry *clothoid.Network

	nodePositions []vmath.Vec2F
	edges         []edgeRecord
	outgoing      map[NodeIndex][]clothoid.EdgeIndex
}

// NewNetwork creates an empty rail network backed by geom.
func NewNetwork(geom *clothoid.Network) *Network {
	return &Network{Geometry: geom, outgoing: make(map[NodeIndex][]clothoid.EdgeIndex)}
}

// AddNode registers a junction at pos and returns its index.
func (n *Network) AddNode(pos vmath.Vec2F) NodeIndex {
	n.nodePositions = append(n.nodePositions, pos)
	return NodeIndex(len(n.nodePositions) - 1)
}

// NodePosition returns the world position of node.
func (n *Network) NodePosition(node NodeIndex) vmath.Vec2F {
	return n.nodePositions[node]
}

// AddSegment adds a geometric segment to the network as an edge from
// node `from` to node `to` and returns its edge index.
func (n *Network) AddSegment(seg clothoid.Segment, from, to NodeIndex) clothoid.EdgeIndex {
	idx := n.Geometry.Add(seg)
	if int(idx) != len(n.edges) {
		panic("rail: geometry/topology edge index mismatch")
	}
	n.edges = append(n.edges, edgeRecord{from: from, to: to})
	n.outgoing[from] = append(n.outgoing[from], idx)
	return idx
}

// FromNode returns the origin node of edge e.
func (n *Network) FromNode(e clothoid.EdgeIndex) NodeIndex { return n.edges[e].from }

// ToNode returns the destination node of edge e.
func (n *Network) ToNode(e clothoid.EdgeIndex) NodeIndex { return n.edges[e].to }

// OutgoingEdges returns the edges departing node.
func (n *Network) OutgoingEdges(node NodeIndex) []clothoid.EdgeIndex {
	return n.outgoing[node]
}

// GetSegment returns the geometry of edge e.
func (n *Network) GetSegment(e clothoid.EdgeIndex) clothoid.Segment {
	return n.Geometry.Get(e)
}

// --- A* pathfinding ---

type searchState struct {
	distance, heuristic float64
	previous            int // index into the states slice, -1 for a seed
	node                NodeIndex
	edge                clothoid.EdgeIndex
}

type openItem struct {
	stateIdx int
	priority float64
}

type openHeap []openItem

func (h openHeap) Len() int            { return len(h) }
func (h openHeap) Less(i, j int) bool  { return h[i].priority < h[j].priority }
func (h openHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *openHeap) Push(x any)         { *h = append(*h, x.(openItem)) }
func (h *openHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// FindPath searches for a route from start to goal using A* over
// edges as atomic hops, rejecting successor edges whose start tangent
// doesn't continue the current edge's end tangent within
// TangentContinuityThreshold. An edge is marked closed only once the
// state that reaches it is popped off the open heap (the cheapest way
// to reach it, since the heap orders by f-score) — a later, costlier
// candidate for an edge already closed is skipped, but an edge can
// still be pushed onto the heap more than once before either pop
// decides the matter. If a path exists but needs more than maxEdges
// hops to express, FindPath returns (nil, neededDepth, true) so the
// caller can retry with a larger budget; if no path exists at all it
// returns (nil, 0, false).
func (n *Network) FindPath(start, goal Position, maxEdges int) (path []clothoid.EdgeIndex, neededDepth int, found bool) {
	goalPos := n.positionPoint(goal)

	var states []searchState
	var h openHeap
	closed := make(map[clothoid.EdgeIndex]bool)

	seed := func(edge clothoid.EdgeIndex, distance float64) {
		arrival := n.edges[edge].to
		arrivalPos, _, _ := n.Geometry.Evaluate(edge, n.Geometry.Length(edge))
		heuristic := vmath.V2FDistance(arrivalPos, goalPos)
		states = append(states, searchState{
			distance: distance, heuristic: heuristic, previous: -1,
			node: arrival, edge: edge,
		})
		heap.Push(&h, openItem{stateIdx: len(states) - 1, priority: distance + heuristic})
	}

	if start.IsEdge {
		remaining := n.Geometry.Length(start.Edge) - start.Dist
		seed(start.Edge, remaining)
	} else {
		for _, e := range n.outgoing[start.Node] {
			seed(e, n.Geometry.Length(e))
		}
	}

	for h.Len() > 0 {
		item := heap.Pop(&h).(openItem)
		idx := item.stateIdx
		s := states[idx]

		if closed[s.edge] {
			continue
		}
		closed[s.edge] = true

		reachedGoal := false
		if goal.IsEdge && s.edge == goal.Edge {
			reachedGoal = true
		}
		if !goal.IsEdge && goal.IsNode && s.node == goal.Node {
			reachedGoal = true
		}

		if reachedGoal {
			depth := 0
			for i := idx; i != -1; i = states[i].previous {
				depth++
			}
			if depth > maxEdges {
				return nil, depth, true
			}
			out := make([]clothoid.EdgeIndex, depth)
			i := idx
			for p := depth - 1; p >= 0; p-- {
				out[p] = states[i].edge
				i = states[i].previous
			}
			return out, depth, true
		}

		endTangent := n.Geometry.EndTangent(s.edge)
		for _, next := range n.outgoing[s.node] {
			if closed[next] {
				continue
			}
			startTangent := n.Geometry.StartTangent(next)
			if vmath.V2FDot(endTangent, startTangent) < TangentContinuityThreshold {
				continue
			}
			arrival := n.edges[next].to
			arrivalPos, _, _ := n.Geometry.Evaluate(next, n.Geometry.Length(next))
			heuristic := vmath.V2FDistance(arrivalPos, goalPos)
			states = append(states, searchState{
				distance: s.distance + n.Geometry.Length(next),
				heuristic: heuristic,
				previous:  idx,
				node:      arrival,
				edge:      next,
			})
			heap.Push(&h, openItem{
				stateIdx: len(states) - 1,
				priority: s.distance + n.Geometry.Length(next) + heuristic,
			})
		}
	}

	return nil, 0, false
}

func (n *Network) positionPoint(p Position) vmath.Vec2F {
	if p.IsNode && !p.IsEdge {
		return n.nodePositions[p.Node]
	}
	pos, _, _ := n.Geometry.Evaluate(p.Edge, p.Dist)
	return pos
}
