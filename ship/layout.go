// Package ship models a starship's interior as a polygonal graph of
// compartments joined by doorway connections, and simulates breathable
// atmosphere flowing between them.
package ship

import (
	"container/heap"
	"math"

	"github.com/lixenwraith/tanks/vmath"
)

// Outside is the sentinel compartment index meaning "outside the
// hull", used on either side of a connection that vents to vacuum.
const Outside = -1

// Compartment is a convex polygonal room, described as a ring of
// vertices with clockwise winding.
type Compartment struct {
	FirstVertex int
	NumVertices int
	Area        float64
}

// Connection is a doorway between two compartments (or one
// compartment and Outside), described by the four vertices of its two
// door-frame edges, from which a width is derived.
type Connection struct {
	Compartments [2]int
	Vertices     [4]int
	Width        float64
}

// Layout is the static geometry of a ship interior: a shared vertex
// buffer, the compartments built from slices of it, and the
// connections joining them.
type Layout struct {
	Vertices     []vmath.Vec2F
	Compartments []Compartment
	Connections  []Connection
}

// AddCompartment appends a compartment ring built from verts (in
// clockwise winding order) and returns its index. Area is computed
// via the shoelace formula.
func (l *Layout) AddCompartment(verts []vmath.Vec2F) int {
	first := len(l.Vertices)
	l.Vertices = append(l.Vertices, verts...)
	area := 0.0
	n := len(verts)
	for i := 0; i < n; i++ {
		a, b := verts[i], verts[(i+1)%n]
		area += a.X*b.Y - b.X*a.Y
	}
	area = math.Abs(area) * 0.5
	l.Compartments = append(l.Compartments, Compartment{FirstVertex: first, NumVertices: n, Area: area})
	return len(l.Compartments) - 1
}

// vertex returns compartment c's j'th ring vertex (wrapping).
func (l *Layout) vertex(c, j int) vmath.Vec2F {
	comp := l.Compartments[c]
	return l.Vertices[comp.FirstVertex+j%comp.NumVertices]
}

// AddConnection appends a doorway between compartments c0/c1 (either
// may be Outside) bounded by the four given vertices (two per side,
// in the order [c0 side 0, c0 side 1, c1 side 0, c1 side 1]). Width is
// the average length of the two door-edge pairs.
func (l *Layout) AddConnection(c0, c1 int, v0, v1, v2, v3 vmath.Vec2F) int {
	first := len(l.Vertices)
	l.Vertices = append(l.Vertices, v0, v1, v2, v3)
	width := 0.5 * (vmath.V2FDistance(v0, v1) + vmath.V2FDistance(v2, v3))
	l.Connections = append(l.Connections, Connection{
		Compartments: [2]int{c0, c1},
		Vertices:     [4]int{first, first + 1, first + 2, first + 3},
		Width:        width,
	})
	return len(l.Connections) - 1
}

func (l *Layout) connVertex(c Connection, i int) vmath.Vec2F {
	return l.Vertices[c.Vertices[i]]
}

// IntersectCompartment returns the index of the compartment
// containing p, or Outside if p falls inside no compartment's ring.
// A convex ring contains p iff p is on the inner side (cross product
// non-positive, matching clockwise winding) of every edge.
func (l *Layout) IntersectCompartment(p vmath.Vec2F) int {
	for ci, comp := range l.Compartments {
		inside := true
		for j := 0; j < comp.NumVertices; j++ {
			v0 := l.vertex(ci, j)
			v1 := l.vertex(ci, j+1)
			edge := vmath.V2FSub(v1, v0)
			toPoint := vmath.V2FSub(p, v0)
			if vmath.V2FCross(edge, toPoint) > 0 {
				inside = false
				break
			}
		}
		if inside {
			return ci
		}
	}
	return Outside
}

type shipSearchState struct {
	position            vmath.Vec2F
	distance, heuristic float64
	previous            int
	compartment         int
	connection          int // Outside-valued sentinel (-1) for the seed state
}

type shipOpenItem struct {
	stateIdx int
	priority float64
}

type shipOpenHeap []shipOpenItem

func (h shipOpenHeap) Len() int           { return len(h) }
func (h shipOpenHeap) Less(i, j int) bool { return h[i].priority < h[j].priority }
func (h shipOpenHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }
func (h *shipOpenHeap) Push(x any)        { *h = append(*h, x.(shipOpenItem)) }
func (h *shipOpenHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// maxSearchNodes bounds the A* search state table, matching the
// original's fixed-size 256-node search array.
const maxSearchNodes = 256

// FindPath searches for a traversable polyline from start to end for
// an agent of radius r. It returns the number of vertices the path
// needs; if maxVertices is non-negative and smaller than that count,
// the polyline is not built and only the count is returned. A
// polyline of [start, end] is returned directly when both points fall
// in the same compartment. found is false if start or end lie outside
// every compartment, or no route exists within the connection-width
// and search-size constraints.
func (l *Layout) FindPath(start, end vmath.Vec2F, r float64, maxVertices int) (path []vmath.Vec2F, neededLen int, found bool) {
	startComp := l.IntersectCompartment(start)
	endComp := l.IntersectCompartment(end)
	if startComp == Outside || endComp == Outside {
		return nil, 0, false
	}

	states := []shipSearchState{{
		position: start, distance: 0,
		heuristic:   vmath.V2FDistance(start, end),
		previous:    -1,
		compartment: startComp,
		connection:  -1,
	}}
	var open shipOpenHeap
	heap.Push(&open, shipOpenItem{stateIdx: 0, priority: states[0].heuristic})

	closed := make(map[int]bool)

	for open.Len() > 0 {
		item := heap.Pop(&open).(shipOpenItem)
		s := states[item.stateIdx]

		if s.connection >= 0 {
			if closed[s.connection] {
				continue
			}
			closed[s.connection] = true
		}

		if s.compartment == endComp {
			return l.buildPath(states, item.stateIdx, start, end, r, maxVertices)
		}

		if len(states) >= maxSearchNodes {
			continue
		}

		for ci, conn := range l.Connections {
			if closed[ci] || conn.Width < 2*r {
				continue
			}
			var other int
			switch s.compartment {
			case conn.Compartments[0]:
				other = conn.Compartments[1]
			case conn.Compartments[1]:
				other = conn.Compartments[0]
			default:
				continue
			}
			mid := doorMidpoint(l, conn)
			newState := shipSearchState{
				position:    mid,
				distance:    s.distance + vmath.V2FDistance(s.position, mid),
				heuristic:   vmath.V2FDistance(mid, end),
				previous:    item.stateIdx,
				compartment: other,
				connection:  ci,
			}
			states = append(states, newState)
			if len(states) > maxSearchNodes {
				states = states[:len(states)-1]
				continue
			}
			heap.Push(&open, shipOpenItem{
				stateIdx: len(states) - 1,
				priority: newState.distance + newState.heuristic,
			})
		}
	}

	return nil, 0, false
}

func doorMidpoint(l *Layout, c Connection) vmath.Vec2F {
	sum := vmath.Vec2F{}
	for i := 0; i < 4; i++ {
		sum = vmath.V2FAdd(sum, l.connVertex(c, i))
	}
	return vmath.V2FScale(sum, 0.25)
}

// buildPath backtracks from the goal state, counts the connections
// traversed, and (if maxVertices allows) emits the inset doorway
// polyline [start, (leftN, rightN), ..., (left1, right1), end].
func (l *Layout) buildPath(states []shipSearchState, goalIdx int, start, end vmath.Vec2F, r float64, maxVertices int) ([]vmath.Vec2F, int, bool) {
	var chain []int
	for i := goalIdx; i != -1; i = states[i].previous {
		chain = append(chain, i)
	}
	// chain is goal-to-start; reverse to start-to-goal, dropping the seed state.
	depth := len(chain) - 1
	needed := depth*2 + 2

	if maxVertices >= 0 && needed > maxVertices {
		return nil, needed, true
	}

	if depth == 0 {
		return []vmath.Vec2F{start, end}, 2, true
	}

	path := make([]vmath.Vec2F, 0, needed)
	path = append(path, start)
	prevAnchor := start

	for i := depth; i >= 1; i-- {
		s := states[chain[i-1]]
		conn := l.Connections[s.connection]
		v0, v1 := l.connVertex(conn, 0), l.connVertex(conn, 1)
		v2, v3 := l.connVertex(conn, 2), l.connVertex(conn, 3)
		n := vmath.V2FAdd(vmath.V2FSub(v0, v2), vmath.V2FSub(v1, v3))
		length := vmath.V2FMag(n)
		half := 0.25*length + r
		var unit vmath.Vec2F
		if length > 0 {
			unit = vmath.V2FScale(n, 1/length)
		}
		if vmath.V2FDot(unit, vmath.V2FSub(s.position, prevAnchor)) < 0 {
			unit = vmath.V2FScale(unit, -1)
		}
		left := vmath.V2FSub(s.position, vmath.V2FScale(unit, half))
		right := vmath.V2FAdd(s.position, vmath.V2FScale(unit, half))
		path = append(path, left, right)
		prevAnchor = right
	}
	path = append(path, end)

	return path, needed, true
}
