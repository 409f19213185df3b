package clothoid

import "github.com/lixenwraith/tanks/vmath"

// EdgeIndex addresses a single geometric segment within a Network.
type EdgeIndex uint32

// Network is an append-only table of track segments, indexed by
// EdgeIndex. It holds only geometry; topology (which edges connect to
// which nodes) is the rail package's concern.
type Network struct {
	segments []Segment
}

// Add appends a segment and returns its index.
func (n *Network) Add(seg Segment) EdgeIndex {
	n.segments = append(n.segments, seg)
	return EdgeIndex(len(n.segments) - 1)
}

// Get returns the segment at e.
func (n *Network) Get(e EdgeIndex) Segment {
	return n.segments[e]
}

// Len returns the number of segments in the network.
func (n *Network) Len() int { return len(n.segments) }

// Length returns the arc length of edge e.
func (n *Network) Length(e EdgeIndex) float64 {
	return n.segments[e].Length()
}

// Evaluate returns the position, tangent and curvature of edge e at
// distance dist along it, clamped to [0, Length(e)].
func (n *Network) Evaluate(e EdgeIndex, dist float64) (pos, tangent vmath.Vec2F, curvature float64) {
	seg := n.segments[e]
	if dist < 0 {
		dist = 0
	}
	if l := seg.Length(); dist > l {
		dist = l
	}
	return seg.Evaluate(dist)
}

// StartTangent returns the unit tangent direction at the start of e.
func (n *Network) StartTangent(e EdgeIndex) vmath.Vec2F {
	_, tangent, _ := n.segments[e].Evaluate(0)
	return tangent
}

// EndTangent returns the unit tangent direction at the end of e.
func (n *Network) EndTangent(e EdgeIndex) vmath.Vec2F {
	seg := n.segments[e]
	_, tangent, _ := seg.Evaluate(seg.Length())
	return tangent
}
