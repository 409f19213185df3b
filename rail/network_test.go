package rail

import (
	"math"
	"testing"

	"github.com/lixenwraith/tanks/clothoid"
	"github.com/lixenwraith/tanks/vmath"
)

// buildYJunction constructs a node with three outgoing edges: a
// continuation at 0 degrees offset (tangent-continuous), a branch at
// 2 degrees (within the 0.999 dot threshold, which rejects anything
// sharper than ~2.6 degrees), and a branch at 45 degrees (outside it).
func buildYJunction() (*Network, NodeIndex, map[string]clothoid.EdgeIndex) {
	var geom clothoid.Network
	n := NewNetwork(&geom)

	origin := n.AddNode(vmath.Vec2F{X: 0, Y: 0})
	junction := n.AddNode(vmath.Vec2F{X: 100, Y: 0})
	straightEnd := n.AddNode(vmath.Vec2F{X: 200, Y: 0})
	twoDegEnd := n.AddNode(vmath.Vec2F{X: 200, Y: 100 * math.Tan(2*math.Pi/180)})
	fortyFiveDegEnd := n.AddNode(vmath.Vec2F{X: 200, Y: 100})

	in := n.AddSegment(clothoid.NewLine(n.NodePosition(origin), n.NodePosition(junction)), origin, junction)
	straight := n.AddSegment(clothoid.NewLine(n.NodePosition(junction), n.NodePosition(straightEnd)), junction, straightEnd)
	small := n.AddSegment(clothoid.NewLine(n.NodePosition(junction), n.NodePosition(twoDegEnd)), junction, twoDegEnd)
	fortyFive := n.AddSegment(clothoid.NewLine(n.NodePosition(junction), n.NodePosition(fortyFiveDegEnd)), junction, fortyFiveDegEnd)

	return n, junction, map[string]clothoid.EdgeIndex{
		"in": in, "straight": straight, "twoDeg": small, "fortyFive": fortyFive,
	}
}

func TestFindPathRejectsSharpBranch(t *testing.T) {
	n, _, e := buildYJunction()

	// Straight continuation must be reachable.
	path, _, found := n.FindPath(FromEdge(e["in"], 0), FromNode(n.ToNode(e["straight"])), 8)
	if !found || len(path) != 2 || path[1] != e["straight"] {
		t.Fatalf("expected path through straight edge, got %v found=%v", path, found)
	}

	// 45 degree branch exceeds the tangent-continuity threshold and must be unreachable.
	_, _, found = n.FindPath(FromEdge(e["in"], 0), FromNode(n.ToNode(e["fortyFive"])), 8)
	if found {
		t.Fatal("45 degree branch should be rejected by the tangent continuity filter")
	}

	// 2 degree branch is within threshold and must be reachable.
	path, _, found = n.FindPath(FromEdge(e["in"], 0), FromNode(n.ToNode(e["twoDeg"])), 8)
	if !found || len(path) != 2 || path[1] != e["twoDeg"] {
		t.Fatalf("expected path through small-angle edge, got %v found=%v", path, found)
	}
}

// buildConvergentJunction constructs a topology where two edges from
// the same start node converge on the same intermediate node N and
// then share a single onward edge to the goal node G: "viaA" is long
// (50) and ends 60 from G, "viaB" is short (~10) but ends ~100 from G,
// so their f-scores (g+h: 110 against ~110.01) put viaA's state ahead
// of viaB's on the open heap even though viaB is
// the cheaper way to the goal once "shared" is added. This is the
// shape that exposes a pathfinder which closes an edge when it is
// pushed rather than when it is popped: viaA's expansion would reach
// "shared" first and close it, leaving viaB with nothing to expand
// into even though its own candidate for "shared" is cheaper.
func buildConvergentJunction() (n *Network, s, g NodeIndex, viaA, viaB, shared clothoid.EdgeIndex) {
	var geom clothoid.Network
	n = NewNetwork(&geom)

	s = n.AddNode(vmath.Vec2F{X: 0, Y: 0})
	mid := n.AddNode(vmath.Vec2F{X: 10, Y: 0.2})
	g = n.AddNode(vmath.Vec2F{X: 110, Y: 0})

	viaA = n.AddSegment(clothoid.NewLine(vmath.Vec2F{X: 0, Y: 0}, vmath.Vec2F{X: 50, Y: 0}), s, mid)
	viaB = n.AddSegment(clothoid.NewLine(vmath.Vec2F{X: 0, Y: 0}, vmath.Vec2F{X: 10, Y: 0.4}), s, mid)
	shared = n.AddSegment(clothoid.NewLine(vmath.Vec2F{X: 10, Y: 0.2}, vmath.Vec2F{X: 110, Y: 0.2}), mid, g)

	return n, s, g, viaA, viaB, shared
}

func TestFindPathPrefersCheaperConvergentPathOverHigherFScoreFirstPop(t *testing.T) {
	n, s, g, _, viaB, shared := buildConvergentJunction()

	path, depth, found := n.FindPath(FromNode(s), FromNode(g), 10)
	if !found {
		t.Fatal("expected a path through the convergent junction")
	}
	if depth != 2 || len(path) != 2 {
		t.Fatalf("expected a 2-edge path, got %v (depth %d)", path, depth)
	}
	if path[0] != viaB {
		t.Fatalf("expected the cheaper viaB edge first, got edge %d (viaB is %d)", path[0], viaB)
	}
	if path[1] != shared {
		t.Fatalf("expected the shared edge second, got %d", path[1])
	}
}

func TestFindPathDepthOnlyWhenBufferTooSmall(t *testing.T) {
	n, _, e := buildYJunction()
	_, depth, found := n.FindPath(FromEdge(e["in"], 0), FromNode(n.ToNode(e["straight"])), 1)
	if !found {
		t.Fatal("path exists, found should be true even if the buffer is too small")
	}
	if depth != 2 {
		t.Fatalf("depth = %d, want 2", depth)
	}
}
