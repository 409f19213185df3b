package rail

import (
	"math"

	"github.com/lixenwraith/tanks/clothoid"
	"github.com/lixenwraith/tanks/simworld"
	"github.com/lixenwraith/tanks/vmath"
)

// Physical constants governing every train's motion, shared across
// the fleet rather than tunable per-instance.
const (
	MaxSpeed               = 50.0
	MaxAcceleration        = 4.0
	MaxDeceleration        = 4.0
	MaxLateralAcceleration = 4.0
	LocomotiveLength       = 24.0
	CarLength              = 16.0
	CouplingLength         = 1.0
)

// Train follows a cyclic schedule of stations, replanning its route
// on each arrival and steering its speed toward a curvature-limited
// target every tick.
type Train struct {
	simworld.Base
	network *Network

	Schedule     []simworld.Handle[*Station]
	NextStation  int
	Path         []clothoid.EdgeIndex
	CurrentDistance float64
	CurrentSpeed    float64
	TargetDistance  float64
	NumCars         int
}

// NewTrain returns a constructor suitable for simworld.Spawn.
func NewTrain(network *Network, schedule []simworld.Handle[*Station], numCars int) func() *Train {
	return func() *Train {
		return &Train{network: network, Schedule: schedule, NumCars: numCars}
	}
}

func (t *Train) length() float64 {
	return LocomotiveLength + float64(t.NumCars)*(CarLength+CouplingLength)
}

// Position returns the locomotive's current world-space location, or
// the zero vector if the train hasn't bootstrapped onto a path yet.
func (t *Train) Position() vmath.Vec2F {
	if len(t.Path) == 0 {
		return vmath.Vec2F{}
	}
	pos, _, _ := t.network.Geometry.Evaluate(t.Path[0], t.CurrentDistance)
	return pos
}

// Think advances the train one simulation step: integrate position,
// drop trailing edges the whole train has cleared, arrive and advance
// the schedule if the target has been reached, and integrate speed
// toward the curvature-limited target.
func (t *Train) Think(w *simworld.World, dt float64) {
	if len(t.Path) == 0 {
		t.nextStation(w) // bootstrap: advance the cursor and snap onto that station
		return            // resume integration and replanning next tick
	}

	t.CurrentDistance += t.CurrentSpeed * dt

	trainLen := t.length()
	for len(t.Path) > 1 {
		segLen := t.network.Geometry.Length(t.Path[0])
		if t.CurrentDistance-trainLen <= segLen {
			break
		}
		t.CurrentDistance -= segLen
		t.TargetDistance -= segLen
		t.Path = t.Path[1:]
	}

	if t.CurrentDistance >= t.TargetDistance {
		t.CurrentDistance = t.TargetDistance
		t.nextStation(w)
	}

	target := t.targetSpeed()
	stoppingSpeed := math.Sqrt(2 * math.Max(0, t.TargetDistance-t.CurrentDistance) * MaxDeceleration)
	if stoppingSpeed < target {
		target = stoppingSpeed
	}

	diff := target - t.CurrentSpeed
	if diff > 0 {
		maxDelta := MaxAcceleration * dt
		if diff > maxDelta {
			diff = maxDelta
		}
	} else {
		maxDelta := MaxDeceleration * dt
		if -diff > maxDelta {
			diff = -maxDelta
		}
	}
	t.CurrentSpeed += diff
}

// nextStation advances the schedule cursor and either snaps to the
// next station (if the train has no path yet, i.e. initial dispatch)
// or replans from the point the train will have reached after
// braking, appending the new route to the already-committed prefix.
func (t *Train) nextStation(w *simworld.World) {
	if len(t.Schedule) == 0 {
		return
	}
	t.NextStation = (t.NextStation + 1) % len(t.Schedule)
	station, ok := simworld.Get(w, t.Schedule[t.NextStation])
	if !ok {
		return
	}
	goal := FromEdge(station.Edge, station.Dist)

	if len(t.Path) == 0 {
		t.Path = []clothoid.EdgeIndex{station.Edge}
		t.CurrentDistance = station.Dist
		t.TargetDistance = station.Dist
		return
	}

	stoppingDistance := 0.5 * t.CurrentSpeed * t.CurrentSpeed / MaxDeceleration
	start, startIdx := t.positionAlongPath(t.CurrentDistance + stoppingDistance)
	if startIdx < 0 {
		return
	}

	newPath, _, found := t.network.FindPath(start, goal, 1024)
	if !found {
		return
	}

	prefix := append([]clothoid.EdgeIndex(nil), t.Path[:startIdx]...)
	t.Path = append(prefix, newPath...)
	t.TargetDistance = t.cumulativeDistanceTo(station.Edge, station.Dist)
}

// positionAlongPath locates the Position on t.Path at absolute
// arc-length cumulative (measured from t.Path[0]'s start, the same
// coordinate space as CurrentDistance/TargetDistance), along with the
// index of the edge it falls on.
func (t *Train) positionAlongPath(cumulative float64) (Position, int) {
	cum := 0.0
	for i, e := range t.Path {
		segLen := t.network.Geometry.Length(e)
		last := i == len(t.Path)-1
		if cumulative <= cum+segLen || last {
			dist := cumulative - cum
			if dist < 0 {
				dist = 0
			}
			if dist > segLen {
				dist = segLen
			}
			return FromEdge(e, dist), i
		}
		cum += segLen
	}
	return Position{}, -1
}

// cumulativeDistanceTo returns the absolute arc-length distance (in
// t.Path's coordinate space) at which edge/dist is reached.
func (t *Train) cumulativeDistanceTo(edge clothoid.EdgeIndex, dist float64) float64 {
	cum := 0.0
	for _, e := range t.Path {
		if e == edge {
			return cum + dist
		}
		cum += t.network.Geometry.Length(e)
	}
	return cum
}

// targetSpeed scans the path within the current stopping-distance
// horizon and returns the most restrictive curvature-limited cruise
// speed encountered, or MaxSpeed if nothing on the horizon restricts
// it.
func (t *Train) targetSpeed() float64 {
	stoppingDistance := 0.5 * t.CurrentSpeed * t.CurrentSpeed / MaxDeceleration
	horizon := t.CurrentDistance + stoppingDistance

	limit := MaxSpeed
	cum := 0.0
	for _, e := range t.Path {
		segLen := t.network.Geometry.Length(e)
		segStart, segEnd := cum, cum+segLen
		cum = segEnd

		if segEnd < t.CurrentDistance {
			continue
		}
		if segStart > horizon {
			break
		}

		d := segStart - t.CurrentDistance

		switch seg := t.network.GetSegment(e).(type) {
		case clothoid.Line:
			// unconstrained

		case clothoid.Arc:
			v := math.Sqrt(MaxLateralAcceleration/math.Abs(seg.K) + 2*math.Max(0, d)*MaxDeceleration)
			if v < limit {
				limit = v
			}

		case clothoid.Transition:
			_, _, k0 := seg.Evaluate(0)
			_, _, k1 := seg.Evaluate(segLen)
			var v float64
			if math.Abs(k1) <= math.Abs(k0) {
				// decreasing curvature
				tailLocal := horizon - segStart
				if tailLocal >= 0 && tailLocal <= segLen {
					_, _, kTail := seg.Evaluate(tailLocal)
					v = math.Sqrt(MaxLateralAcceleration / math.Abs(kTail))
				} else {
					v = math.Sqrt(MaxLateralAcceleration/math.Abs(k0) + 2*math.Max(0, d)*MaxDeceleration)
				}
			} else {
				// increasing curvature: solve d/ds[a_lat/k(s) + 2*a_dec*(s-s_loco)] = 0
				gamma := (k1 - k0) / segLen
				var kBind float64
				if gamma == 0 {
					kBind = k1
				} else {
					mOpt := math.Sqrt(MaxLateralAcceleration * math.Abs(gamma) / (2 * MaxDeceleration))
					sOpt := (mOpt - math.Abs(k0)) / math.Abs(gamma)
					if sOpt < 0 {
						sOpt = 0
					}
					if sOpt > segLen {
						sOpt = segLen
					}
					sLoco := t.CurrentDistance - segStart
					if sLoco < 0 {
						sLoco = 0
					}
					if sOpt < sLoco {
						kBind = k1
					} else {
						_, _, kBind = seg.Evaluate(sOpt)
					}
				}
				v = math.Sqrt(MaxLateralAcceleration / math.Abs(kBind))
			}
			if v < limit {
				limit = v
			}
		}
	}
	return limit
}

// CarOffset returns the distance behind the locomotive's current
// position at which car i (0-indexed) trails.
func CarOffset(i int) float64 {
	return (LocomotiveLength + CouplingLength) + float64(i)*(CarLength+CouplingLength)
}

// TruckOffset returns the distance behind the locomotive at which
// truck (bogie) i sits, trucks being paired fore/aft under each car
// plus the two under the locomotive itself.
func TruckOffset(i int) float64 {
	switch {
	case i == 0:
		return 2.4
	case i == 1:
		return LocomotiveLength - 2.4
	case i%2 == 0:
		return CarOffset(i/2-1) + 2.4
	default:
		return CarOffset(i/2-1) + CarLength - 2.4
	}
}
