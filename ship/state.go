package ship

import "math"

const historySize = 256

// compartmentState is the per-compartment atmosphere record.
type compartmentState struct {
	atmosphere float64
	damage     float64
	// flow[0] accumulates this tick's outflow (negative signed sum),
	// flow[1] accumulates this tick's inflow (positive signed sum);
	// both are scratch space recomputed every clamp-loop pass.
	flow    [2]float64
	history [historySize]float64
}

// connectionState is the per-connection flow record.
type connectionState struct {
	opened          bool
	openedAutomatic bool
	gradient        float64
	flow            float64
	velocity        float64
}

// State is the time-stepped atmosphere simulation over a Layout: per
// compartment breathable gas density and leak rate, per connection
// open/closed flow between compartments (or to vacuum via Outside).
type State struct {
	layout       *Layout
	compartments []compartmentState
	connections  []connectionState
	frame        uint64
}

// NewState builds an atmosphere simulation bound to layout, with every
// compartment starting full (atmosphere = 1) and every connection
// closed.
func NewState(layout *Layout) *State {
	s := &State{
		layout:       layout,
		compartments: make([]compartmentState, len(layout.Compartments)),
		connections:  make([]connectionState, len(layout.Connections)),
	}
	for i := range s.compartments {
		s.compartments[i].atmosphere = 1
	}
	return s
}

// Atmosphere returns compartment index's current atmosphere level.
func (s *State) Atmosphere(index int) float64 {
	return s.compartments[index].atmosphere
}

// Recharge adds rate*dt to every compartment's atmosphere, clamped to
// [0,1].
func (s *State) Recharge(rate, dt float64) {
	for i := range s.compartments {
		a := s.compartments[i].atmosphere + rate*dt
		s.compartments[i].atmosphere = math.Min(1, math.Max(0, a))
	}
}

// Damage increases a compartment's leak rate by amount (a hull
// breach); a permanently nonzero leak rate continuously bleeds
// atmosphere until repaired or recharged faster than it leaks.
func (s *State) Damage(index int, amount float64) {
	s.compartments[index].damage += amount
}

// SetConnection toggles the manual open flag on connection index;
// either it or the automatic flag being set opens the connection.
func (s *State) SetConnection(index int, opened bool) {
	s.connections[index].opened = opened
}

// SetConnectionAutomatic toggles the automatic open flag (e.g. driven
// by a pressure-differential safety system), independent of the
// manual flag.
func (s *State) SetConnectionAutomatic(index int, opened bool) {
	s.connections[index].openedAutomatic = opened
}

func (s *State) isOpen(c int) bool {
	return s.connections[c].opened || s.connections[c].openedAutomatic
}

func (s *State) atmosphereOf(compartment int) float64 {
	if compartment == Outside {
		return 0
	}
	return s.compartments[compartment].atmosphere
}

func (s *State) areaOf(compartment int) float64 {
	if compartment == Outside {
		return 0
	}
	return s.layout.Compartments[compartment].Area
}

// Think advances the atmosphere simulation by one tick of length dt:
// damage loss, per-connection gradient/mass/velocity/flow, a bounded
// clamp loop enforcing every compartment's outflow never exceeds its
// available mass, advection, and a history push.
func (s *State) Think(dt float64) {
	// 1. Damage loss.
	for i := range s.compartments {
		c := &s.compartments[i]
		delta := c.damage * dt
		if delta > c.atmosphere {
			c.atmosphere = 0
		} else {
			c.atmosphere -= delta
		}
	}

	// 2-4. Gradient, mass, velocity update.
	for i := range s.connections {
		conn := &s.connections[i]
		c0, c1 := s.layout.Connections[i].Compartments[0], s.layout.Connections[i].Compartments[1]
		a0, a1 := s.atmosphereOf(c0), s.atmosphereOf(c1)

		// The gradient is a0 - a1 (Outside counts as 0), so a fuller c0
		// gives a positive velocity and flow, which advect moves from c0
		// to c1.
		switch {
		case c0 == Outside:
			conn.gradient = -a1
		case c1 == Outside:
			conn.gradient = a0
		default:
			conn.gradient = a0 - a1
		}

		m := a0*s.areaOf(c0) + a1*s.areaOf(c1)

		if s.isOpen(i) {
			conn.velocity = 0.95*conn.velocity + conn.gradient*m*dt
		} else {
			conn.velocity = 0
		}
	}

	// 5. Flow.
	for i := range s.connections {
		conn := &s.connections[i]
		if s.isOpen(i) {
			conn.flow = conn.velocity * s.layout.Connections[i].Width * dt
		} else {
			conn.flow = 0
		}
	}

	// 6. Clamp loop: enforce non-negative resulting mass on every
	// compartment's outflow side, at most 32 passes. flow[0] accumulates
	// each compartment's net outflow (<=0) and flow[1] its net inflow
	// (>=0) for the current pass, consistent with the advect step's
	// convention that positive flow moves mass from c0 to c1.
	for pass := 0; pass < 32; pass++ {
		for i := range s.compartments {
			s.compartments[i].flow = [2]float64{}
		}
		for i := range s.connections {
			c0, c1 := s.layout.Connections[i].Compartments[0], s.layout.Connections[i].Compartments[1]
			flow := s.connections[i].flow
			if c0 != Outside {
				s.compartments[c0].flow[0] -= math.Max(0, flow)
				s.compartments[c0].flow[1] -= math.Min(0, flow)
			}
			if c1 != Outside {
				s.compartments[c1].flow[0] += math.Min(0, flow)
				s.compartments[c1].flow[1] += math.Max(0, flow)
			}
		}

		clamped := false
		for i := range s.connections {
			conn := &s.connections[i]
			c0, c1 := s.layout.Connections[i].Compartments[0], s.layout.Connections[i].Compartments[1]

			if conn.flow > 0 && c0 != Outside {
				cs := &s.compartments[c0]
				if cs.flow[0] < 0 {
					fraction := conn.flow / -cs.flow[0]
					limit := fraction * (cs.flow[1] + cs.atmosphere*s.areaOf(c0))
					if conn.flow > limit {
						conn.flow = limit
						clamped = true
					}
				}
			}
			if conn.flow < 0 && c1 != Outside {
				cs := &s.compartments[c1]
				if cs.flow[0] < 0 {
					fraction := -conn.flow / -cs.flow[0]
					limit := -(fraction * (cs.flow[1] + cs.atmosphere*s.areaOf(c1)))
					if conn.flow < limit {
						conn.flow = limit
						clamped = true
					}
				}
			}
		}
		if !clamped {
			break
		}
	}

	// 7. Advect.
	for i := range s.connections {
		flow := s.connections[i].flow
		c0, c1 := s.layout.Connections[i].Compartments[0], s.layout.Connections[i].Compartments[1]
		if c0 != Outside {
			s.compartments[c0].atmosphere -= flow / s.areaOf(c0)
		}
		if c1 != Outside {
			s.compartments[c1].atmosphere += flow / s.areaOf(c1)
		}
	}

	// 8. History.
	slot := s.frame % historySize
	for i := range s.compartments {
		s.compartments[i].history[slot] = s.compartments[i].atmosphere
	}
	s.frame++
}
