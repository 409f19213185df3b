package render

import (
	"fmt"

	"github.com/lixenwraith/tanks/core"
	"github.com/lixenwraith/tanks/player"
	"github.com/lixenwraith/tanks/rail"
	"github.com/lixenwraith/tanks/ship"
	"github.com/lixenwraith/tanks/simworld"
	"github.com/lixenwraith/tanks/vmath"
)

// WorldView draws a rail network and ship atmosphere state onto a
// Screen as an ASCII schematic, using an affine world-to-cell mapping
// supplied by the caller (the client owns camera/scroll state; this
// type only knows how to sample the simulation and paint cells).
type WorldView struct {
	OriginX, OriginY float64 // world coordinates mapped to cell (0,0)
	ScaleX, ScaleY   float64 // cells per world unit
}

func (v *WorldView) project(p vmath.Vec2F) (int, int) {
	x := int((p.X - v.OriginX) * v.ScaleX)
	y := int((p.Y - v.OriginY) * v.ScaleY)
	return x, y
}

// DrawRail renders every station (as its initial letter) and every
// live train (as 'T') in w onto screen.
func (v *WorldView) DrawRail(screen Screen, w *simworld.World) {
	stationColor := core.RGB{R: 200, G: 200, B: 200}
	trainColor := core.RGB{R: 255, G: 210, B: 0}

	w.Objects(func(_ simworld.Handle[simworld.Entity], obj simworld.Entity) bool {
		switch e := obj.(type) {
		case *rail.Station:
			x, y := v.project(e.Position())
			ch := rune('?')
			if e.Name != "" {
				ch = []rune(e.Name)[0]
			}
			screen.SetCell(x, y, ch, stationColor)
		case *rail.Train:
			x, y := v.project(e.Position())
			screen.SetCell(x, y, 'T', trainColor)
		}
		return true
	})
}

// DrawShip renders each compartment's centroid as a single cell whose
// color interpolates from red (vacuum) to green (full pressure), via
// core.RGB.Blend.
func (v *WorldView) DrawShip(screen Screen, layout *ship.Layout, state *ship.State) {
	vacuum := core.RGB{R: 220, G: 40, B: 40}
	full := core.RGB{R: 40, G: 220, B: 80}

	for i, c := range layout.Compartments {
		centroid := compartmentCentroid(layout, c)
		x, y := v.project(centroid)
		level := state.Atmosphere(i)
		if level > 1 {
			level = 1
		}
		if level < 0 {
			level = 0
		}
		color := vacuum.Blend(full, level)
		label := fmt.Sprintf("%d", i%10)
		screen.SetCell(x, y, []rune(label)[0], color)
	}
}

// DrawPlayers renders every tank in w (a world populated from replicated
// snapshot records, not a locally-ticked simulation) as an 'A' at its
// hull position, recolored toward red as Damage approaches
// player.MaxDamage. The turret bearing is not drawn.
func (v *WorldView) DrawPlayers(screen Screen, w *simworld.World) {
	healthy := core.RGB{R: 60, G: 200, B: 60}
	dead := core.RGB{R: 220, G: 40, B: 40}

	w.Objects(func(_ simworld.Handle[simworld.Entity], obj simworld.Entity) bool {
		p, ok := obj.(*player.Player)
		if !ok {
			return true
		}
		level := p.Damage / player.MaxDamage
		if level > 1 {
			level = 1
		}
		if level < 0 {
			level = 0
		}
		color := healthy.Blend(dead, level)
		x, y := v.project(p.Position)
		screen.SetCell(x, y, 'A', color)
		return true
	})
}

func compartmentCentroid(l *ship.Layout, c ship.Compartment) vmath.Vec2F {
	var sum vmath.Vec2F
	n := 0
	for j := 0; j < c.NumVertices; j++ {
		sum = vmath.V2FAdd(sum, l.Vertices[c.FirstVertex+j])
		n++
	}
	if n == 0 {
		return vmath.Vec2F{}
	}
	return vmath.Vec2F{X: sum.X / float64(n), Y: sum.Y / float64(n)}
}
