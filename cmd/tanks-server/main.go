// Command tanks-server runs the authoritative simulation: it owns the
// simworld.World, advances the rail and ship subsystems on a fixed
// tick, and replicates snapshots to connected clients over netmsg.
package main

import (
	"encoding/binary"
	"flag"
	"fmt"
	"log"
	"math"
	"os"
	"time"

	"github.com/lixenwraith/tanks/core"
	"github.com/lixenwraith/tanks/logging"
	"github.com/lixenwraith/tanks/netmsg"
	"github.com/lixenwraith/tanks/player"
	"github.com/lixenwraith/tanks/rail"
	"github.com/lixenwraith/tanks/scenario"
	"github.com/lixenwraith/tanks/session"
	"github.com/lixenwraith/tanks/ship"
	"github.com/lixenwraith/tanks/simworld"
	"github.com/lixenwraith/tanks/vmath"
)

// tickInterval is the fixed simulation step: a 50ms server tick.
const tickInterval = 50 * time.Millisecond

func main() {
	debug := flag.Bool("debug", false, "enable debug logging to file")
	addr := flag.String("addr", ":7777", "address to listen on")
	maxClients := flag.Int("maxclients", 8, "maximum simultaneous client connections")
	flag.Parse()

	logFile := logging.Setup("tanks-server", *debug)
	if logFile != nil {
		defer logFile.Close()
	}

	w := simworld.NewWorld(0)
	defer w.Close()

	railNet, _ := scenario.BuildRailLoop(w)
	layout, state := scenario.BuildShip()

	transport := netmsg.NewTransport(netmsg.DebugConfig(netmsg.RoleServer, *addr))
	srv := session.NewServer(transport, *maxClients)
	srv.OnCommand = func(slot uint8, cmd netmsg.CommandPayload) {
		p := findOrSpawnPlayer(w, slot)
		p.ApplyCommand(cmd, tickInterval.Seconds())
	}
	transport.SetHandlers(
		func(peer netmsg.PeerID) { log.Printf("tanks-server: peer %d connected", peer) },
		func(peer netmsg.PeerID) {
			if slot, ok := srv.SlotForPeer(peer); ok {
				removePlayer(w, slot)
			}
			srv.HandleDisconnect(peer)
		},
		srv.HandleMessage,
	)

	if err := transport.Start(); err != nil {
		fmt.Fprintf(os.Stderr, "tanks-server: failed to start transport: %v\n", err)
		os.Exit(1)
	}
	defer transport.Stop()

	ticker := time.NewTicker(tickInterval)
	defer ticker.Stop()

	log.Printf("tanks-server: listening on %s (max %d clients)", *addr, *maxClients)

	for range ticker.C {
		runTick(w, layout, state, srv)
	}

	_ = railNet
}

// runTick advances one simulation step and broadcasts the resulting
// snapshot. A panic inside a tick is recovered and handed to
// core.HandleCrash, which prints it with a stack trace and exits the
// server process.
func runTick(w *simworld.World, layout *ship.Layout, state *ship.State, srv *session.Server) {
	defer func() {
		if r := recover(); r != nil {
			core.HandleCrash(r)
		}
	}()

	dt := tickInterval.Seconds()
	w.Update(dt)
	state.Think(dt)
	blob := encodeSnapshot(w, layout, state)
	srv.BroadcastSnapshot(uint32(w.FrameNumber()), blob)
}

// findOrSpawnPlayer returns the live *player.Player for slot, spawning
// one the first time a command arrives from a newly connected slot.
func findOrSpawnPlayer(w *simworld.World, slot uint8) *player.Player {
	var found *player.Player
	w.Objects(func(_ simworld.Handle[simworld.Entity], obj simworld.Entity) bool {
		if p, ok := obj.(*player.Player); ok && p.Slot == slot {
			found = p
			return false
		}
		return true
	})
	if found != nil {
		return found
	}
	h := simworld.Spawn(w, player.NewPlayer(slot))
	p, _ := simworld.Get(w, h)
	return p
}

// removePlayer deletes the tank owned by slot, called on disconnect so
// a departed client's tank stops being replicated.
func removePlayer(w *simworld.World, slot uint8) {
	w.Objects(func(h simworld.Handle[simworld.Entity], obj simworld.Entity) bool {
		if p, ok := obj.(*player.Player); ok && p.Slot == slot {
			simworld.Remove(w, h)
			return false
		}
		return true
	})
}

// encodeSnapshot serializes every live tank as a netmsg.PlayerRecord
// block (marker/slot/position/velocity/rotation/angular velocity/
// turret rotation/turret angular velocity/damage/fire-time, zero-byte
// terminated), followed by the train and ship state every connected
// client also renders locally: trainCount(u16), then per train
// x,y(float32); compartmentCount(u16), then per compartment
// atmosphere(float32).
func encodeSnapshot(w *simworld.World, layout *ship.Layout, state *ship.State) []byte {
	var trains []vmath.Vec2F
	var records []netmsg.PlayerRecord
	w.Objects(func(_ simworld.Handle[simworld.Entity], obj simworld.Entity) bool {
		switch e := obj.(type) {
		case *rail.Train:
			trains = append(trains, e.Position())
		case *player.Player:
			records = append(records, e.Record())
		}
		return true
	})

	numCompartments := len(layout.Compartments)

	rest := make([]byte, 2+8*len(trains)+2+4*numCompartments)
	off := 0
	binary.BigEndian.PutUint16(rest[off:], uint16(len(trains)))
	off += 2
	for _, p := range trains {
		binary.BigEndian.PutUint32(rest[off:], math.Float32bits(float32(p.X)))
		off += 4
		binary.BigEndian.PutUint32(rest[off:], math.Float32bits(float32(p.Y)))
		off += 4
	}
	binary.BigEndian.PutUint16(rest[off:], uint16(numCompartments))
	off += 2
	for i := 0; i < numCompartments; i++ {
		binary.BigEndian.PutUint32(rest[off:], math.Float32bits(float32(state.Atmosphere(i))))
		off += 4
	}

	return netmsg.EncodePlayerBlock(records, rest)
}
