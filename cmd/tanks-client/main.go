// Command tanks-client connects to a tanks-server, renders the shared
// default scenario through a terminal screen, and forwards sampled
// input as usercmd commands.
//
// Tanks are fully snapshot-driven: OnSnapshot decodes the player block
// into playersWorld on every frame. The rail/ship geometry is not: the
// client ticks its own copy of the default scenario locally for
// drawing those, while separately sending commands to and receiving
// events from the real connection. See DESIGN.md for the reasoning
// behind that split.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/gdamore/tcell/v2"
	"golang.org/x/term"

	"github.com/lixenwraith/tanks/config"
	"github.com/lixenwraith/tanks/core"
	"github.com/lixenwraith/tanks/logging"
	"github.com/lixenwraith/tanks/netmsg"
	"github.com/lixenwraith/tanks/player"
	"github.com/lixenwraith/tanks/render"
	"github.com/lixenwraith/tanks/scenario"
	"github.com/lixenwraith/tanks/session"
	"github.com/lixenwraith/tanks/simworld"
	"github.com/lixenwraith/tanks/sound"
	"github.com/lixenwraith/tanks/usercmd"
	"github.com/lixenwraith/tanks/vmath"
)

const renderInterval = 16 * time.Millisecond

// worldWidth/worldHeight set the WorldView scale: x spans the length of
// scenario.BuildRailLoop's straights (its end arcs reach 40 past either
// end) and y spans the loop's full height.
const worldWidth = 150.0
const worldHeight = 80.0

func main() {
	debug := flag.Bool("debug", false, "enable debug logging to file")
	addr := flag.String("addr", "127.0.0.1:7777", "server address to connect to")
	flag.Parse()

	logFile := logging.Setup("tanks-client", *debug)
	if logFile != nil {
		defer logFile.Close()
	}

	profile := config.Load()

	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		log.Printf("tanks-client: controlling terminal reports %dx%d before screen init", w, h)
	}

	screen, err := render.NewTCellScreen()
	if err != nil {
		fmt.Fprintf(os.Stderr, "tanks-client: failed to initialize screen: %v\n", err)
		os.Exit(1)
	}
	core.SetCleanup(screen.Fini)
	defer screen.Fini()

	dev, err := sound.NewBeepDevice(sound.DefaultAssets)
	if err != nil {
		log.Printf("tanks-client: audio device unavailable, events will be silent: %v", err)
	}

	w := simworld.NewWorld(0)
	defer w.Close()
	scenario.BuildRailLoop(w)
	layout, shipState := scenario.BuildShip()

	// playersWorld holds nothing but tanks replicated from the server's
	// snapshots: kept separate from w so an incoming snapshot's Reset
	// never touches the locally-ticked rail/ship scenario w renders.
	playersWorld := simworld.NewWorld(1)
	defer playersWorld.Close()

	view := &render.WorldView{}
	sw, sh := screen.Size()
	resizeView(view, sw, sh)

	gen := usercmd.NewGenerator()
	bindDefaults(gen)

	transport := netmsg.NewTransport(netmsg.DebugConfig(netmsg.RoleClient, *addr))
	sess := session.NewClientSession(transport)
	sess.OnEvent = func(e netmsg.EventPayload) {
		if dev != nil {
			dev.Play(e.AssetIndex, e.X, e.Y, e.Volume, e.Pitch)
		}
	}
	sess.OnSnapshot = func(frame uint32, state []byte) {
		records, _, err := netmsg.DecodePlayerBlock(state)
		if err != nil {
			log.Printf("tanks-client: malformed player block in snapshot %d: %v", frame, err)
			return
		}
		playersWorld.Reset()
		for _, r := range records {
			h := simworld.Spawn(playersWorld, player.NewPlayer(r.Slot))
			p, _ := simworld.Get(playersWorld, h)
			p.ApplyRecord(r)
		}
	}
	transport.SetHandlers(
		func(peer netmsg.PeerID) {
			sess.Connect(peer, profile.UIName, 0)
		},
		func(netmsg.PeerID) {
			sess.Connected = false
		},
		sess.HandleMessage,
	)

	if err := transport.Start(); err != nil {
		fmt.Fprintf(os.Stderr, "tanks-client: failed to connect to %s: %v\n", *addr, err)
		os.Exit(1)
	}
	defer transport.Stop()

	eventCh := make(chan tcell.Event, 100)
	go func() {
		for {
			ev := screen.PollEvent()
			if ev == nil {
				return
			}
			eventCh <- ev
		}
	}()

	ticker := time.NewTicker(renderInterval)
	defer ticker.Stop()

	log.Printf("tanks-client: connecting to %s as %q", *addr, profile.UIName)

	for {
		select {
		case ev := <-eventCh:
			switch e := ev.(type) {
			case *tcell.EventResize:
				sw, sh = e.Size()
				resizeView(view, sw, sh)
			case *tcell.EventKey:
				if !handleKey(e, gen) {
					quit(sess)
					return
				}
			}

		case <-ticker.C:
			dt := renderInterval.Seconds()
			w.Update(dt)
			shipState.Think(dt)

			if sess.Connected {
				cmd := gen.Generate()
				sess.SendCommand(netmsg.CommandPayload{
					MoveX:  float32(cmd.Cursor.X),
					MoveY:  float32(cmd.Cursor.Y),
					LookX:  float32(cmd.Cursor.X),
					LookY:  float32(cmd.Cursor.Y),
					Action: uint8(cmd.Action),
				})
			}

			screen.Clear()
			view.DrawRail(screen, w)
			view.DrawShip(screen, layout, shipState)
			view.DrawPlayers(screen, playersWorld)
			screen.Show()
		}
	}
}

func quit(sess *session.ClientSession) {
	if sess.Connected {
		sess.Disconnect()
	}
}

func resizeView(v *render.WorldView, screenW, screenH int) {
	if screenW <= 0 {
		screenW = 1
	}
	if screenH <= 0 {
		screenH = 1
	}
	v.OriginX, v.OriginY = 0, -worldHeight/2
	v.ScaleX = float64(screenW) / worldWidth
	v.ScaleY = float64(screenH) / worldHeight
}

// keyCode maps a tcell key event onto the disjoint integer key space
// usercmd.Generator.Bind expects: non-negative values are printable
// runes, negative values are tcell.Key special codes shifted so they
// never collide with a rune.
func keyCode(ev *tcell.EventKey) int {
	if ev.Key() == tcell.KeyRune {
		return int(ev.Rune())
	}
	return -(int(ev.Key()) + 1)
}

// bindDefaults wires the one-shot action bindings: 'f' fires the
// primary weapon and Enter queues a select action. hjkl or the arrow
// keys move the tank (handled directly in handleKey).
func bindDefaults(gen *usercmd.Generator) {
	gen.Bind(keyFromRune('f'), usercmd.Binding{Kind: usercmd.BindAction, Action: usercmd.ActionWeapon1})
	gen.Bind(keyFromSpecial(tcell.KeyEnter), usercmd.Binding{Kind: usercmd.BindAction, Action: usercmd.ActionSelect})
}

func keyFromRune(r rune) int {
	return int(r)
}

func keyFromSpecial(k tcell.Key) int {
	return -(int(k) + 1)
}

// handleKey applies movement directly (bypassing usercmd's binding
// table, since movement is a continuous vector rather than a
// latched button) and routes everything else through gen.KeyEvent.
// It returns false when the key requests an immediate quit.
func handleKey(ev *tcell.EventKey, gen *usercmd.Generator) bool {
	if ev.Key() == tcell.KeyCtrlC {
		return false
	}
	if ev.Key() == tcell.KeyRune {
		switch ev.Rune() {
		case 'q':
			return false
		case 'h':
			gen.CursorEvent(vmath.Vec2F{X: -1, Y: 0})
			return true
		case 'l':
			gen.CursorEvent(vmath.Vec2F{X: 1, Y: 0})
			return true
		case 'j':
			gen.CursorEvent(vmath.Vec2F{X: 0, Y: 1})
			return true
		case 'k':
			gen.CursorEvent(vmath.Vec2F{X: 0, Y: -1})
			return true
		}
	}
	switch ev.Key() {
	case tcell.KeyLeft:
		gen.CursorEvent(vmath.Vec2F{X: -1, Y: 0})
		return true
	case tcell.KeyRight:
		gen.CursorEvent(vmath.Vec2F{X: 1, Y: 0})
		return true
	case tcell.KeyUp:
		gen.CursorEvent(vmath.Vec2F{X: 0, Y: -1})
		return true
	case tcell.KeyDown:
		gen.CursorEvent(vmath.Vec2F{X: 0, Y: 1})
		return true
	}
	gen.KeyEvent(keyCode(ev), true)
	return true
}
