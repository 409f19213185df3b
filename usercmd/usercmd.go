// Package usercmd samples raw input (key/cursor/gamepad events) into
// discrete per-tick commands.
package usercmd

import "github.com/lixenwraith/tanks/vmath"

// Action is a one-shot command queued by a key_event, consumed at most
// once by Generate.
type Action uint8

const (
	ActionNone Action = iota
	ActionSelect
	ActionMove
	ActionWeapon1
	ActionWeapon2
	ActionWeapon3
	ActionZoomIn
	ActionZoomOut
)

// Button is a latched (held-down) state, ORed together.
type Button uint8

const (
	ButtonNone    Button = 0
	ButtonSelect  Button = 1 << 0
	ButtonZoomIn  Button = 1 << 1
	ButtonZoomOut Button = 1 << 2
)

// Modifier is a latched keyboard modifier, ORed together.
type Modifier uint8

const (
	ModifierNone      Modifier = 0
	ModifierAlternate Modifier = 1 << 0
	ModifierControl   Modifier = 1 << 1
	ModifierShift     Modifier = 1 << 2
)

// Cmd is one tick's sampled input: cursor position, at most one
// queued action, and the latched button/modifier state at sample
// time.
type Cmd struct {
	Cursor    vmath.Vec2F
	Action    Action
	Buttons   Button
	Modifiers Modifier
}

// Binding is the target of a key binding: exactly one of Action,
// Button, or Modifier is meaningful, selected by Kind.
type BindingKind uint8

const (
	BindAction BindingKind = iota
	BindButton
	BindModifier
)

type Binding struct {
	Kind     BindingKind
	Action   Action
	Button   Button
	Modifier Modifier
}

// queueSize is the bounded FIFO capacity for action commands queued
// between Generate calls; a full queue silently drops the incoming
// action rather than evicting anything already queued, so the
// sequence of actions Generate later replays is never reordered by a
// burst of input arriving faster than it's drained.
const queueSize = 64

// Generator turns raw input events into Cmd values: key bindings
// (by platform key code) produce either queued one-shot actions or
// latched button/modifier state, and a separate cursor/gamepad sample
// feeds the per-tick continuous state.
type Generator struct {
	bindings      map[int]Binding
	buttonState   Button
	modifierState Modifier
	cursorState   vmath.Vec2F
	gamepad       GamepadState

	queue      [queueSize]Cmd
	queueBegin int
	queueEnd   int
}

// GamepadState is the latched analog state of a two-stick gamepad.
type GamepadState struct {
	Thumbstick [2]vmath.Vec2F
	Trigger    [2]float64
}

// NewGenerator returns an unbound generator with no latched state.
func NewGenerator() *Generator {
	return &Generator{bindings: make(map[int]Binding)}
}

// Reset clears all latched state and the pending action queue; if
// unbindAll is set, every key binding is also removed.
func (g *Generator) Reset(unbindAll bool) {
	g.buttonState = ButtonNone
	g.modifierState = ModifierNone
	g.gamepad = GamepadState{}
	g.queueBegin = 0
	g.queueEnd = 0
	if unbindAll {
		g.bindings = make(map[int]Binding)
	}
}

// Bind assigns key to target binding, replacing any existing binding.
func (g *Generator) Bind(key int, b Binding) {
	g.bindings[key] = b
}

// Unbind removes any binding on key.
func (g *Generator) Unbind(key int) {
	delete(g.bindings, key)
}

// KeyEvent processes a single key transition. It returns false if key
// is unbound (the caller may then treat it as unhandled). An action
// binding on key-down snapshots the current cursor/latched state into
// a queued Cmd; button and modifier bindings update latched state on
// both down and up.
func (g *Generator) KeyEvent(key int, down bool) bool {
	b, ok := g.bindings[key]
	if !ok {
		return false
	}

	switch b.Kind {
	case BindAction:
		if down {
			g.enqueue(b.Action)
		}
	case BindButton:
		if down {
			g.buttonState |= b.Button
		} else {
			g.buttonState &^= b.Button
		}
	case BindModifier:
		if down {
			g.modifierState |= b.Modifier
		} else {
			g.modifierState &^= b.Modifier
		}
	}
	return true
}

func (g *Generator) enqueue(a Action) {
	if g.queueEnd-g.queueBegin >= queueSize {
		return // queue full: drop the new action
	}
	cmd := g.generateDirectLocked()
	cmd.Action = a
	g.queue[g.queueEnd%queueSize] = cmd
	g.queueEnd++
}

// CursorEvent records the latest cursor/look position.
func (g *Generator) CursorEvent(position vmath.Vec2F) {
	g.cursorState = position
}

// GamepadEvent records the latest gamepad analog state. It does not
// change the cursor: a generated Cmd's cursor comes only from
// CursorEvent.
func (g *Generator) GamepadEvent(pad GamepadState) {
	g.gamepad = pad
}

// ButtonState reports whether button is currently latched down.
func (g *Generator) ButtonState(b Button) bool {
	return g.buttonState&b != 0
}

// Generate returns the next queued action Cmd if one is pending,
// otherwise a direct sample of the current continuous state with
// ActionNone.
func (g *Generator) Generate() Cmd {
	if g.queueBegin < g.queueEnd {
		cmd := g.queue[g.queueBegin%queueSize]
		g.queueBegin++
		return cmd
	}
	return g.GenerateDirect()
}

// GenerateDirect samples the current cursor and latched state without
// consuming the action queue.
func (g *Generator) GenerateDirect() Cmd {
	return g.generateDirectLocked()
}

func (g *Generator) generateDirectLocked() Cmd {
	return Cmd{
		Cursor:    g.cursorState,
		Action:    ActionNone,
		Buttons:   g.buttonState,
		Modifiers: g.modifierState,
	}
}
