package simworld

import (
	"fmt"
	"sync"

	"github.com/lixenwraith/tanks/registry"
)

// Entity is implemented by every object that can be spawned into a
// World. bind is called exactly once, immediately after construction
// and before the object is visible to any other goroutine, so it can
// safely be a plain (non-atomic) field assignment.
type Entity interface {
	bind(self Handle[Entity])
}

// Base is embedded by concrete entity types to satisfy Entity and to
// give them a Self() accessor, mirroring the object::_self field in
// the original handle<object> design.
type Base struct {
	self Handle[Entity]
}

func (b *Base) bind(self Handle[Entity]) { b.self = self }

// Self returns the handle this object was spawned with.
func (b *Base) Self() Handle[Entity] { return b.self }

// Thinker is implemented by entities that take part in the per-frame
// simulation step (trains, ship atmosphere state). Entities that are
// purely passive data (stations) need not implement it.
type Thinker interface {
	Think(w *World, dt float64)
}

type slot struct {
	occupied bool
	sequence uint64
	obj      Entity
}

// World is an arena of entities addressed by generation-checked
// handles, analogous to the world class's object table: spawn
// allocates a free slot and stamps a fresh handle, get resolves a
// handle only if the slot is still occupied by the same generation,
// and removal is deferred to a frame boundary so entities can safely
// reference each other mid-frame without a slot disappearing under
// them.
type World struct {
	index uint8

	mu       sync.RWMutex
	slots    []slot
	free     []uint16
	sequence uint64
	pending  []uint16
	frame    uint64
}

// NewWorld creates a world and registers it under idx so handles
// carrying that world index resolve against it. idx must be < MaxWorlds
// and not already registered.
func NewWorld(idx uint8) *World {
	if idx >= MaxWorlds {
		panic(fmt.Sprintf("simworld: world index %d exceeds MaxWorlds", idx))
	}
	w := &World{index: idx}
	registry.Register(w)
	return w
}

// Index returns the world's registry index.
func (w *World) Index() uint8 { return w.index }

// Close removes the world from the package-level registry. It does
// not clear entity state; callers that need a fully reset world
// should create a new one.
func (w *World) Close() {
	registry.Unregister(w.index)
}

// FrameNumber returns the number of completed Update calls.
func (w *World) FrameNumber() uint64 {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.frame
}

func (w *World) allocSlot() uint16 {
	if n := len(w.free); n > 0 {
		idx := w.free[n-1]
		w.free = w.free[:n-1]
		return idx
	}
	if len(w.slots) >= MaxObjects {
		panic("simworld: world object table exhausted")
	}
	w.slots = append(w.slots, slot{})
	return uint16(len(w.slots) - 1)
}

// Spawn constructs an entity via ctor, assigns it a fresh handle, and
// binds the handle into the object before returning it. ctor receives
// no arguments; callers that need constructor parameters should close
// over them.
func Spawn[T Entity](w *World, ctor func() T) Handle[T] {
	w.mu.Lock()
	idx := w.allocSlot()
	w.sequence++
	seq := w.sequence
	h := Handle[Entity]{raw: packHandle(idx, w.index, seq)}
	obj := ctor()
	w.slots[idx] = slot{occupied: true, sequence: seq, obj: obj}
	w.mu.Unlock()

	obj.bind(h)
	return Handle[T]{raw: h.raw}
}

// Get resolves h against w, returning the entity and true if the slot
// it names is still occupied by the same generation and holds a T.
func Get[T Entity](w *World, h Handle[T]) (T, bool) {
	var zero T
	if h.WorldIndex() != w.index {
		return zero, false
	}
	w.mu.RLock()
	defer w.mu.RUnlock()
	idx := h.Index()
	if int(idx) >= len(w.slots) {
		return zero, false
	}
	s := w.slots[idx]
	if !s.occupied || s.sequence != h.Sequence() {
		return zero, false
	}
	obj, ok := s.obj.(T)
	return obj, ok
}

// Find searches for an entity of type T by its handle sequence number,
// returning the null handle if sequence is 0 or no occupied slot
// carries it. Sequence 0 is reserved for the null handle so a zero
// lookup never accidentally resolves.
func Find[T Entity](w *World, sequence uint64) Handle[T] {
	var zero Handle[T]
	if sequence == 0 {
		return zero
	}
	w.mu.RLock()
	defer w.mu.RUnlock()
	for idx, s := range w.slots {
		if s.occupied && s.sequence == sequence {
			if _, ok := s.obj.(T); ok {
				return Handle[T]{raw: packHandle(uint16(idx), w.index, sequence)}
			}
			return zero
		}
	}
	return zero
}

// Remove queues the entity named by h for removal at the next Update
// frame boundary. Queuing a handle that no longer resolves is a no-op.
func Remove[T Entity](w *World, h Handle[T]) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if h.WorldIndex() != w.index {
		return
	}
	idx := h.Index()
	if int(idx) >= len(w.slots) {
		return
	}
	s := w.slots[idx]
	if !s.occupied || s.sequence != h.Sequence() {
		return
	}
	w.pending = append(w.pending, idx)
}

// commitRemovals frees every slot queued by Remove since the last
// call. Called at the end of Update so mid-frame references to a
// removed entity still resolve for the remainder of the current tick.
func (w *World) commitRemovals() {
	w.mu.Lock()
	defer w.mu.Unlock()
	for _, idx := range w.pending {
		s := &w.slots[idx]
		if s.occupied {
			s.occupied = false
			s.obj = nil
			w.free = append(w.free, idx)
		}
	}
	w.pending = w.pending[:0]
}

// Objects iterates every currently occupied entity in slot order. The
// snapshot is taken under read lock but the callback itself runs
// outside the lock, so it must not call Spawn/Remove/Get against the
// same world reentrantly without its own synchronization story.
func (w *World) Objects(yield func(Handle[Entity], Entity) bool) {
	w.mu.RLock()
	type occ struct {
		idx uint16
		seq uint64
		obj Entity
	}
	snapshot := make([]occ, 0, len(w.slots))
	for idx, s := range w.slots {
		if s.occupied {
			snapshot = append(snapshot, occ{uint16(idx), s.sequence, s.obj})
		}
	}
	w.mu.RUnlock()

	for _, o := range snapshot {
		h := Handle[Entity]{raw: packHandle(o.idx, w.index, o.seq)}
		if !yield(h, o.obj) {
			return
		}
	}
}

// Update runs one simulation tick: every entity implementing Thinker
// gets a Think(w, dt) call, in slot order, after which entities queued
// by Remove during this or any prior frame are freed.
func (w *World) Update(dt float64) {
	w.Objects(func(_ Handle[Entity], obj Entity) bool {
		if t, ok := obj.(Thinker); ok {
			t.Think(w, dt)
		}
		return true
	})
	w.commitRemovals()
	w.mu.Lock()
	w.frame++
	w.mu.Unlock()
}

// Reset removes every entity immediately, bypassing the deferred
// removal queue, while leaving the frame counter untouched: a client
// applying a fresh snapshot calls Reset, not a new World, so
// FrameNumber keeps tracking ticks across the reset. The sequence
// counter is also left untouched so handles minted before and after a
// Reset never collide.
func (w *World) Reset() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.slots = nil
	w.free = nil
	w.pending = nil
}

// Clear is Reset under another name: this codebase has no particle
// system or tile cache for a "full" clear to additionally drop, so the
// two coincide.
func (w *World) Clear() {
	w.Reset()
}
