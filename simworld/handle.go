package simworld

// Bit layout of the packed 64-bit handle value:
//
//	[ sequence: 44 bits ][ world: 4 bits ][ index: 16 bits ]
//
// index selects a slot in the owning world's object table, world
// disambiguates which of up to 16 concurrently running worlds the
// handle belongs to, and sequence is a monotonically increasing
// per-world counter assigned at spawn time. A handle resolves only
// if the slot it names is occupied AND its stored sequence still
// matches: once a slot is freed and reused the old handle's sequence
// is stale and Get reports not-found instead of aliasing the new
// occupant.
const (
	indexBits = 16
	worldBits = 4
	seqBits   = 64 - indexBits - worldBits

	indexMask = 1<<indexBits - 1
	worldMask = 1<<worldBits - 1
	seqMask   = 1<<seqBits - 1

	// MaxObjects is the largest object index a single world can address.
	MaxObjects = 1 << indexBits
	// MaxWorlds is the largest number of concurrently registered worlds.
	MaxWorlds = 1 << worldBits
)

// rawHandle is the untyped packed representation shared by every
// Handle[T] instantiation; Handle[T] is a thin, type-safe wrapper
// around it so handles to different entity kinds can't be confused
// at compile time while still being trivially convertible.
type rawHandle uint64

func packHandle(index uint16, world uint8, sequence uint64) rawHandle {
	return rawHandle(uint64(sequence&seqMask)<<(indexBits+worldBits) |
		uint64(world&worldMask)<<indexBits |
		uint64(index&indexMask))
}

func (h rawHandle) index() uint16 {
	return uint16(h & indexMask)
}

func (h rawHandle) world() uint8 {
	return uint8((h >> indexBits) & worldMask)
}

func (h rawHandle) sequence() uint64 {
	return uint64(h>>(indexBits+worldBits)) & seqMask
}

// Handle is a type-safe, generation-checked reference to an entity of
// type T spawned into a World. The zero value is the null handle and
// never resolves.
type Handle[T Entity] struct {
	raw rawHandle
}

// IsNull reports whether h is the zero handle (sequence 0, as produced
// by the zero value or a failed Find).
func (h Handle[T]) IsNull() bool {
	return h.raw.sequence() == 0
}

// Index returns the object slot index this handle names.
func (h Handle[T]) Index() uint16 { return h.raw.index() }

// WorldIndex returns the world this handle was issued from.
func (h Handle[T]) WorldIndex() uint8 { return h.raw.world() }

// Sequence returns the generation counter this handle was stamped with.
func (h Handle[T]) Sequence() uint64 { return h.raw.sequence() }

// AsEntity erases the static entity type, yielding a Handle[Entity]
// that can be stored alongside handles of other concrete kinds (e.g.
// a train's schedule of station handles travels through code that
// doesn't care it's specifically *Station).
func AsEntity[T Entity](h Handle[T]) Handle[Entity] {
	return Handle[Entity]{raw: h.raw}
}

// Retype reinterprets a Handle[Entity] as a Handle[T]. The conversion
// itself never fails; resolving it with Get does, if the slot no
// longer holds a T.
func Retype[T Entity](h Handle[Entity]) Handle[T] {
	return Handle[T]{raw: h.raw}
}
