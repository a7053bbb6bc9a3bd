package shipyard

// entitySlot tracks one index's current generation and, when free, the next free index in the
// intrusive free-list (or noNext if it's the last free slot known).
type entitySlot struct {
	generation uint32
	next       uint32
	free       bool
}

const noNext = ^uint32(0)

// Entities issues fresh EntityIDs, tracks their generation, and recycles dead slots onto an
// intrusive free-list so repeated allocate/kill cycles don't grow the slot table unboundedly.
type Entities struct {
	slots    []entitySlot
	freeHead uint32
	hasFree  bool
}

// NewEntities returns an empty Entities table.
func NewEntities() *Entities {
	return &Entities{freeHead: noNext}
}

// Allocate returns a fresh, live EntityID: either a recycled slot (generation bumped) or a brand
// new slot at the end of the table.
func (e *Entities) Allocate() EntityID {
	if e.hasFree {
		index := e.freeHead
		slot := &e.slots[index]
		e.freeHead = slot.next
		e.hasFree = e.freeHead != noNext
		slot.free = false
		return newEntityID(index, slot.generation)
	}

	index := uint32(len(e.slots))
	e.slots = append(e.slots, entitySlot{generation: 0})
	return newEntityID(index, 0)
}

// IsAlive reports whether id refers to the entity currently occupying its slot.
func (e *Entities) IsAlive(id EntityID) bool {
	index := id.Index()
	if int(index) >= len(e.slots) {
		return false
	}
	slot := e.slots[index]
	return !slot.free && slot.generation == id.Generation()
}

// Kill recycles id's slot, incrementing its generation and pushing it onto the free-list. It
// reports whether the call actually changed anything (false if id was already dead).
func (e *Entities) Kill(id EntityID) bool {
	if !e.IsAlive(id) {
		return false
	}

	index := id.Index()
	slot := &e.slots[index]
	slot.free = true
	slot.generation++
	slot.next = e.freeHead
	e.freeHead = index
	e.hasFree = true
	return true
}

// Len returns the number of slots ever allocated, live or dead.
func (e *Entities) Len() int {
	return len(e.slots)
}
