package shipyard

// Removed is one entry in an update-packed SparseSet's removal log: the id and last-known value
// of a component actual_remove took out of the set since the log was last drained.
type Removed[T any] struct {
	ID    EntityID
	Value T
}

// updateLog tracks the inserted/modified/removed regions of an update-packed SparseSet. The dense
// array is partitioned, from index 0, into [0, insertedCount) inserted, [insertedCount,
// insertedCount+modifiedCount) modified, and the remainder unchanged.
type updateLog[T any] struct {
	insertedCount int
	modifiedCount int
	removed       []Removed[T]
}

func newUpdateLog[T any]() *updateLog[T] {
	return &updateLog[T]{}
}

func (l *updateLog[T]) insertedEnd() int {
	return l.insertedCount
}

func (l *updateLog[T]) modifiedEnd() int {
	return l.insertedCount + l.modifiedCount
}

// OldComponentKind discriminates the three shapes an OldComponent can take.
type OldComponentKind int

const (
	// OldValueNone means there was no previous value (the entity wasn't present before the call).
	OldValueNone OldComponentKind = iota
	// OldValueOwned means the caller got the actual previous value back.
	OldValueOwned
	// OldValueLogged means the previous value was moved into the update log's Removed sequence
	// instead of being handed back directly; it stays reachable there until drained.
	OldValueLogged
)

// OldComponent is returned by Insert (an overwrite) and ActualRemove to describe what happened to
// whatever value previously occupied the slot.
type OldComponent[T any] struct {
	Kind  OldComponentKind
	Value T
}
