package shipyard

import (
	"fmt"
	"iter"
)

// SparseSet is the storage for one component type: a sparse array mapping an entity index to its
// slot in the parallel dense/data arrays, so Contains/Get/Insert/ActualRemove are all O(1) and
// iteration over All() walks data packed contiguously in memory.
type SparseSet[T any] struct {
	sparse []int32
	dense  []EntityID
	data   []T

	packInfo PackInfo
	log      *updateLog[T]
}

const absentSlot int32 = -1

// NewSparseSet returns an empty, unpacked SparseSet.
func NewSparseSet[T any]() *SparseSet[T] {
	return &SparseSet[T]{}
}

func (s *SparseSet[T]) ensureSparse(index uint32) {
	needed := int(index) + 1
	if len(s.sparse) >= needed {
		return
	}
	grown := make([]int32, needed)
	copy(grown, s.sparse)
	for i := len(s.sparse); i < needed; i++ {
		grown[i] = absentSlot
	}
	s.sparse = grown
}

func (s *SparseSet[T]) positionOf(id EntityID) (int, bool) {
	index := id.Index()
	if int(index) >= len(s.sparse) {
		return 0, false
	}
	pos := s.sparse[index]
	if pos == absentSlot {
		return 0, false
	}
	if s.dense[pos].Generation() != id.Generation() {
		return 0, false
	}
	return int(pos), true
}

func (s *SparseSet[T]) swapDense(i, j int) {
	if i == j {
		return
	}
	s.dense[i], s.dense[j] = s.dense[j], s.dense[i]
	s.data[i], s.data[j] = s.data[j], s.data[i]
	s.sparse[s.dense[i].Index()] = int32(i)
	s.sparse[s.dense[j].Index()] = int32(j)
}

// Len returns the number of entities currently carrying this component.
func (s *SparseSet[T]) Len() int {
	return len(s.dense)
}

// Contains reports whether id currently carries this component.
func (s *SparseSet[T]) Contains(id EntityID) bool {
	_, ok := s.positionOf(id)
	return ok
}

// Get returns a read-only pointer to id's component. The bool reports whether id carries one.
func (s *SparseSet[T]) Get(id EntityID) (*T, bool) {
	pos, ok := s.positionOf(id)
	if !ok {
		return nil, false
	}
	return &s.data[pos], true
}

// GetMut returns a mutable pointer to id's component. The bool reports whether id carries one. If
// the storage is update-packed, handing out this pointer unconditionally marks id modified: the
// caller is trusted to be asking for mutable access in order to mutate.
func (s *SparseSet[T]) GetMut(id EntityID) (*T, bool) {
	pos, ok := s.positionOf(id)
	if !ok {
		return nil, false
	}
	if s.log != nil {
		s.promoteToModified(pos)
		pos, _ = s.positionOf(id)
	}
	return &s.data[pos], true
}

// Insert adds value for id, or overwrites id's existing component if it already has one. It
// reports what became of any previous value.
func (s *SparseSet[T]) Insert(value T, id EntityID) OldComponent[T] {
	index := id.Index()
	s.ensureSparse(index)

	if pos, ok := s.positionOf(id); ok {
		old := s.data[pos]
		s.data[pos] = value
		if s.log != nil {
			s.promoteToModified(pos)
		}
		return OldComponent[T]{Kind: OldValueOwned, Value: old}
	}

	s.dense = append(s.dense, id)
	s.data = append(s.data, value)
	newPos := len(s.dense) - 1
	s.sparse[index] = int32(newPos)

	if s.log != nil {
		s.promoteToInserted(newPos)
	}
	return OldComponent[T]{Kind: OldValueNone}
}

// promoteToModified moves the entry at pos into the modified region if it's presently unchanged.
// Entries already inserted or already modified are left alone: an inserted entry stays inserted
// across further mutation within the same log generation, and an already-modified entry is
// already where it needs to be.
func (s *SparseSet[T]) promoteToModified(pos int) {
	log := s.log
	if pos < log.insertedEnd() {
		return
	}
	if pos < log.modifiedEnd() {
		return
	}
	boundary := log.modifiedEnd()
	s.swapDense(pos, boundary)
	log.modifiedCount++
}

// promoteToInserted walks a freshly appended entry (at pos, the current tail) through the
// modified-region boundary and into the inserted region. It takes two swaps regardless of region
// sizes: one to claim the first unchanged slot as the new last-modified slot, one to claim the
// first modified slot as the new last-inserted slot.
func (s *SparseSet[T]) promoteToInserted(pos int) {
	log := s.log
	oldModEnd := log.modifiedEnd()
	oldInsEnd := log.insertedEnd()
	s.swapDense(pos, oldModEnd)
	s.swapDense(oldModEnd, oldInsEnd)
	log.insertedCount++
}

// ActualRemove takes id's component out of the storage entirely, reporting what became of its
// last value. The caller is responsible for calling Unpack first if this storage participates in
// a positional pack (AllStorages.Delete and the bulk-remove engine do this).
func (s *SparseSet[T]) ActualRemove(id EntityID) (OldComponent[T], bool) {
	pos, ok := s.positionOf(id)
	if !ok {
		return OldComponent[T]{}, false
	}

	value := s.data[pos]

	if log := s.log; log != nil {
		insEnd := log.insertedCount
		modEnd := log.insertedCount + log.modifiedCount

		switch {
		case pos < insEnd:
			s.swapDense(pos, insEnd-1)
			pos = insEnd - 1
			log.insertedCount--
			if log.modifiedCount > 0 {
				s.swapDense(pos, modEnd-1)
				pos = modEnd - 1
			}
		case pos < modEnd:
			s.swapDense(pos, modEnd-1)
			pos = modEnd - 1
			log.modifiedCount--
		}
	}

	last := len(s.dense) - 1
	if pos != last {
		s.swapDense(pos, last)
	}
	s.dense = s.dense[:last]
	s.data = s.data[:last]
	s.sparse[id.Index()] = absentSlot

	if s.log != nil {
		s.log.removed = append(s.log.removed, Removed[T]{ID: id, Value: value})
		return OldComponent[T]{Kind: OldValueLogged}, true
	}
	return OldComponent[T]{Kind: OldValueOwned, Value: value}, true
}

// Pack moves id into this storage's positional packed prefix. Callers only do this once they've
// confirmed (via PackInfo.isPackable) that id belongs in every sibling storage the pack requires.
func (s *SparseSet[T]) Pack(id EntityID) {
	if !s.packInfo.isPacked() {
		return
	}
	pos, ok := s.positionOf(id)
	if !ok {
		return
	}
	ownedLen := s.ownedLen()
	if pos < ownedLen {
		return
	}
	s.swapDense(pos, ownedLen)
	s.setOwnedLen(ownedLen + 1)
}

// Unpack removes id from this storage's positional packed prefix, if it's in it. It's a no-op for
// storages that aren't positionally packed, or for ids already outside the prefix.
func (s *SparseSet[T]) Unpack(id EntityID) {
	if !s.packInfo.isPacked() {
		return
	}
	pos, ok := s.positionOf(id)
	if !ok {
		return
	}
	ownedLen := s.ownedLen()
	if pos >= ownedLen {
		return
	}
	s.swapDense(pos, ownedLen-1)
	s.setOwnedLen(ownedLen - 1)
}

func (s *SparseSet[T]) ownedLen() int {
	switch s.packInfo.Kind {
	case TightPackKind:
		return s.packInfo.Tight.OwnedLen
	case LoosePackKind:
		return s.packInfo.Loose.OwnedLen
	default:
		return 0
	}
}

func (s *SparseSet[T]) setOwnedLen(n int) {
	switch s.packInfo.Kind {
	case TightPackKind:
		s.packInfo.Tight.OwnedLen = n
	case LoosePackKind:
		s.packInfo.Loose.OwnedLen = n
	}
}

// EnableUpdateTracking switches this storage into update-pack mode. It fails if the storage
// already participates in a tight or loose pack, since a storage is packed one way at a time.
func (s *SparseSet[T]) EnableUpdateTracking() error {
	if s.packInfo.isPacked() {
		return fmt.Errorf("shipyard: storage is already positionally packed, cannot also update-pack it")
	}
	if s.log == nil {
		s.log = newUpdateLog[T]()
	}
	s.packInfo.Kind = UpdatePackKind
	return nil
}

// Inserted returns the ids currently in the inserted region. It's empty for a storage that isn't
// update-packed.
func (s *SparseSet[T]) Inserted() []EntityID {
	if s.log == nil {
		return nil
	}
	return append([]EntityID(nil), s.dense[:s.log.insertedEnd()]...)
}

// Modified returns the ids currently in the modified region.
func (s *SparseSet[T]) Modified() []EntityID {
	if s.log == nil {
		return nil
	}
	return append([]EntityID(nil), s.dense[s.log.insertedEnd():s.log.modifiedEnd()]...)
}

// InsertedOrModified returns the ids in either the inserted or modified region.
func (s *SparseSet[T]) InsertedOrModified() []EntityID {
	if s.log == nil {
		return nil
	}
	return append([]EntityID(nil), s.dense[:s.log.modifiedEnd()]...)
}

// TakeRemoved drains and returns the removal log accumulated since the last TakeRemoved.
func (s *SparseSet[T]) TakeRemoved() []Removed[T] {
	if s.log == nil {
		return nil
	}
	removed := s.log.removed
	s.log.removed = nil
	return removed
}

// reverseDense reverses the dense/data slice over [lo, hi], keeping sparse in sync via swapDense.
func (s *SparseSet[T]) reverseDense(lo, hi int) {
	for lo < hi {
		s.swapDense(lo, hi)
		lo++
		hi--
	}
}

// ClearInserted empties the inserted region without touching the modified region: every entry
// that was inserted becomes unchanged, in storage iteration order. Since the dense array is
// partitioned [inserted][modified][unchanged], dropping the inserted region out from under the
// modified one takes a rotation, not just zeroing the counter: the old-modified block must slide
// down to the front so it stays addressable as [0, modifiedCount) afterward.
func (s *SparseSet[T]) ClearInserted() {
	if s.log == nil {
		return
	}
	ins, mod := s.log.insertedCount, s.log.modifiedCount
	if ins > 0 && mod > 0 {
		s.reverseDense(0, ins-1)
		s.reverseDense(ins, ins+mod-1)
		s.reverseDense(0, ins+mod-1)
	}
	s.log.insertedCount = 0
}

// ClearModified empties the modified region, leaving the inserted region untouched.
func (s *SparseSet[T]) ClearModified() {
	if s.log == nil {
		return
	}
	s.log.modifiedCount = 0
}

// ClearInsertedAndModified empties both regions.
func (s *SparseSet[T]) ClearInsertedAndModified() {
	if s.log == nil {
		return
	}
	s.log.insertedCount = 0
	s.log.modifiedCount = 0
}

// All returns a read-only iterator over every entity/component pair in the storage.
func (s *SparseSet[T]) All() iter.Seq2[EntityID, *T] {
	return func(yield func(EntityID, *T) bool) {
		for i := range s.dense {
			if !yield(s.dense[i], &s.data[i]) {
				return
			}
		}
	}
}

// AllMut returns a mutable iterator over every entity/component pair in the storage. If the
// storage is update-packed, every entry visited is marked modified (inserted entries excepted,
// which stay inserted), since handing out a mutable pointer is treated as a mutation regardless of
// whether the caller actually writes through it.
func (s *SparseSet[T]) AllMut() iter.Seq2[EntityID, *T] {
	return func(yield func(EntityID, *T) bool) {
		n := len(s.dense)
		for i := 0; i < n; i++ {
			if s.log != nil {
				s.promoteToModified(i)
			}
			if !yield(s.dense[i], &s.data[i]) {
				return
			}
		}
	}
}
