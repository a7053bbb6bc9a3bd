package shipyard

// PackKind identifies which of the four pack variants a storage's PackInfo carries.
type PackKind int

const (
	// NoPack means the storage isn't packed with anything (it may still have observers).
	NoPack PackKind = iota
	// TightPackKind means the storage participates in a tight pack.
	TightPackKind
	// LoosePackKind means the storage participates in a loose pack.
	LoosePackKind
	// UpdatePackKind means the storage tracks inserted/modified/removed but isn't packed with
	// any sibling storage.
	UpdatePackKind
)

// TightPack names a set of storages whose dense arrays mirror each other's packed-prefix
// ordering: entities present in every named storage are kept at dense[0:OwnedLen] in each one.
type TightPack struct {
	// Types lists every storage id participating in the pack, in a stable order.
	Types []StorageID
	// OwnedLen is the count of entities currently in the packed prefix.
	OwnedLen int
}

// isPackable reports whether realTypes (the entity's actual present-in storages, sorted) qualify
// it for membership in this tight pack, i.e. whether realTypes is a superset of Types.
func (p *TightPack) isPackable(realTypes []StorageID) ([]StorageID, bool) {
	if containsAllSorted(realTypes, p.Types) {
		return p.Types, true
	}
	return nil, false
}

// LoosePack names "tight" participants, which mirror each other's dense ordering in the packed
// prefix, and "loose" participants, whose presence is required for packing but whose own dense
// ordering is independent (they are never repositioned).
type LoosePack struct {
	TightTypes []StorageID
	LooseTypes []StorageID
	OwnedLen   int
}

// isPackable reports whether realTypes qualifies the entity for this loose pack. Only the tight
// participants are returned, since those are the storages that get physically repositioned; loose
// participants merely need to be present.
func (p *LoosePack) isPackable(realTypes []StorageID) ([]StorageID, bool) {
	if containsAllSorted(realTypes, p.TightTypes) && containsAllSorted(realTypes, p.LooseTypes) {
		return p.TightTypes, true
	}
	return nil, false
}

// PackInfo is the per-storage metadata describing how (if at all) a storage is packed with its
// siblings, plus the list of storages that merely want to observe its adds/removes without formal
// packing.
type PackInfo struct {
	Kind          PackKind
	Tight         TightPack
	Loose         LoosePack
	ObserverTypes []StorageID
}

// hasAllStorages reports whether every storage id this PackInfo requires (its pack's member types
// plus its observers) is present in declared∪additional.
func (p *PackInfo) hasAllStorages(declared, additional []StorageID) bool {
	required := p.requiredTypes()
	for _, id := range required {
		if !(containsID(declared, id) || containsID(additional, id)) {
			return false
		}
	}
	return true
}

func (p *PackInfo) requiredTypes() []StorageID {
	var required []StorageID
	switch p.Kind {
	case TightPackKind:
		required = append(required, p.Tight.Types...)
	case LoosePackKind:
		required = append(required, p.Loose.TightTypes...)
		required = append(required, p.Loose.LooseTypes...)
	}
	required = append(required, p.ObserverTypes...)
	return required
}

// isPacked reports whether this PackInfo participates in a positional pack (tight or loose); an
// UpdatePackKind or NoPack storage never has a packed prefix to maintain.
func (p *PackInfo) isPacked() bool {
	return p.Kind == TightPackKind || p.Kind == LoosePackKind
}

func containsID(ids []StorageID, target StorageID) bool {
	for _, id := range ids {
		if id == target {
			return true
		}
	}
	return false
}

// containsAllSorted reports whether every id in subset also appears in superset. Both slices are
// expected sorted by storageIDLess, but this does a simple membership scan rather than assuming a
// merge-join, since pack sizes in practice are small (single-digit storage counts).
func containsAllSorted(superset, subset []StorageID) bool {
	for _, id := range subset {
		if !containsID(superset, id) {
			return false
		}
	}
	return true
}
