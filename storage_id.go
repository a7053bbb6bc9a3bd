package shipyard

import "reflect"

// StorageID names one storage inside an AllStorages registry: either the static type of a
// component (the common case) or a caller-supplied uint64. Register and RegisterUnique always key
// by type; no function in this package registers a storage under a custom id.
//
// StorageID is comparable and safe to use as a map key.
type StorageID struct {
	custom   uint64
	typ      reflect.Type
	isCustom bool
}

// CustomStorageID builds a StorageID from a caller-chosen number.
func CustomStorageID(id uint64) StorageID {
	return StorageID{custom: id, isCustom: true}
}

func storageIDFor[T any]() StorageID {
	return StorageID{typ: reflect.TypeOf((*T)(nil)).Elem()}
}

// IsCustom reports whether this id was constructed with CustomStorageID rather than derived from
// a component's static type.
func (id StorageID) IsCustom() bool {
	return id.isCustom
}

// TypeName returns a human-readable name for the storage, used in diagnostics/error messages.
func (id StorageID) TypeName() string {
	if id.isCustom {
		return "custom storage"
	}
	if id.typ == nil {
		return "<invalid storage id>"
	}
	return id.typ.String()
}

// storageIDLess implements the StorageID total order: every custom id sorts strictly less than every
// typed id (carried over unchanged, and marked provisional, from the source project this ECS was
// distilled from). Within a family, ordering follows the family's natural order.
func storageIDLess(a, b StorageID) bool {
	if a.isCustom != b.isCustom {
		return a.isCustom
	}
	if a.isCustom {
		return a.custom < b.custom
	}
	return a.typ.String() < b.typ.String()
}
