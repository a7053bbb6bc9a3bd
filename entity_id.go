package shipyard

const (
	indexBits      = 32
	generationBits = 24
	metaBits       = 8

	indexMask      = uint64(1)<<indexBits - 1
	generationMask = uint64(1)<<generationBits - 1
	metaMask       = uint64(1)<<metaBits - 1
)

// EntityID is a 64-bit packed identifier: index:32 | generation:24 | meta:8, most-significant
// field first. An (index, generation) pair uniquely and permanently identifies one logical
// entity; the index alone only identifies a slot, which gets recycled.
type EntityID uint64

// DeadEntityID compares unequal to every id a live Entities table can ever hand out: its index and
// generation fields are both all-ones, a combination Allocate/Kill never produce together.
const DeadEntityID EntityID = EntityID(indexMask<<uint(generationBits+metaBits) | generationMask<<metaBits | metaMask)

func newEntityID(index uint32, generation uint32) EntityID {
	return EntityID(uint64(index)<<(generationBits+metaBits) | (uint64(generation)&generationMask)<<metaBits)
}

// Index returns the slot this id refers to.
func (id EntityID) Index() uint32 {
	return uint32(uint64(id) >> (generationBits + metaBits) & indexMask)
}

// Generation returns the recycle count recorded in this id.
func (id EntityID) Generation() uint32 {
	return uint32(uint64(id) >> metaBits & generationMask)
}

// Meta returns the reserved low byte. No core operation currently assigns meaning to any bit of
// it beyond carrying it through equality; it's reserved for flags a world facade might want to
// stamp onto an id without growing it past one machine word.
func (id EntityID) Meta() uint8 {
	return uint8(uint64(id) & metaMask)
}

// WithMeta returns a copy of id with its meta byte replaced.
func (id EntityID) WithMeta(meta uint8) EntityID {
	return EntityID(uint64(id)&^metaMask | uint64(meta))
}

// withGeneration returns a copy of id at the same index with generation replaced, meta cleared.
func (id EntityID) withGeneration(generation uint32) EntityID {
	return newEntityID(id.Index(), generation)
}
