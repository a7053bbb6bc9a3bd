/*
Package shipyard provides the storage core of a sparse-set Entity-Component-System (ECS).

Unlike archetype-based ECS designs, shipyard keeps one sparse set per component type. Entities
moving in and out of a component don't relocate every other component they carry; only the sparse
set for that one type is touched. Related sparse sets can be "packed" together so that entities
present in all of them stay at the front of each one's dense array, which keeps multi-component
iteration cache-coherent without the bookkeeping cost of archetype transitions.

Core Concepts:

  - EntityID: a 64-bit identifier combining a slot index and a generation counter.
  - SparseSet[T]: the component storage for one type, exposing O(1) insert/remove/contains.
  - Pack: a declaration that a group of sparse sets should keep their shared entities at the front.
  - AllStorages: the registry of every sparse set in a world, arbitrating borrows between callers.

Basic Usage:

	all := shipyard.Factory.NewAllStorages()

	shipyard.Register[Position](all)
	shipyard.Register[Velocity](all)

	entities, _ := shipyard.TryBorrowEntitiesMut(all)
	id := (*entities.Get()).Allocate()
	entities.Release()

	posView, _ := shipyard.TryBorrowViewMut[Position](all)
	velView, _ := shipyard.TryBorrowViewMut[Velocity](all)
	posView.Insert(Position{}, id)
	velView.Insert(Velocity{X: 1}, id)

	for id, pos := range posView.All() {
		vel, ok := velView.Get(id)
		if !ok {
			continue
		}
		pos.X += vel.X
	}
	posView.Release()
	velView.Release()

The world facade, system scheduler, and iterator adaptors that normally sit above this core are
out of scope here; shipyard exposes the views and borrow-info contract they need and nothing more.
*/
package shipyard
