package shipyard

// Config holds global configuration for the storage system.
var Config config = config{}

// StorageEvents are optional callbacks invoked as storages are registered and packed. They exist
// purely for diagnostics/instrumentation; no core invariant depends on them running.
type StorageEvents struct {
	// OnRegister fires when Register creates the component storage for id, and on every
	// RegisterUnique call for id (each call replaces the unique storage).
	OnRegister func(id StorageID)
	// OnPack fires for each storage the bulk add/remove engine packs or unpacks entity in, even
	// when entity was already inside (or already outside) the packed prefix. AllStorages.Delete
	// does not fire it.
	OnPack func(id StorageID, entity EntityID, packed bool)
}

type config struct {
	storageEvents StorageEvents
}

// SetStorageEvents configures the storage event callbacks.
func (c *config) SetStorageEvents(se StorageEvents) {
	c.storageEvents = se
}

func (c *config) fireRegister(id StorageID) {
	if c.storageEvents.OnRegister != nil {
		c.storageEvents.OnRegister(id)
	}
}

func (c *config) firePack(id StorageID, entity EntityID, packed bool) {
	if c.storageEvents.OnPack != nil {
		c.storageEvents.OnPack(id, entity, packed)
	}
}
