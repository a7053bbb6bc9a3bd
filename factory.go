package shipyard

// factory implements the factory pattern for shipyard's top-level constructors, mirroring the
// teacher's own Factory global rather than exposing bare package-level New* functions.
type factory struct{}

// Factory is the global factory instance for creating shipyard registries.
var Factory factory

// NewAllStorages creates a new, empty AllStorages registry with its entity table ready to use.
func (f factory) NewAllStorages() *AllStorages {
	return NewAllStorages()
}
