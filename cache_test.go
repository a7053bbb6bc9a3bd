package shipyard

import (
	"sync"
	"testing"
)

func TestNameCacheComputesOnce(t *testing.T) {
	cache := newNameCache()
	calls := 0
	compute := func() string {
		calls++
		return "int"
	}

	id := storageIDFor[int]()

	for i := 0; i < 5; i++ {
		name := cache.nameFor(id, compute)
		if name != "int" {
			t.Errorf("nameFor returned %q, expected %q", name, "int")
		}
	}

	if calls != 1 {
		t.Errorf("compute was called %d times, expected exactly 1", calls)
	}
}

func TestNameCacheDistinctKeys(t *testing.T) {
	cache := newNameCache()

	intID := storageIDFor[int]()
	strID := storageIDFor[string]()

	intName := cache.nameFor(intID, func() string { return "int" })
	strName := cache.nameFor(strID, func() string { return "string" })

	if intName != "int" || strName != "string" {
		t.Errorf("got (%q, %q), expected (\"int\", \"string\")", intName, strName)
	}
}

func TestNameCacheConcurrentAccess(t *testing.T) {
	cache := newNameCache()
	id := storageIDFor[Position]()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			cache.nameFor(id, func() string { return "Position" })
		}()
	}
	wg.Wait()

	if name := cache.nameFor(id, func() string { return "unused" }); name != "Position" {
		t.Errorf("nameFor returned %q, expected %q", name, "Position")
	}
}
