package warehouse

import (
	"fmt"
	"sort"
	"sync"
)

var (
	registry = make(map[string]Driver)
	mu       sync.RWMutex
)

// Register adds a driver to the registry.
func Register(d Driver) {
	mu.Lock()
	defer mu.Unlock()
	registry[d.Name()] = d
}

// Get retrieves a driver by name.
func Get(name string) (Driver, error) {
	mu.RLock()
	defer mu.RUnlock()

	d, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("unknown warehouse driver: %s", name)
	}
	return d, nil
}

// List returns all registered driver names, sorted.
func List() []string {
	mu.RLock()
	defer mu.RUnlock()

	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
