package tourney

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"

	"github.com/eigen-ai-labs/qqr/pkg/judge"
)

// Factory builds a Driver over a given judge. Drivers that need extra
// tuning (e.g. Swiss's round cap) expose their own typed constructor
// and register a closure that applies defaults.
type Factory func(j judge.Judge) (Driver, error)

var (
	mu        sync.RWMutex
	factories = make(map[string]Factory)
)

// Register adds a driver factory under name. Re-registering an existing
// name is idempotent in effect (the later registration wins) but is
// logged, since it usually signals two algorithm files claiming the
// same identifier.
func Register(name string, factory Factory) {
	mu.Lock()
	defer mu.Unlock()
	if _, exists := factories[name]; exists {
		slog.Warn("tourney: duplicate driver registration", "name", name)
	}
	factories[name] = factory
}

// Create instantiates a driver by name. If name contains "/", only the
// segment before the first "/" is used as the lookup key — the
// remainder is available for callers that want to pass a variant
// suffix through unused registry machinery (e.g. "swiss/capped-3").
func Create(name string, j judge.Judge) (Driver, error) {
	key := name
	if idx := strings.IndexByte(name, '/'); idx >= 0 {
		key = name[:idx]
	}

	mu.RLock()
	factory, ok := factories[key]
	mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("unknown reward model %q (parsed as %q); available: %v", name, key, List())
	}
	return factory(j)
}

// List returns all registered driver names, sorted alphabetically.
func List() []string {
	mu.RLock()
	defer mu.RUnlock()
	names := make([]string, 0, len(factories))
	for name := range factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
