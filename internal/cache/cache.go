package cache

import (
	"slices"
	"sync"
	"time"

	"github.com/OCAP2/autodrive/internal/autodrive"
	"github.com/OCAP2/autodrive/pkg/core"
)

// Entry is one active autodrive activity. Hold its lock while stepping the
// controller or reading Last.
type Entry struct {
	m          sync.Mutex
	SessionID  string
	Vehicle    core.Vehicle
	Controller *autodrive.Controller
	Source     autodrive.Vehicle // read for per-turn snapshots
	Driver     autodrive.Driver
	Started    time.Time
	Last       autodrive.TurnResult
}

func (e *Entry) Lock() {
	e.m.Lock()
}

func (e *Entry) Unlock() {
	e.m.Unlock()
}

// ControllerCache maps vehicle ids to their active activity. Lookups happen
// every turn, so they stay in memory.
type ControllerCache struct {
	m       sync.RWMutex
	entries map[int]*Entry
}

func NewControllerCache() *ControllerCache {
	return &ControllerCache{entries: make(map[int]*Entry)}
}

func (c *ControllerCache) Reset() {
	c.m.Lock()
	defer c.m.Unlock()
	c.entries = make(map[int]*Entry)
}

// Add stores e for vehicleID and returns any entry it replaced.
func (c *ControllerCache) Add(vehicleID int, e *Entry) (*Entry, bool) {
	c.m.Lock()
	defer c.m.Unlock()
	old, ok := c.entries[vehicleID]
	c.entries[vehicleID] = e
	return old, ok
}

func (c *ControllerCache) Get(vehicleID int) (*Entry, bool) {
	c.m.RLock()
	defer c.m.RUnlock()
	e, ok := c.entries[vehicleID]
	return e, ok
}

// Remove deletes the entry for vehicleID if it is still e.
func (c *ControllerCache) Remove(vehicleID int, e *Entry) bool {
	c.m.Lock()
	defer c.m.Unlock()
	if cur, ok := c.entries[vehicleID]; !ok || cur != e {
		return false
	}
	delete(c.entries, vehicleID)
	return true
}

// VehicleIDs returns the ids with an active entry, ascending.
func (c *ControllerCache) VehicleIDs() []int {
	c.m.RLock()
	defer c.m.RUnlock()
	ids := make([]int, 0, len(c.entries))
	for id := range c.entries {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

func (c *ControllerCache) Len() int {
	c.m.RLock()
	defer c.m.RUnlock()
	return len(c.entries)
}

// SafeCounter is a thread-safe counter
type SafeCounter struct {
	mu sync.Mutex
	v  int
}

func (c *SafeCounter) Value() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.v
}

func (c *SafeCounter) Set(v int) {
	c.mu.Lock()
	c.v = v
	c.mu.Unlock()
}

func (c *SafeCounter) Inc() {
	c.mu.Lock()
	c.v++
	c.mu.Unlock()
}
