package output

import (
	"container/list"

	"github.com/charmbracelet/lipgloss"
)

// rotatingPalette is the pool of colors handed out to previously-unseen
// display keys, one slot per cache entry.
var rotatingPalette = []lipgloss.Color{
	"9",  // bright red
	"12", // bright blue
	"14", // bright cyan
	"10", // bright green
	"11", // bright yellow
	"13", // bright magenta
}

// fixedColors pins well-known system keys to hard-coded colors regardless of
// cache state. Order matters: it defines their color indices.
var fixedColors = []struct {
	key   string
	color lipgloss.Color
}{
	{"jdwp", "7"},
	{"DEBUG", "3"},
	{"Process", "7"},
	{"dalvikvm", "7"},
	{"StrictMode", "7"},
	{"AndroidRuntime", "6"},
	{"ActivityThread", "7"},
	{"ActivityManager", "7"},
}

// ColorAt maps a color index to its lipgloss color. Indices below the
// rotating palette size are palette slots; the rest are fixed keys.
func ColorAt(idx int) lipgloss.Color {
	if idx >= 0 && idx < len(rotatingPalette) {
		return rotatingPalette[idx]
	}
	f := idx - len(rotatingPalette)
	if f >= 0 && f < len(fixedColors) {
		return fixedColors[f].color
	}
	return "15"
}

type cacheEntry struct {
	key  string
	slot int
}

// ColorCache assigns stable colors to recurring display keys (tags and
// package names) under a bounded working set. Keys beyond capacity evict the
// least-recently-used entry and take over its palette slot, trading color
// stability for bounded memory.
//
// The cache is exclusively owned by the supervisor's loop; no locking.
type ColorCache struct {
	capacity int
	entries  map[string]*list.Element
	lru      *list.List // front = most recently used
	nextSlot int        // next unused palette slot while filling
}

// NewColorCache creates a cache bounded at capacity entries. A non-positive
// capacity defaults to the rotating palette size.
func NewColorCache(capacity int) *ColorCache {
	if capacity <= 0 {
		capacity = len(rotatingPalette)
	}
	return &ColorCache{
		capacity: capacity,
		entries:  make(map[string]*list.Element, capacity),
		lru:      list.New(),
	}
}

// ColorFor returns the color index for a display key, amortized O(1). Fixed
// keys bypass the cache entirely. Other keys refresh recency on hit; on a
// miss the next unused slot is assigned round-robin, or the LRU entry is
// evicted and its slot reassigned once the cache is full.
func (c *ColorCache) ColorFor(key string) int {
	for i, f := range fixedColors {
		if f.key == key {
			return len(rotatingPalette) + i
		}
	}

	if el, ok := c.entries[key]; ok {
		c.lru.MoveToFront(el)
		return c.colorIndex(el.Value.(*cacheEntry).slot)
	}

	var slot int
	if c.nextSlot < c.capacity {
		slot = c.nextSlot
		c.nextSlot++
	} else {
		oldest := c.lru.Back()
		e := oldest.Value.(*cacheEntry)
		slot = e.slot
		delete(c.entries, e.key)
		c.lru.Remove(oldest)
	}
	c.entries[key] = c.lru.PushFront(&cacheEntry{key: key, slot: slot})
	return c.colorIndex(slot)
}

// StyleFor returns a foreground style for the key's assigned color.
func (c *ColorCache) StyleFor(key string) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(ColorAt(c.ColorFor(key)))
}

// Len returns the number of cached (non-fixed) keys.
func (c *ColorCache) Len() int {
	return len(c.entries)
}

// Contains reports whether a key is currently cached without touching
// recency.
func (c *ColorCache) Contains(key string) bool {
	_, ok := c.entries[key]
	return ok
}

// colorIndex folds a slot into the rotating palette when capacity exceeds
// the number of distinct colors.
func (c *ColorCache) colorIndex(slot int) int {
	return slot % len(rotatingPalette)
}
