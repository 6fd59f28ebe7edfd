package realtime

import (
	"encoding/json"
	"fmt"
	"log"
	"slices"
	"sync"

	"github.com/Eursukkul/dormmate-service/internal/domain"
)

// CollectionConfig describes how rows of one table are keyed, ordered and
// searched.
type CollectionConfig[T any] struct {
	Table   string
	Key     func(T) string
	Compare func(a, b T) int
	Fields  func(T) []string
	// Keep, when set, evicts rows that no longer satisfy it after an update.
	Keep func(T) bool
}

// Collection is an in-memory copy of a table kept current by applying the
// payload of each change event to the single affected row.
type Collection[T any] struct {
	cfg CollectionConfig[T]

	mu     sync.RWMutex
	rows   map[string]T
	loaded bool
	// pending holds events that arrive between Follow and the first Load.
	pending   []Event
	buffering bool
	sub       *Subscription
}

func NewCollection[T any](cfg CollectionConfig[T]) *Collection[T] {
	return &Collection[T]{cfg: cfg, rows: make(map[string]T)}
}

// Load replaces the contents with a bulk snapshot, then replays any events
// received since Follow on top of it.
func (c *Collection[T]) Load(rows []T) {
	m := make(map[string]T, len(rows))
	for _, r := range rows {
		if c.cfg.Keep != nil && !c.cfg.Keep(r) {
			continue
		}
		m[c.cfg.Key(r)] = r
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.rows = m
	for _, ev := range c.pending {
		if err := c.patch(ev); err != nil {
			log.Printf("[Collection] %s: replay: %v", c.cfg.Table, err)
		}
	}
	c.pending = nil
	c.buffering = false
	c.loaded = true
}

func (c *Collection[T]) Loaded() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loaded
}

// Apply patches the collection with ev. Events for other tables are ignored.
// An UPDATE for an unknown row inserts it.
func (c *Collection[T]) Apply(ev Event) error {
	if ev.Table != c.cfg.Table {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.buffering {
		c.pending = append(c.pending, ev)
		return nil
	}
	return c.patch(ev)
}

// patch applies ev to rows. c.mu must be held.
func (c *Collection[T]) patch(ev Event) error {
	var row T
	if err := json.Unmarshal(ev.Row(), &row); err != nil {
		return fmt.Errorf("decode %s row: %w", ev.Table, err)
	}
	key := c.cfg.Key(row)

	switch ev.Type {
	case Insert, Update:
		if c.cfg.Keep != nil && !c.cfg.Keep(row) {
			delete(c.rows, key)
			return nil
		}
		c.rows[key] = row
	case Delete:
		delete(c.rows, key)
	default:
		return fmt.Errorf("unknown change type %q", ev.Type)
	}
	return nil
}

// Items returns a copy of the rows in stable order.
func (c *Collection[T]) Items() []T {
	c.mu.RLock()
	out := make([]T, 0, len(c.rows))
	for _, r := range c.rows {
		out = append(out, r)
	}
	c.mu.RUnlock()
	if c.cfg.Compare != nil {
		slices.SortStableFunc(out, c.cfg.Compare)
	}
	return out
}

func (c *Collection[T]) Search(q string) []T {
	items := c.Items()
	if c.cfg.Fields == nil {
		return items
	}
	return domain.Filter(items, q, c.cfg.Fields)
}

// Follow attaches the collection to the hub so it sees every event for its
// table. Until the first Load, events are queued and replayed by Load.
func (c *Collection[T]) Follow(h *Hub) {
	c.mu.Lock()
	c.buffering = !c.loaded
	c.mu.Unlock()

	sub := h.Attach(func(ev Event) {
		if err := c.Apply(ev); err != nil {
			log.Printf("[Collection] %s: %v", c.cfg.Table, err)
		}
	}, Topic{Table: c.cfg.Table})

	c.mu.Lock()
	c.sub = sub
	c.mu.Unlock()
}

// Close releases the hub subscription.
func (c *Collection[T]) Close() {
	c.mu.Lock()
	sub := c.sub
	c.sub = nil
	c.mu.Unlock()
	if sub != nil {
		sub.Close()
	}
}
