package realtime

import (
	"encoding/json"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/Eursukkul/dormmate-service/internal/metrics"
)

// Topic selects one table, optionally narrowed to rows whose Column equals
// Value. Written as "users" or "users:role=student".
type Topic struct {
	Table  string
	Column string
	Value  string
}

// ParseTopics parses a comma separated topic list.
func ParseTopics(list string) ([]Topic, error) {
	var topics []Topic
	for _, part := range strings.Split(list, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		t := Topic{Table: part}
		if table, filter, ok := strings.Cut(part, ":"); ok {
			col, val, ok := strings.Cut(filter, "=")
			if !ok || col == "" {
				return nil, fmt.Errorf("invalid filter %q", filter)
			}
			t = Topic{Table: table, Column: col, Value: val}
		}
		if !slices.Contains(Tables, t.Table) {
			return nil, fmt.Errorf("unknown table %q", t.Table)
		}
		topics = append(topics, t)
	}
	if len(topics) == 0 {
		return nil, fmt.Errorf("no tables requested")
	}
	return topics, nil
}

func (t Topic) matches(ev Event) bool {
	if t.Table != ev.Table {
		return false
	}
	if t.Column == "" {
		return true
	}
	var row map[string]any
	if err := json.Unmarshal(ev.Row(), &row); err != nil {
		return false
	}
	v, ok := row[t.Column]
	return ok && fmt.Sprint(v) == t.Value
}

// Subscription receives matching events on C until Close. Subscriptions
// made with Attach have a nil C and get events through their sink instead.
type Subscription struct {
	C <-chan Event

	ch     chan Event
	sink   func(Event)
	topics []Topic
	hub    *Hub
	once   sync.Once
}

func (s *Subscription) wants(ev Event) bool {
	for _, t := range s.topics {
		if t.matches(ev) {
			return true
		}
	}
	return false
}

// Close removes the subscription from the hub and closes C. Safe to call
// more than once.
func (s *Subscription) Close() {
	s.once.Do(func() {
		s.hub.remove(s)
	})
}

// Hub fans events out to subscriptions in-process. Channel subscribers never
// block Dispatch: one whose buffer is full misses the event. Attached sinks
// run inside Dispatch and see every event.
type Hub struct {
	mu     sync.RWMutex
	subs   map[*Subscription]struct{}
	buffer int
}

func NewHub(buffer int) *Hub {
	if buffer <= 0 {
		buffer = 64
	}
	return &Hub{subs: make(map[*Subscription]struct{}), buffer: buffer}
}

func (h *Hub) Subscribe(topics ...Topic) *Subscription {
	ch := make(chan Event, h.buffer)
	s := &Subscription{C: ch, ch: ch, topics: topics, hub: h}

	h.mu.Lock()
	h.subs[s] = struct{}{}
	h.mu.Unlock()
	metrics.RealtimeSubscribers.Inc()
	return s
}

// Attach registers sink for matching events. sink is called synchronously
// from Dispatch, in dispatch order, and must not call back into the hub.
func (h *Hub) Attach(sink func(Event), topics ...Topic) *Subscription {
	s := &Subscription{sink: sink, topics: topics, hub: h}

	h.mu.Lock()
	h.subs[s] = struct{}{}
	h.mu.Unlock()
	return s
}

func (h *Hub) remove(s *Subscription) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.subs[s]; !ok {
		return
	}
	h.drop(s)
}

func (h *Hub) drop(s *Subscription) {
	delete(h.subs, s)
	if s.ch != nil {
		close(s.ch)
		metrics.RealtimeSubscribers.Dec()
	}
}

func (h *Hub) Dispatch(ev Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for s := range h.subs {
		if !s.wants(ev) {
			continue
		}
		if s.sink != nil {
			s.sink(ev)
			continue
		}
		select {
		case s.ch <- ev:
		default:
			metrics.RealtimeDropped.Inc()
		}
	}
}

// Len reports the number of open subscriptions.
func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}

// Close drops every subscription.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for s := range h.subs {
		h.drop(s)
	}
}
