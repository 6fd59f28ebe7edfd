// Package realtime carries row change events from writers to websocket
// subscribers and keeps in-memory collections patched from them.
package realtime

import (
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/Eursukkul/dormmate-service/internal/metrics"
)

type ChangeType string

const (
	Insert ChangeType = "INSERT"
	Update ChangeType = "UPDATE"
	Delete ChangeType = "DELETE"
)

const (
	TableUsers         = "users"
	TableRooms         = "rooms"
	TableBookings      = "bookings"
	TableAttendance    = "attendance"
	TableMessMenu      = "mess_menu"
	TableHostels       = "hostels"
	TableComplaints    = "complaints"
	TableNotifications = "notifications"
)

// Tables lists everything a client may subscribe to.
var Tables = []string{
	TableUsers, TableRooms, TableBookings, TableAttendance,
	TableMessMenu, TableHostels, TableComplaints, TableNotifications,
}

// Event is one row change. New is absent for DELETE, Old for INSERT.
type Event struct {
	Table string          `json:"table"`
	Type  ChangeType      `json:"type"`
	New   json.RawMessage `json:"new,omitempty"`
	Old   json.RawMessage `json:"old,omitempty"`
	At    time.Time       `json:"at"`
}

func NewEvent(table string, typ ChangeType, newRow, oldRow any) (Event, error) {
	ev := Event{Table: table, Type: typ, At: time.Now().UTC()}
	var err error
	if newRow != nil {
		if ev.New, err = json.Marshal(newRow); err != nil {
			return Event{}, fmt.Errorf("marshal new row: %w", err)
		}
	}
	if oldRow != nil {
		if ev.Old, err = json.Marshal(oldRow); err != nil {
			return Event{}, fmt.Errorf("marshal old row: %w", err)
		}
	}
	return ev, nil
}

// RoutingKey is "<table>.<type>", e.g. "bookings.insert".
func (e Event) RoutingKey() string {
	return e.Table + "." + strings.ToLower(string(e.Type))
}

// Row returns the payload describing the affected row: New, or Old for DELETE.
func (e Event) Row() json.RawMessage {
	if e.Type == Delete || len(e.New) == 0 {
		return e.Old
	}
	return e.New
}

// Publisher sends an event payload under a routing key. rabbitmq.Publisher
// and LocalPublisher both satisfy it.
type Publisher interface {
	Publish(routingKey string, payload any) error
}

// Emit publishes a change and logs failures; the write it describes has
// already committed. A nil publisher disables the feed.
func Emit(pub Publisher, table string, typ ChangeType, newRow, oldRow any) {
	if pub == nil {
		return
	}
	ev, err := NewEvent(table, typ, newRow, oldRow)
	if err != nil {
		log.Printf("[Realtime] %s %s: %v", table, typ, err)
		metrics.ChangesPublishFailed.WithLabelValues(table).Inc()
		return
	}
	if err := pub.Publish(ev.RoutingKey(), ev); err != nil {
		log.Printf("[Realtime] publish %s failed: %v", ev.RoutingKey(), err)
		metrics.ChangesPublishFailed.WithLabelValues(table).Inc()
		return
	}
	metrics.ChangesPublished.WithLabelValues(table, string(typ)).Inc()
}

// LocalPublisher hands events straight to sink in-process. It stands in for
// the broker when RABBITMQ_URL is not set.
type LocalPublisher struct {
	sink func(Event)
}

func NewLocalPublisher(sink func(Event)) *LocalPublisher {
	return &LocalPublisher{sink: sink}
}

func (p *LocalPublisher) Publish(routingKey string, payload any) error {
	ev, ok := payload.(Event)
	if !ok {
		body, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("marshal payload: %w", err)
		}
		if err := json.Unmarshal(body, &ev); err != nil {
			return fmt.Errorf("decode event %s: %w", routingKey, err)
		}
	}
	p.sink(ev)
	return nil
}
