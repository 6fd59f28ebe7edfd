// Package consumer feeds row change events from the broker into the
// in-process realtime hub.
package consumer

import (
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/Eursukkul/dormmate-service/internal/realtime"
	amqp "github.com/rabbitmq/amqp091-go"
)

// Dispatcher is the part of realtime.Hub the consumer needs.
type Dispatcher interface {
	Dispatch(ev realtime.Event)
}

// Notification is the row carried by events on the notifications table.
type Notification struct {
	Kind    string    `json:"kind"`
	UserID  string    `json:"user_id"`
	Message string    `json:"message"`
	At      time.Time `json:"at"`
}

type ChangeConsumer struct {
	hub Dispatcher
}

func NewChangeConsumer(hub Dispatcher) *ChangeConsumer {
	return &ChangeConsumer{hub: hub}
}

// Start dispatches deliveries until msgs is closed.
func (cc *ChangeConsumer) Start(msgs <-chan amqp.Delivery) {
	go func() {
		for msg := range msgs {
			cc.handleMessage(msg)
		}
		log.Println("[ChangeConsumer] channel closed, stopping consumer")
	}()
}

func (cc *ChangeConsumer) handleMessage(msg amqp.Delivery) {
	var ev realtime.Event
	if err := json.Unmarshal(msg.Body, &ev); err != nil {
		log.Printf("[ChangeConsumer] failed to unmarshal %s: %v", msg.RoutingKey, err)
		_ = msg.Nack(false, false)
		return
	}
	cc.Handle(ev)
	_ = msg.Ack(false)
}

// Handle fans ev out to subscribers, followed by any notification it
// implies. It is also the sink of realtime.LocalPublisher.
func (cc *ChangeConsumer) Handle(ev realtime.Event) {
	cc.hub.Dispatch(ev)

	note, ok, err := checkOutNotice(ev)
	if err != nil {
		log.Printf("[ChangeConsumer] %s: %v", ev.RoutingKey(), err)
		return
	}
	if !ok {
		return
	}
	out, err := realtime.NewEvent(realtime.TableNotifications, realtime.Insert, note, nil)
	if err != nil {
		log.Printf("[ChangeConsumer] build notification: %v", err)
		return
	}
	cc.hub.Dispatch(out)
}

type attendanceRow struct {
	UserID   string     `json:"user_id"`
	CheckOut *time.Time `json:"check_out"`
	User     *struct {
		FullName string `json:"full_name"`
	} `json:"user"`
}

// checkOutNotice reports a notification when an attendance UPDATE sets
// check_out for the first time that day.
func checkOutNotice(ev realtime.Event) (Notification, bool, error) {
	if ev.Table != realtime.TableAttendance || ev.Type != realtime.Update || len(ev.Old) == 0 || len(ev.New) == 0 {
		return Notification{}, false, nil
	}
	var before, after attendanceRow
	if err := json.Unmarshal(ev.Old, &before); err != nil {
		return Notification{}, false, fmt.Errorf("decode old row: %w", err)
	}
	if err := json.Unmarshal(ev.New, &after); err != nil {
		return Notification{}, false, fmt.Errorf("decode new row: %w", err)
	}
	if before.CheckOut != nil || after.CheckOut == nil {
		return Notification{}, false, nil
	}

	name := "A student"
	if after.User != nil && after.User.FullName != "" {
		name = after.User.FullName
	}
	return Notification{
		Kind:    "check_out",
		UserID:  after.UserID,
		Message: name + " checked out",
		At:      after.CheckOut.UTC(),
	}, true, nil
}
