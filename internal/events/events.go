package events

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const (
	EventBookingCreated        = "booking_created"
	EventBookingUpdated        = "booking_updated"
	EventBookingAccepted       = "booking_accepted"
	EventBookingRejected       = "booking_rejected"
	EventBookingDeleted        = "booking_deleted"
	EventBookingDriverAssigned = "booking_driver_assigned"
)

// AllBookingEvents lists every lifecycle event type.
var AllBookingEvents = []string{
	EventBookingCreated,
	EventBookingUpdated,
	EventBookingAccepted,
	EventBookingRejected,
	EventBookingDeleted,
	EventBookingDriverAssigned,
}

// BookingEventPayload describes the minimal booking snapshot for event consumers.
type BookingEventPayload struct {
	BookingID   string    `json:"booking_id"`
	UserID      string    `json:"user_id,omitempty"`
	Status      string    `json:"status"`
	Date        string    `json:"date"`
	DriverID    string    `json:"driver_id,omitempty"`
	Version     int64     `json:"version"`
	ChangedBy   string    `json:"changed_by,omitempty"`
	ChangedByID string    `json:"changed_by_id,omitempty"`
	OccurredAt  time.Time `json:"occurred_at"`
}

// Event represents a lightweight domain event.
type Event struct {
	ID        string
	Type      string
	Payload   []byte
	CreatedAt time.Time
}

// EventHandler reacts to an event.
type EventHandler func(event *Event) error

// EventBus provides in-process pub/sub for events.
type EventBus struct {
	subscribers map[string][]EventHandler
	mu          sync.RWMutex
}

// NewEventBus constructs an empty bus.
func NewEventBus() *EventBus {
	return &EventBus{subscribers: make(map[string][]EventHandler)}
}

// Subscribe registers a handler for a given event type.
func (b *EventBus) Subscribe(eventType string, handler EventHandler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subscribers[eventType] = append(b.subscribers[eventType], handler)
}

// Publish notifies subscribers of the event type.
func (b *EventBus) Publish(event *Event) {
	b.mu.RLock()
	handlers := append([]EventHandler(nil), b.subscribers[event.Type]...)
	b.mu.RUnlock()

	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now()
	}

	for _, handler := range handlers {
		// Handlers run synchronously; caller decides concurrency model.
		_ = handler(event)
	}
}

// PublishJSON serializes the payload and publishes an event.
func (b *EventBus) PublishJSON(eventType string, payload interface{}) error {
	if b == nil {
		return nil
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	b.Publish(&Event{Type: eventType, Payload: raw, CreatedAt: time.Now()})
	return nil
}

// LogSubscriber returns a handler that writes events to the debug log.
func LogSubscriber(logger *zerolog.Logger) EventHandler {
	return func(event *Event) error {
		logger.Debug().
			Str("event_id", event.ID).
			Str("event_type", event.Type).
			RawJSON("payload", event.Payload).
			Msg("booking event")
		return nil
	}
}

// SubscribeBookingLog attaches LogSubscriber to every booking lifecycle event.
func (b *EventBus) SubscribeBookingLog(logger *zerolog.Logger) {
	handler := LogSubscriber(logger)
	for _, t := range AllBookingEvents {
		b.Subscribe(t, handler)
	}
}
