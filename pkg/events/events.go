// Package events defines the notifications the assistant emits when a
// conversation mutates dashboard data or changes lifecycle state.
package events

import (
	"time"

	"github.com/google/uuid"
)

type EventType string

// Kafka topic carrying all assistant events.
const Topic = "printy.events"

const EventMetadataKey = "key"
const EventTypeMetadataKey = "event_type"

const (
	// Entity mutation events.
	OrderUpdatedEvent   EventType = "order.updated"
	TicketUpdatedEvent  EventType = "ticket.updated"
	ServiceUpdatedEvent EventType = "service.updated"
	ServiceCreatedEvent EventType = "service.created"

	// Conversation lifecycle events.
	SessionStartedEvent EventType = "session.started"
	SessionEndedEvent   EventType = "session.ended"
)

type BaseEvent struct {
	ID        string         `json:"id"`
	Type      EventType      `json:"type"`
	Timestamp time.Time      `json:"timestamp"`
	SessionID string         `json:"session_id,omitempty"`
	Metadata  map[string]any `json:"metadata,omitempty"`
}

func NewBaseEvent(eventType EventType, sessionID string) BaseEvent {
	return BaseEvent{
		ID:        uuid.New().String(),
		Type:      eventType,
		Timestamp: time.Now().UTC(),
		SessionID: sessionID,
		Metadata:  make(map[string]any),
	}
}

// OrderUpdated is emitted after a conversation changes an order.
type OrderUpdated struct {
	BaseEvent

	OrderID        string `json:"order_id"`
	PreviousStatus string `json:"previous_status,omitempty"`
	Status         string `json:"status,omitempty"`
	Total          string `json:"total,omitempty"`
}

func (e OrderUpdated) GetType() EventType {
	return OrderUpdatedEvent
}

// TicketUpdated is emitted after a conversation changes a ticket.
type TicketUpdated struct {
	BaseEvent

	TicketID string `json:"ticket_id"`
	Status   string `json:"status,omitempty"`
	Replied  bool   `json:"replied,omitempty"`
}

func (e TicketUpdated) GetType() EventType {
	return TicketUpdatedEvent
}

// ServiceUpdated is emitted after a conversation edits a portfolio entry.
type ServiceUpdated struct {
	BaseEvent

	ServiceID string `json:"service_id"`
	Name      string `json:"name,omitempty"`
	Category  string `json:"category,omitempty"`
	Status    string `json:"status,omitempty"`
}

func (e ServiceUpdated) GetType() EventType {
	return ServiceUpdatedEvent
}

// ServiceCreated is emitted when the add-service wizard completes.
type ServiceCreated struct {
	BaseEvent

	ServiceID string `json:"service_id"`
	Name      string `json:"name"`
	Category  string `json:"category,omitempty"`
	Status    string `json:"status"`
}

func (e ServiceCreated) GetType() EventType {
	return ServiceCreatedEvent
}

// SessionStarted is emitted when a conversation is opened and routed to a flow.
type SessionStarted struct {
	BaseEvent

	FlowID string `json:"flow_id"`
	Topic  string `json:"topic,omitempty"`
}

func (e SessionStarted) GetType() EventType {
	return SessionStartedEvent
}

// SessionEnded is emitted when a conversation ends, whether by the user or by
// the idle janitor.
type SessionEnded struct {
	BaseEvent

	FlowID string `json:"flow_id"`
	Reason string `json:"reason,omitempty"`
}

func (e SessionEnded) GetType() EventType {
	return SessionEndedEvent
}
