// Package models defines the core domain records the chat assistant operates on.
package models

import "time"

// EntityKind selects which record class an operation targets.
type EntityKind string

const (
	KindOrder   EntityKind = "order"
	KindTicket  EntityKind = "ticket"
	KindService EntityKind = "service"
)

// Canonical order statuses. Anything else shown to the engine is rejected and
// reprompted, never defaulted.
const (
	OrderStatusPending          = "Pending"
	OrderStatusAwaitingPayment  = "Awaiting Payment"
	OrderStatusVerifyingPayment = "Verifying Payment"
	OrderStatusForDelivery      = "For Delivery/Pick-up"
	OrderStatusCompleted        = "Completed"
	OrderStatusCancelled        = "Cancelled"
)

const (
	TicketStatusOpen       = "Open"
	TicketStatusInProgress = "In Progress"
	TicketStatusResolved   = "Resolved"
	TicketStatusClosed     = "Closed"
)

const (
	ServiceStatusActive     = "Active"
	ServiceStatusInactive   = "Inactive"
	ServiceStatusComingSoon = "Coming Soon"
)

// OrderStatuses returns the canonical order status labels in menu order.
func OrderStatuses() []string {
	return []string{
		OrderStatusPending,
		OrderStatusAwaitingPayment,
		OrderStatusVerifyingPayment,
		OrderStatusForDelivery,
		OrderStatusCompleted,
		OrderStatusCancelled,
	}
}

func TicketStatuses() []string {
	return []string{
		TicketStatusOpen,
		TicketStatusInProgress,
		TicketStatusResolved,
		TicketStatusClosed,
	}
}

func ServiceStatuses() []string {
	return []string{
		ServiceStatusActive,
		ServiceStatusInactive,
		ServiceStatusComingSoon,
	}
}

// StatusesFor returns the canonical label set for a kind, or nil for an
// unknown kind.
func StatusesFor(kind EntityKind) []string {
	switch kind {
	case KindOrder:
		return OrderStatuses()
	case KindTicket:
		return TicketStatuses()
	case KindService:
		return ServiceStatuses()
	default:
		return nil
	}
}

// Order is a customer print order. IDs follow the ORD-<number> scheme and are
// assumed unique and stable for the lifetime of a conversation.
type Order struct {
	ID        string    `json:"id"         validate:"required"`
	Customer  string    `json:"customer"   validate:"required"`
	Item      string    `json:"item"`
	Status    string    `json:"status"     validate:"required"`
	Total     string    `json:"total"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Ticket is a customer support ticket (TCK-<number>).
type Ticket struct {
	ID        string    `json:"id"         validate:"required"`
	Customer  string    `json:"customer"   validate:"required"`
	Subject   string    `json:"subject"`
	Status    string    `json:"status"     validate:"required"`
	LastReply string    `json:"last_reply"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Service is a portfolio entry for an offered print service (SRV-<code>).
type Service struct {
	ID        string    `json:"id"         validate:"required"`
	Name      string    `json:"name"       validate:"required"`
	Category  string    `json:"category"`
	Status    string    `json:"status"     validate:"required"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// OrderUpdate is a partial update applied through the mutator callback. Nil
// fields are left untouched.
type OrderUpdate struct {
	Status *string `json:"status,omitempty"`
	Total  *string `json:"total,omitempty"`
}

type TicketUpdate struct {
	Status    *string `json:"status,omitempty"`
	LastReply *string `json:"last_reply,omitempty"`
}

type ServiceUpdate struct {
	Name     *string `json:"name,omitempty"`
	Category *string `json:"category,omitempty"`
	Status   *string `json:"status,omitempty"`
}

// Ptr is a convenience for building partial updates.
func Ptr(s string) *string { return &s }
