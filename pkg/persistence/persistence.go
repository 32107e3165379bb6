// Package persistence provides the data storage abstraction layer for orders,
// tickets and services.
package persistence

import (
	"context"

	"github.com/printyhq/printy-assist/pkg/models"
)

type Persistence interface {
	Orders(ctx context.Context) ([]*models.Order, error)
	OrderByID(ctx context.Context, id string) (*models.Order, error)
	UpdateOrder(ctx context.Context, id string, update models.OrderUpdate) error

	Tickets(ctx context.Context) ([]*models.Ticket, error)
	TicketByID(ctx context.Context, id string) (*models.Ticket, error)
	UpdateTicket(ctx context.Context, id string, update models.TicketUpdate) error

	Services(ctx context.Context) ([]*models.Service, error)
	ServiceByID(ctx context.Context, id string) (*models.Service, error)
	UpdateService(ctx context.Context, id string, update models.ServiceUpdate) error
	CreateService(ctx context.Context, service models.Service) error

	HealthCheck(ctx context.Context) error

	Close(ctx context.Context) error
}
