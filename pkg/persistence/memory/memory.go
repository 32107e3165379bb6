// Package memory provides an in-memory persistence implementation, used in
// tests and as the default store when no data directory is configured.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/printyhq/printy-assist/pkg/models"
	"github.com/printyhq/printy-assist/pkg/persistence"
)

// Persistence implements persistence.Persistence with mutex-guarded maps.
type Persistence struct {
	mu       sync.RWMutex
	orders   map[string]*models.Order
	tickets  map[string]*models.Ticket
	services map[string]*models.Service

	orderIDs   []string
	ticketIDs  []string
	serviceIDs []string
}

// NewPersistence creates an empty in-memory store.
func NewPersistence() *Persistence {
	return &Persistence{
		orders:   make(map[string]*models.Order),
		tickets:  make(map[string]*models.Ticket),
		services: make(map[string]*models.Service),
	}
}

// Seed loads the given records, replacing whatever the store holds.
func (p *Persistence) Seed(orders []*models.Order, tickets []*models.Ticket, services []*models.Service) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.orders = make(map[string]*models.Order, len(orders))
	p.tickets = make(map[string]*models.Ticket, len(tickets))
	p.services = make(map[string]*models.Service, len(services))
	p.orderIDs = p.orderIDs[:0]
	p.ticketIDs = p.ticketIDs[:0]
	p.serviceIDs = p.serviceIDs[:0]

	for _, o := range orders {
		record := *o
		p.orders[o.ID] = &record
		p.orderIDs = append(p.orderIDs, o.ID)
	}

	for _, t := range tickets {
		record := *t
		p.tickets[t.ID] = &record
		p.ticketIDs = append(p.ticketIDs, t.ID)
	}

	for _, s := range services {
		record := *s
		p.services[s.ID] = &record
		p.serviceIDs = append(p.serviceIDs, s.ID)
	}
}

func (p *Persistence) Orders(_ context.Context) ([]*models.Order, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	orders := make([]*models.Order, 0, len(p.orderIDs))
	for _, id := range p.orderIDs {
		record := *p.orders[id]
		orders = append(orders, &record)
	}

	return orders, nil
}

func (p *Persistence) OrderByID(_ context.Context, id string) (*models.Order, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	order, ok := p.orders[id]
	if !ok {
		return nil, persistence.NewEntityError("OrderByID", id, persistence.ErrOrderNotFound)
	}

	record := *order

	return &record, nil
}

func (p *Persistence) UpdateOrder(_ context.Context, id string, update models.OrderUpdate) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	order, ok := p.orders[id]
	if !ok {
		return persistence.NewEntityError("UpdateOrder", id, persistence.ErrOrderNotFound)
	}

	if update.Status != nil {
		order.Status = *update.Status
	}

	if update.Total != nil {
		order.Total = *update.Total
	}

	order.UpdatedAt = time.Now().UTC()

	return nil
}

func (p *Persistence) Tickets(_ context.Context) ([]*models.Ticket, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	tickets := make([]*models.Ticket, 0, len(p.ticketIDs))
	for _, id := range p.ticketIDs {
		record := *p.tickets[id]
		tickets = append(tickets, &record)
	}

	return tickets, nil
}

func (p *Persistence) TicketByID(_ context.Context, id string) (*models.Ticket, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	ticket, ok := p.tickets[id]
	if !ok {
		return nil, persistence.NewEntityError("TicketByID", id, persistence.ErrTicketNotFound)
	}

	record := *ticket

	return &record, nil
}

func (p *Persistence) UpdateTicket(_ context.Context, id string, update models.TicketUpdate) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	ticket, ok := p.tickets[id]
	if !ok {
		return persistence.NewEntityError("UpdateTicket", id, persistence.ErrTicketNotFound)
	}

	if update.Status != nil {
		ticket.Status = *update.Status
	}

	if update.LastReply != nil {
		ticket.LastReply = *update.LastReply
	}

	ticket.UpdatedAt = time.Now().UTC()

	return nil
}

func (p *Persistence) Services(_ context.Context) ([]*models.Service, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	services := make([]*models.Service, 0, len(p.serviceIDs))
	for _, id := range p.serviceIDs {
		record := *p.services[id]
		services = append(services, &record)
	}

	return services, nil
}

func (p *Persistence) ServiceByID(_ context.Context, id string) (*models.Service, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	service, ok := p.services[id]
	if !ok {
		return nil, persistence.NewEntityError("ServiceByID", id, persistence.ErrServiceNotFound)
	}

	record := *service

	return &record, nil
}

func (p *Persistence) UpdateService(_ context.Context, id string, update models.ServiceUpdate) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	service, ok := p.services[id]
	if !ok {
		return persistence.NewEntityError("UpdateService", id, persistence.ErrServiceNotFound)
	}

	if update.Name != nil {
		service.Name = *update.Name
	}

	if update.Category != nil {
		service.Category = *update.Category
	}

	if update.Status != nil {
		service.Status = *update.Status
	}

	service.UpdatedAt = time.Now().UTC()

	return nil
}

func (p *Persistence) CreateService(_ context.Context, service models.Service) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if _, exists := p.services[service.ID]; exists {
		return persistence.NewEntityError("CreateService", service.ID, persistence.ErrServiceAlreadyExists)
	}

	now := time.Now().UTC()
	service.CreatedAt = now
	service.UpdatedAt = now

	p.services[service.ID] = &service
	p.serviceIDs = append(p.serviceIDs, service.ID)

	return nil
}

func (p *Persistence) HealthCheck(_ context.Context) error {
	return nil
}

func (p *Persistence) Close(_ context.Context) error {
	return nil
}
