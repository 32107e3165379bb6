// Package file provides a file-based persistence implementation: one JSON
// document per collection under a data directory, validated on load and
// rewritten atomically on every mutation.
package file

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/printyhq/printy-assist/pkg/models"
	"github.com/printyhq/printy-assist/pkg/persistence"
)

const (
	ordersFile   = "orders.json"
	ticketsFile  = "tickets.json"
	servicesFile = "services.json"
)

// Persistence implements the persistence.Persistence interface using JSON
// files. Missing collection files are treated as empty collections.
type Persistence struct {
	root string

	mu       sync.RWMutex
	orders   []*models.Order
	tickets  []*models.Ticket
	services []*models.Service
}

// NewPersistence loads the collections under the given root directory. Every
// present file is schema-validated before decoding.
func NewPersistence(root string) (*Persistence, error) {
	cleanRoot := strings.Replace(root, "file://", "", 1)

	p := &Persistence{root: cleanRoot}

	if err := p.load(); err != nil {
		return nil, err
	}

	return p, nil
}

func (p *Persistence) load() error {
	if err := loadCollection(p.root, ordersFile, ordersSchema, &p.orders); err != nil {
		return err
	}

	if err := loadCollection(p.root, ticketsFile, ticketsSchema, &p.tickets); err != nil {
		return err
	}

	return loadCollection(p.root, servicesFile, servicesSchema, &p.services)
}

func loadCollection[T any](root, name, schema string, out *[]T) error {
	data, err := os.ReadFile(filepath.Join(root, name))
	if os.IsNotExist(err) {
		return nil
	}

	if err != nil {
		return fmt.Errorf("failed to read %s: %w", name, err)
	}

	if err := validateAgainstSchema(schema, data); err != nil {
		return fmt.Errorf("invalid %s: %w", name, err)
	}

	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode %s: %w", name, err)
	}

	return nil
}

func writeCollection[T any](root, name string, records []T) error {
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", name, err)
	}

	path := filepath.Join(root, name)
	tmp := path + ".tmp"

	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", name, err)
	}

	return os.Rename(tmp, path)
}

func (p *Persistence) Orders(_ context.Context) ([]*models.Order, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	orders := make([]*models.Order, 0, len(p.orders))
	for _, o := range p.orders {
		record := *o
		orders = append(orders, &record)
	}

	return orders, nil
}

func (p *Persistence) OrderByID(_ context.Context, id string) (*models.Order, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	for _, o := range p.orders {
		if o.ID == id {
			record := *o

			return &record, nil
		}
	}

	return nil, persistence.NewEntityError("OrderByID", id, persistence.ErrOrderNotFound)
}

func (p *Persistence) UpdateOrder(_ context.Context, id string, update models.OrderUpdate) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	for _, o := range p.orders {
		if o.ID != id {
			continue
		}

		if update.Status != nil {
			o.Status = *update.Status
		}

		if update.Total != nil {
			o.Total = *update.Total
		}

		o.UpdatedAt = time.Now().UTC()

		return writeCollection(p.root, ordersFile, p.orders)
	}

	return persistence.NewEntityError("UpdateOrder", id, persistence.ErrOrderNotFound)
}

func (p *Persistence) Tickets(_ context.Context) ([]*models.Ticket, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	tickets := make([]*models.Ticket, 0, len(p.tickets))
	for _, t := range p.tickets {
		record := *t
		tickets = append(tickets, &record)
	}

	return tickets, nil
}

func (p *Persistence) TicketByID(_ context.Context, id string) (*models.Ticket, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	for _, t := range p.tickets {
		if t.ID == id {
			record := *t

			return &record, nil
		}
	}

	return nil, persistence.NewEntityError("TicketByID", id, persistence.ErrTicketNotFound)
}

func (p *Persistence) UpdateTicket(_ context.Context, id string, update models.TicketUpdate) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	for _, t := range p.tickets {
		if t.ID != id {
			continue
		}

		if update.Status != nil {
			t.Status = *update.Status
		}

		if update.LastReply != nil {
			t.LastReply = *update.LastReply
		}

		t.UpdatedAt = time.Now().UTC()

		return writeCollection(p.root, ticketsFile, p.tickets)
	}

	return persistence.NewEntityError("UpdateTicket", id, persistence.ErrTicketNotFound)
}

func (p *Persistence) Services(_ context.Context) ([]*models.Service, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	services := make([]*models.Service, 0, len(p.services))
	for _, s := range p.services {
		record := *s
		services = append(services, &record)
	}

	return services, nil
}

func (p *Persistence) ServiceByID(_ context.Context, id string) (*models.Service, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	for _, s := range p.services {
		if s.ID == id {
			record := *s

			return &record, nil
		}
	}

	return nil, persistence.NewEntityError("ServiceByID", id, persistence.ErrServiceNotFound)
}

func (p *Persistence) UpdateService(_ context.Context, id string, update models.ServiceUpdate) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	for _, s := range p.services {
		if s.ID != id {
			continue
		}

		if update.Name != nil {
			s.Name = *update.Name
		}

		if update.Category != nil {
			s.Category = *update.Category
		}

		if update.Status != nil {
			s.Status = *update.Status
		}

		s.UpdatedAt = time.Now().UTC()

		return writeCollection(p.root, servicesFile, p.services)
	}

	return persistence.NewEntityError("UpdateService", id, persistence.ErrServiceNotFound)
}

func (p *Persistence) CreateService(_ context.Context, service models.Service) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	for _, s := range p.services {
		if s.ID == service.ID {
			return persistence.NewEntityError("CreateService", service.ID, persistence.ErrServiceAlreadyExists)
		}
	}

	now := time.Now().UTC()
	service.CreatedAt = now
	service.UpdatedAt = now

	p.services = append(p.services, &service)

	return writeCollection(p.root, servicesFile, p.services)
}

// HealthCheck verifies the data directory exists.
func (p *Persistence) HealthCheck(_ context.Context) error {
	if _, err := os.Stat(p.root); os.IsNotExist(err) {
		return os.ErrNotExist
	}

	return nil
}

// Close performs any necessary cleanup. For file-based persistence, there is
// nothing to clean up.
func (p *Persistence) Close(_ context.Context) error {
	return nil
}
