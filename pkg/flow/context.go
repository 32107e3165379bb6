// Package flow provides the conversational state-machine core: the per-session
// state contract, the node handler contract and the generic turn-dispatch
// engine concrete flows are built on.
package flow

import "github.com/printyhq/printy-assist/pkg/models"

// Context carries the externally injected collaborators a flow consumes
// without owning: entity snapshots, the sanctioned mutator callbacks and the
// advisory refresh callbacks. Mutators are fire-and-forget; the flow cannot
// observe whether a write actually landed.
type Context struct {
	Orders   []*models.Order
	Tickets  []*models.Ticket
	Services []*models.Service

	// Selected holds entity IDs the host pre-selected before opening the
	// conversation. Bulk flows iterate over it; single flows take the first.
	Selected []string

	UpdateOrder   func(id string, update models.OrderUpdate)
	UpdateTicket  func(id string, update models.TicketUpdate)
	UpdateService func(id string, update models.ServiceUpdate)
	CreateService func(service models.Service)

	RefreshOrders   func()
	RefreshTickets  func()
	RefreshServices func()
}

// OrderByID looks up an order in the injected snapshot.
func (c *Context) OrderByID(id string) *models.Order {
	for _, o := range c.Orders {
		if o.ID == id {
			return o
		}
	}

	return nil
}

func (c *Context) TicketByID(id string) *models.Ticket {
	for _, t := range c.Tickets {
		if t.ID == id {
			return t
		}
	}

	return nil
}

func (c *Context) ServiceByID(id string) *models.Service {
	for _, s := range c.Services {
		if s.ID == id {
			return s
		}
	}

	return nil
}

// ServiceCategories returns the distinct categories present in the service
// snapshot, in order of first appearance. Flows use it for category discovery
// menus.
func (c *Context) ServiceCategories() []string {
	seen := make(map[string]bool)
	categories := make([]string, 0)

	for _, s := range c.Services {
		if s.Category == "" || seen[s.Category] {
			continue
		}

		seen[s.Category] = true

		categories = append(categories, s.Category)
	}

	return categories
}
