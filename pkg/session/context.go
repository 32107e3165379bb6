package session

import (
	"context"
	"log/slog"

	"github.com/printyhq/printy-assist/pkg/eventbus"
	"github.com/printyhq/printy-assist/pkg/events"
	"github.com/printyhq/printy-assist/pkg/flow"
	"github.com/printyhq/printy-assist/pkg/models"
	"github.com/printyhq/printy-assist/pkg/persistence"
)

// buildContext assembles the flow.Context for one conversation: entity
// snapshots from the store, mutators that write through the store and publish
// events, and refresh callbacks that re-read the snapshots.
//
// Mutators are fire-and-forget from the flow's point of view, so failures are
// logged and published events carry the session ID for correlation.
func buildContext(ctx context.Context, logger *slog.Logger, store persistence.Persistence, bus eventbus.EventBus, sessionID string, selectedIDs []string) (*flow.Context, error) {
	// Callbacks outlive the request that opened the session.
	ctx = context.WithoutCancel(ctx)

	orders, err := store.Orders(ctx)
	if err != nil {
		return nil, err
	}

	tickets, err := store.Tickets(ctx)
	if err != nil {
		return nil, err
	}

	services, err := store.Services(ctx)
	if err != nil {
		return nil, err
	}

	fctx := &flow.Context{
		Orders:   orders,
		Tickets:  tickets,
		Services: services,
		Selected: selectedIDs,
	}

	log := logger.With(slog.String("session_id", sessionID))

	publish := func(key string, event eventbus.Event) {
		if bus == nil {
			return
		}

		if err := bus.Publish(ctx, key, event); err != nil {
			log.Error("Failed to publish event", "event_type", event.GetType(), "error", err)
		}
	}

	fctx.UpdateOrder = func(id string, update models.OrderUpdate) {
		previous := ""
		if order := fctx.OrderByID(id); order != nil {
			previous = order.Status
		}

		if err := store.UpdateOrder(ctx, id, update); err != nil {
			log.Error("Failed to update order", "order_id", id, "error", err)

			return
		}

		event := events.OrderUpdated{
			BaseEvent:      events.NewBaseEvent(events.OrderUpdatedEvent, sessionID),
			OrderID:        id,
			PreviousStatus: previous,
		}
		if update.Status != nil {
			event.Status = *update.Status
		}

		if update.Total != nil {
			event.Total = *update.Total
		}

		publish(id, event)
	}

	fctx.UpdateTicket = func(id string, update models.TicketUpdate) {
		if err := store.UpdateTicket(ctx, id, update); err != nil {
			log.Error("Failed to update ticket", "ticket_id", id, "error", err)

			return
		}

		event := events.TicketUpdated{
			BaseEvent: events.NewBaseEvent(events.TicketUpdatedEvent, sessionID),
			TicketID:  id,
			Replied:   update.LastReply != nil,
		}
		if update.Status != nil {
			event.Status = *update.Status
		}

		publish(id, event)
	}

	fctx.UpdateService = func(id string, update models.ServiceUpdate) {
		if err := store.UpdateService(ctx, id, update); err != nil {
			log.Error("Failed to update service", "service_id", id, "error", err)

			return
		}

		event := events.ServiceUpdated{
			BaseEvent: events.NewBaseEvent(events.ServiceUpdatedEvent, sessionID),
			ServiceID: id,
		}
		if update.Name != nil {
			event.Name = *update.Name
		}

		if update.Category != nil {
			event.Category = *update.Category
		}

		if update.Status != nil {
			event.Status = *update.Status
		}

		publish(id, event)
	}

	fctx.CreateService = func(service models.Service) {
		if err := store.CreateService(ctx, service); err != nil {
			log.Error("Failed to create service", "service_id", service.ID, "error", err)

			return
		}

		publish(service.ID, events.ServiceCreated{
			BaseEvent: events.NewBaseEvent(events.ServiceCreatedEvent, sessionID),
			ServiceID: service.ID,
			Name:      service.Name,
			Category:  service.Category,
			Status:    service.Status,
		})
	}

	fctx.RefreshOrders = func() {
		if fresh, err := store.Orders(ctx); err == nil {
			fctx.Orders = fresh
		} else {
			log.Error("Failed to refresh orders", "error", err)
		}
	}

	fctx.RefreshTickets = func() {
		if fresh, err := store.Tickets(ctx); err == nil {
			fctx.Tickets = fresh
		} else {
			log.Error("Failed to refresh tickets", "error", err)
		}
	}

	fctx.RefreshServices = func() {
		if fresh, err := store.Services(ctx); err == nil {
			fctx.Services = fresh
		} else {
			log.Error("Failed to refresh services", "error", err)
		}
	}

	return fctx, nil
}
