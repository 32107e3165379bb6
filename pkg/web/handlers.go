// Package web provides the HTTP handlers for the chat assistant API.
package web

import (
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/printyhq/printy-assist/pkg/persistence"
	"github.com/printyhq/printy-assist/pkg/session"
)

type APIHandlers struct {
	sessions  *session.Manager
	store     persistence.Persistence
	validator *validator.Validate
}

func NewAPIHandlers(sessions *session.Manager, store persistence.Persistence, validator *validator.Validate) *APIHandlers {
	return &APIHandlers{
		sessions:  sessions,
		store:     store,
		validator: validator,
	}
}

func (h *APIHandlers) OpenChat(c fiber.Ctx) error {
	var req OpenChatRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	result, err := h.sessions.Open(c.Context(), req.Topic, req.Text, req.SelectedIDs)
	if err != nil {
		return internalError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(result)
}

func (h *APIHandlers) SendMessage(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Session ID is required")
	}

	var req SendMessageRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	turn, err := h.sessions.Send(c.Context(), id, req.Text)
	if err != nil {
		return handleEntityError(c, err)
	}

	return c.JSON(TurnResponse{
		Messages:     turn.Messages,
		QuickReplies: turn.QuickReplies,
	})
}

func (h *APIHandlers) GetTranscript(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Session ID is required")
	}

	entries, err := h.sessions.Transcript(c.Context(), id)
	if err != nil {
		return handleEntityError(c, err)
	}

	return c.JSON(TranscriptResponse{SessionID: id, Entries: entries})
}

func (h *APIHandlers) EndChat(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Session ID is required")
	}

	if err := h.sessions.End(c.Context(), id, "api"); err != nil {
		return handleEntityError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (h *APIHandlers) GetOrders(c fiber.Ctx) error {
	orders, err := h.store.Orders(c.Context())
	if err != nil {
		return internalError(c, err)
	}

	return c.JSON(fiber.Map{"orders": orders})
}

func (h *APIHandlers) GetOrder(c fiber.Ctx) error {
	order, err := h.store.OrderByID(c.Context(), c.Params("id"))
	if err != nil {
		return handleEntityError(c, err)
	}

	return c.JSON(order)
}

func (h *APIHandlers) GetTickets(c fiber.Ctx) error {
	tickets, err := h.store.Tickets(c.Context())
	if err != nil {
		return internalError(c, err)
	}

	return c.JSON(fiber.Map{"tickets": tickets})
}

func (h *APIHandlers) GetTicket(c fiber.Ctx) error {
	ticket, err := h.store.TicketByID(c.Context(), c.Params("id"))
	if err != nil {
		return handleEntityError(c, err)
	}

	return c.JSON(ticket)
}

func (h *APIHandlers) GetServices(c fiber.Ctx) error {
	services, err := h.store.Services(c.Context())
	if err != nil {
		return internalError(c, err)
	}

	return c.JSON(fiber.Map{"services": services})
}

func (h *APIHandlers) GetService(c fiber.Ctx) error {
	service, err := h.store.ServiceByID(c.Context(), c.Params("id"))
	if err != nil {
		return handleEntityError(c, err)
	}

	return c.JSON(service)
}

func (h *APIHandlers) HealthCheck(c fiber.Ctx) error {
	status := "healthy"
	message := "Printy Assist API is healthy"
	httpStatus := http.StatusOK

	if err := h.store.HealthCheck(c.Context()); err != nil {
		status = "unhealthy"
		message = "Printy Assist API is unhealthy"
		httpStatus = http.StatusInternalServerError
	}

	return c.Status(httpStatus).JSON(fiber.Map{
		"status":          status,
		"message":         message,
		"active_sessions": h.sessions.ActiveSessions(),
		"timestamp":       time.Now().UTC(),
	})
}
