package tickets

import (
	"context"
	"testing"

	"github.com/printyhq/printy-assist/pkg/flow"
	"github.com/printyhq/printy-assist/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newContext(tickets ...*models.Ticket) (*flow.Context, *[]models.TicketUpdate) {
	var updates []models.TicketUpdate

	fctx := &flow.Context{
		Tickets: tickets,
		UpdateTicket: func(id string, update models.TicketUpdate) {
			updates = append(updates, update)

			for _, tk := range tickets {
				if tk.ID != id {
					continue
				}

				if update.Status != nil {
					tk.Status = *update.Status
				}

				if update.LastReply != nil {
					tk.LastReply = *update.LastReply
				}
			}
		},
	}

	return fctx, &updates
}

func sampleTicket() *models.Ticket {
	return &models.Ticket{ID: "TCK-2001", Customer: "Dana", Subject: "Smudged print", Status: models.TicketStatusOpen}
}

func TestInitial_PreselectedTicket(t *testing.T) {
	fctx, _ := newContext(sampleTicket())
	fctx.Selected = []string{"TCK-2001"}
	engine := newEngine()

	messages := engine.Initial(context.Background(), fctx)

	require.NotEmpty(t, messages)
	assert.Contains(t, messages[0].Text, "TCK-2001")
	assert.Contains(t, messages[0].Text, "Smudged print")
	assert.Equal(t, []string{labelReply, labelChangeStatus, flow.EndChatLabel}, engine.QuickReplies())
}

func TestReply_UpdatesTicketAndReturnsToAction(t *testing.T) {
	fctx, updates := newContext(sampleTicket())
	fctx.Selected = []string{"TCK-2001"}
	engine := newEngine()
	engine.Initial(context.Background(), fctx)

	engine.Respond(context.Background(), fctx, labelReply)
	require.Equal(t, nodeReplyText, engine.State().CurrentNode())

	turn := engine.Respond(context.Background(), fctx, "We're reprinting it today, sorry!")

	require.Len(t, *updates, 1)
	assert.Equal(t, "We're reprinting it today, sorry!", *(*updates)[0].LastReply)
	assert.Nil(t, (*updates)[0].Status)
	assert.Contains(t, turn.Messages[0].Text, "📨 Reply sent on TCK-2001")
	assert.Equal(t, nodeAction, engine.State().CurrentNode())
}

func TestReply_EmptyReprompts(t *testing.T) {
	fctx, updates := newContext(sampleTicket())
	fctx.Selected = []string{"TCK-2001"}
	engine := newEngine()
	engine.Initial(context.Background(), fctx)
	engine.Respond(context.Background(), fctx, labelReply)

	turn := engine.Respond(context.Background(), fctx, "   ")

	assert.Empty(t, *updates)
	assert.Equal(t, nodeReplyText, engine.State().CurrentNode())
	assert.Contains(t, turn.Messages[0].Text, "can't be empty")
}

func TestChangeStatus(t *testing.T) {
	fctx, updates := newContext(sampleTicket())
	fctx.Selected = []string{"TCK-2001"}
	engine := newEngine()
	engine.Initial(context.Background(), fctx)
	engine.Respond(context.Background(), fctx, labelChangeStatus)

	turn := engine.Respond(context.Background(), fctx, "resolve")

	require.Len(t, *updates, 1)
	assert.Equal(t, models.TicketStatusResolved, *(*updates)[0].Status)
	assert.Equal(t, "✅ TCK-2001: Open → Resolved", turn.Messages[0].Text)
	assert.Equal(t, nodeAction, engine.State().CurrentNode())
}

func TestStaleTarget_SurfacesNotFound(t *testing.T) {
	ticket := sampleTicket()
	fctx, updates := newContext(ticket)
	fctx.Selected = []string{"TCK-2001"}
	engine := newEngine()
	engine.Initial(context.Background(), fctx)
	engine.Respond(context.Background(), fctx, labelChangeStatus)

	// Simulate external deletion between turns.
	fctx.Tickets = nil

	turn := engine.Respond(context.Background(), fctx, "closed")

	assert.Empty(t, *updates)
	assert.Contains(t, turn.Messages[0].Text, "not found")
	assert.Equal(t, nodeAction, engine.State().CurrentNode())
}
