package multitickets

import (
	"context"
	"testing"

	"github.com/printyhq/printy-assist/pkg/flow"
	"github.com/printyhq/printy-assist/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newContext(tickets ...*models.Ticket) (*flow.Context, map[string]int) {
	updates := make(map[string]int)

	fctx := &flow.Context{
		Tickets: tickets,
		UpdateTicket: func(id string, update models.TicketUpdate) {
			updates[id]++

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

	return fctx, updates
}

func sampleTickets() []*models.Ticket {
	return []*models.Ticket{
		{ID: "TCK-1", Customer: "Dana", Subject: "Smudged print", Status: models.TicketStatusOpen},
		{ID: "TCK-2", Customer: "Evan", Subject: "Late delivery", Status: models.TicketStatusInProgress},
	}
}

func TestBulkStatus(t *testing.T) {
	fctx, updates := newContext(sampleTickets()...)
	fctx.Selected = []string{"TCK-1", "TCK-2"}
	engine := newEngine()
	engine.Initial(context.Background(), fctx)

	engine.Respond(context.Background(), fctx, labelBulkStatus)
	turn := engine.Respond(context.Background(), fctx, "closed")

	assert.Equal(t, 1, updates["TCK-1"])
	assert.Equal(t, 1, updates["TCK-2"])
	assert.Equal(t, nodeDone, engine.State().CurrentNode())
	assert.Contains(t, turn.Messages[0].Text, "✅ TCK-1: Open → Closed")
	assert.Contains(t, turn.Messages[0].Text, "✅ TCK-2: In Progress → Closed")
}

func TestReplyLoop_TwoTickets(t *testing.T) {
	tickets := sampleTickets()
	fctx, updates := newContext(tickets...)
	fctx.Selected = []string{"TCK-1", "TCK-2"}
	engine := newEngine()
	engine.Initial(context.Background(), fctx)

	engine.Respond(context.Background(), fctx, labelReplies)
	require.Equal(t, nodeReplyChooseID, engine.State().CurrentNode())

	engine.Respond(context.Background(), fctx, "TCK-1")
	require.Equal(t, nodeReplyText, engine.State().CurrentNode())

	turn := engine.Respond(context.Background(), fctx, "Reprint on the way!")
	assert.Contains(t, turn.Messages[0].Text, "📨 TCK-1: reply sent")
	// Exactly one remaining: the picker is skipped.
	assert.Equal(t, nodeReplyText, engine.State().CurrentNode())
	assert.Equal(t, "TCK-2", engine.State().TargetID)

	engine.Respond(context.Background(), fctx, "Courier rebooked, sorry!")
	assert.Equal(t, nodeDone, engine.State().CurrentNode())

	assert.Equal(t, "Reprint on the way!", tickets[0].LastReply)
	assert.Equal(t, "Courier rebooked, sorry!", tickets[1].LastReply)
	assert.Equal(t, 1, updates["TCK-1"])
	assert.Equal(t, 1, updates["TCK-2"])
}

func TestStatusLoop_RejectsProcessedID(t *testing.T) {
	fctx, _ := newContext(sampleTickets()...)
	fctx.Selected = []string{"TCK-1", "TCK-2"}
	engine := newEngine()
	engine.Initial(context.Background(), fctx)
	engine.Respond(context.Background(), fctx, labelOneAtATime)
	engine.Respond(context.Background(), fctx, "TCK-2")

	turn := engine.Respond(context.Background(), fctx, "resolved")

	// One left: flow targets TCK-1 directly.
	assert.Contains(t, turn.Messages[0].Text, "✅ TCK-2: In Progress → Resolved")
	assert.Equal(t, nodeChooseStatus, engine.State().CurrentNode())
	assert.Equal(t, "TCK-1", engine.State().TargetID)
}
