package multiorders

import (
	"context"
	"testing"

	"github.com/printyhq/printy-assist/pkg/flow"
	"github.com/printyhq/printy-assist/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type harness struct {
	fctx    *flow.Context
	updates map[string]int
}

func newHarness(orders ...*models.Order) *harness {
	h := &harness{updates: make(map[string]int)}
	h.fctx = &flow.Context{
		Orders: orders,
		UpdateOrder: func(id string, update models.OrderUpdate) {
			h.updates[id]++

			for _, o := range orders {
				if o.ID != id {
					continue
				}

				if update.Status != nil {
					o.Status = *update.Status
				}

				if update.Total != nil {
					o.Total = *update.Total
				}
			}
		},
	}

	return h
}

func threeOrders() []*models.Order {
	return []*models.Order{
		{ID: "ORD-1", Customer: "Alice", Status: models.OrderStatusPending, Total: "₱500.00"},
		{ID: "ORD-2", Customer: "Bob", Status: models.OrderStatusAwaitingPayment},
		{ID: "ORD-3", Customer: "Cara", Status: models.OrderStatusPending},
	}
}

func TestInitial_ListsSelection(t *testing.T) {
	h := newHarness(threeOrders()...)
	h.fctx.Selected = []string{"ORD-1", "ORD-2", "ORD-2", "ORD-99"}
	engine := newEngine()

	messages := engine.Initial(context.Background(), h.fctx)

	// Duplicates and unknown ids are dropped at seeding time.
	assert.Equal(t, []string{"ORD-1", "ORD-2"}, engine.State().Selected)
	require.Len(t, messages, 3)
	assert.Contains(t, messages[0].Text, "2 orders")
	assert.Contains(t, messages[1].Text, "ORD-1")
	assert.Contains(t, messages[1].Text, "ORD-2")
	assert.Equal(t, []string{labelBulkStatus, labelOneAtATime, labelQuotes, flow.EndChatLabel}, engine.QuickReplies())
}

func TestBulkStatus_AppliesToAll(t *testing.T) {
	h := newHarness(threeOrders()...)
	h.fctx.Selected = []string{"ORD-1", "ORD-2", "ORD-3"}
	engine := newEngine()
	engine.Initial(context.Background(), h.fctx)

	engine.Respond(context.Background(), h.fctx, labelBulkStatus)
	turn := engine.Respond(context.Background(), h.fctx, "Completed")

	for _, id := range []string{"ORD-1", "ORD-2", "ORD-3"} {
		assert.Equal(t, 1, h.updates[id])
	}

	assert.Equal(t, nodeDone, engine.State().CurrentNode())
	assert.Contains(t, turn.Messages[0].Text, "✅ ORD-1: Pending → Completed")
	assert.Contains(t, turn.Messages[0].Text, "✅ ORD-2: Awaiting Payment → Completed")
}

// The walkthrough scenario: two selected orders, one-at-a-time status change.
// The picker is shown once; when exactly one order remains the flow advances
// straight to its status node.
func TestOneAtATime_TwoOrders(t *testing.T) {
	h := newHarness(threeOrders()...)
	h.fctx.Selected = []string{"ORD-1", "ORD-2"}
	engine := newEngine()
	engine.Initial(context.Background(), h.fctx)

	turn := engine.Respond(context.Background(), h.fctx, labelOneAtATime)
	assert.Equal(t, nodeChooseID, engine.State().CurrentNode())
	assert.Equal(t, []string{"ORD-1", "ORD-2", flow.EndChatLabel}, turn.QuickReplies)

	turn = engine.Respond(context.Background(), h.fctx, "ORD-1")
	assert.Equal(t, nodeChooseStatus, engine.State().CurrentNode())
	assert.Equal(t, "ORD-1", engine.State().TargetID)

	turn = engine.Respond(context.Background(), h.fctx, "Completed")
	assert.Equal(t, "✅ ORD-1: Pending → Completed", turn.Messages[0].Text)
	// Exactly one remaining: picker is skipped, ORD-2 is targeted directly.
	assert.Equal(t, nodeChooseStatus, engine.State().CurrentNode())
	assert.Equal(t, "ORD-2", engine.State().TargetID)
	assert.Equal(t, append(models.OrderStatuses(), flow.EndChatLabel), turn.QuickReplies)

	turn = engine.Respond(context.Background(), h.fctx, "Completed")
	assert.Equal(t, nodeDone, engine.State().CurrentNode())
	assert.Contains(t, turn.Messages[0].Text, "✅ ORD-2: Awaiting Payment → Completed")

	assert.Equal(t, 1, h.updates["ORD-1"])
	assert.Equal(t, 1, h.updates["ORD-2"])
}

// Bulk loop termination: N selected ids means N field-entry turns and N-1
// picker visits, never revisiting a processed id.
func TestOneAtATime_TerminationOverThree(t *testing.T) {
	h := newHarness(threeOrders()...)
	h.fctx.Selected = []string{"ORD-1", "ORD-2", "ORD-3"}
	engine := newEngine()
	engine.Initial(context.Background(), h.fctx)
	engine.Respond(context.Background(), h.fctx, labelOneAtATime)

	pickerVisits := 0
	fieldTurns := 0

	for engine.State().CurrentNode() != nodeDone {
		switch engine.State().CurrentNode() {
		case nodeChooseID:
			pickerVisits++
			engine.Respond(context.Background(), h.fctx, engine.State().remaining()[0])
		case nodeChooseStatus:
			fieldTurns++
			engine.Respond(context.Background(), h.fctx, "Completed")
		default:
			t.Fatalf("unexpected node %s", engine.State().CurrentNode())
		}
	}

	assert.Equal(t, 3, fieldTurns)
	assert.Equal(t, 2, pickerVisits)

	for _, id := range []string{"ORD-1", "ORD-2", "ORD-3"} {
		assert.Equal(t, 1, h.updates[id])
	}
}

func TestChooseID_RejectsProcessedAndUnselected(t *testing.T) {
	h := newHarness(threeOrders()...)
	h.fctx.Selected = []string{"ORD-1", "ORD-2", "ORD-3"}
	engine := newEngine()
	engine.Initial(context.Background(), h.fctx)
	engine.Respond(context.Background(), h.fctx, labelOneAtATime)
	engine.Respond(context.Background(), h.fctx, "ORD-1")
	engine.Respond(context.Background(), h.fctx, "Completed")

	require.Equal(t, nodeChooseID, engine.State().CurrentNode())

	turn := engine.Respond(context.Background(), h.fctx, "ORD-1")
	assert.Contains(t, turn.Messages[0].Text, "already done")
	assert.Equal(t, nodeChooseID, engine.State().CurrentNode())

	turn = engine.Respond(context.Background(), h.fctx, "ORD-99")
	assert.Contains(t, turn.Messages[0].Text, "isn't part of this selection")
	assert.Equal(t, nodeChooseID, engine.State().CurrentNode())
}

func TestQuotes_LoopForcesPending(t *testing.T) {
	orders := threeOrders()
	orders[0].Status = models.OrderStatusCompleted
	h := newHarness(orders...)
	h.fctx.Selected = []string{"ORD-1", "ORD-2"}
	engine := newEngine()
	engine.Initial(context.Background(), h.fctx)

	engine.Respond(context.Background(), h.fctx, labelQuotes)
	require.Equal(t, nodeQuoteChooseID, engine.State().CurrentNode())

	engine.Respond(context.Background(), h.fctx, "ORD-1")
	require.Equal(t, nodeQuotePrice, engine.State().CurrentNode())

	turn := engine.Respond(context.Background(), h.fctx, "2500")
	assert.Contains(t, turn.Messages[0].Text, "₱2,500.00")
	// One left: straight to its price prompt.
	assert.Equal(t, nodeQuotePrice, engine.State().CurrentNode())
	assert.Equal(t, "ORD-2", engine.State().TargetID)

	engine.Respond(context.Background(), h.fctx, "99")
	assert.Equal(t, nodeDone, engine.State().CurrentNode())

	for _, o := range orders[:2] {
		assert.Equal(t, models.OrderStatusPending, o.Status, "order %s", o.ID)
	}

	assert.Equal(t, "₱2,500.00", orders[0].Total)
	assert.Equal(t, "₱99.00", orders[1].Total)
}

func TestSingleSelection_SkipsPickerFromStart(t *testing.T) {
	h := newHarness(threeOrders()...)
	h.fctx.Selected = []string{"ORD-2"}
	engine := newEngine()
	engine.Initial(context.Background(), h.fctx)

	engine.Respond(context.Background(), h.fctx, labelOneAtATime)

	assert.Equal(t, nodeChooseStatus, engine.State().CurrentNode())
	assert.Equal(t, "ORD-2", engine.State().TargetID)
}

func TestDone_FallsBackOnInput(t *testing.T) {
	h := newHarness(threeOrders()...)
	h.fctx.Selected = []string{"ORD-1"}
	engine := newEngine()
	engine.Initial(context.Background(), h.fctx)
	engine.Respond(context.Background(), h.fctx, labelOneAtATime)
	engine.Respond(context.Background(), h.fctx, "Completed")

	require.Equal(t, nodeDone, engine.State().CurrentNode())

	turn := engine.Respond(context.Background(), h.fctx, "more please")
	assert.Equal(t, "Please use the options below.", turn.Messages[0].Text)
	assert.Equal(t, []string{flow.EndChatLabel}, turn.QuickReplies)
}
