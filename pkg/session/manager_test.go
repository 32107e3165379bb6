package session

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/printyhq/printy-assist/pkg/dispatcher"
	"github.com/printyhq/printy-assist/pkg/models"
	"github.com/printyhq/printy-assist/pkg/persistence/memory"
	"github.com/printyhq/printy-assist/pkg/registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newManager(t *testing.T, ttl time.Duration) (*Manager, *memory.Persistence) {
	t.Helper()

	store := memory.NewPersistence()
	store.Seed(
		[]*models.Order{
			{ID: "ORD-1001", Customer: "Alice", Item: "500 flyers", Status: models.OrderStatusPending},
			{ID: "ORD-1002", Customer: "Bob", Item: "20 mugs", Status: models.OrderStatusAwaitingPayment},
		},
		[]*models.Ticket{
			{ID: "TCK-1", Customer: "Dana", Subject: "Smudged print", Status: models.TicketStatusOpen},
		},
		[]*models.Service{
			{ID: "SRV-MUG1", Name: "Mug Printing", Category: "Giftware", Status: models.ServiceStatusActive},
		},
	)

	logger := slog.Default()
	disp := dispatcher.NewDispatcher(logger, registry.Default(logger))
	manager := NewManager(logger, store, nil, disp, NewMemoryHistory(), ttl)
	t.Cleanup(func() { _ = manager.Close() })

	return manager, store
}

func TestOpenAndSend(t *testing.T) {
	ctx := context.Background()
	manager, store := newManager(t, time.Hour)

	result, err := manager.Open(ctx, "orders", "", []string{"ORD-1001"})
	require.NoError(t, err)
	assert.Equal(t, "orders", result.FlowID)
	assert.NotEmpty(t, result.SessionID)
	assert.NotEmpty(t, result.Messages)
	assert.Equal(t, 1, manager.ActiveSessions())

	turn, err := manager.Send(ctx, result.SessionID, "Change Status")
	require.NoError(t, err)
	require.NotEmpty(t, turn.Messages)

	turn, err = manager.Send(ctx, result.SessionID, "Completed")
	require.NoError(t, err)
	assert.Contains(t, turn.Messages[0].Text, "ORD-1001")

	// The mutation went through the store, not just the snapshot.
	order, err := store.OrderByID(ctx, "ORD-1001")
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusCompleted, order.Status)
}

func TestOpenByProbeSeedsSelection(t *testing.T) {
	ctx := context.Background()
	manager, _ := newManager(t, time.Hour)

	result, err := manager.Open(ctx, "", "update ORD-1001 and ORD-1002", nil)
	require.NoError(t, err)

	assert.Equal(t, "multiple-orders", result.FlowID)
	assert.Contains(t, result.Messages[0].Text, "2 orders")
}

func TestSendUnknownSession(t *testing.T) {
	manager, _ := newManager(t, time.Hour)

	_, err := manager.Send(context.Background(), "no-such-session", "hello")

	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestEndChatClosesSession(t *testing.T) {
	ctx := context.Background()
	manager, _ := newManager(t, time.Hour)

	result, err := manager.Open(ctx, "faq", "", nil)
	require.NoError(t, err)

	turn, err := manager.Send(ctx, result.SessionID, "end chat")
	require.NoError(t, err)
	assert.Equal(t, "Thanks! Chat ended.", turn.Messages[0].Text)
	assert.Equal(t, 0, manager.ActiveSessions())

	_, err = manager.Send(ctx, result.SessionID, "hello again")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestTranscriptRecordsBothRoles(t *testing.T) {
	ctx := context.Background()
	manager, _ := newManager(t, time.Hour)

	result, err := manager.Open(ctx, "tickets", "", []string{"TCK-1"})
	require.NoError(t, err)

	_, err = manager.Send(ctx, result.SessionID, "Reply")
	require.NoError(t, err)

	transcript, err := manager.Transcript(ctx, result.SessionID)
	require.NoError(t, err)
	require.NotEmpty(t, transcript)

	roles := make(map[string]bool)
	for _, entry := range transcript {
		roles[entry.Role] = true
	}

	assert.True(t, roles[models.BotRole])
	assert.True(t, roles[models.UserRole])
}

func TestSweepIdle(t *testing.T) {
	ctx := context.Background()
	manager, _ := newManager(t, time.Millisecond)

	_, err := manager.Open(ctx, "faq", "", nil)
	require.NoError(t, err)
	require.Equal(t, 1, manager.ActiveSessions())

	time.Sleep(5 * time.Millisecond)
	manager.SweepIdle(ctx)

	assert.Equal(t, 0, manager.ActiveSessions())
}

func TestSessionsAreIsolated(t *testing.T) {
	ctx := context.Background()
	manager, _ := newManager(t, time.Hour)

	first, err := manager.Open(ctx, "orders", "", []string{"ORD-1001"})
	require.NoError(t, err)

	second, err := manager.Open(ctx, "orders", "", []string{"ORD-1002"})
	require.NoError(t, err)

	// Advancing one conversation must not disturb the other.
	_, err = manager.Send(ctx, first.SessionID, "Change Status")
	require.NoError(t, err)

	turn, err := manager.Send(ctx, second.SessionID, "View Details")
	require.NoError(t, err)
	assert.Contains(t, turn.Messages[0].Text, "ORD-1002")
}
