package eventbus

import (
	"context"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/printyhq/printy-assist/pkg/channels/gochannel"
	"github.com/printyhq/printy-assist/pkg/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBus(t *testing.T) EventBus {
	t.Helper()

	pub, sub, err := gochannel.CreateTestChannel(watermill.NopLogger{})
	require.NoError(t, err)

	bus := NewWatermillEventBus(pub, sub)
	t.Cleanup(func() { _ = bus.Close() })

	return bus
}

func TestPublishAndHandle(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	bus := newBus(t)
	received := make(chan *events.OrderUpdated, 1)

	err := bus.Handle(events.OrderUpdatedEvent, func(_ context.Context, event interface{}) error {
		updated, ok := event.(*events.OrderUpdated)
		require.True(t, ok)

		received <- updated

		return nil
	})
	require.NoError(t, err)
	require.NoError(t, bus.Subscribe(ctx))

	event := events.OrderUpdated{
		BaseEvent:      events.NewBaseEvent(events.OrderUpdatedEvent, "session-1"),
		OrderID:        "ORD-1001",
		PreviousStatus: "Pending",
		Status:         "Completed",
	}
	require.NoError(t, bus.Publish(ctx, "ORD-1001", event))

	select {
	case updated := <-received:
		assert.Equal(t, "ORD-1001", updated.OrderID)
		assert.Equal(t, "Completed", updated.Status)
		assert.Equal(t, "session-1", updated.SessionID)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for event")
	}
}

func TestUnhandledEventTypeIsAcked(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	bus := newBus(t)
	require.NoError(t, bus.Subscribe(ctx))

	// No handler registered for session events: publish must still succeed.
	event := events.SessionStarted{
		BaseEvent: events.NewBaseEvent(events.SessionStartedEvent, "session-2"),
		FlowID:    "orders",
	}
	assert.NoError(t, bus.Publish(ctx, "session-2", event))
}

func TestGenerateID(t *testing.T) {
	bus := newBus(t)

	assert.NotEmpty(t, bus.GenerateID())
	assert.NotEqual(t, bus.GenerateID(), bus.GenerateID())
}
