package dispatcher

import (
	"log/slog"
	"testing"

	"github.com/printyhq/printy-assist/pkg/registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDispatcher() *Dispatcher {
	return NewDispatcher(slog.Default(), registry.Default(slog.Default()))
}

func TestResolveTopic(t *testing.T) {
	tests := []struct {
		topic string
		want  string
	}{
		{"orders", "orders"},
		{"Order Help", "orders"},
		{"multiple-orders", "multiple-orders"},
		{"bulk update", "multiple-orders"},
		{"ticket", "tickets"},
		{"multi-tickets", "multiple-tickets"},
		{"portfolio", "portfolio"},
		{"service status", "portfolio"},
		{"multiple-portfolio", "multiple-portfolio"},
		{"add-service", "add-service"},
		{"add service", "add-service"},
		{"about", "about"},
		{"faq", "faq"},
		// Unrecognized topics land on the FAQ.
		{"weather", "faq"},
	}

	d := newDispatcher()

	for _, tt := range tests {
		f, err := d.ResolveTopic(tt.topic)

		require.NoError(t, err, tt.topic)
		assert.Equal(t, tt.want, f.ID(), tt.topic)
	}
}

func TestResolveTopicSpecificBeatsGeneric(t *testing.T) {
	d := newDispatcher()

	// "multiple-orders" contains "order"; the bulk route must win.
	f, err := d.ResolveTopic("multiple-orders")
	require.NoError(t, err)
	assert.Equal(t, "multiple-orders", f.ID())

	// "add-service" contains "service"; the wizard must win over portfolio.
	f, err = d.ResolveTopic("add-service")
	require.NoError(t, err)
	assert.Equal(t, "add-service", f.ID())
}

func TestProbeSingleOrder(t *testing.T) {
	d := newDispatcher()

	f, ids, err := d.Probe("check order ORD-1001 please")

	require.NoError(t, err)
	assert.Equal(t, "orders", f.ID())
	assert.Equal(t, []string{"ORD-1001"}, ids)
}

func TestProbeBulkByIDCount(t *testing.T) {
	d := newDispatcher()

	f, ids, err := d.Probe("update ORD-1001 and ORD-1002")

	require.NoError(t, err)
	assert.Equal(t, "multiple-orders", f.ID())
	assert.Equal(t, []string{"ORD-1001", "ORD-1002"}, ids)
}

func TestProbeInfersKindFromIDs(t *testing.T) {
	d := newDispatcher()

	f, ids, err := d.Probe("TCK-31 and TCK-32 need replies")

	require.NoError(t, err)
	assert.Equal(t, "multiple-tickets", f.ID())
	assert.Len(t, ids, 2)
}

func TestProbeServiceKeyword(t *testing.T) {
	d := newDispatcher()

	f, ids, err := d.Probe("rename service SRV-MUG1")

	require.NoError(t, err)
	assert.Equal(t, "portfolio", f.ID())
	assert.Equal(t, []string{"SRV-MUG1"}, ids)
}

func TestProbeNoDomainFallsBackToFAQ(t *testing.T) {
	d := newDispatcher()

	f, ids, err := d.Probe("hello there")

	require.NoError(t, err)
	assert.Equal(t, "faq", f.ID())
	assert.Empty(t, ids)
}
