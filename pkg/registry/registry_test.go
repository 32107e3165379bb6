package registry

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateFlow(t *testing.T) {
	r := Default(slog.Default())

	f, err := r.CreateFlow("orders")

	require.NoError(t, err)
	assert.Equal(t, "orders", f.ID())
}

func TestCreateFlowReturnsFreshInstances(t *testing.T) {
	r := Default(slog.Default())

	first, err := r.CreateFlow("add-service")
	require.NoError(t, err)

	second, err := r.CreateFlow("add-service")
	require.NoError(t, err)

	assert.NotSame(t, first, second)
}

func TestCreateFlowUnknownType(t *testing.T) {
	r := NewRegistry(slog.Default())

	_, err := r.CreateFlow("refunds")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "flow type 'refunds' not registered")
}

func TestDefaultRegistersAllFlows(t *testing.T) {
	r := Default(slog.Default())

	for _, flowType := range []string{
		"orders", "multiple-orders",
		"tickets", "multiple-tickets",
		"portfolio", "multiple-portfolio",
		"add-service", "about", "faq",
	} {
		assert.True(t, r.IsFlowRegistered(flowType), flowType)
	}

	assert.Len(t, r.AvailableFlows(), 9)
}
