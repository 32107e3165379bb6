package multiorders

import "github.com/printyhq/printy-assist/pkg/flow"

// Factory creates bulk order conversations for the flow registry.
type Factory struct{}

func NewFactory() *Factory {
	return &Factory{}
}

func (f *Factory) Create() flow.Flow {
	return New()
}

func (f *Factory) ID() string {
	return "multiple-orders"
}

func (f *Factory) Name() string {
	return "Multiple Orders"
}

func (f *Factory) Description() string {
	return "Work on a set of selected orders: bulk status changes and per-order quotes."
}
