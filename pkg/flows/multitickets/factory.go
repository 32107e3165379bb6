package multitickets

import "github.com/printyhq/printy-assist/pkg/flow"

// Factory creates bulk ticket conversations for the flow registry.
type Factory struct{}

func NewFactory() *Factory {
	return &Factory{}
}

func (f *Factory) Create() flow.Flow {
	return New()
}

func (f *Factory) ID() string {
	return "multiple-tickets"
}

func (f *Factory) Name() string {
	return "Multiple Tickets"
}

func (f *Factory) Description() string {
	return "Work on a set of selected tickets: bulk status changes and per-ticket replies."
}
