package tickets

import "github.com/printyhq/printy-assist/pkg/flow"

// Factory creates single-ticket conversations for the flow registry.
type Factory struct{}

func NewFactory() *Factory {
	return &Factory{}
}

func (f *Factory) Create() flow.Flow {
	return New()
}

func (f *Factory) ID() string {
	return "tickets"
}

func (f *Factory) Name() string {
	return "Tickets"
}

func (f *Factory) Description() string {
	return "Work on a single support ticket: send a reply or change its status."
}
