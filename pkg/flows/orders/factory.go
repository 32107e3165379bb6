package orders

import "github.com/printyhq/printy-assist/pkg/flow"

// Factory creates single-order conversations for the flow registry.
type Factory struct{}

func NewFactory() *Factory {
	return &Factory{}
}

func (f *Factory) Create() flow.Flow {
	return New()
}

func (f *Factory) ID() string {
	return "orders"
}

func (f *Factory) Name() string {
	return "Orders"
}

func (f *Factory) Description() string {
	return "Work on a single order: view details, change status, create a quote or verify payment."
}
