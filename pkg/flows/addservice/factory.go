package addservice

import "github.com/printyhq/printy-assist/pkg/flow"

// Factory creates service-creation conversations for the flow registry.
type Factory struct{}

func NewFactory() *Factory {
	return &Factory{}
}

func (f *Factory) Create() flow.Flow {
	return New()
}

func (f *Factory) ID() string {
	return "add-service"
}

func (f *Factory) Name() string {
	return "Add Service"
}

func (f *Factory) Description() string {
	return "Guided wizard that adds a new service to the portfolio."
}
