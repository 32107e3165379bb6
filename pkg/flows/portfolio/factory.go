package portfolio

import "github.com/printyhq/printy-assist/pkg/flow"

// Factory creates single-service conversations for the flow registry.
type Factory struct{}

func NewFactory() *Factory {
	return &Factory{}
}

func (f *Factory) Create() flow.Flow {
	return New()
}

func (f *Factory) ID() string {
	return "portfolio"
}

func (f *Factory) Name() string {
	return "Portfolio"
}

func (f *Factory) Description() string {
	return "Edit a single portfolio service: name, category, status or move between categories."
}
