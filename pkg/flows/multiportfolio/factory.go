package multiportfolio

import "github.com/printyhq/printy-assist/pkg/flow"

// Factory creates bulk service conversations for the flow registry.
type Factory struct{}

func NewFactory() *Factory {
	return &Factory{}
}

func (f *Factory) Create() flow.Flow {
	return New()
}

func (f *Factory) ID() string {
	return "multiple-portfolio"
}

func (f *Factory) Name() string {
	return "Multiple Portfolio"
}

func (f *Factory) Description() string {
	return "Work on a set of selected services: bulk or per-service status changes."
}
