// Package registry keeps the catalog of conversation flow factories keyed by
// flow type. The dispatcher resolves topics through it; every resolution
// produces a fresh flow instance.
package registry

import (
	"fmt"
	"log/slog"

	"github.com/printyhq/printy-assist/pkg/flow"
)

type Registry struct {
	logger        *slog.Logger
	flowFactories map[string]flow.Factory
}

func NewRegistry(log *slog.Logger) *Registry {
	return &Registry{
		logger:        log,
		flowFactories: make(map[string]flow.Factory),
	}
}

func (r *Registry) RegisterFlow(factory flow.Factory) {
	r.flowFactories[factory.ID()] = factory

	r.logger.Debug("Registered flow", slog.String("flow", factory.ID()))
}

func (r *Registry) CreateFlow(flowType string) (flow.Flow, error) {
	factory, ok := r.flowFactories[flowType]
	if !ok {
		return nil, fmt.Errorf("flow type '%s' not registered", flowType)
	}

	return factory.Create(), nil
}

// AvailableFlows returns the registered flow types.
func (r *Registry) AvailableFlows() []string {
	types := make([]string, 0, len(r.flowFactories))
	for flowType := range r.flowFactories {
		types = append(types, flowType)
	}

	return types
}

func (r *Registry) IsFlowRegistered(flowType string) bool {
	_, exists := r.flowFactories[flowType]

	return exists
}
