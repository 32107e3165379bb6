// Package dispatcher routes incoming conversations to a concrete flow, either
// from an explicit topic string or by probing a raw text command.
package dispatcher

import (
	"log/slog"
	"strings"

	"github.com/printyhq/printy-assist/pkg/flow"
	"github.com/printyhq/printy-assist/pkg/models"
	"github.com/printyhq/printy-assist/pkg/registry"
	"github.com/printyhq/printy-assist/pkg/textutil"
)

type Dispatcher struct {
	logger   *slog.Logger
	registry *registry.Registry
}

func NewDispatcher(log *slog.Logger, reg *registry.Registry) *Dispatcher {
	return &Dispatcher{
		logger:   log.With("module", "dispatcher"),
		registry: reg,
	}
}

// topicRoutes is checked in order: the more specific bulk and add-service
// topics must win over the generic singular substrings they contain.
var topicRoutes = []struct {
	substrings []string
	flowType   string
}{
	{[]string{"add-service", "add service"}, "add-service"},
	{[]string{"multiple-tickets", "multi-tickets"}, "multiple-tickets"},
	{[]string{"multiple-portfolio", "multi-portfolio"}, "multiple-portfolio"},
	{[]string{"multiple-orders", "multi", "bulk"}, "multiple-orders"},
	{[]string{"ticket"}, "tickets"},
	{[]string{"portfolio", "service"}, "portfolio"},
	{[]string{"order"}, "orders"},
	{[]string{"about"}, "about"},
	{[]string{"faq"}, "faq"},
}

// ResolveTopic maps an explicit topic string to a fresh flow instance.
func (d *Dispatcher) ResolveTopic(topic string) (flow.Flow, error) {
	lowered := strings.ToLower(topic)

	for _, route := range topicRoutes {
		for _, substring := range route.substrings {
			if strings.Contains(lowered, substring) {
				d.logger.Debug("Resolved topic", "topic", topic, "flow", route.flowType)

				return d.registry.CreateFlow(route.flowType)
			}
		}
	}

	d.logger.Debug("Unrecognized topic, falling back to FAQ", "topic", topic)

	return d.registry.CreateFlow("faq")
}

// Probe infers a flow from a raw text command: the domain comes from keyword
// presence or from the ID patterns in the text, and two or more IDs of the
// domain route to the bulk flow. The extracted IDs are returned so the caller
// can seed Context.Selected.
func (d *Dispatcher) Probe(text string) (flow.Flow, []string, error) {
	lowered := strings.ToLower(text)

	kind, ok := probeKind(lowered, text)
	if !ok {
		d.logger.Debug("Probe found no domain, falling back to FAQ", "text", text)

		f, err := d.registry.CreateFlow("faq")

		return f, nil, err
	}

	ids := textutil.ExtractIDs(kind, text)

	flowType := singularFlow(kind)
	if len(ids) >= 2 {
		flowType = bulkFlow(kind)
	}

	d.logger.Debug("Probe resolved flow", "flow", flowType, "ids", len(ids))

	f, err := d.registry.CreateFlow(flowType)

	return f, ids, err
}

func probeKind(lowered, raw string) (models.EntityKind, bool) {
	switch {
	case strings.Contains(lowered, "order"):
		return models.KindOrder, true
	case strings.Contains(lowered, "ticket"):
		return models.KindTicket, true
	case strings.Contains(lowered, "service"), strings.Contains(lowered, "portfolio"):
		return models.KindService, true
	}

	// No keyword: fall back to whichever ID pattern appears.
	for _, kind := range []models.EntityKind{models.KindOrder, models.KindTicket, models.KindService} {
		if len(textutil.ExtractIDs(kind, raw)) > 0 {
			return kind, true
		}
	}

	return "", false
}

func singularFlow(kind models.EntityKind) string {
	switch kind {
	case models.KindOrder:
		return "orders"
	case models.KindTicket:
		return "tickets"
	default:
		return "portfolio"
	}
}

func bulkFlow(kind models.EntityKind) string {
	switch kind {
	case models.KindOrder:
		return "multiple-orders"
	case models.KindTicket:
		return "multiple-tickets"
	default:
		return "multiple-portfolio"
	}
}
