package registry

import (
	"log/slog"

	"github.com/printyhq/printy-assist/pkg/flows/addservice"
	"github.com/printyhq/printy-assist/pkg/flows/faq"
	"github.com/printyhq/printy-assist/pkg/flows/multiorders"
	"github.com/printyhq/printy-assist/pkg/flows/multiportfolio"
	"github.com/printyhq/printy-assist/pkg/flows/multitickets"
	"github.com/printyhq/printy-assist/pkg/flows/orders"
	"github.com/printyhq/printy-assist/pkg/flows/portfolio"
	"github.com/printyhq/printy-assist/pkg/flows/tickets"
)

// Default returns a registry with every built-in conversation flow registered.
func Default(log *slog.Logger) *Registry {
	r := NewRegistry(log)

	r.RegisterFlow(orders.NewFactory())
	r.RegisterFlow(multiorders.NewFactory())
	r.RegisterFlow(tickets.NewFactory())
	r.RegisterFlow(multitickets.NewFactory())
	r.RegisterFlow(portfolio.NewFactory())
	r.RegisterFlow(multiportfolio.NewFactory())
	r.RegisterFlow(addservice.NewFactory())
	r.RegisterFlow(faq.NewAboutFactory())
	r.RegisterFlow(faq.NewFAQFactory())

	return r
}
