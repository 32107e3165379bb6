// Package orders implements the single-order conversation: viewing details,
// changing status, creating quotes and verifying payments for one order.
package orders

import (
	"fmt"
	"strings"

	"github.com/printyhq/printy-assist/pkg/flow"
	"github.com/printyhq/printy-assist/pkg/models"
	"github.com/printyhq/printy-assist/pkg/textutil"
)

const (
	nodeAction        = "action"
	nodeChooseStatus  = "choose_status"
	nodeQuotePrice    = "quote_price"
	nodeQuoteDone     = "quote_done"
	nodeVerifyPayment = "verify_payment"
	nodeVerifyDone    = "verify_done"
)

const (
	labelViewDetails   = "View Details"
	labelChangeStatus  = "Change Status"
	labelCreateQuote   = "Create Quote"
	labelVerifyPayment = "Verify Payment"
	labelConfirm       = "Confirm Payment"
	labelDeny          = "Deny Payment"
	labelBack          = "Back to Actions"
)

type state struct {
	flow.NodeCursor

	TargetID string
	// PaymentHandled locks verify-payment per order so a replayed confirm or
	// deny cannot apply the status transition twice in one session.
	PaymentHandled map[string]bool
}

// New builds a fresh single-order conversation.
func New() flow.Flow {
	return newEngine()
}

func newEngine() *flow.Engine[*state] {
	return flow.NewEngine("orders", initState, nodes())
}

func initState(fctx *flow.Context) *state {
	s := &state{PaymentHandled: make(map[string]bool)}
	s.SetCurrentNode(nodeAction)

	for _, id := range fctx.Selected {
		if fctx.OrderByID(id) != nil {
			s.TargetID = id

			break
		}
	}

	if s.TargetID == "" && len(fctx.Orders) == 1 {
		s.TargetID = fctx.Orders[0].ID
	}

	return s
}

func matches(input, label string) bool {
	return strings.EqualFold(strings.TrimSpace(input), label)
}

func nodes() map[string]flow.Node[*state] {
	return map[string]flow.Node[*state]{
		nodeAction:        actionNode(),
		nodeChooseStatus:  chooseStatusNode(),
		nodeQuotePrice:    quotePriceNode(),
		nodeQuoteDone:     quoteDoneNode(),
		nodeVerifyPayment: verifyPaymentNode(),
		nodeVerifyDone:    verifyDoneNode(),
	}
}

func actionNode() flow.Node[*state] {
	return flow.Node[*state]{
		Messages: func(s *state, fctx *flow.Context) []models.BotMessage {
			if order := fctx.OrderByID(s.TargetID); order != nil {
				return models.PrintyAll(
					fmt.Sprintf("Hi! I'm Printy 🖨️. You're working on %s for %s (%s).", order.ID, order.Customer, order.Status),
					"What would you like to do?",
				)
			}

			return models.PrintyAll(
				"Hi! I'm Printy 🖨️. Which order are we working on?",
				"Send me the order ID (e.g., ORD-1001).",
			)
		},
		QuickReplies: func(s *state, fctx *flow.Context) []string {
			if fctx.OrderByID(s.TargetID) == nil {
				return []string{flow.EndChatLabel}
			}

			return []string{labelViewDetails, labelChangeStatus, labelCreateQuote, labelVerifyPayment, flow.EndChatLabel}
		},
		HandleInput: func(input string, s *state, fctx *flow.Context) *flow.Transition[*state] {
			if ids := textutil.ExtractIDs(models.KindOrder, input); len(ids) > 0 {
				if fctx.OrderByID(ids[0]) == nil {
					return &flow.Transition[*state]{
						Messages: models.PrintyAll(fmt.Sprintf("Order %s not found. Send me another ID or pick an option below.", ids[0])),
					}
				}

				return &flow.Transition[*state]{
					Update: func(s *state) { s.TargetID = ids[0] },
				}
			}

			order := fctx.OrderByID(s.TargetID)
			if order == nil {
				return nil
			}

			switch {
			case matches(input, labelViewDetails):
				return &flow.Transition[*state]{
					Messages: append(
						models.PrintyAll(orderSummary(order)),
						models.Printy("What would you like to do next?"),
					),
				}
			case matches(input, labelChangeStatus):
				return &flow.Transition[*state]{Next: nodeChooseStatus}
			case matches(input, labelCreateQuote):
				return &flow.Transition[*state]{Next: nodeQuotePrice}
			case matches(input, labelVerifyPayment):
				return &flow.Transition[*state]{Next: nodeVerifyPayment}
			default:
				return nil
			}
		},
	}
}

func orderSummary(order *models.Order) string {
	total := order.Total
	if total == "" {
		total = "no quote yet"
	}

	return fmt.Sprintf("%s — %s | %s | %s | %s", order.ID, order.Customer, order.Item, order.Status, total)
}

func chooseStatusNode() flow.Node[*state] {
	return flow.Node[*state]{
		Messages: func(s *state, fctx *flow.Context) []models.BotMessage {
			order := fctx.OrderByID(s.TargetID)
			if order == nil {
				return models.PrintyAll("Order not found.")
			}

			return models.PrintyAll(fmt.Sprintf("What should the new status for %s be? It's currently %s.", order.ID, order.Status))
		},
		QuickReplies: func(_ *state, _ *flow.Context) []string {
			return append(models.OrderStatuses(), flow.EndChatLabel)
		},
		HandleInput: func(input string, s *state, fctx *flow.Context) *flow.Transition[*state] {
			status, ok := textutil.NormalizeStatus(models.KindOrder, input)
			if !ok {
				return &flow.Transition[*state]{
					Messages: models.PrintyAll("Hmm, that's not a status I know. Pick one of the options below."),
				}
			}

			order := fctx.OrderByID(s.TargetID)
			if order == nil {
				return &flow.Transition[*state]{
					Next:     nodeAction,
					Messages: models.PrintyAll("Order not found. Let's start over."),
				}
			}

			previous := order.Status

			fctx.UpdateOrder(order.ID, models.OrderUpdate{Status: models.Ptr(status)})

			if fctx.RefreshOrders != nil {
				fctx.RefreshOrders()
			}

			return &flow.Transition[*state]{
				Next: nodeAction,
				Messages: models.PrintyAll(
					fmt.Sprintf("✅ %s: %s → %s", order.ID, previous, status),
					"Anything else for this order?",
				),
			}
		},
	}
}

func quotePriceNode() flow.Node[*state] {
	return flow.Node[*state]{
		Messages: func(s *state, _ *flow.Context) []models.BotMessage {
			return models.PrintyAll(fmt.Sprintf("How much should the quote for %s be? Just send me the amount.", s.TargetID))
		},
		QuickReplies: func(_ *state, _ *flow.Context) []string {
			return []string{flow.EndChatLabel}
		},
		HandleInput: func(input string, s *state, fctx *flow.Context) *flow.Transition[*state] {
			price, ok := textutil.FormatPeso(input)
			if !ok {
				return &flow.Transition[*state]{
					Messages: models.PrintyAll("I couldn't read that as an amount. Try something like 1500 or ₱1,500.00."),
				}
			}

			order := fctx.OrderByID(s.TargetID)
			if order == nil {
				return &flow.Transition[*state]{
					Next:     nodeAction,
					Messages: models.PrintyAll("Order not found. Let's start over."),
				}
			}

			// A freshly quoted order always goes back to Pending: the quote
			// awaits customer confirmation no matter what the status was.
			fctx.UpdateOrder(order.ID, models.OrderUpdate{
				Status: models.Ptr(models.OrderStatusPending),
				Total:  models.Ptr(price),
			})

			if fctx.RefreshOrders != nil {
				fctx.RefreshOrders()
			}

			return &flow.Transition[*state]{
				Next: nodeQuoteDone,
				Messages: models.PrintyAll(
					fmt.Sprintf("📝 Quote for %s set to %s.", order.ID, price),
					fmt.Sprintf("%s is now %s.", order.ID, models.OrderStatusPending),
				),
			}
		},
	}
}

func quoteDoneNode() flow.Node[*state] {
	return flow.Node[*state]{
		Messages: func(_ *state, _ *flow.Context) []models.BotMessage {
			return models.PrintyAll("Quote saved. Anything else for this order?")
		},
		QuickReplies: func(_ *state, _ *flow.Context) []string {
			return []string{labelBack, flow.EndChatLabel}
		},
		HandleInput: func(input string, _ *state, _ *flow.Context) *flow.Transition[*state] {
			if matches(input, labelBack) {
				return &flow.Transition[*state]{Next: nodeAction}
			}

			return nil
		},
	}
}

func verifyPaymentNode() flow.Node[*state] {
	return flow.Node[*state]{
		Messages: func(s *state, fctx *flow.Context) []models.BotMessage {
			order := fctx.OrderByID(s.TargetID)
			if order == nil {
				return models.PrintyAll("Order not found.")
			}

			return models.PrintyAll(fmt.Sprintf("Verify payment for %s (currently %s). Confirm or deny?", order.ID, order.Status))
		},
		QuickReplies: func(_ *state, _ *flow.Context) []string {
			return []string{labelConfirm, labelDeny, labelBack, flow.EndChatLabel}
		},
		HandleInput: func(input string, s *state, fctx *flow.Context) *flow.Transition[*state] {
			if matches(input, labelBack) {
				return &flow.Transition[*state]{Next: nodeAction}
			}

			confirmed := matches(input, labelConfirm)
			if !confirmed && !matches(input, labelDeny) {
				return nil
			}

			order := fctx.OrderByID(s.TargetID)
			if order == nil {
				return &flow.Transition[*state]{
					Next:     nodeAction,
					Messages: models.PrintyAll("Order not found. Let's start over."),
				}
			}

			if s.PaymentHandled[order.ID] {
				return &flow.Transition[*state]{
					Next:     nodeVerifyDone,
					Messages: models.PrintyAll(fmt.Sprintf("Payment for %s was already handled this session.", order.ID)),
				}
			}

			next := models.OrderStatusForDelivery
			verdict := "confirmed"

			if !confirmed {
				next = models.OrderStatusAwaitingPayment
				verdict = "denied"
			}

			previous := order.Status

			fctx.UpdateOrder(order.ID, models.OrderUpdate{Status: models.Ptr(next)})

			if fctx.RefreshOrders != nil {
				fctx.RefreshOrders()
			}

			return &flow.Transition[*state]{
				Next: nodeVerifyDone,
				Update: func(s *state) {
					s.PaymentHandled[order.ID] = true
				},
				Messages: models.PrintyAll(
					fmt.Sprintf("✅ Payment %s for %s: %s → %s", verdict, order.ID, previous, next),
				),
			}
		},
	}
}

func verifyDoneNode() flow.Node[*state] {
	return flow.Node[*state]{
		Messages: func(_ *state, _ *flow.Context) []models.BotMessage {
			return models.PrintyAll("Anything else for this order?")
		},
		QuickReplies: func(_ *state, _ *flow.Context) []string {
			return []string{labelBack, flow.EndChatLabel}
		},
		HandleInput: func(input string, _ *state, _ *flow.Context) *flow.Transition[*state] {
			if matches(input, labelBack) {
				return &flow.Transition[*state]{Next: nodeAction}
			}

			return nil
		},
	}
}
