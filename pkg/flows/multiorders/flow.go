// Package multiorders implements the bulk order conversation: apply one
// status to every selected order, or walk the selection one order at a time
// for status changes and quote creation.
package multiorders

import (
	"fmt"
	"strings"

	"github.com/printyhq/printy-assist/pkg/flow"
	"github.com/printyhq/printy-assist/pkg/models"
	"github.com/printyhq/printy-assist/pkg/textutil"
)

const (
	nodeStart         = "multi_start"
	nodeBulkStatus    = "choose_bulk_status"
	nodeChooseID      = "choose_id"
	nodeChooseStatus  = "choose_status"
	nodeQuoteChooseID = "quote_choose_id"
	nodeQuotePrice    = "quote_price"
	nodeDone          = "done"
)

const (
	labelBulkStatus = "Change Status for All"
	labelOneAtATime = "One at a Time"
	labelQuotes     = "Create Quotes"
)

type state struct {
	flow.NodeCursor

	Selected  []string
	Processed map[string]bool
	TargetID  string
}

// New builds a fresh bulk-order conversation.
func New() flow.Flow {
	return newEngine()
}

func newEngine() *flow.Engine[*state] {
	return flow.NewEngine("multiple-orders", initState, nodes())
}

func initState(fctx *flow.Context) *state {
	s := &state{Processed: make(map[string]bool)}
	s.SetCurrentNode(nodeStart)

	seen := make(map[string]bool)

	for _, id := range fctx.Selected {
		if seen[id] || fctx.OrderByID(id) == nil {
			continue
		}

		seen[id] = true

		s.Selected = append(s.Selected, id)
	}

	return s
}

// remaining is the selection minus everything already processed, in selection
// order.
func (s *state) remaining() []string {
	ids := make([]string, 0, len(s.Selected))

	for _, id := range s.Selected {
		if !s.Processed[id] {
			ids = append(ids, id)
		}
	}

	return ids
}

func matches(input, label string) bool {
	return strings.EqualFold(strings.TrimSpace(input), label)
}

func summaryLines(fctx *flow.Context, ids []string) string {
	lines := make([]string, 0, len(ids))

	for _, id := range ids {
		order := fctx.OrderByID(id)
		if order == nil {
			lines = append(lines, fmt.Sprintf("• %s — not found", id))

			continue
		}

		total := order.Total
		if total == "" {
			total = "no quote"
		}

		lines = append(lines, fmt.Sprintf("• %s — %s (%s, %s)", order.ID, order.Customer, order.Status, total))
	}

	return strings.Join(lines, "\n")
}

func nodes() map[string]flow.Node[*state] {
	return map[string]flow.Node[*state]{
		nodeStart:         startNode(),
		nodeBulkStatus:    bulkStatusNode(),
		nodeChooseID:      chooseIDNode(nodeChooseStatus, "update"),
		nodeChooseStatus:  chooseStatusNode(),
		nodeQuoteChooseID: chooseIDNode(nodeQuotePrice, "quote"),
		nodeQuotePrice:    quotePriceNode(),
		nodeDone:          doneNode(),
	}
}

func startNode() flow.Node[*state] {
	return flow.Node[*state]{
		Messages: func(s *state, fctx *flow.Context) []models.BotMessage {
			if len(s.Selected) == 0 {
				return models.PrintyAll("Hi! I'm Printy 🖨️. I couldn't find any selected orders — pick some orders first and reopen the chat.")
			}

			return models.PrintyAll(
				fmt.Sprintf("Hi! I'm Printy 🖨️. You've selected %d orders:", len(s.Selected)),
				summaryLines(fctx, s.Selected),
				"What would you like to do with them?",
			)
		},
		QuickReplies: func(s *state, _ *flow.Context) []string {
			if len(s.Selected) == 0 {
				return []string{flow.EndChatLabel}
			}

			return []string{labelBulkStatus, labelOneAtATime, labelQuotes, flow.EndChatLabel}
		},
		HandleInput: func(input string, s *state, fctx *flow.Context) *flow.Transition[*state] {
			if len(s.Selected) == 0 {
				return nil
			}

			switch {
			case matches(input, labelBulkStatus):
				return &flow.Transition[*state]{Next: nodeBulkStatus}
			case matches(input, labelOneAtATime):
				return enterLoop(s, nodeChooseID, nodeChooseStatus)
			case matches(input, labelQuotes):
				return enterLoop(s, nodeQuoteChooseID, nodeQuotePrice)
			default:
				return nil
			}
		},
	}
}

// enterLoop routes into a per-entity loop: more than one remaining goes
// through the picker, exactly one skips straight to the field node.
func enterLoop(s *state, pickerNode, fieldNode string) *flow.Transition[*state] {
	remaining := s.remaining()

	switch len(remaining) {
	case 0:
		return &flow.Transition[*state]{Next: nodeDone}
	case 1:
		return &flow.Transition[*state]{
			Next:   fieldNode,
			Update: func(s *state) { s.TargetID = remaining[0] },
		}
	default:
		return &flow.Transition[*state]{Next: pickerNode}
	}
}

func bulkStatusNode() flow.Node[*state] {
	return flow.Node[*state]{
		Messages: func(s *state, _ *flow.Context) []models.BotMessage {
			return models.PrintyAll(fmt.Sprintf("Which status should I apply to all %d orders?", len(s.Selected)))
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

			lines := make([]string, 0, len(s.Selected))

			for _, id := range s.Selected {
				order := fctx.OrderByID(id)
				if order == nil {
					lines = append(lines, fmt.Sprintf("⚠️ %s: not found", id))

					continue
				}

				previous := order.Status

				fctx.UpdateOrder(order.ID, models.OrderUpdate{Status: models.Ptr(status)})

				lines = append(lines, fmt.Sprintf("✅ %s: %s → %s", order.ID, previous, status))
			}

			if fctx.RefreshOrders != nil {
				fctx.RefreshOrders()
			}

			return &flow.Transition[*state]{
				Next: nodeDone,
				Update: func(s *state) {
					for _, id := range s.Selected {
						s.Processed[id] = true
					}
				},
				Messages: append(
					models.PrintyAll(strings.Join(lines, "\n")),
					models.Printy(fmt.Sprintf("All %d orders updated. 🎉", len(s.Selected))),
				),
			}
		},
	}
}

// chooseIDNode builds the shared per-entity picker. verb only changes the
// prompt wording; fieldNode is where a valid pick lands.
func chooseIDNode(fieldNode, verb string) flow.Node[*state] {
	return flow.Node[*state]{
		Messages: func(s *state, fctx *flow.Context) []models.BotMessage {
			return models.PrintyAll(
				fmt.Sprintf("Which order should we %s next?", verb),
				summaryLines(fctx, s.remaining()),
			)
		},
		QuickReplies: func(s *state, _ *flow.Context) []string {
			return append(s.remaining(), flow.EndChatLabel)
		},
		HandleInput: func(input string, s *state, fctx *flow.Context) *flow.Transition[*state] {
			ids := textutil.ExtractIDs(models.KindOrder, input)
			if len(ids) == 0 {
				return nil
			}

			id := ids[0]

			if s.Processed[id] {
				return &flow.Transition[*state]{
					Messages: models.PrintyAll(fmt.Sprintf("%s is already done — pick one of the selected IDs below.", id)),
				}
			}

			if !contains(s.Selected, id) {
				return &flow.Transition[*state]{
					Messages: models.PrintyAll(fmt.Sprintf("%s isn't part of this selection — pick one of the selected IDs below.", id)),
				}
			}

			return &flow.Transition[*state]{
				Next:   fieldNode,
				Update: func(s *state) { s.TargetID = id },
			}
		},
	}
}

func contains(ids []string, id string) bool {
	for _, candidate := range ids {
		if candidate == id {
			return true
		}
	}

	return false
}

func chooseStatusNode() flow.Node[*state] {
	return flow.Node[*state]{
		Messages: func(s *state, fctx *flow.Context) []models.BotMessage {
			order := fctx.OrderByID(s.TargetID)
			if order == nil {
				return models.PrintyAll(fmt.Sprintf("New status for %s?", s.TargetID))
			}

			return models.PrintyAll(fmt.Sprintf("New status for %s (currently %s)?", order.ID, order.Status))
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

			summary := applyStatus(s, fctx, status)

			return advanceLoop(s, fctx, nodeChooseID, nodeChooseStatus, summary, func(next string) []models.BotMessage {
				order := fctx.OrderByID(next)
				if order == nil {
					return models.PrintyAll(fmt.Sprintf("Last one: new status for %s?", next))
				}

				return models.PrintyAll(fmt.Sprintf("Last one: new status for %s (currently %s)?", order.ID, order.Status))
			})
		},
	}
}

func applyStatus(s *state, fctx *flow.Context, status string) string {
	order := fctx.OrderByID(s.TargetID)
	if order == nil {
		return fmt.Sprintf("⚠️ %s: not found, skipping", s.TargetID)
	}

	previous := order.Status

	fctx.UpdateOrder(order.ID, models.OrderUpdate{Status: models.Ptr(status)})

	if fctx.RefreshOrders != nil {
		fctx.RefreshOrders()
	}

	return fmt.Sprintf("✅ %s: %s → %s", order.ID, previous, status)
}

// advanceLoop marks the current target processed and applies the three-way
// branch: more than one left re-enters the picker, exactly one left
// auto-advances to the field node for that last id, none left finishes.
func advanceLoop(s *state, fctx *flow.Context, pickerNode, fieldNode, summary string, lastPrompt func(next string) []models.BotMessage) *flow.Transition[*state] {
	done := s.TargetID

	rest := make([]string, 0, len(s.Selected))

	for _, id := range s.remaining() {
		if id != done {
			rest = append(rest, id)
		}
	}

	markDone := func(st *state) { st.Processed[done] = true }

	switch len(rest) {
	case 0:
		return &flow.Transition[*state]{
			Next:   nodeDone,
			Update: markDone,
			Messages: append(
				models.PrintyAll(summary),
				models.Printy(fmt.Sprintf("That was the last one — all %d orders handled. 🎉", len(s.Selected))),
			),
		}
	case 1:
		next := rest[0]

		return &flow.Transition[*state]{
			Next: fieldNode,
			Update: func(st *state) {
				markDone(st)
				st.TargetID = next
			},
			Messages: append(models.PrintyAll(summary), lastPrompt(next)...),
		}
	default:
		return &flow.Transition[*state]{
			Next:   pickerNode,
			Update: markDone,
			Messages: append(
				models.PrintyAll(summary),
				models.Printy("Which order next?"),
				models.Printy(summaryLines(fctx, rest)),
			),
		}
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

			summary := applyQuote(s, fctx, price)

			return advanceLoop(s, fctx, nodeQuoteChooseID, nodeQuotePrice, summary, func(next string) []models.BotMessage {
				return models.PrintyAll(fmt.Sprintf("Last one: how much for %s?", next))
			})
		},
	}
}

func applyQuote(s *state, fctx *flow.Context, price string) string {
	order := fctx.OrderByID(s.TargetID)
	if order == nil {
		return fmt.Sprintf("⚠️ %s: not found, skipping", s.TargetID)
	}

	// Quoted orders always drop back to Pending while the customer confirms.
	fctx.UpdateOrder(order.ID, models.OrderUpdate{
		Status: models.Ptr(models.OrderStatusPending),
		Total:  models.Ptr(price),
	})

	if fctx.RefreshOrders != nil {
		fctx.RefreshOrders()
	}

	return fmt.Sprintf("📝 %s: quote %s (status → %s)", order.ID, price, models.OrderStatusPending)
}

func doneNode() flow.Node[*state] {
	return flow.Node[*state]{
		Messages: func(_ *state, _ *flow.Context) []models.BotMessage {
			return models.PrintyAll("All done! 🎉 Anything else, just open a new chat.")
		},
		QuickReplies: func(_ *state, _ *flow.Context) []string {
			return []string{flow.EndChatLabel}
		},
	}
}
