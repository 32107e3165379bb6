// Package multitickets implements the bulk ticket conversation: apply one
// status to every selected ticket, or walk the selection one ticket at a time
// for status changes and replies.
package multitickets

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
	nodeReplyChooseID = "reply_choose_id"
	nodeReplyText     = "reply_text"
	nodeDone          = "done"
)

const (
	labelBulkStatus = "Change Status for All"
	labelOneAtATime = "One at a Time"
	labelReplies    = "Send Replies"
)

type state struct {
	flow.NodeCursor

	Selected  []string
	Processed map[string]bool
	TargetID  string
}

// New builds a fresh bulk-ticket conversation.
func New() flow.Flow {
	return newEngine()
}

func newEngine() *flow.Engine[*state] {
	return flow.NewEngine("multiple-tickets", initState, nodes())
}

func initState(fctx *flow.Context) *state {
	s := &state{Processed: make(map[string]bool)}
	s.SetCurrentNode(nodeStart)

	seen := make(map[string]bool)

	for _, id := range fctx.Selected {
		if seen[id] || fctx.TicketByID(id) == nil {
			continue
		}

		seen[id] = true

		s.Selected = append(s.Selected, id)
	}

	return s
}

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
		ticket := fctx.TicketByID(id)
		if ticket == nil {
			lines = append(lines, fmt.Sprintf("• %s — not found", id))

			continue
		}

		lines = append(lines, fmt.Sprintf("• %s — %s: \"%s\" (%s)", ticket.ID, ticket.Customer, ticket.Subject, ticket.Status))
	}

	return strings.Join(lines, "\n")
}

func nodes() map[string]flow.Node[*state] {
	return map[string]flow.Node[*state]{
		nodeStart:         startNode(),
		nodeBulkStatus:    bulkStatusNode(),
		nodeChooseID:      chooseIDNode(nodeChooseStatus, "update"),
		nodeChooseStatus:  chooseStatusNode(),
		nodeReplyChooseID: chooseIDNode(nodeReplyText, "reply to"),
		nodeReplyText:     replyTextNode(),
		nodeDone:          doneNode(),
	}
}

func startNode() flow.Node[*state] {
	return flow.Node[*state]{
		Messages: func(s *state, fctx *flow.Context) []models.BotMessage {
			if len(s.Selected) == 0 {
				return models.PrintyAll("Hi! I'm Printy 🖨️. I couldn't find any selected tickets — pick some tickets first and reopen the chat.")
			}

			return models.PrintyAll(
				fmt.Sprintf("Hi! I'm Printy 🖨️. You've selected %d tickets:", len(s.Selected)),
				summaryLines(fctx, s.Selected),
				"What would you like to do with them?",
			)
		},
		QuickReplies: func(s *state, _ *flow.Context) []string {
			if len(s.Selected) == 0 {
				return []string{flow.EndChatLabel}
			}

			return []string{labelBulkStatus, labelOneAtATime, labelReplies, flow.EndChatLabel}
		},
		HandleInput: func(input string, s *state, _ *flow.Context) *flow.Transition[*state] {
			if len(s.Selected) == 0 {
				return nil
			}

			switch {
			case matches(input, labelBulkStatus):
				return &flow.Transition[*state]{Next: nodeBulkStatus}
			case matches(input, labelOneAtATime):
				return enterLoop(s, nodeChooseID, nodeChooseStatus)
			case matches(input, labelReplies):
				return enterLoop(s, nodeReplyChooseID, nodeReplyText)
			default:
				return nil
			}
		},
	}
}

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
			return models.PrintyAll(fmt.Sprintf("Which status should I apply to all %d tickets?", len(s.Selected)))
		},
		QuickReplies: func(_ *state, _ *flow.Context) []string {
			return append(models.TicketStatuses(), flow.EndChatLabel)
		},
		HandleInput: func(input string, s *state, fctx *flow.Context) *flow.Transition[*state] {
			status, ok := textutil.NormalizeStatus(models.KindTicket, input)
			if !ok {
				return &flow.Transition[*state]{
					Messages: models.PrintyAll("Hmm, that's not a status I know. Pick one of the options below."),
				}
			}

			lines := make([]string, 0, len(s.Selected))

			for _, id := range s.Selected {
				ticket := fctx.TicketByID(id)
				if ticket == nil {
					lines = append(lines, fmt.Sprintf("⚠️ %s: not found", id))

					continue
				}

				previous := ticket.Status

				fctx.UpdateTicket(ticket.ID, models.TicketUpdate{Status: models.Ptr(status)})

				lines = append(lines, fmt.Sprintf("✅ %s: %s → %s", ticket.ID, previous, status))
			}

			if fctx.RefreshTickets != nil {
				fctx.RefreshTickets()
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
					models.Printy(fmt.Sprintf("All %d tickets updated. 🎉", len(s.Selected))),
				),
			}
		},
	}
}

func chooseIDNode(fieldNode, verb string) flow.Node[*state] {
	return flow.Node[*state]{
		Messages: func(s *state, fctx *flow.Context) []models.BotMessage {
			return models.PrintyAll(
				fmt.Sprintf("Which ticket should we %s next?", verb),
				summaryLines(fctx, s.remaining()),
			)
		},
		QuickReplies: func(s *state, _ *flow.Context) []string {
			return append(s.remaining(), flow.EndChatLabel)
		},
		HandleInput: func(input string, s *state, _ *flow.Context) *flow.Transition[*state] {
			ids := textutil.ExtractIDs(models.KindTicket, input)
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
			ticket := fctx.TicketByID(s.TargetID)
			if ticket == nil {
				return models.PrintyAll(fmt.Sprintf("New status for %s?", s.TargetID))
			}

			return models.PrintyAll(fmt.Sprintf("New status for %s (currently %s)?", ticket.ID, ticket.Status))
		},
		QuickReplies: func(_ *state, _ *flow.Context) []string {
			return append(models.TicketStatuses(), flow.EndChatLabel)
		},
		HandleInput: func(input string, s *state, fctx *flow.Context) *flow.Transition[*state] {
			status, ok := textutil.NormalizeStatus(models.KindTicket, input)
			if !ok {
				return &flow.Transition[*state]{
					Messages: models.PrintyAll("Hmm, that's not a status I know. Pick one of the options below."),
				}
			}

			summary := applyStatus(s, fctx, status)

			return advanceLoop(s, fctx, nodeChooseID, nodeChooseStatus, summary, func(next string) []models.BotMessage {
				ticket := fctx.TicketByID(next)
				if ticket == nil {
					return models.PrintyAll(fmt.Sprintf("Last one: new status for %s?", next))
				}

				return models.PrintyAll(fmt.Sprintf("Last one: new status for %s (currently %s)?", ticket.ID, ticket.Status))
			})
		},
	}
}

func applyStatus(s *state, fctx *flow.Context, status string) string {
	ticket := fctx.TicketByID(s.TargetID)
	if ticket == nil {
		return fmt.Sprintf("⚠️ %s: not found, skipping", s.TargetID)
	}

	previous := ticket.Status

	fctx.UpdateTicket(ticket.ID, models.TicketUpdate{Status: models.Ptr(status)})

	if fctx.RefreshTickets != nil {
		fctx.RefreshTickets()
	}

	return fmt.Sprintf("✅ %s: %s → %s", ticket.ID, previous, status)
}

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
				models.Printy(fmt.Sprintf("That was the last one — all %d tickets handled. 🎉", len(s.Selected))),
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
				models.Printy("Which ticket next?"),
				models.Printy(summaryLines(fctx, rest)),
			),
		}
	}
}

func replyTextNode() flow.Node[*state] {
	return flow.Node[*state]{
		Messages: func(s *state, _ *flow.Context) []models.BotMessage {
			return models.PrintyAll(fmt.Sprintf("What should I send to the customer on %s? Type your reply.", s.TargetID))
		},
		QuickReplies: func(_ *state, _ *flow.Context) []string {
			return []string{flow.EndChatLabel}
		},
		HandleInput: func(input string, s *state, fctx *flow.Context) *flow.Transition[*state] {
			reply := strings.TrimSpace(input)
			if reply == "" {
				return &flow.Transition[*state]{
					Messages: models.PrintyAll("The reply can't be empty. Type what I should send."),
				}
			}

			summary := applyReply(s, fctx, reply)

			return advanceLoop(s, fctx, nodeReplyChooseID, nodeReplyText, summary, func(next string) []models.BotMessage {
				return models.PrintyAll(fmt.Sprintf("Last one: what should I send on %s?", next))
			})
		},
	}
}

func applyReply(s *state, fctx *flow.Context, reply string) string {
	ticket := fctx.TicketByID(s.TargetID)
	if ticket == nil {
		return fmt.Sprintf("⚠️ %s: not found, skipping", s.TargetID)
	}

	fctx.UpdateTicket(ticket.ID, models.TicketUpdate{LastReply: models.Ptr(reply)})

	if fctx.RefreshTickets != nil {
		fctx.RefreshTickets()
	}

	return fmt.Sprintf("📨 %s: reply sent", ticket.ID)
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
