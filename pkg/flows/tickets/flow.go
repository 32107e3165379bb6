// Package tickets implements the single-ticket conversation: replying to the
// customer and changing the ticket status.
package tickets

import (
	"fmt"
	"strings"

	"github.com/printyhq/printy-assist/pkg/flow"
	"github.com/printyhq/printy-assist/pkg/models"
	"github.com/printyhq/printy-assist/pkg/textutil"
)

const (
	nodeAction       = "action"
	nodeReplyText    = "reply_text"
	nodeChooseStatus = "choose_status"
)

const (
	labelReply        = "Reply"
	labelChangeStatus = "Change Status"
)

type state struct {
	flow.NodeCursor

	TargetID string
}

// New builds a fresh single-ticket conversation.
func New() flow.Flow {
	return newEngine()
}

func newEngine() *flow.Engine[*state] {
	return flow.NewEngine("tickets", initState, nodes())
}

func initState(fctx *flow.Context) *state {
	s := &state{}
	s.SetCurrentNode(nodeAction)

	for _, id := range fctx.Selected {
		if fctx.TicketByID(id) != nil {
			s.TargetID = id

			break
		}
	}

	if s.TargetID == "" && len(fctx.Tickets) == 1 {
		s.TargetID = fctx.Tickets[0].ID
	}

	return s
}

func matches(input, label string) bool {
	return strings.EqualFold(strings.TrimSpace(input), label)
}

func nodes() map[string]flow.Node[*state] {
	return map[string]flow.Node[*state]{
		nodeAction:       actionNode(),
		nodeReplyText:    replyTextNode(),
		nodeChooseStatus: chooseStatusNode(),
	}
}

func actionNode() flow.Node[*state] {
	return flow.Node[*state]{
		Messages: func(s *state, fctx *flow.Context) []models.BotMessage {
			if ticket := fctx.TicketByID(s.TargetID); ticket != nil {
				return models.PrintyAll(
					fmt.Sprintf("Hi! I'm Printy 🖨️. You're on ticket %s from %s: \"%s\" (%s).", ticket.ID, ticket.Customer, ticket.Subject, ticket.Status),
					"What would you like to do?",
				)
			}

			return models.PrintyAll(
				"Hi! I'm Printy 🖨️. Which ticket are we working on?",
				"Send me the ticket ID (e.g., TCK-2001).",
			)
		},
		QuickReplies: func(s *state, fctx *flow.Context) []string {
			if fctx.TicketByID(s.TargetID) == nil {
				return []string{flow.EndChatLabel}
			}

			return []string{labelReply, labelChangeStatus, flow.EndChatLabel}
		},
		HandleInput: func(input string, s *state, fctx *flow.Context) *flow.Transition[*state] {
			if ids := textutil.ExtractIDs(models.KindTicket, input); len(ids) > 0 {
				if fctx.TicketByID(ids[0]) == nil {
					return &flow.Transition[*state]{
						Messages: models.PrintyAll(fmt.Sprintf("Ticket %s not found. Send me another ID or pick an option below.", ids[0])),
					}
				}

				return &flow.Transition[*state]{
					Update: func(s *state) { s.TargetID = ids[0] },
				}
			}

			if fctx.TicketByID(s.TargetID) == nil {
				return nil
			}

			switch {
			case matches(input, labelReply):
				return &flow.Transition[*state]{Next: nodeReplyText}
			case matches(input, labelChangeStatus):
				return &flow.Transition[*state]{Next: nodeChooseStatus}
			default:
				return nil
			}
		},
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

			ticket := fctx.TicketByID(s.TargetID)
			if ticket == nil {
				return &flow.Transition[*state]{
					Next:     nodeAction,
					Messages: models.PrintyAll("Ticket not found. Let's start over."),
				}
			}

			fctx.UpdateTicket(ticket.ID, models.TicketUpdate{LastReply: models.Ptr(reply)})

			if fctx.RefreshTickets != nil {
				fctx.RefreshTickets()
			}

			return &flow.Transition[*state]{
				Next: nodeAction,
				Messages: models.PrintyAll(
					fmt.Sprintf("📨 Reply sent on %s: \"%s\"", ticket.ID, reply),
					"Anything else for this ticket?",
				),
			}
		},
	}
}

func chooseStatusNode() flow.Node[*state] {
	return flow.Node[*state]{
		Messages: func(s *state, fctx *flow.Context) []models.BotMessage {
			ticket := fctx.TicketByID(s.TargetID)
			if ticket == nil {
				return models.PrintyAll("Ticket not found.")
			}

			return models.PrintyAll(fmt.Sprintf("What should the new status for %s be? It's currently %s.", ticket.ID, ticket.Status))
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

			ticket := fctx.TicketByID(s.TargetID)
			if ticket == nil {
				return &flow.Transition[*state]{
					Next:     nodeAction,
					Messages: models.PrintyAll("Ticket not found. Let's start over."),
				}
			}

			previous := ticket.Status

			fctx.UpdateTicket(ticket.ID, models.TicketUpdate{Status: models.Ptr(status)})

			if fctx.RefreshTickets != nil {
				fctx.RefreshTickets()
			}

			return &flow.Transition[*state]{
				Next: nodeAction,
				Messages: models.PrintyAll(
					fmt.Sprintf("✅ %s: %s → %s", ticket.ID, previous, status),
					"Anything else for this ticket?",
				),
			}
		},
	}
}
