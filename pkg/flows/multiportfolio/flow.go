// Package multiportfolio implements the bulk service conversation: apply one
// status to every selected service or step through them one at a time.
package multiportfolio

import (
	"fmt"
	"strings"

	"github.com/printyhq/printy-assist/pkg/flow"
	"github.com/printyhq/printy-assist/pkg/models"
	"github.com/printyhq/printy-assist/pkg/textutil"
)

const (
	nodeStart        = "multi_start"
	nodeBulkStatus   = "choose_bulk_status"
	nodeChooseID     = "choose_id"
	nodeChooseStatus = "choose_status"
	nodeDone         = "done"
)

const (
	labelBulkStatus = "Change Status for All"
	labelOneAtATime = "One at a Time"
)

type state struct {
	flow.NodeCursor

	Selected  []string
	Processed map[string]bool
	TargetID  string
}

// New builds a fresh bulk-service conversation.
func New() flow.Flow {
	return newEngine()
}

func newEngine() *flow.Engine[*state] {
	return flow.NewEngine("multiple-portfolio", initState, nodes())
}

func initState(fctx *flow.Context) *state {
	s := &state{Processed: make(map[string]bool)}
	s.SetCurrentNode(nodeStart)

	seen := make(map[string]bool)

	for _, id := range fctx.Selected {
		if seen[id] || fctx.ServiceByID(id) == nil {
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
		svc := fctx.ServiceByID(id)
		if svc == nil {
			lines = append(lines, fmt.Sprintf("• %s — not found", id))

			continue
		}

		lines = append(lines, fmt.Sprintf("• %s — %s (%s, %s)", svc.ID, svc.Name, svc.Category, svc.Status))
	}

	return strings.Join(lines, "\n")
}

func nodes() map[string]flow.Node[*state] {
	return map[string]flow.Node[*state]{
		nodeStart:        startNode(),
		nodeBulkStatus:   bulkStatusNode(),
		nodeChooseID:     chooseIDNode(),
		nodeChooseStatus: chooseStatusNode(),
		nodeDone:         doneNode(),
	}
}

func startNode() flow.Node[*state] {
	return flow.Node[*state]{
		Messages: func(s *state, fctx *flow.Context) []models.BotMessage {
			if len(s.Selected) == 0 {
				return models.PrintyAll("Hi! I'm Printy 🖨️. I couldn't find any selected services — pick some services first and reopen the chat.")
			}

			return models.PrintyAll(
				fmt.Sprintf("Hi! I'm Printy 🖨️. You've selected %d services:", len(s.Selected)),
				summaryLines(fctx, s.Selected),
				"What would you like to do with them?",
			)
		},
		QuickReplies: func(s *state, _ *flow.Context) []string {
			if len(s.Selected) == 0 {
				return []string{flow.EndChatLabel}
			}

			return []string{labelBulkStatus, labelOneAtATime, flow.EndChatLabel}
		},
		HandleInput: func(input string, s *state, _ *flow.Context) *flow.Transition[*state] {
			if len(s.Selected) == 0 {
				return nil
			}

			switch {
			case matches(input, labelBulkStatus):
				return &flow.Transition[*state]{Next: nodeBulkStatus}
			case matches(input, labelOneAtATime):
				remaining := s.remaining()

				switch len(remaining) {
				case 0:
					return &flow.Transition[*state]{Next: nodeDone}
				case 1:
					return &flow.Transition[*state]{
						Next:   nodeChooseStatus,
						Update: func(s *state) { s.TargetID = remaining[0] },
					}
				default:
					return &flow.Transition[*state]{Next: nodeChooseID}
				}
			default:
				return nil
			}
		},
	}
}

func bulkStatusNode() flow.Node[*state] {
	return flow.Node[*state]{
		Messages: func(s *state, _ *flow.Context) []models.BotMessage {
			return models.PrintyAll(fmt.Sprintf("Which status should I apply to all %d services?", len(s.Selected)))
		},
		QuickReplies: func(_ *state, _ *flow.Context) []string {
			return append(models.ServiceStatuses(), flow.EndChatLabel)
		},
		HandleInput: func(input string, s *state, fctx *flow.Context) *flow.Transition[*state] {
			status, ok := textutil.NormalizeStatus(models.KindService, input)
			if !ok {
				return &flow.Transition[*state]{
					Messages: models.PrintyAll("Hmm, that's not a status I know. Pick one of the options below."),
				}
			}

			lines := make([]string, 0, len(s.Selected))

			for _, id := range s.Selected {
				svc := fctx.ServiceByID(id)
				if svc == nil {
					lines = append(lines, fmt.Sprintf("⚠️ %s: not found", id))

					continue
				}

				previous := svc.Status

				fctx.UpdateService(svc.ID, models.ServiceUpdate{Status: models.Ptr(status)})

				lines = append(lines, fmt.Sprintf("✅ %s: %s → %s", svc.ID, previous, status))
			}

			if fctx.RefreshServices != nil {
				fctx.RefreshServices()
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
					models.Printy(fmt.Sprintf("All %d services updated. 🎉", len(s.Selected))),
				),
			}
		},
	}
}

func chooseIDNode() flow.Node[*state] {
	return flow.Node[*state]{
		Messages: func(s *state, fctx *flow.Context) []models.BotMessage {
			return models.PrintyAll(
				"Which service should we update next?",
				summaryLines(fctx, s.remaining()),
			)
		},
		QuickReplies: func(s *state, _ *flow.Context) []string {
			return append(s.remaining(), flow.EndChatLabel)
		},
		HandleInput: func(input string, s *state, _ *flow.Context) *flow.Transition[*state] {
			ids := textutil.ExtractIDs(models.KindService, input)
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
				Next:   nodeChooseStatus,
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
			svc := fctx.ServiceByID(s.TargetID)
			if svc == nil {
				return models.PrintyAll(fmt.Sprintf("New status for %s?", s.TargetID))
			}

			return models.PrintyAll(fmt.Sprintf("New status for %s (currently %s)?", svc.ID, svc.Status))
		},
		QuickReplies: func(_ *state, _ *flow.Context) []string {
			return append(models.ServiceStatuses(), flow.EndChatLabel)
		},
		HandleInput: func(input string, s *state, fctx *flow.Context) *flow.Transition[*state] {
			status, ok := textutil.NormalizeStatus(models.KindService, input)
			if !ok {
				return &flow.Transition[*state]{
					Messages: models.PrintyAll("Hmm, that's not a status I know. Pick one of the options below."),
				}
			}

			summary := applyStatus(s, fctx, status)
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
						models.Printy(fmt.Sprintf("That was the last one — all %d services handled. 🎉", len(s.Selected))),
					),
				}
			case 1:
				next := rest[0]

				return &flow.Transition[*state]{
					Next: nodeChooseStatus,
					Update: func(st *state) {
						markDone(st)
						st.TargetID = next
					},
					Messages: append(
						models.PrintyAll(summary),
						models.Printy(fmt.Sprintf("Last one: new status for %s?", next)),
					),
				}
			default:
				return &flow.Transition[*state]{
					Next:   nodeChooseID,
					Update: markDone,
					Messages: append(
						models.PrintyAll(summary),
						models.Printy("Which service next?"),
						models.Printy(summaryLines(fctx, rest)),
					),
				}
			}
		},
	}
}

func applyStatus(s *state, fctx *flow.Context, status string) string {
	svc := fctx.ServiceByID(s.TargetID)
	if svc == nil {
		return fmt.Sprintf("⚠️ %s: not found, skipping", s.TargetID)
	}

	previous := svc.Status

	fctx.UpdateService(svc.ID, models.ServiceUpdate{Status: models.Ptr(status)})

	if fctx.RefreshServices != nil {
		fctx.RefreshServices()
	}

	return fmt.Sprintf("✅ %s: %s → %s", svc.ID, previous, status)
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
