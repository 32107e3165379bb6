// Package portfolio implements the single-service conversation: renaming a
// service, editing or moving its category and changing its status.
package portfolio

import (
	"fmt"
	"strings"

	"github.com/printyhq/printy-assist/pkg/flow"
	"github.com/printyhq/printy-assist/pkg/models"
	"github.com/printyhq/printy-assist/pkg/textutil"
)

const (
	nodeAction       = "action"
	nodeEditName     = "edit_name"
	nodeEditCategory = "edit_category"
	nodeChooseStatus = "choose_status"
	nodeMoveCategory = "move_category"
)

const (
	labelEditName     = "Edit Name"
	labelEditCategory = "Edit Category"
	labelEditStatus   = "Edit Status"
	labelMoveCategory = "Move Category"
)

type state struct {
	flow.NodeCursor

	TargetID string
}

// New builds a fresh single-service conversation.
func New() flow.Flow {
	return newEngine()
}

func newEngine() *flow.Engine[*state] {
	return flow.NewEngine("portfolio", initState, nodes())
}

func initState(fctx *flow.Context) *state {
	s := &state{}
	s.SetCurrentNode(nodeAction)

	for _, id := range fctx.Selected {
		if fctx.ServiceByID(id) != nil {
			s.TargetID = id

			break
		}
	}

	if s.TargetID == "" && len(fctx.Services) == 1 {
		s.TargetID = fctx.Services[0].ID
	}

	return s
}

func matches(input, label string) bool {
	return strings.EqualFold(strings.TrimSpace(input), label)
}

func nodes() map[string]flow.Node[*state] {
	return map[string]flow.Node[*state]{
		nodeAction:       actionNode(),
		nodeEditName:     editNameNode(),
		nodeEditCategory: editCategoryNode(),
		nodeChooseStatus: chooseStatusNode(),
		nodeMoveCategory: moveCategoryNode(),
	}
}

func actionNode() flow.Node[*state] {
	return flow.Node[*state]{
		Messages: func(s *state, fctx *flow.Context) []models.BotMessage {
			if svc := fctx.ServiceByID(s.TargetID); svc != nil {
				return models.PrintyAll(
					fmt.Sprintf("Hi! I'm Printy 🖨️. You're editing %s — %s (%s, %s).", svc.ID, svc.Name, svc.Category, svc.Status),
					"What would you like to change?",
				)
			}

			return models.PrintyAll(
				"Hi! I'm Printy 🖨️. Which service are we editing?",
				"Send me the service code (e.g., SRV-MUG1).",
			)
		},
		QuickReplies: func(s *state, fctx *flow.Context) []string {
			if fctx.ServiceByID(s.TargetID) == nil {
				return []string{flow.EndChatLabel}
			}

			return []string{labelEditName, labelEditCategory, labelEditStatus, labelMoveCategory, flow.EndChatLabel}
		},
		HandleInput: func(input string, s *state, fctx *flow.Context) *flow.Transition[*state] {
			if ids := textutil.ExtractIDs(models.KindService, input); len(ids) > 0 {
				if fctx.ServiceByID(ids[0]) == nil {
					return &flow.Transition[*state]{
						Messages: models.PrintyAll(fmt.Sprintf("Service %s not found. Send me another code or pick an option below.", ids[0])),
					}
				}

				return &flow.Transition[*state]{
					Update: func(s *state) { s.TargetID = ids[0] },
				}
			}

			if fctx.ServiceByID(s.TargetID) == nil {
				return nil
			}

			switch {
			case matches(input, labelEditName):
				return &flow.Transition[*state]{Next: nodeEditName}
			case matches(input, labelEditCategory):
				return &flow.Transition[*state]{Next: nodeEditCategory}
			case matches(input, labelEditStatus):
				return &flow.Transition[*state]{Next: nodeChooseStatus}
			case matches(input, labelMoveCategory):
				return &flow.Transition[*state]{Next: nodeMoveCategory}
			default:
				return nil
			}
		},
	}
}

func editNameNode() flow.Node[*state] {
	return flow.Node[*state]{
		Messages: func(s *state, _ *flow.Context) []models.BotMessage {
			return models.PrintyAll(fmt.Sprintf("What should %s be called? Type the new name.", s.TargetID))
		},
		QuickReplies: func(_ *state, _ *flow.Context) []string {
			return []string{flow.EndChatLabel}
		},
		HandleInput: func(input string, s *state, fctx *flow.Context) *flow.Transition[*state] {
			name := strings.TrimSpace(input)
			if name == "" {
				return &flow.Transition[*state]{
					Messages: models.PrintyAll("The name can't be empty. Type the new name."),
				}
			}

			svc := fctx.ServiceByID(s.TargetID)
			if svc == nil {
				return notFound()
			}

			previous := svc.Name

			fctx.UpdateService(svc.ID, models.ServiceUpdate{Name: models.Ptr(name)})
			refresh(fctx)

			return backToAction(fmt.Sprintf("✏️ %s: \"%s\" → \"%s\"", svc.ID, previous, name))
		},
	}
}

func editCategoryNode() flow.Node[*state] {
	return flow.Node[*state]{
		Messages: func(s *state, _ *flow.Context) []models.BotMessage {
			return models.PrintyAll(fmt.Sprintf("What category should %s be under? Type the category name.", s.TargetID))
		},
		QuickReplies: func(_ *state, fctx *flow.Context) []string {
			return append(fctx.ServiceCategories(), flow.EndChatLabel)
		},
		HandleInput: func(input string, s *state, fctx *flow.Context) *flow.Transition[*state] {
			category := strings.TrimSpace(input)
			if category == "" {
				return &flow.Transition[*state]{
					Messages: models.PrintyAll("The category can't be empty. Type the category name."),
				}
			}

			svc := fctx.ServiceByID(s.TargetID)
			if svc == nil {
				return notFound()
			}

			previous := svc.Category

			fctx.UpdateService(svc.ID, models.ServiceUpdate{Category: models.Ptr(category)})
			refresh(fctx)

			return backToAction(fmt.Sprintf("🗂️ %s: %s → %s", svc.ID, previous, category))
		},
	}
}

func chooseStatusNode() flow.Node[*state] {
	return flow.Node[*state]{
		Messages: func(s *state, fctx *flow.Context) []models.BotMessage {
			svc := fctx.ServiceByID(s.TargetID)
			if svc == nil {
				return models.PrintyAll("Service not found.")
			}

			return models.PrintyAll(fmt.Sprintf("What should the new status for %s be? It's currently %s.", svc.ID, svc.Status))
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

			svc := fctx.ServiceByID(s.TargetID)
			if svc == nil {
				return notFound()
			}

			previous := svc.Status

			fctx.UpdateService(svc.ID, models.ServiceUpdate{Status: models.Ptr(status)})
			refresh(fctx)

			return backToAction(fmt.Sprintf("✅ %s: %s → %s", svc.ID, previous, status))
		},
	}
}

// moveCategoryNode only accepts categories that already exist in the
// portfolio; editCategoryNode is the free-text variant.
func moveCategoryNode() flow.Node[*state] {
	return flow.Node[*state]{
		Messages: func(s *state, fctx *flow.Context) []models.BotMessage {
			return models.PrintyAll(fmt.Sprintf("Where should %s move to? Pick an existing category.", s.TargetID))
		},
		QuickReplies: func(_ *state, fctx *flow.Context) []string {
			return append(fctx.ServiceCategories(), flow.EndChatLabel)
		},
		HandleInput: func(input string, s *state, fctx *flow.Context) *flow.Transition[*state] {
			choice := strings.TrimSpace(input)

			var category string

			for _, existing := range fctx.ServiceCategories() {
				if strings.EqualFold(choice, existing) {
					category = existing

					break
				}
			}

			if category == "" {
				return &flow.Transition[*state]{
					Messages: models.PrintyAll("That's not one of the existing categories. Pick one of the options below."),
				}
			}

			svc := fctx.ServiceByID(s.TargetID)
			if svc == nil {
				return notFound()
			}

			previous := svc.Category

			fctx.UpdateService(svc.ID, models.ServiceUpdate{Category: models.Ptr(category)})
			refresh(fctx)

			return backToAction(fmt.Sprintf("🗂️ %s moved: %s → %s", svc.ID, previous, category))
		},
	}
}

func refresh(fctx *flow.Context) {
	if fctx.RefreshServices != nil {
		fctx.RefreshServices()
	}
}

func notFound() *flow.Transition[*state] {
	return &flow.Transition[*state]{
		Next:     nodeAction,
		Messages: models.PrintyAll("Service not found. Let's start over."),
	}
}

func backToAction(summary string) *flow.Transition[*state] {
	return &flow.Transition[*state]{
		Next: nodeAction,
		Messages: models.PrintyAll(
			summary,
			"Anything else for this service?",
		),
	}
}
