// Package addservice implements the linear service-creation wizard: name,
// code, category and status collected step by step, then a final confirmation.
package addservice

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/printyhq/printy-assist/pkg/flow"
	"github.com/printyhq/printy-assist/pkg/models"
	"github.com/printyhq/printy-assist/pkg/textutil"
)

const (
	nodeStart          = "start"
	nodeEnterCode      = "enter_code"
	nodeChooseCategory = "choose_category"
	nodeChooseStatus   = "choose_status"
	nodeConfirm        = "confirm"
	nodeDone           = "done"
)

const (
	labelConfirm   = "Yes, Create Service"
	labelStartOver = "No, Start Over"
)

var codePattern = regexp.MustCompile(`(?i)^SRV-[A-Z0-9]+$`)

type state struct {
	flow.NodeCursor

	Draft models.Service
}

// New builds a fresh service-creation conversation.
func New() flow.Flow {
	return newEngine()
}

func newEngine() *flow.Engine[*state] {
	return flow.NewEngine("add-service", initState, nodes())
}

func initState(_ *flow.Context) *state {
	s := &state{}
	s.SetCurrentNode(nodeStart)

	return s
}

func nodes() map[string]flow.Node[*state] {
	return map[string]flow.Node[*state]{
		nodeStart:          startNode(),
		nodeEnterCode:      enterCodeNode(),
		nodeChooseCategory: chooseCategoryNode(),
		nodeChooseStatus:   chooseStatusNode(),
		nodeConfirm:        confirmNode(),
		nodeDone:           doneNode(),
	}
}

func startNode() flow.Node[*state] {
	return flow.Node[*state]{
		Messages: func(_ *state, _ *flow.Context) []models.BotMessage {
			return models.PrintyAll(
				"Hi! I'm Printy 🖨️. Let's add a new service to the portfolio.",
				"What's the new service called? Type the name.",
			)
		},
		QuickReplies: func(_ *state, _ *flow.Context) []string {
			return []string{flow.EndChatLabel}
		},
		HandleInput: func(input string, s *state, _ *flow.Context) *flow.Transition[*state] {
			name := strings.TrimSpace(input)
			if name == "" {
				return &flow.Transition[*state]{
					Messages: models.PrintyAll("The name can't be empty. Type the new service's name."),
				}
			}

			return &flow.Transition[*state]{
				Next:   nodeEnterCode,
				Update: func(s *state) { s.Draft.Name = name },
			}
		},
	}
}

func enterCodeNode() flow.Node[*state] {
	return flow.Node[*state]{
		Messages: func(s *state, _ *flow.Context) []models.BotMessage {
			return models.PrintyAll(fmt.Sprintf("What code should \"%s\" get? Codes look like SRV-MUG1.", s.Draft.Name))
		},
		QuickReplies: func(_ *state, _ *flow.Context) []string {
			return []string{flow.EndChatLabel}
		},
		HandleInput: func(input string, s *state, fctx *flow.Context) *flow.Transition[*state] {
			code := strings.ToUpper(strings.TrimSpace(input))
			if !codePattern.MatchString(code) {
				return &flow.Transition[*state]{
					Messages: models.PrintyAll("That doesn't look like a service code. Use the SRV- prefix followed by letters or digits, e.g. SRV-MUG1."),
				}
			}

			if fctx.ServiceByID(code) != nil {
				return &flow.Transition[*state]{
					Messages: models.PrintyAll(fmt.Sprintf("%s is already taken. Pick a different code.", code)),
				}
			}

			return &flow.Transition[*state]{
				Next:   nodeChooseCategory,
				Update: func(s *state) { s.Draft.ID = code },
			}
		},
	}
}

func chooseCategoryNode() flow.Node[*state] {
	return flow.Node[*state]{
		Messages: func(s *state, _ *flow.Context) []models.BotMessage {
			return models.PrintyAll(fmt.Sprintf("Which category does %s belong to? Pick one below or type a new one.", s.Draft.ID))
		},
		QuickReplies: func(_ *state, fctx *flow.Context) []string {
			return append(fctx.ServiceCategories(), flow.EndChatLabel)
		},
		HandleInput: func(input string, s *state, fctx *flow.Context) *flow.Transition[*state] {
			category := strings.TrimSpace(input)
			if category == "" {
				return &flow.Transition[*state]{
					Messages: models.PrintyAll("The category can't be empty. Pick one below or type a new one."),
				}
			}

			// Reuse canonical casing when the category already exists.
			for _, existing := range fctx.ServiceCategories() {
				if strings.EqualFold(category, existing) {
					category = existing

					break
				}
			}

			return &flow.Transition[*state]{
				Next:   nodeChooseStatus,
				Update: func(s *state) { s.Draft.Category = category },
			}
		},
	}
}

func chooseStatusNode() flow.Node[*state] {
	return flow.Node[*state]{
		Messages: func(s *state, _ *flow.Context) []models.BotMessage {
			return models.PrintyAll(fmt.Sprintf("What status should %s launch with?", s.Draft.ID))
		},
		QuickReplies: func(_ *state, _ *flow.Context) []string {
			return append(models.ServiceStatuses(), flow.EndChatLabel)
		},
		HandleInput: func(input string, s *state, _ *flow.Context) *flow.Transition[*state] {
			status, ok := textutil.NormalizeStatus(models.KindService, input)
			if !ok {
				return &flow.Transition[*state]{
					Messages: models.PrintyAll("Hmm, that's not a status I know. Pick one of the options below."),
				}
			}

			return &flow.Transition[*state]{
				Next:   nodeConfirm,
				Update: func(s *state) { s.Draft.Status = status },
			}
		},
	}
}

func confirmNode() flow.Node[*state] {
	return flow.Node[*state]{
		Messages: func(s *state, _ *flow.Context) []models.BotMessage {
			return models.PrintyAll(
				"Here's the new service:",
				fmt.Sprintf("• %s — %s (%s, %s)", s.Draft.ID, s.Draft.Name, s.Draft.Category, s.Draft.Status),
				"Shall I create it?",
			)
		},
		QuickReplies: func(_ *state, _ *flow.Context) []string {
			return []string{labelConfirm, labelStartOver, flow.EndChatLabel}
		},
		HandleInput: func(input string, s *state, fctx *flow.Context) *flow.Transition[*state] {
			switch {
			case strings.EqualFold(strings.TrimSpace(input), labelConfirm):
				// The code may have been taken since enter_code ran.
				if fctx.ServiceByID(s.Draft.ID) != nil {
					return &flow.Transition[*state]{
						Next:     nodeEnterCode,
						Messages: models.PrintyAll(fmt.Sprintf("%s got taken in the meantime. Pick a different code.", s.Draft.ID)),
					}
				}

				draft := s.Draft

				if fctx.CreateService != nil {
					fctx.CreateService(draft)
				}

				if fctx.RefreshServices != nil {
					fctx.RefreshServices()
				}

				return &flow.Transition[*state]{Next: nodeDone}
			case strings.EqualFold(strings.TrimSpace(input), labelStartOver):
				return &flow.Transition[*state]{
					Next:   nodeStart,
					Update: func(s *state) { s.Draft = models.Service{} },
				}
			default:
				return nil
			}
		},
	}
}

func doneNode() flow.Node[*state] {
	return flow.Node[*state]{
		Messages: func(s *state, _ *flow.Context) []models.BotMessage {
			return models.PrintyAll(fmt.Sprintf("🎉 %s — %s is live in the portfolio!", s.Draft.ID, s.Draft.Name))
		},
		QuickReplies: func(_ *state, _ *flow.Context) []string {
			return []string{flow.EndChatLabel}
		},
	}
}
