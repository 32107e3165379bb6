// Package faq implements the canned informational conversations: the "about"
// blurb and the admin FAQ. Both are single-node flows with no transitions.
package faq

import (
	"github.com/printyhq/printy-assist/pkg/flow"
	"github.com/printyhq/printy-assist/pkg/models"
)

const nodeInfo = "info"

type state struct {
	flow.NodeCursor
}

// NewAbout builds the flow that introduces the assistant.
func NewAbout() flow.Flow {
	return newEngine("about", aboutMessages)
}

// NewFAQ builds the flow that answers common dashboard questions.
func NewFAQ() flow.Flow {
	return newEngine("faq", faqMessages)
}

func newEngine(id string, messages func() []models.BotMessage) *flow.Engine[*state] {
	node := flow.Node[*state]{
		Messages: func(_ *state, _ *flow.Context) []models.BotMessage {
			return messages()
		},
		QuickReplies: func(_ *state, _ *flow.Context) []string {
			return []string{flow.EndChatLabel}
		},
	}

	return flow.NewEngine(id, initState, map[string]flow.Node[*state]{nodeInfo: node})
}

func initState(_ *flow.Context) *state {
	s := &state{}
	s.SetCurrentNode(nodeInfo)

	return s
}

func aboutMessages() []models.BotMessage {
	return models.PrintyAll(
		"Hi! I'm Printy 🖨️, the dashboard assistant.",
		"I can update orders, answer tickets and manage the service portfolio for you. Select some rows and open a chat, or just ask me about an ORD-, TCK- or SRV- code.",
	)
}

func faqMessages() []models.BotMessage {
	return models.PrintyAll(
		"Here's what admins ask me most:",
		"• \"How do I change an order's status?\" — select the order, open a chat and pick Change Status.\n"+
			"• \"Can I update several at once?\" — yes, select multiple rows and I'll offer bulk actions.\n"+
			"• \"How do quotes work?\" — Create Quote sets the price and puts the order back to Pending until the customer confirms.\n"+
			"• \"How do I add a service?\" — open an Add Service chat and I'll walk you through it.",
	)
}
