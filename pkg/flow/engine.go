package flow

import (
	"context"
	"log/slog"
	"strings"

	"github.com/printyhq/printy-assist/pkg/models"
)

// EndChatLabel is the universal exit affordance every choice node offers.
const EndChatLabel = "End Chat"

const (
	endChatText  = "Thanks! Chat ended."
	fallbackText = "Please use the options below."
)

// EndTurn is the universal end-of-chat response. The engine short-circuits to
// it on "end chat"/"end" regardless of the active node, and falls back to it
// when the cursor names an unregistered node.
func EndTurn() Turn {
	return Turn{
		Messages:     []models.BotMessage{models.Printy(endChatText)},
		QuickReplies: []string{EndChatLabel},
	}
}

// IsEndChat reports whether input is the global end-of-chat interrupt.
func IsEndChat(input string) bool {
	trimmed := strings.TrimSpace(input)

	return strings.EqualFold(trimmed, "end chat") || strings.EqualFold(trimmed, "end")
}

// Engine drives one conversation over a registry of nodes. It is generic over
// the concrete flow's state struct; all session data lives on the instance, so
// concurrent conversations get concurrent engines.
type Engine[S State] struct {
	id     string
	init   func(fctx *Context) S
	nodes  map[string]Node[S]
	state  S
	fctx   *Context
	logger *slog.Logger
}

// NewEngine builds an engine for one conversation. init seeds the flow state,
// including the entry node id, from the injected context.
func NewEngine[S State](id string, init func(fctx *Context) S, nodes map[string]Node[S]) *Engine[S] {
	return &Engine[S]{
		id:     id,
		init:   init,
		nodes:  nodes,
		logger: slog.With("module", "flow", "flow_id", id),
	}
}

func (e *Engine[S]) ID() string { return e.id }

// State exposes the live flow state for tests.
func (e *Engine[S]) State() S { return e.state }

// Initial stores the context, seeds the state and returns the entry node's
// opening messages.
func (e *Engine[S]) Initial(_ context.Context, fctx *Context) []models.BotMessage {
	e.fctx = fctx
	e.state = e.init(fctx)

	node, ok := e.nodes[e.state.CurrentNode()]
	if !ok || node.Messages == nil {
		e.logger.Warn("entry node not registered", "node_id", e.state.CurrentNode())

		return EndTurn().Messages
	}

	return node.Messages(e.state, e.fctx)
}

// QuickReplies reflects the currently active node exactly.
func (e *Engine[S]) QuickReplies() []string {
	node, ok := e.nodes[e.state.CurrentNode()]
	if !ok || node.QuickReplies == nil {
		return []string{EndChatLabel}
	}

	return node.QuickReplies(e.state, e.fctx)
}

// Respond consumes one turn of user input. Dispatch order: global end-chat
// interrupt, node lookup (an unregistered cursor terminates the conversation
// defensively), node input handler, engine fallback on a nil verdict.
func (e *Engine[S]) Respond(_ context.Context, fctx *Context, input string) Turn {
	if fctx != nil {
		e.fctx = fctx
	}

	if IsEndChat(input) {
		return EndTurn()
	}

	node, ok := e.nodes[e.state.CurrentNode()]
	if !ok {
		e.logger.Warn("active node not registered, ending chat", "node_id", e.state.CurrentNode())

		return EndTurn()
	}

	if node.HandleInput == nil {
		return e.fallback(node)
	}

	transition := node.HandleInput(input, e.state, e.fctx)
	if transition == nil {
		return e.fallback(node)
	}

	if transition.Update != nil {
		transition.Update(e.state)
	}

	if transition.Next != "" {
		e.state.SetCurrentNode(transition.Next)
	}

	active, ok := e.nodes[e.state.CurrentNode()]
	if !ok {
		e.logger.Warn("transition targeted unregistered node, ending chat", "node_id", e.state.CurrentNode())

		return EndTurn()
	}

	turn := Turn{
		Messages:     transition.Messages,
		QuickReplies: transition.QuickReplies,
	}

	if turn.Messages == nil && active.Messages != nil {
		turn.Messages = active.Messages(e.state, e.fctx)
	}

	if turn.QuickReplies == nil && active.QuickReplies != nil {
		turn.QuickReplies = active.QuickReplies(e.state, e.fctx)
	}

	return turn
}

// fallback re-displays the current node without touching state. Unrecognized
// input is rejected with a reprompt, never silently dropped.
func (e *Engine[S]) fallback(node Node[S]) Turn {
	turn := Turn{
		Messages:     []models.BotMessage{models.Printy(fallbackText)},
		QuickReplies: []string{EndChatLabel},
	}

	if node.QuickReplies != nil {
		turn.QuickReplies = node.QuickReplies(e.state, e.fctx)
	}

	return turn
}
