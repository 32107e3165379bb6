package flow

import (
	"context"

	"github.com/printyhq/printy-assist/pkg/models"
)

// State is the per-conversation mutable state bag. Concrete flows embed
// NodeCursor and add their own fields; the engine only ever touches the
// cursor.
type State interface {
	CurrentNode() string
	SetCurrentNode(id string)
}

// NodeCursor tracks the active node id. Embed it in a concrete flow state.
type NodeCursor struct {
	nodeID string
}

func (c *NodeCursor) CurrentNode() string      { return c.nodeID }
func (c *NodeCursor) SetCurrentNode(id string) { c.nodeID = id }

// Turn is one exchange's output: the utterances appended to the transcript and
// the currently valid one-tap replies.
type Turn struct {
	Messages     []models.BotMessage `json:"messages"`
	QuickReplies []string            `json:"quick_replies"`
}

// Transition is a node handler's verdict on one turn of input. Zero-value
// fields defer to the engine: an empty Next stays on the current node, nil
// Messages/QuickReplies are re-derived from the node active after the
// transition, a nil Update leaves state untouched. Update is applied by the
// engine before the cursor moves.
type Transition[S State] struct {
	Next         string
	Messages     []models.BotMessage
	QuickReplies []string
	Update       func(s S)
}

// Node is one named conversational state. Messages and QuickReplies render the
// node; HandleInput consumes a turn of raw text and either returns a
// transition or nil to defer to the engine fallback. Side effects happen only
// through Context callbacks inside HandleInput.
type Node[S State] struct {
	Messages     func(s S, fctx *Context) []models.BotMessage
	QuickReplies func(s S, fctx *Context) []string
	HandleInput  func(input string, s S, fctx *Context) *Transition[S]
}

// Flow is the host-facing surface of one conversation's state machine. A flow
// instance serves exactly one conversation; hosts resolve a fresh instance per
// session.
type Flow interface {
	ID() string
	Initial(ctx context.Context, fctx *Context) []models.BotMessage
	QuickReplies() []string
	Respond(ctx context.Context, fctx *Context, input string) Turn
}

// Factory creates flow instances and describes the flow type, mirroring the
// registry contract used for every pluggable component.
type Factory interface {
	Create() Flow
	ID() string
	Name() string
	Description() string
}
