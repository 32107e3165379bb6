package flow

import (
	"context"
	"testing"

	"github.com/printyhq/printy-assist/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testState struct {
	NodeCursor

	Counter int
}

func newTestEngine() *Engine[*testState] {
	nodes := map[string]Node[*testState]{
		"start": {
			Messages: func(_ *testState, _ *Context) []models.BotMessage {
				return models.PrintyAll("Welcome!")
			},
			QuickReplies: func(_ *testState, _ *Context) []string {
				return []string{"Go", EndChatLabel}
			},
			HandleInput: func(input string, _ *testState, _ *Context) *Transition[*testState] {
				if input != "Go" {
					return nil
				}

				return &Transition[*testState]{
					Next:   "second",
					Update: func(s *testState) { s.Counter++ },
				}
			},
		},
		"second": {
			Messages: func(s *testState, _ *Context) []models.BotMessage {
				return models.PrintyAll("You made it.")
			},
			QuickReplies: func(_ *testState, _ *Context) []string {
				return []string{"Dead End", EndChatLabel}
			},
			HandleInput: func(input string, _ *testState, _ *Context) *Transition[*testState] {
				if input != "Dead End" {
					return nil
				}

				return &Transition[*testState]{Next: "missing"}
			},
		},
	}

	return NewEngine("test", func(_ *Context) *testState {
		s := &testState{}
		s.SetCurrentNode("start")

		return s
	}, nodes)
}

func TestEngine_Initial(t *testing.T) {
	engine := newTestEngine()

	messages := engine.Initial(context.Background(), &Context{})

	require.Len(t, messages, 1)
	assert.Equal(t, models.Printy("Welcome!"), messages[0])
	assert.Equal(t, []string{"Go", EndChatLabel}, engine.QuickReplies())
}

func TestEngine_EndChatInterrupt(t *testing.T) {
	for _, input := range []string{"end chat", "END CHAT", "End", "  end  "} {
		engine := newTestEngine()
		engine.Initial(context.Background(), &Context{})

		turn := engine.Respond(context.Background(), nil, input)

		assert.Equal(t, EndTurn(), turn, "input %q", input)
		// The interrupt is engine-level; the node never sees the turn.
		assert.Equal(t, "start", engine.State().CurrentNode())
		assert.Zero(t, engine.State().Counter)
	}
}

func TestEngine_EndChatAfterTransition(t *testing.T) {
	engine := newTestEngine()
	engine.Initial(context.Background(), &Context{})
	engine.Respond(context.Background(), nil, "Go")

	turn := engine.Respond(context.Background(), nil, "end")

	assert.Equal(t, EndTurn(), turn)
}

func TestEngine_TransitionAppliesUpdateThenCursor(t *testing.T) {
	engine := newTestEngine()
	engine.Initial(context.Background(), &Context{})

	turn := engine.Respond(context.Background(), nil, "Go")

	assert.Equal(t, "second", engine.State().CurrentNode())
	assert.Equal(t, 1, engine.State().Counter)
	// Output is re-derived from the node active after the transition.
	assert.Equal(t, models.PrintyAll("You made it."), turn.Messages)
	assert.Equal(t, []string{"Dead End", EndChatLabel}, turn.QuickReplies)
}

func TestEngine_FallbackOnUnknownInput(t *testing.T) {
	engine := newTestEngine()
	engine.Initial(context.Background(), &Context{})

	turn := engine.Respond(context.Background(), nil, "gibberish")

	require.Len(t, turn.Messages, 1)
	assert.Equal(t, "Please use the options below.", turn.Messages[0].Text)
	assert.Equal(t, []string{"Go", EndChatLabel}, turn.QuickReplies)
	assert.Equal(t, "start", engine.State().CurrentNode())
	assert.Zero(t, engine.State().Counter)
}

func TestEngine_UnregisteredNodeEndsChat(t *testing.T) {
	engine := newTestEngine()
	engine.Initial(context.Background(), &Context{})
	engine.Respond(context.Background(), nil, "Go")

	turn := engine.Respond(context.Background(), nil, "Dead End")

	assert.Equal(t, EndTurn(), turn)
}

func TestEngine_MessageOverrideSkipsNodeProducers(t *testing.T) {
	override := models.PrintyAll("custom")
	nodes := map[string]Node[*testState]{
		"only": {
			Messages: func(_ *testState, _ *Context) []models.BotMessage {
				return models.PrintyAll("node-produced")
			},
			QuickReplies: func(_ *testState, _ *Context) []string {
				return []string{EndChatLabel}
			},
			HandleInput: func(_ string, _ *testState, _ *Context) *Transition[*testState] {
				return &Transition[*testState]{Messages: override, QuickReplies: []string{"A", EndChatLabel}}
			},
		},
	}

	engine := NewEngine("override", func(_ *Context) *testState {
		s := &testState{}
		s.SetCurrentNode("only")

		return s
	}, nodes)
	engine.Initial(context.Background(), &Context{})

	turn := engine.Respond(context.Background(), nil, "anything")

	assert.Equal(t, override, turn.Messages)
	assert.Equal(t, []string{"A", EndChatLabel}, turn.QuickReplies)
}
