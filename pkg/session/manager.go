// Package session manages live conversations: it routes an opening request to
// a flow, keys flow state by session ID, records transcripts and sweeps idle
// sessions.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/printyhq/printy-assist/pkg/dispatcher"
	"github.com/printyhq/printy-assist/pkg/eventbus"
	"github.com/printyhq/printy-assist/pkg/events"
	"github.com/printyhq/printy-assist/pkg/flow"
	"github.com/printyhq/printy-assist/pkg/models"
	"github.com/printyhq/printy-assist/pkg/otelhelper"
	"github.com/printyhq/printy-assist/pkg/persistence"
	"github.com/robfig/cron/v3"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

var ErrSessionNotFound = errors.New("session not found")

const janitorSchedule = "@every 1m"

// Session is one live conversation.
type Session struct {
	ID         string
	Flow       flow.Flow
	Context    *flow.Context
	Topic      string
	LastActive time.Time
}

type Manager struct {
	logger     *slog.Logger
	store      persistence.Persistence
	bus        eventbus.EventBus
	dispatcher *dispatcher.Dispatcher
	history    History
	ttl        time.Duration

	tracer trace.Tracer

	mu       sync.Mutex
	sessions map[string]*Session
	cron     *cron.Cron
}

// NewManager wires the session layer. ttl bounds how long an idle conversation
// survives before the janitor ends it; zero disables sweeping.
func NewManager(logger *slog.Logger, store persistence.Persistence, bus eventbus.EventBus, disp *dispatcher.Dispatcher, history History, ttl time.Duration) *Manager {
	return &Manager{
		logger:     logger.With("module", "session"),
		store:      store,
		bus:        bus,
		dispatcher: disp,
		history:    history,
		ttl:        ttl,
		sessions:   make(map[string]*Session),
	}
}

// WithTracer enables a span per opened session and per turn.
func (m *Manager) WithTracer(tracer trace.Tracer) *Manager {
	m.tracer = tracer

	return m
}

// StartResult is what the UI needs to render an opened conversation.
type StartResult struct {
	SessionID    string              `json:"session_id"`
	FlowID       string              `json:"flow_id"`
	Messages     []models.BotMessage `json:"messages"`
	QuickReplies []string            `json:"quick_replies"`
}

// Open resolves a flow for the topic (or probes the text when the topic is
// empty), builds its context and runs the initial turn.
func (m *Manager) Open(ctx context.Context, topic, text string, selectedIDs []string) (*StartResult, error) {
	if m.tracer != nil {
		var span trace.Span

		ctx, span = otelhelper.StartSpan(ctx, m.tracer, "session.open",
			attribute.String(otelhelper.TopicKey, topic),
		)
		defer span.End()
	}

	var (
		f   flow.Flow
		err error
	)

	if topic != "" {
		f, err = m.dispatcher.ResolveTopic(topic)
	} else {
		var probed []string

		f, probed, err = m.dispatcher.Probe(text)
		if len(selectedIDs) == 0 {
			selectedIDs = probed
		}
	}

	if err != nil {
		return nil, fmt.Errorf("failed to resolve flow: %w", err)
	}

	sessionID := uuid.New().String()

	fctx, err := buildContext(ctx, m.logger, m.store, m.bus, sessionID, selectedIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to build flow context: %w", err)
	}

	messages := f.Initial(ctx, fctx)
	quickReplies := f.QuickReplies()

	session := &Session{
		ID:         sessionID,
		Flow:       f,
		Context:    fctx,
		Topic:      topic,
		LastActive: time.Now().UTC(),
	}

	m.mu.Lock()
	m.sessions[sessionID] = session
	m.mu.Unlock()

	m.publish(ctx, sessionID, events.SessionStarted{
		BaseEvent: events.NewBaseEvent(events.SessionStartedEvent, sessionID),
		FlowID:    f.ID(),
		Topic:     topic,
	})

	m.record(ctx, sessionID, messages...)

	m.logger.Info("Session opened", "session_id", sessionID, "flow", f.ID())

	return &StartResult{
		SessionID:    sessionID,
		FlowID:       f.ID(),
		Messages:     messages,
		QuickReplies: quickReplies,
	}, nil
}

// Send runs one turn of an existing conversation.
func (m *Manager) Send(ctx context.Context, sessionID, input string) (flow.Turn, error) {
	var span trace.Span

	if m.tracer != nil {
		ctx, span = otelhelper.StartSpan(ctx, m.tracer, "session.turn",
			attribute.String(otelhelper.SessionIDKey, sessionID),
		)
		defer span.End()
	}

	m.mu.Lock()
	session, ok := m.sessions[sessionID]
	if ok {
		session.LastActive = time.Now().UTC()
	}
	m.mu.Unlock()

	if !ok {
		if span != nil {
			otelhelper.SetError(span, ErrSessionNotFound)
		}

		return flow.Turn{}, ErrSessionNotFound
	}

	m.record(ctx, sessionID, models.BotMessage{Role: models.UserRole, Text: input})

	turn := session.Flow.Respond(ctx, session.Context, input)

	m.record(ctx, sessionID, turn.Messages...)

	if flow.IsEndChat(input) {
		m.end(ctx, session, "user")
	}

	return turn, nil
}

// Transcript returns the recorded conversation so far.
func (m *Manager) Transcript(ctx context.Context, sessionID string) ([]Entry, error) {
	return m.history.Transcript(ctx, sessionID)
}

// End closes a session explicitly, regardless of its node.
func (m *Manager) End(ctx context.Context, sessionID, reason string) error {
	m.mu.Lock()
	session, ok := m.sessions[sessionID]
	m.mu.Unlock()

	if !ok {
		return ErrSessionNotFound
	}

	m.end(ctx, session, reason)

	return nil
}

func (m *Manager) end(ctx context.Context, session *Session, reason string) {
	m.mu.Lock()
	delete(m.sessions, session.ID)
	m.mu.Unlock()

	m.publish(ctx, session.ID, events.SessionEnded{
		BaseEvent: events.NewBaseEvent(events.SessionEndedEvent, session.ID),
		FlowID:    session.Flow.ID(),
		Reason:    reason,
	})

	m.logger.Info("Session ended", "session_id", session.ID, "reason", reason)
}

// ActiveSessions returns how many conversations are currently open.
func (m *Manager) ActiveSessions() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	return len(m.sessions)
}

// StartJanitor begins the periodic sweep of idle sessions.
func (m *Manager) StartJanitor() error {
	if m.ttl <= 0 {
		return nil
	}

	m.cron = cron.New()

	_, err := m.cron.AddFunc(janitorSchedule, func() {
		m.SweepIdle(context.Background())
	})
	if err != nil {
		return fmt.Errorf("failed to schedule session janitor: %w", err)
	}

	m.cron.Start()

	m.logger.Info("Session janitor started", "ttl", m.ttl.String())

	return nil
}

// SweepIdle ends every session idle longer than the configured ttl.
func (m *Manager) SweepIdle(ctx context.Context) {
	cutoff := time.Now().UTC().Add(-m.ttl)

	m.mu.Lock()
	expired := make([]*Session, 0)

	for _, session := range m.sessions {
		if session.LastActive.Before(cutoff) {
			expired = append(expired, session)
		}
	}
	m.mu.Unlock()

	for _, session := range expired {
		m.end(ctx, session, "idle")
	}
}

// Close stops the janitor and releases the history store.
func (m *Manager) Close() error {
	if m.cron != nil {
		m.cron.Stop()
	}

	if m.history == nil {
		return nil
	}

	return m.history.Close()
}

func (m *Manager) publish(ctx context.Context, key string, event eventbus.Event) {
	if m.bus == nil {
		return
	}

	if err := m.bus.Publish(ctx, key, event); err != nil {
		m.logger.Error("Failed to publish session event", "event_type", event.GetType(), "error", err)
	}
}

func (m *Manager) record(ctx context.Context, sessionID string, messages ...models.BotMessage) {
	if m.history == nil || len(messages) == 0 {
		return
	}

	entries := make([]Entry, 0, len(messages))
	now := time.Now().UTC()

	for _, msg := range messages {
		entries = append(entries, Entry{Role: msg.Role, Text: msg.Text, At: now})
	}

	if err := m.history.Append(ctx, sessionID, entries...); err != nil {
		m.logger.Error("Failed to record transcript", "session_id", sessionID, "error", err)
	}
}
