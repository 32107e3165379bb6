package session

import (
	"context"
	"time"
)

// Entry is a single transcript line, either a user input or a bot utterance.
type Entry struct {
	Role string    `json:"role"`
	Text string    `json:"text"`
	At   time.Time `json:"at"`
}

// History stores conversation transcripts keyed by session ID.
type History interface {
	Append(ctx context.Context, sessionID string, entries ...Entry) error
	Transcript(ctx context.Context, sessionID string) ([]Entry, error)
	Clear(ctx context.Context, sessionID string) error
	Close() error
}
