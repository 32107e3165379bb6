package session

import (
	"context"
	"sync"
)

// MemoryHistory keeps transcripts in process memory. It is the default store
// and the one tests use.
type MemoryHistory struct {
	mu          sync.RWMutex
	transcripts map[string][]Entry
}

func NewMemoryHistory() *MemoryHistory {
	return &MemoryHistory{
		transcripts: make(map[string][]Entry),
	}
}

func (h *MemoryHistory) Append(_ context.Context, sessionID string, entries ...Entry) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.transcripts[sessionID] = append(h.transcripts[sessionID], entries...)

	return nil
}

func (h *MemoryHistory) Transcript(_ context.Context, sessionID string) ([]Entry, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	transcript := h.transcripts[sessionID]
	out := make([]Entry, len(transcript))
	copy(out, transcript)

	return out, nil
}

func (h *MemoryHistory) Clear(_ context.Context, sessionID string) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	delete(h.transcripts, sessionID)

	return nil
}

func (h *MemoryHistory) Close() error {
	return nil
}
