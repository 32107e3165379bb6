// Package web provides HTTP request and response types for the chat API.
package web

import (
	"github.com/printyhq/printy-assist/pkg/models"
	"github.com/printyhq/printy-assist/pkg/session"
)

// OpenChatRequest opens a conversation. Either an explicit topic or a free
// text to probe must be present.
type OpenChatRequest struct {
	Topic       string   `json:"topic"        validate:"required_without=Text"`
	Text        string   `json:"text"         validate:"required_without=Topic"`
	SelectedIDs []string `json:"selected_ids"`
}

// SendMessageRequest is one user turn in an open conversation.
type SendMessageRequest struct {
	Text string `json:"text" validate:"required"`
}

// TurnResponse is the bot's side of one turn.
type TurnResponse struct {
	Messages     []models.BotMessage `json:"messages"`
	QuickReplies []string            `json:"quick_replies"`
}

// TranscriptResponse is the recorded conversation so far.
type TranscriptResponse struct {
	SessionID string          `json:"session_id"`
	Entries   []session.Entry `json:"entries"`
}
