package models

// BotRole is the speaker tag the UI renders chat bubbles under. The assistant
// always speaks as "printy"; user turns are kept for transcript storage only.
const (
	BotRole  = "printy"
	UserRole = "user"
)

// BotMessage is a single conversational utterance. Flows may emit several per
// turn; order is the literal transcript order.
type BotMessage struct {
	Role string `json:"role"`
	Text string `json:"text"`
}

// Printy wraps text as an assistant utterance.
func Printy(text string) BotMessage {
	return BotMessage{Role: BotRole, Text: text}
}

// PrintyAll wraps each text as an assistant utterance, preserving order.
func PrintyAll(texts ...string) []BotMessage {
	messages := make([]BotMessage, 0, len(texts))
	for _, t := range texts {
		messages = append(messages, Printy(t))
	}

	return messages
}
