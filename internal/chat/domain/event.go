package domain

// Event kinds published on the conversation pub/sub channel
const (
	// EventAppend a message was appended
	EventAppend = "append"
	// EventSeen read receipts changed
	EventSeen = "seen"
)

// ConversationEvent notification that a conversation's state changed.
// Subscribers re-query the full history on every event, the stream
// delivers cumulative snapshots rather than deltas.
type ConversationEvent struct {
	ConversationID string `json:"conversation_id"`
	Kind           string `json:"kind"`
	MessageID      string `json:"message_id,omitempty"`
	ActorID        string `json:"actor_id,omitempty"`
}
