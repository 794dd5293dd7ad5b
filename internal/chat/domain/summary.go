package domain

// EmptyConversationPreview preview shown before the first message
const EmptyConversationPreview = "Start a conversation!"

// ConversationSummary one chat-list row. Derived from the message stream
// and receipt state on demand, never persisted.
type ConversationSummary struct {
	ConversationID string        `json:"conversation_id,omitempty"`
	PeerID         string        `json:"peer_id"`
	PeerName       string        `json:"peer_name"`
	PeerAvatar     string        `json:"peer_avatar,omitempty"`
	Preview        string        `json:"preview"`
	TimeLabel      string        `json:"time_label,omitempty"`
	UnreadCount    int           `json:"unread_count"`
	Delivery       DeliveryState `json:"delivery,omitempty"`
	LastMessageAt  int64         `json:"last_message_at,omitempty"`
}
