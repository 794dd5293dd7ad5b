package domain

// Action websocket request action
type Action string

const (
	// SendInvite websocket action send_invite
	SendInvite Action = "send_invite"
	// RespondInvite websocket action respond_invite
	RespondInvite Action = "respond_invite"
	// ListPending websocket action list_pending
	ListPending Action = "list_pending"

	// OpenConversation websocket action open_conversation
	OpenConversation Action = "open_conversation"
	// CloseConversation websocket action close_conversation
	CloseConversation Action = "close_conversation"

	// SendMessage websocket action send_message
	SendMessage Action = "send_message"
	// MarkSeen websocket action mark_seen
	MarkSeen Action = "mark_seen"

	// ListConversations websocket action list_conversations
	ListConversations Action = "list_conversations"

	// ConversationSnapshot server push carrying the full ordered history
	ConversationSnapshot Action = "conversation_snapshot"
)

// WSRequest websocket Request
type WSRequest struct {
	Action         string     `json:"action"`
	PeerID         string     `json:"peer_id"`
	ConversationID string     `json:"conversation_id"`
	InviteID       string     `json:"invite_id"`
	Accept         bool       `json:"accept"`
	Content        string     `json:"content"`
	VoiceNote      *VoiceNote `json:"voice_note,omitempty"`
	ReplyToID      string     `json:"reply_to_id"`
	MessageIDs     []string   `json:"message_ids"`
}

// WSResponse websocket Response
type WSResponse struct {
	Action  string                 `json:"action"`
	Success bool                   `json:"success"`
	Payload map[string]interface{} `json:"payload,omitempty"`
	Error   string                 `json:"error,omitempty"`
}
