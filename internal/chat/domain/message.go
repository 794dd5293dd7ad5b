package domain

import "time"

// VoiceNotePreview preview text stored for voice-note messages
const VoiceNotePreview = "🎤 Voice note"

// MinVoiceNoteSeconds recordings shorter than this are rejected
const MinVoiceNoteSeconds = 1.0

// VoiceNote voice attachment, the url points into the media service
type VoiceNote struct {
	URL             string  `bson:"url" json:"url"`
	DurationSeconds float64 `bson:"duration_seconds" json:"duration_seconds"`
}

// ReplySnapshot denormalized copy of the replied-to message, frozen at
// append time
type ReplySnapshot struct {
	ID        string     `bson:"id" json:"id"`
	SenderID  string     `bson:"sender_id" json:"sender_id"`
	Text      string     `bson:"text,omitempty" json:"text,omitempty"`
	VoiceNote *VoiceNote `bson:"voice_note,omitempty" json:"voice_note,omitempty"`
}

// ChatMessage one message in a conversation. Exactly one of Text/VoiceNote
// is populated. Append-only: after creation only SeenBy ever changes, and
// only by gaining entries. SeenBy maps reader id to the RFC3339 time the
// reader observed the message; senders never gain a self entry.
type ChatMessage struct {
	ID             string            `bson:"_id,omitempty" json:"id"`
	ConversationID string            `bson:"conversation_id" json:"conversation_id"`
	SenderID       string            `bson:"sender_id" json:"sender_id"`
	Text           string            `bson:"text,omitempty" json:"text,omitempty"`
	VoiceNote      *VoiceNote        `bson:"voice_note,omitempty" json:"voice_note,omitempty"`
	Timestamp      int64             `bson:"timestamp" json:"timestamp"`
	SeenBy         map[string]string `bson:"seen_by,omitempty" json:"seen_by,omitempty"`
	ReplyTo        *ReplySnapshot    `bson:"reply_to,omitempty" json:"reply_to,omitempty"`
}

// IsVoice check the message carries a voice note
func (m *ChatMessage) IsVoice() bool {
	return m.VoiceNote != nil
}

// SeenByUser check the reader already acknowledged the message
func (m *ChatMessage) SeenByUser(userID string) bool {
	_, ok := m.SeenBy[userID]
	return ok
}

// PreviewText the text cached on the conversation for this message
func (m *ChatMessage) PreviewText() string {
	if m.IsVoice() {
		return VoiceNotePreview
	}
	return m.Text
}

// Time the message timestamp as time.Time
func (m *ChatMessage) Time() time.Time {
	return time.Unix(0, m.Timestamp)
}

// DeliveryState sender-side delivery state of a message
type DeliveryState string

const (
	// DeliverySent nobody acknowledged the message yet
	DeliverySent DeliveryState = "Sent"
	// DeliveryDelivered acknowledged, but not by the peer
	DeliveryDelivered DeliveryState = "Delivered"
	// DeliverySeen the peer acknowledged the message
	DeliverySeen DeliveryState = "Seen"
)

// MessageGroup calendar-day bucket of ordered messages, a read-side
// projection that is never stored
type MessageGroup struct {
	Date     string        `json:"date"`
	Messages []ChatMessage `json:"messages"`
}
