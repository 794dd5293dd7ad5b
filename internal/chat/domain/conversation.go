package domain

import (
	"strings"

	"realtime_chat_service/pkg"
)

// ConversationID build the deterministic id of a two-party conversation.
// Derived from the sorted participant pair so concurrent creation for the
// same pair lands on the same document.
func ConversationID(userA, userB string) string {
	first, second := pkg.SortedPair(userA, userB)
	return strings.Join([]string{first, second}, ":")
}

// Conversation definition a two-party conversation.
// The last_message fields are a denormalized cache of the newest message,
// refreshed after every append. LastMessageTime is unix nano, 0 means the
// conversation has no messages yet.
type Conversation struct {
	ID                  string   `bson:"_id"`
	Participants        []string `bson:"participants"`
	CreatedAt           int64    `bson:"created_at"`
	LastMessage         string   `bson:"last_message,omitempty"`
	LastMessageTime     int64    `bson:"last_message_time,omitempty"`
	LastMessageSenderID string   `bson:"last_message_sender_id,omitempty"`
}

// Peer return the other participant, empty when userID is not a participant
func (c *Conversation) Peer(userID string) string {
	for _, p := range c.Participants {
		if p != userID {
			return p
		}
	}
	return ""
}

// HasParticipant check userID belongs to the conversation
func (c *Conversation) HasParticipant(userID string) bool {
	return pkg.Contains(c.Participants, userID)
}
