package app

import (
	"context"
	"testing"
	"time"

	"realtime_chat_service/internal/chat/domain"
	"realtime_chat_service/pkg/logger"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/mongo"
)

func TestPreviewText_EmptyConversation(t *testing.T) {
	assert.Equal(t, domain.EmptyConversationPreview, previewText("alice", nil, 0))
}

func TestPreviewText_OwnLastMessage(t *testing.T) {
	msg := &domain.ChatMessage{SenderID: "alice", Text: "hi"}
	assert.Equal(t, "sent: hi ✓", previewText("alice", msg, 0))

	msg.SeenBy = map[string]string{"bob": time.Now().Format(time.RFC3339)}
	assert.Equal(t, "sent: hi ✓✓", previewText("alice", msg, 0))

	voice := &domain.ChatMessage{
		SenderID:  "alice",
		VoiceNote: &domain.VoiceNote{URL: "http://media/voice/1", DurationSeconds: 2},
	}
	assert.Equal(t, "sent: 🎤 Voice note ✓", previewText("alice", voice, 0))
}

func TestPreviewText_PeerVoiceNote(t *testing.T) {
	msg := &domain.ChatMessage{
		SenderID:  "bob",
		VoiceNote: &domain.VoiceNote{URL: "http://media/voice/1", DurationSeconds: 2},
	}

	assert.Equal(t, "🎤 Voice note", previewText("alice", msg, 0))
	assert.Equal(t, "1 new voice msg", previewText("alice", msg, 1))
	assert.Equal(t, "(2) new msgs", previewText("alice", msg, 2))
}

func TestPreviewText_PeerText(t *testing.T) {
	msg := &domain.ChatMessage{SenderID: "bob", Text: "see you at 8"}

	assert.Equal(t, "see you at 8", previewText("alice", msg, 0))
	assert.Equal(t, "see you at 8", previewText("alice", msg, 1))
	assert.Equal(t, "(3) new msgs", previewText("alice", msg, 3))
}

func TestTimestampLabel(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

	assert.Equal(t, "Now", timestampLabel(now.Add(-30*time.Minute), now))
	assert.Equal(t, "09:15", timestampLabel(time.Date(2025, 3, 10, 9, 15, 0, 0, time.UTC), now))
	assert.Equal(t, "Yesterday", timestampLabel(now.Add(-30*time.Hour), now))
	assert.Equal(t, "Feb 20", timestampLabel(time.Date(2025, 2, 20, 8, 0, 0, 0, time.UTC), now))
}

func TestSummaryUseCase_ListConversations(t *testing.T) {
	logger.SetNewNop()
	ctx := context.Background()
	userID := "alice"

	convBob := testConversation("alice", "bob")
	now := time.Now()

	mockConvRepo := new(MockConversationRepository)
	mockMsgRepo := new(MockMessageRepository)
	mockInvRepo := new(MockInviteRepository)
	mockDirectory := new(MockMemberDirectory)

	mockInvRepo.On("FindAcceptedByUser", ctx, userID).Return([]*domain.Invite{
		{From: "alice", To: "bob", Status: domain.InviteAccepted},
		{From: "carol", To: "alice", Status: domain.InviteAccepted},
	}, nil)

	mockDirectory.On("GetUser", ctx, "bob").Return(&domain.User{ID: "bob", Name: "Bob", ProfilePic: "bob.png"}, nil)
	mockDirectory.On("GetUser", ctx, "carol").Return(&domain.User{ID: "carol", Name: "Carol"}, nil)

	// bob: one unread text message
	mockConvRepo.On("FindByParticipants", ctx, "alice", "bob").Return(convBob, nil)
	mockMsgRepo.On("FindByConversation", ctx, convBob.ID).Return([]domain.ChatMessage{
		{ID: "m1", ConversationID: convBob.ID, SenderID: "bob", Text: "hello", Timestamp: now.UnixNano()},
	}, nil)
	mockMsgRepo.On("CountUnread", ctx, convBob.ID, userID).Return(1, nil)

	// carol: contact with no conversation yet
	mockConvRepo.On("FindByParticipants", ctx, "alice", "carol").Return(nil, mongo.ErrNoDocuments)

	messageUC := NewMessageUseCase(mockConvRepo, mockMsgRepo, nil)
	uc := NewSummaryUseCase(mockConvRepo, mockMsgRepo, mockInvRepo, mockDirectory, messageUC)

	summaries, err := uc.ListConversations(ctx, userID)

	assert.NoError(t, err)
	assert.Len(t, summaries, 2)

	// conversations with messages come before never-messaged contacts
	assert.Equal(t, "Bob", summaries[0].PeerName)
	assert.Equal(t, "hello", summaries[0].Preview)
	assert.Equal(t, 1, summaries[0].UnreadCount)
	assert.Equal(t, "Now", summaries[0].TimeLabel)
	assert.Equal(t, "bob.png", summaries[0].PeerAvatar)

	assert.Equal(t, "Carol", summaries[1].PeerName)
	assert.Equal(t, domain.EmptyConversationPreview, summaries[1].Preview)
	assert.Zero(t, summaries[1].UnreadCount)
	assert.Empty(t, summaries[1].ConversationID)
}

func TestSummaryUseCase_OwnLastMessageCarriesDelivery(t *testing.T) {
	logger.SetNewNop()
	ctx := context.Background()
	conv := testConversation("alice", "bob")
	now := time.Now()

	mockConvRepo := new(MockConversationRepository)
	mockMsgRepo := new(MockMessageRepository)
	mockInvRepo := new(MockInviteRepository)
	mockDirectory := new(MockMemberDirectory)

	mockInvRepo.On("FindAcceptedByUser", ctx, "alice").Return([]*domain.Invite{
		{From: "alice", To: "bob", Status: domain.InviteAccepted},
	}, nil)
	mockDirectory.On("GetUser", ctx, "bob").Return(&domain.User{ID: "bob", Name: "Bob"}, nil)
	mockConvRepo.On("FindByParticipants", ctx, "alice", "bob").Return(conv, nil)
	mockMsgRepo.On("FindByConversation", ctx, conv.ID).Return([]domain.ChatMessage{
		{
			ID:             "m1",
			ConversationID: conv.ID,
			SenderID:       "alice",
			Text:           "on my way",
			Timestamp:      now.UnixNano(),
			SeenBy:         map[string]string{"bob": now.Format(time.RFC3339)},
		},
	}, nil)
	mockMsgRepo.On("CountUnread", ctx, conv.ID, "alice").Return(0, nil)

	messageUC := NewMessageUseCase(mockConvRepo, mockMsgRepo, nil)
	uc := NewSummaryUseCase(mockConvRepo, mockMsgRepo, mockInvRepo, mockDirectory, messageUC)

	summaries, err := uc.ListConversations(ctx, "alice")

	assert.NoError(t, err)
	assert.Len(t, summaries, 1)
	assert.Equal(t, "sent: on my way ✓✓", summaries[0].Preview)
	assert.Equal(t, domain.DeliverySeen, summaries[0].Delivery)
}

func TestSummaryUseCase_DirectoryOutageKeepsRow(t *testing.T) {
	logger.SetNewNop()
	ctx := context.Background()

	mockConvRepo := new(MockConversationRepository)
	mockMsgRepo := new(MockMessageRepository)
	mockInvRepo := new(MockInviteRepository)
	mockDirectory := new(MockMemberDirectory)

	mockInvRepo.On("FindAcceptedByUser", ctx, "alice").Return([]*domain.Invite{
		{From: "alice", To: "bob", Status: domain.InviteAccepted},
	}, nil)
	mockDirectory.On("GetUser", ctx, "bob").Return(nil, assert.AnError)
	mockConvRepo.On("FindByParticipants", ctx, "alice", "bob").Return(nil, mongo.ErrNoDocuments)

	messageUC := NewMessageUseCase(mockConvRepo, mockMsgRepo, nil)
	uc := NewSummaryUseCase(mockConvRepo, mockMsgRepo, mockInvRepo, mockDirectory, messageUC)

	summaries, err := uc.ListConversations(ctx, "alice")

	assert.NoError(t, err)
	assert.Len(t, summaries, 1)
	// raw id stands in for the unresolved profile
	assert.Equal(t, "bob", summaries[0].PeerName)
}
