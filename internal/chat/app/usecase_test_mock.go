package app

import (
	"context"

	"realtime_chat_service/internal/chat/domain"

	"github.com/stretchr/testify/mock"
)

// MockConversationRepository Mock ConversationRepository
type MockConversationRepository struct {
	mock.Mock
}

// Create moke create conversation
func (m *MockConversationRepository) Create(ctx context.Context, conv *domain.Conversation) error {
	args := m.Called(ctx, conv)
	return args.Error(0)
}

// FindByID moke find conversation by id
func (m *MockConversationRepository) FindByID(ctx context.Context, convID string) (*domain.Conversation, error) {
	args := m.Called(ctx, convID)
	if args.Get(0) != nil {
		return args.Get(0).(*domain.Conversation), args.Error(1)
	}
	return nil, args.Error(1)
}

// FindByParticipants moke find conversation holding both users
func (m *MockConversationRepository) FindByParticipants(ctx context.Context, userA, userB string) (*domain.Conversation, error) {
	args := m.Called(ctx, userA, userB)
	if args.Get(0) != nil {
		return args.Get(0).(*domain.Conversation), args.Error(1)
	}
	return nil, args.Error(1)
}

// FindByParticipant moke list conversations of one user
func (m *MockConversationRepository) FindByParticipant(ctx context.Context, userID string) ([]*domain.Conversation, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) != nil {
		return args.Get(0).([]*domain.Conversation), args.Error(1)
	}
	return nil, args.Error(1)
}

// UpdateLastMessage moke refresh preview cache
func (m *MockConversationRepository) UpdateLastMessage(ctx context.Context, convID, preview string, timestamp int64, senderID string) error {
	args := m.Called(ctx, convID, preview, timestamp, senderID)
	return args.Error(0)
}

// MockMessageRepository Mock MessageRepository
type MockMessageRepository struct {
	mock.Mock
}

// Insert moke insert message
func (m *MockMessageRepository) Insert(ctx context.Context, msg *domain.ChatMessage) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

// FindByID moke find message by id
func (m *MockMessageRepository) FindByID(ctx context.Context, convID, messageID string) (*domain.ChatMessage, error) {
	args := m.Called(ctx, convID, messageID)
	if args.Get(0) != nil {
		return args.Get(0).(*domain.ChatMessage), args.Error(1)
	}
	return nil, args.Error(1)
}

// FindByConversation moke full ordered history
func (m *MockMessageRepository) FindByConversation(ctx context.Context, convID string) ([]domain.ChatMessage, error) {
	args := m.Called(ctx, convID)
	if args.Get(0) != nil {
		return args.Get(0).([]domain.ChatMessage), args.Error(1)
	}
	return nil, args.Error(1)
}

// MarkSeen moke mark messages seen
func (m *MockMessageRepository) MarkSeen(ctx context.Context, convID, readerID string, messageIDs []string, seenAt string) error {
	args := m.Called(ctx, convID, readerID, messageIDs, seenAt)
	return args.Error(0)
}

// CountUnread moke count unread messages
func (m *MockMessageRepository) CountUnread(ctx context.Context, convID, readerID string) (int, error) {
	args := m.Called(ctx, convID, readerID)
	return args.Int(0), args.Error(1)
}

// MockInviteRepository Mock InviteRepository
type MockInviteRepository struct {
	mock.Mock
}

// Create moke create invite
func (m *MockInviteRepository) Create(ctx context.Context, inv *domain.Invite) error {
	args := m.Called(ctx, inv)
	return args.Error(0)
}

// FindByID moke find invite by id
func (m *MockInviteRepository) FindByID(ctx context.Context, inviteID string) (*domain.Invite, error) {
	args := m.Called(ctx, inviteID)
	if args.Get(0) != nil {
		return args.Get(0).(*domain.Invite), args.Error(1)
	}
	return nil, args.Error(1)
}

// FindBetween moke newest invite between two users
func (m *MockInviteRepository) FindBetween(ctx context.Context, userA, userB string) (*domain.Invite, error) {
	args := m.Called(ctx, userA, userB)
	if args.Get(0) != nil {
		return args.Get(0).(*domain.Invite), args.Error(1)
	}
	return nil, args.Error(1)
}

// FindPendingByInvitee moke pending invites addressed to the user
func (m *MockInviteRepository) FindPendingByInvitee(ctx context.Context, userID string) ([]*domain.Invite, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) != nil {
		return args.Get(0).([]*domain.Invite), args.Error(1)
	}
	return nil, args.Error(1)
}

// FindAcceptedByUser moke accepted invites touching the user
func (m *MockInviteRepository) FindAcceptedByUser(ctx context.Context, userID string) ([]*domain.Invite, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) != nil {
		return args.Get(0).([]*domain.Invite), args.Error(1)
	}
	return nil, args.Error(1)
}

// UpdateStatus moke update invite status
func (m *MockInviteRepository) UpdateStatus(ctx context.Context, inviteID string, newStatus domain.InviteStatus) error {
	args := m.Called(ctx, inviteID, newStatus)
	return args.Error(0)
}

// MockEventBus Mock EventBus
type MockEventBus struct {
	mock.Mock

	// handlers captured by Subscribe, keyed by channel
	handlers map[string]func(domain.ConversationEvent)
}

// Publish moke publish event
func (m *MockEventBus) Publish(channel string, message interface{}) error {
	args := m.Called(channel, message)
	if m.handlers != nil {
		if h, ok := m.handlers[channel]; ok {
			if event, ok := message.(domain.ConversationEvent); ok {
				h(event)
			}
		}
	}
	return args.Error(0)
}

// Subscribe moke subscribe, keeps the handler for local redelivery
func (m *MockEventBus) Subscribe(ctx context.Context, channel string, handler func(event domain.ConversationEvent)) error {
	args := m.Called(ctx, channel, handler)
	if m.handlers == nil {
		m.handlers = map[string]func(domain.ConversationEvent){}
	}
	m.handlers[channel] = handler
	return args.Error(0)
}

// MockMemberDirectory Mock MemberDirectory
type MockMemberDirectory struct {
	mock.Mock
}

// GetUser moke fetch one user profile
func (m *MockMemberDirectory) GetUser(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) != nil {
		return args.Get(0).(*domain.User), args.Error(1)
	}
	return nil, args.Error(1)
}

// SearchUsers moke search user profiles
func (m *MockMemberDirectory) SearchUsers(ctx context.Context, query string) ([]domain.User, error) {
	args := m.Called(ctx, query)
	if args.Get(0) != nil {
		return args.Get(0).([]domain.User), args.Error(1)
	}
	return nil, args.Error(1)
}
