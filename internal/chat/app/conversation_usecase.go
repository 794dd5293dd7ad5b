package app

import (
	"context"
	"errors"
	"time"

	"realtime_chat_service/internal/chat/domain"
	"realtime_chat_service/internal/chat/repository"
	errprocess "realtime_chat_service/pkg/err"

	"go.mongodb.org/mongo-driver/mongo"
)

// ConversationUseCase resolves and lazily creates two-party conversations
type ConversationUseCase struct {
	convRepo repository.ConversationRepository
}

// NewConversationUseCase init conversation use case
func NewConversationUseCase(convRepo repository.ConversationRepository) *ConversationUseCase {
	return &ConversationUseCase{
		convRepo: convRepo,
	}
}

// FindOrCreate return the conversation between the two users, creating it
// on first contact. The deterministic id makes racing creators converge on
// the same document, so a duplicate-key insert means another caller won and
// the lookup is repeated.
func (uc *ConversationUseCase) FindOrCreate(ctx context.Context, userA, userB string) (*domain.Conversation, error) {
	if userA == "" || userB == "" {
		return nil, errprocess.Validationf("conversation needs two user ids")
	}
	if userA == userB {
		return nil, errprocess.Validationf("cannot open a conversation with yourself")
	}

	conv, err := uc.convRepo.FindByParticipants(ctx, userA, userB)
	if err == nil {
		return conv, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, err
	}

	conv = &domain.Conversation{
		ID:           domain.ConversationID(userA, userB),
		Participants: []string{userA, userB},
		CreatedAt:    time.Now().Unix(),
	}
	if err := uc.convRepo.Create(ctx, conv); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return uc.convRepo.FindByID(ctx, conv.ID)
		}
		return nil, err
	}
	return conv, nil
}

// Get fetch a conversation by id
func (uc *ConversationUseCase) Get(ctx context.Context, convID string) (*domain.Conversation, error) {
	conv, err := uc.convRepo.FindByID(ctx, convID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, errprocess.NotFoundf("conversation %s", convID)
		}
		return nil, err
	}
	return conv, nil
}
