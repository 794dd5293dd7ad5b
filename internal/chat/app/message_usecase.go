package app

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"realtime_chat_service/internal/chat/domain"
	"realtime_chat_service/internal/chat/repository"
	errprocess "realtime_chat_service/pkg/err"
	"realtime_chat_service/pkg/logger"

	"go.mongodb.org/mongo-driver/mongo"
)

// MessagePayload content of a message to append. Exactly one of Text and
// VoiceNote must be set.
type MessagePayload struct {
	Text      string
	VoiceNote *domain.VoiceNote
}

// MessageUseCase the message stream and read-receipt tracker of one
// conversation collection
type MessageUseCase struct {
	convRepo repository.ConversationRepository
	msgRepo  repository.MessageRepository
	events   repository.EventBus
}

// NewMessageUseCase init message use case
func NewMessageUseCase(
	convRepo repository.ConversationRepository,
	msgRepo repository.MessageRepository,
	events repository.EventBus,
) *MessageUseCase {
	return &MessageUseCase{
		convRepo: convRepo,
		msgRepo:  msgRepo,
		events:   events,
	}
}

// Append validate, timestamp and persist a message, then refresh the
// conversation's preview cache and notify live subscribers. The preview
// update is an independent second write: its failure is logged and retried
// once but never escalated, the next append heals the cache.
func (uc *MessageUseCase) Append(ctx context.Context, convID, senderID string, payload MessagePayload, replyToID string) (*domain.ChatMessage, error) {
	conv, err := uc.findConversation(ctx, convID)
	if err != nil {
		return nil, err
	}
	if !conv.HasParticipant(senderID) {
		return nil, errprocess.Validationf("sender %s is not in conversation %s", senderID, convID)
	}

	text := strings.TrimSpace(payload.Text)
	if text == "" && payload.VoiceNote == nil {
		return nil, errprocess.Validationf("message needs text or a voice note")
	}
	if text != "" && payload.VoiceNote != nil {
		return nil, errprocess.Validationf("message cannot carry both text and a voice note")
	}
	if payload.VoiceNote != nil && payload.VoiceNote.DurationSeconds < domain.MinVoiceNoteSeconds {
		return nil, errprocess.Validationf("voice note shorter than %v second", domain.MinVoiceNoteSeconds)
	}

	var replyTo *domain.ReplySnapshot
	if replyToID != "" {
		original, err := uc.msgRepo.FindByID(ctx, convID, replyToID)
		if err != nil {
			if errors.Is(err, mongo.ErrNoDocuments) {
				return nil, errprocess.Validationf("reply target %s not found in conversation %s", replyToID, convID)
			}
			return nil, err
		}
		// frozen copy, later state of the original never leaks into it
		replyTo = &domain.ReplySnapshot{
			ID:       original.ID,
			SenderID: original.SenderID,
			Text:     original.Text,
		}
		if original.VoiceNote != nil {
			vn := *original.VoiceNote
			replyTo.VoiceNote = &vn
		}
	}

	msg := &domain.ChatMessage{
		ConversationID: convID,
		SenderID:       senderID,
		Text:           text,
		VoiceNote:      payload.VoiceNote,
		Timestamp:      time.Now().UnixNano(),
		SeenBy:         map[string]string{},
		ReplyTo:        replyTo,
	}
	if err := uc.msgRepo.Insert(ctx, msg); err != nil {
		return nil, err
	}

	uc.updateSummary(ctx, msg)
	uc.publish(domain.ConversationEvent{
		ConversationID: convID,
		Kind:           domain.EventAppend,
		MessageID:      msg.ID,
		ActorID:        senderID,
	})

	return msg, nil
}

// updateSummary refresh the conversation preview cache, retrying once
func (uc *MessageUseCase) updateSummary(ctx context.Context, msg *domain.ChatMessage) {
	for attempt := 0; attempt < 2; attempt++ {
		err := uc.convRepo.UpdateLastMessage(ctx, msg.ConversationID, msg.PreviewText(), msg.Timestamp, msg.SenderID)
		if err == nil {
			return
		}
		logger.Log.Errorf("conversation preview update failed:", err)
	}
}

// History full ordered history of the conversation
func (uc *MessageUseCase) History(ctx context.Context, convID string) ([]domain.ChatMessage, error) {
	if _, err := uc.findConversation(ctx, convID); err != nil {
		return nil, err
	}
	return uc.msgRepo.FindByConversation(ctx, convID)
}

// Subscription live handle on one conversation. C yields cumulative
// ordered snapshots: the full history on subscribe and again after every
// append or receipt change. Close stops delivery and releases the
// underlying event subscription; C is closed afterwards.
type Subscription struct {
	C <-chan []domain.ChatMessage

	cancel context.CancelFunc
	once   sync.Once
}

// Close stop delivery immediately, safe to call more than once
func (s *Subscription) Close() {
	s.once.Do(s.cancel)
}

// Subscribe open a live snapshot stream on the conversation. The stream
// ends when Close is called or ctx is cancelled.
func (uc *MessageUseCase) Subscribe(ctx context.Context, convID string) (*Subscription, error) {
	if _, err := uc.findConversation(ctx, convID); err != nil {
		return nil, err
	}

	subCtx, cancel := context.WithCancel(ctx)
	notify := make(chan struct{}, 1)
	out := make(chan []domain.ChatMessage, 1)

	if uc.events != nil {
		err := uc.events.Subscribe(subCtx, repository.ConversationChannel(convID), func(event domain.ConversationEvent) {
			// coalesce bursts, the worker re-queries the full history anyway
			select {
			case notify <- struct{}{}:
			default:
			}
		})
		if err != nil {
			cancel()
			return nil, err
		}
	}

	go func() {
		defer close(out)
		for {
			history, err := uc.msgRepo.FindByConversation(subCtx, convID)
			if err != nil {
				logger.Log.Errorf("load conversation history:", err)
			} else {
				select {
				case out <- history:
				case <-subCtx.Done():
					return
				}
			}

			select {
			case <-notify:
			case <-subCtx.Done():
				return
			}
		}
	}()

	return &Subscription{C: out, cancel: cancel}, nil
}

// GroupByDate bucket ordered messages by calendar day in loc (local time
// when loc is nil). Pure projection, nothing is stored.
func (uc *MessageUseCase) GroupByDate(msgs []domain.ChatMessage, loc *time.Location) []domain.MessageGroup {
	if loc == nil {
		loc = time.Local
	}

	var groups []domain.MessageGroup
	for _, msg := range msgs {
		date := msg.Time().In(loc).Format("2006-01-02")
		if len(groups) == 0 || groups[len(groups)-1].Date != date {
			groups = append(groups, domain.MessageGroup{Date: date})
		}
		last := &groups[len(groups)-1]
		last.Messages = append(last.Messages, msg)
	}
	return groups
}

// MarkSeen record that the reader observed the named messages. Additive
// and idempotent, the reader's own messages never gain an entry.
func (uc *MessageUseCase) MarkSeen(ctx context.Context, convID, readerID string, messageIDs []string) error {
	conv, err := uc.findConversation(ctx, convID)
	if err != nil {
		return err
	}
	if !conv.HasParticipant(readerID) {
		return errprocess.Validationf("reader %s is not in conversation %s", readerID, convID)
	}
	if len(messageIDs) == 0 {
		return nil
	}

	seenAt := time.Now().UTC().Format(time.RFC3339)
	if err := uc.msgRepo.MarkSeen(ctx, convID, readerID, messageIDs, seenAt); err != nil {
		return err
	}

	uc.publish(domain.ConversationEvent{
		ConversationID: convID,
		Kind:           domain.EventSeen,
		ActorID:        readerID,
	})
	return nil
}

// UnreadCount whole-history count of peer messages the reader has not seen
func (uc *MessageUseCase) UnreadCount(ctx context.Context, convID, readerID string) (int, error) {
	if _, err := uc.findConversation(ctx, convID); err != nil {
		return 0, err
	}
	return uc.msgRepo.CountUnread(ctx, convID, readerID)
}

// DeliveryStatus sender-side state of one message relative to the peer
func (uc *MessageUseCase) DeliveryStatus(msg *domain.ChatMessage, peerID string) domain.DeliveryState {
	switch {
	case len(msg.SeenBy) == 0:
		return domain.DeliverySent
	case msg.SeenByUser(peerID):
		return domain.DeliverySeen
	default:
		return domain.DeliveryDelivered
	}
}

func (uc *MessageUseCase) findConversation(ctx context.Context, convID string) (*domain.Conversation, error) {
	conv, err := uc.convRepo.FindByID(ctx, convID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, errprocess.NotFoundf("conversation %s", convID)
		}
		return nil, err
	}
	return conv, nil
}

func (uc *MessageUseCase) publish(event domain.ConversationEvent) {
	if uc.events == nil {
		return
	}
	if err := uc.events.Publish(repository.ConversationChannel(event.ConversationID), event); err != nil {
		logger.Log.Errorf("publish conversation event:", err)
	}
}
