package app

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"realtime_chat_service/internal/chat/domain"
	"realtime_chat_service/internal/chat/repository"
	"realtime_chat_service/pkg/logger"

	"go.mongodb.org/mongo-driver/mongo"
)

// SummaryUseCase derives chat-list rows from the message stream, receipt
// state and contact graph. Pure read side, nothing here is persisted.
type SummaryUseCase struct {
	convRepo   repository.ConversationRepository
	msgRepo    repository.MessageRepository
	inviteRepo repository.InviteRepository
	directory  repository.MemberDirectory
	messageUC  *MessageUseCase
}

// NewSummaryUseCase init summary use case
func NewSummaryUseCase(
	convRepo repository.ConversationRepository,
	msgRepo repository.MessageRepository,
	inviteRepo repository.InviteRepository,
	directory repository.MemberDirectory,
	messageUC *MessageUseCase,
) *SummaryUseCase {
	return &SummaryUseCase{
		convRepo:   convRepo,
		msgRepo:    msgRepo,
		inviteRepo: inviteRepo,
		directory:  directory,
		messageUC:  messageUC,
	}
}

// ListConversations one summary row per accepted contact of the user.
// Rows with messages come first, newest conversation on top; contacts the
// user never messaged follow in peer-name order.
func (uc *SummaryUseCase) ListConversations(ctx context.Context, userID string) ([]domain.ConversationSummary, error) {
	invites, err := uc.inviteRepo.FindAcceptedByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	peers := make([]string, 0, len(invites))
	seen := make(map[string]bool)
	for _, inv := range invites {
		peer := inv.From
		if peer == userID {
			peer = inv.To
		}
		if !seen[peer] {
			seen[peer] = true
			peers = append(peers, peer)
		}
	}

	summaries := make([]domain.ConversationSummary, 0, len(peers))
	for _, peer := range peers {
		summary, err := uc.summarize(ctx, userID, peer)
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, *summary)
	}

	sort.SliceStable(summaries, func(i, j int) bool {
		a, b := summaries[i], summaries[j]
		if a.LastMessageAt != b.LastMessageAt {
			return a.LastMessageAt > b.LastMessageAt
		}
		return a.PeerName < b.PeerName
	})

	return summaries, nil
}

func (uc *SummaryUseCase) summarize(ctx context.Context, userID, peer string) (*domain.ConversationSummary, error) {
	summary := &domain.ConversationSummary{
		PeerID:   peer,
		PeerName: peer,
		Preview:  domain.EmptyConversationPreview,
	}

	if uc.directory != nil {
		if user, err := uc.directory.GetUser(ctx, peer); err == nil {
			summary.PeerName = user.Name
			summary.PeerAvatar = user.ProfilePic
		} else {
			// the row still renders with the raw id as its name
			logger.Log.Errorf("resolve peer profile:", err)
		}
	}

	conv, err := uc.convRepo.FindByParticipants(ctx, userID, peer)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return summary, nil
		}
		return nil, err
	}
	summary.ConversationID = conv.ID

	history, err := uc.msgRepo.FindByConversation(ctx, conv.ID)
	if err != nil {
		return nil, err
	}
	if len(history) == 0 {
		return summary, nil
	}
	last := history[len(history)-1]

	unread, err := uc.msgRepo.CountUnread(ctx, conv.ID, userID)
	if err != nil {
		return nil, err
	}

	summary.UnreadCount = unread
	summary.LastMessageAt = last.Timestamp
	summary.Preview = previewText(userID, &last, unread)
	summary.TimeLabel = timestampLabel(last.Time(), time.Now())
	if last.SenderID == userID {
		summary.Delivery = uc.messageUC.DeliveryStatus(&last, peer)
	}

	return summary, nil
}

// previewText the chat-list preview for the newest message.
func previewText(userID string, last *domain.ChatMessage, unread int) string {
	if last == nil {
		return domain.EmptyConversationPreview
	}

	if last.SenderID == userID {
		ticks := " ✓"
		if len(last.SeenBy) > 0 {
			ticks = " ✓✓"
		}
		return "sent: " + last.PreviewText() + ticks
	}

	if last.IsVoice() {
		switch {
		case unread == 0:
			return domain.VoiceNotePreview
		case unread == 1:
			return "1 new voice msg"
		default:
			return fmt.Sprintf("(%d) new msgs", unread)
		}
	}

	if unread > 1 {
		return fmt.Sprintf("(%d) new msgs", unread)
	}
	return last.Text
}

// timestampLabel age-dependent label of the newest message
func timestampLabel(t, now time.Time) string {
	age := now.Sub(t)
	switch {
	case age < time.Hour:
		return "Now"
	case age < 24*time.Hour:
		return t.Format("15:04")
	case age < 48*time.Hour:
		return "Yesterday"
	default:
		return t.Format("Jan 2")
	}
}
