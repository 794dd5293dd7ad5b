package app

import (
	"context"
	"errors"
	"time"

	"realtime_chat_service/internal/chat/domain"
	"realtime_chat_service/internal/chat/repository"
	"realtime_chat_service/pkg"
	errprocess "realtime_chat_service/pkg/err"
	"realtime_chat_service/pkg/logger"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/mongo"
)

// InviteUseCase the contact graph: directed invites gating who may chat
type InviteUseCase struct {
	invRepo repository.InviteRepository
	convUC  *ConversationUseCase
}

// NewInviteUseCase init invite use case
func NewInviteUseCase(invRepo repository.InviteRepository, convUC *ConversationUseCase) *InviteUseCase {
	return &InviteUseCase{
		invRepo: invRepo,
		convUC:  convUC,
	}
}

// SendInvite create a pending invite from one user to another
func (uc *InviteUseCase) SendInvite(ctx context.Context, from, to string) (*domain.Invite, error) {
	if from == "" || to == "" {
		return nil, errprocess.Validationf("invite needs both user ids")
	}
	if from == to {
		return nil, errprocess.Validationf("cannot invite yourself")
	}

	existing, err := uc.invRepo.FindBetween(ctx, from, to)
	if err != nil && !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, err
	}
	if existing != nil {
		switch existing.Status {
		case domain.InvitePending:
			return nil, errprocess.Validationf("invite between %s and %s already pending", from, to)
		case domain.InviteAccepted:
			return nil, errprocess.Validationf("%s and %s are already contacts", from, to)
		}
		// a rejected invite is terminal but does not block a fresh one
	}

	inv := &domain.Invite{
		ID:        uuid.New().String(),
		From:      from,
		To:        to,
		Status:    domain.InvitePending,
		CreatedAt: time.Now().Unix(),
	}
	if err := uc.invRepo.Create(ctx, inv); err != nil {
		return nil, err
	}
	return inv, nil
}

// Respond accept or reject a pending invite. Only the invitee may respond,
// and both outcomes are terminal. Acceptance eagerly opens the conversation
// so it exists the moment the two users connect; failure there is logged,
// not escalated, since the directory recreates it lazily on first use.
func (uc *InviteUseCase) Respond(ctx context.Context, inviteID, userID string, accept bool) (*domain.Invite, error) {
	inv, err := uc.invRepo.FindByID(ctx, inviteID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, errprocess.NotFoundf("invite %s", inviteID)
		}
		return nil, err
	}

	if inv.To != userID {
		return nil, errprocess.Validationf("only the invitee may respond to invite %s", inviteID)
	}
	if inv.Status != domain.InvitePending {
		return nil, errprocess.Validationf("invite %s already %s", inviteID, inv.Status)
	}

	newStatus := domain.InviteRejected
	if accept {
		newStatus = domain.InviteAccepted
	}
	if err := uc.invRepo.UpdateStatus(ctx, inviteID, newStatus); err != nil {
		return nil, err
	}
	inv.Status = newStatus

	if accept {
		if _, err := uc.convUC.FindOrCreate(ctx, inv.From, inv.To); err != nil {
			logger.Log.Errorf("open conversation on invite accept:", err)
		}
	}

	return inv, nil
}

// ListPending invites waiting on the user's response
func (uc *InviteUseCase) ListPending(ctx context.Context, userID string) ([]*domain.Invite, error) {
	return uc.invRepo.FindPendingByInvitee(ctx, userID)
}

// ListAccepted ids of the user's accepted contacts, either direction
func (uc *InviteUseCase) ListAccepted(ctx context.Context, userID string) ([]string, error) {
	invites, err := uc.invRepo.FindAcceptedByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	var peers []string
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
	return pkg.SortStrings(peers), nil
}
