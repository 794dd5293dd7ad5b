package app

import (
	"errors"

	"realtime_chat_service/internal/chat/domain"
	errprocess "realtime_chat_service/pkg/err"
	"realtime_chat_service/pkg/middlewares"

	"github.com/gofiber/fiber/v2"
)

// ChatHandler REST surface of the chat service. Every websocket action has
// a plain HTTP counterpart here, minus the live subscriptions.
type ChatHandler struct {
	convUC    *ConversationUseCase
	messageUC *MessageUseCase
	summaryUC *SummaryUseCase
	inviteUC  *InviteUseCase
}

// NewChatHandler create a new ChatHandler
func NewChatHandler(
	convUC *ConversationUseCase,
	messageUC *MessageUseCase,
	summaryUC *SummaryUseCase,
	inviteUC *InviteUseCase,
) *ChatHandler {
	return &ChatHandler{
		convUC:    convUC,
		messageUC: messageUC,
		summaryUC: summaryUC,
		inviteUC:  inviteUC,
	}
}

type sendInviteRequest struct {
	PeerID string `json:"peer_id"`
}

type respondInviteRequest struct {
	Accept bool `json:"accept"`
}

type sendMessageRequest struct {
	Content   string            `json:"content"`
	VoiceNote *domain.VoiceNote `json:"voice_note,omitempty"`
	ReplyToID string            `json:"reply_to_id"`
}

type markSeenRequest struct {
	MessageIDs []string `json:"message_ids"`
}

func callerID(c *fiber.Ctx) (string, bool) {
	memberID, ok := c.Locals(middlewares.TokenMemberID).(string)
	return memberID, ok && memberID != ""
}

func unauthorized(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized"})
}

// errStatus map error kinds to HTTP codes
func errStatus(err error) int {
	switch {
	case errors.Is(err, errprocess.ErrValidation):
		return fiber.StatusBadRequest
	case errors.Is(err, errprocess.ErrNotFound):
		return fiber.StatusNotFound
	default:
		return fiber.StatusInternalServerError
	}
}

// SendInvite handle POST /chat/invites
func (h *ChatHandler) SendInvite(c *fiber.Ctx) error {
	memberID, ok := callerID(c)
	if !ok {
		return unauthorized(c)
	}

	var req sendInviteRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	inv, err := h.inviteUC.SendInvite(c.Context(), memberID, req.PeerID)
	if err != nil {
		return c.Status(errStatus(err)).JSON(fiber.Map{"error": err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(inv)
}

// RespondInvite handle POST /chat/invites/:id/respond
func (h *ChatHandler) RespondInvite(c *fiber.Ctx) error {
	memberID, ok := callerID(c)
	if !ok {
		return unauthorized(c)
	}

	var req respondInviteRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	inv, err := h.inviteUC.Respond(c.Context(), c.Params("id"), memberID, req.Accept)
	if err != nil {
		return c.Status(errStatus(err)).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(inv)
}

// ListPendingInvites handle GET /chat/invites/pending
func (h *ChatHandler) ListPendingInvites(c *fiber.Ctx) error {
	memberID, ok := callerID(c)
	if !ok {
		return unauthorized(c)
	}

	invites, err := h.inviteUC.ListPending(c.Context(), memberID)
	if err != nil {
		return c.Status(errStatus(err)).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"invites": invites})
}

// ListContacts handle GET /chat/contacts
func (h *ChatHandler) ListContacts(c *fiber.Ctx) error {
	memberID, ok := callerID(c)
	if !ok {
		return unauthorized(c)
	}

	contacts, err := h.inviteUC.ListAccepted(c.Context(), memberID)
	if err != nil {
		return c.Status(errStatus(err)).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"contacts": contacts})
}

// OpenConversation handle POST /chat/conversations/:peer
func (h *ChatHandler) OpenConversation(c *fiber.Ctx) error {
	memberID, ok := callerID(c)
	if !ok {
		return unauthorized(c)
	}

	conv, err := h.convUC.FindOrCreate(c.Context(), memberID, c.Params("peer"))
	if err != nil {
		return c.Status(errStatus(err)).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"conversation_id": conv.ID})
}

// ListConversations handle GET /chat/conversations
func (h *ChatHandler) ListConversations(c *fiber.Ctx) error {
	memberID, ok := callerID(c)
	if !ok {
		return unauthorized(c)
	}

	summaries, err := h.summaryUC.ListConversations(c.Context(), memberID)
	if err != nil {
		return c.Status(errStatus(err)).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"conversations": summaries})
}

// History handle GET /chat/conversations/:id/messages.
// With ?grouped=true the history comes back bucketed by calendar day.
func (h *ChatHandler) History(c *fiber.Ctx) error {
	memberID, ok := callerID(c)
	if !ok {
		return unauthorized(c)
	}

	convID := c.Params("id")
	conv, err := h.convUC.Get(c.Context(), convID)
	if err != nil {
		return c.Status(errStatus(err)).JSON(fiber.Map{"error": err.Error()})
	}
	if !conv.HasParticipant(memberID) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "not a participant"})
	}

	history, err := h.messageUC.History(c.Context(), convID)
	if err != nil {
		return c.Status(errStatus(err)).JSON(fiber.Map{"error": err.Error()})
	}

	if c.Query("grouped") == "true" {
		return c.JSON(fiber.Map{"groups": h.messageUC.GroupByDate(history, nil)})
	}
	return c.JSON(fiber.Map{"messages": history})
}

// SendMessage handle POST /chat/conversations/:id/messages
func (h *ChatHandler) SendMessage(c *fiber.Ctx) error {
	memberID, ok := callerID(c)
	if !ok {
		return unauthorized(c)
	}

	var req sendMessageRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	payload := MessagePayload{Text: req.Content, VoiceNote: req.VoiceNote}
	msg, err := h.messageUC.Append(c.Context(), c.Params("id"), memberID, payload, req.ReplyToID)
	if err != nil {
		return c.Status(errStatus(err)).JSON(fiber.Map{"error": err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(msg)
}

// MarkSeen handle POST /chat/conversations/:id/seen
func (h *ChatHandler) MarkSeen(c *fiber.Ctx) error {
	memberID, ok := callerID(c)
	if !ok {
		return unauthorized(c)
	}

	var req markSeenRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	if err := h.messageUC.MarkSeen(c.Context(), c.Params("id"), memberID, req.MessageIDs); err != nil {
		return c.Status(errStatus(err)).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"message": "seen"})
}

// UnreadCount handle GET /chat/conversations/:id/unread
func (h *ChatHandler) UnreadCount(c *fiber.Ctx) error {
	memberID, ok := callerID(c)
	if !ok {
		return unauthorized(c)
	}

	count, err := h.messageUC.UnreadCount(c.Context(), c.Params("id"), memberID)
	if err != nil {
		return c.Status(errStatus(err)).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"unread": count})
}
