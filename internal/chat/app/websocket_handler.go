package app

import (
	"context"
	"encoding/json"
	"strconv"
	"sync"
	"time"

	"realtime_chat_service/internal/chat/domain"
	"realtime_chat_service/pkg/logger"
	"realtime_chat_service/pkg/middlewares"

	"github.com/gofiber/websocket/v2"
	"go.uber.org/zap"
)

// ChatWebsocketHandler drives the websocket action protocol of the chat
// service. One handler serves every connection; per-connection state lives
// in HandleConnection.
type ChatWebsocketHandler struct {
	convUC    *ConversationUseCase
	messageUC *MessageUseCase
	summaryUC *SummaryUseCase
	inviteUC  *InviteUseCase
}

// NewChatWebsocketHandler create ChatWebsocketHandler
func NewChatWebsocketHandler(
	convUC *ConversationUseCase,
	messageUC *MessageUseCase,
	summaryUC *SummaryUseCase,
	inviteUC *InviteUseCase,
) *ChatWebsocketHandler {
	return &ChatWebsocketHandler{
		convUC:    convUC,
		messageUC: messageUC,
		summaryUC: summaryUC,
		inviteUC:  inviteUC,
	}
}

// wsSession per-connection state: the live subscriptions opened over this
// socket and a write lock shared by every goroutine touching the conn
type wsSession struct {
	conn    *websocket.Conn
	writeMu sync.Mutex

	subMu sync.Mutex
	subs  map[string]*Subscription
}

// HandleConnection entry point of a websocket connection
func (h *ChatWebsocketHandler) HandleConnection(ctx context.Context, conn *websocket.Conn) {
	tokenMember := conn.Locals(middlewares.TokenMemberID)
	memberID, ok := tokenMember.(string)
	logger.Log.Info("websocket handle memberID", zap.String("userID", memberID), zap.String("ok", strconv.FormatBool(ok)))

	ticker := time.NewTicker(10 * time.Minute)
	ctxClose, cancel := context.WithCancel(context.Background())

	session := &wsSession{
		conn: conn,
		subs: make(map[string]*Subscription),
	}

	defer func() {
		ticker.Stop()
		logger.Log.Info("websocket close", zap.String("userID", memberID))
		session.closeAllSubscriptions()
		conn.Close()
		cancel()
	}()

	// fiber answers close frames itself, SetCloseHandler only observes them
	conn.SetCloseHandler(func(code int, text string) error {
		logger.Log.Infof("WebSocket closed:", conn.RemoteAddr())
		return nil
	})

	conn.SetPongHandler(func(appData string) error {
		logger.Log.Infof("Received PONG:", appData)
		return nil
	})

	conn.SetPingHandler(func(appData string) error {
		logger.Log.Infof("Received PING:", appData)
		return conn.WriteControl(
			websocket.PongMessage,
			[]byte(appData),
			time.Now().Add(time.Second),
		)
	})

	// keepalive pings
	go func() {
		for {
			select {
			case <-ticker.C:
				session.writeMu.Lock()
				err := conn.WriteMessage(websocket.PingMessage, []byte("ping message"))
				session.writeMu.Unlock()
				if err != nil {
					logger.Log.Errorf("Ping error:", err)
					return
				}
				logger.Log.Infof("%s Ping sent", memberID)
			case <-ctxClose.Done():
				logger.Log.Infof("Ping goroutine cancelled for member:", memberID)
				return
			}
		}
	}()

	for {
		mt, message, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err,
				websocket.CloseNormalClosure,
				websocket.CloseGoingAway,
				websocket.CloseNoStatusReceived,
			) {
				logger.Log.Errorf("Connection closed:", err)
			} else {
				logger.Log.Errorf("websocket read error:", err)
			}
			return
		}
		h.execWebsocketAction(ctxClose, session, memberID, mt, message)
	}
}

func (h *ChatWebsocketHandler) execWebsocketAction(ctx context.Context, session *wsSession, memberID string, mt int, msg []byte) {
	switch mt {
	case websocket.TextMessage:
		h.textMessageAction(ctx, session, memberID, msg)
	default:
		h.sendError(session, "unknown message type")
	}
}

func (h *ChatWebsocketHandler) textMessageAction(ctx context.Context, session *wsSession, memberID string, msg []byte) {
	var req domain.WSRequest
	if err := json.Unmarshal(msg, &req); err != nil {
		logger.Log.Errorf("json unmarshal error:", err)
		return
	}

	resp := domain.WSResponse{Action: req.Action, Success: false, Payload: map[string]interface{}{}}
	switch req.Action {
	case string(domain.SendInvite):
		inv, err := h.inviteUC.SendInvite(ctx, memberID, req.PeerID)
		if err != nil {
			resp.Error = err.Error()
		} else {
			resp.Success = true
			resp.Payload["invite_id"] = inv.ID
		}

	case string(domain.RespondInvite):
		inv, err := h.inviteUC.Respond(ctx, req.InviteID, memberID, req.Accept)
		if err != nil {
			resp.Error = err.Error()
		} else {
			resp.Success = true
			resp.Payload["invite_id"] = inv.ID
			resp.Payload["status"] = inv.Status
		}

	case string(domain.ListPending):
		invites, err := h.inviteUC.ListPending(ctx, memberID)
		if err != nil {
			resp.Error = err.Error()
		} else {
			resp.Success = true
			resp.Payload["invites"] = invites
		}

	case string(domain.OpenConversation):
		conv, err := h.convUC.FindOrCreate(ctx, memberID, req.PeerID)
		if err != nil {
			resp.Error = err.Error()
			break
		}
		if err := h.openSubscription(ctx, session, conv.ID); err != nil {
			resp.Error = err.Error()
			break
		}
		resp.Success = true
		resp.Payload["conversation_id"] = conv.ID

	case string(domain.CloseConversation):
		session.closeSubscription(req.ConversationID)
		resp.Success = true

	case string(domain.SendMessage):
		payload := MessagePayload{Text: req.Content, VoiceNote: req.VoiceNote}
		message, err := h.messageUC.Append(ctx, req.ConversationID, memberID, payload, req.ReplyToID)
		if err != nil {
			resp.Error = err.Error()
		} else {
			resp.Success = true
			resp.Payload["message_id"] = message.ID
			resp.Payload["timestamp"] = message.Timestamp
		}

	case string(domain.MarkSeen):
		if err := h.messageUC.MarkSeen(ctx, req.ConversationID, memberID, req.MessageIDs); err != nil {
			resp.Error = err.Error()
		} else {
			resp.Success = true
		}

	case string(domain.ListConversations):
		summaries, err := h.summaryUC.ListConversations(ctx, memberID)
		if err != nil {
			resp.Error = err.Error()
		} else {
			resp.Success = true
			resp.Payload["conversations"] = summaries
		}

	default:
		resp.Error = "unknown action"
	}

	h.sendResponse(session, resp)
}

// openSubscription attach a live snapshot stream for the conversation to
// this connection, replacing any previous one for the same conversation
func (h *ChatWebsocketHandler) openSubscription(ctx context.Context, session *wsSession, convID string) error {
	sub, err := h.messageUC.Subscribe(ctx, convID)
	if err != nil {
		return err
	}

	session.subMu.Lock()
	if old, ok := session.subs[convID]; ok {
		old.Close()
	}
	session.subs[convID] = sub
	session.subMu.Unlock()

	go func() {
		for snapshot := range sub.C {
			h.sendResponse(session, domain.WSResponse{
				Action:  string(domain.ConversationSnapshot),
				Success: true,
				Payload: map[string]interface{}{
					"conversation_id": convID,
					"messages":        snapshot,
				},
			})
		}
	}()

	return nil
}

func (s *wsSession) closeSubscription(convID string) {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	if sub, ok := s.subs[convID]; ok {
		sub.Close()
		delete(s.subs, convID)
	}
}

func (s *wsSession) closeAllSubscriptions() {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	for convID, sub := range s.subs {
		sub.Close()
		delete(s.subs, convID)
	}
}

func (h *ChatWebsocketHandler) sendResponse(session *wsSession, resp domain.WSResponse) {
	session.writeMu.Lock()
	defer session.writeMu.Unlock()
	if err := session.conn.WriteJSON(resp); err != nil {
		logger.Log.Errorf("websocket write error:", err)
	}
}

func (h *ChatWebsocketHandler) sendError(session *wsSession, msg string) {
	h.sendResponse(session, domain.WSResponse{Success: false, Error: msg})
}
