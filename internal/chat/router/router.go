package router

import (
	"context"

	"realtime_chat_service/internal/chat/app"
	"realtime_chat_service/pkg/middlewares"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

// RegisterRoutes register the chat websocket endpoint and its REST mirror
func RegisterRoutes(r *fiber.App, chatWebsocket *app.ChatWebsocketHandler, chatHandler *app.ChatHandler) {
	r.Use(middlewares.JWTMiddleware())

	r.Get("/ws", websocket.New(func(c *websocket.Conn) {
		chatWebsocket.HandleConnection(context.Background(), c)
	}))

	chat := r.Group("/chat")
	chat.Post("/invites", chatHandler.SendInvite)
	chat.Post("/invites/:id/respond", chatHandler.RespondInvite)
	chat.Get("/invites/pending", chatHandler.ListPendingInvites)
	chat.Get("/contacts", chatHandler.ListContacts)
	chat.Post("/conversations/:peer", chatHandler.OpenConversation)
	chat.Get("/conversations", chatHandler.ListConversations)
	chat.Get("/conversations/:id/messages", chatHandler.History)
	chat.Post("/conversations/:id/messages", chatHandler.SendMessage)
	chat.Post("/conversations/:id/seen", chatHandler.MarkSeen)
	chat.Get("/conversations/:id/unread", chatHandler.UnreadCount)
}
