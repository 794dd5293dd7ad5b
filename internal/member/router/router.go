package router

import (
	"realtime_chat_service/internal/member/app"
	"realtime_chat_service/pkg/middlewares"

	"github.com/gofiber/fiber/v2"
)

// RegisterRoutes register member endpoints
func RegisterRoutes(r *fiber.App, memberHandler *app.MemberHandler) {
	member := r.Group("/member")

	member.Post("/register", memberHandler.Register)
	member.Post("/login", memberHandler.Login)
	member.Post("/logout", memberHandler.Logout)

	member.Get("/users/:id", memberHandler.GetUser)
	member.Get("/users", memberHandler.SearchUsers)

	member.Get("/session/timeout", memberHandler.SessionTimeout)
	member.Post("/session/reconnect", memberHandler.Reconnect)

	member.Put("/profile_pic", middlewares.JWTMiddleware(), memberHandler.UpdateProfilePic)
}
