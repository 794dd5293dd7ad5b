package router

import (
	"realtime_chat_service/internal/media/app"
	"realtime_chat_service/pkg/middlewares"

	"github.com/gofiber/fiber/v2"
)

// RegisterRoutes register media endpoints
func RegisterRoutes(r *fiber.App, mediaHandler *app.MediaHandler) {
	r.Use(middlewares.JWTMiddleware())

	r.Post("/voice", mediaHandler.UploadVoice)
	r.Get("/voice/:id", mediaHandler.GetVoice)
	r.Get("/voice", mediaHandler.ListVoices)
}
