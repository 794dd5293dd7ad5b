package app

import (
	"strconv"

	"realtime_chat_service/internal/media/domain"
	"realtime_chat_service/pkg/logger"
	"realtime_chat_service/pkg/middlewares"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// MediaHandler HTTP layer of voice note storage
type MediaHandler struct {
	mediaUC MediaUseCase
}

// NewMediaHandler create a new MediaHandler
func NewMediaHandler(mediaUC MediaUseCase) *MediaHandler {
	return &MediaHandler{mediaUC: mediaUC}
}

// UploadVoice handle POST /voice, multipart form with "file" and "duration"
func (h *MediaHandler) UploadVoice(c *fiber.Ctx) error {
	memberID, ok := c.Locals(middlewares.TokenMemberID).(string)
	if !ok || memberID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized"})
	}

	duration, err := strconv.ParseFloat(c.FormValue("duration"), 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid duration"})
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "missing file"})
	}

	file, err := fileHeader.Open()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "open uploaded file failed"})
	}
	defer file.Close()

	res, err := h.mediaUC.UploadVoice(domain.UploadVoiceReq{
		OwnerID:         memberID,
		FileName:        fileHeader.Filename,
		DurationSeconds: duration,
		Size:            fileHeader.Size,
		File:            file,
	})
	if err != nil {
		logger.Log.Error("upload voice failed", zap.String("member", memberID), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(fiber.Map{
		"msg":      res.Message,
		"voice_id": res.VoiceID,
	})
}

// GetVoice handle GET /voice/:id, returns a playback URL
func (h *MediaHandler) GetVoice(c *fiber.Ctx) error {
	res, err := h.mediaUC.GetVoice(c.Context(), c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(fiber.Map{
		"voice_id": res.VoiceID,
		"duration": res.DurationSeconds,
		"url":      res.URL,
	})
}

// ListVoices handle GET /voice, the caller's own uploads
func (h *MediaHandler) ListVoices(c *fiber.Ctx) error {
	memberID, ok := c.Locals(middlewares.TokenMemberID).(string)
	if !ok || memberID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized"})
	}

	voices, err := h.mediaUC.ListByOwner(memberID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(voices)
}
