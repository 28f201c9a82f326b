package handlers

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/postmux/postmux/internal/platform"
	"github.com/postmux/postmux/internal/service"
	"github.com/postmux/postmux/internal/transfer"
)

type MediaHandler struct {
	ms service.MediaService
	ai *service.AIService
}

func NewMediaHandler(ms service.MediaService, ai *service.AIService) *MediaHandler {
	return &MediaHandler{ms: ms, ai: ai}
}

func (h *MediaHandler) UploadMedia(c *fiber.Ctx) error {
	userID := GetUserID(c)

	file, err := c.FormFile("file")
	if err != nil {
		slog.Error(err.Error())
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "No file selected",
		})
	}

	asset, err := h.ms.Upload(c.Context(), userID, file)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.Status(fiber.StatusOK).JSON(asset)
}

func (h *MediaHandler) ListMedia(c *fiber.Ctx) error {
	userID := GetUserID(c)

	assets, err := h.ms.List(c.Context(), userID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unable to list media files",
		})
	}

	return c.Status(fiber.StatusOK).JSON(assets)
}

func (h *MediaHandler) RemoveMedia(c *fiber.Ctx) error {
	userID := GetUserID(c)
	assetID := c.QueryInt("id", 0)

	err := h.ms.Delete(c.Context(), userID, int64(assetID))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unable to delete media file",
		})
	}

	return c.SendStatus(fiber.StatusOK)
}

func (h *MediaHandler) GenerateContent(c *fiber.Ctx) error {
	userID := GetUserID(c)

	var req transfer.GenerateContentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unable to parse request",
		})
	}

	asset, err := h.ms.Get(c.Context(), userID, req.AssetID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	content := h.ai.GenerateContent(c.Context(), asset.FileName, asset.FileType, req.Platform, req.CustomPrompt)

	return c.Status(fiber.StatusOK).JSON(content)
}

func (h *MediaHandler) Platforms(c *fiber.Ctx) error {
	catalog := platform.Catalog()

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"platforms":       catalog,
		"total_platforms": len(catalog),
	})
}
