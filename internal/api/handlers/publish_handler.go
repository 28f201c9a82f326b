package handlers

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/postmux/postmux/internal/repository"
	"github.com/postmux/postmux/internal/service"
	"github.com/postmux/postmux/internal/transfer"
)

type PublishHandler struct {
	ps service.PublishService
	vs *service.ViralTimeService
}

func NewPublishHandler(ps service.PublishService, vs *service.ViralTimeService) *PublishHandler {
	return &PublishHandler{ps: ps, vs: vs}
}

// PublishNow uploads an asset to one platform immediately. The platform
// outcome rides in the result; a failed publish is still a 200 with
// success=false so callers get the same shape either way.
func (h *PublishHandler) PublishNow(c *fiber.Ctx) error {
	userID := GetUserID(c)

	var req transfer.PublishRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unable to parse request",
		})
	}

	post, result, err := h.ps.PublishNow(c.Context(), userID, &req)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	if post == nil {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"result": result,
		})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"post_id": post.ID,
		"result":  result,
	})
}

func (h *PublishHandler) SchedulePost(c *fiber.Ctx) error {
	userID := GetUserID(c)

	var req transfer.PublishRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unable to parse request",
		})
	}

	post, result, err := h.ps.SchedulePost(c.Context(), userID, &req)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	if post == nil {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"result": result,
		})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "Post scheduled successfully",
		"post_id": post.ID,
		"result":  result,
	})
}

func (h *PublishHandler) UploadStatus(c *fiber.Ctx) error {
	userID := GetUserID(c)
	platformName := c.Query("platform")
	uploadID := c.Query("id")
	accessToken := c.Query("access_token")

	result := h.ps.UploadStatus(c.Context(), userID, platformName, uploadID, accessToken)

	return c.Status(fiber.StatusOK).JSON(result)
}

func (h *PublishHandler) ListPosts(c *fiber.Ctx) error {
	userID := GetUserID(c)
	postID := c.QueryInt("id", 0)
	status := c.Query("status")

	if postID != 0 {
		post, history, err := h.ps.PostInfo(c.Context(), userID, int64(postID))
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Unable to get post",
			})
		}

		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"post":    post,
			"history": history,
		})
	}

	posts, err := h.ps.ListPosts(c.Context(), userID, status)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unable to list posts",
		})
	}

	return c.Status(fiber.StatusOK).JSON(posts)
}

func (h *PublishHandler) CancelPost(c *fiber.Ctx) error {
	userID := GetUserID(c)
	postID := c.QueryInt("id", 0)

	err := h.ps.CancelPost(c.Context(), userID, int64(postID))
	if err != nil {
		if errors.Is(err, repository.ErrNotScheduled) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"error": "Only scheduled posts can be cancelled",
			})
		}
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "Post cancelled successfully",
	})
}

func (h *PublishHandler) ViralTimes(c *fiber.Ctx) error {
	platformName := c.Query("platform")
	now := time.Now()

	resp := transfer.ViralTimesResponse{
		Platform:          platformName,
		OptimalTimes:      h.vs.OptimalTimes(platformName),
		NextSuggestedTime: h.vs.NextOptimalTime(platformName, now).Format(time.RFC3339),
		CurrentTime:       now.Format(time.RFC3339),
	}

	return c.Status(fiber.StatusOK).JSON(resp)
}
