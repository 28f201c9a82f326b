package handlers

import (
	"github.com/gofiber/fiber/v2"
	config "github.com/postmux/postmux/configs"
	"github.com/postmux/postmux/internal/service"
)

type UserHandler struct {
	s   service.UserService
	cfg config.Config
}

func NewUserHandler(cfg config.Config, service service.UserService) *UserHandler {
	return &UserHandler{s: service, cfg: cfg}
}

func (h *UserHandler) UserInfo(c *fiber.Ctx) error {
	userID := GetUserID(c)

	user, err := h.s.GetUserInfo(c.Context(), userID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.Status(fiber.StatusOK).JSON(user)
}

func (h *UserHandler) RemoveUser(c *fiber.Ctx) error {
	userID := GetUserID(c)

	err := h.s.RemoveUser(c.Context(), userID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unable to remove user",
		})
	}

	c.Cookie(&fiber.Cookie{
		Name:   h.cfg.CookieName,
		Value:  "",
		Path:   "/",
		MaxAge: -1,
	})

	return c.SendStatus(fiber.StatusOK)
}
