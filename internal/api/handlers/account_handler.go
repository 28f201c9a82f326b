package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/postmux/postmux/internal/service"
	"github.com/postmux/postmux/internal/transfer"
)

type AccountHandler struct {
	s service.AccountService
}

func NewAccountHandler(service service.AccountService) *AccountHandler {
	return &AccountHandler{s: service}
}

func (h *AccountHandler) ConnectAccount(c *fiber.Ctx) error {
	userID := GetUserID(c)

	var req transfer.ConnectAccountRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unable to parse request",
		})
	}

	accountID, err := h.s.Connect(c.Context(), userID, &req)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"account_id": accountID,
	})
}

func (h *AccountHandler) ListAccounts(c *fiber.Ctx) error {
	userID := GetUserID(c)

	accounts, err := h.s.List(c.Context(), userID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unable to list accounts",
		})
	}

	return c.Status(fiber.StatusOK).JSON(accounts)
}

func (h *AccountHandler) RemoveAccount(c *fiber.Ctx) error {
	userID := GetUserID(c)
	accountID := c.QueryInt("id", 0)

	err := h.s.Remove(c.Context(), userID, int64(accountID))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unable to remove account",
		})
	}

	return c.SendStatus(fiber.StatusOK)
}
