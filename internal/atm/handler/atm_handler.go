package handler

import (
	"errors"
	"strings"

	"github.com/Seizuree/atm-system/internal/atm/dto"
	"github.com/Seizuree/atm-system/internal/atm/service"
	atmerror "github.com/Seizuree/atm-system/internal/errors"
	"github.com/gofiber/fiber/v2"
)

type ATMHandler struct {
	atm    *service.ATMService
	tokens service.SessionTokenGenerator
}

func NewATMHandler(atm *service.ATMService, tokens service.SessionTokenGenerator) *ATMHandler {
	return &ATMHandler{atm: atm, tokens: tokens}
}

func (h *ATMHandler) Register(c *fiber.Ctx) error {
	var input dto.RegisterInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid input",
		})
	}

	out, err := h.atm.Register(c.Context(), input)
	if err != nil {
		return fail(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(out)
}

func (h *ATMHandler) Login(c *fiber.Ctx) error {
	var input dto.LoginInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid input",
		})
	}

	out, err := h.atm.Login(c.Context(), input)
	if err != nil {
		return fail(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(out)
}

func (h *ATMHandler) Deposit(c *fiber.Ctx) error {
	var input dto.AmountInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid input"})
	}

	out, err := h.atm.Deposit(c.Context(), sessionID(c), input.Amount)
	if err != nil {
		return fail(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(out)
}

func (h *ATMHandler) Withdraw(c *fiber.Ctx) error {
	var input dto.AmountInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid input"})
	}

	out, err := h.atm.Withdraw(c.Context(), sessionID(c), input.Amount)
	if err != nil {
		return fail(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(out)
}

func (h *ATMHandler) Transfer(c *fiber.Ctx) error {
	var input dto.TransferInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid input"})
	}

	out, err := h.atm.Transfer(c.Context(), sessionID(c), input)
	if err != nil {
		return fail(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(out)
}

func (h *ATMHandler) History(c *fiber.Ctx) error {
	lines, err := h.atm.History(c.Context(), sessionID(c))
	if err != nil {
		return fail(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(dto.HistoryOutput{History: lines})
}

func (h *ATMHandler) Balance(c *fiber.Ctx) error {
	out, err := h.atm.Balance(c.Context(), sessionID(c))
	if err != nil {
		return fail(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(out)
}

func (h *ATMHandler) Logout(c *fiber.Ctx) error {
	if err := h.atm.Logout(c.Context(), sessionID(c)); err != nil {
		return fail(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// RequireSession validates the bearer token and stashes the session
// claims for the handler. Token validity alone is not enough to act:
// the engine still checks the session is the live one.
func (h *ATMHandler) RequireSession() fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")

		const prefix = "Bearer "
		if !strings.HasPrefix(authHeader, prefix) {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "missing or malformed token",
			})
		}

		claims, err := h.tokens.Verify(strings.TrimPrefix(authHeader, prefix))
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "invalid session token",
			})
		}

		c.Locals("sessionID", claims.SessionID)
		c.Locals("username", claims.Username)

		return c.Next()
	}
}

func sessionID(c *fiber.Ctx) string {
	id, _ := c.Locals("sessionID").(string)
	return id
}

// fail maps core errors onto HTTP statuses; the message passes
// through untouched so the core never has to know about transport.
func fail(c *fiber.Ctx, err error) error {
	return c.Status(statusForError(err)).JSON(fiber.Map{
		"error": err.Error(),
	})
}

func statusForError(err error) int {
	switch {
	case errors.Is(err, atmerror.ErrInvalidPin),
		errors.Is(err, atmerror.ErrInvalidAmount):
		return fiber.StatusBadRequest
	case errors.Is(err, atmerror.ErrIncorrectPin),
		errors.Is(err, atmerror.ErrNoActiveSession):
		return fiber.StatusUnauthorized
	case errors.Is(err, atmerror.ErrAccountNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, atmerror.ErrAccountExists),
		errors.Is(err, atmerror.ErrSessionActive),
		errors.Is(err, atmerror.ErrWithdrawalLimit),
		errors.Is(err, atmerror.ErrInsufficientBalance):
		return fiber.StatusConflict
	case errors.Is(err, atmerror.ErrAccountLocked):
		return fiber.StatusLocked
	default:
		return fiber.StatusInternalServerError
	}
}
