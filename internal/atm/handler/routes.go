package handler

import (
	"github.com/gofiber/fiber/v2"
)

func RegisterRoutes(app *fiber.App, h *ATMHandler) {
	v1 := app.Group("/api/v1")

	v1.Post("/register", h.Register)
	v1.Post("/login", h.Login)

	// Session-gated endpoints
	session := v1.Group("", h.RequireSession())
	session.Post("/deposit", h.Deposit)
	session.Post("/withdraw", h.Withdraw)
	session.Post("/transfer", h.Transfer)
	session.Get("/history", h.History)
	session.Get("/balance", h.Balance)
	session.Delete("/session", h.Logout)
}
