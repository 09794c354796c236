package handlers

import (
	"strings"

	"volleyball-scoretracker/services"

	"github.com/gofiber/fiber/v2"
)

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func SetupAuthRoutes(app *fiber.App, accountService *services.AccountService) {
	auth := app.Group("/api/auth")

	auth.Post("/register", func(c *fiber.Ctx) error {
		var req registerRequest
		if err := c.BodyParser(&req); err != nil {
			return respondError(c, errBadRequest)
		}
		res, err := accountService.Register(c.UserContext(), req.Username, req.Email, req.Password)
		if err != nil {
			return respondError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(res)
	})

	auth.Post("/login", func(c *fiber.Ctx) error {
		var req loginRequest
		if err := c.BodyParser(&req); err != nil {
			return respondError(c, errBadRequest)
		}
		res, err := accountService.Login(c.UserContext(), req.Username, req.Password)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(res)
	})

	auth.Post("/validate", func(c *fiber.Ctx) error {
		token, ok := strings.CutPrefix(c.Get(fiber.HeaderAuthorization), "Bearer ")
		if !ok || strings.TrimSpace(token) == "" {
			return respondError(c, services.ErrInvalidCredential)
		}
		account, err := accountService.Validate(c.UserContext(), strings.TrimSpace(token))
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(account)
	})
}
