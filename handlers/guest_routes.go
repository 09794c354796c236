package handlers

import (
	"volleyball-scoretracker/services"

	"github.com/gofiber/fiber/v2"
)

func SetupGuestRoutes(app *fiber.App, guestService *services.GuestSessionService) {
	guest := app.Group("/api/guest/session")

	guest.Post("/", func(c *fiber.Ctx) error {
		session, err := guestService.CreateSession(c.UserContext())
		if err != nil {
			return respondError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(session)
	})

	guest.Get("/:sessionId/validate", func(c *fiber.Ctx) error {
		valid, err := guestService.IsValid(c.UserContext(), c.Params("sessionId"))
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(fiber.Map{"valid": valid})
	})

	guest.Delete("/:sessionId", func(c *fiber.Ctx) error {
		if err := guestService.DeleteSession(c.UserContext(), c.Params("sessionId")); err != nil {
			return respondError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	})
}
