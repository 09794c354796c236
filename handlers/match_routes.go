// handlers/match_routes.go
package handlers

import (
	"volleyball-scoretracker/middleware"
	"volleyball-scoretracker/models"
	"volleyball-scoretracker/services"

	"github.com/gofiber/fiber/v2"
)

type createMatchRequest struct {
	Team1Name string `json:"team1_name"`
	Team2Name string `json:"team2_name"`
}

type scorePointRequest struct {
	Team models.Team `json:"team"`
}

type editScoreRequest struct {
	Team1Score *int `json:"team1_score"`
	Team2Score *int `json:"team2_score"`
}

type editSetRequest struct {
	Team1Points *int `json:"team1_points"`
	Team2Points *int `json:"team2_points"`
}

func SetupMatchRoutes(app *fiber.App, matchService *services.MatchService, verifier middleware.TokenVerifier) {
	matches := app.Group("/api/matches", middleware.CallerContextMiddleware(verifier))

	matches.Get("/", func(c *fiber.Ctx) error {
		list, err := matchService.ListMatches(c.UserContext(), middleware.Caller(c))
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(list)
	})

	matches.Get("/active", func(c *fiber.Ctx) error {
		list, err := matchService.ListActiveMatches(c.UserContext(), middleware.Caller(c))
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(list)
	})

	matches.Get("/statistics", func(c *fiber.Ctx) error {
		stats, err := matchService.Statistics(c.UserContext(), middleware.Caller(c))
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(stats)
	})

	matches.Post("/", func(c *fiber.Ctx) error {
		var req createMatchRequest
		if err := c.BodyParser(&req); err != nil {
			return respondError(c, errBadRequest)
		}
		m, err := matchService.CreateMatch(c.UserContext(), middleware.Caller(c), req.Team1Name, req.Team2Name)
		if err != nil {
			return respondError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(m)
	})

	matches.Get("/:id", func(c *fiber.Ctx) error {
		m, err := matchService.GetMatch(c.UserContext(), middleware.Caller(c), c.Params("id"))
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(m)
	})

	matches.Put("/:id/score", func(c *fiber.Ctx) error {
		var req scorePointRequest
		if err := c.BodyParser(&req); err != nil {
			return respondError(c, errBadRequest)
		}
		return respondMatch(c)(matchService.ScorePoint(c.UserContext(), middleware.Caller(c), c.Params("id"), req.Team))
	})

	matches.Put("/:id/undo", func(c *fiber.Ctx) error {
		return respondMatch(c)(matchService.UndoLastPoint(c.UserContext(), middleware.Caller(c), c.Params("id")))
	})

	matches.Put("/:id/edit-score", func(c *fiber.Ctx) error {
		var req editScoreRequest
		if err := c.BodyParser(&req); err != nil || req.Team1Score == nil || req.Team2Score == nil {
			return respondError(c, errBadRequest)
		}
		return respondMatch(c)(matchService.EditCurrentSetScore(
			c.UserContext(), middleware.Caller(c), c.Params("id"), *req.Team1Score, *req.Team2Score,
		))
	})

	matches.Put("/:id/sets/:setNumber", func(c *fiber.Ctx) error {
		setNumber, err := c.ParamsInt("setNumber")
		if err != nil {
			return respondError(c, errBadRequest)
		}
		var req editSetRequest
		if err := c.BodyParser(&req); err != nil || req.Team1Points == nil || req.Team2Points == nil {
			return respondError(c, errBadRequest)
		}
		return respondMatch(c)(matchService.EditCompletedSet(
			c.UserContext(), middleware.Caller(c), c.Params("id"), setNumber, *req.Team1Points, *req.Team2Points,
		))
	})

	matches.Put("/:id/reset-set", func(c *fiber.Ctx) error {
		return respondMatch(c)(matchService.ResetCurrentSet(c.UserContext(), middleware.Caller(c), c.Params("id")))
	})

	matches.Put("/:id/pause", func(c *fiber.Ctx) error {
		return respondMatch(c)(matchService.TogglePause(c.UserContext(), middleware.Caller(c), c.Params("id")))
	})

	matches.Delete("/:id", func(c *fiber.Ctx) error {
		if err := matchService.DeleteMatch(c.UserContext(), middleware.Caller(c), c.Params("id")); err != nil {
			return respondError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	})
}

// respondMatch adapts a service call returning (*Match, error) to a response.
func respondMatch(c *fiber.Ctx) func(*models.Match, error) error {
	return func(m *models.Match, err error) error {
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(m)
	}
}
