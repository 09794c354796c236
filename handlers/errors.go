package handlers

import (
	"errors"
	"log/slog"

	"volleyball-scoretracker/scoring"
	"volleyball-scoretracker/services"

	"github.com/gofiber/fiber/v2"
)

var errBadRequest = errors.New("malformed request body")

type errorMapping struct {
	err    error
	status int
	code   string
}

// errorMappings is checked in order; the first match wins.
var errorMappings = []errorMapping{
	{services.ErrUnauthenticated, fiber.StatusUnauthorized, "UNAUTHENTICATED"},
	{services.ErrSessionExpired, fiber.StatusUnauthorized, "SESSION_EXPIRED"},
	{services.ErrInvalidCredential, fiber.StatusUnauthorized, "INVALID_CREDENTIAL"},
	{services.ErrUnauthorized, fiber.StatusForbidden, "UNAUTHORIZED"},
	{services.ErrMatchNotFound, fiber.StatusNotFound, "NOT_FOUND"},
	{scoring.ErrSetNotFound, fiber.StatusNotFound, "SET_NOT_FOUND"},
	{scoring.ErrNotInProgress, fiber.StatusConflict, "NOT_IN_PROGRESS"},
	{scoring.ErrUndoAlreadyUsed, fiber.StatusConflict, "UNDO_ALREADY_USED"},
	{scoring.ErrNothingToUndo, fiber.StatusConflict, "NOTHING_TO_UNDO"},
	{scoring.ErrUnknownScorer, fiber.StatusConflict, "UNKNOWN_SCORER"},
	{scoring.ErrCannotUndoTeam1, fiber.StatusConflict, "CANNOT_UNDO_TEAM1"},
	{scoring.ErrCannotUndoTeam2, fiber.StatusConflict, "CANNOT_UNDO_TEAM2"},
	{scoring.ErrCannotPauseCompleted, fiber.StatusConflict, "CANNOT_PAUSE_COMPLETED"},
	{scoring.ErrSetTallyExceeded, fiber.StatusConflict, "SET_TALLY_EXCEEDED"},
	{services.ErrAccountExists, fiber.StatusConflict, "ACCOUNT_EXISTS"},
	{scoring.ErrInvalidTeam, fiber.StatusBadRequest, "INVALID_TEAM"},
	{scoring.ErrNegativeScore, fiber.StatusBadRequest, "NEGATIVE_SCORE"},
	{scoring.ErrInvalidSetScore, fiber.StatusBadRequest, "INVALID_SET_SCORE"},
	{services.ErrInvalidTeamName, fiber.StatusBadRequest, "INVALID_TEAM_NAME"},
	{services.ErrInvalidAccount, fiber.StatusBadRequest, "INVALID_ACCOUNT"},
	{errBadRequest, fiber.StatusBadRequest, "BAD_REQUEST"},
}

// respondError writes the JSON error body for err.
func respondError(c *fiber.Ctx, err error) error {
	for _, m := range errorMappings {
		if errors.Is(err, m.err) {
			return c.Status(m.status).JSON(fiber.Map{
				"error":   m.code,
				"message": m.err.Error(),
			})
		}
	}

	slog.ErrorContext(c.UserContext(), "request failed",
		slog.String("method", c.Method()),
		slog.String("path", c.Path()),
		slog.Any("error", err),
	)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error":   "INTERNAL",
		"message": "internal server error",
	})
}
