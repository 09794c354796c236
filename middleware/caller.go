// middleware/caller.go
package middleware

import (
	"log/slog"
	"strings"

	"volleyball-scoretracker/models"

	"github.com/gofiber/fiber/v2"
)

const (
	// GuestSessionHeader carries a guest session id when no bearer token is sent.
	GuestSessionHeader = "Guest-Session-Id"

	callerLocalsKey = "caller"
)

// TokenVerifier resolves a bearer token to an account id.
type TokenVerifier interface {
	AccountID(token string) (string, error)
}

// CallerContextMiddleware works out who is calling and stores it for
// handlers. A bearer token wins over a guest session header; a bearer token
// that does not verify is rejected outright. Requests with neither pass
// through without a caller and are refused by the services.
func CallerContextMiddleware(verifier TokenVerifier) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if token, ok := bearerToken(c.Get(fiber.HeaderAuthorization)); ok {
			accountID, err := verifier.AccountID(token)
			if err != nil {
				slog.Debug("bearer token rejected", slog.String("path", c.Path()), slog.Any("error", err))
				return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
					"error":   "INVALID_CREDENTIAL",
					"message": "invalid or expired token",
				})
			}
			c.Locals(callerLocalsKey, models.Owner(models.AccountOwner{AccountID: accountID}))
			return c.Next()
		}

		if sessionID := strings.TrimSpace(c.Get(GuestSessionHeader)); sessionID != "" {
			c.Locals(callerLocalsKey, models.Owner(models.GuestOwner{SessionID: sessionID}))
		}
		return c.Next()
	}
}

// Caller returns the caller stored by CallerContextMiddleware, or nil.
func Caller(c *fiber.Ctx) models.Owner {
	caller, _ := c.Locals(callerLocalsKey).(models.Owner)
	return caller
}

func bearerToken(header string) (string, bool) {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
