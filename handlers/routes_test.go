package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"volleyball-scoretracker/middleware"
	"volleyball-scoretracker/models"
	"volleyball-scoretracker/repositories"
	"volleyball-scoretracker/scoring"
	"volleyball-scoretracker/services"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()

	store := repositories.NewMemoryStore()
	metrics := services.NewMetrics(prometheus.NewRegistry())
	identity := services.NewIdentityProvider("handler-secret", time.Hour)

	matchService := services.NewMatchService(store, metrics, nil, nil)
	guestService := services.NewGuestSessionService(store, 24*time.Hour, metrics, nil)
	accountService := services.NewAccountService(store, identity, nil)
	accountService.HashCost = bcrypt.MinCost

	app := fiber.New()
	SetupAuthRoutes(app, accountService)
	SetupGuestRoutes(app, guestService)
	SetupMatchRoutes(app, matchService, identity)
	return app
}

type call struct {
	method  string
	path    string
	body    any
	headers map[string]string
}

func do(t *testing.T, app *fiber.App, c call, out any) int {
	t.Helper()

	var body io.Reader
	if c.body != nil {
		raw, err := json.Marshal(c.body)
		require.NoError(t, err)
		body = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(c.method, c.path, body)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func newGuest(t *testing.T, app *fiber.App) map[string]string {
	t.Helper()
	var session models.GuestSession
	status := do(t, app, call{method: http.MethodPost, path: "/api/guest/session"}, &session)
	require.Equal(t, fiber.StatusCreated, status)
	require.NotEmpty(t, session.ID)
	return map[string]string{middleware.GuestSessionHeader: session.ID}
}

func newMatch(t *testing.T, app *fiber.App, headers map[string]string) models.Match {
	t.Helper()
	var m models.Match
	status := do(t, app, call{
		method:  http.MethodPost,
		path:    "/api/matches",
		body:    createMatchRequest{Team1Name: "Aces", Team2Name: "Diggers"},
		headers: headers,
	}, &m)
	require.Equal(t, fiber.StatusCreated, status)
	return m
}

func TestGuestMatchFlow(t *testing.T) {
	app := newTestApp(t)
	guest := newGuest(t, app)
	m := newMatch(t, app, guest)
	assert.Equal(t, "aces-vs-diggers", m.Slug)

	scorePath := "/api/matches/" + m.ID + "/score"
	for i := 0; i < 25; i++ {
		require.Equal(t, fiber.StatusOK, do(t, app, call{
			method: http.MethodPut, path: scorePath, body: fiber.Map{"team": "team1"}, headers: guest,
		}, &m))
	}
	assert.Equal(t, 1, m.Team1Sets)
	assert.Equal(t, 2, m.CurrentSet)
	require.Len(t, m.Sets, 1)

	status := do(t, app, call{
		method: http.MethodPut, path: "/api/matches/" + m.ID + "/edit-score",
		body: fiber.Map{"team1_score": 3, "team2_score": 5}, headers: guest,
	}, &m)
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, 5, m.Team2Score)

	require.Equal(t, fiber.StatusOK, do(t, app, call{
		method: http.MethodPut, path: "/api/matches/" + m.ID + "/undo", headers: guest,
	}, &m))
	assert.Equal(t, 4, m.Team2Score)

	var stats scoring.Statistics
	require.Equal(t, fiber.StatusOK, do(t, app, call{
		method: http.MethodGet, path: "/api/matches/statistics", headers: guest,
	}, &stats))
	assert.Equal(t, scoring.Statistics{TotalMatches: 1, ActiveMatches: 1}, stats)

	var active []models.Match
	require.Equal(t, fiber.StatusOK, do(t, app, call{
		method: http.MethodGet, path: "/api/matches/active", headers: guest,
	}, &active))
	require.Len(t, active, 1)

	assert.Equal(t, fiber.StatusNoContent, do(t, app, call{
		method: http.MethodDelete, path: "/api/matches/" + m.ID, headers: guest,
	}, nil))
	assert.Equal(t, fiber.StatusNotFound, do(t, app, call{
		method: http.MethodGet, path: "/api/matches/" + m.ID, headers: guest,
	}, nil))
}

func TestErrorResponses(t *testing.T) {
	app := newTestApp(t)
	owner := newGuest(t, app)
	stranger := newGuest(t, app)
	m := newMatch(t, app, owner)
	base := "/api/matches/" + m.ID

	tests := []struct {
		name       string
		call       call
		wantStatus int
		wantCode   string
	}{
		{
			name:       "no caller",
			call:       call{method: http.MethodGet, path: base},
			wantStatus: fiber.StatusUnauthorized,
			wantCode:   "UNAUTHENTICATED",
		},
		{
			name:       "bad bearer",
			call:       call{method: http.MethodGet, path: base, headers: map[string]string{"Authorization": "Bearer nope"}},
			wantStatus: fiber.StatusUnauthorized,
			wantCode:   "INVALID_CREDENTIAL",
		},
		{
			name:       "not owner",
			call:       call{method: http.MethodGet, path: base, headers: stranger},
			wantStatus: fiber.StatusForbidden,
			wantCode:   "UNAUTHORIZED",
		},
		{
			name:       "unknown match",
			call:       call{method: http.MethodGet, path: "/api/matches/" + gofakeit.UUID(), headers: owner},
			wantStatus: fiber.StatusNotFound,
			wantCode:   "NOT_FOUND",
		},
		{
			name:       "invalid team",
			call:       call{method: http.MethodPut, path: base + "/score", body: fiber.Map{"team": "team3"}, headers: owner},
			wantStatus: fiber.StatusBadRequest,
			wantCode:   "INVALID_TEAM",
		},
		{
			name:       "nothing to undo",
			call:       call{method: http.MethodPut, path: base + "/undo", headers: owner},
			wantStatus: fiber.StatusConflict,
			wantCode:   "NOTHING_TO_UNDO",
		},
		{
			name:       "negative edit",
			call:       call{method: http.MethodPut, path: base + "/edit-score", body: fiber.Map{"team1_score": -1, "team2_score": 0}, headers: owner},
			wantStatus: fiber.StatusBadRequest,
			wantCode:   "NEGATIVE_SCORE",
		},
		{
			name:       "missing edit field",
			call:       call{method: http.MethodPut, path: base + "/edit-score", body: fiber.Map{"team1_score": 1}, headers: owner},
			wantStatus: fiber.StatusBadRequest,
			wantCode:   "BAD_REQUEST",
		},
		{
			name:       "set not found",
			call:       call{method: http.MethodPut, path: base + "/sets/1", body: fiber.Map{"team1_points": 25, "team2_points": 20}, headers: owner},
			wantStatus: fiber.StatusNotFound,
			wantCode:   "SET_NOT_FOUND",
		},
		{
			name:       "set number not an int",
			call:       call{method: http.MethodPut, path: base + "/sets/first", body: fiber.Map{"team1_points": 25, "team2_points": 20}, headers: owner},
			wantStatus: fiber.StatusBadRequest,
			wantCode:   "BAD_REQUEST",
		},
		{
			name:       "blank team name",
			call:       call{method: http.MethodPost, path: "/api/matches", body: createMatchRequest{Team1Name: " ", Team2Name: "B"}, headers: owner},
			wantStatus: fiber.StatusBadRequest,
			wantCode:   "INVALID_TEAM_NAME",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var body struct {
				Error   string `json:"error"`
				Message string `json:"message"`
			}
			status := do(t, app, tt.call, &body)
			assert.Equal(t, tt.wantStatus, status)
			assert.Equal(t, tt.wantCode, body.Error)
			assert.NotEmpty(t, body.Message)
		})
	}
}

func TestAccountMatchFlow(t *testing.T) {
	app := newTestApp(t)

	var registered services.AuthResult
	status := do(t, app, call{
		method: http.MethodPost,
		path:   "/api/auth/register",
		body:   registerRequest{Username: "coach", Email: "coach@example.com", Password: "serve-and-volley"},
	}, &registered)
	require.Equal(t, fiber.StatusCreated, status)
	require.NotEmpty(t, registered.Token)

	var loggedIn services.AuthResult
	status = do(t, app, call{
		method: http.MethodPost,
		path:   "/api/auth/login",
		body:   loginRequest{Username: "coach", Password: "serve-and-volley"},
	}, &loggedIn)
	require.Equal(t, fiber.StatusOK, status)

	bearer := map[string]string{"Authorization": "Bearer " + loggedIn.Token}

	var account models.Account
	require.Equal(t, fiber.StatusOK, do(t, app, call{
		method: http.MethodPost, path: "/api/auth/validate", headers: bearer,
	}, &account))
	assert.Equal(t, "coach", account.Username)

	m := newMatch(t, app, bearer)
	var list []models.Match
	require.Equal(t, fiber.StatusOK, do(t, app, call{method: http.MethodGet, path: "/api/matches", headers: bearer}, &list))
	require.Len(t, list, 1)
	assert.Equal(t, m.ID, list[0].ID)

	assert.Equal(t, fiber.StatusConflict, do(t, app, call{
		method: http.MethodPost,
		path:   "/api/auth/register",
		body:   registerRequest{Username: "coach", Email: "other@example.com", Password: "serve-and-volley"},
	}, nil))
	assert.Equal(t, fiber.StatusUnauthorized, do(t, app, call{
		method: http.MethodPost,
		path:   "/api/auth/login",
		body:   loginRequest{Username: "coach", Password: "wrong-password"},
	}, nil))
}

func TestGuestSessionRoutes(t *testing.T) {
	app := newTestApp(t)
	guest := newGuest(t, app)
	id := guest[middleware.GuestSessionHeader]

	var res struct {
		Valid bool `json:"valid"`
	}
	require.Equal(t, fiber.StatusOK, do(t, app, call{method: http.MethodGet, path: "/api/guest/session/" + id + "/validate"}, &res))
	assert.True(t, res.Valid)

	require.Equal(t, fiber.StatusNoContent, do(t, app, call{method: http.MethodDelete, path: "/api/guest/session/" + id}, nil))

	require.Equal(t, fiber.StatusOK, do(t, app, call{method: http.MethodGet, path: "/api/guest/session/" + id + "/validate"}, &res))
	assert.False(t, res.Valid)
}
