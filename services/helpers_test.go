package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"volleyball-scoretracker/models"
	"volleyball-scoretracker/repositories"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// testClock is a settable clock shared by every service in a fixture.
type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func newTestClock() *testClock {
	return &testClock{now: time.Date(2026, 5, 1, 18, 0, 0, 0, time.UTC)}
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// fakeQueue records archived matches.
type fakeQueue struct {
	mu      sync.Mutex
	full    bool
	matches []models.Match
}

func (q *fakeQueue) Enqueue(m models.Match) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.full {
		return false
	}
	q.matches = append(q.matches, m)
	return true
}

func (q *fakeQueue) Archived() []models.Match {
	q.mu.Lock()
	defer q.mu.Unlock()
	return append([]models.Match(nil), q.matches...)
}

type fixture struct {
	store    *repositories.MemoryStore
	clock    *testClock
	queue    *fakeQueue
	matches  *MatchService
	guests   *GuestSessionService
	accounts *AccountService
	identity *IdentityProvider
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	clock := newTestClock()
	store := repositories.NewMemoryStore()
	metrics := NewMetrics(prometheus.NewRegistry())
	queue := &fakeQueue{}

	matches := NewMatchService(store, metrics, queue, nil)
	matches.Now = clock.Now
	matches.Guard.Now = clock.Now

	guests := NewGuestSessionService(store, 24*time.Hour, metrics, nil)
	guests.Now = clock.Now

	identity := NewIdentityProvider("test-secret", time.Hour)
	identity.now = clock.Now

	accounts := NewAccountService(store, identity, nil)
	accounts.Now = clock.Now
	accounts.HashCost = bcrypt.MinCost

	return &fixture{
		store:    store,
		clock:    clock,
		queue:    queue,
		matches:  matches,
		guests:   guests,
		accounts: accounts,
		identity: identity,
	}
}

func (f *fixture) guest(t *testing.T) models.GuestOwner {
	t.Helper()
	s, err := f.guests.CreateSession(context.Background())
	require.NoError(t, err)
	return models.GuestOwner{SessionID: s.ID}
}

func (f *fixture) account(t *testing.T) models.AccountOwner {
	t.Helper()
	res, err := f.accounts.Register(context.Background(), gofakeit.Username(), gofakeit.Email(), gofakeit.Password(true, true, true, false, false, 12))
	require.NoError(t, err)
	return models.AccountOwner{AccountID: res.Account.ID}
}

func (f *fixture) newMatch(t *testing.T, owner models.Owner) *models.Match {
	t.Helper()
	m, err := f.matches.CreateMatch(context.Background(), owner, gofakeit.Company(), gofakeit.Company())
	require.NoError(t, err)
	return m
}

func (f *fixture) score(t *testing.T, owner models.Owner, matchID string, team models.Team, n int) *models.Match {
	t.Helper()
	var m *models.Match
	for i := 0; i < n; i++ {
		var err error
		m, err = f.matches.ScorePoint(context.Background(), owner, matchID, team)
		require.NoError(t, err)
	}
	return m
}

func unknownID() string { return uuid.NewString() }
