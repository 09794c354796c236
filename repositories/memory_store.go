package repositories

import (
	"context"
	"maps"
	"slices"
	"sync"
	"time"

	"volleyball-scoretracker/models"
)

// MemoryStore keeps everything in process memory. Transactions are fully
// serialised and work on copies, so a failed fn leaves no trace. It backs
// STORAGE_DRIVER=memory and the service tests.
type MemoryStore struct {
	mu  sync.Mutex
	now func() time.Time

	seq      int64
	matches  map[string]memoryMatch
	sessions map[string]models.GuestSession
	accounts map[string]models.Account
}

type memoryMatch struct {
	seq   int64
	match models.Match
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		now:      time.Now,
		matches:  make(map[string]memoryMatch),
		sessions: make(map[string]models.GuestSession),
		accounts: make(map[string]models.Account),
	}
}

func (s *MemoryStore) Transaction(ctx context.Context, fn func(tx Tx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tx := &memoryTx{
		now:      s.now(),
		seq:      s.seq,
		matches:  maps.Clone(s.matches),
		sessions: maps.Clone(s.sessions),
		accounts: maps.Clone(s.accounts),
	}
	if err := fn(tx); err != nil {
		return err
	}

	s.seq = tx.seq
	s.matches = tx.matches
	s.sessions = tx.sessions
	s.accounts = tx.accounts
	return nil
}

type memoryTx struct {
	now      time.Time
	seq      int64
	matches  map[string]memoryMatch
	sessions map[string]models.GuestSession
	accounts map[string]models.Account
}

// cloneMatch copies everything reachable from m so callers never share
// memory with the store.
func cloneMatch(m models.Match) models.Match {
	out := m
	out.Sets = slices.Clone(m.Sets)
	if m.LastScoringTeam != nil {
		team := *m.LastScoringTeam
		out.LastScoringTeam = &team
	}
	if m.LastScoreTime != nil {
		ts := *m.LastScoreTime
		out.LastScoreTime = &ts
	}
	if m.OwnerAccountID != nil {
		id := *m.OwnerAccountID
		out.OwnerAccountID = &id
	}
	if m.OwnerGuestSessionID != nil {
		id := *m.OwnerGuestSessionID
		out.OwnerGuestSessionID = &id
	}
	return out
}

func (t *memoryTx) CreateMatch(m *models.Match) error {
	if m.Owner() == nil {
		return ErrInvalidOwner
	}
	if _, exists := t.matches[m.ID]; exists {
		return ErrDuplicate
	}
	m.CreatedAt = t.now
	m.UpdatedAt = t.now
	t.seq++
	t.matches[m.ID] = memoryMatch{seq: t.seq, match: cloneMatch(*m)}
	return nil
}

func (t *memoryTx) LockMatch(id string) (*models.Match, error) {
	// Transactions are already serialised.
	return t.GetMatch(id)
}

func (t *memoryTx) GetMatch(id string) (*models.Match, error) {
	row, ok := t.matches[id]
	if !ok {
		return nil, ErrNotFound
	}
	m := cloneMatch(row.match)
	return &m, nil
}

func (t *memoryTx) SaveMatch(m *models.Match) error {
	if m.Owner() == nil {
		return ErrInvalidOwner
	}
	row, ok := t.matches[m.ID]
	if !ok {
		return ErrNotFound
	}

	m.UpdatedAt = t.now
	for i := range m.Sets {
		m.Sets[i].MatchID = m.ID
		if m.Sets[i].CreatedAt.IsZero() {
			m.Sets[i].CreatedAt = t.now
		}
		m.Sets[i].UpdatedAt = t.now
	}
	slices.SortFunc(m.Sets, func(a, b models.SetScore) int { return a.SetNumber - b.SetNumber })

	row.match = cloneMatch(*m)
	t.matches[m.ID] = row
	return nil
}

func (t *memoryTx) DeleteMatch(id string) error {
	if _, ok := t.matches[id]; !ok {
		return ErrNotFound
	}
	delete(t.matches, id)
	return nil
}

func (t *memoryTx) ListMatches(owner models.Owner, status *models.MatchStatus) ([]models.Match, error) {
	switch owner.(type) {
	case models.AccountOwner, models.GuestOwner:
	default:
		return nil, ErrInvalidOwner
	}

	var rows []memoryMatch
	for _, row := range t.matches {
		if !row.match.OwnedBy(owner) {
			continue
		}
		if status != nil && row.match.Status != *status {
			continue
		}
		rows = append(rows, row)
	}
	slices.SortFunc(rows, func(a, b memoryMatch) int { return int(b.seq - a.seq) })

	matches := make([]models.Match, 0, len(rows))
	for _, row := range rows {
		matches = append(matches, cloneMatch(row.match))
	}
	return matches, nil
}

func (t *memoryTx) CreateGuestSession(s *models.GuestSession) error {
	if _, exists := t.sessions[s.ID]; exists {
		return ErrDuplicate
	}
	s.CreatedAt = t.now
	t.sessions[s.ID] = *s
	return nil
}

func (t *memoryTx) GetGuestSession(id string) (*models.GuestSession, error) {
	s, ok := t.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &s, nil
}

func (t *memoryTx) DeleteGuestSession(id string) error {
	delete(t.sessions, id)
	return nil
}

func (t *memoryTx) DeleteExpiredGuestSessions(now time.Time) (int64, error) {
	var n int64
	for id, s := range t.sessions {
		if s.ExpiresAt.Before(now) {
			delete(t.sessions, id)
			n++
		}
	}
	return n, nil
}

func (t *memoryTx) CreateAccount(a *models.Account) error {
	for _, existing := range t.accounts {
		if existing.Username == a.Username || existing.Email == a.Email {
			return ErrDuplicate
		}
	}
	a.CreatedAt = t.now
	a.UpdatedAt = t.now
	t.accounts[a.ID] = *a
	return nil
}

func (t *memoryTx) GetAccount(id string) (*models.Account, error) {
	a, ok := t.accounts[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &a, nil
}

func (t *memoryTx) GetAccountByUsername(username string) (*models.Account, error) {
	for _, a := range t.accounts {
		if a.Username == username {
			return &a, nil
		}
	}
	return nil, ErrNotFound
}

func (t *memoryTx) SaveAccount(a *models.Account) error {
	if _, ok := t.accounts[a.ID]; !ok {
		return ErrNotFound
	}
	a.UpdatedAt = t.now
	t.accounts[a.ID] = *a
	return nil
}
