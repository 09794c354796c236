package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"volleyball-scoretracker/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormStore is the postgres-backed Store.
type GormStore struct {
	DB *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{DB: db}
}

// AutoMigrate creates or updates the tables the store needs.
func (s *GormStore) AutoMigrate() error {
	return s.DB.AutoMigrate(
		&models.Account{},
		&models.GuestSession{},
		&models.Match{},
		&models.SetScore{},
	)
}

func (s *GormStore) Transaction(ctx context.Context, fn func(tx Tx) error) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormTx{db: tx})
	})
}

type gormTx struct {
	db *gorm.DB
}

func orderedSets(db *gorm.DB) *gorm.DB {
	return db.Order("set_number ASC")
}

func (t *gormTx) CreateMatch(m *models.Match) error {
	if m.Owner() == nil {
		return ErrInvalidOwner
	}
	return t.db.Omit(clause.Associations).Create(m).Error
}

func (t *gormTx) LockMatch(id string) (*models.Match, error) {
	var m models.Match
	err := t.db.Clauses(clause.Locking{Strength: "UPDATE"}).
		Preload("Sets", orderedSets).
		First(&m, "id = ?", id).Error
	if err != nil {
		return nil, translate(err)
	}
	return &m, nil
}

func (t *gormTx) GetMatch(id string) (*models.Match, error) {
	var m models.Match
	if err := t.db.Preload("Sets", orderedSets).First(&m, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &m, nil
}

func (t *gormTx) SaveMatch(m *models.Match) error {
	if m.Owner() == nil {
		return ErrInvalidOwner
	}
	if err := t.db.Omit(clause.Associations).Save(m).Error; err != nil {
		return fmt.Errorf("failed to save match %s: %w", m.ID, err)
	}
	if len(m.Sets) == 0 {
		return nil
	}
	for i := range m.Sets {
		m.Sets[i].MatchID = m.ID
	}
	// Rows created by a set completion are new, corrected rows already exist.
	if err := t.db.Clauses(clause.OnConflict{UpdateAll: true}).Create(&m.Sets).Error; err != nil {
		return fmt.Errorf("failed to save sets for match %s: %w", m.ID, err)
	}
	return nil
}

func (t *gormTx) DeleteMatch(id string) error {
	if err := t.db.Where("match_id = ?", id).Delete(&models.SetScore{}).Error; err != nil {
		return fmt.Errorf("failed to delete sets for match %s: %w", id, err)
	}
	res := t.db.Delete(&models.Match{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete match %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (t *gormTx) ListMatches(owner models.Owner, status *models.MatchStatus) ([]models.Match, error) {
	q := t.db.Preload("Sets", orderedSets).Order("created_at DESC")
	switch o := owner.(type) {
	case models.AccountOwner:
		q = q.Where("owner_account_id = ?", o.AccountID)
	case models.GuestOwner:
		q = q.Where("owner_guest_session_id = ?", o.SessionID)
	default:
		return nil, ErrInvalidOwner
	}
	if status != nil {
		q = q.Where("status = ?", *status)
	}

	var matches []models.Match
	if err := q.Find(&matches).Error; err != nil {
		return nil, err
	}
	return matches, nil
}

func (t *gormTx) CreateGuestSession(s *models.GuestSession) error {
	return translate(t.db.Create(s).Error)
}

func (t *gormTx) GetGuestSession(id string) (*models.GuestSession, error) {
	var s models.GuestSession
	if err := t.db.First(&s, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &s, nil
}

func (t *gormTx) DeleteGuestSession(id string) error {
	return t.db.Delete(&models.GuestSession{}, "id = ?", id).Error
}

func (t *gormTx) DeleteExpiredGuestSessions(now time.Time) (int64, error) {
	res := t.db.Where("expires_at < ?", now).Delete(&models.GuestSession{})
	return res.RowsAffected, res.Error
}

func (t *gormTx) CreateAccount(a *models.Account) error {
	return translate(t.db.Create(a).Error)
}

func (t *gormTx) GetAccount(id string) (*models.Account, error) {
	var a models.Account
	if err := t.db.First(&a, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &a, nil
}

func (t *gormTx) GetAccountByUsername(username string) (*models.Account, error) {
	var a models.Account
	if err := t.db.Where("username = ?", username).First(&a).Error; err != nil {
		return nil, translate(err)
	}
	return &a, nil
}

func (t *gormTx) SaveAccount(a *models.Account) error {
	return translate(t.db.Save(a).Error)
}

// translate maps gorm sentinels onto the package's own. The DB handle must be
// opened with TranslateError for duplicate keys to be recognised.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf("%w: %w", ErrDuplicate, err)
	}
	return err
}
