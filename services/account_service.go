package services

import (
	"context"
	"errors"
	"log/slog"
	"net/mail"
	"strings"
	"time"

	"volleyball-scoretracker/models"
	"volleyball-scoretracker/repositories"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const minPasswordLength = 8

// AuthResult is what register and login hand back to the client.
type AuthResult struct {
	Token   string          `json:"token"`
	Account *models.Account `json:"account"`
}

type AccountService struct {
	Store    repositories.Store
	Identity *IdentityProvider
	Logger   *slog.Logger
	Now      func() time.Time

	// HashCost is the bcrypt cost for new passwords.
	HashCost int
}

func NewAccountService(store repositories.Store, identity *IdentityProvider, logger *slog.Logger) *AccountService {
	if logger == nil {
		logger = slog.Default()
	}
	return &AccountService{
		Store:    store,
		Identity: identity,
		Logger:   logger,
		Now:      time.Now,
		HashCost: bcrypt.DefaultCost,
	}
}

// Register creates an account and signs the caller in.
func (s *AccountService) Register(ctx context.Context, username, email, password string) (*AuthResult, error) {
	username = strings.TrimSpace(username)
	email = strings.ToLower(strings.TrimSpace(email))
	if username == "" || len(password) < minPasswordLength {
		return nil, ErrInvalidAccount
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, ErrInvalidAccount
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.HashCost)
	if err != nil {
		return nil, err
	}

	now := s.Now()
	account := &models.Account{
		ID:           uuid.NewString(),
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		LastLoginAt:  &now,
	}

	err = runInTx(ctx, s.Store, func(tx repositories.Tx) error {
		if err := tx.CreateAccount(account); err != nil {
			if errors.Is(err, repositories.ErrDuplicate) {
				return ErrAccountExists
			}
			return infra(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.Logger.InfoContext(ctx, "account registered", slog.String("account_id", account.ID))
	return s.signIn(account)
}

// Login checks the password and stamps the login time.
func (s *AccountService) Login(ctx context.Context, username, password string) (*AuthResult, error) {
	var account *models.Account
	err := runInTx(ctx, s.Store, func(tx repositories.Tx) error {
		found, err := tx.GetAccountByUsername(strings.TrimSpace(username))
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrInvalidCredential
		}
		if err != nil {
			return infra(err)
		}
		if bcrypt.CompareHashAndPassword([]byte(found.PasswordHash), []byte(password)) != nil {
			return ErrInvalidCredential
		}

		now := s.Now()
		found.LastLoginAt = &now
		if err := tx.SaveAccount(found); err != nil {
			return infra(err)
		}
		account = found
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.Logger.InfoContext(ctx, "account signed in", slog.String("account_id", account.ID))
	return s.signIn(account)
}

// Validate resolves a bearer token to its account.
func (s *AccountService) Validate(ctx context.Context, token string) (*models.Account, error) {
	accountID, err := s.Identity.AccountID(token)
	if err != nil {
		return nil, err
	}

	var account *models.Account
	err = runInTx(ctx, s.Store, func(tx repositories.Tx) error {
		found, err := tx.GetAccount(accountID)
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrInvalidCredential
		}
		if err != nil {
			return infra(err)
		}
		account = found
		return nil
	})
	if err != nil {
		return nil, err
	}
	return account, nil
}

func (s *AccountService) signIn(account *models.Account) (*AuthResult, error) {
	token, err := s.Identity.IssueToken(account.ID)
	if err != nil {
		return nil, err
	}
	return &AuthResult{Token: token, Account: account}, nil
}
