package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"strings"

	"bluecarbon-backend/internal/domain"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// RegisterInput for account registration.
type RegisterInput struct {
	Name         string `json:"name"`
	Email        string `json:"email"`
	Organization string `json:"organization"`
}

// RegisteredAccount carries the one-time API key back to the caller. The
// key is never stored or shown again.
type RegisteredAccount struct {
	Account domain.Account `json:"account"`
	APIKey  string         `json:"api_key"`
}

type Service struct {
	DB *gorm.DB
}

// Register creates an account and issues its API key in the form
// "<account_id>.<secret>"; only the bcrypt hash of the secret is kept.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*RegisteredAccount, error) {
	if in.Name == "" {
		return nil, ErrNameRequired
	}
	secret, err := randomHex(32)
	if err != nil {
		return nil, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	account := domain.Account{
		Name:         in.Name,
		Email:        in.Email,
		Organization: in.Organization,
		APIKeyHash:   string(hash),
	}
	if err := s.DB.WithContext(ctx).Create(&account).Error; err != nil {
		return nil, err
	}
	return &RegisteredAccount{
		Account: account,
		APIKey:  account.AccountID.String() + "." + secret,
	}, nil
}

// Authenticate resolves a bearer API key to its account.
func (s *Service) Authenticate(ctx context.Context, apiKey string) (*domain.Account, error) {
	id, secret, ok := strings.Cut(apiKey, ".")
	if !ok {
		return nil, ErrInvalidAPIKey
	}
	accountID, err := uuid.Parse(id)
	if err != nil {
		return nil, ErrInvalidAPIKey
	}
	var account domain.Account
	if err := s.DB.WithContext(ctx).Where("account_id = ?", accountID).First(&account).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrInvalidAPIKey
		}
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(account.APIKeyHash), []byte(secret)) != nil {
		return nil, ErrInvalidAPIKey
	}
	return &account, nil
}

// GetAccount fetches an account by id.
func (s *Service) GetAccount(ctx context.Context, accountID uuid.UUID) (*domain.Account, error) {
	var account domain.Account
	if err := s.DB.WithContext(ctx).Where("account_id = ?", accountID).First(&account).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrAccountNotFound
		}
		return nil, err
	}
	return &account, nil
}

func randomHex(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
