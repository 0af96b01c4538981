package application

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/bnema/jobgate/internal/domain"
	"github.com/bnema/jobgate/internal/ports"
)

var ErrTokenNotFound = errors.New("service token not found")

// TokenService stores the job service credential for an account in a SecretStore.
type TokenService struct {
	store ports.SecretStore
}

func NewTokenService(store ports.SecretStore) *TokenService {
	return &TokenService{store: store}
}

func TokenKey(accountID domain.AccountID) string {
	return fmt.Sprintf("jobgate://%s/token", accountID)
}

func (s *TokenService) Set(ctx context.Context, accountID domain.AccountID, token string) error {
	if strings.TrimSpace(string(accountID)) == "" {
		return errors.New("account id is required")
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return errors.New("token is required")
	}

	if err := s.store.Put(ctx, TokenKey(accountID), token); err != nil {
		return fmt.Errorf("store service token: %w", err)
	}

	return nil
}

func (s *TokenService) Get(ctx context.Context, accountID domain.AccountID) (string, error) {
	token, err := s.store.Get(ctx, TokenKey(accountID))
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrTokenNotFound, err)
	}
	if strings.TrimSpace(token) == "" {
		return "", ErrTokenNotFound
	}

	return strings.TrimSpace(token), nil
}

func (s *TokenService) Remove(ctx context.Context, accountID domain.AccountID) error {
	if strings.TrimSpace(string(accountID)) == "" {
		return errors.New("account id is required")
	}
	if err := s.store.Delete(ctx, TokenKey(accountID)); err != nil {
		return fmt.Errorf("delete service token: %w", err)
	}

	return nil
}
