package service

import (
	"context"

	"ledger_wallet_session/models"
	"ledger_wallet_session/pkg/repository"
)

// AuthService keeps the bearer token issued by the external auth flow.
type AuthService struct {
	repos repository.Storage
}

func NewAuthService(repos repository.Storage) *AuthService {
	return &AuthService{
		repos: repos,
	}
}

func (s *AuthService) SaveToken(ctx context.Context, token string) error {
	return s.repos.Set(ctx, models.KeyToken, token)
}

func (s *AuthService) Token(ctx context.Context) (string, bool, error) {
	return s.repos.Get(ctx, models.KeyToken)
}
