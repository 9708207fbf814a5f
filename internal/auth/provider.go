package auth

import (
	"context"
	"fmt"

	"github.com/NaveedSindha/health-wellness-tracker/internal"
	"github.com/NaveedSindha/health-wellness-tracker/internal/config"
)

// Provider resolves a bearer token to the authenticated user.
type Provider interface {
	ValidateToken(ctx context.Context, token string) (*internal.User, error)
}

// NewProvider builds the provider selected by cfg.AuthMode.
func NewProvider(cfg *config.Config, logger internal.Logger) (Provider, error) {
	switch cfg.AuthMode {
	case "token":
		users, err := LoadUsers(cfg.FileUsers)
		if err != nil {
			return nil, err
		}
		return NewLocalAuthProvider(users, logger), nil
	case "jwt":
		return NewJWTAuthProvider(cfg.JWTSecret, logger), nil
	case "remote":
		return NewRemoteAuthProvider(cfg.AuthServiceURL, logger), nil
	default:
		return nil, fmt.Errorf("auth: unknown mode %q", cfg.AuthMode)
	}
}
