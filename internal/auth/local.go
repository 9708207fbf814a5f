package auth

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"

	"github.com/NaveedSindha/health-wellness-tracker/internal"
)

var errInvalidToken = errors.New("invalid token")

// DemoUser is written to a fresh users file so a new install can log in.
var DemoUser = internal.User{ID: "u1", Token: "MOCK-TOKEN", Name: "Demo User"}

// LocalAuthProvider matches static tokens from the users file.
type LocalAuthProvider struct {
	users  map[string]internal.User
	logger internal.Logger
}

func NewLocalAuthProvider(users []internal.User, logger internal.Logger) *LocalAuthProvider {
	byToken := make(map[string]internal.User, len(users))
	for _, u := range users {
		byToken[u.Token] = u
	}
	return &LocalAuthProvider{users: byToken, logger: logger}
}

func (a *LocalAuthProvider) ValidateToken(ctx context.Context, token string) (*internal.User, error) {
	u, ok := a.users[token]
	if !ok || token == "" {
		a.logger.Warnf("invalid token presented")
		return nil, errInvalidToken
	}
	return &u, nil
}

// LoadUsers reads the users file, creating it with DemoUser if missing.
func LoadUsers(path string) ([]internal.User, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		users := []internal.User{DemoUser}
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, err
		}
		raw, _ := json.MarshalIndent(users, "", "  ")
		if err := os.WriteFile(path, raw, 0644); err != nil {
			return nil, err
		}
		return users, nil
	}
	if err != nil {
		return nil, err
	}

	var users []internal.User
	if err := json.Unmarshal(data, &users); err != nil {
		return nil, err
	}
	return users, nil
}
