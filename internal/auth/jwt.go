package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/NaveedSindha/health-wellness-tracker/internal"
	"github.com/golang-jwt/jwt/v5"
)

// Claims identify the user by the standard subject claim.
type Claims struct {
	Name string `json:"name,omitempty"`
	jwt.RegisteredClaims
}

// JWTAuthProvider accepts HS256 tokens signed with a shared secret.
type JWTAuthProvider struct {
	secret []byte
	logger internal.Logger
}

func NewJWTAuthProvider(secret string, logger internal.Logger) *JWTAuthProvider {
	return &JWTAuthProvider{secret: []byte(secret), logger: logger}
}

func (a *JWTAuthProvider) ValidateToken(ctx context.Context, token string) (*internal.User, error) {
	var claims Claims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return a.secret, nil
	})
	if err != nil || !parsed.Valid {
		a.logger.Warnf("rejected jwt: %v", err)
		return nil, errInvalidToken
	}
	if claims.Subject == "" {
		return nil, errors.New("token has no subject")
	}
	return &internal.User{ID: claims.Subject, Name: claims.Name}, nil
}

// IssueToken signs a token for user that expires after ttl.
func (a *JWTAuthProvider) IssueToken(user internal.User, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		Name: user.Name,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secret)
}
