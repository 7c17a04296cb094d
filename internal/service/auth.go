package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/vervelak/lastwar-alliance-manager/internal/backend"
	"github.com/vervelak/lastwar-alliance-manager/internal/logger"
	"github.com/vervelak/lastwar-alliance-manager/internal/model"

	"github.com/golang-jwt/jwt/v5"
)

var ErrUnauthenticated = errors.New("not authenticated")

type AuthService struct {
	api Backend
	now func() time.Time
}

func NewAuthService(api Backend) *AuthService {
	return &AuthService{api: api, now: time.Now}
}

// Check asks the backend whether the operator is signed in. Any failure,
// including an unreachable backend, is reported as ErrUnauthenticated.
func (s *AuthService) Check(ctx context.Context, cred backend.Credentials) (*model.AuthStatus, error) {
	if bearerExpired(cred.Authorization, s.now()) {
		return nil, fmt.Errorf("%w: bearer token expired", ErrUnauthenticated)
	}
	st, err := s.api.CheckAuth(ctx, cred)
	if err != nil {
		if !backend.IsStatus(err, http.StatusUnauthorized) {
			logger.Warn("auth.check.failed", "err", err)
		}
		return nil, fmt.Errorf("%w: %v", ErrUnauthenticated, err)
	}
	if !st.Authenticated {
		return nil, ErrUnauthenticated
	}
	return st, nil
}

func (s *AuthService) Logout(ctx context.Context, cred backend.Credentials) error {
	if err := s.api.Logout(ctx, cred); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	return nil
}

// bearerExpired reports a bearer JWT whose exp lies in the past. The
// signature is not checked here; the backend stays the authority.
func bearerExpired(authz string, now time.Time) bool {
	if !strings.HasPrefix(authz, "Bearer ") {
		return false
	}
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(authz[7:], claims); err != nil {
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return exp.Before(now)
}
