// Package service holds the business logic of the task API: session
// authentication, user accounts and the owner-scoped task operations.
package service

import (
	"context"
	"fmt"
	"time"

	"github.com/Rajangupta9/taskmanager/errors"
	"github.com/Rajangupta9/taskmanager/models"
	"github.com/Rajangupta9/taskmanager/store"
	"github.com/Rajangupta9/taskmanager/utils"
)

// withTimeout bounds a single store round trip.
func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}

// SessionAuthenticator turns a session credential into the live user record.
// It keeps no state between calls: the user is re-read on every request.
type SessionAuthenticator struct {
	users   store.UserStore
	tokens  *utils.TokenManager
	timeout time.Duration
}

func NewSessionAuthenticator(users store.UserStore, tokens *utils.TokenManager, timeout time.Duration) *SessionAuthenticator {
	return &SessionAuthenticator{users: users, tokens: tokens, timeout: timeout}
}

// Authenticate verifies credential and resolves its user. Absent, invalid or
// expired credentials, deleted users and tokens whose username now belongs to
// a different account fail with errors.ErrUnauthorized.
func (a *SessionAuthenticator) Authenticate(ctx context.Context, credential string) (*models.User, error) {
	if credential == "" {
		return nil, errors.ErrUnauthorized
	}

	claims, err := a.tokens.ValidateJwt(credential)
	if err != nil {
		return nil, errors.Join(errors.ErrUnauthorized, err)
	}

	ctx, cancel := withTimeout(ctx, a.timeout)
	defer cancel()

	user, err := a.users.FindUserByUsername(ctx, claims.Username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, errors.ErrUnauthorized
		}
		return nil, fmt.Errorf("resolve session user: %w", err)
	}
	// A username freed by a rename can be taken by another account.
	if user.Email != claims.Email {
		return nil, errors.ErrUnauthorized
	}
	return user, nil
}

// Issue signs a new credential for u.
func (a *SessionAuthenticator) Issue(u *models.User) (string, error) {
	token, err := a.tokens.GenerateJwt(u.Username, u.Email)
	if err != nil {
		return "", fmt.Errorf("sign session token: %w", err)
	}
	return token, nil
}

// TTL is the lifetime of issued credentials.
func (a *SessionAuthenticator) TTL() time.Duration { return a.tokens.TTL() }
