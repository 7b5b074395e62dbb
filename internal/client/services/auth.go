// Package services contains application services for the useradmin client.
// This file defines the session manager: restore-on-start, login and logout
// around a persisted token.
package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/useradmin/internal/client/client"
	"github.com/dmitrijs2005/useradmin/internal/client/models"
	"github.com/dmitrijs2005/useradmin/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/useradmin/internal/common"
	"github.com/dmitrijs2005/useradmin/internal/logging"
)

// AuthService owns the session and the credential lifecycle.
//
// Contract:
//   - Restore: trust a previously stored token without a network call.
//   - Login: authenticate remotely, persist the token, become authenticated.
//   - Logout: drop the stored token and become unauthenticated.
//   - Session / IsAuthenticated: read the current state.
//   - Close: release underlying client resources.
//
// Login has no guard against concurrent duplicate submissions; callers
// submit one login at a time.
type AuthService interface {
	Restore(ctx context.Context) error
	Login(ctx context.Context, creds models.Credentials) error
	Logout(ctx context.Context) error
	Session() models.Session
	IsAuthenticated() bool
	Close(ctx context.Context) error
}

type authService struct {
	client client.Client
	store  metadata.Repository
	notify Notifier
	log    logging.Logger

	mu      sync.RWMutex
	session models.Session
}

// NewAuthService constructs an AuthService bound to the given API client and token store.
func NewAuthService(c client.Client, store metadata.Repository, notify Notifier, log logging.Logger) AuthService {
	if log == nil {
		log = logging.Nop()
	}
	return &authService{
		client: c,
		store:  store,
		notify: orNop(notify),
		log:    log.With("component", "session"),
	}
}

func (a *authService) Restore(ctx context.Context) error {
	token, err := a.store.Get(ctx, common.TokenStorageKey)
	if err != nil {
		return fmt.Errorf("restore session: %w", err)
	}
	if token == "" {
		return nil
	}

	a.set(models.Session{Token: token, Authenticated: true})
	a.log.Debug(ctx, "session restored")
	return nil
}

func (a *authService) Login(ctx context.Context, creds models.Credentials) error {
	token, err := a.client.Login(ctx, creds)
	if err != nil {
		a.log.Warn(ctx, "login failed", "email", creds.Email, "err", err)
		a.notify.Error(failureMessage(err, client.MsgLoginFailed))
		return err
	}

	if err := a.store.Set(ctx, common.TokenStorageKey, token); err != nil {
		a.log.Error(ctx, "persist token", "err", err)
		a.notify.Error(client.MsgLoginFailed)
		return fmt.Errorf("persist token: %w", err)
	}

	a.set(models.Session{Token: token, Authenticated: true})
	a.log.Info(ctx, "logged in", "email", creds.Email)
	a.notify.Success(MsgLoginSucceeded)
	return nil
}

func (a *authService) Logout(ctx context.Context) error {
	err := a.store.Delete(ctx, common.TokenStorageKey)
	a.set(models.Session{})
	if err != nil {
		a.log.Error(ctx, "clear stored token", "err", err)
		return fmt.Errorf("clear token: %w", err)
	}
	a.notify.Info(MsgLoggedOut)
	return nil
}

func (a *authService) Session() models.Session {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.session
}

func (a *authService) IsAuthenticated() bool {
	return a.Session().Authenticated
}

func (a *authService) Close(ctx context.Context) error {
	return a.client.Close()
}

// set replaces the session and keeps the API client's token in step.
func (a *authService) set(s models.Session) {
	a.mu.Lock()
	a.session = s
	a.mu.Unlock()
	a.client.SetToken(s.Token)
}
