// Package services contains application services for the task tracker CLI:
// authentication and session restore, and task management including file
// attachments.
package services

import (
	"context"

	"github.com/dmitrijs2005/gophtasks/internal/client/api"
	"github.com/dmitrijs2005/gophtasks/internal/client/models"
)

// tokenStore persists the bearer token between runs. session.Store satisfies
// it; tests can provide an in-memory stub.
type tokenStore interface {
	Load() (string, error)
	Save(token string) error
	Clear() error
}

// authAPI is the slice of the API client the auth service needs.
type authAPI interface {
	SetToken(token string)
	Ping(ctx context.Context) error
	Register(ctx context.Context, name, email, password string) (*models.User, string, error)
	Login(ctx context.Context, email, password string) (*models.User, string, error)
	GetProfile(ctx context.Context) (*models.User, error)
	UpdateProfile(ctx context.Context, name, email string) (*models.User, error)
}

// AuthService defines authentication operations for the CLI.
//
// Contract:
//   - Register: create a new account; the returned session is active.
//   - Login: authenticate; the returned session is active.
//   - Restore: resume a cached session from the token store, if any.
//   - Profile / UpdateProfile: read and change the current user's profile.
//   - Logout: drop the session locally.
//   - Ping: check server liveness.
//
// All methods must honor context cancellation/timeouts.
type AuthService interface {
	Register(ctx context.Context, name, email, password string) (*models.User, error)
	Login(ctx context.Context, email, password string) (*models.User, error)
	Restore(ctx context.Context) (*models.User, error)
	Profile(ctx context.Context) (*models.User, error)
	UpdateProfile(ctx context.Context, name, email string) (*models.User, error)
	Logout(ctx context.Context) error
	Ping(ctx context.Context) error
}

type authService struct {
	client authAPI
	store  tokenStore
}

// NewAuthService constructs an AuthService bound to the given API client and
// token store.
func NewAuthService(client authAPI, store tokenStore) AuthService {
	return &authService{client: client, store: store}
}

var _ authAPI = (*api.Client)(nil)

func (a *authService) Register(ctx context.Context, name, email, password string) (*models.User, error) {
	user, token, err := a.client.Register(ctx, name, email, password)
	if err != nil {
		return nil, err
	}

	a.client.SetToken(token)
	if err := a.store.Save(token); err != nil {
		return nil, err
	}
	return user, nil
}

func (a *authService) Login(ctx context.Context, email, password string) (*models.User, error) {
	user, token, err := a.client.Login(ctx, email, password)
	if err != nil {
		return nil, err
	}

	a.client.SetToken(token)
	if err := a.store.Save(token); err != nil {
		return nil, err
	}
	return user, nil
}

// Restore resumes a cached session. It returns (nil, nil) when no token is
// cached. A cached token that the server rejects is dropped and reported as
// the server's error.
func (a *authService) Restore(ctx context.Context) (*models.User, error) {
	token, err := a.store.Load()
	if err != nil {
		return nil, err
	}
	if token == "" {
		return nil, nil
	}

	a.client.SetToken(token)

	user, err := a.client.GetProfile(ctx)
	if err != nil {
		a.client.SetToken("")
		_ = a.store.Clear()
		return nil, err
	}
	return user, nil
}

func (a *authService) Profile(ctx context.Context) (*models.User, error) {
	return a.client.GetProfile(ctx)
}

func (a *authService) UpdateProfile(ctx context.Context, name, email string) (*models.User, error) {
	return a.client.UpdateProfile(ctx, name, email)
}

// Logout drops the session locally. The server keeps no session state, so
// nothing is sent over the wire.
func (a *authService) Logout(ctx context.Context) error {
	a.client.SetToken("")
	return a.store.Clear()
}

func (a *authService) Ping(ctx context.Context) error {
	return a.client.Ping(ctx)
}
