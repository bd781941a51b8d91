// internal/domain/user/service.go
package user

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/BeingRelentless/QKart-Shopping/internal/domain/cart"
	"github.com/BeingRelentless/QKart-Shopping/internal/domain/session"
	"github.com/BeingRelentless/QKart-Shopping/internal/infrastructure/backend"
	"github.com/BeingRelentless/QKart-Shopping/internal/infrastructure/kv"
	"github.com/BeingRelentless/QKart-Shopping/internal/pkg/metrics"
)

// Authenticator is the backend's account API
type Authenticator interface {
	Login(ctx context.Context, username, password string) (*backend.LoginResponse, error)
	Register(ctx context.Context, username, password string) error
}

// SyncRecorder records guest cart merge outcomes
type SyncRecorder interface {
	RecordSync(outcome string, applied int)
}

// Service handles user business logic
type Service struct {
	auth     Authenticator
	sessions *session.Manager
	sync     *cart.SyncCoordinator
	recorder SyncRecorder
	logger   *logrus.Logger
}

// NewService creates a new user service. recorder may be nil.
func NewService(auth Authenticator, sessions *session.Manager, sync *cart.SyncCoordinator, recorder SyncRecorder, logger *logrus.Logger) *Service {
	return &Service{
		auth:     auth,
		sessions: sessions,
		sync:     sync,
		recorder: recorder,
		logger:   logger,
	}
}

// Login authenticates with the backend, stores the session and merges the
// visitor's guest cart into the backend cart.
func (s *Service) Login(ctx context.Context, store kv.Store, req LoginRequest) (*LoginResult, error) {
	if err := ValidateLogin(req); err != nil {
		return nil, err
	}

	resp, err := s.auth.Login(ctx, req.Username, req.Password)
	if err != nil {
		return nil, err
	}

	sess, err := s.sessions.Create(ctx, store, resp.Token, resp.Username, resp.Balance)
	if err != nil {
		return nil, fmt.Errorf("failed to store session: %w", err)
	}

	result := &LoginResult{Session: sess}
	result.Sync, result.SyncErr = s.sync.SyncOnLogin(ctx, cart.NewGuestStore(store), sess.Token)
	s.recordSync(result)

	if result.SyncErr != nil {
		s.logger.WithError(result.SyncErr).WithField("username", sess.Username).Warn("Guest cart was not fully merged at login")
	}

	s.logger.WithFields(logrus.Fields{
		"username":     sess.Username,
		"synced_items": result.Sync.Applied,
	}).Info("User logged in")

	return result, nil
}

// Register creates a backend account. It does not sign the visitor in.
func (s *Service) Register(ctx context.Context, req RegisterRequest) error {
	if err := ValidateRegistration(req); err != nil {
		return err
	}

	username := strings.TrimSpace(req.Username)
	if err := s.auth.Register(ctx, username, req.Password); err != nil {
		return err
	}

	s.logger.WithField("username", username).Info("User registered")
	return nil
}

// Logout ends the visitor's session. The guest cart is left alone.
func (s *Service) Logout(ctx context.Context, store kv.Store) error {
	return s.sessions.Clear(ctx, store)
}

// Me returns the signed-in visitor's session
func (s *Service) Me(ctx context.Context, store kv.Store) (*session.Session, error) {
	return s.sessions.Current(ctx, store)
}

func (s *Service) recordSync(result *LoginResult) {
	if s.recorder == nil {
		return
	}

	outcome := metrics.SyncMerged
	switch {
	case result.SyncErr != nil && result.Sync.Applied > 0:
		outcome = metrics.SyncPartial
	case result.SyncErr != nil:
		outcome = metrics.SyncFailed
	case result.Sync.Total == 0:
		outcome = metrics.SyncEmpty
	}
	s.recorder.RecordSync(outcome, result.Sync.Applied)
}
