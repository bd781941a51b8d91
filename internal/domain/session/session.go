// Package session owns the signed-in state of a visitor: the token,
// username and balance returned by the backend at login.
package session

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/BeingRelentless/QKart-Shopping/internal/infrastructure/kv"
	"github.com/BeingRelentless/QKart-Shopping/internal/pkg/auth"
)

// Persistence keys. They are always cleared together.
const (
	KeyToken    = "token"
	KeyUsername = "username"
	KeyBalance  = "balance"
)

var (
	// ErrNoSession means the visitor is not signed in
	ErrNoSession = errors.New("no active session")
	// ErrSessionExpired means the stored token has expired; the session was cleared
	ErrSessionExpired = errors.New("session expired")
)

// Session is a signed-in visitor
type Session struct {
	Token     string     `json:"-"`
	Username  string     `json:"username"`
	Balance   float64    `json:"balance"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}

// Expired reports whether the token's expiry has passed
func (s *Session) Expired(now time.Time) bool {
	return s.ExpiresAt != nil && !now.Before(*s.ExpiresAt)
}

// Manager creates, reads and clears sessions in a visitor's store. It is
// the only writer of the session keys.
type Manager struct {
	inspector *auth.TokenInspector
	now       func() time.Time
}

// NewManager creates a new session Manager
func NewManager(inspector *auth.TokenInspector) *Manager {
	return &Manager{
		inspector: inspector,
		now:       time.Now,
	}
}

// Create stores a new session. The token is written last so a partially
// written session reads as signed out.
func (m *Manager) Create(ctx context.Context, store kv.Store, token, username string, balance float64) (*Session, error) {
	if token == "" {
		return nil, fmt.Errorf("cannot create session without a token")
	}

	if err := store.Set(ctx, KeyUsername, username); err != nil {
		return nil, fmt.Errorf("failed to store username: %w", err)
	}
	if err := store.Set(ctx, KeyBalance, strconv.FormatFloat(balance, 'f', -1, 64)); err != nil {
		return nil, fmt.Errorf("failed to store balance: %w", err)
	}
	if err := store.Set(ctx, KeyToken, token); err != nil {
		return nil, fmt.Errorf("failed to store token: %w", err)
	}

	return m.build(token, username, balance), nil
}

// Current returns the visitor's session, ErrNoSession, or
// ErrSessionExpired after clearing an expired one.
func (m *Manager) Current(ctx context.Context, store kv.Store) (*Session, error) {
	token, found, err := store.Get(ctx, KeyToken)
	if err != nil {
		return nil, fmt.Errorf("failed to read session: %w", err)
	}
	if !found || token == "" {
		return nil, ErrNoSession
	}

	username, _, err := store.Get(ctx, KeyUsername)
	if err != nil {
		return nil, fmt.Errorf("failed to read session: %w", err)
	}
	rawBalance, _, err := store.Get(ctx, KeyBalance)
	if err != nil {
		return nil, fmt.Errorf("failed to read session: %w", err)
	}
	balance, _ := strconv.ParseFloat(rawBalance, 64)

	sess := m.build(token, username, balance)
	if sess.Expired(m.now()) {
		if err := m.Clear(ctx, store); err != nil {
			return nil, err
		}
		return nil, ErrSessionExpired
	}
	return sess, nil
}

// Clear removes token, username and balance in one delete
func (m *Manager) Clear(ctx context.Context, store kv.Store) error {
	if err := store.Del(ctx, KeyToken, KeyUsername, KeyBalance); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}

func (m *Manager) build(token, username string, balance float64) *Session {
	sess := &Session{Token: token, Username: username, Balance: balance}
	if info, err := m.inspector.Inspect(token); err == nil {
		sess.ExpiresAt = info.ExpiresAt
	}
	return sess
}
