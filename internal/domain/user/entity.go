// internal/domain/user/entity.go
package user

import (
	"github.com/BeingRelentless/QKart-Shopping/internal/domain/cart"
	"github.com/BeingRelentless/QKart-Shopping/internal/domain/session"
)

// LoginRequest represents user login data
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// RegisterRequest represents user registration data
type RegisterRequest struct {
	Username        string `json:"username"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

// LoginResult is a completed login. SyncErr is set when the guest cart
// could not be fully merged; the login itself still succeeded.
type LoginResult struct {
	Session *session.Session
	Sync    cart.SyncResult
	SyncErr error
}

// Profile is what a signed-in visitor sees about themselves
type Profile struct {
	Username string  `json:"username"`
	Balance  float64 `json:"balance"`
}

// ProfileOf builds the public profile of a session
func ProfileOf(sess *session.Session) Profile {
	return Profile{
		Username: sess.Username,
		Balance:  sess.Balance,
	}
}
