// Package auth holds the signed-in user's bearer token for the session.
//
// The token is issued by the image service after login. The client cannot
// verify its signature, so claims read here only drive what the UI offers;
// the service enforces authorization on every delete.
package auth

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/golang-jwt/jwt/v5"
)

// ErrMalformedToken is returned when a token is not a decodable JWT
var ErrMalformedToken = errors.New("malformed token")

// User is the identity carried in the session token
type User struct {
	ID       string
	Username string
	Email    string
	IsAdmin  bool
}

// claims mirrors the user fields the service puts in its tokens
type claims struct {
	jwt.RegisteredClaims
	UserID   any    `json:"user_id,omitempty"`
	Username string `json:"username,omitempty"`
	Email    string `json:"email,omitempty"`
	IsAdmin  bool   `json:"is_admin,omitempty"`
}

// Session is an in-memory credential store. It is safe for concurrent use.
type Session struct {
	mu    sync.RWMutex
	token string
	user  *User
}

// NewSession returns a signed-out session
func NewSession() *Session {
	return &Session{}
}

// SignIn stores token and decodes the user it identifies.
// Opaque (non-JWT) tokens are accepted but carry no user or admin claim.
func (s *Session) SignIn(token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return fmt.Errorf("%w: empty", ErrMalformedToken)
	}

	user, err := ParseUser(token)
	if err != nil && !errors.Is(err, ErrMalformedToken) {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	s.user = user
	return nil
}

// Logout forgets the token
func (s *Session) Logout() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	s.user = nil
}

// CurrentToken returns the bearer token, or "" when signed out
func (s *Session) CurrentToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// CurrentUserIsAdmin reports the admin claim of the current token
func (s *Session) CurrentUserIsAdmin() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user != nil && s.user.IsAdmin
}

// CurrentUser returns the signed-in user, if the token identified one
func (s *Session) CurrentUser() (User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return User{}, false
	}
	return *s.user, true
}

// DisplayName is the navbar greeting target: username, then email, then subject
func (s *Session) DisplayName() string {
	u, ok := s.CurrentUser()
	if !ok {
		return ""
	}
	switch {
	case u.Username != "":
		return u.Username
	case u.Email != "":
		return u.Email
	default:
		return u.ID
	}
}

// ParseUser decodes the user claims of token without verifying its signature
func ParseUser(token string) (*User, error) {
	c := &claims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, c); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedToken, err)
	}

	u := &User{
		Username: c.Username,
		Email:    c.Email,
		IsAdmin:  c.IsAdmin,
		ID:       c.Subject,
	}
	switch id := c.UserID.(type) {
	case string:
		u.ID = id
	case float64:
		u.ID = fmt.Sprintf("%.0f", id)
	}
	return u, nil
}
