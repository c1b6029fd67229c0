package auth

import (
	"sync"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signed(t *testing.T, c jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString([]byte("server-side-secret"))
	require.NoError(t, err)
	return token
}

func TestSignInReadsClaims(t *testing.T) {
	tests := []struct {
		name      string
		claims    jwt.MapClaims
		wantAdmin bool
		wantName  string
		wantID    string
	}{
		{
			name:      "admin",
			claims:    jwt.MapClaims{"user_id": 7, "username": "ada", "is_admin": true},
			wantAdmin: true,
			wantName:  "ada",
			wantID:    "7",
		},
		{
			name:     "regular user",
			claims:   jwt.MapClaims{"sub": "u-42", "email": "bob@example.com"},
			wantName: "bob@example.com",
			wantID:   "u-42",
		},
		{
			name:     "explicit non admin",
			claims:   jwt.MapClaims{"username": "eve", "is_admin": false},
			wantName: "eve",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewSession()
			token := signed(t, tt.claims)
			require.NoError(t, s.SignIn(token))

			assert.Equal(t, token, s.CurrentToken())
			assert.Equal(t, tt.wantAdmin, s.CurrentUserIsAdmin())
			assert.Equal(t, tt.wantName, s.DisplayName())

			u, ok := s.CurrentUser()
			require.True(t, ok)
			assert.Equal(t, tt.wantID, u.ID)
		})
	}
}

func TestSignInOpaqueToken(t *testing.T) {
	s := NewSession()
	require.NoError(t, s.SignIn("  not-a-jwt\n"))

	assert.Equal(t, "not-a-jwt", s.CurrentToken())
	assert.False(t, s.CurrentUserIsAdmin())
	assert.Equal(t, "", s.DisplayName())
	_, ok := s.CurrentUser()
	assert.False(t, ok)
}

func TestSignInEmpty(t *testing.T) {
	s := NewSession()
	assert.ErrorIs(t, s.SignIn("   "), ErrMalformedToken)
	assert.Equal(t, "", s.CurrentToken())
}

func TestLogout(t *testing.T) {
	s := NewSession()
	require.NoError(t, s.SignIn(signed(t, jwt.MapClaims{"is_admin": true})))
	require.True(t, s.CurrentUserIsAdmin())

	s.Logout()
	assert.Equal(t, "", s.CurrentToken())
	assert.False(t, s.CurrentUserIsAdmin())
}

func TestSessionConcurrentAccess(t *testing.T) {
	s := NewSession()
	token := signed(t, jwt.MapClaims{"is_admin": true})

	var wg sync.WaitGroup
	for i := range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if i%2 == 0 {
				_ = s.SignIn(token)
			} else {
				s.Logout()
			}
			_ = s.CurrentToken()
			_ = s.CurrentUserIsAdmin()
		}()
	}
	wg.Wait()
}
