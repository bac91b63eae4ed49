package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/waveshop/waves-backend/internal/models"
	"github.com/waveshop/waves-backend/internal/storage"
)

// SessionManager issues, validates, and revokes session tokens against the
// user store. A token is live only while it equals the user's stored current
// token, so each login supersedes the previous session and logout ends it.
type SessionManager struct {
	tokens *TokenManager
	store  storage.UserStore
}

// NewSessionManager constructs a manager over the given token manager and store.
func NewSessionManager(tokens *TokenManager, store storage.UserStore) *SessionManager {
	return &SessionManager{tokens: tokens, store: store}
}

// Issue generates a token for the user and persists it as the current one.
// The token is returned only after the write succeeds; a token the store
// never recorded would decode but fail the stored-token check.
func (s *SessionManager) Issue(ctx context.Context, user models.User) (string, error) {
	token, err := s.tokens.Generate(user.ID)
	if err != nil {
		return "", fmt.Errorf("issue token: %w", err)
	}
	if err := s.store.UpdateToken(ctx, user.ID, token); err != nil {
		return "", fmt.Errorf("persist token: %w", err)
	}
	return token, nil
}

// Authenticate resolves a presented token to its user. The signature must
// verify and the stored current token must equal the presented value: logout
// clears the stored value, which invalidates tokens that still decode.
// All rejection reasons collapse into ErrInvalidToken.
func (s *SessionManager) Authenticate(ctx context.Context, token string) (models.User, error) {
	userID, err := s.tokens.Parse(token)
	if err != nil {
		return models.User{}, ErrInvalidToken
	}
	user, err := s.store.FindByIDAndToken(ctx, userID, token)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return models.User{}, ErrInvalidToken
		}
		return models.User{}, fmt.Errorf("authenticate: %w", err)
	}
	return user, nil
}

// Revoke clears the user's stored current token, ending the session.
func (s *SessionManager) Revoke(ctx context.Context, userID string) error {
	if err := s.store.UpdateToken(ctx, userID, ""); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	return nil
}
