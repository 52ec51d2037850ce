package dbhelper

import (
	"context"
	"strings"
)

// TokenSignature returns the trailing segment of a signed credential. A token
// with fewer than three dot-separated segments yields "", which never matches
// a stored row.
func TokenSignature(token string) string {
	parts := strings.Split(token, ".")
	if len(parts) < 3 {
		return ""
	}
	return parts[len(parts)-1]
}

// LoginUser records a live session for the token. Each login inserts its own
// row; a user may hold any number of concurrent sessions.
func (s *Store) LoginUser(ctx context.Context, userID int64, token string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO auth_tokens (signature, user_id) VALUES ($1, $2)`,
		TokenSignature(token), userID)
	return err
}

// IsLoggedIn reports whether the token's signature is present in the session
// table. A malformed token is simply not logged in, never an error.
func (s *Store) IsLoggedIn(ctx context.Context, token string) (bool, error) {
	sig := TokenSignature(token)
	if sig == "" {
		return false, nil
	}
	var exists bool
	err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM auth_tokens WHERE signature = $1)`, sig).Scan(&exists)
	if err != nil {
		return false, err
	}
	return exists, nil
}

// LogoutUser revokes the token's session. The credential itself stays
// cryptographically valid; it is just no longer honored. Logging out a token
// with no session is a no-op.
func (s *Store) LogoutUser(ctx context.Context, token string) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM auth_tokens WHERE signature = $1`, TokenSignature(token))
	return err
}
