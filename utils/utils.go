package utils

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/pizzashack/service/middlewares"
	"github.com/pizzashack/service/models"
)

// GenerateToken signs the user's identity and roles into a bearer credential.
// The jti claim makes every issued token unique, so two concurrent logins for
// the same user carry distinct signatures and each session row can be revoked
// on its own.
func GenerateToken(user models.User, secret []byte) (string, error) {
	now := time.Now()

	claims := &middlewares.Claims{
		UserID: user.ID,
		Name:   user.Name,
		Email:  user.Email,
		Roles:  user.Roles,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:       uuid.NewString(),
			IssuedAt: jwt.NewNumericDate(now),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}
