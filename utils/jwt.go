package utils

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"

	"github.com/cppla/gossip/models"
)

// ErrTokenDecode is returned for tokens whose claims cannot be read.
var ErrTokenDecode = errors.New("token decode failed")

// Claims mirrors the claims the forum API signs into its tokens.
type Claims struct {
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// DecodeToken reads identity and expiry from a token without verifying its
// signature; only the forum API holds the key. Tokens without an exp claim are
// rejected.
func DecodeToken(tokenStr string) (models.Identity, error) {
	claims := &Claims{}
	if _, _, err := jwt.NewParser().ParseUnverified(tokenStr, claims); err != nil {
		return models.Identity{}, fmt.Errorf("%w: %v", ErrTokenDecode, err)
	}
	if claims.ExpiresAt == nil {
		return models.Identity{}, fmt.Errorf("%w: missing exp claim", ErrTokenDecode)
	}
	return models.Identity{
		UserID:    claims.UserID,
		Username:  claims.Username,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}
