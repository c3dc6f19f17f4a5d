package session

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"

	"github.com/pumaprintables/portal/apperrors"
	"github.com/pumaprintables/portal/models"
)

// Identity is the outcome of decoding a usable bearer token. ExpiresAt is
// zero when the token carries no expiry claim.
type Identity struct {
	User      models.AuthUser
	ExpiresAt time.Time
}

// DecodeToken extracts the display identity from a bearer token. The
// signature is not verified here: the platform is the authority for
// authorization and rejects bad tokens on every call; the portal only needs
// the claims for display and expiry scheduling.
//
// A token lacking a subject or role, or whose expiry is already past, is
// invalid.
func DecodeToken(token string) (Identity, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return Identity{}, apperrors.ErrInvalidToken.WithMessage(fmt.Sprintf("Invalid authentication token: %v", err))
	}

	sub, _ := claims["sub"].(string)
	role, _ := claims["role"].(string)
	if sub == "" || role == "" {
		return Identity{}, apperrors.ErrInvalidToken
	}

	var expiresAt time.Time
	if exp, ok := claims["exp"].(float64); ok {
		expiresAt = time.UnixMilli(int64(exp * 1000))
		if !expiresAt.After(time.Now()) {
			return Identity{}, apperrors.ErrInvalidToken
		}
	}

	user := models.AuthUser{
		Username: sub,
		Role:     models.UserRole(role),
	}
	if name, ok := claims["name"].(string); ok {
		user.DisplayName = name
	}
	if avatar, ok := claims["avatar"].(string); ok {
		user.AvatarURL = avatar
	}
	if provider, ok := claims["provider"].(string); ok && (provider == "LOCAL" || provider == "GOOGLE") {
		user.Provider = provider
	}

	return Identity{User: user, ExpiresAt: expiresAt}, nil
}
