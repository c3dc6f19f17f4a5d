package clients

import (
	"context"
	"net/http"

	"github.com/pumaprintables/portal/models"
)

// LoginRequest is the username/password credential payload.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// GoogleLoginRequest carries the Google-issued ID credential.
type GoogleLoginRequest struct {
	Credential string `json:"credential"`
}

// AuthResponse is the platform's issued bearer token.
type AuthResponse struct {
	Token string `json:"token"`
}

// Login exchanges credentials for a bearer token.
func (p *Platform) Login(ctx context.Context, req LoginRequest) (AuthResponse, error) {
	var out AuthResponse
	err := p.do(ctx, http.MethodPost, "/api/v1/auth/login", nil, "", req, &out)
	return out, err
}

// LoginGoogle exchanges a Google credential for a bearer token.
func (p *Platform) LoginGoogle(ctx context.Context, req GoogleLoginRequest) (AuthResponse, error) {
	var out AuthResponse
	err := p.do(ctx, http.MethodPost, "/api/v1/auth/login/google", nil, "", req, &out)
	return out, err
}

// Register creates a new platform account.
func (p *Platform) Register(ctx context.Context, req models.RegisterRequest) (models.UserAccount, error) {
	var out models.UserAccount
	err := p.do(ctx, http.MethodPost, "/api/v1/auth/register", nil, "", req, &out)
	return out, err
}

// GetSession fetches the authoritative profile for the token's user.
func (p *Platform) GetSession(ctx context.Context, token string) (models.CurrentUser, error) {
	var out models.CurrentUser
	err := p.do(ctx, http.MethodGet, "/api/v1/auth/session", nil, token, nil, &out)
	return out, err
}
