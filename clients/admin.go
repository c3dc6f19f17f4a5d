package clients

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/pumaprintables/portal/models"
)

// GetManagedUsers lists the user directory.
func (p *Platform) GetManagedUsers(ctx context.Context, token string) ([]models.ManagedUser, error) {
	var out []models.ManagedUser
	err := p.do(ctx, http.MethodGet, "/api/v1/admin/users", nil, token, nil, &out)
	return out, err
}

// UpdateUserRole changes a user's role and returns the updated entry.
func (p *Platform) UpdateUserRole(ctx context.Context, token, userID string, req models.UpdateUserRoleRequest) (models.ManagedUser, error) {
	var out models.ManagedUser
	err := p.do(ctx, http.MethodPatch, "/api/v1/admin/users/"+userID+"/role", nil, token, req, &out)
	return out, err
}

// GetUserMetrics fetches signup/activity metrics for the lookback window.
func (p *Platform) GetUserMetrics(ctx context.Context, token string, days int) (models.UserMetrics, error) {
	query := url.Values{"days": {strconv.Itoa(days)}}
	var out models.UserMetrics
	err := p.do(ctx, http.MethodGet, "/api/v1/admin/users/metrics", query, token, nil, &out)
	return out, err
}

// DownloadOnboardingReport streams the onboarding spreadsheet export. The
// caller owns the response body.
func (p *Platform) DownloadOnboardingReport(ctx context.Context, token string, days int) (*http.Response, error) {
	query := url.Values{"days": {strconv.Itoa(days)}}
	return p.download(ctx, "/api/v1/admin/users/onboarding/export", query, token)
}
