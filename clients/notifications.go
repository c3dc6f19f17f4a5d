package clients

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/pumaprintables/portal/models"
)

// GetNotifications lists the most recent notification log entries.
func (p *Platform) GetNotifications(ctx context.Context, token string, limit int) ([]models.Notification, error) {
	query := url.Values{"limit": {strconv.Itoa(limit)}}
	var out []models.Notification
	err := p.do(ctx, http.MethodGet, "/api/v1/notifications", query, token, nil, &out)
	return out, err
}
