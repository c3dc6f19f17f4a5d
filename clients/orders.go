package clients

import (
	"context"
	"net/http"
	"net/url"

	"github.com/pumaprintables/portal/models"
)

// GetOrders lists orders visible to the token's user, optionally filtered by
// status.
func (p *Platform) GetOrders(ctx context.Context, token, status string) ([]models.Order, error) {
	var query url.Values
	if status != "" {
		query = url.Values{"status": {status}}
	}
	var out []models.Order
	err := p.do(ctx, http.MethodGet, "/api/v1/orders", query, token, nil, &out)
	return out, err
}

// GetOrder fetches a single order.
func (p *Platform) GetOrder(ctx context.Context, token, orderID string) (models.Order, error) {
	var out models.Order
	err := p.do(ctx, http.MethodGet, "/api/v1/orders/"+orderID, nil, token, nil, &out)
	return out, err
}

// CreateOrder places a new order.
func (p *Platform) CreateOrder(ctx context.Context, token string, req models.CreateOrderRequest) (models.Order, error) {
	var out models.Order
	err := p.do(ctx, http.MethodPost, "/api/v1/orders", nil, token, req, &out)
	return out, err
}

// ApproveOrder approves a pending order with reviewer comments.
func (p *Platform) ApproveOrder(ctx context.Context, token, orderID string, req models.ApprovalActionRequest) (models.Order, error) {
	var out models.Order
	err := p.do(ctx, http.MethodPost, "/api/v1/orders/"+orderID+"/approve", nil, token, req, &out)
	return out, err
}

// RejectOrder rejects a pending order with reviewer comments.
func (p *Platform) RejectOrder(ctx context.Context, token, orderID string, req models.ApprovalActionRequest) (models.Order, error) {
	var out models.Order
	err := p.do(ctx, http.MethodPost, "/api/v1/orders/"+orderID+"/reject", nil, token, req, &out)
	return out, err
}

// AcceptOrder marks an approved order as accepted by fulfillment.
func (p *Platform) AcceptOrder(ctx context.Context, token, orderID string, req models.AcceptOrderRequest) (models.Order, error) {
	var out models.Order
	err := p.do(ctx, http.MethodPost, "/api/v1/orders/"+orderID+"/accept", nil, token, req, &out)
	return out, err
}

// AddCourierInfo attaches dispatch metadata to an order.
func (p *Platform) AddCourierInfo(ctx context.Context, token, orderID string, req models.CourierInfoRequest) (models.Order, error) {
	var out models.Order
	err := p.do(ctx, http.MethodPost, "/api/v1/orders/"+orderID+"/courier", nil, token, req, &out)
	return out, err
}
