package clients

import (
	"context"
	"net/http"

	"github.com/pumaprintables/portal/models"
)

// GetProducts lists the catalog.
func (p *Platform) GetProducts(ctx context.Context, token string) ([]models.Product, error) {
	var out []models.Product
	err := p.do(ctx, http.MethodGet, "/api/v1/products", nil, token, nil, &out)
	return out, err
}

// GetProduct fetches a single product.
func (p *Platform) GetProduct(ctx context.Context, token, productID string) (models.Product, error) {
	var out models.Product
	err := p.do(ctx, http.MethodGet, "/api/v1/products/"+productID, nil, token, nil, &out)
	return out, err
}

// CreateProduct adds a catalog entry.
func (p *Platform) CreateProduct(ctx context.Context, token string, req models.ProductRequest) (models.Product, error) {
	var out models.Product
	err := p.do(ctx, http.MethodPost, "/api/v1/products", nil, token, req, &out)
	return out, err
}

// UpdateProduct replaces a catalog entry.
func (p *Platform) UpdateProduct(ctx context.Context, token, productID string, req models.ProductRequest) (models.Product, error) {
	var out models.Product
	err := p.do(ctx, http.MethodPut, "/api/v1/products/"+productID, nil, token, req, &out)
	return out, err
}

// DeactivateProduct soft-deletes a catalog entry.
func (p *Platform) DeactivateProduct(ctx context.Context, token, productID string) (models.Product, error) {
	var out models.Product
	err := p.do(ctx, http.MethodDelete, "/api/v1/products/"+productID, nil, token, nil, &out)
	return out, err
}
