package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pumaprintables/portal/apperrors"
	"github.com/pumaprintables/portal/cart"
	"github.com/pumaprintables/portal/clients"
	"github.com/pumaprintables/portal/middleware"
	"github.com/pumaprintables/portal/models"
	"github.com/pumaprintables/portal/session"
)

// ProductsController serves the catalog. Every successful list also feeds the
// session's cart so stale snapshots get reconciled against live stock.
type ProductsController struct {
	platform *clients.Platform
	carts    *cart.Manager
	log      *zap.Logger
}

func NewProductsController(platform *clients.Platform, carts *cart.Manager, log *zap.Logger) *ProductsController {
	return &ProductsController{platform: platform, carts: carts, log: log}
}

// List returns the catalog and syncs the session cart against it.
func (p *ProductsController) List(c *gin.Context) {
	sess, err := middleware.GetSession(c)
	if err != nil {
		apperrors.Respond(c, apperrors.ErrNotAuthenticated)
		return
	}

	products, err := p.platform.GetProducts(c.Request.Context(), sess.Token)
	if err != nil {
		apperrors.Respond(c, apperrors.Upstream(err))
		return
	}

	p.carts.ForSession(sess.ID).SyncProductDetails(products)
	c.JSON(http.StatusOK, products)
}

// Get returns one product.
func (p *ProductsController) Get(c *gin.Context) {
	sess, err := middleware.GetSession(c)
	if err != nil {
		apperrors.Respond(c, apperrors.ErrNotAuthenticated)
		return
	}

	product, err := p.platform.GetProduct(c.Request.Context(), sess.Token, c.Param("id"))
	if err != nil {
		apperrors.Respond(c, apperrors.Upstream(err))
		return
	}
	c.JSON(http.StatusOK, product)
}

// Create adds a catalog entry. Admins only.
func (p *ProductsController) Create(c *gin.Context) {
	sess, req, ok := p.bindAdminProduct(c)
	if !ok {
		return
	}

	product, err := p.platform.CreateProduct(c.Request.Context(), sess.Token, req)
	if err != nil {
		apperrors.Respond(c, apperrors.Upstream(err))
		return
	}
	c.JSON(http.StatusCreated, product)
}

// Update replaces a catalog entry. Admins only.
func (p *ProductsController) Update(c *gin.Context) {
	sess, req, ok := p.bindAdminProduct(c)
	if !ok {
		return
	}

	product, err := p.platform.UpdateProduct(c.Request.Context(), sess.Token, c.Param("id"), req)
	if err != nil {
		apperrors.Respond(c, apperrors.Upstream(err))
		return
	}
	c.JSON(http.StatusOK, product)
}

// Deactivate soft-deletes a catalog entry. Admins only.
func (p *ProductsController) Deactivate(c *gin.Context) {
	sess, err := middleware.GetSession(c)
	if err != nil {
		apperrors.Respond(c, apperrors.ErrNotAuthenticated)
		return
	}
	if sess.User.Role != models.RoleAdmin {
		apperrors.Respond(c, apperrors.ErrForbidden)
		return
	}

	product, err := p.platform.DeactivateProduct(c.Request.Context(), sess.Token, c.Param("id"))
	if err != nil {
		apperrors.Respond(c, apperrors.Upstream(err))
		return
	}
	c.JSON(http.StatusOK, product)
}

func (p *ProductsController) bindAdminProduct(c *gin.Context) (sess session.Session, req models.ProductRequest, ok bool) {
	sess, err := middleware.GetSession(c)
	if err != nil {
		apperrors.Respond(c, apperrors.ErrNotAuthenticated)
		return sess, req, false
	}
	if sess.User.Role != models.RoleAdmin {
		apperrors.Respond(c, apperrors.ErrForbidden)
		return sess, req, false
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.Respond(c, apperrors.ErrInvalidBody)
		return sess, req, false
	}
	if strings.TrimSpace(req.SKU) == "" {
		apperrors.Respond(c, apperrors.Validation("SKU is required"))
		return sess, req, false
	}
	if strings.TrimSpace(req.Name) == "" {
		apperrors.Respond(c, apperrors.Validation("Name is required"))
		return sess, req, false
	}
	if req.Price <= 0 {
		apperrors.Respond(c, apperrors.Validation("Price must be positive"))
		return sess, req, false
	}
	if req.StockQuantity < 0 {
		apperrors.Respond(c, apperrors.Validation("Stock cannot be negative"))
		return sess, req, false
	}
	return sess, req, true
}
