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
)

// CartController exposes the session cart and the checkout flow.
type CartController struct {
	platform *clients.Platform
	carts    *cart.Manager
	log      *zap.Logger
}

func NewCartController(platform *clients.Platform, carts *cart.Manager, log *zap.Logger) *CartController {
	return &CartController{platform: platform, carts: carts, log: log}
}

func (cc *CartController) cartFor(c *gin.Context) (*cart.Cart, string, bool) {
	sess, err := middleware.GetSession(c)
	if err != nil {
		apperrors.Respond(c, apperrors.ErrNotAuthenticated)
		return nil, "", false
	}
	return cc.carts.ForSession(sess.ID), sess.Token, true
}

// View returns the current cart snapshot.
func (cc *CartController) View(c *gin.Context) {
	userCart, _, ok := cc.cartFor(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, userCart.Snapshot())
}

type addItemPayload struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

// Add fetches an authoritative product snapshot and adds it to the cart.
// Adding an inactive or out-of-stock product leaves the cart unchanged.
func (cc *CartController) Add(c *gin.Context) {
	userCart, token, ok := cc.cartFor(c)
	if !ok {
		return
	}

	var req addItemPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.Respond(c, apperrors.ErrInvalidBody)
		return
	}
	if req.ProductID == "" {
		apperrors.Respond(c, apperrors.Validation("Product is required"))
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}
	if req.Quantity < 1 {
		apperrors.Respond(c, apperrors.Validation("Quantity must be at least 1"))
		return
	}

	product, err := cc.platform.GetProduct(c.Request.Context(), token, req.ProductID)
	if err != nil {
		apperrors.Respond(c, apperrors.Upstream(err))
		return
	}

	userCart.AddItem(product, req.Quantity)
	c.JSON(http.StatusOK, userCart.Snapshot())
}

type setQuantityPayload struct {
	Quantity int `json:"quantity"`
}

// SetQuantity clamps the entry to [0, stock]; zero removes it.
func (cc *CartController) SetQuantity(c *gin.Context) {
	userCart, _, ok := cc.cartFor(c)
	if !ok {
		return
	}

	var req setQuantityPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.Respond(c, apperrors.ErrInvalidBody)
		return
	}

	userCart.SetItemQuantity(c.Param("product_id"), req.Quantity)
	c.JSON(http.StatusOK, userCart.Snapshot())
}

// Increment steps an entry's quantity up by one.
func (cc *CartController) Increment(c *gin.Context) {
	userCart, _, ok := cc.cartFor(c)
	if !ok {
		return
	}
	userCart.IncrementItem(c.Param("product_id"))
	c.JSON(http.StatusOK, userCart.Snapshot())
}

// Decrement steps an entry's quantity down by one; zero removes it.
func (cc *CartController) Decrement(c *gin.Context) {
	userCart, _, ok := cc.cartFor(c)
	if !ok {
		return
	}
	userCart.DecrementItem(c.Param("product_id"))
	c.JSON(http.StatusOK, userCart.Snapshot())
}

// Remove drops an entry.
func (cc *CartController) Remove(c *gin.Context) {
	userCart, _, ok := cc.cartFor(c)
	if !ok {
		return
	}
	userCart.RemoveItem(c.Param("product_id"))
	c.JSON(http.StatusOK, userCart.Snapshot())
}

// Clear empties the cart.
func (cc *CartController) Clear(c *gin.Context) {
	userCart, _, ok := cc.cartFor(c)
	if !ok {
		return
	}
	userCart.Clear()
	c.JSON(http.StatusOK, userCart.Snapshot())
}

// Sync refreshes the catalog and reconciles the cart against it.
func (cc *CartController) Sync(c *gin.Context) {
	userCart, token, ok := cc.cartFor(c)
	if !ok {
		return
	}

	products, err := cc.platform.GetProducts(c.Request.Context(), token)
	if err != nil {
		apperrors.Respond(c, apperrors.Upstream(err))
		return
	}

	userCart.SyncProductDetails(products)
	c.JSON(http.StatusOK, userCart.Snapshot())
}

// Open, Close and Toggle drive the drawer visibility flag.
func (cc *CartController) Open(c *gin.Context) {
	userCart, _, ok := cc.cartFor(c)
	if !ok {
		return
	}
	userCart.OpenDrawer()
	c.JSON(http.StatusOK, userCart.Snapshot())
}

func (cc *CartController) Close(c *gin.Context) {
	userCart, _, ok := cc.cartFor(c)
	if !ok {
		return
	}
	userCart.CloseDrawer()
	c.JSON(http.StatusOK, userCart.Snapshot())
}

func (cc *CartController) Toggle(c *gin.Context) {
	userCart, _, ok := cc.cartFor(c)
	if !ok {
		return
	}
	userCart.ToggleDrawer()
	c.JSON(http.StatusOK, userCart.Snapshot())
}

type checkoutPayload struct {
	ShippingAddress string `json:"shippingAddress"`
	CustomerGst     string `json:"customerGst"`
}

// Checkout submits the cart as one order. It requires a non-empty cart, a
// shipping address and no currently unavailable entries; the cart clears only
// after the platform confirms creation.
func (cc *CartController) Checkout(c *gin.Context) {
	userCart, token, ok := cc.cartFor(c)
	if !ok {
		return
	}

	var req checkoutPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.Respond(c, apperrors.ErrInvalidBody)
		return
	}
	if strings.TrimSpace(req.ShippingAddress) == "" {
		apperrors.Respond(c, apperrors.Validation("Shipping address is required"))
		return
	}

	items := userCart.Items()
	if len(items) == 0 {
		apperrors.Respond(c, apperrors.Validation("Cart is empty"))
		return
	}

	orderItems := make([]models.OrderItemRequest, 0, len(items))
	for _, item := range items {
		if !item.Product.Available() {
			apperrors.Respond(c, apperrors.Validation("Some items are no longer available, refresh your cart"))
			return
		}
		orderItems = append(orderItems, models.OrderItemRequest{
			ProductID: item.Product.ID,
			Quantity:  item.Quantity,
		})
	}

	order, err := cc.platform.CreateOrder(c.Request.Context(), token, models.CreateOrderRequest{
		ShippingAddress: req.ShippingAddress,
		CustomerGst:     req.CustomerGst,
		Items:           orderItems,
	})
	if err != nil {
		apperrors.Respond(c, apperrors.Upstream(err))
		return
	}

	userCart.Clear()
	userCart.CloseDrawer()
	c.JSON(http.StatusCreated, order)
}
