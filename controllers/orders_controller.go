package controllers

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pumaprintables/portal/apperrors"
	"github.com/pumaprintables/portal/clients"
	"github.com/pumaprintables/portal/middleware"
	"github.com/pumaprintables/portal/models"
)

// OrdersController drives the order list and approval/fulfillment workflows.
type OrdersController struct {
	platform *clients.Platform
	log      *zap.Logger
}

func NewOrdersController(platform *clients.Platform, log *zap.Logger) *OrdersController {
	return &OrdersController{platform: platform, log: log}
}

// List returns orders, optionally filtered by status.
func (o *OrdersController) List(c *gin.Context) {
	sess, err := middleware.GetSession(c)
	if err != nil {
		apperrors.Respond(c, apperrors.ErrNotAuthenticated)
		return
	}

	status := c.Query("status")
	if status != "" && status != "ALL" && !models.ValidOrderStatus(status) {
		apperrors.Respond(c, apperrors.Validation("Unknown order status filter"))
		return
	}
	if status == "ALL" {
		status = ""
	}

	orders, err := o.platform.GetOrders(c.Request.Context(), sess.Token, status)
	if err != nil {
		apperrors.Respond(c, apperrors.Upstream(err))
		return
	}
	c.JSON(http.StatusOK, orders)
}

// Get returns a single order.
func (o *OrdersController) Get(c *gin.Context) {
	sess, err := middleware.GetSession(c)
	if err != nil {
		apperrors.Respond(c, apperrors.ErrNotAuthenticated)
		return
	}

	order, err := o.platform.GetOrder(c.Request.Context(), sess.Token, c.Param("id"))
	if err != nil {
		apperrors.Respond(c, apperrors.Upstream(err))
		return
	}
	c.JSON(http.StatusOK, order)
}

// Create places a new order. Store users and admins only.
func (o *OrdersController) Create(c *gin.Context) {
	sess, err := middleware.GetSession(c)
	if err != nil {
		apperrors.Respond(c, apperrors.ErrNotAuthenticated)
		return
	}
	if sess.User.Role != models.RoleStoreUser && sess.User.Role != models.RoleAdmin {
		apperrors.Respond(c, apperrors.ErrForbidden)
		return
	}

	var req models.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.Respond(c, apperrors.ErrInvalidBody)
		return
	}
	if strings.TrimSpace(req.ShippingAddress) == "" {
		apperrors.Respond(c, apperrors.Validation("Shipping address is required"))
		return
	}
	if len(req.Items) == 0 {
		apperrors.Respond(c, apperrors.Validation("At least one item is required"))
		return
	}
	for _, item := range req.Items {
		if item.ProductID == "" {
			apperrors.Respond(c, apperrors.Validation("Every item needs a product"))
			return
		}
		if item.Quantity < 1 {
			apperrors.Respond(c, apperrors.Validation("Quantity must be at least 1"))
			return
		}
	}

	order, err := o.platform.CreateOrder(c.Request.Context(), sess.Token, req)
	if err != nil {
		apperrors.Respond(c, apperrors.Upstream(err))
		return
	}
	c.JSON(http.StatusCreated, order)
}

// Approve approves a pending order. Approvers and admins only.
func (o *OrdersController) Approve(c *gin.Context) {
	o.reviewAction(c, o.platform.ApproveOrder)
}

// Reject rejects a pending order. Approvers and admins only.
func (o *OrdersController) Reject(c *gin.Context) {
	o.reviewAction(c, o.platform.RejectOrder)
}

// Accept marks an approved order as taken by fulfillment.
func (o *OrdersController) Accept(c *gin.Context) {
	sess, err := middleware.GetSession(c)
	if err != nil {
		apperrors.Respond(c, apperrors.ErrNotAuthenticated)
		return
	}
	if sess.User.Role != models.RoleFulfillmentAgent && sess.User.Role != models.RoleAdmin {
		apperrors.Respond(c, apperrors.ErrForbidden)
		return
	}

	var req models.AcceptOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.Respond(c, apperrors.ErrInvalidBody)
		return
	}
	if strings.TrimSpace(req.DeliveryAddress) == "" {
		apperrors.Respond(c, apperrors.Validation("Delivery address is required"))
		return
	}

	order, err := o.platform.AcceptOrder(c.Request.Context(), sess.Token, c.Param("id"), req)
	if err != nil {
		apperrors.Respond(c, apperrors.Upstream(err))
		return
	}
	c.JSON(http.StatusOK, order)
}

// Courier attaches dispatch metadata once the order physically ships.
func (o *OrdersController) Courier(c *gin.Context) {
	sess, err := middleware.GetSession(c)
	if err != nil {
		apperrors.Respond(c, apperrors.ErrNotAuthenticated)
		return
	}
	if sess.User.Role != models.RoleFulfillmentAgent && sess.User.Role != models.RoleAdmin {
		apperrors.Respond(c, apperrors.ErrForbidden)
		return
	}

	var req models.CourierInfoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.Respond(c, apperrors.ErrInvalidBody)
		return
	}
	if strings.TrimSpace(req.CourierName) == "" {
		apperrors.Respond(c, apperrors.Validation("Courier name is required"))
		return
	}
	if strings.TrimSpace(req.TrackingNumber) == "" {
		apperrors.Respond(c, apperrors.Validation("Tracking number is required"))
		return
	}
	if req.DispatchDate == "" {
		apperrors.Respond(c, apperrors.Validation("Dispatch date is required"))
		return
	}

	order, err := o.platform.AddCourierInfo(c.Request.Context(), sess.Token, c.Param("id"), req)
	if err != nil {
		apperrors.Respond(c, apperrors.Upstream(err))
		return
	}
	c.JSON(http.StatusOK, order)
}

type reviewCall func(ctx context.Context, token, orderID string, req models.ApprovalActionRequest) (models.Order, error)

func (o *OrdersController) reviewAction(c *gin.Context, call reviewCall) {
	sess, err := middleware.GetSession(c)
	if err != nil {
		apperrors.Respond(c, apperrors.ErrNotAuthenticated)
		return
	}
	if sess.User.Role != models.RoleApprover && sess.User.Role != models.RoleAdmin {
		apperrors.Respond(c, apperrors.ErrForbidden)
		return
	}

	var req models.ApprovalActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.Respond(c, apperrors.ErrInvalidBody)
		return
	}
	if strings.TrimSpace(req.Comments) == "" {
		apperrors.Respond(c, apperrors.Validation("Comments are required"))
		return
	}

	order, err := call(c.Request.Context(), sess.Token, c.Param("id"), req)
	if err != nil {
		apperrors.Respond(c, apperrors.Upstream(err))
		return
	}
	c.JSON(http.StatusOK, order)
}
