package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pumaprintables/portal/apperrors"
	"github.com/pumaprintables/portal/clients"
	"github.com/pumaprintables/portal/middleware"
	"github.com/pumaprintables/portal/models"
)

type ReportsController struct {
	platform *clients.Platform
	log      *zap.Logger
}

func NewReportsController(platform *clients.Platform, log *zap.Logger) *ReportsController {
	return &ReportsController{platform: platform, log: log}
}

// DashboardSummary is the aggregate view shown on the reports landing page.
type DashboardSummary struct {
	TotalOrders      int              `json:"totalOrders"`
	PendingApprovals int              `json:"pendingApprovals"`
	InTransit        int              `json:"inTransit"`
	Fulfilled        int              `json:"fulfilled"`
	Rejected         int              `json:"rejected"`
	TotalOrderValue  float64          `json:"totalOrderValue"`
	ActiveProducts   int              `json:"activeProducts"`
	OutOfStock       int              `json:"outOfStock"`
	StatusCounts     map[string]int   `json:"statusCounts"`
	RecentOrders     []models.Order   `json:"recentOrders"`
	LowStockProducts []models.Product `json:"lowStockProducts"`
}

const (
	recentOrdersLimit = 10
	lowStockThreshold = 5
)

type ordersResult struct {
	orders []models.Order
	err    error
}

type productsResult struct {
	products []models.Product
	err      error
}

// Summary fetches orders and products concurrently and folds them into a
// single dashboard payload.
func (r *ReportsController) Summary(c *gin.Context) {
	sess, err := middleware.GetSession(c)
	if err != nil {
		apperrors.Respond(c, apperrors.ErrNotAuthenticated)
		return
	}

	ctx := c.Request.Context()
	ordersCh := make(chan ordersResult, 1)
	productsCh := make(chan productsResult, 1)

	go func() {
		orders, err := r.platform.GetOrders(ctx, sess.Token, "")
		ordersCh <- ordersResult{orders: orders, err: err}
	}()
	go func() {
		products, err := r.platform.GetProducts(ctx, sess.Token)
		productsCh <- productsResult{products: products, err: err}
	}()

	or := <-ordersCh
	pr := <-productsCh

	if or.err != nil {
		apperrors.Respond(c, apperrors.Upstream(or.err))
		return
	}
	if pr.err != nil {
		apperrors.Respond(c, apperrors.Upstream(pr.err))
		return
	}

	c.JSON(http.StatusOK, buildSummary(or.orders, pr.products))
}

func buildSummary(orders []models.Order, products []models.Product) DashboardSummary {
	summary := DashboardSummary{
		TotalOrders:  len(orders),
		StatusCounts: make(map[string]int),
	}

	for _, o := range orders {
		summary.StatusCounts[string(o.Status)]++
		switch o.Status {
		case models.OrderPendingApproval:
			summary.PendingApprovals++
		case models.OrderInTransit:
			summary.InTransit++
		case models.OrderFulfilled:
			summary.Fulfilled++
		case models.OrderRejected:
			summary.Rejected++
		}
		if o.Status != models.OrderRejected {
			summary.TotalOrderValue += o.TotalAmount
		}
	}

	if len(orders) > recentOrdersLimit {
		summary.RecentOrders = orders[:recentOrdersLimit]
	} else {
		summary.RecentOrders = orders
	}

	for _, p := range products {
		if !p.Active {
			continue
		}
		summary.ActiveProducts++
		if p.StockQuantity == 0 {
			summary.OutOfStock++
		} else if p.StockQuantity <= lowStockThreshold {
			summary.LowStockProducts = append(summary.LowStockProducts, p)
		}
	}

	return summary
}
