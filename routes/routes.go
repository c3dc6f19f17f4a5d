package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pumaprintables/portal/controllers"
	"github.com/pumaprintables/portal/middleware"
	"github.com/pumaprintables/portal/session"
)

// Controllers groups everything RegisterRoutes needs to wire.
type Controllers struct {
	Auth          *controllers.AuthController
	Orders        *controllers.OrdersController
	Products      *controllers.ProductsController
	Cart          *controllers.CartController
	Notifications *controllers.NotificationsController
	Admin         *controllers.AdminController
	Reports       *controllers.ReportsController
}

func RegisterRoutes(r *gin.Engine, ctrl Controllers, sessions *session.Manager, cookieName string) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "UP"})
	})

	// Public routes - no session required
	public := r.Group("/portal")
	{
		auth := public.Group("/auth")
		auth.Use(middleware.LoginRateLimit())
		{
			auth.POST("/login", ctrl.Auth.Login)
			auth.POST("/login/google", ctrl.Auth.LoginGoogle)
			auth.POST("/register", ctrl.Auth.Register)
		}
	}

	// Protected routes - require a live session
	protected := r.Group("/portal")
	protected.Use(middleware.RequireSession(sessions, cookieName))
	{
		protected.POST("/auth/logout", ctrl.Auth.Logout)
		protected.GET("/session", ctrl.Auth.Session)
		protected.POST("/session/refresh", ctrl.Auth.RefreshSession)

		// Orders page
		protected.GET("/orders", ctrl.Orders.List)
		protected.GET("/orders/:id", ctrl.Orders.Get)
		protected.POST("/orders", ctrl.Orders.Create)
		protected.POST("/orders/:id/approve", ctrl.Orders.Approve)
		protected.POST("/orders/:id/reject", ctrl.Orders.Reject)
		protected.POST("/orders/:id/accept", ctrl.Orders.Accept)
		protected.POST("/orders/:id/courier", ctrl.Orders.Courier)

		// Products page
		protected.GET("/products", ctrl.Products.List)
		protected.GET("/products/:id", ctrl.Products.Get)
		protected.POST("/products", ctrl.Products.Create)
		protected.PUT("/products/:id", ctrl.Products.Update)
		protected.DELETE("/products/:id", ctrl.Products.Deactivate)

		// Cart drawer
		protected.GET("/cart", ctrl.Cart.View)
		protected.POST("/cart/items", ctrl.Cart.Add)
		protected.PUT("/cart/items/:product_id", ctrl.Cart.SetQuantity)
		protected.POST("/cart/items/:product_id/increment", ctrl.Cart.Increment)
		protected.POST("/cart/items/:product_id/decrement", ctrl.Cart.Decrement)
		protected.DELETE("/cart/items/:product_id", ctrl.Cart.Remove)
		protected.DELETE("/cart", ctrl.Cart.Clear)
		protected.POST("/cart/sync", ctrl.Cart.Sync)
		protected.POST("/cart/open", ctrl.Cart.Open)
		protected.POST("/cart/close", ctrl.Cart.Close)
		protected.POST("/cart/toggle", ctrl.Cart.Toggle)
		protected.POST("/cart/checkout", ctrl.Cart.Checkout)

		// Notifications page
		protected.GET("/notifications", ctrl.Notifications.List)

		// Reports dashboard
		protected.GET("/reports/summary", ctrl.Reports.Summary)

		// Admin console
		admin := protected.Group("/admin")
		{
			admin.GET("/users", ctrl.Admin.ListUsers)
			admin.PUT("/users/:id/role", ctrl.Admin.UpdateRole)
			admin.GET("/users/metrics", ctrl.Admin.Metrics)
			admin.GET("/users/onboarding/export", ctrl.Admin.ExportOnboarding)
		}
	}
}
