package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/pumaprintables/portal/cart"
	"github.com/pumaprintables/portal/clients"
	"github.com/pumaprintables/portal/config"
	"github.com/pumaprintables/portal/controllers"
	"github.com/pumaprintables/portal/logger"
	"github.com/pumaprintables/portal/middleware"
	"github.com/pumaprintables/portal/pkg/scheduler"
	"github.com/pumaprintables/portal/routes"
	"github.com/pumaprintables/portal/session"
)

func main() {
	cfg := config.Load()
	logger.Initialize(cfg.Env)
	log := logger.Log
	defer log.Sync()

	platform := clients.NewPlatform(cfg.PlatformAPIURL, cfg.RequestTimeout)

	store := newSessionStore(cfg, log)
	sessions := session.NewManager(store, platform, log)
	carts := cart.NewManager()
	sessions.OnSessionEnded(carts.DropSession)

	ctrl := routes.Controllers{
		Auth:          controllers.NewAuthController(platform, sessions, log, cfg.SessionCookieName, cfg.CookieSecure),
		Orders:        controllers.NewOrdersController(platform, log),
		Products:      controllers.NewProductsController(platform, carts, log),
		Cart:          controllers.NewCartController(platform, carts, log),
		Notifications: controllers.NewNotificationsController(platform, log),
		Admin:         controllers.NewAdminController(platform, sessions, log),
		Reports:       controllers.NewReportsController(platform, log),
	}

	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery(), middleware.RequestID(), middleware.RequestLogger(log))

	routes.RegisterRoutes(router, ctrl, sessions, cfg.SessionCookieName)

	// Keep cached profiles in step with the platform while sessions are live.
	refresher := scheduler.New("session-refresh", cfg.SessionRefreshInterval, sessions.RefreshAll, log)
	refresher.Start()

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		log.Info("portal gateway listening", zap.String("port", cfg.Port), zap.String("platform", cfg.PlatformAPIURL))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("server failed", zap.Error(err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	log.Info("shutting down gracefully")
	refresher.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("shutdown error", zap.Error(err))
	}
	log.Info("server shutdown complete")
}

// newSessionStore picks redis when REDIS_URL is set, otherwise an in-process
// store. Single-instance deployments work fine without redis but lose
// sessions on restart.
func newSessionStore(cfg config.Config, log *zap.Logger) session.Store {
	if cfg.RedisURL == "" {
		log.Info("REDIS_URL not set, using in-memory session store")
		return session.NewMemoryStore()
	}

	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		log.Fatal("invalid REDIS_URL", zap.Error(err))
	}
	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		log.Fatal("redis unreachable", zap.Error(err))
	}
	log.Info("connected to redis session store")
	return session.NewRedisStore(client)
}
