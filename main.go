package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"

	"github.com/marcline/storefront/config"
	"github.com/marcline/storefront/controllers"
	"github.com/marcline/storefront/database"
	"github.com/marcline/storefront/middleware"
	"github.com/marcline/storefront/store"
	"github.com/marcline/storefront/utils"
)

func main() {
	log := logrus.New()
	log.SetOutput(os.Stdout)

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("configuration error: %v", err)
	}

	if cfg.IsProduction() {
		log.SetFormatter(&logrus.JSONFormatter{})
		gin.SetMode(gin.ReleaseMode)
	}

	ctx := context.Background()

	client, err := database.Connect(ctx, cfg.MongoURI)
	if err != nil {
		log.Fatalf("failed to connect to store: %v", err)
	}
	defer func() {
		if err := client.Disconnect(context.Background()); err != nil {
			log.Errorf("error disconnecting from store: %v", err)
		}
	}()
	log.Info("connected to MongoDB")

	var productStore store.ProductStore = store.NewMongoProductStore(
		client.Database(cfg.DatabaseName).Collection("products"),
	)

	if cfg.RedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		if err := redisClient.Ping(pingCtx).Err(); err != nil {
			cancel()
			log.Fatalf("failed to connect to redis: %v", err)
		}
		cancel()
		defer redisClient.Close()
		productStore = store.NewCachedProductStore(productStore, redisClient, log)
		log.Info("product cache enabled")
	}

	if cfg.SeedProducts {
		if err := utils.SeedProducts(ctx, productStore, log); err != nil {
			log.Fatalf("failed to seed products: %v", err)
		}
	}

	r := gin.New()
	r.Use(middleware.RequestLogger(log))
	r.Use(gin.Recovery())

	// The client runs on a different origin during development; the
	// catalog is public and read-only, so any origin may call it.
	r.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "OPTIONS"},
		AllowHeaders:    []string{"Origin", "Content-Type"},
		MaxAge:          12 * time.Hour,
	}))

	r.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, "API is running...")
	})

	pc := controllers.NewProductsController(productStore, log, !cfg.IsProduction())
	pc.RegisterRoutes(r)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Infof("Server running in %s mode on port %s", cfg.AppEnv, cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	waitForExit(srv, serverErr, quit, log)
	log.Info("server stopped")
}

// waitForExit blocks until the server fails or a shutdown signal
// arrives, then drains the server. Returning instead of exiting lets
// main's deferred store disconnects run on both paths.
func waitForExit(srv *http.Server, serverErr <-chan error, quit <-chan os.Signal, log *logrus.Logger) {
	select {
	case err := <-serverErr:
		log.Errorf("server failed: %v", err)
	case <-quit:
		log.Info("shutting down server...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Errorf("forced shutdown: %v", err)
	}
}
