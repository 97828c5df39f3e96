package main

import (
	"context"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"

	"github.com/supermarios77/Linglix-sub002/internal/config"
	dbpkg "github.com/supermarios77/Linglix-sub002/internal/db"
	"github.com/supermarios77/Linglix-sub002/internal/lock"
	"github.com/supermarios77/Linglix-sub002/internal/middleware"
	"github.com/supermarios77/Linglix-sub002/internal/notification"
	"github.com/supermarios77/Linglix-sub002/internal/payment"
	"github.com/supermarios77/Linglix-sub002/internal/reconciler"
	"github.com/supermarios77/Linglix-sub002/internal/routes"
)

func main() {

	cfg := config.Load()
	db := dbpkg.NewDB(cfg)

	gateway, err := payment.NewMercadoPago(cfg.MercadoPagoToken)
	if err != nil {
		log.Fatalf("failed to configure payment gateway: %v", err)
	}

	notifier := notification.NewDispatcher(notification.LogSink{})

	r := gin.Default()

	r.Use(middleware.CORSMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	wiring := routes.RegisterRoutes(r, routes.Deps{
		DB:       db,
		Config:   cfg,
		Gateway:  gateway,
		Notifier: notifier,
	})

	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	lease := lock.NewRedisLease(rdb)

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	sweeper := reconciler.New(wiring.Sweep, lease, cfg.SweepInterval)
	go sweeper.Start(ctx)

	log.Printf("Server running on %s", cfg.Addr())
	if err := r.Run(cfg.Addr()); err != nil {
		log.Fatalf("failed to start server: %v", err)
	}
}
