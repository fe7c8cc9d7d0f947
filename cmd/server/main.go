package main

import (
	"context"
	"net/http"
	"time"

	"bdstore-be/internal/cart"
	"bdstore-be/internal/checkout"
	"bdstore-be/internal/config"
	"bdstore-be/internal/db"
	"bdstore-be/internal/handler"
	"bdstore-be/internal/logger"
	"bdstore-be/internal/metrics"
	"bdstore-be/internal/order"
	"bdstore-be/internal/product"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	cfg := config.LoadConfig()

	logger.Init(cfg.AppEnv)
	defer logger.Sync()

	database := db.InitDB(cfg)
	defer database.Close()

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.L().Fatal("failed to connect to redis", zap.Error(err))
	}
	defer redisClient.Close()

	cartStorage := cart.NewRedisStorage(redisClient)

	productRepo := product.NewRepository(database)
	orderRepo := order.NewRepository(database)
	orderSvc := order.NewService(orderRepo)
	checkoutSvc := checkout.NewService(productRepo, orderRepo, &metrics.CheckoutMetrics{})

	router := handler.NewRouter(
		cfg.JWTSecret,
		handler.NewProductHandler(productRepo),
		handler.NewCartHandler(cartStorage, productRepo),
		handler.NewCheckoutHandler(checkoutSvc, cartStorage),
		handler.NewOrderHandler(orderSvc),
	)

	addr := ":" + cfg.AppPort
	logger.L().Info("storefront API listening", zap.String("addr", addr))
	if err := http.ListenAndServe(addr, router); err != nil {
		logger.L().Fatal("server stopped", zap.Error(err))
	}
}
