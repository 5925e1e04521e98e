package main

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/gitat/party-rental-api/internal/config"
	"github.com/gitat/party-rental-api/internal/database"
	"github.com/gitat/party-rental-api/internal/handler"
	"github.com/gitat/party-rental-api/internal/middleware"
	"github.com/gitat/party-rental-api/internal/pricing"
	"github.com/gitat/party-rental-api/internal/queue"
	"github.com/gitat/party-rental-api/internal/repository"
	"github.com/gitat/party-rental-api/internal/router"
	"github.com/gitat/party-rental-api/internal/service"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	// Redis is optional infrastructure; nil disables cache and limiter.
	rdb := config.NewRedisClient()
	cacheCfg := config.LoadCacheConfig()
	rateCfg := config.LoadRateLimitConfig()

	users := repository.NewUserRepo(db)
	inventory := repository.NewInventoryRepo(db)
	rooms := repository.NewRoomRepo(db)
	reservations := repository.NewReservationRepo(db)
	payments := repository.NewPaymentRepo(db)

	resolver := pricing.NewResolver(inventory, rooms)
	details := service.NewDetailService(reservations, payments)

	authH := handler.NewAuthHandler(cfg, users)
	reservationH := handler.NewReservationHandler(reservations, rooms, resolver, details)
	inventoryH := handler.NewInventoryHandler(inventory)
	adminH := handler.NewAdminUserHandler(cfg, users)

	go func() {
		if err := queue.StartReservationConsumer(); err != nil {
			log.Printf("reservation consumer stopped: %v", err)
		}
	}()

	e := echo.New()
	e.HideBanner = true

	rateLimit := middleware.NewTokenBucket(rateCfg, rdb)
	cache := middleware.NewRedisCache(cacheCfg, rdb)

	router.RegisterRoutes(e)
	router.RegisterAuth(e, authH, cfg.JWTSecret)
	router.RegisterReservations(e, reservationH, cfg.JWTSecret, rateLimit)
	router.RegisterInventory(e, inventoryH, cfg.JWTSecret, rateLimit, cache)
	router.RegisterAdmin(e, adminH, cfg.JWTSecret)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
