package main

import (
	"net/http"
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/hainam0320/EXE201-sub000/auth"
	"github.com/hainam0320/EXE201-sub000/config"
	"github.com/hainam0320/EXE201-sub000/events"
	"github.com/hainam0320/EXE201-sub000/idempotency"
	"github.com/hainam0320/EXE201-sub000/logging"
	"github.com/hainam0320/EXE201-sub000/middleware"
	"github.com/hainam0320/EXE201-sub000/models"
	"github.com/hainam0320/EXE201-sub000/routes"
	cartService "github.com/hainam0320/EXE201-sub000/services/cart"
	catalogService "github.com/hainam0320/EXE201-sub000/services/catalog"
	orderService "github.com/hainam0320/EXE201-sub000/services/order"
	"github.com/hainam0320/EXE201-sub000/uploads"
)

func main() {
	// Local .env overrides for development; koanf reads the real config.
	_ = godotenv.Load()

	envName := os.Getenv("APP_ENV")
	if envName == "" {
		envName = "dev"
	}
	cfg, err := config.Load("./configs", envName)
	if err != nil {
		panic(err)
	}

	log := logging.Init(cfg.App.Name, cfg.App.LogFile, cfg.App.LogLevel)
	log.Info("starting application", "env", envName, "addr", cfg.App.HTTPAddr)

	db := initDatabase(cfg)
	if err := db.AutoMigrate(
		&models.User{},
		&models.Shop{},
		&models.Product{},
		&models.Cart{},
		&models.CartItem{},
		&models.Order{},
		&models.OrderItem{},
	); err != nil {
		log.Error("auto-migrate failed", "error", err)
		os.Exit(1)
	}

	// Access guard shared by middleware and services.
	guard := auth.NewJWTGuard(cfg.Security.JWTSecret, cfg.Security.Issuer, cfg.Security.TTL)

	// Optional infrastructure: checkout idempotency and the order event bus
	// degrade gracefully when unconfigured.
	var idemStore idempotency.Store = idempotency.Disabled{}
	if cfg.Redis.Addr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password})
		idemStore = idempotency.NewRedisStore(rdb, cfg.Idempotency.TTL)
	}

	hub := events.NewHub()
	publishers := events.Multi{hub}
	if len(cfg.Kafka.Brokers) > 0 {
		kp := events.NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.OrderTopic)
		defer kp.Close()
		publishers = append(publishers, kp)
	}

	catalog := catalogService.NewService(db)
	carts := cartService.NewService(db, catalog)
	orders := orderService.NewService(db, catalog, guard, idemStore, publishers, logging.New("orders"))
	proofStore := uploads.NewDiskStore(cfg.Uploads.Dir, cfg.Uploads.PublicBaseURL)

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLog())
	r.Use(middleware.Metrics())

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", idempotency.Header},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Serve uploaded payment proofs and product images.
	r.Static("/uploads", cfg.Uploads.Dir)

	routes.SetupRoutes(r, routes.Deps{
		Guard:   guard,
		Carts:   carts,
		Orders:  orders,
		Catalog: catalog,
		Uploads: proofStore,
		Hub:     hub,
	})

	srv := &http.Server{
		Addr:         cfg.App.HTTPAddr,
		Handler:      r,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}
	log.Info("server listening", "addr", cfg.App.HTTPAddr)
	if err := srv.ListenAndServe(); err != nil {
		log.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func initDatabase(cfg config.Config) *gorm.DB {
	db, err := gorm.Open(postgres.Open(cfg.Postgres.DSN), &gorm.Config{})
	if err != nil {
		logging.Base().Error("db connection failed", "error", err)
		os.Exit(1)
	}
	return db
}
