package main

import (
	"context"

	"github.com/DedS3t/cashflow-backend/app/controllers"
	"github.com/DedS3t/cashflow-backend/app/engine"
	"github.com/DedS3t/cashflow-backend/app/engine/ledger"
	"github.com/DedS3t/cashflow-backend/pkg/middleware"
	"github.com/DedS3t/cashflow-backend/pkg/routes"
	"github.com/DedS3t/cashflow-backend/platform/board"
	"github.com/DedS3t/cashflow-backend/platform/cache"
	"github.com/DedS3t/cashflow-backend/platform/config"
	"github.com/DedS3t/cashflow-backend/platform/database"
	"github.com/DedS3t/cashflow-backend/platform/logging"
	socket "github.com/DedS3t/cashflow-backend/platform/sockets"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	jwtware "github.com/gofiber/jwt/v2"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Init("info", "text").WithError(err).Fatal("load config")
	}
	log := logging.Init(cfg.LogLevel, cfg.LogFormat)

	game, err := board.Load(cfg.ConfigDir)
	if err != nil {
		log.WithError(err).Fatal("load game data")
	}
	policy, err := ledger.ParsePolicy(cfg.CreditPolicy)
	if err != nil {
		log.WithError(err).Fatal("credit policy")
	}

	var store engine.Store = cache.NewMemoryStore()
	if cfg.RedisURL != "" {
		pool := cache.CreateRedisPool(cfg.RedisURL)
		defer pool.Close()
		store = cache.NewRedisStore(pool)
		log.WithField("url", cfg.RedisURL).Info("game state in redis")
	}

	repo := database.NewMemoryRepository()
	var rooms engine.Rooms = repo
	var archive engine.Archive = repo
	if cfg.DBAddr != "" {
		db := database.PostgreSQLConnection(database.Options{
			User:     cfg.DBUser,
			Addr:     cfg.DBAddr,
			Password: cfg.DBPassword,
			Database: cfg.DBName,
		})
		defer db.Close()
		if err := database.CreateSchema(context.Background(), db); err != nil {
			log.WithError(err).Fatal("create schema")
		}
		pg := database.NewRepository(db)
		rooms, archive = pg, pg
		log.WithField("addr", cfg.DBAddr).Info("rooms in postgres")
	}

	sock, err := socket.NewServer(log)
	if err != nil {
		log.WithError(err).Fatal("socket server")
	}
	go func() {
		if err := sock.ListenAndServe(":"+cfg.SocketPort, cfg.AllowedOrigins); err != nil {
			log.WithError(err).Fatal("socket server stopped")
		}
	}()

	manager := engine.NewManager(engine.Options{
		Store:     store,
		Rooms:     rooms,
		Archive:   archive,
		Publisher: sock,
		Game:      game,
		Credit:    policy,
		Log:       log,
		Seed:      cfg.Seed,
	})
	gc := controllers.NewGameController(manager, log)

	app := fiber.New()
	app.Use(cors.New(cors.Config{AllowOrigins: cfg.AllowedOrigins}))
	app.Use(middleware.Metrics())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))
	routes.RoomRoutes(app, gc)

	app.Use(jwtware.New(jwtware.Config{
		SigningKey: []byte(cfg.JWTSecret),
	}))

	routes.AuthRoutes(app)
	routes.GameRoutes(app, gc)

	log.WithField("port", cfg.Port).Info("http server listening")
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.WithError(err).Fatal("http server stopped")
	}
}
