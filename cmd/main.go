package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"whisperwall/backend/internal/api/handler"
	"whisperwall/backend/internal/chathub"
	"whisperwall/backend/internal/config"
	"whisperwall/backend/internal/confessions"
	"whisperwall/backend/internal/models"
	"whisperwall/backend/internal/registry"
	"whisperwall/backend/internal/storage"
)

func setupDependencies(cfg config.Config) (*gorm.DB, *redis.Client) {
	db, err := gorm.Open(postgres.Open(cfg.PostgresDSN), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect PostgreSQL: %v", err)
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       0,
	})
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		log.Fatalf("Failed to connect Redis: %v", err)
	}

	err = db.AutoMigrate(
		&models.Confession{},
		&models.Reply{},
		&models.Report{},
		&models.ChatSession{},
	)
	if err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	log.Println("Database and Redis connections established, migrations complete.")
	return db, rdb
}

func main() {
	log.Println("Starting WhisperWall backend...")

	if err := godotenv.Load(); err != nil {
		log.Println("Warning: no .env file loaded")
	}
	cfg := config.Load()

	db, rdb := setupDependencies(cfg)
	store := storage.NewService(db, rdb)
	feed := confessions.NewService(store)

	// Realtime core: one registry, one hub goroutine.
	reg := registry.New()
	hub := chathub.NewHub(reg, chathub.NewPresence(nil), store)
	go hub.Run()

	r := gin.Default()
	h := handler.NewHandler(hub, feed, cfg.JWTSecret)

	r.GET("/api/token", h.GetToken)
	r.GET("/ws", h.ServeWebSocket)

	api := r.Group("/api")
	{
		api.GET("/confessions", h.ListConfessions)
		api.POST("/confessions", h.CreateConfession)
		api.GET("/confessions/trending", h.TrendingConfessions)
		api.GET("/confessions/:id", h.GetConfession)
		api.POST("/confessions/:id/replies", h.CreateReply)
		api.POST("/votes", h.Vote)
		api.POST("/reports", h.CreateReport)
	}

	server := &http.Server{
		Addr:           cfg.Addr,
		Handler:        r,
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   10 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	log.Printf("Listening on %s", cfg.Addr)
	log.Fatal(server.ListenAndServe())
}
