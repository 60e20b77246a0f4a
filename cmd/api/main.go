package main

import (
	"context"
	"log"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/harentsoaR/carelink/internal/config"
	"github.com/harentsoaR/carelink/internal/handlers"
	"github.com/harentsoaR/carelink/internal/router"
	"github.com/harentsoaR/carelink/internal/store"
	"github.com/harentsoaR/carelink/internal/utils"
)

const tokenTTL = 24 * time.Hour

func main() {
	cfg := config.Load()
	log.Printf("APP_ENV: %s", cfg.Env)
	log.Printf("API_PORT: %s", cfg.Port)
	log.Printf("MOCK_LATENCY: %s", cfg.MockLatency)

	// --- Storage ---
	var s store.Store
	if cfg.MongoURI != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
		if err != nil {
			log.Fatalf("Failed to connect to MongoDB: %v", err)
		}
		defer client.Disconnect(context.Background())
		if err := client.Ping(ctx, nil); err != nil {
			log.Fatalf("Failed to reach MongoDB: %v", err)
		}

		ms := store.NewMongoStore(client.Database(cfg.MongoDatabase))
		if err := ms.EnsureIndexes(ctx); err != nil {
			log.Fatalf("Failed to create indexes: %v", err)
		}
		if err := ms.SeedIfEmpty(ctx, cfg.PasswordCost); err != nil {
			log.Fatalf("Failed to seed fixtures: %v", err)
		}
		log.Printf("Successfully connected to MongoDB database %s", cfg.MongoDatabase)
		s = ms
	} else {
		ms, err := store.NewSeededMemoryStore(cfg.PasswordCost)
		if err != nil {
			log.Fatalf("Failed to seed fixtures: %v", err)
		}
		log.Println("MONGO_URI not set, serving in-memory fixtures.")
		s = ms
	}

	if cfg.JWTSecret == "" {
		log.Fatal("JWT_SECRET is NOT SET.")
	}
	h := handlers.NewHandler(s, utils.NewTokenIssuer(cfg.JWTSecret, tokenTTL), cfg.PasswordCost)

	// --- Router ---
	r := router.New(h, router.Options{
		BasePath: "/api",
		Latency:  cfg.MockLatency,
		Middleware: []gin.HandlerFunc{
			gin.Logger(),
			cors.New(cors.Config{
				AllowOrigins:     cfg.CORSOrigins,
				AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
				AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
				AllowCredentials: true,
			}),
		},
	})

	log.Printf("Starting server on port %s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Server stopped: %v", err)
	}
}
