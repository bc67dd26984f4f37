package database

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
)

// --- Variables Globales ---
var (
	Redis *redis.Client
)

// Connect initialise la connexion Redis (persistance locale des paniers,
// cache de contenu, rate limiting, gating des popups)
func Connect() error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := connectRedis(ctx); err != nil {
		return err
	}

	log.Println("✅ Toutes les connexions sont établies")
	return nil
}

func connectRedis(ctx context.Context) error {
	redisHost := os.Getenv("REDIS_HOST")
	redisPassword := os.Getenv("REDIS_PASSWORD")

	if redisHost == "" {
		return fmt.Errorf("REDIS_HOST non configuré")
	}

	Redis = redis.NewClient(&redis.Options{
		Addr:         redisHost,
		Password:     redisPassword,
		DB:           0, // Base de données par défaut
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
		MinIdleConns: 5,
	})

	// Test de connexion
	if _, err := Redis.Ping(ctx).Result(); err != nil {
		return fmt.Errorf("impossible de se connecter à Redis: %v", err)
	}

	log.Println("✅ Redis connecté avec succès")
	return nil
}

// Close ferme la connexion Redis
func Close() error {
	if Redis != nil {
		return Redis.Close()
	}
	return nil
}
