package configs

import (
	"context"
	"log"

	"github.com/redis/go-redis/v9"
)

// OpenRedis returns nil when no address is configured or the server is
// unreachable; callers treat a nil client as caching/limiting disabled.
func OpenRedis() *redis.Client {
	if LoadENV.RedisAddr == "" {
		log.Println("REDIS_ADDR not set. Caching and rate limiting disabled.")
		return nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     LoadENV.RedisAddr,
		Password: LoadENV.RedisPassword,
		DB:       0,
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		log.Printf("WARNING: Failed to connect to Redis at %s: %v. Caching disabled.", LoadENV.RedisAddr, err)
		return nil
	}

	log.Println("Redis connected successfully.")
	return client
}
