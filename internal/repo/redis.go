package repo

import (
	"DocVault/config"
	"context"
	"fmt"
	"log"

	"github.com/redis/go-redis/v9"
)

// Redis is nil when no Redis instance is configured; callers treat that as
// a permanent cache miss.
var Redis *redis.Client

// InitRedis initializes the Redis client.
func InitRedis() {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", config.AppConfig.RedisHost, config.AppConfig.RedisPort),
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisDB,
	})
	if _, err := client.Ping(context.Background()).Result(); err != nil {
		log.Printf("init redis fail, list cache disabled: %v", err)
		return
	}
	log.Println("init redis success")
	Redis = client
}
