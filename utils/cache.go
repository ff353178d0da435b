package utils

import (
	"context"
	"log"
	"time"

	"homely/config"

	"github.com/go-redis/redis/v8"
)

var (
	// CacheClient is the generic cache client (enrichment name cache).
	CacheClient *redis.Client
	// TrackingClient is the dedicated client for the live-location feed.
	TrackingClient *redis.Client
)

// InitCache initializes the generic Redis cache client.
func InitCache() {
	CacheClient = redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisCacheDB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if _, err := CacheClient.Ping(ctx).Result(); err != nil {
		log.Fatalf("Failed to connect to Redis (Cache): %v", err)
	}
}

// GetCacheClient returns the generic cache client.
func GetCacheClient() *redis.Client {
	if CacheClient == nil {
		InitCache()
	}
	return CacheClient
}

// InitTrackingClient initializes the Redis client for provider location records.
func InitTrackingClient() {
	TrackingClient = redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisTrackDB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if _, err := TrackingClient.Ping(ctx).Result(); err != nil {
		log.Fatalf("Failed to connect to Redis (Tracking): %v", err)
	}
}

// GetTrackingClient returns the Redis client for the live-location feed.
func GetTrackingClient() *redis.Client {
	if TrackingClient == nil {
		InitTrackingClient()
	}
	return TrackingClient
}
