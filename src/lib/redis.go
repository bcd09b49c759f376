package lib

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
)

var redisClient *redis.Client

func GetRedisClient() *redis.Client {
	if redisClient != nil {
		return redisClient
	}
	redisHost := os.Getenv("REDIS_HOST")
	opt, err := redis.ParseURL(redisHost)
	if err != nil {
		log.Printf("[redis] Error parsing connection string: %s\n", err.Error())
		return nil
	}
	rdb := redis.NewClient(opt)
	redisClient = rdb
	return rdb
}

// NewRedisClient Replace redis instance with custom client implementation
func NewRedisClient(c *redis.Client) *redis.Client {
	redisClient = c
	return redisClient
}

func revokedKey(jti string) string {
	return fmt.Sprintf("revoked:%s", jti)
}

// RevokeToken marks a token id as revoked until its natural expiry.
func RevokeToken(ctx context.Context, jti string, ttl time.Duration) error {
	rdb := GetRedisClient()
	if rdb == nil {
		return fmt.Errorf("redis client unavailable")
	}
	if ttl <= 0 {
		ttl = time.Minute
	}
	return rdb.Set(ctx, revokedKey(jti), "1", ttl).Err()
}

// TokenRevoked reports whether a token id has been revoked. Errors read as
// not revoked so an unavailable redis does not lock everyone out.
func TokenRevoked(ctx context.Context, jti string) bool {
	rdb := GetRedisClient()
	if rdb == nil {
		return false
	}
	_, err := rdb.Get(ctx, revokedKey(jti)).Result()
	return err == nil
}
