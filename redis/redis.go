package redis

import (
	"context"
	"errors"
	"gateway/config"
	"log"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"
)

const timeout = 5 * time.Second

const ErrNil = redis.Nil

const webhookKeyPrefix = "wh:event:"

type RedisClient struct {
	redis *redis.Client
}

var (
	Client    *RedisClient
	redisOnce sync.Once

	ErrBadClaim = errors.New("bad claim error")
)

func Init(config *config.RedisConfig) {
	redisOnce.Do(func() {
		Client = &RedisClient{
			redis: redis.NewClient(&redis.Options{
				Addr:     config.Host + ":" + strconv.Itoa(config.Port),
				Password: getRedisPassword(),
				DB:       config.DB,
			}),
		}
	})
}

func getRedisPassword() string {
	data, err := os.ReadFile("/secret/redis/password")
	if err != nil {
		log.Fatalf("failed to read password file: %s", err)
	}

	return string(data)
}

// MarkWebhookEvent records a webhook delivery key with a TTL window and
// reports whether this delivery is the first one. Carriers retry webhooks,
// so a false return means the event was already applied and must be
// ignored.
func (client *RedisClient) MarkWebhookEvent(key string, ttl time.Duration) (bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	return client.redis.SetNX(ctx, webhookKeyPrefix+key, true, ttl).Result()
}

func (client *RedisClient) CheckTokenBlacklist(prefix string, claims jwt.MapClaims) (bool, error) {
	jti, ok := claims["jti"].(string)
	if !ok {
		return false, ErrBadClaim
	}

	username, ok := claims["username"].(string)
	if !ok {
		return false, ErrBadClaim
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	return client.redis.Get(ctx, prefix+jti+":"+username).Bool()
}
