package config

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"time"

	"github.com/bsm/redislock"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
)

var ctx = context.Background()

func init() {
	// Load env from .env
	godotenv.Load()
	// Do NOT block startup in init() waiting for Redis; connect from main().
}

// RedisHandles bundles the client and the distributed-lock client built on it.
// Both stay nil when redis is unavailable; helpers below treat nil as a cache
// miss so the core keeps working without redis.
type RedisHandles struct {
	Client *redis.Client
	Locker *redislock.Client
}

// ConnectRedisWithRetry connects and returns the redis client + lock client.
func ConnectRedisWithRetry() *RedisHandles {
	redisAddr := os.Getenv("REDIS_ADDRESS")
	if redisAddr == "" {
		redisAddr = "localhost:6379"
		log.Printf("REDIS_ADDRESS not set; defaulting to %s", redisAddr)
	}

	var attempt int
	for {
		attempt++
		rdb := redis.NewClient(&redis.Options{
			Addr:     redisAddr,
			Password: "",
			DB:       0, // use default DB
			PoolSize: 100,
		})
		if err := rdb.Ping(ctx).Err(); err == nil {
			log.Printf("connected to redis (attempt=%d addr=%s)", attempt, redisAddr)
			return &RedisHandles{Client: rdb, Locker: redislock.New(rdb)}
		} else {
			sleep := time.Second * time.Duration(1<<min(attempt, 5))
			if sleep > 30*time.Second {
				sleep = 30 * time.Second
			}
			log.Printf("failed to connect redis (attempt=%d addr=%s): %v; retrying in %s", attempt, redisAddr, err, sleep)
			time.Sleep(sleep)
		}
	}
}

func (r *RedisHandles) GetRedisObject(key string, dest interface{}) (bool, error) {
	if r == nil || r.Client == nil {
		return false, nil
	}
	val, err := r.Client.Get(ctx, key).Result()
	if err != nil {
		if err == redis.Nil {
			return false, nil
		}
		return false, err
	}
	err = json.Unmarshal([]byte(val), &dest)
	if err != nil {
		return false, err
	}
	return true, nil
}

func (r *RedisHandles) SetRedisObject(key string, obj interface{}, exp time.Duration) error {
	if r == nil || r.Client == nil {
		return nil
	}
	objInByte, err := json.Marshal(obj)
	if err != nil {
		return err
	}
	if err = r.Client.Set(ctx, key, objInByte, exp).Err(); err != nil {
		return err
	}
	return nil
}

func (r *RedisHandles) RemoveRedisKey(keys ...string) error {
	if r == nil || r.Client == nil {
		return nil
	}
	_, err := r.Client.Del(ctx, keys...).Result()
	return err
}
