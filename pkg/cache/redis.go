package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"clinic-booking/pkg/utils"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// RedisCache shares booked-slot lists between API replicas
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisClient connects and pings the configured Redis server
func NewRedisClient(ctx context.Context, cfg utils.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Network:  "tcp",
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("connect to redis: %w", err)
	}
	return client, nil
}

func NewRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{client: client, ttl: ttl}
}

func (c *RedisCache) GetBookedSlots(ctx context.Context, doctorID uuid.UUID, date string) ([]string, bool, error) {
	data, err := c.client.Get(ctx, slotKey(doctorID, date)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("redis get booked slots: %w", err)
	}

	var slots []string
	if err := json.Unmarshal([]byte(data), &slots); err != nil {
		return nil, false, fmt.Errorf("decode booked slots: %w", err)
	}
	return slots, true, nil
}

func (c *RedisCache) Generation(ctx context.Context, doctorID uuid.UUID, date string) (int64, error) {
	gen, err := c.client.Get(ctx, generationKey(doctorID, date)).Int64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, nil
		}
		return 0, fmt.Errorf("redis get slot generation: %w", err)
	}
	return gen, nil
}

// SetBookedSlots writes under WATCH on the generation key, so an Invalidate
// from any replica between the read and the write discards the write.
func (c *RedisCache) SetBookedSlots(ctx context.Context, doctorID uuid.UUID, date string, generation int64, slots []string) (bool, error) {
	if slots == nil {
		slots = []string{}
	}

	payload, err := json.Marshal(slots)
	if err != nil {
		return false, fmt.Errorf("encode booked slots: %w", err)
	}

	genKey := generationKey(doctorID, date)
	stored := false
	err = c.client.Watch(ctx, func(tx *redis.Tx) error {
		current, err := tx.Get(ctx, genKey).Int64()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		if current != generation {
			return nil
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, slotKey(doctorID, date), payload, c.ttl)
			return nil
		})
		if err == nil {
			stored = true
		}
		return err
	}, genKey)

	if errors.Is(err, redis.TxFailedErr) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("redis set booked slots: %w", err)
	}
	return stored, nil
}

func (c *RedisCache) Invalidate(ctx context.Context, doctorID uuid.UUID, date string) error {
	genKey := generationKey(doctorID, date)
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, genKey)
		pipe.Expire(ctx, genKey, c.generationTTL())
		pipe.Del(ctx, slotKey(doctorID, date))
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis invalidate booked slots: %w", err)
	}
	return nil
}

func (c *RedisCache) generationTTL() time.Duration {
	return max(10*c.ttl, minGenerationTTL)
}
