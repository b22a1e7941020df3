package localstore

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps device documents in redis with a sliding TTL.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore creates the store; ttl <= 0 keeps documents forever.
func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

func (s *RedisStore) Get(ctx context.Context, deviceID, name string, dest interface{}) (bool, error) {
	if err := ValidateDeviceID(deviceID); err != nil {
		return false, err
	}
	raw, err := s.client.Get(ctx, Key(deviceID, name)).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return false, err
	}
	return true, nil
}

func (s *RedisStore) Set(ctx context.Context, deviceID, name string, value interface{}) error {
	if err := ValidateDeviceID(deviceID); err != nil {
		return err
	}
	payload, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, Key(deviceID, name), payload, s.ttl).Err()
}

func (s *RedisStore) Delete(ctx context.Context, deviceID, name string) error {
	if err := ValidateDeviceID(deviceID); err != nil {
		return err
	}
	return s.client.Del(ctx, Key(deviceID, name)).Err()
}
