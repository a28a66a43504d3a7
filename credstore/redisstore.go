package credstore

import (
	"context"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

// RedisStore keeps the record under one redis key, for consumers that share
// a session across instances. The single-slot model is unchanged: SET
// overwrites, DEL clears, and corrupt values load as absent.
type RedisStore struct {
	client *redis.Client
	key    string
}

func NewRedisStore(client *redis.Client, key string) *RedisStore {
	if key == "" {
		key = "sessionauth:record"
	}
	return &RedisStore{
		client: client,
		key:    key,
	}
}

func (s *RedisStore) Save(ctx context.Context, record *Record) error {
	if record == nil || !record.Valid() {
		return errors.New("refusing to save structurally invalid record")
	}
	if err := s.client.Set(ctx, s.key, encodeRecord(record), 0).Err(); err != nil {
		return errors.Wrap(err, "save credential record")
	}
	return nil
}

func (s *RedisStore) Load(ctx context.Context) (*Record, error) {
	data, err := s.client.Get(ctx, s.key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "load credential record")
	}
	return decodeRecord(data), nil
}

func (s *RedisStore) Clear(ctx context.Context) error {
	if err := s.client.Del(ctx, s.key).Err(); err != nil {
		return errors.Wrap(err, "clear credential record")
	}
	return nil
}
