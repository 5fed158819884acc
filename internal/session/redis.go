package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/Shiv-727-nov/E-commerce/internal/domain"
)

func NewRedisCredentialStore(client *redis.Client) *RedisCredentialStore {
	return &RedisCredentialStore{client: client}
}

type RedisCredentialStore struct {
	client *redis.Client
}

func (r *RedisCredentialStore) Save(ctx context.Context, session domain.Session) error {
	user, err := json.Marshal(session.User)
	if err != nil {
		return fmt.Errorf("marshal user failed: %w", err)
	}

	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, keyToken, session.Token, 0)
		pipe.Set(ctx, keyUser, string(user), 0)
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis save failed: %w", err)
	}
	return nil
}

func (r *RedisCredentialStore) Load(ctx context.Context) (domain.Session, error) {
	token, err := r.client.Get(ctx, keyToken).Result()
	if errors.Is(err, redis.Nil) {
		return domain.Session{}, ErrNoCredentials
	}
	if err != nil {
		return domain.Session{}, fmt.Errorf("redis get failed: %w", err)
	}

	raw, err := r.client.Get(ctx, keyUser).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.Session{}, ErrNoCredentials
	}
	if err != nil {
		return domain.Session{}, fmt.Errorf("redis get failed: %w", err)
	}

	var user domain.User
	if err := json.Unmarshal(raw, &user); err != nil {
		return domain.Session{}, fmt.Errorf("unmarshal user failed: %w", err)
	}

	return domain.Session{Token: token, User: user}, nil
}

// Clear removes both keys in a single DEL so a crash cannot leave a
// token behind without its identity.
func (r *RedisCredentialStore) Clear(ctx context.Context) error {
	if err := r.client.Del(ctx, keyToken, keyUser).Err(); err != nil {
		return fmt.Errorf("redis delete failed: %w", err)
	}
	return nil
}
