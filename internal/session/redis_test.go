package session

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Shiv-727-nov/E-commerce/internal/domain"
)

// setupTestRedis creates a miniredis server and returns a credential
// store backed by it.
func setupTestRedis(t *testing.T) (*RedisCredentialStore, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)

	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})
	t.Cleanup(func() { client.Close() })

	return NewRedisCredentialStore(client), mr
}

func TestRedisSave_WritesBothKeys(t *testing.T) {
	store, mr := setupTestRedis(t)
	ctx := context.Background()

	sess := domain.Session{
		Token: "jwt-xyz",
		User:  domain.User{ID: 3, Name: "Sam", Email: "sam@example.com", Role: domain.RoleCustomer},
	}
	require.NoError(t, store.Save(ctx, sess))

	token, err := mr.Get("token")
	require.NoError(t, err)
	assert.Equal(t, "jwt-xyz", token)

	user, err := mr.Get("user")
	require.NoError(t, err)
	assert.Contains(t, user, "sam@example.com")
}

func TestRedisLoad_RoundTrip(t *testing.T) {
	store, _ := setupTestRedis(t)
	ctx := context.Background()

	sess := domain.Session{
		Token: "jwt-xyz",
		User:  domain.User{ID: 3, Name: "Sam", Email: "sam@example.com", Role: domain.RoleAdmin},
	}
	require.NoError(t, store.Save(ctx, sess))

	loaded, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, sess, loaded)
}

func TestRedisLoad_MissingCredentials(t *testing.T) {
	store, _ := setupTestRedis(t)

	_, err := store.Load(context.Background())
	assert.ErrorIs(t, err, ErrNoCredentials)
}

func TestRedisClear_RemovesBothKeys(t *testing.T) {
	store, mr := setupTestRedis(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, domain.Session{Token: "jwt", User: domain.User{ID: 1}}))
	require.NoError(t, store.Clear(ctx))

	assert.False(t, mr.Exists("token"))
	assert.False(t, mr.Exists("user"))
}
