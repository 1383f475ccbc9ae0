package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/aretw0/vessel/internal/adapters/redis"
	"github.com/aretw0/vessel/pkg/domain"
	"github.com/aretw0/vessel/pkg/ports"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStore(t *testing.T, opts ...redis.Option) (*redis.Store, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err, "Failed to start miniredis")
	t.Cleanup(mr.Close)

	client := backend.NewClient(&backend.Options{
		Addr: mr.Addr(),
	})
	store := redis.NewFromClient(client, opts...)
	t.Cleanup(func() { _ = store.Close() })
	return store, mr
}

func TestRedisStore_Contract(t *testing.T) {
	store, _ := newStore(t)
	ports.RunArtifactStoreContract(t, store)
}

func TestRedisStore_Prefix(t *testing.T) {
	store, mr := newStore(t, redis.WithPrefix("test:"))

	require.NoError(t, store.Save(context.Background(), &domain.Artifact{Key: "abc", Data: []byte("x")}))
	assert.True(t, mr.Exists("test:abc"))
	assert.True(t, mr.Exists("test:index"))
}

func TestRedisStore_TTL(t *testing.T) {
	ctx := context.Background()
	store, mr := newStore(t, redis.WithTTL(time.Minute))

	require.NoError(t, store.Save(ctx, &domain.Artifact{Key: "abc", Data: []byte("x")}))
	assert.Equal(t, time.Minute, mr.TTL("vessel:artifact:abc"))

	mr.FastForward(2 * time.Minute)
	_, err := store.Load(ctx, "abc")
	assert.ErrorIs(t, err, domain.ErrArtifactNotFound)
}
