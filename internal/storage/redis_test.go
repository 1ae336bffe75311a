package storage

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/meeting-room-scheduler/internal/model"
)

func newRedis(t *testing.T) (*miniredis.Miniredis, *RedisKV) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return mr, NewRedisKV(rdb)
}

func TestRedisKV(t *testing.T) {
	ctx := context.Background()
	_, kv := newRedis(t)

	_, err := kv.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrKeyNotFound)

	require.NoError(t, kv.Set(ctx, "k", []byte("v1")))
	got, err := kv.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "v1", string(got))

	require.NoError(t, kv.Delete(ctx, "k"))
	_, err = kv.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrKeyNotFound)
}

func TestRedisAdapterSnapshot(t *testing.T) {
	ctx := context.Background()
	mr, kv := newRedis(t)
	a := NewKVAdapter(kv, "room")

	require.NoError(t, a.SaveReservations(ctx, sample()))
	require.NoError(t, a.SaveSession(ctx, &model.StaffSession{Email: "boss@valdosta.edu", DisplayName: "Boss"}))

	assert.True(t, mr.Exists("room:room-appts"))
	assert.True(t, mr.Exists("room:staff-user"))
	assert.Zero(t, mr.TTL("room:room-appts"))

	got, err := a.LoadReservations(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, sample(), got)

	require.NoError(t, a.SaveSession(ctx, nil))
	assert.False(t, mr.Exists("room:staff-user"))
}

func TestRedisKVUnavailable(t *testing.T) {
	ctx := context.Background()
	mr, kv := newRedis(t)
	mr.Close()

	_, err := kv.Get(ctx, "k")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrKeyNotFound)
}
