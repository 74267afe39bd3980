package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"METI/internal/domain/models"
)

type clock struct{ t time.Time }

func (c *clock) now() time.Time { return c.t }

func TestTTLCache_ExpiresAtDeadline(t *testing.T) {
	clk := &clock{t: time.Unix(1000, 0)}
	c := NewTTLCache().WithClock(clk.now)

	c.Set("a", 1, 3*time.Minute)
	c.Set("forever", 2, 0)

	clk.t = clk.t.Add(3*time.Minute - time.Nanosecond)
	v, ok := c.Get("a")
	require.True(t, ok)
	assert.Equal(t, 1, v)

	clk.t = clk.t.Add(time.Nanosecond)
	_, ok = c.Get("a")
	assert.False(t, ok)
	assert.Equal(t, 1, c.Len(), "expired entry dropped on read")

	_, ok = c.Get("forever")
	assert.True(t, ok)
}

func TestTTLCache_DeletePrefix(t *testing.T) {
	ctx := context.Background()
	c := NewTTLCache()
	require.NoError(t, c.SetBytes(ctx, "obs:CL=F", []byte("x"), time.Minute))
	require.NoError(t, c.SetBytes(ctx, "obs:GC=F", []byte("y"), time.Minute))
	require.NoError(t, c.SetBytes(ctx, "other", []byte("z"), time.Minute))

	require.NoError(t, c.DeletePrefix(ctx, "obs:"))
	assert.Equal(t, 1, c.Len())

	b, ok, err := c.GetBytes(ctx, "other")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []byte("z"), b)
}

func TestObservationCache_RoundTripAndClear(t *testing.T) {
	ctx := context.Background()
	oc := NewObservationCache(NewTTLCache())

	obs := models.NewAssetObservation("BTC-USD")
	obs.Changes[models.TF1d] = -2.5
	obs.Price = 64000
	require.NoError(t, oc.Set(ctx, obs, time.Minute))

	got, ok, err := oc.Get(ctx, "BTC-USD")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, -2.5, got.Changes[models.TF1d])
	assert.Equal(t, 64000.0, got.Price)

	require.NoError(t, oc.Clear(ctx))
	_, ok, err = oc.Get(ctx, "BTC-USD")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestObservationCache_CorruptEntry(t *testing.T) {
	ctx := context.Background()
	store := NewTTLCache()
	require.NoError(t, store.SetBytes(ctx, "obs:LMT", []byte("{"), time.Minute))

	_, ok, err := NewObservationCache(store).Get(ctx, "LMT")
	require.Error(t, err)
	assert.False(t, ok)
}

func TestRedisCache_GetSet(t *testing.T) {
	ctx := context.Background()
	db, mock := redismock.NewClientMock()
	c := NewRedisCacheWithClient(db, "meti:")

	mock.ExpectSet("meti:k", []byte("v"), time.Minute).SetVal("OK")
	require.NoError(t, c.SetBytes(ctx, "k", []byte("v"), time.Minute))

	mock.ExpectGet("meti:k").SetVal("v")
	b, ok, err := c.GetBytes(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []byte("v"), b)

	mock.ExpectGet("meti:missing").RedisNil()
	_, ok, err = c.GetBytes(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)

	mock.ExpectGet("meti:broken").SetErr(errors.New("conn reset"))
	_, _, err = c.GetBytes(ctx, "broken")
	require.Error(t, err)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisCache_DeletePrefixScansAllPages(t *testing.T) {
	ctx := context.Background()
	db, mock := redismock.NewClientMock()
	c := NewRedisCacheWithClient(db, "meti:")

	mock.ExpectScan(0, "meti:obs:*", scanBatch).SetVal([]string{"meti:obs:CL=F", "meti:obs:GC=F"}, 7)
	mock.ExpectUnlink("meti:obs:CL=F", "meti:obs:GC=F").SetVal(2)
	mock.ExpectScan(7, "meti:obs:*", scanBatch).SetVal([]string{}, 0)

	require.NoError(t, c.DeletePrefix(ctx, "obs:"))
	require.NoError(t, mock.ExpectationsWereMet())
}
