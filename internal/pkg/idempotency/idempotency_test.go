package idempotency

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_FirstRequestTakesLockAndStores(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	store := NewStore(rdb)
	ctx := context.Background()
	key := Key("/api/v1/attendance/clock-in", "u1", "k1")

	mock.ExpectGet(key).RedisNil()
	mock.ExpectSetNX(key+":lock", "locked", DefaultLockTTL).SetVal(true)

	cached, err := store.Begin(ctx, key)
	require.NoError(t, err)
	assert.Nil(t, cached)

	resp := Response{Status: 201, ContentType: "application/json", Body: []byte(`{"success":true}`)}
	payload, err := json.Marshal(resp)
	require.NoError(t, err)
	mock.ExpectSet(key, payload, DefaultTTL).SetVal("OK")
	mock.ExpectDel(key + ":lock").SetVal(1)

	require.NoError(t, store.Complete(ctx, key, resp))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_ReplaysCachedResponse(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	store := NewStore(rdb)
	key := Key("/r", "u1", "k1")

	payload, err := json.Marshal(Response{Status: 201, ContentType: "application/json", Body: []byte(`{}`)})
	require.NoError(t, err)
	mock.ExpectGet(key).SetVal(string(payload))

	cached, err := store.Begin(context.Background(), key)
	require.NoError(t, err)
	require.NotNil(t, cached)
	assert.Equal(t, 201, cached.Status)
	assert.Equal(t, []byte(`{}`), cached.Body)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_ConcurrentDuplicateIsInProgress(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	store := NewStore(rdb)
	key := Key("/r", "u1", "k1")

	mock.ExpectGet(key).RedisNil()
	mock.ExpectSetNX(key+":lock", "locked", DefaultLockTTL).SetVal(false)

	_, err := store.Begin(context.Background(), key)
	assert.ErrorIs(t, err, ErrInProgress)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_RedisFailure(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	store := NewStore(rdb)
	key := Key("/r", "u1", "k1")

	mock.ExpectGet(key).SetErr(errors.New("connection refused"))

	_, err := store.Begin(context.Background(), key)
	assert.ErrorContains(t, err, "connection refused")
	assert.NoError(t, mock.ExpectationsWereMet())
}
