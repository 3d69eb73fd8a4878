package session

import (
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStorage(t *testing.T) (*RedisStorage, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	s, err := NewRedisStorage(mr.Addr(), "", 0)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s, mr
}

func TestRedisStorageSetGetDelete(t *testing.T) {
	s, mr := newStorage(t)

	got, err := s.Get("missing")
	require.NoError(t, err)
	assert.Nil(t, got)

	require.NoError(t, s.Set("abc", []byte("payload"), time.Minute))
	assert.True(t, mr.Exists(DefaultPrefix+"abc"))

	got, err = s.Get("abc")
	require.NoError(t, err)
	assert.Equal(t, []byte("payload"), got)

	require.NoError(t, s.Delete("abc"))
	got, err = s.Get("abc")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestRedisStorageExpiry(t *testing.T) {
	s, mr := newStorage(t)

	require.NoError(t, s.Set("short", []byte("x"), time.Second))
	mr.FastForward(2 * time.Second)

	got, err := s.Get("short")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestRedisStorageResetKeepsForeignKeys(t *testing.T) {
	s, mr := newStorage(t)
	require.NoError(t, mr.Set("other:key", "keep"))
	require.NoError(t, s.Set("one", []byte("1"), 0))
	require.NoError(t, s.Set("two", []byte("2"), 0))

	require.NoError(t, s.Reset())

	assert.False(t, mr.Exists(DefaultPrefix+"one"))
	assert.False(t, mr.Exists(DefaultPrefix+"two"))
	assert.True(t, mr.Exists("other:key"))
}

func TestNewRedisStorageUnreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	_, err := NewRedisStorage(addr, "", 0)
	assert.Error(t, err)
}
