package session

import (
	"testing"
	"time"

	"github.com/localnerve/dossierdb/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisStorageAgainstServer(t *testing.T) {
	addr := testutil.StartRedis(t)

	s, err := NewRedisStorage(addr, "", 0)
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.Set("sid", []byte("state"), time.Minute))
	got, err := s.Get("sid")
	require.NoError(t, err)
	assert.Equal(t, []byte("state"), got)

	require.NoError(t, s.Reset())
	got, err = s.Get("sid")
	require.NoError(t, err)
	assert.Nil(t, got)
}
