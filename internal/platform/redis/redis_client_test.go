package redis

import (
	"context"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestConfig_Addr はアドレス組み立てとデフォルトポートを検証します。
func TestConfig_Addr(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "", Config{}.Addr())
	assert.Equal(t, "cache:6379", Config{Host: "cache"}.Addr())
	assert.Equal(t, "cache:6380", Config{Host: "cache", Port: "6380"}.Addr())
}

// TestNewRedisClient_Disabled はホスト未設定時にnilクライアントを返すことを検証します。
func TestNewRedisClient_Disabled(t *testing.T) {
	t.Parallel()

	rdb, err := NewRedisClient(context.Background(), Config{})
	require.NoError(t, err)
	assert.Nil(t, rdb)
}

// TestNewRedisClient_Unreachable は接続確認に失敗した場合にエラーを返すことを検証します。
func TestNewRedisClient_Unreachable(t *testing.T) {
	t.Parallel()

	// Reserve a port and close it so nothing is listening there.
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	_, port, _ := net.SplitHostPort(ln.Addr().String())
	require.NoError(t, ln.Close())

	rdb, err := NewRedisClient(context.Background(), Config{Host: "127.0.0.1", Port: port})
	assert.Error(t, err)
	assert.Nil(t, rdb)
}
