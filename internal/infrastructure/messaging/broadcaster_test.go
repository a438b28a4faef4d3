package messaging

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scalerlabs/funnel-engine-go/internal/infrastructure/observability/logging"
)

func testBroadcaster(t *testing.T) *CounterBroadcaster {
	t.Helper()

	logger, err := logging.NewChanneledLogger(&logging.LoggerConfig{
		OutputToConsole: true,
		JSONFormat:      true,
		DefaultLevel:    slog.LevelError,
		ChannelLevels:   make(map[logging.Channel]slog.Level),
	})
	require.NoError(t, err)
	return NewCounterBroadcaster(logger)
}

func TestBroadcastReachesEveryClient(t *testing.T) {
	b := testBroadcaster(t)

	first := b.AddClient()
	second := b.AddClient()
	assert.Equal(t, 2, b.ClientCount())

	b.Broadcast(7)

	assert.Equal(t, int64(7), <-first)
	assert.Equal(t, int64(7), <-second)
}

func TestRemoveClientClosesChannel(t *testing.T) {
	b := testBroadcaster(t)

	ch := b.AddClient()
	b.RemoveClient(ch)
	assert.Equal(t, 0, b.ClientCount())

	_, open := <-ch
	assert.False(t, open)

	// Removing twice is harmless.
	b.RemoveClient(ch)
}

func TestBroadcastSkipsSlowClients(t *testing.T) {
	b := testBroadcaster(t)

	slow := b.AddClient()
	for i := int64(1); i <= 20; i++ {
		b.Broadcast(i)
	}

	// The buffer holds the first eight updates; later ones were dropped
	// without blocking the broadcaster.
	assert.Len(t, slow, 8)
	assert.Equal(t, int64(1), <-slow)

	b.RemoveClient(slow)
}

func TestBroadcastWithNoClients(t *testing.T) {
	b := testBroadcaster(t)
	b.Broadcast(42)
	assert.Equal(t, 0, b.ClientCount())
}
