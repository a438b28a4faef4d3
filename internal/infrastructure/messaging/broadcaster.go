// Package messaging provides the live participant counter broadcaster.
package messaging

import (
	"sync"

	"github.com/scalerlabs/funnel-engine-go/internal/infrastructure/observability/logging"
)

// CounterBroadcaster fans counter updates out to connected stream clients.
// The counter is advisory, so a slow client simply misses an update rather
// than blocking the broadcast.
type CounterBroadcaster struct {
	clients map[chan int64]struct{}
	mu      sync.Mutex
	logger  *logging.ChanneledLogger
}

// NewCounterBroadcaster creates a broadcaster with no clients.
func NewCounterBroadcaster(logger *logging.ChanneledLogger) *CounterBroadcaster {
	return &CounterBroadcaster{
		clients: make(map[chan int64]struct{}),
		logger:  logger,
	}
}

// AddClient registers a new stream client and returns its update channel.
func (b *CounterBroadcaster) AddClient() chan int64 {
	ch := make(chan int64, 8)

	b.mu.Lock()
	b.clients[ch] = struct{}{}
	count := len(b.clients)
	b.mu.Unlock()

	b.logger.Counter().Debug("Counter stream client registered", "clients", count)
	return ch
}

// RemoveClient unregisters a stream client and closes its channel.
func (b *CounterBroadcaster) RemoveClient(ch chan int64) {
	b.mu.Lock()
	if _, exists := b.clients[ch]; exists {
		delete(b.clients, ch)
		close(ch)
	}
	count := len(b.clients)
	b.mu.Unlock()

	b.logger.Counter().Debug("Counter stream client unregistered", "clients", count)
}

// Broadcast sends the latest counter value to every connected client.
func (b *CounterBroadcaster) Broadcast(value int64) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for ch := range b.clients {
		select {
		case ch <- value:
		default:
			// Client buffer full; it will catch up on the next update.
		}
	}
}

// ClientCount returns the number of connected stream clients.
func (b *CounterBroadcaster) ClientCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.clients)
}
