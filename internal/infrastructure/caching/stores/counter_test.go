package stores

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCounterIncrements(t *testing.T) {
	cs := NewCounterStore(50)

	assert.Equal(t, int64(0), cs.Value())
	assert.Equal(t, int64(1), cs.Increment())
	assert.Equal(t, int64(2), cs.Increment())
	assert.Equal(t, int64(2), cs.Value())
	assert.Equal(t, int64(50), cs.Capacity())
}

func TestCounterSaturatesAtCapacity(t *testing.T) {
	cs := NewCounterStore(3)

	for i := 0; i < 10; i++ {
		cs.Increment()
	}

	assert.Equal(t, int64(3), cs.Value())
	assert.Equal(t, int64(3), cs.Increment())
}

func TestCounterConcurrentIncrements(t *testing.T) {
	cs := NewCounterStore(100)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 25; j++ {
				cs.Increment()
			}
		}()
	}
	wg.Wait()

	// 500 attempted increments against a capacity of 100.
	assert.Equal(t, int64(100), cs.Value())
}
