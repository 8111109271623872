package httpcore

import (
	"net"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPoolDispatchServesAllConnections(t *testing.T) {
	r := newTestResolver(t)
	pool := NewPool(2, r)
	defer pool.Stop()

	var served int64
	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		client, server := net.Pipe()
		wg.Add(1)
		go func(c net.Conn) {
			defer wg.Done()
			req := "GET /images/1.bmp HTTP/1.1\r\n\r\n"
			_, _ = c.Write([]byte(req))
			buf := make([]byte, 4096)
			_, _ = c.Read(buf)
			atomic.AddInt64(&served, 1)
			c.Close()
		}(client)
		pool.Dispatch(server)
	}
	wg.Wait()
	require.Equal(t, int64(5), served)
}

func TestPoolStopDrainsSlots(t *testing.T) {
	r := newTestResolver(t)
	pool := NewPool(1, r)

	done := make(chan struct{})
	go func() {
		pool.Stop()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("pool.Stop did not return")
	}
	assert.True(t, true)
}
