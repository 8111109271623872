package httpcore

import (
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestReceiveSingleRead(t *testing.T) {
	client, server := net.Pipe()
	defer client.Close()
	defer server.Close()

	raw := []byte("GET /images/7.bmp HTTP/1.1\r\nConnection: keep-alive\r\n\r\n")
	go func() {
		_, _ = client.Write(raw)
	}()

	req := &Request{}
	result := req.Receive(server, false)

	require.Equal(t, ReceiveSuccess, result)
	assert.Equal(t, "GET", req.Method)
	assert.Equal(t, "/images/7.bmp", req.Path)
	assert.True(t, req.KeepAlive)
}

func TestRequestReceiveSplitAcrossManyOneByteWrites(t *testing.T) {
	client, server := net.Pipe()
	defer client.Close()
	defer server.Close()

	raw := []byte("GET /static/foo.txt HTTP/1.1\r\nConnection: keep-alive\r\n\r\n")
	require.Greater(t, len(raw), 49)

	go func() {
		for _, b := range raw {
			_, _ = client.Write([]byte{b})
		}
	}()

	req := &Request{}
	result := req.Receive(server, false)

	require.Equal(t, ReceiveSuccess, result)
	assert.Equal(t, "GET", req.Method)
	assert.Equal(t, "/static/foo.txt", req.Path)
	assert.True(t, req.KeepAlive)
}

func TestRequestReceiveDisconnectOnClose(t *testing.T) {
	client, server := net.Pipe()
	defer server.Close()

	go func() {
		_, _ = client.Write([]byte("GET / HTTP/1"))
		client.Close()
	}()

	req := &Request{}
	result := req.Receive(server, false)
	assert.Equal(t, ReceiveDisconnected, result)
}

func TestRequestReceiveIdleTimeout(t *testing.T) {
	client, server := net.Pipe()
	defer client.Close()
	defer server.Close()

	orig := KeepAliveIdleTimeout
	t.Cleanup(func() { KeepAliveIdleTimeout = orig })
	KeepAliveIdleTimeout = 30 * time.Millisecond

	req := &Request{}
	result := req.Receive(server, true)
	assert.Equal(t, ReceiveDisconnected, result)
}

func TestRequestReceiveBadRequest(t *testing.T) {
	client, server := net.Pipe()
	defer client.Close()
	defer server.Close()

	go func() {
		_, _ = client.Write([]byte("NOTVALIDLINE\r\n\r\n"))
	}()

	req := &Request{}
	result := req.Receive(server, false)
	assert.Equal(t, ReceiveBadRequest, result)
}

// TestRequestReceiveBadRequestThenSilence exercises a malformed request
// line not followed by anything else: the read loop must stop as soon
// as the line is marked invalid rather than blocking forever waiting
// for a blank line that never arrives.
func TestRequestReceiveBadRequestThenSilence(t *testing.T) {
	client, server := net.Pipe()
	defer client.Close()
	defer server.Close()

	done := make(chan ReceiveResult, 1)
	go func() {
		_, _ = client.Write([]byte("NOTVALIDLINE\r\n"))
	}()
	go func() {
		req := &Request{}
		done <- req.Receive(server, false)
	}()

	select {
	case result := <-done:
		assert.Equal(t, ReceiveBadRequest, result)
	case <-time.After(2 * time.Second):
		t.Fatal("Receive did not return after an invalid request line")
	}
}
