package httpcore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLineParserWholeRequest(t *testing.T) {
	req := &Request{}
	p := newLineParser(req)
	defer p.release()

	data := []byte("GET /images/42.bmp?x=1 HTTP/1.1\r\nConnection: keep-alive\r\nHost: x\r\n\r\n")
	n := p.consume(data)

	require.Equal(t, len(data), n)
	assert.True(t, p.complete)
	assert.False(t, p.invalid)
	assert.Equal(t, "GET", req.Method)
	assert.Equal(t, "/images/42.bmp", req.Path)
	assert.True(t, req.KeepAlive)
}

func TestLineParserByteAtATime(t *testing.T) {
	req := &Request{}
	p := newLineParser(req)
	defer p.release()

	data := []byte("GET /static/a.txt HTTP/1.1\r\nConnection: keep-alive\r\n\r\n")
	total := 0
	for _, b := range data {
		n := p.consume([]byte{b})
		total += n
		if p.complete {
			break
		}
	}

	assert.Equal(t, total, len(data)) // consumed every byte somewhere across the 1-byte feeds
	assert.True(t, p.complete)
	assert.False(t, p.invalid)
	assert.Equal(t, "GET", req.Method)
	assert.Equal(t, "/static/a.txt", req.Path)
	assert.True(t, req.KeepAlive)
}

func TestLineParserInvalidRequestLine(t *testing.T) {
	req := &Request{}
	p := newLineParser(req)
	defer p.release()

	p.consume([]byte("GARBAGE\r\n\r\n"))
	assert.True(t, p.invalid)
}

func TestLineParserQueryString(t *testing.T) {
	req := &Request{}
	p := newLineParser(req)
	defer p.release()

	p.consume([]byte("GET /?page=3 HTTP/1.1\r\n\r\n"))
	assert.Equal(t, "/", req.Path)
	assert.Equal(t, "page=3", req.Query)
	assert.False(t, req.KeepAlive)
}
