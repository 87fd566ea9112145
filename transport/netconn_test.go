package transport_test

import (
	"io"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wsxyanua/tcp-timeserver/pool"
	"github.com/wsxyanua/tcp-timeserver/transport"
)

func TestNetConnSingleReadTruncates(t *testing.T) {
	server, client := net.Pipe()
	defer client.Close()
	nc := transport.NewNetConn(server, pool.NewBytePool(16))
	defer nc.Release()

	go func() {
		client.Write([]byte(strings.Repeat("a", 20)))
	}()
	msg, err := nc.ReadMessage()
	require.NoError(t, err)
	assert.Len(t, msg, 16)

	// the remainder arrives on the next read
	msg, err = nc.ReadMessage()
	require.NoError(t, err)
	assert.Equal(t, "aaaa", string(msg))
}

func TestNetConnWriteAndEOF(t *testing.T) {
	server, client := net.Pipe()
	nc := transport.NewNetConn(server, pool.NewBytePool(1024), transport.WithWriteTimeout(time.Second))
	defer nc.Release()

	go func() {
		assert.NoError(t, nc.WriteMessage("Server received: hi"))
	}()
	buf := make([]byte, 64)
	n, err := client.Read(buf)
	require.NoError(t, err)
	assert.Equal(t, "Server received: hi", string(buf[:n]))

	require.NoError(t, client.Close())
	_, err = nc.ReadMessage()
	assert.ErrorIs(t, err, io.EOF)
	assert.NoError(t, nc.Close())
}

func TestNetConnReadTimeout(t *testing.T) {
	server, client := net.Pipe()
	defer client.Close()
	nc := transport.NewNetConn(server, pool.NewBytePool(8), transport.WithReadTimeout(20*time.Millisecond))
	defer nc.Release()

	_, err := nc.ReadMessage()
	var ne net.Error
	require.ErrorAs(t, err, &ne)
	assert.True(t, ne.Timeout())
}
