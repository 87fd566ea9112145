// File: pool/bytepool.go
// Author: momentics <momentics@gmail.com>

package pool

import "sync"

// BytePool hands out fixed-size read buffers and takes them back when a
// connection is done with them.
type BytePool struct {
	pool sync.Pool
	size int
}

// NewBytePool creates a pool of size-byte buffers.
func NewBytePool(size int) *BytePool {
	bp := &BytePool{size: size}
	bp.pool.New = func() any {
		b := make([]byte, size)
		return &b
	}
	return bp
}

// Size reports the length of every buffer the pool returns.
func (b *BytePool) Size() int {
	return b.size
}

// GetBuffer returns a buffer from the pool.
func (b *BytePool) GetBuffer() []byte {
	return *(b.pool.Get().(*[]byte))
}

// PutBuffer returns a buffer to the pool. Buffers of a foreign size are dropped.
func (b *BytePool) PutBuffer(buf []byte) {
	if cap(buf) < b.size {
		return
	}
	buf = buf[:b.size]
	b.pool.Put(&buf)
}
