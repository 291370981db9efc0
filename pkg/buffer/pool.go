// Package buffer provides the shared output-buffer policies used by the
// codec adapters: a pool of reusable scratch buffers for one-shot
// compression and the bounded growth strategy for operations whose output
// size is unknown up front.
package buffer

import (
	"bytes"
	"sync"
)

// Pool manages a pool of byte buffers reused across one-shot operations.
type Pool struct {
	size int       // Initial capacity of each buffer.
	pool sync.Pool // Thread-safe pool of buffers.
}

// NewPool creates a new buffer pool whose buffers start at the specified
// capacity.
func NewPool(size int) *Pool {
	return &Pool{
		size: size,
		pool: sync.Pool{
			New: func() any {
				return bytes.NewBuffer(make([]byte, 0, size))
			},
		},
	}
}

// Get retrieves a clean buffer from the pool.
func (p *Pool) Get() *bytes.Buffer {
	buf := p.pool.Get().(*bytes.Buffer)
	buf.Reset() // Ensure the buffer is clean.
	return buf
}

// Put returns a buffer to the pool.
func (p *Pool) Put(buf *bytes.Buffer) {
	// Don't pool buffers that have grown too large.
	if buf.Cap() > p.size*2 {
		return
	}

	buf.Reset()
	p.pool.Put(buf)
}
