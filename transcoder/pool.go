package transcoder

import "sync"

const (
	// Pool limits to prevent memory bloat
	poolMaxScratch = 64 << 10
)

// scratch byte buffer pool for chunked encoding
var scratchPool = sync.Pool{
	New: func() any {
		buf := make([]byte, 0, defaultChunkSize)
		return &buf
	},
}

// getScratch returns a pooled buffer of exactly n bytes.
func getScratch(n int) *[]byte {
	buf := scratchPool.Get().(*[]byte)
	if cap(*buf) < n {
		*buf = make([]byte, n)
	}
	*buf = (*buf)[:n]
	return buf
}

func putScratch(buf *[]byte) {
	if buf == nil || cap(*buf) > poolMaxScratch {
		return // reject oversized
	}
	*buf = (*buf)[:0]
	scratchPool.Put(buf)
}
