package codec

import "sync"

const (
	// Pool limits to prevent memory bloat
	poolMaxCap  = 64 * 1024 // max scratch bytes
	poolInitCap = 64
)

// scratch buffer pool for map key comparison
var keyBufPool = sync.Pool{
	New: func() any {
		buf := make([]byte, 0, poolInitCap)
		return &buf
	},
}

func getKeyBuf(n int) *[]byte {
	buf := keyBufPool.Get().(*[]byte)
	if cap(*buf) < n {
		*buf = make([]byte, n)
	}
	*buf = (*buf)[:n]
	return buf
}

func putKeyBuf(buf *[]byte) {
	if buf == nil || cap(*buf) > poolMaxCap {
		return // reject oversized
	}
	*buf = (*buf)[:0]
	keyBufPool.Put(buf)
}
