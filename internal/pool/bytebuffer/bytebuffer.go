package bytebuffer

import "sync"

// ByteBuffer 是一个可复用的字节缓冲区。
//
// 主要用于各 Try 原语内部的临时输出：先在 scratch 空间完成变换，
// 再根据结果大小决定拷贝到调用方缓冲区还是报告所需大小，
// 避免每次调用都 make 新切片带来的分配与 GC 压力。
type ByteBuffer struct {
	B []byte
}

// Reset 清空缓冲区内容但保留底层容量。
func (b *ByteBuffer) Reset() {
	b.B = b.B[:0]
}

// Grow 保证缓冲区至少有 n 字节的容量，必要时重新分配。
func (b *ByteBuffer) Grow(n int) {
	if cap(b.B) >= n {
		return
	}
	buf := make([]byte, len(b.B), n)
	copy(buf, b.B)
	b.B = buf
}

const defaultCapacity = 4 * 1024

var pool = sync.Pool{
	New: func() any {
		return &ByteBuffer{B: make([]byte, 0, defaultCapacity)}
	},
}

// Get 从池中取出一个空的 ByteBuffer。
func Get() *ByteBuffer {
	b := pool.Get().(*ByteBuffer)
	b.Reset()
	return b
}

// Put 将 ByteBuffer 归还到池中。
//
// 注意：归还后调用方不得继续引用 b.B 的内容。
func Put(b *ByteBuffer) {
	if b == nil {
		return
	}
	pool.Put(b)
}
