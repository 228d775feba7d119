package compressor

import (
	"github.com/klauspost/compress/zstd"

	"github.com/lk2023060901/codec-garden-go/internal/pool/bytebuffer"
	"github.com/lk2023060901/codec-garden-go/pkg/transform"
	"github.com/lk2023060901/codec-garden-go/pkg/util/hardware"
)

// ZstdCompressor 基于 github.com/klauspost/compress/zstd 的压缩实现。
//
// 它持有独立的 encoder/decoder 实例：
//   - 不使用全局单例，避免不同调用方之间的隐式耦合。
//   - 由框架或调用方自行决定实例的生命周期与复用策略。
//   - encoder/decoder 本身是并发安全的，实例可以被多个协程共享。
//
// zstd 无法在不执行压缩的情况下得知精确输出大小，
// 因此 Try 原语先在池化的 scratch 缓冲区内完成变换，
// 再决定拷贝到调用方缓冲区还是报告精确所需大小。
type ZstdCompressor struct {
	enc *zstd.Encoder
	dec *zstd.Decoder
}

// 编译期断言：确保 ZstdCompressor 实现了 Compressor 接口。
var _ Compressor = (*ZstdCompressor)(nil)

// NewZstdCompressor 创建一个 ZstdCompressor，默认并发度为主机 CPU 核心数。
func NewZstdCompressor() (*ZstdCompressor, error) {
	return NewZstdCompressorWithConcurrency(0)
}

// NewZstdCompressorWithConcurrency 创建一个 ZstdCompressor，并允许显式指定 zstd 的并发数。
//
// 参数说明：
//   - concurrency <= 0：使用主机 CPU 核心数（hardware.GetCPUNum()）。
//   - concurrency > 0 ：使用指定并发度。
func NewZstdCompressorWithConcurrency(concurrency int) (*ZstdCompressor, error) {
	if concurrency <= 0 {
		concurrency = hardware.GetCPUNum()
	}

	opts := []zstd.EOption{
		zstd.WithZeroFrames(true),
		zstd.WithEncoderConcurrency(concurrency),
	}

	enc, err := zstd.NewWriter(nil, opts...)
	if err != nil {
		return nil, err
	}
	dec, err := zstd.NewReader(nil)
	if err != nil {
		enc.Close()
		return nil, err
	}
	return &ZstdCompressor{
		enc: enc,
		dec: dec,
	}, nil
}

// TryCompress 实现 Compressor 接口。
func (c *ZstdCompressor) TryCompress(dst, src []byte) transform.Outcome {
	if c == nil || c.enc == nil {
		return transform.Failed()
	}

	buf := bytebuffer.Get()
	defer bytebuffer.Put(buf)

	buf.B = c.enc.EncodeAll(src, buf.B[:0])
	return copyInto(dst, buf.B)
}

// TryDecompress 实现 Compressor 接口。
func (c *ZstdCompressor) TryDecompress(dst, src []byte) transform.Outcome {
	if c == nil || c.dec == nil {
		return transform.Failed()
	}

	buf := bytebuffer.Get()
	defer bytebuffer.Put(buf)

	out, err := c.dec.DecodeAll(src, buf.B[:0])
	if err != nil {
		// 压缩流损坏属于真实失败，不触发扩容重试。
		return transform.Failed()
	}
	buf.B = out
	return copyInto(dst, buf.B)
}

// Algorithm 实现 Compressor 接口。
func (c *ZstdCompressor) Algorithm() CompressionAlgorithm {
	return CompressionZstd
}

// Close 释放内部 encoder/decoder 持有的资源。
//
// 调用方可在不再需要该压缩器时显式关闭；再次使用已关闭实例会得到失败结果。
func (c *ZstdCompressor) Close() {
	if c == nil {
		return
	}
	if c.enc != nil {
		_ = c.enc.Close()
		c.enc = nil
	}
	if c.dec != nil {
		c.dec.Close()
		c.dec = nil
	}
}
