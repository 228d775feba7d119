package compressor

import (
	"context"

	"github.com/lk2023060901/codec-garden-go/pkg/transform"
	"github.com/lk2023060901/codec-garden-go/pkg/util/conc"
)

// CompressionAlgorithm 标识一种压缩算法。
//
// 封闭集合，0 值保留给 None（不压缩）。
type CompressionAlgorithm int32

const (
	CompressionNone CompressionAlgorithm = iota
	CompressionZstd
)

var compressionAlgorithmNames = map[CompressionAlgorithm]string{
	CompressionNone: "none",
	CompressionZstd: "zstd",
}

func (a CompressionAlgorithm) String() string {
	if name, ok := compressionAlgorithmNames[a]; ok {
		return name
	}
	return "unknown"
}

// Compressor 抽象了“单次压缩/解压”能力。
//
// 设计目标：
//   - 面向内存块压缩，而不是文件/流式之类的复杂场景。
//   - TryCompress/TryDecompress 是实现方唯一必须手写的原语，
//     其余便捷操作均由 transform 包的重试策略派生。
//   - 不做全局单例，调用方按需创建具体实现的实例；
//     实现必须无状态或自行做好内部同步，以便作为长生命周期单例共享。
type Compressor interface {
	// TryCompress 将 src 压缩写入 dst。
	//
	// dst 完全由调用方持有，实现不得调整其大小，也不得在返回后继续引用；
	// 结果语义见 transform.Outcome。
	TryCompress(dst, src []byte) transform.Outcome

	// TryDecompress 将压缩数据 src 解压写入 dst。
	//
	// 行为约定与 TryCompress 对称：src 必须是 TryCompress 的输出。
	TryDecompress(dst, src []byte) transform.Outcome

	// Algorithm 返回实现对应的算法标识。
	Algorithm() CompressionAlgorithm
}

// Compress 是 TryCompress 的分配版便捷封装。
//
// 预估大小取 len(src)：多数载荷压缩后不会变大；
// 个别不可压缩数据膨胀时由精确重试兜底。
func Compress(c Compressor, src []byte) ([]byte, error) {
	return transform.Alloc("compress", len(src), func(dst []byte) transform.Outcome {
		return c.TryCompress(dst, src)
	})
}

// Decompress 是 TryDecompress 的分配版便捷封装。
//
// 预估大小取 len(src) 的 2 倍，只是经验值；
// 解压倍率更高的数据由精确重试兜底。
func Decompress(c Compressor, src []byte) ([]byte, error) {
	return transform.Alloc("decompress", 2*len(src), func(dst []byte) transform.Outcome {
		return c.TryDecompress(dst, src)
	})
}

// CompressAsync 将 Compress 派发到协程池上执行。
// 若 ctx 在派发前已取消，则直接返回已完成的 Future，不执行任何压缩。
func CompressAsync(ctx context.Context, pool *conc.Pool[[]byte], c Compressor, src []byte) *conc.Future[[]byte] {
	return transform.Async(ctx, pool, func() ([]byte, error) {
		return Compress(c, src)
	})
}

// DecompressAsync 将 Decompress 派发到协程池上执行。
func DecompressAsync(ctx context.Context, pool *conc.Pool[[]byte], c Compressor, src []byte) *conc.Future[[]byte] {
	return transform.Async(ctx, pool, func() ([]byte, error) {
		return Decompress(c, src)
	})
}

// TryCompressAsync 将 TryCompress 原语派发到协程池上执行。
func TryCompressAsync(ctx context.Context, pool *conc.Pool[transform.Outcome], c Compressor, dst, src []byte) *conc.Future[transform.Outcome] {
	return transform.Async(ctx, pool, func() (transform.Outcome, error) {
		return c.TryCompress(dst, src), nil
	})
}

// TryDecompressAsync 将 TryDecompress 原语派发到协程池上执行。
func TryDecompressAsync(ctx context.Context, pool *conc.Pool[transform.Outcome], c Compressor, dst, src []byte) *conc.Future[transform.Outcome] {
	return transform.Async(ctx, pool, func() (transform.Outcome, error) {
		return c.TryDecompress(dst, src), nil
	})
}

// NopCompressor 是一个空实现：不做任何压缩/解压，按原样拷贝输入内容。
//
// 适用于：
//   - 框架默认值（未开启压缩功能时）
//   - 便于在调用侧通过接口注入，在不改业务逻辑的前提下关闭压缩
type NopCompressor struct{}

func (NopCompressor) TryCompress(dst, src []byte) transform.Outcome {
	return copyInto(dst, src)
}

func (NopCompressor) TryDecompress(dst, src []byte) transform.Outcome {
	return copyInto(dst, src)
}

func (NopCompressor) Algorithm() CompressionAlgorithm {
	return CompressionNone
}

// 编译期断言：确保 NopCompressor 实现了 Compressor 接口。
var _ Compressor = NopCompressor{}

// copyInto 按 Try 协议把 src 原样写入 dst。
func copyInto(dst, src []byte) transform.Outcome {
	if len(dst) < len(src) {
		return transform.NeedSize(len(src))
	}
	copy(dst, src)
	return transform.Written(len(src))
}
