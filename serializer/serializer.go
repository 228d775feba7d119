package serializer

import (
	"context"

	"github.com/lk2023060901/codec-garden-go/pkg/transform"
	"github.com/lk2023060901/codec-garden-go/pkg/util/conc"
)

// defaultEstimate 是 Marshal 对未知类型的初次缓冲区预估。
// 偏小的估计只多付一次精确重试，偏大的估计浪费内存，取一个常见小对象的量级。
const defaultEstimate = 512

// Serializer 抽象了“对象 <-> 字节”的能力，格式（JSON、Protobuf 等）由实现决定。
//
// 序列化走 transform.Outcome 协议以支持调用方托管缓冲区；
// 反序列化的输出是对象而不是字节，不适用该协议，直接返回 error。
// 实现必须可在多 goroutine 间共享。
type Serializer interface {
	// TrySerialize 将 v 编码后写入 dst，结果语义见 transform.Outcome。
	TrySerialize(dst []byte, v any) transform.Outcome

	// Unmarshal 将 data 解码到 v（必须是指针）。
	Unmarshal(data []byte, v any) error

	// Format 返回格式名，如 "json"、"protobuf"。
	Format() string
}

// directMarshaler 是实现可选提供的快路径：一步完成编码 + 分配，
// 跳过“预估缓冲区再重试”的通用流程。
type directMarshaler interface {
	Marshal(v any) ([]byte, error)
}

// Marshal 是 TrySerialize 的分配版便捷封装。
// 实现提供 Marshal 快路径时直接走快路径，否则按通用预估 + 精确重试分配。
func Marshal(s Serializer, v any) ([]byte, error) {
	if d, ok := s.(directMarshaler); ok {
		return d.Marshal(v)
	}
	return transform.Alloc("serialize", defaultEstimate, func(dst []byte) transform.Outcome {
		return s.TrySerialize(dst, v)
	})
}

// MarshalAsync 将 Marshal 派发到协程池上执行。
// 若 ctx 在派发前已取消，则直接返回已完成的 Future，不做任何编码。
func MarshalAsync(ctx context.Context, pool *conc.Pool[[]byte], s Serializer, v any) *conc.Future[[]byte] {
	return transform.Async(ctx, pool, func() ([]byte, error) {
		return Marshal(s, v)
	})
}

// UnmarshalAsync 将 Unmarshal 派发到协程池上执行。
//
// v 在 Future 完成前归后台任务所有，调用方必须先 Await 再读取 v。
func UnmarshalAsync(ctx context.Context, pool *conc.Pool[struct{}], s Serializer, data []byte, v any) *conc.Future[struct{}] {
	return transform.Async(ctx, pool, func() (struct{}, error) {
		return struct{}{}, s.Unmarshal(data, v)
	})
}

// TrySerializeAsync 将 TrySerialize 原语派发到协程池上执行。
func TrySerializeAsync(ctx context.Context, pool *conc.Pool[transform.Outcome], s Serializer, dst []byte, v any) *conc.Future[transform.Outcome] {
	return transform.Async(ctx, pool, func() (transform.Outcome, error) {
		return s.TrySerialize(dst, v), nil
	})
}
