package transform

import (
	"context"

	"github.com/lk2023060901/codec-garden-go/pkg/util/conc"
)

// Async 将一个同步变换派发到协程池上执行，并返回对应的 Future。
//
// 取消语义：在派发前检查一次 ctx；若此时已取消，则直接返回一个携带
// ctx.Err() 的已完成 Future，fn 不会被调用。派发之后不再响应取消，
// 变换操作被假定为足够短，不值得引入中途协作式取消的复杂度。
func Async[T any](ctx context.Context, pool *conc.Pool[T], fn func() (T, error)) *conc.Future[T] {
	if err := ctx.Err(); err != nil {
		var zero T
		return conc.Ready(zero, err)
	}
	return pool.Submit(fn)
}
