// Licensed to the LF AI & Data foundation under one
// or more contributor license agreements. See the NOTICE file
// distributed with this work for additional information
// regarding copyright ownership. The ASF licenses this file
// to you under the Apache License, Version 2.0 (the
// "License"); you may not use this file except in compliance
// with the License. You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package conc

import (
	"fmt"
	"time"

	ants "github.com/panjf2000/ants/v2"

	"github.com/lk2023060901/codec-garden-go/pkg/util/hardware"
	"github.com/lk2023060901/codec-garden-go/pkg/util/merr"
)

// Pool 是 ants.Pool 的泛型封装。
//
// 各数据变换的异步便捷操作都派发到 Pool 上执行，
// 实例应作为长生命周期的单例被多个调用方共享。
type Pool[T any] struct {
	inner *ants.Pool
	opt   *poolOption
}

// NewPool 创建一个容量为 cap 的协程池。
func NewPool[T any](cap int, opts ...PoolOption) *Pool[T] {
	opt := defaultPoolOption()
	for _, o := range opts {
		o(opt)
	}

	pool, err := ants.NewPool(cap, opt.antsOptions()...)
	if err != nil {
		// 仅当参数非法时才会出错，直接 panic 暴露编程错误。
		panic(err)
	}

	return &Pool[T]{
		inner: pool,
		opt:   opt,
	}
}

// NewDefaultPool 创建一个容量为主机可用 CPU 数的协程池。
func NewDefaultPool[T any](opts ...PoolOption) *Pool[T] {
	return NewPool[T](hardware.GetCPUNum(), opts...)
}

// Submit 提交一个任务，并返回对应的 Future。
//
// 当协程池处于 NonBlocking 模式且已满时，返回的 Future 直接携带提交失败错误。
func (pool *Pool[T]) Submit(method func() (T, error)) *Future[T] {
	future := newFuture[T]()
	err := pool.inner.Submit(func() {
		defer close(future.ch)
		if pool.opt.preHandler != nil {
			pool.opt.preHandler()
		}

		// 任务内 panic 由 recover 转换为错误返回，
		// 避免单个任务击穿整个池。
		defer func() {
			if v := recover(); v != nil {
				future.err = merr.Combine(future.err, fmt.Errorf("panic in pool task: %v", v))
			}
		}()

		res, err := method()
		if err != nil {
			future.err = err
			return
		}
		future.value = res
	})
	if err != nil {
		future.err = merr.WrapErrPoolSubmitFailed(err)
		close(future.ch)
	}
	return future
}

// Cap 返回协程池容量。
func (pool *Pool[T]) Cap() int {
	return pool.inner.Cap()
}

// Running 返回当前正在运行的 worker 数。
func (pool *Pool[T]) Running() int {
	return pool.inner.Running()
}

// Free 返回当前空闲的 worker 数。
func (pool *Pool[T]) Free() int {
	return pool.inner.Free()
}

// Release 关闭协程池，不再接受新任务。
func (pool *Pool[T]) Release() {
	pool.inner.Release()
}

// ReleaseTimeout 关闭协程池，并等待所有运行中的任务完成或超时。
func (pool *Pool[T]) ReleaseTimeout(timeout time.Duration) error {
	return pool.inner.ReleaseTimeout(timeout)
}
