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

import "github.com/lk2023060901/codec-garden-go/pkg/util/merr"

// future 是 Future 的无类型视图，便于统一等待一组异构的 Future。
type future interface {
	wait()
	Err() error
	OK() bool
}

// Future 表示一次异步执行的结果占位。
//
// 结果只会被写入一次；ch 关闭后 value/err 不再变化，
// 因此 Await/Value/Err 可以被任意多个协程并发调用。
type Future[T any] struct {
	ch    chan struct{}
	value T
	err   error
}

func newFuture[T any]() *Future[T] {
	return &Future[T]{
		ch: make(chan struct{}),
	}
}

// Ready 创建一个已完成的 Future。
//
// 用于无需真正派发任务的场景，例如调用方传入的 ctx 在派发前已被取消。
func Ready[T any](value T, err error) *Future[T] {
	f := newFuture[T]()
	f.value = value
	f.err = err
	close(f.ch)
	return f
}

func (future *Future[T]) wait() {
	<-future.ch
}

// Await 阻塞等待执行完成，并返回结果与错误。
func (future *Future[T]) Await() (T, error) {
	future.wait()
	return future.value, future.err
}

// Value 阻塞等待执行完成，只返回结果。
func (future *Future[T]) Value() T {
	future.wait()
	return future.value
}

// OK 报告执行是否成功（无错误）。
func (future *Future[T]) OK() bool {
	future.wait()
	return future.err == nil
}

// Err 阻塞等待执行完成，只返回错误。
func (future *Future[T]) Err() error {
	future.wait()
	return future.err
}

// Inner 返回完成通知通道，供 select 场景使用。
func (future *Future[T]) Inner() <-chan struct{} {
	return future.ch
}

// Go 在新协程中执行 fn，并返回对应的 Future。
//
// 与 Pool.Submit 不同，Go 不经过协程池，适合少量、偶发的任务。
func Go[T any](fn func() (T, error)) *Future[T] {
	future := newFuture[T]()
	go func() {
		defer close(future.ch)
		future.value, future.err = fn()
	}()
	return future
}

// AwaitAll 等待所有 Future 完成，并合并返回所有错误。
func AwaitAll[T future](futures ...T) error {
	errs := make([]error, 0, len(futures))
	for i := range futures {
		if err := futures[i].Err(); err != nil {
			errs = append(errs, err)
		}
	}
	return merr.Combine(errs...)
}
