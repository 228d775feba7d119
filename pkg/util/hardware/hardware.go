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

package hardware

import (
	"runtime"

	// 使 GOMAXPROCS 自动对齐容器的 CPU quota，
	// 避免在 cgroup 限核环境下创建过多的压缩/加密工作协程。
	_ "go.uber.org/automaxprocs"
)

// GetCPUNum 返回当前进程可用的逻辑 CPU 数量。
//
// 在容器环境下该值遵循 CPU quota（见 automaxprocs），
// 供压缩器并发度、协程池容量等取默认值使用。
func GetCPUNum() int {
	return runtime.GOMAXPROCS(0)
}
