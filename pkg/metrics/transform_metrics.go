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

package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	transformMetricSubsystem = "transform"

	opLabelName = "op"
)

var (
	TransformMetricsRegisterOnce sync.Once

	// TransformRetryTotal 统计分配版封装因初次预估不足而触发的精确重试次数。
	// 某个 op 上的持续增长意味着对应的预估值偏小。
	TransformRetryTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: gardenNamespace,
		Subsystem: transformMetricSubsystem,
		Name:      "retry_total",
		Help:      "尝试原语因缓冲区预估不足而精确重试的次数",
	}, []string{opLabelName})

	// TransformFailureTotal 统计尝试原语报出的真实失败次数。
	TransformFailureTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: gardenNamespace,
		Subsystem: transformMetricSubsystem,
		Name:      "failure_total",
		Help:      "尝试原语真实失败（扩容无法挽救）的次数",
	}, []string{opLabelName})
)

// RegisterTransformMetrics 将缓冲区协议相关的指标注册到 Prometheus Registry 中。
func RegisterTransformMetrics(r prometheus.Registerer) {
	TransformMetricsRegisterOnce.Do(func() {
		r.MustRegister(TransformRetryTotal)
		r.MustRegister(TransformFailureTotal)
	})
}
