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
	// #nosec
	_ "net/http/pprof"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	// gardenNamespace 是当前项目所有 Prometheus 指标使用的命名空间。
	gardenNamespace = "garden"

	codecSubsystem = "codec"

	// 以下为当前使用的通用标签名。
	statusLabelName = "status"
	stageLabelName  = "stage"
	formatLabelName = "format"

	// status 标签的取值。
	StatusOK   = "ok"
	StatusFail = "fail"
)

var (
	// sizeBuckets 为载荷大小直方图的桶划分，单位为字节。
	// 实际桶分布为：
	// [64 256 1024 4096 16384 65536 2.62144e+05 1.048576e+06 4.194304e+06 1.6777216e+07 6.7108864e+07 2.68435456e+08]
	sizeBuckets = prometheus.ExponentialBuckets(64, 4, 12)

	CodecEncodeTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: gardenNamespace,
			Subsystem: codecSubsystem,
			Name:      "encode_total",
			Help:      "number of encode calls, partitioned by serialization format and status",
		}, []string{formatLabelName, statusLabelName})

	CodecDecodeTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: gardenNamespace,
			Subsystem: codecSubsystem,
			Name:      "decode_total",
			Help:      "number of decode calls, partitioned by serialization format and status",
		}, []string{formatLabelName, statusLabelName})

	CodecStageFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: gardenNamespace,
			Subsystem: codecSubsystem,
			Name:      "stage_failures",
			Help:      "number of pipeline stage failures, partitioned by stage",
		}, []string{stageLabelName})

	CodecPlainBytes = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: gardenNamespace,
			Subsystem: codecSubsystem,
			Name:      "plain_bytes",
			Help:      "size of payloads before encoding",
			Buckets:   sizeBuckets,
		})

	CodecEncodedBytes = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: gardenNamespace,
			Subsystem: codecSubsystem,
			Name:      "encoded_bytes",
			Help:      "size of envelopes after encoding",
			Buckets:   sizeBuckets,
		})

	metricRegisterer prometheus.Registerer
)

// GetRegisterer 返回全局 Prometheus Registerer。
// 如果尚未通过 Register 显式设置，则返回 prometheus.DefaultRegisterer。
func GetRegisterer() prometheus.Registerer {
	if metricRegisterer == nil {
		return prometheus.DefaultRegisterer
	}
	return metricRegisterer
}

// Register 注册当前定义的所有指标。
// 通常应在 init 函数中调用。
func Register(r prometheus.Registerer) {
	r.MustRegister(CodecEncodeTotal)
	r.MustRegister(CodecDecodeTotal)
	r.MustRegister(CodecStageFailures)
	r.MustRegister(CodecPlainBytes)
	r.MustRegister(CodecEncodedBytes)
	RegisterTransformMetrics(r)
	metricRegisterer = r
}
