package transform

import (
	"go.uber.org/zap"

	"github.com/lk2023060901/codec-garden-go/pkg/log"
	"github.com/lk2023060901/codec-garden-go/pkg/metrics"
	"github.com/lk2023060901/codec-garden-go/pkg/util/merr"
)

// Alloc 是各数据变换共享的“预估分配 + 精确重试”策略。
//
// 执行流程：
//  1. 按 estimate 预估大小分配目标缓冲区（estimate <= 0 时按 0 处理，
//     相当于只做一次大小探测）；
//  2. 调用 try 执行一次 Try 原语；
//  3. 若失败且报告了所需大小，则按精确大小重新分配并重试一次；
//  4. 重试仍失败、或首次失败未报告大小，返回 merr.ErrTransformFailed。
//
// 成功时只返回写入的前缀 dst[:Size]，绝不返回整个分配容量。
//
// 只要 Try 原语在缓冲区过小时如实报告精确所需大小，
// 无论预估偏差多大，最多两次尝试即可完成，分配上界由此受控。
// 预估倍率本身只是经验值，不构成任何契约。
func Alloc(op string, estimate int, try func(dst []byte) Outcome) ([]byte, error) {
	if estimate < 0 {
		estimate = 0
	}

	dst := make([]byte, estimate)
	outcome := try(dst)
	if outcome.OK {
		return dst[:outcome.Size], nil
	}

	if !outcome.Undersized() {
		metrics.TransformFailureTotal.WithLabelValues(op).Inc()
		return nil, merr.WrapErrTransformFailed(op, 0, "attempt failed")
	}

	log.RatedDebug(10, "transform estimate undersized, retrying with exact size",
		zap.String("op", op),
		zap.Int("estimate", estimate),
		zap.Int("required", outcome.Size))
	metrics.TransformRetryTotal.WithLabelValues(op).Inc()

	dst = make([]byte, outcome.Size)
	outcome = try(dst)
	if !outcome.OK {
		// 第二次尝试的失败不允许吞掉，必须向调用方暴露。
		metrics.TransformFailureTotal.WithLabelValues(op).Inc()
		return nil, merr.WrapErrTransformFailed(op, outcome.Size, "retry with exact size failed")
	}
	return dst[:outcome.Size], nil
}
