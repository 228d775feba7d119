package transform

// Outcome 表示一次“非分配尝试操作”（Try 原语）的结果。
//
// 约定：
//   - OK 为 true 时，Size 为写入目标缓冲区的字节数，且 Size <= len(dst)，
//     结果位于 dst[:Size]。
//   - OK 为 false 且 Size > 0 时，表示目标缓冲区过小，Size 为精确的所需字节数
//     （不是上界），调用方可以按该大小重试一次。
//   - OK 为 false 且 Size <= 0 时，表示发生了与缓冲区大小无关的真实失败
//     （例如密文被篡改、压缩流损坏），不应重试。
//
// 之所以使用具名结构体而不是裸 (bool, int) 元组，是为了让
// “需要扩容重试”与“真实失败”两种语义在调用侧不易混淆。
type Outcome struct {
	// OK 表示本次尝试是否成功。
	OK bool
	// Size 在成功时为写入字节数；失败时为所需字节数（>0）或失败标记（<=0）。
	Size int
}

// Written 构造一个成功结果，n 为写入目标缓冲区的字节数。
func Written(n int) Outcome {
	return Outcome{OK: true, Size: n}
}

// NeedSize 构造一个“缓冲区过小”结果，n 为精确的所需字节数。
func NeedSize(n int) Outcome {
	return Outcome{OK: false, Size: n}
}

// Failed 构造一个不可恢复的失败结果。
func Failed() Outcome {
	return Outcome{OK: false, Size: 0}
}

// Undersized 报告本次失败是否属于“扩容后可重试”的类别。
func (o Outcome) Undersized() bool {
	return !o.OK && o.Size > 0
}
