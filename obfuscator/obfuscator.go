package obfuscator

import (
	"context"
	"hash/fnv"

	"github.com/lk2023060901/codec-garden-go/pkg/transform"
	"github.com/lk2023060901/codec-garden-go/pkg/util/conc"
	"github.com/lk2023060901/codec-garden-go/pkg/util/merr"
)

// ObfuscationCipher 标识一种混淆方式。
type ObfuscationCipher int32

const (
	ObfuscationNone ObfuscationCipher = iota
	ObfuscationRollingXOR
	ObfuscationXOR
)

var obfuscationCipherNames = map[ObfuscationCipher]string{
	ObfuscationNone:       "none",
	ObfuscationRollingXOR: "rolling-xor",
	ObfuscationXOR:        "xor",
}

func (c ObfuscationCipher) String() string {
	if name, ok := obfuscationCipherNames[c]; ok {
		return name
	}
	return "unknown"
}

// Obfuscator 抽象了轻量混淆的能力：让数据不再“肉眼可读”，但不提供密码学安全性。
//
// 混淆是严格保长的：输出长度恒等于输入长度，deobfuscate(obfuscate(x)) == x。
// 需要真正保密性的场景应使用 crypto 包。
// 实现必须可在多 goroutine 间共享。
type Obfuscator interface {
	// TryObfuscate 将 src 混淆后写入 dst，结果语义见 transform.Outcome。
	TryObfuscate(dst, src []byte) transform.Outcome

	// TryDeobfuscate 将 src 还原后写入 dst。
	TryDeobfuscate(dst, src []byte) transform.Outcome

	// Cipher 返回实现对应的混淆方式标识。
	Cipher() ObfuscationCipher
}

// Obfuscate 是 TryObfuscate 的分配版便捷封装。混淆保长，预估即精确值。
func Obfuscate(o Obfuscator, src []byte) ([]byte, error) {
	return transform.Alloc("obfuscate", len(src), func(dst []byte) transform.Outcome {
		return o.TryObfuscate(dst, src)
	})
}

// Deobfuscate 是 TryDeobfuscate 的分配版便捷封装。
func Deobfuscate(o Obfuscator, src []byte) ([]byte, error) {
	return transform.Alloc("deobfuscate", len(src), func(dst []byte) transform.Outcome {
		return o.TryDeobfuscate(dst, src)
	})
}

// ObfuscateAsync 将 Obfuscate 派发到协程池上执行。
// 若 ctx 在派发前已取消，则直接返回已完成的 Future，不做任何处理。
func ObfuscateAsync(ctx context.Context, pool *conc.Pool[[]byte], o Obfuscator, src []byte) *conc.Future[[]byte] {
	return transform.Async(ctx, pool, func() ([]byte, error) {
		return Obfuscate(o, src)
	})
}

// DeobfuscateAsync 将 Deobfuscate 派发到协程池上执行。
func DeobfuscateAsync(ctx context.Context, pool *conc.Pool[[]byte], o Obfuscator, src []byte) *conc.Future[[]byte] {
	return transform.Async(ctx, pool, func() ([]byte, error) {
		return Deobfuscate(o, src)
	})
}

// XORObfuscator 用循环重复的 key 与数据逐字节异或。
//
// 混淆与还原是同一运算，对称可逆。key 只要非空即可，长度不限。
type XORObfuscator struct {
	key []byte
}

// NewXORObfuscator 创建一个 XOR 混淆器。key 不能为空。
func NewXORObfuscator(key []byte) (*XORObfuscator, error) {
	if len(key) == 0 {
		return nil, merr.WrapErrParameterMissing("key", "xor obfuscator requires a non-empty key")
	}
	// 持有私有副本，调用方后续修改 key 不影响混淆器。
	return &XORObfuscator{key: append([]byte(nil), key...)}, nil
}

func (o *XORObfuscator) TryObfuscate(dst, src []byte) transform.Outcome {
	return o.apply(dst, src)
}

func (o *XORObfuscator) TryDeobfuscate(dst, src []byte) transform.Outcome {
	return o.apply(dst, src)
}

func (o *XORObfuscator) Cipher() ObfuscationCipher {
	return ObfuscationXOR
}

func (o *XORObfuscator) apply(dst, src []byte) transform.Outcome {
	if len(dst) < len(src) {
		return transform.NeedSize(len(src))
	}
	for i, b := range src {
		dst[i] = b ^ o.key[i%len(o.key)]
	}
	return transform.Written(len(src))
}

// RollingXORObfuscator 用由 key 播种的滚动密钥流与数据逐字节异或。
//
// 密钥流只依赖 key 与字节偏移、不依赖数据本身，因此运算自反可逆；
// 相比循环重复 key，密钥流不会在输出中留下 key 长度的周期特征。
type RollingXORObfuscator struct {
	seed uint64
}

// NewRollingXORObfuscator 创建一个滚动 XOR 混淆器。key 不能为空。
func NewRollingXORObfuscator(key []byte) (*RollingXORObfuscator, error) {
	if len(key) == 0 {
		return nil, merr.WrapErrParameterMissing("key", "rolling xor obfuscator requires a non-empty key")
	}
	h := fnv.New64a()
	h.Write(key)
	return &RollingXORObfuscator{seed: h.Sum64()}, nil
}

func (o *RollingXORObfuscator) TryObfuscate(dst, src []byte) transform.Outcome {
	return o.apply(dst, src)
}

func (o *RollingXORObfuscator) TryDeobfuscate(dst, src []byte) transform.Outcome {
	return o.apply(dst, src)
}

func (o *RollingXORObfuscator) Cipher() ObfuscationCipher {
	return ObfuscationRollingXOR
}

func (o *RollingXORObfuscator) apply(dst, src []byte) transform.Outcome {
	if len(dst) < len(src) {
		return transform.NeedSize(len(src))
	}
	state := o.seed
	for i, b := range src {
		state = state*6364136223846793005 + 1442695040888963407
		dst[i] = b ^ byte(state>>56)
	}
	return transform.Written(len(src))
}

// NopObfuscator 是一个空实现：按原样拷贝数据。
type NopObfuscator struct{}

func (NopObfuscator) TryObfuscate(dst, src []byte) transform.Outcome {
	return copyInto(dst, src)
}

func (NopObfuscator) TryDeobfuscate(dst, src []byte) transform.Outcome {
	return copyInto(dst, src)
}

func (NopObfuscator) Cipher() ObfuscationCipher {
	return ObfuscationNone
}

var (
	_ Obfuscator = (*XORObfuscator)(nil)
	_ Obfuscator = (*RollingXORObfuscator)(nil)
	_ Obfuscator = NopObfuscator{}
)

func copyInto(dst, src []byte) transform.Outcome {
	if len(dst) < len(src) {
		return transform.NeedSize(len(src))
	}
	copy(dst, src)
	return transform.Written(len(src))
}
