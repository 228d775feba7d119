package hasher

import (
	"context"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/binary"
	"hash/fnv"

	"github.com/lk2023060901/codec-garden-go/pkg/transform"
	"github.com/lk2023060901/codec-garden-go/pkg/util/conc"
	"github.com/lk2023060901/codec-garden-go/pkg/util/merr"
)

// HashAlgorithm 标识一种摘要算法。
type HashAlgorithm int32

const (
	HashNone HashAlgorithm = iota
	HashFNV64
	HashSHA256
	HashSHA512
)

var hashAlgorithmNames = map[HashAlgorithm]string{
	HashNone:   "none",
	HashFNV64:  "fnv64",
	HashSHA256: "sha256",
	HashSHA512: "sha512",
}

func (a HashAlgorithm) String() string {
	if name, ok := hashAlgorithmNames[a]; ok {
		return name
	}
	return "unknown"
}

// Hasher 抽象了单一摘要算法的能力。
//
// 同一输入必须产生同一输出，输出长度固定为 Size() 字节。
// 实现必须可在多 goroutine 间共享。
type Hasher interface {
	// TryHash 计算 src 的摘要并写入 dst，结果语义见 transform.Outcome。
	TryHash(dst, src []byte) transform.Outcome

	// Size 返回摘要的固定长度（字节）。
	Size() int

	// Algorithm 返回实现对应的算法标识。
	Algorithm() HashAlgorithm
}

// New 按算法标识创建对应的 Hasher。
func New(algorithm HashAlgorithm) (Hasher, error) {
	switch algorithm {
	case HashNone:
		return NopHasher{}, nil
	case HashFNV64:
		return FNV64Hasher{}, nil
	case HashSHA256:
		return SHA256Hasher{}, nil
	case HashSHA512:
		return SHA512Hasher{}, nil
	default:
		return nil, merr.WrapErrAlgorithmUnsupported("hash", algorithm.String())
	}
}

// Sum 是 TryHash 的分配版便捷封装。摘要长度固定，预估即精确值，永远不会触发重试。
func Sum(h Hasher, src []byte) ([]byte, error) {
	return transform.Alloc("hash", h.Size(), func(dst []byte) transform.Outcome {
		return h.TryHash(dst, src)
	})
}

// SumAsync 将 Sum 派发到协程池上执行。
// 若 ctx 在派发前已取消，则直接返回已完成的 Future，不计算摘要。
func SumAsync(ctx context.Context, pool *conc.Pool[[]byte], h Hasher, src []byte) *conc.Future[[]byte] {
	return transform.Async(ctx, pool, func() ([]byte, error) {
		return Sum(h, src)
	})
}

// TryHashAsync 将 TryHash 原语派发到协程池上执行。
func TryHashAsync(ctx context.Context, pool *conc.Pool[transform.Outcome], h Hasher, dst, src []byte) *conc.Future[transform.Outcome] {
	return transform.Async(ctx, pool, func() (transform.Outcome, error) {
		return h.TryHash(dst, src), nil
	})
}

// SHA256Hasher 基于 SHA-256 的 Hasher 实现。
type SHA256Hasher struct{}

func (SHA256Hasher) TryHash(dst, src []byte) transform.Outcome {
	if len(dst) < sha256.Size {
		return transform.NeedSize(sha256.Size)
	}
	sum := sha256.Sum256(src)
	copy(dst, sum[:])
	return transform.Written(sha256.Size)
}

func (SHA256Hasher) Size() int {
	return sha256.Size
}

func (SHA256Hasher) Algorithm() HashAlgorithm {
	return HashSHA256
}

// SHA512Hasher 基于 SHA-512 的 Hasher 实现。
type SHA512Hasher struct{}

func (SHA512Hasher) TryHash(dst, src []byte) transform.Outcome {
	if len(dst) < sha512.Size {
		return transform.NeedSize(sha512.Size)
	}
	sum := sha512.Sum512(src)
	copy(dst, sum[:])
	return transform.Written(sha512.Size)
}

func (SHA512Hasher) Size() int {
	return sha512.Size
}

func (SHA512Hasher) Algorithm() HashAlgorithm {
	return HashSHA512
}

// FNV64Hasher 基于 FNV-1a 64 位的 Hasher 实现。
// 非密码学摘要，适合去重、分片一类只要求均匀分布的场景。
type FNV64Hasher struct{}

func (FNV64Hasher) TryHash(dst, src []byte) transform.Outcome {
	const size = 8
	if len(dst) < size {
		return transform.NeedSize(size)
	}
	h := fnv.New64a()
	h.Write(src)
	binary.BigEndian.PutUint64(dst, h.Sum64())
	return transform.Written(size)
}

func (FNV64Hasher) Size() int {
	return 8
}

func (FNV64Hasher) Algorithm() HashAlgorithm {
	return HashFNV64
}

// NopHasher 是一个空实现：摘要长度为 0，什么都不写。
type NopHasher struct{}

func (NopHasher) TryHash(_, _ []byte) transform.Outcome {
	return transform.Written(0)
}

func (NopHasher) Size() int {
	return 0
}

func (NopHasher) Algorithm() HashAlgorithm {
	return HashNone
}

var (
	_ Hasher = FNV64Hasher{}
	_ Hasher = SHA256Hasher{}
	_ Hasher = SHA512Hasher{}
	_ Hasher = NopHasher{}
)
