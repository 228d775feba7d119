package crypto

import (
	"context"

	"github.com/lk2023060901/codec-garden-go/pkg/transform"
	"github.com/lk2023060901/codec-garden-go/pkg/util/conc"
)

// CipherSuite 标识一种加密方案。
//
// 封闭集合，0 值保留给 None（不加密）。
type CipherSuite int32

const (
	CipherNone CipherSuite = iota
	CipherAESGCM
)

var cipherSuiteNames = map[CipherSuite]string{
	CipherNone:   "none",
	CipherAESGCM: "aes-gcm",
}

func (s CipherSuite) String() string {
	if name, ok := cipherSuiteNames[s]; ok {
		return name
	}
	return "unknown"
}

// Encryptor 抽象了单一“加密方案”的能力：
//   - TryEncrypt：加密 + 防篡改，生成完整报文
//   - TryDecrypt：验证 + 解密，还原明文
//
// key/iv 由调用方按次传入：同一 key 下 iv 必须全局唯一，
// 复用 iv 会破坏 AEAD 类算法的安全性，这由调用方负责保证。
// 不同算法（AES‑GCM、ChaCha20‑Poly1305 等）都可以实现该接口，供使用者按需选择。
//
// 实现必须无状态或自行做好内部同步，以便作为长生命周期单例共享。
type Encryptor interface {
	// TryEncrypt 将明文 plaintext 加密写入 dst，结果语义见 transform.Outcome。
	TryEncrypt(dst, plaintext, key, iv []byte) transform.Outcome

	// TryDecrypt 将报文 packet 验证并解密写入 dst。
	//
	// packet 必须是 TryEncrypt 的输出；验证失败属于真实失败，不触发扩容重试。
	TryDecrypt(dst, packet, key, iv []byte) transform.Outcome

	// Suite 返回实现对应的加密方案标识。
	Suite() CipherSuite

	// Overhead 返回密文相对明文的最大字节开销（认证标签等）。
	Overhead() int
}

// KeyValidator 是实现可选提供的预校验能力。
// 便捷封装在分配缓冲区之前先做校验，把“参数错”与“运行失败”区分开。
type KeyValidator interface {
	ValidateKeyIV(key, iv []byte) error
}

// Encrypt 是 TryEncrypt 的分配版便捷封装。
// 预估大小为 len(plaintext)+Overhead()，对块对齐类算法的少量偏差由精确重试兜底。
func Encrypt(e Encryptor, plaintext, key, iv []byte) ([]byte, error) {
	if v, ok := e.(KeyValidator); ok {
		if err := v.ValidateKeyIV(key, iv); err != nil {
			return nil, err
		}
	}
	return transform.Alloc("encrypt", len(plaintext)+e.Overhead(), func(dst []byte) transform.Outcome {
		return e.TryEncrypt(dst, plaintext, key, iv)
	})
}

// Decrypt 是 TryDecrypt 的分配版便捷封装。
// 明文不会长于报文本身，预估大小直接取 len(packet)。
func Decrypt(e Encryptor, packet, key, iv []byte) ([]byte, error) {
	if v, ok := e.(KeyValidator); ok {
		if err := v.ValidateKeyIV(key, iv); err != nil {
			return nil, err
		}
	}
	return transform.Alloc("decrypt", len(packet), func(dst []byte) transform.Outcome {
		return e.TryDecrypt(dst, packet, key, iv)
	})
}

// EncryptAsync 将 Encrypt 派发到协程池上执行。
// 若 ctx 在派发前已取消，则直接返回已完成的 Future，不执行任何加密。
func EncryptAsync(ctx context.Context, pool *conc.Pool[[]byte], e Encryptor, plaintext, key, iv []byte) *conc.Future[[]byte] {
	return transform.Async(ctx, pool, func() ([]byte, error) {
		return Encrypt(e, plaintext, key, iv)
	})
}

// DecryptAsync 将 Decrypt 派发到协程池上执行。
func DecryptAsync(ctx context.Context, pool *conc.Pool[[]byte], e Encryptor, packet, key, iv []byte) *conc.Future[[]byte] {
	return transform.Async(ctx, pool, func() ([]byte, error) {
		return Decrypt(e, packet, key, iv)
	})
}

// TryEncryptAsync 将 TryEncrypt 原语派发到协程池上执行。
func TryEncryptAsync(ctx context.Context, pool *conc.Pool[transform.Outcome], e Encryptor, dst, plaintext, key, iv []byte) *conc.Future[transform.Outcome] {
	return transform.Async(ctx, pool, func() (transform.Outcome, error) {
		return e.TryEncrypt(dst, plaintext, key, iv), nil
	})
}

// TryDecryptAsync 将 TryDecrypt 原语派发到协程池上执行。
func TryDecryptAsync(ctx context.Context, pool *conc.Pool[transform.Outcome], e Encryptor, dst, packet, key, iv []byte) *conc.Future[transform.Outcome] {
	return transform.Async(ctx, pool, func() (transform.Outcome, error) {
		return e.TryDecrypt(dst, packet, key, iv), nil
	})
}

// NopEncryptor 是一个空实现：不做加密也不做验证，按原样拷贝数据。
//
// 适用于：
//   - 本地开发/调试阶段，不希望引入加解密开销
//   - 按配置开关动态启用/关闭加密，而不影响调用方逻辑
type NopEncryptor struct{}

func (NopEncryptor) TryEncrypt(dst, plaintext, _, _ []byte) transform.Outcome {
	return copyInto(dst, plaintext)
}

func (NopEncryptor) TryDecrypt(dst, packet, _, _ []byte) transform.Outcome {
	return copyInto(dst, packet)
}

func (NopEncryptor) Suite() CipherSuite {
	return CipherNone
}

func (NopEncryptor) Overhead() int {
	return 0
}

// 编译期断言：确保 NopEncryptor 实现了 Encryptor 接口。
var _ Encryptor = NopEncryptor{}

func copyInto(dst, src []byte) transform.Outcome {
	if len(dst) < len(src) {
		return transform.NeedSize(len(src))
	}
	copy(dst, src)
	return transform.Written(len(src))
}
