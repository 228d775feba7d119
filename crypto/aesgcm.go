package crypto

import (
	"crypto/aes"
	"crypto/cipher"

	"github.com/lk2023060901/codec-garden-go/pkg/transform"
	"github.com/lk2023060901/codec-garden-go/pkg/util/merr"
)

const (
	// AESKeySize AES-256 密钥长度（字节）。
	AESKeySize = 32
	// GCMNonceSize GCM 标准 nonce 长度（字节）。
	GCMNonceSize = 12
	// GCMTagSize GCM 认证标签长度（字节），即密文相对明文的固定开销。
	GCMTagSize = 16
)

// AESGCM 基于 AES-256-GCM 的 Encryptor 实现。
//
// 实现完全无状态——密钥和 nonce 都按次传入——同一实例可在多 goroutine 间共享。
// 密文布局为 GCM 标准输出：ciphertext || tag，nonce 由调用方另行携带。
type AESGCM struct{}

// NewAESGCM 创建一个 AES-256-GCM 加密器。
func NewAESGCM() *AESGCM {
	return &AESGCM{}
}

// ValidateKeyIV 校验密钥与 nonce 的长度是否符合 AES-256-GCM 的要求。
func (*AESGCM) ValidateKeyIV(key, iv []byte) error {
	if len(key) != AESKeySize {
		return merr.WrapErrKeyInvalid("aes-256-gcm", len(key), AESKeySize)
	}
	if len(iv) != GCMNonceSize {
		return merr.WrapErrIVInvalid("aes-256-gcm", len(iv), GCMNonceSize)
	}
	return nil
}

func (e *AESGCM) TryEncrypt(dst, plaintext, key, iv []byte) transform.Outcome {
	aead, ok := e.newAEAD(key, iv)
	if !ok {
		return transform.Failed()
	}
	required := len(plaintext) + aead.Overhead()
	if len(dst) < required {
		return transform.NeedSize(required)
	}
	aead.Seal(dst[:0], iv, plaintext, nil)
	return transform.Written(required)
}

func (e *AESGCM) TryDecrypt(dst, packet, key, iv []byte) transform.Outcome {
	aead, ok := e.newAEAD(key, iv)
	if !ok {
		return transform.Failed()
	}
	// 报文比认证标签还短，必然不是合法密文。
	if len(packet) < aead.Overhead() {
		return transform.Failed()
	}
	required := len(packet) - aead.Overhead()
	if len(dst) < required {
		return transform.NeedSize(required)
	}
	if _, err := aead.Open(dst[:0], iv, packet, nil); err != nil {
		// 认证失败属于真实失败，扩容无济于事。
		return transform.Failed()
	}
	return transform.Written(required)
}

func (e *AESGCM) Suite() CipherSuite {
	return CipherAESGCM
}

func (e *AESGCM) Overhead() int {
	return GCMTagSize
}

func (e *AESGCM) newAEAD(key, iv []byte) (cipher.AEAD, bool) {
	if e.ValidateKeyIV(key, iv) != nil {
		return nil, false
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, false
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, false
	}
	return aead, true
}

var _ Encryptor = (*AESGCM)(nil)
var _ KeyValidator = (*AESGCM)(nil)
