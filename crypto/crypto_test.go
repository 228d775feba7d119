package crypto

import (
	"bytes"
	"context"
	"crypto/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/atomic"

	"github.com/lk2023060901/codec-garden-go/pkg/transform"
	"github.com/lk2023060901/codec-garden-go/pkg/util/conc"
	"github.com/lk2023060901/codec-garden-go/pkg/util/merr"
)

func newKeyIV(t *testing.T) (key, iv []byte) {
	t.Helper()
	key = make([]byte, AESKeySize)
	iv = make([]byte, GCMNonceSize)
	_, err := rand.Read(key)
	assert.NoError(t, err)
	_, err = rand.Read(iv)
	assert.NoError(t, err)
	return key, iv
}

func TestAESGCMRoundTrip(t *testing.T) {
	e := NewAESGCM()
	key, iv := newKeyIV(t)

	for _, plain := range [][]byte{
		nil,
		[]byte("q"),
		[]byte("the quick brown fox jumps over the lazy dog"),
		bytes.Repeat([]byte{0xab}, 1<<16),
	} {
		packet, err := Encrypt(e, plain, key, iv)
		assert.NoError(t, err)
		assert.Equal(t, len(plain)+e.Overhead(), len(packet))

		restored, err := Decrypt(e, packet, key, iv)
		assert.NoError(t, err)
		assert.Equal(t, append([]byte(nil), plain...), append([]byte(nil), restored...))
	}
}

func TestAESGCMExactSizing(t *testing.T) {
	e := NewAESGCM()
	key, iv := newKeyIV(t)
	plain := []byte("sized payload")

	// 空缓冲区试探，应当一次性报出精确大小。
	out := e.TryEncrypt(nil, plain, key, iv)
	assert.False(t, out.OK)
	assert.Equal(t, len(plain)+GCMTagSize, out.Size)

	dst := make([]byte, out.Size)
	out = e.TryEncrypt(dst, plain, key, iv)
	assert.True(t, out.OK)
	assert.Equal(t, len(plain)+GCMTagSize, out.Size)

	probe := e.TryDecrypt(nil, dst[:out.Size], key, iv)
	assert.False(t, probe.OK)
	assert.Equal(t, len(plain), probe.Size)
}

func TestAESGCMTamperedPacket(t *testing.T) {
	e := NewAESGCM()
	key, iv := newKeyIV(t)

	packet, err := Encrypt(e, []byte("integrity matters"), key, iv)
	assert.NoError(t, err)

	// 翻转一个比特，认证必须失败，且不会被误判为缓冲区不足。
	packet[0] ^= 0x01
	dst := make([]byte, len(packet))
	out := e.TryDecrypt(dst, packet, key, iv)
	assert.False(t, out.OK)
	assert.Zero(t, out.Size)

	_, err = Decrypt(e, packet, key, iv)
	assert.Error(t, err)
	assert.ErrorIs(t, err, merr.ErrTransformFailed)
}

func TestAESGCMWrongKey(t *testing.T) {
	e := NewAESGCM()
	key, iv := newKeyIV(t)
	other, _ := newKeyIV(t)

	packet, err := Encrypt(e, []byte("secret"), key, iv)
	assert.NoError(t, err)

	_, err = Decrypt(e, packet, other, iv)
	assert.Error(t, err)
}

func TestAESGCMKeyIVValidation(t *testing.T) {
	e := NewAESGCM()

	_, err := Encrypt(e, []byte("x"), make([]byte, 16), make([]byte, GCMNonceSize))
	assert.ErrorIs(t, err, merr.ErrKeyInvalid)

	_, err = Encrypt(e, []byte("x"), make([]byte, AESKeySize), make([]byte, 8))
	assert.ErrorIs(t, err, merr.ErrIVInvalid)

	// Try 原语不返回 error，参数错表现为不可重试的失败。
	out := e.TryEncrypt(make([]byte, 64), []byte("x"), nil, nil)
	assert.False(t, out.OK)
	assert.Zero(t, out.Size)
}

func TestAESGCMShortPacket(t *testing.T) {
	e := NewAESGCM()
	key, iv := newKeyIV(t)

	out := e.TryDecrypt(make([]byte, 64), []byte("short"), key, iv)
	assert.False(t, out.OK)
	assert.Zero(t, out.Size)
}

func TestNopEncryptor(t *testing.T) {
	e := NopEncryptor{}
	assert.Equal(t, CipherNone, e.Suite())
	assert.Zero(t, e.Overhead())

	src := []byte("pass through")
	out := e.TryEncrypt(nil, src, nil, nil)
	assert.True(t, out.Undersized())
	assert.Equal(t, len(src), out.Size)

	packet, err := Encrypt(e, src, nil, nil)
	assert.NoError(t, err)
	assert.Equal(t, src, packet)

	restored, err := Decrypt(e, packet, nil, nil)
	assert.NoError(t, err)
	assert.Equal(t, src, restored)
}

func TestEncryptAsync(t *testing.T) {
	pool := conc.NewPool[[]byte](4)
	defer pool.Release()

	e := NewAESGCM()
	key, iv := newKeyIV(t)
	plain := []byte("async payload")

	future := EncryptAsync(context.Background(), pool, e, plain, key, iv)
	packet, err := future.Await()
	assert.NoError(t, err)

	restored, err := DecryptAsync(context.Background(), pool, e, packet, key, iv).Await()
	assert.NoError(t, err)
	assert.Equal(t, plain, restored)
}

type countingEncryptor struct {
	Encryptor
	calls *atomic.Int32
}

func (c countingEncryptor) TryEncrypt(dst, plaintext, key, iv []byte) transform.Outcome {
	c.calls.Inc()
	return c.Encryptor.TryEncrypt(dst, plaintext, key, iv)
}

func TestEncryptAsyncCancelled(t *testing.T) {
	pool := conc.NewPool[[]byte](4)
	defer pool.Release()

	calls := atomic.NewInt32(0)
	e := countingEncryptor{Encryptor: NewAESGCM(), calls: calls}
	key, iv := newKeyIV(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	future := EncryptAsync(ctx, pool, e, []byte("never encrypted"), key, iv)
	_, err := future.Await()
	assert.ErrorIs(t, err, context.Canceled)

	time.Sleep(10 * time.Millisecond)
	assert.Zero(t, calls.Load())
}

func TestCipherSuiteString(t *testing.T) {
	assert.Equal(t, "none", CipherNone.String())
	assert.Equal(t, "aes-gcm", CipherAESGCM.String())
	assert.Equal(t, "unknown", CipherSuite(42).String())
}
