package obfuscator

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lk2023060901/codec-garden-go/pkg/util/conc"
	"github.com/lk2023060901/codec-garden-go/pkg/util/merr"
)

func TestXORRoundTrip(t *testing.T) {
	o, err := NewXORObfuscator([]byte{0x5a, 0xc3, 0x3c})
	assert.NoError(t, err)
	assert.Equal(t, ObfuscationXOR, o.Cipher())

	for _, src := range [][]byte{
		nil,
		[]byte("x"),
		[]byte("a payload longer than the key, wrapping it several times"),
		bytes.Repeat([]byte{0x00}, 4096),
	} {
		masked, err := Obfuscate(o, src)
		assert.NoError(t, err)
		// 保长。
		assert.Equal(t, len(src), len(masked))

		restored, err := Deobfuscate(o, masked)
		assert.NoError(t, err)
		assert.Equal(t, append([]byte(nil), src...), append([]byte(nil), restored...))
	}
}

func TestRollingXORRoundTrip(t *testing.T) {
	o, err := NewRollingXORObfuscator([]byte("garden"))
	assert.NoError(t, err)
	assert.Equal(t, ObfuscationRollingXOR, o.Cipher())

	src := bytes.Repeat([]byte{0x00}, 512)
	masked, err := Obfuscate(o, src)
	assert.NoError(t, err)
	assert.Equal(t, len(src), len(masked))
	assert.NotEqual(t, src, masked)

	// 密钥流不随 key 长度循环，全零输入的输出不应有 6 字节周期。
	assert.NotEqual(t, masked[:6], masked[6:12])

	restored, err := Deobfuscate(o, masked)
	assert.NoError(t, err)
	assert.Equal(t, src, restored)

	_, err = NewRollingXORObfuscator(nil)
	assert.ErrorIs(t, err, merr.ErrParameterMissing)
}

func TestXORMasksContent(t *testing.T) {
	o, err := NewXORObfuscator([]byte("garden"))
	assert.NoError(t, err)

	src := []byte("plainly readable text")
	masked, err := Obfuscate(o, src)
	assert.NoError(t, err)
	assert.NotEqual(t, src, masked)
}

func TestXOREmptyKey(t *testing.T) {
	_, err := NewXORObfuscator(nil)
	assert.ErrorIs(t, err, merr.ErrParameterMissing)

	_, err = NewXORObfuscator([]byte{})
	assert.ErrorIs(t, err, merr.ErrParameterMissing)
}

func TestXORKeyCopied(t *testing.T) {
	key := []byte{0x11, 0x22}
	o, err := NewXORObfuscator(key)
	assert.NoError(t, err)

	src := []byte("stable output")
	before, err := Obfuscate(o, src)
	assert.NoError(t, err)

	// 外部篡改 key 不得影响已创建的混淆器。
	key[0] = 0xff
	after, err := Obfuscate(o, src)
	assert.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestTryObfuscateSizing(t *testing.T) {
	o, err := NewXORObfuscator([]byte{0x42})
	assert.NoError(t, err)

	src := []byte("sizing probe")
	out := o.TryObfuscate(nil, src)
	assert.True(t, out.Undersized())
	assert.Equal(t, len(src), out.Size)

	dst := make([]byte, out.Size)
	out = o.TryObfuscate(dst, src)
	assert.True(t, out.OK)
	assert.Equal(t, len(src), out.Size)
}

func TestNopObfuscator(t *testing.T) {
	o := NopObfuscator{}
	assert.Equal(t, ObfuscationNone, o.Cipher())

	src := []byte("untouched")
	masked, err := Obfuscate(o, src)
	assert.NoError(t, err)
	assert.Equal(t, src, masked)

	restored, err := Deobfuscate(o, masked)
	assert.NoError(t, err)
	assert.Equal(t, src, restored)
}

func TestObfuscateAsync(t *testing.T) {
	pool := conc.NewPool[[]byte](2)
	defer pool.Release()

	o, err := NewXORObfuscator([]byte("async"))
	assert.NoError(t, err)

	src := []byte("async masked")
	masked, err := ObfuscateAsync(context.Background(), pool, o, src).Await()
	assert.NoError(t, err)

	restored, err := DeobfuscateAsync(context.Background(), pool, o, masked).Await()
	assert.NoError(t, err)
	assert.Equal(t, src, restored)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = ObfuscateAsync(ctx, pool, o, src).Await()
	assert.ErrorIs(t, err, context.Canceled)
}

func TestObfuscationCipherString(t *testing.T) {
	assert.Equal(t, "none", ObfuscationNone.String())
	assert.Equal(t, "rolling-xor", ObfuscationRollingXOR.String())
	assert.Equal(t, "xor", ObfuscationXOR.String())
	assert.Equal(t, "unknown", ObfuscationCipher(42).String())
}
