package compressor

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/atomic"

	"github.com/lk2023060901/codec-garden-go/pkg/transform"
	"github.com/lk2023060901/codec-garden-go/pkg/util/conc"
	"github.com/lk2023060901/codec-garden-go/pkg/util/merr"
)

// countingCompressor 包装另一个 Compressor 并统计原语调用次数，
// 用于验证取消派发时底层操作没有被触达。
type countingCompressor struct {
	inner Compressor
	calls *atomic.Int32
}

func (c countingCompressor) TryCompress(dst, src []byte) transform.Outcome {
	c.calls.Inc()
	return c.inner.TryCompress(dst, src)
}

func (c countingCompressor) TryDecompress(dst, src []byte) transform.Outcome {
	c.calls.Inc()
	return c.inner.TryDecompress(dst, src)
}

func (c countingCompressor) Algorithm() CompressionAlgorithm {
	return c.inner.Algorithm()
}

func TestZstdRoundTrip(t *testing.T) {
	c, err := NewZstdCompressor()
	require.NoError(t, err)
	defer c.Close()

	cases := [][]byte{
		nil,
		[]byte(""),
		[]byte("hello zstd"),
		bytes.Repeat([]byte("garden"), 4096),
	}

	for _, plain := range cases {
		packet, err := Compress(c, plain)
		require.NoError(t, err)

		restored, err := Decompress(c, packet)
		require.NoError(t, err)
		assert.Equal(t, append([]byte(nil), plain...), append([]byte(nil), restored...))
	}
}

func TestZstdSizeDiscovery(t *testing.T) {
	c, err := NewZstdCompressor()
	require.NoError(t, err)
	defer c.Close()

	plain := bytes.Repeat([]byte("abc"), 1024)

	// 用零长缓冲区探测精确所需大小，再按该大小一次成功。
	probe := c.TryCompress(nil, plain)
	require.True(t, probe.Undersized())

	dst := make([]byte, probe.Size)
	outcome := c.TryCompress(dst, plain)
	require.True(t, outcome.OK)
	assert.Equal(t, probe.Size, outcome.Size)

	restored, err := Decompress(c, dst[:outcome.Size])
	require.NoError(t, err)
	assert.Equal(t, plain, restored)
}

func TestZstdCorruptInput(t *testing.T) {
	c, err := NewZstdCompressor()
	require.NoError(t, err)
	defer c.Close()

	outcome := c.TryDecompress(make([]byte, 64), []byte("definitely not a zstd frame"))
	assert.False(t, outcome.OK)
	assert.False(t, outcome.Undersized())

	_, err = Decompress(c, []byte("definitely not a zstd frame"))
	assert.ErrorIs(t, err, merr.ErrTransformFailed)
}

func TestZstdClosed(t *testing.T) {
	c, err := NewZstdCompressor()
	require.NoError(t, err)
	c.Close()

	assert.False(t, c.TryCompress(make([]byte, 16), []byte("x")).OK)
	assert.False(t, c.TryDecompress(make([]byte, 16), []byte("x")).OK)
}

func TestNopCompressor(t *testing.T) {
	c := NopCompressor{}
	plain := []byte("passthrough")

	packet, err := Compress(c, plain)
	require.NoError(t, err)
	assert.Equal(t, plain, packet)

	restored, err := Decompress(c, packet)
	require.NoError(t, err)
	assert.Equal(t, plain, restored)

	// Nop 同样要遵守大小探测协议。
	probe := c.TryCompress(nil, plain)
	require.True(t, probe.Undersized())
	assert.Equal(t, len(plain), probe.Size)

	assert.Equal(t, CompressionNone, c.Algorithm())
}

func TestCompressAsync(t *testing.T) {
	c, err := NewZstdCompressor()
	require.NoError(t, err)
	defer c.Close()

	pool := conc.NewPool[[]byte](2)
	defer pool.Release()

	plain := bytes.Repeat([]byte("async"), 512)
	packet, err := CompressAsync(context.Background(), pool, c, plain).Await()
	require.NoError(t, err)

	restored, err := DecompressAsync(context.Background(), pool, c, packet).Await()
	require.NoError(t, err)
	assert.Equal(t, plain, restored)
}

func TestCompressAsyncAlreadyCancelled(t *testing.T) {
	calls := atomic.NewInt32(0)
	c := countingCompressor{inner: NopCompressor{}, calls: calls}

	pool := conc.NewPool[[]byte](2)
	defer pool.Release()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := CompressAsync(ctx, pool, c, []byte("never reached")).Await()
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, int32(0), calls.Load())
}

func TestAlgorithmString(t *testing.T) {
	assert.Equal(t, "none", CompressionNone.String())
	assert.Equal(t, "zstd", CompressionZstd.String())
	assert.Equal(t, "unknown", CompressionAlgorithm(99).String())
}
