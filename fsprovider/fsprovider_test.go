package fsprovider

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lk2023060901/codec-garden-go/pkg/util/merr"
)

func TestMemRoundTrip(t *testing.T) {
	fs := Mem()

	assert.NoError(t, WriteFile(fs, "/data/payload.bin", []byte("content"), 0o644))

	ok, err := Exists(fs, "/data/payload.bin")
	assert.NoError(t, err)
	assert.True(t, ok)

	data, err := ReadFile(fs, "/data/payload.bin")
	assert.NoError(t, err)
	assert.Equal(t, []byte("content"), data)
}

func TestMemIsolation(t *testing.T) {
	first := Mem()
	second := Mem()

	assert.NoError(t, WriteFile(first, "/only-here", []byte("x"), 0o644))

	ok, err := Exists(second, "/only-here")
	assert.NoError(t, err)
	assert.False(t, ok)
}

func TestReadOnly(t *testing.T) {
	fs := Mem()
	assert.NoError(t, WriteFile(fs, "/frozen", []byte("x"), 0o644))

	ro := ReadOnly(fs)
	data, err := ReadFile(ro, "/frozen")
	assert.NoError(t, err)
	assert.Equal(t, []byte("x"), data)

	assert.Error(t, WriteFile(ro, "/frozen", []byte("y"), 0o644))
}

func TestNew(t *testing.T) {
	fs, err := New(KindMemory)
	assert.NoError(t, err)
	assert.NotNil(t, fs)

	fs, err = New(KindOS)
	assert.NoError(t, err)
	assert.NotNil(t, fs)

	_, err = New(Kind(42))
	assert.ErrorIs(t, err, merr.ErrAlgorithmUnsupported)
}

func TestProvider(t *testing.T) {
	p := MemProvider()
	assert.Equal(t, KindMemory, p.Kind())
	assert.NoError(t, WriteFile(p.FS(), "/x", []byte("y"), 0o644))

	assert.Equal(t, KindOS, OSProvider().Kind())

	custom := NewProvider(Mem(), KindMemory)
	assert.Equal(t, KindMemory, custom.Kind())
	assert.NotNil(t, custom.FS())
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "os", KindOS.String())
	assert.Equal(t, "memory", KindMemory.String())
	assert.Equal(t, "unknown", Kind(42).String())
}
