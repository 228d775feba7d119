package fsprovider

import (
	"os"

	"github.com/spf13/afero"

	"github.com/lk2023060901/codec-garden-go/pkg/util/merr"
)

// FileSystem 是文件系统抽象，直接采用 afero 的接口。
// 依赖方声明 FileSystem 而不是直接触碰 os 包，测试时注入内存实现即可。
type FileSystem = afero.Fs

// File 是打开的文件句柄抽象。
type File = afero.File

// Kind 标识文件系统实现的种类。
type Kind int32

const (
	KindNone Kind = iota
	KindOS
	KindMemory
)

var kindNames = map[Kind]string{
	KindNone:   "none",
	KindOS:     "os",
	KindMemory: "memory",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// Provider 暴露一个可注入的文件系统及其种类。
// 依赖方持有 Provider 而不是具体实现，运行期与测试期注入不同种类。
type Provider interface {
	FS() FileSystem
	Kind() Kind
}

type provider struct {
	fs   FileSystem
	kind Kind
}

func (p provider) FS() FileSystem {
	return p.fs
}

func (p provider) Kind() Kind {
	return p.kind
}

// NewProvider 把现成的文件系统包装为 Provider。
func NewProvider(fs FileSystem, kind Kind) Provider {
	return provider{fs: fs, kind: kind}
}

// OSProvider 返回真实磁盘文件系统的 Provider。
func OSProvider() Provider {
	return provider{fs: OS(), kind: KindOS}
}

// MemProvider 返回内存文件系统的 Provider。
func MemProvider() Provider {
	return provider{fs: Mem(), kind: KindMemory}
}

// OS 返回真实磁盘文件系统。
func OS() FileSystem {
	return afero.NewOsFs()
}

// Mem 返回进程内的内存文件系统，各实例互相隔离。
func Mem() FileSystem {
	return afero.NewMemMapFs()
}

// ReadOnly 返回 fs 的只读视图，写操作返回权限错误。
func ReadOnly(fs FileSystem) FileSystem {
	return afero.NewReadOnlyFs(fs)
}

// New 按种类创建文件系统。
func New(kind Kind) (FileSystem, error) {
	switch kind {
	case KindOS:
		return OS(), nil
	case KindMemory:
		return Mem(), nil
	default:
		return nil, merr.WrapErrAlgorithmUnsupported("filesystem", kind.String())
	}
}

// WriteFile 将 data 整体写入 path，语义同 os.WriteFile。
func WriteFile(fs FileSystem, path string, data []byte, perm os.FileMode) error {
	return afero.WriteFile(fs, path, data, perm)
}

// ReadFile 读出 path 的全部内容，语义同 os.ReadFile。
func ReadFile(fs FileSystem, path string) ([]byte, error) {
	return afero.ReadFile(fs, path)
}

// Exists 判断 path 是否存在。
func Exists(fs FileSystem, path string) (bool, error) {
	return afero.Exists(fs, path)
}
