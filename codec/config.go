package codec

import (
	"encoding/hex"
	"sort"

	"github.com/samber/lo"
	"go.uber.org/zap"
	"golang.org/x/exp/maps"

	"github.com/lk2023060901/codec-garden-go/compressor"
	"github.com/lk2023060901/codec-garden-go/crypto"
	"github.com/lk2023060901/codec-garden-go/fsprovider"
	"github.com/lk2023060901/codec-garden-go/obfuscator"
	"github.com/lk2023060901/codec-garden-go/pkg/log"
	"github.com/lk2023060901/codec-garden-go/pkg/util/merr"
	"github.com/lk2023060901/codec-garden-go/pkg/util/viper"
	"github.com/lk2023060901/codec-garden-go/serializer"
)

// Config 是流水线的文件配置形态，对应配置文件中的 codec 段：
//
//	codec:
//	  serializer:
//	    format: json
//	    naming: snake
//	  compression:
//	    enabled: true
//	    algorithm: zstd
//	    minSize: 64
//	  obfuscation:
//	    enabled: true
//	    cipher: xor
//	    key: 5ac33c
//	  encryption:
//	    enabled: true
//	    suite: aes-gcm
//	    key: <64 个十六进制字符>
type Config struct {
	Serializer  SerializerConfig  `mapstructure:"serializer"`
	Compression CompressionConfig `mapstructure:"compression"`
	Obfuscation ObfuscationConfig `mapstructure:"obfuscation"`
	Encryption  EncryptionConfig  `mapstructure:"encryption"`
}

type SerializerConfig struct {
	// Format 序列化格式，留空等价于 json。
	Format string `mapstructure:"format"`
	// Naming 成员名命名风格，仅对 json 生效，留空为原样输出。
	Naming string `mapstructure:"naming"`
	// CaseInsensitive 反序列化成员名匹配忽略大小写，仅对 json 生效。
	CaseInsensitive bool `mapstructure:"caseInsensitive"`
	// Indent 非空时输出带缩进的文本，仅对 json 生效。
	Indent string `mapstructure:"indent"`
}

type CompressionConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Algorithm string `mapstructure:"algorithm"`
	MinSize   int    `mapstructure:"minSize"`
}

type ObfuscationConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Cipher  string `mapstructure:"cipher"`
	// Key 十六进制编码。
	Key string `mapstructure:"key"`
}

type EncryptionConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Suite   string `mapstructure:"suite"`
	// Key 十六进制编码。
	Key string `mapstructure:"key"`
}

var namingConventions = map[string]serializer.NamingConvention{
	"":         serializer.NamingIdentity,
	"identity": serializer.NamingIdentity,
	"pascal":   serializer.NamingPascal,
	"camel":    serializer.NamingCamel,
	"snake":    serializer.NamingSnake,
	"kebab":    serializer.NamingKebab,
	"macro":    serializer.NamingMacro,
}

// FromConfigFile 从磁盘配置文件组装流水线。
func FromConfigFile(path string) (Codec, error) {
	return FromConfigFS(nil, path)
}

// FromConfigFS 从指定文件系统上的配置文件组装流水线，fs 为 nil 时读磁盘。
func FromConfigFS(fs fsprovider.FileSystem, path string) (Codec, error) {
	loader := viper.New()
	if fs != nil {
		loader.SetFs(fs)
	}
	loader.SetDefault("codec.serializer.format", "json")
	loader.SetDefault("codec.compression.algorithm", "zstd")
	loader.SetDefault("codec.compression.minSize", defaultMinCompressSize)
	loader.SetDefault("codec.obfuscation.cipher", "xor")
	loader.SetDefault("codec.encryption.suite", "aes-gcm")

	if err := loader.LoadFile(path); err != nil {
		return nil, merr.WrapErrParameterInvalidMsg("load codec config %q: %v", path, err)
	}

	var cfg Config
	if err := loader.UnmarshalKey("codec", &cfg); err != nil {
		return nil, merr.WrapErrParameterInvalidMsg("parse codec config %q: %v", path, err)
	}
	return FromConfig(cfg)
}

// FromConfig 按文件配置组装流水线。
func FromConfig(cfg Config) (Codec, error) {
	s, err := buildSerializer(cfg.Serializer)
	if err != nil {
		return nil, err
	}

	opts := Options{
		Serializer:        s,
		EnableCompression: cfg.Compression.Enabled,
		EnableObfuscation: cfg.Obfuscation.Enabled,
		EnableEncryption:  cfg.Encryption.Enabled,
		MinCompressSize:   cfg.Compression.MinSize,
	}

	if cfg.Compression.Enabled {
		opts.Compressor, err = buildCompressor(cfg.Compression)
		if err != nil {
			return nil, err
		}
	}
	if cfg.Obfuscation.Enabled {
		opts.Obfuscator, err = buildObfuscator(cfg.Obfuscation)
		if err != nil {
			return nil, err
		}
	}
	if cfg.Encryption.Enabled {
		opts.Encryptor, opts.Key, err = buildEncryptor(cfg.Encryption)
		if err != nil {
			return nil, err
		}
	}
	return New(opts)
}

func buildSerializer(cfg SerializerConfig) (serializer.Serializer, error) {
	switch cfg.Format {
	case "", "json":
		naming, ok := namingConventions[cfg.Naming]
		if !ok {
			logSupported("naming convention", cfg.Naming, maps.Keys(namingConventions))
			return nil, merr.WrapErrAlgorithmUnsupported("naming convention", cfg.Naming)
		}
		return serializer.NewJSONWithOptions(serializer.Options{
			Naming:          naming,
			CaseInsensitive: cfg.CaseInsensitive,
			Indent:          cfg.Indent,
		})
	case "protobuf":
		return serializer.NewProto(), nil
	default:
		logSupported("serializer", cfg.Format, []string{"json", "protobuf"})
		return nil, merr.WrapErrAlgorithmUnsupported("serializer", cfg.Format)
	}
}

func buildCompressor(cfg CompressionConfig) (compressor.Compressor, error) {
	switch cfg.Algorithm {
	case "none":
		return compressor.NopCompressor{}, nil
	case "", "zstd":
		return compressor.NewZstdCompressor()
	default:
		logSupported("compression algorithm", cfg.Algorithm, []string{"none", "zstd"})
		return nil, merr.WrapErrAlgorithmUnsupported("compression algorithm", cfg.Algorithm)
	}
}

func buildObfuscator(cfg ObfuscationConfig) (obfuscator.Obfuscator, error) {
	switch cfg.Cipher {
	case "none":
		return obfuscator.NopObfuscator{}, nil
	case "", "xor":
		key, err := hex.DecodeString(cfg.Key)
		if err != nil {
			return nil, merr.WrapErrParameterInvalidMsg("obfuscation key is not valid hex: %v", err)
		}
		return obfuscator.NewXORObfuscator(key)
	case "rolling-xor":
		key, err := hex.DecodeString(cfg.Key)
		if err != nil {
			return nil, merr.WrapErrParameterInvalidMsg("obfuscation key is not valid hex: %v", err)
		}
		return obfuscator.NewRollingXORObfuscator(key)
	default:
		logSupported("obfuscation cipher", cfg.Cipher, []string{"none", "rolling-xor", "xor"})
		return nil, merr.WrapErrAlgorithmUnsupported("obfuscation cipher", cfg.Cipher)
	}
}

func buildEncryptor(cfg EncryptionConfig) (crypto.Encryptor, []byte, error) {
	switch cfg.Suite {
	case "none":
		return crypto.NopEncryptor{}, nil, nil
	case "", "aes-gcm":
		key, err := hex.DecodeString(cfg.Key)
		if err != nil {
			return nil, nil, merr.WrapErrParameterInvalidMsg("encryption key is not valid hex: %v", err)
		}
		return crypto.NewAESGCM(), key, nil
	default:
		logSupported("cipher suite", cfg.Suite, []string{"none", "aes-gcm"})
		return nil, nil, merr.WrapErrAlgorithmUnsupported("cipher suite", cfg.Suite)
	}
}

func logSupported(kind, got string, supported []string) {
	supported = lo.Filter(supported, func(name string, _ int) bool { return name != "" })
	sort.Strings(supported)
	log.Warn("unsupported name in codec config",
		zap.String("kind", kind),
		zap.String("got", got),
		zap.Strings("supported", supported))
}
