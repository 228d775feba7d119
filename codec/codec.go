package codec

import (
	"context"
	"crypto/rand"
	"encoding/binary"

	"go.uber.org/zap"

	"github.com/lk2023060901/codec-garden-go/compressor"
	"github.com/lk2023060901/codec-garden-go/crypto"
	"github.com/lk2023060901/codec-garden-go/obfuscator"
	"github.com/lk2023060901/codec-garden-go/pkg/log"
	"github.com/lk2023060901/codec-garden-go/pkg/metrics"
	"github.com/lk2023060901/codec-garden-go/pkg/transform"
	"github.com/lk2023060901/codec-garden-go/pkg/util/conc"
	"github.com/lk2023060901/codec-garden-go/pkg/util/merr"
	"github.com/lk2023060901/codec-garden-go/serializer"
)

// 封包格式：
//
//	+---------+-------+------------------+-------------+
//	| version | flags | plain size (be4) | payload ... |
//	+---------+-------+------------------+-------------+
//
// plain size 记录序列化后、各阶段处理前的字节数，解码时用作
// 解压缩的精确预估。加密启用时 payload 为 iv || ciphertext。
const (
	envelopeVersion = byte(1)
	headerSize      = 6
)

const (
	flagCompressed = byte(1 << iota)
	flagObfuscated
	flagEncrypted
)

// 默认启用压缩时的最小压缩阈值：小于该值的载荷压缩收益抵不过开销。
const defaultMinCompressSize = 64

// Codec 把“对象 <-> 传输字节”的完整流水线收敛为一对操作：
// 序列化、压缩、混淆、加密各阶段按固定顺序组合，解码严格逆序。
type Codec interface {
	// Encode 将 v 编码为自描述封包。
	Encode(v any) ([]byte, error)

	// Decode 将 Encode 产出的封包还原到 v（必须是指针）。
	Decode(data []byte, v any) error
}

// Options 描述流水线的各阶段配置。
type Options struct {
	// Serializer 必填，对象与字节之间的转换。
	Serializer serializer.Serializer

	// Compressor 为 nil 时采用 NopCompressor。
	Compressor compressor.Compressor
	// Obfuscator 为 nil 时采用 NopObfuscator。
	Obfuscator obfuscator.Obfuscator
	// Encryptor 为 nil 时采用 NopEncryptor。
	Encryptor crypto.Encryptor

	EnableCompression bool
	EnableObfuscation bool
	EnableEncryption  bool

	// Key 加密密钥，EnableEncryption 时必填。
	Key []byte
	// IVSize 每条封包随机生成的 iv 长度，0 表示 GCM 标准长度。
	IVSize int

	// MinCompressSize 小于该字节数的载荷跳过压缩，0 表示默认阈值。
	MinCompressSize int
}

type pipeline struct {
	log.Binder

	serializer serializer.Serializer
	compressor compressor.Compressor
	obfuscator obfuscator.Obfuscator
	encryptor  crypto.Encryptor

	key    []byte
	ivSize int

	enableCompression bool
	enableObfuscation bool
	enableEncryption  bool
	minCompressSize   int
}

// New 按 opts 组装编解码流水线。
func New(opts Options) (Codec, error) {
	if opts.Serializer == nil {
		return nil, merr.WrapErrParameterMissing("serializer")
	}

	p := &pipeline{
		serializer:        opts.Serializer,
		compressor:        opts.Compressor,
		obfuscator:        opts.Obfuscator,
		encryptor:         opts.Encryptor,
		key:               append([]byte(nil), opts.Key...),
		ivSize:            opts.IVSize,
		enableCompression: opts.EnableCompression,
		enableObfuscation: opts.EnableObfuscation,
		enableEncryption:  opts.EnableEncryption,
		minCompressSize:   opts.MinCompressSize,
	}
	if p.compressor == nil {
		p.compressor = compressor.NopCompressor{}
	}
	if p.obfuscator == nil {
		p.obfuscator = obfuscator.NopObfuscator{}
	}
	if p.encryptor == nil {
		p.encryptor = crypto.NopEncryptor{}
	}
	if p.ivSize <= 0 {
		p.ivSize = crypto.GCMNonceSize
	}
	if p.minCompressSize <= 0 {
		p.minCompressSize = defaultMinCompressSize
	}

	// 空套件是直通实现，不持有密钥，开启加密也不做密钥校验。
	if p.enableEncryption && p.encryptor.Suite() != crypto.CipherNone {
		if len(p.key) == 0 {
			return nil, merr.WrapErrParameterMissing("key", "encryption enabled without a key")
		}
		if v, ok := p.encryptor.(crypto.KeyValidator); ok {
			if err := v.ValidateKeyIV(p.key, make([]byte, p.ivSize)); err != nil {
				return nil, err
			}
		}
	}

	p.SetLogger(log.With(
		log.FieldModule("codec"),
		zap.String("format", p.serializer.Format()),
		zap.String("compression", p.compressor.Algorithm().String()),
		zap.String("obfuscation", p.obfuscator.Cipher().String()),
		zap.String("encryption", p.encryptor.Suite().String()),
	))
	return p, nil
}

func (p *pipeline) Encode(v any) ([]byte, error) {
	envelope, err := p.encode(v)
	status := metrics.StatusOK
	if err != nil {
		status = metrics.StatusFail
	}
	metrics.CodecEncodeTotal.WithLabelValues(p.serializer.Format(), status).Inc()
	return envelope, err
}

func (p *pipeline) encode(v any) ([]byte, error) {
	payload, err := serializer.Marshal(p.serializer, v)
	if err != nil {
		metrics.CodecStageFailures.WithLabelValues("serialize").Inc()
		return nil, err
	}
	plainSize := len(payload)
	metrics.CodecPlainBytes.Observe(float64(plainSize))

	var flags byte

	if p.enableCompression && plainSize >= p.minCompressSize {
		compressed, err := compressor.Compress(p.compressor, payload)
		if err != nil {
			metrics.CodecStageFailures.WithLabelValues("compress").Inc()
			return nil, err
		}
		// 压缩结果不更小就按原样传输，省掉解码侧的无谓解压。
		if len(compressed) < len(payload) {
			payload = compressed
			flags |= flagCompressed
		}
	}

	if p.enableObfuscation {
		payload, err = obfuscator.Obfuscate(p.obfuscator, payload)
		if err != nil {
			metrics.CodecStageFailures.WithLabelValues("obfuscate").Inc()
			return nil, err
		}
		flags |= flagObfuscated
	}

	if p.enableEncryption {
		iv := make([]byte, p.ivSize)
		if _, err := rand.Read(iv); err != nil {
			metrics.CodecStageFailures.WithLabelValues("encrypt").Inc()
			return nil, merr.WrapErrEncryptFailed(p.encryptor.Suite().String(), "generate iv: "+err.Error())
		}
		ciphertext, err := crypto.Encrypt(p.encryptor, payload, p.key, iv)
		if err != nil {
			metrics.CodecStageFailures.WithLabelValues("encrypt").Inc()
			return nil, err
		}
		payload = append(iv, ciphertext...)
		flags |= flagEncrypted
	}

	envelope := make([]byte, headerSize+len(payload))
	envelope[0] = envelopeVersion
	envelope[1] = flags
	binary.BigEndian.PutUint32(envelope[2:headerSize], uint32(plainSize))
	copy(envelope[headerSize:], payload)

	metrics.CodecEncodedBytes.Observe(float64(len(envelope)))
	return envelope, nil
}

func (p *pipeline) Decode(data []byte, v any) error {
	err := p.decode(data, v)
	status := metrics.StatusOK
	if err != nil {
		status = metrics.StatusFail
	}
	metrics.CodecDecodeTotal.WithLabelValues(p.serializer.Format(), status).Inc()
	return err
}

func (p *pipeline) decode(data []byte, v any) error {
	if len(data) < headerSize {
		return merr.WrapErrEnvelopeCorrupted("envelope shorter than header")
	}
	if data[0] != envelopeVersion {
		return merr.WrapErrEnvelopeCorrupted("unknown envelope version")
	}
	flags := data[1]
	plainSize := int(binary.BigEndian.Uint32(data[2:headerSize]))
	payload := data[headerSize:]

	if flags&flagEncrypted != 0 {
		if !p.enableEncryption {
			return merr.WrapErrStageDisabled("encryption")
		}
		if len(payload) < p.ivSize {
			return merr.WrapErrEnvelopeCorrupted("payload shorter than iv")
		}
		iv, ciphertext := payload[:p.ivSize], payload[p.ivSize:]
		plain, err := crypto.Decrypt(p.encryptor, ciphertext, p.key, iv)
		if err != nil {
			metrics.CodecStageFailures.WithLabelValues("decrypt").Inc()
			p.Logger().RatedWarn(10, "decrypt stage failed", zap.Error(err))
			return err
		}
		payload = plain
	}

	if flags&flagObfuscated != 0 {
		if !p.enableObfuscation {
			return merr.WrapErrStageDisabled("obfuscation")
		}
		plain, err := obfuscator.Deobfuscate(p.obfuscator, payload)
		if err != nil {
			metrics.CodecStageFailures.WithLabelValues("deobfuscate").Inc()
			return err
		}
		payload = plain
	}

	if flags&flagCompressed != 0 {
		if !p.enableCompression {
			return merr.WrapErrStageDisabled("compression")
		}
		// 头里带着明文大小，解压预估即精确值。
		plain, err := transform.Alloc("decompress", plainSize, func(dst []byte) transform.Outcome {
			return p.compressor.TryDecompress(dst, payload)
		})
		if err != nil {
			metrics.CodecStageFailures.WithLabelValues("decompress").Inc()
			return err
		}
		payload = plain
	}

	if err := p.serializer.Unmarshal(payload, v); err != nil {
		metrics.CodecStageFailures.WithLabelValues("deserialize").Inc()
		return err
	}
	return nil
}

// EncodeAsync 将 Encode 派发到协程池上执行。
// 若 ctx 在派发前已取消，则直接返回已完成的 Future，不做任何编码。
func EncodeAsync(ctx context.Context, pool *conc.Pool[[]byte], c Codec, v any) *conc.Future[[]byte] {
	return transform.Async(ctx, pool, func() ([]byte, error) {
		return c.Encode(v)
	})
}

// DecodeAsync 将 Decode 派发到协程池上执行。
//
// v 在 Future 完成前归后台任务所有，调用方必须先 Await 再读取 v。
func DecodeAsync(ctx context.Context, pool *conc.Pool[struct{}], c Codec, data []byte, v any) *conc.Future[struct{}] {
	return transform.Async(ctx, pool, func() (struct{}, error) {
		return struct{}{}, c.Decode(data, v)
	})
}
