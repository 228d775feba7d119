package serializer

import (
	"strings"
	"unicode"

	jsoniter "github.com/json-iterator/go"

	"github.com/lk2023060901/codec-garden-go/internal/json"
	"github.com/lk2023060901/codec-garden-go/pkg/transform"
	"github.com/lk2023060901/codec-garden-go/pkg/util/merr"
)

// JSONSerializer 基于 JSON 的 Serializer 实现。
//
// 默认策略下走 sonic 快路径；策略偏离默认（改命名风格、忽略大小写、
// 缩进输出）时切换到 json-iterator 引擎按策略编解码。
//
// 策略字段的 Go 渲染约定：
//   - Enums：Go 的具名整型枚举天然按数值编码，即 EnumEncodeValue；
//     按名字编码由枚举类型自身的 MarshalJSON 承担，因此策略必须
//     允许数值编码，仅按名字的策略在创建时拒绝。
//   - RefLoops：encoding/json 系引擎遇到环直接报错，Ignore/Copy
//     均表现为此；Preserve 需要引用标记，JSON 引擎不支持。
//   - Binding：Go 只有导出实例字段可序列化，其余标志位仅保留语义。
//   - OmitEmpty：Go 里由 `json:",omitempty"` 标签逐字段控制。
type JSONSerializer struct {
	opts Options
	// api 仅在策略偏离默认时使用，nil 表示走 sonic 快路径。
	api jsoniter.API
}

// NewJSON 创建一个默认策略的 JSON 序列化器。
func NewJSON() *JSONSerializer {
	return &JSONSerializer{opts: DefaultOptions()}
}

// NewJSONWithOptions 创建一个按策略 opts 编解码的 JSON 序列化器。
func NewJSONWithOptions(opts Options) (*JSONSerializer, error) {
	if opts.RefLoops == RefLoopPreserve {
		return nil, merr.WrapErrParameterInvalidMsg("json serializer cannot preserve reference loops")
	}
	if !opts.effectiveEnums().Has(EnumEncodeValue) {
		return nil, merr.WrapErrParameterInvalidMsg("json serializer encodes enums by value; name-only encoding needs MarshalJSON on the enum type")
	}
	s := &JSONSerializer{opts: opts}
	if needsPolicyEngine(opts) {
		api := jsoniter.Config{
			EscapeHTML:    true,
			CaseSensitive: !opts.CaseInsensitive,
			IndentionStep: len(opts.Indent),
		}.Froze()
		if opts.Naming != NamingIdentity {
			api.RegisterExtension(&namingExtension{convention: opts.Naming})
		}
		s.api = api
	}
	return s, nil
}

// needsPolicyEngine 判断策略是否超出 sonic 快路径能表达的范围。
func needsPolicyEngine(opts Options) bool {
	return opts.Naming != NamingIdentity || opts.CaseInsensitive || opts.Indent != ""
}

// Options 返回创建时的策略。
func (s *JSONSerializer) Options() Options {
	return s.opts
}

func (s *JSONSerializer) TrySerialize(dst []byte, v any) transform.Outcome {
	data, err := s.Marshal(v)
	if err != nil {
		return transform.Failed()
	}
	if len(dst) < len(data) {
		return transform.NeedSize(len(data))
	}
	copy(dst, data)
	return transform.Written(len(data))
}

// Marshal 一步完成编码 + 分配，是 serializer.Marshal 的快路径。
func (s *JSONSerializer) Marshal(v any) ([]byte, error) {
	var (
		data []byte
		err  error
	)
	if s.api != nil {
		data, err = s.api.Marshal(v)
	} else {
		data, err = json.Marshal(v)
	}
	if err != nil {
		return nil, merr.WrapErrSerializeFailed("json", err.Error())
	}
	return data, nil
}

func (s *JSONSerializer) Unmarshal(data []byte, v any) error {
	var err error
	if s.api != nil {
		err = s.api.Unmarshal(data, v)
	} else {
		err = json.Unmarshal(data, v)
	}
	if err != nil {
		return merr.WrapErrDeserializeFailed("json", err.Error())
	}
	return nil
}

func (s *JSONSerializer) Format() string {
	return "json"
}

var (
	_ Serializer      = (*JSONSerializer)(nil)
	_ directMarshaler = (*JSONSerializer)(nil)
)

// namingExtension 按命名风格重写结构体成员名。
// 带显式 json 标签名的字段尊重标签，不做改写。
type namingExtension struct {
	jsoniter.DummyExtension
	convention NamingConvention
}

func (e *namingExtension) UpdateStructDescriptor(structDescriptor *jsoniter.StructDescriptor) {
	for _, binding := range structDescriptor.Fields {
		if tag, ok := binding.Field.Tag().Lookup("json"); ok {
			if name := strings.Split(tag, ",")[0]; name != "" {
				continue
			}
		}
		name := renderName(binding.Field.Name(), e.convention)
		binding.ToNames = []string{name}
		binding.FromNames = []string{name}
	}
}

// renderName 把 Go 风格的字段名转换为指定命名风格。
func renderName(name string, convention NamingConvention) string {
	words := splitWords(name)
	if len(words) == 0 {
		return name
	}
	switch convention {
	case NamingPascal:
		for i, w := range words {
			words[i] = capitalize(w)
		}
		return strings.Join(words, "")
	case NamingCamel:
		for i, w := range words {
			if i == 0 {
				words[i] = strings.ToLower(w)
			} else {
				words[i] = capitalize(w)
			}
		}
		return strings.Join(words, "")
	case NamingSnake:
		for i, w := range words {
			words[i] = strings.ToLower(w)
		}
		return strings.Join(words, "_")
	case NamingKebab:
		for i, w := range words {
			words[i] = strings.ToLower(w)
		}
		return strings.Join(words, "-")
	case NamingMacro:
		for i, w := range words {
			words[i] = strings.ToUpper(w)
		}
		return strings.Join(words, "_")
	default:
		return name
	}
}

// splitWords 按驼峰边界切词，连续大写视为一个缩写词，
// 例如 HTTPServerURL -> [HTTP Server URL]。
func splitWords(name string) []string {
	var words []string
	runes := []rune(name)
	start := 0
	for i := 1; i < len(runes); i++ {
		prev, cur := runes[i-1], runes[i]
		boundary := false
		if unicode.IsUpper(cur) && !unicode.IsUpper(prev) {
			boundary = true
		} else if unicode.IsUpper(prev) && unicode.IsUpper(cur) &&
			i+1 < len(runes) && unicode.IsLower(runes[i+1]) {
			boundary = true
		}
		if boundary {
			words = append(words, string(runes[start:i]))
			start = i
		}
	}
	if start < len(runes) {
		words = append(words, string(runes[start:]))
	}
	return words
}

func capitalize(word string) string {
	if word == "" {
		return word
	}
	runes := []rune(word)
	out := string(unicode.ToUpper(runes[0]))
	if len(runes) > 1 {
		out += strings.ToLower(string(runes[1:]))
	}
	return out
}
