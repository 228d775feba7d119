package serializer

// NamingConvention 指定序列化成员名的命名风格。
//
// Identity 表示按字段原名输出，其余风格在序列化时做统一转换，
// 例如 UserName 在 Snake 下输出为 user_name，在 Kebab 下输出为 user-name。
type NamingConvention int32

// 策略枚举显式赋值：成员顺序承载语义而非按名字排列，
// 不属于 enumorder 约定覆盖的枚举形态。
const (
	NamingIdentity NamingConvention = 0
	NamingPascal   NamingConvention = 1
	NamingCamel    NamingConvention = 2
	NamingSnake    NamingConvention = 3
	NamingKebab    NamingConvention = 4
	NamingMacro    NamingConvention = 5
)

var namingConventionNames = map[NamingConvention]string{
	NamingIdentity: "identity",
	NamingPascal:   "pascal",
	NamingCamel:    "camel",
	NamingSnake:    "snake",
	NamingKebab:    "kebab",
	NamingMacro:    "macro",
}

func (c NamingConvention) String() string {
	if name, ok := namingConventionNames[c]; ok {
		return name
	}
	return "unknown"
}

// MemberBinding 按位组合描述参与序列化的成员范围。
//
// BindingDefault（零值）交由各格式自行决定，在 Go 里等价于
// BindingPublic|BindingInstance：导出的实例字段。其余标志位用于
// 在配置中完整表达策略，跨语言对齐语义。
type MemberBinding uint32

// BindingDefault 交由各格式自行决定。
const BindingDefault MemberBinding = 0

const (
	BindingPublic MemberBinding = 1 << iota
	BindingNonPublic
	BindingInstance
	BindingStatic
)

// Has 判断绑定范围是否包含指定标志位。
func (b MemberBinding) Has(flag MemberBinding) bool {
	return b&flag != 0
}

// EnumEncoding 按位组合描述枚举值的编码方式：按名字、按数值或两者并存。
type EnumEncoding uint32

const (
	EnumEncodeName EnumEncoding = 1 << iota
	EnumEncodeValue
)

// Has 判断编码方式是否包含指定标志位。
func (e EnumEncoding) Has(flag EnumEncoding) bool {
	return e&flag != 0
}

// ReferenceLoop 指定对象图中出现循环引用时的处理策略。
type ReferenceLoop int32

const (
	// RefLoopIgnore 遇到环时断开，静默丢弃形成环的那条边。
	RefLoopIgnore ReferenceLoop = 0
	// RefLoopCopy 按值展开，环上的对象被复制（可能导致无限展开，由实现限深）。
	RefLoopCopy ReferenceLoop = 1
	// RefLoopPreserve 携带引用标记，反序列化时还原共享关系。
	RefLoopPreserve ReferenceLoop = 2
)

// Boxing 指定哪些类别的值在编码时带上类型信息。
type Boxing int32

const (
	BoxingNone    Boxing = 0
	BoxingNumeric Boxing = 1
	BoxingDerived Boxing = 2
	BoxingAll     Boxing = 3
)

// Options 是序列化策略的值对象：一组正交的开关与风格选择，
// 描述“怎么序列化”而与具体格式无关。各 Serializer 实现按自身
// 能力消费其中的字段，消费不了的字段保持文档语义、不报错。
//
// 零值即 DefaultOptions 的行为。Options 一经创建不应修改，
// 需要变化时基于旧值拷贝出新值。
type Options struct {
	// Naming 成员名命名风格。
	Naming NamingConvention
	// KeyNamingSerialize 字典（map）键在序列化时的命名风格。
	// Go 的 map 键是运行期值，JSON 引擎按原样输出，字段保留跨语言策略语义。
	KeyNamingSerialize NamingConvention
	// KeyNamingDeserialize 字典键在反序列化时的命名风格，语义同上。
	KeyNamingDeserialize NamingConvention
	// Binding 参与序列化的成员范围。
	Binding MemberBinding
	// Enums 枚举值编码方式。零值等价于 EnumEncodeValue。
	Enums EnumEncoding
	// RefLoops 循环引用处理策略。
	RefLoops ReferenceLoop
	// Boxing 类型信息附带范围。
	Boxing Boxing
	// CaseInsensitive 反序列化时成员名匹配是否忽略大小写。
	CaseInsensitive bool
	// OmitEmpty 跳过零值成员。
	OmitEmpty bool
	// Indent 非空时输出带缩进的文本，仅对文本格式生效。
	Indent string
}

// DefaultOptions 返回默认策略：原样命名、默认绑定、按数值编码枚举、
// 忽略循环引用、不装箱、大小写敏感、不省略零值、紧凑输出。
func DefaultOptions() Options {
	return Options{
		Naming:   NamingIdentity,
		Binding:  BindingDefault,
		Enums:    EnumEncodeValue,
		RefLoops: RefLoopIgnore,
		Boxing:   BoxingNone,
	}
}

// effectiveEnums 归一化枚举编码：零值落到 EnumEncodeValue。
func (o Options) effectiveEnums() EnumEncoding {
	if o.Enums == 0 {
		return EnumEncodeValue
	}
	return o.Enums
}
