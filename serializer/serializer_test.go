package serializer

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/lk2023060901/codec-garden-go/pkg/util/conc"
	"github.com/lk2023060901/codec-garden-go/pkg/util/merr"
)

type testUser struct {
	UserName  string `json:"user_name"`
	HTTPCode  int
	Balance   float64
	Tags      []string
	Anonymous bool
}

func TestJSONRoundTrip(t *testing.T) {
	s := NewJSON()
	assert.Equal(t, "json", s.Format())

	src := testUser{
		UserName: "gardener",
		HTTPCode: 200,
		Balance:  3.14,
		Tags:     []string{"a", "b"},
	}

	data, err := Marshal(s, src)
	assert.NoError(t, err)

	var restored testUser
	assert.NoError(t, s.Unmarshal(data, &restored))
	assert.Equal(t, src, restored)
}

func TestJSONTrySerializeSizing(t *testing.T) {
	s := NewJSON()
	src := testUser{UserName: "probe"}

	out := s.TrySerialize(nil, src)
	assert.True(t, out.Undersized())
	assert.Positive(t, out.Size)

	dst := make([]byte, out.Size)
	out = s.TrySerialize(dst, src)
	assert.True(t, out.OK)

	var restored testUser
	assert.NoError(t, s.Unmarshal(dst[:out.Size], &restored))
	assert.Equal(t, src.UserName, restored.UserName)
}

func TestJSONUnmarshalFailed(t *testing.T) {
	s := NewJSON()
	var v testUser
	err := s.Unmarshal([]byte("{not json"), &v)
	assert.ErrorIs(t, err, merr.ErrDeserializeFailed)
}

func TestJSONSerializeUnsupportedValue(t *testing.T) {
	s := NewJSON()

	_, err := Marshal(s, make(chan int))
	assert.ErrorIs(t, err, merr.ErrSerializeFailed)

	out := s.TrySerialize(make([]byte, 64), make(chan int))
	assert.False(t, out.OK)
	assert.Zero(t, out.Size)
}

func TestJSONSnakeNaming(t *testing.T) {
	s, err := NewJSONWithOptions(Options{Naming: NamingSnake})
	assert.NoError(t, err)

	data, err := Marshal(s, testUser{UserName: "gardener", HTTPCode: 404})
	assert.NoError(t, err)

	text := string(data)
	// 显式标签优先于命名策略。
	assert.Contains(t, text, `"user_name"`)
	assert.Contains(t, text, `"http_code"`)
	assert.Contains(t, text, `"anonymous"`)

	var restored testUser
	assert.NoError(t, s.Unmarshal(data, &restored))
	assert.Equal(t, "gardener", restored.UserName)
	assert.Equal(t, 404, restored.HTTPCode)
}

func TestJSONCaseInsensitive(t *testing.T) {
	s, err := NewJSONWithOptions(Options{CaseInsensitive: true})
	assert.NoError(t, err)

	var restored testUser
	assert.NoError(t, s.Unmarshal([]byte(`{"USER_NAME":"gardener"}`), &restored))
	assert.Equal(t, "gardener", restored.UserName)
}

func TestJSONIndent(t *testing.T) {
	s, err := NewJSONWithOptions(Options{Indent: "  "})
	assert.NoError(t, err)

	data, err := Marshal(s, testUser{UserName: "pretty"})
	assert.NoError(t, err)
	assert.True(t, strings.Contains(string(data), "\n"))
}

func TestJSONRefLoopPreserveRejected(t *testing.T) {
	_, err := NewJSONWithOptions(Options{RefLoops: RefLoopPreserve})
	assert.ErrorIs(t, err, merr.ErrParameterInvalid)
}

func TestJSONEnumEncoding(t *testing.T) {
	// 仅按名字编码超出 JSON 引擎能力，创建即失败。
	_, err := NewJSONWithOptions(Options{Enums: EnumEncodeName})
	assert.ErrorIs(t, err, merr.ErrParameterInvalid)

	// 名字与数值并存时引擎按数值输出，零值归一化到数值编码。
	for _, enums := range []EnumEncoding{0, EnumEncodeValue, EnumEncodeName | EnumEncodeValue} {
		s, err := NewJSONWithOptions(Options{Enums: enums})
		assert.NoError(t, err)

		data, err := Marshal(s, map[string]NamingConvention{"naming": NamingSnake})
		assert.NoError(t, err)
		assert.JSONEq(t, `{"naming": 3}`, string(data))
	}
}

func TestRenderName(t *testing.T) {
	cases := []struct {
		convention NamingConvention
		in, want   string
	}{
		{NamingIdentity, "HTTPServerURL", "HTTPServerURL"},
		{NamingPascal, "userName", "UserName"},
		{NamingCamel, "UserName", "userName"},
		{NamingSnake, "HTTPServerURL", "http_server_url"},
		{NamingSnake, "UserID", "user_id"},
		{NamingKebab, "MaxRetryCount", "max-retry-count"},
		{NamingMacro, "bufferSize", "BUFFER_SIZE"},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, renderName(c.in, c.convention), "%s via %s", c.in, c.convention)
	}
}

func TestOptionsDefaults(t *testing.T) {
	opts := DefaultOptions()
	assert.Equal(t, NamingIdentity, opts.Naming)
	assert.Equal(t, BindingDefault, opts.Binding)
	assert.Equal(t, EnumEncodeValue, opts.effectiveEnums())
	assert.Equal(t, RefLoopIgnore, opts.RefLoops)
	assert.Equal(t, BoxingNone, opts.Boxing)

	// 零值 Options 与 DefaultOptions 行为一致。
	assert.Equal(t, EnumEncodeValue, Options{}.effectiveEnums())
	assert.False(t, needsPolicyEngine(opts))
}

func TestBindingFlags(t *testing.T) {
	b := BindingPublic | BindingInstance
	assert.True(t, b.Has(BindingPublic))
	assert.True(t, b.Has(BindingInstance))
	assert.False(t, b.Has(BindingStatic))
	assert.False(t, BindingDefault.Has(BindingPublic))

	e := EnumEncodeName | EnumEncodeValue
	assert.True(t, e.Has(EnumEncodeName))
	assert.True(t, e.Has(EnumEncodeValue))
}

func TestProtoRoundTrip(t *testing.T) {
	s := NewProto()
	assert.Equal(t, "protobuf", s.Format())

	src := wrapperspb.String("proto payload")
	data, err := Marshal(s, src)
	assert.NoError(t, err)

	restored := &wrapperspb.StringValue{}
	assert.NoError(t, s.Unmarshal(data, restored))
	assert.True(t, proto.Equal(src, restored))
}

func TestProtoExactSizing(t *testing.T) {
	s := NewProto()
	src := wrapperspb.String("sized")

	out := s.TrySerialize(nil, src)
	assert.True(t, out.Undersized())
	assert.Equal(t, proto.Size(src), out.Size)

	dst := make([]byte, out.Size)
	out = s.TrySerialize(dst, src)
	assert.True(t, out.OK)
	assert.Equal(t, proto.Size(src), out.Size)
}

func TestProtoRejectsNonMessage(t *testing.T) {
	s := NewProto()

	_, err := Marshal(s, "not a message")
	assert.ErrorIs(t, err, merr.ErrSerializeFailed)

	err = s.Unmarshal([]byte{}, "not a message")
	assert.ErrorIs(t, err, merr.ErrDeserializeFailed)

	out := s.TrySerialize(make([]byte, 16), 42)
	assert.False(t, out.OK)
	assert.Zero(t, out.Size)
}

func TestMarshalAsync(t *testing.T) {
	pool := conc.NewPool[[]byte](2)
	defer pool.Release()

	s := NewJSON()
	src := testUser{UserName: "async"}

	data, err := MarshalAsync(context.Background(), pool, s, src).Await()
	assert.NoError(t, err)

	var restored testUser
	assert.NoError(t, s.Unmarshal(data, &restored))
	assert.Equal(t, src.UserName, restored.UserName)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = MarshalAsync(ctx, pool, s, src).Await()
	assert.ErrorIs(t, err, context.Canceled)
}

func TestUnmarshalAsync(t *testing.T) {
	pool := conc.NewPool[struct{}](2)
	defer pool.Release()

	s := NewJSON()
	data, err := Marshal(s, testUser{UserName: "background"})
	assert.NoError(t, err)

	var restored testUser
	_, err = UnmarshalAsync(context.Background(), pool, s, data, &restored).Await()
	assert.NoError(t, err)
	assert.Equal(t, "background", restored.UserName)
}
