package serializer

import (
	"google.golang.org/protobuf/proto"

	"github.com/lk2023060901/codec-garden-go/pkg/transform"
	"github.com/lk2023060901/codec-garden-go/pkg/util/merr"
)

// ProtoSerializer 基于 Protobuf 的 Serializer 实现，只接受 proto.Message。
//
// proto.Size 能在编码前算出精确长度，TrySerialize 的容量不足报告
// 永远是精确值，分配版封装最多一次重试即成功。
type ProtoSerializer struct{}

// NewProto 创建一个 Protobuf 序列化器。
func NewProto() *ProtoSerializer {
	return &ProtoSerializer{}
}

func (s *ProtoSerializer) TrySerialize(dst []byte, v any) transform.Outcome {
	msg, ok := v.(proto.Message)
	if !ok {
		return transform.Failed()
	}
	required := proto.Size(msg)
	if len(dst) < required {
		return transform.NeedSize(required)
	}
	if _, err := (proto.MarshalOptions{}).MarshalAppend(dst[:0], msg); err != nil {
		return transform.Failed()
	}
	return transform.Written(required)
}

// Marshal 一步完成编码 + 分配，是 serializer.Marshal 的快路径。
func (s *ProtoSerializer) Marshal(v any) ([]byte, error) {
	msg, ok := v.(proto.Message)
	if !ok {
		return nil, merr.WrapErrSerializeFailed("protobuf", "value does not implement proto.Message")
	}
	data, err := proto.Marshal(msg)
	if err != nil {
		return nil, merr.WrapErrSerializeFailed("protobuf", err.Error())
	}
	return data, nil
}

func (s *ProtoSerializer) Unmarshal(data []byte, v any) error {
	msg, ok := v.(proto.Message)
	if !ok {
		return merr.WrapErrDeserializeFailed("protobuf", "value does not implement proto.Message")
	}
	if err := proto.Unmarshal(data, msg); err != nil {
		return merr.WrapErrDeserializeFailed("protobuf", err.Error())
	}
	return nil
}

func (s *ProtoSerializer) Format() string {
	return "protobuf"
}

var (
	_ Serializer      = (*ProtoSerializer)(nil)
	_ directMarshaler = (*ProtoSerializer)(nil)
)
