package log

import (
	"go.uber.org/zap"
)

const (
	FieldNameModule    = "module"
	FieldNameComponent = "component"
	FieldNameAlgorithm = "algorithm"
)

// FieldModule 返回一个包含模块名的 zap 字段。
func FieldModule(module string) zap.Field {
	return zap.String(FieldNameModule, module)
}

// FieldComponent 返回一个包含组件名的 zap 字段。
func FieldComponent(component string) zap.Field {
	return zap.String(FieldNameComponent, component)
}

// FieldAlgorithm 返回一个包含算法名的 zap 字段，
// 供压缩/加密/哈希等组件统一标注所用算法。
func FieldAlgorithm(algorithm string) zap.Field {
	return zap.String(FieldNameAlgorithm, algorithm)
}
