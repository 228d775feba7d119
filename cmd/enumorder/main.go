// enumorder 以独立命令运行枚举常量块检查，
// 用法同 go vet：enumorder ./...
package main

import (
	"golang.org/x/tools/go/analysis/singlechecker"

	"github.com/lk2023060901/codec-garden-go/enumorder"
)

func main() {
	singlechecker.Main(enumorder.Analyzer)
}
