// Package enumorder 实现枚举常量块的静态检查。
//
// 项目内的枚举约定为：具名整型 + 一个 const 块，零值成员命名为 None
// （或带类型前缀的 XxxNone）并显式赋 iota，其余成员裸名递推、按名字
// 升序排列。零值兜底和可预测的成员顺序都由该约定保证，检查器负责
// 让约定不靠自觉。
package enumorder

import (
	"fmt"
	"go/ast"
	"go/token"
	"sort"
	"strings"

	"golang.org/x/tools/go/analysis"
	"golang.org/x/tools/go/analysis/passes/inspect"
	"golang.org/x/tools/go/ast/inspector"
)

const doc = `check enum const blocks: zero member named None and assigned iota, the rest bare and name-sorted`

// Analyzer 是检查器入口。
var Analyzer = &analysis.Analyzer{
	Name:     "enumorder",
	Doc:      doc,
	Requires: []*analysis.Analyzer{inspect.Analyzer},
	Run:      run,
}

func run(pass *analysis.Pass) (any, error) {
	pector := pass.ResultOf[inspect.Analyzer].(*inspector.Inspector)

	nodeFilter := []ast.Node{
		(*ast.GenDecl)(nil),
	}

	pector.Preorder(nodeFilter, func(node ast.Node) {
		decl := node.(*ast.GenDecl)
		if decl.Tok != token.CONST {
			return
		}
		checkEnumDecl(pass, decl)
	})

	return nil, nil
}

// checkEnumDecl 只认“枚举形态”的 const 块：首个成员带具名类型且显式赋
// iota，其余成员裸名递推。位掩码（1 << iota）、无类型常量、显式赋值的
// 常量组（成员顺序自带语义，如序列化策略项）都不满足该形态，直接跳过。
func checkEnumDecl(pass *analysis.Pass, decl *ast.GenDecl) {
	specs := make([]*ast.ValueSpec, 0, len(decl.Specs))
	for _, s := range decl.Specs {
		spec, ok := s.(*ast.ValueSpec)
		if !ok {
			return
		}
		specs = append(specs, spec)
	}
	if len(specs) == 0 {
		return
	}

	first := specs[0]
	if len(first.Names) != 1 || first.Type == nil || len(first.Values) != 1 {
		return
	}
	value, ok := first.Values[0].(*ast.Ident)
	if !ok || value.Name != "iota" {
		return
	}
	typeIdent, ok := first.Type.(*ast.Ident)
	if !ok {
		return
	}

	enumType := typeIdent.Name

	// 修复是整块重写，要求每个成员恰好一个名字；块里找不到 None
	// 成员时零值名无从确定，只报告不修复。
	fixable := true
	noneIdx := -1
	for i, spec := range specs {
		if len(spec.Names) != 1 {
			fixable = false
			continue
		}
		if noneIdx < 0 && isNoneName(spec.Names[0].Name) {
			noneIdx = i
		}
	}

	report := func(pos token.Pos, format string, args ...any) {
		diag := analysis.Diagnostic{
			Pos:     pos,
			Message: fmt.Sprintf(format, args...),
		}
		if fixable && noneIdx >= 0 {
			diag.SuggestedFixes = []analysis.SuggestedFix{canonicalFix(enumType, specs, noneIdx)}
		}
		pass.Report(diag)
	}

	if !isNoneName(first.Names[0].Name) {
		report(first.Pos(), "enum %s: zero member %s must be named None or %sNone",
			enumType, first.Names[0].Name, enumType)
		return
	}

	tail := specs[1:]
	for _, spec := range tail {
		if len(spec.Names) != 1 || spec.Type != nil || len(spec.Values) != 0 {
			report(spec.Pos(), "enum %s: member %s must be bare, inheriting its value from iota",
				enumType, spec.Names[0].Name)
			return
		}
	}

	for i := 1; i < len(tail); i++ {
		prev, cur := tail[i-1].Names[0].Name, tail[i].Names[0].Name
		if prev < cur {
			continue
		}
		report(tail[i].Pos(), "enum %s: member %s breaks ascending name order",
			enumType, tail[i].Names[0].Name)
		return
	}
}

// canonicalFix 生成整块重写的修复：None 成员提到首位并显式赋 iota，
// 其余成员剥掉显式值与类型、按名字升序裸名排列，成员的文档注释和
// 行尾注释跟随成员移动。
func canonicalFix(enumType string, specs []*ast.ValueSpec, noneIdx int) analysis.SuggestedFix {
	rest := make([]*ast.ValueSpec, 0, len(specs)-1)
	for i, spec := range specs {
		if i != noneIdx {
			rest = append(rest, spec)
		}
	}
	sort.Slice(rest, func(i, j int) bool {
		return rest[i].Names[0].Name < rest[j].Names[0].Name
	})

	var lines []string
	render := func(spec *ast.ValueSpec, entry string) {
		if spec.Doc != nil {
			for _, comment := range spec.Doc.List {
				lines = append(lines, comment.Text)
			}
		}
		if spec.Comment != nil && len(spec.Comment.List) > 0 {
			entry += " " + spec.Comment.List[0].Text
		}
		lines = append(lines, entry)
	}

	none := specs[noneIdx]
	render(none, fmt.Sprintf("%s %s = iota", none.Names[0].Name, enumType))
	for _, spec := range rest {
		render(spec, spec.Names[0].Name)
	}

	start := specs[0].Pos()
	if specs[0].Doc != nil {
		start = specs[0].Doc.Pos()
	}
	last := specs[len(specs)-1]
	end := last.End()
	if last.Comment != nil {
		end = last.Comment.End()
	}

	return analysis.SuggestedFix{
		Message: fmt.Sprintf("rewrite enum %s into canonical order", enumType),
		TextEdits: []analysis.TextEdit{{
			Pos:     start,
			End:     end,
			NewText: []byte(strings.Join(lines, "\n\t")),
		}},
	}
}

// isNoneName 判断成员名是否符合零值命名：None 本身或 XxxNone。
func isNoneName(name string) bool {
	return name == "None" || strings.HasSuffix(name, "None")
}
