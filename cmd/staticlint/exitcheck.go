package main

import (
	"go/ast"
	"go/types"
	"strings"

	"golang.org/x/tools/go/analysis"
	"golang.org/x/tools/go/analysis/passes/inspect"
	"golang.org/x/tools/go/ast/inspector"
)

// NoDirectOsExit запрещает прямой вызов os.Exit в функции main пакета main:
// он обходит defer, а значит и сохранение фикстур при остановке сервера.
//
//nolint:gochecknoglobals
var NoDirectOsExit = &analysis.Analyzer{
	Name:     "nodirectosexit",
	Doc:      "check for direct os.Exit calls in main function of package main",
	Requires: []*analysis.Analyzer{inspect.Analyzer},
	Run:      runNoDirectOsExit,
}

func runNoDirectOsExit(pass *analysis.Pass) (any, error) {
	if pass.Pkg.Name() != "main" {
		return nil, nil //nolint:nilnil
	}
	insp, _ := pass.ResultOf[inspect.Analyzer].(*inspector.Inspector)

	insp.Preorder([]ast.Node{(*ast.FuncDecl)(nil)}, func(n ast.Node) {
		fn, _ := n.(*ast.FuncDecl)
		if fn.Name.Name != "main" || fn.Recv != nil || fn.Body == nil {
			return
		}
		// Сгенерированные файлы тестового бинаря лежат в кэше сборки.
		if strings.Contains(pass.Fset.Position(fn.Pos()).Filename, "go-build") {
			return
		}
		ast.Inspect(fn.Body, func(node ast.Node) bool {
			call, ok := node.(*ast.CallExpr)
			if !ok {
				return true
			}
			if isOsExit(pass, call) {
				pass.Reportf(call.Pos(), "direct call os.Exit is not allowed in main function")
			}
			return true
		})
	})
	return nil, nil //nolint:nilnil
}

// isOsExit сравнивает по объекту функции, поэтому алиас импорта не спасает.
func isOsExit(pass *analysis.Pass, call *ast.CallExpr) bool {
	sel, ok := call.Fun.(*ast.SelectorExpr)
	if !ok {
		return false
	}
	fn, ok := pass.TypesInfo.Uses[sel.Sel].(*types.Func)
	if !ok || fn.Pkg() == nil {
		return false
	}
	return fn.Pkg().Path() == "os" && fn.Name() == "Exit"
}
