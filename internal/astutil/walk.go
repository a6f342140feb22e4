// Package astutil 提供只读遍历语法树的工具，供检查器和代码生成器使用
package astutil

import (
	"github.com/tangzhangming/jack/internal/ast"
)

// Walk 先序遍历以 node 为根的子树，按源代码顺序访问子节点。
// fn 返回 false 时跳过该节点的子树。nil 子节点不会被访问。
func Walk(node ast.Node, fn func(ast.Node) bool) {
	if ast.IsNil(node) || !fn(node) {
		return
	}

	switch n := node.(type) {
	case *ast.Program:
		for _, c := range n.Classes {
			Walk(c, fn)
		}

	case *ast.Class:
		for _, v := range n.Variables {
			Walk(v, fn)
		}
		for _, s := range n.Subroutines {
			Walk(s, fn)
		}

	case *ast.ClassSubroutine:
		for _, p := range n.Parameters {
			Walk(p, fn)
		}
		for _, l := range n.LocalVariables {
			Walk(l, fn)
		}
		walkStatements(n.Body, fn)

	case *ast.Do:
		walkExpr(n.Call, fn)

	case *ast.Let:
		walkExpr(n.Value, fn)

	case *ast.While:
		walkExpr(n.Condition, fn)
		walkStatements(n.Body, fn)

	case *ast.If:
		walkExpr(n.Condition, fn)
		walkStatements(n.Body, fn)
		walkStatements(n.ElseBody, fn)

	case *ast.ArrayAccess:
		walkExpr(n.Base, fn)
		walkExpr(n.Index, fn)

	case *ast.PropertyAccess:
		walkExpr(n.Base, fn)

	case *ast.UnaryOperation:
		walkExpr(n.Rhs, fn)

	case *ast.BinaryOperation:
		walkExpr(n.Lhs, fn)
		walkExpr(n.Rhs, fn)

	case *ast.SubroutineCall:
		walkExpr(n.Subroutine, fn)
		for _, arg := range n.Args {
			walkExpr(arg, fn)
		}
	}
}

func walkExpr(e ast.Expression, fn func(ast.Node) bool) {
	Walk(e, fn)
}

func walkStatements(list []ast.Statement, fn func(ast.Node) bool) {
	for _, s := range list {
		Walk(s, fn)
	}
}

// Inspect 遍历子树并对每个节点调用 fn，不提供剪枝
func Inspect(node ast.Node, fn func(ast.Node)) {
	Walk(node, func(n ast.Node) bool {
		fn(n)
		return true
	})
}

// Identifiers 按出现顺序收集子树中的全部标识符名称（可能重复）
func Identifiers(node ast.Node) []string {
	var names []string
	Inspect(node, func(n ast.Node) {
		if id, ok := n.(*ast.Identifier); ok {
			names = append(names, id.Name)
		}
	})
	return names
}

// Calls 按出现顺序收集子树中的全部调用表达式
func Calls(node ast.Node) []*ast.SubroutineCall {
	var calls []*ast.SubroutineCall
	Inspect(node, func(n ast.Node) {
		if c, ok := n.(*ast.SubroutineCall); ok {
			calls = append(calls, c)
		}
	})
	return calls
}
