package astutil

import (
	"github.com/tangzhangming/jack/internal/ast"
)

// Stats 语法树的节点统计
type Stats struct {
	Classes        int `json:"classes" yaml:"classes"`
	ClassVariables int `json:"class_variables" yaml:"class_variables"`
	Subroutines    int `json:"subroutines" yaml:"subroutines"`
	Declarations   int `json:"declarations" yaml:"declarations"` // 参数与局部变量

	Statements  map[string]int `json:"statements" yaml:"statements"`   // 按变体名计数
	Expressions map[string]int `json:"expressions" yaml:"expressions"` // 按变体名计数

	MaxExpressionDepth int `json:"max_expression_depth" yaml:"max_expression_depth"`
	MaxNestingDepth    int `json:"max_nesting_depth" yaml:"max_nesting_depth"` // while/if 嵌套层数
}

// StatementCount 语句总数
func (s Stats) StatementCount() int { return sum(s.Statements) }

// ExpressionCount 表达式总数
func (s Stats) ExpressionCount() int { return sum(s.Expressions) }

func sum(m map[string]int) int {
	n := 0
	for _, v := range m {
		n += v
	}
	return n
}

// Count 统计以 node 为根的子树
func Count(node ast.Node) Stats {
	st := Stats{
		Statements:  make(map[string]int),
		Expressions: make(map[string]int),
	}

	Inspect(node, func(n ast.Node) {
		switch n := n.(type) {
		case *ast.Class:
			st.Classes++
		case ast.ClassVariable:
			st.ClassVariables++
		case *ast.ClassSubroutine:
			st.Subroutines++
			if d := nesting(n.Body); d > st.MaxNestingDepth {
				st.MaxNestingDepth = d
			}
		case ast.VariableDeclaration:
			st.Declarations++
		case ast.Statement:
			st.Statements[StatementKind(n)]++
		case ast.Expression:
			st.Expressions[ExpressionKind(n)]++
		}
	})

	// 以语句为根时没有子程序，嵌套深度单独计算
	if s, ok := node.(ast.Statement); ok && !ast.IsNil(s) {
		st.MaxNestingDepth = nesting([]ast.Statement{s})
	}

	Inspect(node, func(n ast.Node) {
		if e, ok := n.(ast.Expression); ok {
			if d := Depth(e); d > st.MaxExpressionDepth {
				st.MaxExpressionDepth = d
			}
		}
	})

	return st
}

// Depth 返回表达式树的深度，叶子为 1
func Depth(e ast.Expression) int {
	if ast.IsNil(e) {
		return 0
	}

	switch e := e.(type) {
	case *ast.ArrayAccess:
		return 1 + max(Depth(e.Base), Depth(e.Index))
	case *ast.PropertyAccess:
		return 1 + Depth(e.Base)
	case *ast.UnaryOperation:
		return 1 + Depth(e.Rhs)
	case *ast.BinaryOperation:
		return 1 + max(Depth(e.Lhs), Depth(e.Rhs))
	case *ast.SubroutineCall:
		d := Depth(e.Subroutine)
		for _, arg := range e.Args {
			d = max(d, Depth(arg))
		}
		return 1 + d
	}
	return 1
}

// nesting 返回语句序列中 while/if 的最大嵌套层数
func nesting(body []ast.Statement) int {
	depth := 0
	for _, s := range body {
		switch s := s.(type) {
		case *ast.While:
			if s == nil {
				continue
			}
			depth = max(depth, 1+nesting(s.Body))
		case *ast.If:
			if s == nil {
				continue
			}
			depth = max(depth, 1+max(nesting(s.Body), nesting(s.ElseBody)))
		}
	}
	return depth
}

// StatementKind 返回语句变体名
func StatementKind(s ast.Statement) string {
	switch s.(type) {
	case *ast.Do:
		return "Do"
	case *ast.Let:
		return "Let"
	case *ast.While:
		return "While"
	case *ast.Return:
		return "Return"
	case *ast.If:
		return "If"
	}
	return "Unknown"
}

// ExpressionKind 返回表达式变体名
func ExpressionKind(e ast.Expression) string {
	switch e.(type) {
	case *ast.Identifier:
		return "Identifier"
	case *ast.ArrayAccess:
		return "ArrayAccess"
	case *ast.PropertyAccess:
		return "PropertyAccess"
	case *ast.UnaryOperation:
		return "UnaryOperation"
	case *ast.BinaryOperation:
		return "BinaryOperation"
	case *ast.SubroutineCall:
		return "SubroutineCall"
	}
	return "Unknown"
}
