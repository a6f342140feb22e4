// Package ast 定义类语言的抽象语法树
//
// 树是不可变的值图：节点构造后不再修改，子节点只属于一个父节点。
// 结构相等、哈希与克隆见 equal.go、hash.go、clone.go。
package ast

import (
	"strconv"
	"strings"
)

// Node 是所有 AST 节点的基接口
type Node interface {
	String() string    // 返回节点的字符串表示（用于调试）
	encode(e *encoder) // 写入规范编码
}

// Expression 表示一个表达式节点
//
// 变体集合是封闭的：Identifier, ArrayAccess, PropertyAccess,
// UnaryOperation, BinaryOperation, SubroutineCall。
type Expression interface {
	Node
	exprNode()
}

// Statement 表示一个语句节点
//
// 变体集合是封闭的：Do, Let, While, Return, If。
type Statement interface {
	Node
	stmtNode()
}

// ============================================================================
// 声明节点
// ============================================================================

// VariableDeclaration 带类型的名称（参数或局部变量）
type VariableDeclaration struct {
	Name string
	Type DataType
}

func (d VariableDeclaration) String() string { return d.Type.String() + " " + d.Name }

// ClassVariable 静态变量或实例字段声明
type ClassVariable struct {
	Name string
	Type ClassVariableType
}

func (v ClassVariable) String() string { return v.Type.String() + " " + v.Name }

// ============================================================================
// 表达式节点
// ============================================================================

// Identifier 标识符
type Identifier struct {
	Name string
}

func (e *Identifier) String() string { return e.Name }
func (e *Identifier) exprNode()      {}

// ArrayAccess 数组访问 (a[i])
type ArrayAccess struct {
	Base  Expression
	Index Expression
}

func (e *ArrayAccess) String() string {
	return str(e.Base) + "[" + str(e.Index) + "]"
}
func (e *ArrayAccess) exprNode() {}

// PropertyAccess 属性访问 (obj.name)
type PropertyAccess struct {
	Base         Expression
	PropertyName string
}

func (e *PropertyAccess) String() string { return str(e.Base) + "." + e.PropertyName }
func (e *PropertyAccess) exprNode()      {}

// UnaryOperation 一元运算 (-x, ~x)
type UnaryOperation struct {
	Operator UnaryOperator
	Rhs      Expression
}

func (e *UnaryOperation) String() string { return e.Operator.String() + str(e.Rhs) }
func (e *UnaryOperation) exprNode()      {}

// BinaryOperation 二元运算
//
// 树本身不编码优先级，结构即运算顺序。
type BinaryOperation struct {
	Lhs      Expression
	Operator BinaryOperator
	Rhs      Expression
}

func (e *BinaryOperation) String() string {
	return "(" + str(e.Lhs) + " " + e.Operator.String() + " " + str(e.Rhs) + ")"
}
func (e *BinaryOperation) exprNode() {}

// SubroutineCall 子程序调用
//
// Subroutine 可以是任意表达式，调用目标是否合法由语义分析判断。
type SubroutineCall struct {
	Subroutine Expression
	Args       []Expression
}

func (e *SubroutineCall) String() string {
	args := make([]string, len(e.Args))
	for i, arg := range e.Args {
		args[i] = str(arg)
	}
	return str(e.Subroutine) + "(" + strings.Join(args, ", ") + ")"
}
func (e *SubroutineCall) exprNode() {}

// ============================================================================
// 语句节点
// ============================================================================

// Do 求值一个表达式（通常是调用）并丢弃结果
type Do struct {
	Call Expression
}

func (s *Do) String() string { return "do " + str(s.Call) + ";" }
func (s *Do) stmtNode()      {}

// Let 把值赋给已存在的变量
type Let struct {
	VariableName string
	Value        Expression
}

func (s *Let) String() string { return "let " + s.VariableName + " = " + str(s.Value) + ";" }
func (s *Let) stmtNode()      {}

// While 循环，Body 可以为空
type While struct {
	Condition Expression
	Body      []Statement
}

func (s *While) String() string {
	return "while (" + str(s.Condition) + ") " + block(s.Body)
}
func (s *While) stmtNode() {}

// Return 返回语句，不携带值
type Return struct{}

func (s *Return) String() string { return "return;" }
func (s *Return) stmtNode()      {}

// If 条件语句
//
// 没有 else 子句时 ElseBody 为空，不使用单独的标记。
type If struct {
	Condition Expression
	Body      []Statement
	ElseBody  []Statement
}

func (s *If) String() string {
	out := "if (" + str(s.Condition) + ") " + block(s.Body)
	if len(s.ElseBody) > 0 {
		out += " else " + block(s.ElseBody)
	}
	return out
}
func (s *If) stmtNode() {}

// ============================================================================
// 子程序、类与程序
// ============================================================================

// ClassSubroutine 构造函数、方法或静态函数
type ClassSubroutine struct {
	Name           string
	Type           ClassSubroutineType
	Parameters     []VariableDeclaration
	LocalVariables []VariableDeclaration
	Body           []Statement
}

func (s *ClassSubroutine) String() string {
	params := make([]string, len(s.Parameters))
	for i, p := range s.Parameters {
		params[i] = p.String()
	}
	return s.Type.String() + " " + s.Name + "(" + strings.Join(params, ", ") + ")"
}

// Class 一个类定义
type Class struct {
	Variables   []ClassVariable
	Subroutines []*ClassSubroutine
}

func (c *Class) String() string {
	return "class {" + strconv.Itoa(len(c.Variables)) + " variables, " +
		strconv.Itoa(len(c.Subroutines)) + " subroutines}"
}

// Program 编译单元，AST 的根
//
// 类的顺序即声明顺序。空 Program 是合法的值。
type Program struct {
	Classes []*Class
}

func (p *Program) String() string {
	return "program {" + strconv.Itoa(len(p.Classes)) + " classes}"
}

// str 返回节点的字符串表示，nil 子节点显示为 <nil>
func str(n Node) string {
	if isNil(n) {
		return "<nil>"
	}
	return n.String()
}

func block(body []Statement) string {
	if len(body) == 0 {
		return "{}"
	}
	parts := make([]string, len(body))
	for i, s := range body {
		parts[i] = str(s)
	}
	return "{ " + strings.Join(parts, " ") + " }"
}
