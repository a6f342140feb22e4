package codec

import (
	"fmt"
	"unicode/utf8"

	"go.uber.org/multierr"

	"github.com/tangzhangming/jack/internal/ast"
)

// ============================================================================
// 传输形式
// ============================================================================
//
// 每个语句和表达式对象都带 kind 判别字段。缺失的子节点写作 null，
// 读回后仍为 nil，因此任意树都能往返得到相等的树。
//
// ============================================================================

type wireProgram struct {
	Classes []*wireClass `json:"classes" yaml:"classes"`
}

type wireClass struct {
	Variables   []wireClassVariable `json:"variables,omitempty" yaml:"variables,omitempty"`
	Subroutines []*wireSubroutine   `json:"subroutines,omitempty" yaml:"subroutines,omitempty"`
}

type wireClassVariable struct {
	Name string `json:"name" yaml:"name"`
	Kind string `json:"kind" yaml:"kind"`
}

type wireSubroutine struct {
	Name           string      `json:"name" yaml:"name"`
	Kind           string      `json:"kind" yaml:"kind"`
	Parameters     []wireDecl  `json:"parameters,omitempty" yaml:"parameters,omitempty"`
	LocalVariables []wireDecl  `json:"local_variables,omitempty" yaml:"local_variables,omitempty"`
	Body           []*wireStmt `json:"body,omitempty" yaml:"body,omitempty"`
}

type wireDecl struct {
	Name string   `json:"name" yaml:"name"`
	Type wireType `json:"type" yaml:"type"`
}

// wireType 内置类型写 builtin，类类型写 class；两者互斥
type wireType struct {
	Builtin string  `json:"builtin,omitempty" yaml:"builtin,omitempty"`
	Class   *string `json:"class,omitempty" yaml:"class,omitempty"`
}

type wireStmt struct {
	Kind      string      `json:"kind" yaml:"kind"`
	Call      *wireExpr   `json:"call,omitempty" yaml:"call,omitempty"`
	Variable  string      `json:"variable,omitempty" yaml:"variable,omitempty"`
	Value     *wireExpr   `json:"value,omitempty" yaml:"value,omitempty"`
	Condition *wireExpr   `json:"condition,omitempty" yaml:"condition,omitempty"`
	Body      []*wireStmt `json:"body,omitempty" yaml:"body,omitempty"`
	ElseBody  []*wireStmt `json:"else_body,omitempty" yaml:"else_body,omitempty"`
}

type wireExpr struct {
	Kind       string      `json:"kind" yaml:"kind"`
	Name       string      `json:"name,omitempty" yaml:"name,omitempty"`
	Base       *wireExpr   `json:"base,omitempty" yaml:"base,omitempty"`
	Index      *wireExpr   `json:"index,omitempty" yaml:"index,omitempty"`
	Property   string      `json:"property,omitempty" yaml:"property,omitempty"`
	Operator   string      `json:"operator,omitempty" yaml:"operator,omitempty"`
	Lhs        *wireExpr   `json:"lhs,omitempty" yaml:"lhs,omitempty"`
	Rhs        *wireExpr   `json:"rhs,omitempty" yaml:"rhs,omitempty"`
	Subroutine *wireExpr   `json:"subroutine,omitempty" yaml:"subroutine,omitempty"`
	Args       []*wireExpr `json:"args,omitempty" yaml:"args,omitempty"`
}

// 判别字段取值
const (
	kindIdentifier      = "Identifier"
	kindArrayAccess     = "ArrayAccess"
	kindPropertyAccess  = "PropertyAccess"
	kindUnaryOperation  = "UnaryOperation"
	kindBinaryOperation = "BinaryOperation"
	kindSubroutineCall  = "SubroutineCall"

	kindDo     = "Do"
	kindLet    = "Let"
	kindWhile  = "While"
	kindReturn = "Return"
	kindIf     = "If"
)

// ============================================================================
// AST -> 传输形式
// ============================================================================

// encoder 转储前检查树：名称必须是合法 UTF-8，标签必须在定义范围内。
// 否则写出的文本无法读回相等的树。
type encoder struct {
	err error
}

func (e *encoder) fail(path string, err error) {
	e.err = multierr.Append(e.err, &PathError{Path: path, Err: err})
}

func (e *encoder) name(path, s string) string {
	if !utf8.ValidString(s) {
		e.fail(path, fmt.Errorf("%w %q", ErrBadName, s))
	}
	return s
}

func (e *encoder) program(p *ast.Program) *wireProgram {
	w := &wireProgram{Classes: make([]*wireClass, 0, len(p.Classes))}
	for i, c := range p.Classes {
		w.Classes = append(w.Classes, e.class(fmt.Sprintf("classes[%d]", i), c))
	}
	return w
}

func (e *encoder) class(path string, c *ast.Class) *wireClass {
	if c == nil {
		return nil
	}
	w := &wireClass{}
	for i, v := range c.Variables {
		vpath := fmt.Sprintf("%s.variables[%d]", path, i)
		if !v.Type.Valid() {
			e.fail(vpath, fmt.Errorf("%w %d", ErrUnknownKind, v.Type))
		}
		w.Variables = append(w.Variables, wireClassVariable{Name: e.name(vpath, v.Name), Kind: v.Type.String()})
	}
	for i, s := range c.Subroutines {
		w.Subroutines = append(w.Subroutines, e.subroutine(fmt.Sprintf("%s.subroutines[%d]", path, i), s))
	}
	return w
}

func (e *encoder) subroutine(path string, s *ast.ClassSubroutine) *wireSubroutine {
	if s == nil {
		return nil
	}
	if !s.Type.Valid() {
		e.fail(path, fmt.Errorf("%w %d", ErrUnknownKind, s.Type))
	}
	return &wireSubroutine{
		Name:           e.name(path, s.Name),
		Kind:           s.Type.String(),
		Parameters:     e.decls(path+".parameters", s.Parameters),
		LocalVariables: e.decls(path+".local_variables", s.LocalVariables),
		Body:           e.stmts(path+".body", s.Body),
	}
}

func (e *encoder) decls(path string, list []ast.VariableDeclaration) []wireDecl {
	var out []wireDecl
	for i, d := range list {
		dpath := fmt.Sprintf("%s[%d]", path, i)
		out = append(out, wireDecl{Name: e.name(dpath, d.Name), Type: e.dataType(dpath+".type", d.Type)})
	}
	return out
}

func (e *encoder) dataType(path string, t ast.DataType) wireType {
	if t.Kind() == ast.Other {
		name := e.name(path, t.ClassName())
		return wireType{Class: &name}
	}
	return wireType{Builtin: t.Kind().String()}
}

func (e *encoder) stmts(path string, list []ast.Statement) []*wireStmt {
	var out []*wireStmt
	for i, s := range list {
		out = append(out, e.stmt(fmt.Sprintf("%s[%d]", path, i), s))
	}
	return out
}

func (e *encoder) stmt(path string, s ast.Statement) *wireStmt {
	if ast.IsNil(s) {
		return nil
	}

	switch x := s.(type) {
	case *ast.Do:
		return &wireStmt{Kind: kindDo, Call: e.expr(path+".call", x.Call)}
	case *ast.Let:
		return &wireStmt{
			Kind:     kindLet,
			Variable: e.name(path, x.VariableName),
			Value:    e.expr(path+".value", x.Value),
		}
	case *ast.While:
		return &wireStmt{
			Kind:      kindWhile,
			Condition: e.expr(path+".condition", x.Condition),
			Body:      e.stmts(path+".body", x.Body),
		}
	case *ast.Return:
		return &wireStmt{Kind: kindReturn}
	case *ast.If:
		return &wireStmt{
			Kind:      kindIf,
			Condition: e.expr(path+".condition", x.Condition),
			Body:      e.stmts(path+".body", x.Body),
			ElseBody:  e.stmts(path+".else_body", x.ElseBody),
		}
	}
	panic(fmt.Sprintf("codec: unknown statement %T", s))
}

func (e *encoder) expr(path string, x ast.Expression) *wireExpr {
	if ast.IsNil(x) {
		return nil
	}

	switch x := x.(type) {
	case *ast.Identifier:
		return &wireExpr{Kind: kindIdentifier, Name: e.name(path, x.Name)}
	case *ast.ArrayAccess:
		return &wireExpr{Kind: kindArrayAccess, Base: e.expr(path+".base", x.Base), Index: e.expr(path+".index", x.Index)}
	case *ast.PropertyAccess:
		return &wireExpr{
			Kind:     kindPropertyAccess,
			Base:     e.expr(path+".base", x.Base),
			Property: e.name(path, x.PropertyName),
		}
	case *ast.UnaryOperation:
		if !x.Operator.Valid() {
			e.fail(path, fmt.Errorf("%w %d", ErrBadOperator, x.Operator))
		}
		return &wireExpr{Kind: kindUnaryOperation, Operator: x.Operator.Name(), Rhs: e.expr(path+".rhs", x.Rhs)}
	case *ast.BinaryOperation:
		if !x.Operator.Valid() {
			e.fail(path, fmt.Errorf("%w %d", ErrBadOperator, x.Operator))
		}
		return &wireExpr{
			Kind:     kindBinaryOperation,
			Lhs:      e.expr(path+".lhs", x.Lhs),
			Operator: x.Operator.Name(),
			Rhs:      e.expr(path+".rhs", x.Rhs),
		}
	case *ast.SubroutineCall:
		w := &wireExpr{Kind: kindSubroutineCall, Subroutine: e.expr(path+".subroutine", x.Subroutine)}
		for i, arg := range x.Args {
			w.Args = append(w.Args, e.expr(fmt.Sprintf("%s.args[%d]", path, i), arg))
		}
		return w
	}
	panic(fmt.Sprintf("codec: unknown expression %T", x))
}

// ============================================================================
// 传输形式 -> AST
// ============================================================================

// decoder 收集解码过程中的全部错误，而不是遇到第一个就停止
type decoder struct {
	err error
}

func (d *decoder) fail(path string, err error) {
	d.err = multierr.Append(d.err, &PathError{Path: path, Err: err})
}

func (d *decoder) program(w *wireProgram) *ast.Program {
	p := &ast.Program{Classes: make([]*ast.Class, 0, len(w.Classes))}
	for i, c := range w.Classes {
		p.Classes = append(p.Classes, d.class(fmt.Sprintf("classes[%d]", i), c))
	}
	return p
}

func (d *decoder) class(path string, w *wireClass) *ast.Class {
	if w == nil {
		return nil
	}
	c := &ast.Class{}
	for i, v := range w.Variables {
		typ, ok := classVariableTypes[v.Kind]
		if !ok {
			d.fail(fmt.Sprintf("%s.variables[%d]", path, i), fmt.Errorf("%w %q", ErrUnknownKind, v.Kind))
		}
		c.Variables = append(c.Variables, ast.ClassVariable{Name: v.Name, Type: typ})
	}
	for i, s := range w.Subroutines {
		c.Subroutines = append(c.Subroutines, d.subroutine(fmt.Sprintf("%s.subroutines[%d]", path, i), s))
	}
	return c
}

func (d *decoder) subroutine(path string, w *wireSubroutine) *ast.ClassSubroutine {
	if w == nil {
		return nil
	}
	typ, ok := subroutineTypes[w.Kind]
	if !ok {
		d.fail(path, fmt.Errorf("%w %q", ErrUnknownKind, w.Kind))
	}
	return &ast.ClassSubroutine{
		Name:           w.Name,
		Type:           typ,
		Parameters:     d.decls(path+".parameters", w.Parameters),
		LocalVariables: d.decls(path+".local_variables", w.LocalVariables),
		Body:           d.stmts(path+".body", w.Body),
	}
}

func (d *decoder) decls(path string, list []wireDecl) []ast.VariableDeclaration {
	var out []ast.VariableDeclaration
	for i, w := range list {
		out = append(out, ast.VariableDeclaration{
			Name: w.Name,
			Type: d.dataType(fmt.Sprintf("%s[%d].type", path, i), w.Type),
		})
	}
	return out
}

func (d *decoder) dataType(path string, w wireType) ast.DataType {
	switch {
	case w.Class != nil && w.Builtin != "":
		d.fail(path, fmt.Errorf("%w: both builtin and class set", ErrBadType))
	case w.Class != nil:
		return ast.ClassType(*w.Class)
	case w.Builtin == "":
		d.fail(path, fmt.Errorf("%w: type", ErrMissingField))
	default:
		if t, ok := builtinTypes[w.Builtin]; ok {
			return t
		}
		d.fail(path, fmt.Errorf("%w %q", ErrBadType, w.Builtin))
	}
	return ast.IntType()
}

func (d *decoder) stmts(path string, list []*wireStmt) []ast.Statement {
	var out []ast.Statement
	for i, w := range list {
		out = append(out, d.stmt(fmt.Sprintf("%s[%d]", path, i), w))
	}
	return out
}

func (d *decoder) stmt(path string, w *wireStmt) ast.Statement {
	if w == nil {
		return nil
	}

	switch w.Kind {
	case kindDo:
		return &ast.Do{Call: d.expr(path+".call", w.Call)}
	case kindLet:
		return &ast.Let{VariableName: w.Variable, Value: d.expr(path+".value", w.Value)}
	case kindWhile:
		return &ast.While{
			Condition: d.expr(path+".condition", w.Condition),
			Body:      d.stmts(path+".body", w.Body),
		}
	case kindReturn:
		return &ast.Return{}
	case kindIf:
		return &ast.If{
			Condition: d.expr(path+".condition", w.Condition),
			Body:      d.stmts(path+".body", w.Body),
			ElseBody:  d.stmts(path+".else_body", w.ElseBody),
		}
	case "":
		d.fail(path, fmt.Errorf("%w: kind", ErrMissingField))
	default:
		d.fail(path, fmt.Errorf("%w %q", ErrUnknownKind, w.Kind))
	}
	return nil
}

func (d *decoder) expr(path string, w *wireExpr) ast.Expression {
	if w == nil {
		return nil
	}

	switch w.Kind {
	case kindIdentifier:
		return &ast.Identifier{Name: w.Name}
	case kindArrayAccess:
		return &ast.ArrayAccess{Base: d.expr(path+".base", w.Base), Index: d.expr(path+".index", w.Index)}
	case kindPropertyAccess:
		return &ast.PropertyAccess{Base: d.expr(path+".base", w.Base), PropertyName: w.Property}
	case kindUnaryOperation:
		op, ok := unaryOperators[w.Operator]
		if !ok {
			d.fail(path, fmt.Errorf("%w %q", ErrBadOperator, w.Operator))
		}
		return &ast.UnaryOperation{Operator: op, Rhs: d.expr(path+".rhs", w.Rhs)}
	case kindBinaryOperation:
		op, ok := binaryOperators[w.Operator]
		if !ok {
			d.fail(path, fmt.Errorf("%w %q", ErrBadOperator, w.Operator))
		}
		return &ast.BinaryOperation{
			Lhs:      d.expr(path+".lhs", w.Lhs),
			Operator: op,
			Rhs:      d.expr(path+".rhs", w.Rhs),
		}
	case kindSubroutineCall:
		call := &ast.SubroutineCall{Subroutine: d.expr(path+".subroutine", w.Subroutine)}
		for i, arg := range w.Args {
			call.Args = append(call.Args, d.expr(fmt.Sprintf("%s.args[%d]", path, i), arg))
		}
		return call
	case "":
		d.fail(path, fmt.Errorf("%w: kind", ErrMissingField))
	default:
		d.fail(path, fmt.Errorf("%w %q", ErrUnknownKind, w.Kind))
	}
	return nil
}

// 名称查找表
var (
	classVariableTypes = map[string]ast.ClassVariableType{}
	subroutineTypes    = map[string]ast.ClassSubroutineType{}
	builtinTypes       = map[string]ast.DataType{}
	unaryOperators     = map[string]ast.UnaryOperator{}
	binaryOperators    = map[string]ast.BinaryOperator{}
)

func init() {
	for _, t := range []ast.ClassVariableType{ast.Static, ast.Field} {
		classVariableTypes[t.String()] = t
	}
	for _, t := range []ast.ClassSubroutineType{ast.StaticFunction, ast.Method, ast.Constructor} {
		subroutineTypes[t.String()] = t
	}
	for _, t := range []ast.DataType{ast.IntType(), ast.CharType(), ast.BoolType()} {
		builtinTypes[t.String()] = t
	}
	for _, op := range []ast.UnaryOperator{ast.Negate, ast.BitwiseNot} {
		unaryOperators[op.Name()] = op
	}
	for _, op := range ast.BinaryOperators() {
		binaryOperators[op.Name()] = op
	}
}
