package ast

// ============================================================================
// 深拷贝
// ============================================================================
//
// 克隆得到的树与原树不共享任何可变内存（切片和子节点都重新分配），
// 与原树结构相等。nil 原样保留；空切片克隆后仍为空。
//
// ============================================================================

// CloneExpression 深拷贝表达式
func CloneExpression(e Expression) Expression {
	if isNil(e) {
		return nil
	}

	switch x := e.(type) {
	case *Identifier:
		return &Identifier{Name: x.Name}
	case *ArrayAccess:
		return &ArrayAccess{Base: CloneExpression(x.Base), Index: CloneExpression(x.Index)}
	case *PropertyAccess:
		return &PropertyAccess{Base: CloneExpression(x.Base), PropertyName: x.PropertyName}
	case *UnaryOperation:
		return &UnaryOperation{Operator: x.Operator, Rhs: CloneExpression(x.Rhs)}
	case *BinaryOperation:
		return &BinaryOperation{Lhs: CloneExpression(x.Lhs), Operator: x.Operator, Rhs: CloneExpression(x.Rhs)}
	case *SubroutineCall:
		return &SubroutineCall{Subroutine: CloneExpression(x.Subroutine), Args: cloneExpressionList(x.Args)}
	}
	panic("ast: unknown expression type")
}

// CloneStatement 深拷贝语句
func CloneStatement(s Statement) Statement {
	if isNil(s) {
		return nil
	}

	switch x := s.(type) {
	case *Do:
		return &Do{Call: CloneExpression(x.Call)}
	case *Let:
		return &Let{VariableName: x.VariableName, Value: CloneExpression(x.Value)}
	case *While:
		return &While{Condition: CloneExpression(x.Condition), Body: CloneStatements(x.Body)}
	case *Return:
		return &Return{}
	case *If:
		return &If{
			Condition: CloneExpression(x.Condition),
			Body:      CloneStatements(x.Body),
			ElseBody:  CloneStatements(x.ElseBody),
		}
	}
	panic("ast: unknown statement type")
}

// CloneStatements 深拷贝语句序列，保持顺序
func CloneStatements(list []Statement) []Statement {
	if list == nil {
		return nil
	}
	out := make([]Statement, len(list))
	for i, s := range list {
		out[i] = CloneStatement(s)
	}
	return out
}

func cloneExpressionList(list []Expression) []Expression {
	if list == nil {
		return nil
	}
	out := make([]Expression, len(list))
	for i, e := range list {
		out[i] = CloneExpression(e)
	}
	return out
}

func cloneDeclarations(list []VariableDeclaration) []VariableDeclaration {
	if list == nil {
		return nil
	}
	out := make([]VariableDeclaration, len(list))
	copy(out, list)
	return out
}

// Clone 深拷贝子程序
func (s *ClassSubroutine) Clone() *ClassSubroutine {
	if s == nil {
		return nil
	}
	return &ClassSubroutine{
		Name:           s.Name,
		Type:           s.Type,
		Parameters:     cloneDeclarations(s.Parameters),
		LocalVariables: cloneDeclarations(s.LocalVariables),
		Body:           CloneStatements(s.Body),
	}
}

// Clone 深拷贝类
func (c *Class) Clone() *Class {
	if c == nil {
		return nil
	}
	out := &Class{}
	if c.Variables != nil {
		out.Variables = make([]ClassVariable, len(c.Variables))
		copy(out.Variables, c.Variables)
	}
	if c.Subroutines != nil {
		out.Subroutines = make([]*ClassSubroutine, len(c.Subroutines))
		for i, s := range c.Subroutines {
			out.Subroutines[i] = s.Clone()
		}
	}
	return out
}

// Clone 深拷贝程序
func (p *Program) Clone() *Program {
	if p == nil {
		return nil
	}
	out := &Program{}
	if p.Classes != nil {
		out.Classes = make([]*Class, len(p.Classes))
		for i, c := range p.Classes {
			out.Classes[i] = c.Clone()
		}
	}
	return out
}
