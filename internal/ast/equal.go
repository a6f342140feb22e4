package ast

// ============================================================================
// 结构相等
// ============================================================================
//
// 两棵树相等当且仅当整个子树的形状和叶子值都相同，与构造过程无关。
// 序列比较按顺序进行；空切片与 nil 切片相等。
//
// ============================================================================

// EqualNodes 判断两个任意节点是否结构相等
func EqualNodes(a, b Node) bool {
	a, b = deref(a), deref(b)
	if isNil(a) || isNil(b) {
		return isNil(a) && isNil(b)
	}

	switch x := a.(type) {
	case Expression:
		y, ok := b.(Expression)
		return ok && EqualExpressions(x, y)
	case Statement:
		y, ok := b.(Statement)
		return ok && EqualStatements(x, y)
	case VariableDeclaration:
		y, ok := b.(VariableDeclaration)
		return ok && x == y
	case ClassVariable:
		y, ok := b.(ClassVariable)
		return ok && x == y
	case *ClassSubroutine:
		y, ok := b.(*ClassSubroutine)
		return ok && x.Equal(y)
	case *Class:
		y, ok := b.(*Class)
		return ok && x.Equal(y)
	case *Program:
		y, ok := b.(*Program)
		return ok && x.Equal(y)
	}
	return false
}

// EqualExpressions 判断两个表达式是否结构相等
func EqualExpressions(a, b Expression) bool {
	if isNil(a) || isNil(b) {
		return isNil(a) && isNil(b)
	}

	switch x := a.(type) {
	case *Identifier:
		y, ok := b.(*Identifier)
		return ok && x.Name == y.Name
	case *ArrayAccess:
		y, ok := b.(*ArrayAccess)
		return ok && EqualExpressions(x.Base, y.Base) && EqualExpressions(x.Index, y.Index)
	case *PropertyAccess:
		y, ok := b.(*PropertyAccess)
		return ok && x.PropertyName == y.PropertyName && EqualExpressions(x.Base, y.Base)
	case *UnaryOperation:
		y, ok := b.(*UnaryOperation)
		return ok && x.Operator == y.Operator && EqualExpressions(x.Rhs, y.Rhs)
	case *BinaryOperation:
		y, ok := b.(*BinaryOperation)
		return ok && x.Operator == y.Operator &&
			EqualExpressions(x.Lhs, y.Lhs) && EqualExpressions(x.Rhs, y.Rhs)
	case *SubroutineCall:
		y, ok := b.(*SubroutineCall)
		return ok && EqualExpressions(x.Subroutine, y.Subroutine) && equalExpressionList(x.Args, y.Args)
	}
	return false
}

// EqualStatements 判断两个语句是否结构相等
func EqualStatements(a, b Statement) bool {
	if isNil(a) || isNil(b) {
		return isNil(a) && isNil(b)
	}

	switch x := a.(type) {
	case *Do:
		y, ok := b.(*Do)
		return ok && EqualExpressions(x.Call, y.Call)
	case *Let:
		y, ok := b.(*Let)
		return ok && x.VariableName == y.VariableName && EqualExpressions(x.Value, y.Value)
	case *While:
		y, ok := b.(*While)
		return ok && EqualExpressions(x.Condition, y.Condition) && EqualStatementLists(x.Body, y.Body)
	case *Return:
		_, ok := b.(*Return)
		return ok
	case *If:
		y, ok := b.(*If)
		return ok && EqualExpressions(x.Condition, y.Condition) &&
			EqualStatementLists(x.Body, y.Body) && EqualStatementLists(x.ElseBody, y.ElseBody)
	}
	return false
}

// EqualStatementLists 按顺序比较两个语句序列
func EqualStatementLists(a, b []Statement) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !EqualStatements(a[i], b[i]) {
			return false
		}
	}
	return true
}

func equalExpressionList(a, b []Expression) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !EqualExpressions(a[i], b[i]) {
			return false
		}
	}
	return true
}

func equalDeclarations(a, b []VariableDeclaration) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// Equal 判断两个子程序是否结构相等
func (s *ClassSubroutine) Equal(o *ClassSubroutine) bool {
	if s == nil || o == nil {
		return s == o
	}
	return s.Name == o.Name &&
		s.Type == o.Type &&
		equalDeclarations(s.Parameters, o.Parameters) &&
		equalDeclarations(s.LocalVariables, o.LocalVariables) &&
		EqualStatementLists(s.Body, o.Body)
}

// Equal 判断两个类是否结构相等
func (c *Class) Equal(o *Class) bool {
	if c == nil || o == nil {
		return c == o
	}
	if len(c.Variables) != len(o.Variables) || len(c.Subroutines) != len(o.Subroutines) {
		return false
	}
	for i := range c.Variables {
		if c.Variables[i] != o.Variables[i] {
			return false
		}
	}
	for i := range c.Subroutines {
		if !c.Subroutines[i].Equal(o.Subroutines[i]) {
			return false
		}
	}
	return true
}

// Equal 判断两个程序是否结构相等
func (p *Program) Equal(o *Program) bool {
	if p == nil || o == nil {
		return p == o
	}
	if len(p.Classes) != len(o.Classes) {
		return false
	}
	for i := range p.Classes {
		if !p.Classes[i].Equal(o.Classes[i]) {
			return false
		}
	}
	return true
}

// deref 把声明节点的指针形式统一为值形式
func deref(n Node) Node {
	switch v := n.(type) {
	case *VariableDeclaration:
		if v == nil {
			return nil
		}
		return *v
	case *ClassVariable:
		if v == nil {
			return nil
		}
		return *v
	}
	return n
}

// IsNil 判断节点是否为 nil，包括带类型的 nil 指针
func IsNil(n Node) bool { return isNil(n) }

func isNil(n Node) bool {
	switch v := n.(type) {
	case nil:
		return true
	case *Identifier:
		return v == nil
	case *ArrayAccess:
		return v == nil
	case *PropertyAccess:
		return v == nil
	case *UnaryOperation:
		return v == nil
	case *BinaryOperation:
		return v == nil
	case *SubroutineCall:
		return v == nil
	case *Do:
		return v == nil
	case *Let:
		return v == nil
	case *While:
		return v == nil
	case *Return:
		return v == nil
	case *If:
		return v == nil
	case *ClassSubroutine:
		return v == nil
	case *Class:
		return v == nil
	case *Program:
		return v == nil
	case *VariableDeclaration:
		return v == nil
	case *ClassVariable:
		return v == nil
	}
	return false
}
