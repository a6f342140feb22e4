package ast

// ============================================================================
// AST 节点工厂函数
// ============================================================================
//
// 工厂函数只组装字段，从不校验也从不失败：名称、调用目标等是否合法
// 属于语义分析。子节点的所有权转移给新节点，调用方不应再把同一个
// 子节点交给另一个父节点，需要共享时先 Clone。
//
// ============================================================================

// NewVariableDeclaration 创建变量声明
func NewVariableDeclaration(name string, typ DataType) VariableDeclaration {
	return VariableDeclaration{Name: name, Type: typ}
}

// NewClassVariable 创建类变量声明
func NewClassVariable(name string, typ ClassVariableType) ClassVariable {
	return ClassVariable{Name: name, Type: typ}
}

// ============================================================================
// 表达式节点工厂
// ============================================================================

// NewIdentifier 创建标识符节点
func NewIdentifier(name string) *Identifier {
	return &Identifier{Name: name}
}

// NewArrayAccess 创建数组访问节点 (base[index])
func NewArrayAccess(base, index Expression) *ArrayAccess {
	return &ArrayAccess{Base: base, Index: index}
}

// NewPropertyAccess 创建属性访问节点 (base.name)
func NewPropertyAccess(base Expression, propertyName string) *PropertyAccess {
	return &PropertyAccess{Base: base, PropertyName: propertyName}
}

// NewUnaryOperation 创建一元运算节点
func NewUnaryOperation(op UnaryOperator, rhs Expression) *UnaryOperation {
	return &UnaryOperation{Operator: op, Rhs: rhs}
}

// NewBinaryOperation 创建二元运算节点
func NewBinaryOperation(lhs Expression, op BinaryOperator, rhs Expression) *BinaryOperation {
	return &BinaryOperation{Lhs: lhs, Operator: op, Rhs: rhs}
}

// NewSubroutineCall 创建调用节点，参数顺序即调用顺序
func NewSubroutineCall(subroutine Expression, args ...Expression) *SubroutineCall {
	return &SubroutineCall{Subroutine: subroutine, Args: args}
}

// ============================================================================
// 语句节点工厂
// ============================================================================

// NewDo 创建 do 语句
func NewDo(call Expression) *Do {
	return &Do{Call: call}
}

// NewLet 创建 let 语句
func NewLet(variableName string, value Expression) *Let {
	return &Let{VariableName: variableName, Value: value}
}

// NewWhile 创建 while 语句
func NewWhile(condition Expression, body ...Statement) *While {
	return &While{Condition: condition, Body: body}
}

// NewReturn 创建 return 语句
func NewReturn() *Return {
	return &Return{}
}

// NewIf 创建 if 语句，elseBody 为空表示没有 else 子句
func NewIf(condition Expression, body, elseBody []Statement) *If {
	return &If{Condition: condition, Body: body, ElseBody: elseBody}
}

// ============================================================================
// 聚合节点工厂
// ============================================================================

// NewClassSubroutine 创建子程序
func NewClassSubroutine(name string, typ ClassSubroutineType, params, locals []VariableDeclaration, body []Statement) *ClassSubroutine {
	return &ClassSubroutine{
		Name:           name,
		Type:           typ,
		Parameters:     params,
		LocalVariables: locals,
		Body:           body,
	}
}

// NewClass 创建类
func NewClass(variables []ClassVariable, subroutines []*ClassSubroutine) *Class {
	return &Class{Variables: variables, Subroutines: subroutines}
}

// NewProgram 创建程序
func NewProgram(classes ...*Class) *Program {
	return &Program{Classes: classes}
}
