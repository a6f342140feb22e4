package ast

// ============================================================================
// 数据类型
// ============================================================================

// TypeKind 数据类型的种类
type TypeKind uint8

const (
	BuiltinInt  TypeKind = iota // int
	BuiltinChar                 // char
	BuiltinBool                 // boolean
	Other                       // 类名作为类型
)

func (k TypeKind) String() string {
	switch k {
	case BuiltinInt:
		return "int"
	case BuiltinChar:
		return "char"
	case BuiltinBool:
		return "boolean"
	case Other:
		return "class"
	default:
		return "unknown"
	}
}

// DataType 变量或参数声明的类型
//
// DataType 是可比较的值类型，可以直接用作 map 的键。
// 只有 Other 携带数据：被引用的类名（不做解析，解析属于语义分析）。
type DataType struct {
	kind TypeKind
	name string
}

// IntType 返回 int 类型
func IntType() DataType { return DataType{kind: BuiltinInt} }

// CharType 返回 char 类型
func CharType() DataType { return DataType{kind: BuiltinChar} }

// BoolType 返回 boolean 类型
func BoolType() DataType { return DataType{kind: BuiltinBool} }

// ClassType 返回以类名表示的类型，名称原样保存
func ClassType(name string) DataType { return DataType{kind: Other, name: name} }

// Kind 返回类型种类
func (t DataType) Kind() TypeKind { return t.kind }

// ClassName 返回 Other 类型引用的类名，内置类型返回空串
func (t DataType) ClassName() string { return t.name }

// IsBuiltin 是否为内置类型
func (t DataType) IsBuiltin() bool { return t.kind != Other }

func (t DataType) String() string {
	if t.kind == Other {
		return t.name
	}
	return t.kind.String()
}

// ============================================================================
// 运算符
// ============================================================================

// UnaryOperator 一元运算符
type UnaryOperator uint8

const (
	Negate     UnaryOperator = iota // -x
	BitwiseNot                      // ~x
)

func (op UnaryOperator) String() string {
	switch op {
	case Negate:
		return "-"
	case BitwiseNot:
		return "~"
	default:
		return "?"
	}
}

// Valid 是否为已定义的运算符
func (op UnaryOperator) Valid() bool { return op <= BitwiseNot }

// Name 返回运算符的名称（如 "Negate"）
func (op UnaryOperator) Name() string {
	switch op {
	case Negate:
		return "Negate"
	case BitwiseNot:
		return "BitwiseNot"
	default:
		return ""
	}
}

// BinaryOperator 二元运算符
type BinaryOperator uint8

const (
	Add BinaryOperator = iota
	Subtract
	Multiply
	Divide
	LessThan
	GreaterThan
	Equal
	BitwiseAnd
	BitwiseOr
)

var binaryOperatorSymbols = [...]string{
	Add:         "+",
	Subtract:    "-",
	Multiply:    "*",
	Divide:      "/",
	LessThan:    "<",
	GreaterThan: ">",
	Equal:       "=",
	BitwiseAnd:  "&",
	BitwiseOr:   "|",
}

var binaryOperatorNames = [...]string{
	Add:         "Add",
	Subtract:    "Subtract",
	Multiply:    "Multiply",
	Divide:      "Divide",
	LessThan:    "LessThan",
	GreaterThan: "GreaterThan",
	Equal:       "Equal",
	BitwiseAnd:  "BitwiseAnd",
	BitwiseOr:   "BitwiseOr",
}

func (op BinaryOperator) String() string {
	if !op.Valid() {
		return "?"
	}
	return binaryOperatorSymbols[op]
}

// Name 返回运算符的名称（如 "Add"），用于文本转储
func (op BinaryOperator) Name() string {
	if !op.Valid() {
		return ""
	}
	return binaryOperatorNames[op]
}

// Valid 是否为已定义的运算符
func (op BinaryOperator) Valid() bool { return int(op) < len(binaryOperatorSymbols) }

// BinaryOperators 按声明顺序返回全部二元运算符
func BinaryOperators() []BinaryOperator {
	ops := make([]BinaryOperator, len(binaryOperatorSymbols))
	for i := range ops {
		ops[i] = BinaryOperator(i)
	}
	return ops
}

// ============================================================================
// 类成员种类
// ============================================================================

// ClassVariableType 类变量种类
type ClassVariableType uint8

const (
	Static ClassVariableType = iota // static
	Field                           // field
)

func (t ClassVariableType) String() string {
	switch t {
	case Static:
		return "static"
	case Field:
		return "field"
	default:
		return "unknown"
	}
}

// Valid 是否为已定义的种类
func (t ClassVariableType) Valid() bool { return t <= Field }

// ClassSubroutineType 子程序种类
type ClassSubroutineType uint8

const (
	StaticFunction ClassSubroutineType = iota // function
	Method                                    // method
	Constructor                               // constructor
)

func (t ClassSubroutineType) String() string {
	switch t {
	case StaticFunction:
		return "function"
	case Method:
		return "method"
	case Constructor:
		return "constructor"
	default:
		return "unknown"
	}
}

// Valid 是否为已定义的种类
func (t ClassSubroutineType) Valid() bool { return t <= Constructor }
