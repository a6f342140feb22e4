package formatter

import (
	"strings"

	"github.com/tangzhangming/jack/internal/ast"
)

// Printer AST 打印器
type Printer struct {
	options *Options
	buf     strings.Builder
	indent  int
}

// NewPrinter 创建打印器
func NewPrinter(options *Options) *Printer {
	return &Printer{options: options}
}

// Print 打印 AST 并返回格式化的代码
func (p *Printer) Print(program *ast.Program) string {
	return p.PrintNamed(program, nil)
}

// PrintNamed 打印 AST，names[i] 作为第 i 个类的类名（缺省时省略类名）
func (p *Printer) PrintNamed(program *ast.Program, names []string) string {
	p.buf.Reset()
	p.indent = 0

	if program != nil {
		for i, class := range program.Classes {
			if i > 0 {
				p.writeln()
			}
			name := ""
			if i < len(names) {
				name = names[i]
			}
			p.printClass(name, class)
		}
	}

	return p.finish()
}

// PrintClass 打印单个类
func (p *Printer) PrintClass(name string, class *ast.Class) string {
	p.buf.Reset()
	p.indent = 0
	p.printClass(name, class)
	return p.finish()
}

func (p *Printer) finish() string {
	result := p.buf.String()

	// 移除行尾空格
	if p.options.RemoveTrailingSpace {
		lines := strings.Split(result, "\n")
		for i, line := range lines {
			lines[i] = strings.TrimRight(line, " \t")
		}
		result = strings.Join(lines, "\n")
	}

	// 确保文件末尾有换行符
	if p.options.EnsureNewlineAtEOF && result != "" && !strings.HasSuffix(result, "\n") {
		result += "\n"
	}

	return result
}

// ============================================================================
// 类与子程序
// ============================================================================

func (p *Printer) printClass(name string, class *ast.Class) {
	p.writeIndent()
	p.write("class")
	if name != "" {
		p.write(" " + name)
	}
	p.openBrace()

	if class != nil {
		for _, v := range class.Variables {
			p.writeIndent()
			p.writeln(v.Type.String(), " ", v.Name, ";")
		}

		for i, sub := range class.Subroutines {
			if p.options.BlankLineBetweenSubroutine && (i > 0 || len(class.Variables) > 0) {
				p.writeln()
			}
			p.printSubroutine(sub)
		}
	}

	p.closeBrace()
	p.writeln()
}

func (p *Printer) printSubroutine(sub *ast.ClassSubroutine) {
	if sub == nil {
		return
	}

	p.writeIndent()
	p.write(sub.Type.String())
	p.write(" ")
	p.write(sub.Name)
	p.write("(")
	for i, param := range sub.Parameters {
		if i > 0 {
			p.write(", ")
		}
		p.write(param.Type.String() + " " + param.Name)
	}
	p.write(")")
	p.openBrace()

	for _, local := range sub.LocalVariables {
		p.writeIndent()
		p.writeln("var ", local.Type.String(), " ", local.Name, ";")
	}
	p.printStatements(sub.Body)

	p.closeBrace()
	p.writeln()
}

// ============================================================================
// 语句打印
// ============================================================================

func (p *Printer) printStatements(list []ast.Statement) {
	for _, stmt := range list {
		p.printStatement(stmt)
	}
}

func (p *Printer) printStatement(stmt ast.Statement) {
	if ast.IsNil(stmt) {
		return
	}

	p.writeIndent()
	switch s := stmt.(type) {
	case *ast.Do:
		p.write("do ")
		p.printTopExpression(s.Call)
		p.writeln(";")

	case *ast.Let:
		p.write("let ")
		p.write(s.VariableName)
		p.write(" = ")
		p.printTopExpression(s.Value)
		p.writeln(";")

	case *ast.While:
		p.write("while")
		p.printCondition(s.Condition)
		p.printBody(s.Body)
		p.writeln()

	case *ast.Return:
		p.writeln("return;")

	case *ast.If:
		p.write("if")
		p.printCondition(s.Condition)
		p.printBody(s.Body)
		if len(s.ElseBody) > 0 {
			if p.options.newlineBeforeBrace() {
				p.writeln()
				p.writeIndent()
			} else {
				p.write(" ")
			}
			p.write("else")
			p.printBody(s.ElseBody)
		}
		p.writeln()
	}
}

func (p *Printer) printCondition(cond ast.Expression) {
	if p.options.SpaceBeforeParen {
		p.write(" ")
	}
	p.write("(")
	p.printExpression(cond, false)
	p.write(")")
}

func (p *Printer) printBody(body []ast.Statement) {
	p.openBrace()
	p.printStatements(body)
	p.closeBrace()
}

// ============================================================================
// 表达式打印
// ============================================================================
//
// 树不编码优先级，嵌套的运算一律加括号，保证文本与树结构一一对应。
//

func (p *Printer) printTopExpression(expr ast.Expression) {
	p.printExpression(expr, p.options.ParenthesizeAll)
}

func (p *Printer) printExpression(expr ast.Expression, parens bool) {
	if ast.IsNil(expr) {
		p.write("<nil>")
		return
	}

	switch e := expr.(type) {
	case *ast.Identifier:
		p.write(e.Name)

	case *ast.ArrayAccess:
		p.printOperand(e.Base)
		p.write("[")
		p.printExpression(e.Index, false)
		p.write("]")

	case *ast.PropertyAccess:
		p.printOperand(e.Base)
		p.write(".")
		p.write(e.PropertyName)

	case *ast.UnaryOperation:
		p.write(e.Operator.String())
		p.printOperand(e.Rhs)

	case *ast.BinaryOperation:
		if parens {
			p.write("(")
		}
		p.printOperand(e.Lhs)
		p.writeOperator(e.Operator.String())
		p.printOperand(e.Rhs)
		if parens {
			p.write(")")
		}

	case *ast.SubroutineCall:
		p.printOperand(e.Subroutine)
		p.write("(")
		for i, arg := range e.Args {
			if i > 0 {
				p.write(", ")
			}
			p.printExpression(arg, false)
		}
		p.write(")")
	}
}

// printOperand 打印作为操作数的表达式，运算表达式加括号
func (p *Printer) printOperand(expr ast.Expression) {
	switch expr.(type) {
	case *ast.BinaryOperation:
		p.printExpression(expr, true)
	case *ast.UnaryOperation:
		p.write("(")
		p.printExpression(expr, false)
		p.write(")")
	default:
		p.printExpression(expr, false)
	}
}

// 辅助方法

func (p *Printer) write(s string) {
	p.buf.WriteString(s)
}

func (p *Printer) writeln(s ...string) {
	for _, str := range s {
		p.buf.WriteString(str)
	}
	p.buf.WriteString("\n")
}

func (p *Printer) writeIndent() {
	p.buf.WriteString(strings.Repeat(p.options.IndentString(), p.indent))
}

func (p *Printer) openBrace() {
	if p.options.newlineBeforeBrace() {
		p.writeln()
		p.writeIndent()
		p.write("{")
	} else {
		// K&R 风格：开括号前一个空格，不换行
		p.write(" {")
	}
	p.writeln()
	p.indent++
}

func (p *Printer) closeBrace() {
	p.indent--
	p.writeIndent()
	p.write("}")
}

func (p *Printer) writeOperator(op string) {
	if p.options.SpaceAroundOps {
		p.write(" ")
	}
	p.write(op)
	if p.options.SpaceAroundOps {
		p.write(" ")
	}
}
