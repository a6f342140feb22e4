package intern

import (
	"github.com/tangzhangming/jack/internal/ast"
)

// InternProgram 返回与 p 结构相等的新程序，其中所有表达式都替换为
// 驻留表中的共享节点。语句、子程序和类是新分配的，原程序不受影响。
func (a *Arena) InternProgram(p *ast.Program) *ast.Program {
	if p == nil {
		return nil
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	out := &ast.Program{}
	if p.Classes != nil {
		out.Classes = make([]*ast.Class, len(p.Classes))
	}
	for i, c := range p.Classes {
		out.Classes[i] = a.internClass(c)
	}
	return out
}

func (a *Arena) internClass(c *ast.Class) *ast.Class {
	if c == nil {
		return nil
	}

	// 声明部分沿用克隆，语句体重新驻留
	out := c.Clone()
	for i, s := range c.Subroutines {
		if s != nil {
			out.Subroutines[i].Body = a.internStatements(s.Body)
		}
	}
	return out
}

func (a *Arena) internStatements(list []ast.Statement) []ast.Statement {
	if list == nil {
		return nil
	}
	out := make([]ast.Statement, len(list))
	for i, s := range list {
		out[i] = a.internStatement(s)
	}
	return out
}

func (a *Arena) internStatement(s ast.Statement) ast.Statement {
	if ast.IsNil(s) {
		return nil
	}

	switch x := s.(type) {
	case *ast.Do:
		return &ast.Do{Call: a.get(a.intern(x.Call))}
	case *ast.Let:
		return &ast.Let{VariableName: x.VariableName, Value: a.get(a.intern(x.Value))}
	case *ast.While:
		return &ast.While{
			Condition: a.get(a.intern(x.Condition)),
			Body:      a.internStatements(x.Body),
		}
	case *ast.Return:
		return &ast.Return{}
	case *ast.If:
		return &ast.If{
			Condition: a.get(a.intern(x.Condition)),
			Body:      a.internStatements(x.Body),
			ElseBody:  a.internStatements(x.ElseBody),
		}
	}
	return ast.CloneStatement(s)
}
