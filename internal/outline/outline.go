// Package outline 把语法树转换为 LSP 文档符号，供编辑器大纲视图使用
//
// 语法树不携带位置信息，所有符号的 Range 均为零值。
package outline

import (
	"fmt"
	"path"
	"path/filepath"
	"strings"

	"github.com/tangzhangming/jack/internal/ast"
	"go.lsp.dev/protocol"
	"go.lsp.dev/uri"
)

// Symbols 返回单个类的文档符号，类名取自文档文件名（每个文件一个类）
func Symbols(u uri.URI, c *ast.Class) []protocol.DocumentSymbol {
	if c == nil {
		return nil
	}
	name := ClassName(u)
	if name == "" {
		name = "Class"
	}
	return []protocol.DocumentSymbol{classToSymbol(name, c)}
}

// ProgramSymbols 返回整个程序的文档符号，第 i 个类使用 uris[i] 命名，
// 没有对应 URI 的类命名为 Class<i>
func ProgramSymbols(p *ast.Program, uris []uri.URI) []protocol.DocumentSymbol {
	if p == nil {
		return nil
	}

	symbols := make([]protocol.DocumentSymbol, 0, len(p.Classes))
	for i, c := range p.Classes {
		if c == nil {
			continue
		}
		name := ""
		if i < len(uris) {
			name = ClassName(uris[i])
		}
		if name == "" {
			name = fmt.Sprintf("Class%d", i)
		}
		symbols = append(symbols, classToSymbol(name, c))
	}
	return symbols
}

// ClassName 从文档 URI 推导类名：去掉目录和扩展名
func ClassName(u uri.URI) string {
	s := string(u)
	if s == "" {
		return ""
	}

	var base string
	if strings.HasPrefix(s, uri.FileScheme+"://") {
		base = filepath.Base(u.Filename())
	} else {
		base = path.Base(s)
	}
	return strings.TrimSuffix(base, path.Ext(base))
}

// classToSymbol 将类转换为符号
func classToSymbol(name string, c *ast.Class) protocol.DocumentSymbol {
	var children []protocol.DocumentSymbol

	// 添加类变量
	for _, v := range c.Variables {
		kind := protocol.SymbolKindField
		if v.Type == ast.Static {
			kind = protocol.SymbolKindVariable
		}
		children = append(children, protocol.DocumentSymbol{
			Name:   v.Name,
			Kind:   kind,
			Detail: v.Type.String(),
		})
	}

	// 添加子程序
	for _, sub := range c.Subroutines {
		if sub == nil {
			continue
		}
		children = append(children, subroutineToSymbol(sub))
	}

	return protocol.DocumentSymbol{
		Name:     name,
		Kind:     protocol.SymbolKindClass,
		Detail:   fmt.Sprintf("%d variables, %d subroutines", len(c.Variables), len(c.Subroutines)),
		Children: children,
	}
}

func subroutineToSymbol(sub *ast.ClassSubroutine) protocol.DocumentSymbol {
	var children []protocol.DocumentSymbol
	for _, param := range sub.Parameters {
		children = append(children, protocol.DocumentSymbol{
			Name:   param.Name,
			Kind:   protocol.SymbolKindVariable,
			Detail: param.Type.String(),
		})
	}
	for _, local := range sub.LocalVariables {
		children = append(children, protocol.DocumentSymbol{
			Name:   local.Name,
			Kind:   protocol.SymbolKindVariable,
			Detail: "var " + local.Type.String(),
		})
	}

	return protocol.DocumentSymbol{
		Name:     sub.Name,
		Kind:     subroutineKind(sub.Type),
		Detail:   sub.Type.String() + signature(sub.Parameters),
		Children: children,
	}
}

func subroutineKind(t ast.ClassSubroutineType) protocol.SymbolKind {
	switch t {
	case ast.Constructor:
		return protocol.SymbolKindConstructor
	case ast.Method:
		return protocol.SymbolKindMethod
	default:
		return protocol.SymbolKindFunction
	}
}

// signature 返回参数列表的文本形式，如 (int a, Point p)
func signature(params []ast.VariableDeclaration) string {
	parts := make([]string, len(params))
	for i, param := range params {
		parts[i] = param.Type.String() + " " + param.Name
	}
	return "(" + strings.Join(parts, ", ") + ")"
}
