// Package formatter 把语法树打印成类似源代码的文本
//
// 输出用于调试、差异比较和 golden 文件，不保证能被解析器读回；
// 需要往返时使用 codec 包。
package formatter

import (
	"github.com/tangzhangming/jack/internal/ast"
)

// Format 格式化整个程序，options 为 nil 时使用默认选项
func Format(program *ast.Program, options *Options) string {
	if options == nil {
		options = DefaultOptions()
	}
	return NewPrinter(options).Print(program)
}

// FormatWithDefaultOptions 使用默认选项格式化
func FormatWithDefaultOptions(program *ast.Program) string {
	return Format(program, DefaultOptions())
}

// FormatNamed 格式化程序，names[i] 作为第 i 个类的类名
func FormatNamed(program *ast.Program, names []string, options *Options) string {
	if options == nil {
		options = DefaultOptions()
	}
	return NewPrinter(options).PrintNamed(program, names)
}

// FormatExpression 格式化单个表达式
func FormatExpression(expr ast.Expression, options *Options) string {
	if options == nil {
		options = DefaultOptions()
	}
	p := NewPrinter(options)
	p.printTopExpression(expr)
	return p.buf.String()
}
