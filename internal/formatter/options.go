package formatter

import "strings"

// Options 格式化选项
//
// 字段带 toml 标签，可以直接从 jack.toml 的 [format] 段读取。
type Options struct {
	// 缩进设置
	IndentStyle string `toml:"indent_style"` // "tabs" 或 "spaces"
	IndentSize  int    `toml:"indent_size"`  // 空格数（当使用 spaces 时）

	// 代码风格
	SpaceBeforeParen bool `toml:"space_before_paren"` // if (x) vs if(x)
	SpaceAroundOps   bool `toml:"space_around_ops"`   // a + b vs a+b
	ParenthesizeAll  bool `toml:"parenthesize_all"`   // 顶层二元运算也加括号

	// 换行设置
	BraceStyle                 string `toml:"brace_style"`                   // "K&R" 或 "Allman"
	BlankLineBetweenSubroutine bool   `toml:"blank_line_between_subroutine"` // 子程序之间空一行

	// 其他
	RemoveTrailingSpace bool `toml:"remove_trailing_space"` // 移除行尾空格
	EnsureNewlineAtEOF  bool `toml:"ensure_newline_at_eof"` // 确保文件末尾有换行符
}

// DefaultOptions 返回默认格式化选项（K&R 风格 + 4空格缩进）
func DefaultOptions() *Options {
	return &Options{
		IndentStyle:                "spaces",
		IndentSize:                 4,
		SpaceBeforeParen:           true,
		SpaceAroundOps:             true,
		ParenthesizeAll:            false,
		BraceStyle:                 "K&R",
		BlankLineBetweenSubroutine: true,
		RemoveTrailingSpace:        true,
		EnsureNewlineAtEOF:         true,
	}
}

// IndentString 返回一级缩进
func (o *Options) IndentString() string {
	if o.IndentStyle == "tabs" {
		return "\t"
	}
	return strings.Repeat(" ", max(o.IndentSize, 0))
}

// newlineBeforeBrace Allman 风格时大括号另起一行
func (o *Options) newlineBeforeBrace() bool {
	return strings.EqualFold(o.BraceStyle, "allman")
}
