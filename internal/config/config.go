// Package config 读写 jack.toml 配置文件
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/tangzhangming/jack/internal/formatter"
)

// 常量定义
const (
	ConfigFileName = "jack.toml" // 配置文件名
)

// ErrInvalid 配置项取值非法
var ErrInvalid = errors.New("invalid config value")

// Config 工具配置
type Config struct {
	Format formatter.Options `toml:"format"`
	Store  StoreConfig       `toml:"store"`
	Log    LogConfig         `toml:"log"`

	dir string // 配置文件所在目录，Load 时记录
}

// StoreConfig 树存储配置
type StoreConfig struct {
	// Path SQLite 数据库文件路径，相对路径以配置文件所在目录为基准
	Path string `toml:"path"`
}

// LogConfig 日志配置
type LogConfig struct {
	// Level 日志级别：debug、info、warn、error
	Level string `toml:"level"`

	// Development 使用开发模式输出（彩色、易读）
	Development bool `toml:"development"`
}

// Default 返回默认配置
func Default() *Config {
	return &Config{
		Format: *formatter.DefaultOptions(),
		Store:  StoreConfig{Path: ".jack/trees.db"},
		Log:    LogConfig{Level: "info"},
	}
}

// Load 从文件加载配置，文件中缺省的项保留默认值
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := Default()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", path, err)
	}

	config.dir = filepath.Dir(path)
	return config, nil
}

// Validate 检查配置项取值
func (c *Config) Validate() error {
	if c.Format.IndentSize < 0 {
		return fmt.Errorf("%w: format.indent_size = %d", ErrInvalid, c.Format.IndentSize)
	}
	return nil
}

// StorePath 返回树存储数据库的路径，相对路径以配置文件所在目录为基准
func (c *Config) StorePath() string {
	if c.Store.Path == "" || filepath.IsAbs(c.Store.Path) || c.dir == "" {
		return c.Store.Path
	}
	return filepath.Join(c.dir, c.Store.Path)
}

// Save 保存配置到文件
func (c *Config) Save(path string) error {
	// 生成带注释的配置文件内容
	content := generateConfigWithComments(c)

	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// generateConfigWithComments 生成带注释的配置文件内容
func generateConfigWithComments(c *Config) string {
	var sb strings.Builder
	f := c.Format

	sb.WriteString("[format]\n")
	sb.WriteString("# 缩进方式：\"spaces\" 或 \"tabs\"\n")
	sb.WriteString(fmt.Sprintf("indent_style = %q\n", f.IndentStyle))
	sb.WriteString(fmt.Sprintf("indent_size = %d\n\n", f.IndentSize))
	sb.WriteString("# 大括号风格：\"K&R\" 或 \"Allman\"\n")
	sb.WriteString(fmt.Sprintf("brace_style = %q\n\n", f.BraceStyle))
	sb.WriteString(fmt.Sprintf("space_before_paren = %t\n", f.SpaceBeforeParen))
	sb.WriteString(fmt.Sprintf("space_around_ops = %t\n", f.SpaceAroundOps))
	sb.WriteString("# 顶层二元运算也加括号\n")
	sb.WriteString(fmt.Sprintf("parenthesize_all = %t\n", f.ParenthesizeAll))
	sb.WriteString(fmt.Sprintf("blank_line_between_subroutine = %t\n", f.BlankLineBetweenSubroutine))
	sb.WriteString(fmt.Sprintf("remove_trailing_space = %t\n", f.RemoveTrailingSpace))
	sb.WriteString(fmt.Sprintf("ensure_newline_at_eof = %t\n\n", f.EnsureNewlineAtEOF))

	sb.WriteString("[store]\n")
	sb.WriteString("# 树存储数据库（相对于本文件）\n")
	sb.WriteString(fmt.Sprintf("path = %q\n\n", c.Store.Path))

	sb.WriteString("[log]\n")
	sb.WriteString("# 日志级别：debug、info、warn、error\n")
	sb.WriteString(fmt.Sprintf("level = %q\n", c.Log.Level))
	sb.WriteString(fmt.Sprintf("development = %t\n", c.Log.Development))

	return sb.String()
}

// Find 从指定路径向上查找配置文件
// 返回配置文件的完整路径，如果找不到则返回空字符串
func Find(startPath string) string {
	// 如果是文件，从其所在目录开始
	info, err := os.Stat(startPath)
	if err != nil {
		return ""
	}

	var dir string
	if info.IsDir() {
		dir = startPath
	} else {
		dir = filepath.Dir(startPath)
	}

	// 转换为绝对路径
	dir, err = filepath.Abs(dir)
	if err != nil {
		return ""
	}

	// 向上查找
	for {
		configPath := filepath.Join(dir, ConfigFileName)
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			// 已到达根目录
			return ""
		}
		dir = parent
	}
}

// LoadOrDefault 从 startPath 向上查找并加载配置，找不到时返回默认配置
func LoadOrDefault(startPath string) (*Config, string, error) {
	path := Find(startPath)
	if path == "" {
		return Default(), "", nil
	}
	config, err := Load(path)
	return config, path, err
}
