// Package codec 把语法树转储为 JSON 或 YAML 文本，并能读回相等的树
package codec

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/segmentio/encoding/json"
	"gopkg.in/yaml.v3"

	"github.com/tangzhangming/jack/internal/ast"
)

// 解码错误
var (
	ErrUnknownKind   = errors.New("unknown kind")
	ErrMissingField  = errors.New("missing field")
	ErrBadOperator   = errors.New("bad operator")
	ErrBadType       = errors.New("bad data type")
	ErrBadName       = errors.New("name is not valid UTF-8")
	ErrUnknownFormat = errors.New("unknown format")
)

// PathError 带节点路径的解码错误，如 classes[0].subroutines[1].body[2]
type PathError struct {
	Path string
	Err  error
}

func (e *PathError) Error() string { return e.Path + ": " + e.Err.Error() }
func (e *PathError) Unwrap() error { return e.Err }

// Format 转储格式
type Format int

const (
	JSON Format = iota
	YAML
)

func (f Format) String() string {
	switch f {
	case JSON:
		return "json"
	case YAML:
		return "yaml"
	default:
		return "unknown"
	}
}

// Extension 返回格式对应的文件扩展名
func (f Format) Extension() string {
	switch f {
	case YAML:
		return ".yaml"
	default:
		return ".json"
	}
}

// ParseFormat 解析格式名（json、yaml、yml，不区分大小写）
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "json":
		return JSON, nil
	case "yaml", "yml":
		return YAML, nil
	}
	return JSON, fmt.Errorf("%w %q", ErrUnknownFormat, name)
}

// FormatFromPath 根据文件扩展名判断格式
func FormatFromPath(path string) (Format, error) {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	if ext == "" {
		return JSON, fmt.Errorf("%w: %s has no extension", ErrUnknownFormat, path)
	}
	return ParseFormat(ext)
}

// Marshal 把程序转储为指定格式
func Marshal(p *ast.Program, f Format) ([]byte, error) {
	switch f {
	case JSON:
		return MarshalJSON(p)
	case YAML:
		return MarshalYAML(p)
	}
	return nil, fmt.Errorf("%w %d", ErrUnknownFormat, int(f))
}

// Unmarshal 从指定格式读回程序
//
// 所有格式错误都会一并返回（go.uber.org/multierr），每个错误都是 *PathError。
func Unmarshal(data []byte, f Format) (*ast.Program, error) {
	switch f {
	case JSON:
		return UnmarshalJSON(data)
	case YAML:
		return UnmarshalYAML(data)
	}
	return nil, fmt.Errorf("%w %d", ErrUnknownFormat, int(f))
}

// Encode 把程序写入 w
func Encode(w io.Writer, p *ast.Program, f Format) error {
	data, err := Marshal(p, f)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

// Decode 从 r 读取程序
func Decode(r io.Reader, f Format) (*ast.Program, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read tree: %w", err)
	}
	return Unmarshal(data, f)
}

// MarshalJSON 转储为缩进的 JSON
func MarshalJSON(p *ast.Program) ([]byte, error) {
	if p == nil {
		p = &ast.Program{}
	}
	w, err := toWire(p)
	if err != nil {
		return nil, err
	}
	data, err := json.MarshalIndent(w, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode json: %w", err)
	}
	return append(data, '\n'), nil
}

// UnmarshalJSON 从 JSON 读回程序
func UnmarshalJSON(data []byte) (*ast.Program, error) {
	var w wireProgram
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, fmt.Errorf("failed to parse json: %w", err)
	}
	return build(&w)
}

// MarshalYAML 转储为 YAML
func MarshalYAML(p *ast.Program) ([]byte, error) {
	if p == nil {
		p = &ast.Program{}
	}

	w, err := toWire(p)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(w); err != nil {
		return nil, fmt.Errorf("failed to encode yaml: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("failed to encode yaml: %w", err)
	}
	return buf.Bytes(), nil
}

// UnmarshalYAML 从 YAML 读回程序
func UnmarshalYAML(data []byte) (*ast.Program, error) {
	var w wireProgram
	if err := yaml.Unmarshal(data, &w); err != nil {
		return nil, fmt.Errorf("failed to parse yaml: %w", err)
	}
	return build(&w)
}

func build(w *wireProgram) (*ast.Program, error) {
	d := &decoder{}
	p := d.program(w)
	if d.err != nil {
		return nil, d.err
	}
	return p, nil
}

// toWire 转换为传输形式，无法往返的树返回全部 *PathError
func toWire(p *ast.Program) (*wireProgram, error) {
	e := &encoder{}
	w := e.program(p)
	if e.err != nil {
		return nil, e.err
	}
	return w, nil
}
