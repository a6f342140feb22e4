package ast

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"hash/fnv"

	"golang.org/x/crypto/blake2b"
)

// ============================================================================
// 规范编码、哈希与指纹
// ============================================================================
//
// 每个节点都能写出一段规范编码：变体标签 + 长度前缀的字符串 + 带计数的
// 序列。编码是单射的，所以
//   - Key 可以直接作为 Go map 的键（相等的树键相同，不等的树键不同）
//   - Hash 与 EqualNodes 一致：相等的树哈希相同
//   - Fingerprint 跨进程稳定，用于持久化存储
//
// ============================================================================

const (
	tagNil byte = iota
	tagIdentifier
	tagArrayAccess
	tagPropertyAccess
	tagUnaryOperation
	tagBinaryOperation
	tagSubroutineCall
	tagDo
	tagLet
	tagWhile
	tagReturn
	tagIf
	tagVariableDeclaration
	tagClassVariable
	tagClassSubroutine
	tagClass
	tagProgram
)

type encoder struct {
	buf []byte
}

func (e *encoder) tag(t byte) { e.buf = append(e.buf, t) }

func (e *encoder) count(n int) { e.buf = binary.AppendUvarint(e.buf, uint64(n)) }

func (e *encoder) str(s string) {
	e.count(len(s))
	e.buf = append(e.buf, s...)
}

func (e *encoder) node(n Node) {
	if isNil(n) {
		e.tag(tagNil)
		return
	}
	n.encode(e)
}

func (e *encoder) statements(list []Statement) {
	e.count(len(list))
	for _, s := range list {
		e.node(s)
	}
}

func (e *encoder) declarations(list []VariableDeclaration) {
	e.count(len(list))
	for _, d := range list {
		d.encode(e)
	}
}

func (t DataType) encodeType(e *encoder) {
	e.tag(byte(t.kind))
	if t.kind == Other {
		e.str(t.name)
	}
}

func (d VariableDeclaration) encode(e *encoder) {
	e.tag(tagVariableDeclaration)
	e.str(d.Name)
	d.Type.encodeType(e)
}

func (v ClassVariable) encode(e *encoder) {
	e.tag(tagClassVariable)
	e.str(v.Name)
	e.tag(byte(v.Type))
}

func (x *Identifier) encode(e *encoder) {
	e.tag(tagIdentifier)
	e.str(x.Name)
}

func (x *ArrayAccess) encode(e *encoder) {
	e.tag(tagArrayAccess)
	e.node(x.Base)
	e.node(x.Index)
}

func (x *PropertyAccess) encode(e *encoder) {
	e.tag(tagPropertyAccess)
	e.node(x.Base)
	e.str(x.PropertyName)
}

func (x *UnaryOperation) encode(e *encoder) {
	e.tag(tagUnaryOperation)
	e.tag(byte(x.Operator))
	e.node(x.Rhs)
}

func (x *BinaryOperation) encode(e *encoder) {
	e.tag(tagBinaryOperation)
	e.node(x.Lhs)
	e.tag(byte(x.Operator))
	e.node(x.Rhs)
}

func (x *SubroutineCall) encode(e *encoder) {
	e.tag(tagSubroutineCall)
	e.node(x.Subroutine)
	e.count(len(x.Args))
	for _, arg := range x.Args {
		e.node(arg)
	}
}

func (s *Do) encode(e *encoder) {
	e.tag(tagDo)
	e.node(s.Call)
}

func (s *Let) encode(e *encoder) {
	e.tag(tagLet)
	e.str(s.VariableName)
	e.node(s.Value)
}

func (s *While) encode(e *encoder) {
	e.tag(tagWhile)
	e.node(s.Condition)
	e.statements(s.Body)
}

func (s *Return) encode(e *encoder) { e.tag(tagReturn) }

func (s *If) encode(e *encoder) {
	e.tag(tagIf)
	e.node(s.Condition)
	e.statements(s.Body)
	e.statements(s.ElseBody)
}

func (s *ClassSubroutine) encode(e *encoder) {
	e.tag(tagClassSubroutine)
	e.str(s.Name)
	e.tag(byte(s.Type))
	e.declarations(s.Parameters)
	e.declarations(s.LocalVariables)
	e.statements(s.Body)
}

func (c *Class) encode(e *encoder) {
	e.tag(tagClass)
	e.count(len(c.Variables))
	for _, v := range c.Variables {
		v.encode(e)
	}
	e.count(len(c.Subroutines))
	for _, s := range c.Subroutines {
		e.node(s)
	}
}

func (p *Program) encode(e *encoder) {
	e.tag(tagProgram)
	e.count(len(p.Classes))
	for _, c := range p.Classes {
		e.node(c)
	}
}

func encodeNode(n Node) []byte {
	e := &encoder{buf: make([]byte, 0, 64)}
	e.node(deref(n))
	return e.buf
}

// Key 返回节点的规范编码，可直接作为 map 的键
//
// EqualNodes(a, b) 当且仅当 Key(a) == Key(b)。
func Key(n Node) string {
	return string(encodeNode(n))
}

// Hash 返回节点的 64 位结构哈希（FNV-1a）
func Hash(n Node) uint64 {
	h := fnv.New64a()
	h.Write(encodeNode(n))
	return h.Sum64()
}

// DigestSize 指纹字节数
const DigestSize = blake2b.Size256

// Digest 节点的 BLAKE2b-256 指纹
type Digest [DigestSize]byte

// Fingerprint 返回节点的指纹，跨进程稳定
func Fingerprint(n Node) Digest {
	return blake2b.Sum256(encodeNode(n))
}

func (d Digest) String() string { return hex.EncodeToString(d[:]) }

// IsZero 是否为零值
func (d Digest) IsZero() bool { return d == Digest{} }

// ParseDigest 解析十六进制形式的指纹
func ParseDigest(s string) (Digest, error) {
	var d Digest
	b, err := hex.DecodeString(s)
	if err != nil {
		return d, fmt.Errorf("invalid digest %q: %w", s, err)
	}
	if len(b) != DigestSize {
		return d, fmt.Errorf("invalid digest %q: want %d bytes, got %d", s, DigestSize, len(b))
	}
	copy(d[:], b)
	return d, nil
}
