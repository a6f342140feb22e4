// Package intern 实现表达式子树的驻留（去重）
package intern

import (
	"encoding/binary"
	"sync"

	"github.com/tangzhangming/jack/internal/ast"
)

// ============================================================================
// Arena 驻留表
// ============================================================================
//
// Arena 为每个结构不同的表达式子树分配一个稳定的整数 ID。结构相同的
// 子树（不论构造多少次）得到同一个 ID 和同一个存储节点。
//
// 存储节点只读共享：驻留后的树里，相同的子表达式指向同一个节点。
// 这依赖树不可变，调用方不得修改 Expr 返回的节点。
//
// 节点按块存放，扩容时已有块不移动，ID 到节点的映射始终有效。
//
// 使用方式：
//   arena := NewArena(0)
//   id := arena.Intern(expr)
//   shared := arena.Expr(id)
//
// ============================================================================

// 默认每块容纳的节点数
const defaultChunkSize = 1024

// ID 驻留节点编号，从 1 开始；0 表示 nil 表达式
type ID uint32

// Arena 表达式驻留表，可并发使用
type Arena struct {
	mu sync.RWMutex

	chunks    [][]ast.Expression // 节点块列表
	chunkSize int                // 每个块的容量
	count     int                // 已驻留的节点数

	index map[string]ID // 浅层键 -> ID

	lookups int // Intern 访问的节点总数
	hits    int // 命中已有节点的次数
}

// NewArena 创建驻留表
//
// chunkSize <= 0 时使用默认值 1024。
func NewArena(chunkSize int) *Arena {
	if chunkSize <= 0 {
		chunkSize = defaultChunkSize
	}

	a := &Arena{
		chunks:    make([][]ast.Expression, 0, 4),
		chunkSize: chunkSize,
		index:     make(map[string]ID),
	}
	a.grow()

	return a
}

// Intern 驻留表达式及其全部子表达式，返回根节点的 ID
func (a *Arena) Intern(e ast.Expression) ID {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.intern(e)
}

// Canonical 返回与 e 结构相等的共享节点
func (a *Arena) Canonical(e ast.Expression) ast.Expression {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.get(a.intern(e))
}

// Expr 返回 ID 对应的节点，ID 无效时返回 nil
func (a *Arena) Expr(id ID) ast.Expression {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.get(id)
}

// Lookup 查询与 e 结构相等的节点是否已驻留，不会插入新节点
func (a *Arena) Lookup(e ast.Expression) (ID, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.lookup(e)
}

// Len 返回已驻留的不同节点数
func (a *Arena) Len() int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.count
}

func (a *Arena) get(id ID) ast.Expression {
	if id == 0 || int(id) > a.count {
		return nil
	}
	i := int(id) - 1
	return a.chunks[i/a.chunkSize][i%a.chunkSize]
}

// intern 自底向上驻留，调用方持有写锁
func (a *Arena) intern(e ast.Expression) ID {
	if ast.IsNil(e) {
		return 0
	}
	a.lookups++

	var (
		key  []byte
		node ast.Expression
	)

	switch x := e.(type) {
	case *ast.Identifier:
		key = shallowKey('I', x.Name)
		node = x

	case *ast.ArrayAccess:
		base, index := a.intern(x.Base), a.intern(x.Index)
		key = shallowKey('A', "", base, index)
		node = &ast.ArrayAccess{Base: a.get(base), Index: a.get(index)}

	case *ast.PropertyAccess:
		base := a.intern(x.Base)
		key = shallowKey('P', x.PropertyName, base)
		node = &ast.PropertyAccess{Base: a.get(base), PropertyName: x.PropertyName}

	case *ast.UnaryOperation:
		rhs := a.intern(x.Rhs)
		key = shallowKey('U', "", ID(x.Operator), rhs)
		node = &ast.UnaryOperation{Operator: x.Operator, Rhs: a.get(rhs)}

	case *ast.BinaryOperation:
		lhs, rhs := a.intern(x.Lhs), a.intern(x.Rhs)
		key = shallowKey('B', "", lhs, ID(x.Operator), rhs)
		node = &ast.BinaryOperation{Lhs: a.get(lhs), Operator: x.Operator, Rhs: a.get(rhs)}

	case *ast.SubroutineCall:
		ids := make([]ID, 0, len(x.Args)+1)
		ids = append(ids, a.intern(x.Subroutine))
		args := make([]ast.Expression, len(x.Args))
		for i, arg := range x.Args {
			id := a.intern(arg)
			ids = append(ids, id)
			args[i] = a.get(id)
		}
		key = shallowKey('C', "", ids...)
		node = &ast.SubroutineCall{Subroutine: a.get(ids[0]), Args: args}

	default:
		return 0
	}

	if id, ok := a.index[string(key)]; ok {
		a.hits++
		return id
	}

	// 叶子节点同样复制一份，驻留表不持有调用方的节点
	if ident, ok := node.(*ast.Identifier); ok {
		node = &ast.Identifier{Name: ident.Name}
	}
	return a.insert(string(key), node)
}

// lookup 只读查询，调用方持有读锁
func (a *Arena) lookup(e ast.Expression) (ID, bool) {
	if ast.IsNil(e) {
		return 0, true
	}

	var key []byte
	switch x := e.(type) {
	case *ast.Identifier:
		key = shallowKey('I', x.Name)
	case *ast.ArrayAccess:
		base, ok1 := a.lookup(x.Base)
		index, ok2 := a.lookup(x.Index)
		if !ok1 || !ok2 {
			return 0, false
		}
		key = shallowKey('A', "", base, index)
	case *ast.PropertyAccess:
		base, ok := a.lookup(x.Base)
		if !ok {
			return 0, false
		}
		key = shallowKey('P', x.PropertyName, base)
	case *ast.UnaryOperation:
		rhs, ok := a.lookup(x.Rhs)
		if !ok {
			return 0, false
		}
		key = shallowKey('U', "", ID(x.Operator), rhs)
	case *ast.BinaryOperation:
		lhs, ok1 := a.lookup(x.Lhs)
		rhs, ok2 := a.lookup(x.Rhs)
		if !ok1 || !ok2 {
			return 0, false
		}
		key = shallowKey('B', "", lhs, ID(x.Operator), rhs)
	case *ast.SubroutineCall:
		ids := make([]ID, 0, len(x.Args)+1)
		for _, child := range append([]ast.Expression{x.Subroutine}, x.Args...) {
			id, ok := a.lookup(child)
			if !ok {
				return 0, false
			}
			ids = append(ids, id)
		}
		key = shallowKey('C', "", ids...)
	default:
		return 0, false
	}

	id, ok := a.index[string(key)]
	return id, ok
}

func (a *Arena) insert(key string, node ast.Expression) ID {
	chunk := a.chunks[len(a.chunks)-1]
	if len(chunk) == cap(chunk) {
		a.grow()
		chunk = a.chunks[len(a.chunks)-1]
	}
	a.chunks[len(a.chunks)-1] = append(chunk, node)
	a.count++

	id := ID(a.count)
	a.index[key] = id
	return id
}

// grow 追加一个新的节点块
func (a *Arena) grow() {
	a.chunks = append(a.chunks, make([]ast.Expression, 0, a.chunkSize))
}

// shallowKey 由变体标签、名称和子节点 ID 组成的键
//
// 子节点已驻留，所以子树相等等价于子节点 ID 相等。
func shallowKey(tag byte, name string, ids ...ID) []byte {
	key := make([]byte, 0, 1+binary.MaxVarintLen64+len(name)+len(ids)*binary.MaxVarintLen32)
	key = append(key, tag)
	key = binary.AppendUvarint(key, uint64(len(name)))
	key = append(key, name...)
	key = binary.AppendUvarint(key, uint64(len(ids)))
	for _, id := range ids {
		key = binary.AppendUvarint(key, uint64(id))
	}
	return key
}

// Reset 清空驻留表，保留第一个块以便复用
//
// 调用 Reset 后，之前返回的 ID 全部失效；已取出的节点仍然可用。
func (a *Arena) Reset() {
	a.mu.Lock()
	defer a.mu.Unlock()

	first := a.chunks[0]
	clear(first[:cap(first)])
	a.chunks = append(a.chunks[:0], first[:0])
	a.count = 0
	a.index = make(map[string]ID)
	a.lookups = 0
	a.hits = 0
}

// Stats 驻留表统计信息（用于调试和性能分析）
type Stats struct {
	ChunkCount int // 节点块数量
	Unique     int // 不同节点数
	Lookups    int // 访问的节点总数
	Hits       int // 命中已有节点的次数
}

// HitRate 命中率
func (s Stats) HitRate() float64 {
	if s.Lookups == 0 {
		return 0
	}
	return float64(s.Hits) / float64(s.Lookups)
}

// Stats 获取驻留表的统计信息
func (a *Arena) Stats() Stats {
	a.mu.RLock()
	defer a.mu.RUnlock()

	return Stats{
		ChunkCount: len(a.chunks),
		Unique:     a.count,
		Lookups:    a.lookups,
		Hits:       a.hits,
	}
}
