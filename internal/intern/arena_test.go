package intern

import (
	"sync"
	"testing"

	"github.com/tangzhangming/jack/internal/ast"
)

func id(name string) ast.Expression { return ast.NewIdentifier(name) }

func sum() ast.Expression {
	return ast.NewBinaryOperation(id("x"), ast.Add, id("y"))
}

func TestInternSameStructure(t *testing.T) {
	a := NewArena(0)

	first := a.Intern(sum())
	second := a.Intern(sum())
	if first != second {
		t.Fatalf("expected same ID, got %d and %d", first, second)
	}
	if a.Len() != 3 {
		t.Fatalf("expected 3 unique nodes (x, y, x+y), got %d", a.Len())
	}

	other := a.Intern(ast.NewBinaryOperation(id("y"), ast.Add, id("x")))
	if other == first {
		t.Fatal("swapped operands must intern differently")
	}

	if !ast.EqualExpressions(a.Expr(first), sum()) {
		t.Fatalf("stored node %s differs from input", a.Expr(first))
	}
}

func TestInternSharesSubtrees(t *testing.T) {
	a := NewArena(0)

	call := ast.NewSubroutineCall(id("f"), sum(), sum())
	shared := a.Canonical(call).(*ast.SubroutineCall)

	if shared.Args[0] != shared.Args[1] {
		t.Fatal("identical arguments should share one node")
	}
	if !ast.EqualExpressions(shared, call) {
		t.Fatal("canonical node differs structurally")
	}
}

func TestInternDoesNotAliasInput(t *testing.T) {
	a := NewArena(0)
	input := ast.NewIdentifier("x")
	stored := a.Canonical(input)
	if stored == ast.Expression(input) {
		t.Fatal("arena should keep its own copy of leaves")
	}
}

func TestInternNil(t *testing.T) {
	a := NewArena(0)
	if got := a.Intern(nil); got != 0 {
		t.Fatalf("expected ID 0 for nil, got %d", got)
	}
	if a.Expr(0) != nil || a.Expr(99) != nil {
		t.Fatal("invalid IDs should give nil")
	}

	partial := &ast.UnaryOperation{Operator: ast.Negate}
	if got := a.Canonical(partial); !ast.EqualExpressions(got, partial) {
		t.Fatalf("partial tree not preserved: %v", got)
	}
}

func TestOperatorsDistinguish(t *testing.T) {
	a := NewArena(0)
	seen := make(map[ID]bool)
	for _, op := range ast.BinaryOperators() {
		seen[a.Intern(ast.NewBinaryOperation(id("a"), op, id("b")))] = true
	}
	if len(seen) != len(ast.BinaryOperators()) {
		t.Fatalf("expected %d IDs, got %d", len(ast.BinaryOperators()), len(seen))
	}

	neg := a.Intern(ast.NewUnaryOperation(ast.Negate, id("a")))
	not := a.Intern(ast.NewUnaryOperation(ast.BitwiseNot, id("a")))
	if neg == not {
		t.Fatal("unary operators must intern differently")
	}
}

func TestLookup(t *testing.T) {
	a := NewArena(0)
	if _, ok := a.Lookup(sum()); ok {
		t.Fatal("lookup before intern should miss")
	}
	want := a.Intern(sum())
	got, ok := a.Lookup(sum())
	if !ok || got != want {
		t.Fatalf("expected lookup hit %d, got %d (%v)", want, got, ok)
	}
	if a.Len() != 3 {
		t.Fatal("lookup must not insert")
	}
}

func TestChunkGrowth(t *testing.T) {
	a := NewArena(2)
	var ids []ID
	for _, name := range []string{"a", "b", "c", "d", "e"} {
		ids = append(ids, a.Intern(id(name)))
	}

	st := a.Stats()
	if st.ChunkCount != 3 || st.Unique != 5 {
		t.Fatalf("unexpected stats %+v", st)
	}
	for i, name := range []string{"a", "b", "c", "d", "e"} {
		if got := a.Expr(ids[i]).(*ast.Identifier).Name; got != name {
			t.Errorf("ID %d: expected %s, got %s", ids[i], name, got)
		}
	}
}

func TestStatsAndReset(t *testing.T) {
	a := NewArena(0)
	a.Intern(sum())
	a.Intern(sum())

	st := a.Stats()
	if st.Lookups != 6 || st.Hits != 3 {
		t.Fatalf("expected 6 lookups and 3 hits, got %+v", st)
	}
	if st.HitRate() != 0.5 {
		t.Fatalf("expected hit rate 0.5, got %f", st.HitRate())
	}

	kept := a.Canonical(sum())
	a.Reset()
	if a.Len() != 0 || a.Stats().ChunkCount != 1 {
		t.Fatalf("reset did not clear: %+v", a.Stats())
	}
	if !ast.EqualExpressions(kept, sum()) {
		t.Fatal("nodes taken before reset must stay valid")
	}
	if got := a.Intern(id("z")); got != 1 {
		t.Fatalf("expected IDs to restart at 1, got %d", got)
	}
}

func TestConcurrentIntern(t *testing.T) {
	a := NewArena(4)
	var wg sync.WaitGroup
	results := make([]ID, 16)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = a.Intern(ast.NewSubroutineCall(id("f"), sum(), id("z")))
		}(i)
	}
	wg.Wait()

	for _, r := range results {
		if r != results[0] {
			t.Fatalf("concurrent interning produced different IDs: %v", results)
		}
	}
}

func TestInternProgram(t *testing.T) {
	build := func() *ast.Program {
		body := []ast.Statement{
			ast.NewLet("a", sum()),
			ast.NewIf(sum(), []ast.Statement{ast.NewDo(ast.NewSubroutineCall(id("f"), sum()))}, nil),
			ast.NewWhile(id("x"), ast.NewReturn()),
		}
		return ast.NewProgram(ast.NewClass(
			[]ast.ClassVariable{ast.NewClassVariable("x", ast.Field)},
			[]*ast.ClassSubroutine{ast.NewClassSubroutine("run", ast.Method, nil, nil, body)},
		))
	}

	a := NewArena(0)
	orig := build()
	interned := a.InternProgram(orig)

	if !interned.Equal(build()) {
		t.Fatal("interned program differs structurally")
	}
	if !orig.Equal(build()) {
		t.Fatal("original program was modified")
	}

	body := interned.Classes[0].Subroutines[0].Body
	letValue := body[0].(*ast.Let).Value
	ifCond := body[1].(*ast.If).Condition
	if letValue != ifCond {
		t.Fatal("identical expressions in different statements should share a node")
	}

	if a.InternProgram(nil) != nil {
		t.Fatal("nil program should stay nil")
	}
}
