package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/tangzhangming/jack/internal/ast"
	"github.com/tangzhangming/jack/internal/codec"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(Config{Path: filepath.Join(t.TempDir(), "data", "trees.db")})
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func sample(name string) *ast.Program {
	sub := ast.NewClassSubroutine(name, ast.Method, nil, nil, []ast.Statement{
		ast.NewLet("x", ast.NewBinaryOperation(ast.NewIdentifier("x"), ast.Add, ast.NewIdentifier("y"))),
		ast.NewReturn(),
	})
	return ast.NewProgram(ast.NewClass(
		[]ast.ClassVariable{ast.NewClassVariable("x", ast.Field)},
		[]*ast.ClassSubroutine{sub},
	))
}

func TestPutGet(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	p := sample("run")
	d, err := s.Put(ctx, p)
	if err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	if d != ast.Fingerprint(p) {
		t.Errorf("digest mismatch: %s", d)
	}

	got, err := s.Get(ctx, d)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if !got.Equal(p) {
		t.Errorf("stored tree differs from original")
	}
}

func TestPutDeduplicates(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	d1, err := s.Put(ctx, sample("run"))
	if err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	d2, err := s.Put(ctx, sample("run"))
	if err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	if d1 != d2 {
		t.Errorf("equal trees got different digests")
	}

	if _, err := s.Put(ctx, sample("stop")); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	entries, err := s.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	for _, e := range entries {
		if e.Kind != KindProgram || e.Size == 0 || e.CreatedAt.IsZero() {
			t.Errorf("unexpected entry %+v", e)
		}
	}
}

func TestPutNil(t *testing.T) {
	s := openTestStore(t)
	if _, err := s.Put(context.Background(), nil); err == nil {
		t.Error("expected error for nil program")
	}
}

func TestNotFound(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	d := ast.Fingerprint(sample("missing"))

	if _, err := s.Get(ctx, d); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if err := s.Delete(ctx, d); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	ok, err := s.Has(ctx, d)
	if err != nil || ok {
		t.Errorf("expected absent, got %v, %v", ok, err)
	}
}

func TestHasDelete(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	d, err := s.Put(ctx, sample("run"))
	if err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	if ok, err := s.Has(ctx, d); err != nil || !ok {
		t.Fatalf("expected present, got %v, %v", ok, err)
	}
	if err := s.Delete(ctx, d); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if ok, _ := s.Has(ctx, d); ok {
		t.Error("tree still present after delete")
	}
}

func TestGetCorrupt(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	d, err := s.Put(ctx, sample("run"))
	if err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	if _, err := s.db.Exec(`UPDATE trees SET body = ? WHERE digest = ?`, []byte(`{"classes":[]}`), d.String()); err != nil {
		t.Fatalf("update failed: %v", err)
	}

	if _, err := s.Get(ctx, d); !errors.Is(err, ErrCorrupt) {
		t.Errorf("expected ErrCorrupt, got %v", err)
	}
}

func TestReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trees.db")
	ctx := context.Background()

	s, err := Open(Config{Path: path})
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	d, err := s.Put(ctx, sample("run"))
	if err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	s, err = Open(Config{Path: path})
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer s.Close()

	if _, err := s.Get(ctx, d); err != nil {
		t.Errorf("Get after reopen failed: %v", err)
	}
}

func TestPutRejectsUnencodableTree(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	p := ast.NewProgram(ast.NewClass(nil, []*ast.ClassSubroutine{
		ast.NewClassSubroutine("f", ast.Method, nil, nil, []ast.Statement{
			ast.NewLet("a\xffb", ast.NewIdentifier("x\xfe")),
		}),
	}))

	if _, err := s.Put(ctx, p); !errors.Is(err, codec.ErrBadName) {
		t.Fatalf("expected ErrBadName, got %v", err)
	}

	entries, err := s.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("rejected tree was stored: %+v", entries)
	}
	if ok, _ := s.Has(ctx, ast.Fingerprint(p)); ok {
		t.Error("rejected tree reported as present")
	}
}
