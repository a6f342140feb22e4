package cmd

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/segmentio/encoding/json"

	"github.com/tangzhangming/jack/internal/ast"
	"github.com/tangzhangming/jack/internal/codec"
	"github.com/tangzhangming/jack/internal/config"
)

// run 以给定参数执行根命令并返回标准输出
func run(t *testing.T, dir string, args ...string) (string, error) {
	t.Helper()

	// 重置上一次执行留下的标志值
	cfgFile, verbose = "", false
	fmtNames, fmtAllman = "", false
	convertTo, convertOutput = "json", ""
	statsJSON = false
	storePath, storeTo = "", "json"

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs(append([]string{"--config", filepath.Join(dir, config.ConfigFileName)}, args...))
	err := rootCmd.Execute()
	return out.String(), err
}

// workspace 创建带配置文件和 Point.json 的临时目录
func workspace(t *testing.T) (dir, tree string) {
	t.Helper()
	dir = t.TempDir()

	c := config.Default()
	c.Log.Level = "error"
	if err := c.Save(filepath.Join(dir, config.ConfigFileName)); err != nil {
		t.Fatal(err)
	}

	data, err := codec.MarshalJSON(samplePoint())
	if err != nil {
		t.Fatal(err)
	}
	tree = filepath.Join(dir, "Point.json")
	if err := os.WriteFile(tree, data, 0644); err != nil {
		t.Fatal(err)
	}
	return dir, tree
}

func samplePoint() *ast.Program {
	sum := ast.NewBinaryOperation(ast.NewIdentifier("x"), ast.Add, ast.NewIdentifier("dx"))
	return ast.NewProgram(ast.NewClass(
		[]ast.ClassVariable{ast.NewClassVariable("x", ast.Field)},
		[]*ast.ClassSubroutine{
			ast.NewClassSubroutine("move", ast.Method,
				[]ast.VariableDeclaration{ast.NewVariableDeclaration("dx", ast.IntType())},
				nil,
				[]ast.Statement{
					ast.NewLet("x", sum),
					ast.NewLet("x", ast.NewBinaryOperation(ast.NewIdentifier("x"), ast.Add, ast.NewIdentifier("dx"))),
					ast.NewReturn(),
				}),
		},
	))
}

func TestVersion(t *testing.T) {
	dir, _ := workspace(t)
	out, err := run(t, dir, "version")
	if err != nil {
		t.Fatalf("version failed: %v", err)
	}
	if out != "jack "+Version+"\n" {
		t.Errorf("unexpected output %q", out)
	}
}

func TestFmt(t *testing.T) {
	dir, tree := workspace(t)
	out, err := run(t, dir, "fmt", tree)
	if err != nil {
		t.Fatalf("fmt failed: %v", err)
	}
	if !strings.HasPrefix(out, "class Point {\n") {
		t.Errorf("unexpected output:\n%s", out)
	}
	if !strings.Contains(out, "        let x = x + dx;\n") {
		t.Errorf("missing let statement:\n%s", out)
	}

	out, err = run(t, dir, "fmt", tree, "--names", "Vector", "--allman")
	if err != nil {
		t.Fatalf("fmt failed: %v", err)
	}
	if !strings.HasPrefix(out, "class Vector\n{\n") {
		t.Errorf("unexpected output:\n%s", out)
	}
}

func TestConvertAndHash(t *testing.T) {
	dir, tree := workspace(t)
	yamlPath := filepath.Join(dir, "Point.yaml")

	if _, err := run(t, dir, "convert", tree, "--to", "yaml", "-o", yamlPath); err != nil {
		t.Fatalf("convert failed: %v", err)
	}

	p, err := readTree(yamlPath)
	if err != nil {
		t.Fatalf("failed to read converted tree: %v", err)
	}
	if !p.Equal(samplePoint()) {
		t.Error("converted tree differs")
	}

	out, err := run(t, dir, "hash", tree, yamlPath)
	if err != nil {
		t.Fatalf("hash failed: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %q", out)
	}
	if a, b := strings.Fields(lines[0]), strings.Fields(lines[1]); a[0] != b[0] || a[1] != b[1] {
		t.Errorf("json and yaml hashes differ:\n%s", out)
	}
	if !strings.Contains(lines[0], ast.Fingerprint(samplePoint()).String()) {
		t.Errorf("unexpected fingerprint line %q", lines[0])
	}
}

func TestConvertBadFormat(t *testing.T) {
	dir, tree := workspace(t)
	if _, err := run(t, dir, "convert", tree, "--to", "xml"); err == nil {
		t.Error("expected error for unknown format")
	}
}

func TestStats(t *testing.T) {
	dir, tree := workspace(t)
	out, err := run(t, dir, "stats", tree, "--json")
	if err != nil {
		t.Fatalf("stats failed: %v", err)
	}

	var report struct {
		Classes    int            `json:"classes"`
		Statements map[string]int `json:"statements"`
		Sharing    struct {
			Expressions int `json:"expressions"`
			Unique      int `json:"unique"`
		} `json:"sharing"`
	}
	if err := json.Unmarshal([]byte(out), &report); err != nil {
		t.Fatalf("invalid json: %v\n%s", err, out)
	}
	if report.Classes != 1 || report.Statements["Let"] != 2 {
		t.Errorf("unexpected report %+v", report)
	}
	// 两条 let 的右侧相同：6 个表达式节点，3 个不同
	if report.Sharing.Expressions != 6 || report.Sharing.Unique != 3 {
		t.Errorf("unexpected sharing %+v", report.Sharing)
	}

	out, err = run(t, dir, "stats", tree)
	if err != nil {
		t.Fatalf("stats failed: %v", err)
	}
	if !strings.Contains(out, "classes: 1\n") {
		t.Errorf("unexpected yaml output:\n%s", out)
	}
}

func TestOutline(t *testing.T) {
	dir, tree := workspace(t)
	out, err := run(t, dir, "outline", tree)
	if err != nil {
		t.Fatalf("outline failed: %v", err)
	}

	var symbols []struct {
		Name     string `json:"name"`
		Children []struct {
			Name string `json:"name"`
		} `json:"children"`
	}
	if err := json.Unmarshal([]byte(out), &symbols); err != nil {
		t.Fatalf("invalid json: %v\n%s", err, out)
	}
	if len(symbols) != 1 || symbols[0].Name != "Point" || len(symbols[0].Children) != 2 {
		t.Errorf("unexpected symbols %+v", symbols)
	}
}

func TestStore(t *testing.T) {
	dir, tree := workspace(t)
	db := filepath.Join(dir, "trees.db")

	out, err := run(t, dir, "store", "put", tree, "--db", db)
	if err != nil {
		t.Fatalf("store put failed: %v", err)
	}
	digest := strings.Fields(out)[0]
	if digest != ast.Fingerprint(samplePoint()).String() {
		t.Errorf("unexpected digest %s", digest)
	}

	out, err = run(t, dir, "store", "ls", "--db", db)
	if err != nil {
		t.Fatalf("store ls failed: %v", err)
	}
	if !strings.Contains(out, digest) {
		t.Errorf("digest missing from listing:\n%s", out)
	}

	out, err = run(t, dir, "store", "get", digest, "--db", db, "--to", "yaml")
	if err != nil {
		t.Fatalf("store get failed: %v", err)
	}
	p, err := codec.UnmarshalYAML([]byte(out))
	if err != nil {
		t.Fatalf("invalid yaml: %v", err)
	}
	if !p.Equal(samplePoint()) {
		t.Error("stored tree differs")
	}

	if _, err := run(t, dir, "store", "rm", digest, "--db", db); err != nil {
		t.Fatalf("store rm failed: %v", err)
	}
	if _, err := run(t, dir, "store", "get", digest, "--db", db); err == nil {
		t.Error("expected error after delete")
	}
}

func TestInit(t *testing.T) {
	dir, _ := workspace(t)
	target := t.TempDir()

	if _, err := run(t, dir, "init", target); err != nil {
		t.Fatalf("init failed: %v", err)
	}
	if _, err := config.Load(filepath.Join(target, config.ConfigFileName)); err != nil {
		t.Errorf("generated config does not load: %v", err)
	}
	if _, err := run(t, dir, "init", target); err == nil {
		t.Error("expected error when config exists")
	}
}

func TestStoreDefaultPathRelativeToConfig(t *testing.T) {
	dir, tree := workspace(t)

	if _, err := run(t, dir, "store", "put", tree); err != nil {
		t.Fatalf("store put failed: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, ".jack", "trees.db")); err != nil {
		t.Errorf("database not created next to config: %v", err)
	}

	c, err := config.Load(filepath.Join(dir, config.ConfigFileName))
	if err != nil {
		t.Fatal(err)
	}
	if c.Store.Path != ".jack/trees.db" {
		t.Errorf("config store path changed to %q", c.Store.Path)
	}
}

func TestFmtRejectsNegativeIndent(t *testing.T) {
	dir, tree := workspace(t)
	if err := os.WriteFile(filepath.Join(dir, config.ConfigFileName), []byte("[format]\nindent_size = -2\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := run(t, dir, "fmt", tree); !errors.Is(err, config.ErrInvalid) {
		t.Errorf("expected ErrInvalid, got %v", err)
	}
}
