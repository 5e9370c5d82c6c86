package pick

import (
	"os"
	"path/filepath"
	"testing"

	"reforge/internal/ast"
	"reforge/internal/driver"
)

func compile(t *testing.T, src string) (*ast.Program, *driver.Ctxt, string) {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "a.rf")
	if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
		t.Fatal(err)
	}
	var gotProg *ast.Program
	var gotCx *driver.Ctxt
	err := driver.RunCompiler([]string{path}, nil, driver.PhaseResolve, func(prog *ast.Program, cx *driver.Ctxt) error {
		gotProg, gotCx = prog, cx
		return nil
	})
	if err != nil {
		t.Fatalf("RunCompiler: %v", err)
	}
	return gotProg, gotCx, path
}

const src = "fn add(a, b) {\n    let x = a + b;\n    return x;\n}\n"

func TestNodeAtItem(t *testing.T) {
	prog, cx, path := compile(t, src)
	kind, err := ParseKind("Item")
	if err != nil {
		t.Fatal(err)
	}
	info, ok := NodeAt(prog, cx, kind, path, 2, 9)
	if !ok {
		t.Fatal("no item at 2:9")
	}
	if got := prog.Get(info.ID).Kind; got != ast.KindFn {
		t.Fatalf("picked %v, want fn", got)
	}
}

func TestNodeAtInnermostExpr(t *testing.T) {
	prog, cx, path := compile(t, src)
	// 2:13 is the "a" in "a + b".
	info, ok := NodeAt(prog, cx, KindExpr, path, 2, 13)
	if !ok {
		t.Fatal("no expr at 2:13")
	}
	n := prog.Get(info.ID)
	if n.Kind != ast.KindIdent || n.Name != "a" {
		t.Fatalf("picked %v %q, want ident a", n.Kind, n.Name)
	}
}

func TestNodeAtStmt(t *testing.T) {
	prog, cx, path := compile(t, src)
	info, ok := NodeAt(prog, cx, KindStmt, path, 3, 5)
	if !ok {
		t.Fatal("no stmt at 3:5")
	}
	if got := prog.Get(info.ID).Kind; got != ast.KindReturn {
		t.Fatalf("picked %v, want return", got)
	}
}

func TestNodeAtMiss(t *testing.T) {
	prog, cx, path := compile(t, src)
	// Line 4 column 1 is the closing brace: no statement there.
	if _, ok := NodeAt(prog, cx, KindStmt, path, 4, 1); ok {
		t.Fatal("picked a stmt at the closing brace")
	}
	if _, ok := NodeAt(prog, cx, KindItem, "missing.rf", 1, 1); ok {
		t.Fatal("picked a node in a file the compiler never saw")
	}
}

func TestParseKindRejectsUnknown(t *testing.T) {
	if _, err := ParseKind("banana"); err == nil {
		t.Fatal("ParseKind accepted an unknown kind")
	}
}
