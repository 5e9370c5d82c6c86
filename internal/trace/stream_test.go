package trace

import (
	"bytes"
	"strings"
	"testing"
)

func TestStreamTracerLevelFilter(t *testing.T) {
	var buf bytes.Buffer
	tr := NewStreamTracer(&buf, LevelSession)

	Infof(tr, ScopeSession, "request", "handling %s", "add-mark")
	Infof(tr, ScopeNode, "pick", "node %d", 7)

	out := buf.String()
	if !strings.Contains(out, "handling add-mark") {
		t.Fatalf("session-scope event missing from output: %q", out)
	}
	if strings.Contains(out, "node 7") {
		t.Fatalf("node-scope event leaked at session level: %q", out)
	}
}

func TestNopTracer(t *testing.T) {
	if Nop.Enabled() {
		t.Fatal("Nop.Enabled() = true")
	}
	// Must not panic.
	Infof(Nop, ScopeSession, "x", "y")
	Infof(nil, ScopeSession, "x", "y")
}

func TestParseLevel(t *testing.T) {
	lvl, err := ParseLevel("detail")
	if err != nil || lvl != LevelDetail {
		t.Fatalf("ParseLevel(detail) = %v, %v", lvl, err)
	}
	if _, err := ParseLevel("bogus"); err == nil {
		t.Fatal("ParseLevel(bogus) succeeded")
	}
}
