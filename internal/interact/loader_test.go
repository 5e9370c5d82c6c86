package interact

import (
	"os"
	"path/filepath"
	"testing"
)

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoaderReadsBufferNotDisk(t *testing.T) {
	path := writeTemp(t, "a.rf", "fn disk() {\n}\n")
	canon, err := canonicalize(path)
	if err != nil {
		t.Fatal(err)
	}

	toWorker := make(chan ToWorker)
	done := make(chan struct{})
	go func() {
		nf := (<-toWorker).(NeedFile)
		if nf.Path != canon {
			t.Errorf("requested path = %q, want %q", nf.Path, canon)
		}
		nf.Reply <- "fn live() {\n}\n"
	}()

	l := NewInteractiveLoader(map[string]struct{}{canon: {}}, toWorker, done)
	got, err := l.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if got != "fn live() {\n}\n" {
		t.Fatalf("ReadFile = %q, want the live buffer content", got)
	}
}

func TestLoaderFallsThroughToDisk(t *testing.T) {
	path := writeTemp(t, "b.rf", "fn disk() {\n}\n")

	l := NewInteractiveLoader(map[string]struct{}{}, nil, nil)
	got, err := l.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if got != "fn disk() {\n}\n" {
		t.Fatalf("ReadFile = %q, want the on-disk content", got)
	}
}

func TestLoaderMissingPathFails(t *testing.T) {
	l := NewInteractiveLoader(map[string]struct{}{}, nil, nil)
	if _, err := l.ReadFile(filepath.Join(t.TempDir(), "absent.rf")); err == nil {
		t.Fatal("read of a nonexistent path did not fail")
	}
}

func TestLoaderFailsWhenWorkerGone(t *testing.T) {
	path := writeTemp(t, "c.rf", "x")
	canon, err := canonicalize(path)
	if err != nil {
		t.Fatal(err)
	}

	done := make(chan struct{})
	close(done)

	l := NewInteractiveLoader(map[string]struct{}{canon: {}}, make(chan ToWorker), done)
	if _, err := l.ReadFile(path); err == nil {
		t.Fatal("read did not fail with the worker gone")
	}
}

func TestLoaderFailsOnClosedResponder(t *testing.T) {
	path := writeTemp(t, "d.rf", "x")
	canon, err := canonicalize(path)
	if err != nil {
		t.Fatal(err)
	}

	toWorker := make(chan ToWorker)
	go func() {
		nf := (<-toWorker).(NeedFile)
		close(nf.Reply)
	}()

	l := NewInteractiveLoader(map[string]struct{}{canon: {}}, toWorker, make(chan struct{}))
	if _, err := l.ReadFile(path); err == nil {
		t.Fatal("read did not fail on a closed responder")
	}
}
