package interact

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"strings"
	"testing"
	"time"
)

// TestInteractScriptedPlain drives a whole session through the plain
// backend with pre-scripted input and inspects the transcript after the
// transport closes. Requests are handled strictly in order, so the reply
// transcript is deterministic.
func TestInteractScriptedPlain(t *testing.T) {
	path := writeTemp(t, "e.rf", sessionSrc)

	script := strings.Join([]string{
		"add-mark " + path + " 1 1 item x",
		"get-mark-list",
		"frobnicate",
		"get-mark-list",
		"",
	}, "\n")

	var out bytes.Buffer
	done := make(chan error, 1)
	go func() {
		done <- Interact(Config{
			Backend:      "plain",
			CompilerArgs: []string{path},
			In:           strings.NewReader(script),
			Out:          &out,
		})
	}()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Interact: %v", err)
		}
	case <-time.After(30 * time.Second):
		t.Fatal("Interact did not return after EOF")
	}

	lines := strings.Split(strings.TrimRight(out.String(), "\n"), "\n")
	if len(lines) != 5 {
		t.Fatalf("transcript has %d lines, want 5:\n%s", len(lines), out.String())
	}

	if !strings.HasPrefix(lines[0], "mark ") || !strings.HasSuffix(lines[0], " x") {
		t.Fatalf("add-mark reply = %q", lines[0])
	}
	if lines[1] != "mark-list 1" {
		t.Fatalf("mark-list header = %q", lines[1])
	}
	if lines[2] != lines[0] {
		t.Fatalf("listed mark %q differs from added mark %q", lines[2], lines[0])
	}
	if !strings.HasPrefix(lines[3], "error ") {
		t.Fatalf("bad request reply = %q", lines[3])
	}
	if lines[4] != "mark-list 1" {
		t.Fatalf("session stopped serving after a bad request: %q", lines[4])
	}
}

func TestInteractRejectsUnknownBackend(t *testing.T) {
	err := Interact(Config{Backend: "telepathy", In: strings.NewReader(""), Out: io.Discard})
	if err == nil || !strings.Contains(err.Error(), "telepathy") {
		t.Fatalf("err = %v", err)
	}
}

// TestInteractLiveBufferRoundTrip plays the editor side of a live read:
// the session must compile from the buffer content supplied over the wire,
// never from the stale on-disk text.
func TestInteractLiveBufferRoundTrip(t *testing.T) {
	path := writeTemp(t, "live.rf", "fn disk() {\n    return 1;\n}\n")
	canon, err := canonicalize(path)
	if err != nil {
		t.Fatal(err)
	}

	inR, inW := io.Pipe()
	outR, outW := io.Pipe()
	done := make(chan error, 1)
	go func() {
		done <- Interact(Config{
			Backend:      "plain",
			CompilerArgs: []string{path},
			In:           inR,
			Out:          outW,
		})
		outW.Close()
	}()

	replies := bufio.NewScanner(outR)
	readLine := func() string {
		t.Helper()
		if !replies.Scan() {
			t.Fatalf("transport ended early: %v", replies.Err())
		}
		return replies.Text()
	}

	fmt.Fprintf(inW, "set-buffers-available %s\n", path)
	fmt.Fprintf(inW, "run rename_item live shiny\n")

	if got, want := readLine(), "need-buffer "+canon; got != want {
		t.Fatalf("buffer query = %q, want %q", got, want)
	}
	fmt.Fprintf(inW, "buffer-text %s 3\nfn live() {\n    return 1;\n}\n", canon)

	if got, want := readLine(), "new-buffer "+path+" 3"; got != want {
		t.Fatalf("rewrite header = %q, want %q", got, want)
	}
	text := readLine() + "\n" + readLine() + "\n" + readLine() + "\n"
	if !strings.Contains(text, "fn shiny() {") {
		t.Fatalf("rewritten text does not use the live buffer:\n%s", text)
	}

	inW.Close()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Interact: %v", err)
		}
	case <-time.After(30 * time.Second):
		t.Fatal("Interact did not return after the transport closed")
	}
}
