package interact

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"reflect"
	"strings"
	"testing"
)

func jsonDecode(t *testing.T, input string) (ToServer, error) {
	t.Helper()
	b := NewJSONBackend(strings.NewReader(input), io.Discard)
	return b.ReadRequest()
}

func TestJSONDecodeRequests(t *testing.T) {
	cases := []struct {
		input string
		want  ToServer
	}{
		{`{"msg":"add-mark","file":"a b.rf","line":3,"col":5,"kind":"item","label":"has space"}`,
			AddMark{File: "a b.rf", Line: 3, Col: 5, Kind: "item", Label: "has space"}},
		{`{"msg":"remove-mark","id":7}`, RemoveMark{ID: 7}},
		{`{"msg":"get-mark-info","id":7}`, GetMarkInfo{ID: 7}},
		{`{"msg":"get-mark-list"}`, GetMarkList{}},
		{`{"msg":"set-buffers-available","files":["a.rf","b.rf"]}`,
			SetBuffersAvailable{Files: []string{"a.rf", "b.rf"}}},
		{`{"msg":"run-command","name":"noop"}`, RunCommand{Name: "noop"}},
		{`{"msg":"buffer-text","file":"a.rf","content":"fn f() {\n}\n"}`,
			BufferText{File: "a.rf", Content: "fn f() {\n}\n"}},
	}
	for _, tc := range cases {
		got, err := jsonDecode(t, tc.input+"\n")
		if err != nil {
			t.Fatalf("decode %s: %v", tc.input, err)
		}
		if !reflect.DeepEqual(got, tc.want) {
			t.Fatalf("decode %s = %#v, want %#v", tc.input, got, tc.want)
		}
	}
}

func TestJSONDecodeBadRequests(t *testing.T) {
	for _, input := range []string{
		"\n",
		"not json\n",
		`{"msg":"frobnicate"}` + "\n",
	} {
		if _, err := jsonDecode(t, input); !errors.Is(err, errBadRequest) {
			t.Fatalf("decode %q: err = %v, want a bad-request error", input, err)
		}
	}
}

func TestJSONDecodeEOF(t *testing.T) {
	if _, err := jsonDecode(t, ""); !errors.Is(err, io.EOF) {
		t.Fatalf("err = %v, want EOF", err)
	}
}

func TestJSONEncodeRoundTrip(t *testing.T) {
	info := MarkInfo{ID: 2, File: "a b.rf", StartLine: 1, StartCol: 1, EndLine: 3, EndCol: 2, Labels: []string{"x"}}
	for _, msg := range []ToClient{
		Mark{Info: info},
		MarkList{Infos: []MarkInfo{info}},
		MarkList{},
		GetBufferText{File: "a b.rf"},
		NewBufferText{File: "a b.rf", Content: "fn f() {\n}\n"},
		Error{Text: "two\nlines survive json"},
	} {
		var out bytes.Buffer
		b := NewJSONBackend(strings.NewReader(""), &out)
		if err := b.WriteReply(msg); err != nil {
			t.Fatalf("encode %#v: %v", msg, err)
		}
		line := out.String()
		if !strings.HasSuffix(line, "\n") || strings.Count(line, "\n") != 1 {
			t.Fatalf("encode %#v produced %q, want one line", msg, line)
		}
		var rep jsonReply
		if err := json.Unmarshal([]byte(line), &rep); err != nil {
			t.Fatalf("reply %q is not valid json: %v", line, err)
		}
		if rep.Msg == "" {
			t.Fatalf("reply %q lacks a discriminator", line)
		}
	}
}

func TestJSONEncodeMarkShape(t *testing.T) {
	var out bytes.Buffer
	b := NewJSONBackend(strings.NewReader(""), &out)
	err := b.WriteReply(Mark{Info: MarkInfo{ID: 9, File: "a.rf", StartLine: 2, StartCol: 3, EndLine: 2, EndCol: 8}})
	if err != nil {
		t.Fatal(err)
	}

	var rep jsonReply
	if err := json.Unmarshal(out.Bytes(), &rep); err != nil {
		t.Fatal(err)
	}
	if rep.Msg != "mark" || rep.Info == nil {
		t.Fatalf("reply = %+v", rep)
	}
	if rep.Info.ID != 9 || rep.Info.StartCol != 3 {
		t.Fatalf("info = %+v", rep.Info)
	}
	// Labels serialize as an empty list, never null.
	if rep.Info.Labels == nil {
		t.Fatal("labels decoded as nil")
	}
}
