package interact

import (
	"bytes"
	"errors"
	"io"
	"reflect"
	"strings"
	"testing"
)

func plainDecode(t *testing.T, input string) (ToServer, error) {
	t.Helper()
	b := NewPlainBackend(strings.NewReader(input), io.Discard)
	return b.ReadRequest()
}

func TestPlainDecodeRequests(t *testing.T) {
	cases := []struct {
		input string
		want  ToServer
	}{
		{"add-mark a.rf 3 5 item x\n", AddMark{File: "a.rf", Line: 3, Col: 5, Kind: "item", Label: "x"}},
		{"remove-mark 7\n", RemoveMark{ID: 7}},
		{"get-mark-info 7\n", GetMarkInfo{ID: 7}},
		{"get-mark-list\n", GetMarkList{}},
		{"set-buffers-available a.rf b.rf\n", SetBuffersAvailable{Files: []string{"a.rf", "b.rf"}}},
		{"run rename_item add sum\n", RunCommand{Name: "rename_item", Args: []string{"add", "sum"}}},
		{"buffer-text a.rf 2\nfn live() {\n}\n", BufferText{File: "a.rf", Content: "fn live() {\n}\n"}},
	}
	for _, tc := range cases {
		got, err := plainDecode(t, tc.input)
		if err != nil {
			t.Fatalf("decode %q: %v", tc.input, err)
		}
		if !reflect.DeepEqual(got, tc.want) {
			t.Fatalf("decode %q = %#v, want %#v", tc.input, got, tc.want)
		}
	}
}

func TestPlainDecodeBadRequests(t *testing.T) {
	for _, input := range []string{
		"\n",
		"frobnicate\n",
		"add-mark a.rf 3 5\n",
		"add-mark a.rf x 5 item label\n",
		"remove-mark 99999999999\n",
		"run\n",
	} {
		_, err := plainDecode(t, input)
		if !errors.Is(err, errBadRequest) {
			t.Fatalf("decode %q: err = %v, want a bad-request error", input, err)
		}
	}
}

func TestPlainDecodeEOF(t *testing.T) {
	if _, err := plainDecode(t, ""); !errors.Is(err, io.EOF) {
		t.Fatalf("err = %v, want EOF", err)
	}
}

func TestPlainDecodeTruncatedBufferText(t *testing.T) {
	_, err := plainDecode(t, "buffer-text a.rf 3\nonly one line\n")
	if err == nil || errors.Is(err, errBadRequest) {
		t.Fatalf("truncated buffer-text: err = %v, want a transport error", err)
	}
}

func TestPlainEncodeReplies(t *testing.T) {
	info := MarkInfo{ID: 2, File: "a.rf", StartLine: 1, StartCol: 1, EndLine: 3, EndCol: 2, Labels: []string{"x", "y"}}
	cases := []struct {
		msg  ToClient
		want string
	}{
		{Mark{Info: info}, "mark 2 a.rf 1 1 3 2 x y\n"},
		{MarkList{Infos: []MarkInfo{info, info}}, "mark-list 2\nmark 2 a.rf 1 1 3 2 x y\nmark 2 a.rf 1 1 3 2 x y\n"},
		{MarkList{}, "mark-list 0\n"},
		{GetBufferText{File: "a.rf"}, "need-buffer a.rf\n"},
		{NewBufferText{File: "a.rf", Content: "fn f() {\n}\n"}, "new-buffer a.rf 2\nfn f() {\n}\n"},
		{Error{Text: "two\nlines"}, "error two lines\n"},
	}
	for _, tc := range cases {
		var out bytes.Buffer
		b := NewPlainBackend(strings.NewReader(""), &out)
		if err := b.WriteReply(tc.msg); err != nil {
			t.Fatalf("encode %#v: %v", tc.msg, err)
		}
		if out.String() != tc.want {
			t.Fatalf("encode %#v = %q, want %q", tc.msg, out.String(), tc.want)
		}
	}
}
