package interact

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"fortio.org/safecast"
)

// PlainBackend speaks a line-oriented protocol: one request or reply per
// line, whitespace-separated tokens, with raw content lines following a
// counted header for buffer text. Paths and labels containing whitespace
// are not representable; editors that need them use the json backend.
//
// Requests:
//
//	add-mark <file> <line> <col> <kind> <label>
//	remove-mark <id>
//	get-mark-info <id>
//	get-mark-list
//	set-buffers-available <file>...
//	run <name> <args>...
//	buffer-text <file> <n-lines>   (followed by n raw content lines)
//
// Replies:
//
//	mark <id> <file> <start-line> <start-col> <end-line> <end-col> <labels>...
//	mark-list <n>                  (followed by n mark lines)
//	need-buffer <file>
//	new-buffer <file> <n-lines>    (followed by n raw content lines)
//	error <text>
type PlainBackend struct {
	r *bufio.Reader
	w *bufio.Writer
}

// NewPlainBackend builds a plain backend over the given transport.
func NewPlainBackend(in io.Reader, out io.Writer) *PlainBackend {
	return &PlainBackend{r: bufio.NewReader(in), w: bufio.NewWriter(out)}
}

func (b *PlainBackend) ReadRequest() (ToServer, error) {
	line, err := readLine(b.r)
	if err != nil {
		return nil, err
	}
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil, badRequestf("empty request line")
	}

	cmd, args := fields[0], fields[1:]
	switch cmd {
	case "add-mark":
		if len(args) != 5 {
			return nil, badRequestf("add-mark wants 5 arguments, got %d", len(args))
		}
		line, err := parseU32(args[1])
		if err != nil {
			return nil, err
		}
		col, err := parseU32(args[2])
		if err != nil {
			return nil, err
		}
		return AddMark{File: args[0], Line: line, Col: col, Kind: args[3], Label: args[4]}, nil

	case "remove-mark":
		if len(args) != 1 {
			return nil, badRequestf("remove-mark wants 1 argument, got %d", len(args))
		}
		id, err := parseU32(args[0])
		if err != nil {
			return nil, err
		}
		return RemoveMark{ID: id}, nil

	case "get-mark-info":
		if len(args) != 1 {
			return nil, badRequestf("get-mark-info wants 1 argument, got %d", len(args))
		}
		id, err := parseU32(args[0])
		if err != nil {
			return nil, err
		}
		return GetMarkInfo{ID: id}, nil

	case "get-mark-list":
		if len(args) != 0 {
			return nil, badRequestf("get-mark-list wants no arguments")
		}
		return GetMarkList{}, nil

	case "set-buffers-available":
		return SetBuffersAvailable{Files: args}, nil

	case "run":
		if len(args) == 0 {
			return nil, badRequestf("run wants a command name")
		}
		return RunCommand{Name: args[0], Args: args[1:]}, nil

	case "buffer-text":
		if len(args) != 2 {
			return nil, badRequestf("buffer-text wants 2 arguments, got %d", len(args))
		}
		n, err := parseU32(args[1])
		if err != nil {
			return nil, err
		}
		content, err := readRawLines(b.r, int(n))
		if err != nil {
			return nil, err
		}
		return BufferText{File: args[0], Content: content}, nil

	default:
		return nil, badRequestf("unknown request %q", cmd)
	}
}

func (b *PlainBackend) WriteReply(msg ToClient) error {
	switch m := msg.(type) {
	case Mark:
		writeMarkLine(b.w, m.Info)
	case MarkList:
		fmt.Fprintf(b.w, "mark-list %d\n", len(m.Infos))
		for _, info := range m.Infos {
			writeMarkLine(b.w, info)
		}
	case GetBufferText:
		fmt.Fprintf(b.w, "need-buffer %s\n", m.File)
	case NewBufferText:
		lines := splitContent(m.Content)
		fmt.Fprintf(b.w, "new-buffer %s %d\n", m.File, len(lines))
		for _, l := range lines {
			fmt.Fprintln(b.w, l)
		}
	case Error:
		fmt.Fprintf(b.w, "error %s\n", strings.ReplaceAll(m.Text, "\n", " "))
	default:
		return fmt.Errorf("unencodable reply %T", msg)
	}
	return b.w.Flush()
}

func writeMarkLine(w *bufio.Writer, info MarkInfo) {
	fmt.Fprintf(w, "mark %d %s %d %d %d %d", info.ID, info.File,
		info.StartLine, info.StartCol, info.EndLine, info.EndCol)
	for _, label := range info.Labels {
		fmt.Fprintf(w, " %s", label)
	}
	fmt.Fprintln(w)
}

// readLine returns the next line without its terminator. io.EOF on a
// partial final line still yields the line; bare io.EOF means a clean end.
func readLine(r *bufio.Reader) (string, error) {
	line, err := r.ReadString('\n')
	if err != nil {
		if err == io.EOF && line != "" {
			return strings.TrimRight(line, "\r\n"), nil
		}
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// readRawLines collects n content lines, rejoined with '\n'. The content
// regains a trailing newline because the protocol counts whole lines.
func readRawLines(r *bufio.Reader, n int) (string, error) {
	var sb strings.Builder
	for i := 0; i < n; i++ {
		line, err := readLine(r)
		if err != nil {
			return "", fmt.Errorf("buffer-text truncated at line %d of %d: %w", i+1, n, err)
		}
		sb.WriteString(line)
		sb.WriteByte('\n')
	}
	return sb.String(), nil
}

// splitContent breaks content into protocol lines. A trailing newline does
// not produce an empty final line.
func splitContent(content string) []string {
	content = strings.TrimSuffix(content, "\n")
	if content == "" {
		return nil
	}
	return strings.Split(content, "\n")
}

func parseU32(s string) (uint32, error) {
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, badRequestf("invalid number %q", s)
	}
	u, err := safecast.Conv[uint32](v)
	if err != nil {
		return 0, badRequestf("number %q out of range", s)
	}
	return u, nil
}
