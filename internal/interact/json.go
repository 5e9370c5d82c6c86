package interact

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// JSONBackend speaks one JSON object per line, discriminated by a "msg"
// field. It carries arbitrary paths, labels and content, so editors that
// cannot guarantee whitespace-free tokens use it instead of plain.
type JSONBackend struct {
	r *bufio.Reader
	w *bufio.Writer
}

// NewJSONBackend builds a json backend over the given transport.
func NewJSONBackend(in io.Reader, out io.Writer) *JSONBackend {
	return &JSONBackend{r: bufio.NewReader(in), w: bufio.NewWriter(out)}
}

// jsonRequest is the union of every request shape; "msg" selects which
// fields are meaningful.
type jsonRequest struct {
	Msg     string   `json:"msg"`
	File    string   `json:"file,omitempty"`
	Line    uint32   `json:"line,omitempty"`
	Col     uint32   `json:"col,omitempty"`
	Kind    string   `json:"kind,omitempty"`
	Label   string   `json:"label,omitempty"`
	ID      uint32   `json:"id,omitempty"`
	Files   []string `json:"files,omitempty"`
	Name    string   `json:"name,omitempty"`
	Args    []string `json:"args,omitempty"`
	Content string   `json:"content,omitempty"`
}

type jsonMarkInfo struct {
	ID        uint32   `json:"id"`
	File      string   `json:"file"`
	StartLine uint32   `json:"start_line"`
	StartCol  uint32   `json:"start_col"`
	EndLine   uint32   `json:"end_line"`
	EndCol    uint32   `json:"end_col"`
	Labels    []string `json:"labels"`
}

type jsonReply struct {
	Msg     string         `json:"msg"`
	Info    *jsonMarkInfo  `json:"info,omitempty"`
	Infos   []jsonMarkInfo `json:"infos,omitempty"`
	File    string         `json:"file,omitempty"`
	Content string         `json:"content,omitempty"`
	Text    string         `json:"text,omitempty"`
}

func (b *JSONBackend) ReadRequest() (ToServer, error) {
	line, err := readLine(b.r)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(line) == "" {
		return nil, badRequestf("empty request line")
	}

	var req jsonRequest
	if err := json.Unmarshal([]byte(line), &req); err != nil {
		return nil, badRequestf("malformed request: %v", err)
	}

	switch req.Msg {
	case "add-mark":
		return AddMark{File: req.File, Line: req.Line, Col: req.Col, Kind: req.Kind, Label: req.Label}, nil
	case "remove-mark":
		return RemoveMark{ID: req.ID}, nil
	case "get-mark-info":
		return GetMarkInfo{ID: req.ID}, nil
	case "get-mark-list":
		return GetMarkList{}, nil
	case "set-buffers-available":
		return SetBuffersAvailable{Files: req.Files}, nil
	case "run-command":
		return RunCommand{Name: req.Name, Args: req.Args}, nil
	case "buffer-text":
		return BufferText{File: req.File, Content: req.Content}, nil
	default:
		return nil, badRequestf("unknown request %q", req.Msg)
	}
}

func (b *JSONBackend) WriteReply(msg ToClient) error {
	var rep jsonReply
	switch m := msg.(type) {
	case Mark:
		info := toJSONMarkInfo(m.Info)
		rep = jsonReply{Msg: "mark", Info: &info}
	case MarkList:
		infos := make([]jsonMarkInfo, len(m.Infos))
		for i, info := range m.Infos {
			infos[i] = toJSONMarkInfo(info)
		}
		rep = jsonReply{Msg: "mark-list", Infos: infos}
	case GetBufferText:
		rep = jsonReply{Msg: "get-buffer-text", File: m.File}
	case NewBufferText:
		rep = jsonReply{Msg: "new-buffer-text", File: m.File, Content: m.Content}
	case Error:
		rep = jsonReply{Msg: "error", Text: m.Text}
	default:
		return fmt.Errorf("unencodable reply %T", msg)
	}

	payload, err := json.Marshal(rep)
	if err != nil {
		return err
	}
	if _, err := b.w.Write(payload); err != nil {
		return err
	}
	if err := b.w.WriteByte('\n'); err != nil {
		return err
	}
	return b.w.Flush()
}

func toJSONMarkInfo(info MarkInfo) jsonMarkInfo {
	labels := info.Labels
	if labels == nil {
		labels = []string{}
	}
	return jsonMarkInfo{
		ID:        info.ID,
		File:      info.File,
		StartLine: info.StartLine,
		StartCol:  info.StartCol,
		EndLine:   info.EndLine,
		EndCol:    info.EndCol,
		Labels:    labels,
	}
}
