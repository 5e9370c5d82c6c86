// Package interact implements the interactive refactoring session: the
// message protocol between editor client and server, the worker thread
// bridging the transport to internal channels, the live file loader, the
// mark registry, and the session loop.
package interact

// ToServer is a request from the editor client to the session loop.
type ToServer interface{ isToServer() }

// AddMark attaches a label to the innermost node of the given kind at a
// 1-based line/column position.
type AddMark struct {
	File  string
	Line  uint32
	Col   uint32
	Kind  string
	Label string
}

// RemoveMark deletes every mark on the node.
type RemoveMark struct {
	ID uint32
}

// GetMarkInfo asks for the span and labels of one marked node.
type GetMarkInfo struct {
	ID uint32
}

// GetMarkList asks for every current mark.
type GetMarkList struct{}

// SetBuffersAvailable replaces the set of files the editor holds unsaved
// buffers for. The previous set is discarded, never merged.
type SetBuffersAvailable struct {
	Files []string
}

// RunCommand executes a registered transformation command.
type RunCommand struct {
	Name string
	Args []string
}

// BufferText carries editor buffer content in answer to a GetBufferText
// request. It is reserved for worker-internal routing; the session loop
// never handles it.
type BufferText struct {
	File    string
	Content string
}

// badRequest flows a transport decode failure through the session loop so
// its Error reply keeps the strict request ordering.
type badRequest struct {
	Text string
}

func (AddMark) isToServer()             {}
func (badRequest) isToServer()          {}
func (RemoveMark) isToServer()          {}
func (GetMarkInfo) isToServer()         {}
func (GetMarkList) isToServer()         {}
func (SetBuffersAvailable) isToServer() {}
func (RunCommand) isToServer()          {}
func (BufferText) isToServer()          {}

// ToClient is a reply from the server to the editor client.
type ToClient interface{ isToClient() }

// Mark reports the info for one marked node.
type Mark struct {
	Info MarkInfo
}

// MarkList reports every current mark.
type MarkList struct {
	Infos []MarkInfo
}

// GetBufferText asks the client for the current content of a file. Sent by
// the worker while servicing a live file read.
type GetBufferText struct {
	File string
}

// NewBufferText hands the client fully regenerated text for a changed file.
type NewBufferText struct {
	File    string
	Content string
}

// Error reports a failed request. The session continues.
type Error struct {
	Text string
}

func (Mark) isToClient()          {}
func (MarkList) isToClient()      {}
func (GetBufferText) isToClient() {}
func (NewBufferText) isToClient() {}
func (Error) isToClient()         {}

// MarkInfo is the client-facing view of one marked node. Line and column
// values are 1-based; labels are sorted lexicographically.
type MarkInfo struct {
	ID        uint32
	File      string
	StartLine uint32
	StartCol  uint32
	EndLine   uint32
	EndCol    uint32
	Labels    []string
}
