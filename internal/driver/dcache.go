package driver

import (
	"encoding/hex"
	"os"
	"path/filepath"
	"slices"
	"sync"

	"github.com/vmihailenco/msgpack/v5"

	"reforge/internal/ast"
	"reforge/internal/source"
)

// Current schema version - increment when cachedFile format changes.
const diskCacheSchemaVersion uint16 = 2

// DiskCache stores parsed file subtrees keyed by content hash, so an
// unchanged file skips re-parsing on the next compiler run.
// Thread-safe for concurrent access.
type DiskCache struct {
	mu  sync.RWMutex
	dir string
}

// cachedNode is one arena node with links relative to the file subtree.
// Index 0 means "none"; node i of the subtree is entry i-1.
type cachedNode struct {
	Kind     uint8
	Start    uint32
	End      uint32
	Parent   uint32
	Children []uint32
	Name     string
	Text     string
}

type cachedFile struct {
	Schema uint16
	Root   uint32       // 1-based index of the file root in Nodes
	Nodes  []cachedNode // in node-ID order, so a splice renumbers like a parse
}

// OpenDiskCache initializes and returns a disk cache at the standard
// location ($XDG_CACHE_HOME or ~/.cache).
func OpenDiskCache(app string) (*DiskCache, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		base = filepath.Join(home, ".cache")
	}
	dir := filepath.Join(base, app)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &DiskCache{dir: dir}, nil
}

// OpenDiskCacheAt initializes a disk cache rooted at an explicit directory.
func OpenDiskCacheAt(dir string) (*DiskCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &DiskCache{dir: dir}, nil
}

func (c *DiskCache) pathFor(key [32]byte) string {
	hexKey := hex.EncodeToString(key[:])
	// Subdirectory "files" keeps the cache easy to inspect and clear.
	return filepath.Join(c.dir, "files", hexKey+".mp")
}

// put serializes and writes a payload, atomically via a temp file.
func (c *DiskCache) put(key [32]byte, payload *cachedFile) error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.pathFor(key)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	tmp := f.Name()
	defer func() {
		_ = os.Remove(tmp)
	}()

	data, err := msgpack.Marshal(payload)
	if err != nil {
		_ = f.Close()
		return err
	}
	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(tmp, p)
}

// get loads a payload, returning ok=false on miss or schema mismatch.
func (c *DiskCache) get(key [32]byte) (*cachedFile, bool) {
	if c == nil {
		return nil, false
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	data, err := os.ReadFile(c.pathFor(key))
	if err != nil {
		return nil, false
	}
	var payload cachedFile
	if err := msgpack.Unmarshal(data, &payload); err != nil {
		return nil, false
	}
	if payload.Schema != diskCacheSchemaVersion {
		return nil, false
	}
	return &payload, true
}

// storeCached flattens the file subtree under root into a payload. Nodes are
// serialized in ascending node-ID order, not walk order: spliceCached assigns
// fresh IDs sequentially, and only ID order makes a cache hit number its nodes
// exactly like the parse that produced it.
func storeCached(c *DiskCache, prog *ast.Program, root ast.NodeID, file *source.File) {
	order := make([]ast.NodeID, 0, 64)
	prog.Walk(root, func(n *ast.Node) bool {
		order = append(order, n.ID)
		return true
	})
	slices.Sort(order)

	idx := make(map[ast.NodeID]uint32, len(order))
	for i, id := range order {
		idx[id] = uint32(i + 1)
	}

	payload := &cachedFile{
		Schema: diskCacheSchemaVersion,
		Root:   idx[root],
		Nodes:  make([]cachedNode, len(order)),
	}
	for i, id := range order {
		n := prog.Get(id)
		cn := cachedNode{
			Kind:   uint8(n.Kind),
			Start:  n.Span.Start,
			End:    n.Span.End,
			Parent: idx[n.Parent], // 0 for the root
			Name:   n.Name,
			Text:   n.Text,
		}
		cn.Children = make([]uint32, len(n.Children))
		for j, ch := range n.Children {
			cn.Children[j] = idx[ch]
		}
		payload.Nodes[i] = cn
	}
	// Best effort; a failed write just means a re-parse next time.
	_ = c.put(file.Hash, payload)
}

// spliceCached rebuilds a cached file subtree into prog, assigning fresh
// node IDs. Returns false on cache miss.
func spliceCached(c *DiskCache, prog *ast.Program, file *source.File) bool {
	payload, ok := c.get(file.Hash)
	if !ok || len(payload.Nodes) == 0 {
		return false
	}
	if payload.Root == 0 || int(payload.Root) > len(payload.Nodes) {
		return false
	}

	ids := make([]ast.NodeID, len(payload.Nodes)+1)
	for i, cn := range payload.Nodes {
		span := source.Span{File: file.ID, Start: cn.Start, End: cn.End}
		id := prog.New(ast.NodeKind(cn.Kind), span)
		n := prog.Get(id)
		n.Name = cn.Name
		n.Text = cn.Text
		ids[i+1] = id
	}
	for i, cn := range payload.Nodes {
		for _, ch := range cn.Children {
			prog.AppendChild(ids[i+1], ids[ch])
		}
	}
	root := prog.Get(ids[payload.Root])
	root.Name = file.Path // path may differ from the cached copy
	prog.AddRoot(ids[payload.Root])
	return true
}
