package rewrite

import (
	"strings"

	"reforge/internal/ast"
	"reforge/internal/driver"
)

// FileRewrite is the fully regenerated text of one changed file.
type FileRewrite struct {
	File string
	Text string
}

// Rewrite diffs two program snapshots and returns one rewrite per file
// whose regenerated text differs. Files present only in the new snapshot
// are treated as changed.
func Rewrite(cx *driver.Ctxt, old, updated *ast.Program) []FileRewrite {
	oldByPath := make(map[string]ast.NodeID, len(old.Roots))
	for _, root := range old.Roots {
		oldByPath[old.Get(root).Name] = root
	}

	var out []FileRewrite
	for _, root := range updated.Roots {
		path := updated.Get(root).Name
		text := PrintFile(updated, root)
		if oldRoot, ok := oldByPath[path]; ok {
			if PrintFile(old, oldRoot) == text {
				continue
			}
		}
		out = append(out, FileRewrite{File: path, Text: text})
	}
	return out
}

// ApplyWith invokes fn once per changed real file. Synthetic files (names
// like "<test>") never reach the callback.
func ApplyWith(rws []FileRewrite, fn func(file, text string)) {
	for _, rw := range rws {
		if strings.HasPrefix(rw.File, "<") {
			continue
		}
		fn(rw.File, rw.Text)
	}
}
