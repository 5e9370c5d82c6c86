// Package driver runs the compiler pipeline up to a requested phase and
// hands the result to a continuation.
package driver

import (
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"reforge/internal/ast"
	"reforge/internal/diag"
	"reforge/internal/parser"
	"reforge/internal/sema"
	"reforge/internal/source"
	"reforge/internal/trace"
)

// Ctxt is the compiler context handed to the continuation alongside the
// program. It stays valid only for the duration of the continuation.
type Ctxt struct {
	FileSet *source.FileSet
	Sema    *sema.Result // nil below PhaseResolve
	Bag     *diag.Bag
	Phase   Phase
}

// SpanInfo resolves a node into its file path and start/end positions.
func (cx *Ctxt) SpanInfo(prog *ast.Program, id ast.NodeID) (path string, start, end source.LineCol) {
	span := prog.Get(id).Span
	start, end = cx.FileSet.Resolve(span)
	return cx.FileSet.Get(span.File).Path, start, end
}

// RunFunc is the continuation invoked exactly once with the built program.
type RunFunc func(prog *ast.Program, cx *Ctxt) error

// Options tune a compiler run.
type Options struct {
	Cache          *DiskCache // nil disables the parse cache
	Tracer         trace.Tracer
	MaxDiagnostics int
	Jobs           int // parallel file loads; <=0 means GOMAXPROCS
}

// RunCompiler loads every file named in args through the loader, builds the
// program to the requested phase, and calls fn exactly once. A nil loader
// means disk access.
func RunCompiler(args []string, loader FileLoader, phase Phase, fn RunFunc) error {
	return RunCompilerWithOptions(&Options{}, args, loader, phase, fn)
}

// RunCompilerWithOptions is RunCompiler with explicit options.
func RunCompilerWithOptions(opts *Options, args []string, loader FileLoader, phase Phase, fn RunFunc) error {
	if opts == nil {
		opts = &Options{}
	}
	if loader == nil {
		loader = RealFileLoader{}
	}
	tracer := opts.Tracer
	if tracer == nil {
		tracer = trace.Nop
	}
	if len(args) == 0 {
		return fmt.Errorf("no input files")
	}

	trace.Infof(tracer, trace.ScopeDriver, "run", "phase=%s files=%d", phase, len(args))

	contents, err := loadAll(args, loader, opts.Jobs)
	if err != nil {
		return err
	}

	fs := source.NewFileSet()
	bag := diag.NewBag(opts.MaxDiagnostics)
	prog := ast.NewProgram()
	for i, path := range args {
		fileID := fs.AddBytes(path, []byte(contents[i]), 0)
		file := fs.Get(fileID)
		if opts.Cache != nil && spliceCached(opts.Cache, prog, file) {
			trace.Infof(tracer, trace.ScopeFile, "parse", "cache hit for %s", file.Path)
			continue
		}
		before := bag.Len()
		root := parser.ParseFile(prog, file, bag)
		if opts.Cache != nil && bag.Len() == before {
			storeCached(opts.Cache, prog, root, file)
		}
	}
	if err := firstError(fs, bag); err != nil {
		return err
	}

	cx := &Ctxt{FileSet: fs, Bag: bag, Phase: phase}
	if phase >= PhaseResolve {
		cx.Sema = sema.Resolve(prog, bag)
		if err := firstError(fs, bag); err != nil {
			return err
		}
	}
	if phase >= PhaseTypecheck {
		sema.Check(prog, cx.Sema, bag)
		if err := firstError(fs, bag); err != nil {
			return err
		}
	}

	return fn(prog, cx)
}

// loadAll fetches file contents through the loader, in parallel, preserving
// argument order.
func loadAll(args []string, loader FileLoader, jobs int) ([]string, error) {
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	contents := make([]string, len(args))
	var g errgroup.Group
	g.SetLimit(jobs)
	for i, path := range args {
		i, path := i, path
		g.Go(func() error {
			s, err := loader.ReadFile(path)
			if err != nil {
				return fmt.Errorf("read %s: %w", path, err)
			}
			contents[i] = s
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return contents, nil
}

func firstError(fs *source.FileSet, bag *diag.Bag) error {
	d, ok := bag.FirstError()
	if !ok {
		return nil
	}
	if fs.HasFile(d.Span.File) {
		start, _ := fs.Resolve(d.Span)
		return fmt.Errorf("%s:%d:%d: %s", fs.Get(d.Span.File).Path, start.Line, start.Col, d.Message)
	}
	return fmt.Errorf("%s", d.Message)
}
