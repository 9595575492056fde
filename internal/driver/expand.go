package driver

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"stencil/internal/diag"
	"stencil/internal/dialect"
	"stencil/internal/format"
	"stencil/internal/inject"
	"stencil/internal/lexer"
	"stencil/internal/mono"
	"stencil/internal/pipeline"
	"stencil/internal/source"
	"stencil/internal/template"
	"stencil/internal/token"
	"stencil/internal/trace"
	"stencil/internal/tree"
)

// Result is the outcome of expanding one file.
type Result struct {
	Path      string
	FileID    source.FileID
	Output    []byte    // nil when Bag has errors
	Bag       *diag.Bag // sorted and deduplicated
	Templates []*mono.InstEntry
	Cached    bool
	Written   string // output path when the result was written
}

// Failed reports whether the file produced no usable output.
func (r *Result) Failed() bool {
	return r == nil || r.Output == nil || r.Bag.HasErrors()
}

// Expand runs declaration, instantiation, the attribute pass and layout over
// one loaded file. Problems in the input are diagnostics in Result.Bag; the
// returned error is reserved for cancellation and internal failures.
func Expand(ctx context.Context, fs *source.FileSet, id source.FileID, opts Options) (*Result, error) {
	opts = opts.withDefaults()
	file := fs.Get(id)
	x := &expander{
		opts:      opts,
		d:         opts.Dialect,
		marker:    opts.Dialect.MarkerKind(),
		file:      file,
		bag:       diag.NewBag(opts.MaxDiagnostics),
		templates: make(map[string]*template.Template),
		insts:     mono.NewInstantiationMap(),
	}
	return x.run(ctx)
}

type expander struct {
	opts      Options
	d         dialect.Dialect
	marker    token.Kind
	file      *source.File
	bag       *diag.Bag
	templates map[string]*template.Template
	insts     *mono.InstantiationMap
}

func (x *expander) run(ctx context.Context) (*Result, error) {
	ctx, span := trace.Start(ctx, trace.ScopeModule, "expand")
	span.WithExtra("path", x.file.Path)
	res := &Result{Path: x.file.Path, FileID: x.file.ID, Bag: x.bag}
	defer func() {
		span.WithExtra("diagnostics", strconv.Itoa(x.bag.Len()))
		span.End(statusDetail(res))
	}()

	key := x.cacheKey()
	if x.opts.Cache != nil {
		hit := false
		x.phase(ctx, pipeline.StageRead, "cache", func() { hit = x.fromCache(key, res) })
		if hit {
			return res, nil
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	rep := diag.BagReporter{Bag: x.bag}
	var tokens []token.Token
	x.phase(ctx, pipeline.StageRead, "lex", func() {
		tokens = lexer.Tokenize(x.file, lexer.Options{Reporter: rep})
	})
	var unit tree.Unit
	x.phase(ctx, pipeline.StageRead, "tree", func() {
		unit = tree.Build(tokens, rep, tree.Options{MaxDepth: x.opts.MaxDepth})
	})
	if x.bag.HasErrors() {
		return x.finish(res), nil
	}

	nodes := unit.Nodes
	x.phase(ctx, pipeline.StageDeclare, "declare", func() { nodes = x.declare(nodes) })
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	x.phase(ctx, pipeline.StageInstantiate, "instantiate", func() {
		nodes = x.instantiate(nodes, nil)
		x.reportUnused()
	})
	if x.bag.HasErrors() {
		return x.finish(res), nil
	}

	x.phase(ctx, pipeline.StageApply, "apply", func() {
		applied, err := inject.Apply(nodes, x.d)
		if err != nil {
			x.bag.AddErr(err)
			return
		}
		nodes = applied
	})
	if x.bag.HasErrors() {
		return x.finish(res), nil
	}

	var out []byte
	var layoutErr error
	x.phase(ctx, pipeline.StageFormat, "format", func() {
		out = format.Layout(tree.Unit{Nodes: nodes, Trailing: unit.Trailing}, x.opts.Layout)
		if x.opts.VerifyLayout {
			layoutErr = format.CheckRoundTrip(nodes, out)
		}
	})
	if layoutErr != nil {
		return nil, fmt.Errorf("%s: %w", x.file.Path, layoutErr)
	}
	res.Output = out
	x.finish(res)

	if x.opts.Cache != nil {
		x.phase(ctx, pipeline.StageWrite, "cache", func() {
			if err := x.opts.Cache.Put(key, x.payload(res)); err != nil {
				trace.Point(trace.FromContext(ctx), trace.ScopeModule, "cache-put-failed", err.Error(), span.ID())
			}
		})
	}
	return res, nil
}

func (x *expander) finish(res *Result) *Result {
	x.bag.Sort()
	x.bag.Dedup()
	res.Templates = x.insts.Sorted()
	return res
}

// phase runs fn as one traced, timed step of stage.
func (x *expander) phase(ctx context.Context, stage pipeline.Stage, name string, fn func()) {
	_, span := trace.Start(ctx, trace.ScopePass, name)
	pipeline.Emit(x.opts.Sink, pipeline.Event{File: x.file.Path, Stage: stage, Status: pipeline.StatusWorking})
	start := time.Now()
	fn()
	x.opts.Timer.Add(name, time.Since(start))
	span.End("")
}

func (x *expander) reportUnused() {
	for _, e := range x.insts.Unused() {
		x.bag.Add(diag.New(diag.SevWarning, diag.TplUnusedTemplate, e.Declared,
			fmt.Sprintf("template `%s` is declared but never instantiated", e.Template)))
	}
}

func statusDetail(res *Result) string {
	switch {
	case res.Cached:
		return "cached"
	case res.Output == nil:
		return "failed"
	default:
		return "ok"
	}
}

// carryLeading moves the comments and blank lines in front of a replaced
// construct onto the first node of its replacement.
func carryLeading(nodes []tree.Node, lead []token.Trivia) []tree.Node {
	if len(nodes) == 0 || len(lead) == 0 {
		return nodes
	}
	out := make([]tree.Node, len(nodes))
	copy(out, nodes)
	first := out[0]
	first.Tok.Leading = append(append([]token.Trivia(nil), lead...), first.Tok.Leading...)
	out[0] = first
	return out
}
