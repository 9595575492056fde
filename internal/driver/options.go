package driver

import (
	"runtime"

	"stencil/internal/dialect"
	"stencil/internal/format"
	"stencil/internal/observ"
	"stencil/internal/pipeline"
	"stencil/internal/project"
	"stencil/internal/tree"
)

// Options configures expansion. The zero value is usable: it expands with
// the default dialect and neither caches nor writes.
type Options struct {
	Dialect        dialect.Dialect
	Extension      string // input extension, stripped to form the output path
	OutDir         string // absolute; empty writes next to the input
	Root           string // project root, outputs under OutDir mirror paths relative to it
	MaxDepth       int
	MaxDiagnostics int
	Jobs           int
	Layout         format.Options
	VerifyLayout   bool // re-parse formatted output and compare trees
	Write          bool

	Cache *DiskCache
	Sink  pipeline.ProgressSink
	Timer *observ.Timer
}

// OptionsFromConfig maps a loaded stencil.toml onto Options. The cache is
// not opened here.
func OptionsFromConfig(cfg project.Config) Options {
	return Options{
		Dialect:        cfg.Dialect,
		Extension:      cfg.Expand.Extension,
		OutDir:         cfg.Expand.OutDir,
		Root:           cfg.Root,
		MaxDepth:       cfg.Limits.MaxDepth,
		MaxDiagnostics: cfg.Limits.MaxDiagnostics,
		Jobs:           cfg.Expand.Jobs,
	}
}

func (o Options) withDefaults() Options {
	if o.Dialect.Marker == "" {
		o.Dialect = dialect.Default()
	}
	if o.Extension == "" {
		o.Extension = project.DefaultExtension
	}
	if o.MaxDepth <= 0 {
		o.MaxDepth = tree.DefaultMaxDepth
	}
	if o.Jobs <= 0 {
		o.Jobs = runtime.GOMAXPROCS(0)
	}
	return o
}
