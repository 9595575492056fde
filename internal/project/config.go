package project

import (
	"fmt"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/BurntSushi/toml"

	"stencil/internal/dialect"
)

// Config is the resolved content of stencil.toml.
type Config struct {
	Path    string // "" when no file was found
	Root    string // project root, the directory of Path
	Dialect dialect.Dialect
	Expand  ExpandConfig
	Limits  LimitsConfig
}

// ExpandConfig is the [expand] section.
type ExpandConfig struct {
	Extension string // input extension with the dot, ".stn"
	OutDir    string // absolute; "" writes next to the input
	Jobs      int
	Cache     bool
}

// LimitsConfig is the [limits] section.
type LimitsConfig struct {
	MaxDepth       int
	MaxDiagnostics int
}

// DefaultExtension is the input file extension when none is configured.
const DefaultExtension = ".stn"

// Default returns the configuration used when no stencil.toml exists.
func Default() Config {
	return Config{
		Dialect: dialect.Default(),
		Expand: ExpandConfig{
			Extension: DefaultExtension,
			Jobs:      runtime.GOMAXPROCS(0),
			Cache:     true,
		},
		Limits: LimitsConfig{
			MaxDepth:       256,
			MaxDiagnostics: 100,
		},
	}
}

type fileConfig struct {
	Dialect struct {
		Marker           string   `toml:"marker"`
		FnKeyword        string   `toml:"fn_keyword"`
		LetKeyword       string   `toml:"let_keyword"`
		ModKeyword       string   `toml:"mod_keyword"`
		OpaqueKeyword    string   `toml:"opaque_keyword"`
		Unreachable      string   `toml:"unreachable"`
		TypedUnreachable string   `toml:"typed_unreachable"`
		Guard            []string `toml:"guard"`
		ScaffoldPrefix   string   `toml:"scaffold_prefix"`
		AttrNamespace    string   `toml:"attr_namespace"`
	} `toml:"dialect"`
	Expand struct {
		Extension string `toml:"extension"`
		OutDir    string `toml:"out_dir"`
		Jobs      int    `toml:"jobs"`
		Cache     bool   `toml:"cache"`
	} `toml:"expand"`
	Limits struct {
		MaxDepth       int `toml:"max_depth"`
		MaxDiagnostics int `toml:"max_diagnostics"`
	} `toml:"limits"`
}

// Load finds stencil.toml above startDir and decodes it over the defaults.
// A missing file is not an error.
func Load(startDir string) (Config, error) {
	path, ok, err := FindConfig(startDir)
	if err != nil {
		return Config{}, err
	}
	if !ok {
		return Default(), nil
	}
	return LoadFile(path)
}

// LoadFile decodes the given stencil.toml. Keys that are not present keep
// their defaults; present keys override them even when empty.
func LoadFile(path string) (Config, error) {
	var fc fileConfig
	meta, err := toml.DecodeFile(path, &fc)
	if err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		return Config{}, fmt.Errorf("%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}

	cfg := Default()
	cfg.Path = path
	cfg.Root = filepath.Dir(path)

	d := &cfg.Dialect
	setString(meta, &d.Marker, fc.Dialect.Marker, "dialect", "marker")
	setString(meta, &d.FnKeyword, fc.Dialect.FnKeyword, "dialect", "fn_keyword")
	setString(meta, &d.LetKeyword, fc.Dialect.LetKeyword, "dialect", "let_keyword")
	setString(meta, &d.ModKeyword, fc.Dialect.ModKeyword, "dialect", "mod_keyword")
	setString(meta, &d.OpaqueKeyword, fc.Dialect.OpaqueKeyword, "dialect", "opaque_keyword")
	setString(meta, &d.Unreachable, fc.Dialect.Unreachable, "dialect", "unreachable")
	setString(meta, &d.TypedUnreachable, fc.Dialect.TypedUnreachable, "dialect", "typed_unreachable")
	setString(meta, &d.ScaffoldPrefix, fc.Dialect.ScaffoldPrefix, "dialect", "scaffold_prefix")
	setString(meta, &d.AttrNamespace, fc.Dialect.AttrNamespace, "dialect", "attr_namespace")
	if meta.IsDefined("dialect", "guard") {
		d.Guard = fc.Dialect.Guard
	}
	if err := d.Validate(); err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}

	if meta.IsDefined("expand", "extension") {
		ext := strings.TrimSpace(fc.Expand.Extension)
		if ext == "" || ext == "." {
			return Config{}, fmt.Errorf("%s: [expand].extension must not be empty", path)
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		cfg.Expand.Extension = ext
	}
	if meta.IsDefined("expand", "out_dir") {
		out, err := ResolveOutDir(cfg.Root, fc.Expand.OutDir)
		if err != nil {
			return Config{}, fmt.Errorf("%s: %w", path, err)
		}
		cfg.Expand.OutDir = out
	}
	if meta.IsDefined("expand", "jobs") {
		if fc.Expand.Jobs < 0 {
			return Config{}, fmt.Errorf("%s: [expand].jobs must not be negative", path)
		}
		if fc.Expand.Jobs > 0 {
			cfg.Expand.Jobs = fc.Expand.Jobs
		}
	}
	if meta.IsDefined("expand", "cache") {
		cfg.Expand.Cache = fc.Expand.Cache
	}
	if meta.IsDefined("limits", "max_depth") {
		if fc.Limits.MaxDepth <= 0 {
			return Config{}, fmt.Errorf("%s: [limits].max_depth must be positive", path)
		}
		cfg.Limits.MaxDepth = fc.Limits.MaxDepth
	}
	if meta.IsDefined("limits", "max_diagnostics") {
		cfg.Limits.MaxDiagnostics = fc.Limits.MaxDiagnostics
	}
	return cfg, nil
}

func setString(meta toml.MetaData, dst *string, value string, key ...string) {
	if meta.IsDefined(key...) {
		*dst = value
	}
}
