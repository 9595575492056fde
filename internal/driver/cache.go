package driver

import (
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"github.com/vmihailenco/msgpack/v5"

	"stencil/internal/diag"
	"stencil/internal/mono"
	"stencil/internal/project"
	"stencil/internal/source"
	"stencil/internal/version"
)

// Current schema version - increment when DiskPayload format changes
const diskCacheSchemaVersion uint16 = 1

// DiskCache хранит результаты раскрытия по ключу содержимого на диске.
// Thread-safe for concurrent access.
type DiskCache struct {
	mu  sync.RWMutex
	dir string
}

// DiskPayload is the cached expansion of one file. Only successful
// expansions are stored; warnings travel along so a hit reports the same
// diagnostics as a fresh run.
type DiskPayload struct {
	Schema    uint16
	Path      string
	Output    []byte
	Warnings  []cachedDiagnostic
	Templates []cachedTemplate
}

type cachedDiagnostic struct {
	Severity   uint8
	Code       uint16
	Message    string
	Start, End uint32
	Notes      []cachedNote
}

type cachedNote struct {
	Start, End uint32
	Msg        string
}

type cachedTemplate struct {
	Name       string
	Start, End uint32
	Uses       []cachedUse
}

type cachedUse struct {
	Start, End uint32
	Module     string
}

// OpenDiskCache initializes and returns a disk cache at the standard location.
func OpenDiskCache(app string) (*DiskCache, error) {
	dir, err := DefaultCacheDir(app)
	if err != nil {
		return nil, err
	}
	return OpenDiskCacheAt(dir)
}

// DefaultCacheDir returns $XDG_CACHE_HOME/app, falling back to ~/.cache/app.
func DefaultCacheDir(app string) (string, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		base = filepath.Join(home, ".cache")
	}
	return filepath.Join(base, app), nil
}

// OpenDiskCacheAt opens (creating if needed) a cache rooted at dir.
func OpenDiskCacheAt(dir string) (*DiskCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &DiskCache{dir: dir}, nil
}

// Dir returns the cache root.
func (c *DiskCache) Dir() string {
	if c == nil {
		return ""
	}
	return c.dir
}

func (c *DiskCache) pathFor(key project.Digest) string {
	hexKey := hex.EncodeToString(key[:])
	// Подкаталог по первым двум символам, чтобы не держать тысячи файлов в одном.
	return filepath.Join(c.dir, "expand", hexKey[:2], hexKey+".mp")
}

// Put serializes and writes a payload to the disk cache.
func (c *DiskCache) Put(key project.Digest, payload *DiskPayload) (err error) {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.pathFor(key)
	if err = os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	tmp := f.Name()
	defer func() {
		if err != nil {
			_ = f.Close()
			_ = os.Remove(tmp)
		}
	}()

	if err = msgpack.NewEncoder(f).Encode(payload); err != nil {
		return err
	}
	if err = f.Close(); err != nil {
		return err
	}
	// Атомарная замена
	return os.Rename(tmp, p)
}

// Get reads and deserializes a payload from the disk cache. A payload of
// another schema is a miss.
func (c *DiskCache) Get(key project.Digest, out *DiskPayload) (bool, error) {
	if c == nil {
		return false, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	f, err := os.Open(c.pathFor(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	defer f.Close()
	if err := msgpack.NewDecoder(f).Decode(out); err != nil {
		return false, fmt.Errorf("decode cache entry: %w", err)
	}
	return out.Schema == diskCacheSchemaVersion, nil
}

// DropAll removes every cached entry.
func (c *DiskCache) DropAll() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := os.RemoveAll(filepath.Join(c.dir, "expand")); err != nil {
		return err
	}
	return nil
}

// cacheKey covers everything that influences the output of a file.
func (x *expander) cacheKey() project.Digest {
	l := x.opts.Layout
	return project.Combine(project.Digest(x.file.Hash),
		version.Version,
		strconv.Itoa(int(diskCacheSchemaVersion)),
		x.d.Fingerprint(),
		fmt.Sprintf("depth=%d", x.opts.MaxDepth),
		fmt.Sprintf("indent=%d tabs=%t comments=%t", l.IndentWidth, l.UseTabs, !l.DropComments),
	)
}

func (x *expander) fromCache(key project.Digest, res *Result) bool {
	var p DiskPayload
	ok, err := x.opts.Cache.Get(key, &p)
	if err != nil || !ok || p.Output == nil {
		return false
	}
	file := x.file.ID
	for _, w := range p.Warnings {
		d := diag.New(diag.Severity(w.Severity), diag.Code(w.Code),
			source.Span{File: file, Start: w.Start, End: w.End}, w.Message)
		for _, n := range w.Notes {
			d = d.WithNote(source.Span{File: file, Start: n.Start, End: n.End}, n.Msg)
		}
		x.bag.Add(d)
	}
	for _, t := range p.Templates {
		x.insts.Declare(t.Name, source.Span{File: file, Start: t.Start, End: t.End})
		for _, u := range t.Uses {
			x.insts.Record(t.Name, mono.UseSite{
				Span:   source.Span{File: file, Start: u.Start, End: u.End},
				Module: u.Module,
			})
		}
	}
	res.Output = p.Output
	res.Cached = true
	x.finish(res)
	return true
}

func (x *expander) payload(res *Result) *DiskPayload {
	p := &DiskPayload{
		Schema: diskCacheSchemaVersion,
		Path:   res.Path,
		Output: res.Output,
	}
	for _, d := range res.Bag.Items() {
		w := cachedDiagnostic{
			Severity: uint8(d.Severity),
			Code:     uint16(d.Code),
			Message:  d.Message,
			Start:    d.Primary.Start,
			End:      d.Primary.End,
		}
		for _, n := range d.Notes {
			w.Notes = append(w.Notes, cachedNote{Start: n.Span.Start, End: n.Span.End, Msg: n.Msg})
		}
		p.Warnings = append(p.Warnings, w)
	}
	for _, e := range res.Templates {
		t := cachedTemplate{Name: e.Template, Start: e.Declared.Start, End: e.Declared.End}
		for _, u := range e.UseSites {
			t.Uses = append(t.Uses, cachedUse{Start: u.Span.Start, End: u.Span.End, Module: u.Module})
		}
		p.Templates = append(p.Templates, t)
	}
	return p
}
