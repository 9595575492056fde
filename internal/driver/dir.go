package driver

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"stencil/internal/diag"
	"stencil/internal/pipeline"
	"stencil/internal/source"
	"stencil/internal/trace"
)

// ListFiles возвращает отсортированный список файлов с расширением ext.
// Hidden directories are skipped.
func ListFiles(dir, ext string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != dir && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasSuffix(path, ext) && len(d.Name()) > len(ext) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	// Сортируем для детерминированного порядка
	sort.Strings(files)
	return files, nil
}

// CollectInputs resolves a command-line target: a single file is taken as
// is, a directory is searched for files with ext.
func CollectInputs(target, ext string) (base string, files []string, err error) {
	info, err := os.Stat(target)
	if err != nil {
		return "", nil, err
	}
	if !info.IsDir() {
		return filepath.Dir(target), []string{target}, nil
	}
	files, err = ListFiles(target, ext)
	return target, files, err
}

// ExpandFiles expands paths in parallel and returns results in input order.
// All files are loaded before the workers start, so the FileSet is only read
// concurrently. Files that fail to load get an IO diagnostic instead of an
// expansion.
func ExpandFiles(ctx context.Context, baseDir string, paths []string, opts Options) (*source.FileSet, []*Result, error) {
	opts = opts.withDefaults()
	fileSet := source.NewFileSetWithBase(baseDir)
	if len(paths) == 0 {
		return fileSet, nil, nil
	}

	ctx, span := trace.Start(ctx, trace.ScopeDriver, "expand-files")
	defer span.End(fmt.Sprintf("%d files", len(paths)))

	fileIDs := make([]source.FileID, len(paths))
	loadErrors := make(map[int]error)
	for i, path := range paths {
		pipeline.Emit(opts.Sink, pipeline.Event{File: path, Stage: pipeline.StageRead, Status: pipeline.StatusQueued})
		id, err := fileSet.Load(path)
		if err != nil {
			// пустой виртуальный файл, чтобы диагностика указывала на путь
			loadErrors[i] = err
			id = fileSet.AddVirtual(path, nil)
		}
		fileIDs[i] = id
	}

	// Результаты (индексы уникальны для каждой горутины, мьютекс не нужен)
	results := make([]*Result, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(opts.Jobs, len(paths)))
	for i, path := range paths {
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			start := time.Now()

			if loadErr, failed := loadErrors[i]; failed {
				bag := diag.NewBag(opts.MaxDiagnostics)
				bag.Add(diag.NewError(diag.IOLoadFileError, source.Span{File: fileIDs[i]}, "failed to load file: "+loadErr.Error()))
				results[i] = &Result{Path: path, Bag: bag}
			} else {
				res, err := Expand(gctx, fileSet, fileIDs[i], opts)
				if err != nil {
					return err
				}
				results[i] = res
				if opts.Write && !res.Failed() {
					writeResult(gctx, res, opts)
				}
			}
			pipeline.Emit(opts.Sink, pipeline.Event{
				File:    path,
				Stage:   pipeline.StageWrite,
				Status:  terminalStatus(results[i]),
				Elapsed: time.Since(start),
			})
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return fileSet, results, err
	}
	return fileSet, results, nil
}

func terminalStatus(res *Result) pipeline.Status {
	switch {
	case res.Failed():
		return pipeline.StatusError
	case res.Cached:
		return pipeline.StatusCached
	default:
		return pipeline.StatusDone
	}
}

// OutputPath maps an input path to its output: the extension is stripped and,
// with an out dir, the path relative to the project root is kept under it.
func OutputPath(path string, opts Options) (string, error) {
	opts = opts.withDefaults()
	trimmed, ok := strings.CutSuffix(path, opts.Extension)
	if !ok || filepath.Base(trimmed) == "" || strings.HasSuffix(trimmed, string(filepath.Separator)) {
		return "", fmt.Errorf("%s: expected a file ending in %q", path, opts.Extension)
	}
	if opts.OutDir == "" {
		return trimmed, nil
	}
	abs, err := filepath.Abs(trimmed)
	if err != nil {
		return "", err
	}
	rel := filepath.Base(abs)
	if opts.Root != "" {
		if r, err := filepath.Rel(opts.Root, abs); err == nil && r != ".." && !strings.HasPrefix(r, ".."+string(filepath.Separator)) {
			rel = r
		}
	}
	return filepath.Join(opts.OutDir, rel), nil
}

func writeResult(ctx context.Context, res *Result, opts Options) {
	_, span := trace.Start(ctx, trace.ScopePass, "write")
	defer span.End(res.Written)
	pipeline.Emit(opts.Sink, pipeline.Event{File: res.Path, Stage: pipeline.StageWrite, Status: pipeline.StatusWorking})

	out, err := OutputPath(res.Path, opts)
	if err == nil {
		err = writeIfChanged(out, res.Output)
	}
	if err != nil {
		res.Bag.Add(diag.NewError(diag.IOWriteError, source.Span{File: res.FileID}, err.Error()))
		return
	}
	res.Written = out
}

// writeIfChanged leaves an identical existing file untouched.
func writeIfChanged(path string, content []byte) error {
	if old, err := os.ReadFile(path); err == nil && bytes.Equal(old, content) {
		return nil
	} else if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), ".stencil-*")
	if err != nil {
		return err
	}
	if err := tmp.Chmod(0o644); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return err
	}
	if _, err := tmp.Write(content); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), path)
}
