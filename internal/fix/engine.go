package fix

// todo: интеграция с git:
// По умолчанию создавать .bak только для незатрекинных файлов.

import (
	"errors"
	"fmt"
	"os"
	"sort"

	"stencil/internal/diag"
	"stencil/internal/source"
)

// ErrNoFixes is returned when no fixes were applied.
var ErrNoFixes = errors.New("no applicable fixes found")

// ApplyMode determines selection strategy for fixes.
type ApplyMode uint8

const (
	// ApplyModeAll applies every fix that does not conflict with an earlier one.
	ApplyModeAll ApplyMode = iota
	// ApplyModeOnce applies the first fix only.
	ApplyModeOnce
)

// ApplyOptions configures how fixes are selected and written.
type ApplyOptions struct {
	Mode   ApplyMode
	DryRun bool // compute FileChanges without touching the disk
}

// AppliedFix records a successfully applied fix.
type AppliedFix struct {
	Title     string
	Code      diag.Code
	Message   string
	Path      string
	EditCount int
}

// SkippedFix captures a skipped fix with a reason.
type SkippedFix struct {
	Title  string
	Reason string
}

// FileChange summarises modifications performed on a file.
type FileChange struct {
	Path      string
	EditCount int
	Content   []byte // the rewritten file
}

// ApplyResult aggregates applied fixes, skipped ones, and file changes.
type ApplyResult struct {
	Applied     []AppliedFix
	Skipped     []SkippedFix
	FileChanges []FileChange
}

type candidate struct {
	diag  diag.Diagnostic
	fix   diag.Fix
	order int
}

// Apply collects fixes from diagnostics, selects a subset according to opts,
// and rewrites the affected files. Edits use the spans of the loaded content.
func Apply(fs *source.FileSet, diagnostics []diag.Diagnostic, opts ApplyOptions) (*ApplyResult, error) {
	result := &ApplyResult{}
	if fs == nil {
		return result, fmt.Errorf("fix: FileSet is nil")
	}

	candidates := gatherCandidates(diagnostics, result)
	if len(candidates) == 0 {
		return result, ErrNoFixes
	}
	sortCandidates(candidates)
	if opts.Mode == ApplyModeOnce {
		candidates = candidates[:1]
	}

	accepted := make(map[source.FileID][]diag.FixEdit)
	for _, cand := range candidates {
		if reason := checkCandidate(fs, cand.fix, accepted); reason != "" {
			result.Skipped = append(result.Skipped, SkippedFix{Title: cand.fix.Title, Reason: reason})
			continue
		}
		for _, e := range cand.fix.Edits {
			accepted[e.Span.File] = append(accepted[e.Span.File], e)
		}
		result.Applied = append(result.Applied, AppliedFix{
			Title:     cand.fix.Title,
			Code:      cand.diag.Code,
			Message:   cand.diag.Message,
			Path:      fs.Get(cand.diag.Primary.File).FormatPath("auto", fs.BaseDir()),
			EditCount: len(cand.fix.Edits),
		})
	}
	if len(result.Applied) == 0 {
		return result, ErrNoFixes
	}

	ids := make([]source.FileID, 0, len(accepted))
	for id := range accepted {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	for _, id := range ids {
		file := fs.Get(id)
		content, err := Rewrite(file.Content, accepted[id])
		if err != nil {
			return result, fmt.Errorf("%s: %w", file.Path, err)
		}
		if !opts.DryRun {
			if err := writePreservingMode(file.Path, content); err != nil {
				return result, err
			}
		}
		result.FileChanges = append(result.FileChanges, FileChange{
			Path:      file.FormatPath("relative", fs.BaseDir()),
			EditCount: len(accepted[id]),
			Content:   content,
		})
	}
	return result, nil
}

// gatherCandidates flattens the fixes of every diagnostic. Fixes without
// edits are recorded as skipped.
func gatherCandidates(diagnostics []diag.Diagnostic, result *ApplyResult) []candidate {
	var cands []candidate
	order := 0
	for _, d := range diagnostics {
		for _, f := range d.Fixes {
			if len(f.Edits) == 0 {
				result.Skipped = append(result.Skipped, SkippedFix{Title: f.Title, Reason: "fix has no edits"})
				continue
			}
			cands = append(cands, candidate{diag: d, fix: f, order: order})
			order++
		}
	}
	return cands
}

// sortCandidates orders by file, span start, span end, then insertion order.
func sortCandidates(candidates []candidate) {
	sort.SliceStable(candidates, func(i, j int) bool {
		di, dj := candidates[i].diag, candidates[j].diag
		if di.Primary.File != dj.Primary.File {
			return di.Primary.File < dj.Primary.File
		}
		if di.Primary.Start != dj.Primary.Start {
			return di.Primary.Start < dj.Primary.Start
		}
		if di.Primary.End != dj.Primary.End {
			return di.Primary.End < dj.Primary.End
		}
		return candidates[i].order < candidates[j].order
	})
}

// checkCandidate returns why f cannot be applied on top of accepted, or "".
func checkCandidate(fs *source.FileSet, f diag.Fix, accepted map[source.FileID][]diag.FixEdit) string {
	for i, e := range f.Edits {
		if int(e.Span.File) >= fs.Len() {
			return "edit points to an unknown file"
		}
		file := fs.Get(e.Span.File)
		if file.Flags&source.FileVirtual != 0 {
			return "target file is virtual"
		}
		if e.Span.End < e.Span.Start || int(e.Span.End) > len(file.Content) {
			return "edit span out of range"
		}
		for _, prev := range accepted[e.Span.File] {
			if spansConflict(prev.Span, e.Span) {
				return fmt.Sprintf("conflicts with previously applied edits in %s", file.FormatPath("auto", fs.BaseDir()))
			}
		}
		for _, other := range f.Edits[:i] {
			if other.Span.File == e.Span.File && spansConflict(other.Span, e.Span) {
				return "fix has overlapping edits"
			}
		}
	}
	return ""
}

// Rewrite applies non-overlapping edits to content. Edits are given in
// original coordinates; insertions at the same offset keep their order.
func Rewrite(content []byte, edits []diag.FixEdit) ([]byte, error) {
	sorted := append([]diag.FixEdit(nil), edits...)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Span.Start != sorted[j].Span.Start {
			return sorted[i].Span.Start < sorted[j].Span.Start
		}
		return sorted[i].Span.End < sorted[j].Span.End
	})

	out := make([]byte, 0, len(content))
	var pos uint32
	for _, e := range sorted {
		if e.Span.Start < pos || e.Span.End < e.Span.Start || int(e.Span.End) > len(content) {
			return nil, fmt.Errorf("edit %d..%d overlaps or is out of range", e.Span.Start, e.Span.End)
		}
		out = append(out, content[pos:e.Span.Start]...)
		out = append(out, e.NewText...)
		pos = e.Span.End
	}
	return append(out, content[pos:]...), nil
}

// spansConflict reports whether two edit spans overlap.
// Spans are treated as half-open intervals [Start, End). Two zero-length edits
// never conflict; a zero-length edit conflicts with a span strictly containing
// its position.
func spansConflict(a, b source.Span) bool {
	if a.Start == a.End && b.Start == b.End {
		return false
	}
	if a.Start == a.End {
		return b.Start < a.Start && a.Start < b.End
	}
	if b.Start == b.End {
		return a.Start < b.Start && b.Start < a.End
	}
	return a.Start < b.End && b.Start < a.End
}

func writePreservingMode(path string, content []byte) error {
	mode := os.FileMode(0o644)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode()
	}
	if err := os.WriteFile(path, content, mode); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
