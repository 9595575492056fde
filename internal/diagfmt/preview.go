package diagfmt

import (
	"bytes"
	"fmt"
	"strings"

	"fortio.org/safecast"

	"stencil/internal/diag"
	"stencil/internal/source"
)

// editPreview holds the whole lines an edit touches, as they read before and
// after the edit.
type editPreview struct {
	before []string
	after  []string
}

func previewEdit(fs *source.FileSet, edit diag.FixEdit) (editPreview, error) {
	if !known(fs, edit.Span) {
		return editPreview{}, fmt.Errorf("fix edit refers to unknown file %d", edit.Span.File)
	}
	content := fs.Get(edit.Span.File).Content
	size, err := safecast.Conv[uint32](len(content))
	if err != nil {
		return editPreview{}, err
	}
	if edit.Span.Start > edit.Span.End || edit.Span.End > size {
		return editPreview{}, fmt.Errorf("fix edit %d..%d outside of file (%d bytes)", edit.Span.Start, edit.Span.End, size)
	}

	start, end := int(edit.Span.Start), int(edit.Span.End)
	from := bytes.LastIndexByte(content[:start], '\n') + 1
	to := len(content)
	if nl := bytes.IndexByte(content[end:], '\n'); nl >= 0 {
		to = end + nl
	}

	var after strings.Builder
	after.Write(content[from:start])
	after.WriteString(edit.NewText)
	after.Write(content[end:to])
	return editPreview{
		before: previewLines(string(content[from:to])),
		after:  previewLines(after.String()),
	}, nil
}

// previewLines splits a block into lines; an empty block has none.
func previewLines(block string) []string {
	if block == "" {
		return nil
	}
	return strings.Split(block, "\n")
}
