package format

// Writer accumulates formatted output and tracks indentation.
type Writer struct {
	opt         Options
	buf         []byte
	indentLevel int
	atLineStart bool
}

// NewWriter creates a new formatting writer.
func NewWriter(opt Options) *Writer {
	return &Writer{
		opt:         opt.withDefaults(),
		atLineStart: true,
	}
}

// Bytes returns the accumulated formatted output.
func (w *Writer) Bytes() []byte {
	return w.buf
}

// AtLineStart reports whether the next write starts a new line.
func (w *Writer) AtLineStart() bool {
	return w.atLineStart
}

func (w *Writer) writeIndent() {
	if !w.atLineStart {
		return
	}
	if w.opt.UseTabs {
		for range w.indentLevel {
			w.buf = append(w.buf, '\t')
		}
	} else {
		spaceCount := w.indentLevel * w.opt.IndentWidth
		for range spaceCount {
			w.buf = append(w.buf, ' ')
		}
	}
	w.atLineStart = false
}

// WriteString writes a string to the output, handling indentation.
func (w *Writer) WriteString(s string) {
	if s == "" {
		return
	}
	w.writeIndent()
	w.buf = append(w.buf, s...)
	w.atLineStart = s[len(s)-1] == '\n'
}

// Space writes a single space unless the output is at a line start or already
// ends with whitespace.
func (w *Writer) Space() {
	if len(w.buf) == 0 || w.atLineStart {
		return
	}
	last := w.buf[len(w.buf)-1]
	if last == ' ' || last == '\n' || last == '\t' {
		return
	}
	w.buf = append(w.buf, ' ')
}

// Newline ends the current line; trailing spaces are dropped.
func (w *Writer) Newline() {
	w.trimTrailingSpace()
	if len(w.buf) > 0 && w.buf[len(w.buf)-1] != '\n' {
		w.buf = append(w.buf, '\n')
	}
	w.atLineStart = true
}

// BlankLine makes sure exactly one empty line precedes the next write.
// No-op at the very beginning of the output.
func (w *Writer) BlankLine() {
	w.Newline()
	n := len(w.buf)
	if n == 0 || (n >= 2 && w.buf[n-2] == '\n') {
		return
	}
	w.buf = append(w.buf, '\n')
}

func (w *Writer) trimTrailingSpace() {
	for len(w.buf) > 0 && w.buf[len(w.buf)-1] == ' ' {
		w.buf = w.buf[:len(w.buf)-1]
	}
}

// IndentPush increases the indentation level.
func (w *Writer) IndentPush() {
	w.indentLevel++
}

// IndentPop decreases the indentation level.
func (w *Writer) IndentPop() {
	if w.indentLevel > 0 {
		w.indentLevel--
	}
}
