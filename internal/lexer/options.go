package lexer

import (
	"stencil/internal/diag"
	"stencil/internal/source"
)

type Options struct {
	// Reporter получает лексические ошибки; nil — ошибки игнорируются, лексинг продолжается.
	Reporter diag.Reporter
}

func (lx *Lexer) errLex(code diag.Code, sp source.Span, msg string) {
	if lx.opts.Reporter != nil {
		lx.opts.Reporter.Report(code, diag.SevError, sp, msg, nil, nil)
	}
}
