package driver

import (
	"stencil/internal/diag"
	"stencil/internal/lexer"
	"stencil/internal/source"
	"stencil/internal/token"
	"stencil/internal/tree"
)

type TokenizeResult struct {
	FileSet *source.FileSet
	File    *source.File
	Tokens  []token.Token
	Bag     *diag.Bag
}

// Tokenize loads path and lexes it; the EOF token is included.
func Tokenize(path string, maxDiagnostics int) (*TokenizeResult, error) {
	fs := source.NewFileSet()
	fileID, err := fs.Load(path)
	if err != nil {
		return nil, err
	}
	file := fs.Get(fileID)
	bag := diag.NewBag(maxDiagnostics)
	tokens := lexer.Tokenize(file, lexer.Options{Reporter: diag.BagReporter{Bag: bag}})
	return &TokenizeResult{FileSet: fs, File: file, Tokens: tokens, Bag: bag}, nil
}

type TreeResult struct {
	FileSet *source.FileSet
	File    *source.File
	Unit    tree.Unit
	Bag     *diag.Bag
}

// ParseTree loads path and builds its token tree.
func ParseTree(path string, maxDepth, maxDiagnostics int) (*TreeResult, error) {
	fs := source.NewFileSet()
	fileID, err := fs.Load(path)
	if err != nil {
		return nil, err
	}
	file := fs.Get(fileID)
	bag := diag.NewBag(maxDiagnostics)
	unit := tree.Parse(file, diag.BagReporter{Bag: bag}, tree.Options{MaxDepth: maxDepth})
	return &TreeResult{FileSet: fs, File: file, Unit: unit, Bag: bag}, nil
}
