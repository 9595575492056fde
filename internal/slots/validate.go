package slots

import (
	"fmt"

	"github.com/sahilm/fuzzy"

	"stencil/internal/diag"
	"stencil/internal/source"
)

// Validate compares supplied names against the registry, independently for
// each slot kind. Every mismatch is reported: declared but not supplied is
// MissingTargetName (anchored at at), supplied but not declared is
// UnknownTargetName. The result is nil or a diag.List ordered constructions
// first, then substitutions; within a kind missing names come in declared
// order, then unknown names in supplied order.
func Validate(reg *Registry, constructions, substitutions []Name, at source.Span) error {
	var errs diag.List
	checkKind(&errs, KindConstruction, reg.Names(KindConstruction), constructions, at)
	checkKind(&errs, KindSubstitution, reg.Names(KindSubstitution), substitutions, at)
	return errs.Err()
}

func checkKind(errs *diag.List, kind Kind, declared []string, supplied []Name, at source.Span) {
	suppliedSet := make(map[string]struct{}, len(supplied))
	for _, n := range supplied {
		suppliedSet[n.Text] = struct{}{}
	}
	declaredSet := make(map[string]struct{}, len(declared))
	for _, name := range declared {
		declaredSet[name] = struct{}{}
		if _, ok := suppliedSet[name]; !ok {
			errs.Add(MissingTarget(kind, name, at))
		}
	}
	for _, n := range supplied {
		if _, ok := declaredSet[n.Text]; !ok {
			errs.Add(UnknownTarget(kind, n.Text, n.Span, declared))
		}
	}
}

// MissingTarget builds the MissingTargetName diagnostic.
func MissingTarget(kind Kind, name string, at source.Span) *diag.Error {
	return diag.Errorf(diag.TplMissingTargetName, at, "missing target name `%s` in %s", name, kind.Block())
}

// UnknownTarget builds the UnknownTargetName diagnostic, with a suggestion
// when a declared name of the same kind looks close enough.
func UnknownTarget(kind Kind, name string, sp source.Span, declared []string) *diag.Error {
	err := diag.Errorf(diag.TplUnknownTargetName, sp,
		"unknown target name `%s`. It should be declared in the `%s` block among the options of `define`",
		name, kind.Block())
	if guess, ok := Suggest(name, declared); ok {
		err = err.WithNote(sp, fmt.Sprintf("did you mean `%s`?", guess)).
			WithFix(fmt.Sprintf("replace with `%s`", guess), diag.FixEdit{Span: sp, NewText: guess})
	}
	return err
}

// Suggest picks the declared name that best matches name, trying name as a
// fuzzy pattern first and then each candidate as a pattern against name.
func Suggest(name string, declared []string) (string, bool) {
	if len(declared) == 0 {
		return "", false
	}
	if matches := fuzzy.Find(name, declared); len(matches) > 0 {
		return matches[0].Str, true
	}
	best, bestScore := "", 0
	for _, cand := range declared {
		matches := fuzzy.Find(cand, []string{name})
		if len(matches) == 0 {
			continue
		}
		if best == "" || matches[0].Score > bestScore {
			best, bestScore = cand, matches[0].Score
		}
	}
	return best, best != ""
}
