package directive

import (
	"strings"
	"sync"

	"stencil/internal/source"
	"stencil/internal/token"
)

// NamespaceExpect marks expected diagnostics.
const NamespaceExpect = "expect"

// Registry collects directive scenarios from lexed files.
type Registry struct {
	mu          sync.Mutex
	scenarios   []Scenario
	byNamespace map[string][]int // namespace -> indices into scenarios slice
}

// NewRegistry creates an empty directive registry.
func NewRegistry() *Registry {
	return &Registry{
		scenarios:   make([]Scenario, 0),
		byNamespace: make(map[string][]int),
	}
}

// Add registers a new directive scenario.
func (r *Registry) Add(scenario *Scenario) {
	r.mu.Lock()
	defer r.mu.Unlock()

	idx := len(r.scenarios)
	r.scenarios = append(r.scenarios, *scenario)
	r.byNamespace[scenario.Namespace] = append(r.byNamespace[scenario.Namespace], idx)
}

// All returns all registered scenarios.
func (r *Registry) All() []Scenario {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Scenario(nil), r.scenarios...)
}

// FilterByNamespace returns scenarios matching any of the given namespaces.
// If namespaces is empty, returns all scenarios.
func (r *Registry) FilterByNamespace(namespaces []string) []Scenario {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(namespaces) == 0 {
		return append([]Scenario(nil), r.scenarios...)
	}
	var result []Scenario
	for _, ns := range namespaces {
		for _, idx := range r.byNamespace[ns] {
			result = append(result, r.scenarios[idx])
		}
	}
	return result
}

// Len returns the total number of scenarios.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.scenarios)
}

// CollectFromTokens extracts `/// namespace: a, b` directives from the
// leading trivia of tokens. Each comma separated argument becomes one
// scenario targeting the token that carries the comment.
func (r *Registry) CollectFromTokens(tokens []token.Token, file *source.File) {
	// Track index per namespace within this file
	namespaceIndex := make(map[string]int)

	for _, tok := range tokens {
		for _, tr := range tok.Leading {
			if tr.Kind != token.TriviaDocLine {
				continue
			}
			namespace, args, ok := parseDirective(tr.Text)
			if !ok {
				continue
			}
			for _, arg := range args {
				r.Add(&Scenario{
					Namespace:  namespace,
					Index:      namespaceIndex[namespace],
					Code:       arg,
					SourceFile: file.Path,
					Span:       tr.Span,
					Target:     tok.Span,
				})
				namespaceIndex[namespace]++
			}
		}
	}
}

// parseDirective splits "/// expect: TPL3004, TPL3005".
func parseDirective(text string) (namespace string, args []string, ok bool) {
	body, found := strings.CutPrefix(text, "///")
	if !found {
		return "", nil, false
	}
	head, rest, found := strings.Cut(body, ":")
	namespace = strings.TrimSpace(head)
	if !found || namespace != NamespaceExpect {
		return "", nil, false
	}
	for _, arg := range strings.Split(rest, ",") {
		if arg = strings.TrimSpace(arg); arg != "" {
			args = append(args, arg)
		}
	}
	return namespace, args, len(args) > 0
}
