package quadlet

import (
	"errors"
	"strings"

	"github.com/dominikbraun/graph"

	"github.com/trly/unit-ops/internal/unit"
)

// relationshipKeys are the [Unit] section keys whose values name other units.
var relationshipKeys = []string{"Requires", "After", "Wants"}

// Relationships builds the dependency graph over the set's unit names. Edges
// run from a dependency to its dependent and come from [Unit] Requires,
// After, and Wants values plus the [Container] Pod reference. Only references
// naming another entry in the set contribute; everything else is ignored.
func Relationships(set *unit.Set) (graph.Graph[string, string], error) {
	g := graph.New(graph.StringHash, graph.Directed(), graph.PreventCycles())

	for _, name := range set.Names() {
		if err := g.AddVertex(name); err != nil {
			return nil, err
		}
	}
	for _, name := range set.Names() {
		doc, _ := set.Get(name)
		for _, dep := range references(doc) {
			if dep == name {
				continue
			}
			if _, present := set.Get(dep); !present {
				continue
			}
			err := g.AddEdge(dep, name)
			if errors.Is(err, graph.ErrEdgeAlreadyExists) {
				continue
			}
			if err != nil {
				return nil, &dependencyCycleError{unit: name, cause: err}
			}
		}
	}

	return g, nil
}

// ActivationOrder sorts unit names so every unit comes after the units it
// depends on, with ties broken by name for deterministic output.
func ActivationOrder(set *unit.Set) ([]string, error) {
	g, err := Relationships(set)
	if err != nil {
		return nil, err
	}
	return graph.StableTopologicalSort(g, func(a, b string) bool { return a < b })
}

// references lists every unit name doc points at. Requires, After, and Wants
// hold space separated lists and may repeat.
func references(doc *unit.Document) []string {
	var refs []string
	if section, ok := doc.Get("Unit"); ok {
		for _, key := range relationshipKeys {
			for _, value := range section.Values(key) {
				refs = append(refs, strings.Fields(value)...)
			}
		}
	}
	if section, ok := doc.Get("Container"); ok {
		if pod, ok := section.Get("Pod"); ok && pod != "" {
			refs = append(refs, pod)
		}
	}
	return refs
}
