package quadlet

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trly/unit-ops/internal/unit"
)

// TestActivationOrder_PodsBeforeMembers verifies pods sort ahead of the containers that join them.
func TestActivationOrder_PodsBeforeMembers(t *testing.T) {
	set, err := ParseRecords(sampleRecords)
	require.NoError(t, err)

	order, err := ActivationOrder(set)
	require.NoError(t, err)
	assert.Equal(t, []string{"bookstack.pod", "bookstack-app.container", "bookstack-db.container"}, order)
}

// TestActivationOrder_NoDependencies verifies independent units come out name sorted.
func TestActivationOrder_NoDependencies(t *testing.T) {
	set := unit.NewSet()
	for _, name := range []string{"zeta.container", "alpha.pod", "mid.container"} {
		require.NoError(t, set.Insert(name, unit.NewDocument()))
	}

	order, err := ActivationOrder(set)
	require.NoError(t, err)
	assert.Equal(t, []string{"alpha.pod", "mid.container", "zeta.container"}, order)
}

// TestActivationOrder_ExternalPodIgnored verifies references outside the set create no edges.
func TestActivationOrder_ExternalPodIgnored(t *testing.T) {
	doc := unit.NewDocument()
	doc.Section("Container").Set("Pod", "ghost.pod")
	set := unit.NewSet()
	require.NoError(t, set.Insert("app.container", doc))

	order, err := ActivationOrder(set)
	require.NoError(t, err)
	assert.Equal(t, []string{"app.container"}, order)
}

// TestActivationOrder_UnitSectionReferences verifies Requires and After
// values naming other set entries contribute edges and duplicates collapse.
func TestActivationOrder_UnitSectionReferences(t *testing.T) {
	web := unit.NewDocument()
	web.Section("Unit").Set("After", "db.container cache.container")
	web.Section("Unit").Append("Requires", "db.container")

	set := unit.NewSet()
	require.NoError(t, set.Insert("web.container", web))
	require.NoError(t, set.Insert("db.container", unit.NewDocument()))
	require.NoError(t, set.Insert("cache.container", unit.NewDocument()))

	order, err := ActivationOrder(set)
	require.NoError(t, err)
	assert.Equal(t, []string{"cache.container", "db.container", "web.container"}, order)
}

// TestRelationships_CollectsBothSources verifies [Unit] references and the
// [Container] Pod reference both land in the graph.
func TestRelationships_CollectsBothSources(t *testing.T) {
	app := unit.NewDocument()
	app.Section("Container").Set("Pod", "stack.pod")
	app.Section("Unit").Set("Wants", "db.container")

	set := unit.NewSet()
	require.NoError(t, set.Insert("app.container", app))
	require.NoError(t, set.Insert("stack.pod", unit.NewDocument()))
	require.NoError(t, set.Insert("db.container", unit.NewDocument()))

	g, err := Relationships(set)
	require.NoError(t, err)

	_, err = g.Edge("stack.pod", "app.container")
	assert.NoError(t, err)
	_, err = g.Edge("db.container", "app.container")
	assert.NoError(t, err)
}

// TestActivationOrder_CycleRejected verifies circular pod references are a typed error.
func TestActivationOrder_CycleRejected(t *testing.T) {
	a := unit.NewDocument()
	a.Section("Container").Set("Pod", "b.pod")
	b := unit.NewDocument()
	b.Section("Container").Set("Pod", "a.pod")

	set := unit.NewSet()
	require.NoError(t, set.Insert("a.pod", a))
	require.NoError(t, set.Insert("b.pod", b))

	_, err := ActivationOrder(set)
	require.Error(t, err)
	assert.True(t, IsDependencyCycleError(err))
}
