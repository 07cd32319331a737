package kg_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/BradA1878/model-exchange-framework-sub007/pkg/filter"
	"github.com/BradA1878/model-exchange-framework-sub007/pkg/kg"
)

func newGraph() *kg.Graph {
	return kg.NewGraph(kg.NewEntityRepository(), kg.NewRelationshipRepository())
}

func TestMergeEntitiesRewritesRelationships(t *testing.T) {
	g := newGraph()

	e1, err := g.Entities.Create(*kg.NewEntity("chan-1", kg.EntityOrganization, "Acme"))
	require.NoError(t, err)
	e2, err := g.Entities.Create(*kg.NewEntity("chan-1", kg.EntityOrganization, "ACME Inc"))
	require.NoError(t, err)
	e3, err := g.Entities.Create(*kg.NewEntity("chan-1", kg.EntityPerson, "Jane"))
	require.NoError(t, err)

	rel := kg.NewRelationship("chan-1", e2.ID, e3.ID, "employs")
	created, err := g.CreateRelationship(rel)
	require.NoError(t, err)

	sim := kg.NameSimilarity(e1.Name, e2.Name)
	require.GreaterOrEqual(t, sim, 0.8)

	_, err = g.MergeEntities(e1.ID, []string{e2.ID})
	require.NoError(t, err)

	merged, err := g.Entities.FindByID(e2.ID)
	require.NoError(t, err)
	require.True(t, merged.Merged)
	require.Equal(t, e1.ID, merged.MergedInto)

	rewritten, err := g.Relationships.FindByID(created.ID)
	require.NoError(t, err)
	require.Equal(t, e1.ID, rewritten.FromEntityID)

	page, err := g.Entities.FindByChannel("chan-1", false, filter.Pagination{})
	require.NoError(t, err)
	for _, e := range page.Items {
		require.NotEqual(t, e2.ID, e.ID)
	}
}

func TestFindOrCreateEntityUnionsAliases(t *testing.T) {
	g := newGraph()

	first, err := g.FindOrCreateEntity(kg.FindOrCreateRequest{
		ChannelID: "chan-1", Type: kg.EntityProject, Name: "Orion",
	})
	require.NoError(t, err)

	second, err := g.FindOrCreateEntity(kg.FindOrCreateRequest{
		ChannelID: "chan-1", Type: kg.EntityProject, Name: "orion", Aliases: []string{"Project O"},
	})
	require.NoError(t, err)

	require.Equal(t, first.ID, second.ID)
	require.Contains(t, second.Aliases, "Project O")
}

func TestFindPathReturnsEndpointsAndConfidence(t *testing.T) {
	g := newGraph()

	a, _ := g.Entities.Create(*kg.NewEntity("chan-1", kg.EntitySystem, "A"))
	b, _ := g.Entities.Create(*kg.NewEntity("chan-1", kg.EntitySystem, "B"))
	c, _ := g.Entities.Create(*kg.NewEntity("chan-1", kg.EntitySystem, "C"))

	rel1 := kg.NewRelationship("chan-1", a.ID, b.ID, "connects")
	rel1.Confidence = 0.9
	_, err := g.CreateRelationship(rel1)
	require.NoError(t, err)

	rel2 := kg.NewRelationship("chan-1", b.ID, c.ID, "connects")
	rel2.Confidence = 0.5
	_, err = g.CreateRelationship(rel2)
	require.NoError(t, err)

	path, ok, err := g.FindPath(a.ID, c.ID, 5)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, a.ID, path.EntityIDs[0])
	require.Equal(t, c.ID, path.EntityIDs[len(path.EntityIDs)-1])
	require.InDelta(t, 0.45, path.Confidence, 1e-9)
}
