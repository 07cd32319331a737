package repository_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BradA1878/model-exchange-framework-sub007/pkg/filter"
	"github.com/BradA1878/model-exchange-framework-sub007/pkg/mxerrors"
	"github.com/BradA1878/model-exchange-framework-sub007/pkg/repository"
)

type widget struct {
	ID        string
	Name      string
	Priority  int
	CreatedAt time.Time
}

func (w widget) GetID() string            { return w.ID }
func (w widget) GetCreatedAt() time.Time  { return w.CreatedAt }

func fieldAt(w widget) filter.FieldGetter {
	return func(field string) (any, bool) {
		switch field {
		case "name":
			return w.Name, true
		case "priority":
			return w.Priority, true
		default:
			return nil, false
		}
	}
}

func TestInMemory_CreateFindUpdateDelete(t *testing.T) {
	repo := repository.NewInMemory[widget]("widget", fieldAt)

	w := widget{ID: "w1", Name: "alpha", Priority: 1, CreatedAt: time.Now()}
	created, err := repo.Create(w)
	require.NoError(t, err)
	assert.Equal(t, "w1", created.ID)

	_, err = repo.Create(w)
	assert.True(t, mxerrors.Is(err, mxerrors.Conflict))

	got, err := repo.FindByID("w1")
	require.NoError(t, err)
	assert.Equal(t, "alpha", got.Name)

	updated, err := repo.Update("w1", func(w *widget) { w.Priority = 5 })
	require.NoError(t, err)
	assert.Equal(t, 5, updated.Priority)

	_, err = repo.FindByID("missing")
	assert.True(t, mxerrors.Is(err, mxerrors.NotFound))

	require.NoError(t, repo.Delete("w1"))
	_, err = repo.FindByID("w1")
	assert.True(t, mxerrors.Is(err, mxerrors.NotFound))
}

func TestInMemory_FindManyPagination(t *testing.T) {
	repo := repository.NewInMemory[widget]("widget", fieldAt)
	base := time.Now()
	for i := 0; i < 5; i++ {
		_, err := repo.Create(widget{
			ID:        string(rune('a' + i)),
			Name:      "item",
			Priority:  i,
			CreatedAt: base.Add(time.Duration(i) * time.Second),
		})
		require.NoError(t, err)
	}

	page, err := repo.FindMany(filter.Filter{}, filter.Pagination{Limit: 2, Offset: 0, SortBy: "priority", SortOrder: filter.SortAsc})
	require.NoError(t, err)
	assert.Equal(t, 5, page.Total)
	assert.True(t, page.HasMore)
	assert.Len(t, page.Items, 2)
	assert.Equal(t, 0, page.Items[0].Priority)
	assert.Equal(t, 1, page.Items[1].Priority)

	page2, err := repo.FindMany(filter.Filter{}, filter.Pagination{Limit: 2, Offset: 4, SortBy: "priority", SortOrder: filter.SortAsc})
	require.NoError(t, err)
	assert.False(t, page2.HasMore)
	assert.Len(t, page2.Items, 1)
}

func TestInMemory_CountExists(t *testing.T) {
	repo := repository.NewInMemory[widget]("widget", fieldAt)
	_, err := repo.Create(widget{ID: "a", Name: "x", Priority: 1, CreatedAt: time.Now()})
	require.NoError(t, err)

	n, err := repo.Count(filter.Filter{Where: map[string]any{"name": "x"}})
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	exists, err := repo.Exists(filter.Filter{Where: map[string]any{"name": "nope"}})
	require.NoError(t, err)
	assert.False(t, exists)
}
