package utility_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/BradA1878/model-exchange-framework-sub007/pkg/utility"
)

func TestNextQValueSingleSuccess(t *testing.T) {
	q := utility.NextQValue(0.5, 0.1, true)
	require.InDelta(t, 0.55, q, 1e-9)
}

func TestNextQValueConvergesTowardOneOnRepeatedSuccess(t *testing.T) {
	q := 0.5
	for i := 0; i < 10; i++ {
		q = utility.NextQValue(q, 0.1, true)
	}
	require.Greater(t, q, 0.80)
	require.Less(t, q, 0.83)
}

func TestClampBounds(t *testing.T) {
	require.Equal(t, 0.0, utility.Clamp(-5))
	require.Equal(t, 1.0, utility.Clamp(5))
	require.Equal(t, 0.42, utility.Clamp(0.42))
}

func TestBatchUpdateQValuesAppliesEveryID(t *testing.T) {
	store := map[string]utility.Record{
		"a": utility.New(),
		"b": utility.New(),
	}
	patch := func(id string, mutate func(*utility.Record)) error {
		r := store[id]
		mutate(&r)
		store[id] = r
		return nil
	}

	now := time.Now()
	err := utility.BatchUpdateQValues(patch, nil, map[string]float64{"a": 0.9, "b": 0.1}, now)
	require.NoError(t, err)
	require.InDelta(t, 0.9, store["a"].QValue, 1e-9)
	require.InDelta(t, 0.1, store["b"].QValue, 1e-9)
}

func TestIncrementRetrievalCountIsNotIdempotentByDefault(t *testing.T) {
	r := utility.New()
	store := map[string]utility.Record{"e": r}
	patch := func(id string, mutate func(*utility.Record)) error {
		v := store[id]
		mutate(&v)
		store[id] = v
		return nil
	}

	before := store["e"].RetrievalCount
	require.NoError(t, utility.IncrementRetrievalCount(patch, []string{"e", "e"}, time.Now()))
	require.Greater(t, store["e"].RetrievalCount, before)
	require.Equal(t, before+2, store["e"].RetrievalCount)
}
