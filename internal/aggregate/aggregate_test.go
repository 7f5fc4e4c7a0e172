package aggregate

import (
	"math/rand/v2"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mahabbalab/mahabba-server/internal/domain"
)

func rec(g domain.GenreCode, century int, score float64) domain.Record {
	return domain.Record{Genre: g, Century: century, LoveIndex: score}
}

func TestCompute_Arithmetic(t *testing.T) {
	records := []domain.Record{
		rec(domain.GenreBiography, 3, 1.0),
		rec(domain.GenreBiography, 3, 0.5),
		rec(domain.GenreDevotion, 3, 2.0),
	}

	got := Compute(records)

	approx := cmpopts.EquateApprox(0, 1e-4)
	if diff := cmp.Diff([]domain.Bucket{{Century: 3, Mean: 1.1667, N: 3}}, got.Pooled, approx); diff != "" {
		t.Errorf("pooled mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]domain.Bucket{{Century: 3, Mean: 0.75, N: 2}}, got.Series[0].Buckets, approx); diff != "" {
		t.Errorf("BIO mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]domain.Bucket{{Century: 3, Mean: 2.0, N: 1}}, got.Series[1].Buckets, approx); diff != "" {
		t.Errorf("DEV mismatch (-want +got):\n%s", diff)
	}
}

func TestByGenre_AlwaysSixSeriesInOrder(t *testing.T) {
	series := ByGenre([]domain.Record{rec(domain.GenreTheology, 9, 1.5)})

	require.Len(t, series, 6)
	for i, g := range domain.Genres {
		assert.Equal(t, g, series[i].Genre)
		assert.Equal(t, g.Label(), series[i].Label)
		assert.NotNil(t, series[i].Buckets)
	}
	assert.Empty(t, series[0].Buckets)
	assert.Len(t, series[5].Buckets, 1)
}

func TestCompute_Empty(t *testing.T) {
	got := Compute(nil)

	assert.NotNil(t, got.Pooled)
	assert.Empty(t, got.Pooled)
	assert.Len(t, got.Series, 6)
}

func TestPooled_OmitsEmptyCenturiesAndSorts(t *testing.T) {
	records := []domain.Record{
		rec(domain.GenrePoetry, 12, 1),
		rec(domain.GenrePoetry, 2, 0),
		rec(domain.GenreRhetoric, 7, 2),
		rec(domain.GenreRhetoric, 2, 1),
	}

	want := []domain.Bucket{
		{Century: 2, Mean: 0.5, N: 2},
		{Century: 7, Mean: 2, N: 1},
		{Century: 12, Mean: 1, N: 1},
	}
	if diff := cmp.Diff(want, Pooled(records)); diff != "" {
		t.Errorf("pooled mismatch (-want +got):\n%s", diff)
	}
}

func TestCompute_PermutationInvariant(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))

	records := make([]domain.Record, 0, 500)
	for range 500 {
		g := domain.Genres[rng.IntN(len(domain.Genres))]
		records = append(records, rec(g, 1+rng.IntN(15), rng.Float64()*2))
	}

	want := Compute(records)

	for i := range 5 {
		shuffled := append([]domain.Record(nil), records...)
		rng.Shuffle(len(shuffled), func(a, b int) {
			shuffled[a], shuffled[b] = shuffled[b], shuffled[a]
		})

		// Exact comparison: means must be bit-identical, not just close.
		if diff := cmp.Diff(want, Compute(shuffled)); diff != "" {
			t.Fatalf("permutation %d changed the result (-want +got):\n%s", i, diff)
		}
	}
}

func TestCompute_DoesNotReorderInput(t *testing.T) {
	records := []domain.Record{
		rec(domain.GenrePoetry, 4, 1.5),
		rec(domain.GenrePoetry, 4, 0.5),
	}
	_ = Compute(records)

	assert.Equal(t, 1.5, records[0].LoveIndex)
	assert.Equal(t, 0.5, records[1].LoveIndex)
}
