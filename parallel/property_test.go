package parallel_test

import (
	"cmp"
	"context"
	"strings"
	"testing"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/exascience/iterpar/parallel"
	"github.com/exascience/iterpar/sequential"
)

func randomInts(faker *gofakeit.Faker) []int {
	items := make([]int, faker.IntRange(0, 300))
	for i := range items {
		items[i] = faker.IntRange(-1000, 1000)
	}
	return items
}

func randomWords(faker *gofakeit.Faker) []string {
	words := make([]string, faker.IntRange(0, 200))
	for i := range words {
		words[i] = faker.Word()
	}
	return words
}

func TestAgainstSequential(t *testing.T) {
	ctx := context.Background()
	divisible := func(d int) func(int) bool {
		return func(x int) bool { return x%d == 0 }
	}

	for seed := uint64(1); seed <= 50; seed++ {
		faker := gofakeit.New(seed)
		items := randomInts(faker)
		n := faker.IntRange(1, 16)
		d := faker.IntRange(1, 7)

		count, err := parallel.Count(ctx, n, items, divisible(d))
		require.NoError(t, err)
		wantCount, _ := sequential.Count(ctx, n, items, divisible(d))
		assert.Equal(t, wantCount, count, "seed %d", seed)

		all, err := parallel.All(ctx, n, items, divisible(d))
		require.NoError(t, err)
		wantAll, _ := sequential.All(ctx, n, items, divisible(d))
		assert.Equal(t, wantAll, all, "seed %d", seed)

		found, err := parallel.Any(ctx, n, items, divisible(d))
		require.NoError(t, err)
		wantFound, _ := sequential.Any(ctx, n, items, divisible(d))
		assert.Equal(t, wantFound, found, "seed %d", seed)

		notAll, err := parallel.All(ctx, n, items, func(x int) bool { return !divisible(d)(x) })
		require.NoError(t, err)
		assert.Equal(t, !notAll, found, "any must equal !all(negated), seed %d", seed)

		filtered, err := parallel.Filter(ctx, n, items, divisible(d))
		require.NoError(t, err)
		wantFiltered, _ := sequential.Filter(ctx, n, items, divisible(d))
		assert.Equal(t, wantFiltered, filtered, "seed %d", seed)

		mapped, err := parallel.Map(ctx, n, items, func(x int) int { return x * d })
		require.NoError(t, err)
		wantMapped, _ := sequential.Map(ctx, n, items, func(x int) int { return x * d })
		assert.Equal(t, wantMapped, mapped, "seed %d", seed)

		joined, err := parallel.Join(ctx, n, items)
		require.NoError(t, err)
		wantJoined, _ := sequential.Join(ctx, n, items)
		assert.Equal(t, wantJoined, joined, "seed %d", seed)

		sum, err := parallel.Reduce(ctx, n, items, 0, func(x, y int) int { return x + y })
		require.NoError(t, err)
		wantSum, _ := sequential.Reduce(ctx, n, items, 0, func(x, y int) int { return x + y })
		assert.Equal(t, wantSum, sum, "seed %d", seed)

		best, err := parallel.Maximum(ctx, n, items, cmp.Compare[int])
		wantBest, wantErr := sequential.Maximum(ctx, n, items, cmp.Compare[int])
		assert.Equal(t, wantErr, err, "seed %d", seed)
		assert.Equal(t, wantBest, best, "seed %d", seed)

		lowest, err := parallel.Minimum(ctx, n, items, cmp.Compare[int])
		wantLowest, wantErr := sequential.Minimum(ctx, n, items, cmp.Compare[int])
		assert.Equal(t, wantErr, err, "seed %d", seed)
		assert.Equal(t, wantLowest, lowest, "seed %d", seed)
	}
}

func TestWordsAgainstSequential(t *testing.T) {
	ctx := context.Background()
	byLength := func(x, y string) int { return cmp.Compare(len(x), len(y)) }

	for seed := uint64(1); seed <= 30; seed++ {
		faker := gofakeit.New(seed)
		words := randomWords(faker)
		n := faker.IntRange(1, 12)

		joined, err := parallel.Join(ctx, n, words)
		require.NoError(t, err)
		assert.Equal(t, strings.Join(words, ""), joined, "seed %d", seed)

		upper, err := parallel.Map(ctx, n, words, strings.ToUpper)
		require.NoError(t, err)
		wantUpper, _ := sequential.Map(ctx, n, words, strings.ToUpper)
		assert.Equal(t, wantUpper, upper, "seed %d", seed)

		longest, err := parallel.Maximum(ctx, n, words, byLength)
		wantLongest, wantErr := sequential.Maximum(ctx, n, words, byLength)
		assert.Equal(t, wantErr, err, "seed %d", seed)
		assert.Equal(t, wantLongest, longest, "seed %d", seed)

		shortest, err := parallel.Minimum(ctx, n, words, byLength)
		require.Equal(t, wantErr, err, "seed %d", seed)
		reversed, _ := parallel.Maximum(ctx, n, words, func(x, y string) int { return byLength(y, x) })
		assert.Equal(t, reversed, shortest, "seed %d", seed)
	}
}

func TestSequentialExecuteMatches(t *testing.T) {
	ctx := context.Background()
	faker := gofakeit.New(42)
	items := randomInts(faker)
	transform := func(_ context.Context, part []int) (int, error) { return len(part), nil }
	reduce := func(sizes []int) []int { return sizes }

	for n := 1; n <= 20; n++ {
		got, err := parallel.Execute(ctx, n, items, transform, reduce)
		require.NoError(t, err)
		want, err := sequential.Execute(ctx, n, items, transform, reduce)
		require.NoError(t, err)
		assert.Equal(t, want, got, "%d workers", n)
	}
}
