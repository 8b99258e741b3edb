// Package storetest holds the conformance checks every result backend must pass.
package storetest

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soaringjerry/Persona/internal/models"
	"github.com/soaringjerry/Persona/internal/store"
)

// Sample returns a small valid record keyed by ts.
func Sample(ts int64) models.TestResult {
	return models.TestResult{
		SchemaVersion: models.CurrentSchemaVersion,
		Timestamp:     ts,
		Answers:       []models.AnswerChoice{models.ChoiceA, models.ChoiceB, models.ChoiceA},
		TraitLetters:  []models.TraitLetter{models.Extroverted, models.Intuitive, models.Thinking},
	}
}

// Run exercises a backend through the Gateway. newBackend must return an empty backend.
func Run(t *testing.T, newBackend func(t *testing.T) store.Backend) {
	t.Helper()
	ctx := context.Background()

	t.Run("round trip", func(t *testing.T) {
		g := store.NewGateway(newBackend(t), nil)
		t.Cleanup(func() { _ = g.Close() })

		rec := Sample(1700000000000)
		saved := g.Save(ctx, rec)
		require.True(t, saved.Success, "%v", saved.Err)
		assert.Equal(t, rec.Timestamp, saved.Data)

		got := g.Get(ctx, rec.Timestamp)
		require.True(t, got.Success, "%v", got.Err)
		require.NotNil(t, got.Data)
		if diff := cmp.Diff(rec, *got.Data); diff != "" {
			t.Fatalf("record mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("absent key", func(t *testing.T) {
		g := store.NewGateway(newBackend(t), nil)
		t.Cleanup(func() { _ = g.Close() })

		got := g.Get(ctx, 42)
		assert.True(t, got.Success)
		assert.Nil(t, got.Data)
		assert.NoError(t, got.Err)
	})

	t.Run("same timestamp overwrites", func(t *testing.T) {
		g := store.NewGateway(newBackend(t), nil)
		t.Cleanup(func() { _ = g.Close() })

		first := Sample(5)
		second := Sample(5)
		second.Answers = []models.AnswerChoice{models.ChoiceB}
		second.TraitLetters = []models.TraitLetter{models.Introverted}
		require.True(t, g.Save(ctx, first).Success)
		require.True(t, g.Save(ctx, second).Success)

		all := g.ListAll(ctx)
		require.True(t, all.Success)
		require.Len(t, all.Data, 1)
		assert.Equal(t, second.TraitLetters, all.Data[0].TraitLetters)
	})

	t.Run("list and clear", func(t *testing.T) {
		g := store.NewGateway(newBackend(t), nil)
		t.Cleanup(func() { _ = g.Close() })

		empty := g.ListAll(ctx)
		require.True(t, empty.Success)
		assert.Empty(t, empty.Data)

		for _, ts := range []int64{30, 10, 20} {
			require.True(t, g.Save(ctx, Sample(ts)).Success)
		}
		all := g.ListAll(ctx)
		require.True(t, all.Success)
		keys := make([]int64, 0, len(all.Data))
		for _, r := range all.Data {
			keys = append(keys, r.Timestamp)
		}
		assert.ElementsMatch(t, []int64{10, 20, 30}, keys)

		cleared := g.Clear(ctx)
		require.True(t, cleared.Success)
		assert.Equal(t, 3, cleared.Data)

		after := g.ListAll(ctx)
		require.True(t, after.Success)
		assert.Empty(t, after.Data)
		assert.Nil(t, g.Get(ctx, 10).Data)
	})

	t.Run("empty answers", func(t *testing.T) {
		g := store.NewGateway(newBackend(t), nil)
		t.Cleanup(func() { _ = g.Close() })

		rec := models.TestResult{Timestamp: 7}
		require.True(t, g.Save(ctx, rec).Success)
		got := g.Get(ctx, 7)
		require.True(t, got.Success)
		require.NotNil(t, got.Data)
		assert.Empty(t, got.Data.Answers)
		assert.Equal(t, models.CurrentSchemaVersion, got.Data.SchemaVersion)
	})
}
