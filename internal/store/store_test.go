package store_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/soaringjerry/Persona/internal/models"
	"github.com/soaringjerry/Persona/internal/store"
	"github.com/soaringjerry/Persona/internal/store/storetest"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestMemoryBackend(t *testing.T) {
	storetest.Run(t, func(t *testing.T) store.Backend { return store.NewMemoryBackend() })
}

type brokenBackend struct {
	err   error
	panic bool
}

func (b brokenBackend) fail() error {
	if b.panic {
		panic("disk on fire")
	}
	return b.err
}

func (b brokenBackend) Put(context.Context, models.TestResult) error { return b.fail() }
func (b brokenBackend) Get(context.Context, int64) (models.TestResult, bool, error) {
	return models.TestResult{}, false, b.fail()
}
func (b brokenBackend) List(context.Context) ([]models.TestResult, error) { return nil, b.fail() }
func (b brokenBackend) Clear(context.Context) (int, error)                { return 0, b.fail() }
func (b brokenBackend) Close() error                                      { return nil }

func TestBackendErrorsBecomeFaults(t *testing.T) {
	ctx := context.Background()
	cause := errors.New("io timeout")
	core, logs := observer.New(zap.ErrorLevel)
	g := store.NewGateway(brokenBackend{err: cause}, zap.New(core))

	saved := g.Save(ctx, storetest.Sample(1))
	assert.False(t, saved.Success)
	assert.ErrorIs(t, saved.Err, store.ErrStorageFault)
	assert.ErrorIs(t, saved.Err, cause)

	got := g.Get(ctx, 1)
	assert.False(t, got.Success)
	assert.Nil(t, got.Data)
	assert.ErrorIs(t, got.Err, store.ErrStorageFault)

	all := g.ListAll(ctx)
	assert.False(t, all.Success)
	assert.ErrorIs(t, all.Err, store.ErrStorageFault)

	cleared := g.Clear(ctx)
	assert.False(t, cleared.Success)
	var f *store.Fault
	require.ErrorAs(t, cleared.Err, &f)
	assert.Equal(t, "clear", f.Op)

	assert.Equal(t, 4, logs.Len())
}

func TestBackendPanicsBecomeFaults(t *testing.T) {
	ctx := context.Background()
	g := store.NewGateway(brokenBackend{panic: true}, nil)

	assert.NotPanics(t, func() {
		saved := g.Save(ctx, storetest.Sample(1))
		assert.False(t, saved.Success)
		assert.ErrorIs(t, saved.Err, store.ErrStorageFault)

		got := g.Get(ctx, 1)
		assert.False(t, got.Success)
		assert.ErrorIs(t, got.Err, store.ErrStorageFault)

		assert.False(t, g.ListAll(ctx).Success)
		assert.False(t, g.Clear(ctx).Success)
	})
}

func TestSaveRejectsInvalidRecords(t *testing.T) {
	ctx := context.Background()
	g := store.NewGateway(store.NewMemoryBackend(), nil)

	cases := map[string]models.TestResult{
		"zero timestamp": {Timestamp: 0},
		"length mismatch": {
			Timestamp:    1,
			Answers:      []models.AnswerChoice{models.ChoiceA},
			TraitLetters: nil,
		},
		"bad answer": {
			Timestamp:    1,
			Answers:      []models.AnswerChoice{"C"},
			TraitLetters: []models.TraitLetter{models.Extroverted},
		},
		"bad letter": {
			Timestamp:    1,
			Answers:      []models.AnswerChoice{models.ChoiceA},
			TraitLetters: []models.TraitLetter{"X"},
		},
	}
	for name, rec := range cases {
		t.Run(name, func(t *testing.T) {
			out := g.Save(ctx, rec)
			assert.False(t, out.Success)
			assert.ErrorIs(t, out.Err, store.ErrInvalidRecord)
			assert.NotErrorIs(t, out.Err, store.ErrStorageFault)
		})
	}
	assert.Empty(t, g.ListAll(ctx).Data)
}

func TestSaveStampsSchemaVersion(t *testing.T) {
	ctx := context.Background()
	g := store.NewGateway(store.NewMemoryBackend(), nil)

	rec := storetest.Sample(9)
	rec.SchemaVersion = 0
	require.True(t, g.Save(ctx, rec).Success)

	got := g.Get(ctx, 9)
	require.True(t, got.Success)
	assert.Equal(t, models.CurrentSchemaVersion, got.Data.SchemaVersion)
}

func TestSchemaVersionOnRead(t *testing.T) {
	ctx := context.Background()
	backend := store.NewMemoryBackend()
	g := store.NewGateway(backend, nil)

	legacy := storetest.Sample(1)
	legacy.SchemaVersion = 0
	future := storetest.Sample(2)
	future.SchemaVersion = models.CurrentSchemaVersion + 1
	require.NoError(t, backend.Put(ctx, legacy))
	require.NoError(t, backend.Put(ctx, future))

	got := g.Get(ctx, 1)
	require.True(t, got.Success)
	assert.Equal(t, models.CurrentSchemaVersion, got.Data.SchemaVersion)

	newer := g.Get(ctx, 2)
	assert.False(t, newer.Success)
	assert.ErrorIs(t, newer.Err, store.ErrUnsupportedSchema)

	all := g.ListAll(ctx)
	require.True(t, all.Success)
	require.Len(t, all.Data, 1)
	assert.Equal(t, int64(1), all.Data[0].Timestamp)
}

func TestAsyncVariants(t *testing.T) {
	ctx := context.Background()
	g := store.NewGateway(store.NewMemoryBackend(), nil)

	saved := <-g.SaveAsync(ctx, storetest.Sample(3))
	require.True(t, saved.Success)

	select {
	case got := <-g.GetAsync(ctx, 3):
		require.True(t, got.Success)
		require.NotNil(t, got.Data)
	case <-time.After(time.Second):
		t.Fatal("GetAsync never delivered")
	}

	all := <-g.ListAllAsync(ctx)
	require.True(t, all.Success)
	assert.Len(t, all.Data, 1)

	// unread outcome must not leak the worker
	_ = g.SaveAsync(ctx, storetest.Sample(4))
}

func TestConcurrentSaves(t *testing.T) {
	ctx := context.Background()
	g := store.NewGateway(store.NewMemoryBackend(), nil)

	chans := make([]<-chan store.Outcome[int64], 0, 50)
	for i := int64(1); i <= 50; i++ {
		chans = append(chans, g.SaveAsync(ctx, storetest.Sample(i)))
	}
	for _, ch := range chans {
		require.True(t, (<-ch).Success)
	}
	all := g.ListAll(ctx)
	require.True(t, all.Success)
	assert.Len(t, all.Data, 50)
}
