package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soaringjerry/Persona/internal/bank"
	"github.com/soaringjerry/Persona/internal/models"
	"github.com/soaringjerry/Persona/internal/store"
)

type faultyBackend struct{}

var errDisk = errors.New("disk full")

func (faultyBackend) Put(context.Context, models.TestResult) error { return errDisk }
func (faultyBackend) Get(context.Context, int64) (models.TestResult, bool, error) {
	return models.TestResult{}, false, errDisk
}
func (faultyBackend) List(context.Context) ([]models.TestResult, error) { return nil, errDisk }
func (faultyBackend) Clear(context.Context) (int, error)                { return 0, errDisk }
func (faultyBackend) Close() error                                      { return nil }

func newResultService(t *testing.T, backend store.Backend) *ResultService {
	t.Helper()
	svc := NewResultService(NewScoringEngine(bank.Default()), store.NewGateway(backend, nil), nil)
	clock := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time {
		clock = clock.Add(time.Second)
		return clock
	}
	return svc
}

func TestSubmitStoresClassifiedResult(t *testing.T) {
	ctx := context.Background()
	svc := newResultService(t, store.NewMemoryBackend())
	answers := repeat(models.ChoiceA, svc.Engine().Bank().Len())

	res, err := svc.Submit(ctx, answers)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 3, 1, 12, 0, 1, 0, time.UTC).UnixMilli(), res.Timestamp)
	assert.True(t, res.Type.Valid())

	rec, err := svc.Result(ctx, res.Timestamp)
	require.NoError(t, err)
	assert.Equal(t, answers, rec.Answers)
	assert.Len(t, rec.TraitLetters, len(answers))
	assert.Equal(t, res.Type, Classify(rec.TraitLetters))
	assert.Equal(t, models.CurrentSchemaVersion, rec.SchemaVersion)
}

func TestSubmitRejectsIncompleteAnswers(t *testing.T) {
	svc := newResultService(t, store.NewMemoryBackend())
	_, err := svc.Submit(context.Background(), []models.AnswerChoice{models.ChoiceA})
	se, ok := AsServiceError(err)
	require.True(t, ok)
	assert.Equal(t, ErrorInvalid, se.Code)
	assert.ErrorIs(t, err, ErrIncompleteAnswers)
}

func TestSubmitSurfacesSaveFault(t *testing.T) {
	svc := newResultService(t, &faultyBackend{})
	_, err := svc.Submit(context.Background(), repeat(models.ChoiceB, svc.Engine().Bank().Len()))
	se, ok := AsServiceError(err)
	require.True(t, ok)
	assert.Equal(t, ErrorUnavailable, se.Code)
	assert.Equal(t, MsgSaveFailed, se.Message)
	assert.ErrorIs(t, err, store.ErrStorageFault)
}

func TestResultDistinguishesAbsentFromFault(t *testing.T) {
	ctx := context.Background()

	_, err := newResultService(t, store.NewMemoryBackend()).Result(ctx, 123)
	se, ok := AsServiceError(err)
	require.True(t, ok)
	assert.Equal(t, ErrorNotFound, se.Code)

	_, err = newResultService(t, &faultyBackend{}).Result(ctx, 123)
	se, ok = AsServiceError(err)
	require.True(t, ok)
	assert.Equal(t, ErrorUnavailable, se.Code)
}

func TestHistoryNewestFirst(t *testing.T) {
	ctx := context.Background()
	svc := newResultService(t, store.NewMemoryBackend())
	n := svc.Engine().Bank().Len()

	first, err := svc.Submit(ctx, repeat(models.ChoiceA, n))
	require.NoError(t, err)
	second, err := svc.Submit(ctx, repeat(models.ChoiceB, n))
	require.NoError(t, err)

	hist, err := svc.History(ctx)
	require.NoError(t, err)
	require.Len(t, hist, 2)
	assert.Equal(t, second.Timestamp, hist[0].Timestamp)
	assert.Equal(t, second.Type, hist[0].Type)
	assert.Equal(t, first.Timestamp, hist[1].Timestamp)
	assert.Equal(t, n, hist[1].Answered)

	removed, err := svc.ClearAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, removed)
	hist, err = svc.History(ctx)
	require.NoError(t, err)
	assert.Empty(t, hist)
}

func TestViewOfStoredResult(t *testing.T) {
	ctx := context.Background()
	svc := newResultService(t, store.NewMemoryBackend())
	res, err := svc.Submit(ctx, alternate(svc.Engine().Bank().Len()))
	require.NoError(t, err)

	v, err := svc.View(ctx, res.Timestamp)
	require.NoError(t, err)
	assert.Equal(t, res.Type, v.Type)

	_, err = svc.View(ctx, res.Timestamp+1)
	se, ok := AsServiceError(err)
	require.True(t, ok)
	assert.Equal(t, ErrorNotFound, se.Code)
}
