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
)

type stubLister struct {
	results []models.TestResult
	err     error
}

func (s stubLister) Results(context.Context) ([]models.TestResult, error) { return s.results, s.err }

func scored(t *testing.T, e *ScoringEngine, ts time.Time, answers []models.AnswerChoice) models.TestResult {
	t.Helper()
	ls, err := e.ScoreAnswers(answers)
	require.NoError(t, err)
	return models.TestResult{
		SchemaVersion: models.CurrentSchemaVersion,
		Timestamp:     ts.UnixMilli(),
		Answers:       answers,
		TraitLetters:  ls,
	}
}

func TestAnalyticsSummary(t *testing.T) {
	b := bank.Default()
	e := NewScoringEngine(b)
	n := b.Len()
	day1 := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	day2 := day1.Add(24 * time.Hour)
	rs := []models.TestResult{
		scored(t, e, day1, repeat(models.ChoiceA, n)),
		scored(t, e, day1.Add(time.Hour), repeat(models.ChoiceA, n)),
		scored(t, e, day2, repeat(models.ChoiceB, n)),
	}

	sum, err := NewAnalyticsService(stubLister{results: rs}, b).Summary(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3, sum.TotalResults)
	require.Len(t, sum.Types, 16)
	total := 0
	for _, tc := range sum.Types {
		total += tc.Count
		assert.NotEmpty(t, tc.Name)
	}
	assert.Equal(t, 3, total)

	require.Len(t, sum.Timeseries, 2)
	assert.Equal(t, AnalyticsTimeseries{Date: "2024-05-01", Count: 2}, sum.Timeseries[0])
	assert.Equal(t, AnalyticsTimeseries{Date: "2024-05-02", Count: 1}, sum.Timeseries[1])

	require.Len(t, sum.Questions, n)
	for _, q := range sum.Questions {
		assert.Equal(t, 2, q.A, "question %d", q.No)
		assert.Equal(t, 1, q.B, "question %d", q.No)
	}

	require.Len(t, sum.Dimensions, 4)
	for _, d := range sum.Dimensions {
		assert.Equal(t, 3, d.N)
		assert.Positive(t, d.Items)
		assert.GreaterOrEqual(t, d.Alpha, 0.0)
		assert.LessOrEqual(t, d.Alpha, 1.0)
	}
}

func TestAnalyticsSkipsShortRecordsForAlpha(t *testing.T) {
	b := bank.Default()
	rs := []models.TestResult{{Timestamp: 1, Answers: []models.AnswerChoice{models.ChoiceA}, TraitLetters: []models.TraitLetter{models.Extroverted}}}

	sum, err := NewAnalyticsService(stubLister{results: rs}, b).Summary(context.Background())
	require.NoError(t, err)
	for _, d := range sum.Dimensions {
		assert.Zero(t, d.N)
		assert.Zero(t, d.Alpha)
	}
}

func TestAnalyticsPropagatesErrors(t *testing.T) {
	boom := NewUnavailableError(MsgLoadFailed, errors.New("boom"))
	_, err := NewAnalyticsService(stubLister{err: boom}, bank.Default()).Summary(context.Background())
	assert.ErrorIs(t, err, boom)
}
