package services

import (
	"context"
	"sort"
	"time"

	"github.com/soaringjerry/Persona/internal/bank"
	"github.com/soaringjerry/Persona/internal/models"
)

// ResultLister is what analytics and export need from the result service.
type ResultLister interface {
	Results(ctx context.Context) ([]models.TestResult, error)
}

type AnalyticsService struct {
	results ResultLister
	bank    *bank.Bank
}

type TypeCount struct {
	Type    models.PersonalityType `json:"type"`
	Name    string                 `json:"name"`
	Count   int                    `json:"count"`
	Percent float64                `json:"percent"`
}

type DimensionAlpha struct {
	Dimension string  `json:"dimension"`
	Items     int     `json:"items"`
	Alpha     float64 `json:"alpha"`
	N         int     `json:"n"`
}

// QuestionHistogram counts how often each option of a question was picked.
type QuestionHistogram struct {
	No        int                `json:"no"`
	Dimension string             `json:"dimension"`
	A         int                `json:"a"`
	B         int                `json:"b"`
	ALetter   models.TraitLetter `json:"a_letter"`
}

type AnalyticsTimeseries struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

type AnalyticsSummary struct {
	TotalResults int                   `json:"total_results"`
	Types        []TypeCount           `json:"types"`
	Dimensions   []DimensionAlpha      `json:"dimensions"`
	Questions    []QuestionHistogram   `json:"questions"`
	Timeseries   []AnalyticsTimeseries `json:"timeseries"`
}

func NewAnalyticsService(results ResultLister, b *bank.Bank) *AnalyticsService {
	return &AnalyticsService{results: results, bank: b}
}

func (s *AnalyticsService) Summary(ctx context.Context) (*AnalyticsSummary, error) {
	rs, err := s.results.Results(ctx)
	if err != nil {
		return nil, err
	}
	questions := s.bank.Questions()
	return &AnalyticsSummary{
		TotalResults: len(rs),
		Types:        s.typeCounts(rs),
		Dimensions:   dimensionAlphas(questions, rs),
		Questions:    buildHistograms(questions, rs),
		Timeseries:   buildTimeseries(countsByDay(rs)),
	}, nil
}

func (s *AnalyticsService) typeCounts(rs []models.TestResult) []TypeCount {
	counts := map[models.PersonalityType]int{}
	for _, r := range rs {
		counts[Classify(r.TraitLetters)]++
	}
	out := make([]TypeCount, 0, 16)
	for _, t := range models.AllPersonalityTypes() {
		tc := TypeCount{Type: t, Count: counts[t], Percent: percent(counts[t], len(rs))}
		if rep, ok := s.bank.Report(t); ok {
			tc.Name = rep.Name
		}
		out = append(out, tc)
	}
	return out
}

// dimensionAlphas codes every answer as 1 when it scored the dimension's first
// letter and 0 otherwise, then computes alpha over the dimension's questions.
// Results that did not answer every question of a dimension are left out of it.
func dimensionAlphas(questions []models.Question, rs []models.TestResult) []DimensionAlpha {
	byDim := map[string][]int{}
	for _, q := range questions {
		if len(q.Options) == 0 {
			continue
		}
		if d, ok := models.DimensionOf(q.Options[0].Score); ok {
			byDim[d.Key] = append(byDim[d.Key], q.No)
		}
	}
	out := make([]DimensionAlpha, 0, len(models.Dimensions))
	for _, d := range models.Dimensions {
		nos := byDim[d.Key]
		matrix := make([][]float64, 0, len(rs))
		for _, r := range rs {
			row := make([]float64, 0, len(nos))
			complete := true
			for _, no := range nos {
				if no-1 >= len(r.TraitLetters) {
					complete = false
					break
				}
				v := 0.0
				if r.TraitLetters[no-1] == d.First {
					v = 1
				}
				row = append(row, v)
			}
			if complete {
				matrix = append(matrix, row)
			}
		}
		out = append(out, DimensionAlpha{
			Dimension: d.Key,
			Items:     len(nos),
			Alpha:     CronbachAlpha(matrix),
			N:         len(matrix),
		})
	}
	return out
}

func buildHistograms(questions []models.Question, rs []models.TestResult) []QuestionHistogram {
	out := make([]QuestionHistogram, 0, len(questions))
	for _, q := range questions {
		h := QuestionHistogram{No: q.No}
		if a, ok := q.Option(models.ChoiceA); ok {
			h.ALetter = a.Score
			if d, ok := models.DimensionOf(a.Score); ok {
				h.Dimension = d.Key
			}
		}
		for _, r := range rs {
			if q.No-1 >= len(r.Answers) {
				continue
			}
			switch r.Answers[q.No-1] {
			case models.ChoiceA:
				h.A++
			case models.ChoiceB:
				h.B++
			}
		}
		out = append(out, h)
	}
	return out
}

func countsByDay(rs []models.TestResult) map[string]int {
	counts := map[string]int{}
	for _, r := range rs {
		day := time.UnixMilli(r.Timestamp).UTC().Format("2006-01-02")
		counts[day]++
	}
	return counts
}

func buildTimeseries(counts map[string]int) []AnalyticsTimeseries {
	days := make([]string, 0, len(counts))
	for d := range counts {
		days = append(days, d)
	}
	sort.Strings(days)
	out := make([]AnalyticsTimeseries, 0, len(days))
	for _, d := range days {
		out = append(out, AnalyticsTimeseries{Date: d, Count: counts[d]})
	}
	return out
}
