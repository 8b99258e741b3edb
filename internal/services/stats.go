package services

import (
	"math"
	"sort"

	"github.com/soaringjerry/Persona/internal/bank"
	"github.com/soaringjerry/Persona/internal/models"
)

// balancedGap is the percentage-point gap under which two poles count as balanced.
const balancedGap = 10.0

// DimensionStat summarizes one dimension of a result.
type DimensionStat struct {
	Dimension     string             `json:"dimension"`
	Name          string             `json:"name"`
	First         models.TraitLetter `json:"first"`
	Second        models.TraitLetter `json:"second"`
	FirstCount    int                `json:"first_count"`
	SecondCount   int                `json:"second_count"`
	FirstPercent  float64            `json:"first_percent"`
	SecondPercent float64            `json:"second_percent"`
	Dominant      models.TraitLetter `json:"dominant"`
	Balanced      bool               `json:"balanced"`
}

// DimensionStats computes per-dimension counts and shares of all letters.
func DimensionStats(letters []models.TraitLetter) []DimensionStat {
	counts := tally(letters)
	total := len(letters)
	out := make([]DimensionStat, 0, len(models.Dimensions))
	for _, d := range models.Dimensions {
		st := DimensionStat{
			Dimension:     d.Key,
			Name:          d.Name,
			First:         d.First,
			Second:        d.Second,
			FirstCount:    counts[d.First],
			SecondCount:   counts[d.Second],
			FirstPercent:  percent(counts[d.First], total),
			SecondPercent: percent(counts[d.Second], total),
			Dominant:      d.First,
		}
		if st.SecondCount > st.FirstCount {
			st.Dominant = d.Second
		}
		st.Balanced = math.Abs(st.FirstPercent-st.SecondPercent) < balancedGap
		out = append(out, st)
	}
	return out
}

// TraitShare is one bar of the trait chart.
type TraitShare struct {
	Type        models.TraitLetter `json:"type"`
	Description string             `json:"description"`
	Brief       string             `json:"brief"`
	Count       int                `json:"count"`
	Percent     float64            `json:"percent"`
}

// Breakdown is the chart section: every letter's share plus the two strongest.
type Breakdown struct {
	Traits   []TraitShare `json:"traits"`
	Dominant []TraitShare `json:"dominant"`
	Balanced bool         `json:"balanced"`
}

// TraitBreakdown computes each letter's share of all scored letters.
func TraitBreakdown(b *bank.Bank, letters []models.TraitLetter) Breakdown {
	counts := tally(letters)
	total := len(letters)
	shares := make([]TraitShare, 0, len(models.AllTraitLetters))
	for _, tc := range b.Traits() {
		shares = append(shares, TraitShare{
			Type:        tc.Type,
			Description: tc.Description,
			Brief:       tc.Brief,
			Count:       counts[tc.Type],
			Percent:     percent(counts[tc.Type], total),
		})
	}
	sorted := append([]TraitShare(nil), shares...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Percent > sorted[j].Percent })
	top := sorted[:2]
	return Breakdown{
		Traits:   shares,
		Dominant: top,
		Balanced: math.Abs(top[0].Percent-top[1].Percent) < balancedGap,
	}
}

func percent(n, total int) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(float64(n)/float64(total)*10000) / 100
}
