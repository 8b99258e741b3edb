package services

import (
	"bytes"
	"encoding/csv"
	"strconv"
	"time"

	"github.com/soaringjerry/Persona/internal/models"
)

// ExportLongCSV renders one row per answered question.
func ExportLongCSV(rs []models.TestResult) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	_ = w.Write([]string{"timestamp", "question_no", "answer", "trait_letter"})
	for _, r := range rs {
		for i, a := range r.Answers {
			letter := ""
			if i < len(r.TraitLetters) {
				letter = string(r.TraitLetters[i])
			}
			rec := []string{
				strconv.FormatInt(r.Timestamp, 10),
				itoa(i + 1),
				string(a),
				letter,
			}
			if err := w.Write(rec); err != nil {
				return nil, err
			}
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

// ExportSummaryCSV renders one row per result with its type and letter tallies.
func ExportSummaryCSV(rs []models.TestResult) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	header := []string{"timestamp", "submitted_at", "type"}
	for _, l := range models.AllTraitLetters {
		header = append(header, string(l))
	}
	_ = w.Write(header)
	for _, r := range rs {
		counts := tally(r.TraitLetters)
		rec := make([]string, 0, len(header))
		rec = append(rec,
			strconv.FormatInt(r.Timestamp, 10),
			time.UnixMilli(r.Timestamp).UTC().Format(time.RFC3339),
			string(Classify(r.TraitLetters)),
		)
		for _, l := range models.AllTraitLetters {
			rec = append(rec, itoa(counts[l]))
		}
		if err := w.Write(rec); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

func itoa(i int) string { return strconv.Itoa(i) }
