package db

import (
	"encoding/binary"
	"encoding/json"
	"fmt"

	"github.com/soaringjerry/Persona/internal/models"
)

// row is the column form shared by the SQL backends.
type row struct {
	ts            int64
	schemaVersion int
	answers       string
	traitLetters  string
}

func toRow(r models.TestResult) (row, error) {
	answers, err := json.Marshal(nonNilAnswers(r.Answers))
	if err != nil {
		return row{}, fmt.Errorf("encode answers: %w", err)
	}
	letters, err := json.Marshal(nonNilLetters(r.TraitLetters))
	if err != nil {
		return row{}, fmt.Errorf("encode trait letters: %w", err)
	}
	return row{
		ts:            r.Timestamp,
		schemaVersion: r.SchemaVersion,
		answers:       string(answers),
		traitLetters:  string(letters),
	}, nil
}

func (rw row) result() (models.TestResult, error) {
	r := models.TestResult{SchemaVersion: rw.schemaVersion, Timestamp: rw.ts}
	if err := json.Unmarshal([]byte(rw.answers), &r.Answers); err != nil {
		return models.TestResult{}, fmt.Errorf("decode answers of %d: %w", rw.ts, err)
	}
	if err := json.Unmarshal([]byte(rw.traitLetters), &r.TraitLetters); err != nil {
		return models.TestResult{}, fmt.Errorf("decode trait letters of %d: %w", rw.ts, err)
	}
	return r, nil
}

func nonNilAnswers(a []models.AnswerChoice) []models.AnswerChoice {
	if a == nil {
		return []models.AnswerChoice{}
	}
	return a
}

func nonNilLetters(l []models.TraitLetter) []models.TraitLetter {
	if l == nil {
		return []models.TraitLetter{}
	}
	return l
}

// boltKey orders keys numerically under bbolt's byte-wise comparison.
func boltKey(ts int64) []byte {
	k := make([]byte, 8)
	binary.BigEndian.PutUint64(k, uint64(ts))
	return k
}
