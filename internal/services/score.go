package services

import (
	"errors"
	"fmt"

	"github.com/soaringjerry/Persona/internal/bank"
	"github.com/soaringjerry/Persona/internal/models"
)

var (
	// ErrQuestionNotFound is returned when a question number is not in the bank.
	ErrQuestionNotFound = errors.New("question not found")
	// ErrAnswerNotFound is returned when an answer tag matches neither option.
	ErrAnswerNotFound = errors.New("answer option not found")
	// ErrReportNotFound is returned when a personality type has no report entry.
	ErrReportNotFound = errors.New("personality report not found")
	// ErrIncompleteAnswers flags an answer buffer that does not cover every question.
	ErrIncompleteAnswers = errors.New("answers do not cover every question")
)

// ScoringEngine maps answers to trait letters and letters to a personality type.
// It only reads the bank, so a single engine can be shared across goroutines.
type ScoringEngine struct {
	bank *bank.Bank
}

func NewScoringEngine(b *bank.Bank) *ScoringEngine {
	return &ScoringEngine{bank: b}
}

// Bank exposes the tables the engine scores against.
func (e *ScoringEngine) Bank() *bank.Bank { return e.bank }

// ScoreForAnswer returns the trait letter the given answer scores toward.
func (e *ScoringEngine) ScoreForAnswer(questionNo int, choice models.AnswerChoice) (models.TraitLetter, error) {
	q, ok := e.bank.Question(questionNo)
	if !ok {
		return "", fmt.Errorf("%w: %d", ErrQuestionNotFound, questionNo)
	}
	opt, ok := q.Option(choice)
	if !ok {
		return "", fmt.Errorf("%w: question %d has no option %q", ErrAnswerNotFound, questionNo, choice)
	}
	return opt.Score, nil
}

// MustScoreForAnswer is ScoreForAnswer for callers that iterate the bank itself;
// a miss there is a programming error and panics.
func (e *ScoringEngine) MustScoreForAnswer(questionNo int, choice models.AnswerChoice) models.TraitLetter {
	l, err := e.ScoreForAnswer(questionNo, choice)
	if err != nil {
		panic(err)
	}
	return l
}

// ScoreAnswers scores a full answer buffer; answers[i] answers question i+1.
func (e *ScoringEngine) ScoreAnswers(answers []models.AnswerChoice) ([]models.TraitLetter, error) {
	if len(answers) != e.bank.Len() {
		return nil, fmt.Errorf("%w: got %d answers for %d questions", ErrIncompleteAnswers, len(answers), e.bank.Len())
	}
	letters := make([]models.TraitLetter, 0, len(answers))
	for i, a := range answers {
		if a == "" {
			return nil, fmt.Errorf("%w: question %d unanswered", ErrIncompleteAnswers, i+1)
		}
		l, err := e.ScoreForAnswer(i+1, a)
		if err != nil {
			return nil, err
		}
		letters = append(letters, l)
	}
	return letters, nil
}

// Classify picks, per dimension, the letter with the higher tally.
// Ties go to the dimension's first letter, so an empty input yields ESTJ.
func Classify(letters []models.TraitLetter) models.PersonalityType {
	counts := tally(letters)
	out := make([]byte, 0, len(models.Dimensions))
	for _, d := range models.Dimensions {
		if counts[d.First] >= counts[d.Second] {
			out = append(out, d.First[0])
		} else {
			out = append(out, d.Second[0])
		}
	}
	return models.PersonalityType(out)
}

// Classify is a convenience wrapper so handlers only need the engine.
func (e *ScoringEngine) Classify(letters []models.TraitLetter) models.PersonalityType {
	return Classify(letters)
}

// LookupReport returns the descriptive record for a personality type.
func (e *ScoringEngine) LookupReport(t models.PersonalityType) (models.PersonalityReport, error) {
	r, ok := e.bank.Report(t)
	if !ok {
		return models.PersonalityReport{}, fmt.Errorf("%w: %q", ErrReportNotFound, t)
	}
	return r, nil
}

func tally(letters []models.TraitLetter) map[models.TraitLetter]int {
	counts := make(map[models.TraitLetter]int, len(models.AllTraitLetters))
	for _, l := range models.AllTraitLetters {
		counts[l] = 0
	}
	for _, l := range letters {
		if _, ok := counts[l]; ok {
			counts[l]++
		}
	}
	return counts
}
