package bank

import (
	"embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/soaringjerry/Persona/internal/models"
)

//go:embed data/*.yaml
var embeddedData embed.FS

const (
	QuestionsFile = "questions.yaml"
	TraitsFile    = "traits.yaml"
	ReportsFile   = "reports.yaml"
)

// Bank holds the load-time constant tables: questions, trait classes and type reports.
// It is immutable after construction and safe for concurrent use.
type Bank struct {
	questions []models.Question
	byNo      map[int]int
	traits    map[models.TraitLetter]models.TraitClass
	reports   map[models.PersonalityType]models.PersonalityReport
}

// Load reads the tables from dir, falling back to the embedded copies for any
// file that is missing there (or for all of them when dir is empty).
func Load(dir string) (*Bank, error) {
	questions, err := readData(dir, QuestionsFile)
	if err != nil {
		return nil, err
	}
	traits, err := readData(dir, TraitsFile)
	if err != nil {
		return nil, err
	}
	reports, err := readData(dir, ReportsFile)
	if err != nil {
		return nil, err
	}
	return Parse(questions, traits, reports)
}

// Default returns the embedded bank. It panics if the embedded data is invalid,
// which can only happen through a bad build.
func Default() *Bank {
	b, err := Load("")
	if err != nil {
		panic(fmt.Sprintf("bank: embedded data invalid: %v", err))
	}
	return b
}

func readData(dir, name string) ([]byte, error) {
	if dir != "" {
		content, err := os.ReadFile(filepath.Join(dir, name))
		if err == nil {
			return content, nil
		}
		if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("read %s: %w", name, err)
		}
	}
	content, err := embeddedData.ReadFile("data/" + name)
	if err != nil {
		return nil, fmt.Errorf("read embedded %s: %w", name, err)
	}
	return content, nil
}

// Parse decodes and validates the three YAML tables.
func Parse(questionsYAML, traitsYAML, reportsYAML []byte) (*Bank, error) {
	var questions []models.Question
	if err := yaml.Unmarshal(questionsYAML, &questions); err != nil {
		return nil, fmt.Errorf("decode questions: %w", err)
	}
	var traits []models.TraitClass
	if err := yaml.Unmarshal(traitsYAML, &traits); err != nil {
		return nil, fmt.Errorf("decode traits: %w", err)
	}
	var reports []models.PersonalityReport
	if err := yaml.Unmarshal(reportsYAML, &reports); err != nil {
		return nil, fmt.Errorf("decode reports: %w", err)
	}
	return New(questions, traits, reports)
}

// New validates the tables and builds a Bank from them.
func New(questions []models.Question, traits []models.TraitClass, reports []models.PersonalityReport) (*Bank, error) {
	b := &Bank{
		questions: make([]models.Question, 0, len(questions)),
		byNo:      make(map[int]int, len(questions)),
		traits:    make(map[models.TraitLetter]models.TraitClass, len(traits)),
		reports:   make(map[models.PersonalityType]models.PersonalityReport, len(reports)),
	}
	if err := validateQuestions(questions); err != nil {
		return nil, err
	}
	for i, q := range questions {
		b.questions = append(b.questions, q)
		b.byNo[q.No] = i
	}

	for _, tc := range traits {
		if !tc.Type.Valid() {
			return nil, fmt.Errorf("trait %q: unknown letter", tc.Type)
		}
		if _, dup := b.traits[tc.Type]; dup {
			return nil, fmt.Errorf("trait %q: duplicate entry", tc.Type)
		}
		b.traits[tc.Type] = tc
	}
	for _, l := range models.AllTraitLetters {
		if _, ok := b.traits[l]; !ok {
			return nil, fmt.Errorf("trait %q: missing entry", l)
		}
	}

	for _, r := range reports {
		if !r.Type.Valid() {
			return nil, fmt.Errorf("report %q: not a personality type", r.Type)
		}
		if _, dup := b.reports[r.Type]; dup {
			return nil, fmt.Errorf("report %q: duplicate entry", r.Type)
		}
		if r.Name == "" {
			return nil, fmt.Errorf("report %q: name required", r.Type)
		}
		b.reports[r.Type] = r
	}
	for _, t := range models.AllPersonalityTypes() {
		if _, ok := b.reports[t]; !ok {
			return nil, fmt.Errorf("report %q: missing entry", t)
		}
	}
	return b, nil
}

func validateQuestions(questions []models.Question) error {
	if len(questions) == 0 {
		return errors.New("question bank is empty")
	}
	for i, q := range questions {
		if q.No != i+1 {
			return fmt.Errorf("question at position %d: sequence number %d, want %d", i+1, q.No, i+1)
		}
		if len(q.Options) != 2 {
			return fmt.Errorf("question %d: has %d options, want 2", q.No, len(q.Options))
		}
		a, okA := q.Option(models.ChoiceA)
		bOpt, okB := q.Option(models.ChoiceB)
		if !okA || !okB {
			return fmt.Errorf("question %d: options must be tagged A and B", q.No)
		}
		dim, ok := models.DimensionOf(a.Score)
		if !ok {
			return fmt.Errorf("question %d: option A scores unknown letter %q", q.No, a.Score)
		}
		if bOpt.Score != dim.Opposite(a.Score) {
			return fmt.Errorf("question %d: options score %q and %q, want opposite letters of %s", q.No, a.Score, bOpt.Score, dim.Key)
		}
	}
	return nil
}

// Len returns the number of questions.
func (b *Bank) Len() int { return len(b.questions) }

// Questions returns the questions in sequence order.
func (b *Bank) Questions() []models.Question {
	out := make([]models.Question, len(b.questions))
	copy(out, b.questions)
	return out
}

// Question looks up a question by its 1-based sequence number.
func (b *Bank) Question(no int) (models.Question, bool) {
	i, ok := b.byNo[no]
	if !ok {
		return models.Question{}, false
	}
	return b.questions[i], true
}

// Trait looks up the description of a trait letter.
func (b *Bank) Trait(l models.TraitLetter) (models.TraitClass, bool) {
	tc, ok := b.traits[l]
	return tc, ok
}

// Traits returns the trait classes in dimension order.
func (b *Bank) Traits() []models.TraitClass {
	out := make([]models.TraitClass, 0, len(models.AllTraitLetters))
	for _, l := range models.AllTraitLetters {
		out = append(out, b.traits[l])
	}
	return out
}

// Report looks up the report for a personality type.
func (b *Bank) Report(t models.PersonalityType) (models.PersonalityReport, bool) {
	r, ok := b.reports[t]
	return r, ok
}
