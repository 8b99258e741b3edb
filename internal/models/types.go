package models

// TraitLetter is one pole of one of the four personality dimensions.
type TraitLetter string

const (
	Extroverted TraitLetter = "E"
	Introverted TraitLetter = "I"
	Sensing     TraitLetter = "S"
	Intuitive   TraitLetter = "N"
	Thinking    TraitLetter = "T"
	Feeling     TraitLetter = "F"
	Judging     TraitLetter = "J"
	Perceiving  TraitLetter = "P"
)

// AllTraitLetters lists the eight letters in dimension order, first pole first.
var AllTraitLetters = []TraitLetter{
	Extroverted, Introverted,
	Sensing, Intuitive,
	Thinking, Feeling,
	Judging, Perceiving,
}

// Valid reports whether l is one of the eight trait letters.
func (l TraitLetter) Valid() bool {
	_, ok := DimensionOf(l)
	return ok
}

// AnswerChoice is the tag of one of the two options of a question.
type AnswerChoice string

const (
	ChoiceA AnswerChoice = "A"
	ChoiceB AnswerChoice = "B"
)

// Valid reports whether c is A or B. The empty choice (unanswered) is not valid.
func (c AnswerChoice) Valid() bool { return c == ChoiceA || c == ChoiceB }

// Dimension is a pair of opposite trait letters. First is the tie-break default.
type Dimension struct {
	Key    string      `json:"key"`
	Name   string      `json:"name"`
	First  TraitLetter `json:"first"`
	Second TraitLetter `json:"second"`
}

// Has reports whether l belongs to the dimension.
func (d Dimension) Has(l TraitLetter) bool { return l == d.First || l == d.Second }

// Opposite returns the other letter of the pair.
func (d Dimension) Opposite(l TraitLetter) TraitLetter {
	if l == d.First {
		return d.Second
	}
	return d.First
}

// Dimensions in type-string order.
var Dimensions = [4]Dimension{
	{Key: "EI", Name: "Energy", First: Extroverted, Second: Introverted},
	{Key: "SN", Name: "Information", First: Sensing, Second: Intuitive},
	{Key: "TF", Name: "Decisions", First: Thinking, Second: Feeling},
	{Key: "JP", Name: "Lifestyle", First: Judging, Second: Perceiving},
}

// DimensionOf returns the dimension a letter belongs to.
func DimensionOf(l TraitLetter) (Dimension, bool) {
	for _, d := range Dimensions {
		if d.Has(l) {
			return d, true
		}
	}
	return Dimension{}, false
}

// PersonalityType is a four-letter code, one letter per dimension.
type PersonalityType string

// Valid reports whether t holds exactly one letter of each dimension in order.
func (t PersonalityType) Valid() bool {
	if len(t) != len(Dimensions) {
		return false
	}
	for i, d := range Dimensions {
		if !d.Has(TraitLetter(t[i])) {
			return false
		}
	}
	return true
}

// AllPersonalityTypes enumerates the 16 possible codes.
func AllPersonalityTypes() []PersonalityType {
	out := []PersonalityType{""}
	for _, d := range Dimensions {
		next := make([]PersonalityType, 0, len(out)*2)
		for _, prefix := range out {
			next = append(next, prefix+PersonalityType(d.First), prefix+PersonalityType(d.Second))
		}
		out = next
	}
	return out
}

// AnswerOption is one of the two options of a question.
type AnswerOption struct {
	Type   AnswerChoice `json:"type" yaml:"type"`
	Answer string       `json:"answer" yaml:"answer"`
	Score  TraitLetter  `json:"score" yaml:"score"`
}

// Question is a forced-choice item of the quiz.
type Question struct {
	No       int            `json:"no" yaml:"no"`
	Question string         `json:"question" yaml:"question"`
	Options  []AnswerOption `json:"options" yaml:"options"`
}

// Option returns the option tagged with choice.
func (q Question) Option(choice AnswerChoice) (AnswerOption, bool) {
	for _, opt := range q.Options {
		if opt.Type == choice {
			return opt, true
		}
	}
	return AnswerOption{}, false
}

// TraitClass describes a single trait letter.
type TraitClass struct {
	Type        TraitLetter `json:"type" yaml:"type"`
	Description string      `json:"description" yaml:"description"`
	Brief       string      `json:"brief" yaml:"brief"`
}

// JungianFunctions lists the cognitive function stack of a type.
type JungianFunctions struct {
	Dominant  string `json:"dominant" yaml:"dominant"`
	Auxiliary string `json:"auxiliary" yaml:"auxiliary"`
	Tertiary  string `json:"tertiary" yaml:"tertiary"`
	Inferior  string `json:"inferior" yaml:"inferior"`
}

// PersonalityReport is the descriptive record for one of the 16 types.
type PersonalityReport struct {
	Type                        PersonalityType  `json:"type" yaml:"type"`
	Name                        string           `json:"name" yaml:"name"`
	NameDescription             string           `json:"name_description" yaml:"name_description"`
	Epithet                     string           `json:"epithet" yaml:"epithet"`
	Description                 string           `json:"description" yaml:"description"`
	JungianFunctionalPreference JungianFunctions `json:"jungian_functional_preference" yaml:"jungian_functional_preference"`
	GeneralTraits               []string         `json:"general_traits" yaml:"general_traits"`
	RelationshipStrengths       []string         `json:"relationship_strengths" yaml:"relationship_strengths"`
	RelationshipWeaknesses      []string         `json:"relationship_weaknesses" yaml:"relationship_weaknesses"`
	SuccessDefinition           string           `json:"success_definition" yaml:"success_definition"`
	Strengths                   []string         `json:"strengths" yaml:"strengths"`
	Gifts                       []string         `json:"gifts" yaml:"gifts"`
	PotentialProblemAreas       []string         `json:"potential_problem_areas" yaml:"potential_problem_areas"`
	ExplanationOfProblems       string           `json:"explanation_of_problems" yaml:"explanation_of_problems"`
	Solutions                   string           `json:"solutions" yaml:"solutions"`
	LivingHappilyTips           string           `json:"living_happily_tips" yaml:"living_happily_tips"`
	Suggestions                 []string         `json:"suggestions,omitempty" yaml:"suggestions,omitempty"`
	RulesToLive                 []string         `json:"rules_to_live" yaml:"rules_to_live"`
}

// CurrentSchemaVersion is stamped on every record written by this service.
// Records persisted before versioning decode with version 0.
const CurrentSchemaVersion = 1

// TestResult is one completed quiz attempt. Timestamp (ms since epoch) is its key.
type TestResult struct {
	SchemaVersion int            `json:"schema_version"`
	Timestamp     int64          `json:"timestamp"`
	Answers       []AnswerChoice `json:"answers"`
	TraitLetters  []TraitLetter  `json:"trait_letters"`
}
