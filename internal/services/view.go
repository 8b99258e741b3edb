package services

import (
	"time"

	"github.com/soaringjerry/Persona/internal/models"
)

// Report sections, in the order the result page shows them.
const (
	SectionOverview      = "overview"
	SectionTraits        = "traits"
	SectionRelationships = "relationships"
	SectionGrowth        = "growth"
	SectionStats         = "stats"
	SectionChart         = "chart"
	SectionShare         = "share"
)

var Sections = []string{
	SectionOverview, SectionTraits, SectionRelationships, SectionGrowth,
	SectionStats, SectionChart, SectionShare,
}

type OverviewSection struct {
	Type            models.PersonalityType  `json:"type"`
	Name            string                  `json:"name"`
	NameDescription string                  `json:"name_description"`
	Epithet         string                  `json:"epithet"`
	Description     string                  `json:"description"`
	Functions       models.JungianFunctions `json:"jungian_functional_preference"`
	Success         string                  `json:"success_definition"`
}

type TraitsSection struct {
	GeneralTraits []string            `json:"general_traits"`
	Strengths     []string            `json:"strengths"`
	Gifts         []string            `json:"gifts"`
	Letters       []models.TraitClass `json:"letters"`
}

type RelationshipsSection struct {
	Strengths  []string `json:"strengths"`
	Weaknesses []string `json:"weaknesses"`
}

type GrowthSection struct {
	ProblemAreas []string `json:"potential_problem_areas"`
	Explanation  string   `json:"explanation_of_problems"`
	Solutions    string   `json:"solutions"`
	LivingTips   string   `json:"living_happily_tips"`
	Suggestions  []string `json:"suggestions,omitempty"`
	RulesToLive  []string `json:"rules_to_live"`
}

type ShareSection struct {
	Token     string    `json:"token"`
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expires_at"`
}

// ResultView is everything the result page renders for one stored result.
type ResultView struct {
	Timestamp     int64                  `json:"timestamp"`
	SubmittedAt   time.Time              `json:"submitted_at"`
	Type          models.PersonalityType `json:"type"`
	Overview      OverviewSection        `json:"overview"`
	Traits        TraitsSection          `json:"traits"`
	Relationships RelationshipsSection   `json:"relationships"`
	Growth        GrowthSection          `json:"growth"`
	Stats         []DimensionStat        `json:"stats"`
	Chart         Breakdown              `json:"chart"`
	Share         *ShareSection          `json:"share,omitempty"`
}

// BuildView classifies a stored result and assembles its report sections.
func (e *ScoringEngine) BuildView(r models.TestResult) (*ResultView, error) {
	t := Classify(r.TraitLetters)
	rep, err := e.LookupReport(t)
	if err != nil {
		return nil, err
	}
	letters := make([]models.TraitClass, 0, len(t))
	for i := 0; i < len(t); i++ {
		if tc, ok := e.bank.Trait(models.TraitLetter(t[i])); ok {
			letters = append(letters, tc)
		}
	}
	return &ResultView{
		Timestamp:   r.Timestamp,
		SubmittedAt: time.UnixMilli(r.Timestamp).UTC(),
		Type:        t,
		Overview: OverviewSection{
			Type:            rep.Type,
			Name:            rep.Name,
			NameDescription: rep.NameDescription,
			Epithet:         rep.Epithet,
			Description:     rep.Description,
			Functions:       rep.JungianFunctionalPreference,
			Success:         rep.SuccessDefinition,
		},
		Traits: TraitsSection{
			GeneralTraits: rep.GeneralTraits,
			Strengths:     rep.Strengths,
			Gifts:         rep.Gifts,
			Letters:       letters,
		},
		Relationships: RelationshipsSection{
			Strengths:  rep.RelationshipStrengths,
			Weaknesses: rep.RelationshipWeaknesses,
		},
		Growth: GrowthSection{
			ProblemAreas: rep.PotentialProblemAreas,
			Explanation:  rep.ExplanationOfProblems,
			Solutions:    rep.Solutions,
			LivingTips:   rep.LivingHappilyTips,
			Suggestions:  rep.Suggestions,
			RulesToLive:  rep.RulesToLive,
		},
		Stats: DimensionStats(r.TraitLetters),
		Chart: TraitBreakdown(e.bank, r.TraitLetters),
	}, nil
}

// Section returns a single section of the view by name.
func (v *ResultView) Section(name string) (any, bool) {
	switch name {
	case SectionOverview:
		return v.Overview, true
	case SectionTraits:
		return v.Traits, true
	case SectionRelationships:
		return v.Relationships, true
	case SectionGrowth:
		return v.Growth, true
	case SectionStats:
		return v.Stats, true
	case SectionChart:
		return v.Chart, true
	case SectionShare:
		return v.Share, v.Share != nil
	}
	return nil, false
}
