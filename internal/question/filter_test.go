package question

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func bankFixture() []Question {
	return []Question{
		{Title: "Listening warmup", Content: "Listen to the dialogue", Category: CategoryListening, QuestionType: "multiple_choice", Difficulty: DifficultyEasy, TopicTags: []string{"dialogue"}, Active: true},
		{Title: "Reading passage", Content: "Read the PARAGRAPH carefully", Category: CategoryReading, QuestionType: "multiple_choice", Difficulty: DifficultyMedium, TopicTags: []string{"main-idea", "detail"}, Active: true},
		{Title: "Essay prompt", Content: "Write an essay", Category: CategoryWriting, QuestionType: "essay", Difficulty: DifficultyHard, TopicTags: nil, Active: false},
	}
}

func TestDefaultFiltersMatchEverything(t *testing.T) {
	f := DefaultFilters()
	for _, q := range bankFixture() {
		assert.True(t, f.Match(q), "question %q", q.Title)
	}
}

func TestMatchSingleClauses(t *testing.T) {
	bank := bankFixture()

	f := DefaultFilters()
	f.Category = CategoryReading
	assert.Equal(t, []Question{bank[1]}, ApplyFilters(bank, f))

	f = DefaultFilters()
	f.Difficulty = DifficultyHard
	assert.Equal(t, []Question{bank[2]}, ApplyFilters(bank, f))

	f = DefaultFilters()
	f.QuestionType = "essay"
	assert.Equal(t, []Question{bank[2]}, ApplyFilters(bank, f))

	f = DefaultFilters()
	f.Status = StatusInactive
	assert.Equal(t, []Question{bank[2]}, ApplyFilters(bank, f))

	f = DefaultFilters()
	f.TopicTag = "detail"
	assert.Equal(t, []Question{bank[1]}, ApplyFilters(bank, f))
}

func TestMatchTagFilterSkipsUntagged(t *testing.T) {
	f := DefaultFilters()
	f.TopicTag = "anything"
	assert.False(t, f.Match(bankFixture()[2]))
}

func TestMatchSearchTermCaseInsensitive(t *testing.T) {
	bank := bankFixture()

	f := DefaultFilters()
	f.SearchTerm = "paragraph"
	assert.Equal(t, []Question{bank[1]}, ApplyFilters(bank, f), "content match is case-insensitive")

	f.SearchTerm = "ESSAY"
	matched := ApplyFilters(bank, f)
	assert.Len(t, matched, 1, "title match is case-insensitive")
	assert.Equal(t, "Essay prompt", matched[0].Title)

	f.SearchTerm = "no such text"
	assert.Empty(t, ApplyFilters(bank, f))
}

func TestMatchClausesAreConjunctive(t *testing.T) {
	bank := bankFixture()

	f := DefaultFilters()
	f.Category = CategoryReading
	f.Status = StatusInactive
	assert.Empty(t, ApplyFilters(bank, f), "both clauses must hold")

	f.Status = StatusActive
	assert.Equal(t, []Question{bank[1]}, ApplyFilters(bank, f))
}

func TestApplyFiltersKeepsOrder(t *testing.T) {
	bank := bankFixture()

	f := DefaultFilters()
	f.Status = StatusActive
	matched := ApplyFilters(bank, f)
	assert.Equal(t, []string{"Listening warmup", "Reading passage"}, []string{matched[0].Title, matched[1].Title})
}

func TestWhereClauseEmptyForDefaults(t *testing.T) {
	clause, args := DefaultFilters().WhereClause(1)
	assert.Empty(t, clause)
	assert.Nil(t, args)
}

func TestWhereClauseAssembly(t *testing.T) {
	f := Filters{
		Category:     CategoryListening,
		Difficulty:   DifficultyEasy,
		QuestionType: "multiple_choice",
		TopicTag:     "dialogue",
		SearchTerm:   "warmup",
		Status:       StatusActive,
	}

	clause, args := f.WhereClause(1)
	assert.Equal(t,
		"category = $1 AND difficulty = $2 AND question_type = $3 AND active = $4 AND topic_tags @> $5 AND (title ILIKE $6 OR content ILIKE $6)",
		clause)
	assert.Equal(t, []any{
		CategoryListening,
		DifficultyEasy,
		"multiple_choice",
		true,
		[]string{"dialogue"},
		"%warmup%",
	}, args)
}

func TestWhereClauseStartArgOffset(t *testing.T) {
	f := DefaultFilters()
	f.Status = StatusInactive
	f.SearchTerm = "tense"

	clause, args := f.WhereClause(3)
	assert.Equal(t, "active = $3 AND (title ILIKE $4 OR content ILIKE $4)", clause)
	assert.Equal(t, []any{false, "%tense%"}, args)
}

func TestWhereClauseEscapesSearchWildcards(t *testing.T) {
	f := DefaultFilters()
	f.SearchTerm = `50%_off\`

	_, args := f.WhereClause(1)
	assert.Equal(t, []any{`%50\%\_off\\%`}, args)
}

func TestParseFiltersNormalizesUnknownValues(t *testing.T) {
	f := ParseFilters("quizzing", "impossible", "", "", "", "archived")
	assert.Equal(t, DefaultFilters(), f)

	f = ParseFilters(CategoryReading, DifficultyMedium, "essay", "grammar", "tense", StatusInactive)
	assert.Equal(t, Filters{
		Category:     CategoryReading,
		Difficulty:   DifficultyMedium,
		QuestionType: "essay",
		TopicTag:     "grammar",
		SearchTerm:   "tense",
		Status:       StatusInactive,
	}, f)

	f = ParseFilters(FilterAll, FilterAll, FilterAll, FilterAll, "", FilterAll)
	assert.Equal(t, DefaultFilters(), f)
}
