package question

import (
	"fmt"
	"strings"
)

// FilterAll is the wildcard value for enumerated filter fields.
const FilterAll = "all"

// Status filter values.
const (
	StatusActive   = "active"
	StatusInactive = "inactive"
)

// Filters is a transient predicate over the question bank. Every clause is
// AND-ed; enumerated fields use "all" as the wildcard and SearchTerm is a
// case-insensitive substring match over title or content. The same
// specification evaluates in memory (Match) or as a pushed-down SQL
// predicate (WhereClause) with identical semantics.
type Filters struct {
	Category     string
	Difficulty   string
	QuestionType string
	TopicTag     string
	SearchTerm   string
	Status       string
}

// DefaultFilters matches everything.
func DefaultFilters() Filters {
	return Filters{
		Category:     FilterAll,
		Difficulty:   FilterAll,
		QuestionType: FilterAll,
		TopicTag:     FilterAll,
		SearchTerm:   "",
		Status:       FilterAll,
	}
}

// Match evaluates the predicate against a single question. The engine does
// not validate filter values; upstream parsing normalizes unknown enum
// values to "all" before they reach here.
func (f Filters) Match(q Question) bool {
	if f.Category != FilterAll && q.Category != f.Category {
		return false
	}
	if f.Difficulty != FilterAll && q.Difficulty != f.Difficulty {
		return false
	}
	if f.QuestionType != FilterAll && q.QuestionType != f.QuestionType {
		return false
	}
	if f.Status != FilterAll && q.Active != (f.Status == StatusActive) {
		return false
	}
	if f.TopicTag != FilterAll {
		// A question with no tags never matches a specific tag filter.
		found := false
		for _, tag := range q.TopicTags {
			if tag == f.TopicTag {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if f.SearchTerm != "" {
		term := strings.ToLower(f.SearchTerm)
		if !strings.Contains(strings.ToLower(q.Title), term) &&
			!strings.Contains(strings.ToLower(q.Content), term) {
			return false
		}
	}
	return true
}

// ApplyFilters filters an already-fetched collection in memory, keeping
// input order.
func ApplyFilters(questions []Question, f Filters) []Question {
	matched := make([]Question, 0, len(questions))
	for _, q := range questions {
		if f.Match(q) {
			matched = append(matched, q)
		}
	}
	return matched
}

// likeEscaper neutralizes LIKE metacharacters in search terms so the
// pushdown pattern matches them literally, as the in-memory mode does.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// WhereClause translates the predicate into a conjunctive SQL fragment with
// positional arguments starting at $startArg. It returns an empty clause
// when every field is a wildcard. Ordering (newest first) is appended by
// the repository, not here.
func (f Filters) WhereClause(startArg int) (string, []any) {
	var conditions []string
	var args []any
	next := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", startArg+len(args)-1)
	}

	if f.Category != FilterAll {
		conditions = append(conditions, "category = "+next(f.Category))
	}
	if f.Difficulty != FilterAll {
		conditions = append(conditions, "difficulty = "+next(f.Difficulty))
	}
	if f.QuestionType != FilterAll {
		conditions = append(conditions, "question_type = "+next(f.QuestionType))
	}
	if f.Status != FilterAll {
		conditions = append(conditions, "active = "+next(f.Status == StatusActive))
	}
	if f.TopicTag != FilterAll {
		conditions = append(conditions, "topic_tags @> "+next([]string{f.TopicTag}))
	}
	if f.SearchTerm != "" {
		pattern := "%" + likeEscaper.Replace(f.SearchTerm) + "%"
		placeholder := next(pattern)
		conditions = append(conditions, fmt.Sprintf("(title ILIKE %s OR content ILIKE %s)", placeholder, placeholder))
	}

	if len(conditions) == 0 {
		return "", nil
	}
	return strings.Join(conditions, " AND "), args
}

// ParseFilters builds Filters from query-parameter values, normalizing
// unrecognized enum values to the wildcard.
func ParseFilters(category, difficulty, questionType, topicTag, searchTerm, status string) Filters {
	f := DefaultFilters()
	if ValidCategory(category) {
		f.Category = category
	}
	if ValidDifficulty(difficulty) {
		f.Difficulty = difficulty
	}
	if questionType != "" && questionType != FilterAll {
		f.QuestionType = questionType
	}
	if topicTag != "" && topicTag != FilterAll {
		f.TopicTag = topicTag
	}
	if status == StatusActive || status == StatusInactive {
		f.Status = status
	}
	f.SearchTerm = searchTerm
	return f
}
