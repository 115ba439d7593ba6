package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"github.com/studyprep/prep-platform/internal/question"
)

type stubRow struct {
	scan func(dest ...any) error
}

func (r stubRow) Scan(dest ...any) error { return r.scan(dest...) }

// captureDB records the last statement and arguments; QueryRow scans
// through the configured row func.
type captureDB struct {
	sql  string
	args []any
	row  func(dest ...any) error
	tag  pgconn.CommandTag
}

func (d *captureDB) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return nil, errors.New("not implemented")
}

func (d *captureDB) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	d.sql, d.args = sql, args
	return stubRow{scan: d.row}
}

func (d *captureDB) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	d.sql, d.args = sql, args
	return d.tag, nil
}

func insertedRow(dest ...any) error {
	*(dest[0].(*uuid.UUID)) = uuid.New()
	*(dest[1].(*time.Time)) = time.Now()
	*(dest[2].(*time.Time)) = time.Now()
	return nil
}

func storedQuestion(draft question.Question) question.Question {
	draft.Options = question.OptionMap{{Key: "A", Text: "Yes"}, {Key: "B", Text: "No"}}
	draft.CorrectAnswer = "A"
	return draft
}

func TestListQueryNoFilters(t *testing.T) {
	sql, args := listQuery(question.DefaultFilters())
	assert.Equal(t, "SELECT "+questionColumns+" FROM questions ORDER BY created_at DESC", sql)
	assert.Empty(t, args)
}

func TestListQueryPushesDownPredicate(t *testing.T) {
	f := question.DefaultFilters()
	f.Category = question.CategoryReading
	f.Status = question.StatusActive
	f.SearchTerm = "verb"

	sql, args := listQuery(f)
	assert.Equal(t,
		"SELECT "+questionColumns+" FROM questions WHERE category = $1 AND active = $2 AND (title ILIKE $3 OR content ILIKE $3) ORDER BY created_at DESC",
		sql)
	assert.Equal(t, []any{question.CategoryReading, true, "%verb%"}, args)
}

func TestListQueryTagContainment(t *testing.T) {
	f := question.DefaultFilters()
	f.TopicTag = "grammar"

	sql, args := listQuery(f)
	assert.Contains(t, sql, "topic_tags @> $1")
	assert.Equal(t, []any{[]string{"grammar"}}, args)
}

func TestInsertQuestionStoresEmptyTagArray(t *testing.T) {
	db := &captureDB{row: insertedRow}
	repo := NewQuestionRepository(db)

	draft := storedQuestion(question.Question{
		Title:        "Tagless",
		Content:      "Body",
		Category:     question.CategoryReading,
		QuestionType: "multiple_choice",
		Difficulty:   question.DifficultyEasy,
	})

	_, err := repo.InsertQuestion(context.Background(), draft)
	assert.NoError(t, err)
	// topic_tags is $9; a nil slice would encode as SQL NULL and violate
	// the column's not-null constraint.
	assert.Equal(t, []string{}, db.args[8])
}

func TestUpdateQuestionStoresEmptyTagArray(t *testing.T) {
	db := &captureDB{tag: pgconn.NewCommandTag("UPDATE 1")}
	repo := NewQuestionRepository(db)

	draft := storedQuestion(question.Question{
		ID:           uuid.New(),
		Title:        "Tagless",
		Content:      "Body",
		Category:     question.CategoryReading,
		QuestionType: "multiple_choice",
		Difficulty:   question.DifficultyEasy,
	})

	err := repo.UpdateQuestion(context.Background(), draft)
	assert.NoError(t, err)
	assert.Equal(t, []string{}, db.args[9])
}

func TestGetQuestionNormalizesEmptyTags(t *testing.T) {
	db := &captureDB{row: func(dest ...any) error {
		*(dest[0].(*uuid.UUID)) = uuid.New()
		*(dest[1].(*string)) = "Tagless"
		*(dest[2].(*string)) = "Body"
		*(dest[3].(*string)) = question.CategoryReading
		*(dest[4].(*string)) = "multiple_choice"
		*(dest[5].(*string)) = question.DifficultyEasy
		*(dest[6].(*[]byte)) = []byte(`{"A": "Yes", "B": "No"}`)
		*(dest[7].(*string)) = "A"
		*(dest[9].(*[]string)) = []string{}
		*(dest[10].(*bool)) = true
		*(dest[11].(*time.Time)) = time.Now()
		*(dest[12].(*time.Time)) = time.Now()
		return nil
	}}
	repo := NewQuestionRepository(db)

	q, err := repo.GetQuestion(context.Background(), uuid.New())
	assert.NoError(t, err)
	assert.Nil(t, q.TopicTags, "stored '{}' reads back as absent tags")
}
