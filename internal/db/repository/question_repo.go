package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/studyprep/prep-platform/internal/question"
)

const questionColumns = "question_id, title, content, category, question_type, difficulty, options, correct_answer, explanation, topic_tags, active, created_at, updated_at, created_by"

// QuestionRepository provides question-bank access over Postgres. Filter
// specifications are pushed down as WHERE clauses rather than fetched and
// filtered locally.
type QuestionRepository struct {
	db DBTX
}

var _ question.Store = (*QuestionRepository)(nil)

func NewQuestionRepository(db DBTX) *QuestionRepository {
	return &QuestionRepository{db: db}
}

// SelectQuestions fetches questions matching the filter set, newest first.
func (r *QuestionRepository) SelectQuestions(ctx context.Context, f question.Filters) ([]question.Question, error) {
	sql, args := listQuery(f)
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	questions := []question.Question{}
	for rows.Next() {
		q, err := scanQuestion(rows)
		if err != nil {
			return nil, err
		}
		questions = append(questions, q)
	}
	return questions, rows.Err()
}

// GetQuestion fetches a single question by id.
func (r *QuestionRepository) GetQuestion(ctx context.Context, id uuid.UUID) (question.Question, error) {
	row := r.db.QueryRow(ctx, "SELECT "+questionColumns+" FROM questions WHERE question_id = $1", id)
	q, err := scanQuestion(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return question.Question{}, question.ErrNotFound
	}
	return q, err
}

// InsertQuestion stores a new question and returns it with server-assigned
// fields populated.
func (r *QuestionRepository) InsertQuestion(ctx context.Context, q question.Question) (question.Question, error) {
	options, err := json.Marshal(q.Options)
	if err != nil {
		return question.Question{}, fmt.Errorf("encode options: %w", err)
	}

	row := r.db.QueryRow(ctx, `
		INSERT INTO questions (title, content, category, question_type, difficulty, options, correct_answer, explanation, topic_tags, active, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING question_id, created_at, updated_at`,
		q.Title, q.Content, q.Category, q.QuestionType, q.Difficulty,
		string(options), q.CorrectAnswer, q.Explanation, tagsParam(q.TopicTags), q.Active, q.CreatedBy,
	)
	if err := row.Scan(&q.ID, &q.CreatedAt, &q.UpdatedAt); err != nil {
		return question.Question{}, err
	}
	return q, nil
}

// UpdateQuestion replaces a question's editable fields.
func (r *QuestionRepository) UpdateQuestion(ctx context.Context, q question.Question) error {
	options, err := json.Marshal(q.Options)
	if err != nil {
		return fmt.Errorf("encode options: %w", err)
	}

	tag, err := r.db.Exec(ctx, `
		UPDATE questions
		SET title = $2, content = $3, category = $4, question_type = $5, difficulty = $6,
		    options = $7, correct_answer = $8, explanation = $9, topic_tags = $10, active = $11, updated_at = $12
		WHERE question_id = $1`,
		q.ID, q.Title, q.Content, q.Category, q.QuestionType, q.Difficulty,
		string(options), q.CorrectAnswer, q.Explanation, tagsParam(q.TopicTags), q.Active, q.UpdatedAt,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return question.ErrNotFound
	}
	return nil
}

// DeleteQuestion removes a question.
func (r *QuestionRepository) DeleteQuestion(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, "DELETE FROM questions WHERE question_id = $1", id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return question.ErrNotFound
	}
	return nil
}

// DistinctQuestionTypes lists the question_type values present in the bank.
func (r *QuestionRepository) DistinctQuestionTypes(ctx context.Context) ([]string, error) {
	rows, err := r.db.Query(ctx, "SELECT DISTINCT question_type FROM questions ORDER BY question_type")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var types []string
	for rows.Next() {
		var t string
		if err := rows.Scan(&t); err != nil {
			return nil, err
		}
		types = append(types, t)
	}
	return types, rows.Err()
}

// listQuery assembles the pushed-down SELECT for a filter set. Ordering by
// creation time (newest first) is applied here, after the predicate.
func listQuery(f question.Filters) (string, []any) {
	sql := "SELECT " + questionColumns + " FROM questions"
	where, args := f.WhereClause(1)
	if where != "" {
		sql += " WHERE " + where
	}
	sql += " ORDER BY created_at DESC"
	return sql, args
}

// tagsParam coalesces absent tags to an empty array; the topic_tags column
// is non-null and a nil slice would encode as SQL NULL.
func tagsParam(tags []string) []string {
	if tags == nil {
		return []string{}
	}
	return tags
}

func scanQuestion(row pgx.Row) (question.Question, error) {
	var q question.Question
	var options []byte
	err := row.Scan(
		&q.ID, &q.Title, &q.Content, &q.Category, &q.QuestionType, &q.Difficulty,
		&options, &q.CorrectAnswer, &q.Explanation, &q.TopicTags, &q.Active,
		&q.CreatedAt, &q.UpdatedAt, &q.CreatedBy,
	)
	if err != nil {
		return question.Question{}, err
	}
	if err := json.Unmarshal(options, &q.Options); err != nil {
		return question.Question{}, fmt.Errorf("decode options: %w", err)
	}
	// Tagless rows are stored as '{}'; absent tags are nil in the model.
	if len(q.TopicTags) == 0 {
		q.TopicTags = nil
	}
	return q, nil
}
