package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/studyprep/prep-platform/internal/question"
)

// TagRepository manages the topic-tag registry. Tags couple to questions by
// name only, so deleting a tag leaves existing questions untouched.
type TagRepository struct {
	db DBTX
}

func NewTagRepository(db DBTX) *TagRepository {
	return &TagRepository{db: db}
}

// ListTags returns all tags ordered by name.
func (r *TagRepository) ListTags(ctx context.Context) ([]question.TopicTag, error) {
	rows, err := r.db.Query(ctx, "SELECT tag_id, name, description, created_at FROM topic_tags ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tags := []question.TopicTag{}
	for rows.Next() {
		var t question.TopicTag
		if err := rows.Scan(&t.ID, &t.Name, &t.Description, &t.CreatedAt); err != nil {
			return nil, err
		}
		tags = append(tags, t)
	}
	return tags, rows.Err()
}

// InsertTag creates a tag; a duplicate name yields ErrDuplicate.
func (r *TagRepository) InsertTag(ctx context.Context, name string, description *string) (question.TopicTag, error) {
	tag := question.TopicTag{Name: name, Description: description}
	row := r.db.QueryRow(ctx,
		"INSERT INTO topic_tags (name, description) VALUES ($1, $2) RETURNING tag_id, created_at",
		name, description,
	)
	if err := row.Scan(&tag.ID, &tag.CreatedAt); err != nil {
		if isUniqueViolation(err) {
			return question.TopicTag{}, ErrDuplicate
		}
		return question.TopicTag{}, err
	}
	return tag, nil
}

// DeleteTag removes a tag from the registry only.
func (r *TagRepository) DeleteTag(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, "DELETE FROM topic_tags WHERE tag_id = $1", id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
