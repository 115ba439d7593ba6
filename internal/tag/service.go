package tag

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/studyprep/prep-platform/internal/db/repository"
	"github.com/studyprep/prep-platform/internal/question"
)

var (
	// ErrNameRequired marks a create request with an empty name.
	ErrNameRequired = errors.New("tag name is required")
	// ErrNameTaken marks a duplicate tag name.
	ErrNameTaken = errors.New("tag name already exists")
)

// Store is the registry storage (implemented by repository.TagRepository).
type Store interface {
	ListTags(ctx context.Context) ([]question.TopicTag, error)
	InsertTag(ctx context.Context, name string, description *string) (question.TopicTag, error)
	DeleteTag(ctx context.Context, id uuid.UUID) error
}

// Service manages the topic-tag registry. Tags couple to questions by name
// only; deleting one does not reconcile the topic_tags lists on existing
// questions.
type Service struct {
	store  Store
	logger zerolog.Logger
}

func NewService(store Store, logger zerolog.Logger) *Service {
	return &Service{store: store, logger: logger}
}

// List returns all tags ordered by name.
func (s *Service) List(ctx context.Context) ([]question.TopicTag, error) {
	return s.store.ListTags(ctx)
}

// Create registers a new tag with a trimmed, unique name.
func (s *Service) Create(ctx context.Context, name string, description *string) (question.TopicTag, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return question.TopicTag{}, ErrNameRequired
	}

	tag, err := s.store.InsertTag(ctx, name, description)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return question.TopicTag{}, ErrNameTaken
		}
		return question.TopicTag{}, fmt.Errorf("insert tag: %w", err)
	}

	s.logger.Info().Str("tag", name).Msg("topic tag created")
	return tag, nil
}

// Delete removes a tag from the registry.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.store.DeleteTag(ctx, id); err != nil {
		return fmt.Errorf("delete tag: %w", err)
	}
	return nil
}
