package tag

import (
	"context"
	"io"
	"sort"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"github.com/studyprep/prep-platform/internal/db/repository"
	"github.com/studyprep/prep-platform/internal/question"
)

type stubTagStore struct {
	tags    map[string]question.TopicTag
	deleted []uuid.UUID
}

func newStubTagStore() *stubTagStore {
	return &stubTagStore{tags: map[string]question.TopicTag{}}
}

func (s *stubTagStore) ListTags(_ context.Context) ([]question.TopicTag, error) {
	var out []question.TopicTag
	for _, tag := range s.tags {
		out = append(out, tag)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *stubTagStore) InsertTag(_ context.Context, name string, description *string) (question.TopicTag, error) {
	if _, exists := s.tags[name]; exists {
		return question.TopicTag{}, repository.ErrDuplicate
	}
	tag := question.TopicTag{ID: uuid.New(), Name: name, Description: description}
	s.tags[name] = tag
	return tag, nil
}

func (s *stubTagStore) DeleteTag(_ context.Context, id uuid.UUID) error {
	s.deleted = append(s.deleted, id)
	for name, tag := range s.tags {
		if tag.ID == id {
			delete(s.tags, name)
		}
	}
	return nil
}

func newTestService(store Store) *Service {
	return NewService(store, zerolog.New(io.Discard))
}

func TestCreateTrimsName(t *testing.T) {
	store := newStubTagStore()
	service := newTestService(store)

	tag, err := service.Create(context.Background(), "  grammar  ", nil)
	assert.NoError(t, err)
	assert.Equal(t, "grammar", tag.Name)
	assert.NotEqual(t, uuid.Nil, tag.ID)
}

func TestCreateRejectsEmptyName(t *testing.T) {
	service := newTestService(newStubTagStore())

	_, err := service.Create(context.Background(), "   ", nil)
	assert.ErrorIs(t, err, ErrNameRequired)
}

func TestCreateDuplicateName(t *testing.T) {
	service := newTestService(newStubTagStore())

	_, err := service.Create(context.Background(), "grammar", nil)
	assert.NoError(t, err)

	_, err = service.Create(context.Background(), " grammar ", nil)
	assert.ErrorIs(t, err, ErrNameTaken)
}

func TestListOrderedByName(t *testing.T) {
	store := newStubTagStore()
	service := newTestService(store)

	for _, name := range []string{"vocabulary", "grammar", "listening"} {
		_, err := service.Create(context.Background(), name, nil)
		assert.NoError(t, err)
	}

	tags, err := service.List(context.Background())
	assert.NoError(t, err)
	names := make([]string, len(tags))
	for i, tag := range tags {
		names[i] = tag.Name
	}
	assert.Equal(t, []string{"grammar", "listening", "vocabulary"}, names)
}

func TestDeleteLeavesQuestionsAlone(t *testing.T) {
	store := newStubTagStore()
	service := newTestService(store)

	tag, err := service.Create(context.Background(), "grammar", nil)
	assert.NoError(t, err)

	err = service.Delete(context.Background(), tag.ID)
	assert.NoError(t, err)
	assert.Equal(t, []uuid.UUID{tag.ID}, store.deleted)

	tags, err := service.List(context.Background())
	assert.NoError(t, err)
	assert.Empty(t, tags)
}
