package question

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// ErrInvalidQuestion marks create/update payloads that fail validation.
var ErrInvalidQuestion = errors.New("invalid question")

// ErrNotFound is returned when a question does not exist.
var ErrNotFound = errors.New("question not found")

// Store is the record-store capability the service depends on. The
// repository implements it against Postgres; tests stub it.
type Store interface {
	SelectQuestions(ctx context.Context, f Filters) ([]Question, error)
	GetQuestion(ctx context.Context, id uuid.UUID) (Question, error)
	InsertQuestion(ctx context.Context, q Question) (Question, error)
	UpdateQuestion(ctx context.Context, q Question) error
	DeleteQuestion(ctx context.Context, id uuid.UUID) error
	DistinctQuestionTypes(ctx context.Context) ([]string, error)
}

// ListCache caches filtered question lists (implemented by the Redis-backed
// Cache).
type ListCache interface {
	Get(ctx context.Context, f Filters) ([]Question, error)
	Set(ctx context.Context, f Filters, questions []Question) error
	Invalidate(ctx context.Context) error
}

// Service orchestrates question-bank access: filtered listing with predicate
// pushdown, CRUD, and the CSV validate/import/export pipeline.
type Service struct {
	store  Store
	cache  ListCache
	logger zerolog.Logger
	now    func() time.Time
}

func NewService(store Store, cache ListCache, logger zerolog.Logger) *Service {
	return &Service{
		store:  store,
		cache:  cache,
		logger: logger,
		now:    time.Now,
	}
}

// List returns questions matching the filter set, newest first. The filter
// is pushed down to the store; results are cached per filter set.
func (s *Service) List(ctx context.Context, f Filters) ([]Question, error) {
	if cached, err := s.cache.Get(ctx, f); err == nil && cached != nil {
		listCacheHits.WithLabelValues("hit").Inc()
		return cached, nil
	}
	listCacheHits.WithLabelValues("miss").Inc()

	questions, err := s.store.SelectQuestions(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("select questions: %w", err)
	}
	_ = s.cache.Set(ctx, f, questions)
	return questions, nil
}

// Get fetches a single question.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (Question, error) {
	return s.store.GetQuestion(ctx, id)
}

// Create validates and inserts a question, stamping created_by from the
// caller's identity.
func (s *Service) Create(ctx context.Context, draft Question, createdBy uuid.UUID) (Question, error) {
	if err := validateDraft(draft); err != nil {
		return Question{}, err
	}
	draft.TopicTags = normalizeTags(draft.TopicTags)
	draft.CreatedBy = &createdBy

	created, err := s.store.InsertQuestion(ctx, draft)
	if err != nil {
		return Question{}, fmt.Errorf("insert question: %w", err)
	}
	_ = s.cache.Invalidate(ctx)

	s.logger.Info().Str("question_id", created.ID.String()).Str("category", created.Category).Msg("question created")
	return created, nil
}

// Update validates and replaces a question's editable fields.
func (s *Service) Update(ctx context.Context, id uuid.UUID, draft Question) error {
	if err := validateDraft(draft); err != nil {
		return err
	}
	draft.ID = id
	draft.TopicTags = normalizeTags(draft.TopicTags)
	draft.UpdatedAt = s.now()

	if err := s.store.UpdateQuestion(ctx, draft); err != nil {
		return fmt.Errorf("update question: %w", err)
	}
	_ = s.cache.Invalidate(ctx)
	return nil
}

// Delete removes a question.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.store.DeleteQuestion(ctx, id); err != nil {
		return fmt.Errorf("delete question: %w", err)
	}
	_ = s.cache.Invalidate(ctx)
	return nil
}

// ToggleActive flips a question's visibility flag.
func (s *Service) ToggleActive(ctx context.Context, id uuid.UUID) (Question, error) {
	q, err := s.store.GetQuestion(ctx, id)
	if err != nil {
		return Question{}, err
	}
	q.Active = !q.Active
	q.UpdatedAt = s.now()
	if err := s.store.UpdateQuestion(ctx, q); err != nil {
		return Question{}, fmt.Errorf("toggle question: %w", err)
	}
	_ = s.cache.Invalidate(ctx)
	return q, nil
}

// QuestionTypes returns the distinct question_type values in the bank.
func (s *Service) QuestionTypes(ctx context.Context) ([]string, error) {
	return s.store.DistinctQuestionTypes(ctx)
}

// Validate runs the CSV codec over an upload without committing anything.
func (s *Service) Validate(data []byte) ValidationResult {
	result := DecodeQuestions(data)
	if result.Valid {
		validationRuns.WithLabelValues("valid").Inc()
	} else {
		validationRuns.WithLabelValues("invalid").Inc()
	}
	return result
}

// RowResult reports the outcome of importing one CSV row.
type RowResult struct {
	Row   int    `json:"row"`
	Title string `json:"title"`
	ID    string `json:"id,omitempty"`
	Error string `json:"error,omitempty"`
}

// ImportSummary aggregates per-row import outcomes. Rows are inserted
// independently; a failed insert does not roll back its siblings.
type ImportSummary struct {
	TotalRows int         `json:"total_rows"`
	Created   int         `json:"created"`
	Failed    int         `json:"failed"`
	Results   []RowResult `json:"results"`
}

// Import decodes an upload and inserts the decoded rows one by one. When
// validation fails the returned result carries the itemized errors and no
// summary; nothing is committed. Otherwise every row is attempted and the
// summary reports each row's outcome.
func (s *Service) Import(ctx context.Context, data []byte, createdBy uuid.UUID) (ValidationResult, *ImportSummary, error) {
	result := s.Validate(data)
	if !result.Valid {
		return result, nil, nil
	}

	summary := &ImportSummary{
		TotalRows: len(result.Questions),
		Results:   make([]RowResult, 0, len(result.Questions)),
	}
	for i, draft := range result.Questions {
		draft.TopicTags = normalizeTags(draft.TopicTags)
		draft.CreatedBy = &createdBy

		row := RowResult{Row: result.Rows[i], Title: draft.Title}
		created, err := s.store.InsertQuestion(ctx, draft)
		if err != nil {
			row.Error = err.Error()
			summary.Failed++
			importRows.WithLabelValues("error").Inc()
		} else {
			row.ID = created.ID.String()
			summary.Created++
			importRows.WithLabelValues("ok").Inc()
		}
		summary.Results = append(summary.Results, row)
	}

	if summary.Created > 0 {
		_ = s.cache.Invalidate(ctx)
	}

	s.logger.Info().
		Int("total", summary.TotalRows).
		Int("created", summary.Created).
		Int("failed", summary.Failed).
		Msg("question import finished")
	return result, summary, nil
}

// Export renders the (optionally filtered) bank as a CSV download.
func (s *Service) Export(ctx context.Context, f Filters) ([]byte, string, error) {
	questions, err := s.store.SelectQuestions(ctx, f)
	if err != nil {
		return nil, "", fmt.Errorf("select questions: %w", err)
	}
	data, err := RenderCSV(EncodeQuestions(questions))
	if err != nil {
		return nil, "", fmt.Errorf("render csv: %w", err)
	}
	exportsTotal.Inc()
	return data, ExportFilename(s.now()), nil
}

func validateDraft(q Question) error {
	switch {
	case q.Title == "":
		return fmt.Errorf("%w: title is required", ErrInvalidQuestion)
	case q.Content == "":
		return fmt.Errorf("%w: content is required", ErrInvalidQuestion)
	case q.QuestionType == "":
		return fmt.Errorf("%w: question_type is required", ErrInvalidQuestion)
	case !ValidCategory(q.Category):
		return fmt.Errorf("%w: invalid category %q", ErrInvalidQuestion, q.Category)
	case !ValidDifficulty(q.Difficulty):
		return fmt.Errorf("%w: invalid difficulty %q", ErrInvalidQuestion, q.Difficulty)
	case len(q.Options) < 2:
		return fmt.Errorf("%w: at least two options are required", ErrInvalidQuestion)
	}
	if _, ok := q.Options.Get(q.CorrectAnswer); !ok {
		return fmt.Errorf("%w: correct_answer %q is not an option key", ErrInvalidQuestion, q.CorrectAnswer)
	}
	return nil
}

// normalizeTags trims, drops empties and de-duplicates, keeping first-seen
// order. The codec leaves de-duplication to its caller.
func normalizeTags(tags []string) []string {
	if len(tags) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(tags))
	var out []string
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		if _, dup := seen[tag]; dup {
			continue
		}
		seen[tag] = struct{}{}
		out = append(out, tag)
	}
	return out
}
