package menu

import (
	"context"
	"errors"
	"sort"
	"time"

	apperr "kondate-planner/internal/common/errors"
	"kondate-planner/internal/models"
	"kondate-planner/internal/store"
)

// HistoryRepository is the history table as the service uses it.
type HistoryRepository interface {
	Get(ctx context.Context, date string) (*models.MenuHistory, error)
	Put(ctx context.Context, record models.MenuHistory) error
	PutIfAbsent(ctx context.Context, record models.MenuHistory) error
	BatchGet(ctx context.Context, dates []string) ([]models.MenuHistory, error)
}

// RecipeCatalog lists every recipe. *store.RecipeStore and the Redis-backed
// cache both satisfy it.
type RecipeCatalog interface {
	List(ctx context.Context) ([]models.Recipe, error)
}

const collaboratorDynamoDB = "dynamodb"

type Service struct {
	history  HistoryRepository
	recipes  RecipeCatalog
	now      func() time.Time
	location *time.Location
}

type Option func(*Service)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithLocation sets the timezone that decides what "today" is.
func WithLocation(loc *time.Location) Option {
	return func(s *Service) { s.location = loc }
}

func NewService(history HistoryRepository, recipes RecipeCatalog, opts ...Option) *Service {
	s := &Service{
		history:  history,
		recipes:  recipes,
		now:      time.Now,
		location: time.UTC,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type SaveResult struct {
	Record      models.MenuHistory
	Overwritten bool
}

// SaveMenu stores cmd. An existing menu for the date is a CONFLICT error
// carrying that menu unless cmd.Overwrite is set.
//
// The existence check and the write are separate calls. Without overwrite the
// write is conditional on the date being unused, so a concurrent writer that
// lands in between still produces CONFLICT rather than a lost update. With
// overwrite the last writer wins.
func (s *Service) SaveMenu(ctx context.Context, cmd *MenuCommand) (*SaveResult, error) {
	existing, err := s.history.Get(ctx, cmd.Date)
	if err != nil {
		return nil, apperr.NewCollaboratorFailureError(collaboratorDynamoDB, err)
	}
	if existing != nil && !cmd.Overwrite {
		return nil, conflict(cmd.Date, existing)
	}

	stamp := s.now().UTC().Format(time.RFC3339)
	record := models.MenuHistory{
		Date:      cmd.Date,
		Meals:     cmd.Meals,
		Recipes:   cmd.Recipes,
		Notes:     cmd.Notes,
		CreatedAt: stamp,
		UpdatedAt: stamp,
	}
	if existing != nil && existing.CreatedAt != "" {
		record.CreatedAt = existing.CreatedAt
	}

	if cmd.Overwrite {
		err = s.history.Put(ctx, record)
	} else {
		err = s.history.PutIfAbsent(ctx, record)
	}
	if errors.Is(err, store.ErrAlreadyExists) {
		winner, getErr := s.history.Get(ctx, cmd.Date)
		if getErr != nil {
			return nil, apperr.NewCollaboratorFailureError(collaboratorDynamoDB, getErr)
		}
		return nil, conflict(cmd.Date, winner)
	}
	if err != nil {
		return nil, apperr.NewCollaboratorFailureError(collaboratorDynamoDB, err)
	}

	return &SaveResult{Record: record, Overwritten: existing != nil}, nil
}

func conflict(date string, existing *models.MenuHistory) error {
	return apperr.NewConflictError("menu for", date, existing)
}

// ExistingMenu extracts the conflicting record from a CONFLICT error.
func ExistingMenu(err error) (*models.MenuHistory, bool) {
	stdErr := apperr.AsStandardError(err)
	if stdErr == nil || stdErr.Code != apperr.ErrCodeConflict {
		return nil, false
	}
	record, ok := stdErr.Metadata["existing"].(*models.MenuHistory)
	return record, ok && record != nil
}

// History returns the stored menus of the last q.Days days, today included,
// newest first.
func (s *Service) History(ctx context.Context, q *HistoryQuery) ([]models.MenuHistory, error) {
	keys := DateKeys(s.Today(), q.Days)
	records, err := s.history.BatchGet(ctx, keys)
	if err != nil {
		return nil, apperr.NewCollaboratorFailureError(collaboratorDynamoDB, err)
	}
	SortByDateDesc(records)
	return records, nil
}

// Recipes returns the catalogue filtered by q.Category and sorted by name.
func (s *Service) Recipes(ctx context.Context, q *RecipeQuery) ([]models.Recipe, error) {
	all, err := s.recipes.List(ctx)
	if err != nil {
		return nil, apperr.NewCollaboratorFailureError(collaboratorDynamoDB, err)
	}
	return FilterRecipes(all, q.Category), nil
}

// Today is the current date in the service's timezone.
func (s *Service) Today() time.Time {
	return s.now().In(s.location)
}

// DateKeys lists days dates ending at today, newest first.
func DateKeys(today time.Time, days int) []string {
	keys := make([]string, 0, days)
	for i := 0; i < days; i++ {
		keys = append(keys, today.AddDate(0, 0, -i).Format(DateLayout))
	}
	return keys
}

// SortByDateDesc orders records newest first. Dates are zero-padded
// YYYY-MM-DD, so string order is calendar order.
func SortByDateDesc(records []models.MenuHistory) {
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Date > records[j].Date
	})
}

// FilterRecipes keeps recipes in category (all when empty) and sorts them
// stably by name.
func FilterRecipes(recipes []models.Recipe, category string) []models.Recipe {
	out := make([]models.Recipe, 0, len(recipes))
	for _, r := range recipes {
		if category == "" || r.Category == category {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Name < out[j].Name
	})
	return out
}
