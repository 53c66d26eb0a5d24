package score

import (
	"context"

	"github.com/qcm-hub/scoreboard/internal/apperr"
)

// Identifier bounds. Only non-emptiness was checked historically; the caps
// keep caller-supplied keys from growing without limit.
const (
	maxExternalIDLen = 128
	maxThemeCodeLen  = 128
	maxSessionLen    = 64
)

// Store is what the service needs from the persistence layer.
type Store interface {
	Upsert(ctx context.Context, req SubmitRequest) (Receipt, error)
	History(ctx context.Context, externalID string) ([]Entry, error)
	AppendSession(ctx context.Context, qs QuizSession) error
	ThemeCatalog(ctx context.Context) ([]Subject, error)
}

type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

// Submit validates and runs the upsert workflow. Validation failures never
// touch the datastore.
func (s *Service) Submit(ctx context.Context, req SubmitRequest) (Receipt, error) {
	if err := validateSubmit(req); err != nil {
		return Receipt{}, err
	}
	return s.store.Upsert(ctx, req)
}

func validateSubmit(req SubmitRequest) error {
	switch {
	case req.ExternalID == "" || req.ThemeCode == "":
		return apperr.Invalid("champs invalides")
	case req.MaxScore <= 0 || req.Score < 0:
		return apperr.Invalid("champs invalides")
	case len(req.ExternalID) > maxExternalIDLen:
		return apperr.Invalid("external_id too long")
	case len(req.ThemeCode) > maxThemeCodeLen:
		return apperr.Invalid("theme_code too long")
	case len(req.Session) > maxSessionLen:
		return apperr.Invalid("session too long")
	}
	return nil
}

func (s *Service) ScoresForStudent(ctx context.Context, externalID string) ([]Entry, error) {
	if externalID == "" {
		return nil, apperr.Invalid("external_id required")
	}
	return s.store.History(ctx, externalID)
}

func (s *Service) RecordQuizSession(ctx context.Context, qs QuizSession) error {
	if qs.SessionID == "" || qs.CompletedAt == "" {
		return apperr.Invalid("session_id and completed_at required")
	}
	return s.store.AppendSession(ctx, qs)
}

func (s *Service) ThemeCatalog(ctx context.Context) ([]Subject, error) {
	return s.store.ThemeCatalog(ctx)
}
