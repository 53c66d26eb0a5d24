package score

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/qcm-hub/scoreboard/internal/apperr"
)

type SQLStore struct {
	db     *sql.DB
	driver string // "sqlite" or "postgres"
	now    func() time.Time
}

func NewSQLStore(db *sql.DB, driver string) *SQLStore {
	return &SQLStore{db: db, driver: driver, now: time.Now}
}

// Upsert resolves both references to surrogate ids, then writes the score row
// in a single conditional statement so the database arbitrates concurrent
// writers for the same (student, subject) pair.
func (s *SQLStore) Upsert(ctx context.Context, req SubmitRequest) (Receipt, error) {
	if _, err := s.db.ExecContext(ctx,
		`INSERT INTO etudiants (external_id) VALUES ($1) ON CONFLICT (external_id) DO NOTHING`,
		req.ExternalID); err != nil {
		return Receipt{}, apperr.Datastore(err)
	}
	if _, err := s.db.ExecContext(ctx,
		`INSERT INTO sujets (session, theme) VALUES ($1,$2) ON CONFLICT (session, theme) DO NOTHING`,
		req.Session, req.ThemeCode); err != nil {
		return Receipt{}, apperr.Datastore(err)
	}

	studentID, err := s.lookupID(ctx,
		`SELECT id FROM etudiants WHERE external_id=$1`, "etudiant "+req.ExternalID, req.ExternalID)
	if err != nil {
		return Receipt{}, err
	}
	subjectID, err := s.lookupID(ctx,
		`SELECT id FROM sujets WHERE session=$1 AND theme=$2`,
		fmt.Sprintf("sujet %s/%s", req.Session, req.ThemeCode), req.Session, req.ThemeCode)
	if err != nil {
		return Receipt{}, err
	}

	if _, err := s.db.ExecContext(ctx, `
		INSERT INTO scores (etudiant_id, sujet_id, score, max_score, updated_at)
		VALUES ($1,$2,$3,$4,$5)
		ON CONFLICT (etudiant_id, sujet_id)
		DO UPDATE SET
			score=EXCLUDED.score,
			max_score=EXCLUDED.max_score,
			updated_at=EXCLUDED.updated_at`,
		studentID, subjectID, req.Score, req.MaxScore, s.now().UnixMilli()); err != nil {
		return Receipt{}, apperr.Datastore(err)
	}

	return Receipt{
		ExternalID: req.ExternalID,
		ThemeCode:  req.ThemeCode,
		Score:      req.Score,
		MaxScore:   req.MaxScore,
	}, nil
}

// lookupID must succeed: the preceding insert-or-ignore guarantees the row.
// A miss means the store broke its own uniqueness contract.
func (s *SQLStore) lookupID(ctx context.Context, query, what string, args ...any) (int64, error) {
	var id int64
	err := s.db.QueryRowContext(ctx, query, args...).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, apperr.Inconsistency("no row for " + what + " after insert-or-ignore")
	}
	if err != nil {
		return 0, apperr.Datastore(err)
	}
	return id, nil
}

// History returns the student's scores, most recently updated first. An
// unknown student yields an empty slice, not an error.
func (s *SQLStore) History(ctx context.Context, externalID string) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT su.theme, su.session, sc.score, sc.max_score, sc.updated_at
		FROM scores sc
		JOIN etudiants e ON e.id = sc.etudiant_id
		JOIN sujets su ON su.id = sc.sujet_id
		WHERE e.external_id=$1
		ORDER BY sc.updated_at DESC`, externalID)
	if err != nil {
		return nil, apperr.Datastore(err)
	}
	defer rows.Close()

	entries := []Entry{}
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ThemeCode, &e.Session, &e.Score, &e.MaxScore, &e.UpdatedAt); err != nil {
			return nil, apperr.Datastore(err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Datastore(err)
	}
	return entries, nil
}

// AppendSession adds one quiz-session row. Pure append: duplicate session_id
// values are accepted, the log has no keyed identity.
func (s *SQLStore) AppendSession(ctx context.Context, qs QuizSession) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO quiz_sessions
			(session_id, started_at, completed_at, num_themes, num_questions_total, num_correct_total, themes)
		VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		qs.SessionID, qs.StartedAt, qs.CompletedAt,
		qs.NumThemes, qs.NumQuestionsTotal, qs.NumCorrectTotal, qs.Themes)
	if err != nil {
		return apperr.Datastore(err)
	}
	return nil
}

// ThemeCatalog lists every known (session, theme) pair.
func (s *SQLStore) ThemeCatalog(ctx context.Context) ([]Subject, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, session, theme FROM sujets ORDER BY session, theme`)
	if err != nil {
		return nil, apperr.Datastore(err)
	}
	defer rows.Close()

	subjects := []Subject{}
	for rows.Next() {
		var su Subject
		if err := rows.Scan(&su.ID, &su.Session, &su.Theme); err != nil {
			return nil, apperr.Datastore(err)
		}
		subjects = append(subjects, su)
	}
	return subjects, rows.Err()
}
