package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/symposium-service/internal/domain"
	"github.com/spec-kit/symposium-service/internal/repository"
)

type registrationRepository struct {
	db dbtx
}

const registrationColumns = `r.id, r.user_id, r.symposium_id, r.event_id, r.status, r.created_at, r.updated_at, r.decided_at`

func (r *registrationRepository) Create(ctx context.Context, reg *domain.Registration) error {
	if reg.ID == "" {
		reg.ID = uuid.NewString()
	}
	ts := now()
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO registrations (id, user_id, symposium_id, event_id, status, created_at, updated_at)
         VALUES (?, ?, ?, ?, ?, ?, ?)
         ON CONFLICT DO NOTHING`,
		reg.ID, reg.UserID, nullString(reg.SymposiumID), nullString(reg.EventID), string(reg.Status), ts, ts,
	)
	if err != nil {
		return mapError(err)
	}
	if err := expectAffected(res, repository.ErrConflict); err != nil {
		return err
	}
	reg.CreatedAt, reg.UpdatedAt = fromMillis(ts), fromMillis(ts)
	return nil
}

func (r *registrationRepository) GetByID(ctx context.Context, id string) (*domain.Registration, error) {
	return scanRegistration(r.db.QueryRowContext(ctx,
		`SELECT `+registrationColumns+` FROM registrations r WHERE r.id = ?`, id))
}

func (r *registrationRepository) FindForSymposium(ctx context.Context, userID, symposiumID string) (*domain.Registration, error) {
	return scanRegistration(r.db.QueryRowContext(ctx,
		`SELECT `+registrationColumns+` FROM registrations r WHERE r.user_id = ? AND r.symposium_id = ?`, userID, symposiumID))
}

func (r *registrationRepository) FindForEvent(ctx context.Context, userID, eventID string) (*domain.Registration, error) {
	return scanRegistration(r.db.QueryRowContext(ctx,
		`SELECT `+registrationColumns+` FROM registrations r WHERE r.user_id = ? AND r.event_id = ?`, userID, eventID))
}

func (r *registrationRepository) UpdateStatus(ctx context.Context, id string, from, to domain.RegistrationStatus, decidedAt time.Time) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE registrations SET status = ?, decided_at = ?, updated_at = ? WHERE id = ? AND status = ?`,
		string(to), toMillis(decidedAt), now(), id, string(from),
	)
	if err != nil {
		return mapError(err)
	}
	return expectAffected(res, repository.ErrConflict)
}

func (r *registrationRepository) ListPendingByOrganizer(ctx context.Context, organizerID string) ([]domain.Registration, error) {
	return r.list(ctx, `
        SELECT `+registrationColumns+`
        FROM registrations r
        LEFT JOIN symposiums s ON s.id = r.symposium_id
        LEFT JOIN events e ON e.id = r.event_id
        LEFT JOIN symposiums es ON es.id = e.symposium_id
        WHERE r.status = 'pending' AND (s.organizer_id = ?1 OR es.organizer_id = ?1)
        ORDER BY r.created_at ASC, r.rowid ASC`, organizerID)
}

func (r *registrationRepository) ListByUser(ctx context.Context, userID string) ([]domain.Registration, error) {
	return r.list(ctx,
		`SELECT `+registrationColumns+` FROM registrations r WHERE r.user_id = ? ORDER BY r.created_at DESC, r.rowid DESC`, userID)
}

func (r *registrationRepository) list(ctx context.Context, query string, args ...any) ([]domain.Registration, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Registration
	for rows.Next() {
		reg, err := scanRegistration(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *reg)
	}
	return result, rows.Err()
}

func scanRegistration(row scanner) (*domain.Registration, error) {
	var (
		reg              domain.Registration
		symposiumID      sql.NullString
		eventID          sql.NullString
		status           string
		created, updated int64
		decided          sql.NullInt64
	)
	if err := row.Scan(&reg.ID, &reg.UserID, &symposiumID, &eventID, &status, &created, &updated, &decided); err != nil {
		return nil, mapError(err)
	}
	reg.SymposiumID = stringPtr(symposiumID)
	reg.EventID = stringPtr(eventID)
	reg.Status = domain.RegistrationStatus(status)
	reg.CreatedAt, reg.UpdatedAt = fromMillis(created), fromMillis(updated)
	if decided.Valid {
		t := fromMillis(decided.Int64)
		reg.DecidedAt = &t
	}
	return &reg, nil
}
