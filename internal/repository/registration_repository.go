package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/symposium-service/internal/domain"
)

type registrationRepository struct {
	db DBTX
}

// NewRegistrationRepository returns a Postgres-backed implementation.
func NewRegistrationRepository(db DBTX) RegistrationRepository {
	return &registrationRepository{db: db}
}

const registrationColumns = `r.id, r.user_id, r.symposium_id, r.event_id, r.status, r.created_at, r.updated_at, r.decided_at`

func (r *registrationRepository) Create(ctx context.Context, reg *domain.Registration) error {
	const query = `
        INSERT INTO registrations (id, user_id, symposium_id, event_id, status)
        VALUES ($1, $2, $3, $4, $5)
        ON CONFLICT DO NOTHING
        RETURNING created_at, updated_at`

	if reg.ID == "" {
		reg.ID = uuid.NewString()
	}
	err := r.db.QueryRow(ctx, query,
		reg.ID,
		reg.UserID,
		reg.SymposiumID,
		reg.EventID,
		reg.Status,
	).Scan(&reg.CreatedAt, &reg.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrConflict
	}
	return mapPgError(err)
}

func (r *registrationRepository) GetByID(ctx context.Context, id string) (*domain.Registration, error) {
	query := `SELECT ` + registrationColumns + ` FROM registrations r WHERE r.id=$1`
	return scanRegistration(r.db.QueryRow(ctx, query, id))
}

func (r *registrationRepository) FindForSymposium(ctx context.Context, userID, symposiumID string) (*domain.Registration, error) {
	query := `SELECT ` + registrationColumns + ` FROM registrations r WHERE r.user_id=$1 AND r.symposium_id=$2`
	return scanRegistration(r.db.QueryRow(ctx, query, userID, symposiumID))
}

func (r *registrationRepository) FindForEvent(ctx context.Context, userID, eventID string) (*domain.Registration, error) {
	query := `SELECT ` + registrationColumns + ` FROM registrations r WHERE r.user_id=$1 AND r.event_id=$2`
	return scanRegistration(r.db.QueryRow(ctx, query, userID, eventID))
}

func (r *registrationRepository) UpdateStatus(ctx context.Context, id string, from, to domain.RegistrationStatus, decidedAt time.Time) error {
	const query = `
        UPDATE registrations
        SET status=$1, decided_at=$2, updated_at=NOW()
        WHERE id=$3 AND status=$4`

	tag, err := r.db.Exec(ctx, query, to, decidedAt, id, from)
	if err != nil {
		return mapPgError(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrConflict
	}
	return nil
}

func (r *registrationRepository) ListPendingByOrganizer(ctx context.Context, organizerID string) ([]domain.Registration, error) {
	query := `
        SELECT ` + registrationColumns + `
        FROM registrations r
        LEFT JOIN symposiums s ON s.id = r.symposium_id
        LEFT JOIN events e ON e.id = r.event_id
        LEFT JOIN symposiums es ON es.id = e.symposium_id
        WHERE r.status = 'pending' AND (s.organizer_id = $1 OR es.organizer_id = $1)
        ORDER BY r.created_at ASC`
	return r.list(ctx, query, organizerID)
}

func (r *registrationRepository) ListByUser(ctx context.Context, userID string) ([]domain.Registration, error) {
	query := `SELECT ` + registrationColumns + ` FROM registrations r WHERE r.user_id=$1 ORDER BY r.created_at DESC`
	return r.list(ctx, query, userID)
}

func (r *registrationRepository) list(ctx context.Context, query string, args ...any) ([]domain.Registration, error) {
	rows, err := r.db.Query(ctx, query, args...)
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

func scanRegistration(row pgx.Row) (*domain.Registration, error) {
	var reg domain.Registration
	if err := row.Scan(
		&reg.ID,
		&reg.UserID,
		&reg.SymposiumID,
		&reg.EventID,
		&reg.Status,
		&reg.CreatedAt,
		&reg.UpdatedAt,
		&reg.DecidedAt,
	); err != nil {
		return nil, mapPgError(err)
	}
	return &reg, nil
}
