package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/symposium-service/internal/domain"
)

type symposiumRepository struct {
	db DBTX
}

// NewSymposiumRepository returns a Postgres-backed implementation.
func NewSymposiumRepository(db DBTX) SymposiumRepository {
	return &symposiumRepository{db: db}
}

const symposiumColumns = `id, name, description, start_date, end_date, location, organizer_id, created_at, updated_at`

func (r *symposiumRepository) Create(ctx context.Context, s *domain.Symposium) error {
	const query = `
        INSERT INTO symposiums (id, name, description, start_date, end_date, location, organizer_id)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
        RETURNING created_at, updated_at`

	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	err := r.db.QueryRow(ctx, query,
		s.ID,
		s.Name,
		s.Description,
		s.StartDate,
		s.EndDate,
		s.Location,
		s.OrganizerID,
	).Scan(&s.CreatedAt, &s.UpdatedAt)
	return mapPgError(err)
}

func (r *symposiumRepository) Update(ctx context.Context, s *domain.Symposium) error {
	const query = `
        UPDATE symposiums
        SET name=$1, description=$2, start_date=$3, end_date=$4, location=$5, updated_at=NOW()
        WHERE id=$6
        RETURNING updated_at`

	err := r.db.QueryRow(ctx, query,
		s.Name,
		s.Description,
		s.StartDate,
		s.EndDate,
		s.Location,
		s.ID,
	).Scan(&s.UpdatedAt)
	return mapPgError(err)
}

func (r *symposiumRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM symposiums WHERE id=$1`, id)
	if err != nil {
		return mapPgError(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *symposiumRepository) GetByID(ctx context.Context, id string) (*domain.Symposium, error) {
	query := `SELECT ` + symposiumColumns + ` FROM symposiums WHERE id=$1`
	return scanSymposium(r.db.QueryRow(ctx, query, id))
}

func (r *symposiumRepository) List(ctx context.Context) ([]domain.Symposium, error) {
	query := `SELECT ` + symposiumColumns + ` FROM symposiums ORDER BY start_date ASC, created_at ASC`
	return r.list(ctx, query)
}

func (r *symposiumRepository) ListByOrganizer(ctx context.Context, organizerID string) ([]domain.Symposium, error) {
	query := `SELECT ` + symposiumColumns + ` FROM symposiums WHERE organizer_id=$1 ORDER BY start_date ASC, created_at ASC`
	return r.list(ctx, query, organizerID)
}

func (r *symposiumRepository) list(ctx context.Context, query string, args ...any) ([]domain.Symposium, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Symposium
	for rows.Next() {
		s, err := scanSymposium(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *s)
	}
	return result, rows.Err()
}

func scanSymposium(row pgx.Row) (*domain.Symposium, error) {
	var s domain.Symposium
	if err := row.Scan(
		&s.ID,
		&s.Name,
		&s.Description,
		&s.StartDate,
		&s.EndDate,
		&s.Location,
		&s.OrganizerID,
		&s.CreatedAt,
		&s.UpdatedAt,
	); err != nil {
		return nil, mapPgError(err)
	}
	return &s, nil
}
