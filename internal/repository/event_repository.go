package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/symposium-service/internal/domain"
)

type eventRepository struct {
	db DBTX
}

// NewEventRepository returns a Postgres-backed implementation.
func NewEventRepository(db DBTX) EventRepository {
	return &eventRepository{db: db}
}

const eventColumns = `id, symposium_id, name, description, date, start_time, end_time, capacity, level, location, created_at, updated_at`

func (r *eventRepository) Create(ctx context.Context, e *domain.Event) error {
	const query = `
        INSERT INTO events (id, symposium_id, name, description, date, start_time, end_time, capacity, level, location)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
        RETURNING created_at, updated_at`

	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	err := r.db.QueryRow(ctx, query,
		e.ID,
		e.SymposiumID,
		e.Name,
		e.Description,
		e.Date,
		e.StartTime,
		e.EndTime,
		e.Capacity,
		e.Level,
		e.Location,
	).Scan(&e.CreatedAt, &e.UpdatedAt)
	return mapPgError(err)
}

func (r *eventRepository) Update(ctx context.Context, e *domain.Event) error {
	const query = `
        UPDATE events
        SET name=$1, description=$2, date=$3, start_time=$4, end_time=$5, capacity=$6, level=$7, location=$8, updated_at=NOW()
        WHERE id=$9
        RETURNING updated_at`

	err := r.db.QueryRow(ctx, query,
		e.Name,
		e.Description,
		e.Date,
		e.StartTime,
		e.EndTime,
		e.Capacity,
		e.Level,
		e.Location,
		e.ID,
	).Scan(&e.UpdatedAt)
	return mapPgError(err)
}

func (r *eventRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM events WHERE id=$1`, id)
	if err != nil {
		return mapPgError(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *eventRepository) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE id=$1`
	return scanEvent(r.db.QueryRow(ctx, query, id))
}

func (r *eventRepository) LockByID(ctx context.Context, id string) (*domain.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE id=$1 FOR UPDATE`
	return scanEvent(r.db.QueryRow(ctx, query, id))
}

func (r *eventRepository) ListBySymposium(ctx context.Context, symposiumID string) ([]domain.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE symposium_id=$1 ORDER BY date ASC, start_time ASC`
	rows, err := r.db.Query(ctx, query, symposiumID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Event
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *e)
	}
	return result, rows.Err()
}

func (r *eventRepository) CountBySymposium(ctx context.Context, symposiumID string) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM events WHERE symposium_id=$1`, symposiumID).Scan(&count)
	return count, err
}

func scanEvent(row pgx.Row) (*domain.Event, error) {
	var e domain.Event
	if err := row.Scan(
		&e.ID,
		&e.SymposiumID,
		&e.Name,
		&e.Description,
		&e.Date,
		&e.StartTime,
		&e.EndTime,
		&e.Capacity,
		&e.Level,
		&e.Location,
		&e.CreatedAt,
		&e.UpdatedAt,
	); err != nil {
		return nil, mapPgError(err)
	}
	return &e, nil
}
