package sqlite

import (
	"context"

	"github.com/google/uuid"

	"github.com/spec-kit/symposium-service/internal/domain"
	"github.com/spec-kit/symposium-service/internal/repository"
)

type eventRepository struct {
	db dbtx
}

const eventColumns = `id, symposium_id, name, description, date, start_time, end_time, capacity, level, location, created_at, updated_at`

func (r *eventRepository) Create(ctx context.Context, e *domain.Event) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	ts := now()
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO events (id, symposium_id, name, description, date, start_time, end_time, capacity, level, location, created_at, updated_at)
         VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.SymposiumID, e.Name, e.Description, toMillis(e.Date), e.StartTime, e.EndTime, e.Capacity, string(e.Level), e.Location, ts, ts,
	)
	if err != nil {
		return mapError(err)
	}
	e.CreatedAt, e.UpdatedAt = fromMillis(ts), fromMillis(ts)
	return nil
}

func (r *eventRepository) Update(ctx context.Context, e *domain.Event) error {
	ts := now()
	res, err := r.db.ExecContext(ctx,
		`UPDATE events SET name = ?, description = ?, date = ?, start_time = ?, end_time = ?, capacity = ?, level = ?, location = ?, updated_at = ?
         WHERE id = ?`,
		e.Name, e.Description, toMillis(e.Date), e.StartTime, e.EndTime, e.Capacity, string(e.Level), e.Location, ts, e.ID,
	)
	if err != nil {
		return mapError(err)
	}
	if err := expectAffected(res, repository.ErrNotFound); err != nil {
		return err
	}
	e.UpdatedAt = fromMillis(ts)
	return nil
}

func (r *eventRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM events WHERE id = ?`, id)
	if err != nil {
		return mapError(err)
	}
	return expectAffected(res, repository.ErrNotFound)
}

func (r *eventRepository) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	return scanEvent(r.db.QueryRowContext(ctx, `SELECT `+eventColumns+` FROM events WHERE id = ?`, id))
}

// LockByID is a plain read: the store runs on one connection, so
// transactions are already serialized.
func (r *eventRepository) LockByID(ctx context.Context, id string) (*domain.Event, error) {
	return r.GetByID(ctx, id)
}

func (r *eventRepository) ListBySymposium(ctx context.Context, symposiumID string) ([]domain.Event, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+eventColumns+` FROM events WHERE symposium_id = ? ORDER BY date ASC, start_time ASC`, symposiumID)
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
	return count(ctx, r.db, `SELECT COUNT(*) FROM events WHERE symposium_id = ?`, symposiumID)
}

func scanEvent(row scanner) (*domain.Event, error) {
	var (
		e                domain.Event
		date             int64
		level            string
		created, updated int64
	)
	if err := row.Scan(&e.ID, &e.SymposiumID, &e.Name, &e.Description, &date, &e.StartTime, &e.EndTime,
		&e.Capacity, &level, &e.Location, &created, &updated); err != nil {
		return nil, mapError(err)
	}
	e.Date = fromMillis(date)
	e.Level = domain.EventLevel(level)
	e.CreatedAt, e.UpdatedAt = fromMillis(created), fromMillis(updated)
	return &e, nil
}
