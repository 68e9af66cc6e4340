package sqlite

import (
	"context"

	"github.com/google/uuid"

	"github.com/spec-kit/symposium-service/internal/domain"
	"github.com/spec-kit/symposium-service/internal/repository"
)

type symposiumRepository struct {
	db dbtx
}

const symposiumColumns = `id, name, description, start_date, end_date, location, organizer_id, created_at, updated_at`

func (r *symposiumRepository) Create(ctx context.Context, s *domain.Symposium) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	ts := now()
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO symposiums (id, name, description, start_date, end_date, location, organizer_id, created_at, updated_at)
         VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		s.ID, s.Name, s.Description, toMillis(s.StartDate), toMillis(s.EndDate), s.Location, s.OrganizerID, ts, ts,
	)
	if err != nil {
		return mapError(err)
	}
	s.CreatedAt, s.UpdatedAt = fromMillis(ts), fromMillis(ts)
	return nil
}

func (r *symposiumRepository) Update(ctx context.Context, s *domain.Symposium) error {
	ts := now()
	res, err := r.db.ExecContext(ctx,
		`UPDATE symposiums SET name = ?, description = ?, start_date = ?, end_date = ?, location = ?, updated_at = ? WHERE id = ?`,
		s.Name, s.Description, toMillis(s.StartDate), toMillis(s.EndDate), s.Location, ts, s.ID,
	)
	if err != nil {
		return mapError(err)
	}
	if err := expectAffected(res, repository.ErrNotFound); err != nil {
		return err
	}
	s.UpdatedAt = fromMillis(ts)
	return nil
}

func (r *symposiumRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM symposiums WHERE id = ?`, id)
	if err != nil {
		return mapError(err)
	}
	return expectAffected(res, repository.ErrNotFound)
}

func (r *symposiumRepository) GetByID(ctx context.Context, id string) (*domain.Symposium, error) {
	return scanSymposium(r.db.QueryRowContext(ctx, `SELECT `+symposiumColumns+` FROM symposiums WHERE id = ?`, id))
}

func (r *symposiumRepository) List(ctx context.Context) ([]domain.Symposium, error) {
	return r.list(ctx, `SELECT `+symposiumColumns+` FROM symposiums ORDER BY start_date ASC, created_at ASC`)
}

func (r *symposiumRepository) ListByOrganizer(ctx context.Context, organizerID string) ([]domain.Symposium, error) {
	return r.list(ctx, `SELECT `+symposiumColumns+` FROM symposiums WHERE organizer_id = ? ORDER BY start_date ASC, created_at ASC`, organizerID)
}

func (r *symposiumRepository) list(ctx context.Context, query string, args ...any) ([]domain.Symposium, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
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

func scanSymposium(row scanner) (*domain.Symposium, error) {
	var (
		s                domain.Symposium
		start, end       int64
		created, updated int64
	)
	if err := row.Scan(&s.ID, &s.Name, &s.Description, &start, &end, &s.Location, &s.OrganizerID, &created, &updated); err != nil {
		return nil, mapError(err)
	}
	s.StartDate, s.EndDate = fromMillis(start), fromMillis(end)
	s.CreatedAt, s.UpdatedAt = fromMillis(created), fromMillis(updated)
	return &s, nil
}
