package sqlite

import (
	"context"

	"github.com/google/uuid"

	"github.com/spec-kit/symposium-service/internal/domain"
)

type certificateRepository struct {
	db dbtx
}

const certificateColumns = `id, user_id, symposium_id, code, issued_at`

func (r *certificateRepository) Create(ctx context.Context, c *domain.Certificate) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO certificates (id, user_id, symposium_id, code, issued_at) VALUES (?, ?, ?, ?, ?)`,
		c.ID, c.UserID, c.SymposiumID, c.Code, toMillis(c.IssuedAt))
	return mapError(err)
}

func (r *certificateRepository) GetByID(ctx context.Context, id string) (*domain.Certificate, error) {
	return scanCertificate(r.db.QueryRowContext(ctx, `SELECT `+certificateColumns+` FROM certificates WHERE id = ?`, id))
}

func (r *certificateRepository) GetByCode(ctx context.Context, code string) (*domain.Certificate, error) {
	return scanCertificate(r.db.QueryRowContext(ctx, `SELECT `+certificateColumns+` FROM certificates WHERE code = ?`, code))
}

func (r *certificateRepository) ListByUser(ctx context.Context, userID string) ([]domain.Certificate, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+certificateColumns+` FROM certificates WHERE user_id = ? ORDER BY issued_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Certificate
	for rows.Next() {
		c, err := scanCertificate(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *c)
	}
	return result, rows.Err()
}

func (r *certificateRepository) CountBySymposium(ctx context.Context, symposiumID string) (int, error) {
	return count(ctx, r.db, `SELECT COUNT(*) FROM certificates WHERE symposium_id = ?`, symposiumID)
}

func scanCertificate(row scanner) (*domain.Certificate, error) {
	var (
		c      domain.Certificate
		issued int64
	)
	if err := row.Scan(&c.ID, &c.UserID, &c.SymposiumID, &c.Code, &issued); err != nil {
		return nil, mapError(err)
	}
	c.IssuedAt = fromMillis(issued)
	return &c, nil
}
