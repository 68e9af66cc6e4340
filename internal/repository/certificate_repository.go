package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/symposium-service/internal/domain"
)

type certificateRepository struct {
	db DBTX
}

// NewCertificateRepository returns a Postgres-backed implementation.
func NewCertificateRepository(db DBTX) CertificateRepository {
	return &certificateRepository{db: db}
}

const certificateColumns = `id, user_id, symposium_id, code, issued_at`

func (r *certificateRepository) Create(ctx context.Context, c *domain.Certificate) error {
	const query = `
        INSERT INTO certificates (id, user_id, symposium_id, code, issued_at)
        VALUES ($1, $2, $3, $4, $5)`

	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	_, err := r.db.Exec(ctx, query, c.ID, c.UserID, c.SymposiumID, c.Code, c.IssuedAt)
	return mapPgError(err)
}

func (r *certificateRepository) GetByID(ctx context.Context, id string) (*domain.Certificate, error) {
	query := `SELECT ` + certificateColumns + ` FROM certificates WHERE id=$1`
	return scanCertificate(r.db.QueryRow(ctx, query, id))
}

func (r *certificateRepository) GetByCode(ctx context.Context, code string) (*domain.Certificate, error) {
	query := `SELECT ` + certificateColumns + ` FROM certificates WHERE code=$1`
	return scanCertificate(r.db.QueryRow(ctx, query, code))
}

func (r *certificateRepository) ListByUser(ctx context.Context, userID string) ([]domain.Certificate, error) {
	query := `SELECT ` + certificateColumns + ` FROM certificates WHERE user_id=$1 ORDER BY issued_at DESC`
	rows, err := r.db.Query(ctx, query, userID)
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
	var count int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM certificates WHERE symposium_id=$1`, symposiumID).Scan(&count)
	return count, err
}

func scanCertificate(row pgx.Row) (*domain.Certificate, error) {
	var c domain.Certificate
	if err := row.Scan(&c.ID, &c.UserID, &c.SymposiumID, &c.Code, &c.IssuedAt); err != nil {
		return nil, mapPgError(err)
	}
	return &c, nil
}
