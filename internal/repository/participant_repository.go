package repository

import (
	"context"
	"time"

	"github.com/spec-kit/symposium-service/internal/domain"
)

type participantRepository struct {
	db DBTX
}

// NewParticipantRepository returns a Postgres-backed implementation.
func NewParticipantRepository(db DBTX) ParticipantRepository {
	return &participantRepository{db: db}
}

func (r *participantRepository) AddToSymposium(ctx context.Context, userID, symposiumID string, joinedAt time.Time) error {
	const query = `
        INSERT INTO symposium_participants (user_id, symposium_id, joined_at)
        VALUES ($1, $2, $3)
        ON CONFLICT (user_id, symposium_id) DO NOTHING`
	_, err := r.db.Exec(ctx, query, userID, symposiumID, joinedAt)
	return mapPgError(err)
}

func (r *participantRepository) AddToEvent(ctx context.Context, userID, eventID string, joinedAt time.Time) error {
	const query = `
        INSERT INTO event_participants (user_id, event_id, joined_at)
        VALUES ($1, $2, $3)
        ON CONFLICT (user_id, event_id) DO NOTHING`
	_, err := r.db.Exec(ctx, query, userID, eventID, joinedAt)
	return mapPgError(err)
}

func (r *participantRepository) IsSymposiumParticipant(ctx context.Context, userID, symposiumID string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM symposium_participants WHERE user_id=$1 AND symposium_id=$2)`,
		userID, symposiumID,
	).Scan(&exists)
	return exists, err
}

func (r *participantRepository) IsEventParticipant(ctx context.Context, userID, eventID string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM event_participants WHERE user_id=$1 AND event_id=$2)`,
		userID, eventID,
	).Scan(&exists)
	return exists, err
}

func (r *participantRepository) ListBySymposium(ctx context.Context, symposiumID string) ([]domain.Participation, error) {
	const query = `
        SELECT u.id, u.name, u.email, u.password_hash, u.role, u.created_at, u.updated_at, p.joined_at
        FROM symposium_participants p
        JOIN users u ON u.id = p.user_id
        WHERE p.symposium_id=$1
        ORDER BY p.joined_at ASC`
	return r.list(ctx, query, symposiumID)
}

func (r *participantRepository) ListByEvent(ctx context.Context, eventID string) ([]domain.Participation, error) {
	const query = `
        SELECT u.id, u.name, u.email, u.password_hash, u.role, u.created_at, u.updated_at, p.joined_at
        FROM event_participants p
        JOIN users u ON u.id = p.user_id
        WHERE p.event_id=$1
        ORDER BY p.joined_at ASC`
	return r.list(ctx, query, eventID)
}

func (r *participantRepository) CountByEvent(ctx context.Context, eventID string) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM event_participants WHERE event_id=$1`, eventID).Scan(&count)
	return count, err
}

func (r *participantRepository) list(ctx context.Context, query string, args ...any) ([]domain.Participation, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Participation
	for rows.Next() {
		var p domain.Participation
		if err := rows.Scan(
			&p.User.ID,
			&p.User.Name,
			&p.User.Email,
			&p.User.PasswordHash,
			&p.User.Role,
			&p.User.CreatedAt,
			&p.User.UpdatedAt,
			&p.JoinedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, p)
	}
	return result, rows.Err()
}
