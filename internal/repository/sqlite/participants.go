package sqlite

import (
	"context"
	"time"

	"github.com/spec-kit/symposium-service/internal/domain"
)

type participantRepository struct {
	db dbtx
}

func (r *participantRepository) AddToSymposium(ctx context.Context, userID, symposiumID string, joinedAt time.Time) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO symposium_participants (user_id, symposium_id, joined_at) VALUES (?, ?, ?)
         ON CONFLICT (user_id, symposium_id) DO NOTHING`,
		userID, symposiumID, toMillis(joinedAt))
	return mapError(err)
}

func (r *participantRepository) AddToEvent(ctx context.Context, userID, eventID string, joinedAt time.Time) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO event_participants (user_id, event_id, joined_at) VALUES (?, ?, ?)
         ON CONFLICT (user_id, event_id) DO NOTHING`,
		userID, eventID, toMillis(joinedAt))
	return mapError(err)
}

func (r *participantRepository) IsSymposiumParticipant(ctx context.Context, userID, symposiumID string) (bool, error) {
	n, err := count(ctx, r.db,
		`SELECT COUNT(*) FROM symposium_participants WHERE user_id = ? AND symposium_id = ?`, userID, symposiumID)
	return n > 0, err
}

func (r *participantRepository) IsEventParticipant(ctx context.Context, userID, eventID string) (bool, error) {
	n, err := count(ctx, r.db,
		`SELECT COUNT(*) FROM event_participants WHERE user_id = ? AND event_id = ?`, userID, eventID)
	return n > 0, err
}

func (r *participantRepository) ListBySymposium(ctx context.Context, symposiumID string) ([]domain.Participation, error) {
	return r.list(ctx, `
        SELECT u.id, u.name, u.email, u.password_hash, u.role, u.created_at, u.updated_at, p.joined_at
        FROM symposium_participants p
        JOIN users u ON u.id = p.user_id
        WHERE p.symposium_id = ?
        ORDER BY p.joined_at ASC, p.rowid ASC`, symposiumID)
}

func (r *participantRepository) ListByEvent(ctx context.Context, eventID string) ([]domain.Participation, error) {
	return r.list(ctx, `
        SELECT u.id, u.name, u.email, u.password_hash, u.role, u.created_at, u.updated_at, p.joined_at
        FROM event_participants p
        JOIN users u ON u.id = p.user_id
        WHERE p.event_id = ?
        ORDER BY p.joined_at ASC, p.rowid ASC`, eventID)
}

func (r *participantRepository) CountByEvent(ctx context.Context, eventID string) (int, error) {
	return count(ctx, r.db, `SELECT COUNT(*) FROM event_participants WHERE event_id = ?`, eventID)
}

func (r *participantRepository) list(ctx context.Context, query string, args ...any) ([]domain.Participation, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Participation
	for rows.Next() {
		var (
			p                        domain.Participation
			role                     string
			created, updated, joined int64
		)
		if err := rows.Scan(&p.User.ID, &p.User.Name, &p.User.Email, &p.User.PasswordHash, &role,
			&created, &updated, &joined); err != nil {
			return nil, err
		}
		p.User.Role = domain.Role(role)
		p.User.CreatedAt, p.User.UpdatedAt = fromMillis(created), fromMillis(updated)
		p.JoinedAt = fromMillis(joined)
		result = append(result, p)
	}
	return result, rows.Err()
}
