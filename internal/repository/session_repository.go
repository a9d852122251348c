package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Freeeeeet/studio_bot/internal/model"
)

type SessionRepository struct {
	pool *pgxpool.Pool
}

func NewSessionRepository(pool *pgxpool.Pool) *SessionRepository {
	return &SessionRepository{pool: pool}
}

// Create сохраняет новое занятие. Пересечение с существующим занятием того же
// ключа отклоняется констрейнтом на уровне БД и возвращается как ErrSlotOccupied
func (r *SessionRepository) Create(ctx context.Context, session *model.Session) error {
	query := `
		INSERT INTO sessions (session_id, owner_id, mode, session_type, student, session_date, start_time, end_time)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at, updated_at
	`

	err := r.pool.QueryRow(
		ctx, query,
		session.ID,
		session.OwnerID,
		session.Mode,
		session.SessionType,
		session.Student,
		session.Date,
		session.StartTime,
		session.EndTime,
	).Scan(&session.CreatedAt, &session.UpdatedAt)

	if err != nil {
		if isExclusionViolation(err) {
			return ErrSlotOccupied
		}
		return fmt.Errorf("create session: %w", err)
	}

	return nil
}

// GetByID получает занятие по идентификатору
func (r *SessionRepository) GetByID(ctx context.Context, id string) (*model.Session, error) {
	query := `
		SELECT session_id, owner_id, mode, session_type, student, session_date, start_time, end_time, created_at, updated_at
		FROM sessions
		WHERE session_id = $1
	`

	var session model.Session
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&session.ID,
		&session.OwnerID,
		&session.Mode,
		&session.SessionType,
		&session.Student,
		&session.Date,
		&session.StartTime,
		&session.EndTime,
		&session.CreatedAt,
		&session.UpdatedAt,
	)

	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get session by id: %w", err)
	}

	return &session, nil
}

// GetAll получает все занятия студии
func (r *SessionRepository) GetAll(ctx context.Context) ([]*model.Session, error) {
	query := `
		SELECT session_id, owner_id, mode, session_type, student, session_date, start_time, end_time, created_at, updated_at
		FROM sessions
		ORDER BY start_time
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("get all sessions: %w", err)
	}
	defer rows.Close()

	return scanSessions(rows)
}

// GetByOwnerID получает занятия участника, свежие первыми
func (r *SessionRepository) GetByOwnerID(ctx context.Context, ownerID int64) ([]*model.Session, error) {
	query := `
		SELECT session_id, owner_id, mode, session_type, student, session_date, start_time, end_time, created_at, updated_at
		FROM sessions
		WHERE owner_id = $1
		ORDER BY session_date DESC, start_time DESC
	`

	rows, err := r.pool.Query(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("get sessions by owner: %w", err)
	}
	defer rows.Close()

	return scanSessions(rows)
}

// Update перезаписывает занятие целиком. Итоговую запись собирает сервис,
// накладывая частичное обновление на сохранённые поля
func (r *SessionRepository) Update(ctx context.Context, session *model.Session) error {
	query := `
		UPDATE sessions
		SET mode = $1, session_type = $2, student = $3, session_date = $4,
		    start_time = $5, end_time = $6, updated_at = now()
		WHERE session_id = $7
	`

	result, err := r.pool.Exec(
		ctx, query,
		session.Mode,
		session.SessionType,
		session.Student,
		session.Date,
		session.StartTime,
		session.EndTime,
		session.ID,
	)

	if err != nil {
		if isExclusionViolation(err) {
			return ErrSlotOccupied
		}
		return fmt.Errorf("update session: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

// Delete удаляет занятие. Отсутствующий идентификатор это ошибка, не no-op
func (r *SessionRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM sessions WHERE session_id = $1`

	result, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

// Recent получает последние занятия студии, свежие первыми
func (r *SessionRepository) Recent(ctx context.Context, limit int) ([]*model.Session, error) {
	query := `
		SELECT session_id, owner_id, mode, session_type, student, session_date, start_time, end_time, created_at, updated_at
		FROM sessions
		ORDER BY session_date DESC, start_time DESC
		LIMIT $1
	`

	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("get recent sessions: %w", err)
	}
	defer rows.Close()

	return scanSessions(rows)
}

// RecentByOwner получает последние занятия участника
func (r *SessionRepository) RecentByOwner(ctx context.Context, ownerID int64, limit int) ([]*model.Session, error) {
	query := `
		SELECT session_id, owner_id, mode, session_type, student, session_date, start_time, end_time, created_at, updated_at
		FROM sessions
		WHERE owner_id = $1
		ORDER BY session_date DESC, start_time DESC
		LIMIT $2
	`

	rows, err := r.pool.Query(ctx, query, ownerID, limit)
	if err != nil {
		return nil, fmt.Errorf("get recent sessions by owner: %w", err)
	}
	defer rows.Close()

	return scanSessions(rows)
}

// CountInRange считает занятия с датой в [from, to)
func (r *SessionRepository) CountInRange(ctx context.Context, from, to time.Time) (int, error) {
	query := `SELECT COUNT(*) FROM sessions WHERE session_date >= $1 AND session_date < $2`

	var count int
	err := r.pool.QueryRow(ctx, query, from, to).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count sessions in range: %w", err)
	}

	return count, nil
}

// CountInRangeByOwner считает занятия участника с датой в [from, to)
func (r *SessionRepository) CountInRangeByOwner(ctx context.Context, ownerID int64, from, to time.Time) (int, error) {
	query := `SELECT COUNT(*) FROM sessions WHERE owner_id = $1 AND session_date >= $2 AND session_date < $3`

	var count int
	err := r.pool.QueryRow(ctx, query, ownerID, from, to).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count sessions by owner: %w", err)
	}

	return count, nil
}

// DeleteOlderThan удаляет занятия с датой раньше указанной, возвращает
// количество удалённых записей
func (r *SessionRepository) DeleteOlderThan(ctx context.Context, before time.Time) (int64, error) {
	query := `DELETE FROM sessions WHERE session_date < $1`

	result, err := r.pool.Exec(ctx, query, before)
	if err != nil {
		return 0, fmt.Errorf("delete old sessions: %w", err)
	}

	return result.RowsAffected(), nil
}

func scanSessions(rows pgx.Rows) ([]*model.Session, error) {
	var sessions []*model.Session
	for rows.Next() {
		var session model.Session
		err := rows.Scan(
			&session.ID,
			&session.OwnerID,
			&session.Mode,
			&session.SessionType,
			&session.Student,
			&session.Date,
			&session.StartTime,
			&session.EndTime,
			&session.CreatedAt,
			&session.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		sessions = append(sessions, &session)
	}

	// Оборвавшийся курсор не должен выглядеть как укороченный список: по нему
	// сервис проверяет пересечения
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read sessions: %w", err)
	}

	return sessions, nil
}
