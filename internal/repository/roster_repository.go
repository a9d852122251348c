package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Freeeeeet/studio_bot/internal/model"
)

type RosterRepository struct {
	pool *pgxpool.Pool
}

func NewRosterRepository(pool *pgxpool.Pool) *RosterRepository {
	return &RosterRepository{pool: pool}
}

// Create добавляет ученика в список студии. Дубликат связки (имя, режим,
// тип занятия) отклоняется уникальным индексом и возвращается как ErrDuplicate
func (r *RosterRepository) Create(ctx context.Context, entry *model.RosterEntry) error {
	query := `
		INSERT INTO roster_students (student_id, mode, student_name, session_type)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at
	`

	err := r.pool.QueryRow(
		ctx, query,
		entry.StudentID,
		entry.Mode,
		entry.StudentName,
		entry.SessionType,
	).Scan(&entry.CreatedAt)

	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("create roster entry: %w", err)
	}

	return nil
}

// List получает учеников с необязательным фильтром по режиму и типу занятия
func (r *RosterRepository) List(ctx context.Context, filter model.RosterFilter) ([]*model.RosterEntry, error) {
	query := `
		SELECT student_id, mode, student_name, session_type, created_at
		FROM roster_students
		WHERE ($1::text IS NULL OR mode = $1)
		  AND ($2::text IS NULL OR session_type = $2)
		ORDER BY student_name
	`

	rows, err := r.pool.Query(ctx, query, filter.Mode, filter.SessionType)
	if err != nil {
		return nil, fmt.Errorf("list roster entries: %w", err)
	}
	defer rows.Close()

	return scanRosterEntries(rows)
}

func scanRosterEntries(rows pgx.Rows) ([]*model.RosterEntry, error) {
	var entries []*model.RosterEntry
	for rows.Next() {
		var entry model.RosterEntry
		err := rows.Scan(
			&entry.StudentID,
			&entry.Mode,
			&entry.StudentName,
			&entry.SessionType,
			&entry.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan roster entry: %w", err)
		}
		entries = append(entries, &entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read roster entries: %w", err)
	}

	return entries, nil
}

// ExistsDuplicate проверяет наличие ученика с тем же именем (без учёта
// регистра), режимом и типом занятия
func (r *RosterRepository) ExistsDuplicate(ctx context.Context, studentName string, mode model.Mode, sessionType string) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM roster_students
			WHERE LOWER(student_name) = LOWER($1) AND mode = $2 AND session_type = $3
		)
	`

	var exists bool
	err := r.pool.QueryRow(ctx, query, studentName, mode, sessionType).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check roster duplicate: %w", err)
	}

	return exists, nil
}

// Delete удаляет ученика из списка
func (r *RosterRepository) Delete(ctx context.Context, studentID string) error {
	query := `DELETE FROM roster_students WHERE student_id = $1`

	result, err := r.pool.Exec(ctx, query, studentID)
	if err != nil {
		return fmt.Errorf("delete roster entry: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}
