package repository

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// Ошибки хранилища
var (
	// ErrNotFound запись с указанным идентификатором отсутствует
	ErrNotFound = errors.New("record not found")
	// ErrSlotOccupied exclusion-констрейнт отклонил запись: слот с таким же
	// категориальным ключом и пересекающимся интервалом уже существует
	ErrSlotOccupied = errors.New("slot occupied")
	// ErrDuplicate уникальный индекс отклонил запись-дубликат
	ErrDuplicate = errors.New("duplicate record")
)

// Коды SQLSTATE констрейнтов, которые переводятся в типизированные ошибки
const (
	pgExclusionViolation = "23P01"
	pgUniqueViolation    = "23505"
)

// isExclusionViolation проверяет, что postgres отклонил запись из-за
// пересечения с существующим занятием
func isExclusionViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgExclusionViolation
}

// isUniqueViolation проверяет, что postgres отклонил запись-дубликат
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}
