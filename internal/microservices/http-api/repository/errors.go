package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// ErrDuplicate is returned when an insert would break a uniqueness rule,
// whether caught by the existence check or by the unique index behind it.
var ErrDuplicate = errors.New("duplicate record")

const uniqueViolation = "23505"

func isDuplicate(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrDuplicate) || errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

func mapDuplicate(err error) error {
	if isDuplicate(err) {
		return ErrDuplicate
	}
	return err
}

// guardedInsert checks for an existing row matching query/args and inserts row
// in the same transaction. Two concurrent callers that both pass the check are
// separated by the unique index; the loser gets ErrDuplicate as well.
func guardedInsert(ctx context.Context, db *gorm.DB, model any, row any, query string, args ...any) error {
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(model).Where(query, args...).Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			return ErrDuplicate
		}
		return tx.Create(row).Error
	})
	return mapDuplicate(err)
}
