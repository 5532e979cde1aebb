package repositories

import (
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// Store errors returned by every repository in place of driver errors.
var (
	ErrNotFound   = errors.New("record not found")
	ErrDuplicate  = errors.New("duplicate entry")
	ErrReferenced = errors.New("record is still referenced")

	// ErrMissingReference is an insert or update naming a parent row that does not exist.
	ErrMissingReference = errors.New("referenced record does not exist")
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// translateError maps gorm and Postgres failures onto the store errors. The
// violated constraint name is kept in the message. Postgres words a foreign key
// failure on the child side as "insert or update on table ..." and on the
// parent side as "update or delete on table ...".
func translateError(err error, op string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return errors.Wrap(ErrDuplicate, pgErr.ConstraintName)
		case pgForeignKeyViolation:
			if strings.HasPrefix(pgErr.Message, "insert or update") {
				return errors.Wrap(ErrMissingReference, pgErr.ConstraintName)
			}
			return errors.Wrap(ErrReferenced, pgErr.ConstraintName)
		}
	}
	return errors.Wrap(err, op)
}
