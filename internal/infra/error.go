package infra

import (
	"errors"
	"fmt"

	"reserva-api/internal/pkg/pgconv"

	"github.com/jackc/pgx/v5/pgconn"
)

type ErrKind string

const (
	KindNotFound     ErrKind = "not_found"
	KindDuplicateKey ErrKind = "duplicate_key"
	KindConflict     ErrKind = "conflict"
	KindForeignKey   ErrKind = "foreign_key"
	KindUnknown      ErrKind = "unknown"
)

// pgErrCodes maps PostgreSQL error codes to repository error kinds.
// 23P01 is exclusion_violation, raised by the booking overlap constraint.
var pgErrCodes = map[string]ErrKind{
	"23505": KindDuplicateKey,
	"23P01": KindConflict,
	"23503": KindForeignKey,
}

type RepositoryError struct {
	Msg  string
	Kind ErrKind
	Err  error
}

func (e *RepositoryError) Error() string {
	return fmt.Sprintf("%s (%s): %v", e.Msg, e.Kind, e.Err)
}

func (e *RepositoryError) Unwrap() error {
	return e.Err
}

// WrapRepoErr classifies err into a RepositoryError. An explicit kind wins;
// otherwise no-rows results become KindNotFound, recognized PostgreSQL codes
// get their mapped kind, and everything else is KindUnknown.
func WrapRepoErr(msg string, err error, kinds ...ErrKind) error {
	if err == nil {
		return nil
	}
	kind := classify(err)
	if len(kinds) > 0 {
		kind = kinds[0]
	}
	return &RepositoryError{Msg: msg, Kind: kind, Err: err}
}

func classify(err error) ErrKind {
	if pgconv.IsNoRows(err) {
		return KindNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if kind, ok := pgErrCodes[pgErr.Code]; ok {
			return kind
		}
	}
	return KindUnknown
}

func IsKind(err error, kind ErrKind) bool {
	var repoErr *RepositoryError
	if errors.As(err, &repoErr) {
		return repoErr.Kind == kind
	}
	return false
}
