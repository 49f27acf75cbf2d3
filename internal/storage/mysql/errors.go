package mysql

import (
	"context"
	"errors"

	gomysql "github.com/go-sql-driver/mysql"

	"contoso_hotel/internal/domain"
)

// MySQL error numbers
// Full list: https://dev.mysql.com/doc/mysql-errors/8.0/en/server-error-reference.html
const (
	errDataTooLong      = 1406
	errDuplicateEntry   = 1062
	errNoReferencedRow  = 1216
	errNoReferencedRow2 = 1452
	errSignalException  = 1644
	errCheckViolated    = 3819
)

// mapError translates driver errors into *domain.Error. Constraint failures
// that map to a known rule keep their domain kind; the rest are store errors.
func mapError(err error, msg string) error {
	if err == nil {
		return nil
	}

	var de *domain.Error
	if errors.As(err, &de) {
		return err
	}

	var myErr *gomysql.MySQLError
	if errors.As(err, &myErr) {
		switch myErr.Number {
		case errDuplicateEntry:
			return &domain.Error{Kind: domain.ErrKindAlreadyExists, Message: msg, Cause: err}
		case errNoReferencedRow, errNoReferencedRow2:
			return &domain.Error{Kind: domain.ErrKindNotFound, Message: msg, Cause: err}
		case errSignalException, errCheckViolated, errDataTooLong:
			return &domain.Error{Kind: domain.ErrKindValidation, Message: msg, Cause: err}
		}
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return domain.Store(msg+": canceled", err)
	}
	return domain.Store(msg, err)
}
