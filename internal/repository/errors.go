package repository

import (
	"errors"

	"github.com/go-sql-driver/mysql"

	appErrors "github.com/noticehub/notice-board-api/pkg/errors"
)

// MySQL error numbers that indicate a violated constraint rather than a
// connectivity problem.
const (
	mysqlErrDuplicateEntry  = 1062
	mysqlErrRowIsReferenced = 1451
	mysqlErrNoReferencedRow = 1452
)

// wrapDBError classifies a driver error into the constraint/connectivity
// taxonomy and surfaces it unmodified underneath.
func wrapDBError(err error, message string) error {
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		switch myErr.Number {
		case mysqlErrDuplicateEntry, mysqlErrRowIsReferenced, mysqlErrNoReferencedRow:
			return appErrors.Wrap(err, appErrors.ErrConstraint.Code, appErrors.ErrConstraint.Status, message)
		}
	}
	return appErrors.Wrap(err, appErrors.ErrConnectivity.Code, appErrors.ErrConnectivity.Status, message)
}
