package allocation

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

func isDuplicateAllocation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" && pgErr.ConstraintName == "uq_allocation_employee_type_period"
	}

	errMsg := strings.ToLower(err.Error())
	return strings.Contains(errMsg, "duplicate key value") && strings.Contains(errMsg, "uq_allocation_employee_type_period")
}
