package repositories

import (
	"database/sql"
	"fmt"
)

// checkRowsAffected returns the affected-row count, wrapping driver errors.
func checkRowsAffected(result sql.Result) (int64, error) {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to check affected rows: %w", err)
	}
	return rowsAffected, nil
}
