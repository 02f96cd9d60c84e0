package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"
)

// pgUniqueViolation is the PostgreSQL error code for unique_violation.
const pgUniqueViolation = "23505"

// isUniqueViolation reports whether err carries a PostgreSQL unique_violation.
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == pgUniqueViolation
}

// isNoRows reports whether err is sql.ErrNoRows.
func isNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}

// checkRowsAffected converts a zero-row update or delete into notFound.
func checkRowsAffected(result sql.Result, notFound error) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return notFound
	}
	return nil
}

// whereBuilder accumulates parameterized conditions for list queries.
type whereBuilder struct {
	conditions []string
	args       []interface{}
}

// add appends a condition; every "?" in cond is replaced with the next
// positional placeholder bound to arg.
func (w *whereBuilder) add(cond string, arg interface{}) {
	w.args = append(w.args, arg)
	w.conditions = append(w.conditions, strings.ReplaceAll(cond, "?", fmt.Sprintf("$%d", len(w.args))))
}

// clause renders the WHERE clause, or an empty string when unfiltered.
func (w *whereBuilder) clause() string {
	if len(w.conditions) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(w.conditions, " AND ")
}

// paginate appends LIMIT/OFFSET placeholders and returns the query suffix
// together with the full argument list.
func (w *whereBuilder) paginate(limit, offset int) (string, []interface{}) {
	args := append([]interface{}{}, w.args...)
	suffix := ""
	if limit > 0 {
		args = append(args, limit)
		suffix += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	if offset > 0 {
		args = append(args, offset)
		suffix += fmt.Sprintf(" OFFSET $%d", len(args))
	}
	return suffix, args
}

// likePattern wraps a search term for ILIKE and escapes wildcard characters.
func likePattern(term string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(term) + "%"
}
