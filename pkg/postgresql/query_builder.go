package postgresql

import (
	"fmt"
	"strings"
)

type selectBuilder struct {
	selectCols  []string
	fromTable   string
	whereCond   []string
	whereArgs   []any
	orderByCols []string
	limitVal    *int
	offsetVal   *int
	argCounter  int
}

// NewSelectBuilder creates a new select builder
func NewSelectBuilder() SelectBuilder {
	return &selectBuilder{}
}

func (qb *selectBuilder) Select(columns ...string) SelectBuilder {
	qb.selectCols = append(qb.selectCols, columns...)
	return qb
}

func (qb *selectBuilder) From(table string) SelectBuilder {
	qb.fromTable = table
	return qb
}

// Where appends an AND condition. Each ? in condition is replaced by the next
// positional placeholder.
func (qb *selectBuilder) Where(condition string, args ...any) SelectBuilder {
	for range args {
		qb.argCounter++
		condition = strings.Replace(condition, "?", fmt.Sprintf("$%d", qb.argCounter), 1)
	}
	qb.whereCond = append(qb.whereCond, condition)
	qb.whereArgs = append(qb.whereArgs, args...)
	return qb
}

func (qb *selectBuilder) OrderBy(column string, desc ...bool) SelectBuilder {
	order := "ASC"
	if len(desc) > 0 && desc[0] {
		order = "DESC"
	}
	qb.orderByCols = append(qb.orderByCols, fmt.Sprintf("%s %s", column, order))
	return qb
}

func (qb *selectBuilder) Limit(limit int) SelectBuilder {
	qb.limitVal = &limit
	return qb
}

func (qb *selectBuilder) Offset(offset int) SelectBuilder {
	qb.offsetVal = &offset
	return qb
}

func (qb *selectBuilder) Build() (string, []any) {
	var query strings.Builder
	args := append([]any{}, qb.whereArgs...)
	argCounter := qb.argCounter

	query.WriteString("SELECT ")
	if len(qb.selectCols) == 0 {
		query.WriteString("*")
	} else {
		query.WriteString(strings.Join(qb.selectCols, ", "))
	}

	if qb.fromTable != "" {
		query.WriteString(" FROM ")
		query.WriteString(qb.fromTable)
	}

	if len(qb.whereCond) > 0 {
		query.WriteString(" WHERE ")
		query.WriteString(strings.Join(qb.whereCond, " AND "))
	}

	if len(qb.orderByCols) > 0 {
		query.WriteString(" ORDER BY ")
		query.WriteString(strings.Join(qb.orderByCols, ", "))
	}

	if qb.limitVal != nil {
		argCounter++
		query.WriteString(fmt.Sprintf(" LIMIT $%d", argCounter))
		args = append(args, *qb.limitVal)
	}

	if qb.offsetVal != nil {
		argCounter++
		query.WriteString(fmt.Sprintf(" OFFSET $%d", argCounter))
		args = append(args, *qb.offsetVal)
	}

	return query.String(), args
}
