package database

import (
	"fmt"
	"sort"
	"strings"
)

// Values maps column names to values. It is used both for the data of a
// mutation and for equality-only conditions, which are AND-ed together.
//
// A nil value in a condition renders as "col = NULL", which never matches.
type Values map[string]any

// Row is one result tuple, in select-column order.
type Row []any

// Statement is a SQL text with its positional ($n) arguments.
type Statement struct {
	SQL  string
	Args []any
}

// columns returns the keys of v in sorted order so generated SQL and its
// argument order are deterministic.
func (v Values) columns() []string {
	cols := make([]string, 0, len(v))
	for col := range v {
		cols = append(cols, col)
	}
	sort.Strings(cols)
	return cols
}

// assignments renders "col = $n" for every column of v, numbering from
// start, and appends the values to args.
func (v Values) assignments(start int, args []any) ([]string, []any) {
	cols := v.columns()
	parts := make([]string, len(cols))
	for i, col := range cols {
		parts[i] = fmt.Sprintf("%s = $%d", col, start+i)
		args = append(args, v[col])
	}
	return parts, args
}

// BuildInsert renders
//
//	INSERT INTO table (a, b) VALUES ($1, $2) RETURNING id
func BuildInsert(table string, data Values, idColumn string) (Statement, error) {
	if table == "" {
		return Statement{}, ErrMissingTable
	}
	if len(data) == 0 {
		return Statement{}, ErrEmptyData
	}
	if idColumn == "" {
		return Statement{}, ErrMissingIDColumn
	}

	cols := data.columns()
	marks := make([]string, len(cols))
	args := make([]any, len(cols))
	for i, col := range cols {
		marks[i] = fmt.Sprintf("$%d", i+1)
		args[i] = data[col]
	}

	sql := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) RETURNING %s",
		table, strings.Join(cols, ", "), strings.Join(marks, ", "), idColumn)
	return Statement{SQL: sql, Args: args}, nil
}

// BuildUpdate renders
//
//	UPDATE table SET a = $1, b = $2 WHERE c = $3 AND d = $4
//
// An empty condition is refused; unconditional wipes go through Truncate.
func BuildUpdate(table string, data, condition Values) (Statement, error) {
	if table == "" {
		return Statement{}, ErrMissingTable
	}
	if len(data) == 0 {
		return Statement{}, ErrEmptyData
	}
	if len(condition) == 0 {
		return Statement{}, ErrMissingCondition
	}

	set, args := data.assignments(1, make([]any, 0, len(data)+len(condition)))
	where, args := condition.assignments(len(set)+1, args)

	sql := fmt.Sprintf("UPDATE %s SET %s WHERE %s",
		table, strings.Join(set, ", "), strings.Join(where, " AND "))
	return Statement{SQL: sql, Args: args}, nil
}

// BuildDelete renders
//
//	DELETE FROM table WHERE c = $1 AND d = $2
func BuildDelete(table string, condition Values) (Statement, error) {
	if table == "" {
		return Statement{}, ErrMissingTable
	}
	if len(condition) == 0 {
		return Statement{}, ErrMissingCondition
	}

	where, args := condition.assignments(1, make([]any, 0, len(condition)))
	sql := fmt.Sprintf("DELETE FROM %s WHERE %s", table, strings.Join(where, " AND "))
	return Statement{SQL: sql, Args: args}, nil
}

// BuildSelect renders
//
//	SELECT a, b FROM table [WHERE c = $1 AND ...] [LIMIT n]
//
// No columns selects "*"; an empty condition scans the whole table; a
// non-positive limit adds no LIMIT clause.
func BuildSelect(table string, columns []string, condition Values, limit int) (Statement, error) {
	if table == "" {
		return Statement{}, ErrMissingTable
	}

	projection := "*"
	if len(columns) > 0 {
		projection = strings.Join(columns, ", ")
	}

	var b strings.Builder
	fmt.Fprintf(&b, "SELECT %s FROM %s", projection, table)

	var args []any
	if len(condition) > 0 {
		var where []string
		where, args = condition.assignments(1, make([]any, 0, len(condition)))
		b.WriteString(" WHERE ")
		b.WriteString(strings.Join(where, " AND "))
	}
	if limit > 0 {
		fmt.Fprintf(&b, " LIMIT %d", limit)
	}

	return Statement{SQL: b.String(), Args: args}, nil
}

// BuildTruncate renders
//
//	TRUNCATE TABLE table
func BuildTruncate(table string) (Statement, error) {
	if table == "" {
		return Statement{}, ErrMissingTable
	}
	return Statement{SQL: "TRUNCATE TABLE " + table}, nil
}
