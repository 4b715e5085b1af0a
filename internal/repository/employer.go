package repository

import (
	"context"
	"fmt"

	"github.com/deppfellow/employer-api/internal/database"
	"github.com/deppfellow/employer-api/internal/model"
)

// RowSelector is the part of *database.Helper the repository reads with.
type RowSelector interface {
	SelectOne(ctx context.Context, table string, columns []string, condition database.Values) (database.Row, error)
}

type EmployerRepository struct {
	db    RowSelector
	table string
}

// NewEmployerRepository resolves the employer detail table through
// tableName, normally config.DatabaseConfig.Table.
func NewEmployerRepository(db RowSelector, tableName func(key string) string) *EmployerRepository {
	return &EmployerRepository{
		db:    db,
		table: tableName(model.EmployerDetailTable),
	}
}

// GetByID returns the employer with employerID, or nil when none exists.
func (r *EmployerRepository) GetByID(ctx context.Context, employerID string) (*model.Employer, error) {
	row, err := r.db.SelectOne(ctx, r.table, model.EmployerColumns, database.Values{
		"employer_id": employerID,
	})
	if err != nil || row == nil {
		return nil, err
	}

	if len(row) != len(model.EmployerColumns) {
		return nil, fmt.Errorf("employer row has %d columns, want %d", len(row), len(model.EmployerColumns))
	}

	return &model.Employer{
		Name:     text(row[0]),
		URL:      text(row[1]),
		Location: text(row[2]),
	}, nil
}

// text renders a column value as a string pointer; SQL NULL is nil.
func text(v any) *string {
	switch v := v.(type) {
	case nil:
		return nil
	case string:
		return &v
	case []byte:
		s := string(v)
		return &s
	default:
		s := fmt.Sprint(v)
		return &s
	}
}
