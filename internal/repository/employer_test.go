package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/deppfellow/employer-api/internal/database"
	"github.com/deppfellow/employer-api/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubSelector struct {
	row database.Row
	err error

	table     string
	columns   []string
	condition database.Values
}

func (s *stubSelector) SelectOne(ctx context.Context, table string, columns []string, condition database.Values) (database.Row, error) {
	s.table, s.columns, s.condition = table, columns, condition
	return s.row, s.err
}

func catalog(key string) string {
	return map[string]string{"cv_employer_detail": "stg.cv_employer_detail"}[key]
}

func TestGetByID(t *testing.T) {
	db := &stubSelector{row: database.Row{"Acme", nil, []byte("Hanoi")}}
	repo := NewEmployerRepository(db, catalog)

	employer, err := repo.GetByID(context.Background(), "42")
	require.NoError(t, err)
	require.NotNil(t, employer)

	assert.Equal(t, "stg.cv_employer_detail", db.table)
	assert.Equal(t, model.EmployerColumns, db.columns)
	assert.Equal(t, database.Values{"employer_id": "42"}, db.condition)

	assert.Equal(t, "Acme", *employer.Name)
	assert.Nil(t, employer.URL)
	assert.Equal(t, "Hanoi", *employer.Location)
}

func TestGetByIDMiss(t *testing.T) {
	repo := NewEmployerRepository(&stubSelector{}, catalog)

	employer, err := repo.GetByID(context.Background(), "123")
	assert.NoError(t, err)
	assert.Nil(t, employer)
}

func TestGetByIDError(t *testing.T) {
	boom := errors.New("boom")
	repo := NewEmployerRepository(&stubSelector{err: boom}, catalog)

	employer, err := repo.GetByID(context.Background(), "1")
	assert.ErrorIs(t, err, boom)
	assert.Nil(t, employer)
}

func TestGetByIDShortRow(t *testing.T) {
	repo := NewEmployerRepository(&stubSelector{row: database.Row{"Acme"}}, catalog)

	_, err := repo.GetByID(context.Background(), "1")
	assert.Error(t, err)
}
