package sqlerr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/deppfellow/employer-api/internal/errs"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapCode(t *testing.T) {
	assert.Equal(t, UniqueViolation, MapCode("23505"))
	assert.Equal(t, UndefinedTable, MapCode("42P01"))
	assert.Equal(t, ConnectionFailure, MapCode("08006"))
	assert.Equal(t, Other, MapCode("XX000"))
}

func TestMapSeverity(t *testing.T) {
	assert.Equal(t, SeverityFatal, MapSeverity("fatal"))
	assert.Equal(t, SeverityError, MapSeverity("something"))
}

func TestErrCodeWalksChain(t *testing.T) {
	pgErr := &pgconn.PgError{Code: "23503"}
	wrapped := fmt.Errorf("insert: %w", pgErr)

	assert.Equal(t, ForeignKeyViolation, ErrCode(wrapped))
	assert.Equal(t, ForeignKeyViolation, ErrCode(ConvertPgError(pgErr)))
	assert.Equal(t, Other, ErrCode(errors.New("boom")))
}

func TestHandleErrorUniqueViolation(t *testing.T) {
	err := HandleError(&pgconn.PgError{
		Code:           "23505",
		TableName:      "employers",
		ConstraintName: "employers_email_key",
	})

	var httpErr *errs.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusBadRequest, httpErr.Status)
	assert.Equal(t, "EMPLOYER_ALREADY_EXISTS", httpErr.Code)
	assert.Equal(t, "A Employer with this Email already exists", httpErr.Message)
}

func TestHandleErrorNotNull(t *testing.T) {
	err := HandleError(&pgconn.PgError{Code: "23502", TableName: "employers", ColumnName: "employer_name"})

	var httpErr *errs.HTTPError
	require.ErrorAs(t, err, &httpErr)
	require.Len(t, httpErr.Errors, 1)
	assert.Equal(t, "employer_name", httpErr.Errors[0].Field)
	assert.Equal(t, "The Employer Name is required", httpErr.Message)
}

func TestHandleErrorNoRows(t *testing.T) {
	var httpErr *errs.HTTPError
	require.ErrorAs(t, HandleError(pgx.ErrNoRows), &httpErr)
	assert.Equal(t, http.StatusNotFound, httpErr.Status)
}

func TestHandleErrorUnknown(t *testing.T) {
	var httpErr *errs.HTTPError
	require.ErrorAs(t, HandleError(errors.New("boom")), &httpErr)
	assert.Equal(t, http.StatusInternalServerError, httpErr.Status)
}

func TestFields(t *testing.T) {
	fields := Fields(fmt.Errorf("wrapped: %w", &pgconn.PgError{
		Code:           "23505",
		Severity:       "ERROR",
		TableName:      "t",
		ConstraintName: "t_a_key",
	}))

	assert.Equal(t, "unique_violation", fields["sql_code"])
	assert.Equal(t, "23505", fields["sqlstate"])
	assert.Equal(t, "t_a_key", fields["constraint"])
	assert.NotContains(t, fields, "column")

	assert.Equal(t, map[string]any{"sql_code": "other"}, Fields(errors.New("boom")))
}

func TestExtractColumnForUniqueViolation(t *testing.T) {
	assert.Equal(t, "email", extractColumnForUniqueViolation("unique_users_email"))
	assert.Equal(t, "email", extractColumnForUniqueViolation("users_email_key"))
	assert.Equal(t, "", extractColumnForUniqueViolation("pk_users"))
}
