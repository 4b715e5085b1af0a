package validation

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/deppfellow/employer-api/internal/errs"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type lookupRequest struct {
	ID    string `param:"id" validate:"required,max=4"`
	Limit int    `query:"limit" validate:"min=1"`
}

func (r *lookupRequest) Validate() error {
	return Struct(r)
}

type customRequest struct{}

func (r *customRequest) Validate() error {
	return CustomValidationErrors{{Field: "window", Message: "must end after it starts"}}
}

func newContext(target string, params ...string) echo.Context {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	c := e.NewContext(req, httptest.NewRecorder())
	if len(params) == 2 {
		c.SetParamNames(params[0])
		c.SetParamValues(params[1])
	}
	return c
}

func TestBindAndValidate(t *testing.T) {
	req := &lookupRequest{}
	err := BindAndValidate(newContext("/x/ab?limit=3", "id", "ab"), req)
	require.NoError(t, err)
	assert.Equal(t, "ab", req.ID)
	assert.Equal(t, 3, req.Limit)
}

func TestBindAndValidateFieldErrors(t *testing.T) {
	err := BindAndValidate(newContext("/x/abcdef?limit=0", "id", "abcdef"), &lookupRequest{})

	var httpErr *errs.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusBadRequest, httpErr.Status)
	assert.True(t, httpErr.Override)
	assert.ElementsMatch(t, []errs.FieldError{
		{Field: "id", Error: "must not exceed 4 characters"},
		{Field: "limit", Error: "must be at least 1"},
	}, httpErr.Errors)
}

func TestBindAndValidateBindFailure(t *testing.T) {
	err := BindAndValidate(newContext("/x/ab?limit=many", "id", "ab"), &lookupRequest{})

	var httpErr *errs.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusBadRequest, httpErr.Status)
	assert.Empty(t, httpErr.Errors)
	assert.NotEmpty(t, httpErr.Message)
}

func TestCustomValidationErrors(t *testing.T) {
	err := BindAndValidate(newContext("/"), &customRequest{})

	var httpErr *errs.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, []errs.FieldError{{Field: "window", Error: "must end after it starts"}}, httpErr.Errors)
}
