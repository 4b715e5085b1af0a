package errs

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConstructors(t *testing.T) {
	assert.Equal(t, "BAD_REQUEST", NewBadRequestError("x", false, nil, nil, nil).Code)

	code := "EMPLOYER_NOT_FOUND"
	notFound := NewNotFoundError("missing", true, &code)
	assert.Equal(t, http.StatusNotFound, notFound.Status)
	assert.Equal(t, code, notFound.Code)

	tooMany := NewTooManyRequestsError("slow down")
	assert.Equal(t, "TOO_MANY_REQUESTS", tooMany.Code)
	assert.Equal(t, ActionTypeRetry, tooMany.Action.Type)

	assert.Equal(t, "SERVICE_UNAVAILABLE", NewServiceUnavailableError("db down").Code)
	assert.Equal(t, "Internal Server Error", NewInternalServerError().Message)
}

func TestWithMessageCopies(t *testing.T) {
	base := NewNotFoundError("a", false, nil)
	changed := base.WithMessage("b")

	assert.Equal(t, "a", base.Message)
	assert.Equal(t, "b", changed.Message)
	assert.Equal(t, base.Status, changed.Status)
}

func TestIsMatchesAnyHTTPError(t *testing.T) {
	err := fmt.Errorf("wrapped: %w", NewInternalServerError())
	assert.True(t, errors.Is(err, &HTTPError{}))
	assert.False(t, errors.Is(errors.New("plain"), &HTTPError{}))
}
