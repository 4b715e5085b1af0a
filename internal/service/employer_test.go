package service

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/deppfellow/employer-api/internal/model"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

type stubFinder struct {
	employer *model.Employer
	err      error
}

func (f stubFinder) GetByID(ctx context.Context, employerID string) (*model.Employer, error) {
	return f.employer, f.err
}

func TestGetEmployerFound(t *testing.T) {
	name := "Acme"
	logger := zerolog.Nop()
	svc := NewEmployerService(stubFinder{employer: &model.Employer{Name: &name}}, &logger)

	employer := svc.GetEmployer(context.Background(), "1")
	assert.Equal(t, &name, employer.Name)
}

func TestGetEmployerSwallowsErrors(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)
	svc := NewEmployerService(stubFinder{err: errors.New("relation does not exist")}, &logger)

	assert.Nil(t, svc.GetEmployer(context.Background(), "1"))
	assert.Contains(t, buf.String(), "employer lookup failed")
	assert.Contains(t, buf.String(), "relation does not exist")
}

func TestGetEmployerMiss(t *testing.T) {
	logger := zerolog.Nop()
	svc := NewEmployerService(stubFinder{}, &logger)

	assert.Nil(t, svc.GetEmployer(context.Background(), "123"))
}
