package database

import (
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterMetrics(t *testing.T) {
	pool := newTestPool(t, unreachableDatabase())
	reg := prometheus.NewRegistry()

	require.NoError(t, RegisterMetrics(reg, pool))

	expected := `
# HELP employer_api_db_pool_max_conns Configured maximum pool size.
# TYPE employer_api_db_pool_max_conns gauge
employer_api_db_pool_max_conns 2
# HELP employer_api_db_pool_acquired_conns Connections currently borrowed.
# TYPE employer_api_db_pool_acquired_conns gauge
employer_api_db_pool_acquired_conns 0
`
	err := testutil.GatherAndCompare(reg, strings.NewReader(expected),
		"employer_api_db_pool_max_conns",
		"employer_api_db_pool_acquired_conns",
	)
	assert.NoError(t, err)

	// a second registration of the same pool collides
	assert.Error(t, RegisterMetrics(reg, pool))
}
