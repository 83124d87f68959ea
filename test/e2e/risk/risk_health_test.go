package risk_test

import (
	"testing"

	"github.com/aussiebroadwan/riskregister/pkg/risksdk"
	"github.com/stretchr/testify/require"
)

func TestLivezEndpoint(t *testing.T) {
	baseURL, cleanup := setupContainer(t)
	defer cleanup()

	health, err := risksdk.NewClient(baseURL).GetLiveness(t.Context())
	assertHealthy(t, health, err)
}

// TestReadyzEndpoint checks the container reports both the database and
// signing secrets as ready.
func TestReadyzEndpoint(t *testing.T) {
	baseURL, cleanup := setupContainer(t)
	defer cleanup()

	health, err := risksdk.NewClient(baseURL).GetReadiness(t.Context())
	assertHealthy(t, health, err)
	require.NotNil(t, health.Checks)
	require.Equal(t, "ok", health.Checks.Database)
	require.Equal(t, "ok", health.Checks.Secrets)
}
