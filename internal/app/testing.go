//go:build unit
// +build unit

package app

import (
	"testing"

	"github.com/MGTheTrain/pkey-rsa/internal/domain/pkey"
	"github.com/MGTheTrain/pkey-rsa/internal/pkg/testutil"

	"github.com/stretchr/testify/require"
)

// SetupTestService builds the default RSAKeyService for tests
func SetupTestService(t *testing.T) pkey.RSAKeyService {
	t.Helper()

	logger := testutil.SetupTestLogger(t)

	service, err := NewDefaultRSAKeyService(logger)
	require.NoError(t, err, "Failed to create RSAKeyService")

	return service
}
