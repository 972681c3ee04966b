package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setSecrets(t *testing.T) {
	t.Helper()
	t.Setenv("ADMIN_JWT_SECRET", "test-admin-secret")
	t.Setenv("GUEST_JWT_SECRET", "test-guest-secret")
}

func TestAdminTokenRoundTrip(t *testing.T) {
	setSecrets(t)

	token, err := GenerateAdminToken()
	require.NoError(t, err)

	claims, err := VerifyAdminToken(token)
	require.NoError(t, err)
	assert.Equal(t, "admin", claims.Role)
}

func TestAdminTokenRejectsGarbage(t *testing.T) {
	setSecrets(t)

	_, err := VerifyAdminToken("not-a-jwt")
	assert.Error(t, err)
}

func TestGuestTokenScopedToEvent(t *testing.T) {
	setSecrets(t)

	token, err := GenerateGuestToken("event-1", 0)
	require.NoError(t, err)

	claims, err := VerifyGuestToken(token, "event-1", 0)
	require.NoError(t, err)
	assert.Equal(t, "guest", claims.Role)
	assert.Equal(t, "event-1", claims.EventID)

	// A token for event-1 must not open event-2.
	_, err = VerifyGuestToken(token, "event-2", 0)
	assert.Error(t, err)
}

func TestGuestTokenInvalidatedByPasswordChange(t *testing.T) {
	setSecrets(t)

	token, err := GenerateGuestToken("event-1", 0)
	require.NoError(t, err)

	_, err = VerifyGuestToken(token, "event-1", 1)
	assert.Error(t, err, "token minted before the password change is stale")
}

func TestTokenKindsAreNotInterchangeable(t *testing.T) {
	setSecrets(t)

	adminToken, err := GenerateAdminToken()
	require.NoError(t, err)
	guestToken, err := GenerateGuestToken("event-1", 0)
	require.NoError(t, err)

	_, err = VerifyGuestToken(adminToken, "event-1", 0)
	assert.Error(t, err)

	_, err = VerifyAdminToken(guestToken)
	assert.Error(t, err)
}

func TestMissingSecretFails(t *testing.T) {
	t.Setenv("ADMIN_JWT_SECRET", "")
	_, err := GenerateAdminToken()
	assert.Error(t, err)
}
