package auth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTenantKeyRoundTrip(t *testing.T) {
	t.Setenv("API_MASTER_SECRET", "unit-test-secret")

	key := GenerateTenantKey("acme")
	parts := strings.Split(key, ".")
	require.Len(t, parts, 3)
	assert.Equal(t, "acme", parts[0])

	slug, err := VerifyTenantKey(key)
	require.NoError(t, err)
	assert.Equal(t, "acme", slug)
}

func TestTenantKeyDistinctPerCall(t *testing.T) {
	t.Setenv("API_MASTER_SECRET", "unit-test-secret")

	// The nonce lets one tenant hold several independent keys.
	assert.NotEqual(t, GenerateTenantKey("acme"), GenerateTenantKey("acme"))
}

func TestVerifyTenantKeyRejectsTampering(t *testing.T) {
	t.Setenv("API_MASTER_SECRET", "unit-test-secret")

	key := GenerateTenantKey("acme")

	_, err := VerifyTenantKey(key + "x")
	assert.Error(t, err)

	// Swapping the slug invalidates the signature.
	parts := strings.Split(key, ".")
	forged := "rival." + parts[1] + "." + parts[2]
	_, err = VerifyTenantKey(forged)
	assert.Error(t, err)

	_, err = VerifyTenantKey("not-a-key")
	assert.Error(t, err)
}

func TestVerifyTenantKeyRejectsForeignSecret(t *testing.T) {
	t.Setenv("API_MASTER_SECRET", "unit-test-secret")
	key := GenerateTenantKey("acme")

	t.Setenv("API_MASTER_SECRET", "rotated-secret")
	_, err := VerifyTenantKey(key)
	assert.Error(t, err)
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("s3cret")
	require.NoError(t, err)
	assert.True(t, CheckPasswordHash("s3cret", hash))
	assert.False(t, CheckPasswordHash("wrong", hash))
}

func TestTokenRoundTrip(t *testing.T) {
	token, err := CreateToken("admin")
	require.NoError(t, err)

	claims, err := VerifyToken(token)
	require.NoError(t, err)
	assert.Equal(t, "admin", claims.Username)

	_, err = VerifyToken(token + "x")
	assert.Error(t, err)
}
