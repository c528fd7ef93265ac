package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kalaghar/config"
	"kalaghar/internal/domain/entity"
)

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.SecretKey.Access = "test-secret"
	cfg.Auth = &config.AuthConfig{
		BcryptCost:     4, // minimum cost keeps the test fast
		AccessTokenTTL: time.Hour,
	}

	return cfg
}

func TestBcryptHasherRoundTrip(t *testing.T) {
	t.Parallel()

	hasher := NewBcryptHasher(testConfig())

	hash, err := hasher.Hash("s3cret-pass")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret-pass", hash)

	assert.NoError(t, hasher.Compare(hash, "s3cret-pass"))
	assert.Error(t, hasher.Compare(hash, "wrong-pass"))
}

func TestJWTServiceRoundTrip(t *testing.T) {
	t.Parallel()

	svc, err := NewJWTService(testConfig())
	require.NoError(t, err)

	userID := uuid.New()
	token, err := svc.GenerateAccessToken(userID, entity.RoleArtisan)
	require.NoError(t, err)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, entity.RoleArtisan, claims.Role)
}

func TestJWTServiceRejectsTampered(t *testing.T) {
	t.Parallel()

	svc, err := NewJWTService(testConfig())
	require.NoError(t, err)

	token, err := svc.GenerateAccessToken(uuid.New(), entity.RoleBuyer)
	require.NoError(t, err)

	_, err = svc.ValidateToken(token + "x")
	assert.Error(t, err)

	otherCfg := testConfig()
	otherCfg.SecretKey.Access = "other-secret"
	other, err := NewJWTService(otherCfg)
	require.NoError(t, err)

	_, err = other.ValidateToken(token)
	assert.Error(t, err)
}

func TestJWTServiceRequiresSecret(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	cfg.SecretKey.Access = ""

	_, err := NewJWTService(cfg)
	assert.Error(t, err)
}
