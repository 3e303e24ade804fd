package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndValidate(t *testing.T) {
	svc := New("secret-a", time.Hour, KindUserAccess)

	token, err := svc.GenerateToken(42, Identity{PhoneNumber: "08012345678", UserType: "MEMBER"})
	require.NoError(t, err)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.EqualValues(t, 42, claims.SubjectID)
	assert.Equal(t, "08012345678", claims.PhoneNumber)
	assert.Equal(t, KindUserAccess, claims.Kind)
}

func TestValidateRejectsOtherNamespace(t *testing.T) {
	// Same secret on purpose; the kind claim alone must keep them apart.
	access := New("shared-secret", time.Hour, KindUserAccess)
	refresh := New("shared-secret", time.Hour, KindUserRefresh)

	token, err := access.GenerateToken(1, Identity{})
	require.NoError(t, err)

	_, err = refresh.ValidateToken(token)
	assert.Error(t, err)
}

func TestValidateRejectsExpired(t *testing.T) {
	svc := New("secret-b", -time.Minute, KindAdmin)

	token, err := svc.GenerateToken(1, Identity{Username: "root", Role: "SUPER_ADMIN"})
	require.NoError(t, err)

	_, err = svc.ValidateToken(token)
	assert.Error(t, err)
}

func TestTokensMintedTogetherDiffer(t *testing.T) {
	svc := New("secret-c", time.Hour, KindUserRefresh)

	a, err := svc.GenerateToken(1, Identity{})
	require.NoError(t, err)
	b, err := svc.GenerateToken(1, Identity{})
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
	assert.NotEqual(t, HashToken(a), HashToken(b))
}
