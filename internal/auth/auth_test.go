package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ---------------------------------------------------------------------------
// Password hashing
// ---------------------------------------------------------------------------

func TestHashPassword_GeneratesSalt(t *testing.T) {
	hash, salt, err := HashPassword("secret123", "")
	require.NoError(t, err)

	assert.NotEmpty(t, hash)
	assert.Len(t, salt, saltBytes*2) // hex-encoded
	assert.Len(t, hash, keyLength*2)
}

func TestHashPassword_Deterministic(t *testing.T) {
	first, salt, err := HashPassword("secret123", "")
	require.NoError(t, err)

	second, sameSalt, err := HashPassword("secret123", salt)
	require.NoError(t, err)

	assert.Equal(t, salt, sameSalt)
	assert.Equal(t, first, second)
}

func TestHashPassword_DifferentSaltsDiffer(t *testing.T) {
	first, saltA, err := HashPassword("secret123", "")
	require.NoError(t, err)
	second, saltB, err := HashPassword("secret123", "")
	require.NoError(t, err)

	assert.NotEqual(t, saltA, saltB)
	assert.NotEqual(t, first, second)
}

func TestVerifyPassword(t *testing.T) {
	hash, salt, err := HashPassword("secret123", "")
	require.NoError(t, err)

	assert.True(t, VerifyPassword("secret123", hash, salt))
	assert.False(t, VerifyPassword("wrong", hash, salt))
	assert.False(t, VerifyPassword("secret123", hash, "deadbeef"))
}

// ---------------------------------------------------------------------------
// Token service
// ---------------------------------------------------------------------------

func TestService_IssueAndResolve(t *testing.T) {
	svc := NewService(NewMemorySessionStore(), time.Hour)
	ctx := context.Background()

	token, expiresAt, err := svc.Issue(ctx, "alice")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.True(t, expiresAt.After(time.Now()))

	username, err := svc.Resolve(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, "alice", username)
}

func TestService_TokensAreUnique(t *testing.T) {
	svc := NewService(NewMemorySessionStore(), time.Hour)
	ctx := context.Background()

	first, _, err := svc.Issue(ctx, "alice")
	require.NoError(t, err)
	second, _, err := svc.Issue(ctx, "alice")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestService_ResolveUnknownToken(t *testing.T) {
	svc := NewService(NewMemorySessionStore(), time.Hour)

	_, err := svc.Resolve(context.Background(), "no-such-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestService_ResolveExpiredToken(t *testing.T) {
	store := NewMemorySessionStore()
	svc := NewService(store, -time.Minute) // already expired on issue
	ctx := context.Background()

	token, _, err := svc.Issue(ctx, "alice")
	require.NoError(t, err)

	_, err = svc.Resolve(ctx, token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	// Expired session is removed from the store
	session, err := store.GetSession(ctx, token)
	require.NoError(t, err)
	assert.Nil(t, session)
}

func TestService_Revoke(t *testing.T) {
	svc := NewService(NewMemorySessionStore(), time.Hour)
	ctx := context.Background()

	token, _, err := svc.Issue(ctx, "alice")
	require.NoError(t, err)

	require.NoError(t, svc.Revoke(ctx, token))

	_, err = svc.Resolve(ctx, token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
