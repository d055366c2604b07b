package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveIdentifier_EmailPassesThroughWithoutLookup(t *testing.T) {
	env := setupTestEnv(t)

	// No such account exists; email-shaped input is returned as-is anyway.
	email, err := env.identity.ResolveIdentifier(context.Background(), "Nobody@Example.COM")
	require.NoError(t, err)
	assert.Equal(t, "nobody@example.com", email)
}

func TestResolveIdentifier_UsernameResolvesToEmail(t *testing.T) {
	env := setupTestEnv(t)
	signupWithProfile(t, env, "alice@example.com", "alice", "Alice")

	email, err := env.identity.ResolveIdentifier(context.Background(), "ALICE")
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", email)
}

func TestResolveIdentifier_UnknownUsernameMatchesUnknownEmailShape(t *testing.T) {
	env := setupTestEnv(t)

	// An unknown username yields ("", nil), the same non-answer an unknown
	// email produces at login. No way to probe which usernames exist.
	email, err := env.identity.ResolveIdentifier(context.Background(), "ghost")
	require.NoError(t, err)
	assert.Empty(t, email)
}
