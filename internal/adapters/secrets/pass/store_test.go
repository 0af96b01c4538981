package pass

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStorePutInsertsUnderPrefix(t *testing.T) {
	t.Parallel()

	called := false
	store := NewStore("")
	store.run = func(ctx context.Context, input string, args ...string) (string, string, error) {
		called = true
		assert.Equal(t, []string{"insert", "-m", "-f", "jobgate/acct-1/token"}, args)
		assert.Equal(t, "tok\n", input)
		return "", "", nil
	}

	require.NoError(t, store.Put(context.Background(), "jobgate://acct-1/token", "tok"))
	assert.True(t, called)
}

func TestStoreGetReturnsFirstLine(t *testing.T) {
	t.Parallel()

	store := NewStore("work/jobs/")
	store.run = func(ctx context.Context, input string, args ...string) (string, string, error) {
		assert.Equal(t, []string{"show", "work/jobs/acct-1/token"}, args)
		assert.Empty(t, input)
		return "tok\r\nnote: rotated monthly\n", "", nil
	}

	value, err := store.Get(context.Background(), "jobgate://acct-1/token")
	require.NoError(t, err)
	assert.Equal(t, "tok", value)
}

func TestStoreGetMissingEntry(t *testing.T) {
	t.Parallel()

	store := NewStore("")
	store.run = func(ctx context.Context, input string, args ...string) (string, string, error) {
		return "", "Error: jobgate/acct-1/token is not in the password store.", errors.New("exit status 1")
	}

	_, err := store.Get(context.Background(), "jobgate://acct-1/token")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestStoreGetReturnsClearError(t *testing.T) {
	t.Parallel()

	store := NewStore("")
	store.run = func(ctx context.Context, input string, args ...string) (string, string, error) {
		return "", "gpg: decryption failed: No secret key", errors.New("exit status 2")
	}

	_, err := store.Get(context.Background(), "jobgate://acct-1/token")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
	assert.ErrorContains(t, err, "pass get")
	assert.ErrorContains(t, err, "jobgate/acct-1/token")
	assert.ErrorContains(t, err, "No secret key")
}

func TestStoreDeleteIgnoresMissingEntry(t *testing.T) {
	t.Parallel()

	store := NewStore("")
	store.run = func(ctx context.Context, input string, args ...string) (string, string, error) {
		assert.Equal(t, []string{"rm", "-f", "jobgate/acct-1/token"}, args)
		return "", "Error: jobgate/acct-1/token is not in the password store.", errors.New("exit status 1")
	}

	require.NoError(t, store.Delete(context.Background(), "jobgate://acct-1/token"))
}

func TestStoreRejectsTraversal(t *testing.T) {
	t.Parallel()

	store := NewStore("")
	store.run = func(context.Context, string, ...string) (string, string, error) {
		t.Fatal("pass must not be invoked")
		return "", "", nil
	}

	for _, key := range []string{"", "jobgate://", "jobgate://../other", "a//b"} {
		_, err := store.Get(context.Background(), key)
		assert.Error(t, err, key)
	}
}
