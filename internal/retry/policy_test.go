package retry

import (
	"context"
	"errors"
	"io/fs"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

var errFlaky = errors.New("device busy")

func TestPolicy_Do_RetriesTransientOnce(t *testing.T) {
	t.Parallel()

	calls := 0
	err := Policy{MaxRetries: 1, Backoff: time.Millisecond}.Do(context.Background(), func() error {
		calls++
		if calls == 1 {
			return errFlaky
		}
		return nil
	})

	require.NoError(t, err)
	require.Equal(t, 2, calls)
}

func TestPolicy_Do_GivesUpAfterMaxRetries(t *testing.T) {
	t.Parallel()

	calls := 0
	err := Policy{MaxRetries: 1}.Do(context.Background(), func() error {
		calls++
		return errFlaky
	})

	require.ErrorIs(t, err, errFlaky)
	require.Equal(t, 2, calls)
}

func TestPolicy_Do_PermanentErrorNotRetried(t *testing.T) {
	t.Parallel()

	calls := 0
	err := DefaultPolicy().Do(context.Background(), func() error {
		calls++
		return &fs.PathError{Op: "open", Path: "post.md", Err: fs.ErrNotExist}
	})

	require.ErrorIs(t, err, fs.ErrNotExist)
	require.Equal(t, 1, calls)
}

func TestPolicy_Do_NoRetry(t *testing.T) {
	t.Parallel()

	calls := 0
	err := NoRetry().Do(context.Background(), func() error {
		calls++
		return errFlaky
	})

	require.ErrorIs(t, err, errFlaky)
	require.Equal(t, 1, calls)
}

func TestPolicy_Do_CanceledDuringBackoff(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := Policy{MaxRetries: 3, Backoff: time.Hour}.Do(ctx, func() error { return errFlaky })

	require.ErrorIs(t, err, errFlaky)
	require.ErrorIs(t, err, context.Canceled)
}

func TestIsTransient(t *testing.T) {
	t.Parallel()

	require.False(t, IsTransient(nil))
	require.False(t, IsTransient(fs.ErrPermission))
	require.False(t, IsTransient(context.Canceled))
	require.True(t, IsTransient(errFlaky))
}
