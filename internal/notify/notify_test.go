package notify

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hugo-lorenzo-mato/crashkeeper/internal/logging"
)

func TestNop(t *testing.T) {
	t.Parallel()
	assert.NoError(t, Nop.Notify(context.Background(), "x"))
}

func TestLogNotifier(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	n := LogNotifier{Logger: logging.New(logging.Config{Level: "info", Format: "text", Output: &buf})}
	require.NoError(t, n.Notify(context.Background(), "an unhandled error occurred"))
	assert.Contains(t, buf.String(), "level=ERROR")
	assert.Contains(t, buf.String(), "an unhandled error occurred")

	assert.ErrorIs(t, LogNotifier{}.Notify(context.Background(), "x"), ErrNoDisplay)
}

func TestFallback(t *testing.T) {
	t.Parallel()

	var got []string
	record := func(name string, err error) Notifier {
		return Func(func(_ context.Context, msg string) error {
			got = append(got, name+":"+msg)
			return err
		})
	}

	t.Run("primary succeeds", func(t *testing.T) {
		got = nil
		require.NoError(t, Fallback(record("a", nil), record("b", nil)).Notify(context.Background(), "m"))
		assert.Equal(t, []string{"a:m"}, got)
	})

	t.Run("primary fails", func(t *testing.T) {
		got = nil
		require.NoError(t, Fallback(record("a", ErrNoDisplay), record("b", nil)).Notify(context.Background(), "m"))
		assert.Equal(t, []string{"a:m", "b:m"}, got)
	})

	t.Run("both fail", func(t *testing.T) {
		got = nil
		other := errors.New("other")
		err := Fallback(record("a", ErrNoDisplay), record("b", other)).Notify(context.Background(), "m")
		assert.ErrorIs(t, err, ErrNoDisplay)
		assert.ErrorIs(t, err, other)
	})
}
