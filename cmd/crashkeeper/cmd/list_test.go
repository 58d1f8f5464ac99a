package cmd

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListCommand_Empty(t *testing.T) {
	root := isolate(t)

	out, err := execute(t, "list", "--root", root)
	require.NoError(t, err)
	assert.Contains(t, out, "no crash logs in "+filepath.Join(root, "crash"))
}

func TestListCommand_NewestFirst(t *testing.T) {
	root := isolate(t)
	older := writeCrashLog(t, root, time.Date(2026, 1, 1, 9, 5, 1, 0, time.Local), "old")
	newer := writeCrashLog(t, root, time.Date(2026, 10, 17, 15, 4, 5, 0, time.Local), "new")

	out, err := execute(t, "list", "--root", root)
	require.NoError(t, err)

	iNew := strings.Index(out, filepath.Base(newer))
	iOld := strings.Index(out, filepath.Base(older))
	require.NotEqual(t, -1, iNew, out)
	require.NotEqual(t, -1, iOld, out)
	assert.Less(t, iNew, iOld)
	assert.True(t, strings.HasPrefix(out, "NAME"))
}
