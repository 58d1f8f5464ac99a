package cmd

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFactsCommand(t *testing.T) {
	root := isolate(t)

	out, err := execute(t, "facts", "--root", root)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "versionName=not set\nversionCode=0\nappName=crashkeeper\ncrashId="), out)
}

func TestFactsCommand_YAML(t *testing.T) {
	root := isolate(t)
	t.Setenv("CRASHKEEPER_APP_VERSION_NAME", "2.0")

	out, err := execute(t, "facts", "--yaml", "--root", root)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(out, "versionName: "), out)
	assert.Contains(t, out, "2.0")
	assert.Contains(t, out, "\nversionCode: ")
	assert.Less(t, strings.Index(out, "versionName"), strings.Index(out, "versionCode"))
}

func TestFactsCommand_InvalidConfig(t *testing.T) {
	root := isolate(t)
	t.Setenv("CRASHKEEPER_CRASH_EXIT_CODE", "0")

	_, err := execute(t, "facts", "--root", root)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "crash.exit_code")
}
