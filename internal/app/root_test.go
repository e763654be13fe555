package app

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand_Configuration(t *testing.T) {
	assert.Equal(t, "depdoctor", RootCmd.Use)
	assert.NotEmpty(t, RootCmd.Short)
	assert.NotEmpty(t, RootCmd.Long)
	assert.True(t, RootCmd.SilenceUsage)
	assert.True(t, RootCmd.SilenceErrors)
	assert.Equal(t, 2, RootCmd.SuggestionsMinimumDistance)
}

func TestRootCommand_SubcommandsRegistered(t *testing.T) {
	registered := map[string]bool{}
	for _, cmd := range RootCmd.Commands() {
		registered[cmd.Name()] = true
	}

	for _, name := range []string{"summary", "fix", "unused", "outdated", "score", "history", "watch"} {
		assert.True(t, registered[name], "command %q not registered", name)
	}
}

func TestRootCommand_PersistentFlags(t *testing.T) {
	for _, name := range []string{"dir", "timeout", "verbose", "db"} {
		flag := RootCmd.PersistentFlags().Lookup(name)
		require.NotNil(t, flag, "flag --%s not registered", name)
		assert.NotEmpty(t, flag.Usage, "flag --%s has no usage text", name)
	}
}

func TestGetDBPath_FlagOverride(t *testing.T) {
	old := flagDBPath
	flagDBPath = "/tmp/custom.db"
	defer func() { flagDBPath = old }()

	path, err := getDBPath()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/custom.db", path)
}

func TestGetDBPath_Default(t *testing.T) {
	old := flagDBPath
	flagDBPath = ""
	defer func() { flagDBPath = old }()

	path, err := getDBPath()
	require.NoError(t, err)

	home, err := os.UserHomeDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".depdoctor", "depdoctor.db"), path)
	assert.DirExists(t, filepath.Dir(path))
}
