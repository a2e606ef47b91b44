package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand_HasSubcommands(t *testing.T) {
	cmds := rootCmd.Commands()

	// Collect subcommand names.
	names := make(map[string]bool)
	for _, c := range cmds {
		names[c.Name()] = true
	}

	// Verify expected subcommands are registered.
	expected := []string{"clean", "flags", "build", "qc", "runs", "serve"}
	for _, name := range expected {
		assert.True(t, names[name], "expected subcommand %q not found", name)
	}
}

func TestRootCommand_Metadata(t *testing.T) {
	assert.Equal(t, "stimuli-cli", rootCmd.Use)
	assert.NotEmpty(t, rootCmd.Short)
	assert.NotEmpty(t, rootCmd.Long)
}

func TestBuildCommand_Flags(t *testing.T) {
	flag := buildCmd.Flags().Lookup("output")
	require.NotNil(t, flag, "build command should have --output flag")
	assert.Equal(t, "stimuli.csv", flag.DefValue)

	seedFlag := buildCmd.Flags().Lookup("seed")
	require.NotNil(t, seedFlag, "build command should have --seed flag")

	dryFlag := buildCmd.Flags().Lookup("dry-run")
	require.NotNil(t, dryFlag, "build command should have --dry-run flag")
}

func TestCleanCommand_Flags(t *testing.T) {
	flag := cleanCmd.Flags().Lookup("output")
	require.NotNil(t, flag, "clean command should have --output flag")
	assert.Equal(t, "catalog_clean.csv", flag.DefValue)
}

func TestServeCommand_Flags(t *testing.T) {
	flag := serveCmd.Flags().Lookup("port")
	require.NotNil(t, flag, "serve command should have --port flag")
	assert.Equal(t, "0", flag.DefValue)
}

func TestRunsCommand_HasSubcommands(t *testing.T) {
	cmds := runsCmd.Commands()
	names := make(map[string]bool)
	for _, c := range cmds {
		names[c.Name()] = true
	}

	expected := []string{"list", "show", "stats"}
	for _, name := range expected {
		assert.True(t, names[name], "expected runs subcommand %q not found", name)
	}
}
