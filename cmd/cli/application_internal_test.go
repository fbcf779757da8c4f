package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

const testCommentedConfigurationContentConstant = `{
  // local overrides
  "tools": {
    "status": {
      "remote": "mirror",
      "parallelism": 4,
    },
  },
}`

func executeInternal(t *testing.T, arguments ...string) (*Application, string) {
	t.Helper()
	application := NewApplication()
	outputBuffer := &bytes.Buffer{}
	application.rootCommand.SetOut(outputBuffer)
	application.rootCommand.SetErr(outputBuffer)
	require.NoError(t, application.ExecuteWithArguments(context.Background(), arguments))
	return application, outputBuffer.String()
}

func TestApplicationRegistersCommands(t *testing.T) {
	application := NewApplication()

	registeredNames := make([]string, 0, len(application.rootCommand.Commands()))
	for _, command := range application.rootCommand.Commands() {
		registeredNames = append(registeredNames, command.Name())
	}
	require.Contains(t, registeredNames, "upstream-configure")
	require.Contains(t, registeredNames, "branch-status")
}

func TestApplicationVersionFlag(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	_, output := executeInternal(t, "--version")
	require.Contains(t, output, "gitupstream version: ")
}

func TestApplicationConfigurationPrecedence(t *testing.T) {
	testCases := []struct {
		name                  string
		environment           map[string]string
		arguments             []string
		expectedLogLevel      string
		expectedLogFormat     string
		expectedStatusFormat  string
		expectedHumanReadable bool
	}{
		{
			name:                 "embedded_defaults",
			expectedLogLevel:     "info",
			expectedLogFormat:    "structured",
			expectedStatusFormat: "table",
		},
		{
			name:                 "environment_overrides",
			environment:          map[string]string{"GITUPSTREAM_TOOLS_STATUS_FORMAT": "csv", "GITUPSTREAM_COMMON_LOG_LEVEL": "warn"},
			expectedLogLevel:     "warn",
			expectedLogFormat:    "structured",
			expectedStatusFormat: "csv",
		},
		{
			name:                  "flags_override_environment",
			environment:           map[string]string{"GITUPSTREAM_COMMON_LOG_LEVEL": "warn"},
			arguments:             []string{"--log-level", "debug", "--log-format", "console"},
			expectedLogLevel:      "debug",
			expectedLogFormat:     "console",
			expectedStatusFormat:  "table",
			expectedHumanReadable: true,
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			t.Setenv("HOME", t.TempDir())
			for environmentName, environmentValue := range testCase.environment {
				t.Setenv(environmentName, environmentValue)
			}

			application, output := executeInternal(t, testCase.arguments...)
			require.Contains(t, output, "branch-status")
			require.Equal(t, testCase.expectedLogLevel, application.configuration.Common.LogLevel)
			require.Equal(t, testCase.expectedLogFormat, application.configuration.Common.LogFormat)
			require.Equal(t, testCase.expectedStatusFormat, application.configuration.Tools.Status.Format)
			require.Equal(t, testCase.expectedHumanReadable, application.humanReadableLoggingEnabled())
			require.NotNil(t, application.diagnosticLogger())
			require.NotNil(t, application.humanReadableLogger())
		})
	}
}

func TestApplicationLoadsCommentedJSONConfiguration(t *testing.T) {
	temporaryDirectory := t.TempDir()
	t.Setenv("HOME", temporaryDirectory)

	configurationPath := filepath.Join(temporaryDirectory, "gitupstream.jsonc")
	require.NoError(t, os.WriteFile(configurationPath, []byte(testCommentedConfigurationContentConstant), 0o600))

	application, _ := executeInternal(t, "--config", configurationPath)
	require.Equal(t, configurationPath, application.configurationMetadata.ConfigFileUsed)
	require.Equal(t, "mirror", application.configuration.Tools.Status.RemoteName)
	require.Equal(t, 4, application.configuration.Tools.Status.Parallelism)
	require.Equal(t, "upstream", application.configuration.Tools.Upstream.RemoteName)
	require.True(t, application.configuration.Tools.Status.Fetch)
}

func TestApplicationUserConfigurationDirectory(t *testing.T) {
	homeDirectory := t.TempDir()
	t.Setenv("HOME", homeDirectory)

	configurationDirectory := filepath.Join(homeDirectory, ".gitupstream")
	require.NoError(t, os.MkdirAll(configurationDirectory, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(configurationDirectory, "config.yaml"), []byte("tools:\n  upstream:\n    dry_run: true\n"), 0o600))

	application, _ := executeInternal(t)
	require.True(t, application.configuration.Tools.Upstream.DryRun)
	require.Equal(t, ".gitmodules", application.configuration.Tools.Upstream.GitmodulesPath)
}
