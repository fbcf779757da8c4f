package flags

import (
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"
)

func TestResolveExecutionFlags(t *testing.T) {
	testCases := []struct {
		name           string
		arguments      []string
		expectedDryRun bool
		expectedSet    bool
	}{
		{name: "Unset", arguments: []string{}, expectedDryRun: false, expectedSet: false},
		{name: "Enabled", arguments: []string{"--dry-run"}, expectedDryRun: true, expectedSet: true},
		{name: "ExplicitFalse", arguments: []string{"--dry-run=false"}, expectedDryRun: false, expectedSet: true},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			command := &cobra.Command{}
			BindExecutionFlags(command, ExecutionDefaults{}, ExecutionFlagDefinitions{
				DryRun: ExecutionFlagDefinition{Name: DryRunFlagName, Usage: DryRunFlagUsage, Enabled: true},
			})
			require.NoError(t, command.ParseFlags(testCase.arguments))

			executionFlags, available := ResolveExecutionFlags(command)
			require.True(t, available)
			require.Equal(t, testCase.expectedDryRun, executionFlags.DryRun)
			require.Equal(t, testCase.expectedSet, executionFlags.DryRunSet)
		})
	}
}

func TestResolveExecutionFlagsWithoutBinding(t *testing.T) {
	_, available := ResolveExecutionFlags(&cobra.Command{})
	require.False(t, available)
}
