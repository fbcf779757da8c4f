package flags

import (
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"
)

func TestAddToggleFlagParsesValues(t *testing.T) {
	testCases := []struct {
		name            string
		arguments       []string
		expectedValue   bool
		expectedChanged bool
	}{
		{name: "DefaultFalse", arguments: []string{}, expectedValue: false, expectedChanged: false},
		{name: "ImplicitTrue", arguments: []string{"--toggle"}, expectedValue: true, expectedChanged: true},
		{name: "ExplicitYes", arguments: []string{"--toggle", "yes"}, expectedValue: true, expectedChanged: true},
		{name: "ExplicitTrueUppercase", arguments: []string{"--toggle", "TRUE"}, expectedValue: true, expectedChanged: true},
		{name: "ExplicitNo", arguments: []string{"--toggle", "no"}, expectedValue: false, expectedChanged: true},
		{name: "ExplicitFalseUppercase", arguments: []string{"--toggle", "FALSE"}, expectedValue: false, expectedChanged: true},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			command := &cobra.Command{}

			var toggleValue bool
			AddToggleFlag(command.Flags(), &toggleValue, "toggle", false, "Toggle flag")

			normalizedArguments := NormalizeToggleArguments(testCase.arguments)
			parseError := command.ParseFlags(normalizedArguments)
			require.NoError(t, parseError)

			require.Equal(t, testCase.expectedValue, toggleValue)

			flag := command.Flags().Lookup("toggle")
			require.NotNil(t, flag)
			require.Equal(t, testCase.expectedChanged, flag.Changed)
		})
	}
}

func TestAddToggleFlagRejectsInvalidValues(t *testing.T) {
	command := &cobra.Command{}

	var toggleValue bool
	AddToggleFlag(command.Flags(), &toggleValue, "toggle", false, "Toggle flag")

	normalizedArguments := NormalizeToggleArguments([]string{"--toggle=maybe"})
	parseError := command.ParseFlags(normalizedArguments)
	require.Error(t, parseError)

	require.Equal(t, false, toggleValue)

	flag := command.Flags().Lookup("toggle")
	require.NotNil(t, flag)
	require.False(t, flag.Changed)
}

func TestResolveToggleFlagPrefersChangedFlag(t *testing.T) {
	testCases := []struct {
		name            string
		arguments       []string
		configuredValue bool
		expectedValue   bool
	}{
		{name: "ConfiguredWhenUnset", arguments: []string{}, configuredValue: false, expectedValue: false},
		{name: "FlagDisables", arguments: []string{"--fetch", "no"}, configuredValue: true, expectedValue: false},
		{name: "FlagEnables", arguments: []string{"--fetch=yes"}, configuredValue: false, expectedValue: true},
		{name: "BareFlagEnables", arguments: []string{"--fetch"}, configuredValue: false, expectedValue: true},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			command := &cobra.Command{}
			AddToggleFlag(command.Flags(), nil, "fetch", true, "Fetch before analysis")
			require.NoError(t, command.ParseFlags(NormalizeToggleArguments(testCase.arguments)))

			resolvedValue, resolveError := ResolveToggleFlag(command, "fetch", testCase.configuredValue)
			require.NoError(t, resolveError)
			require.Equal(t, testCase.expectedValue, resolvedValue)
		})
	}
}

func TestNormalizeToggleArgumentsIgnoresOtherFlags(t *testing.T) {
	command := &cobra.Command{}
	AddToggleFlag(command.Flags(), nil, "fetch", true, "Fetch before analysis")

	arguments := []string{"--remote", "no", "-f", "yes", "--fetch=no"}
	require.Equal(t, arguments, NormalizeToggleArguments(arguments))
	require.Nil(t, NormalizeToggleArguments(nil))
}

func TestNormalizeToggleArgumentsKeepsPositionalArguments(t *testing.T) {
	testCases := []struct {
		name              string
		arguments         []string
		expectedArguments []string
		expectedValue     bool
		expectedPositions []string
	}{
		{
			name:              "PathAfterToggle",
			arguments:         []string{"--fetch", "/tmp/repository"},
			expectedArguments: []string{"--fetch", "/tmp/repository"},
			expectedValue:     true,
			expectedPositions: []string{"/tmp/repository"},
		},
		{
			name:              "LiteralThenPath",
			arguments:         []string{"--fetch", "no", "/tmp/repository"},
			expectedArguments: []string{"--fetch=no", "/tmp/repository"},
			expectedValue:     false,
			expectedPositions: []string{"/tmp/repository"},
		},
		{
			name:              "TerminatorPreserved",
			arguments:         []string{"--", "--fetch", "no"},
			expectedArguments: []string{"--", "--fetch", "no"},
			expectedValue:     true,
			expectedPositions: []string{"--fetch", "no"},
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			command := &cobra.Command{}

			var toggleValue bool
			AddToggleFlag(command.Flags(), &toggleValue, "fetch", true, "Fetch before analysis")

			normalizedArguments := NormalizeToggleArguments(testCase.arguments)
			require.Equal(t, testCase.expectedArguments, normalizedArguments)

			require.NoError(t, command.ParseFlags(normalizedArguments))
			require.Equal(t, testCase.expectedValue, toggleValue)
			require.Equal(t, testCase.expectedPositions, command.Flags().Args())
		})
	}
}
