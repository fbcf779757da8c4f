package flags

import "github.com/spf13/cobra"

const (
	// RemoteFlagName exposes the shared remote flag name.
	RemoteFlagName = "remote"
	// RemoteFlagUsage describes the shared remote flag purpose.
	RemoteFlagUsage = "Remote name to target"
	// BranchPatternFlagName exposes the branch glob flag name.
	BranchPatternFlagName = "branch"
	// BranchPatternFlagUsage describes the branch glob flag purpose.
	BranchPatternFlagUsage = "Branch glob to include, * matches any sequence"
)

// BranchPatternFlagDefinition captures configuration for the branch glob flag.
type BranchPatternFlagDefinition struct {
	Name    string
	Usage   string
	Enabled bool
}

// BranchPatternFlagValues stores branch glob flag values.
type BranchPatternFlagValues struct {
	Pattern string
}

// BindBranchPatternFlag attaches the branch glob flag to the provided command.
func BindBranchPatternFlag(command *cobra.Command, defaults BranchPatternFlagValues, definition BranchPatternFlagDefinition) *BranchPatternFlagValues {
	values := defaults
	if command == nil || !definition.Enabled {
		return &values
	}

	flagName := definition.Name
	if len(flagName) == 0 {
		flagName = BranchPatternFlagName
	}
	flagUsage := definition.Usage
	if len(flagUsage) == 0 {
		flagUsage = BranchPatternFlagUsage
	}

	if command.Flags().Lookup(flagName) == nil {
		command.Flags().StringVar(&values.Pattern, flagName, defaults.Pattern, flagUsage)
	}
	return &values
}

// EnsureRemoteFlag guarantees the shared remote flag is available on the command.
func EnsureRemoteFlag(command *cobra.Command, defaultValue string, usage string) {
	if command == nil {
		return
	}

	persistentSet := command.PersistentFlags()
	if persistentSet.Lookup(RemoteFlagName) == nil {
		persistentSet.String(RemoteFlagName, defaultValue, usage)
	}

	if command.Flags().Lookup(RemoteFlagName) == nil {
		if remoteFlag := persistentSet.Lookup(RemoteFlagName); remoteFlag != nil {
			command.Flags().AddFlag(remoteFlag)
		}
	}
}

// ResolveRemoteFlag returns the remote flag value when the user set it explicitly.
func ResolveRemoteFlag(command *cobra.Command) (string, bool) {
	if command == nil {
		return "", false
	}
	remoteFlag := command.Flags().Lookup(RemoteFlagName)
	if remoteFlag == nil || !remoteFlag.Changed {
		return "", false
	}
	return remoteFlag.Value.String(), true
}
