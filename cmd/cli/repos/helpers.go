package repos

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/gitupstream/internal/execshell"
	"github.com/temirov/gitupstream/internal/ui"
	pathutils "github.com/temirov/gitupstream/internal/utils/path"
)

const (
	verboseFlagNameConstant  = "verbose"
	verboseFlagUsageConstant = "Narrate every git command on stderr"
)

var repositoryHomeDirectoryExpander = pathutils.NewHomeExpander()

// LoggerProvider yields a zap logger for command execution.
type LoggerProvider func() *zap.Logger

func resolveLogger(provider LoggerProvider) *zap.Logger {
	if provider == nil {
		return zap.NewNop()
	}
	logger := provider()
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}

// resolveCommandObservers narrates git commands on the console logger when human-readable output is requested.
func resolveCommandObservers(consoleLoggerProvider LoggerProvider, humanReadable bool) []execshell.CommandEventObserver {
	if !humanReadable {
		return nil
	}
	return []execshell.CommandEventObserver{ui.NewConsoleCommandEventLogger(resolveLogger(consoleLoggerProvider))}
}

func humanReadableLoggingEnabled(provider func() bool) bool {
	if provider == nil {
		return false
	}
	return provider()
}

func resolvePathArgument(arguments []string, configuredPath string) string {
	candidatePath := ""
	if len(arguments) > 0 {
		candidatePath = arguments[0]
	}
	return repositoryHomeDirectoryExpander.ExpandOrDefault(candidatePath, configuredPath)
}

func bindVerboseFlag(command *cobra.Command) {
	command.Flags().Bool(verboseFlagNameConstant, false, verboseFlagUsageConstant)
}

func verboseRequested(command *cobra.Command) bool {
	verbose, lookupError := command.Flags().GetBool(verboseFlagNameConstant)
	return lookupError == nil && verbose
}
