package repos

import (
	"github.com/spf13/cobra"

	"github.com/temirov/gitupstream/internal/repos/dependencies"
	"github.com/temirov/gitupstream/internal/repos/remotes"
	"github.com/temirov/gitupstream/internal/repos/shared"
	"github.com/temirov/gitupstream/internal/utils"
	flagutils "github.com/temirov/gitupstream/internal/utils/flags"
)

const (
	upstreamUseConstant              = "upstream-configure [GITMODULES_PATH]"
	upstreamShortDescriptionConstant = "Point each submodule's upstream remote at the URL declared in .gitmodules"
	upstreamLongDescriptionConstant  = "upstream-configure reads the upstream key of every submodule in an extended .gitmodules file and adds or updates the matching remote inside each initialized submodule. GITMODULES_PATH defaults to ./.gitmodules."
	upstreamRemoteFlagUsageConstant  = "Remote to create or update in each submodule"
	upstreamDryRunFlagUsageConstant  = "Print the remotes that would be added or updated without changing them"
)

// UpstreamCommandBuilder assembles the upstream-configure command.
type UpstreamCommandBuilder struct {
	LoggerProvider               LoggerProvider
	ConsoleLoggerProvider        LoggerProvider
	HumanReadableLoggingProvider func() bool
	ConfigurationProvider        func() UpstreamConfiguration
	GitExecutor                  shared.GitExecutor
	FileSystem                   shared.FileSystem
}

// Build constructs the upstream-configure command.
func (builder *UpstreamCommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:           upstreamUseConstant,
		Short:         upstreamShortDescriptionConstant,
		Long:          upstreamLongDescriptionConstant,
		Args:          cobra.MaximumNArgs(1),
		RunE:          builder.run,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flagutils.BindExecutionFlags(command, flagutils.ExecutionDefaults{}, flagutils.ExecutionFlagDefinitions{
		DryRun: flagutils.ExecutionFlagDefinition{Name: flagutils.DryRunFlagName, Usage: upstreamDryRunFlagUsageConstant, Enabled: true},
	})
	flagutils.EnsureRemoteFlag(command, shared.DefaultRemoteNameConstant, upstreamRemoteFlagUsageConstant)
	bindVerboseFlag(command)

	return command, nil
}

func (builder *UpstreamCommandBuilder) run(command *cobra.Command, arguments []string) error {
	configuration := builder.resolveConfiguration()

	dryRun := configuration.DryRun
	if executionFlags, executionFlagsAvailable := flagutils.ResolveExecutionFlags(command); executionFlagsAvailable && executionFlags.DryRunSet {
		dryRun = executionFlags.DryRun
	}

	remoteName := configuration.RemoteName
	if flagRemoteName, remoteFlagSet := flagutils.ResolveRemoteFlag(command); remoteFlagSet {
		remoteName = flagRemoteName
	}

	logger := resolveLogger(builder.LoggerProvider)
	observers := resolveCommandObservers(builder.ConsoleLoggerProvider, verboseRequested(command) || humanReadableLoggingEnabled(builder.HumanReadableLoggingProvider))
	gitExecutor, executorError := dependencies.ResolveGitExecutor(builder.GitExecutor, logger, observers...)
	if executorError != nil {
		return executorError
	}

	repositoryManager, managerError := dependencies.ResolveRepositoryManager(gitExecutor)
	if managerError != nil {
		return managerError
	}

	output := utils.NewReportWriter(command.OutOrStdout())
	reconciler, reconcilerError := remotes.NewReconciler(remotes.Dependencies{
		RemoteManager: repositoryManager,
		FileSystem:    dependencies.ResolveFileSystem(builder.FileSystem),
		Output:        output,
		Logger:        logger,
	})
	if reconcilerError != nil {
		return reconcilerError
	}

	result, reconcileError := reconciler.Reconcile(command.Context(), remotes.Options{
		GitmodulesPath: resolvePathArgument(arguments, configuration.GitmodulesPath),
		RemoteName:     remoteName,
		ExecutionMode:  shared.ExecutionModeFromBool(dryRun),
	})
	if reconcileError != nil {
		return reconcileError
	}
	if outputError := output.Err(); outputError != nil {
		return outputError
	}

	return result.CompletionError()
}

func (builder *UpstreamCommandBuilder) resolveConfiguration() UpstreamConfiguration {
	if builder.ConfigurationProvider == nil {
		return DefaultToolsConfiguration().Upstream
	}
	return builder.ConfigurationProvider().sanitize()
}
