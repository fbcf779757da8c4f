package repos

import (
	"github.com/spf13/cobra"

	"github.com/temirov/gitupstream/internal/branchstatus"
	"github.com/temirov/gitupstream/internal/report"
	"github.com/temirov/gitupstream/internal/repos/dependencies"
	"github.com/temirov/gitupstream/internal/repos/shared"
	"github.com/temirov/gitupstream/internal/utils"
	flagutils "github.com/temirov/gitupstream/internal/utils/flags"
)

const (
	statusUseConstant              = "branch-status [REPOSITORY_PATH]"
	statusShortDescriptionConstant = "Report how far local branches are ahead of or behind a remote"
	statusLongDescriptionConstant  = "branch-status fetches the remote, compares every matching local branch with its tracking branch and prints a table, json, csv or yaml report. REPOSITORY_PATH defaults to the current directory."
	statusRemoteFlagUsageConstant  = "Remote to compare against"
	allSubmodulesFlagNameConstant  = "all-submodules"
	allSubmodulesFlagUsageConstant = "Analyze every submodule declared in the repository's .gitmodules"
	formatFlagNameConstant         = "format"
	formatFlagDescriptionConstant  = "Report format."
	fetchFlagNameConstant          = "fetch"
	fetchFlagUsageConstant         = "Fetch the remote before analysis"
	colorFlagNameConstant          = "color"
	colorFlagDescriptionConstant   = "Colorize the table status column."
	parallelismFlagNameConstant    = "parallelism"
	parallelismFlagUsageConstant   = "Number of submodules analyzed concurrently"
)

// StatusCommandBuilder assembles the branch-status command.
type StatusCommandBuilder struct {
	LoggerProvider               LoggerProvider
	ConsoleLoggerProvider        LoggerProvider
	HumanReadableLoggingProvider func() bool
	ConfigurationProvider        func() StatusConfiguration
	GitExecutor                  shared.GitExecutor
	FileSystem                   shared.FileSystem
	SubmoduleDiscoverer          shared.SubmoduleDiscoverer
	Clock                        shared.Clock
}

type statusRequest struct {
	repositoryPath string
	allSubmodules  bool
	verbose        bool
	format         report.Format
	colorMode      report.ColorMode
	options        branchstatus.Options
}

// Build constructs the branch-status command.
func (builder *StatusCommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:           statusUseConstant,
		Short:         statusShortDescriptionConstant,
		Long:          statusLongDescriptionConstant,
		Args:          cobra.MaximumNArgs(1),
		RunE:          builder.run,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	defaults := DefaultToolsConfiguration().Status
	flagutils.EnsureRemoteFlag(command, defaults.RemoteName, statusRemoteFlagUsageConstant)
	flagutils.BindBranchPatternFlag(command, flagutils.BranchPatternFlagValues{Pattern: defaults.BranchPattern}, flagutils.BranchPatternFlagDefinition{Enabled: true})

	flagSet := command.Flags()
	flagSet.Bool(allSubmodulesFlagNameConstant, defaults.AllSubmodules, allSubmodulesFlagUsageConstant)
	flagSet.Int(parallelismFlagNameConstant, defaults.Parallelism, parallelismFlagUsageConstant)
	flagutils.AddToggleFlag(flagSet, nil, fetchFlagNameConstant, defaults.Fetch, fetchFlagUsageConstant)
	flagutils.BindChoiceFlag(command, formatFlagDefinition(defaults.Format))
	flagutils.BindChoiceFlag(command, colorFlagDefinition(defaults.Color))
	bindVerboseFlag(command)

	return command, nil
}

func (builder *StatusCommandBuilder) run(command *cobra.Command, arguments []string) error {
	request, requestError := builder.resolveRequest(command, arguments)
	if requestError != nil {
		return requestError
	}

	logger := resolveLogger(builder.LoggerProvider)
	humanReadable := request.verbose || humanReadableLoggingEnabled(builder.HumanReadableLoggingProvider)
	gitExecutor, executorError := dependencies.ResolveGitExecutor(builder.GitExecutor, logger, resolveCommandObservers(builder.ConsoleLoggerProvider, humanReadable)...)
	if executorError != nil {
		return executorError
	}

	repositoryManager, managerError := dependencies.ResolveRepositoryManager(gitExecutor)
	if managerError != nil {
		return managerError
	}

	fileSystem := dependencies.ResolveFileSystem(builder.FileSystem)
	analyzer, analyzerError := branchstatus.NewAnalyzer(branchstatus.Dependencies{
		Inspector:  repositoryManager,
		FileSystem: fileSystem,
		Logger:     logger,
	})
	if analyzerError != nil {
		return analyzerError
	}

	var records []branchstatus.BranchStatus
	if request.allSubmodules {
		submoduleDiscoverer := dependencies.ResolveSubmoduleDiscoverer(builder.SubmoduleDiscoverer, fileSystem)
		submodulePaths, discoveryError := submoduleDiscoverer.DiscoverSubmodules(request.repositoryPath)
		if discoveryError != nil {
			return discoveryError
		}

		analysis, analysisError := analyzer.AnalyzeRepositories(command.Context(), submodulePaths, request.options)
		if analysisError != nil {
			return analysisError
		}
		records = analysis.Records
	} else {
		repositoryRecords, analysisError := analyzer.AnalyzeRepository(command.Context(), request.repositoryPath, request.options)
		if analysisError != nil {
			return analysisError
		}
		records = repositoryRecords
	}

	renderer, rendererError := report.NewRenderer(request.format, report.ColorEnabled(request.colorMode, command.OutOrStdout()))
	if rendererError != nil {
		return rendererError
	}

	document := report.BuildDocument(records, request.options.RemoteName, dependencies.ResolveClock(builder.Clock).Now())
	if renderError := renderer.Render(utils.NewReportWriter(command.OutOrStdout()), document); renderError != nil {
		return renderError
	}

	return branchstatus.CheckTracking(records)
}

// resolveRequest merges configuration with explicitly set flags; flags win.
func (builder *StatusCommandBuilder) resolveRequest(command *cobra.Command, arguments []string) (statusRequest, error) {
	configuration := builder.resolveConfiguration()
	flagSet := command.Flags()

	remoteName := configuration.RemoteName
	if flagRemoteName, remoteFlagSet := flagutils.ResolveRemoteFlag(command); remoteFlagSet {
		remoteName = flagRemoteName
	}

	branchPattern := configuration.BranchPattern
	if flagSet.Changed(flagutils.BranchPatternFlagName) {
		branchPattern, _ = flagSet.GetString(flagutils.BranchPatternFlagName)
	}

	allSubmodules := configuration.AllSubmodules
	if flagSet.Changed(allSubmodulesFlagNameConstant) {
		allSubmodules, _ = flagSet.GetBool(allSubmodulesFlagNameConstant)
	}

	formatValue, formatError := flagutils.ResolveChoiceFlag(command, formatFlagDefinition(configuration.Format), configuration.Format)
	if formatError != nil {
		return statusRequest{}, formatError
	}

	colorValue, colorError := flagutils.ResolveChoiceFlag(command, colorFlagDefinition(configuration.Color), configuration.Color)
	if colorError != nil {
		return statusRequest{}, colorError
	}

	fetchEnabled, fetchError := flagutils.ResolveToggleFlag(command, fetchFlagNameConstant, configuration.Fetch)
	if fetchError != nil {
		return statusRequest{}, fetchError
	}

	parallelism := configuration.Parallelism
	if flagSet.Changed(parallelismFlagNameConstant) {
		parallelism, _ = flagSet.GetInt(parallelismFlagNameConstant)
	}

	return statusRequest{
		repositoryPath: resolvePathArgument(arguments, defaultRepositoryPathConstant),
		allSubmodules:  allSubmodules,
		verbose:        verboseRequested(command),
		format:         report.Format(formatValue),
		colorMode:      report.ColorMode(colorValue),
		options: branchstatus.Options{
			RemoteName:    remoteName,
			BranchPattern: branchPattern,
			FetchPolicy:   shared.FetchPolicyFromBool(fetchEnabled),
			Parallelism:   parallelism,
		},
	}, nil
}

func (builder *StatusCommandBuilder) resolveConfiguration() StatusConfiguration {
	if builder.ConfigurationProvider == nil {
		return DefaultToolsConfiguration().Status
	}
	return builder.ConfigurationProvider().sanitize()
}

func formatFlagDefinition(defaultFormat string) flagutils.ChoiceFlagDefinition {
	return flagutils.ChoiceFlagDefinition{
		Name:        formatFlagNameConstant,
		Default:     defaultFormat,
		Choices:     report.SupportedFormats(),
		Description: formatFlagDescriptionConstant,
		Unsupported: report.ErrUnsupportedFormat,
	}
}

func colorFlagDefinition(defaultColor string) flagutils.ChoiceFlagDefinition {
	return flagutils.ChoiceFlagDefinition{
		Name:        colorFlagNameConstant,
		Default:     defaultColor,
		Choices:     report.SupportedColorModes(),
		Description: colorFlagDescriptionConstant,
		Unsupported: report.ErrUnsupportedColorMode,
	}
}
