package execshell

import (
	"fmt"
	"strings"
)

type messageStage int

const (
	messageStageStart messageStage = iota
	messageStageSuccess
	messageStageFailure
	messageStageExecutionFailure
)

const (
	genericStartTemplateConstant            = "Running %s"
	genericSuccessTemplateConstant          = "Completed %s"
	genericFailureTemplateConstant          = "%s failed with exit code %d%s"
	genericExecutionFailureTemplateConstant = "%s failed: %s"
	workingDirectorySuffixTemplateConstant  = " (in %s)"
	commandArgumentsJoinSeparatorConstant   = " "
	standardErrorSuffixTemplateConstant     = ": %s"
	unknownFailureMessageConstant           = "unknown error"
	defaultWorkingDirectoryLabelConstant    = "current directory"
	fallbackUnknownValueLabelConstant       = "unknown"
	emptyStringConstant                     = ""
)

const (
	gitRemoteSubcommandNameConstant       = "remote"
	gitRemoteGetURLSubcommandNameConstant = "get-url"
	gitRemoteAddSubcommandNameConstant    = "add"
	gitRemoteSetURLSubcommandNameConstant = "set-url"
	gitFetchSubcommandNameConstant        = "fetch"
	gitRevParseSubcommandNameConstant     = "rev-parse"
	gitAbbrevRefFlagConstant              = "--abbrev-ref"
	gitUpstreamSuffixConstant             = "@{u}"
	gitHeadSuffixConstant                 = "/HEAD"
	gitBranchSubcommandNameConstant       = "branch"
	gitRevListSubcommandNameConstant      = "rev-list"
	flagPrefixConstant                    = "-"
)

const (
	gitRemoteListStartTemplateConstant              = "Listing remotes in %s"
	gitRemoteListSuccessTemplateConstant            = "Listed remotes in %s"
	gitRemoteListFailureTemplateConstant            = "Failed to list remotes in %s (exit code %d%s)"
	gitRemoteListExecutionFailureTemplateConstant   = "Unable to list remotes in %s: %s"
	gitRemoteLookupStartTemplateConstant            = "Checking %s remote for %s"
	gitRemoteLookupSuccessTemplateConstant          = "%s remote for %s points to %s"
	gitRemoteLookupFailureTemplateConstant          = "No readable %s remote in %s (exit code %d%s)"
	gitRemoteLookupExecutionFailureTemplateConstant = "Unable to read %s remote for %s: %s"
	gitRemoteAddStartTemplateConstant               = "Adding %s remote to %s pointing to %s"
	gitRemoteAddSuccessTemplateConstant             = "Added %s remote to %s pointing to %s"
	gitRemoteAddFailureTemplateConstant             = "Failed to add %s remote to %s pointing to %s (exit code %d%s)"
	gitRemoteAddExecutionFailureTemplateConstant    = "Unable to add %s remote to %s pointing to %s: %s"
	gitRemoteUpdateStartTemplateConstant            = "Updating %s remote for %s to %s"
	gitRemoteUpdateSuccessTemplateConstant          = "%s remote for %s now points to %s"
	gitRemoteUpdateFailureTemplateConstant          = "Failed to update %s remote for %s to %s (exit code %d%s)"
	gitRemoteUpdateExecutionFailureTemplateConstant = "Unable to update %s remote for %s to %s: %s"
	gitFetchStartTemplateConstant                   = "Fetching %s in %s"
	gitFetchSuccessTemplateConstant                 = "Fetched %s in %s"
	gitFetchFailureTemplateConstant                 = "Failed to fetch %s in %s (exit code %d%s)"
	gitFetchExecutionFailureTemplateConstant        = "Unable to fetch %s in %s: %s"
	gitDefaultBranchStartTemplateConstant           = "Resolving default branch %s in %s"
	gitDefaultBranchSuccessTemplateConstant         = "Default branch in %s is %s"
	gitDefaultBranchFailureTemplateConstant         = "No default branch recorded as %s in %s (exit code %d%s)"
	gitDefaultExecutionFailureTemplateConstant      = "Unable to resolve default branch %s in %s: %s"
	gitUpstreamStartTemplateConstant                = "Checking tracking branch of %s in %s"
	gitUpstreamSuccessTemplateConstant              = "%s in %s tracks %s"
	gitUpstreamFailureTemplateConstant              = "%s in %s has no tracking branch (exit code %d%s)"
	gitUpstreamExecutionFailureTemplateConstant     = "Unable to check tracking branch of %s in %s: %s"
	gitRevisionStartTemplateConstant                = "Resolving %s in %s"
	gitRevisionSuccessTemplateConstant              = "%s in %s resolved to %s"
	gitRevisionEmptySuccessTemplateConstant         = "%s in %s did not resolve to a revision"
	gitRevisionFailureTemplateConstant              = "Failed to resolve %s in %s (exit code %d%s)"
	gitRevisionExecutionFailureTemplateConstant     = "Unable to resolve %s in %s: %s"
	gitBranchListStartTemplateConstant              = "Listing local branches in %s"
	gitBranchListSuccessTemplateConstant            = "Listed local branches in %s"
	gitBranchListFailureTemplateConstant            = "Failed to list local branches in %s (exit code %d%s)"
	gitBranchListExecutionFailureTemplateConstant   = "Unable to list local branches in %s: %s"
	gitDivergenceStartTemplateConstant              = "Counting commits between %s in %s"
	gitDivergenceSuccessTemplateConstant            = "Counted commits between %s in %s"
	gitDivergenceFailureTemplateConstant            = "Failed to count commits between %s in %s (exit code %d%s)"
	gitDivergenceExecutionFailureTemplateConstant   = "Unable to count commits between %s in %s: %s"
)

// stageTemplates holds the four message templates of one git operation.
type stageTemplates struct {
	start            string
	success          string
	failure          string
	executionFailure string
}

// CommandMessageFormatter builds human-readable messages for command lifecycle events.
type CommandMessageFormatter struct{}

// BuildStartedMessage formats the message describing a command about to run.
func (formatter CommandMessageFormatter) BuildStartedMessage(command ShellCommand) string {
	return formatter.buildMessage(command, ExecutionResult{}, nil, messageStageStart)
}

// BuildSuccessMessage formats the message describing a completed command with a zero exit code.
func (formatter CommandMessageFormatter) BuildSuccessMessage(command ShellCommand, result ExecutionResult) string {
	return formatter.buildMessage(command, result, nil, messageStageSuccess)
}

// BuildFailureMessage formats the message describing a command that returned a non-zero exit code.
func (formatter CommandMessageFormatter) BuildFailureMessage(command ShellCommand, result ExecutionResult) string {
	return formatter.buildMessage(command, result, nil, messageStageFailure)
}

// BuildExecutionFailureMessage formats the message describing an unexpected execution failure.
func (formatter CommandMessageFormatter) BuildExecutionFailureMessage(command ShellCommand, failure error) string {
	return formatter.buildMessage(command, ExecutionResult{}, failure, messageStageExecutionFailure)
}

func (formatter CommandMessageFormatter) buildMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	if command.Name != CommandGit || len(command.Details.Arguments) == 0 {
		return formatter.buildGenericMessage(command, result, failure, stage)
	}

	arguments := command.Details.Arguments
	workingDirectory := formatter.describeWorkingDirectory(command)

	switch strings.TrimSpace(arguments[0]) {
	case gitRemoteSubcommandNameConstant:
		return formatter.describeGitRemoteMessage(command, result, failure, stage)
	case gitFetchSubcommandNameConstant:
		remoteName := formatter.ensureValue(formatter.extractFirstNonFlagArgument(arguments[1:]))
		return formatter.render(stageTemplates{
			start:            gitFetchStartTemplateConstant,
			success:          gitFetchSuccessTemplateConstant,
			failure:          gitFetchFailureTemplateConstant,
			executionFailure: gitFetchExecutionFailureTemplateConstant,
		}, []any{remoteName, workingDirectory}, result, failure, stage)
	case gitRevParseSubcommandNameConstant:
		return formatter.describeGitRevParseMessage(command, result, failure, stage)
	case gitBranchSubcommandNameConstant:
		return formatter.render(stageTemplates{
			start:            gitBranchListStartTemplateConstant,
			success:          gitBranchListSuccessTemplateConstant,
			failure:          gitBranchListFailureTemplateConstant,
			executionFailure: gitBranchListExecutionFailureTemplateConstant,
		}, []any{workingDirectory}, result, failure, stage)
	case gitRevListSubcommandNameConstant:
		rangeExpression := formatter.ensureValue(formatter.extractFirstNonFlagArgument(arguments[1:]))
		return formatter.render(stageTemplates{
			start:            gitDivergenceStartTemplateConstant,
			success:          gitDivergenceSuccessTemplateConstant,
			failure:          gitDivergenceFailureTemplateConstant,
			executionFailure: gitDivergenceExecutionFailureTemplateConstant,
		}, []any{rangeExpression, workingDirectory}, result, failure, stage)
	default:
		return formatter.buildGenericMessage(command, result, failure, stage)
	}
}

func (formatter CommandMessageFormatter) describeGitRemoteMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	arguments := command.Details.Arguments
	workingDirectory := formatter.describeWorkingDirectory(command)
	if len(arguments) == 1 {
		return formatter.render(stageTemplates{
			start:            gitRemoteListStartTemplateConstant,
			success:          gitRemoteListSuccessTemplateConstant,
			failure:          gitRemoteListFailureTemplateConstant,
			executionFailure: gitRemoteListExecutionFailureTemplateConstant,
		}, []any{workingDirectory}, result, failure, stage)
	}

	remoteName := formatter.ensureValue(formatter.argumentAtIndex(arguments, 2))
	targetURL := formatter.ensureValue(formatter.argumentAtIndex(arguments, 3))

	switch strings.TrimSpace(arguments[1]) {
	case gitRemoteGetURLSubcommandNameConstant:
		if stage == messageStageSuccess {
			return fmt.Sprintf(gitRemoteLookupSuccessTemplateConstant, remoteName, workingDirectory, formatter.ensureValue(strings.TrimSpace(result.StandardOutput)))
		}
		return formatter.render(stageTemplates{
			start:            gitRemoteLookupStartTemplateConstant,
			failure:          gitRemoteLookupFailureTemplateConstant,
			executionFailure: gitRemoteLookupExecutionFailureTemplateConstant,
		}, []any{remoteName, workingDirectory}, result, failure, stage)
	case gitRemoteAddSubcommandNameConstant:
		return formatter.render(stageTemplates{
			start:            gitRemoteAddStartTemplateConstant,
			success:          gitRemoteAddSuccessTemplateConstant,
			failure:          gitRemoteAddFailureTemplateConstant,
			executionFailure: gitRemoteAddExecutionFailureTemplateConstant,
		}, []any{remoteName, workingDirectory, targetURL}, result, failure, stage)
	case gitRemoteSetURLSubcommandNameConstant:
		return formatter.render(stageTemplates{
			start:            gitRemoteUpdateStartTemplateConstant,
			success:          gitRemoteUpdateSuccessTemplateConstant,
			failure:          gitRemoteUpdateFailureTemplateConstant,
			executionFailure: gitRemoteUpdateExecutionFailureTemplateConstant,
		}, []any{remoteName, workingDirectory, targetURL}, result, failure, stage)
	default:
		return formatter.buildGenericMessage(command, result, failure, stage)
	}
}

func (formatter CommandMessageFormatter) describeGitRevParseMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	arguments := command.Details.Arguments
	workingDirectory := formatter.describeWorkingDirectory(command)
	reference := formatter.ensureValue(formatter.extractFirstNonFlagArgument(arguments[1:]))
	resolvedValue := formatter.ensureValue(strings.TrimSpace(result.StandardOutput))

	if containsArgument(arguments, gitAbbrevRefFlagConstant) && strings.HasSuffix(reference, gitUpstreamSuffixConstant) {
		branchName := strings.TrimSuffix(reference, gitUpstreamSuffixConstant)
		if stage == messageStageSuccess {
			return fmt.Sprintf(gitUpstreamSuccessTemplateConstant, branchName, workingDirectory, resolvedValue)
		}
		return formatter.render(stageTemplates{
			start:            gitUpstreamStartTemplateConstant,
			failure:          gitUpstreamFailureTemplateConstant,
			executionFailure: gitUpstreamExecutionFailureTemplateConstant,
		}, []any{branchName, workingDirectory}, result, failure, stage)
	}

	if containsArgument(arguments, gitAbbrevRefFlagConstant) && strings.HasSuffix(reference, gitHeadSuffixConstant) {
		if stage == messageStageSuccess {
			return fmt.Sprintf(gitDefaultBranchSuccessTemplateConstant, workingDirectory, resolvedValue)
		}
		return formatter.render(stageTemplates{
			start:            gitDefaultBranchStartTemplateConstant,
			failure:          gitDefaultBranchFailureTemplateConstant,
			executionFailure: gitDefaultExecutionFailureTemplateConstant,
		}, []any{reference, workingDirectory}, result, failure, stage)
	}

	if stage == messageStageSuccess {
		trimmedOutput := strings.TrimSpace(result.StandardOutput)
		if len(trimmedOutput) == 0 {
			return fmt.Sprintf(gitRevisionEmptySuccessTemplateConstant, reference, workingDirectory)
		}
		return fmt.Sprintf(gitRevisionSuccessTemplateConstant, reference, workingDirectory, trimmedOutput)
	}
	return formatter.render(stageTemplates{
		start:            gitRevisionStartTemplateConstant,
		failure:          gitRevisionFailureTemplateConstant,
		executionFailure: gitRevisionExecutionFailureTemplateConstant,
	}, []any{reference, workingDirectory}, result, failure, stage)
}

// render appends exit code/stderr or the failure description to the operation arguments as each stage requires.
func (formatter CommandMessageFormatter) render(templates stageTemplates, operationArguments []any, result ExecutionResult, failure error, stage messageStage) string {
	switch stage {
	case messageStageStart:
		return fmt.Sprintf(templates.start, operationArguments...)
	case messageStageSuccess:
		return fmt.Sprintf(templates.success, operationArguments...)
	case messageStageFailure:
		failureArguments := append(append([]any{}, operationArguments...), result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
		return fmt.Sprintf(templates.failure, failureArguments...)
	default:
		executionArguments := append(append([]any{}, operationArguments...), formatter.describeFailure(failure))
		return fmt.Sprintf(templates.executionFailure, executionArguments...)
	}
}

func (formatter CommandMessageFormatter) buildGenericMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	commandLabel := formatter.formatCommandLabel(command)
	switch stage {
	case messageStageStart:
		return fmt.Sprintf(genericStartTemplateConstant, commandLabel)
	case messageStageSuccess:
		return fmt.Sprintf(genericSuccessTemplateConstant, commandLabel)
	case messageStageFailure:
		return fmt.Sprintf(genericFailureTemplateConstant, commandLabel, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
	default:
		return fmt.Sprintf(genericExecutionFailureTemplateConstant, commandLabel, formatter.describeFailure(failure))
	}
}

func (formatter CommandMessageFormatter) formatCommandLabel(command ShellCommand) string {
	commandLabel := describeCommand(command)
	trimmedWorkingDirectory := strings.TrimSpace(command.Details.WorkingDirectory)
	if len(trimmedWorkingDirectory) == 0 {
		return commandLabel
	}
	return commandLabel + fmt.Sprintf(workingDirectorySuffixTemplateConstant, trimmedWorkingDirectory)
}

func (formatter CommandMessageFormatter) formatStandardErrorSuffix(standardError string) string {
	trimmedStandardError := strings.TrimSpace(standardError)
	if len(trimmedStandardError) == 0 {
		return emptyStringConstant
	}
	return fmt.Sprintf(standardErrorSuffixTemplateConstant, trimmedStandardError)
}

func (formatter CommandMessageFormatter) describeWorkingDirectory(command ShellCommand) string {
	trimmedWorkingDirectory := strings.TrimSpace(command.Details.WorkingDirectory)
	if len(trimmedWorkingDirectory) == 0 {
		return defaultWorkingDirectoryLabelConstant
	}
	return trimmedWorkingDirectory
}

func (formatter CommandMessageFormatter) describeFailure(failure error) string {
	if failure == nil {
		return unknownFailureMessageConstant
	}
	return failure.Error()
}

func (formatter CommandMessageFormatter) argumentAtIndex(arguments []string, index int) string {
	if index < 0 || index >= len(arguments) {
		return emptyStringConstant
	}
	return strings.TrimSpace(arguments[index])
}

func (formatter CommandMessageFormatter) ensureValue(value string) string {
	if len(strings.TrimSpace(value)) == 0 {
		return fallbackUnknownValueLabelConstant
	}
	return value
}

func (formatter CommandMessageFormatter) extractFirstNonFlagArgument(arguments []string) string {
	for _, argument := range arguments {
		trimmedArgument := strings.TrimSpace(argument)
		if len(trimmedArgument) == 0 || strings.HasPrefix(trimmedArgument, flagPrefixConstant) {
			continue
		}
		return trimmedArgument
	}
	return emptyStringConstant
}

func containsArgument(arguments []string, value string) bool {
	for _, argument := range arguments {
		if strings.TrimSpace(argument) == value {
			return true
		}
	}
	return false
}
