package gitrepo

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/temirov/gitupstream/internal/execshell"
	"github.com/temirov/gitupstream/internal/repos/shared"
)

const (
	gitRemoteSubcommandConstant       = "remote"
	gitRemoteGetURLSubcommandConstant = "get-url"
	gitRemoteAddSubcommandConstant    = "add"
	gitRemoteSetURLSubcommandConstant = "set-url"
	gitFetchSubcommandConstant        = "fetch"
	gitQuietFlagConstant              = "--quiet"
	gitRevParseSubcommandConstant     = "rev-parse"
	gitAbbrevRefFlagConstant          = "--abbrev-ref"
	gitVerifyFlagConstant             = "--verify"
	gitBranchSubcommandConstant       = "branch"
	gitBranchShortNameFormatConstant  = "--format=%(refname:short)"
	gitRevListSubcommandConstant      = "rev-list"
	gitCountFlagConstant              = "--count"
	gitLeftRightFlagConstant          = "--left-right"
	gitUpstreamSuffixConstant         = "@{u}"
	gitRemoteHeadTemplateConstant     = "%s/HEAD"
	gitSymmetricRangeTemplateConstant = "%s...%s"
	remoteReferenceSeparatorConstant  = "/"
	terminalPromptEnvironmentConstant = "GIT_TERMINAL_PROMPT"
	terminalPromptDisabledConstant    = "0"

	executorNotConfiguredMessageConstant  = "git repository manager requires a git executor"
	repositoryPathRequiredMessageConstant = "repository path must not be empty"
	remoteNameRequiredMessageConstant     = "remote name must not be empty"
	remoteURLRequiredMessageConstant      = "remote url must not be empty"
	referenceRequiredMessageConstant      = "git reference must not be empty"
	operationErrorTemplateConstant        = "%s: %w"
	listRemotesOperationConstant          = "list remotes"
	getRemoteURLOperationConstant         = "read remote url"
	addRemoteOperationConstant            = "add remote"
	setRemoteURLOperationConstant         = "set remote url"
	fetchRemoteOperationConstant          = "fetch remote"
	defaultBranchOperationConstant        = "resolve default branch"
	listBranchesOperationConstant         = "list local branches"
	resolveRevisionOperationConstant      = "resolve revision"
	upstreamReferenceOperationConstant    = "resolve tracking reference"
	countDivergenceOperationConstant      = "count divergence"
)

var (
	// ErrGitExecutorNotConfigured indicates the manager was constructed without an executor.
	ErrGitExecutorNotConfigured = errors.New(executorNotConfiguredMessageConstant)
	// ErrRepositoryPathRequired indicates an operation received an empty repository path.
	ErrRepositoryPathRequired = errors.New(repositoryPathRequiredMessageConstant)
	// ErrRemoteNameRequired indicates an operation received an empty remote name.
	ErrRemoteNameRequired = errors.New(remoteNameRequiredMessageConstant)
	// ErrRemoteURLRequired indicates an add or update received an empty URL.
	ErrRemoteURLRequired = errors.New(remoteURLRequiredMessageConstant)
	// ErrReferenceRequired indicates a revision query received an empty reference.
	ErrReferenceRequired = errors.New(referenceRequiredMessageConstant)
)

// RepositoryManager implements shared.RemoteManager and shared.BranchInspector on top of git.
type RepositoryManager struct {
	executor shared.GitExecutor
}

// NewRepositoryManager constructs a RepositoryManager.
func NewRepositoryManager(executor shared.GitExecutor) (*RepositoryManager, error) {
	if executor == nil {
		return nil, ErrGitExecutorNotConfigured
	}
	return &RepositoryManager{executor: executor}, nil
}

// ListRemotes returns configured remote names in git's order.
func (manager *RepositoryManager) ListRemotes(executionContext context.Context, repositoryPath string) ([]string, error) {
	if validationError := requireValue(repositoryPath, ErrRepositoryPathRequired); validationError != nil {
		return nil, validationError
	}
	executionResult, executionError := manager.run(executionContext, repositoryPath, nil, gitRemoteSubcommandConstant)
	if executionError != nil {
		return nil, fmt.Errorf(operationErrorTemplateConstant, listRemotesOperationConstant, executionError)
	}
	return splitOutputLines(executionResult.StandardOutput), nil
}

// GetRemoteURL returns the fetch URL of the named remote.
func (manager *RepositoryManager) GetRemoteURL(executionContext context.Context, repositoryPath string, remoteName string) (string, error) {
	if validationError := validateRemoteArguments(repositoryPath, remoteName); validationError != nil {
		return "", validationError
	}
	executionResult, executionError := manager.run(executionContext, repositoryPath, nil, gitRemoteSubcommandConstant, gitRemoteGetURLSubcommandConstant, remoteName)
	if executionError != nil {
		return "", fmt.Errorf(operationErrorTemplateConstant, getRemoteURLOperationConstant, executionError)
	}
	return strings.TrimSpace(executionResult.StandardOutput), nil
}

// AddRemote creates a remote pointing at remoteURL.
func (manager *RepositoryManager) AddRemote(executionContext context.Context, repositoryPath string, remoteName string, remoteURL string) error {
	if validationError := validateRemoteArguments(repositoryPath, remoteName); validationError != nil {
		return validationError
	}
	if validationError := requireValue(remoteURL, ErrRemoteURLRequired); validationError != nil {
		return validationError
	}
	if _, executionError := manager.run(executionContext, repositoryPath, nil, gitRemoteSubcommandConstant, gitRemoteAddSubcommandConstant, remoteName, remoteURL); executionError != nil {
		return fmt.Errorf(operationErrorTemplateConstant, addRemoteOperationConstant, executionError)
	}
	return nil
}

// SetRemoteURL repoints an existing remote at remoteURL.
func (manager *RepositoryManager) SetRemoteURL(executionContext context.Context, repositoryPath string, remoteName string, remoteURL string) error {
	if validationError := validateRemoteArguments(repositoryPath, remoteName); validationError != nil {
		return validationError
	}
	if validationError := requireValue(remoteURL, ErrRemoteURLRequired); validationError != nil {
		return validationError
	}
	if _, executionError := manager.run(executionContext, repositoryPath, nil, gitRemoteSubcommandConstant, gitRemoteSetURLSubcommandConstant, remoteName, remoteURL); executionError != nil {
		return fmt.Errorf(operationErrorTemplateConstant, setRemoteURLOperationConstant, executionError)
	}
	return nil
}

// FetchRemote fetches the named remote quietly with credential prompts disabled.
func (manager *RepositoryManager) FetchRemote(executionContext context.Context, repositoryPath string, remoteName string) error {
	if validationError := validateRemoteArguments(repositoryPath, remoteName); validationError != nil {
		return validationError
	}
	environment := map[string]string{terminalPromptEnvironmentConstant: terminalPromptDisabledConstant}
	if _, executionError := manager.run(executionContext, repositoryPath, environment, gitFetchSubcommandConstant, remoteName, gitQuietFlagConstant); executionError != nil {
		return fmt.Errorf(operationErrorTemplateConstant, fetchRemoteOperationConstant, executionError)
	}
	return nil
}

// ResolveDefaultBranch resolves <remote>/HEAD and returns the branch name without the remote prefix.
func (manager *RepositoryManager) ResolveDefaultBranch(executionContext context.Context, repositoryPath string, remoteName string) (string, error) {
	if validationError := validateRemoteArguments(repositoryPath, remoteName); validationError != nil {
		return "", validationError
	}
	headReference := fmt.Sprintf(gitRemoteHeadTemplateConstant, remoteName)
	executionResult, executionError := manager.run(executionContext, repositoryPath, nil, gitRevParseSubcommandConstant, gitAbbrevRefFlagConstant, headReference)
	if executionError != nil {
		return "", fmt.Errorf(operationErrorTemplateConstant, defaultBranchOperationConstant, executionError)
	}
	resolvedReference := strings.TrimSpace(executionResult.StandardOutput)
	return strings.TrimPrefix(resolvedReference, remoteName+remoteReferenceSeparatorConstant), nil
}

// ListLocalBranches returns short local branch names in git's order.
func (manager *RepositoryManager) ListLocalBranches(executionContext context.Context, repositoryPath string) ([]string, error) {
	if validationError := requireValue(repositoryPath, ErrRepositoryPathRequired); validationError != nil {
		return nil, validationError
	}
	executionResult, executionError := manager.run(executionContext, repositoryPath, nil, gitBranchSubcommandConstant, gitBranchShortNameFormatConstant)
	if executionError != nil {
		return nil, fmt.Errorf(operationErrorTemplateConstant, listBranchesOperationConstant, executionError)
	}
	return splitOutputLines(executionResult.StandardOutput), nil
}

// ResolveRevision returns the full commit id of reference.
func (manager *RepositoryManager) ResolveRevision(executionContext context.Context, repositoryPath string, reference string) (string, error) {
	if validationError := validateReferenceArguments(repositoryPath, reference); validationError != nil {
		return "", validationError
	}
	executionResult, executionError := manager.run(executionContext, repositoryPath, nil, gitRevParseSubcommandConstant, reference)
	if executionError != nil {
		return "", fmt.Errorf(operationErrorTemplateConstant, resolveRevisionOperationConstant, executionError)
	}
	return strings.TrimSpace(executionResult.StandardOutput), nil
}

// ResolveUpstreamReference returns the abbreviated tracking reference configured for branchName.
// git may echo the unexpanded <branch>@{u} placeholder; callers treat that as "no tracking".
func (manager *RepositoryManager) ResolveUpstreamReference(executionContext context.Context, repositoryPath string, branchName string) (string, error) {
	if validationError := validateReferenceArguments(repositoryPath, branchName); validationError != nil {
		return "", validationError
	}
	executionResult, executionError := manager.run(executionContext, repositoryPath, nil, gitRevParseSubcommandConstant, gitAbbrevRefFlagConstant, UpstreamPlaceholder(branchName))
	if executionError != nil {
		return "", fmt.Errorf(operationErrorTemplateConstant, upstreamReferenceOperationConstant, executionError)
	}
	return strings.TrimSpace(executionResult.StandardOutput), nil
}

// VerifyReference reports whether reference names an existing object.
// A non-zero git exit means "does not exist"; only execution failures are returned as errors.
func (manager *RepositoryManager) VerifyReference(executionContext context.Context, repositoryPath string, reference string) (bool, error) {
	if validationError := validateReferenceArguments(repositoryPath, reference); validationError != nil {
		return false, validationError
	}
	_, executionError := manager.run(executionContext, repositoryPath, nil, gitRevParseSubcommandConstant, gitVerifyFlagConstant, reference)
	if executionError == nil {
		return true, nil
	}
	var failedError execshell.CommandFailedError
	if errors.As(executionError, &failedError) {
		return false, nil
	}
	return false, executionError
}

// CountDivergence runs rev-list --count --left-right tracking...branch.
// The left count is commits only on the tracking side (behind), the right count commits only on the branch (ahead).
// Output that does not hold two integers yields a zero count.
func (manager *RepositoryManager) CountDivergence(executionContext context.Context, repositoryPath string, trackingReference string, branchName string) (shared.DivergenceCount, error) {
	if validationError := validateReferenceArguments(repositoryPath, trackingReference); validationError != nil {
		return shared.DivergenceCount{}, validationError
	}
	if validationError := requireValue(branchName, ErrReferenceRequired); validationError != nil {
		return shared.DivergenceCount{}, validationError
	}
	rangeExpression := fmt.Sprintf(gitSymmetricRangeTemplateConstant, trackingReference, branchName)
	executionResult, executionError := manager.run(executionContext, repositoryPath, nil, gitRevListSubcommandConstant, gitCountFlagConstant, gitLeftRightFlagConstant, rangeExpression)
	if executionError != nil {
		return shared.DivergenceCount{}, fmt.Errorf(operationErrorTemplateConstant, countDivergenceOperationConstant, executionError)
	}
	return ParseDivergenceCount(executionResult.StandardOutput), nil
}

// ParseDivergenceCount converts "<behind>\t<ahead>" into a DivergenceCount.
func ParseDivergenceCount(output string) shared.DivergenceCount {
	fields := strings.Fields(output)
	if len(fields) != 2 {
		return shared.DivergenceCount{}
	}
	behindCount, behindError := strconv.Atoi(fields[0])
	aheadCount, aheadError := strconv.Atoi(fields[1])
	if behindError != nil || aheadError != nil || behindCount < 0 || aheadCount < 0 {
		return shared.DivergenceCount{}
	}
	return shared.DivergenceCount{Ahead: aheadCount, Behind: behindCount}
}

// UpstreamPlaceholder returns the <branch>@{u} revision expression for branchName.
func UpstreamPlaceholder(branchName string) string {
	return branchName + gitUpstreamSuffixConstant
}

func (manager *RepositoryManager) run(executionContext context.Context, repositoryPath string, environment map[string]string, arguments ...string) (execshell.ExecutionResult, error) {
	return manager.executor.ExecuteGit(executionContext, execshell.CommandDetails{
		Arguments:            arguments,
		WorkingDirectory:     repositoryPath,
		EnvironmentVariables: environment,
	})
}

func validateRemoteArguments(repositoryPath string, remoteName string) error {
	if validationError := requireValue(repositoryPath, ErrRepositoryPathRequired); validationError != nil {
		return validationError
	}
	return requireValue(remoteName, ErrRemoteNameRequired)
}

func validateReferenceArguments(repositoryPath string, reference string) error {
	if validationError := requireValue(repositoryPath, ErrRepositoryPathRequired); validationError != nil {
		return validationError
	}
	return requireValue(reference, ErrReferenceRequired)
}

func requireValue(value string, sentinel error) error {
	if len(strings.TrimSpace(value)) == 0 {
		return sentinel
	}
	return nil
}

func splitOutputLines(output string) []string {
	var lines []string
	for _, line := range strings.Split(output, "\n") {
		trimmedLine := strings.TrimSpace(line)
		if len(trimmedLine) == 0 {
			continue
		}
		lines = append(lines, trimmedLine)
	}
	return lines
}
