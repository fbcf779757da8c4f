package branchstatus

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/temirov/gitupstream/internal/gitrepo"
	"github.com/temirov/gitupstream/internal/repos/shared"
)

const (
	notARepositoryMessageConstant       = "not a git repository"
	inspectorMissingMessageConstant     = "branch analyzer requires a branch inspector"
	fileSystemMissingMessageConstant    = "branch analyzer requires a filesystem"
	notARepositoryTemplateConstant      = "%w: %s"
	listBranchesErrorTemplateConstant   = "analyze %s: %w"
	remoteBranchReferenceTemplate       = "%s/%s"
	defaultParallelismConstant          = 1
	logMessageFetchFailedConstant       = "fetch failed; comparing against existing remote references"
	logMessageNoDefaultBranchConstant   = "remote default branch unknown"
	logMessageBranchSkippedConstant     = "branch has no resolvable commit; skipping"
	logMessageCountFailedConstant       = "commit count failed; treating branch as synced"
	logMessageRepositorySkippedConstant = "repository skipped"
	logFieldRepositoryConstant          = "repository"
	logFieldRemoteConstant              = "remote"
	logFieldBranchConstant              = "branch"
	logFieldTrackingConstant            = "tracking"
)

var (
	// ErrNotARepository indicates the target path has no .git entry.
	ErrNotARepository = errors.New(notARepositoryMessageConstant)
	// ErrBranchInspectorNotConfigured indicates Dependencies lacks a BranchInspector.
	ErrBranchInspectorNotConfigured = errors.New(inspectorMissingMessageConstant)
	// ErrFileSystemNotConfigured indicates Dependencies lacks a FileSystem.
	ErrFileSystemNotConfigured = errors.New(fileSystemMissingMessageConstant)
)

// Options configures an analysis run.
type Options struct {
	RemoteName    string
	BranchPattern string
	FetchPolicy   shared.FetchPolicy
	// Parallelism bounds how many repositories are analyzed at once; values below 1 mean sequential.
	Parallelism int
}

// Dependencies captures collaborators required by Analyzer.
type Dependencies struct {
	Inspector  shared.BranchInspector
	FileSystem shared.FileSystem
	Logger     *zap.Logger
}

// Analysis is the outcome of a multi-repository run.
type Analysis struct {
	Records []BranchStatus
	// SkippedRepositories lists targets that could not be analyzed, in input order.
	SkippedRepositories []string
}

// Analyzer produces BranchStatus records for repositories.
type Analyzer struct {
	dependencies Dependencies
}

// NewAnalyzer validates dependencies and constructs an Analyzer.
func NewAnalyzer(dependencies Dependencies) (*Analyzer, error) {
	if dependencies.Inspector == nil {
		return nil, ErrBranchInspectorNotConfigured
	}
	if dependencies.FileSystem == nil {
		return nil, ErrFileSystemNotConfigured
	}
	if dependencies.Logger == nil {
		dependencies.Logger = zap.NewNop()
	}
	return &Analyzer{dependencies: dependencies}, nil
}

// AnalyzeRepositories analyzes each repository and concatenates records in input order.
// Repositories that fail are logged and listed in SkippedRepositories; only a cancelled context or an invalid pattern aborts.
func (analyzer *Analyzer) AnalyzeRepositories(executionContext context.Context, repositoryPaths []string, options Options) (Analysis, error) {
	pattern, patternError := CompileBranchPattern(options.BranchPattern)
	if patternError != nil {
		return Analysis{}, patternError
	}

	parallelism := options.Parallelism
	if parallelism < defaultParallelismConstant {
		parallelism = defaultParallelismConstant
	}

	recordsByRepository := make([][]BranchStatus, len(repositoryPaths))
	failuresByRepository := make([]error, len(repositoryPaths))

	group, groupContext := errgroup.WithContext(executionContext)
	group.SetLimit(parallelism)
	for repositoryIndex, repositoryPath := range repositoryPaths {
		group.Go(func() error {
			if contextError := groupContext.Err(); contextError != nil {
				return contextError
			}
			records, analysisError := analyzer.analyze(groupContext, repositoryPath, options, pattern)
			recordsByRepository[repositoryIndex] = records
			failuresByRepository[repositoryIndex] = analysisError
			return nil
		})
	}
	if waitError := group.Wait(); waitError != nil {
		return Analysis{}, waitError
	}
	if contextError := executionContext.Err(); contextError != nil {
		return Analysis{}, contextError
	}

	analysis := Analysis{}
	for repositoryIndex, repositoryPath := range repositoryPaths {
		if failure := failuresByRepository[repositoryIndex]; failure != nil {
			analyzer.dependencies.Logger.Warn(logMessageRepositorySkippedConstant, zap.String(logFieldRepositoryConstant, repositoryPath), zap.Error(failure))
			analysis.SkippedRepositories = append(analysis.SkippedRepositories, repositoryPath)
			continue
		}
		analysis.Records = append(analysis.Records, recordsByRepository[repositoryIndex]...)
	}
	return analysis, nil
}

// AnalyzeRepository produces one record per local branch matching the pattern, in git's branch order.
func (analyzer *Analyzer) AnalyzeRepository(executionContext context.Context, repositoryPath string, options Options) ([]BranchStatus, error) {
	pattern, patternError := CompileBranchPattern(options.BranchPattern)
	if patternError != nil {
		return nil, patternError
	}
	return analyzer.analyze(executionContext, repositoryPath, options, pattern)
}

func (analyzer *Analyzer) analyze(executionContext context.Context, repositoryPath string, options Options, pattern BranchPattern) ([]BranchStatus, error) {
	if _, statError := analyzer.dependencies.FileSystem.Stat(filepath.Join(repositoryPath, shared.GitMetadataDirectoryNameConstant)); statError != nil {
		return nil, fmt.Errorf(notARepositoryTemplateConstant, ErrNotARepository, repositoryPath)
	}

	remoteName := strings.TrimSpace(options.RemoteName)
	if len(remoteName) == 0 {
		remoteName = shared.DefaultRemoteNameConstant
	}
	inspector := analyzer.dependencies.Inspector
	logger := analyzer.dependencies.Logger.With(zap.String(logFieldRepositoryConstant, repositoryPath), zap.String(logFieldRemoteConstant, remoteName))

	if options.FetchPolicy.ShouldFetch() {
		if fetchError := inspector.FetchRemote(executionContext, repositoryPath, remoteName); fetchError != nil {
			logger.Warn(logMessageFetchFailedConstant, zap.Error(fetchError))
		}
	}

	defaultBranch, defaultBranchError := inspector.ResolveDefaultBranch(executionContext, repositoryPath, remoteName)
	if defaultBranchError != nil {
		logger.Debug(logMessageNoDefaultBranchConstant, zap.Error(defaultBranchError))
		defaultBranch = ""
	}

	branchNames, listError := inspector.ListLocalBranches(executionContext, repositoryPath)
	if listError != nil {
		return nil, fmt.Errorf(listBranchesErrorTemplateConstant, repositoryPath, listError)
	}

	var records []BranchStatus
	for _, branchName := range branchNames {
		if !pattern.Matches(branchName) {
			continue
		}
		record, recorded := analyzer.analyzeBranch(executionContext, logger, repositoryPath, remoteName, branchName)
		if !recorded {
			continue
		}
		record.IsDefaultBranch = len(defaultBranch) > 0 && branchName == defaultBranch
		records = append(records, record)
	}
	return records, nil
}

func (analyzer *Analyzer) analyzeBranch(executionContext context.Context, logger *zap.Logger, repositoryPath string, remoteName string, branchName string) (BranchStatus, bool) {
	inspector := analyzer.dependencies.Inspector
	branchLogger := logger.With(zap.String(logFieldBranchConstant, branchName))

	localCommit, localError := inspector.ResolveRevision(executionContext, repositoryPath, branchName)
	if localError != nil || len(localCommit) == 0 {
		branchLogger.Debug(logMessageBranchSkippedConstant, zap.Error(localError))
		return BranchStatus{}, false
	}

	record := BranchStatus{
		Repository:       repositoryPath,
		Branch:           branchName,
		Remote:           remoteName,
		RemoteReference:  NotAvailableConstant,
		LocalHashPrefix:  HashPrefix(localCommit),
		RemoteHashPrefix: NotAvailableConstant,
	}

	trackingReference, trackingError := inspector.ResolveUpstreamReference(executionContext, repositoryPath, branchName)
	if trackingError != nil || len(trackingReference) == 0 || trackingReference == gitrepo.UpstreamPlaceholder(branchName) {
		trackingReference = fmt.Sprintf(remoteBranchReferenceTemplate, remoteName, branchName)
		exists, verifyError := inspector.VerifyReference(executionContext, repositoryPath, trackingReference)
		if verifyError != nil || !exists {
			record.Status = StatusNoRemoteBranch
			return record, true
		}
	}
	record.RemoteReference = trackingReference

	remoteCommit, remoteError := inspector.ResolveRevision(executionContext, repositoryPath, trackingReference)
	if remoteError != nil || len(remoteCommit) == 0 {
		record.Status = StatusRemoteInaccessible
		return record, true
	}
	record.RemoteHashPrefix = HashPrefix(remoteCommit)

	divergence, countError := inspector.CountDivergence(executionContext, repositoryPath, trackingReference, branchName)
	if countError != nil {
		branchLogger.Warn(logMessageCountFailedConstant, zap.String(logFieldTrackingConstant, trackingReference), zap.Error(countError))
		divergence = shared.DivergenceCount{}
	}

	record.Ahead = divergence.Ahead
	record.Behind = divergence.Behind
	record.Status = Classify(divergence.Ahead, divergence.Behind)
	record.TrackingOK = true
	return record, true
}
