package remotes

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"slices"
	"strings"

	"go.uber.org/zap"

	"github.com/temirov/gitupstream/internal/gitmodules"
	"github.com/temirov/gitupstream/internal/repos/shared"
)

const (
	skipMessageTemplate          = "UPSTREAM-SKIP: %s (%s)\n"
	planAddMessageTemplate       = "PLAN-ADD-UPSTREAM: %s %s → %s\n"
	planUpdateMessageTemplate    = "PLAN-UPDATE-UPSTREAM: %s %s %s → %s\n"
	addedMessageTemplate         = "UPSTREAM-ADDED: %s %s → %s\n"
	updatedMessageTemplate       = "UPSTREAM-UPDATED: %s %s now %s\n"
	unchangedMessageTemplate     = "UPSTREAM-OK: %s (%s already %s)\n"
	failureMessageTemplate       = "UPSTREAM-ERROR: %s (%v)\n"
	summaryMessageTemplate       = "SUMMARY: processed=%d skipped=%d errors=%d\n"
	missingPathReason            = "no path configured"
	missingUpstreamReason        = "no upstream configured"
	missingDirectoryReasonFormat = "%s is not a directory"
	uninitializedReasonFormat    = "%s is not initialized"
	listRemotesFailureFormat     = "list remotes: %w"
	readRemoteFailureFormat      = "read %s url: %w"
	addRemoteFailureFormat       = "add %s: %w"
	updateRemoteFailureFormat    = "set %s url: %w"

	remoteManagerMissingMessage     = "upstream reconciler requires a remote manager"
	fileSystemMissingMessage        = "upstream reconciler requires a filesystem"
	reconciliationIncompleteMessage = "upstream reconciliation finished with errors"
	incompleteTemplate              = "%w: %d of %d submodules failed"

	logFieldSubmoduleName = "submodule"
	logFieldSubmodulePath = "path"
	logMessageEntryFailed = "upstream reconciliation failed"
)

var (
	// ErrRemoteManagerNotConfigured indicates Dependencies lacks a RemoteManager.
	ErrRemoteManagerNotConfigured = errors.New(remoteManagerMissingMessage)
	// ErrFileSystemNotConfigured indicates Dependencies lacks a FileSystem.
	ErrFileSystemNotConfigured = errors.New(fileSystemMissingMessage)
	// ErrReconciliationIncomplete marks a run in which at least one submodule failed.
	ErrReconciliationIncomplete = errors.New(reconciliationIncompleteMessage)
)

// Outcome classifies how one submodule entry was handled.
type Outcome string

// Entry outcomes.
const (
	OutcomeSuccess Outcome = "success"
	OutcomeSkipped Outcome = "skipped"
	OutcomeError   Outcome = "error"
)

// Action names the remote change made, planned or found unnecessary.
type Action string

// Remote actions.
const (
	ActionNone          Action = ""
	ActionAdded         Action = "added"
	ActionUpdated       Action = "updated"
	ActionUnchanged     Action = "unchanged"
	ActionPlannedAdd    Action = "planned-add"
	ActionPlannedUpdate Action = "planned-update"
)

// Options configures one reconciliation run.
type Options struct {
	GitmodulesPath string
	RemoteName     string
	ExecutionMode  shared.ExecutionMode
}

// Dependencies captures collaborators required to reconcile upstream remotes.
type Dependencies struct {
	RemoteManager shared.RemoteManager
	FileSystem    shared.FileSystem
	Output        io.Writer
	Logger        *zap.Logger
}

// EntryOutcome records what happened to one submodule.
type EntryOutcome struct {
	Name    string
	Path    string
	Outcome Outcome
	Action  Action
	Detail  string
}

// Statistics aggregates entry outcomes. Planned dry-run changes count as processed.
type Statistics struct {
	Processed int
	Skipped   int
	Errors    int
}

// Result is the full record of a run.
type Result struct {
	Statistics Statistics
	Entries    []EntryOutcome
}

// CompletionError returns ErrReconciliationIncomplete when any entry failed.
func (result Result) CompletionError() error {
	if result.Statistics.Errors == 0 {
		return nil
	}
	return fmt.Errorf(incompleteTemplate, ErrReconciliationIncomplete, result.Statistics.Errors, len(result.Entries))
}

// Reconciler ensures every initialized submodule has a remote pointing at its declared upstream.
type Reconciler struct {
	dependencies Dependencies
	reporter     shared.Reporter
}

// NewReconciler validates dependencies and constructs a Reconciler.
func NewReconciler(dependencies Dependencies) (*Reconciler, error) {
	if dependencies.RemoteManager == nil {
		return nil, ErrRemoteManagerNotConfigured
	}
	if dependencies.FileSystem == nil {
		return nil, ErrFileSystemNotConfigured
	}
	if dependencies.Logger == nil {
		dependencies.Logger = zap.NewNop()
	}
	return &Reconciler{dependencies: dependencies, reporter: shared.NewWriterReporter(dependencies.Output)}, nil
}

// Reconcile loads the .gitmodules file and processes its entries in name order.
// Only a missing or unreadable .gitmodules aborts the run; per-entry failures are recorded and processing continues.
func (reconciler *Reconciler) Reconcile(executionContext context.Context, options Options) (Result, error) {
	gitmodulesPath := options.GitmodulesPath
	if len(strings.TrimSpace(gitmodulesPath)) == 0 {
		gitmodulesPath = shared.GitModulesFileNameConstant
	}
	remoteName := strings.TrimSpace(options.RemoteName)
	if len(remoteName) == 0 {
		remoteName = shared.DefaultRemoteNameConstant
	}

	entries, loadError := gitmodules.Load(reconciler.dependencies.FileSystem, gitmodulesPath)
	if loadError != nil {
		return Result{}, loadError
	}

	baseDirectory := filepath.Dir(gitmodulesPath)
	result := Result{}
	for _, entry := range gitmodules.SortedEntries(entries) {
		entryOutcome := reconciler.reconcileEntry(executionContext, entry, baseDirectory, remoteName, options.ExecutionMode)
		result.Entries = append(result.Entries, entryOutcome)
		switch entryOutcome.Outcome {
		case OutcomeSuccess:
			result.Statistics.Processed++
		case OutcomeSkipped:
			result.Statistics.Skipped++
		case OutcomeError:
			result.Statistics.Errors++
		}
	}

	reconciler.printfOutput(summaryMessageTemplate, result.Statistics.Processed, result.Statistics.Skipped, result.Statistics.Errors)
	return result, nil
}

func (reconciler *Reconciler) reconcileEntry(executionContext context.Context, entry gitmodules.SubmoduleEntry, baseDirectory string, remoteName string, mode shared.ExecutionMode) EntryOutcome {
	entryOutcome := EntryOutcome{Name: entry.Name, Path: entry.Path}

	if !entry.HasPath() {
		return reconciler.skip(entryOutcome, missingPathReason)
	}
	if !entry.HasUpstream() {
		return reconciler.skip(entryOutcome, missingUpstreamReason)
	}

	submodulePath := entry.Path
	if !filepath.IsAbs(submodulePath) {
		submodulePath = filepath.Join(baseDirectory, submodulePath)
	}
	entryOutcome.Path = submodulePath

	directoryInfo, statError := reconciler.dependencies.FileSystem.Stat(submodulePath)
	if statError != nil || !directoryInfo.IsDir() {
		return reconciler.skip(entryOutcome, fmt.Sprintf(missingDirectoryReasonFormat, submodulePath))
	}
	if _, gitStatError := reconciler.dependencies.FileSystem.Stat(filepath.Join(submodulePath, shared.GitMetadataDirectoryNameConstant)); gitStatError != nil {
		return reconciler.skip(entryOutcome, fmt.Sprintf(uninitializedReasonFormat, submodulePath))
	}

	remoteManager := reconciler.dependencies.RemoteManager
	remoteNames, listError := remoteManager.ListRemotes(executionContext, submodulePath)
	if listError != nil {
		return reconciler.fail(entryOutcome, fmt.Errorf(listRemotesFailureFormat, listError))
	}

	if !slices.Contains(remoteNames, remoteName) {
		if mode.IsDryRun() {
			entryOutcome.Outcome = OutcomeSuccess
			entryOutcome.Action = ActionPlannedAdd
			entryOutcome.Detail = entry.Upstream
			reconciler.printfOutput(planAddMessageTemplate, entry.Name, remoteName, entry.Upstream)
			return entryOutcome
		}
		if addError := remoteManager.AddRemote(executionContext, submodulePath, remoteName, entry.Upstream); addError != nil {
			return reconciler.fail(entryOutcome, fmt.Errorf(addRemoteFailureFormat, remoteName, addError))
		}
		entryOutcome.Outcome = OutcomeSuccess
		entryOutcome.Action = ActionAdded
		entryOutcome.Detail = entry.Upstream
		reconciler.printfOutput(addedMessageTemplate, entry.Name, remoteName, entry.Upstream)
		return entryOutcome
	}

	currentURL, urlError := remoteManager.GetRemoteURL(executionContext, submodulePath, remoteName)
	if urlError != nil {
		return reconciler.fail(entryOutcome, fmt.Errorf(readRemoteFailureFormat, remoteName, urlError))
	}

	if currentURL == entry.Upstream {
		entryOutcome.Outcome = OutcomeSuccess
		entryOutcome.Action = ActionUnchanged
		entryOutcome.Detail = currentURL
		reconciler.printfOutput(unchangedMessageTemplate, entry.Name, remoteName, currentURL)
		return entryOutcome
	}

	if mode.IsDryRun() {
		entryOutcome.Outcome = OutcomeSuccess
		entryOutcome.Action = ActionPlannedUpdate
		entryOutcome.Detail = entry.Upstream
		reconciler.printfOutput(planUpdateMessageTemplate, entry.Name, remoteName, currentURL, entry.Upstream)
		return entryOutcome
	}

	if updateError := remoteManager.SetRemoteURL(executionContext, submodulePath, remoteName, entry.Upstream); updateError != nil {
		return reconciler.fail(entryOutcome, fmt.Errorf(updateRemoteFailureFormat, remoteName, updateError))
	}
	entryOutcome.Outcome = OutcomeSuccess
	entryOutcome.Action = ActionUpdated
	entryOutcome.Detail = entry.Upstream
	reconciler.printfOutput(updatedMessageTemplate, entry.Name, remoteName, entry.Upstream)
	return entryOutcome
}

func (reconciler *Reconciler) skip(entryOutcome EntryOutcome, reason string) EntryOutcome {
	entryOutcome.Outcome = OutcomeSkipped
	entryOutcome.Detail = reason
	reconciler.printfOutput(skipMessageTemplate, entryOutcome.Name, reason)
	return entryOutcome
}

func (reconciler *Reconciler) fail(entryOutcome EntryOutcome, failure error) EntryOutcome {
	entryOutcome.Outcome = OutcomeError
	entryOutcome.Detail = failure.Error()
	reconciler.dependencies.Logger.Warn(
		logMessageEntryFailed,
		zap.String(logFieldSubmoduleName, entryOutcome.Name),
		zap.String(logFieldSubmodulePath, entryOutcome.Path),
		zap.Error(failure),
	)
	reconciler.printfOutput(failureMessageTemplate, entryOutcome.Name, failure)
	return entryOutcome
}

func (reconciler *Reconciler) printfOutput(format string, arguments ...any) {
	reconciler.reporter.Printf(format, arguments...)
}
