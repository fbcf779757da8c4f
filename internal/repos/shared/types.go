package shared

import (
	"context"
	"io/fs"
	"time"

	"github.com/temirov/gitupstream/internal/execshell"
)

const (
	// DefaultRemoteNameConstant names the remote both tools manage and compare against by default.
	DefaultRemoteNameConstant = "upstream"
	// GitMetadataDirectoryNameConstant is the entry that marks an initialized repository or submodule.
	GitMetadataDirectoryNameConstant = ".git"
	// GitModulesFileNameConstant is the submodule declaration file at a repository root.
	GitModulesFileNameConstant = ".gitmodules"
)

// Clock abstracts time acquisition for deterministic testing.
type Clock interface {
	Now() time.Time
}

// SystemClock implements Clock using the system time source.
type SystemClock struct{}

// Now returns the current system time.
func (SystemClock) Now() time.Time {
	return time.Now()
}

// FileSystem exposes filesystem operations required by repository services.
type FileSystem interface {
	Stat(path string) (fs.FileInfo, error)
	ReadFile(path string) ([]byte, error)
}

// GitExecutor exposes the subset of shell execution used by repository services.
type GitExecutor interface {
	ExecuteGit(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error)
}

// RemoteManager exposes the remote-management operations used by the upstream reconciler.
type RemoteManager interface {
	ListRemotes(executionContext context.Context, repositoryPath string) ([]string, error)
	GetRemoteURL(executionContext context.Context, repositoryPath string, remoteName string) (string, error)
	AddRemote(executionContext context.Context, repositoryPath string, remoteName string, remoteURL string) error
	SetRemoteURL(executionContext context.Context, repositoryPath string, remoteName string, remoteURL string) error
}

// BranchInspector exposes the read-only branch queries used by the divergence analyzer.
type BranchInspector interface {
	FetchRemote(executionContext context.Context, repositoryPath string, remoteName string) error
	ResolveDefaultBranch(executionContext context.Context, repositoryPath string, remoteName string) (string, error)
	ListLocalBranches(executionContext context.Context, repositoryPath string) ([]string, error)
	ResolveRevision(executionContext context.Context, repositoryPath string, reference string) (string, error)
	ResolveUpstreamReference(executionContext context.Context, repositoryPath string, branchName string) (string, error)
	VerifyReference(executionContext context.Context, repositoryPath string, reference string) (bool, error)
	CountDivergence(executionContext context.Context, repositoryPath string, trackingReference string, branchName string) (DivergenceCount, error)
}

// DivergenceCount holds commit counts reachable from only one side of a tracking...branch range.
type DivergenceCount struct {
	Ahead  int
	Behind int
}

// SubmoduleDiscoverer lists initialized submodule working trees declared by a repository.
type SubmoduleDiscoverer interface {
	DiscoverSubmodules(repositoryPath string) ([]string, error)
}
