package dependencies

import (
	"go.uber.org/zap"

	"github.com/temirov/gitupstream/internal/execshell"
	"github.com/temirov/gitupstream/internal/gitrepo"
	"github.com/temirov/gitupstream/internal/repos/discovery"
	"github.com/temirov/gitupstream/internal/repos/filesystem"
	"github.com/temirov/gitupstream/internal/repos/shared"
)

// ResolveSubmoduleDiscoverer returns the provided discoverer or a .gitmodules-backed default.
func ResolveSubmoduleDiscoverer(existing shared.SubmoduleDiscoverer, fileSystem shared.FileSystem) shared.SubmoduleDiscoverer {
	if existing != nil {
		return existing
	}
	return discovery.NewGitmodulesSubmoduleDiscoverer(ResolveFileSystem(fileSystem))
}

// ResolveFileSystem returns the provided filesystem or an OS-backed default.
func ResolveFileSystem(existing shared.FileSystem) shared.FileSystem {
	if existing != nil {
		return existing
	}
	return filesystem.OSFileSystem{}
}

// ResolveClock returns the provided clock or the system clock.
func ResolveClock(existing shared.Clock) shared.Clock {
	if existing != nil {
		return existing
	}
	return shared.SystemClock{}
}

// ResolveGitExecutor returns the provided executor or constructs a shell-backed default
// that reports every command to the supplied observers.
func ResolveGitExecutor(existing shared.GitExecutor, logger *zap.Logger, observers ...execshell.CommandEventObserver) (shared.GitExecutor, error) {
	if existing != nil {
		return existing, nil
	}

	commandRunner := execshell.NewOSCommandRunner()
	shellExecutor, creationError := execshell.NewShellExecutor(logger, commandRunner, observers...)
	if creationError != nil {
		return nil, creationError
	}
	return shellExecutor, nil
}

// ResolveRepositoryManager constructs a git-backed repository manager from the executor.
func ResolveRepositoryManager(executor shared.GitExecutor) (*gitrepo.RepositoryManager, error) {
	return gitrepo.NewRepositoryManager(executor)
}
