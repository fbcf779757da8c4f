package discovery

import (
	"fmt"
	"path/filepath"

	"github.com/temirov/gitupstream/internal/gitmodules"
	"github.com/temirov/gitupstream/internal/repos/shared"
)

const discoveryErrorTemplateConstant = "discover submodules of %s: %w"

// GitmodulesSubmoduleDiscoverer lists submodule working trees declared in a repository's .gitmodules.
type GitmodulesSubmoduleDiscoverer struct {
	fileSystem shared.FileSystem
}

// NewGitmodulesSubmoduleDiscoverer constructs a discoverer reading through fileSystem.
func NewGitmodulesSubmoduleDiscoverer(fileSystem shared.FileSystem) *GitmodulesSubmoduleDiscoverer {
	return &GitmodulesSubmoduleDiscoverer{fileSystem: fileSystem}
}

// DiscoverSubmodules returns the working tree of every declared submodule in name order.
// Uninitialized submodules are included; analyzing them reports a missing repository.
func (discoverer *GitmodulesSubmoduleDiscoverer) DiscoverSubmodules(repositoryPath string) ([]string, error) {
	gitmodulesPath := filepath.Join(repositoryPath, shared.GitModulesFileNameConstant)
	entries, loadError := gitmodules.Load(discoverer.fileSystem, gitmodulesPath)
	if loadError != nil {
		return nil, fmt.Errorf(discoveryErrorTemplateConstant, repositoryPath, loadError)
	}

	var submodulePaths []string
	for _, entry := range gitmodules.SortedEntries(entries) {
		if !entry.HasPath() {
			continue
		}
		submodulePath := entry.Path
		if !filepath.IsAbs(submodulePath) {
			submodulePath = filepath.Join(repositoryPath, submodulePath)
		}
		submodulePaths = append(submodulePaths, submodulePath)
	}
	return submodulePaths, nil
}
