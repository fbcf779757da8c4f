// Package gitrepo translates typed repository queries into git invocations.
//
// RepositoryManager implements the remote-management operations needed to
// configure upstream remotes and the read-only branch queries needed to measure
// divergence. Every call goes through an injected shared.GitExecutor, so tests
// can substitute scripted outputs for a real git binary.
package gitrepo
