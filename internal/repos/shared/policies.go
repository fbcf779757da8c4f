package shared

// ExecutionMode specifies whether executors mutate repositories or only report intended changes.
type ExecutionMode int

const (
	// ExecutionApply performs mutating git operations.
	ExecutionApply ExecutionMode = iota
	// ExecutionDryRun reports planned operations without running them.
	ExecutionDryRun
)

// ExecutionModeFromBool converts a dry-run flag into a mode.
func ExecutionModeFromBool(dryRun bool) ExecutionMode {
	if dryRun {
		return ExecutionDryRun
	}
	return ExecutionApply
}

// IsDryRun reports whether mutating operations must be skipped.
func (mode ExecutionMode) IsDryRun() bool {
	return mode == ExecutionDryRun
}

// FetchPolicy describes whether the remote is refreshed before branches are compared.
type FetchPolicy int

const (
	// FetchBeforeAnalysis fetches the remote first; failures are tolerated.
	FetchBeforeAnalysis FetchPolicy = iota
	// FetchSkipped compares against whatever remote refs are already present.
	FetchSkipped
)

// FetchPolicyFromBool converts a fetch toggle into a policy value.
func FetchPolicyFromBool(fetch bool) FetchPolicy {
	if fetch {
		return FetchBeforeAnalysis
	}
	return FetchSkipped
}

// ShouldFetch reports whether the remote is fetched.
func (policy FetchPolicy) ShouldFetch() bool {
	return policy == FetchBeforeAnalysis
}
