// Package shared holds the collaborator interfaces, policies and constants used by
// the upstream reconciler, the branch divergence analyzer and their command builders.
package shared
