// Package remotes configures the upstream remote of every submodule declared in an
// extended .gitmodules file, adding or repointing it as needed and reporting each
// decision as a tagged line.
package remotes
