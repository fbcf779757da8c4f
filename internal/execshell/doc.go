// Package execshell is the single place where gitupstream starts external
// processes.
//
// ShellExecutor wraps a CommandRunner with zap logging and lifecycle
// observers, always passing arguments as an explicit list so branch names and
// remote URLs never reach a shell. Non-zero exit codes surface as
// CommandFailedError so callers can tell failure apart from empty output.
package execshell
