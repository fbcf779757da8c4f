// Package cli constructs the gitupstream command-line interface, wiring the
// Cobra command hierarchy, the layered configuration loader and zap logging.
// The upstream-configure and branch-status commands live in the repos
// subpackage and receive their configuration and loggers through providers.
package cli
