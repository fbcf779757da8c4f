// Package ui provides helpers for formatting human-readable console output.
//
// ConsoleCommandEventLogger turns git command lifecycle events into short
// sentences for --verbose runs, while structured command logs continue to flow
// through the executor's zap logger.
package ui
