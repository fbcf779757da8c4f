// Package utils exposes reusable helpers consumed by the gitupstream commands.
//
// ConfigurationLoader layers embedded defaults, config files (YAML or JSON with
// comments), GITUPSTREAM_ environment variables and decode hooks on top of Viper.
// LoggerFactory builds the zap diagnostic and console loggers, both on stderr.
package utils
