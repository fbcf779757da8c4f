package repos

import (
	"strings"

	"github.com/temirov/gitupstream/internal/report"
	"github.com/temirov/gitupstream/internal/repos/shared"
)

const (
	upstreamConfigurationKeyConstant        = "upstream"
	statusConfigurationKeyConstant          = "status"
	configurationRemoteKeyConstant          = "remote"
	configurationDryRunKeyConstant          = "dry_run"
	configurationGitmodulesKeyConstant      = "gitmodules"
	configurationBranchPatternKeyConstant   = "branch_pattern"
	configurationAllSubmodulesKeyConstant   = "all_submodules"
	configurationFormatKeyConstant          = "format"
	configurationFetchKeyConstant           = "fetch"
	configurationColorKeyConstant           = "color"
	configurationParallelismKeyConstant     = "parallelism"
	configurationKeySeparatorConstant       = "."
	defaultRepositoryPathConstant           = "."
	defaultBranchPatternConstant            = "*"
	defaultStatusParallelismConstant        = 1
	upstreamConfigurationPathPrefixConstant = upstreamConfigurationKeyConstant + configurationKeySeparatorConstant
	statusConfigurationPathPrefixConstant   = statusConfigurationKeyConstant + configurationKeySeparatorConstant
)

// ToolsConfiguration captures configuration sections for the upstream and status commands.
type ToolsConfiguration struct {
	Upstream UpstreamConfiguration `mapstructure:"upstream"`
	Status   StatusConfiguration   `mapstructure:"status"`
}

// UpstreamConfiguration describes configuration values for upstream-configure.
type UpstreamConfiguration struct {
	RemoteName     string `mapstructure:"remote"`
	DryRun         bool   `mapstructure:"dry_run"`
	GitmodulesPath string `mapstructure:"gitmodules"`
}

// StatusConfiguration describes configuration values for branch-status.
type StatusConfiguration struct {
	RemoteName    string `mapstructure:"remote"`
	BranchPattern string `mapstructure:"branch_pattern"`
	AllSubmodules bool   `mapstructure:"all_submodules"`
	Format        string `mapstructure:"format"`
	Fetch         bool   `mapstructure:"fetch"`
	Color         string `mapstructure:"color"`
	Parallelism   int    `mapstructure:"parallelism"`
}

// DefaultToolsConfiguration returns baseline configuration values for both commands.
func DefaultToolsConfiguration() ToolsConfiguration {
	return ToolsConfiguration{
		Upstream: UpstreamConfiguration{
			RemoteName:     shared.DefaultRemoteNameConstant,
			DryRun:         false,
			GitmodulesPath: shared.GitModulesFileNameConstant,
		},
		Status: StatusConfiguration{
			RemoteName:    shared.DefaultRemoteNameConstant,
			BranchPattern: defaultBranchPatternConstant,
			AllSubmodules: false,
			Format:        string(report.FormatTable),
			Fetch:         true,
			Color:         string(report.ColorAuto),
			Parallelism:   defaultStatusParallelismConstant,
		},
	}
}

// DefaultConfigurationValues produces Viper defaults rooted at rootKey.
func DefaultConfigurationValues(rootKey string) map[string]any {
	defaults := DefaultToolsConfiguration()
	upstreamPrefix := rootKey + configurationKeySeparatorConstant + upstreamConfigurationPathPrefixConstant
	statusPrefix := rootKey + configurationKeySeparatorConstant + statusConfigurationPathPrefixConstant
	return map[string]any{
		upstreamPrefix + configurationRemoteKeyConstant:      defaults.Upstream.RemoteName,
		upstreamPrefix + configurationDryRunKeyConstant:      defaults.Upstream.DryRun,
		upstreamPrefix + configurationGitmodulesKeyConstant:  defaults.Upstream.GitmodulesPath,
		statusPrefix + configurationRemoteKeyConstant:        defaults.Status.RemoteName,
		statusPrefix + configurationBranchPatternKeyConstant: defaults.Status.BranchPattern,
		statusPrefix + configurationAllSubmodulesKeyConstant: defaults.Status.AllSubmodules,
		statusPrefix + configurationFormatKeyConstant:        defaults.Status.Format,
		statusPrefix + configurationFetchKeyConstant:         defaults.Status.Fetch,
		statusPrefix + configurationColorKeyConstant:         defaults.Status.Color,
		statusPrefix + configurationParallelismKeyConstant:   defaults.Status.Parallelism,
	}
}

// sanitize fills blank upstream values with defaults.
func (configuration UpstreamConfiguration) sanitize() UpstreamConfiguration {
	defaults := DefaultToolsConfiguration().Upstream
	sanitized := configuration
	sanitized.RemoteName = valueOrDefault(configuration.RemoteName, defaults.RemoteName)
	sanitized.GitmodulesPath = valueOrDefault(configuration.GitmodulesPath, defaults.GitmodulesPath)
	return sanitized
}

// sanitize fills blank status values with defaults and clamps parallelism.
func (configuration StatusConfiguration) sanitize() StatusConfiguration {
	defaults := DefaultToolsConfiguration().Status
	sanitized := configuration
	sanitized.RemoteName = valueOrDefault(configuration.RemoteName, defaults.RemoteName)
	sanitized.BranchPattern = valueOrDefault(configuration.BranchPattern, defaults.BranchPattern)
	sanitized.Format = valueOrDefault(configuration.Format, defaults.Format)
	sanitized.Color = valueOrDefault(configuration.Color, defaults.Color)
	if sanitized.Parallelism < defaultStatusParallelismConstant {
		sanitized.Parallelism = defaultStatusParallelismConstant
	}
	return sanitized
}

func valueOrDefault(value string, defaultValue string) string {
	trimmedValue := strings.TrimSpace(value)
	if len(trimmedValue) == 0 {
		return defaultValue
	}
	return trimmedValue
}
