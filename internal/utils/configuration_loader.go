package utils

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	mapstructure "github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"
	"github.com/tidwall/jsonc"
)

const (
	environmentKeySeparatorOldConstant              = "."
	environmentKeySeparatorNewConstant              = "_"
	configurationReadErrorTemplateConstant          = "failed to read configuration: %w"
	configurationUnmarshalErrorTemplateConstant     = "failed to parse configuration: %w"
	embeddedConfigurationMergeErrorTemplateConstant = "failed to merge embedded configuration: %w"
	commentedConfigurationReadErrorTemplateConstant = "failed to read configuration file %s: %w"
	jsonConfigurationTypeConstant                   = "json"
	jsonConfigurationExtensionConstant              = ".json"
	jsonWithCommentsConfigurationExtensionConstant  = ".jsonc"
	listValueSeparatorConstant                      = ","
)

// ConfigurationLoader wraps Viper to load structured configuration files and environment overrides.
type ConfigurationLoader struct {
	configurationName         string
	configurationType         string
	environmentPrefix         string
	searchPaths               []string
	environmentKeyReplacer    *strings.Replacer
	embeddedConfiguration     []byte
	embeddedConfigurationType string
}

// LoadedConfiguration surfaces metadata about the resolved configuration.
type LoadedConfiguration struct {
	ConfigFileUsed string
}

// NewConfigurationLoader creates a loader that searches known paths and respects an environment prefix.
func NewConfigurationLoader(configurationName string, configurationType string, environmentPrefix string, searchPaths []string) *ConfigurationLoader {
	duplicatedSearchPaths := make([]string, len(searchPaths))
	copy(duplicatedSearchPaths, searchPaths)

	return &ConfigurationLoader{
		configurationName:      configurationName,
		configurationType:      configurationType,
		environmentPrefix:      environmentPrefix,
		searchPaths:            duplicatedSearchPaths,
		environmentKeyReplacer: strings.NewReplacer(environmentKeySeparatorOldConstant, environmentKeySeparatorNewConstant),
	}
}

// SetEmbeddedConfiguration stores embedded configuration data merged before user-provided configuration files.
func (loader *ConfigurationLoader) SetEmbeddedConfiguration(configurationData []byte, configurationType string) {
	if loader == nil {
		return
	}

	loader.embeddedConfiguration = nil
	loader.embeddedConfigurationType = strings.TrimSpace(configurationType)

	if len(configurationData) == 0 {
		return
	}

	duplicatedData := make([]byte, len(configurationData))
	copy(duplicatedData, configurationData)
	loader.embeddedConfiguration = duplicatedData
}

// LoadConfiguration populates targetConfiguration using configuration files, defaults, and environment variables.
// Explicit .json and .jsonc files may carry comments and trailing commas.
func (loader *ConfigurationLoader) LoadConfiguration(configurationFilePath string, defaultValues map[string]any, targetConfiguration any) (LoadedConfiguration, error) {
	viperInstance := viper.New()
	viperInstance.SetConfigName(loader.configurationName)
	viperInstance.SetConfigType(loader.configurationType)

	if len(loader.embeddedConfiguration) > 0 {
		configurationType := loader.configurationType
		if len(loader.embeddedConfigurationType) > 0 {
			configurationType = loader.embeddedConfigurationType
		}

		viperInstance.SetConfigType(configurationType)
		mergeError := viperInstance.MergeConfig(bytes.NewReader(loader.embeddedConfiguration))
		if mergeError != nil {
			return LoadedConfiguration{}, fmt.Errorf(embeddedConfigurationMergeErrorTemplateConstant, mergeError)
		}

		viperInstance.SetConfigType(loader.configurationType)
	}

	for _, searchPath := range loader.searchPaths {
		viperInstance.AddConfigPath(searchPath)
	}

	viperInstance.SetEnvPrefix(loader.environmentPrefix)
	if loader.environmentKeyReplacer != nil {
		viperInstance.SetEnvKeyReplacer(loader.environmentKeyReplacer)
	}
	viperInstance.AutomaticEnv()

	for defaultKey, defaultValue := range defaultValues {
		viperInstance.SetDefault(defaultKey, defaultValue)
	}

	configFileUsed := ""
	if isCommentedJSONPath(configurationFilePath) {
		mergeError := mergeCommentedJSONConfiguration(viperInstance, configurationFilePath)
		if mergeError != nil {
			return LoadedConfiguration{}, mergeError
		}
		configFileUsed = configurationFilePath
	} else {
		if len(configurationFilePath) > 0 {
			viperInstance.SetConfigFile(configurationFilePath)
		}

		readError := viperInstance.MergeInConfig()
		if readError != nil {
			if _, isNotFound := readError.(viper.ConfigFileNotFoundError); !isNotFound {
				return LoadedConfiguration{}, fmt.Errorf(configurationReadErrorTemplateConstant, readError)
			}
		}
		configFileUsed = viperInstance.ConfigFileUsed()
	}

	decodeHook := viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(listValueSeparatorConstant),
		mapstructure.TextUnmarshallerHookFunc(),
	))

	unmarshalError := viperInstance.Unmarshal(targetConfiguration, decodeHook)
	if unmarshalError != nil {
		return LoadedConfiguration{}, fmt.Errorf(configurationUnmarshalErrorTemplateConstant, unmarshalError)
	}

	return LoadedConfiguration{ConfigFileUsed: configFileUsed}, nil
}

func isCommentedJSONPath(configurationFilePath string) bool {
	extension := strings.ToLower(filepath.Ext(configurationFilePath))
	return extension == jsonConfigurationExtensionConstant || extension == jsonWithCommentsConfigurationExtensionConstant
}

func mergeCommentedJSONConfiguration(viperInstance *viper.Viper, configurationFilePath string) error {
	rawConfiguration, readError := os.ReadFile(configurationFilePath)
	if readError != nil {
		return fmt.Errorf(commentedConfigurationReadErrorTemplateConstant, configurationFilePath, readError)
	}

	viperInstance.SetConfigType(jsonConfigurationTypeConstant)
	mergeError := viperInstance.MergeConfig(bytes.NewReader(jsonc.ToJSON(rawConfiguration)))
	if mergeError != nil {
		return fmt.Errorf(configurationReadErrorTemplateConstant, mergeError)
	}
	return nil
}
