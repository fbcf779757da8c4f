package flags

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

const (
	choicePlaceholderPrefix    = "<"
	choicePlaceholderSuffix    = ">"
	choiceSeparatorLiteral     = "|"
	choiceListSeparatorLiteral = ", "
	choiceUsageEmptyTemplate   = "`%s`"
	choiceUsageFullTemplate    = "`%s` %s"
	unsupportedChoiceTemplate  = "%w %q (supported: %s)"
	unsupportedChoiceMessage   = "unsupported value"
)

// ErrUnsupportedChoice is wrapped when a definition names no sentinel of its own.
var ErrUnsupportedChoice = errors.New(unsupportedChoiceMessage)

// ChoiceFlagDefinition describes a string flag restricted to a fixed list of values.
// Unsupported is wrapped into the error returned for values outside Choices.
type ChoiceFlagDefinition struct {
	Name        string
	Default     string
	Choices     []string
	Description string
	Unsupported error
}

// BindChoiceFlag registers the flag with a usage placeholder that highlights the default choice.
func BindChoiceFlag(command *cobra.Command, definition ChoiceFlagDefinition) {
	if command == nil || len(strings.TrimSpace(definition.Name)) == 0 {
		return
	}
	command.Flags().String(definition.Name, definition.Default, FormatChoiceUsage(definition.Default, definition.Choices, definition.Description))
}

// ResolveChoiceFlag validates the flag value when it was set on the command line and the configured value otherwise.
// The result is trimmed and lower-cased.
func ResolveChoiceFlag(command *cobra.Command, definition ChoiceFlagDefinition, configuredValue string) (string, error) {
	candidateValue := configuredValue
	if command != nil && command.Flags().Changed(definition.Name) {
		flagValue, lookupError := command.Flags().GetString(definition.Name)
		if lookupError != nil {
			return "", lookupError
		}
		candidateValue = flagValue
	}
	return ValidateChoice(candidateValue, definition.Choices, definition.Unsupported)
}

// ValidateChoice normalizes value and reports whether it is one of choices, ignoring case and surrounding space.
func ValidateChoice(value string, choices []string, unsupported error) (string, error) {
	normalizedValue := strings.ToLower(strings.TrimSpace(value))
	for _, choice := range choices {
		if normalizedValue == strings.ToLower(strings.TrimSpace(choice)) && len(normalizedValue) > 0 {
			return normalizedValue, nil
		}
	}
	if unsupported == nil {
		unsupported = ErrUnsupportedChoice
	}
	return "", fmt.Errorf(unsupportedChoiceTemplate, unsupported, value, strings.Join(choices, choiceListSeparatorLiteral))
}

// FormatChoiceUsage builds a usage string where the default option is capitalized inside a placeholder.
func FormatChoiceUsage(defaultChoice string, choices []string, description string) string {
	placeholder := buildChoicePlaceholder(defaultChoice, choices)
	if len(strings.TrimSpace(description)) == 0 {
		return fmt.Sprintf(choiceUsageEmptyTemplate, placeholder)
	}
	return fmt.Sprintf(choiceUsageFullTemplate, placeholder, description)
}

func buildChoicePlaceholder(defaultChoice string, choices []string) string {
	normalizedDefault := strings.ToLower(strings.TrimSpace(defaultChoice))
	highlighted := make([]string, 0, len(choices))
	seen := make(map[string]struct{}, len(choices))

	for _, choice := range choices {
		trimmedChoice := strings.TrimSpace(choice)
		normalizedChoice := strings.ToLower(trimmedChoice)
		if _, exists := seen[normalizedChoice]; exists || len(trimmedChoice) == 0 {
			continue
		}
		seen[normalizedChoice] = struct{}{}

		if normalizedChoice == normalizedDefault {
			trimmedChoice = strings.ToUpper(trimmedChoice)
		}
		highlighted = append(highlighted, trimmedChoice)
	}

	return choicePlaceholderPrefix + strings.Join(highlighted, choiceSeparatorLiteral) + choicePlaceholderSuffix
}
