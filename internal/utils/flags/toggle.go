package flags

import (
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

const (
	toggleLongPrefix                       = "--"
	toggleValueSeparator                   = "="
	toggleArgumentTerminator               = "--"
	toggleValueType                        = "bool"
	toggleParseErrorTemplate               = "invalid toggle value %q (use yes or no)"
	toggleArgumentTruePlaceholderConstant  = "<YES|no>"
	toggleArgumentFalsePlaceholderConstant = "<yes|NO>"
)

// toggleLiterals maps every accepted spelling to its boolean value.
var toggleLiterals = map[string]bool{
	"true": true, "yes": true, "on": true, "1": true, "t": true, "y": true,
	"false": false, "no": false, "off": false, "0": false, "f": false, "n": false,
}

var (
	toggleFlagRegistryMutex sync.RWMutex
	toggleFlagNames         = map[string]struct{}{}
)

// AddToggleFlag registers a boolean flag that also accepts yes/no style values, either as
// --name=value or, after NormalizeToggleArguments, as --name value.
func AddToggleFlag(flagSet *pflag.FlagSet, target *bool, name string, defaultValue bool, usage string) {
	if flagSet == nil || len(name) == 0 {
		return
	}

	flagSet.Var(newToggleFlagValue(defaultValue, target), name, formatToggleUsage(usage, defaultValue))
	flagSet.Lookup(name).NoOptDefVal = strconv.FormatBool(true)

	toggleFlagRegistryMutex.Lock()
	defer toggleFlagRegistryMutex.Unlock()
	toggleFlagNames[name] = struct{}{}
}

// ResolveToggleFlag returns the flag value when it was set on the command line and configuredValue otherwise.
func ResolveToggleFlag(command *cobra.Command, name string, configuredValue bool) (bool, error) {
	if command == nil || !command.Flags().Changed(name) {
		return configuredValue, nil
	}
	return command.Flags().GetBool(name)
}

// NormalizeToggleArguments rewrites "--flag value" into "--flag=value" for registered toggle flags.
// Only recognized yes/no literals are joined; any other following argument stays positional.
func NormalizeToggleArguments(arguments []string) []string {
	if len(arguments) == 0 {
		return nil
	}

	normalized := make([]string, 0, len(arguments))
	for index := 0; index < len(arguments); index++ {
		current := arguments[index]
		if current == toggleArgumentTerminator {
			normalized = append(normalized, arguments[index:]...)
			break
		}

		if isBareToggleFlag(current) && index+1 < len(arguments) && isToggleLiteral(arguments[index+1]) {
			normalized = append(normalized, current+toggleValueSeparator+arguments[index+1])
			index++
			continue
		}
		normalized = append(normalized, current)
	}

	return normalized
}

func formatToggleUsage(description string, defaultValue bool) string {
	placeholder := toggleArgumentFalsePlaceholderConstant
	if defaultValue {
		placeholder = toggleArgumentTruePlaceholderConstant
	}
	trimmed := strings.TrimSpace(description)
	if len(trimmed) == 0 {
		return fmt.Sprintf("`%s`", placeholder)
	}
	return fmt.Sprintf("`%s` %s", placeholder, trimmed)
}

type toggleFlagValue struct {
	currentValue bool
	target       *bool
}

func newToggleFlagValue(defaultValue bool, target *bool) *toggleFlagValue {
	if target != nil {
		*target = defaultValue
	}
	return &toggleFlagValue{currentValue: defaultValue, target: target}
}

func (value *toggleFlagValue) Set(rawValue string) error {
	parsedValue, known := toggleLiterals[strings.ToLower(strings.TrimSpace(rawValue))]
	if !known {
		return fmt.Errorf(toggleParseErrorTemplate, rawValue)
	}

	value.currentValue = parsedValue
	if value.target != nil {
		*value.target = parsedValue
	}
	return nil
}

func (value *toggleFlagValue) String() string {
	if value == nil {
		return strconv.FormatBool(false)
	}
	return strconv.FormatBool(value.currentValue)
}

// Type reports bool so pflag's GetBool reads toggle flags.
func (value *toggleFlagValue) Type() string {
	return toggleValueType
}

// isBareToggleFlag reports whether argument is --name for a registered toggle, without an inline value.
func isBareToggleFlag(argument string) bool {
	if !strings.HasPrefix(argument, toggleLongPrefix) || strings.Contains(argument, toggleValueSeparator) {
		return false
	}
	name := strings.TrimPrefix(argument, toggleLongPrefix)

	toggleFlagRegistryMutex.RLock()
	defer toggleFlagRegistryMutex.RUnlock()
	_, registered := toggleFlagNames[name]
	return registered
}

func isToggleLiteral(value string) bool {
	_, known := toggleLiterals[strings.ToLower(strings.TrimSpace(value))]
	return known
}
