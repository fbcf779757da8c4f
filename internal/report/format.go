package report

import (
	"errors"
	"io"
	"os"

	"github.com/mattn/go-isatty"
)

// Format selects a renderer.
type Format string

// Supported formats.
const (
	FormatTable Format = "table"
	FormatJSON  Format = "json"
	FormatCSV   Format = "csv"
	FormatYAML  Format = "yaml"
)

// ColorMode controls ANSI styling of the table renderer.
type ColorMode string

// Color modes.
const (
	ColorAuto   ColorMode = "auto"
	ColorAlways ColorMode = "always"
	ColorNever  ColorMode = "never"
)

const (
	unsupportedFormatMessageConstant    = "unsupported report format"
	unsupportedColorModeMessageConstant = "unsupported color mode"
	unsupportedValueTemplateConstant    = "%w %q (supported: %s)"
	choiceSeparatorConstant             = ", "
)

var (
	// ErrUnsupportedFormat indicates a format name outside SupportedFormats.
	ErrUnsupportedFormat = errors.New(unsupportedFormatMessageConstant)
	// ErrUnsupportedColorMode indicates a color mode outside SupportedColorModes.
	ErrUnsupportedColorMode = errors.New(unsupportedColorModeMessageConstant)
)

// SupportedFormats lists format names in help order.
func SupportedFormats() []string {
	return []string{string(FormatTable), string(FormatJSON), string(FormatCSV), string(FormatYAML)}
}

// SupportedColorModes lists color modes in help order.
func SupportedColorModes() []string {
	return []string{string(ColorAuto), string(ColorAlways), string(ColorNever)}
}

// ColorEnabled resolves a mode against the destination; auto enables color only for terminals.
func ColorEnabled(mode ColorMode, writer io.Writer) bool {
	switch mode {
	case ColorAlways:
		return true
	case ColorNever:
		return false
	default:
		file, isFile := writer.(*os.File)
		if !isFile {
			return false
		}
		return isatty.IsTerminal(file.Fd()) || isatty.IsCygwinTerminal(file.Fd())
	}
}
