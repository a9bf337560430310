package output

import "strings"

// Format specifies the report output format.
type Format string

const (
	// FormatTable renders a styled summary table.
	FormatTable Format = "table"

	// FormatYAML outputs the report as YAML.
	FormatYAML Format = "yaml"

	// FormatJSON outputs the report as JSON.
	FormatJSON Format = "json"
)

// String returns the string representation of the output format.
func (f Format) String() string {
	return string(f)
}

// ParseFormat parses a string into a Format.
// The second return value is false for unknown formats.
func ParseFormat(s string) (Format, bool) {
	switch strings.ToLower(s) {
	case "", "table":
		return FormatTable, true
	case "yaml", "yml":
		return FormatYAML, true
	case "json":
		return FormatJSON, true
	default:
		return FormatTable, false
	}
}

// ValidFormats returns a slice of valid output format strings.
func ValidFormats() []string {
	return []string{"table", "yaml", "json"}
}
