package contract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/huangsam/hubtrend/schema"
)

// Phase label constants.
const (
	OKValue     = "OK"     // Phase returned records
	EmptyValue  = "Empty"  // Phase succeeded with zero records
	FailedValue = "Failed" // Phase call failed
)

// Color variables for console output.
var (
	OKColor     = color.New(color.FgGreen)            // OKColor represents a healthy phase.
	EmptyColor  = color.New(color.FgYellow)           // EmptyColor represents caution, not bold.
	FailedColor = color.New(color.FgRed, color.Bold)  // FailedColor represents standard danger.
	HeaderColor = color.New(color.FgCyan, color.Bold) // HeaderColor is used for section titles.
)

// GetPlainLabel returns a plain text label for a phase status. This is the
// core logic used for CSV, JSON, and table printing.
func GetPlainLabel(status schema.PhaseStatus) string {
	switch status {
	case schema.PhaseOK:
		return OKValue
	case schema.PhaseEmpty:
		return EmptyValue
	default:
		return FailedValue
	}
}

// GetColorLabel returns a colored text label for console output (table).
func GetColorLabel(status schema.PhaseStatus) string {
	text := GetPlainLabel(status)

	switch text {
	case OKValue:
		return OKColor.Sprint(text)
	case EmptyValue:
		return EmptyColor.Sprint(text)
	default:
		return FailedColor.Sprint(text)
	}
}

// SelectOutputFile returns the appropriate file handle for output, based on the provided
// file path. An empty path means os.Stdout.
func SelectOutputFile(filePath string) (*os.File, error) {
	if filePath == "" {
		return os.Stdout, nil
	}
	return os.Create(filePath)
}

// LogFatal logs an error and exits the program.
func LogFatal(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Fatal %s: %v\n", msg, err)
	os.Exit(1)
}

// LogWarn logs a warning message to stderr.
func LogWarn(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Warn %s: %v\n", msg, err)
}

// GetDBFilePath returns the path to the SQLite DB file for hub data storage.
func GetDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".hubtrend.db"
	}
	return filepath.Join(homeDir, ".hubtrend.db")
}

// TruncateText truncates a value to a maximum width with an ellipsis suffix.
// Requires maxWidth > 3 to leave room for the "..." and at least one character.
func TruncateText(s string, maxWidth int) string {
	runes := []rune(s)
	if len(runes) > maxWidth && maxWidth > 3 {
		return string(runes[:maxWidth-3]) + "..."
	}
	return s
}

// ParseBoolString parses a string value into a boolean.
// Accepts "yes", "no", "true", "false", "1", "0" (case-insensitive).
// Returns an error for invalid values.
func ParseBoolString(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "yes", "true", "1":
		return true, nil
	case "no", "false", "0":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean string: %s (expected yes/no/true/false/1/0)", s)
	}
}

// Deref returns the pointed-to string or a placeholder for nil.
func Deref(s *string, placeholder string) string {
	if s == nil {
		return placeholder
	}
	return *s
}
