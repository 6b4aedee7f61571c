package contract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"

	"github.com/huangsam/repopulse/schema"
)

// Color variables for console output.
var (
	FreshColor   = color.New(color.FgGreen)              // FreshColor marks recent or healthy values.
	WarningColor = color.New(color.FgYellow)             // WarningColor marks values that need attention.
	StaleColor   = color.New(color.FgRed, color.Bold)    // StaleColor marks old or failing values.
	InfoColor    = color.New(color.FgCyan)               // InfoColor is for informational labels.
	HitColor     = color.New(color.FgGreen, color.Bold)  // HitColor marks a cache hit.
	MissColor    = color.New(color.FgMagenta, color.Bold) // MissColor marks a cache miss.
)

// GetAgeColorLabel returns a colored aging bucket label for console output.
func GetAgeColorLabel(bucket string) string {
	switch bucket {
	case schema.AgeBucketWeek:
		return FreshColor.Sprint(bucket)
	case schema.AgeBucketMonth:
		return WarningColor.Sprint(bucket)
	case schema.AgeBucketOlder:
		return StaleColor.Sprint(bucket)
	default:
		return InfoColor.Sprint(bucket)
	}
}

// GetCacheColorLabel returns a colored cache outcome label for console output.
func GetCacheColorLabel(outcome schema.CacheOutcome) string {
	if outcome == schema.CacheHit {
		return HitColor.Sprint(string(outcome))
	}
	return MissColor.Sprint(string(outcome))
}

// GetStatusColorLabel renders a yes/no status for console output.
func GetStatusColorLabel(ok bool) string {
	if ok {
		return FreshColor.Sprint("yes")
	}
	return StaleColor.Sprint("no")
}

// SelectOutputFile returns the appropriate file handle for output, based on the provided
// file path. It falls back to os.Stdout when no path is set.
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

// GetCacheDBFilePath returns the path to the SQLite DB file for cache storage.
func GetCacheDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".repopulse_cache.db"
	}
	return filepath.Join(homeDir, ".repopulse_cache.db")
}

// GetSnapshotFilePath returns the path to the JSON document for the file backend.
func GetSnapshotFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".repopulse_cache.json"
	}
	return filepath.Join(homeDir, ".repopulse_cache.json")
}

// MaskToken hides all but the last four characters of a credential.
func MaskToken(token string) string {
	runes := []rune(token)
	if len(runes) <= 4 {
		return strings.Repeat("*", len(runes))
	}
	return strings.Repeat("*", len(runes)-4) + string(runes[len(runes)-4:])
}

// TokenLooksValid checks the shape of a hosting API token without calling the API.
func TokenLooksValid(token string) bool {
	token = strings.TrimSpace(token)
	if strings.HasPrefix(token, "ghp_") || strings.HasPrefix(token, "github_pat_") ||
		strings.HasPrefix(token, "gho_") || strings.HasPrefix(token, "ghs_") {
		return true
	}
	return len(token) >= 20
}

// TruncateText truncates text to a maximum width with an ellipsis suffix.
// Requires maxWidth > 3 so there is room for the ellipsis and at least one character.
func TruncateText(text string, maxWidth int) string {
	runes := []rune(text)
	if len(runes) > maxWidth && maxWidth > 3 {
		return string(runes[:maxWidth-3]) + "..."
	}
	return text
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
