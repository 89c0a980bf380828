// Package validation provides advisory linting of cloud-init input files.
// Conversion itself never validates; this exists so callers can check a
// document before handing it to the converter.
package validation

import (
	"fmt"
	"os"
	"regexp"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Severity represents the severity of a validation issue.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Issue represents a validation issue found in an input file.
type Issue struct {
	File     string   `json:"file"`
	Field    string   `json:"field,omitempty"`
	Message  string   `json:"message"`
	Severity Severity `json:"severity"`
}

// Result holds all validation results.
type Result struct {
	Issues []Issue `json:"issues"`
}

// HasErrors returns true if there are any error-level issues.
func (r *Result) HasErrors() bool {
	for _, issue := range r.Issues {
		if issue.Severity == SeverityError {
			return true
		}
	}
	return false
}

// ErrorCount returns the number of error-level issues.
func (r *Result) ErrorCount() int {
	count := 0
	for _, issue := range r.Issues {
		if issue.Severity == SeverityError {
			count++
		}
	}
	return count
}

// WarningCount returns the number of warning-level issues.
func (r *Result) WarningCount() int {
	count := 0
	for _, issue := range r.Issues {
		if issue.Severity == SeverityWarning {
			count++
		}
	}
	return count
}

// knownKeys are the top-level keys the converter acts on. Anything else is
// skipped during conversion, which is worth a warning here.
var knownKeys = map[string]bool{
	"ssh_pwauth":  true,
	"packages":    true,
	"write_files": true,
	"runcmd":      true,
}

// octalPermissions matches the permission strings cloud-init expects.
var octalPermissions = regexp.MustCompile(`^[0-7]{3,4}$`)

// ValidateFile validates the cloud-init document at path. The only
// returned error is an I/O failure reading the file.
func ValidateFile(path string) (*Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read cloud-init file: %w", err)
	}
	return Validate(path, data), nil
}

// Validate lints a cloud-init document. The file argument is only used to
// label issues.
func Validate(file string, data []byte) *Result {
	result := &Result{Issues: []Issue{}}

	// Tabs are reported first: they are the usual reason the YAML below
	// fails to parse.
	result.Issues = append(result.Issues, checkTabs(file, data)...)

	var doc map[string]any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		result.Issues = append(result.Issues, Issue{
			File:     file,
			Message:  fmt.Sprintf("not a valid YAML mapping: %v", err),
			Severity: SeverityError,
		})
		return result
	}

	result.Issues = append(result.Issues, checkKeys(file, doc)...)
	result.Issues = append(result.Issues, checkWriteFiles(file, doc)...)

	return result
}

// checkTabs warns about tab indentation, which the converter's
// indentation-sensitive parser does not support.
func checkTabs(file string, data []byte) []Issue {
	issues := []Issue{}
	for n, line := range strings.Split(string(data), "\n") {
		if strings.HasPrefix(line, "\t") {
			issues = append(issues, Issue{
				File:     file,
				Message:  fmt.Sprintf("line %d uses tab indentation, which the converter does not support", n+1),
				Severity: SeverityWarning,
			})
		}
	}
	return issues
}

// checkKeys warns about top-level keys the converter will skip.
func checkKeys(file string, doc map[string]any) []Issue {
	issues := []Issue{}
	keys := make([]string, 0, len(doc))
	for key := range doc {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		if !knownKeys[key] {
			issues = append(issues, Issue{
				File:     file,
				Field:    key,
				Message:  fmt.Sprintf("top-level key %q is not handled and will be skipped", key),
				Severity: SeverityWarning,
			})
		}
	}
	return issues
}

// checkWriteFiles warns about write_files entries the converter would
// silently degrade: missing paths and non-octal permission strings.
func checkWriteFiles(file string, doc map[string]any) []Issue {
	issues := []Issue{}

	entries, ok := doc["write_files"].([]any)
	if !ok {
		return issues
	}

	for idx, raw := range entries {
		entry, ok := raw.(map[string]any)
		if !ok {
			continue
		}

		if path, _ := entry["path"].(string); path == "" {
			issues = append(issues, Issue{
				File:     file,
				Field:    fmt.Sprintf("write_files[%d]", idx),
				Message:  "entry has no path and will produce a useless file block",
				Severity: SeverityWarning,
			})
		}

		if perms, ok := entry["permissions"].(string); ok && !octalPermissions.MatchString(perms) {
			issues = append(issues, Issue{
				File:     file,
				Field:    fmt.Sprintf("write_files[%d].permissions", idx),
				Message:  fmt.Sprintf("permissions %q does not look like an octal mode", perms),
				Severity: SeverityWarning,
			})
		}
	}

	return issues
}
