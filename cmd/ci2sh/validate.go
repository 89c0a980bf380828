package main

import (
	"fmt"

	"github.com/jaspreet-dot-casa/cloud-init-to-bash/pkg/validation"
	"github.com/spf13/cobra"
)

// newValidateCmd creates the validate subcommand
func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <cloud-init-yaml-path>",
		Short: "Check a cloud-init file before converting it",
		Long: `Check that a cloud-init file is well-formed YAML and warn about
constructs the converter will skip or silently degrade (unknown top-level
keys, tab indentation, write_files entries without a path).

Conversion itself never validates; this is a separate preflight check.`,
		Args: cobra.ExactArgs(1),
		RunE: runValidate,
	}
}

// runValidate lints the given cloud-init file and prints any issues.
func runValidate(cmd *cobra.Command, args []string) error {
	result, err := validation.ValidateFile(args[0])
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for _, issue := range result.Issues {
		prefix := "WARNING"
		if issue.Severity == validation.SeverityError {
			prefix = "ERROR"
		}

		if issue.Field != "" {
			fmt.Fprintf(out, "[%s] %s: %s (%s)\n", prefix, issue.File, issue.Message, issue.Field)
		} else {
			fmt.Fprintf(out, "[%s] %s: %s\n", prefix, issue.File, issue.Message)
		}
	}

	if result.HasErrors() {
		return fmt.Errorf("validation failed with %d error(s)", result.ErrorCount())
	}

	if len(result.Issues) == 0 {
		fmt.Fprintln(out, "No issues found.")
	} else {
		fmt.Fprintf(out, "\nValidation passed with %d warning(s).\n", result.WarningCount())
	}

	return nil
}
