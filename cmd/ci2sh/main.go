// Package main provides the ci2sh CLI tool for converting cloud-init YAML
// into an equivalent bash user-data script.
package main

import (
	"fmt"
	"os"

	"github.com/jaspreet-dot-casa/cloud-init-to-bash/pkg/cloudinit"
	"github.com/jaspreet-dot-casa/cloud-init-to-bash/pkg/generator"
	"github.com/spf13/cobra"
)

// version is set via -ldflags during build
var version = "dev"

func main() {
	rootCmd := newRootCmd()

	// Cobra handles error printing
	rootCmd.SilenceUsage = true

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// newRootCmd creates the root command for ci2sh
func newRootCmd() *cobra.Command {
	var outputPath string

	rootCmd := &cobra.Command{
		Use:   "ci2sh <cloud-init-yaml-path> [username]",
		Short: "Convert cloud-init YAML to a bash script",
		Long: `ci2sh converts a restricted subset of cloud-init YAML into an equivalent
bash script, for provisioning APIs (such as Lightsail) that only accept
shell user-data.

It handles the packages, write_files, runcmd and ssh_pwauth keys. The
optional username argument rewrites ubuntu-specific paths and ownership
for a different target user (default: ubuntu).`,
		Version: version,
		Args:    cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConvert(cmd, args, outputPath)
		},
	}

	rootCmd.Flags().StringVarP(&outputPath, "output", "o", "", "Write the script to a file instead of stdout")

	rootCmd.AddCommand(
		newValidateCmd(),
	)

	return rootCmd
}

// runConvert parses the cloud-init file and prints the generated script.
func runConvert(cmd *cobra.Command, args []string, outputPath string) error {
	path := args[0]
	user := generator.DefaultUser
	if len(args) > 1 {
		user = args[1]
	}

	cfg, err := cloudinit.ParseFile(path)
	if err != nil {
		return err
	}

	script := generator.Script(cfg, user)

	if outputPath != "" {
		if err := os.WriteFile(outputPath, []byte(script+"\n"), 0755); err != nil {
			return fmt.Errorf("failed to write script: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", outputPath)
		return nil
	}

	fmt.Fprintln(cmd.OutOrStdout(), script)
	return nil
}
