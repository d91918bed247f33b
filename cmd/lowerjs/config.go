package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"lowerjs/internal/project"
)

var configCmd = &cobra.Command{
	Use:   "config [flags] [path]",
	Short: "Show the effective project settings",
	Long: `Config prints the manifest that "lowerjs build" would use for path,
after the build flags given here are applied.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runConfig,
}

func init() {
	configCmd.Flags().String("output", "toml", "output format (toml|json)")
	addModuleFlags(configCmd.Flags())
}

func runConfig(cmd *cobra.Command, args []string) error {
	target := "."
	if len(args) > 0 {
		target = args[0]
	}
	info, err := os.Stat(target)
	if err != nil {
		return fmt.Errorf("failed to stat path: %w", err)
	}
	m, err := loadManifest(cmd, target, info.IsDir())
	if err != nil {
		return err
	}
	if err := applyBuildFlags(cmd, &m); err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if m.Path != "" {
		fmt.Fprintf(cmd.ErrOrStderr(), "# from %s\n", m.Path)
	}

	output, err := cmd.Flags().GetString("output")
	if err != nil {
		return err
	}
	switch output {
	case "toml":
		return m.Encode(out)
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(struct {
			Format string               `json:"format"`
			Module any                  `json:"module"`
			Build  project.BuildSection `json:"build"`
		}{m.Module.Format, m.Module.Config, m.Build})
	}
	return fmt.Errorf("unsupported output %q (must be toml or json)", output)
}
