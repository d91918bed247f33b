package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// progressView says when a directory build draws the Bubble Tea progress
// view instead of compiling silently.
type progressView uint8

const (
	progressAuto progressView = iota
	progressAlways
	progressNever
)

func parseProgressView(value string) (progressView, error) {
	switch strings.TrimSpace(strings.ToLower(value)) {
	case "", "auto":
		return progressAuto, nil
	case "on", "always", "true":
		return progressAlways, nil
	case "off", "never", "false":
		return progressNever, nil
	default:
		return progressAuto, fmt.Errorf("invalid --ui value %q (expected auto|on|off)", value)
	}
}

// wantsProgressView resolves --ui and --quiet for a build of n files. In
// auto mode the view is drawn for multi-file builds on a terminal only.
func wantsProgressView(cmd *cobra.Command, n int) (bool, error) {
	value, err := cmd.Flags().GetString("ui")
	if err != nil {
		return false, err
	}
	view, err := parseProgressView(value)
	if err != nil {
		return false, err
	}
	quiet, err := cmd.Root().PersistentFlags().GetBool("quiet")
	if err != nil {
		return false, fmt.Errorf("failed to get quiet flag: %w", err)
	}
	switch {
	case quiet || view == progressNever:
		return false, nil
	case view == progressAlways:
		return true, nil
	}
	f := stdoutFile(cmd)
	return n > 1 && f != nil && isTerminal(f), nil
}
