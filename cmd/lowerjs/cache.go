package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect or clear the lowered-output cache",
}

var cacheStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print the number of cached modules",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cache, err := openCache(cmd)
		if err != nil {
			return err
		}
		defer cache.Close()
		n, err := cache.Len()
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%d entries\n", n)
		return nil
	},
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove every cached module",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cache, err := openCache(cmd)
		if err != nil {
			return err
		}
		defer cache.Close()
		return cache.Clear()
	},
}

func init() {
	cacheCmd.PersistentFlags().String("cache-path", "", "cache database (default in the user cache dir)")
	cacheCmd.AddCommand(cacheStatsCmd, cacheClearCmd)
}
