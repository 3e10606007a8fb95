package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newRootCommand() *cobra.Command {
	flags := &globalFlags{}
	ctx := newCommandContext(flags)

	rootCmd := &cobra.Command{
		Use:           appName,
		Short:         "Burn a running H:MM:SS.T timer into videos",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if shouldSkipConfig(cmd) {
				return nil
			}
			_, err := ctx.ensureConfig()
			return err
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&flags.configPath, "config", "c", "", "Configuration file path (default ~/.config/clockvid/config.toml)")
	pf.BoolVarP(&flags.verbose, "verbose", "v", false, "Enable verbose output for troubleshooting")
	pf.BoolVar(&flags.json, "json", false, "Emit newline-delimited JSON events instead of text")
	pf.StringVarP(&flags.logDir, "log-dir", "l", "", "Log directory")
	pf.BoolVar(&flags.noLog, "no-log", false, "Disable log file creation")
	pf.StringVar(&flags.tempDir, "temp-dir", "", "Directory for intermediate files")
	pf.StringVar(&flags.metricsFile, "metrics-file", "", "Write Prometheus metrics to this textfile on exit")

	rootCmd.AddCommand(newOverlayCommand(ctx))
	rootCmd.AddCommand(newTimerCommand(ctx))
	rootCmd.AddCommand(newLabelCommand())
	rootCmd.AddCommand(newProbeCommand(ctx))
	rootCmd.AddCommand(newVersionCommand())

	return rootCmd
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:         "version",
		Short:       "Print version information",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "%s version %s\n", appName, appVersion)
			return err
		},
	}
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}
