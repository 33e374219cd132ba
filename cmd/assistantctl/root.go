package main

import (
	"encoding/json"

	"ukuvi-assistant/cmd"

	"github.com/spf13/cobra"
)

func NewRootCmd(version string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "assistantctl",
		Short:         "Operate the UKUVI support assistant",
		Long:          `Validate and try rule tables, inspect stored conversations and export transcripts.`,
		Version:       version,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRun: func(c *cobra.Command, _ []string) {
			envFile, _ := c.Flags().GetString("env")
			if envFile != "" {
				cmd.LoadEnvFrom(envFile)
			}
		},
		Run: func(c *cobra.Command, _ []string) {
			_ = c.Help()
		},
	}

	rootCmd.PersistentFlags().String("env", "", "path to load env from")
	rootCmd.PersistentFlags().Bool("json", false, "Output in JSON format")

	rootCmd.AddCommand(
		NewRulesCmd(),
		NewHistoryCmd(),
		NewExportCmd(),
		NewChatCmd(),
	)

	return rootCmd
}

func outputJSON(c *cobra.Command, v any) error {
	enc := json.NewEncoder(c.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
