package main

import (
	"fmt"

	"ukuvi-assistant/cmd"
	"ukuvi-assistant/internal/chat"
	"ukuvi-assistant/internal/storage"

	"github.com/spf13/cobra"
)

func NewExportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export <session-id>",
		Short: "Write a session transcript to the export bucket",
		Args:  cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			cfg := cmd.LoadConfig()
			store := cmd.CreateStore(cfg)
			objects := cmd.CreateObjectStore(c.Context(), cfg)
			return runExport(c, store, objects, cfg.ExportBucket, args[0])
		},
	}
}

func runExport(c *cobra.Command, store chat.ConversationStore, objects storage.ObjectStore, bucket, sessionID string) error {
	key, err := chat.ExportTranscript(c.Context(), store, objects, bucket, sessionID)
	if err != nil {
		return fmt.Errorf("export transcript: %w", err)
	}

	if asJSON, _ := c.Flags().GetBool("json"); asJSON {
		return outputJSON(c, map[string]string{"bucket": bucket, "key": key})
	}

	fmt.Fprintf(c.OutOrStdout(), "%s/%s\n", bucket, key)
	return nil
}
