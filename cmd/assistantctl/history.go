package main

import (
	"fmt"

	"ukuvi-assistant/cmd"
	"ukuvi-assistant/internal/chat"

	"github.com/spf13/cobra"
)

func NewHistoryCmd() *cobra.Command {
	historyCmd := &cobra.Command{
		Use:   "history <session-id>",
		Short: "Print the stored conversation of a session",
		Args:  cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			store := cmd.CreateStore(cmd.LoadConfig())
			limit, _ := c.Flags().GetInt("limit")
			return runHistory(c, store, args[0], limit)
		},
	}

	historyCmd.Flags().Int("limit", 0, "only show the most recent N exchanges")
	return historyCmd
}

func runHistory(c *cobra.Command, store chat.ConversationStore, sessionID string, limit int) error {
	conversations, err := store.QueryBySession(c.Context(), sessionID, limit)
	if err != nil {
		return fmt.Errorf("load history: %w", err)
	}

	if asJSON, _ := c.Flags().GetBool("json"); asJSON {
		return outputJSON(c, conversations)
	}

	out := c.OutOrStdout()
	if len(conversations) == 0 {
		fmt.Fprintf(out, "no conversations for session %s\n", sessionID)
		return nil
	}

	for _, conversation := range conversations {
		fmt.Fprintf(out, "[%s]\n> %s\n%s\n\n", conversation.CreatedAt.Format("2006-01-02 15:04:05"), conversation.UserMessage, conversation.BotResponse)
	}
	return nil
}
