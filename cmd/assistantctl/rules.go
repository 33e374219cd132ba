package main

import (
	"fmt"
	"strings"

	"ukuvi-assistant/internal/rules"

	"github.com/spf13/cobra"
)

func NewRulesCmd() *cobra.Command {
	rulesCmd := &cobra.Command{
		Use:   "rules",
		Short: "Work with keyword rule tables",
	}

	rulesCmd.AddCommand(newRulesCheckCmd(), newRulesMatchCmd(), newRulesDefaultCmd())
	return rulesCmd
}

func newRulesCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check <file>",
		Short: "Validate a rule file",
		Args:  cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			table, err := rules.LoadFile(args[0])
			if err != nil {
				return err
			}

			if asJSON, _ := c.Flags().GetBool("json"); asJSON {
				return outputJSON(c, table.Entries())
			}

			out := c.OutOrStdout()
			fmt.Fprintf(out, "%s: %d entries\n", args[0], table.Len())
			for _, entry := range table.Entries() {
				if entry.IsFallback() {
					fmt.Fprintf(out, "  %-20s fallback\n", entry.Name)
					continue
				}
				fmt.Fprintf(out, "  %-20s priority=%d keywords=%d\n", entry.Name, entry.Priority, len(entry.Keywords))
			}
			return nil
		},
	}
}

func newRulesMatchCmd() *cobra.Command {
	matchCmd := &cobra.Command{
		Use:   "match <message>",
		Short: "Show which rule answers a message",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			table := rules.Default()
			if file, _ := c.Flags().GetString("file"); file != "" {
				loaded, err := rules.LoadFile(file)
				if err != nil {
					return err
				}
				table = loaded
			}

			entry := table.Select(strings.Join(args, " "))

			if asJSON, _ := c.Flags().GetBool("json"); asJSON {
				return outputJSON(c, map[string]any{
					"rule":     entry.Name,
					"priority": entry.Priority,
					"response": entry.Response,
				})
			}

			fmt.Fprintf(c.OutOrStdout(), "rule: %s\n\n%s\n", entry.Name, entry.Response)
			return nil
		},
	}

	matchCmd.Flags().String("file", "", "rule file (default: built-in table)")
	return matchCmd
}

func newRulesDefaultCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "default",
		Short: "Print the built-in rule table",
		Args:  cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			_, err := c.OutOrStdout().Write(rules.DefaultYAML())
			return err
		},
	}
}
