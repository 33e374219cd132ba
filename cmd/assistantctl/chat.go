package main

import (
	"errors"
	"fmt"
	"strings"

	"ukuvi-assistant/pkg/api"

	"github.com/go-resty/resty/v2"
	"github.com/spf13/cobra"
)

func NewChatCmd() *cobra.Command {
	chatCmd := &cobra.Command{
		Use:   "chat <message>",
		Short: "Send a message to a running assistant server",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			server, _ := c.Flags().GetString("server")
			sessionID, _ := c.Flags().GetString("session")
			return runChat(c, resty.New().SetBaseURL(server), sessionID, strings.Join(args, " "))
		},
	}

	chatCmd.Flags().String("server", "http://localhost:3001", "assistant server URL")
	chatCmd.Flags().String("session", "", "session id (default: start a new session)")
	return chatCmd
}

func runChat(c *cobra.Command, client *resty.Client, sessionID, message string) error {
	if sessionID == "" {
		var session api.StartSessionResponse
		res, err := client.R().SetContext(c.Context()).SetResult(&session).Post("/api/chat/sessions")
		if err != nil {
			return fmt.Errorf("start session: %w", err)
		}
		if !res.IsSuccess() {
			return fmt.Errorf("start session: server returned %s", res.Status())
		}
		sessionID = session.SessionID
	}

	var reply api.ChatResponse
	var failure api.ErrorResponse
	res, err := client.R().
		SetContext(c.Context()).
		SetBody(map[string]string{"message": message, "sessionId": sessionID}).
		SetResult(&reply).
		SetError(&failure).
		Post("/api/chat")
	if err != nil {
		return fmt.Errorf("send message: %w", err)
	}
	if !res.IsSuccess() {
		if failure.Error != "" {
			return errors.New(failure.Error)
		}
		return fmt.Errorf("send message: server returned %s", res.Status())
	}

	if asJSON, _ := c.Flags().GetBool("json"); asJSON {
		return outputJSON(c, reply)
	}

	fmt.Fprintf(c.OutOrStdout(), "session: %s\n\n%s\n", reply.SessionID, reply.Response)
	return nil
}
