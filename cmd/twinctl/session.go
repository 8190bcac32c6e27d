package main

import (
	"fmt"

	"ai-twin-be/internal/bootstrap"

	"github.com/spf13/cobra"
)

var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Inspect or clear stored conversation sessions",
}

var sessionShowCmd = &cobra.Command{
	Use:   "show <session-id>",
	Short: "Print the stored history of a session",
	Args:  cobra.ExactArgs(1),
	RunE:  runSessionShow,
}

var sessionClearCmd = &cobra.Command{
	Use:   "clear <session-id>",
	Short: "Delete a session",
	Args:  cobra.ExactArgs(1),
	RunE:  runSessionClear,
}

func init() {
	sessionCmd.AddCommand(sessionShowCmd, sessionClearCmd)
}

func runSessionShow(cmd *cobra.Command, args []string) error {
	return withContainer(cmd.Context(), false, func(c *bootstrap.Container) error {
		s, err := c.ChatbotService.GetSession(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if jsonOutput {
			return printJSON(out, s)
		}

		if len(s.Messages) == 0 {
			fmt.Fprintln(out, "Session is empty.")
			return nil
		}
		fmt.Fprintf(out, "Session %s (mood: %s)\n", s.SessionId, s.Mood)
		for _, m := range s.Messages {
			fmt.Fprintf(out, "%-9s %s\n", m.Role+":", m.Content)
		}
		for t, instruction := range s.Feedback {
			fmt.Fprintf(out, "preference %s: %s\n", t, instruction)
		}
		return nil
	})
}

func runSessionClear(cmd *cobra.Command, args []string) error {
	return withContainer(cmd.Context(), false, func(c *bootstrap.Container) error {
		if err := c.ChatbotService.ClearSession(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Cleared session %s\n", args[0])
		return nil
	})
}
