package main

import (
	"fmt"
	"io"
	"strings"

	"ai-twin-be/internal/bootstrap"
	"ai-twin-be/internal/dto"
	"ai-twin-be/pkg/rag/orchestrator"

	"github.com/spf13/cobra"
)

var (
	askMood    string
	askSession string
)

var askCmd = &cobra.Command{
	Use:   "ask <question>",
	Short: "Run one chat turn through the full pipeline and stream the reply",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runAsk,
}

func init() {
	askCmd.Flags().StringVar(&askMood, "mood", "", "Mood id (professional, casual, genz)")
	askCmd.Flags().StringVar(&askSession, "session", "", "Session id to load and persist history under")
}

func runAsk(cmd *cobra.Command, args []string) error {
	question := strings.Join(args, " ")

	return withContainer(cmd.Context(), true, func(c *bootstrap.Container) error {
		req := &dto.ChatRequest{
			Messages:  []dto.ChatMessageDTO{{Role: "user", Content: question}},
			Mood:      askMood,
			SessionId: askSession,
		}
		turn, res, err := c.ChatbotService.PrepareChat(cmd.Context(), req)
		if err != nil {
			return err
		}
		if res.Terminal() {
			return printOutcome(cmd.OutOrStdout(), res)
		}

		out := cmd.OutOrStdout()
		result, err := turn.Run(cmd.Context(), func(s string) error {
			_, err := io.WriteString(out, s)
			return err
		})
		if err != nil {
			return err
		}
		fmt.Fprintln(out)

		if jsonOutput {
			return printJSON(cmd.ErrOrStderr(), result)
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "[mood=%s chunks=%d faq=%t truncated=%t]\n",
			result.Mood, result.ChunksUsed, result.UsedFAQ, result.Truncated)
		return nil
	})
}

func printOutcome(w io.Writer, res orchestrator.StageResult) error {
	if jsonOutput {
		return printJSON(w, map[string]any{
			"status":  res.Status.String(),
			"error":   res.Kind,
			"message": res.Message,
		})
	}
	fmt.Fprintf(w, "[%s: %s] %s\n", res.Status, res.Kind, res.Message)
	return nil
}
