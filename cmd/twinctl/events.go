package main

import (
	"context"
	"errors"
	"fmt"

	"ai-twin-be/pkg/events"
	pktNats "ai-twin-be/pkg/nats"

	"github.com/spf13/cobra"
)

var tailDurable string

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "Work with the NATS event stream",
}

var eventsTailCmd = &cobra.Command{
	Use:   "tail",
	Short: "Print CHAT_COMPLETED events as they arrive",
	Args:  cobra.NoArgs,
	RunE:  runEventsTail,
}

func init() {
	eventsTailCmd.Flags().StringVar(&tailDurable, "durable", "", "Durable consumer name (resumes where it left off)")
	eventsCmd.AddCommand(eventsTailCmd)
}

func runEventsTail(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(false)
	if err != nil {
		return err
	}
	if cfg.Nats.URL == "" {
		return errors.New("NATS_URL is not set")
	}

	sub, err := pktNats.NewSubscriber(cfg.Nats.URL)
	if err != nil {
		return err
	}
	defer sub.Close()

	out := cmd.OutOrStdout()
	stop, err := sub.Subscribe(cmd.Context(), events.ChatCompleted, tailDurable, func(ctx context.Context, e events.Event) error {
		if jsonOutput {
			return printJSON(out, map[string]any{
				"type":        e.EventType(),
				"occurred_at": e.Timestamp(),
				"data":        e.Payload(),
			})
		}
		p, err := events.DecodeChatCompleted(e)
		if err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "skipping event: %v\n", err)
			return nil
		}
		_, err = fmt.Fprintf(out, "%s  %-12s %-12s chunks=%d faq=%t %dms\n",
			e.Timestamp().Format("15:04:05"), p.Mood, p.QuestionTopic,
			p.ChunksUsed, p.UsedFAQ, p.ResponseMs)
		return err
	})
	if err != nil {
		return err
	}
	defer stop()

	fmt.Fprintln(cmd.ErrOrStderr(), "Waiting for events (Ctrl-C to stop)...")
	<-cmd.Context().Done()
	return nil
}
