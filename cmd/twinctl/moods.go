package main

import (
	"fmt"

	"ai-twin-be/pkg/persona"

	"github.com/spf13/cobra"
)

var moodsCmd = &cobra.Command{
	Use:   "moods",
	Short: "List the configured moods",
	Args:  cobra.NoArgs,
	RunE:  runMoods,
}

func runMoods(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(false)
	if err != nil {
		return err
	}
	p, err := persona.Load(cfg.App.PersonaFile)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	moods := p.AllMoods()
	if jsonOutput {
		return printJSON(out, moods)
	}

	w := newTabWriter(out)
	fmt.Fprintln(w, "ID\tNAME\tTEMP\tDESCRIPTION")
	for _, m := range moods {
		id := m.ID
		if id == p.DefaultMood {
			id += " *"
		}
		fmt.Fprintf(w, "%s\t%s %s\t%.1f\t%s\n", id, m.Icon, m.Name, m.Temperature, m.Description)
	}
	return w.Flush()
}
