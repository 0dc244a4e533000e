package main

import (
	"encoding/json"

	"github.com/spf13/cobra"
)

func newGenerateCmd(e *env) *cobra.Command {
	var (
		topic      string
		oncePerDay bool
		noPublish  bool
	)
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Write one article from today's headlines and publish it",
		RunE: func(cmd *cobra.Command, args []string) error {
			if topic != "" {
				e.cfg.Generate.Topic = topic
			}
			if cmd.Flags().Changed("once-per-day") {
				e.cfg.Generate.OncePerDay = oncePerDay
			}
			if noPublish {
				e.cfg.Publish.Enabled = false
			}

			runs, err := openRuns(e)
			if err != nil {
				return err
			}
			defer runs.Close()

			g, err := newGenerator(cmd.Context(), e, runs)
			if err != nil {
				return err
			}
			res, err := g.Run(cmd.Context())
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(res)
		},
	}
	cmd.Flags().StringVar(&topic, "topic", "", "override generate.topic")
	cmd.Flags().BoolVar(&oncePerDay, "once-per-day", false, "refuse a second article for the same topic and day")
	cmd.Flags().BoolVar(&noPublish, "no-publish", false, "write the file locally without committing it")
	return cmd
}
