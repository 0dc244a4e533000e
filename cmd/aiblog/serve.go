package main

import (
	"context"

	"github.com/spf13/cobra"

	"aiblog/internal/generate"
	"aiblog/internal/serve"
)

func newServeCmd(e *env) *cobra.Command {
	var (
		addr    string
		noWatch bool
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the blog, its JSON API and the generation endpoint",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if addr == "" {
				addr = e.cfg.Server.Addr
			}
			if noWatch {
				e.cfg.Server.Watch = false
			}

			runs, err := openRuns(e)
			if err != nil {
				return err
			}
			defer runs.Close()

			var gen serve.Generator
			g, err := newGenerator(ctx, e, runs)
			if err != nil {
				e.log.WithError(err).Warn("generation disabled until credentials are configured")
				genErr := err
				gen = serve.GeneratorFunc(func(context.Context) (generate.Result, error) {
					return generate.Result{}, genErr
				})
			} else {
				gen = g
			}

			s, err := serve.New(serve.Options{
				Config:    e.cfg,
				Store:     newStore(e, true),
				Generator: gen,
				Runs:      runs,
				Metrics:   e.metrics,
				Logger:    e.log,
			})
			if err != nil {
				return err
			}
			defer s.Close()

			return s.ListenAndServe(ctx, addr)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default server.addr)")
	cmd.Flags().BoolVar(&noWatch, "no-watch", false, "disable the content watcher and live reload")
	return cmd
}
